package owner

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/JS-Ranker/tester/pkg/rut"
)

// GormStore keeps owners in PostgreSQL.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a GormStore.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Create(ctx context.Context, o *Owner) error {
	err := s.db.WithContext(ctx).Create(o).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrRUTTaken
	}
	return err
}

func (s *GormStore) Get(ctx context.Context, id uuid.UUID) (Owner, error) {
	var o Owner
	err := s.db.WithContext(ctx).First(&o, "id = ?", id).Error
	return o, notFound(err)
}

func (s *GormStore) GetByRUT(ctx context.Context, id rut.RUT) (Owner, error) {
	var o Owner
	err := s.db.WithContext(ctx).First(&o, "rut = ?", id.Normalized()).Error
	return o, notFound(err)
}

func (s *GormStore) Update(ctx context.Context, o *Owner) error {
	o.UpdatedAt = time.Now()
	result := s.db.WithContext(ctx).Model(&Owner{}).Where("id = ?", o.ID).Updates(map[string]interface{}{
		"full_name":  o.FullName,
		"email":      o.Email,
		"phone":      o.Phone,
		"password":   o.PasswordHash,
		"is_active":  o.Active,
		"updated_at": o.UpdatedAt,
	})
	return affected(result)
}

func (s *GormStore) SetRefreshToken(ctx context.Context, id uuid.UUID, token *string) error {
	result := s.db.WithContext(ctx).Model(&Owner{}).Where("id = ?", id).Update("refresh_token", token)
	return affected(result)
}

func (s *GormStore) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&Owner{})
	return affected(result)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrOwnerNotFound
	}
	return err
}

func affected(result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOwnerNotFound
	}
	return nil
}
