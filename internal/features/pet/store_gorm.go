package pet

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/JS-Ranker/tester/pkg/pagination"
)

// GormStore keeps pets in PostgreSQL.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a GormStore.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) List(ctx context.Context, ownerID uuid.UUID, filters ListFilters, params pagination.Params) ([]Pet, int64, error) {
	query := s.db.WithContext(ctx).Model(&Pet{}).Where("owner_id = ?", ownerID)

	if filters.Species != "" {
		query = query.Where("species = ?", filters.Species)
	}

	if filters.Keyword != "" {
		keyword := "%" + strings.ToLower(filters.Keyword) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(breed) LIKE ?", keyword, keyword)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	pets := make([]Pet, 0)
	err := query.
		Order("name ASC, created_at ASC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&pets).Error

	return pets, total, err
}

func (s *GormStore) Get(ctx context.Context, ownerID, id uuid.UUID) (Pet, error) {
	var p Pet
	err := s.db.WithContext(ctx).First(&p, "id = ? AND owner_id = ?", id, ownerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return p, ErrPetNotFound
	}
	return p, err
}

func (s *GormStore) Create(ctx context.Context, p *Pet) error {
	return s.db.WithContext(ctx).Omit("Owner").Create(p).Error
}

func (s *GormStore) Update(ctx context.Context, p *Pet) error {
	p.UpdatedAt = time.Now()
	result := s.db.WithContext(ctx).Model(&Pet{}).
		Where("id = ? AND owner_id = ?", p.ID, p.OwnerID).
		Updates(map[string]interface{}{
			"name":       p.Name,
			"species":    p.Species,
			"breed":      p.Breed,
			"sex":        p.Sex,
			"birth_date": p.BirthDate,
			"weight_kg":  p.WeightKg,
			"notes":      p.Notes,
			"updated_at": p.UpdatedAt,
		})
	return affected(result)
}

func (s *GormStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&Pet{})
	return affected(result)
}

func (s *GormStore) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&Pet{}).Where("owner_id = ?", ownerID).Count(&count).Error
	return count, err
}

func affected(result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPetNotFound
	}
	return nil
}
