package pet

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/JS-Ranker/tester/pkg/database"
	"github.com/JS-Ranker/tester/pkg/logger"
	"github.com/JS-Ranker/tester/pkg/pagination"
	"github.com/JS-Ranker/tester/pkg/types"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	db, err := database.Open(postgres.New(postgres.Config{Conn: sqlDB}), logger.Discard())
	require.NoError(t, err)
	return db, mock, sqlDB
}

var petColumns = []string{"id", "created_at", "updated_at", "owner_id", "name", "species", "breed", "sex", "birth_date", "weight_kg", "notes"}

func TestGormStore_List(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	ownerID := uuid.New()
	now := time.Now()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "pets" WHERE owner_id = \$1 AND species = \$2 AND \(LOWER\(name\) LIKE \$3 OR LOWER\(breed\) LIKE \$4\)`).
		WithArgs(ownerID, "dog", "%lab%", "%lab%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT \* FROM "pets" WHERE owner_id = \$1 AND species = \$2 .* ORDER BY name ASC, created_at ASC`).
		WillReturnRows(sqlmock.NewRows(petColumns).
			AddRow(uuid.NewString(), now, now, ownerID.String(), "Firulais", "dog", "Labrador", "male", nil, "12.500", nil))

	pets, total, err := NewGormStore(db).List(context.Background(), ownerID,
		ListFilters{Species: types.SpeciesDog, Keyword: "Lab"},
		pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, pets, 1)
	assert.Equal(t, "Firulais", pets[0].Name)
	require.NotNil(t, pets[0].WeightKg)
	assert.Equal(t, "12.5", pets[0].WeightKg.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_CreateAndCount(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	ownerID := uuid.New()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "pets" WHERE owner_id = \$1`).
		WithArgs(ownerID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectExec(`INSERT INTO "pets"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewGormStore(db)
	count, err := store.CountByOwner(context.Background(), ownerID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	p := &Pet{OwnerID: ownerID, Name: "Michi", Species: types.SpeciesCat, Sex: types.SexFemale}
	require.NoError(t, store.Create(context.Background(), p))
	assert.NotEqual(t, uuid.Nil, p.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_ScopedToOwner(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	ownerID, petID := uuid.New(), uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "pets" WHERE id = \$1 AND owner_id = \$2`).
		WillReturnRows(sqlmock.NewRows(petColumns))
	mock.ExpectExec(`UPDATE "pets" SET .* WHERE id = \$\d+ AND owner_id = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "pets" WHERE id = \$1 AND owner_id = \$2`).
		WithArgs(petID, ownerID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	store := NewGormStore(db)
	_, err := store.Get(context.Background(), ownerID, petID)
	assert.ErrorIs(t, err, ErrPetNotFound)

	p := &Pet{OwnerID: ownerID, Name: "Michi", Species: types.SpeciesCat, Sex: types.SexFemale}
	p.ID = petID
	assert.ErrorIs(t, store.Update(context.Background(), p), ErrPetNotFound)
	assert.ErrorIs(t, store.Delete(context.Background(), ownerID, petID), ErrPetNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
