package types

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Species is the kind of animal a pet is.
type Species string

const (
	SpeciesDog     Species = "dog"
	SpeciesCat     Species = "cat"
	SpeciesBird    Species = "bird"
	SpeciesRabbit  Species = "rabbit"
	SpeciesReptile Species = "reptile"
	SpeciesOther   Species = "other"
)

// AllSpecies lists the accepted species in display order.
var AllSpecies = []Species{SpeciesDog, SpeciesCat, SpeciesBird, SpeciesRabbit, SpeciesReptile, SpeciesOther}

// ParseSpecies normalizes s and checks it against AllSpecies.
func ParseSpecies(s string) (Species, bool) {
	candidate := Species(strings.ToLower(strings.TrimSpace(s)))
	for _, sp := range AllSpecies {
		if sp == candidate {
			return sp, true
		}
	}
	return "", false
}

// Sex of a pet.
type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexUnknown Sex = "unknown"
)

// ParseSex normalizes s; empty input maps to SexUnknown.
func ParseSex(s string) (Sex, bool) {
	switch Sex(strings.ToLower(strings.TrimSpace(s))) {
	case SexMale:
		return SexMale, true
	case SexFemale:
		return SexFemale, true
	case SexUnknown, "":
		return SexUnknown, true
	default:
		return "", false
	}
}

// BaseModel contains common fields for all models. IDs are assigned in Go so
// every store produces them the same way.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

// EnsureID assigns a random ID if none is set.
func (m *BaseModel) EnsureID() {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
}

// BeforeCreate is the gorm hook that calls EnsureID.
func (m *BaseModel) BeforeCreate(*gorm.DB) error {
	m.EnsureID()
	return nil
}

// Weight is a body weight in kilograms, kept exact to the gram.
type Weight decimal.Decimal

// NewWeightFromString parses a kilogram amount such as "4.25".
func NewWeightFromString(value string) (Weight, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return Weight{}, fmt.Errorf("invalid weight %q", value)
	}
	return Weight(d.Round(3)), nil
}

// Decimal exposes the underlying decimal value.
func (w Weight) Decimal() decimal.Decimal {
	return decimal.Decimal(w)
}

// String returns the kilogram amount without trailing zeros.
func (w Weight) String() string {
	return decimal.Decimal(w).String()
}

// Positive reports whether w > 0.
func (w Weight) Positive() bool {
	return decimal.Decimal(w).IsPositive()
}

// GreaterThan returns true if w > other
func (w Weight) GreaterThan(other Weight) bool {
	return decimal.Decimal(w).GreaterThan(decimal.Decimal(other))
}

// Value implements driver.Valuer for database serialization
func (w Weight) Value() (driver.Value, error) {
	return decimal.Decimal(w).Value()
}

// Scan implements sql.Scanner for database deserialization
func (w *Weight) Scan(value interface{}) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return err
	}
	*w = Weight(d)
	return nil
}

// MarshalJSON implements json.Marshaler
func (w Weight) MarshalJSON() ([]byte, error) {
	return decimal.Decimal(w).MarshalJSON()
}

// UnmarshalJSON accepts both JSON numbers and numeric strings.
func (w *Weight) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	*w = Weight(d.Round(3))
	return nil
}
