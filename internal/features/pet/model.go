package pet

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JS-Ranker/tester/internal/features/owner"
	"github.com/JS-Ranker/tester/pkg/types"
)

// Pet is an animal registered by an owner.
type Pet struct {
	types.BaseModel
	OwnerID   uuid.UUID     `gorm:"type:uuid;not null;index;column:owner_id" json:"ownerId"`
	Owner     *owner.Owner  `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	Name      string        `gorm:"type:varchar(50);not null;column:name" json:"name"`
	Species   types.Species `gorm:"type:varchar(20);not null;index;column:species" json:"species"`
	Breed     *string       `gorm:"type:varchar(60);column:breed" json:"breed,omitempty"`
	Sex       types.Sex     `gorm:"type:varchar(10);not null;column:sex" json:"sex"`
	BirthDate *time.Time    `gorm:"type:date;column:birth_date" json:"birthDate,omitempty"`
	WeightKg  *types.Weight `gorm:"type:numeric(6,3);column:weight_kg" json:"weightKg,omitempty"`
	Notes     *string       `gorm:"type:text;column:notes" json:"notes,omitempty"`
}

// TableName overrides the default table name.
func (Pet) TableName() string { return "pets" }

// MaxPetsPerOwner caps how many pets a single owner can register.
const MaxPetsPerOwner = 50

const (
	maxNameLength  = 50
	maxBreedLength = 60
	maxNotesLength = 1000
)

var maxWeight = types.Weight(decimal.NewFromInt(200))

// CreateInput carries data for registering a pet.
type CreateInput struct {
	Name      string
	Species   string
	Breed     *string
	Sex       string
	BirthDate *time.Time
	WeightKg  *types.Weight
	Notes     *string
}

// UpdateInput captures mutable pet fields. The Provided flags distinguish an
// explicit null, which clears the field, from an absent key.
type UpdateInput struct {
	Name              *string
	Species           *string
	Sex               *string
	BreedProvided     bool
	Breed             *string
	BirthDateProvided bool
	BirthDate         *time.Time
	WeightProvided    bool
	WeightKg          *types.Weight
	NotesProvided     bool
	Notes             *string
}

// Create validates input and stores a new pet for ownerID.
func Create(ctx context.Context, store Store, ownerID uuid.UUID, input CreateInput) (Pet, error) {
	name, err := cleanName(input.Name)
	if err != nil {
		return Pet{}, err
	}
	species, ok := types.ParseSpecies(input.Species)
	if !ok {
		return Pet{}, ErrInvalidSpecies
	}
	sex, ok := types.ParseSex(input.Sex)
	if !ok {
		return Pet{}, ErrInvalidSex
	}
	breed, err := cleanOptional(input.Breed, maxBreedLength, ErrInvalidBreed)
	if err != nil {
		return Pet{}, err
	}
	notes, err := cleanOptional(input.Notes, maxNotesLength, ErrNotesTooLong)
	if err != nil {
		return Pet{}, err
	}
	if err := checkBirthDate(input.BirthDate); err != nil {
		return Pet{}, err
	}
	if err := checkWeight(input.WeightKg); err != nil {
		return Pet{}, err
	}

	count, err := store.CountByOwner(ctx, ownerID)
	if err != nil {
		return Pet{}, err
	}
	if count >= MaxPetsPerOwner {
		return Pet{}, ErrPetLimitReached
	}

	p := Pet{
		OwnerID:   ownerID,
		Name:      name,
		Species:   species,
		Breed:     breed,
		Sex:       sex,
		BirthDate: input.BirthDate,
		WeightKg:  input.WeightKg,
		Notes:     notes,
	}
	if err := store.Create(ctx, &p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

// Update applies input to p and persists it.
func Update(ctx context.Context, store Store, p Pet, input UpdateInput) (Pet, error) {
	changed := false

	if input.Name != nil {
		name, err := cleanName(*input.Name)
		if err != nil {
			return Pet{}, err
		}
		p.Name = name
		changed = true
	}

	if input.Species != nil {
		species, ok := types.ParseSpecies(*input.Species)
		if !ok {
			return Pet{}, ErrInvalidSpecies
		}
		p.Species = species
		changed = true
	}

	if input.Sex != nil {
		sex, ok := types.ParseSex(*input.Sex)
		if !ok {
			return Pet{}, ErrInvalidSex
		}
		p.Sex = sex
		changed = true
	}

	if input.BreedProvided {
		breed, err := cleanOptional(input.Breed, maxBreedLength, ErrInvalidBreed)
		if err != nil {
			return Pet{}, err
		}
		p.Breed = breed
		changed = true
	}

	if input.BirthDateProvided {
		if err := checkBirthDate(input.BirthDate); err != nil {
			return Pet{}, err
		}
		p.BirthDate = input.BirthDate
		changed = true
	}

	if input.WeightProvided {
		if err := checkWeight(input.WeightKg); err != nil {
			return Pet{}, err
		}
		p.WeightKg = input.WeightKg
		changed = true
	}

	if input.NotesProvided {
		notes, err := cleanOptional(input.Notes, maxNotesLength, ErrNotesTooLong)
		if err != nil {
			return Pet{}, err
		}
		p.Notes = notes
		changed = true
	}

	if !changed {
		return Pet{}, ErrNothingToUpdate
	}

	if err := store.Update(ctx, &p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func cleanName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	n := utf8.RuneCountInString(trimmed)
	if n < 1 || n > maxNameLength {
		return "", ErrInvalidName
	}
	return trimmed, nil
}

func cleanOptional(value *string, maxLength int, tooLong error) (*string, error) {
	if value == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(trimmed) > maxLength {
		return nil, tooLong
	}
	return &trimmed, nil
}

func checkBirthDate(date *time.Time) error {
	if date != nil && date.After(time.Now()) {
		return ErrFutureBirthDate
	}
	return nil
}

func checkWeight(weight *types.Weight) error {
	if weight == nil {
		return nil
	}
	if !weight.Positive() || weight.GreaterThan(maxWeight) {
		return ErrInvalidWeight
	}
	return nil
}
