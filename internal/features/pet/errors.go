package pet

import "errors"

var (
	ErrPetNotFound      = errors.New("pet not found")
	ErrPetLimitReached  = errors.New("pet limit reached for this owner")
	ErrInvalidName      = errors.New("name must be between 1 and 50 characters")
	ErrInvalidSpecies   = errors.New("invalid species")
	ErrInvalidSex       = errors.New("sex must be male, female or unknown")
	ErrInvalidBreed     = errors.New("breed must be at most 60 characters")
	ErrInvalidWeight    = errors.New("weight must be greater than 0 and at most 200 kg")
	ErrInvalidBirthDate = errors.New("invalid birth date")
	ErrFutureBirthDate  = errors.New("birth date cannot be in the future")
	ErrNotesTooLong     = errors.New("notes must be at most 1000 characters")
	ErrNothingToUpdate  = errors.New("no fields to update")
)
