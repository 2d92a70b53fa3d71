package pet

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/JS-Ranker/tester/internal/middleware"
	"github.com/JS-Ranker/tester/pkg/apperrors"
	"github.com/JS-Ranker/tester/pkg/pagination"
	"github.com/JS-Ranker/tester/pkg/request"
	"github.com/JS-Ranker/tester/pkg/response"
	"github.com/JS-Ranker/tester/pkg/types"
)

// Handler processes pet HTTP requests.
type Handler struct {
	store  Store
	logger *slog.Logger
}

// NewHandler constructs a pet handler instance.
func NewHandler(store Store, logger *slog.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// List returns the authenticated owner's pets, paginated.
func (h *Handler) List(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	var filters ListFilters
	if raw := strings.TrimSpace(c.Query("species")); raw != "" {
		species, ok := types.ParseSpecies(raw)
		if !ok {
			h.respondError(c, ErrInvalidSpecies, "invalid species")
			return
		}
		filters.Species = species
	}
	filters.Keyword = strings.TrimSpace(c.Query("filterKeyword"))

	params := pagination.Extract(c)
	pets, total, err := h.store.List(c.Request.Context(), principal.OwnerID, filters, params)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to list pets", err)
		return
	}

	response.Success(c, http.StatusOK, pets, "", pagination.MetadataFrom(total, params))
}

type createRequest struct {
	Name      string        `json:"name" binding:"required"`
	Species   string        `json:"species" binding:"required"`
	Breed     *string       `json:"breed"`
	Sex       string        `json:"sex"`
	BirthDate *string       `json:"birthDate"`
	WeightKg  *types.Weight `json:"weightKg"`
	Notes     *string       `json:"notes"`
}

// Create registers a pet for the authenticated owner.
func (h *Handler) Create(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	var req createRequest
	if appErr := request.BindJSON(c, &req, "invalid pet payload"); appErr != nil {
		response.AppError(h.logger, c, appErr)
		return
	}

	birthDate, err := request.ParseDatePtr(req.BirthDate)
	if err != nil {
		h.respondError(c, ErrInvalidBirthDate, "invalid birth date")
		return
	}

	p, err := Create(c.Request.Context(), h.store, principal.OwnerID, CreateInput{
		Name:      req.Name,
		Species:   req.Species,
		Breed:     req.Breed,
		Sex:       req.Sex,
		BirthDate: birthDate,
		WeightKg:  req.WeightKg,
		Notes:     req.Notes,
	})
	if err != nil {
		h.respondError(c, err, "failed to create pet")
		return
	}

	response.Created(c, p, "Pet registered")
}

// Get returns a single pet of the authenticated owner.
func (h *Handler) Get(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.petID(c)
	if !ok {
		return
	}

	p, err := h.store.Get(c.Request.Context(), principal.OwnerID, id)
	if err != nil {
		h.respondError(c, err, "failed to load pet")
		return
	}

	response.Success(c, http.StatusOK, p, "", nil)
}

// Update modifies a pet. Only keys present in the body are changed.
func (h *Handler) Update(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.petID(c)
	if !ok {
		return
	}

	current, err := h.store.Get(c.Request.Context(), principal.OwnerID, id)
	if err != nil {
		h.respondError(c, err, "failed to load pet")
		return
	}

	body := map[string]interface{}{}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid pet payload", err)
		return
	}

	input, appErr := parseUpdate(body)
	if appErr != nil {
		response.AppError(h.logger, c, appErr)
		return
	}

	updated, err := Update(c.Request.Context(), h.store, current, input)
	if err != nil {
		h.respondError(c, err, "failed to update pet")
		return
	}

	response.Success(c, http.StatusOK, updated, "Pet updated", nil)
}

// Delete removes a pet of the authenticated owner.
func (h *Handler) Delete(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.petID(c)
	if !ok {
		return
	}

	if err := h.store.Delete(c.Request.Context(), principal.OwnerID, id); err != nil {
		h.respondError(c, err, "failed to delete pet")
		return
	}

	response.Success(c, http.StatusOK, true, "Pet deleted", nil)
}

func parseUpdate(body map[string]interface{}) (UpdateInput, *apperrors.AppError) {
	input := UpdateInput{}

	for _, field := range []struct {
		key string
		dst **string
	}{
		{"name", &input.Name},
		{"species", &input.Species},
		{"sex", &input.Sex},
	} {
		value, ok := body[field.key]
		if !ok {
			continue
		}
		str, err := request.ReadString(value)
		if err != nil {
			return input, fieldError(field.key, "must be a non-empty string", err)
		}
		*field.dst = &str
	}

	if value, ok := body["breed"]; ok {
		input.BreedProvided = true
		breed, err := request.ReadOptionalString(value)
		if err != nil {
			return input, fieldError("breed", "must be a string", err)
		}
		input.Breed = breed
	}

	if value, ok := body["notes"]; ok {
		input.NotesProvided = true
		notes, err := request.ReadOptionalString(value)
		if err != nil {
			return input, fieldError("notes", "must be a string", err)
		}
		input.Notes = notes
	}

	if value, ok := body["birthDate"]; ok {
		input.BirthDateProvided = true
		raw, err := request.ReadOptionalString(value)
		if err != nil {
			return input, fieldError("birthDate", "must be a date (YYYY-MM-DD)", err)
		}
		date, err := request.ParseDatePtr(raw)
		if err != nil {
			return input, fieldError("birthDate", "must be a date (YYYY-MM-DD)", err)
		}
		input.BirthDate = date
	}

	if value, ok := body["weightKg"]; ok {
		input.WeightProvided = true
		weight, err := request.ReadWeight(value)
		if err != nil {
			return input, fieldError("weightKg", "must be a number", err)
		}
		input.WeightKg = weight
	}

	return input, nil
}

func fieldError(field, message string, err error) *apperrors.AppError {
	return apperrors.Validation("invalid pet payload", map[string]string{field: message}, err)
}

func (h *Handler) principal(c *gin.Context) (middleware.Principal, bool) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Authentication required", nil)
	}
	return principal, ok
}

func (h *Handler) petID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("petId"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid pet id", err)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	var appErr *apperrors.AppError
	switch {
	case errors.Is(err, ErrPetNotFound):
		appErr = apperrors.NotFound("Pet not found", err)
	case errors.Is(err, ErrPetLimitReached):
		appErr = apperrors.Conflict("You have reached the maximum number of pets", err)
	case errors.Is(err, ErrInvalidName):
		appErr = apperrors.Validation("Invalid pet name", map[string]string{"name": err.Error()}, err)
	case errors.Is(err, ErrInvalidSpecies):
		appErr = apperrors.Validation("Invalid species", map[string]string{"species": "must be one of: " + speciesList()}, err)
	case errors.Is(err, ErrInvalidSex):
		appErr = apperrors.Validation("Invalid sex", map[string]string{"sex": err.Error()}, err)
	case errors.Is(err, ErrInvalidBreed):
		appErr = apperrors.Validation("Invalid breed", map[string]string{"breed": err.Error()}, err)
	case errors.Is(err, ErrInvalidWeight):
		appErr = apperrors.Validation("Invalid weight", map[string]string{"weightKg": err.Error()}, err)
	case errors.Is(err, ErrInvalidBirthDate):
		appErr = apperrors.Validation("Invalid birth date", map[string]string{"birthDate": "must be a date (YYYY-MM-DD)"}, err)
	case errors.Is(err, ErrFutureBirthDate):
		appErr = apperrors.Validation("Invalid birth date", map[string]string{"birthDate": err.Error()}, err)
	case errors.Is(err, ErrNotesTooLong):
		appErr = apperrors.Validation("Notes are too long", map[string]string{"notes": err.Error()}, err)
	case errors.Is(err, ErrNothingToUpdate):
		appErr = apperrors.Validation("No fields to update", nil, err)
	default:
		appErr = apperrors.New(fallback, http.StatusInternalServerError, apperrors.ErrInternal, err)
	}
	response.AppError(h.logger, c, appErr)
}

func speciesList() string {
	names := make([]string, len(types.AllSpecies))
	for i, sp := range types.AllSpecies {
		names[i] = string(sp)
	}
	return strings.Join(names, ", ")
}
