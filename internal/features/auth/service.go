package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/JS-Ranker/tester/internal/features/owner"
	"github.com/JS-Ranker/tester/internal/utils/jwt"
	"github.com/JS-Ranker/tester/pkg/cache"
	"github.com/JS-Ranker/tester/pkg/config"
	"github.com/JS-Ranker/tester/pkg/email"
	"github.com/JS-Ranker/tester/pkg/metrics"
	"github.com/JS-Ranker/tester/pkg/rut"
)

type RegisterInput struct {
	RUT      string
	FullName string
	Email    *string
	Phone    *string
	Password string
}

type LoginInput struct {
	RUT      string
	Password string
}

type AuthResponse struct {
	Owner        *owner.Owner `json:"owner"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

// dummyHash is compared against when the RUT is unknown so both failure
// paths cost one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("vetportal-dummy"), bcrypt.DefaultCost)

// Service implements registration, login and token rotation.
type Service struct {
	owners   owner.Store
	attempts cache.Client
	issuer   *jwt.Issuer
	mailer   email.Sender
	security config.SecurityConfig
	logger   *slog.Logger

	background sync.WaitGroup
}

// NewService creates a Service. mailer may be nil to disable welcome email.
func NewService(owners owner.Store, attempts cache.Client, issuer *jwt.Issuer, mailer email.Sender, security config.SecurityConfig, logger *slog.Logger) *Service {
	return &Service{
		owners:   owners,
		attempts: attempts,
		issuer:   issuer,
		mailer:   mailer,
		security: security,
		logger:   logger,
	}
}

// Register creates an owner and signs them in.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*AuthResponse, error) {
	o, err := owner.Create(ctx, s.owners, owner.CreateInput{
		RUT:      input.RUT,
		FullName: input.FullName,
		Email:    input.Email,
		Phone:    input.Phone,
		Password: input.Password,
	}, s.security.MinPasswordLength)
	if err != nil {
		return nil, err
	}

	resp, err := s.issue(ctx, o)
	if err != nil {
		// undo Create so the RUT can be registered again
		if delErr := s.owners.Delete(ctx, o.ID); delErr != nil {
			s.logger.Error("failed to roll back registration",
				slog.String("ownerId", o.ID.String()),
				slog.String("error", delErr.Error()))
		}
		return nil, err
	}

	s.sendWelcome(o)
	return resp, nil
}

// Login authenticates by RUT and password. Failed attempts are counted per
// RUT; once the limit is reached the RUT is locked for the lockout window.
func (s *Service) Login(ctx context.Context, input LoginInput) (*AuthResponse, error) {
	id, err := rut.Parse(input.RUT)
	metrics.RecordRUTValidation("login", err == nil)
	if err != nil {
		metrics.RecordLogin("invalid_rut")
		return nil, fmt.Errorf("%w: %w", owner.ErrInvalidRUT, err)
	}

	if s.locked(ctx, id) {
		metrics.RecordLogin("locked")
		return nil, ErrTooManyAttempts
	}

	o, err := s.owners.GetByRUT(ctx, id)
	switch {
	case errors.Is(err, owner.ErrOwnerNotFound):
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(input.Password))
		return nil, s.failed(ctx, id)
	case err != nil:
		return nil, err
	}

	if !o.ComparePassword(input.Password) {
		return nil, s.failed(ctx, id)
	}

	if !o.Active {
		metrics.RecordLogin("inactive")
		return nil, ErrInactiveAccount
	}

	s.resetAttempts(ctx, id)

	resp, err := s.issue(ctx, o)
	if err != nil {
		return nil, err
	}
	metrics.RecordLogin("success")
	return resp, nil
}

// Refresh rotates the token pair. Only the most recently issued refresh token
// is accepted.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := s.issuer.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	o, err := s.owners.Get(ctx, claims.OwnerID)
	if errors.Is(err, owner.ErrOwnerNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}

	if o.RefreshToken == nil || !digestEqual(*o.RefreshToken, digest(refreshToken)) {
		return nil, ErrInvalidToken
	}
	if !o.Active {
		return nil, ErrInactiveAccount
	}

	return s.issue(ctx, o)
}

// Logout revokes the owner's refresh token.
func (s *Service) Logout(ctx context.Context, ownerID uuid.UUID) error {
	return s.owners.SetRefreshToken(ctx, ownerID, nil)
}

// Wait blocks until background work such as welcome emails has finished.
func (s *Service) Wait() {
	s.background.Wait()
}

func (s *Service) issue(ctx context.Context, o owner.Owner) (*AuthResponse, error) {
	pair, err := s.issuer.Pair(o.ID)
	if err != nil {
		return nil, fmt.Errorf("sign tokens: %w", err)
	}

	stored := digest(pair.RefreshToken)
	if err := s.owners.SetRefreshToken(ctx, o.ID, &stored); err != nil {
		return nil, err
	}
	o.RefreshToken = &stored

	return &AuthResponse{
		Owner:        &o,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

func attemptsKey(id rut.RUT) string {
	return "login:attempts:" + id.Normalized()
}

// locked fails open: if the cache is unreachable logins are not blocked.
func (s *Service) locked(ctx context.Context, id rut.RUT) bool {
	value, err := s.attempts.Get(ctx, attemptsKey(id))
	if errors.Is(err, cache.ErrMiss) {
		return false
	}
	if err != nil {
		s.logger.Warn("login attempt lookup failed", slog.String("error", err.Error()))
		return false
	}
	count, err := strconv.Atoi(value)
	return err == nil && count >= s.security.LoginMaxAttempts
}

func (s *Service) failed(ctx context.Context, id rut.RUT) error {
	key := attemptsKey(id)
	count, err := s.attempts.Increment(ctx, key)
	if err != nil {
		s.logger.Warn("login attempt count failed", slog.String("error", err.Error()))
		metrics.RecordLogin("invalid_credentials")
		return ErrInvalidCredentials
	}
	if count == 1 {
		if err := s.attempts.Expire(ctx, key, s.security.LoginLockout); err != nil {
			s.logger.Warn("login attempt expiry failed", slog.String("error", err.Error()))
		}
	}

	if int(count) >= s.security.LoginMaxAttempts {
		s.logger.Warn("owner login locked", slog.String("rut", id.String()), slog.Int64("attempts", count))
	}
	metrics.RecordLogin("invalid_credentials")
	return ErrInvalidCredentials
}

func (s *Service) resetAttempts(ctx context.Context, id rut.RUT) {
	if err := s.attempts.Delete(ctx, attemptsKey(id)); err != nil {
		s.logger.Warn("login attempt reset failed", slog.String("error", err.Error()))
	}
}

func (s *Service) sendWelcome(o owner.Owner) {
	if s.mailer == nil || o.Email == nil {
		return
	}

	to, name, formatted := *o.Email, o.FullName, o.RUT.String()
	s.background.Add(1)
	go func() {
		defer s.background.Done()
		if err := s.mailer.SendWelcome(to, name, formatted); err != nil {
			s.logger.Error("failed to send welcome email",
				slog.String("owner_id", o.ID.String()),
				slog.String("error", err.Error()))
		}
	}()
}

func digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func digestEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
