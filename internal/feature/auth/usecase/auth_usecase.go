package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"nexusauth/internal/feature/auth/domain/entity"
)

// DefaultBcryptCost is the fixed work factor used to hash passwords.
const DefaultBcryptCost = 10

// dummyHash is compared against when the account does not exist so that
// unknown emails and wrong passwords take the same time.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthResult is returned by a successful registration or login.
type AuthResult struct {
	User  entity.Profile
	Token string
}

// Option configures an AuthUsecase.
type Option func(*AuthUsecase)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(u *AuthUsecase) { u.now = now }
}

// WithBcryptCost overrides the bcrypt work factor.
func WithBcryptCost(cost int) Option {
	return func(u *AuthUsecase) { u.cost = cost }
}

// AuthUsecase implements registration and login.
type AuthUsecase struct {
	store  CredentialStore
	tokens TokenIssuer
	now    func() time.Time
	cost   int
}

// NewAuthUsecase creates a new AuthUsecase.
func NewAuthUsecase(store CredentialStore, tokens TokenIssuer, opts ...Option) *AuthUsecase {
	u := &AuthUsecase{
		store:  store,
		tokens: tokens,
		now:    time.Now,
		cost:   DefaultBcryptCost,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Register creates a new identity and issues a token for it.
func (u *AuthUsecase) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	if err := requireFields(map[string]string{"name": name, "email": email, "password": password}); err != nil {
		return nil, err
	}

	existing, err := u.store.FindByEmail(ctx, email)
	switch {
	case err == nil && existing != nil:
		return nil, ErrDuplicateEmail
	case err != nil && !errors.Is(err, ErrIdentityNotFound):
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), u.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: password must be at most 72 bytes", ErrValidation)
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := u.now()
	identity := &entity.Identity{
		ID:            uuid.NewString(),
		Email:         email,
		PasswordHash:  string(hashed),
		Name:          name,
		LastLogin:     now,
		SecurityScore: entity.DefaultSecurityScore,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	// The storage unique index is authoritative; the pre-check above only
	// short-circuits the common case.
	if err := u.store.Create(ctx, identity); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create identity: %w", err)
	}

	return u.issue(identity)
}

// Login verifies the credentials, records the login time and issues a token.
// Unknown emails and wrong passwords are reported with distinct errors.
func (u *AuthUsecase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if err := requireFields(map[string]string{"email": email, "password": password}); err != nil {
		return nil, err
	}

	identity, err := u.store.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrIdentityNotFound) {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}

	passwordHash := dummyHash
	if identity != nil {
		passwordHash = identity.PasswordHash
	}
	// Always compare so that both failure branches cost one bcrypt run.
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))

	if identity == nil {
		return nil, ErrAccountNotFound
	}
	if compareErr != nil {
		return nil, ErrInvalidCredentials
	}

	now := u.now()
	updated, err := u.store.Update(ctx, identity.ID, entity.IdentityPatch{LastLogin: &now})
	if err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}

	return u.issue(updated)
}

func (u *AuthUsecase) issue(identity *entity.Identity) (*AuthResult, error) {
	token, err := u.tokens.GenerateToken(identity.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResult{User: identity.Profile(), Token: token}, nil
}

// requireFields rejects empty values, reporting missing keys in a fixed order.
func requireFields(fields map[string]string) error {
	var missing []string
	for _, key := range []string{"name", "email", "password"} {
		if v, ok := fields[key]; ok && v == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s required", ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}
