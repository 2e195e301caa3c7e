package usecase

import (
	"context"

	"nexusauth/internal/feature/auth/domain/entity"
)

// CredentialStore abstracts the persistence layer for identities.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type CredentialStore interface {
	// FindByEmail returns the identity with the given email, or ErrIdentityNotFound.
	FindByEmail(ctx context.Context, email string) (*entity.Identity, error)

	// FindByID returns the identity with the given id, or ErrIdentityNotFound.
	FindByID(ctx context.Context, id string) (*entity.Identity, error)

	// Create persists a new identity.
	// It returns ErrDuplicateEmail when the storage unique index on email rejects the insert.
	Create(ctx context.Context, identity *entity.Identity) error

	// Update applies a partial update and returns the stored result.
	// It returns ErrIdentityNotFound if the id does not exist.
	Update(ctx context.Context, id string, patch entity.IdentityPatch) (*entity.Identity, error)

	// Ping checks connectivity with the underlying store.
	Ping(ctx context.Context) error
}

// TokenIssuer signs session tokens for authenticated identities.
type TokenIssuer interface {
	// GenerateToken creates a signed token whose subject is the identity id.
	GenerateToken(identityID string) (string, error)
}
