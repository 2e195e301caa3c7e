// Package adapters provides credential store implementations for the auth feature.
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"nexusauth/internal/feature/auth/domain/entity"
	"nexusauth/internal/feature/auth/usecase"
)

// identityGorm is a GORM implementation of the CredentialStore interface.
// It runs on PostgreSQL in production and SQLite in tests.
type identityGorm struct {
	db *gorm.DB
}

// Compile-time check to ensure identityGorm implements CredentialStore.
var _ usecase.CredentialStore = (*identityGorm)(nil)

// NewIdentityGorm creates a new identityGorm.
// The gorm.DB must be opened with TranslateError enabled so that unique
// violations surface as gorm.ErrDuplicatedKey on every dialect.
func NewIdentityGorm(db *gorm.DB) *identityGorm {
	return &identityGorm{db: db}
}

// Create inserts a new identity.
// The unique index on email makes concurrent registrations for the same
// address fail with usecase.ErrDuplicateEmail.
func (r *identityGorm) Create(ctx context.Context, identity *entity.Identity) error {
	if identity == nil {
		return errors.New("identity is nil")
	}
	model := IdentityModelFromEntity(identity)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return classifyError("create identity", err)
	}
	identity.CreatedAt = model.CreatedAt
	identity.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByEmail retrieves an identity by its email (exact, case-sensitive match).
func (r *identityGorm) FindByEmail(ctx context.Context, email string) (*entity.Identity, error) {
	var m IdentityModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&m).Error; err != nil {
		return nil, classifyError("find identity by email", err)
	}
	return m.ToEntity(), nil
}

// FindByID retrieves an identity by its id.
func (r *identityGorm) FindByID(ctx context.Context, id string) (*entity.Identity, error) {
	var m IdentityModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, classifyError("find identity by id", err)
	}
	return m.ToEntity(), nil
}

// Update applies the supplied fields and returns the stored identity.
func (r *identityGorm) Update(ctx context.Context, id string, patch entity.IdentityPatch) (*entity.Identity, error) {
	if patch.IsEmpty() {
		return r.FindByID(ctx, id)
	}

	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Bio != nil {
		updates["bio"] = *patch.Bio
	}
	if patch.LastLogin != nil {
		updates["last_login"] = *patch.LastLogin
	}

	var out IdentityModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&IdentityModel{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("id = ?", id).First(&out).Error
	})
	if err != nil {
		return nil, classifyError("update identity", err)
	}
	return out.ToEntity(), nil
}

// Ping checks that the underlying database connection is alive.
func (r *identityGorm) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		return pingError(err)
	}
	return nil
}
