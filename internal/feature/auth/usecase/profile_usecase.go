package usecase

import (
	"context"
	"fmt"

	"nexusauth/internal/feature/auth/domain/entity"
)

// ProfileChanges carries the optional fields of a profile update.
type ProfileChanges struct {
	Name *string
	Bio  *string
}

// ProfileUsecase applies authorized profile mutations.
type ProfileUsecase struct {
	store CredentialStore
}

// NewProfileUsecase creates a new ProfileUsecase.
func NewProfileUsecase(store CredentialStore) *ProfileUsecase {
	return &ProfileUsecase{store: store}
}

// UpdateProfile applies changes to targetID on behalf of callerID.
// A caller may only mutate their own identity; the ownership check runs
// before the store is consulted.
func (u *ProfileUsecase) UpdateProfile(ctx context.Context, callerID, targetID string, changes ProfileChanges) (*entity.Profile, error) {
	if callerID == "" || callerID != targetID {
		return nil, ErrForbidden
	}
	if changes.Name != nil && *changes.Name == "" {
		return nil, fmt.Errorf("%w: name must not be empty", ErrValidation)
	}

	patch := entity.IdentityPatch{Name: changes.Name, Bio: changes.Bio}
	if patch.IsEmpty() {
		identity, err := u.store.FindByID(ctx, targetID)
		if err != nil {
			return nil, err
		}
		p := identity.Profile()
		return &p, nil
	}

	updated, err := u.store.Update(ctx, targetID, patch)
	if err != nil {
		return nil, err
	}
	p := updated.Profile()
	return &p, nil
}
