package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexusauth/internal/feature/auth/domain/entity"
)

func strPtr(s string) *string { return &s }

func seedIdentity(t *testing.T, store *memStore, id, email string) {
	t.Helper()
	require.NoError(t, store.Create(context.Background(), &entity.Identity{
		ID:            id,
		Email:         email,
		Name:          "Ada",
		Bio:           "old bio",
		SecurityScore: entity.DefaultSecurityScore,
	}))
}

func TestProfileUsecase_UpdateProfile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		callerID string
		targetID string
		changes  ProfileChanges
		wantErr  error
		wantName string
		wantBio  string
	}{
		{
			name:     "bio only leaves name unchanged",
			callerID: "a",
			targetID: "a",
			changes:  ProfileChanges{Bio: strPtr("new bio")},
			wantName: "Ada",
			wantBio:  "new bio",
		},
		{
			name:     "name only leaves bio unchanged",
			callerID: "a",
			targetID: "a",
			changes:  ProfileChanges{Name: strPtr("Grace")},
			wantName: "Grace",
			wantBio:  "old bio",
		},
		{
			name:     "both fields",
			callerID: "a",
			targetID: "a",
			changes:  ProfileChanges{Name: strPtr("Grace"), Bio: strPtr("")},
			wantName: "Grace",
			wantBio:  "",
		},
		{
			name:     "no fields returns current profile",
			callerID: "a",
			targetID: "a",
			wantName: "Ada",
			wantBio:  "old bio",
		},
		{
			name:     "other caller on existing target is forbidden",
			callerID: "b",
			targetID: "a",
			changes:  ProfileChanges{Bio: strPtr("hacked")},
			wantErr:  ErrForbidden,
		},
		{
			name:     "absent target is forbidden",
			callerID: "a",
			targetID: "",
			changes:  ProfileChanges{Bio: strPtr("x")},
			wantErr:  ErrForbidden,
		},
		{
			name:     "other caller on missing target is forbidden",
			callerID: "b",
			targetID: "missing",
			changes:  ProfileChanges{Bio: strPtr("hacked")},
			wantErr:  ErrForbidden,
		},
		{
			name:     "empty caller is forbidden",
			callerID: "",
			targetID: "",
			wantErr:  ErrForbidden,
		},
		{
			name:     "own but missing identity",
			callerID: "ghost",
			targetID: "ghost",
			changes:  ProfileChanges{Bio: strPtr("x")},
			wantErr:  ErrIdentityNotFound,
		},
		{
			name:     "empty name is rejected",
			callerID: "a",
			targetID: "a",
			changes:  ProfileChanges{Name: strPtr("")},
			wantErr:  ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := newMemStore()
			seedIdentity(t, store, "a", "ada@x.com")
			seedIdentity(t, store, "b", "bob@x.com")
			uc := NewProfileUsecase(store)

			got, err := uc.UpdateProfile(context.Background(), tt.callerID, tt.targetID, tt.changes)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				stored, _ := store.FindByID(context.Background(), "a")
				assert.Equal(t, "old bio", stored.Bio, "target must be untouched")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.targetID, got.ID)
			assert.Equal(t, tt.wantName, got.Name)
			assert.Equal(t, tt.wantBio, got.Bio)
			assert.Equal(t, "ada@x.com", got.Email)
			assert.Equal(t, 80, got.SecurityScore)
		})
	}
}

func TestProfileUsecase_ForbiddenNeverTouchesStore(t *testing.T) {
	t.Parallel()

	store := &mockCredentialStore{
		FindByIDFunc: func(ctx context.Context, id string) (*entity.Identity, error) {
			t.Error("FindByID must not be called")
			return nil, nil
		},
		UpdateFunc: func(ctx context.Context, id string, patch entity.IdentityPatch) (*entity.Identity, error) {
			t.Error("Update must not be called")
			return nil, nil
		},
	}
	uc := NewProfileUsecase(store)

	_, err := uc.UpdateProfile(context.Background(), "a", "b", ProfileChanges{Bio: strPtr("x")})

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestProfileUsecase_StoreErrorsSurface(t *testing.T) {
	t.Parallel()

	store := &mockCredentialStore{
		UpdateFunc: func(ctx context.Context, id string, patch entity.IdentityPatch) (*entity.Identity, error) {
			return nil, ErrStoreUnavailable
		},
	}
	uc := NewProfileUsecase(store)

	_, err := uc.UpdateProfile(context.Background(), "a", "a", ProfileChanges{Bio: strPtr("x")})

	assert.ErrorIs(t, err, ErrStoreUnavailable)
}
