package adapters

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"nexusauth/internal/feature/auth/domain/entity"
	"nexusauth/internal/feature/auth/usecase"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to initialize test database")

	// Each connection to :memory: is a separate database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	err = db.AutoMigrate(&IdentityModel{})
	require.NoError(t, err, "failed to migrate table")

	return db
}

func newTestIdentity(id, email string) *entity.Identity {
	now := time.Now().UTC().Truncate(time.Second)
	return &entity.Identity{
		ID:            id,
		Email:         email,
		PasswordHash:  "hashed_password",
		Name:          "Ada",
		LastLogin:     now,
		SecurityScore: entity.DefaultSecurityScore,
	}
}

func TestNewIdentityGorm(t *testing.T) {
	db := setupTestDB(t)

	repo := NewIdentityGorm(db)

	assert.NotNil(t, repo, "repository is nil")
	assert.NotNil(t, repo.db, "database connection is nil")
}

func TestIdentityGorm_Create(t *testing.T) {
	t.Run("successful creation", func(t *testing.T) {
		repo := NewIdentityGorm(setupTestDB(t))
		identity := newTestIdentity("id-1", "test@example.com")

		err := repo.Create(context.Background(), identity)

		assert.NoError(t, err)
		assert.False(t, identity.CreatedAt.IsZero(), "CreatedAt is not set")
		assert.False(t, identity.UpdatedAt.IsZero(), "UpdatedAt is not set")
	})

	t.Run("duplicate email error", func(t *testing.T) {
		repo := NewIdentityGorm(setupTestDB(t))

		require.NoError(t, repo.Create(context.Background(), newTestIdentity("id-1", "dup@example.com")))
		err := repo.Create(context.Background(), newTestIdentity("id-2", "dup@example.com"))

		assert.ErrorIs(t, err, usecase.ErrDuplicateEmail)
	})

	t.Run("email uniqueness is case-sensitive", func(t *testing.T) {
		repo := NewIdentityGorm(setupTestDB(t))

		require.NoError(t, repo.Create(context.Background(), newTestIdentity("id-1", "ada@x.com")))
		err := repo.Create(context.Background(), newTestIdentity("id-2", "ADA@x.com"))

		assert.NoError(t, err)
	})

	t.Run("nil identity error", func(t *testing.T) {
		repo := NewIdentityGorm(setupTestDB(t))

		err := repo.Create(context.Background(), nil)

		assert.Error(t, err)
	})
}

func TestIdentityGorm_Create_ConcurrentSameEmail(t *testing.T) {
	repo := NewIdentityGorm(setupTestDB(t))

	const workers = 10
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		successes  int
		duplicates int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := repo.Create(context.Background(), newTestIdentity(string(rune('a'+i)), "race@example.com"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, usecase.ErrDuplicateEmail):
				duplicates++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, duplicates)
}

func TestIdentityGorm_FindByEmail(t *testing.T) {
	t.Run("find identity by email", func(t *testing.T) {
		repo := NewIdentityGorm(setupTestDB(t))
		expected := newTestIdentity("id-1", "find@example.com")
		require.NoError(t, repo.Create(context.Background(), expected))

		found, err := repo.FindByEmail(context.Background(), "find@example.com")

		require.NoError(t, err)
		assert.Equal(t, expected.ID, found.ID)
		assert.Equal(t, expected.Email, found.Email)
		assert.Equal(t, expected.PasswordHash, found.PasswordHash)
		assert.Equal(t, 80, found.SecurityScore)
		assert.Equal(t, expected.LastLogin.Unix(), found.LastLogin.Unix())
	})

	t.Run("email not found error", func(t *testing.T) {
		repo := NewIdentityGorm(setupTestDB(t))

		found, err := repo.FindByEmail(context.Background(), "notfound@example.com")

		assert.ErrorIs(t, err, usecase.ErrIdentityNotFound)
		assert.Nil(t, found)
	})

	t.Run("find correct identity when several exist", func(t *testing.T) {
		repo := NewIdentityGorm(setupTestDB(t))
		for _, i := range []*entity.Identity{
			newTestIdentity("id-1", "user1@example.com"),
			newTestIdentity("id-2", "user2@example.com"),
			newTestIdentity("id-3", "user3@example.com"),
		} {
			require.NoError(t, repo.Create(context.Background(), i))
		}

		found, err := repo.FindByEmail(context.Background(), "user2@example.com")

		require.NoError(t, err)
		assert.Equal(t, "id-2", found.ID)
	})
}

func TestIdentityGorm_FindByID(t *testing.T) {
	repo := NewIdentityGorm(setupTestDB(t))
	require.NoError(t, repo.Create(context.Background(), newTestIdentity("id-1", "byid@example.com")))

	found, err := repo.FindByID(context.Background(), "id-1")
	require.NoError(t, err)
	assert.Equal(t, "byid@example.com", found.Email)

	found, err = repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, usecase.ErrIdentityNotFound)
	assert.Nil(t, found)
}

func TestIdentityGorm_Update(t *testing.T) {
	name := "Grace"
	bio := "compilers"
	login := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		id       string
		patch    entity.IdentityPatch
		wantErr  error
		wantName string
		wantBio  string
	}{
		{"bio only", "id-1", entity.IdentityPatch{Bio: &bio}, nil, "Ada", "compilers"},
		{"name only", "id-1", entity.IdentityPatch{Name: &name}, nil, "Grace", ""},
		{"both", "id-1", entity.IdentityPatch{Name: &name, Bio: &bio}, nil, "Grace", "compilers"},
		{"empty patch", "id-1", entity.IdentityPatch{}, nil, "Ada", ""},
		{"last login", "id-1", entity.IdentityPatch{LastLogin: &login}, nil, "Ada", ""},
		{"unknown id", "missing", entity.IdentityPatch{Bio: &bio}, usecase.ErrIdentityNotFound, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewIdentityGorm(setupTestDB(t))
			require.NoError(t, repo.Create(context.Background(), newTestIdentity("id-1", "ada@example.com")))

			got, err := repo.Update(context.Background(), tt.id, tt.patch)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, got.Name)
			assert.Equal(t, tt.wantBio, got.Bio)
			assert.Equal(t, "ada@example.com", got.Email)
			if tt.patch.LastLogin != nil {
				assert.True(t, login.Equal(got.LastLogin), "last login not persisted: %v", got.LastLogin)
			}
		})
	}
}

func TestIdentityGorm_Ping(t *testing.T) {
	db := setupTestDB(t)
	repo := NewIdentityGorm(db)

	assert.NoError(t, repo.Ping(context.Background()))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	assert.ErrorIs(t, repo.Ping(context.Background()), usecase.ErrStoreUnavailable)
}
