package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auth-server/internal/domain"
	"auth-server/internal/repository"
)

func newTestRepo(t *testing.T) repository.AccountRepository {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewAccountRepository(db)
	require.NoError(t, repo.Init(context.Background()))
	return repo
}

func TestCreateAssignsIDAndTimestamp(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	account := &domain.Account{
		Email:        "a@x.com",
		Username:     "alice",
		PasswordHash: "verifier",
	}
	require.NoError(t, repo.Create(ctx, account))

	assert.NotEmpty(t, account.ID)
	assert.False(t, account.CreatedAt.IsZero())
}

func TestLookupsByEachKey(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	account := &domain.Account{
		Email:        "a@x.com",
		Username:     "alice",
		PasswordHash: "verifier",
	}
	require.NoError(t, repo.Create(ctx, account))

	byEmail, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, account.ID, byEmail.ID)
	assert.Equal(t, "verifier", byEmail.PasswordHash)

	byUsername, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, account.ID, byUsername.ID)

	byID, err := repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", byID.Email)
}

func TestLookupMissing(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.GetByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.GetByID(ctx, "missing-id")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreateDuplicateEmail(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.Account{
		Email:        "a@x.com",
		Username:     "alice",
		PasswordHash: "verifier",
	}))

	err := repo.Create(ctx, &domain.Account{
		Email:        "a@x.com",
		Username:     "bob",
		PasswordHash: "verifier",
	})
	assert.ErrorIs(t, err, repository.ErrEmailExists)
}

func TestCreateDuplicateUsername(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.Account{
		Email:        "a@x.com",
		Username:     "alice",
		PasswordHash: "verifier",
	}))

	err := repo.Create(ctx, &domain.Account{
		Email:        "b@x.com",
		Username:     "alice",
		PasswordHash: "verifier",
	})
	assert.ErrorIs(t, err, repository.ErrUsernameTaken)
}
