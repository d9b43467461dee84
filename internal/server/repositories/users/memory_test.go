package users

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func newTestUser(email string) *models.User {
	return &models.User{Email: email, PasswordHash: "$2a$10$hash", Username: "john"}
}

func TestInMemoryRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()
	fixed := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }

	created, err := repo.Create(ctx, newTestUser("John@Example.com"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, fixed, created.CreatedAt)
	assert.Equal(t, "John@Example.com", created.Email)

	byEmail, err := repo.FindByEmail(ctx, "john@example.COM")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, byID)
}

func TestInMemoryRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()

	_, err := repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = repo.Update(ctx, "missing", models.UserPatch{FirstName: strPtr("x")})
	assert.ErrorIs(t, err, common.ErrorNotFound)

	assert.ErrorIs(t, repo.Remove(ctx, "missing"), common.ErrorNotFound)
}

func TestInMemoryRepository_CreateConflictIgnoresCase(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()

	_, err := repo.Create(ctx, newTestUser("a@example.com"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newTestUser(" A@EXAMPLE.com "))
	assert.ErrorIs(t, err, common.ErrConflict)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestInMemoryRepository_ConcurrentCreateSameEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()

	const workers = 16
	var ok, conflicts atomic.Int32
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := repo.Create(ctx, newTestUser("race@example.com"))
			switch {
			case err == nil:
				ok.Add(1)
			case assert.ErrorIs(t, err, common.ErrConflict):
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, ok.Load())
	assert.EqualValues(t, workers-1, conflicts.Load())
}

func TestInMemoryRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()

	a, err := repo.Create(ctx, newTestUser("a@example.com"))
	require.NoError(t, err)
	b, err := repo.Create(ctx, newTestUser("b@example.com"))
	require.NoError(t, err)

	t.Run("partial patch keeps other fields", func(t *testing.T) {
		got, err := repo.Update(ctx, a.ID, models.UserPatch{FirstName: strPtr("Ann")})
		require.NoError(t, err)
		assert.Equal(t, "Ann", got.FirstName)
		assert.Equal(t, "john", got.Username)
		assert.Equal(t, a.PasswordHash, got.PasswordHash)
		assert.Equal(t, a.CreatedAt, got.CreatedAt)
	})

	t.Run("email held by another user", func(t *testing.T) {
		_, err := repo.Update(ctx, a.ID, models.UserPatch{Email: strPtr("B@example.com")})
		assert.ErrorIs(t, err, common.ErrConflict)
	})

	t.Run("own email in different case", func(t *testing.T) {
		got, err := repo.Update(ctx, b.ID, models.UserPatch{Email: strPtr("B@Example.com")})
		require.NoError(t, err)
		assert.Equal(t, "B@Example.com", got.Email)
	})

	t.Run("email change frees the old address", func(t *testing.T) {
		_, err := repo.Update(ctx, a.ID, models.UserPatch{Email: strPtr("c@example.com")})
		require.NoError(t, err)

		_, err = repo.FindByEmail(ctx, "a@example.com")
		assert.ErrorIs(t, err, common.ErrorNotFound)

		_, err = repo.Create(ctx, newTestUser("a@example.com"))
		assert.NoError(t, err)
	})
}

func TestInMemoryRepository_RemoveAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()

	list, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	u, err := repo.Create(ctx, newTestUser("gone@example.com"))
	require.NoError(t, err)

	require.NoError(t, repo.Remove(ctx, u.ID))
	assert.ErrorIs(t, repo.Remove(ctx, u.ID), common.ErrorNotFound)

	_, err = repo.FindByEmail(ctx, "gone@example.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestInMemoryRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()

	u, err := repo.Create(ctx, newTestUser("copy@example.com"))
	require.NoError(t, err)
	u.FirstName = "mutated"

	got, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, got.FirstName)
}

func TestInMemoryRepository_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewInMemoryRepository().Create(ctx, newTestUser("x@example.com"))
	assert.ErrorIs(t, err, context.Canceled)
}
