package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/migrations"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteRepo(t *testing.T) *SQLiteRepository {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// every pooled connection would get its own empty :memory: database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	goose.SetBaseFS(migrations.Migrations)
	require.NoError(t, goose.SetDialect("sqlite3"))
	require.NoError(t, goose.UpContext(context.Background(), db, migrations.SQLiteDir))

	return NewSQLiteRepository(db)
}

func TestSQLiteRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepo(t)

	in := &models.User{
		Email:        " Mixed@Example.com",
		PasswordHash: "hash",
		Username:     "mixed",
		FirstName:    "Max",
		Phone:        "+100",
	}
	created, err := repo.Create(ctx, in)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, "Mixed@Example.com", created.Email)
	assert.Empty(t, in.ID, "input must not be mutated")

	got, err := repo.FindByEmail(ctx, "mixed@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Mixed@Example.com", got.Email)
	assert.Equal(t, "hash", got.PasswordHash)
	assert.Equal(t, "Max", got.FirstName)
	assert.Equal(t, "+100", got.Phone)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "mixed", byID.Username)
}

func TestSQLiteRepository_Conflict(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepo(t)

	_, err := repo.Create(ctx, newTestUser("dup@example.com"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newTestUser("DUP@example.com"))
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestSQLiteRepository_UniqueIndexBacksPreCheck(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepo(t)

	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO users (id, email, email_key, password_hash, created_at) VALUES ('a', 'x@y.z', 'x@y.z', 'h', CURRENT_TIMESTAMP)`)
	require.NoError(t, err)

	_, err = repo.db.ExecContext(ctx,
		`INSERT INTO users (id, email, email_key, password_hash, created_at) VALUES ('b', 'X@y.z', 'x@y.z', 'h', CURRENT_TIMESTAMP)`)
	require.Error(t, err)
	assert.True(t, isSQLiteUniqueViolation(err), "got %v", err)
	assert.False(t, isSQLiteUniqueViolation(errors.New("UNIQUE constraint failed: users.email_key")))
}

func TestSQLiteRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepo(t)

	a, err := repo.Create(ctx, newTestUser("a@example.com"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newTestUser("b@example.com"))
	require.NoError(t, err)

	got, err := repo.Update(ctx, a.ID, models.UserPatch{LastName: strPtr("Smith"), PasswordHash: strPtr("new-hash")})
	require.NoError(t, err)
	assert.Equal(t, "Smith", got.LastName)
	assert.Equal(t, "new-hash", got.PasswordHash)
	assert.Equal(t, "a@example.com", got.Email)
	assert.Equal(t, "john", got.Username)

	_, err = repo.Update(ctx, a.ID, models.UserPatch{Email: strPtr("B@EXAMPLE.COM")})
	assert.ErrorIs(t, err, common.ErrConflict)

	got, err = repo.Update(ctx, a.ID, models.UserPatch{Email: strPtr("A@Example.com")})
	require.NoError(t, err)
	assert.Equal(t, "A@Example.com", got.Email)

	_, err = repo.Update(ctx, "missing", models.UserPatch{FirstName: strPtr("x")})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSQLiteRepository_RemoveAndList(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepo(t)

	list, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	a, err := repo.Create(ctx, newTestUser("a@example.com"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newTestUser("b@example.com"))
	require.NoError(t, err)

	list, err = repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, repo.Remove(ctx, a.ID))
	assert.ErrorIs(t, repo.Remove(ctx, a.ID), common.ErrorNotFound)

	_, err = repo.FindByID(ctx, a.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	list, err = repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
