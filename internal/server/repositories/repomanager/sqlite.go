package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophauth/internal/server/migrations"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
)

type SQLiteRepositoryManager struct {
	db    *sql.DB
	users *users.SQLiteRepository
}

func NewSQLiteRepositoryManager(db *sql.DB) *SQLiteRepositoryManager {
	return &SQLiteRepositoryManager{db: db, users: users.NewSQLiteRepository(db)}
}

func (m *SQLiteRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context) error {
	return runGoose(ctx, m.db, "sqlite3", migrations.SQLiteDir)
}

func (m *SQLiteRepositoryManager) Close(context.Context) error {
	return m.db.Close()
}
