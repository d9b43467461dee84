package users

import (
	"database/sql"
	"errors"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var sqliteDialect = sqlDialect{
	selectByEmail: `SELECT ` + userColumns + ` FROM users WHERE email_key = ?`,
	selectByID:    `SELECT ` + userColumns + ` FROM users WHERE id = ?`,
	selectAll:     `SELECT ` + userColumns + ` FROM users`,
	selectConflict: `SELECT id FROM users
		 WHERE email_key = ? AND id <> ?
		 LIMIT 1`,
	insert: `INSERT INTO users (id, email, email_key, username, password_hash, first_name, last_name, address, phone, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	update: `UPDATE users SET
		 email = COALESCE(?, email),
		 email_key = COALESCE(?, email_key),
		 username = COALESCE(?, username),
		 password_hash = COALESCE(?, password_hash),
		 first_name = COALESCE(?, first_name),
		 last_name = COALESCE(?, last_name),
		 address = COALESCE(?, address),
		 phone = COALESCE(?, phone)
		 WHERE id = ?
		 RETURNING ` + userColumns,
	delete: `DELETE FROM users WHERE id = ?`,

	isUniqueViolation: isSQLiteUniqueViolation,
}

func isSQLiteUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	case sqlite3.SQLITE_CONSTRAINT:
		// extended result codes disabled on the connection
		return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
	}
	return false
}

// SQLiteRepository stores users in an SQLite database (modernc driver). It
// suits single-node deployments and tests.
type SQLiteRepository struct {
	*sqlRepository
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{sqlRepository: newSQLRepository(db, sqliteDialect)}
}
