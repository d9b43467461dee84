package users

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

const userColumns = `id, email, username, password_hash, first_name, last_name, address, phone, created_at`

var postgresDialect = sqlDialect{
	selectByEmail: `SELECT ` + userColumns + ` FROM users WHERE email_key = $1`,
	selectByID:    `SELECT ` + userColumns + ` FROM users WHERE id = $1`,
	selectAll:     `SELECT ` + userColumns + ` FROM users`,
	selectConflict: `SELECT id FROM users
		 WHERE email_key = $1 AND id <> $2
		 LIMIT 1`,
	insert: `INSERT INTO users (id, email, email_key, username, password_hash, first_name, last_name, address, phone, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
	update: `UPDATE users SET
		 email = COALESCE($1, email),
		 email_key = COALESCE($2, email_key),
		 username = COALESCE($3, username),
		 password_hash = COALESCE($4, password_hash),
		 first_name = COALESCE($5, first_name),
		 last_name = COALESCE($6, last_name),
		 address = COALESCE($7, address),
		 phone = COALESCE($8, phone)
		 WHERE id = $9
		 RETURNING ` + userColumns,
	delete: `DELETE FROM users WHERE id = $1`,

	isUniqueViolation: func(err error) bool {
		var pgErr *pgconn.PgError
		return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
	},
}

// PostgresRepository stores users in PostgreSQL through the pgx stdlib driver.
type PostgresRepository struct {
	*sqlRepository
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{sqlRepository: newSQLRepository(db, postgresDialect)}
}
