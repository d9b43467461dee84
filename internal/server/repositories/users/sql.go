package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/google/uuid"
)

// sqlDialect holds the statements and error classification that differ
// between the SQL backends.
type sqlDialect struct {
	selectByEmail  string
	selectByID     string
	selectAll      string
	selectConflict string
	insert         string
	update         string
	delete         string

	isUniqueViolation func(error) bool
}

// sqlRepository implements Repository on database/sql. Writes that combine
// a uniqueness pre-check with a mutation run in one transaction; the unique
// constraint on email_key stays the source of truth under concurrency.
type sqlRepository struct {
	db      *sql.DB
	dialect sqlDialect
	now     func() time.Time
	newID   func() string
}

func newSQLRepository(db *sql.DB, d sqlDialect) *sqlRepository {
	return &sqlRepository{db: db, dialect: d, now: time.Now, newID: uuid.NewString}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanUser maps a row in userColumns order onto a record.
func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash,
		&u.FirstName, &u.LastName, &u.Address, &u.Phone, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *sqlRepository) findOne(ctx context.Context, db dbx.DBTX, query string, arg any) (*models.User, error) {
	u, err := scanUser(db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *sqlRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, r.db, r.dialect.selectByEmail, models.EmailKey(email))
}

func (r *sqlRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, r.db, r.dialect.selectByID, id)
}

// emailTaken reports whether a user other than exceptID holds email.
func (r *sqlRepository) emailTaken(ctx context.Context, db dbx.DBTX, email, exceptID string) (bool, error) {
	var id string
	err := db.QueryRowContext(ctx, r.dialect.selectConflict, models.EmailKey(email), exceptID).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("db error: %w", err)
	}
	return true, nil
}

func (r *sqlRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	u := *user
	u.Email = strings.TrimSpace(u.Email)
	u.ID = r.newID()
	u.CreatedAt = r.now().UTC().Truncate(time.Microsecond)

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		taken, err := r.emailTaken(ctx, tx, u.Email, "")
		if err != nil {
			return err
		}
		if taken {
			return common.ErrConflict
		}

		_, err = tx.ExecContext(ctx, r.dialect.insert,
			u.ID, u.Email, models.EmailKey(u.Email), u.Username, u.PasswordHash,
			u.FirstName, u.LastName, u.Address, u.Phone, u.CreatedAt)
		if err != nil {
			if r.dialect.isUniqueViolation(err) {
				return common.ErrConflict
			}
			return fmt.Errorf("db error: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &u, nil
}

func (r *sqlRepository) Update(ctx context.Context, id string, patch models.UserPatch) (*models.User, error) {
	var emailKey *string
	if patch.Email != nil {
		k := models.EmailKey(*patch.Email)
		emailKey = &k
		e := strings.TrimSpace(*patch.Email)
		patch.Email = &e
	}

	var updated *models.User
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if patch.Email != nil {
			taken, err := r.emailTaken(ctx, tx, *patch.Email, id)
			if err != nil {
				return err
			}
			if taken {
				return common.ErrConflict
			}
		}

		u, err := scanUser(tx.QueryRowContext(ctx, r.dialect.update,
			nullable(patch.Email), nullable(emailKey), nullable(patch.Username), nullable(patch.PasswordHash),
			nullable(patch.FirstName), nullable(patch.LastName), nullable(patch.Address), nullable(patch.Phone),
			id))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return common.ErrorNotFound
			}
			if r.dialect.isUniqueViolation(err) {
				return common.ErrConflict
			}
			return fmt.Errorf("db error: %w", err)
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (r *sqlRepository) Remove(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.dialect.delete, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *sqlRepository) ListAll(ctx context.Context) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.selectAll)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make([]*models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return out, nil
}

// nullable turns an unset patch field into SQL NULL so COALESCE keeps the
// stored value.
func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
