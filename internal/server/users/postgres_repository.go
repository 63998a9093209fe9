package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/kuba1e/food-delivery/internal/common"
	"github.com/kuba1e/food-delivery/internal/dbx"
	"github.com/kuba1e/food-delivery/internal/ids"
)

const (
	pgUniqueViolation = "23505"

	emailConstraint = "users_email_key"
	phoneConstraint = "users_phone_number_key"
)

const userColumns = `id, name, email, password, phone_number, address, role, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	u := &User{}
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.PhoneNumber,
		&u.Address, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *PostgresRepository) findOne(ctx context.Context, query string, arg any) (*User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query :=
		`SELECT ` + userColumns + ` FROM users
		 WHERE email = $1
		 `
	return r.findOne(ctx, query, email)
}

func (r *PostgresRepository) FindByPhone(ctx context.Context, phone int64) (*User, error) {
	query :=
		`SELECT ` + userColumns + ` FROM users
		 WHERE phone_number = $1
		 `
	return r.findOne(ctx, query, phone)
}

func (r *PostgresRepository) Create(ctx context.Context, user *User) (*User, error) {
	if user.ID == "" {
		user.ID = ids.New()
	}
	if user.Role == "" {
		user.Role = common.DefaultUserRole
	}

	query :=
		`INSERT INTO users (id, name, email, password, phone_number, address, role)
         VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash, user.PhoneNumber, user.Address, user.Role).
		Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if conflict := uniqueViolation(err); conflict != nil {
			return nil, conflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*User, error) {
	query :=
		`SELECT ` + userColumns + ` FROM users
		 ORDER BY created_at, id
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// uniqueViolation converts a Postgres unique violation into common.ErrConflict
// naming the duplicated field. It returns nil for any other error.
func uniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return nil
	}

	switch pgErr.ConstraintName {
	case emailConstraint:
		return common.WithMessage(common.ErrConflict, EmailTakenMessage)
	case phoneConstraint:
		return common.WithMessage(common.ErrConflict, PhoneTakenMessage)
	default:
		return fmt.Errorf("%w: %s", common.ErrConflict, pgErr.ConstraintName)
	}
}
