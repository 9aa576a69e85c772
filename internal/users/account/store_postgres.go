// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/techhub/internal/platform/apperr"
	"github.com/taibuivan/techhub/internal/platform/database/schema"
	"github.com/taibuivan/techhub/internal/platform/dberr"
)

const resourceName = "Account"

// PostgresRepository implements [Repository] on the users.account table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new account repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Columns is the select list matching [ScanUser].
var Columns = strings.Join(schema.UserAccount.Columns(), ", ")

// ScanUser reads one row selected with [Columns]. The admin store reuses it.
func ScanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.Role,
		&user.IsActive, &user.IsProtected, &user.Bio, &user.Skills, &user.Links,
		&user.ShowEmail, &user.ShowSkills, &user.LastLoginAt, &user.CreatedAt, &user.UpdatedAt,
	)
	return user, err
}

// FindByID retrieves a user record from the users.account table.
func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		Columns, schema.UserAccount.Table, schema.UserAccount.ID,
	)

	user, err := ScanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, resourceName, "find_account_by_id")
	}
	return user, nil
}

// FindByEmail matches on lower(email), the column's unique index.
func (repository *PostgresRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE lower(%s) = lower($1)`,
		Columns, schema.UserAccount.Table, schema.UserAccount.Email,
	)

	user, err := ScanUser(repository.pool.QueryRow(context, query, email))
	if err != nil {
		return nil, dberr.Wrap(err, resourceName, "find_account_by_email")
	}
	return user, nil
}

/*
Create inserts a new account.

Parameters:
  - context: context.Context
  - user: *User (ID and timestamps are filled on success)

Returns:
  - error: CONFLICT on duplicate email, PERSISTENCE_FAILED otherwise
*/
func (repository *PostgresRepository) Create(context context.Context, user *User) error {
	return repository.insert(context, repository.pool, user)
}

type queryRower interface {
	QueryRow(context context.Context, sql string, arguments ...any) pgx.Row
}

func (repository *PostgresRepository) insert(context context.Context, db queryRower, user *User) error {
	table := schema.UserAccount
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING %s, %s, %s
	`,
		table.Table, table.Email, table.Password, table.Name, table.Role, table.IsActive,
		table.IsProtected, table.Bio, table.Skills, table.Links, table.ShowEmail, table.ShowSkills,
		table.ID, table.CreatedAt, table.UpdatedAt,
	)

	if user.Skills == nil {
		user.Skills = []string{}
	}
	if user.Links == nil {
		user.Links = map[string]string{}
	}

	err := db.QueryRow(context, query,
		user.Email, user.PasswordHash, user.Name, user.Role, user.IsActive,
		user.IsProtected, user.Bio, user.Skills, user.Links, user.ShowEmail, user.ShowSkills,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	return dberr.Wrap(err, resourceName, "create_account")
}

// UpdateProfile syncs name, bio, skills, links and the visibility flags.
func (repository *PostgresRepository) UpdateProfile(context context.Context, user *User) error {
	table := schema.UserAccount
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = NOW()
		WHERE %s = $1
		RETURNING %s
	`,
		table.Table, table.Name, table.Bio, table.Skills, table.Links, table.ShowEmail, table.ShowSkills,
		table.UpdatedAt, table.ID, table.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		user.ID, user.Name, user.Bio, user.Skills, user.Links, user.ShowEmail, user.ShowSkills,
	).Scan(&user.UpdatedAt)

	return dberr.Wrap(err, resourceName, "update_account_profile")
}

// TouchLogin stamps lastloginat.
func (repository *PostgresRepository) TouchLogin(context context.Context, id int64, at time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.LastLoginAt, schema.UserAccount.ID,
	)

	_, err := repository.pool.Exec(context, query, id, at)
	return dberr.Wrap(err, resourceName, "touch_account_login")
}

/*
EnsureProtected provisions the bootstrap administrator once.

The existence check and the insert run in one transaction; the partial unique index
on isprotected turns a concurrent second provisioning into a conflict.
*/
func (repository *PostgresRepository) EnsureProtected(context context.Context, user *User) (bool, error) {
	table := schema.UserAccount
	findProtected := fmt.Sprintf(`SELECT %s FROM %s WHERE %s`, Columns, table.Table, table.IsProtected)
	findEmail := fmt.Sprintf(`SELECT %s FROM %s WHERE lower(%s) = lower($1)`, table.ID, table.Table, table.Email)

	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return false, dberr.Wrap(err, resourceName, "begin_bootstrap")
	}
	defer transaction.Rollback(context)

	existing, err := ScanUser(transaction.QueryRow(context, findProtected))
	switch {
	case err == nil:
		*user = *existing
		return false, nil
	case !errors.Is(err, pgx.ErrNoRows):
		return false, dberr.Wrap(err, resourceName, "find_protected_account")
	}

	var ordinaryID int64
	err = transaction.QueryRow(context, findEmail, user.Email).Scan(&ordinaryID)
	switch {
	case err == nil:
		return false, apperr.Conflict("Bootstrap email belongs to an existing account")
	case !errors.Is(err, pgx.ErrNoRows):
		return false, dberr.Wrap(err, resourceName, "find_bootstrap_email")
	}

	user.IsProtected = true
	user.IsActive = true
	if err := repository.insert(context, transaction, user); err != nil {
		return false, err
	}

	if err := transaction.Commit(context); err != nil {
		return false, dberr.Wrap(err, resourceName, "commit_bootstrap")
	}
	return true, nil
}
