// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/techhub/internal/audit"
	"github.com/taibuivan/techhub/internal/platform/apperr"
	"github.com/taibuivan/techhub/internal/platform/database/schema"
	"github.com/taibuivan/techhub/internal/platform/dberr"
	"github.com/taibuivan/techhub/internal/platform/postgres"
	"github.com/taibuivan/techhub/internal/users/account"
)

const resourceName = "Account"

// PostgresRepository implements [Store] on users.account and audit.roleaudit.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new admin repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Find retrieves one account by ID.
func (repository *PostgresRepository) Find(context context.Context, id int64) (*account.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		account.Columns, schema.UserAccount.Table, schema.UserAccount.ID,
	)

	user, err := account.ScanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, resourceName, "find_account")
	}
	return user, nil
}

// Mutate locks the account row with FOR UPDATE and applies mutation inside one transaction.
func (repository *PostgresRepository) Mutate(context context.Context, id int64, mutation Mutation) (*audit.RoleAuditEntry, error) {
	table := schema.UserAccount
	lock := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR UPDATE`, account.Columns, table.Table, table.ID)
	update := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = NOW() WHERE %s = $1`,
		table.Table, table.Role, table.IsActive, table.UpdatedAt, table.ID,
	)

	var entry *audit.RoleAuditEntry
	err := postgres.InTx(context, repository.pool, func(transaction pgx.Tx) error {
		user, err := account.ScanUser(transaction.QueryRow(context, lock, id))
		if err != nil {
			return err
		}

		if user.IsProtected {
			return apperr.ProtectedAccount()
		}

		entry, err = mutation(user)
		if err != nil || entry == nil {
			return err
		}

		if _, err := transaction.Exec(context, update, user.ID, user.Role, user.IsActive); err != nil {
			return err
		}
		return audit.AppendRoleAudit(context, transaction, entry)
	})
	if err != nil {
		return nil, dberr.Wrap(err, resourceName, "mutate_account")
	}

	return entry, nil
}

// List filters by role set, activation and a name/email substring.
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*account.User, int, error) {
	table := schema.UserAccount
	where := &postgres.Where{}

	if len(filter.Roles) > 0 {
		roles := make([]string, len(filter.Roles))
		for i, role := range filter.Roles {
			roles[i] = string(role)
		}
		where.Add(table.Role+" = ANY(?)", roles)
	}
	if filter.Active != nil {
		where.Add(table.IsActive+" = ?", *filter.Active)
	}
	if filter.Query != "" {
		pattern := postgres.Contains(filter.Query)
		where.Add(fmt.Sprintf("(%s ILIKE ?%s OR %s ILIKE ?%s)", table.Name, postgres.LikeEscape, table.Email, postgres.LikeEscape), pattern, pattern)
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s %s`, table.Table, where.Clause())
	if err := repository.pool.QueryRow(context, countQuery, where.Args()...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, resourceName, "count_accounts")
	}

	query := fmt.Sprintf(`SELECT %s FROM %s %s ORDER BY %s DESC, %s DESC LIMIT %s OFFSET %s`,
		account.Columns, table.Table, where.Clause(), table.CreatedAt, table.ID,
		where.Bind(limit), where.Bind(offset),
	)

	rows, err := repository.pool.Query(context, query, where.Args()...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourceName, "list_accounts")
	}

	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*account.User, error) {
		return account.ScanUser(row)
	})
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourceName, "scan_accounts")
	}

	return users, total, nil
}
