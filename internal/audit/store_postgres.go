// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/techhub/internal/platform/database/schema"
	"github.com/taibuivan/techhub/internal/platform/dberr"
	"github.com/taibuivan/techhub/internal/platform/postgres"
)

// # Writers

// Execer is satisfied by both [pgxpool.Pool] and [pgx.Tx], so entries can be appended
// inside the transaction that performs the audited change.
type Execer interface {
	Exec(context context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// AppendRoleAudit inserts one role audit entry.
func AppendRoleAudit(context context.Context, db Execer, entry *RoleAuditEntry) error {
	table := schema.AuditRoleAudit
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		table.Table, table.ID, table.UserID, table.Action, table.PreviousRole,
		table.NewRole, table.AssignedBy, table.Reason, table.CreatedAt,
	)

	_, err := db.Exec(context, query,
		entry.ID, entry.UserID, entry.Action, entry.PreviousRole,
		entry.NewRole, entry.AssignedBy, entry.Reason, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("audit_append_role_failed: %w", err)
	}
	return nil
}

// AppendModerationLog inserts one moderation log entry.
func AppendModerationLog(context context.Context, db Execer, entry *ModerationLogEntry) error {
	table := schema.AuditModerationLog
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		table.Table, table.ID, table.Action, table.TargetType, table.TargetID,
		table.ModeratorID, table.Reason, table.CreatedAt,
	)

	_, err := db.Exec(context, query,
		entry.ID, entry.Action, entry.TargetType, entry.TargetID,
		entry.ModeratorID, entry.Reason, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("audit_append_moderation_failed: %w", err)
	}
	return nil
}

// # Reader

// PostgresRepository implements [Reader] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new Postgres audit reader.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func keyset(where *postgres.Where, createdAtColumn, idColumn string, after *Cursor, until time.Time) {
	where.Add(createdAtColumn+" <= ?", until)
	if after != nil {
		where.Add("("+createdAtColumn+", "+idColumn+") > (?, ?)", after.CreatedAt, after.ID)
	}
}

/*
RoleAuditAfter returns the next page of the role audit trail.

Parameters:
  - context: context.Context
  - filter: RoleAuditFilter
  - after: *Cursor (nil starts from the beginning)
  - until: time.Time (pinned upper bound)
  - limit: int

Returns:
  - []*RoleAuditEntry: Entries in (createdat, id) order
  - error: PERSISTENCE_FAILED on storage errors
*/
func (repository *PostgresRepository) RoleAuditAfter(context context.Context, filter RoleAuditFilter, after *Cursor, until time.Time, limit int) ([]*RoleAuditEntry, error) {
	table := schema.AuditRoleAudit
	where := &postgres.Where{}

	if filter.UserID != nil {
		where.Add(table.UserID+" = ?", *filter.UserID)
	}
	if filter.AssignedBy != nil {
		where.Add(table.AssignedBy+" = ?", *filter.AssignedBy)
	}
	if filter.Action != "" {
		where.Add(table.Action+" = ?", filter.Action)
	}
	if filter.Since != nil {
		where.Add(table.CreatedAt+" >= ?", *filter.Since)
	}
	keyset(where, table.CreatedAt, table.ID, after, until)

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		%s
		ORDER BY %s ASC, %s ASC
		LIMIT %d
	`,
		table.ID, table.UserID, table.Action, table.PreviousRole,
		table.NewRole, table.AssignedBy, table.Reason, table.CreatedAt,
		table.Table, where.Clause(), table.CreatedAt, table.ID, limit,
	)

	rows, err := repository.pool.Query(context, query, where.Args()...)
	if err != nil {
		return nil, dberr.Wrap(err, "Role audit", "list_role_audit")
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*RoleAuditEntry, error) {
		entry := &RoleAuditEntry{}
		err := row.Scan(
			&entry.ID, &entry.UserID, &entry.Action, &entry.PreviousRole,
			&entry.NewRole, &entry.AssignedBy, &entry.Reason, &entry.CreatedAt,
		)
		return entry, err
	})
	if err != nil {
		return nil, dberr.Wrap(err, "Role audit", "scan_role_audit")
	}

	return entries, nil
}

/*
ModerationAfter returns the next page of the moderation log.

Parameters:
  - context: context.Context
  - filter: ModerationFilter
  - after: *Cursor (nil starts from the beginning)
  - until: time.Time (pinned upper bound)
  - limit: int

Returns:
  - []*ModerationLogEntry: Entries in (createdat, id) order
  - error: PERSISTENCE_FAILED on storage errors
*/
func (repository *PostgresRepository) ModerationAfter(context context.Context, filter ModerationFilter, after *Cursor, until time.Time, limit int) ([]*ModerationLogEntry, error) {
	table := schema.AuditModerationLog
	where := &postgres.Where{}

	if filter.TargetType != "" {
		where.Add(table.TargetType+" = ?", filter.TargetType)
	}
	if filter.TargetID != nil {
		where.Add(table.TargetID+" = ?", *filter.TargetID)
	}
	if filter.ModeratorID != nil {
		where.Add(table.ModeratorID+" = ?", *filter.ModeratorID)
	}
	if filter.Action != "" {
		where.Add(table.Action+" = ?", filter.Action)
	}
	if filter.Since != nil {
		where.Add(table.CreatedAt+" >= ?", *filter.Since)
	}
	keyset(where, table.CreatedAt, table.ID, after, until)

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s
		%s
		ORDER BY %s ASC, %s ASC
		LIMIT %d
	`,
		table.ID, table.Action, table.TargetType, table.TargetID,
		table.ModeratorID, table.Reason, table.CreatedAt,
		table.Table, where.Clause(), table.CreatedAt, table.ID, limit,
	)

	rows, err := repository.pool.Query(context, query, where.Args()...)
	if err != nil {
		return nil, dberr.Wrap(err, "Moderation log", "list_moderation_log")
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*ModerationLogEntry, error) {
		entry := &ModerationLogEntry{}
		err := row.Scan(
			&entry.ID, &entry.Action, &entry.TargetType, &entry.TargetID,
			&entry.ModeratorID, &entry.Reason, &entry.CreatedAt,
		)
		return entry, err
	})
	if err != nil {
		return nil, dberr.Wrap(err, "Moderation log", "scan_moderation_log")
	}

	return entries, nil
}
