// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/techhub/internal/audit"
	"github.com/taibuivan/techhub/internal/platform/database/schema"
	"github.com/taibuivan/techhub/internal/platform/dberr"
	"github.com/taibuivan/techhub/internal/platform/postgres"
)

// resourceName is used in NOT_FOUND and CONFLICT messages.
const resourceName = "Content"

// PostgresRepository implements [Store] on the content.entity table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new content repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var entityColumns = strings.Join(schema.ContentEntity.Columns(), ", ")

func scanEntity(row pgx.Row) (*Entity, error) {
	entity := &Entity{}
	err := row.Scan(
		&entity.ID, &entity.Kind, &entity.Title, &entity.Slug, &entity.Description,
		&entity.Attributes, &entity.Status, &entity.SubmitterID, &entity.Featured,
		&entity.CreatedAt, &entity.UpdatedAt,
	)
	if entity.Attributes == nil {
		entity.Attributes = map[string]any{}
	}
	return entity, err
}

// Create inserts entity and fills its ID and timestamps.
func (repository *PostgresRepository) Create(context context.Context, entity *Entity) error {
	table := schema.ContentEntity
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s, %s, %s
	`,
		table.Table, table.Kind, table.Title, table.Slug, table.Description,
		table.Attributes, table.Status, table.SubmitterID, table.Featured,
		table.ID, table.CreatedAt, table.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		entity.Kind, entity.Title, entity.Slug, entity.Description,
		entity.Attributes, entity.Status, entity.SubmitterID, entity.Featured,
	).Scan(&entity.ID, &entity.CreatedAt, &entity.UpdatedAt)

	return dberr.Wrap(err, resourceName, "create_content")
}

// Get loads one entity by kind and id.
func (repository *PostgresRepository) Get(context context.Context, ref Ref) (*Entity, error) {
	table := schema.ContentEntity
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		entityColumns, table.Table, table.Kind, table.ID,
	)

	entity, err := scanEntity(repository.pool.QueryRow(context, query, ref.Kind, ref.ID))
	if err != nil {
		return nil, dberr.Wrap(err, resourceName, "get_content")
	}
	return entity, nil
}

/*
List returns one page of entities of kind, newest first, and the total match count.

Parameters:
  - context: context.Context
  - kind: Kind
  - filter: Filter (a nil Status lists approved entities)
  - limit, offset: int

Returns:
  - []*Entity: The page
  - int: Total number of matches
  - error: PERSISTENCE_FAILED on storage errors
*/
func (repository *PostgresRepository) List(context context.Context, kind Kind, filter Filter, limit, offset int) ([]*Entity, int, error) {
	table := schema.ContentEntity
	where := &postgres.Where{}

	status := StatusApproved
	if filter.Status != nil {
		status = *filter.Status
	}

	where.Add(table.Kind+" = ?", kind)
	where.Add(table.Status+" = ?", status)
	if filter.Featured != nil {
		where.Add(table.Featured+" = ?", *filter.Featured)
	}
	if filter.SubmitterID != nil {
		where.Add(table.SubmitterID+" = ?", *filter.SubmitterID)
	}
	if filter.Query != "" {
		where.Add(table.Title+" ILIKE ?"+postgres.LikeEscape, postgres.Contains(filter.Query))
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s %s`, table.Table, where.Clause())
	if err := repository.pool.QueryRow(context, countQuery, where.Args()...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, resourceName, "count_content")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		%s
		ORDER BY %s DESC, %s DESC
	`,
		entityColumns, table.Table, where.Clause(), table.CreatedAt, table.ID,
	)
	query += " LIMIT " + where.Bind(limit) + " OFFSET " + where.Bind(offset)

	rows, err := repository.pool.Query(context, query, where.Args()...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourceName, "list_content")
	}

	entities, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Entity, error) {
		return scanEntity(row)
	})
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourceName, "scan_content")
	}

	return entities, total, nil
}

// UpdateContent rewrites title, slug, description and attributes.
func (repository *PostgresRepository) UpdateContent(context context.Context, entity *Entity) error {
	table := schema.ContentEntity
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $3, %s = $4, %s = $5, %s = $6, %s = NOW()
		WHERE %s = $1 AND %s = $2
		RETURNING %s
	`,
		table.Table, table.Title, table.Slug, table.Description, table.Attributes, table.UpdatedAt,
		table.Kind, table.ID,
		table.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		entity.Kind, entity.ID, entity.Title, entity.Slug, entity.Description, entity.Attributes,
	).Scan(&entity.UpdatedAt)

	return dberr.Wrap(err, resourceName, "update_content")
}

// SetFeatured toggles the featured flag and returns the updated entity.
func (repository *PostgresRepository) SetFeatured(context context.Context, ref Ref, featured bool) (*Entity, error) {
	table := schema.ContentEntity
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $3, %s = NOW()
		WHERE %s = $1 AND %s = $2
		RETURNING %s
	`,
		table.Table, table.Featured, table.UpdatedAt,
		table.Kind, table.ID,
		entityColumns,
	)

	entity, err := scanEntity(repository.pool.QueryRow(context, query, ref.Kind, ref.ID, featured))
	if err != nil {
		return nil, dberr.Wrap(err, resourceName, "feature_content")
	}
	return entity, nil
}

/*
ApplyDecision updates the status and appends the moderation log entry in one transaction.

The UPDATE is a single statement, so concurrent decisions serialize on the row and the
last commit wins; each decision still appends its own log entry.
*/
func (repository *PostgresRepository) ApplyDecision(context context.Context, ref Ref, status Status, entry *audit.ModerationLogEntry) error {
	table := schema.ContentEntity
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $3, %s = NOW()
		WHERE %s = $1 AND %s = $2
		RETURNING %s
	`,
		table.Table, table.Status, table.UpdatedAt,
		table.Kind, table.ID,
		table.ID,
	)

	err := postgres.InTx(context, repository.pool, func(transaction pgx.Tx) error {
		var id int64
		if err := transaction.QueryRow(context, query, ref.Kind, ref.ID, status).Scan(&id); err != nil {
			return err
		}
		return audit.AppendModerationLog(context, transaction, entry)
	})

	return dberr.Wrap(err, resourceName, "apply_decision")
}
