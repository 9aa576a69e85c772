// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package audit

import (
	"context"
	"iter"
	"time"

	"github.com/taibuivan/techhub/internal/platform/constants"
	"github.com/taibuivan/techhub/internal/platform/sec"
	"github.com/taibuivan/techhub/internal/platform/validate"
)

// Service reads the audit trails.
//
// The iterator forms stream a whole trail lazily, fetching one keyset page at a time.
// The page forms back the HTTP endpoints and enforce the reader's privilege level.
type Service struct {
	reader   Reader
	gate     *sec.Gate
	pageSize int
	clock    func() time.Time
}

// Option customizes a [Service].
type Option func(*Service)

// WithPageSize sets how many rows each underlying fetch of an iterator requests.
func WithPageSize(size int) Option {
	return func(service *Service) {
		if size > 0 {
			service.pageSize = size
		}
	}
}

// WithClock replaces the time source used to pin iteration bounds.
func WithClock(clock func() time.Time) Option {
	return func(service *Service) {
		service.clock = clock
	}
}

// NewService creates an audit reader service.
func NewService(reader Reader, gate *sec.Gate, options ...Option) *Service {
	service := &Service{
		reader:   reader,
		gate:     gate,
		pageSize: constants.AuditPageDefault,
		clock:    time.Now,
	}
	for _, option := range options {
		option(service)
	}
	return service
}

// # Iterators

/*
RoleAuditLog streams the role audit trail in (createdAt, id) order.

The upper time bound is fixed when iteration starts, so entries appended while the
caller is iterating are not observed. Ranging over the sequence again starts over
with a fresh bound. Iteration stops after the first error.
*/
func (service *Service) RoleAuditLog(context context.Context, filter RoleAuditFilter) iter.Seq2[*RoleAuditEntry, error] {
	return paginate(service.pageSize,
		func() time.Time { return service.upperBound(filter.Until) },
		func(after *Cursor, until time.Time, limit int) ([]*RoleAuditEntry, error) {
			return service.reader.RoleAuditAfter(context, filter, after, until, limit)
		},
		roleCursor,
	)
}

// ModerationLog streams the moderation log with the same guarantees as [Service.RoleAuditLog].
func (service *Service) ModerationLog(context context.Context, filter ModerationFilter) iter.Seq2[*ModerationLogEntry, error] {
	return paginate(service.pageSize,
		func() time.Time { return service.upperBound(filter.Until) },
		func(after *Cursor, until time.Time, limit int) ([]*ModerationLogEntry, error) {
			return service.reader.ModerationAfter(context, filter, after, until, limit)
		},
		moderationCursor,
	)
}

func paginate[T any](
	pageSize int,
	bound func() time.Time,
	fetch func(after *Cursor, until time.Time, limit int) ([]T, error),
	cursorOf func(T) Cursor,
) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		until := bound()
		var after *Cursor

		for {
			page, err := fetch(after, until, pageSize)
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}

			for _, entry := range page {
				if !yield(entry, nil) {
					return
				}
			}

			if len(page) < pageSize {
				return
			}

			next := cursorOf(page[len(page)-1])
			after = &next
		}
	}
}

// # Pages

/*
RoleAuditPage returns one page of the role audit trail for the admin dashboard.

Parameters:
  - context: context.Context
  - actor: sec.Actor (must be admin or above)
  - filter: RoleAuditFilter
  - cursor: string (opaque, empty for the first page)
  - limit: int (clamped to the allowed page size)

Returns:
  - []*RoleAuditEntry: The page
  - string: Cursor for the next page, empty at the end
  - error: FORBIDDEN, VALIDATION_ERROR or PERSISTENCE_FAILED
*/
func (service *Service) RoleAuditPage(context context.Context, actor sec.Actor, filter RoleAuditFilter, cursor string, limit int) ([]*RoleAuditEntry, string, error) {
	if err := service.gate.Require(actor.Role, sec.RoleAdmin); err != nil {
		return nil, "", err
	}

	validator := &validate.Validator{}
	if filter.Action != "" {
		validator.OneOf("action", string(filter.Action), string(RoleActionAssign), string(RoleActionDeactivate))
	}
	checkRange(validator, filter.Since, filter.Until)

	after, err := DecodeCursor(cursor)
	if err != nil {
		return nil, "", err
	}
	if err := validator.Err(); err != nil {
		return nil, "", err
	}

	limit = clampLimit(limit)
	entries, err := service.reader.RoleAuditAfter(context, filter, after, service.upperBound(filter.Until), limit+1)
	if err != nil {
		return nil, "", err
	}

	return trimPage(entries, limit, roleCursor)
}

// ModerationPage returns one page of the moderation log. Moderators and above may read it.
func (service *Service) ModerationPage(context context.Context, actor sec.Actor, filter ModerationFilter, cursor string, limit int) ([]*ModerationLogEntry, string, error) {
	if err := service.gate.Require(actor.Role, sec.RoleModerator); err != nil {
		return nil, "", err
	}

	validator := &validate.Validator{}
	if filter.Action != "" {
		validator.OneOf("action", string(filter.Action), string(ModerationApprove), string(ModerationReject))
	}
	checkRange(validator, filter.Since, filter.Until)

	after, err := DecodeCursor(cursor)
	if err != nil {
		return nil, "", err
	}
	if err := validator.Err(); err != nil {
		return nil, "", err
	}

	limit = clampLimit(limit)
	entries, err := service.reader.ModerationAfter(context, filter, after, service.upperBound(filter.Until), limit+1)
	if err != nil {
		return nil, "", err
	}

	return trimPage(entries, limit, moderationCursor)
}

// # Helpers

func (service *Service) upperBound(until *time.Time) time.Time {
	now := service.clock().UTC()
	if until != nil && until.Before(now) {
		return until.UTC()
	}
	return now
}

func checkRange(validator *validate.Validator, since, until *time.Time) {
	if since != nil && until != nil {
		validator.Custom("since", since.After(*until), "Must not be later than until")
	}
}

func clampLimit(limit int) int {
	if limit < 1 {
		return constants.AuditPageDefault
	}
	return min(limit, constants.AuditPageMax)
}

// trimPage drops the look-ahead row and derives the next cursor from the last kept entry.
func trimPage[T any](entries []T, limit int, cursorOf func(T) Cursor) ([]T, string, error) {
	if len(entries) <= limit {
		return entries, "", nil
	}

	entries = entries[:limit]
	return entries, cursorOf(entries[len(entries)-1]).Encode(), nil
}
