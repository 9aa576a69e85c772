// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package audit_test

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/techhub/internal/audit"
	"github.com/taibuivan/techhub/internal/platform/apperr"
	"github.com/taibuivan/techhub/internal/platform/sec"
	"github.com/taibuivan/techhub/pkg/uuidv7"
)

// # Fakes

type memoryReader struct {
	mu         sync.Mutex
	roles      []*audit.RoleAuditEntry
	moderation []*audit.ModerationLogEntry
	fetches    int
	err        error
}

func before(aTime time.Time, aID uuid.UUID, bTime time.Time, bID uuid.UUID) bool {
	if !aTime.Equal(bTime) {
		return aTime.Before(bTime)
	}
	return aID.String() < bID.String()
}

func (reader *memoryReader) RoleAuditAfter(_ context.Context, filter audit.RoleAuditFilter, after *audit.Cursor, until time.Time, limit int) ([]*audit.RoleAuditEntry, error) {
	reader.mu.Lock()
	defer reader.mu.Unlock()
	reader.fetches++

	if reader.err != nil {
		return nil, reader.err
	}

	sorted := slices.Clone(reader.roles)
	slices.SortFunc(sorted, func(a, b *audit.RoleAuditEntry) int {
		if before(a.CreatedAt, a.ID, b.CreatedAt, b.ID) {
			return -1
		}
		return 1
	})

	var page []*audit.RoleAuditEntry
	for _, entry := range sorted {
		if entry.CreatedAt.After(until) {
			continue
		}
		if after != nil && !before(after.CreatedAt, after.ID, entry.CreatedAt, entry.ID) {
			continue
		}
		if filter.UserID != nil && entry.UserID != *filter.UserID {
			continue
		}
		if filter.Action != "" && entry.Action != filter.Action {
			continue
		}
		page = append(page, entry)
		if len(page) == limit {
			break
		}
	}
	return page, nil
}

func (reader *memoryReader) ModerationAfter(_ context.Context, filter audit.ModerationFilter, after *audit.Cursor, until time.Time, limit int) ([]*audit.ModerationLogEntry, error) {
	reader.mu.Lock()
	defer reader.mu.Unlock()
	reader.fetches++

	if reader.err != nil {
		return nil, reader.err
	}

	var page []*audit.ModerationLogEntry
	for _, entry := range reader.moderation {
		if entry.CreatedAt.After(until) {
			continue
		}
		if after != nil && !before(after.CreatedAt, after.ID, entry.CreatedAt, entry.ID) {
			continue
		}
		if filter.TargetType != "" && entry.TargetType != filter.TargetType {
			continue
		}
		page = append(page, entry)
		if len(page) == limit {
			break
		}
	}
	return page, nil
}

func (reader *memoryReader) appendRole(entry *audit.RoleAuditEntry) {
	reader.mu.Lock()
	defer reader.mu.Unlock()
	reader.roles = append(reader.roles, entry)
}

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func roleEntry(offset time.Duration, userID int64) *audit.RoleAuditEntry {
	return &audit.RoleAuditEntry{
		ID:           uuidv7.New(),
		UserID:       userID,
		Action:       audit.RoleActionAssign,
		PreviousRole: sec.RoleUser,
		NewRole:      sec.RoleContributor,
		AssignedBy:   1,
		CreatedAt:    epoch.Add(offset),
	}
}

func collect[T any](t *testing.T, seq func(func(T, error) bool)) []T {
	t.Helper()
	var out []T
	for entry, err := range seq {
		require.NoError(t, err)
		out = append(out, entry)
	}
	return out
}

func newService(reader audit.Reader, clock time.Time) *audit.Service {
	return audit.NewService(reader, sec.NewGate(sec.DefaultHierarchy()),
		audit.WithPageSize(2),
		audit.WithClock(func() time.Time { return clock }),
	)
}

// # Iterators

/*
TestRoleAuditLog_OrderedAcrossPages verifies keyset paging yields every entry once, in order.
*/
func TestRoleAuditLog_OrderedAcrossPages(t *testing.T) {
	reader := &memoryReader{}
	for i, offset := range []time.Duration{5, 1, 3, 2, 4} {
		reader.appendRole(roleEntry(offset*time.Minute, int64(i+10)))
	}
	// Two entries sharing a timestamp are ordered by id
	reader.appendRole(roleEntry(3*time.Minute, 99))

	service := newService(reader, epoch.Add(time.Hour))
	entries := collect(t, service.RoleAuditLog(context.Background(), audit.RoleAuditFilter{}))

	require.Len(t, entries, 6)
	for i := 1; i < len(entries); i++ {
		assert.True(t, before(entries[i-1].CreatedAt, entries[i-1].ID, entries[i].CreatedAt, entries[i].ID))
	}
	assert.Equal(t, 4, reader.fetches)
}

/*
TestRoleAuditLog_Restartable verifies ranging twice yields the same sequence.
*/
func TestRoleAuditLog_Restartable(t *testing.T) {
	reader := &memoryReader{}
	for i := range 5 {
		reader.appendRole(roleEntry(time.Duration(i)*time.Second, 7))
	}

	service := newService(reader, epoch.Add(time.Hour))
	seq := service.RoleAuditLog(context.Background(), audit.RoleAuditFilter{})

	first := collect(t, seq)
	second := collect(t, seq)
	assert.Equal(t, first, second)
	assert.Len(t, first, 5)
}

/*
TestRoleAuditLog_PinnedUpperBound ignores entries appended after iteration started.
*/
func TestRoleAuditLog_PinnedUpperBound(t *testing.T) {
	reader := &memoryReader{}
	reader.appendRole(roleEntry(time.Second, 1))
	reader.appendRole(roleEntry(2*time.Second, 2))
	reader.appendRole(roleEntry(3*time.Second, 3))

	clock := epoch.Add(time.Minute)
	service := newService(reader, clock)

	var seen []int64
	for entry, err := range service.RoleAuditLog(context.Background(), audit.RoleAuditFilter{}) {
		require.NoError(t, err)
		seen = append(seen, entry.UserID)
		if len(seen) == 1 {
			reader.appendRole(roleEntry(2*time.Minute, 4))
		}
	}

	assert.Equal(t, []int64{1, 2, 3}, seen)
}

/*
TestRoleAuditLog_EarlyBreakAndError stops fetching on break and surfaces errors once.
*/
func TestRoleAuditLog_EarlyBreakAndError(t *testing.T) {
	reader := &memoryReader{}
	for i := range 6 {
		reader.appendRole(roleEntry(time.Duration(i)*time.Second, 1))
	}
	service := newService(reader, epoch.Add(time.Hour))

	for range service.RoleAuditLog(context.Background(), audit.RoleAuditFilter{}) {
		break
	}
	assert.Equal(t, 1, reader.fetches)

	reader.err = apperr.PersistenceFailed(errors.New("timeout"))
	var errs int
	for entry, err := range service.RoleAuditLog(context.Background(), audit.RoleAuditFilter{}) {
		assert.Nil(t, entry)
		assert.True(t, apperr.HasCode(err, apperr.CodePersistenceFailed))
		errs++
	}
	assert.Equal(t, 1, errs)
}

/*
TestModerationLog_Filter narrows by target type.
*/
func TestModerationLog_Filter(t *testing.T) {
	reader := &memoryReader{}
	for i, kind := range []string{"job", "event", "job"} {
		reader.moderation = append(reader.moderation, &audit.ModerationLogEntry{
			ID: uuidv7.New(), Action: audit.ModerationApprove, TargetType: kind,
			TargetID: int64(i), ModeratorID: 3, CreatedAt: epoch.Add(time.Duration(i) * time.Second),
		})
	}

	service := newService(reader, epoch.Add(time.Hour))
	entries := collect(t, service.ModerationLog(context.Background(), audit.ModerationFilter{TargetType: "job"}))

	require.Len(t, entries, 2)
	assert.Equal(t, int64(0), entries[0].TargetID)
	assert.Equal(t, int64(2), entries[1].TargetID)
}

// # Pages

/*
TestRoleAuditPage_Cursor walks the trail page by page through opaque cursors.
*/
func TestRoleAuditPage_Cursor(t *testing.T) {
	reader := &memoryReader{}
	for i := range 5 {
		reader.appendRole(roleEntry(time.Duration(i)*time.Second, int64(i)))
	}
	service := newService(reader, epoch.Add(time.Hour))
	admin := sec.Actor{UserID: 1, Role: sec.RoleAdmin}

	var ids []int64
	cursor := ""
	for pages := 0; pages < 10; pages++ {
		entries, next, err := service.RoleAuditPage(context.Background(), admin, audit.RoleAuditFilter{}, cursor, 2)
		require.NoError(t, err)
		for _, entry := range entries {
			ids = append(ids, entry.UserID)
		}
		if next == "" {
			break
		}
		cursor = next
	}

	assert.Equal(t, []int64{0, 1, 2, 3, 4}, ids)
}

/*
TestPages_Authorization enforces admin for roles and moderator for moderation.
*/
func TestPages_Authorization(t *testing.T) {
	service := newService(&memoryReader{}, epoch)
	moderator := sec.Actor{UserID: 2, Role: sec.RoleModerator}

	_, _, err := service.RoleAuditPage(context.Background(), moderator, audit.RoleAuditFilter{}, "", 10)
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	_, _, err = service.ModerationPage(context.Background(), moderator, audit.ModerationFilter{}, "", 10)
	assert.NoError(t, err)

	_, _, err = service.ModerationPage(context.Background(), sec.Actor{UserID: 3, Role: sec.RoleContributor}, audit.ModerationFilter{}, "", 10)
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))
}

/*
TestPages_Validation rejects malformed cursors, unknown actions and inverted ranges.
*/
func TestPages_Validation(t *testing.T) {
	service := newService(&memoryReader{}, epoch)
	admin := sec.Actor{UserID: 1, Role: sec.RoleAdmin}

	_, _, err := service.RoleAuditPage(context.Background(), admin, audit.RoleAuditFilter{}, "%%%", 10)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, _, err = service.RoleAuditPage(context.Background(), admin, audit.RoleAuditFilter{Action: "promote"}, "", 10)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	since, until := epoch.Add(time.Hour), epoch
	_, _, err = service.ModerationPage(context.Background(), admin, audit.ModerationFilter{Since: &since, Until: &until}, "", 10)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

func TestCursor_RoundTrip(t *testing.T) {
	original := audit.Cursor{CreatedAt: epoch.Add(123456 * time.Microsecond), ID: uuidv7.New()}

	decoded, err := audit.DecodeCursor(original.Encode())
	require.NoError(t, err)
	assert.True(t, original.CreatedAt.Equal(decoded.CreatedAt))
	assert.Equal(t, original.ID, decoded.ID)

	none, err := audit.DecodeCursor("")
	assert.NoError(t, err)
	assert.Nil(t, none)
}
