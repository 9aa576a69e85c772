// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/techhub/internal/audit"
	"github.com/taibuivan/techhub/internal/platform/apperr"
	"github.com/taibuivan/techhub/internal/platform/events"
	"github.com/taibuivan/techhub/internal/platform/metrics"
	"github.com/taibuivan/techhub/internal/platform/sec"
	"github.com/taibuivan/techhub/internal/users/account"
	"github.com/taibuivan/techhub/internal/users/admin"
	"github.com/taibuivan/techhub/pkg/pointer"
)

// # Fakes

// memoryStore serializes mutations under one mutex, standing in for the row lock.
type memoryStore struct {
	mu      sync.Mutex
	users   map[int64]*account.User
	entries []*audit.RoleAuditEntry

	// onLock runs on the locked copy before the protected re-check.
	onLock func(user *account.User)
}

func (store *memoryStore) Find(_ context.Context, id int64) (*account.User, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	user, ok := store.users[id]
	if !ok {
		return nil, apperr.NotFound("Account")
	}
	copied := *user
	return &copied, nil
}

func (store *memoryStore) Mutate(_ context.Context, id int64, mutation admin.Mutation) (*audit.RoleAuditEntry, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	stored, ok := store.users[id]
	if !ok {
		return nil, apperr.NotFound("Account")
	}

	locked := *stored
	if store.onLock != nil {
		store.onLock(&locked)
	}
	if locked.IsProtected {
		return nil, apperr.ProtectedAccount()
	}

	entry, err := mutation(&locked)
	if err != nil || entry == nil {
		return nil, err
	}

	store.users[id] = &locked
	store.entries = append(store.entries, entry)
	return entry, nil
}

func (store *memoryStore) List(_ context.Context, filter admin.Filter, limit, offset int) ([]*account.User, int, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	var matched []*account.User
	for id := int64(1); id <= int64(len(store.users))+100; id++ {
		user, ok := store.users[id]
		if !ok {
			continue
		}
		if len(filter.Roles) > 0 && !containsRole(filter.Roles, user.Role) {
			continue
		}
		if filter.Active != nil && user.IsActive != *filter.Active {
			continue
		}
		if filter.Query != "" && !strings.Contains(strings.ToLower(user.Name), strings.ToLower(filter.Query)) {
			continue
		}
		matched = append(matched, user)
	}

	end := min(offset+limit, len(matched))
	if offset >= len(matched) {
		return nil, len(matched), nil
	}
	return matched[offset:end], len(matched), nil
}

func containsRole(roles []sec.Role, role sec.Role) bool {
	for _, candidate := range roles {
		if candidate == role {
			return true
		}
	}
	return false
}

func (store *memoryStore) user(id int64) account.User {
	store.mu.Lock()
	defer store.mu.Unlock()
	return *store.users[id]
}

func (store *memoryStore) auditEntries() []*audit.RoleAuditEntry {
	store.mu.Lock()
	defer store.mu.Unlock()
	return append([]*audit.RoleAuditEntry(nil), store.entries...)
}

type recordingRevoker struct {
	mu      sync.Mutex
	revoked []int64
	err     error
}

func (revoker *recordingRevoker) Revoke(_ context.Context, userID int64) error {
	revoker.mu.Lock()
	defer revoker.mu.Unlock()
	revoker.revoked = append(revoker.revoked, userID)
	return revoker.err
}

// # Fixture

const (
	ownerID     int64 = 1
	coreAdminID int64 = 2
	adminID     int64 = 3
	memberID    int64 = 7
)

var (
	coreAdmin = sec.Actor{UserID: coreAdminID, Role: sec.RoleCoreAdmin}
	platAdmin = sec.Actor{UserID: adminID, Role: sec.RoleAdmin}
)

type fixture struct {
	store     *memoryStore
	revoker   *recordingRevoker
	publisher *events.Recorder
	metrics   *metrics.Metrics
	service   *admin.Service
}

func newFixture() *fixture {
	store := &memoryStore{users: map[int64]*account.User{
		ownerID:     {ID: ownerID, Name: "Platform Owner", Role: sec.RoleCoreAdmin, IsActive: true, IsProtected: true},
		coreAdminID: {ID: coreAdminID, Name: "Second Core Admin", Role: sec.RoleCoreAdmin, IsActive: true},
		adminID:     {ID: adminID, Name: "Dashboard Admin", Role: sec.RoleAdmin, IsActive: true},
		memberID:    {ID: memberID, Name: "Wanjiru", Role: sec.RoleContributor, IsActive: true},
	}}

	f := &fixture{
		store:     store,
		revoker:   &recordingRevoker{},
		publisher: &events.Recorder{},
		metrics:   metrics.New(),
	}
	f.service = admin.NewService(store, sec.NewGate(sec.DefaultHierarchy()), f.revoker, f.publisher, f.metrics, slog.New(slog.DiscardHandler))
	return f
}

// # Tests

/*
TestAssignRole_RecordsAuditEntry checks the entry appended for a promotion and the
side effects that follow the commit.
*/
func TestAssignRole_RecordsAuditEntry(t *testing.T) {
	f := newFixture()

	require.NoError(t, f.service.AssignRole(context.Background(), coreAdmin, memberID, "editor", pointer.To("promoted")))

	assert.Equal(t, sec.RoleEditor, f.store.user(memberID).Role)

	entries := f.store.auditEntries()
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, audit.RoleActionAssign, entry.Action)
	assert.Equal(t, memberID, entry.UserID)
	assert.Equal(t, sec.RoleContributor, entry.PreviousRole)
	assert.Equal(t, sec.RoleEditor, entry.NewRole)
	assert.Equal(t, coreAdminID, entry.AssignedBy)
	require.NotNil(t, entry.Reason)
	assert.Equal(t, "promoted", *entry.Reason)

	assert.Equal(t, []int64{memberID}, f.revoker.revoked)
	assert.Equal(t, []string{events.TypeUserRoleChanged}, f.publisher.Types())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.RoleChanges.WithLabelValues("assign")))
}

/*
TestProtectedAccount_RejectedForEveryRole covers every caller, the highest role included.
*/
func TestProtectedAccount_RejectedForEveryRole(t *testing.T) {
	f := newFixture()

	for _, name := range sec.DefaultRoleOrder {
		caller := sec.Actor{UserID: coreAdminID, Role: sec.Role(name)}

		t.Run(name, func(t *testing.T) {
			err := f.service.AssignRole(context.Background(), caller, ownerID, "user", nil)
			assert.True(t, apperr.HasCode(err, apperr.CodeProtectedAccount), "assign: %v", err)

			err = f.service.DeactivateUser(context.Background(), caller, ownerID, nil)
			assert.True(t, apperr.HasCode(err, apperr.CodeProtectedAccount), "deactivate: %v", err)
		})
	}

	owner := f.store.user(ownerID)
	assert.Equal(t, sec.RoleCoreAdmin, owner.Role)
	assert.True(t, owner.IsActive)
	assert.Empty(t, f.store.auditEntries())
	assert.Empty(t, f.revoker.revoked)
}

func TestProtectedAccount_RecheckedUnderLock(t *testing.T) {
	f := newFixture()
	f.store.onLock = func(user *account.User) { user.IsProtected = true }

	err := f.service.AssignRole(context.Background(), coreAdmin, memberID, "editor", nil)
	assert.True(t, apperr.HasCode(err, apperr.CodeProtectedAccount))
	assert.Empty(t, f.store.auditEntries())
}

func TestAssignRole_Preconditions(t *testing.T) {
	tests := []struct {
		name   string
		actor  sec.Actor
		target int64
		role   string
		reason *string
		code   string
	}{
		{"unknown target", coreAdmin, 404, "editor", nil, apperr.CodeNotFound},
		{"unknown target below core_admin", sec.Actor{UserID: 50, Role: sec.RoleUser}, 404, "editor", nil, apperr.CodeForbidden},
		{"unknown target as admin", platAdmin, 404, "editor", nil, apperr.CodeForbidden},
		{"admin is below core_admin", platAdmin, memberID, "editor", nil, apperr.CodeForbidden},
		{"unknown role", coreAdmin, memberID, "superuser", nil, apperr.CodeInvalidRole},
		{"caller with unknown role", sec.Actor{UserID: 9, Role: "root"}, memberID, "editor", nil, apperr.CodeInvalidRole},
		{"reason too long", coreAdmin, memberID, "editor", pointer.To(strings.Repeat("x", 1001)), apperr.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			err := f.service.AssignRole(context.Background(), tt.actor, tt.target, tt.role, tt.reason)
			assert.True(t, apperr.HasCode(err, tt.code), "got %v", err)
			assert.Empty(t, f.store.auditEntries())
			assert.Equal(t, sec.RoleContributor, f.store.user(memberID).Role)
		})
	}
}

func TestAssignRole_SameRoleIsNoOp(t *testing.T) {
	f := newFixture()

	require.NoError(t, f.service.AssignRole(context.Background(), coreAdmin, memberID, "Contributor", nil))

	assert.Empty(t, f.store.auditEntries())
	assert.Empty(t, f.revoker.revoked)
	assert.Empty(t, f.publisher.Types())
}

func TestAssignRole_SideEffectFailuresDoNotFail(t *testing.T) {
	f := newFixture()
	f.revoker.err = errors.New("redis unavailable")
	f.publisher.Err = errors.New("broker unavailable")

	require.NoError(t, f.service.AssignRole(context.Background(), coreAdmin, memberID, "moderator", nil))
	assert.Equal(t, sec.RoleModerator, f.store.user(memberID).Role)
	assert.Len(t, f.store.auditEntries(), 1)
}

/*
TestAssignRole_Concurrent verifies each entry's previous role is the role written by
the entry before it.
*/
func TestAssignRole_Concurrent(t *testing.T) {
	f := newFixture()
	roles := []string{"moderator", "editor", "admin", "user"}

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, f.service.AssignRole(context.Background(), coreAdmin, memberID, roles[i%len(roles)], nil))
		}()
	}
	wg.Wait()

	previous := sec.RoleContributor
	for i, entry := range f.store.auditEntries() {
		assert.Equal(t, previous, entry.PreviousRole, fmt.Sprintf("entry %d", i))
		assert.NotEqual(t, entry.PreviousRole, entry.NewRole)
		previous = entry.NewRole
	}
	assert.Equal(t, previous, f.store.user(memberID).Role)
}

func TestDeactivateUser(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	err := f.service.DeactivateUser(ctx, platAdmin, memberID, nil)
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	err = f.service.DeactivateUser(ctx, platAdmin, 404, nil)
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden), "missing ids look the same as existing ones")
	err = f.service.DeactivateUser(ctx, coreAdmin, 404, nil)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	require.NoError(t, f.service.DeactivateUser(ctx, coreAdmin, memberID, pointer.To("  spam  ")))
	require.NoError(t, f.service.DeactivateUser(ctx, coreAdmin, memberID, nil))

	member := f.store.user(memberID)
	assert.False(t, member.IsActive)
	assert.Equal(t, sec.RoleContributor, member.Role)

	entries := f.store.auditEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, audit.RoleActionDeactivate, entries[0].Action)
	assert.Equal(t, sec.RoleContributor, entries[0].PreviousRole)
	assert.Equal(t, sec.RoleContributor, entries[0].NewRole)
	assert.Equal(t, "spam", *entries[0].Reason)

	assert.Equal(t, []int64{memberID}, f.revoker.revoked)
	assert.Equal(t, []string{events.TypeUserDeactivated}, f.publisher.Types())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.RoleChanges.WithLabelValues("deactivate")))
}

func TestListUsers(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, _, err := f.service.ListUsers(ctx, sec.Actor{UserID: 5, Role: sec.RoleModerator}, admin.Filter{}, 20, 0)
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	_, _, err = f.service.ListUsers(ctx, platAdmin, admin.Filter{Roles: []sec.Role{"wizard"}}, 20, 0)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	users, total, err := f.service.ListUsers(ctx, platAdmin, admin.Filter{Roles: []sec.Role{"Core_Admin"}}, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, users, 2)

	users, total, err = f.service.ListUsers(ctx, platAdmin, admin.Filter{Query: " wanj "}, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, memberID, users[0].ID)
}
