// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package audit holds the append-only history of privileged actions.

Two trails are kept: role changes (assignments and deactivations) and moderation
decisions. Entries are written by the services that perform the action, inside the
same transaction as the state change, and are never updated or deleted.

This package owns the entry types, the SQL that appends them, and the readers used
by the admin dashboard.
*/
package audit

import (
	"time"

	"github.com/google/uuid"

	"github.com/taibuivan/techhub/internal/platform/sec"
	"github.com/taibuivan/techhub/pkg/uuidv7"
)

// # Actions

// RoleAction distinguishes the kinds of role audit entries.
type RoleAction string

const (
	RoleActionAssign     RoleAction = "assign"
	RoleActionDeactivate RoleAction = "deactivate"
)

// ModerationAction is the outcome of a moderation decision.
type ModerationAction string

const (
	ModerationApprove ModerationAction = "approve"
	ModerationReject  ModerationAction = "reject"
)

// # Entries

// RoleAuditEntry records one change to a user's role or activation state.
type RoleAuditEntry struct {
	ID           uuid.UUID  `json:"id"`
	UserID       int64      `json:"user_id"`
	Action       RoleAction `json:"action"`
	PreviousRole sec.Role   `json:"previous_role"`
	NewRole      sec.Role   `json:"new_role"`
	AssignedBy   int64      `json:"assigned_by"`
	Reason       *string    `json:"reason,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// NewRoleAuditEntry stamps a new entry with a time-ordered id.
func NewRoleAuditEntry(action RoleAction, userID int64, previous, next sec.Role, assignedBy int64, reason *string) *RoleAuditEntry {
	return &RoleAuditEntry{
		ID:           uuidv7.New(),
		UserID:       userID,
		Action:       action,
		PreviousRole: previous,
		NewRole:      next,
		AssignedBy:   assignedBy,
		Reason:       reason,
		CreatedAt:    now(),
	}
}

// ModerationLogEntry records one approve or reject decision.
type ModerationLogEntry struct {
	ID          uuid.UUID        `json:"id"`
	Action      ModerationAction `json:"action"`
	TargetType  string           `json:"target_type"`
	TargetID    int64            `json:"target_id"`
	ModeratorID int64            `json:"moderator_id"`
	Reason      *string          `json:"reason,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// NewModerationLogEntry stamps a new entry with a time-ordered id.
func NewModerationLogEntry(action ModerationAction, targetType string, targetID, moderatorID int64, reason *string) *ModerationLogEntry {
	return &ModerationLogEntry{
		ID:          uuidv7.New(),
		Action:      action,
		TargetType:  targetType,
		TargetID:    targetID,
		ModeratorID: moderatorID,
		Reason:      reason,
		CreatedAt:   now(),
	}
}

// # Filters

// RoleAuditFilter narrows the role audit trail. Zero fields do not filter.
type RoleAuditFilter struct {
	UserID     *int64
	AssignedBy *int64
	Action     RoleAction
	Since      *time.Time
	Until      *time.Time
}

// ModerationFilter narrows the moderation log. Zero fields do not filter.
type ModerationFilter struct {
	TargetType  string
	TargetID    *int64
	ModeratorID *int64
	Action      ModerationAction
	Since       *time.Time
	Until       *time.Time
}

// now matches the microsecond precision Postgres keeps, so cursors built from a
// fresh entry and from a stored one agree.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
