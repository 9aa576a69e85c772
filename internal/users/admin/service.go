// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/taibuivan/techhub/internal/audit"
	"github.com/taibuivan/techhub/internal/platform/apperr"
	"github.com/taibuivan/techhub/internal/platform/events"
	"github.com/taibuivan/techhub/internal/platform/metrics"
	"github.com/taibuivan/techhub/internal/platform/sec"
	"github.com/taibuivan/techhub/internal/platform/tracing"
	"github.com/taibuivan/techhub/internal/platform/validate"
	"github.com/taibuivan/techhub/internal/users/account"
	"github.com/taibuivan/techhub/pkg/pointer"
)

const maxReasonLength = 1000

// Service administers roles and account activation.
type Service struct {
	store     Store
	gate      *sec.Gate
	revoker   Revoker
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewService constructs a new admin [Service].
func NewService(store Store, gate *sec.Gate, revoker Revoker, publisher events.Publisher, metrics *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		store:     store,
		gate:      gate,
		revoker:   revoker,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// roleChangedEvent is the payload of [events.TypeUserRoleChanged] and [events.TypeUserDeactivated].
type roleChangedEvent struct {
	PreviousRole sec.Role `json:"previous_role"`
	NewRole      sec.Role `json:"new_role"`
	AuditID      string   `json:"audit_id"`
	Reason       *string  `json:"reason,omitempty"`
}

// # Role Assignment

/*
AssignRole sets the role of targetID.

Checks run in this order: target lookup, protected account, caller privilege, role
name. The protected flag never changes, so that account is refused to every caller,
the highest role included. Assigning the role the member already holds writes nothing.

Parameters:
  - context: context.Context
  - actor: sec.Actor (core_admin)
  - targetID: int64
  - newRole: string (parsed against the hierarchy)
  - reason: *string (optional)

Returns:
  - error: NOT_FOUND, PROTECTED_ACCOUNT, FORBIDDEN, INVALID_ROLE, VALIDATION_ERROR or PERSISTENCE_FAILED
*/
func (service *Service) AssignRole(context context.Context, actor sec.Actor, targetID int64, newRole string, reason *string) error {
	context, span := tracing.Tracer("admin").Start(context, "admin.assign_role")
	defer span.End()
	span.SetAttributes(attribute.Int64("user.id", targetID), attribute.String("role.new", newRole))

	if err := service.precheck(context, actor, targetID); err != nil {
		return err
	}

	role, err := service.gate.Hierarchy().Parse(newRole)
	if err != nil {
		return err
	}

	reason, err = normalizeReason(reason)
	if err != nil {
		return err
	}

	entry, err := service.store.Mutate(context, targetID, func(user *account.User) (*audit.RoleAuditEntry, error) {
		if user.Role == role {
			return nil, nil
		}

		entry := audit.NewRoleAuditEntry(audit.RoleActionAssign, user.ID, user.Role, role, actor.UserID, reason)
		user.Role = role
		return entry, nil
	})
	if err != nil {
		tracing.Fail(span, err)
		return fmt.Errorf("admin_assign_role_failed: %w", err)
	}

	if entry == nil {
		service.logger.InfoContext(context, "role_assignment_unchanged",
			slog.Int64("user_id", targetID),
			slog.String("role", string(role)),
		)
		return nil
	}

	service.afterCommit(context, events.TypeUserRoleChanged, entry)
	service.logger.InfoContext(context, "role_assigned",
		slog.Int64("user_id", targetID),
		slog.Int64("assigned_by", actor.UserID),
		slog.String("previous_role", string(entry.PreviousRole)),
		slog.String("new_role", string(entry.NewRole)),
		slog.String("reason", pointer.Val(entry.Reason)),
	)
	return nil
}

// # Deactivation

/*
DeactivateUser disables sign-in for targetID.

The same preconditions as [Service.AssignRole] apply. The entry records the unchanged
role on both sides. Submissions and audit history are kept; an inactive account is a no-op.
*/
func (service *Service) DeactivateUser(context context.Context, actor sec.Actor, targetID int64, reason *string) error {
	context, span := tracing.Tracer("admin").Start(context, "admin.deactivate_user")
	defer span.End()
	span.SetAttributes(attribute.Int64("user.id", targetID))

	if err := service.precheck(context, actor, targetID); err != nil {
		return err
	}

	reason, err := normalizeReason(reason)
	if err != nil {
		return err
	}

	entry, err := service.store.Mutate(context, targetID, func(user *account.User) (*audit.RoleAuditEntry, error) {
		if !user.IsActive {
			return nil, nil
		}

		user.IsActive = false
		return audit.NewRoleAuditEntry(audit.RoleActionDeactivate, user.ID, user.Role, user.Role, actor.UserID, reason), nil
	})
	if err != nil {
		tracing.Fail(span, err)
		return fmt.Errorf("admin_deactivate_failed: %w", err)
	}

	if entry == nil {
		return nil
	}

	service.afterCommit(context, events.TypeUserDeactivated, entry)
	service.logger.InfoContext(context, "user_deactivated",
		slog.Int64("user_id", targetID),
		slog.Int64("deactivated_by", actor.UserID),
	)
	return nil
}

// precheck runs the lookup, protected and privilege checks shared by both mutations.
// A missing target is only reported to callers who pass the gate, so account ids
// cannot be enumerated.
func (service *Service) precheck(context context.Context, actor sec.Actor, targetID int64) error {
	target, err := service.store.Find(context, targetID)
	if err != nil {
		if apperr.IsNotFound(err) {
			if gateErr := service.gate.Require(actor.Role, sec.RoleCoreAdmin); gateErr != nil {
				return gateErr
			}
		}
		return err
	}

	if target.IsProtected {
		return apperr.ProtectedAccount()
	}

	return service.gate.Require(actor.Role, sec.RoleCoreAdmin)
}

// afterCommit revokes the member's tokens and publishes the change. None of it can fail the operation.
func (service *Service) afterCommit(context context.Context, eventType string, entry *audit.RoleAuditEntry) {
	if err := service.revoker.Revoke(context, entry.UserID); err != nil {
		service.logger.WarnContext(context, "token_revocation_failed",
			slog.Int64("user_id", entry.UserID),
			slog.String("error", err.Error()),
		)
	}

	service.metrics.RoleChanges.WithLabelValues(string(entry.Action)).Inc()
	events.Emit(context, service.publisher, events.New(eventType, entry.UserID, entry.AssignedBy, roleChangedEvent{
		PreviousRole: entry.PreviousRole,
		NewRole:      entry.NewRole,
		AuditID:      entry.ID.String(),
		Reason:       entry.Reason,
	}))
}

// normalizeReason drops blank reasons and bounds the length of the rest.
func normalizeReason(reason *string) (*string, error) {
	reason = pointer.Trimmed(reason)
	if reason == nil {
		return nil, nil
	}

	validator := &validate.Validator{}
	if err := validator.MaxLen("reason", *reason, maxReasonLength).Err(); err != nil {
		return nil, err
	}
	return reason, nil
}

// # Listing

// ListUsers returns one page of accounts for the admin dashboard. Admins and above only.
func (service *Service) ListUsers(context context.Context, actor sec.Actor, filter Filter, limit, offset int) ([]*account.User, int, error) {
	if err := service.gate.Require(actor.Role, sec.RoleAdmin); err != nil {
		return nil, 0, err
	}

	for i, role := range filter.Roles {
		parsed, err := service.gate.Hierarchy().Parse(string(role))
		if err != nil {
			return nil, 0, validate.RequiredError("role", fmt.Sprintf("Unknown role %q", role))
		}
		filter.Roles[i] = parsed
	}
	filter.Query = strings.TrimSpace(filter.Query)

	return service.store.List(context, filter, limit, offset)
}
