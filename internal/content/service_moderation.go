// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/taibuivan/techhub/internal/audit"
	"github.com/taibuivan/techhub/internal/platform/events"
	"github.com/taibuivan/techhub/internal/platform/metrics"
	"github.com/taibuivan/techhub/internal/platform/sec"
	"github.com/taibuivan/techhub/internal/platform/tracing"
	"github.com/taibuivan/techhub/internal/platform/validate"
	"github.com/taibuivan/techhub/pkg/pointer"
)

const maxReasonLength = 1000

// ModerationEngine applies approve/reject decisions and records them in the moderation log.
type ModerationEngine struct {
	store     Store
	gate      *sec.Gate
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewModerationEngine constructs a new [ModerationEngine].
func NewModerationEngine(store Store, gate *sec.Gate, publisher events.Publisher, metrics *metrics.Metrics, logger *slog.Logger) *ModerationEngine {
	return &ModerationEngine{
		store:     store,
		gate:      gate,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// moderatedEvent is the payload of [events.TypeContentModerated].
type moderatedEvent struct {
	Kind   Kind                   `json:"kind"`
	Action audit.ModerationAction `json:"action"`
	Status Status                 `json:"status"`
	LogID  string                 `json:"log_id"`
	Reason *string                `json:"reason,omitempty"`
}

/*
Decide approves or rejects the entity at ref.

The privilege check runs before any storage access. The status change and its log
entry commit together; repeating a decision re-sets the status and logs again.

Parameters:
  - context: context.Context
  - actor: sec.Actor (moderator or above)
  - action: audit.ModerationAction (approve | reject)
  - ref: Ref
  - reason: *string (optional)

Returns:
  - error: FORBIDDEN, VALIDATION_ERROR, NOT_FOUND or PERSISTENCE_FAILED
*/
func (service *ModerationEngine) Decide(context context.Context, actor sec.Actor, action audit.ModerationAction, ref Ref, reason *string) error {
	context, span := tracing.Tracer("content").Start(context, "content.decide")
	defer span.End()
	span.SetAttributes(
		attribute.String("content.kind", string(ref.Kind)),
		attribute.Int64("content.id", ref.ID),
		attribute.String("moderation.action", string(action)),
	)

	// 1. Privilege
	if err := service.gate.Require(actor.Role, sec.RoleModerator); err != nil {
		return err
	}

	// 2. Input
	validator := &validate.Validator{}
	validator.OneOf("action", string(action), string(audit.ModerationApprove), string(audit.ModerationReject))
	if _, err := ParseKind(string(ref.Kind)); err != nil {
		return err
	}
	reason = pointer.Trimmed(reason)
	if reason != nil {
		validator.MaxLen("reason", *reason, maxReasonLength)
	}
	if err := validator.Err(); err != nil {
		return err
	}

	status := StatusApproved
	if action == audit.ModerationReject {
		status = StatusRejected
	}

	// 3. Status and log entry in one transaction
	entry := audit.NewModerationLogEntry(action, string(ref.Kind), ref.ID, actor.UserID, reason)
	if err := service.store.ApplyDecision(context, ref, status, entry); err != nil {
		tracing.Fail(span, err)
		return fmt.Errorf("moderation_decide_failed: %w", err)
	}

	// 4. Side effects after commit
	service.metrics.ModerationDecisions.WithLabelValues(string(ref.Kind), string(action)).Inc()
	events.Emit(context, service.publisher, events.New(events.TypeContentModerated, ref.ID, actor.UserID, moderatedEvent{
		Kind:   ref.Kind,
		Action: action,
		Status: status,
		LogID:  entry.ID.String(),
		Reason: reason,
	}))

	service.logger.InfoContext(context, "content_moderated",
		slog.String("kind", string(ref.Kind)),
		slog.Int64("content_id", ref.ID),
		slog.String("action", string(action)),
		slog.Int64("moderator_id", actor.UserID),
	)
	return nil
}
