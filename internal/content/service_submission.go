// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/taibuivan/techhub/internal/platform/apperr"
	"github.com/taibuivan/techhub/internal/platform/events"
	"github.com/taibuivan/techhub/internal/platform/metrics"
	"github.com/taibuivan/techhub/internal/platform/sec"
	"github.com/taibuivan/techhub/internal/platform/tracing"
	"github.com/taibuivan/techhub/internal/platform/validate"
)

// SubmissionService creates entities under the publication policy and serves reads
// with status-aware visibility.
type SubmissionService struct {
	store     Store
	gate      *sec.Gate
	policy    *Policy
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewSubmissionService constructs a new [SubmissionService].
func NewSubmissionService(store Store, gate *sec.Gate, policy *Policy, publisher events.Publisher, metrics *metrics.Metrics, logger *slog.Logger) *SubmissionService {
	return &SubmissionService{
		store:     store,
		gate:      gate,
		policy:    policy,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// submittedEvent is the payload of [events.TypeContentSubmitted].
type submittedEvent struct {
	Kind        Kind   `json:"kind"`
	Status      Status `json:"status"`
	Resubmitted *int64 `json:"resubmitted_from,omitempty"`
}

/*
Submit validates payload for kind and stores a new entity.

The initial status comes from the [Policy] alone: an anonymous submission of an
auto-approved kind is published immediately, exactly like an authenticated one.

Parameters:
  - context: context.Context
  - actor: sec.Actor (may be anonymous; the submitter is then nil)
  - kind: string
  - payload: Payload

Returns:
  - *Entity: The stored entity
  - error: VALIDATION_ERROR or PERSISTENCE_FAILED
*/
func (service *SubmissionService) Submit(context context.Context, actor sec.Actor, kind string, payload Payload) (*Entity, error) {
	parsedKind, err := ParseKind(kind)
	if err != nil {
		return nil, err
	}

	var submitterID *int64
	if !actor.IsAnonymous() {
		submitterID = &actor.UserID
	}

	return service.create(context, actor, parsedKind, payload, submitterID, nil)
}

// create is the single insert path shared by Submit and Resubmit.
func (service *SubmissionService) create(context context.Context, actor sec.Actor, kind Kind, payload Payload, submitterID *int64, resubmittedFrom *int64) (*Entity, error) {
	context, span := tracing.Tracer("content").Start(context, "content.submit")
	defer span.End()
	span.SetAttributes(attribute.String("content.kind", string(kind)))

	entity, err := ParsePayload(kind, payload)
	if err != nil {
		return nil, err
	}

	entity.Status = service.policy.InitialStatus(kind)
	entity.SubmitterID = submitterID

	if err := service.store.Create(context, entity); err != nil {
		tracing.Fail(span, err)
		return nil, fmt.Errorf("content_submit_failed: %w", err)
	}

	service.metrics.Submissions.WithLabelValues(string(kind), string(entity.Status)).Inc()
	events.Emit(context, service.publisher, events.New(events.TypeContentSubmitted, entity.ID, actor.UserID, submittedEvent{
		Kind:        kind,
		Status:      entity.Status,
		Resubmitted: resubmittedFrom,
	}))

	service.logger.InfoContext(context, "content_submitted",
		slog.String("kind", string(kind)),
		slog.Int64("content_id", entity.ID),
		slog.String("status", string(entity.Status)),
		slog.Bool("anonymous", submitterID == nil),
	)
	return entity, nil
}

// canSee reports whether actor may read entity in its current status.
func (service *SubmissionService) canSee(actor sec.Actor, entity *Entity) bool {
	return entity.Status == StatusApproved ||
		entity.IsOwnedBy(actor.UserID) ||
		service.gate.Allows(actor.Role, sec.RoleModerator)
}

// Get returns one entity. Non-approved entities are NOT_FOUND unless the actor owns
// them or is a moderator.
func (service *SubmissionService) Get(context context.Context, actor sec.Actor, ref Ref) (*Entity, error) {
	entity, err := service.store.Get(context, ref)
	if err != nil {
		return nil, err
	}

	if !service.canSee(actor, entity) {
		return nil, apperr.NotFound(resourceName)
	}
	return entity, nil
}

/*
List returns a page of entities of kind.

An omitted status lists approved entities. Pending or rejected listings require
moderator, except when the actor filters on their own submissions.
*/
func (service *SubmissionService) List(context context.Context, actor sec.Actor, kind string, filter Filter, limit, offset int) ([]*Entity, int, error) {
	parsedKind, err := ParseKind(kind)
	if err != nil {
		return nil, 0, err
	}

	if filter.Status != nil && *filter.Status != StatusApproved {
		ownListing := filter.SubmitterID != nil && !actor.IsAnonymous() && *filter.SubmitterID == actor.UserID
		if !ownListing {
			if err := service.gate.Require(actor.Role, sec.RoleModerator); err != nil {
				return nil, 0, err
			}
		}
	}

	return service.store.List(context, parsedKind, filter, limit, offset)
}

/*
UpdateContent replaces the content fields of an entity.

The owner may edit their own submission; anyone else needs editor. Status and the
featured flag are never changed here.
*/
func (service *SubmissionService) UpdateContent(context context.Context, actor sec.Actor, ref Ref, payload Payload) (*Entity, error) {
	existing, err := service.store.Get(context, ref)
	if err != nil {
		return nil, err
	}

	if !existing.IsOwnedBy(actor.UserID) {
		if err := service.gate.Require(actor.Role, sec.RoleEditor); err != nil {
			return nil, err
		}
	}

	updated, err := ParsePayload(existing.Kind, payload)
	if err != nil {
		return nil, err
	}

	updated.ID = existing.ID
	updated.Status = existing.Status
	updated.SubmitterID = existing.SubmitterID
	updated.Featured = existing.Featured
	updated.CreatedAt = existing.CreatedAt

	if err := service.store.UpdateContent(context, updated); err != nil {
		return nil, fmt.Errorf("content_update_failed: %w", err)
	}

	service.logger.InfoContext(context, "content_updated",
		slog.String("kind", string(ref.Kind)),
		slog.Int64("content_id", ref.ID),
		slog.Int64("actor_id", actor.UserID),
	)
	return updated, nil
}

// SetFeatured marks or unmarks an entity as featured. Editors and above only.
func (service *SubmissionService) SetFeatured(context context.Context, actor sec.Actor, ref Ref, featured bool) (*Entity, error) {
	if err := service.gate.Require(actor.Role, sec.RoleEditor); err != nil {
		return nil, err
	}

	entity, err := service.store.SetFeatured(context, ref, featured)
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "content_featured",
		slog.String("kind", string(ref.Kind)),
		slog.Int64("content_id", ref.ID),
		slog.Bool("featured", featured),
	)
	return entity, nil
}

/*
Resubmit creates a fresh submission from a rejected one, on behalf of its submitter.

The rejected original stays untouched. The copy goes through the same validation and
policy as a new submission.

Returns:
  - *Entity: The new entity
  - error: FORBIDDEN below moderator, NOT_FOUND, VALIDATION_ERROR when not rejected
*/
func (service *SubmissionService) Resubmit(context context.Context, actor sec.Actor, ref Ref) (*Entity, error) {
	if err := service.gate.Require(actor.Role, sec.RoleModerator); err != nil {
		return nil, err
	}

	original, err := service.store.Get(context, ref)
	if err != nil {
		return nil, err
	}

	if original.Status != StatusRejected {
		return nil, validate.RequiredError(FieldStatus, "Only rejected submissions can be resubmitted")
	}

	return service.create(context, actor, original.Kind, original.Payload(), original.SubmitterID, &original.ID)
}
