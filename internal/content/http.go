// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/techhub/internal/audit"
	"github.com/taibuivan/techhub/internal/platform/middleware"
	requestutil "github.com/taibuivan/techhub/internal/platform/request"
	"github.com/taibuivan/techhub/internal/platform/respond"
	"github.com/taibuivan/techhub/internal/platform/sec"
	"github.com/taibuivan/techhub/internal/platform/validate"
	"github.com/taibuivan/techhub/pkg/pagination"
	"github.com/taibuivan/techhub/pkg/query"
)

// Handler exposes submissions and moderation over HTTP.
type Handler struct {
	submissions *SubmissionService
	moderation  *ModerationEngine
	gate        *sec.Gate
}

// NewHandler constructs a new [Handler].
func NewHandler(submissions *SubmissionService, moderation *ModerationEngine, gate *sec.Gate) *Handler {
	return &Handler{submissions: submissions, moderation: moderation, gate: gate}
}

// RegisterRoutes mounts the content endpoints under /content.
//
// # Endpoints
//   - GET   /{kind}                : List (public; non-approved filters need moderator)
//   - POST  /{kind}                : Submit (anonymous allowed)
//   - GET   /{kind}/{id}           : Detail
//   - PATCH /{kind}/{id}           : Edit content (owner or editor+)
//   - PUT   /{kind}/{id}/featured  : Feature (editor+)
//   - POST  /{kind}/{id}/resubmit  : Resubmit a rejected entity (moderator+)
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/{kind}", handler.list)
	router.Post("/{kind}", handler.submit)
	router.Get("/{kind}/{id}", handler.get)

	router.Group(func(authed chi.Router) {
		authed.Use(middleware.RequireAuth)

		authed.Patch("/{kind}/{id}", handler.update)
		authed.With(middleware.RequireRole(handler.gate, sec.RoleEditor)).Put("/{kind}/{id}/featured", handler.setFeatured)
		authed.With(middleware.RequireRole(handler.gate, sec.RoleModerator)).Post("/{kind}/{id}/resubmit", handler.resubmit)
	})
}

// RegisterModerationRoutes mounts the decision endpoint under /moderation.
func (handler *Handler) RegisterModerationRoutes(router chi.Router) {
	router.With(middleware.RequireRole(handler.gate, sec.RoleModerator)).Post("/decisions", handler.decide)
}

// ref reads the {kind} and {id} route parameters.
func ref(request *http.Request) (Ref, error) {
	kind, err := ParseKind(requestutil.Param(request, "kind"))
	if err != nil {
		return Ref{}, err
	}

	id, err := requestutil.ID(request, "id")
	if err != nil {
		return Ref{}, err
	}

	return Ref{Kind: kind, ID: id}, nil
}

/*
GET /api/v1/content/{kind}

Query: status, featured, submitter_id, q, page, limit.
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	values := request.URL.Query()
	paginationParams := pagination.FromRequest(request)
	validator := &validate.Validator{}

	filter := Filter{Query: values.Get("q")}

	if raw := values.Get(FieldStatus); raw != "" {
		status, err := ParseStatus(raw)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		filter.Status = &status
	}

	featured, ok := query.Bool(values, "featured")
	validator.Custom("featured", !ok, "Must be true or false")
	filter.Featured = featured

	submitterID, ok := query.Int64(values, "submitter_id")
	validator.Custom("submitter_id", !ok, "Must be an integer")
	filter.SubmitterID = submitterID

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entities, total, err := handler.submissions.List(request.Context(), requestutil.Actor(request),
		requestutil.Param(request, "kind"), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, entities, pagination.NewMeta(paginationParams, total))
}

/*
POST /api/v1/content/{kind}

Body: the kind's fields, e.g. {"name": "...", "city": "..."} for a hub.
*/
func (handler *Handler) submit(writer http.ResponseWriter, request *http.Request) {
	var payload Payload
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.submissions.Submit(request.Context(), requestutil.Actor(request), requestutil.Param(request, "kind"), payload)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, entity)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	target, err := ref(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.submissions.Get(request.Context(), requestutil.Actor(request), target)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	target, err := ref(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload Payload
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.submissions.UpdateContent(request.Context(), requestutil.Actor(request), target, payload)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

type featuredRequest struct {
	Featured *bool `json:"featured"`
}

func (handler *Handler) setFeatured(writer http.ResponseWriter, request *http.Request) {
	target, err := ref(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input featuredRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if input.Featured == nil {
		respond.Error(writer, request, validate.RequiredError("featured", "This field is required"))
		return
	}

	entity, err := handler.submissions.SetFeatured(request.Context(), requestutil.Actor(request), target, *input.Featured)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

func (handler *Handler) resubmit(writer http.ResponseWriter, request *http.Request) {
	target, err := ref(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.submissions.Resubmit(request.Context(), requestutil.Actor(request), target)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, entity)
}

type decisionRequest struct {
	Action     string  `json:"action"`
	TargetType string  `json:"target_type"`
	TargetID   int64   `json:"target_id"`
	Reason     *string `json:"reason"`
}

/*
POST /api/v1/moderation/decisions

Body: {"action": "approve|reject", "target_type": "job", "target_id": 42, "reason": "..."}
*/
func (handler *Handler) decide(writer http.ResponseWriter, request *http.Request) {
	var input decisionRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	kind, err := ParseKind(input.TargetType)
	if err != nil {
		respond.Error(writer, request, validate.RequiredError("target_type", "Unknown content kind"))
		return
	}
	if input.TargetID <= 0 {
		respond.Error(writer, request, validate.RequiredError("target_id", "Must be a positive integer"))
		return
	}

	target := Ref{Kind: kind, ID: input.TargetID}
	if err := handler.moderation.Decide(request.Context(), requestutil.Actor(request), audit.ModerationAction(input.Action), target, input.Reason); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
