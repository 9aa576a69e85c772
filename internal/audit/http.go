// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package audit

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/techhub/internal/platform/apperr"
	"github.com/taibuivan/techhub/internal/platform/middleware"
	requestutil "github.com/taibuivan/techhub/internal/platform/request"
	"github.com/taibuivan/techhub/internal/platform/respond"
	"github.com/taibuivan/techhub/internal/platform/sec"
	"github.com/taibuivan/techhub/pkg/query"
)

// Handler exposes the audit trails to the admin dashboard.
type Handler struct {
	service *Service
	gate    *sec.Gate
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service, gate *sec.Gate) *Handler {
	return &Handler{service: service, gate: gate}
}

// RegisterRoutes mounts the audit endpoints under /admin/audit.
//
// # Endpoints
//   - GET /roles      : Role audit trail (admin+)
//   - GET /moderation : Moderation log (moderator+)
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.With(middleware.RequireRole(handler.gate, sec.RoleAdmin)).Get("/roles", handler.listRoleAudit)
	router.With(middleware.RequireRole(handler.gate, sec.RoleModerator)).Get("/moderation", handler.listModeration)
}

/*
GET /api/v1/admin/audit/roles

Query: user_id, assigned_by, action, since, until (RFC 3339), cursor, limit.
*/
func (handler *Handler) listRoleAudit(writer http.ResponseWriter, request *http.Request) {
	values := request.URL.Query()
	params := &filterParams{values: values}

	filter := RoleAuditFilter{
		UserID:     params.optionalInt64("user_id"),
		AssignedBy: params.optionalInt64("assigned_by"),
		Action:     RoleAction(values.Get("action")),
		Since:      params.optionalTime("since"),
		Until:      params.optionalTime("until"),
	}
	if err := params.err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	limit := pageLimit(values)
	entries, next, err := handler.service.RoleAuditPage(request.Context(), requestutil.Actor(request), filter, values.Get("cursor"), limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Cursor(writer, entries, clampLimit(limit), next)
}

/*
GET /api/v1/admin/audit/moderation

Query: target_type, target_id, moderator_id, action, since, until (RFC 3339), cursor, limit.
*/
func (handler *Handler) listModeration(writer http.ResponseWriter, request *http.Request) {
	values := request.URL.Query()
	params := &filterParams{values: values}

	filter := ModerationFilter{
		TargetType:  values.Get("target_type"),
		TargetID:    params.optionalInt64("target_id"),
		ModeratorID: params.optionalInt64("moderator_id"),
		Action:      ModerationAction(values.Get("action")),
		Since:       params.optionalTime("since"),
		Until:       params.optionalTime("until"),
	}
	if err := params.err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	limit := pageLimit(values)
	entries, next, err := handler.service.ModerationPage(request.Context(), requestutil.Actor(request), filter, values.Get("cursor"), limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Cursor(writer, entries, clampLimit(limit), next)
}

// filterParams parses optional query parameters and remembers which were malformed.
type filterParams struct {
	values url.Values
	bad    []apperr.FieldError
}

func (params *filterParams) optionalInt64(key string) *int64 {
	value, ok := query.Int64(params.values, key)
	if !ok {
		params.bad = append(params.bad, apperr.FieldError{Field: key, Message: "Must be an integer"})
	}
	return value
}

func (params *filterParams) optionalTime(key string) *time.Time {
	value, ok := query.Time(params.values, key)
	if !ok {
		params.bad = append(params.bad, apperr.FieldError{Field: key, Message: "Must be an RFC 3339 timestamp"})
	}
	return value
}

func (params *filterParams) err() error {
	if len(params.bad) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", params.bad...)
}

func pageLimit(values url.Values) int {
	limit, err := strconv.Atoi(values.Get("limit"))
	if err != nil {
		return 0
	}
	return limit
}
