// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/techhub/internal/platform/middleware"
	requestutil "github.com/taibuivan/techhub/internal/platform/request"
	"github.com/taibuivan/techhub/internal/platform/respond"
	"github.com/taibuivan/techhub/internal/platform/sec"
	"github.com/taibuivan/techhub/internal/platform/validate"
	"github.com/taibuivan/techhub/pkg/pagination"
	"github.com/taibuivan/techhub/pkg/query"
)

// Handler exposes user administration to the admin dashboard.
type Handler struct {
	service *Service
	gate    *sec.Gate
}

// NewHandler constructs a new admin [Handler].
func NewHandler(service *Service, gate *sec.Gate) *Handler {
	return &Handler{service: service, gate: gate}
}

// RegisterRoutes mounts the endpoints under /admin/users.
//
// # Endpoints
//   - GET  /                 : List accounts (admin+)
//   - PUT  /{id}/role        : Assign a role (core_admin)
//   - POST /{id}/deactivate  : Deactivate an account (core_admin)
//
// The role routes only require authentication here; the service decides, because a
// protected target must be reported as such whatever the caller's role.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.With(middleware.RequireRole(handler.gate, sec.RoleAdmin)).Get("/", handler.list)

	router.Group(func(authed chi.Router) {
		authed.Use(middleware.RequireAuth)

		authed.Put("/{id}/role", handler.assignRole)
		authed.Post("/{id}/deactivate", handler.deactivate)
	})
}

/*
GET /api/v1/admin/users

Query: role (comma separated), active, q, page, limit.
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	values := request.URL.Query()
	paginationParams := pagination.FromRequest(request)

	filter := Filter{Query: values.Get("q")}
	for _, role := range query.StringSlice(values.Get("role")) {
		filter.Roles = append(filter.Roles, sec.Role(role))
	}

	active, ok := query.Bool(values, "active")
	if !ok {
		respond.Error(writer, request, validate.RequiredError("active", "Must be true or false"))
		return
	}
	filter.Active = active

	users, total, err := handler.service.ListUsers(request.Context(), requestutil.Actor(request), filter,
		paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, pagination.NewMeta(paginationParams, total))
}

type assignRoleRequest struct {
	Role   string  `json:"role"`
	Reason *string `json:"reason"`
}

/*
PUT /api/v1/admin/users/{id}/role

Request: {"role": "editor", "reason": "promoted"}

Response:
  - 204: Role assigned (or already held)
  - 403: FORBIDDEN or PROTECTED_ACCOUNT
*/
func (handler *Handler) assignRole(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body assignRoleRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.AssignRole(request.Context(), requestutil.Actor(request), userID, body.Role, body.Reason); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

type deactivateRequest struct {
	Reason *string `json:"reason"`
}

// POST /api/v1/admin/users/{id}/deactivate. The body is optional.
func (handler *Handler) deactivate(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body deactivateRequest
	if request.ContentLength != 0 {
		if err := requestutil.DecodeJSON(request, &body); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	if err := handler.service.DeactivateUser(request.Context(), requestutil.Actor(request), userID, body.Reason); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
