// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/techhub/internal/platform/middleware"
	requestutil "github.com/taibuivan/techhub/internal/platform/request"
	"github.com/taibuivan/techhub/internal/platform/respond"
)

// Handler serves member profiles.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the profile endpoints at the API root:
//
//	GET   /me          own profile, private fields included
//	PATCH /me          partial update of own profile
//	GET   /users/{id}  public profile; hidden skills are omitted
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Group(func(private chi.Router) {
		private.Use(middleware.RequireAuth)
		private.Get("/me", handler.me)
		private.Patch("/me", handler.updateMe)
	})
	router.Get("/users/{id}", handler.profile)
}

func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.GetProfile(request.Context(), actor)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

// updateMe applies only the fields present in the body.
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var changes UpdateProfileInput
	if err := requestutil.DecodeJSON(request, &changes); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.UpdateProfile(request.Context(), actor, changes)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

func (handler *Handler) profile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	public, err := handler.service.PublicProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, public)
}
