// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requestutil_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/techhub/internal/platform/apperr"
	"github.com/taibuivan/techhub/internal/platform/constants"
	"github.com/taibuivan/techhub/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/techhub/internal/platform/request"
	"github.com/taibuivan/techhub/internal/platform/sec"
)

type payload struct {
	Title string `json:"title"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		valid bool
	}{
		{"object", `{"title":"Go Meetup"}`, true},
		{"unknown_field", `{"title":"Go Meetup","seats":40}`, true},
		{"trailing_whitespace", "{\"title\":\"Go Meetup\"}\n", true},
		{"malformed", `{"title":`, false},
		{"two_values", `{"title":"a"}{"title":"b"}`, false},
		{"empty", ``, false},
		{"too_large", `{"title":"` + strings.Repeat("x", constants.MaxRequestBodyBytes) + `"}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))

			var target payload
			err := requestutil.DecodeJSON(request, &target)

			if tt.valid {
				require.NoError(t, err)
				assert.Equal(t, "Go Meetup", target.Title)
			} else {
				assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
			}
		})
	}
}

func TestID(t *testing.T) {
	tests := map[string]bool{"42": true, "0": false, "-3": false, "abc": false}

	for raw, valid := range tests {
		routeContext := chi.NewRouteContext()
		routeContext.URLParams.Add("id", raw)
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request = request.WithContext(context.WithValue(request.Context(), chi.RouteCtxKey, routeContext))

		id, err := requestutil.ID(request, "id")
		if valid {
			require.NoError(t, err, raw)
			assert.Equal(t, int64(42), id)
		} else {
			assert.Error(t, err, raw)
		}
	}
}

func TestRequiredActor(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)

	_, err := requestutil.RequiredActor(request)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))
	assert.True(t, requestutil.Actor(request).IsAnonymous())

	claims := &sec.AuthClaims{UserID: 7, Role: "moderator"}
	request = request.WithContext(ctxutil.WithClaims(request.Context(), claims))

	actor, err := requestutil.RequiredActor(request)
	require.NoError(t, err)
	assert.Equal(t, int64(7), actor.UserID)
	assert.Equal(t, sec.Role("moderator"), actor.Role)
}
