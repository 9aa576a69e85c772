// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/taibuivan/techhub/internal/platform/apperr"
	"github.com/taibuivan/techhub/internal/platform/constants"
	"github.com/taibuivan/techhub/internal/platform/ctxutil"
	"github.com/taibuivan/techhub/internal/platform/respond"
	"github.com/taibuivan/techhub/internal/platform/sec"
)

// TokenVerifier is satisfied by [*sec.TokenService].
type TokenVerifier interface {
	VerifyToken(raw string) (*sec.AuthClaims, error)
}

// RevocationChecker returns the instant before which a member's tokens are void,
// or the zero time when nothing was revoked.
type RevocationChecker interface {
	RevokedBefore(ctx context.Context, userID int64) (time.Time, error)
}

/*
Authenticate resolves the caller from an optional bearer token.

Without an Authorization header the request continues anonymously. A header that
is malformed, fails verification or predates the member's revocation marker is
answered with 401. When the marker cannot be read the token is accepted and the
failure logged, so a Redis outage does not sign everyone out.

Parameters:
  - verifier: TokenVerifier
  - revocations: RevocationChecker, nil disables the marker check
*/
func Authenticate(verifier TokenVerifier, revocations RevocationChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			header := request.Header.Get(constants.HeaderAuthorization)
			if header == "" {
				next.ServeHTTP(writer, request)
				return
			}

			raw, ok := bearerToken(header)
			if !ok {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			claims, err := verifier.VerifyToken(raw)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			if revoked(request.Context(), revocations, claims) {
				respond.Error(writer, request, apperr.Unauthorized("Session expired, please sign in again"))
				return
			}

			recordCaller(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctxutil.WithClaims(request.Context(), claims)))
		})
	}
}

// bearerToken accepts "Bearer <token>" with any casing of the scheme.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	token = strings.TrimSpace(token)
	if !found || !strings.EqualFold(scheme, "bearer") || token == "" || strings.ContainsRune(token, ' ') {
		return "", false
	}
	return token, true
}

func revoked(context context.Context, revocations RevocationChecker, claims *sec.AuthClaims) bool {
	if revocations == nil {
		return false
	}

	before, err := revocations.RevokedBefore(context, claims.UserID)
	if err != nil {
		ctxutil.Logger(context).WarnContext(context, "token_revocation_lookup_failed",
			slog.Int64("user_id", claims.UserID),
			slog.String("error", err.Error()),
		)
		return false
	}
	return !before.IsZero() && claims.IssuedBefore(before)
}

// RequireAuth answers 401 for anonymous callers. Mount after [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.Claims(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole answers 401 for anonymous callers and 403 below role. The comparison
// is [sec.Gate.Require], the same check services make.
func RequireRole(gate *sec.Gate, role sec.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return RequireAuth(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if err := gate.Require(ctxutil.Actor(request.Context()).Role, role); err != nil {
				respond.Error(writer, request, err)
				return
			}
			next.ServeHTTP(writer, request)
		}))
	}
}
