// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package middleware holds the HTTP decorators applied by [api.NewServer].

Order matters. The server installs them as:

	RequestID -> StructuredLogger -> tracing -> Metrics -> Timeout -> RateLimit
	-> PanicRecovery -> CORS -> Authenticate -> (route) RequireAuth / RequireRole

Everything below Authenticate can rely on [ctxutil.Actor]; everything below
StructuredLogger can rely on [ctxutil.Logger].
*/
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/taibuivan/techhub/internal/platform/apperr"
	"github.com/taibuivan/techhub/internal/platform/constants"
	"github.com/taibuivan/techhub/internal/platform/ctxutil"
	"github.com/taibuivan/techhub/internal/platform/respond"
	"github.com/taibuivan/techhub/internal/platform/sec"
	"github.com/taibuivan/techhub/pkg/uuidv7"
)

// maxRequestIDLength bounds client supplied correlation ids.
const maxRequestIDLength = 128

// # Correlation

// RequestID reuses a well-formed inbound X-Request-ID or mints a UUIDv7, and echoes it back.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			requestID := strings.TrimSpace(request.Header.Get(constants.HeaderXRequestID))
			if requestID == "" || len(requestID) > maxRequestIDLength {
				requestID = uuidv7.String()
			}

			writer.Header().Set(constants.HeaderXRequestID, requestID)
			next.ServeHTTP(writer, request.WithContext(ctxutil.WithRequestID(request.Context(), requestID)))
		})
	}
}

// # Request Logging

// statusRecorder captures the status written by downstream handlers.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (recorder *statusRecorder) WriteHeader(code int) {
	recorder.status = code
	recorder.ResponseWriter.WriteHeader(code)
}

/*
StructuredLogger puts a request-scoped logger into the context and writes one
http_request_finished line per request.

The level follows the outcome: 5xx at error, 4xx at warn, the rest at info. The
caller's user id and role are added when the request carried a verified token.
*/
func StructuredLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			startTime := time.Now()

			requestLogger := logger.With(
				slog.String("request_id", ctxutil.RequestID(request.Context())),
				slog.String("method", request.Method),
				slog.String("path", request.URL.Path),
				slog.String("ip", RealIP(request)),
			)

			recorder := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}
			request = request.WithContext(ctxutil.WithLogger(request.Context(), requestLogger))

			// Authenticate runs further down the chain and swaps in its own request,
			// so the caller is read from a holder it fills in.
			holder := &callerHolder{}
			next.ServeHTTP(recorder, request.WithContext(withCallerHolder(request.Context(), holder)))

			attributes := []any{
				slog.Int("status", recorder.status),
				slog.Int64("latency_ms", time.Since(startTime).Milliseconds()),
				slog.String("user_agent", request.UserAgent()),
			}
			if holder.claims != nil {
				attributes = append(attributes,
					slog.Int64("user_id", holder.claims.UserID),
					slog.String("role", holder.claims.Role),
				)
			}

			requestLogger.Log(request.Context(), levelFor(recorder.status), "http_request_finished", attributes...)
		})
	}
}

type callerKey struct{}

// callerHolder lets Authenticate report the verified caller back to the request logger.
type callerHolder struct {
	claims *sec.AuthClaims
}

func withCallerHolder(ctx context.Context, holder *callerHolder) context.Context {
	return context.WithValue(ctx, callerKey{}, holder)
}

func recordCaller(ctx context.Context, claims *sec.AuthClaims) {
	if holder, ok := ctx.Value(callerKey{}).(*callerHolder); ok {
		holder.claims = claims
	}
}

func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// # Panic Recovery

// PanicRecovery turns a panic into INTERNAL_ERROR and logs the stack on the request logger.
func PanicRecovery() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				if recovered == http.ErrAbortHandler {
					panic(recovered)
				}

				ctxutil.Logger(request.Context()).ErrorContext(request.Context(), "panic_recovered",
					slog.Any("panic", recovered),
					slog.String("stack", string(debug.Stack())),
				)
				respond.Error(writer, request, apperr.Internal(fmt.Errorf("panic: %v", recovered)))
			}()

			next.ServeHTTP(writer, request)
		})
	}
}

// # Client Address

// RealIP returns the client address, preferring X-Real-IP, then the first X-Forwarded-For hop.
func RealIP(request *http.Request) string {
	if ip := strings.TrimSpace(request.Header.Get(constants.HeaderXRealIP)); ip != "" {
		return ip
	}

	if forwarded := request.Header.Get(constants.HeaderXForwardedFor); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}

	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return request.RemoteAddr
	}
	return host
}
