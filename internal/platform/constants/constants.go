// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package constants holds fixed values shared across layers. Anything an operator
// may want to tune lives in config instead.
package constants

import "time"

const (
	AppName    = "techhub-api"
	AppVersion = "0.1.0-dev"
)

// # HTTP server

const (
	DefaultReadHeaderTimeout = 2 * time.Second
	DefaultReadTimeout       = 5 * time.Second
	DefaultWriteTimeout      = 10 * time.Second
	DefaultIdleTimeout       = 120 * time.Second

	// GlobalRequestTimeout is also applied as the postgres statement_timeout.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout bounds the drain of in-flight requests.
	ShutdownTimeout = 30 * time.Second

	// MaxRequestBodyBytes caps a JSON request body. Submissions are text only.
	MaxRequestBodyBytes = 1 << 20
)

// # Background work

const (
	// HealthCheckTimeout bounds each dependency check of /ready.
	HealthCheckTimeout = 2 * time.Second

	// EventPublishTimeout bounds one best-effort domain event write.
	EventPublishTimeout = 3 * time.Second

	// RateLimitCleanupInterval is how often idle limiter entries are swept.
	RateLimitCleanupInterval = time.Minute

	// RateLimitClientTTL is how long an address must be idle before its limiter is dropped.
	RateLimitClientTTL = 3 * time.Minute
)

// # Identity

const (
	// AuthIssuer is the "iss" claim of every access token.
	AuthIssuer = "techhub.dev"

	// MinPasswordLength applies to registration and the bootstrap administrator.
	MinPasswordLength = 8

	// RedisPrefixRevokedBefore + user id holds the unix second before which the
	// member's tokens are void.
	RedisPrefixRevokedBefore = "auth:revoked_before:"
)

// # Audit reading

const (
	AuditPageDefault = 50
	AuditPageMax     = 200
)

// # Header and payload keys

const (
	HeaderAuthorization = "Authorization"
	HeaderOrigin        = "Origin"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXRequestID    = "X-Request-ID"
)

// Keys of the /health and /ready payloads.
const (
	FieldStatus  = "status"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldChecks  = "checks"
)
