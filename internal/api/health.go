// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"cmp"
	"context"
	"log/slog"
	"net/http"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/techhub/internal/platform/constants"
	"github.com/taibuivan/techhub/internal/platform/respond"
)

// Check tests one dependency. It must honor the context deadline.
type Check func(ctx context.Context) error

// HealthDependencies holds the injectable dependency checkers for the /ready endpoint,
// keyed by the name reported in the response (e.g. "postgres", "redis").
type HealthDependencies map[string]Check

type healthHandler struct {
	dependencies HealthDependencies
	logger       *slog.Logger
}

// NewHealthHandlers creates the /health and /ready http.HandlerFuncs.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{dependencies: deps, logger: logger}
	return handler.liveness, handler.readiness
}

// liveness handles GET /health (liveness).
func (handler *healthHandler) liveness(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]string{
		constants.FieldStatus:  "ok",
		constants.FieldApp:     constants.AppName,
		constants.FieldVersion: constants.AppVersion,
	})
}

type checkResult struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// readiness handles GET /ready. Dependencies are checked concurrently, each bounded by
// [constants.HealthCheckTimeout]; one failing check does not cancel the others.
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	var (
		mu      sync.Mutex
		results = make([]checkResult, 0, len(handler.dependencies))
		group   errgroup.Group
	)

	for name, check := range handler.dependencies {
		group.Go(func() error {
			ctx, cancel := context.WithTimeout(request.Context(), constants.HealthCheckTimeout)
			defer cancel()

			result := checkResult{Name: name, IsOK: true}
			if err := check(ctx); err != nil {
				result.IsOK = false
				result.Error = err.Error()
				handler.logger.ErrorContext(request.Context(), "readiness_check_failed",
					slog.String("dependency", name),
					slog.Any("error", err),
				)
			}

			mu.Lock()
			results = append(results, result)
			mu.Unlock()
			return nil
		})
	}
	_ = group.Wait()

	slices.SortFunc(results, func(a, b checkResult) int { return cmp.Compare(a.Name, b.Name) })

	responseStatus, httpStatus := "ready", http.StatusOK
	if slices.ContainsFunc(results, func(result checkResult) bool { return !result.IsOK }) {
		responseStatus, httpStatus = "degraded", http.StatusServiceUnavailable
	}

	respond.JSON(writer, httpStatus, respond.SuccessEnvelope{Data: map[string]any{
		constants.FieldStatus: responseStatus,
		constants.FieldChecks: results,
	}})
}
