// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package respond writes every API response through one of three JSON envelopes.

	{"data": ...}                                  single resource
	{"data": [...], "meta": {page, limit, total}}  offset page
	{"data": [...], "meta": {limit, next_cursor}}  keyset page (audit log)

Errors always use {"error", "code", "details"}; see [Error].
*/
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/taibuivan/techhub/internal/platform/apperr"
	"github.com/taibuivan/techhub/internal/platform/ctxutil"
	"github.com/taibuivan/techhub/pkg/pagination"
)

// # Envelopes

// SuccessEnvelope wraps a single resource.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// PaginatedEnvelope wraps one offset page.
type PaginatedEnvelope struct {
	Data any             `json:"data"`
	Meta pagination.Meta `json:"meta"`
}

// CursorMeta describes one keyset page. An empty NextCursor marks the last page.
type CursorMeta struct {
	Limit      int    `json:"limit"`
	NextCursor string `json:"next_cursor,omitempty"`
}

// CursorEnvelope wraps one keyset page.
type CursorEnvelope struct {
	Data any        `json:"data"`
	Meta CursorMeta `json:"meta"`
}

// ErrorEnvelope is the body of every non-2xx response.
type ErrorEnvelope struct {
	Error   string              `json:"error"`
	Code    string              `json:"code"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

// # Success

// JSON encodes payload with the given status.
func JSON(writer http.ResponseWriter, statusCode int, payload any) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// OK writes 200 with data in a [SuccessEnvelope].
func OK(writer http.ResponseWriter, data any) {
	JSON(writer, http.StatusOK, SuccessEnvelope{Data: data})
}

// Created writes 201 with data in a [SuccessEnvelope].
func Created(writer http.ResponseWriter, data any) {
	JSON(writer, http.StatusCreated, SuccessEnvelope{Data: data})
}

// Paginated writes 200 with one offset page.
func Paginated(writer http.ResponseWriter, data any, metadata pagination.Meta) {
	JSON(writer, http.StatusOK, PaginatedEnvelope{Data: data, Meta: metadata})
}

// Cursor writes 200 with one keyset page.
func Cursor(writer http.ResponseWriter, data any, limit int, nextCursor string) {
	JSON(writer, http.StatusOK, CursorEnvelope{Data: data, Meta: CursorMeta{Limit: limit, NextCursor: nextCursor}})
}

// NoContent writes 204.
func NoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}

// # Errors

/*
Error writes err as an [ErrorEnvelope].

Errors that are not an [apperr.AppError] become INTERNAL_ERROR. Every 5xx is logged
with its cause on the request logger; the cause itself never reaches the client.
*/
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	appError := apperr.As(err)
	if appError == nil {
		appError = apperr.Internal(err)
	}

	if appError.HTTPStatus >= http.StatusInternalServerError {
		ctxutil.Logger(request.Context()).ErrorContext(request.Context(), "api_server_error",
			slog.String("code", appError.Code),
			slog.String("request_id", ctxutil.RequestID(request.Context())),
			slog.Any("cause", causeOf(appError, err)),
		)
	}

	JSON(writer, appError.HTTPStatus, ErrorEnvelope{
		Error:   appError.Message,
		Code:    appError.Code,
		Details: appError.Details,
	})
}

// causeOf prefers the wrapped cause and falls back to the error as returned.
func causeOf(appError *apperr.AppError, err error) error {
	if appError.Cause != nil {
		return appError.Cause
	}
	return err
}
