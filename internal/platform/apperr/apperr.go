// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr is the error vocabulary shared by services and the HTTP layer.

Services return an [*AppError] for every failure a client should be able to act
on. Its Code is stable and machine-readable, its Message is safe to show, and
its Cause stays on the server for logging. Anything else reaching the HTTP layer
is reported as INTERNAL_ERROR.

	Code                 Status
	VALIDATION_ERROR     400
	UNAUTHORIZED         401
	FORBIDDEN            403
	PROTECTED_ACCOUNT    403
	NOT_FOUND            404
	CONFLICT             409
	RATE_LIMITED         429
	INVALID_ROLE         500
	INTERNAL_ERROR       500
	PERSISTENCE_FAILED   503
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeNotFound          = "NOT_FOUND"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeProtectedAccount  = "PROTECTED_ACCOUNT"
	CodeConflict          = "CONFLICT"
	CodeValidation        = "VALIDATION_ERROR"
	CodeRateLimited       = "RATE_LIMITED"
	CodeInvalidRole       = "INVALID_ROLE"
	CodePersistenceFailed = "PERSISTENCE_FAILED"
	CodeInternal          = "INTERNAL_ERROR"
)

var statusByCode = map[string]int{
	CodeValidation:        http.StatusBadRequest,
	CodeUnauthorized:      http.StatusUnauthorized,
	CodeForbidden:         http.StatusForbidden,
	CodeProtectedAccount:  http.StatusForbidden,
	CodeNotFound:          http.StatusNotFound,
	CodeConflict:          http.StatusConflict,
	CodeRateLimited:       http.StatusTooManyRequests,
	CodeInvalidRole:       http.StatusInternalServerError,
	CodeInternal:          http.StatusInternalServerError,
	CodePersistenceFailed: http.StatusServiceUnavailable,
}

const unexpected = "An unexpected error occurred"

// AppError is a classified failure. Cause is never serialized.
type AppError struct {
	Code       string       `json:"code"`
	Message    string       `json:"error"`
	HTTPStatus int          `json:"-"`
	Cause      error        `json:"-"`
	Details    []FieldError `json:"details,omitempty"`
}

// FieldError names one input field that failed validation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string { return e.Message }

func (e *AppError) Unwrap() error { return e.Cause }

func newError(code, message string, cause error) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: statusByCode[code], Cause: cause}
}

// # Client errors

// NotFound reports a missing resource: NotFound("Entity") reads "Entity not found".
func NotFound(resource string) *AppError {
	return newError(CodeNotFound, resource+" not found", nil)
}

func Unauthorized(message string) *AppError {
	return newError(CodeUnauthorized, message, nil)
}

// Forbidden never names the role that would have been required.
func Forbidden() *AppError {
	return newError(CodeForbidden, "You are not permitted to perform this action", nil)
}

// ProtectedAccount rejects any role or status change aimed at the bootstrap account.
func ProtectedAccount() *AppError {
	return newError(CodeProtectedAccount, "This account is protected and cannot be modified", nil)
}

func Conflict(message string) *AppError {
	return newError(CodeConflict, message, nil)
}

func ValidationError(message string, details ...FieldError) *AppError {
	appError := newError(CodeValidation, message, nil)
	appError.Details = details
	return appError
}

func RateLimited(retryAfterSeconds int) *AppError {
	return newError(CodeRateLimited, fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds), nil)
}

// # Server errors

// InvalidRole means a stored or configured role is missing from the hierarchy.
// It is a data bug, so the client only sees the generic message.
func InvalidRole(role string) *AppError {
	return newError(CodeInvalidRole, unexpected, fmt.Errorf("unrecognized role %q", role))
}

// PersistenceFailed wraps a storage I/O failure. The call is safe to retry.
func PersistenceFailed(cause error) *AppError {
	return newError(CodePersistenceFailed, "Something went wrong while saving. Please try again", cause)
}

func Internal(cause error) *AppError {
	return newError(CodeInternal, unexpected, cause)
}

// # Inspection

// As returns the first [*AppError] in err's chain, or nil.
func As(err error) *AppError {
	var appError *AppError
	if errors.As(err, &appError) {
		return appError
	}
	return nil
}

func IsAppError(err error) bool {
	return As(err) != nil
}

func HasCode(err error, code string) bool {
	appError := As(err)
	return appError != nil && appError.Code == code
}

func IsNotFound(err error) bool {
	return HasCode(err, CodeNotFound)
}
