// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package requestutil reads path parameters, JSON bodies and the authenticated
// caller from an incoming request.
package requestutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/techhub/internal/platform/apperr"
	"github.com/taibuivan/techhub/internal/platform/constants"
	"github.com/taibuivan/techhub/internal/platform/ctxutil"
	"github.com/taibuivan/techhub/internal/platform/sec"
	"github.com/taibuivan/techhub/internal/platform/validate"
)

/*
DecodeJSON decodes exactly one JSON value from the body into target.

Unknown fields are ignored so older clients keep working. Bodies larger than
[constants.MaxRequestBodyBytes], trailing data and malformed JSON are all reported
as [validate.ErrInvalidJSON].

Parameters:
  - request: *http.Request
  - target: pointer to the destination value
*/
func DecodeJSON(request *http.Request, target any) error {
	if request.Body == nil {
		return validate.ErrInvalidJSON
	}

	decoder := json.NewDecoder(io.LimitReader(request.Body, constants.MaxRequestBodyBytes+1))
	if err := decoder.Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return validate.ErrInvalidJSON
	}
	if decoder.InputOffset() > constants.MaxRequestBodyBytes {
		return validate.ErrInvalidJSON
	}
	return nil
}

// Param returns the named chi route parameter, empty when absent.
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// ID parses the named route parameter as a positive int64.
func ID(request *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(request, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, validate.RequiredError(name, "Must be a positive integer")
	}
	return id, nil
}

// Actor returns the caller, anonymous when no token was presented.
func Actor(request *http.Request) sec.Actor {
	return ctxutil.Actor(request.Context())
}

// RequiredClaims fails with UNAUTHORIZED when the request carries no verified token.
func RequiredClaims(request *http.Request) (*sec.AuthClaims, error) {
	if claims := ctxutil.Claims(request.Context()); claims != nil {
		return claims, nil
	}
	return nil, apperr.Unauthorized("Authentication required")
}

// RequiredActor is [RequiredClaims] reduced to the [sec.Actor] services consume.
func RequiredActor(request *http.Request) (sec.Actor, error) {
	claims, err := RequiredClaims(request)
	if err != nil {
		return sec.Actor{}, err
	}
	return claims.Actor(), nil
}
