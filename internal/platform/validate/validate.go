// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package validate collects field problems for one input and reports them together
as a single VALIDATION_ERROR.

Services own validation. Handlers only reject what they cannot decode.

	validator := &validate.Validator{}
	validator.Required("title", input.Title).MaxLen("title", input.Title, 200)
	if err := validator.Err(); err != nil {
		return nil, err
	}
*/
package validate

import (
	"fmt"
	"net/mail"
	"net/url"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/taibuivan/techhub/internal/platform/apperr"
)

// ErrInvalidJSON is returned when a request body is not the expected JSON object.
var ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")

// Validator accumulates [apperr.FieldError] values. Use one per input; it is not safe
// for concurrent use.
type Validator struct {
	problems []apperr.FieldError
}

func (v *Validator) check(field string, ok bool, message string) *Validator {
	if !ok {
		v.problems = append(v.problems, apperr.FieldError{Field: field, Message: message})
	}
	return v
}

// Required rejects an empty or whitespace-only value.
func (v *Validator) Required(field, value string) *Validator {
	return v.check(field, strings.TrimSpace(value) != "", "This field is required")
}

// MaxLen counts runes, not bytes.
func (v *Validator) MaxLen(field, value string, limit int) *Validator {
	return v.check(field, utf8.RuneCountInString(value) <= limit, fmt.Sprintf("Maximum %d characters", limit))
}

// MinLen counts runes, not bytes.
func (v *Validator) MinLen(field, value string, limit int) *Validator {
	return v.check(field, utf8.RuneCountInString(value) >= limit, fmt.Sprintf("Minimum %d characters", limit))
}

func (v *Validator) Email(field, value string) *Validator {
	_, err := mail.ParseAddress(value)
	return v.check(field, err == nil, "Must be a valid email address")
}

// URL accepts absolute http and https URLs with a host.
func (v *Validator) URL(field, value string) *Validator {
	return v.check(field, isWebURL(value), "Must be a valid http or https URL")
}

func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	return v.check(field, slices.Contains(allowed, value), "Must be one of: "+strings.Join(allowed, ", "))
}

// Custom records message against field when failed is true.
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	return v.check(field, !failed, message)
}

// HasErrors reports whether any check has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.problems) > 0
}

// Err returns nil when every check passed, otherwise one VALIDATION_ERROR listing
// the problems in the order they were found.
func (v *Validator) Err() error {
	if !v.HasErrors() {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.problems...)
}

// RequiredError builds a VALIDATION_ERROR for a single field.
func RequiredError(field, message string) *apperr.AppError {
	return apperr.ValidationError("Validation failed", apperr.FieldError{Field: field, Message: message})
}

// ParseDate accepts "2006-01-02" or RFC 3339 and returns the instant in UTC.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}

func isWebURL(value string) bool {
	parsed, err := url.Parse(strings.TrimSpace(value))
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}
