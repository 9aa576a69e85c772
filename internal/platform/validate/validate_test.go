// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/techhub/internal/platform/apperr"
	"github.com/taibuivan/techhub/internal/platform/validate"
)

func TestValidator_Passes(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("title", "Nairobi Go Meetup").
		MinLen("password", "long enough", 8).
		MaxLen("title", "Nairobi Go Meetup", 200).
		Email("email", "amara@techhub.dev").
		URL("website", "https://techhub.dev/events/1").
		OneOf("decision", "approved", "approved", "rejected").
		Custom("seats", false, "unused").
		Err()

	assert.NoError(t, err)
	assert.False(t, v.HasErrors())
}

func TestValidator_CollectsInOrder(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("title", "   ").
		Email("email", "not-an-email").
		OneOf("decision", "maybe", "approved", "rejected").
		Custom("seats", true, "Must be positive").
		Err()

	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, apperr.CodeValidation, appError.Code)

	fields := make([]string, 0, len(appError.Details))
	for _, detail := range appError.Details {
		fields = append(fields, detail.Field)
	}
	assert.Equal(t, []string{"title", "email", "decision", "seats"}, fields)
	assert.Equal(t, "Must be one of: approved, rejected", appError.Details[2].Message)
}

func TestValidator_LengthCountsRunes(t *testing.T) {
	title := strings.Repeat("東", 10)

	assert.False(t, (&validate.Validator{}).MaxLen("title", title, 10).HasErrors())
	assert.True(t, (&validate.Validator{}).MaxLen("title", title, 9).HasErrors())
	assert.True(t, (&validate.Validator{}).MinLen("password", "short", 8).HasErrors())
}

func TestValidator_URL(t *testing.T) {
	tests := map[string]bool{
		"https://techhub.dev/jobs/1": true,
		"http://localhost:8080":      true,
		"ftp://files.example.com":    false,
		"techhub.dev":                false,
		"https://":                   false,
		"":                           false,
	}

	for value, valid := range tests {
		v := &validate.Validator{}
		v.URL("url", value)
		assert.Equal(t, !valid, v.HasErrors(), value)
	}
}

func TestParseDate(t *testing.T) {
	parsed, ok := validate.ParseDate(" 2026-11-02T09:30:00+07:00 ")
	require.True(t, ok)
	assert.Equal(t, 2, parsed.Hour())

	parsed, ok = validate.ParseDate("2026-11-02")
	require.True(t, ok)
	assert.Equal(t, 2, parsed.Day())

	for _, value := range []string{"next tuesday", "02/11/2026", ""} {
		_, ok := validate.ParseDate(value)
		assert.False(t, ok, value)
	}
}

func TestRequiredError(t *testing.T) {
	err := validate.RequiredError("id", "Must be a positive integer")

	require.Len(t, err.Details, 1)
	assert.Equal(t, "id", err.Details[0].Field)
}
