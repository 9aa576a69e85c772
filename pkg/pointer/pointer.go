// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pointer helps with the optional fields of request bodies and audit
// entries, where nil means "not provided".
package pointer

import "strings"

// To returns a pointer to a copy of v.
func To[T any](v T) *T {
	return &v
}

// Val dereferences p, or returns the zero value when p is nil.
func Val[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// Trimmed returns a pointer to the trimmed text, or nil when p is nil or only whitespace.
// Optional free-text fields (moderation and role change reasons) are stored this way.
func Trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	if text := strings.TrimSpace(*p); text != "" {
		return &text
	}
	return nil
}
