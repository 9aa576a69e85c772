// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slice holds helpers for the free-form string lists users submit (profile skills).
package slice

import "strings"

// Clean trims every value and drops blanks and case-insensitive repeats, keeping the
// first spelling in input order. The result is never nil, so it can be written to a
// NOT NULL array column as is.
func Clean(values []string) []string {
	cleaned := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))

	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}

		key := strings.ToLower(value)
		if _, repeated := seen[key]; repeated {
			continue
		}
		seen[key] = struct{}{}
		cleaned = append(cleaned, value)
	}
	return cleaned
}
