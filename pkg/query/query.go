// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query parses optional URL query parameters into typed filter values.
package query

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// StringSlice parses a single comma-separated query string
// into a trimmed slice of strings.
func StringSlice(val string) []string {
	if val == "" {
		return nil
	}
	var res []string
	for _, v := range strings.Split(val, ",") {
		clean := strings.TrimSpace(v)
		if clean != "" {
			res = append(res, clean)
		}
	}
	return res
}

// Int64 returns a pointer to the parsed value of key, nil when absent.
// ok is false when the key is present but not an integer.
func Int64(values url.Values, key string) (result *int64, ok bool) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return nil, true
	}

	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, false
	}
	return &parsed, true
}

// Bool returns a pointer to the parsed value of key, nil when absent.
// ok is false when the key is present but not a boolean.
func Bool(values url.Values, key string) (result *bool, ok bool) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return nil, true
	}

	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, false
	}
	return &parsed, true
}

// Time returns a pointer to the RFC 3339 value of key, nil when absent.
// ok is false when the key is present but malformed.
func Time(values url.Values, key string) (result *time.Time, ok bool) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return nil, true
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, false
	}
	return &parsed, true
}
