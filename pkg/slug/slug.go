// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug derives the URL slug stored with every submitted entity
// ("Innovation Hub Kampala" becomes "innovation-hub-kampala").
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength caps a slug. Longer slugs are cut at the last word boundary that fits.
const MaxLength = 80

// fold decomposes compatibility forms and strips accents: "Café" -> "Cafe", "ﬁ" -> "fi".
var fold = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// From returns the ASCII slug of s. Runs of anything other than a-z and 0-9 become
// one hyphen. The result is empty when s has no ASCII letter or digit left after folding.
func From(s string) string {
	folded, _, err := transform.String(fold, s)
	if err != nil {
		folded = s
	}

	var builder strings.Builder
	separate := false
	for _, r := range strings.ToLower(folded) {
		if !isSlugRune(r) {
			separate = true
			continue
		}
		if separate && builder.Len() > 0 {
			builder.WriteByte('-')
		}
		separate = false
		builder.WriteRune(r)
	}

	return truncate(builder.String(), MaxLength)
}

func isSlugRune(r rune) bool {
	return ('a' <= r && r <= 'z') || ('0' <= r && r <= '9')
}

// truncate shortens slug to at most limit bytes without splitting a word when it can.
func truncate(slug string, limit int) string {
	if len(slug) <= limit {
		return slug
	}

	cut := slug[:limit]
	if slug[limit] == '-' {
		return cut
	}
	if boundary := strings.LastIndexByte(cut, '-'); boundary > 0 {
		return cut[:boundary]
	}
	return cut
}
