// Copyright 2025 The il-ilce-eslestirme Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Administrative noise words that Nominatim mixes into province and district
// names. Compared in Turkish lowercase, whole words only.
var stopwords = map[string]struct{}{
	"merkez":     {},
	"belediyesi": {},
	"belediye":   {},
}

var parenthesized = regexp.MustCompile(`\([^)]*\)`)

// TurkishLower lowercases using Turkish casing rules (İ→i, I→ı).
func TurkishLower(s string) string {
	return strings.ToLowerSpecial(unicode.TurkishCase, s)
}

// NormalizeName cleans a raw administrative unit name: parenthesized
// segments are dropped, stopwords removed, whitespace collapsed and the
// result title-cased. Empty or noise-only input normalizes to "" which
// callers treat as absent. The transform is idempotent.
func NormalizeName(s string) string {
	s = parenthesized.ReplaceAllString(s, " ")

	kept := make([]string, 0, 4)

	for _, word := range strings.Fields(s) {
		if _, ok := stopwords[TurkishLower(word)]; ok {
			continue
		}

		kept = append(kept, word)
	}

	if len(kept) == 0 {
		return ""
	}

	title := cases.Title(language.Turkish)

	return strings.TrimSpace(title.String(strings.Join(kept, " ")))
}
