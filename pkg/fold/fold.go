// Copyright (c) 2026 Identra. All rights reserved.
// Author: dev@identra.io

// Package fold normalizes arbitrary Unicode strings into a canonical
// lowercase ASCII-ish form for matching.
//
// # Usage
//
// Directory search terms are folded before being handed to the storage layer
// so that "Jóhn" and "john" hit the same accounts. The same folding is applied
// nowhere else: stored values keep their original casing.
package fold

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Casefold converts an arbitrary Unicode string into its search-normal form.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFD (decomposes accented chars: é → e + combining acute).
// 2. Removes combining marks (accents).
// 3. Converts to lowercase.
// 4. Collapses runs of whitespace into single spaces and trims the ends.
func Casefold(s string) string {
	// 1. Normalize and remove accents
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, _ := transform.String(t, s)

	// 2. Lowercase
	result = strings.ToLower(result)

	// 3. Collapse internal whitespace
	result = strings.Join(strings.Fields(result), " ")

	return result
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
