// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package slug turns display labels into IRI local names.
package slug

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// punctuation is the ASCII punctuation set minus the dash, which survives
// until snake-casing turns it into an underscore.
const punctuation = "!\"#$%&'()*+,./:;<=>?@[\\]^_`{|}~"

var lower = cases.Lower(language.Und)

// Make returns the snake_case identifier fragment for label. Labels that
// differ only in case, ASCII punctuation, or whitespace runs map to the
// same fragment.
func Make(label string) string {
	s := lower.String(norm.NFC.String(label))
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(punctuation, r) {
			return -1
		}
		return r
	}, s)
	s = strings.Join(strings.Fields(s), "_")
	return strings.ReplaceAll(s, "-", "_")
}
