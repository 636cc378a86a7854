// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package logging

import (
	"strings"
	"unicode"
)

// maxLoggedValueLen bounds user-supplied strings written to logs.
const maxLoggedValueLen = 200

// Sanitize prepares a user-supplied value for logging: control characters
// (including CR/LF, which would allow forged log lines in console output)
// are dropped and the result is truncated.
func Sanitize(value string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, value)

	if len(cleaned) <= maxLoggedValueLen {
		return cleaned
	}
	runes := []rune(cleaned)
	if len(runes) <= maxLoggedValueLen {
		return cleaned
	}
	return string(runes[:maxLoggedValueLen]) + "..."
}
