// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import "strings"

// untitled names artifacts for papers whose title has no usable characters.
const untitled = "Untitled"

// SanitizeFilename keeps only ASCII letters, digits and spaces from title.
// Surrounding spaces are trimmed; inner spacing is kept as written.
func SanitizeFilename(title string) string {
	var b strings.Builder
	for _, r := range title {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
			b.WriteRune(r)
		}
	}
	name := strings.TrimSpace(b.String())
	if name == "" {
		return untitled
	}
	return name
}
