// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notes

import (
	"fmt"
	"regexp"
	"strings"
)

// linkPattern matches a note-internal link, "[[path]]" or "[[path|alias]]".
var linkPattern = regexp.MustCompile(`^\[\[([^\[\]|]+)(?:\|[^\[\]]*)?\]\]$`)

// MalformedLinkError reports a front-matter field that should hold a
// "[[path]]" link but does not.
type MalformedLinkError struct {
	Field string
	Value string
}

func (e *MalformedLinkError) Error() string {
	return fmt.Sprintf("malformed link in %q: %q is not wrapped in [[...]]", e.Field, e.Value)
}

// WrapLink wraps path as a note-internal link.
func WrapLink(path string) string {
	return "[[" + path + "]]"
}

// UnwrapLink strips the "[[...]]" wrapper (and any "|alias") from s.
func UnwrapLink(s string) (string, bool) {
	m := linkPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}
