// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notes

import (
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"
)

const separator = "---"

// SplitFrontMatter separates a leading YAML front-matter block from the
// note body. A note without front matter yields an empty map and the
// whole content as body. CRLF line endings are accepted.
func SplitFrontMatter(content string) (map[string]any, string, error) {
	content = strings.TrimPrefix(content, "\uFEFF")
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(normalized, separator+"\n") {
		return map[string]any{}, content, nil
	}

	rest := strings.TrimPrefix(normalized, separator+"\n")
	var raw, body string
	switch {
	case strings.HasPrefix(rest, separator+"\n"), rest == separator:
		raw, body = "", strings.TrimPrefix(strings.TrimPrefix(rest, separator), "\n")
	default:
		idx := strings.Index(rest, "\n"+separator+"\n")
		if idx < 0 {
			if !strings.HasSuffix(rest, "\n"+separator) {
				return nil, "", fmt.Errorf("missing closing %q", separator)
			}
			idx = len(rest) - len(separator) - 1
			raw, body = rest[:idx], ""
			break
		}
		raw, body = rest[:idx], rest[idx+len(separator)+2:]
	}

	decoded := map[string]any{}
	if err := yaml.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, "", fmt.Errorf("unmarshal front matter: %w", err)
	}
	if decoded == nil {
		decoded = map[string]any{}
	}
	return decoded, body, nil
}
