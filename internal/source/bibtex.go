// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/pdiddy/paperdesk/pkg/types"
)

// titleStopWords are skipped when picking the title word of a citekey.
var titleStopWords = map[string]bool{
	"a": true, "an": true, "the": true, "on": true, "of": true, "in": true,
	"for": true, "to": true, "and": true, "with": true, "towards": true,
}

// Citekey builds a Google-Scholar-style key: first author's family name,
// year and first significant title word, lowercased ASCII
// (e.g. "vaswani2017attention"). Returns "" when there is no author.
func Citekey(p types.Paper) string {
	if len(p.Authors) == 0 {
		return ""
	}
	family := asciiLower(familyName(p.Authors[0]))
	if family == "" {
		return ""
	}
	word := ""
	for _, w := range strings.Fields(p.Title) {
		w = asciiLower(w)
		if w != "" && !titleStopWords[w] {
			word = w
			break
		}
	}
	return family + p.Year() + word
}

// arxivBibTeX renders an @misc entry for an arXiv preprint.
func arxivBibTeX(p types.Paper, arxivID, primaryClass string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "@misc{%s,\n", p.Citekey)
	fmt.Fprintf(&b, "  title = {%s},\n", escapeLatex(p.Title))
	if len(p.Authors) > 0 {
		fmt.Fprintf(&b, "  author = {%s},\n", bibAuthors(p.Authors))
	}
	if y := p.Year(); y != "" {
		fmt.Fprintf(&b, "  year = {%s},\n", y)
	}
	fmt.Fprintf(&b, "  eprint = {%s},\n", arxivID)
	b.WriteString("  archivePrefix = {arXiv},\n")
	if primaryClass != "" {
		fmt.Fprintf(&b, "  primaryClass = {%s},\n", primaryClass)
	}
	if p.URL != "" {
		fmt.Fprintf(&b, "  url = {%s},\n", p.URL)
	}
	b.WriteString("}")
	return b.String()
}

var citekeyPattern = regexp.MustCompile(`@[^{@]*\{\s*([^,\s]+)\s*,`)

// ParseCitekey returns the key of the first entry in a BibTeX string.
func ParseCitekey(bibtex string) string {
	if m := citekeyPattern.FindStringSubmatch(bibtex); m != nil {
		return m[1]
	}
	return ""
}

// bibAuthors formats names BibTeX style: "Last, First and Last, First".
func bibAuthors(authors []string) string {
	formatted := make([]string, 0, len(authors))
	for _, a := range authors {
		family := familyName(a)
		given := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(a), family))
		if given == "" {
			formatted = append(formatted, family)
			continue
		}
		formatted = append(formatted, family+", "+given)
	}
	return strings.Join(formatted, " and ")
}

// familyName takes the last whitespace-separated token of a display name.
func familyName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

func asciiLower(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// escapeLatex escapes special LaTeX characters in a single pass.
func escapeLatex(s string) string {
	replacer := strings.NewReplacer(
		"&", `\&`,
		"%", `\%`,
		"$", `\$`,
		"#", `\#`,
		"_", `\_`,
		"~", `\textasciitilde{}`,
		"^", `\textasciicircum{}`,
	)
	return replacer.Replace(s)
}
