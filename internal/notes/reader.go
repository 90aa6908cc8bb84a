// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notes reads paper metadata back out of locally stored notes.
//
// A note is Markdown with a YAML front-matter block. The reader maps the
// fields the default note template writes onto a types.Paper; a note with
// no front matter is still a paper, titled after its file.
package notes

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/paperdesk/pkg/types"
)

// placeholderPattern matches a value that is a template token left
// unexpanded by the renderer, such as "{{citekey}}".
var placeholderPattern = regexp.MustCompile(`^\{\{[^{}]*\}\}$`)

// FieldError reports a front-matter field whose value has the wrong shape.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("front matter field %q: %s", e.Field, e.Reason)
}

// IsFieldError reports whether err is or wraps a *FieldError.
func IsFieldError(err error) bool {
	var fe *FieldError
	return errors.As(err, &fe)
}

// IsMalformedLink reports whether err is or wraps a *MalformedLinkError.
func IsMalformedLink(err error) bool {
	var me *MalformedLinkError
	return errors.As(err, &me)
}

// frontMatter is the typed view of a note's front matter with defaults
// already applied.
type frontMatter struct {
	Title    string
	Authors  []string
	Abstract string
	URL      string
	Venue    string
	Year     string
	Tags     []string
	PDFPath  string
	Citekey  string
}

// ReadPaperFromNote parses a note and returns the paper it describes.
// filename is used for the title when the note has none.
func ReadPaperFromNote(content, filename string) (types.Paper, error) {
	raw, _, err := SplitFrontMatter(content)
	if err != nil {
		return types.Paper{}, &FieldError{Field: "front matter", Reason: err.Error()}
	}

	fm, err := parseFrontMatter(raw, stem(filename))
	if err != nil {
		return types.Paper{}, err
	}

	p := types.Paper{
		Title:           fm.Title,
		Authors:         fm.Authors,
		Abstract:        fm.Abstract,
		URL:             fm.URL,
		Venue:           fm.Venue,
		PublicationDate: fm.Year,
		Tags:            fm.Tags,
		PDFPath:         fm.PDFPath,
		Citekey:         fm.Citekey,
		Source:          types.SourceNote,
		NotePath:        filename,
	}
	p = p.Normalize()
	if p.Title == "" {
		p.Title = stem(filename)
	}
	if p.Authors == nil {
		p.Authors = []string{}
	}
	return p, nil
}

func parseFrontMatter(raw map[string]any, defaultTitle string) (frontMatter, error) {
	fm := frontMatter{Authors: []string{}}

	fm.Title = scalar(raw["title"])
	if fm.Title == "" {
		fm.Title = defaultTitle
	}
	fm.Abstract = scalar(raw["abstract"])
	fm.URL = scalar(raw["url"])
	fm.Venue = scalar(raw["venue"])
	fm.Year = scalar(raw["year"])
	fm.Citekey = scalar(raw["citekey"])

	var err error
	if fm.Authors, err = list("authors", raw["authors"]); err != nil {
		return frontMatter{}, err
	}
	if fm.Tags, err = list("tags", raw["tags"]); err != nil {
		return frontMatter{}, err
	}
	if fm.PDFPath, err = pdfLink(raw["pdf"]); err != nil {
		return frontMatter{}, err
	}
	return fm, nil
}

// scalar stringifies a YAML scalar. Maps, lists, nulls and unexpanded
// template tokens read as empty.
func scalar(v any) string {
	var s string
	switch x := v.(type) {
	case string:
		s = x
	case int:
		s = strconv.Itoa(x)
	case int64:
		s = strconv.FormatInt(x, 10)
	case uint64:
		s = strconv.FormatUint(x, 10)
	case float64:
		s = strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(x)
	default:
		return ""
	}
	s = strings.TrimSpace(s)
	if placeholderPattern.MatchString(s) {
		return ""
	}
	return s
}

// list reads a comma-separated string or a YAML list of scalars.
func list(field string, v any) ([]string, error) {
	switch x := v.(type) {
	case nil:
		return []string{}, nil
	case string:
		s := scalar(x)
		if s == "" {
			return []string{}, nil
		}
		var out []string
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out, nil
	case []any:
		out := make([]string, 0, len(x))
		for _, item := range x {
			switch item.(type) {
			case map[string]any, []any:
				return nil, &FieldError{Field: field, Reason: "list items must be scalars"}
			}
			if s := scalar(item); s != "" {
				out = append(out, s)
			}
		}
		return out, nil
	}
	if s := scalar(v); s != "" {
		return []string{s}, nil
	}
	return nil, &FieldError{Field: field, Reason: fmt.Sprintf("expected a string or list, got %T", v)}
}

// pdfLink reads the pdf field. A quoted "[[path]]" arrives as a string; an
// unquoted one is parsed by YAML as a list holding a one-element list.
func pdfLink(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case []any:
		if inner := nestedLink(x); inner != "" {
			path, _ := UnwrapLink(WrapLink(inner))
			if path != "" {
				return path, nil
			}
		}
		return "", &MalformedLinkError{Field: "pdf", Value: fmt.Sprint(x)}
	}

	s := scalar(v)
	if s == "" {
		return "", nil
	}
	path, ok := UnwrapLink(s)
	if !ok {
		return "", &MalformedLinkError{Field: "pdf", Value: s}
	}
	return path, nil
}

func nestedLink(outer []any) string {
	if len(outer) != 1 {
		return ""
	}
	inner, ok := outer[0].([]any)
	if !ok || len(inner) != 1 {
		return ""
	}
	s, _ := inner[0].(string)
	return strings.TrimSpace(s)
}

func stem(filename string) string {
	base := filepath.Base(filename)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
