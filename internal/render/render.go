// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render turns a note template and a paper into note text.
//
// Templates are plain text with {{field}} placeholders plus {{date}},
// {{time}}, {{date:FORMAT}} and {{time:FORMAT}}. Substitution is a single
// left-to-right pass: substituted values are never scanned again, unknown
// tokens stay as written and {{citekey}} stays as written while the paper
// has no citekey.
package render

import (
	"regexp"
	"strings"
	"time"

	"github.com/pdiddy/paperdesk/internal/notes"
	"github.com/pdiddy/paperdesk/pkg/types"
)

// listSeparator joins authors and tags.
const listSeparator = ", "

var (
	tokenPattern   = regexp.MustCompile(`\{\{([^{}]*)\}\}`)
	newlinePattern = regexp.MustCompile(`[\r\n]+`)
)

// DefaultTemplate is used when no template file is configured. Its front
// matter is the schema the note reader parses back. Every substituted value
// sits in a block scalar, where YAML applies no escapes, so quotes,
// backslashes, colons and # survive the round trip.
const DefaultTemplate = `---
title: |-
  {{title}}
authors: |-
  {{authors}}
abstract: |-
  {{abstract}}
url: |-
  {{url}}
venue: |-
  {{venue}}
year: |-
  {{publicationDate}}
tags: |-
  {{tags}}
pdf: |-
  {{pdf}}
citekey: |-
  {{citekey}}
created: "{{date}} {{time}}"
---

# {{title}}

**Authors:** {{authors}}
**Venue:** {{venue}} ({{publicationDate}})
**Link:** {{url}}
**PDF:** {{pdf}}

## Abstract

{{abstract}}

## Notes

`

// Render substitutes every recognised token in template using paper and now.
func Render(template string, paper types.Paper, now time.Time) string {
	return tokenPattern.ReplaceAllStringFunc(template, func(token string) string {
		name := token[2 : len(token)-2]
		if v, ok := resolve(name, paper, now); ok {
			return v
		}
		return token
	})
}

// resolve returns the replacement for a token name, or false when the
// token must be left as written.
func resolve(name string, p types.Paper, now time.Time) (string, bool) {
	switch name {
	case "date":
		return FormatMoment(now, DefaultDateFormat), true
	case "time":
		return FormatMoment(now, DefaultTimeFormat), true
	case "title":
		return flatten(p.Title), true
	case "authors":
		return flatten(strings.Join(p.Authors, listSeparator)), true
	case "abstract":
		return flatten(p.Abstract), true
	case "url":
		return flatten(p.URL), true
	case "venue":
		return flatten(p.Venue), true
	case "publicationDate":
		return flatten(p.PublicationDate), true
	case "tags":
		return flatten(strings.Join(p.Tags, listSeparator)), true
	case "pdf":
		if p.PDFPath == "" {
			return "", true
		}
		return notes.WrapLink(p.PDFPath), true
	case "citekey":
		if p.Citekey == "" {
			return "", false
		}
		return p.Citekey, true
	}

	if format, ok := strings.CutPrefix(name, "date:"); ok {
		return FormatMoment(now, format), true
	}
	if format, ok := strings.CutPrefix(name, "time:"); ok {
		return FormatMoment(now, format), true
	}
	return "", false
}

// flatten collapses embedded line breaks to single spaces.
func flatten(s string) string {
	return newlinePattern.ReplaceAllString(s, " ")
}
