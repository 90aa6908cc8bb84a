// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data structures for paperdesk: the
// normalized paper record every source adapter produces and every renderer
// and writer consumes, plus the resolved configuration.
package types

import (
	"regexp"
	"strings"
)

// Source names recorded on Paper.Source.
const (
	SourceArxiv           = "arxiv"
	SourceSemanticScholar = "semantic_scholar"
	SourceMetaTags        = "meta"
	SourceNote            = "note"
)

// Paper is the canonical metadata record for one academic paper. Adapters
// return a finished value; the artifact writer hands back a copy with
// PDFPath filled in once the PDF exists locally.
type Paper struct {
	// Title is the paper title. Never empty once constructed; filenames
	// are derived from it.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Abstract is the paper abstract or summary.
	Abstract string `json:"abstract" yaml:"abstract"`

	// URL is the source landing page.
	URL string `json:"url" yaml:"url"`

	// PDFURL is a direct link to the PDF, empty when the source has none.
	PDFURL string `json:"pdf_url,omitempty" yaml:"pdf_url,omitempty"`

	// PDFPath is the downloaded PDF, relative to the configured root.
	PDFPath string `json:"pdf_path,omitempty" yaml:"pdf_path,omitempty"`

	// Venue is the journal, conference or preprint server.
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`

	// PublicationDate is a free-form year or date as the source reports it.
	PublicationDate string `json:"publication_date,omitempty" yaml:"publication_date,omitempty"`

	// Tags holds topic labels (arXiv categories, fields of study, note tags).
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	// Citekey is the BibTeX citation key.
	Citekey string `json:"citekey,omitempty" yaml:"citekey,omitempty"`

	// BibTeX is a raw BibTeX entry.
	BibTeX string `json:"bibtex,omitempty" yaml:"bibtex,omitempty"`

	// Source identifies where the record came from (e.g. "arxiv", "note").
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	// NotePath is the note file the record was read from. Local records only.
	NotePath string `json:"note_path,omitempty" yaml:"note_path,omitempty"`
}

// HasPDFURL reports whether the paper carries a remote PDF link.
func (p Paper) HasPDFURL() bool { return strings.TrimSpace(p.PDFURL) != "" }

// HasBibTeX reports whether the paper carries a non-blank BibTeX entry.
func (p Paper) HasBibTeX() bool { return strings.TrimSpace(p.BibTeX) != "" }

var yearPattern = regexp.MustCompile(`\b(\d{4})\b`)

// Year returns the first four-digit run in PublicationDate, or "".
func (p Paper) Year() string {
	if m := yearPattern.FindStringSubmatch(p.PublicationDate); m != nil {
		return m[1]
	}
	return ""
}

// Normalize trims every scalar field, drops blank authors and tags and
// removes duplicate tags while keeping first-seen order.
func (p Paper) Normalize() Paper {
	p.Title = strings.TrimSpace(p.Title)
	p.Abstract = strings.TrimSpace(p.Abstract)
	p.URL = strings.TrimSpace(p.URL)
	p.PDFURL = strings.TrimSpace(p.PDFURL)
	p.PDFPath = strings.TrimSpace(p.PDFPath)
	p.Venue = strings.TrimSpace(p.Venue)
	p.PublicationDate = strings.TrimSpace(p.PublicationDate)
	p.Citekey = strings.TrimSpace(p.Citekey)
	p.BibTeX = strings.TrimSpace(p.BibTeX)

	p.Authors = compact(p.Authors, false)
	p.Tags = compact(p.Tags, true)
	return p
}

func compact(in []string, dedupe bool) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if dedupe {
			if seen[s] {
				continue
			}
			seen[s] = true
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
