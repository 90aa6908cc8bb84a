// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/xml"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/pdiddy/paperdesk/internal/httputil"
	"github.com/pdiddy/paperdesk/pkg/types"
)

// Base URLs for arXiv. Declared as vars so tests can substitute an
// httptest server.
var (
	arxivAPIBase = "https://export.arxiv.org/api/query"
	arxivAbsBase = "https://arxiv.org/abs/"
	arxivPDFBase = "https://arxiv.org/pdf/"
)

// arxivURLPattern matches new-style ("1706.03762v5") and old-style
// ("hep-th/9901001") identifiers in abs, pdf, html and format URLs.
var arxivURLPattern = regexp.MustCompile(
	`(?i)arxiv\.org/(?:abs|pdf|html|format)/(\d{4}\.\d{4,5}|[a-z\-]+(?:\.[a-z\-]{2,})?/\d{7})(v\d+)?`)

// ArxivSource fetches a single paper from the arXiv Atom API.
type ArxivSource struct {
	Client *httputil.Client
}

// Name returns the adapter identifier.
func (s *ArxivSource) Name() string { return types.SourceArxiv }

// FetchByURL extracts the arXiv ID from rawURL and fetches its metadata.
func (s *ArxivSource) FetchByURL(ctx context.Context, rawURL string) (types.Paper, error) {
	id, version := ExtractArxivID(rawURL)
	if id == "" {
		return types.Paper{}, fetchErr(s.Name(), rawURL, "no arXiv identifier in URL")
	}

	apiURL := arxivAPIBase + "?" + url.Values{"id_list": {id + version}}.Encode()
	resp, err := s.Client.Get(ctx, apiURL, "application/atom+xml")
	if err != nil {
		return types.Paper{}, &FetchError{Source: s.Name(), Target: rawURL, Err: err}
	}
	defer resp.Body.Close()

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return types.Paper{}, fetchErr(s.Name(), rawURL, "parsing arXiv response: %w", err)
	}
	if len(feed.Entries) == 0 {
		return types.Paper{}, fetchErr(s.Name(), rawURL, "no entries found for arXiv ID %s", id)
	}

	entry := feed.Entries[0]
	if strings.Contains(entry.ID, "/api/errors") {
		return types.Paper{}, fetchErr(s.Name(), rawURL, "arXiv API error: %s", collapseSpace(entry.Summary))
	}
	return entry.toPaper(id), nil
}

// toPaper maps an Atom entry onto a Paper, generating citekey and BibTeX.
func (e arxivEntry) toPaper(id string) types.Paper {
	p := types.Paper{
		Title:    collapseSpace(e.Title),
		Abstract: collapseSpace(e.Summary),
		URL:      arxivAbsBase + id,
		PDFURL:   e.pdfLink(),
		Venue:    "arXiv",
		Source:   types.SourceArxiv,
	}
	if p.PDFURL == "" {
		p.PDFURL = arxivPDFBase + id
	}
	if ref := collapseSpace(e.JournalRef); ref != "" {
		p.Venue = ref
	}
	for _, a := range e.Authors {
		p.Authors = append(p.Authors, collapseSpace(a.Name))
	}
	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(e.Published)); err == nil {
		p.PublicationDate = t.Format("2006-01-02")
	}
	for _, c := range e.Categories {
		p.Tags = append(p.Tags, c.Term)
	}

	p = p.Normalize()
	p.Citekey = Citekey(p)
	if p.Citekey != "" {
		p.BibTeX = arxivBibTeX(p, id, e.PrimaryCategory.Term)
	}
	return p
}

func (e arxivEntry) pdfLink() string {
	for _, l := range e.Links {
		if l.Title == "pdf" || l.Type == "application/pdf" {
			return strings.Replace(l.Href, "http://", "https://", 1)
		}
	}
	return ""
}

// ExtractArxivID returns the identifier and optional version suffix from
// an arXiv URL (e.g. "https://arxiv.org/pdf/1706.03762v5.pdf" gives
// "1706.03762", "v5"). Both are empty when the URL has no identifier.
func ExtractArxivID(rawURL string) (id, version string) {
	m := arxivURLPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "", ""
	}
	return m[1], m[2]
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID              string          `xml:"id"`
	Title           string          `xml:"title"`
	Summary         string          `xml:"summary"`
	Published       string          `xml:"published"`
	Authors         []arxivAuthor   `xml:"author"`
	Links           []arxivLink     `xml:"link"`
	Categories      []arxivCategory `xml:"category"`
	PrimaryCategory arxivCategory   `xml:"http://arxiv.org/schemas/atom primary_category"`
	JournalRef      string          `xml:"http://arxiv.org/schemas/atom journal_ref"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

type arxivLink struct {
	Href  string `xml:"href,attr"`
	Rel   string `xml:"rel,attr"`
	Type  string `xml:"type,attr"`
	Title string `xml:"title,attr"`
}

type arxivCategory struct {
	Term string `xml:"term,attr"`
}
