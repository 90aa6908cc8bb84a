// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/paperdesk/internal/httputil"
	"github.com/pdiddy/paperdesk/pkg/types"
)

// MetaTagSource reads the Highwire Press citation_* meta tags most
// publisher landing pages carry. It is never chosen by URL routing; the
// caller selects it by name.
type MetaTagSource struct {
	Client *httputil.Client
}

// Name returns the adapter identifier.
func (s *MetaTagSource) Name() string { return types.SourceMetaTags }

// FetchByURL downloads the landing page and maps its citation meta tags.
func (s *MetaTagSource) FetchByURL(ctx context.Context, rawURL string) (types.Paper, error) {
	resp, err := s.Client.Get(ctx, rawURL, "text/html")
	if err != nil {
		return types.Paper{}, &FetchError{Source: s.Name(), Target: rawURL, Err: err}
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return types.Paper{}, fetchErr(s.Name(), rawURL, "parsing HTML: %w", err)
	}

	p := metaTagsToPaper(doc, rawURL)
	if p.Title == "" {
		return types.Paper{}, fetchErr(s.Name(), rawURL, "page has no citation_title or og:title meta tag")
	}
	return p, nil
}

func metaTagsToPaper(doc *goquery.Document, pageURL string) types.Paper {
	meta := func(names ...string) string {
		for _, n := range names {
			if v := metaContent(doc, n); v != "" {
				return v
			}
		}
		return ""
	}

	p := types.Paper{
		Title:           collapseSpace(meta("citation_title", "dc.title", "og:title")),
		Abstract:        collapseSpace(meta("citation_abstract", "dc.description", "description", "og:description")),
		URL:             meta("citation_abstract_html_url", "og:url"),
		PDFURL:          meta("citation_pdf_url"),
		Venue:           meta("citation_journal_title", "citation_conference_title", "citation_publisher"),
		PublicationDate: meta("citation_publication_date", "citation_date", "citation_online_date", "dc.date"),
		Source:          types.SourceMetaTags,
	}
	if p.URL == "" {
		p.URL = pageURL
	}
	p.PDFURL = resolveAgainst(pageURL, p.PDFURL)

	doc.Find(`meta[name="citation_author"], meta[name="dc.creator"]`).Each(func(_ int, sel *goquery.Selection) {
		if v, ok := sel.Attr("content"); ok {
			p.Authors = append(p.Authors, collapseSpace(v))
		}
	})
	doc.Find(`meta[name="citation_keywords"]`).Each(func(_ int, sel *goquery.Selection) {
		v, _ := sel.Attr("content")
		for _, kw := range strings.Split(v, ";") {
			p.Tags = append(p.Tags, kw)
		}
	})

	p = p.Normalize()
	p.Citekey = Citekey(p)
	return p
}

// metaContent returns the content of the first meta tag whose name or
// property equals name, case-insensitively.
func metaContent(doc *goquery.Document, name string) string {
	var out string
	doc.Find("meta").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		key, ok := sel.Attr("name")
		if !ok {
			key, _ = sel.Attr("property")
		}
		if !strings.EqualFold(key, name) {
			return true
		}
		out = strings.TrimSpace(sel.AttrOr("content", ""))
		return out == ""
	})
	return out
}

// resolveAgainst turns a relative href into an absolute URL.
func resolveAgainst(base, href string) string {
	if href == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	h, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(h).String()
}
