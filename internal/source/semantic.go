// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/pdiddy/paperdesk/internal/httputil"
	"github.com/pdiddy/paperdesk/pkg/types"
)

// semanticAPIBase is the Semantic Scholar Graph API paper endpoint.
// Declared as a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper"

const (
	semanticFields       = "title,authors,abstract,url,venue,year,publicationDate,externalIds,openAccessPdf,citationStyles,fieldsOfStudy"
	defaultSearchResults = 20
)

var (
	// s2IDPattern matches a 40-character hex Semantic Scholar paper ID.
	s2IDPattern = regexp.MustCompile(`(?i)\b[0-9a-f]{40}\b`)

	// doiPattern matches a DOI anywhere in a URL.
	doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s?#]+`)
)

// SemanticScholarSource fetches single papers and runs keyword searches
// against the Semantic Scholar Graph API.
type SemanticScholarSource struct {
	Client *httputil.Client
}

// Name returns the adapter identifier.
func (s *SemanticScholarSource) Name() string { return types.SourceSemanticScholar }

// FetchByURL resolves rawURL to a Semantic Scholar lookup identifier and
// fetches that paper.
func (s *SemanticScholarSource) FetchByURL(ctx context.Context, rawURL string) (types.Paper, error) {
	id := SemanticLookupID(rawURL)
	reqURL := semanticAPIBase + "/" + escapeSegments(id) + "?" + url.Values{"fields": {semanticFields}}.Encode()

	resp, err := s.Client.Get(ctx, reqURL, "application/json")
	if err != nil {
		return types.Paper{}, &FetchError{Source: s.Name(), Target: rawURL, Err: err}
	}
	defer resp.Body.Close()

	var sp semanticPaper
	if err := json.NewDecoder(resp.Body).Decode(&sp); err != nil {
		return types.Paper{}, fetchErr(s.Name(), rawURL, "parsing Semantic Scholar response: %w", err)
	}
	if strings.TrimSpace(sp.Title) == "" {
		return types.Paper{}, fetchErr(s.Name(), rawURL, "Semantic Scholar returned a paper without a title")
	}
	return sp.toPaper(), nil
}

// Search queries the paper search endpoint. A blank query returns no
// results without touching the network.
func (s *SemanticScholarSource) Search(ctx context.Context, query string, limit int) ([]types.Paper, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultSearchResults
	}

	params := url.Values{
		"query":  {query},
		"limit":  {fmt.Sprintf("%d", limit)},
		"fields": {semanticFields},
	}
	resp, err := s.Client.Get(ctx, semanticAPIBase+"/search?"+params.Encode(), "application/json")
	if err != nil {
		return nil, &FetchError{Source: s.Name(), Target: query, Err: err}
	}
	defer resp.Body.Close()

	var sr semanticSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fetchErr(s.Name(), query, "parsing Semantic Scholar response: %w", err)
	}

	papers := make([]types.Paper, 0, len(sr.Data))
	for _, sp := range sr.Data {
		if strings.TrimSpace(sp.Title) == "" {
			continue
		}
		papers = append(papers, sp.toPaper())
	}
	return papers, nil
}

// SemanticLookupID picks the identifier for the paper lookup endpoint:
// a raw S2 paper ID from a semanticscholar.org URL, a DOI found in the
// URL, or the URL itself with the "URL:" prefix.
func SemanticLookupID(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if strings.Contains(strings.ToLower(rawURL), "semanticscholar.org") {
		if m := s2IDPattern.FindString(rawURL); m != "" {
			return strings.ToLower(m)
		}
	}
	if m := doiPattern.FindString(rawURL); m != "" {
		return "DOI:" + strings.TrimSuffix(m, ".pdf")
	}
	return "URL:" + rawURL
}

// escapeSegments path-escapes each "/"-separated segment, keeping the
// slashes DOIs and URLs rely on.
func escapeSegments(id string) string {
	parts := strings.Split(id, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

// toPaper maps a Semantic Scholar paper onto a Paper.
func (sp semanticPaper) toPaper() types.Paper {
	p := types.Paper{
		Title:    collapseSpace(sp.Title),
		Abstract: sp.Abstract,
		URL:      sp.URL,
		Venue:    sp.Venue,
		Tags:     sp.FieldsOfStudy,
		Source:   types.SourceSemanticScholar,
	}
	for _, a := range sp.Authors {
		p.Authors = append(p.Authors, a.Name)
	}

	switch {
	case sp.PublicationDate != "":
		p.PublicationDate = sp.PublicationDate
	case sp.Year > 0:
		p.PublicationDate = fmt.Sprintf("%d", sp.Year)
	}

	switch {
	case sp.OpenAccessPDF != nil && sp.OpenAccessPDF.URL != "":
		p.PDFURL = sp.OpenAccessPDF.URL
	case sp.ExternalIDs.ArXiv != "":
		p.PDFURL = arxivPDFBase + sp.ExternalIDs.ArXiv
	}
	if p.URL == "" && sp.PaperID != "" {
		p.URL = "https://www.semanticscholar.org/paper/" + sp.PaperID
	}

	if sp.CitationStyles != nil {
		p.BibTeX = sp.CitationStyles.BibTeX
		p.Citekey = ParseCitekey(sp.CitationStyles.BibTeX)
	}
	return p.Normalize()
}

// Semantic Scholar API JSON structures.
type semanticSearchResponse struct {
	Total  int             `json:"total"`
	Offset int             `json:"offset"`
	Data   []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID         string                  `json:"paperId"`
	URL             string                  `json:"url"`
	Title           string                  `json:"title"`
	Abstract        string                  `json:"abstract"`
	Venue           string                  `json:"venue"`
	Year            int                     `json:"year"`
	PublicationDate string                  `json:"publicationDate"`
	Authors         []semanticAuthor        `json:"authors"`
	ExternalIDs     semanticExternalIDs     `json:"externalIds"`
	OpenAccessPDF   *semanticOpenAccessPDF  `json:"openAccessPdf"`
	CitationStyles  *semanticCitationStyles `json:"citationStyles"`
	FieldsOfStudy   []string                `json:"fieldsOfStudy"`
}

type semanticAuthor struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

type semanticExternalIDs struct {
	DOI   string `json:"DOI"`
	ArXiv string `json:"ArXiv"`
}

type semanticOpenAccessPDF struct {
	URL    string `json:"url"`
	Status string `json:"status"`
}

type semanticCitationStyles struct {
	BibTeX string `json:"bibtex"`
}
