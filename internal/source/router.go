// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/paperdesk/internal/httputil"
	"github.com/pdiddy/paperdesk/pkg/types"
)

// arxivDomainToken selects the arXiv adapter when present in a URL.
const arxivDomainToken = "arxiv.org"

// Router picks the adapter for a URL: arXiv when the URL names the arXiv
// domain, Semantic Scholar otherwise. Other registered adapters are only
// reachable through FetchWith.
type Router struct {
	Arxiv    Fetcher
	Semantic Fetcher
	extra    map[string]Fetcher
}

// NewRouter wires the default adapters over shared HTTP clients. The
// Semantic Scholar client carries the API key header when one is set.
func NewRouter(cfg types.SourceConfig, opts ...httputil.Option) *Router {
	general := httputil.New(cfg.HTTPConfig, opts...)
	s2opts := append([]httputil.Option{httputil.WithHeader("x-api-key", cfg.SemanticScholarAPIKey)}, opts...)
	s2 := httputil.New(cfg.HTTPConfig, s2opts...)

	r := &Router{
		Arxiv:    &ArxivSource{Client: general},
		Semantic: &SemanticScholarSource{Client: s2},
	}
	r.Register(&MetaTagSource{Client: general})
	return r
}

// Searcher returns the Semantic Scholar adapter as a Searcher, or nil when
// the configured adapter cannot search.
func (r *Router) Searcher() Searcher {
	s, _ := r.Semantic.(Searcher)
	return s
}

// Register makes an adapter reachable by name through FetchWith.
func (r *Router) Register(f Fetcher) {
	if r.extra == nil {
		r.extra = map[string]Fetcher{}
	}
	r.extra[f.Name()] = f
}

// Route returns the adapter FetchByURL would use for rawURL.
func (r *Router) Route(rawURL string) Fetcher {
	if strings.Contains(strings.ToLower(rawURL), arxivDomainToken) {
		return r.Arxiv
	}
	return r.Semantic
}

// FetchByURL fetches rawURL through the routed adapter.
func (r *Router) FetchByURL(ctx context.Context, rawURL string) (types.Paper, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return types.Paper{}, fmt.Errorf("empty URL")
	}
	return r.Route(rawURL).FetchByURL(ctx, rawURL)
}

// FetchWith fetches rawURL through the adapter called name. An empty name
// falls back to routing.
func (r *Router) FetchWith(ctx context.Context, name, rawURL string) (types.Paper, error) {
	if name == "" {
		return r.FetchByURL(ctx, rawURL)
	}
	f, ok := r.lookup(name)
	if !ok {
		return types.Paper{}, fmt.Errorf("unknown source %q (available: %s)", name, strings.Join(r.Names(), ", "))
	}
	return f.FetchByURL(ctx, strings.TrimSpace(rawURL))
}

// Names lists every adapter name, sorted.
func (r *Router) Names() []string {
	names := []string{}
	for _, f := range []Fetcher{r.Arxiv, r.Semantic} {
		if f != nil {
			names = append(names, f.Name())
		}
	}
	for n := range r.extra {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (r *Router) lookup(name string) (Fetcher, bool) {
	for _, f := range []Fetcher{r.Arxiv, r.Semantic} {
		if f != nil && f.Name() == name {
			return f, true
		}
	}
	f, ok := r.extra[name]
	return f, ok
}
