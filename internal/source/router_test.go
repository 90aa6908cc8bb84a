// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paperdesk/pkg/types"
)

// stubFetcher records the URLs it is asked for.
type stubFetcher struct {
	name string
	got  []string
}

func (s *stubFetcher) Name() string { return s.name }

func (s *stubFetcher) FetchByURL(_ context.Context, url string) (types.Paper, error) {
	s.got = append(s.got, url)
	return types.Paper{Title: "from " + s.name, Source: s.name}, nil
}

func newStubRouter() (*Router, *stubFetcher, *stubFetcher) {
	ax := &stubFetcher{name: types.SourceArxiv}
	s2 := &stubFetcher{name: types.SourceSemanticScholar}
	return &Router{Arxiv: ax, Semantic: s2}, ax, s2
}

func TestRouterRoute(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://arxiv.org/abs/1706.03762", types.SourceArxiv},
		{"https://ARXIV.ORG/pdf/1706.03762", types.SourceArxiv},
		{"http://export.arxiv.org/abs/2301.07041", types.SourceArxiv},
		{"https://www.semanticscholar.org/paper/204e3073870fae3d05bcbc2f6a8e263d9b72e776", types.SourceSemanticScholar},
		{"https://doi.org/10.1038/nature14539", types.SourceSemanticScholar},
		{"https://openreview.net/forum?id=abc", types.SourceSemanticScholar},
	}
	r, _, _ := newStubRouter()
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Route(tt.url).Name())
		})
	}
}

func TestRouterFetchByURL(t *testing.T) {
	r, ax, s2 := newStubRouter()

	p, err := r.FetchByURL(context.Background(), "  https://arxiv.org/abs/1706.03762 ")
	require.NoError(t, err)
	assert.Equal(t, "from arxiv", p.Title)
	assert.Equal(t, []string{"https://arxiv.org/abs/1706.03762"}, ax.got)

	_, err = r.FetchByURL(context.Background(), "https://doi.org/10.1038/nature14539")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://doi.org/10.1038/nature14539"}, s2.got)

	_, err = r.FetchByURL(context.Background(), "   ")
	require.Error(t, err)
}

func TestRouterFetchWith(t *testing.T) {
	r, ax, s2 := newStubRouter()
	meta := &stubFetcher{name: types.SourceMetaTags}
	r.Register(meta)

	_, err := r.FetchWith(context.Background(), types.SourceMetaTags, "https://arxiv.org/abs/1706.03762")
	require.NoError(t, err)
	assert.Len(t, meta.got, 1, "explicit source overrides routing")
	assert.Empty(t, ax.got)

	_, err = r.FetchWith(context.Background(), types.SourceSemanticScholar, "https://arxiv.org/abs/1706.03762")
	require.NoError(t, err)
	assert.Len(t, s2.got, 1)

	_, err = r.FetchWith(context.Background(), "", "https://arxiv.org/abs/1706.03762")
	require.NoError(t, err)
	assert.Len(t, ax.got, 1, "empty name routes")

	_, err = r.FetchWith(context.Background(), "crossref", "https://example.org")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown source")
	assert.Contains(t, err.Error(), "arxiv, meta, semantic_scholar")
}

func TestNewRouterWiresAdapters(t *testing.T) {
	r := NewRouter(types.SourceConfig{SemanticScholarAPIKey: "k"})
	assert.Equal(t, []string{types.SourceArxiv, types.SourceMetaTags, types.SourceSemanticScholar}, r.Names())
	require.NotNil(t, r.Searcher())
	assert.Equal(t, types.SourceSemanticScholar, r.Searcher().Name())
}
