// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paperdesk/pkg/types"
)

type stubSearcher struct {
	mu      sync.Mutex
	queries []string
}

func (s *stubSearcher) Name() string { return "stub" }

func (s *stubSearcher) Search(_ context.Context, query string, limit int) ([]types.Paper, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, query)
	return []types.Paper{{Title: "Result for " + query, Authors: []string{"Ada Lovelace"}, PublicationDate: "2024"}}, nil
}

func TestSearchInteractiveSendsLatestQuery(t *testing.T) {
	appConfig.SearchDebounce = time.Second
	s := &stubSearcher{}
	var out bytes.Buffer

	in := strings.NewReader("att\natten\n\nattention\n")
	require.NoError(t, searchInteractive(context.Background(), s, in, &out, 5, false))

	assert.Equal(t, []string{"attention"}, s.queries)
	assert.Contains(t, out.String(), "> attention")
	assert.Contains(t, out.String(), "Result for attention")
	assert.NotContains(t, out.String(), "> att\n")
}

func TestWriteTable(t *testing.T) {
	var out bytes.Buffer
	writeTable(&out, nil)
	assert.Equal(t, "No results found.\n", out.String())

	out.Reset()
	writeTable(&out, []types.Paper{{Title: strings.Repeat("x", 70), PublicationDate: "2017-06-12", URL: "https://arxiv.org/abs/1706.03762"}})
	assert.Contains(t, out.String(), strings.Repeat("x", 57)+"...")
	assert.Contains(t, out.String(), "2017")
	assert.Contains(t, out.String(), "1 results")
}
