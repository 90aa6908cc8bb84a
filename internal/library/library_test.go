// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paperdesk/pkg/types"
)

func writeNote(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func testLibrary(t *testing.T) (*Library, IndexSummary) {
	t.Helper()
	dir := t.TempDir()
	writeNote(t, dir, "Attention Is All You Need.md", `---
title: Attention Is All You Need
authors: "Ashish Vaswani, Noam Shazeer"
abstract: The dominant sequence transduction models are based on recurrence.
venue: NeurIPS
year: "2017"
tags: "cs.CL, cs.LG"
citekey: vaswani2017attention
---
`)
	writeNote(t, dir, "ml/Deep Residual Learning.md", `---
title: Deep Residual Learning for Image Recognition
authors: [Kaiming He, Xiangyu Zhang]
abstract: Deeper neural networks are more difficult to train.
venue: CVPR
tags: [cs.CV]
---
`)
	writeNote(t, dir, "Graphs.md", "# Graphs\n\nNo front matter, 100% plain.\n")
	writeNote(t, dir, "Broken.md", "---\ntitle: Broken\npdf: not-a-link.pdf\n---\n")
	writeNote(t, dir, "readme.txt", "not a note")
	writeNote(t, dir, ".trash/Old.md", "---\ntitle: Old\n---\n")

	lib, err := Open()
	require.NoError(t, err)
	t.Cleanup(func() { lib.Close() })

	summary, err := lib.Index(context.Background(), dir)
	require.NoError(t, err)
	return lib, summary
}

func titles(papers []types.Paper) []string {
	out := make([]string, len(papers))
	for i, p := range papers {
		out[i] = p.Title
	}
	return out
}

func TestIndex(t *testing.T) {
	lib, summary := testLibrary(t)

	assert.Equal(t, 3, summary.Indexed)
	require.Len(t, summary.Skipped, 1)
	assert.Equal(t, "Broken.md", summary.Skipped[0].Path)
	assert.Equal(t, 4, summary.Total())

	all, err := lib.All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Attention Is All You Need",
		"Deep Residual Learning for Image Recognition",
		"Graphs",
	}, titles(all))

	resnet := all[1]
	assert.Equal(t, []string{"Kaiming He", "Xiangyu Zhang"}, resnet.Authors)
	assert.Equal(t, "ml/Deep Residual Learning.md", resnet.NotePath)
	assert.Equal(t, types.SourceNote, resnet.Source)
}

func TestIndexMissingDirectory(t *testing.T) {
	lib, err := Open()
	require.NoError(t, err)
	defer lib.Close()

	_, err = lib.Index(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestSearch(t *testing.T) {
	lib, _ := testLibrary(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		query string
		limit int
		want  []string
	}{
		{"title word", "attention", 0, []string{"Attention Is All You Need"}},
		{"author", "kaiming", 0, []string{"Deep Residual Learning for Image Recognition"}},
		{"abstract", "recurrence", 0, []string{"Attention Is All You Need"}},
		{"tag", "cs.CV", 0, []string{"Deep Residual Learning for Image Recognition"}},
		{"citekey", "vaswani2017", 0, []string{"Attention Is All You Need"}},
		{"all terms must match", "neurips shazeer", 0, []string{"Attention Is All You Need"}},
		{"terms across papers", "neurips cvpr", 0, nil},
		{"wildcards are literal", "100%", 0, nil},
		{"underscore is literal", "cs_CV", 0, nil},
		{"blank lists everything", "  ", 0, []string{"Attention Is All You Need", "Deep Residual Learning for Image Recognition", "Graphs"}},
		{"limit", "", 2, []string{"Attention Is All You Need", "Deep Residual Learning for Image Recognition"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := lib.Search(ctx, tt.query, tt.limit)
			require.NoError(t, err)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, titles(got))
		})
	}
}

func TestAddReplacesSameNote(t *testing.T) {
	lib, err := Open()
	require.NoError(t, err)
	defer lib.Close()
	ctx := context.Background()

	require.NoError(t, lib.Add(ctx, types.Paper{Title: "Draft", NotePath: "a.md"}))
	require.NoError(t, lib.Add(ctx, types.Paper{Title: "Final", NotePath: "a.md"}))
	require.NoError(t, lib.Add(ctx, types.Paper{Title: "Other", NotePath: "b.md"}))

	all, err := lib.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Final", "Other"}, titles(all))
}
