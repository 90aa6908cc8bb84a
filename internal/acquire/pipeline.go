// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/paperdesk/pkg/types"
)

// Fetcher resolves a URL to a paper, optionally through a named source.
// *source.Router satisfies it.
type Fetcher interface {
	FetchWith(ctx context.Context, name, rawURL string) (types.Paper, error)
}

// Pipeline fetches papers and hands them to a Writer.
type Pipeline struct {
	Fetcher Fetcher
	Writer  *Writer
	Out     io.Writer
}

// BatchResult holds the outcome of an AddBatch run.
type BatchResult struct {
	Added   int
	Skipped int
	Failed  int
	Results []Result
}

// Total returns the number of URLs processed.
func (r BatchResult) Total() int {
	return r.Added + r.Skipped + r.Failed
}

// HasFailures reports whether any URL failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Add fetches rawURL through source (empty routes by URL) and writes its
// artifacts.
func (p *Pipeline) Add(ctx context.Context, rawURL, source string) (Result, error) {
	paper, err := p.Fetcher.FetchWith(ctx, source, rawURL)
	if err != nil {
		res := Result{}
		res.record(StageFetching, OutcomeFailed, err.Error())
		return res, err
	}

	res, err := p.Writer.Process(ctx, paper)
	res.Stages = append([]StageResult{{Stage: StageFetching, Outcome: OutcomeDone, Detail: paper.Source}}, res.Stages...)
	return res, err
}

// AddBatch adds each URL in turn, printing per-item status and a summary.
// It continues after individual failures and stops early only when ctx is
// done.
func (p *Pipeline) AddBatch(ctx context.Context, urls []string, source string) BatchResult {
	out := p.Out
	if out == nil {
		out = io.Discard
	}

	var result BatchResult
	for _, u := range urls {
		if ctx.Err() != nil {
			fmt.Fprintf(out, "failed:  %s (%v)\n", u, ctx.Err())
			result.Failed++
			continue
		}
		res, err := p.Add(ctx, u, source)
		if err != nil {
			fmt.Fprintf(out, "failed:  %s (%v)\n", u, err)
			result.Failed++
			continue
		}
		if res.NoteCreated() {
			fmt.Fprintf(out, "added:   %s\n", res.Paper.Title)
			result.Added++
		} else {
			fmt.Fprintf(out, "skipped: %s (already in notes)\n", res.Paper.Title)
			result.Skipped++
		}
		result.Results = append(result.Results, res)
	}
	fmt.Fprintf(out, "\nBatch summary: %d added, %d skipped, %d failed (total: %d)\n",
		result.Added, result.Skipped, result.Failed, result.Total())
	return result
}
