// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source turns a paper URL or a search query into normalized
// types.Paper records. Each adapter issues one request per call, maps the
// remote schema onto types.Paper and reports failures as *FetchError.
// Nothing here retries.
package source

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/paperdesk/pkg/types"
)

// Fetcher resolves a single paper from its URL.
type Fetcher interface {
	Name() string
	FetchByURL(ctx context.Context, url string) (types.Paper, error)
}

// Searcher returns candidate papers for a free-text query.
type Searcher interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]types.Paper, error)
}

// FetchError reports a network, status or parse failure from an adapter.
type FetchError struct {
	// Source is the adapter name (e.g. "arxiv").
	Source string
	// Target is the URL, identifier or query that was requested.
	Target string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %q from %s: %v", e.Target, e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsFetchError reports whether err is or wraps a FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

func fetchErr(source, target string, format string, args ...any) *FetchError {
	return &FetchError{Source: source, Target: target, Err: fmt.Errorf(format, args...)}
}

// collapseSpace joins every whitespace run into a single space.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
