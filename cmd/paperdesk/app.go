// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paperdesk/internal/acquire"
	"github.com/pdiddy/paperdesk/internal/httputil"
	"github.com/pdiddy/paperdesk/internal/source"
	"github.com/pdiddy/paperdesk/pkg/types"
)

func newRouter() *source.Router {
	return source.NewRouter(appConfig.Sources)
}

func newWriter(out io.Writer, headless bool) *acquire.Writer {
	w := acquire.NewWriter(appConfig.Writer, httputil.New(appConfig.Writer.HTTPConfig))
	w.Log = logger
	w.Out = out
	if headless {
		w.Opener = acquire.NopOpener{}
	}
	return w
}

// writePapers prints papers as YAML or JSON.
func writePapers(w io.Writer, papers any, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(papers)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(papers); err != nil {
		return err
	}
	return enc.Close()
}

// writeTable prints one line per paper.
func writeTable(w io.Writer, papers []types.Paper) {
	if len(papers) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-60s  %-25s  %-4s  %s\n", "Rank", "Title", "Authors", "Year", "URL")
	fmt.Fprintln(w, strings.Repeat("-", 120))
	for i, p := range papers {
		fmt.Fprintf(w, "%-4d  %-60s  %-25s  %-4s  %s\n",
			i+1, truncate(p.Title, 60), truncate(strings.Join(p.Authors, ", "), 25), p.Year(), p.URL)
	}
	fmt.Fprintf(w, "\n%d results\n", len(papers))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
