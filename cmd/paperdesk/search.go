// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperdesk/internal/debounce"
	"github.com/pdiddy/paperdesk/internal/source"
	"github.com/pdiddy/paperdesk/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Search Semantic Scholar for papers",
	Long: `Search sends a keyword query to Semantic Scholar and prints the matching
papers. With --interactive each line read from stdin is a new query; queries
typed in quick succession are coalesced and only the latest is sent.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Int("limit", 0, "maximum number of results (default: max_results)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().Bool("interactive", false, "read queries from stdin, one per line")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		limit = appConfig.Sources.MaxResults
	}
	jsonOutput, _ := cmd.Flags().GetBool("json")
	interactive, _ := cmd.Flags().GetBool("interactive")

	searcher := newRouter().Searcher()
	if searcher == nil {
		return fmt.Errorf("no search-capable source configured")
	}
	out := cmd.OutOrStdout()

	if interactive {
		return searchInteractive(cmd.Context(), searcher, cmd.InOrStdin(), out, limit, jsonOutput)
	}

	query := strings.Join(args, " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("provide a search query or use --interactive")
	}
	papers, err := searcher.Search(cmd.Context(), query, limit)
	if err != nil {
		return err
	}
	return printResults(out, papers, jsonOutput)
}

// searchInteractive debounces queries read line by line from in. At end of
// input the last pending query is sent before returning.
func searchInteractive(ctx context.Context, searcher source.Searcher, in io.Reader, out io.Writer, limit int, jsonOutput bool) error {
	search := func(_ context.Context, q string) ([]types.Paper, error) {
		return searcher.Search(ctx, q, limit)
	}
	deliver := func(q string, papers []types.Paper, err error) {
		if err != nil {
			logger.Warn("search failed", "query", q, "error", err)
			return
		}
		fmt.Fprintf(out, "\n> %s\n", q)
		if err := printResults(out, papers, jsonOutput); err != nil {
			logger.Warn("printing results", "error", err)
		}
	}

	d := debounce.New[[]types.Paper](appConfig.SearchDebounce, search, deliver)
	defer d.Close()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if q := strings.TrimSpace(scanner.Text()); q != "" {
			d.Submit(q)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading queries: %w", err)
	}
	d.Flush()
	return nil
}

func printResults(out io.Writer, papers []types.Paper, jsonOutput bool) error {
	if jsonOutput {
		if papers == nil {
			papers = []types.Paper{}
		}
		return writePapers(out, papers, true)
	}
	writeTable(out, papers)
	return nil
}
