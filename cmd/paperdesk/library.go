// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperdesk/internal/acquire"
	"github.com/pdiddy/paperdesk/internal/export"
	"github.com/pdiddy/paperdesk/internal/library"
	"github.com/pdiddy/paperdesk/pkg/types"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "List, search and export the papers in notes_dir",
	Long: `Library reads every note in notes_dir into a temporary index. Nothing is
stored between runs: the notes are the library.`,
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every paper note",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLibrary(cmd, func(ctx context.Context, lib *library.Library) error {
			papers, err := lib.All(ctx)
			if err != nil {
				return err
			}
			return printResults(cmd.OutOrStdout(), papers, jsonFlag(cmd))
		})
	},
}

var librarySearchCmd = &cobra.Command{
	Use:   "search <terms>...",
	Short: "Find notes matching every term",
	Long: `Search matches each term against title, authors, abstract, venue, tags
and citekey. A paper is listed when every term matches one of those fields.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		return withLibrary(cmd, func(ctx context.Context, lib *library.Library) error {
			papers, err := lib.Search(ctx, strings.Join(args, " "), limit)
			if err != nil {
				return err
			}
			return printResults(cmd.OutOrStdout(), papers, jsonFlag(cmd))
		})
	},
}

var libraryExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the library as YAML, JSON, CSL-YAML or XLSX",
	Args:  cobra.NoArgs,
	RunE:  runLibraryExport,
}

func init() {
	libraryListCmd.Flags().Bool("json", false, "output results as JSON")
	librarySearchCmd.Flags().Bool("json", false, "output results as JSON")
	librarySearchCmd.Flags().Int("limit", 0, "maximum number of results (default: all)")
	libraryExportCmd.Flags().String("format", "yaml", "export format: yaml, json, csl or xlsx")
	libraryExportCmd.Flags().StringP("output", "o", "", "output file (default: stdout; required for xlsx)")

	libraryCmd.AddCommand(libraryListCmd, librarySearchCmd, libraryExportCmd)
	rootCmd.AddCommand(libraryCmd)
}

func runLibraryExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")
	if export.Format(format) == export.FormatXLSX && output == "" {
		return fmt.Errorf("--output is required for xlsx")
	}

	return withLibrary(cmd, func(ctx context.Context, lib *library.Library) error {
		papers, err := lib.All(ctx)
		if err != nil {
			return err
		}

		var w io.Writer = cmd.OutOrStdout()
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}
			defer f.Close()
			w = f
		}
		if err := export.Write(w, export.Format(format), papers); err != nil {
			return err
		}
		if output != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d papers to %s\n", len(papers), output)
		}
		return nil
	})
}

// withLibrary indexes notes_dir and runs fn against the result.
func withLibrary(cmd *cobra.Command, fn func(context.Context, *library.Library) error) error {
	if err := types.Require("notes_dir", appConfig.Writer.NotesDir); err != nil {
		return err
	}
	layout := acquire.NewLayout(appConfig.Writer.LocationConfig)
	notesDir := layout.OSPath(appConfig.Writer.NotesDir)

	lib, err := library.Open()
	if err != nil {
		return err
	}
	defer lib.Close()

	ctx := cmd.Context()
	summary, err := lib.Index(ctx, notesDir)
	if err != nil {
		return err
	}
	for _, s := range summary.Skipped {
		logger.Warn("skipped note", "path", s.Path, "error", s.Err)
	}
	logger.Debug("indexed notes", "dir", notesDir, "indexed", summary.Indexed, "skipped", len(summary.Skipped))

	return fn(ctx, lib)
}

func jsonFlag(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}
