// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperdesk/internal/acquire"
	"github.com/pdiddy/paperdesk/internal/notes"
	"github.com/pdiddy/paperdesk/internal/render"
	"github.com/pdiddy/paperdesk/pkg/types"
)

var renderCmd = &cobra.Command{
	Use:   "render <url>",
	Short: "Preview the note a paper would get, without writing files",
	Long: `Render fetches a paper and prints the note the configured template would
produce. With --note it re-renders an existing note's front matter instead
of fetching. The PDF path shown is where add would save the PDF.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().String("source", "", "adapter to use: arxiv, semantic_scholar or meta (default: by URL)")
	renderCmd.Flags().String("note", "", "render from an existing note file instead of a URL")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("source")
	notePath, _ := cmd.Flags().GetString("note")

	var paper types.Paper
	switch {
	case notePath != "":
		data, err := os.ReadFile(notePath)
		if err != nil {
			return fmt.Errorf("reading note: %w", err)
		}
		paper, err = notes.ReadPaperFromNote(string(data), filepath.Base(notePath))
		if err != nil {
			return err
		}
	case len(args) == 1:
		var err error
		paper, err = newRouter().FetchWith(cmd.Context(), name, args[0])
		if err != nil {
			return err
		}
		if paper.HasPDFURL() && appConfig.Writer.PDFDir != "" {
			layout := acquire.NewLayout(appConfig.Writer.LocationConfig)
			paper.PDFPath = layout.PDFPath(acquire.SanitizeFilename(paper.Title))
		}
	default:
		return fmt.Errorf("provide a paper URL or --note")
	}

	tmpl, err := acquire.LoadTemplate(appConfig.Writer.LocationConfig)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), render.Render(tmpl, paper, time.Now()))
	return nil
}
