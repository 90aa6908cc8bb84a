// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperdesk/internal/acquire"
)

var addCmd = &cobra.Command{
	Use:   "add <url>...",
	Short: "Fetch papers and write their note, PDF and BibTeX entry",
	Long: `Add fetches each URL, downloads the PDF into pdf_dir, renders a note into
notes_dir and prepends the BibTeX entry to bib_file. Existing PDFs are not
downloaded again, existing notes are never overwritten (they are opened
instead) and BibTeX entries already in the file are not added twice.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().String("source", "", "adapter to use: arxiv, semantic_scholar or meta (default: by URL)")
	addCmd.Flags().Bool("save-bibtex", false, "prepend BibTeX entries to bib_file")
	addCmd.Flags().Bool("open-pdf", false, "open each PDF once it is on disk")
	addCmd.Flags().Bool("headless", false, "never open notes or PDFs")

	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("source")
	headless, _ := cmd.Flags().GetBool("headless")
	if cmd.Flags().Changed("save-bibtex") {
		appConfig.Writer.SaveBibTeX, _ = cmd.Flags().GetBool("save-bibtex")
	}
	if cmd.Flags().Changed("open-pdf") {
		appConfig.Writer.OpenPDF, _ = cmd.Flags().GetBool("open-pdf")
	}

	out := cmd.OutOrStdout()
	p := &acquire.Pipeline{
		Fetcher: newRouter(),
		Writer:  newWriter(out, headless),
		Out:     out,
	}
	result := p.AddBatch(cmd.Context(), args, name)
	if result.HasFailures() {
		return fmt.Errorf("%d paper(s) failed", result.Failed)
	}
	return nil
}
