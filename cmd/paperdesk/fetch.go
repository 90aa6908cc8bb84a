// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <url>",
	Short: "Fetch and print the metadata for one paper",
	Long: `Fetch resolves a paper URL to structured metadata and prints it without
writing anything. arXiv URLs go to the arXiv API and anything else to
Semantic Scholar, unless --source picks an adapter.`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("source", "", "adapter to use: arxiv, semantic_scholar or meta (default: by URL)")
	fetchCmd.Flags().Bool("json", false, "output JSON instead of YAML")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("source")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	paper, err := newRouter().FetchWith(cmd.Context(), name, args[0])
	if err != nil {
		return err
	}
	if err := writePapers(cmd.OutOrStdout(), paper, jsonOutput); err != nil {
		return fmt.Errorf("printing paper: %w", err)
	}
	return nil
}
