// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paperdesk CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paperdesk/internal/config"
	"github.com/pdiddy/paperdesk/internal/logging"
	"github.com/pdiddy/paperdesk/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// Resolved at startup by the root command's PersistentPreRunE.
var (
	appConfig types.Config
	logger    = logging.Discard()
)

// rootCmd is the base command for the paperdesk CLI.
var rootCmd = &cobra.Command{
	Use:   "paperdesk",
	Short: "Fetch paper metadata and file it as notes, PDFs and BibTeX",
	Long: `paperdesk looks up academic papers on arXiv and Semantic Scholar, then
writes a Markdown note, the PDF and a BibTeX entry into a notes vault.

Settings come from flags, PAPERDESK_* environment variables (a .env file is
loaded first), paperdesk.yaml and API keys in .secrets/.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, err := config.LoadDotEnv(".env"); err != nil {
			return err
		}

		level, _ := cmd.Flags().GetString("log-level")
		if level == "" {
			level = viper.GetString(config.KeyLogLevel)
		}
		logger = logging.New(level, os.Stderr)
		slog.SetDefault(logger)

		secrets, err := config.LoadSecrets(".secrets/", logger)
		if err != nil {
			return err
		}
		if len(secrets) > 0 {
			keys := make([]string, 0, len(secrets))
			for k := range secrets {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug("loaded secrets", "keys", keys)
		}

		cfg, err := config.Resolve(viper.GetViper(), secrets)
		if err != nil {
			return err
		}
		appConfig = cfg
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./paperdesk.yaml or ~/.config/paperdesk/paperdesk.yaml)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("root", "", "vault root that notes_dir, pdf_dir and bib_file are relative to")
	flags.String("notes-dir", "", "directory for notes")
	flags.String("pdf-dir", "", "directory for PDFs")
	flags.String("bib-file", "", "BibTeX file entries are prepended to")
	flags.String("template", "", "note template file (default: built-in template)")

	for key, flag := range map[string]string{
		config.KeyRoot:         "root",
		config.KeyNotesDir:     "notes-dir",
		config.KeyPDFDir:       "pdf-dir",
		config.KeyBibFile:      "bib-file",
		config.KeyTemplateFile: "template",
	} {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paperdesk")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paperdesk"))
		}
	}

	config.SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
