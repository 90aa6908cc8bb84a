// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// HTTPConfig holds shared HTTP settings used by every source adapter and
// the PDF downloader.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paperdesk/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// RequestsPerSecond throttles outgoing requests per client. Zero or
	// negative means unlimited.
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
}

// SourceConfig holds settings for the remote metadata sources.
type SourceConfig struct {
	HTTPConfig `yaml:",inline"`

	// SemanticScholarAPIKey is an optional API key for higher rate limits.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty"`

	// MaxResults caps Semantic Scholar search hits (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// LocationConfig holds the filesystem locations the artifact writer uses.
// NotesDir and PDFDir are relative to Root and are joined with Separator
// when a path is written into a note.
type LocationConfig struct {
	// Root is the directory relative paths resolve against (the vault).
	Root string `json:"root" yaml:"root"`

	// NotesDir is where rendered notes are created.
	NotesDir string `json:"notes_dir" yaml:"notes_dir"`

	// PDFDir is where PDFs are downloaded.
	PDFDir string `json:"pdf_dir" yaml:"pdf_dir"`

	// BibFile is the BibTeX file entries are prepended to.
	BibFile string `json:"bib_file" yaml:"bib_file"`

	// TemplateFile is the note template. Empty selects the built-in template.
	TemplateFile string `json:"template_file" yaml:"template_file"`

	// Separator joins relative path segments. Defaults to the OS separator.
	Separator string `json:"separator" yaml:"separator"`
}

// PathSeparator returns the configured separator, falling back to the
// platform separator.
func (c LocationConfig) PathSeparator() string {
	if c.Separator != "" {
		return c.Separator
	}
	return string(os.PathSeparator)
}

// WriterConfig holds settings for the artifact writer.
type WriterConfig struct {
	LocationConfig `yaml:",inline"`
	HTTPConfig     `yaml:"http"`

	// SaveBibTeX enables prepending BibTeX entries to BibFile.
	SaveBibTeX bool `json:"save_bibtex" yaml:"save_bibtex"`

	// OpenPDF opens the PDF with the system viewer once it is on disk.
	OpenPDF bool `json:"open_pdf" yaml:"open_pdf"`
}

// Config groups every resolved setting.
type Config struct {
	Sources SourceConfig `json:"sources" yaml:"sources"`
	Writer  WriterConfig `json:"writer" yaml:"writer"`

	// SearchDebounce is the quiet period before an interactive search
	// query is sent (default 500ms).
	SearchDebounce time.Duration `json:"search_debounce" yaml:"search_debounce"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level" yaml:"log_level"`
}

// MissingConfigurationError reports a required location setting that is
// unset. Operations return it before performing any write.
type MissingConfigurationError struct {
	Setting string
}

func (e *MissingConfigurationError) Error() string {
	return fmt.Sprintf("missing configuration: %s is not set", e.Setting)
}

// IsMissingConfiguration reports whether err is or wraps a
// MissingConfigurationError.
func IsMissingConfiguration(err error) bool {
	var mc *MissingConfigurationError
	return errors.As(err, &mc)
}

// Require returns a MissingConfigurationError for the first empty value in
// settings, which alternates setting name and value.
func Require(settings ...string) error {
	for i := 0; i+1 < len(settings); i += 2 {
		if settings[i+1] == "" {
			return &MissingConfigurationError{Setting: settings[i]}
		}
	}
	return nil
}
