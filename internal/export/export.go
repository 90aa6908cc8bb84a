// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes lists of papers as YAML, JSON, CSL-YAML or an
// XLSX spreadsheet.
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paperdesk/pkg/types"
)

// Format names an export format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatCSL  Format = "csl"
	FormatXLSX Format = "xlsx"
)

// Formats lists the supported formats.
var Formats = []Format{FormatYAML, FormatJSON, FormatCSL, FormatXLSX}

// Write encodes papers to w in format.
func Write(w io.Writer, format Format, papers []types.Paper) error {
	switch format {
	case FormatYAML:
		return YAML(w, papers)
	case FormatJSON:
		return JSON(w, papers)
	case FormatCSL:
		return CSL(w, papers)
	case FormatXLSX:
		return XLSX(w, papers)
	}
	return fmt.Errorf("unknown export format %q (available: %v)", format, Formats)
}

// YAML writes papers as a YAML list.
func YAML(w io.Writer, papers []types.Paper) error {
	if papers == nil {
		papers = []types.Paper{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(papers); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// JSON writes papers as an indented JSON array.
func JSON(w io.Writer, papers []types.Paper) error {
	if papers == nil {
		papers = []types.Paper{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(papers); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}
