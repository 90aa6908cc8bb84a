// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/paperdesk/pkg/types"
)

// SheetName is the worksheet XLSX writes to.
const SheetName = "Papers"

var xlsxHeader = []string{"Title", "Authors", "Venue", "Year", "Tags", "Citekey", "URL", "PDF", "Note", "Abstract"}

// XLSX writes papers as a spreadsheet with one row per paper under a
// header row.
func XLSX(w io.Writer, papers []types.Paper) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	rows := make([][]string, 0, len(papers)+1)
	rows = append(rows, xlsxHeader)
	for _, p := range papers {
		rows = append(rows, []string{
			p.Title,
			strings.Join(p.Authors, ", "),
			p.Venue,
			p.Year(),
			strings.Join(p.Tags, ", "),
			p.Citekey,
			p.URL,
			p.PDFPath,
			p.NotePath,
			p.Abstract,
		})
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing spreadsheet: %w", err)
	}
	return nil
}
