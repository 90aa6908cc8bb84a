// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"path/filepath"
	"strings"

	"github.com/pdiddy/paperdesk/pkg/types"
)

// Layout maps note-facing relative paths to files on disk. Relative paths
// are what notes record (joined with the configured separator); OS paths
// are those same paths resolved under Root.
type Layout struct {
	cfg types.LocationConfig
}

// NewLayout returns the layout for cfg.
func NewLayout(cfg types.LocationConfig) Layout {
	return Layout{cfg: cfg}
}

// Rel joins dir and name with the configured separator.
func (l Layout) Rel(dir, name string) string {
	sep := l.cfg.PathSeparator()
	dir = strings.TrimRight(dir, sep)
	if dir == "" {
		return name
	}
	return dir + sep + name
}

// NotePath returns the relative path of the note for filename.
func (l Layout) NotePath(filename string) string {
	return l.Rel(l.cfg.NotesDir, filename+".md")
}

// PDFPath returns the relative path of the PDF for filename.
func (l Layout) PDFPath(filename string) string {
	return l.Rel(l.cfg.PDFDir, filename+".pdf")
}

// OSPath resolves a relative path under Root. Absolute paths are returned
// cleaned and unchanged otherwise.
func (l Layout) OSPath(rel string) string {
	if sep := l.cfg.PathSeparator(); sep != string(filepath.Separator) {
		rel = strings.ReplaceAll(rel, sep, string(filepath.Separator))
	}
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}
	return filepath.Join(l.cfg.Root, rel)
}
