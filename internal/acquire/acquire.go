// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package acquire turns a fetched paper into files: the PDF, a rendered
// note and a BibTeX entry. Every write is idempotent: an existing PDF is
// not downloaded again, an existing note is never overwritten and a BibTeX
// entry already in the file is not added twice.
package acquire

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/pdiddy/paperdesk/internal/httputil"
	"github.com/pdiddy/paperdesk/internal/logging"
	"github.com/pdiddy/paperdesk/internal/render"
	"github.com/pdiddy/paperdesk/pkg/types"
)

// Result describes what Process did for one paper.
type Result struct {
	// Paper is the input paper with PDFPath and NotePath filled in.
	Paper types.Paper

	// NoteFile and PDFFile are the on-disk locations. PDFFile is empty when
	// the paper has no PDF.
	NoteFile string
	PDFFile  string

	// Stages lists each stage in the order it ran.
	Stages []StageResult
}

// Outcome returns how stage ended, or "" if it did not run.
func (r Result) Outcome(stage Stage) Outcome {
	for _, s := range r.Stages {
		if s.Stage == stage {
			return s.Outcome
		}
	}
	return ""
}

// NoteCreated reports whether Process wrote a new note.
func (r Result) NoteCreated() bool {
	return r.Outcome(StageWriting) == OutcomeDone
}

func (r *Result) record(stage Stage, outcome Outcome, detail string) {
	r.Stages = append(r.Stages, StageResult{Stage: stage, Outcome: outcome, Detail: detail})
}

// Writer writes the artifacts for a paper under the configured locations.
type Writer struct {
	cfg    types.WriterConfig
	layout Layout
	client *httputil.Client

	// Opener shows existing notes and, when enabled, downloaded PDFs.
	Opener Opener
	// Log receives structured diagnostics.
	Log *slog.Logger
	// Out receives one progress line per artifact.
	Out io.Writer
	// Now stamps rendered notes.
	Now func() time.Time
}

// NewWriter returns a Writer for cfg that downloads through client.
func NewWriter(cfg types.WriterConfig, client *httputil.Client) *Writer {
	return &Writer{
		cfg:    cfg,
		layout: NewLayout(cfg.LocationConfig),
		client: client,
		Opener: SystemOpener{},
		Log:    logging.Discard(),
		Out:    io.Discard,
		Now:    time.Now,
	}
}

// Layout returns the writer's path layout.
func (w *Writer) Layout() Layout { return w.layout }

// Validate checks that every location paper needs is configured.
func (w *Writer) Validate(paper types.Paper) error {
	settings := []string{"notes_dir", w.cfg.NotesDir}
	if paper.HasPDFURL() {
		settings = append(settings, "pdf_dir", w.cfg.PDFDir)
	}
	if w.cfg.SaveBibTeX && paper.HasBibTeX() {
		settings = append(settings, "bib_file", w.cfg.BibFile)
	}
	return types.Require(settings...)
}

// Process writes the PDF, note and BibTeX entry for paper, in that order.
// Configuration is validated before anything is written. On error the
// returned Result holds the stages completed so far.
func (w *Writer) Process(ctx context.Context, paper types.Paper) (Result, error) {
	res := Result{Paper: paper}
	if err := w.Validate(paper); err != nil {
		return res, err
	}

	filename := SanitizeFilename(paper.Title)
	log := w.Log.With("paper", filename)

	// PDF.
	if paper.HasPDFURL() {
		updated, skipped, err := w.DownloadPDF(ctx, paper, filename)
		if err != nil {
			res.record(StageDownloading, OutcomeFailed, err.Error())
			return res, err
		}
		paper = updated
		res.PDFFile = w.layout.OSPath(paper.PDFPath)
		if skipped {
			res.record(StageDownloading, OutcomeSkipped, "already exists")
		} else {
			res.record(StageDownloading, OutcomeDone, paper.PDFPath)
		}
	} else {
		res.record(StageDownloading, OutcomeNotNeeded, "no PDF URL")
	}

	// Note.
	paper.NotePath = w.layout.NotePath(filename)
	res.NoteFile = w.layout.OSPath(paper.NotePath)

	tmpl, err := LoadTemplate(w.cfg.LocationConfig)
	if err != nil {
		res.record(StageRendering, OutcomeFailed, err.Error())
		return res, err
	}
	content := render.Render(tmpl, paper, w.Now())
	res.record(StageRendering, OutcomeDone, "")

	created, err := w.CreateNote(res.NoteFile, content)
	if err != nil {
		res.record(StageWriting, OutcomeFailed, err.Error())
		return res, err
	}
	if created {
		fmt.Fprintf(w.Out, "note:    %s\n", paper.NotePath)
		res.record(StageWriting, OutcomeDone, paper.NotePath)
	} else {
		fmt.Fprintf(w.Out, "skipped: %s (note already exists)\n", paper.NotePath)
		res.record(StageWriting, OutcomeSkipped, "already exists")
		if err := w.Opener.Open(res.NoteFile); err != nil {
			log.Warn("opening existing note", "path", res.NoteFile, "error", err)
		}
	}

	// BibTeX.
	switch {
	case !w.cfg.SaveBibTeX:
		res.record(StageAppendingBib, OutcomeNotNeeded, "disabled")
	case !paper.HasBibTeX():
		res.record(StageAppendingBib, OutcomeNotNeeded, "no entry")
	default:
		bibPath := w.layout.OSPath(w.cfg.BibFile)
		added, err := AppendBibTeX(bibPath, paper.BibTeX)
		if err != nil {
			res.record(StageAppendingBib, OutcomeFailed, err.Error())
			return res, err
		}
		if added {
			fmt.Fprintf(w.Out, "bibtex:  %s\n", w.cfg.BibFile)
			res.record(StageAppendingBib, OutcomeDone, w.cfg.BibFile)
		} else {
			res.record(StageAppendingBib, OutcomeSkipped, "already present")
		}
	}

	if w.cfg.OpenPDF && res.PDFFile != "" {
		if err := w.Opener.Open(res.PDFFile); err != nil {
			log.Warn("opening PDF", "path", res.PDFFile, "error", err)
		}
	}

	res.Paper = paper
	res.record(StageDone, OutcomeDone, "")
	return res, nil
}

// DownloadPDF saves paper.PDFURL as <pdf_dir>/<filename>.pdf and returns a
// copy of paper with PDFPath set. An existing file is kept and no request
// is made; skipped reports that case.
func (w *Writer) DownloadPDF(ctx context.Context, paper types.Paper, filename string) (updated types.Paper, skipped bool, err error) {
	if err := types.Require("pdf_dir", w.cfg.PDFDir); err != nil {
		return paper, false, err
	}
	rel := w.layout.PDFPath(filename)
	dest := w.layout.OSPath(rel)
	paper.PDFPath = rel

	if fileExists(dest) {
		fmt.Fprintf(w.Out, "skipped: %s (already exists)\n", rel)
		return paper, true, nil
	}

	fmt.Fprintf(w.Out, "downloading: %s\n", rel)
	resp, err := w.client.Get(ctx, paper.PDFURL, "application/pdf")
	if err != nil {
		return paper, false, fmt.Errorf("downloading %s: %w", paper.PDFURL, err)
	}
	defer resp.Body.Close()

	if err := writeAtomic(dest, resp.Body); err != nil {
		return paper, false, fmt.Errorf("saving %s: %w", rel, err)
	}

	if n, err := pageCount(dest); err != nil {
		w.Log.Warn("downloaded file is not a readable PDF", "path", dest, "error", err)
	} else {
		w.Log.Info("downloaded PDF", "path", dest, "pages", n)
	}
	return paper, false, nil
}

// CreateNote writes content to path unless a file already exists there.
// It reports whether the note was created.
func (w *Writer) CreateNote(path, content string) (bool, error) {
	return createExclusive(path, content)
}

// LoadTemplate returns the text of cfg's template file, or the built-in
// default when no template file is set.
func LoadTemplate(cfg types.LocationConfig) (string, error) {
	if cfg.TemplateFile == "" {
		return render.DefaultTemplate, nil
	}
	data, err := os.ReadFile(NewLayout(cfg).OSPath(cfg.TemplateFile))
	if err != nil {
		return "", fmt.Errorf("reading template: %w", err)
	}
	return string(data), nil
}
