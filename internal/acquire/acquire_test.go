// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paperdesk/internal/httputil"
	"github.com/pdiddy/paperdesk/internal/notes"
	"github.com/pdiddy/paperdesk/pkg/types"
)

const fakePDFContent = "%PDF-1.4 fake"

var fixedNow = time.Date(2024, time.March, 5, 9, 30, 0, 0, time.UTC)

// pdfServer serves fakePDFContent under /pdf/ and counts requests.
type pdfServer struct {
	*httptest.Server
	hits atomic.Int32
}

func newPDFServer(t *testing.T) *pdfServer {
	t.Helper()
	s := &pdfServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		if !strings.HasPrefix(r.URL.Path, "/pdf/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		fmt.Fprint(w, fakePDFContent)
	}))
	t.Cleanup(s.Close)
	return s
}

type recordingOpener struct {
	opened []string
}

func (o *recordingOpener) Open(path string) error {
	o.opened = append(o.opened, path)
	return nil
}

func testWriterConfig(root string) types.WriterConfig {
	return types.WriterConfig{
		LocationConfig: types.LocationConfig{
			Root:      root,
			NotesDir:  "Notes",
			PDFDir:    "Papers",
			BibFile:   "refs.bib",
			Separator: "/",
		},
		SaveBibTeX: true,
	}
}

func testWriter(t *testing.T, cfg types.WriterConfig, ts *httptest.Server) (*Writer, *recordingOpener, *bytes.Buffer) {
	t.Helper()
	var hc *http.Client
	if ts != nil {
		hc = ts.Client()
	}
	client := httputil.New(types.HTTPConfig{UserAgent: "paperdesk-test/0.1"}, httputil.WithHTTPClient(hc))
	w := NewWriter(cfg, client)
	opener := &recordingOpener{}
	var out bytes.Buffer
	w.Opener = opener
	w.Out = &out
	w.Now = func() time.Time { return fixedNow }
	return w, opener, &out
}

func testPaper(pdfURL string) types.Paper {
	return types.Paper{
		Title:           "GPT-4: Technical Report!",
		Authors:         []string{"OpenAI"},
		URL:             "https://arxiv.org/abs/2303.08774",
		PDFURL:          pdfURL,
		PublicationDate: "2023-03-15",
		Citekey:         "openai2023gpt4",
		BibTeX:          "@misc{openai2023gpt4,\n  title = {GPT-4 Technical Report}\n}",
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"GPT-4: Technical Report!", "GPT4 Technical Report"},
		{"Attention Is All You Need", "Attention Is All You Need"},
		{"Über Graphen/Netze", "ber GraphenNetze"},
		{": Leading colon", "Leading colon"},
		{"!!!", "Untitled"},
		{"", "Untitled"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.title))
		})
	}
}

func TestLayout(t *testing.T) {
	root := t.TempDir()

	slash := NewLayout(types.LocationConfig{Root: root, NotesDir: "Notes/", PDFDir: "Papers/PDF", Separator: "/"})
	assert.Equal(t, "Notes/A.md", slash.NotePath("A"))
	assert.Equal(t, "Papers/PDF/A.pdf", slash.PDFPath("A"))
	assert.Equal(t, filepath.Join(root, "Papers", "PDF", "A.pdf"), slash.OSPath(slash.PDFPath("A")))

	backslash := NewLayout(types.LocationConfig{Root: root, PDFDir: `Papers\PDF`, Separator: `\`})
	assert.Equal(t, `Papers\PDF\A.pdf`, backslash.PDFPath("A"))
	if filepath.Separator == '/' {
		assert.Equal(t, filepath.Join(root, "Papers", "PDF", "A.pdf"), backslash.OSPath(backslash.PDFPath("A")))
	}

	abs := filepath.Join(root, "elsewhere")
	assert.Equal(t, filepath.Join(abs, "A.md"), slash.OSPath(filepath.Join(abs, "A.md")))
}

func TestAppendBibTeX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bib", "refs.bib")
	first := "@misc{a,\n  title = {A}\n}"
	second := "@misc{b,\n  title = {B}\n}"

	added, err := AppendBibTeX(path, "\n"+first+"\n\n")
	require.NoError(t, err)
	assert.True(t, added, "missing file counts as empty")

	added, err = AppendBibTeX(path, second)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = AppendBibTeX(path, first)
	require.NoError(t, err)
	assert.False(t, added, "entry already present")

	added, err = AppendBibTeX(path, "   ")
	require.NoError(t, err)
	assert.False(t, added)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, second+"\n\n"+first+"\n", string(data), "new entries go first")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestProcessWritesAllArtifacts(t *testing.T) {
	ts := newPDFServer(t)
	root := t.TempDir()
	w, opener, out := testWriter(t, testWriterConfig(root), ts.Server)

	res, err := w.Process(context.Background(), testPaper(ts.URL+"/pdf/2303.08774"))
	require.NoError(t, err)

	assert.Equal(t, "Papers/GPT4 Technical Report.pdf", res.Paper.PDFPath)
	assert.Equal(t, "Notes/GPT4 Technical Report.md", res.Paper.NotePath)
	assert.Equal(t, filepath.Join(root, "Papers", "GPT4 Technical Report.pdf"), res.PDFFile)
	assert.Equal(t, filepath.Join(root, "Notes", "GPT4 Technical Report.md"), res.NoteFile)

	pdf, err := os.ReadFile(res.PDFFile)
	require.NoError(t, err)
	assert.Equal(t, fakePDFContent, string(pdf))

	note, err := os.ReadFile(res.NoteFile)
	require.NoError(t, err)
	assert.Contains(t, string(note), "pdf: |-\n  [[Papers/GPT4 Technical Report.pdf]]\n")
	assert.Contains(t, string(note), "citekey: |-\n  openai2023gpt4\n")
	assert.Contains(t, string(note), `created: "2024-03-05 09:30"`)

	bib, err := os.ReadFile(filepath.Join(root, "refs.bib"))
	require.NoError(t, err)
	assert.Contains(t, string(bib), "@misc{openai2023gpt4,")

	assert.Equal(t, OutcomeDone, res.Outcome(StageDownloading))
	assert.Equal(t, OutcomeDone, res.Outcome(StageRendering))
	assert.Equal(t, OutcomeDone, res.Outcome(StageWriting))
	assert.Equal(t, OutcomeDone, res.Outcome(StageAppendingBib))
	assert.Equal(t, OutcomeDone, res.Outcome(StageDone))
	assert.True(t, res.NoteCreated())
	assert.Empty(t, opener.opened)
	assert.Contains(t, out.String(), "downloading: Papers/GPT4 Technical Report.pdf")
	assert.Equal(t, int32(1), ts.hits.Load())
}

func TestProcessNoteReadsBack(t *testing.T) {
	tests := []struct {
		name      string
		separator string
		wantPDF   string
		wantNote  string
	}{
		{"slash", "/", "Papers/Why Attention A Study Part 2.pdf", "Notes/Why Attention A Study Part 2.md"},
		{"backslash", `\`, `Papers\Why Attention A Study Part 2.pdf`, `Notes\Why Attention A Study Part 2.md`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newPDFServer(t)
			root := t.TempDir()
			cfg := testWriterConfig(root)
			cfg.Separator = tt.separator
			w, _, _ := testWriter(t, cfg, ts.Server)

			paper := types.Paper{
				Title:           `Why "Attention": A Study, Part #2`,
				Authors:         []string{"Ada Lovelace", "Alan Turing"},
				Abstract:        "Quotes \"here\", a path C:\\tmp and # not a comment.",
				URL:             `https://example.org/a"b\c?q=1#frag`,
				PDFURL:          ts.URL + "/pdf/why",
				Venue:           `Proc. "Things": 2024 #3 \x`,
				PublicationDate: "2024-01-02",
				Tags:            []string{"graphs: theory", "#ml", `C:\data`},
				Citekey:         "lovelace2024why",
			}

			res, err := w.Process(context.Background(), paper)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPDF, res.Paper.PDFPath)
			assert.Equal(t, tt.wantNote, res.Paper.NotePath)
			assert.FileExists(t, filepath.Join(root, "Papers", "Why Attention A Study Part 2.pdf"))

			note, err := os.ReadFile(res.NoteFile)
			require.NoError(t, err)

			got, err := notes.ReadPaperFromNote(string(note), res.Paper.NotePath)
			require.NoError(t, err, string(note))
			assert.Equal(t, paper.Title, got.Title)
			assert.Equal(t, paper.Authors, got.Authors)
			assert.Equal(t, paper.Abstract, got.Abstract)
			assert.Equal(t, paper.URL, got.URL)
			assert.Equal(t, paper.Venue, got.Venue)
			assert.Equal(t, paper.PublicationDate, got.PublicationDate)
			assert.Equal(t, paper.Tags, got.Tags)
			assert.Equal(t, paper.Citekey, got.Citekey)
			assert.Equal(t, tt.wantPDF, got.PDFPath)
		})
	}
}

func TestProcessIsIdempotent(t *testing.T) {
	ts := newPDFServer(t)
	root := t.TempDir()
	w, opener, _ := testWriter(t, testWriterConfig(root), ts.Server)
	paper := testPaper(ts.URL + "/pdf/2303.08774")

	first, err := w.Process(context.Background(), paper)
	require.NoError(t, err)

	// Edit the note; a second run must not touch it.
	require.NoError(t, os.WriteFile(first.NoteFile, []byte("my notes"), 0o644))
	bibBefore, err := os.ReadFile(filepath.Join(root, "refs.bib"))
	require.NoError(t, err)

	second, err := w.Process(context.Background(), paper)
	require.NoError(t, err)

	assert.Equal(t, int32(1), ts.hits.Load(), "existing PDF is not downloaded again")
	assert.Equal(t, OutcomeSkipped, second.Outcome(StageDownloading))
	assert.Equal(t, OutcomeSkipped, second.Outcome(StageWriting))
	assert.Equal(t, OutcomeSkipped, second.Outcome(StageAppendingBib))
	assert.False(t, second.NoteCreated())
	assert.Equal(t, first.Paper.PDFPath, second.Paper.PDFPath)

	note, err := os.ReadFile(first.NoteFile)
	require.NoError(t, err)
	assert.Equal(t, "my notes", string(note))

	bibAfter, err := os.ReadFile(filepath.Join(root, "refs.bib"))
	require.NoError(t, err)
	assert.Equal(t, string(bibBefore), string(bibAfter))

	assert.Equal(t, []string{first.NoteFile}, opener.opened, "existing note is opened instead")
}

func TestProcessMissingConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*types.WriterConfig)
		paper   func(string) types.Paper
		setting string
	}{
		{
			name:    "notes dir",
			mutate:  func(c *types.WriterConfig) { c.NotesDir = "" },
			paper:   func(u string) types.Paper { return types.Paper{Title: "T"} },
			setting: "notes_dir",
		},
		{
			name:    "pdf dir with a PDF URL",
			mutate:  func(c *types.WriterConfig) { c.PDFDir = "" },
			paper:   testPaper,
			setting: "pdf_dir",
		},
		{
			name:    "bib file with an entry to save",
			mutate:  func(c *types.WriterConfig) { c.BibFile = "" },
			paper:   testPaper,
			setting: "bib_file",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newPDFServer(t)
			root := t.TempDir()
			cfg := testWriterConfig(root)
			tt.mutate(&cfg)
			w, _, _ := testWriter(t, cfg, ts.Server)

			_, err := w.Process(context.Background(), tt.paper(ts.URL+"/pdf/x"))
			require.Error(t, err)
			assert.True(t, types.IsMissingConfiguration(err))
			assert.Contains(t, err.Error(), tt.setting)

			entries, err := os.ReadDir(root)
			require.NoError(t, err)
			assert.Empty(t, entries, "nothing written")
			assert.Equal(t, int32(0), ts.hits.Load())
		})
	}
}

func TestProcessOptionalSettingsNotRequired(t *testing.T) {
	root := t.TempDir()
	cfg := testWriterConfig(root)
	cfg.PDFDir = ""
	cfg.BibFile = ""
	w, _, _ := testWriter(t, cfg, nil)

	paper := types.Paper{Title: "Graphs", Authors: []string{"Ada Lovelace"}, BibTeX: "@misc{g,\n}"}
	cfg.SaveBibTeX = false

	w2, _, _ := testWriter(t, cfg, nil)
	res, err := w2.Process(context.Background(), paper)
	require.NoError(t, err)
	assert.Equal(t, OutcomeNotNeeded, res.Outcome(StageDownloading))
	assert.Equal(t, OutcomeNotNeeded, res.Outcome(StageAppendingBib))
	assert.Empty(t, res.PDFFile)

	note, err := os.ReadFile(res.NoteFile)
	require.NoError(t, err)
	got, err := notes.ReadPaperFromNote(string(note), res.Paper.NotePath)
	require.NoError(t, err)
	assert.Empty(t, got.PDFPath)

	// With saving enabled the bib file becomes required.
	_, err = w.Process(context.Background(), paper)
	assert.True(t, types.IsMissingConfiguration(err))
}

func TestProcessDownloadFailure(t *testing.T) {
	ts := newPDFServer(t)
	root := t.TempDir()
	w, _, _ := testWriter(t, testWriterConfig(root), ts.Server)

	res, err := w.Process(context.Background(), testPaper(ts.URL+"/missing.pdf"))
	require.Error(t, err)
	assert.Equal(t, OutcomeFailed, res.Outcome(StageDownloading))
	assert.Empty(t, res.Outcome(StageWriting))

	_, statErr := os.Stat(filepath.Join(root, "Notes"))
	assert.True(t, os.IsNotExist(statErr), "no note written after a failed download")
	assert.NoFileExists(t, filepath.Join(root, "Papers", "GPT4 Technical Report.pdf"))
}

func TestProcessTemplateFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "paper.tmpl"), []byte("{{title}} / {{citekey}} / {{date:YYYY}}"), 0o644))

	cfg := testWriterConfig(root)
	cfg.TemplateFile = "paper.tmpl"
	cfg.SaveBibTeX = false
	w, _, _ := testWriter(t, cfg, nil)

	res, err := w.Process(context.Background(), types.Paper{Title: "Graphs"})
	require.NoError(t, err)
	note, err := os.ReadFile(res.NoteFile)
	require.NoError(t, err)
	assert.Equal(t, "Graphs / {{citekey}} / 2024", string(note))

	cfg.TemplateFile = "missing.tmpl"
	w, _, _ = testWriter(t, cfg, nil)
	res, err = w.Process(context.Background(), types.Paper{Title: "Other"})
	require.Error(t, err)
	assert.Equal(t, OutcomeFailed, res.Outcome(StageRendering))
}

func TestProcessOpensPDFWhenEnabled(t *testing.T) {
	ts := newPDFServer(t)
	root := t.TempDir()
	cfg := testWriterConfig(root)
	cfg.OpenPDF = true
	w, opener, _ := testWriter(t, cfg, ts.Server)

	res, err := w.Process(context.Background(), testPaper(ts.URL+"/pdf/1"))
	require.NoError(t, err)
	assert.Equal(t, []string{res.PDFFile}, opener.opened)
}

func TestPageCountRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.pdf")
	require.NoError(t, os.WriteFile(path, []byte(fakePDFContent), 0o644))

	_, err := pageCount(path)
	assert.Error(t, err)
}
