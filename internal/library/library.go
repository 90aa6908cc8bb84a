// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library indexes the notes in a notes directory so they can be
// listed, searched and exported. The index lives in an in-memory SQLite
// database rebuilt on every run; the notes themselves stay the only
// persistent record.
package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paperdesk/internal/notes"
	"github.com/pdiddy/paperdesk/pkg/types"
)

const noteExt = ".md"

// searchColumns are matched by every search term.
var searchColumns = []string{"title", "authors", "abstract", "venue", "tags", "citekey"}

// Library is an in-memory index of paper notes.
type Library struct {
	db *sql.DB
}

// SkippedNote is a note that could not be indexed.
type SkippedNote struct {
	Path string
	Err  error
}

// IndexSummary holds counts from an Index run.
type IndexSummary struct {
	Indexed int
	Skipped []SkippedNote
}

// Total returns the number of notes seen.
func (s IndexSummary) Total() int {
	return s.Indexed + len(s.Skipped)
}

// Open creates an empty library.
func Open() (*Library, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	l := &Library{db: db}
	if err := l.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return l, nil
}

// Close releases the database.
func (l *Library) Close() error {
	return l.db.Close()
}

func (l *Library) createSchema() error {
	_, err := l.db.Exec(`CREATE TABLE papers (
		note_path TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		authors TEXT,
		abstract TEXT,
		venue TEXT,
		year TEXT,
		tags TEXT,
		citekey TEXT,
		record TEXT NOT NULL
	)`)
	return err
}

// Index reads every note under notesDir and adds it to the library. Notes
// the reader rejects are skipped and listed in the summary.
func (l *Library) Index(ctx context.Context, notesDir string) (IndexSummary, error) {
	var summary IndexSummary
	if _, err := os.Stat(notesDir); err != nil {
		return summary, fmt.Errorf("reading notes directory: %w", err)
	}

	err := filepath.WalkDir(notesDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != notesDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), noteExt) {
			return nil
		}

		rel, err := filepath.Rel(notesDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		data, err := os.ReadFile(path)
		if err != nil {
			summary.Skipped = append(summary.Skipped, SkippedNote{Path: rel, Err: err})
			return nil
		}
		paper, err := notes.ReadPaperFromNote(string(data), rel)
		if err != nil {
			summary.Skipped = append(summary.Skipped, SkippedNote{Path: rel, Err: err})
			return nil
		}
		if err := l.Add(ctx, paper); err != nil {
			return err
		}
		summary.Indexed++
		return nil
	})
	if err != nil {
		return summary, fmt.Errorf("indexing %s: %w", notesDir, err)
	}
	return summary, nil
}

// Add inserts paper, replacing any entry with the same note path.
func (l *Library) Add(ctx context.Context, paper types.Paper) error {
	record, err := json.Marshal(paper)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", paper.NotePath, err)
	}
	key := paper.NotePath
	if key == "" {
		key = paper.Title
	}

	query, args, err := sq.Insert("papers").
		Options("OR REPLACE").
		Columns("note_path", "title", "authors", "abstract", "venue", "year", "tags", "citekey", "record").
		Values(key, paper.Title, strings.Join(paper.Authors, ", "), paper.Abstract, paper.Venue,
			paper.PublicationDate, strings.Join(paper.Tags, ", "), paper.Citekey, string(record)).
		ToSql()
	if err != nil {
		return fmt.Errorf("building insert: %w", err)
	}
	if _, err := l.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting %s: %w", key, err)
	}
	return nil
}

// Search returns papers matching every whitespace-separated term of query
// in any searchable field, ordered by title. A blank query lists
// everything. limit <= 0 means no limit.
func (l *Library) Search(ctx context.Context, query string, limit int) ([]types.Paper, error) {
	where := sq.And{}
	for _, term := range strings.Fields(query) {
		pattern := "%" + escapeLike(term) + "%"
		match := sq.Or{}
		for _, col := range searchColumns {
			match = append(match, sq.Expr(col+` LIKE ? ESCAPE '\'`, pattern))
		}
		where = append(where, match)
	}
	return l.query(ctx, where, limit)
}

// All lists every indexed paper ordered by title.
func (l *Library) All(ctx context.Context) ([]types.Paper, error) {
	return l.query(ctx, sq.And{}, 0)
}

func (l *Library) query(ctx context.Context, where sq.And, limit int) ([]types.Paper, error) {
	builder := sq.Select("record").From("papers").OrderBy("title COLLATE NOCASE", "note_path")
	if len(where) > 0 {
		builder = builder.Where(where)
	}
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	var papers []types.Paper
	for rows.Next() {
		var record string
		if err := rows.Scan(&record); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		var p types.Paper
		if err := json.Unmarshal([]byte(record), &p); err != nil {
			return nil, fmt.Errorf("decoding record: %w", err)
		}
		papers = append(papers, p)
	}
	return papers, rows.Err()
}

// escapeLike escapes LIKE wildcards in a search term.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
