// Package store is the simulated backing store for the list: a sqlite
// database of records that materializes rows lazily and serves them through
// the provider's Executor contract, optionally behind an artificial delay.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Record is the payload the store produces for one list index.
type Record struct {
	Index     int
	Title     string
	Detail    string
	CreatedAt time.Time
}

type Repository struct {
	db *sql.DB
}

func NewRepository(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Repository) Init(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS records (
  idx INTEGER PRIMARY KEY,
  title TEXT NOT NULL,
  detail TEXT NOT NULL,
  created_at TEXT NOT NULL
);
`
	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// FetchItem implements list.Executor. A fetch for an index that has not been
// materialized yet generates a deterministic record, persists it and returns
// it, so the store behaves like an endless table without pre-seeding.
func (r *Repository) FetchItem(ctx context.Context, index int) (Record, error) {
	if index < 0 {
		return Record{}, fmt.Errorf("fetch record: negative index %d", index)
	}

	rec, err := r.lookup(ctx, index)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("fetch record %d: %w", index, err)
	}

	rec = generateRecord(index, time.Now().UTC())
	if err := r.insert(ctx, rec); err != nil {
		return Record{}, fmt.Errorf("materialize record %d: %w", index, err)
	}
	return rec, nil
}

func (r *Repository) lookup(ctx context.Context, index int) (Record, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT idx, title, detail, created_at
FROM records
WHERE idx = ?
`, index)

	var rec Record
	var createdAt string
	if err := row.Scan(&rec.Index, &rec.Title, &rec.Detail, &createdAt); err != nil {
		return Record{}, err
	}

	parsed, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Record{}, fmt.Errorf("parse record created_at %q: %w", createdAt, err)
	}
	rec.CreatedAt = parsed
	return rec, nil
}

func (r *Repository) insert(ctx context.Context, rec Record) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO records (idx, title, detail, created_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(idx) DO NOTHING
`,
		rec.Index,
		rec.Title,
		rec.Detail,
		rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

var (
	recordAdjectives = []string{
		"quiet", "amber", "late", "brisk", "hollow", "plain",
		"stray", "minor", "early", "still", "worn", "keen",
	}
	recordSubjects = []string{
		"harbor report", "field note", "ledger entry", "survey line",
		"dispatch", "transcript", "inventory sheet", "signal log",
	}
)

func generateRecord(index int, now time.Time) Record {
	adj := recordAdjectives[index%len(recordAdjectives)]
	subj := recordSubjects[index%len(recordSubjects)]
	return Record{
		Index:     index,
		Title:     fmt.Sprintf("Record %d", index+1),
		Detail:    fmt.Sprintf("A %s %s filed under position %d.", adj, subj, index),
		CreatedAt: now,
	}
}
