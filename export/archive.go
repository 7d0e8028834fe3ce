package export

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pevans/articulos/article"
)

// ErrRunNotFound is returned when a run ID is not in the archive.
var ErrRunNotFound = errors.New("run not found")

// Archive keeps every scrape run in a SQLite database. Runs are only ever
// appended; the same article scraped twice is stored twice.
type Archive struct {
	db *sql.DB
}

// Run describes one archived scrape.
type Run struct {
	ID           uuid.UUID
	Source       string
	StartedAt    time.Time
	FinishedAt   time.Time
	ArticleCount int
}

// OpenArchive opens (creating if needed) the archive at dsn.
func OpenArchive(dsn string) (*Archive, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	archive := &Archive{db: db}
	if err := archive.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return archive, nil
}

// initSchema creates the archive tables if they don't exist.
func (a *Archive) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		article_count INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS articles (
		run_id TEXT NOT NULL REFERENCES runs(run_id),
		position INTEGER NOT NULL,
		titulo TEXT NOT NULL,
		texto TEXT NOT NULL,
		enlace TEXT,
		avatar TEXT,
		fecha TEXT NOT NULL,
		claps TEXT NOT NULL,
		comentarios TEXT NOT NULL,
		autor_nombre TEXT NOT NULL,
		autor_apellido TEXT NOT NULL,
		autor_avatar TEXT,
		origin TEXT NOT NULL,
		PRIMARY KEY (run_id, position)
	);
	`

	_, err := a.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (a *Archive) Close() error {
	return a.db.Close()
}

// SaveRun stores a run and its records, in order, in a single transaction.
func (a *Archive) SaveRun(ctx context.Context, run Run, records []article.Record) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO runs (run_id, source, started_at, finished_at, article_count) VALUES (?, ?, ?, ?, ?)",
		run.ID.String(),
		run.Source,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
		len(records),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO articles (
			run_id, position, titulo, texto, enlace, avatar, fecha, claps,
			comentarios, autor_nombre, autor_apellido, autor_avatar, origin
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		_, err := stmt.ExecContext(ctx,
			run.ID.String(), i,
			r.Title, r.Excerpt, r.Link, r.Avatar,
			r.PublishDate, r.Claps, r.Comments,
			r.Author.FirstName, r.Author.LastName, r.Author.Avatar,
			string(r.Origin),
		)
		if err != nil {
			return fmt.Errorf("failed to insert article %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// GetRun retrieves a run by its ID.
func (a *Archive) GetRun(ctx context.Context, id uuid.UUID) (*Run, error) {
	row := a.db.QueryRowContext(ctx,
		"SELECT run_id, source, started_at, finished_at, article_count FROM runs WHERE run_id = ?",
		id.String(),
	)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}
	return run, nil
}

// ListRuns returns every archived run, oldest first.
func (a *Archive) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := a.db.QueryContext(ctx,
		"SELECT run_id, source, started_at, finished_at, article_count FROM runs ORDER BY started_at",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// ListRecords returns the records of a run in their original order.
func (a *Archive) ListRecords(ctx context.Context, id uuid.UUID) ([]article.Record, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT titulo, texto, enlace, avatar, fecha, claps, comentarios,
			autor_nombre, autor_apellido, autor_avatar, origin
		FROM articles WHERE run_id = ? ORDER BY position`,
		id.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	records := []article.Record{}
	for rows.Next() {
		var r article.Record
		var link, avatar, authorAvatar sql.NullString
		var origin string

		err := rows.Scan(
			&r.Title, &r.Excerpt, &link, &avatar,
			&r.PublishDate, &r.Claps, &r.Comments,
			&r.Author.FirstName, &r.Author.LastName, &authorAvatar,
			&origin,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}

		r.Link = nullableString(link)
		r.Avatar = nullableString(avatar)
		r.Author.Avatar = nullableString(authorAvatar)
		r.Origin = article.Origin(origin)
		records = append(records, r)
	}
	return records, rows.Err()
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*Run, error) {
	var id, startedAt, finishedAt string
	var run Run

	if err := s.Scan(&id, &run.Source, &startedAt, &finishedAt, &run.ArticleCount); err != nil {
		return nil, err
	}

	var err error
	if run.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid run id %q: %w", id, err)
	}
	if run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
		return nil, fmt.Errorf("invalid started_at %q: %w", startedAt, err)
	}
	if run.FinishedAt, err = time.Parse(time.RFC3339Nano, finishedAt); err != nil {
		return nil, fmt.Errorf("invalid finished_at %q: %w", finishedAt, err)
	}

	return &run, nil
}

func nullableString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}
