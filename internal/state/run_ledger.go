package state

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type RunKind string

const (
	RunKindBuild   RunKind = "build"
	RunKindCapture RunKind = "capture"
)

// Record is one finished run: an image build or a data capture.
type Record struct {
	ID            int64
	Kind          RunKind
	Version       string
	SourceVersion string
	ImageTag      string
	ArchivePath   string
	CreatedAt     time.Time
}

type RunLedger struct {
	db *DB
}

// NewRunLedger creates the ledger and ensures the table exists.
func NewRunLedger(ctx context.Context, database *DB) (*RunLedger, error) {
	if database == nil {
		return nil, nil
	}
	l := &RunLedger{db: database}
	if err := l.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

var defaultRunLedger *RunLedger

func DefaultRunLedger(ctx context.Context) (*RunLedger, error) {
	if defaultRunLedger == nil {
		db, err := OpenDefault(ctx)
		if err != nil {
			return nil, err
		}
		defaultRunLedger, err = NewRunLedger(ctx, db)
		if err != nil {
			return nil, err
		}
	}

	return defaultRunLedger, nil
}

func (l *RunLedger) ensureSchema(ctx context.Context) error {
	const createTable = `
CREATE TABLE IF NOT EXISTS runs (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	kind           TEXT NOT NULL,
	version        TEXT NOT NULL,
	source_version TEXT NOT NULL DEFAULT '',
	image_tag      TEXT NOT NULL DEFAULT '',
	archive_path   TEXT NOT NULL DEFAULT '',
	created_at     INTEGER NOT NULL
);
`
	_, err := l.db.Raw().ExecContext(ctx, createTable)
	if err != nil {
		return fmt.Errorf("run_ledger: ensure schema: %w", err)
	}
	return nil
}

// RecordBuild stores a finished image build. archivePath is empty unless the
// build also exported a data archive.
func (l *RunLedger) RecordBuild(ctx context.Context, version, sourceVersion, imageTag, archivePath string) error {
	const stmt = `
INSERT INTO runs (kind, version, source_version, image_tag, archive_path, created_at)
VALUES (?, ?, ?, ?, ?, strftime('%s','now'));
`
	if _, err := l.db.Raw().ExecContext(ctx, stmt, RunKindBuild, version, sourceVersion, imageTag, archivePath); err != nil {
		return fmt.Errorf("run_ledger: record build: %w", err)
	}
	return nil
}

// RecordCapture stores a finished data capture and the archive it produced.
func (l *RunLedger) RecordCapture(ctx context.Context, version, archivePath string) error {
	const stmt = `
INSERT INTO runs (kind, version, archive_path, created_at)
VALUES (?, ?, ?, strftime('%s','now'));
`
	if _, err := l.db.Raw().ExecContext(ctx, stmt, RunKindCapture, version, archivePath); err != nil {
		return fmt.Errorf("run_ledger: record capture: %w", err)
	}
	return nil
}

// List returns all recorded runs, newest first.
func (l *RunLedger) List(ctx context.Context) ([]Record, error) {
	const q = `
SELECT id, kind, version, source_version, image_tag, archive_path, created_at
FROM runs
ORDER BY created_at DESC, id DESC;
`
	rows, err := l.db.Raw().QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("run_ledger: list: %w", err)
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		var rec Record
		var createdAtUnix int64
		if err := rows.Scan(&rec.ID, &rec.Kind, &rec.Version, &rec.SourceVersion, &rec.ImageTag, &rec.ArchivePath, &createdAtUnix); err != nil {
			return nil, fmt.Errorf("run_ledger: scan: %w", err)
		}
		rec.CreatedAt = time.Unix(createdAtUnix, 0).UTC()
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("run_ledger: rows: %w", err)
	}

	return out, nil
}

// LatestBuild returns the most recent build record for the given version.
// found == false means no build has been recorded for it.
func (l *RunLedger) LatestBuild(ctx context.Context, version string) (Record, bool, error) {
	const q = `
SELECT id, kind, version, source_version, image_tag, archive_path, created_at
FROM runs
WHERE kind = ? AND version = ?
ORDER BY created_at DESC, id DESC
LIMIT 1;
`
	row := l.db.Raw().QueryRowContext(ctx, q, RunKindBuild, version)

	var rec Record
	var createdAtUnix int64
	err := row.Scan(&rec.ID, &rec.Kind, &rec.Version, &rec.SourceVersion, &rec.ImageTag, &rec.ArchivePath, &createdAtUnix)
	if err != nil {
		if err == sql.ErrNoRows {
			return Record{}, false, nil
		}
		return Record{}, false, fmt.Errorf("run_ledger: latest build: %w", err)
	}
	rec.CreatedAt = time.Unix(createdAtUnix, 0).UTC()

	return rec, true, nil
}
