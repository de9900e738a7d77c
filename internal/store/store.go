// Package store persists converted annotation timelines in SQLite so
// downstream consumers can query documents without re-parsing XML.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"talkline/internal/annotations"
	"talkline/internal/config"
	"talkline/internal/timeline"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; existing databases must then be recreated.
const schemaVersion = 1

var (
	// ErrSchemaMismatch indicates the database was created by a different
	// talkline version.
	ErrSchemaMismatch = errors.New("schema version mismatch")
	// ErrNotFound indicates the requested document is not stored.
	ErrNotFound = errors.New("document not found")
)

// Store manages timeline persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the document database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.DatabasePath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin schema tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
		return tx.Commit()
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to recreate)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

// SaveTimeline stores a timeline, replacing any previous conversion of the
// same source.
func (s *Store) SaveTimeline(ctx context.Context, tl *timeline.Timeline, sourcePath, runID string) (*Document, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin save tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE source_id = ?", tl.SourceID); err != nil {
		return nil, fmt.Errorf("replace document: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO documents (
            source_id, source_path, run_id, per_sec,
            speaker_count, segment_count, max_end_tick,
            created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tl.SourceID,
		sourcePath,
		nullableString(runID),
		tl.PerSec,
		len(tl.Speakers),
		len(tl.Segments),
		tl.MaxEnd(),
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert document: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	for i, speaker := range tl.Speakers {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO speakers (document_id, position, speaker_id, gender, display_name)
             VALUES (?, ?, ?, ?, ?)`,
			id, i, speaker.ID, speaker.Gender, speaker.DisplayName,
		); err != nil {
			return nil, fmt.Errorf("insert speaker %d: %w", i, err)
		}
	}

	for i, segment := range tl.Segments {
		activeJSON, err := json.Marshal(segment.Active)
		if err != nil {
			return nil, fmt.Errorf("marshal occupancy vector: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO segments (document_id, position, start_tick, end_tick, active_json)
             VALUES (?, ?, ?, ?, ?)`,
			id, i, segment.Start, segment.End, string(activeJSON),
		); err != nil {
			return nil, fmt.Errorf("insert segment %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit save: %w", err)
	}
	return s.GetBySourceID(ctx, tl.SourceID)
}

// GetBySourceID fetches a document row by its source identifier.
func (s *Store) GetBySourceID(ctx context.Context, sourceID string) (*Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, source_id, source_path, run_id, per_sec,
                speaker_count, segment_count, max_end_tick, created_at, updated_at
         FROM documents WHERE source_id = ?`, sourceID)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, sourceID)
	}
	return doc, err
}

// ListDocuments returns all stored documents ordered by source identifier.
func (s *Store) ListDocuments(ctx context.Context) ([]*Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source_id, source_path, run_id, per_sec,
                speaker_count, segment_count, max_end_tick, created_at, updated_at
         FROM documents ORDER BY source_id`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []*Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// LoadTimeline reconstructs the stored timeline for a source.
func (s *Store) LoadTimeline(ctx context.Context, sourceID string) (*timeline.Timeline, error) {
	doc, err := s.GetBySourceID(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	speakerRows, err := s.db.QueryContext(ctx,
		`SELECT speaker_id, gender, display_name FROM speakers
         WHERE document_id = ? ORDER BY position`, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("load speakers: %w", err)
	}
	defer speakerRows.Close()

	var speakers []annotations.Speaker
	for speakerRows.Next() {
		var sp annotations.Speaker
		if err := speakerRows.Scan(&sp.ID, &sp.Gender, &sp.DisplayName); err != nil {
			return nil, fmt.Errorf("scan speaker: %w", err)
		}
		speakers = append(speakers, sp)
	}
	if err := speakerRows.Err(); err != nil {
		return nil, err
	}

	segmentRows, err := s.db.QueryContext(ctx,
		`SELECT start_tick, end_tick, active_json FROM segments
         WHERE document_id = ? ORDER BY position`, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("load segments: %w", err)
	}
	defer segmentRows.Close()

	var segments []timeline.Segment
	for segmentRows.Next() {
		var seg timeline.Segment
		var activeJSON string
		if err := segmentRows.Scan(&seg.Start, &seg.End, &activeJSON); err != nil {
			return nil, fmt.Errorf("scan segment: %w", err)
		}
		if err := json.Unmarshal([]byte(activeJSON), &seg.Active); err != nil {
			return nil, fmt.Errorf("unmarshal occupancy vector: %w", err)
		}
		segments = append(segments, seg)
	}
	if err := segmentRows.Err(); err != nil {
		return nil, err
	}

	return &timeline.Timeline{
		SourceID: doc.SourceID,
		PerSec:   doc.PerSec,
		Speakers: speakers,
		Segments: segments,
	}, nil
}

// Delete removes a document and its speakers and segments.
func (s *Store) Delete(ctx context.Context, sourceID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE source_id = ?", sourceID)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, sourceID)
	}
	return nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
