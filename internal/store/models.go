package store

import (
	"database/sql"
	"time"
)

// Document is one stored conversion of an annotation source.
type Document struct {
	ID           int64
	SourceID     string
	SourcePath   string
	RunID        string
	PerSec       int64
	SpeakerCount int
	SegmentCount int
	MaxEndTick   int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DurationSeconds returns the covered wall-clock length. Lossy; display only.
func (d *Document) DurationSeconds() float64 {
	if d.PerSec == 0 {
		return 0
	}
	return float64(d.MaxEndTick) / float64(d.PerSec)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*Document, error) {
	var (
		doc       Document
		runID     sql.NullString
		createdAt string
		updatedAt string
	)
	err := row.Scan(
		&doc.ID,
		&doc.SourceID,
		&doc.SourcePath,
		&runID,
		&doc.PerSec,
		&doc.SpeakerCount,
		&doc.SegmentCount,
		&doc.MaxEndTick,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	doc.RunID = runID.String
	if parsed, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		doc.CreatedAt = parsed
	}
	if parsed, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
		doc.UpdatedAt = parsed
	}
	return &doc, nil
}
