// Package ingest converts annotation documents into stored timelines, one
// file at a time or as a directory batch.
//
// Documents are independent of each other, so batch conversion fans out
// across a worker pool with no coordination beyond the shared store handle.
// A file lock on the data directory keeps two batch runs from interleaving
// writes to the same database.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"talkline/internal/annotations"
	"talkline/internal/config"
	"talkline/internal/logging"
	"talkline/internal/mpeg7"
	"talkline/internal/store"
	"talkline/internal/timeline"
)

// ErrIngestLocked indicates another ingest run holds the data directory.
var ErrIngestLocked = errors.New("another ingest run is in progress")

// Service converts annotation documents and persists the results.
type Service struct {
	cfg    *config.Config
	store  *store.Store
	logger *slog.Logger
}

// NewService wires an ingest service. The store may be nil for callers that
// only convert in memory.
func NewService(cfg *config.Config, st *store.Store, logger *slog.Logger) *Service {
	return &Service{
		cfg:    cfg,
		store:  st,
		logger: logging.WithComponent(logger, "ingest"),
	}
}

// Conversion is the in-memory outcome of converting one document.
type Conversion struct {
	SourcePath string
	Set        *annotations.Set
	Timeline   *timeline.Timeline
	Issues     []annotations.SegmentIssue
}

// ConvertFile runs the full conversion pipeline for one document: read the
// XML, build the annotation set, and derive the timeline at the configured
// resolution. Nothing is persisted.
func (s *Service) ConvertFile(path string) (*Conversion, error) {
	segments, err := mpeg7.ReadFile(path)
	if err != nil {
		return nil, err
	}

	sourceID := SourceID(path)
	set, issues, err := annotations.Build(sourceID, segments, s.logger)
	if err != nil {
		return nil, err
	}

	tl, err := timeline.Build(set, s.cfg.Conversion.TargetPerSec)
	if err != nil {
		return nil, err
	}

	return &Conversion{
		SourcePath: path,
		Set:        set,
		Timeline:   tl,
		Issues:     issues,
	}, nil
}

// SourceID derives the stable document identifier from a file path: the base
// name without its extension.
func SourceID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// FileFailure records one document that could not be converted during a run.
type FileFailure struct {
	Path string
	Err  error
}

// Summary reports the outcome of a batch run.
type Summary struct {
	RunID     string
	Converted int
	Failed    int
	Failures  []FileFailure
}

// Run converts every annotation document under dir (or the configured
// incoming directory when dir is empty) and persists the timelines.
// Individual document failures are recorded and skipped; the run fails only
// for infrastructure problems or cancellation.
func (s *Service) Run(ctx context.Context, dir string) (*Summary, error) {
	if s.store == nil {
		return nil, errors.New("ingest run requires an open store")
	}
	if dir == "" {
		dir = s.cfg.Paths.IncomingDir
	}

	lock := flock.New(s.cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire ingest lock: %w", err)
	}
	if !locked {
		return nil, ErrIngestLocked
	}
	defer func() { _ = lock.Unlock() }()

	paths, err := findDocuments(dir)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	logger := s.logger.With("run_id", runID)
	logger.Info("starting ingest run", "dir", dir, "documents", len(paths), "workers", s.cfg.Conversion.IngestWorkers)

	jobs := make(chan string)
	var (
		mu      sync.Mutex
		summary = Summary{RunID: runID}
		wg      sync.WaitGroup
	)

	for i := 0; i < s.cfg.Conversion.IngestWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				err := s.ingestOne(ctx, path, runID)
				mu.Lock()
				if err != nil {
					summary.Failed++
					summary.Failures = append(summary.Failures, FileFailure{Path: path, Err: err})
				} else {
					summary.Converted++
				}
				mu.Unlock()
			}
		}()
	}

	dispatch := func() error {
		defer close(jobs)
		for _, path := range paths {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case jobs <- path:
			}
		}
		return nil
	}
	dispatchErr := dispatch()
	wg.Wait()

	sort.Slice(summary.Failures, func(i, j int) bool {
		return summary.Failures[i].Path < summary.Failures[j].Path
	})

	for _, failure := range summary.Failures {
		logger.Warn("document failed", "path", failure.Path, "error", failure.Err)
	}
	logger.Info("ingest run finished", "converted", summary.Converted, "failed", summary.Failed)

	if dispatchErr != nil {
		return &summary, dispatchErr
	}
	return &summary, nil
}

func (s *Service) ingestOne(ctx context.Context, path, runID string) error {
	conversion, err := s.ConvertFile(path)
	if err != nil {
		return err
	}
	if _, err := s.store.SaveTimeline(ctx, conversion.Timeline, path, runID); err != nil {
		return err
	}
	s.logger.Debug("converted document",
		"run_id", runID,
		"source_id", conversion.Timeline.SourceID,
		"speakers", len(conversion.Timeline.Speakers),
		"segments", len(conversion.Timeline.Segments),
		"skipped_segments", len(conversion.Issues),
	)
	return nil
}

func findDocuments(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".xml") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}
