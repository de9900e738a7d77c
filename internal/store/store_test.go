package store_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"talkline/internal/annotations"
	"talkline/internal/store"
	"talkline/internal/testsupport"
	"talkline/internal/timeline"
)

func sampleTimeline() *timeline.Timeline {
	return &timeline.Timeline{
		SourceID: "meeting-01",
		PerSec:   100,
		Speakers: []annotations.Speaker{
			{ID: "spk1", Gender: "male", DisplayName: "Alpha"},
			{ID: "spk2", Gender: "female", DisplayName: "Beta"},
		},
		Segments: []timeline.Segment{
			{Start: 0, End: 500, Active: []int{1, 0}},
			{Start: 500, End: 900, Active: []int{1, 1}},
			{Start: 900, End: 1500, Active: []int{0, 1}},
		},
	}
}

func TestSaveAndLoadTimeline(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()

	ctx := context.Background()
	tl := sampleTimeline()

	doc, err := st.SaveTimeline(ctx, tl, "/tmp/meeting-01.xml", "run-1")
	if err != nil {
		t.Fatalf("SaveTimeline: %v", err)
	}
	if doc.SourceID != "meeting-01" {
		t.Errorf("SourceID = %q", doc.SourceID)
	}
	if doc.SpeakerCount != 2 || doc.SegmentCount != 3 {
		t.Errorf("counts = %d speakers / %d segments", doc.SpeakerCount, doc.SegmentCount)
	}
	if doc.MaxEndTick != 1500 {
		t.Errorf("MaxEndTick = %d, want 1500", doc.MaxEndTick)
	}
	if doc.RunID != "run-1" {
		t.Errorf("RunID = %q", doc.RunID)
	}

	loaded, err := st.LoadTimeline(ctx, "meeting-01")
	if err != nil {
		t.Fatalf("LoadTimeline: %v", err)
	}
	if !reflect.DeepEqual(loaded, tl) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, tl)
	}
}

func TestSaveTimelineReplaces(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()

	ctx := context.Background()
	if _, err := st.SaveTimeline(ctx, sampleTimeline(), "/tmp/a.xml", "run-1"); err != nil {
		t.Fatalf("first save: %v", err)
	}

	updated := sampleTimeline()
	updated.Segments = updated.Segments[:1]
	if _, err := st.SaveTimeline(ctx, updated, "/tmp/a.xml", "run-2"); err != nil {
		t.Fatalf("second save: %v", err)
	}

	docs, err := st.ListDocuments(ctx)
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("len(docs) = %d, want 1 (replaced, not duplicated)", len(docs))
	}
	if docs[0].SegmentCount != 1 {
		t.Errorf("SegmentCount = %d, want 1 after replace", docs[0].SegmentCount)
	}
	if docs[0].RunID != "run-2" {
		t.Errorf("RunID = %q, want run-2", docs[0].RunID)
	}
}

func TestGetMissingDocument(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()

	if _, err := st.GetBySourceID(context.Background(), "absent"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetBySourceID error = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()

	ctx := context.Background()
	if _, err := st.SaveTimeline(ctx, sampleTimeline(), "/tmp/a.xml", ""); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := st.Delete(ctx, "meeting-01"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := st.Delete(ctx, "meeting-01"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second Delete error = %v, want ErrNotFound", err)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	st2, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	defer st2.Close()
}
