package timeline

import (
	"errors"
	"reflect"
	"testing"

	"talkline/internal/annotations"
	"talkline/internal/mediatime"
)

// overlapSet is the canonical fixture: one speaker with two overlapping
// annotations [0,10) and [5,15) at 1 tick/s.
func overlapSet() *annotations.Set {
	return &annotations.Set{
		SourceID: "overlap",
		PerSec:   1,
		Speakers: []annotations.Speaker{{ID: "spk1", Gender: "male", DisplayName: "alpha"}},
		Intervals: []mediatime.Interval{
			{Start: 0, End: 10, PerSec: 1},
			{Start: 5, End: 15, PerSec: 1},
		},
		Transcriptions: []annotations.Transcription{
			{SpeakerID: "spk1", Confidence: 1, Content: "one"},
			{SpeakerID: "spk1", Confidence: 1, Content: "two"},
		},
	}
}

func TestBuildAccumulatesOverlap(t *testing.T) {
	tl, err := Build(overlapSet(), 1)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	at := func(tick int64) int {
		vectors, err := tl.LabelsAt([]int64{tick}, 1)
		if err != nil {
			t.Fatalf("LabelsAt(%d): %v", tick, err)
		}
		return vectors[0][0]
	}
	if got := at(7); got != 2 {
		t.Errorf("occupancy at 7 = %d, want 2", got)
	}
	if got := at(2); got != 1 {
		t.Errorf("occupancy at 2 = %d, want 1", got)
	}
	if got := at(12); got != 1 {
		t.Errorf("occupancy at 12 = %d, want 1", got)
	}
	if got := at(20); got != 0 {
		t.Errorf("occupancy at 20 = %d, want 0", got)
	}
}

func TestBuildCompressesRuns(t *testing.T) {
	tl, err := Build(overlapSet(), 1)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	want := []Segment{
		{Start: 0, End: 5, Active: []int{1}},
		{Start: 5, End: 10, Active: []int{2}},
		{Start: 10, End: 15, Active: []int{1}},
	}
	if !reflect.DeepEqual(tl.Segments, want) {
		t.Errorf("Segments = %+v, want %+v", tl.Segments, want)
	}

	// Segments are contiguous and gap-free over [0, MaxEnd).
	if tl.MaxEnd() != 15 {
		t.Errorf("MaxEnd = %d, want 15", tl.MaxEnd())
	}
	for i := 1; i < len(tl.Segments); i++ {
		if tl.Segments[i].Start != tl.Segments[i-1].End {
			t.Errorf("gap between segment %d and %d", i-1, i)
		}
	}
}

func TestCompactIdempotent(t *testing.T) {
	tl, err := Build(overlapSet(), 1)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	once := Compact(tl.Segments)
	if !reflect.DeepEqual(once, tl.Segments) {
		t.Errorf("Compact changed an already-compressed timeline: %+v", once)
	}
	twice := Compact(once)
	if !reflect.DeepEqual(twice, once) {
		t.Errorf("Compact is not idempotent: %+v vs %+v", twice, once)
	}
}

func TestCompactMergesAdjacentEqualVectors(t *testing.T) {
	segments := []Segment{
		{Start: 0, End: 3, Active: []int{1, 0}},
		{Start: 3, End: 7, Active: []int{1, 0}},
		{Start: 7, End: 9, Active: []int{0, 1}},
	}
	want := []Segment{
		{Start: 0, End: 7, Active: []int{1, 0}},
		{Start: 7, End: 9, Active: []int{0, 1}},
	}
	if got := Compact(segments); !reflect.DeepEqual(got, want) {
		t.Errorf("Compact = %+v, want %+v", got, want)
	}
}

func TestBuildResamples(t *testing.T) {
	set := overlapSet()
	tl, err := Build(set, 10)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if tl.PerSec != 10 {
		t.Errorf("PerSec = %d, want 10", tl.PerSec)
	}
	want := []Segment{
		{Start: 0, End: 50, Active: []int{1}},
		{Start: 50, End: 100, Active: []int{2}},
		{Start: 100, End: 150, Active: []int{1}},
	}
	if !reflect.DeepEqual(tl.Segments, want) {
		t.Errorf("Segments = %+v, want %+v", tl.Segments, want)
	}
}

func TestBuildRejectsIncompatibleResolution(t *testing.T) {
	set := &annotations.Set{
		SourceID: "coarse",
		PerSec:   3,
		Speakers: []annotations.Speaker{{ID: "spk1"}},
		Intervals: []mediatime.Interval{
			{Start: 1, End: 5, PerSec: 3},
		},
		Transcriptions: []annotations.Transcription{{SpeakerID: "spk1"}},
	}

	tl, err := Build(set, 2)
	if !errors.Is(err, mediatime.ErrIncompatibleRate) {
		t.Errorf("Build error = %v, want ErrIncompatibleRate", err)
	}
	if tl != nil {
		t.Errorf("Build returned a timeline alongside the error")
	}
}

func TestLabelsAtBoundaries(t *testing.T) {
	tl, err := Build(overlapSet(), 1)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	vectors, err := tl.LabelsAt([]int64{4, 10, 100}, 1)
	if err != nil {
		t.Fatalf("LabelsAt: %v", err)
	}

	if !reflect.DeepEqual(vectors[0], []int{1}) {
		t.Errorf("labels at 4 = %v, want [1]", vectors[0])
	}
	// Left-biased tie-break: the query equal to boundary 10 resolves to the
	// segment ending there, [5,10) with occupancy 2.
	if !reflect.DeepEqual(vectors[1], []int{2}) {
		t.Errorf("labels at 10 = %v, want [2]", vectors[1])
	}
	if !reflect.DeepEqual(vectors[2], []int{0}) {
		t.Errorf("labels at 100 = %v, want [0]", vectors[2])
	}
}

func TestLabelsAtRangeEdges(t *testing.T) {
	tl, err := Build(overlapSet(), 1)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	vectors, err := tl.LabelsAt([]int64{0, 15, -1, 16}, 1)
	if err != nil {
		t.Fatalf("LabelsAt: %v", err)
	}
	if !reflect.DeepEqual(vectors[0], []int{1}) {
		t.Errorf("labels at 0 (minimum start) = %v, want [1]", vectors[0])
	}
	if !reflect.DeepEqual(vectors[1], []int{1}) {
		t.Errorf("labels at 15 (maximum end, inclusive) = %v, want [1]", vectors[1])
	}
	if !reflect.DeepEqual(vectors[2], []int{0}) {
		t.Errorf("labels below range = %v, want [0]", vectors[2])
	}
	if !reflect.DeepEqual(vectors[3], []int{0}) {
		t.Errorf("labels above range = %v, want [0]", vectors[3])
	}
}

func TestLabelsAtDifferentResolution(t *testing.T) {
	tl, err := Build(overlapSet(), 1)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// Query at 10 ticks/s against a timeline stored at 1 tick/s.
	vectors, err := tl.LabelsAt([]int64{40, 70, 120}, 10)
	if err != nil {
		t.Fatalf("LabelsAt: %v", err)
	}
	want := [][]int{{1}, {2}, {1}}
	if !reflect.DeepEqual(vectors, want) {
		t.Errorf("vectors = %v, want %v", vectors, want)
	}

	// The stored segments are untouched by the resampled lookup.
	if tl.PerSec != 1 || tl.Segments[0].End != 5 {
		t.Errorf("lookup mutated the timeline: perSec=%d segments=%+v", tl.PerSec, tl.Segments)
	}
}

func TestLabelsAtIncompatibleQueryResolution(t *testing.T) {
	set := &annotations.Set{
		SourceID: "coarse",
		PerSec:   3,
		Speakers: []annotations.Speaker{{ID: "spk1"}},
		Intervals: []mediatime.Interval{
			{Start: 0, End: 4, PerSec: 3},
		},
		Transcriptions: []annotations.Transcription{{SpeakerID: "spk1"}},
	}
	tl, err := Build(set, 3)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if _, err := tl.LabelsAt([]int64{1}, 2); !errors.Is(err, mediatime.ErrIncompatibleRate) {
		t.Errorf("LabelsAt error = %v, want ErrIncompatibleRate", err)
	}
}

func TestLabelAtScalar(t *testing.T) {
	tl, err := Build(overlapSet(), 1)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	vector, err := tl.LabelAt(7, 1)
	if err != nil {
		t.Fatalf("LabelAt: %v", err)
	}
	if !reflect.DeepEqual(vector, []int{2}) {
		t.Errorf("LabelAt(7) = %v, want [2]", vector)
	}
}
