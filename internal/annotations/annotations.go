// Package annotations holds the normalized in-memory model for one annotated
// source document: exact-tick intervals, per-interval transcription records,
// and a deduplicated speaker registry.
//
// A Set is constructed once from raw segments and never mutated afterwards.
// Malformed segments are skipped with recorded diagnostics rather than
// aborting the document; only a document that yields no usable segment at all
// fails outright.
package annotations

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"talkline/internal/logging"
	"talkline/internal/mediatime"
)

var (
	// ErrDescriptor marks a spoken-content descriptor missing a required field.
	ErrDescriptor = errors.New("descriptor error")
	// ErrEmptyInput marks a document with no usable annotation segments.
	ErrEmptyInput = errors.New("no valid annotation segments")
)

// Speaker identifies one speaker observed in a document. Gender and
// DisplayName are taken from the speaker's first occurrence.
type Speaker struct {
	ID          string
	Gender      string
	DisplayName string
}

// Transcription is the spoken content bound to one interval.
type Transcription struct {
	SpeakerID  string
	Confidence float64
	Content    string
}

// RawDescriptor carries the spoken-content fields of one segment as raw
// strings, exactly as the document reader extracted them. All fields are
// required; an empty one fails the segment.
type RawDescriptor struct {
	SpeakerID     string
	Gender        string
	GivenName     string
	Confidence    string
	Transcription string
}

// RawSegment is one annotated span before any parsing. A nil Descriptor
// means the span carries no speech and is skipped without complaint.
type RawSegment struct {
	TimePoint  string
	Duration   string
	Descriptor *RawDescriptor
}

// Set is the immutable annotation model for one source document. Intervals
// and Transcriptions are index-aligned, and every interval is expressed at
// the common PerSec resolution.
type Set struct {
	SourceID       string
	PerSec         int64
	Speakers       []Speaker
	Intervals      []mediatime.Interval
	Transcriptions []Transcription
}

// SegmentIssue records why one input segment was excluded from a Set.
type SegmentIssue struct {
	Index int
	Err   error
}

// Build parses, sanitizes, and assembles raw segments into a Set. Segments
// that fail to parse are excluded and reported in the returned issues, in
// input order; building continues past them. Build fails only when nothing
// survives.
func Build(sourceID string, segments []RawSegment, logger *slog.Logger) (*Set, []SegmentIssue, error) {
	logger = logging.WithComponent(logger, "annotations")

	var (
		issues         []SegmentIssue
		intervals      []mediatime.Interval
		transcriptions []Transcription
		observed       []Speaker
	)
	for i, seg := range segments {
		if seg.Descriptor == nil {
			// No descriptor means no speech in this span. Ignore.
			continue
		}

		interval, err := mediatime.ParseSegmentTimes(seg.TimePoint, seg.Duration)
		if err != nil {
			issues = append(issues, SegmentIssue{Index: i, Err: err})
			logger.Warn("skipping unparseable segment", "source_id", sourceID, "segment", i, "error", err)
			continue
		}

		record, speaker, err := parseDescriptor(seg.Descriptor)
		if err != nil {
			issues = append(issues, SegmentIssue{Index: i, Err: err})
			logger.Warn("skipping segment with incomplete descriptor", "source_id", sourceID, "segment", i, "error", err)
			continue
		}

		intervals = append(intervals, interval)
		transcriptions = append(transcriptions, record)
		observed = append(observed, speaker)
	}

	result := mediatime.Sanitize(intervals)
	for _, dropped := range result.Dropped {
		logger.Warn("dropping degenerate interval",
			"source_id", sourceID,
			"start", intervals[dropped].Start,
			"end", intervals[dropped].End,
			"per_sec", intervals[dropped].PerSec,
		)
	}

	kept := make([]Transcription, 0, len(result.Kept))
	keptSpeakers := make([]Speaker, 0, len(result.Kept))
	for _, idx := range result.Kept {
		kept = append(kept, transcriptions[idx])
		keptSpeakers = append(keptSpeakers, observed[idx])
	}

	if len(result.Intervals) == 0 {
		return nil, issues, fmt.Errorf("%w in %s", ErrEmptyInput, sourceID)
	}

	set := &Set{
		SourceID:       sourceID,
		PerSec:         result.PerSec,
		Speakers:       speakerRegistry(keptSpeakers),
		Intervals:      result.Intervals,
		Transcriptions: kept,
	}
	return set, issues, nil
}

// IndexesForSpeaker yields the interval indexes whose transcription belongs
// to the given speaker ID, in interval order.
func (s *Set) IndexesForSpeaker(speakerID string) []int {
	var out []int
	for i, tr := range s.Transcriptions {
		if tr.SpeakerID == speakerID {
			out = append(out, i)
		}
	}
	return out
}

// MaxEnd returns the largest end tick across all intervals.
func (s *Set) MaxEnd() int64 {
	var max int64
	for _, iv := range s.Intervals {
		if iv.End > max {
			max = iv.End
		}
	}
	return max
}

func parseDescriptor(d *RawDescriptor) (Transcription, Speaker, error) {
	missing := ""
	switch {
	case d.SpeakerID == "":
		missing = "speaker id"
	case d.Gender == "":
		missing = "gender"
	case d.GivenName == "":
		missing = "given name"
	case d.Confidence == "":
		missing = "confidence"
	case d.Transcription == "":
		missing = "transcription"
	}
	if missing != "" {
		return Transcription{}, Speaker{}, fmt.Errorf("%w: missing %s", ErrDescriptor, missing)
	}

	confidence, err := strconv.ParseFloat(d.Confidence, 64)
	if err != nil {
		return Transcription{}, Speaker{}, fmt.Errorf("%w: non-numeric confidence %q", ErrDescriptor, d.Confidence)
	}

	record := Transcription{
		SpeakerID:  d.SpeakerID,
		Confidence: confidence,
		Content:    d.Transcription,
	}
	speaker := Speaker{ID: d.SpeakerID, Gender: d.Gender, DisplayName: d.GivenName}
	return record, speaker, nil
}

// speakerRegistry derives the sorted-unique speaker list, tagging each ID
// with the gender and given name seen at its first retained occurrence.
func speakerRegistry(observed []Speaker) []Speaker {
	first := make(map[string]Speaker, len(observed))
	for _, sp := range observed {
		if _, ok := first[sp.ID]; !ok {
			first[sp.ID] = sp
		}
	}

	ids := make([]string, 0, len(first))
	for id := range first {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	speakers := make([]Speaker, 0, len(ids))
	for _, id := range ids {
		speakers = append(speakers, first[id])
	}
	return speakers
}
