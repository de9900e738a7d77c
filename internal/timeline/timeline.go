// Package timeline derives compressed active-speaker timelines from
// annotation sets.
//
// A timeline replaces per-interval transcriptions with occupancy vectors: one
// integer per registry speaker counting how many of that speaker's
// annotations overlap a given tick. Segments are run-length compressed,
// contiguous, and cover [0, maxEnd) at the timeline's resolution. Timelines
// are immutable; resampling a lookup never mutates the stored segments.
//
// The dense build is O(length x speakers) in time and memory. For long
// recordings at fine resolutions the matrix is the dominant cost; callers
// control it through the target resolution.
package timeline

import (
	"fmt"
	"slices"
	"sort"

	"talkline/internal/annotations"
	"talkline/internal/mediatime"
)

// DefaultPerSec is the conventional target resolution for this corpus:
// 100 ticks per second, i.e. centisecond occupancy.
const DefaultPerSec int64 = 100

// Segment is a half-open tick range whose occupancy vector is constant.
// Active holds one count per registry speaker, in registry order.
type Segment struct {
	Start  int64
	End    int64
	Active []int
}

// Timeline is the compressed multi-speaker activity model for one document.
type Timeline struct {
	SourceID string
	PerSec   int64
	Speakers []annotations.Speaker
	Segments []Segment
}

// Build converts an annotation set to a timeline at perSec ticks per second.
// Every interval boundary must convert to the target resolution exactly;
// otherwise Build fails with mediatime.ErrIncompatibleRate and no timeline is
// produced. Overlapping annotations by the same speaker accumulate counts
// above 1 rather than collapsing to a boolean.
func Build(set *annotations.Set, perSec int64) (*Timeline, error) {
	if perSec <= 0 {
		perSec = DefaultPerSec
	}

	scaled := make([]mediatime.Interval, len(set.Intervals))
	for i, iv := range set.Intervals {
		rescaled, err := iv.Rescale(perSec)
		if err != nil {
			return nil, fmt.Errorf("build timeline for %s: %w", set.SourceID, err)
		}
		scaled[i] = rescaled
	}

	var length int64
	for _, iv := range scaled {
		if iv.End > length {
			length = iv.End
		}
	}

	speakers := len(set.Speakers)
	dense := make([]int, int(length)*speakers)
	for column, speaker := range set.Speakers {
		for _, idx := range set.IndexesForSpeaker(speaker.ID) {
			for tick := scaled[idx].Start; tick < scaled[idx].End; tick++ {
				dense[int(tick)*speakers+column]++
			}
		}
	}

	return &Timeline{
		SourceID: set.SourceID,
		PerSec:   perSec,
		Speakers: slices.Clone(set.Speakers),
		Segments: compress(dense, speakers, length),
	}, nil
}

// compress scans the dense matrix row by row and emits one segment per
// maximal run of identical rows.
func compress(dense []int, stride int, length int64) []Segment {
	if length == 0 {
		return nil
	}
	if stride == 0 {
		return []Segment{{Start: 0, End: length, Active: []int{}}}
	}

	var segments []Segment
	runStart := int64(0)
	for tick := int64(1); tick <= length; tick++ {
		if tick < length && rowsEqual(dense, stride, tick, runStart) {
			continue
		}
		row := dense[int(runStart)*stride : (int(runStart)+1)*stride]
		segments = append(segments, Segment{
			Start:  runStart,
			End:    tick,
			Active: slices.Clone(row),
		})
		runStart = tick
	}
	return segments
}

func rowsEqual(dense []int, stride int, a, b int64) bool {
	ra := dense[int(a)*stride : (int(a)+1)*stride]
	rb := dense[int(b)*stride : (int(b)+1)*stride]
	return slices.Equal(ra, rb)
}

// Compact merges adjacent segments carrying identical occupancy vectors.
// Compressing an already-compressed timeline is a no-op, so Compact is
// idempotent.
func Compact(segments []Segment) []Segment {
	var out []Segment
	for _, seg := range segments {
		if n := len(out); n > 0 && out[n-1].End == seg.Start && slices.Equal(out[n-1].Active, seg.Active) {
			out[n-1].End = seg.End
			continue
		}
		out = append(out, Segment{Start: seg.Start, End: seg.End, Active: slices.Clone(seg.Active)})
	}
	return out
}

// MaxEnd returns the tick one past the last covered moment.
func (t *Timeline) MaxEnd() int64 {
	if len(t.Segments) == 0 {
		return 0
	}
	return t.Segments[len(t.Segments)-1].End
}

// LabelAt is the single-point form of LabelsAt.
func (t *Timeline) LabelAt(tick, perSec int64) ([]int, error) {
	vectors, err := t.LabelsAt([]int64{tick}, perSec)
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// LabelsAt returns one occupancy vector per query tick, in query order.
// Queries are expressed at perSec ticks per second; pass the timeline's own
// resolution (or zero) to query at stored ticks. When the resolutions differ
// the segment boundaries are rescaled fresh for this call, subject to the
// same exactness gate as Build.
//
// The valid window is minStart <= q <= maxEnd inclusive; queries outside it
// yield all-zero vectors rather than errors. Within it, the lookup is
// right-continuous on segment ends with a left-biased tie-break: a query
// equal to a segment's end tick resolves to that segment.
func (t *Timeline) LabelsAt(ticks []int64, perSec int64) ([][]int, error) {
	if len(t.Segments) == 0 {
		return nil, fmt.Errorf("lookup on empty timeline %s", t.SourceID)
	}

	ends := make([]int64, len(t.Segments))
	minStart := t.Segments[0].Start
	if perSec == 0 || perSec == t.PerSec {
		for i, seg := range t.Segments {
			ends[i] = seg.End
		}
	} else {
		var err error
		minStart, err = mediatime.RescaleTick(minStart, t.PerSec, perSec)
		if err != nil {
			return nil, fmt.Errorf("lookup on %s: %w", t.SourceID, err)
		}
		for i, seg := range t.Segments {
			ends[i], err = mediatime.RescaleTick(seg.End, t.PerSec, perSec)
			if err != nil {
				return nil, fmt.Errorf("lookup on %s: %w", t.SourceID, err)
			}
		}
	}
	maxEnd := ends[len(ends)-1]

	vectors := make([][]int, len(ticks))
	for i, q := range ticks {
		if q < minStart || q > maxEnd {
			vectors[i] = make([]int, len(t.Speakers))
			continue
		}
		idx := sort.Search(len(ends), func(j int) bool { return ends[j] >= q })
		vectors[i] = slices.Clone(t.Segments[idx].Active)
	}
	return vectors, nil
}
