package mediatime

import (
	"reflect"
	"testing"
)

func TestSanitizeUnifiesResolutions(t *testing.T) {
	input := []Interval{
		{Start: 1, End: 3, PerSec: 2},
		{Start: 2, End: 5, PerSec: 3},
		{Start: 3, End: 7, PerSec: 4},
	}

	result := Sanitize(input)
	if result.PerSec != 12 {
		t.Fatalf("PerSec = %d, want 12", result.PerSec)
	}

	want := []Interval{
		{Start: 6, End: 18, PerSec: 12},
		{Start: 8, End: 20, PerSec: 12},
		{Start: 9, End: 21, PerSec: 12},
	}
	if !reflect.DeepEqual(result.Intervals, want) {
		t.Errorf("Intervals = %+v, want %+v", result.Intervals, want)
	}
	if len(result.Dropped) != 0 {
		t.Errorf("Dropped = %v, want none", result.Dropped)
	}
	if !reflect.DeepEqual(result.Kept, []int{0, 1, 2}) {
		t.Errorf("Kept = %v, want [0 1 2]", result.Kept)
	}
}

func TestSanitizeDropsDegenerateIntervals(t *testing.T) {
	input := []Interval{
		{Start: 0, End: 2, PerSec: 10},
		{Start: 5, End: 5, PerSec: 10},
		{Start: 7, End: 6, PerSec: 10},
		{Start: 3, End: 4, PerSec: 10},
	}

	result := Sanitize(input)
	if len(result.Intervals) != 2 {
		t.Fatalf("kept %d intervals, want 2", len(result.Intervals))
	}
	if !reflect.DeepEqual(result.Dropped, []int{1, 2}) {
		t.Errorf("Dropped = %v, want [1 2]", result.Dropped)
	}
	if !reflect.DeepEqual(result.Kept, []int{0, 3}) {
		t.Errorf("Kept = %v, want [0 3]", result.Kept)
	}
}

func TestSanitizeZeroResolutionCompatible(t *testing.T) {
	input := []Interval{
		{Start: 0, End: 2, PerSec: 0},
		{Start: 1, End: 4, PerSec: 5},
	}

	result := Sanitize(input)
	if result.PerSec != 5 {
		t.Fatalf("PerSec = %d, want 5", result.PerSec)
	}
	want := Interval{Start: 0, End: 10, PerSec: 5}
	if result.Intervals[0] != want {
		t.Errorf("zero-resolution interval rescaled to %+v, want %+v", result.Intervals[0], want)
	}
}

func TestSanitizeEmpty(t *testing.T) {
	result := Sanitize(nil)
	if result.PerSec != 1 {
		t.Errorf("PerSec = %d, want 1", result.PerSec)
	}
	if len(result.Intervals) != 0 {
		t.Errorf("Intervals = %+v, want empty", result.Intervals)
	}
}
