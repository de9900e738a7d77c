// Package mediatime implements exact rational time arithmetic for MPEG-7
// media timestamps.
//
// A value is an integer count of ticks at an integer resolution (ticks per
// second, "persec"), never a floating-point second count. Heterogeneous
// resolutions are unified through least-common-multiple rescaling so that no
// conversion ever rounds. Operations that would require a fractional tick
// fail with ErrIncompatibleRate instead of approximating.
package mediatime

import (
	"errors"
	"fmt"
)

var (
	// ErrParse marks a malformed MediaTimePoint or MediaDuration string.
	ErrParse = errors.New("media time parse error")
	// ErrIncompatibleRate marks a rescale that would produce fractional ticks.
	ErrIncompatibleRate = errors.New("incompatible tick rate")
)

// Time is an instant or span measured as Tick fractional seconds at PerSec
// ticks per second.
type Time struct {
	Tick   int64
	PerSec int64
}

// Seconds converts the value to wall-clock seconds. Lossy; for display only.
func (t Time) Seconds() float64 {
	if t.PerSec == 0 {
		return float64(t.Tick)
	}
	return float64(t.Tick) / float64(t.PerSec)
}

// Interval is a half-open tick range [Start, End) at PerSec ticks per second.
type Interval struct {
	Start  int64
	End    int64
	PerSec int64
}

// Duration returns the interval length in ticks.
func (iv Interval) Duration() int64 { return iv.End - iv.Start }

// Degenerate reports whether the interval has no positive extent.
func (iv Interval) Degenerate() bool { return iv.End <= iv.Start }

// Rescale returns the interval expressed at perSec ticks per second. Both
// boundaries must land on whole ticks at the new rate.
func (iv Interval) Rescale(perSec int64) (Interval, error) {
	start, err := RescaleTick(iv.Start, iv.PerSec, perSec)
	if err != nil {
		return Interval{}, err
	}
	end, err := RescaleTick(iv.End, iv.PerSec, perSec)
	if err != nil {
		return Interval{}, err
	}
	return Interval{Start: start, End: end, PerSec: perSec}, nil
}

// RescaleTick converts a tick count from one rate to another, failing unless
// the conversion is exact.
func RescaleTick(tick, from, to int64) (int64, error) {
	from = normalizePerSec(from)
	to = normalizePerSec(to)
	if from == to {
		return tick, nil
	}
	scaled := tick * to
	if scaled%from != 0 {
		return 0, fmt.Errorf("%w: tick %d at %d/s has no exact representation at %d/s", ErrIncompatibleRate, tick, from, to)
	}
	return scaled / from, nil
}

// LCM returns the least common multiple of two resolutions. A resolution of
// zero means "no observed fractional resolution" and is compatible with
// anything, so it is treated as 1.
func LCM(a, b int64) int64 {
	a = normalizePerSec(a)
	b = normalizePerSec(b)
	return a / gcd(a, b) * b
}

// Combine anchors a duration at a start time, rescaling both to their common
// resolution before adding so the end tick is exact.
func Combine(start, dur Time) Interval {
	perSec := LCM(start.PerSec, dur.PerSec)
	s := start.Tick * (perSec / normalizePerSec(start.PerSec))
	d := dur.Tick * (perSec / normalizePerSec(dur.PerSec))
	return Interval{Start: s, End: s + d, PerSec: perSec}
}

func normalizePerSec(perSec int64) int64 {
	if perSec <= 0 {
		return 1
	}
	return perSec
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
