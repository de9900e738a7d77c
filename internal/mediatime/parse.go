package mediatime

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseTimePoint parses an MPEG-7 MediaTimePoint such as
// "2017-11-21T14:03:27:120F1000". Everything before 'T' is a date prefix and
// is ignored. The clock portion is colon-separated with the final field in
// nFN form: n fractional units out of N per second. Clock fields fill from
// the right, so a missing hours (or hours and minutes) field defaults to
// zero. The result is a single tick count at N ticks per second.
func ParseTimePoint(text string) (Time, error) {
	_, clock, found := strings.Cut(text, "T")
	if !found {
		return Time{}, fmt.Errorf("%w: missing 'T' separator in time point %q", ErrParse, text)
	}

	fields := strings.Split(clock, ":")
	fraction := fields[len(fields)-1]
	fields = fields[:len(fields)-1]
	if len(fields) > 3 {
		return Time{}, fmt.Errorf("%w: too many clock fields in time point %q", ErrParse, text)
	}

	numText, perText, found := strings.Cut(fraction, "F")
	if !found {
		return Time{}, fmt.Errorf("%w: missing 'F' separator in time point %q", ErrParse, text)
	}
	num, err := parseField(numText, text)
	if err != nil {
		return Time{}, err
	}
	perSec, err := parseField(perText, text)
	if err != nil {
		return Time{}, err
	}

	var whole int64
	for _, field := range fields {
		value, err := parseField(field, text)
		if err != nil {
			return Time{}, err
		}
		whole = whole*60 + value
	}
	// Right-align: with fewer than three fields the leading units are absent.
	// whole already carries the base-60 positional weight of the fields seen.

	if perSec <= 0 {
		if num != 0 {
			return Time{}, fmt.Errorf("%w: fraction %d without a positive resolution in time point %q", ErrParse, num, text)
		}
		return Time{Tick: whole, PerSec: 1}, nil
	}
	return Time{Tick: whole*perSec + num, PerSec: perSec}, nil
}

// durationMarkers are the ordered component letters of an MPEG-7
// MediaDuration: hours, minutes, seconds, fraction numerator, fraction
// denominator (per-second resolution).
var durationMarkers = [5]byte{'H', 'M', 'S', 'N', 'F'}

// ParseDuration parses an MPEG-7 MediaDuration such as "PT0H0M27S120N1000F".
// Each component is optional and defaults to zero. A zero or absent 'F'
// component means the duration carries no fractional part and is reported at
// resolution 1; a nonzero numerator without a resolution is malformed.
func ParseDuration(text string) (Time, error) {
	_, rest, found := strings.Cut(text, "T")
	if !found {
		return Time{}, fmt.Errorf("%w: missing 'T' separator in duration %q", ErrParse, text)
	}

	var parts [5]int64
	for i, marker := range durationMarkers {
		value, tail, found := strings.Cut(rest, string(marker))
		if !found {
			continue
		}
		parsed, err := parseField(value, text)
		if err != nil {
			return Time{}, err
		}
		parts[i] = parsed
		rest = tail
	}
	if rest != "" {
		return Time{}, fmt.Errorf("%w: trailing %q in duration %q", ErrParse, rest, text)
	}

	hours, minutes, seconds, num, perSec := parts[0], parts[1], parts[2], parts[3], parts[4]
	whole := hours*3600 + minutes*60 + seconds

	if perSec <= 0 {
		if num != 0 {
			return Time{}, fmt.Errorf("%w: fraction %d without a positive resolution in duration %q", ErrParse, num, text)
		}
		return Time{Tick: whole, PerSec: 1}, nil
	}
	return Time{Tick: whole*perSec + num, PerSec: perSec}, nil
}

// ParseSegmentTimes parses a time point and duration pair into the exact
// interval they span.
func ParseSegmentTimes(timePoint, duration string) (Interval, error) {
	start, err := ParseTimePoint(timePoint)
	if err != nil {
		return Interval{}, err
	}
	dur, err := ParseDuration(duration)
	if err != nil {
		return Interval{}, err
	}
	return Combine(start, dur), nil
}

func parseField(value, source string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, nil
	}
	parsed, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: non-integer field %q in %q", ErrParse, value, source)
	}
	return parsed, nil
}
