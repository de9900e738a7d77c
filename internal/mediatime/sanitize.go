package mediatime

// SanitizeResult is the outcome of unifying a batch of intervals onto one
// resolution.
type SanitizeResult struct {
	// Intervals are the surviving intervals, all at PerSec, in input order.
	Intervals []Interval
	// PerSec is the least common multiple of the distinct input resolutions.
	PerSec int64
	// Kept maps each surviving interval back to its index in the input, so
	// callers can keep parallel records aligned.
	Kept []int
	// Dropped lists input indices excluded for having no positive extent.
	Dropped []int
}

// Sanitize rescales a batch of intervals with possibly differing resolutions
// to their least common multiple. Rescaling multiplies each tick by an exact
// integer factor, so no information is lost. Intervals whose extent is not
// positive are dropped, not kept; the caller is expected to record a warning
// for each Dropped index.
func Sanitize(intervals []Interval) SanitizeResult {
	perSec := int64(1)
	for _, iv := range intervals {
		perSec = LCM(perSec, iv.PerSec)
	}

	result := SanitizeResult{PerSec: perSec}
	for i, iv := range intervals {
		factor := perSec / normalizePerSec(iv.PerSec)
		scaled := Interval{Start: iv.Start * factor, End: iv.End * factor, PerSec: perSec}
		if scaled.Degenerate() {
			result.Dropped = append(result.Dropped, i)
			continue
		}
		result.Intervals = append(result.Intervals, scaled)
		result.Kept = append(result.Kept, i)
	}
	return result
}
