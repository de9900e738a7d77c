// Package render formats timeline data for human-facing output.
package render

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"talkline/internal/annotations"
	"talkline/internal/timeline"
)

// SpeakerName returns a presentable name for a speaker: the given name when
// recorded, otherwise a tidied form of the raw identifier.
func SpeakerName(sp annotations.Speaker) string {
	if sp.DisplayName != "" {
		return sp.DisplayName
	}
	return tidyIdentifier(sp.ID)
}

func tidyIdentifier(id string) string {
	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range id {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	name := strings.TrimSpace(cleaned.String())
	if name == "" {
		return "Unknown Speaker"
	}
	return cases.Title(language.Und).String(name)
}

// Clock renders a tick offset at the given resolution as h:mm:ss.fff wall
// time. Sub-second digits are dropped entirely at one tick per second.
func Clock(tick, perSec int64) string {
	if perSec <= 0 {
		perSec = 1
	}
	negative := tick < 0
	if negative {
		tick = -tick
	}

	seconds := tick / perSec
	frac := tick % perSec
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	fmt.Fprintf(&b, "%d:%02d:%02d", h, m, s)
	if perSec > 1 {
		fmt.Fprintf(&b, ".%03d", frac*1000/perSec)
	}
	return b.String()
}

// Interval renders a segment's span as "start - end" wall time.
func Interval(seg timeline.Segment, perSec int64) string {
	return Clock(seg.Start, perSec) + " - " + Clock(seg.End, perSec)
}

// ActiveNames lists the display names of speakers active in a segment, with
// repeated speakers annotated by their occupancy count.
func ActiveNames(seg timeline.Segment, speakers []annotations.Speaker) []string {
	var names []string
	for i, count := range seg.Active {
		if count == 0 || i >= len(speakers) {
			continue
		}
		name := SpeakerName(speakers[i])
		if count > 1 {
			name = fmt.Sprintf("%s (x%d)", name, count)
		}
		names = append(names, name)
	}
	return names
}
