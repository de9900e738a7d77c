package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Segment describes one AudioSegment in a generated fixture document.
// Speech fields are emitted only when SpeakerID is non-empty.
type Segment struct {
	TimePoint     string
	Duration      string
	SpeakerID     string
	Gender        string
	GivenName     string
	Confidence    string
	Transcription string
}

// Spoken is a convenience constructor for a speech segment.
func Spoken(timePoint, duration, speakerID, gender, name, confidence, content string) Segment {
	return Segment{
		TimePoint:     timePoint,
		Duration:      duration,
		SpeakerID:     speakerID,
		Gender:        gender,
		GivenName:     name,
		Confidence:    confidence,
		Transcription: content,
	}
}

// WriteAnnotationXML writes an iFinder-dialect MPEG-7 document containing the
// given segments and returns its path.
func WriteAnnotationXML(t testing.TB, dir, name string, segments ...Segment) string {
	t.Helper()

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<Mpeg7 xmlns:ns2="urn:mpeg:mpeg7:schema:2004"` + "\n")
	b.WriteString(`       xmlns:ns="http://www.iais.fraunhofer.de/ifinder"` + "\n")
	b.WriteString(`       xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">` + "\n")
	b.WriteString("  <ns2:Description>\n")
	for _, seg := range segments {
		b.WriteString("    <ns2:AudioSegment>\n")
		b.WriteString("      <ns2:MediaTime>\n")
		fmt.Fprintf(&b, "        <ns2:MediaTimePoint>%s</ns2:MediaTimePoint>\n", seg.TimePoint)
		fmt.Fprintf(&b, "        <ns2:MediaDuration>%s</ns2:MediaDuration>\n", seg.Duration)
		b.WriteString("      </ns2:MediaTime>\n")
		if seg.SpeakerID != "" {
			b.WriteString(`      <ns2:AudioDescriptor xsi:type="SpokenContentType">` + "\n")
			fmt.Fprintf(&b, "        <ns:Identifier>%s</ns:Identifier>\n", seg.SpeakerID)
			fmt.Fprintf(&b, "        <ns:SpokenUnitVector>%s</ns:SpokenUnitVector>\n", seg.Transcription)
			fmt.Fprintf(&b, "        <ns:ConfidenceVector>%s</ns:ConfidenceVector>\n", seg.Confidence)
			fmt.Fprintf(&b, "        <ns:Speaker gender=\"%s\">\n", seg.Gender)
			fmt.Fprintf(&b, "          <ns2:GivenName>%s</ns2:GivenName>\n", seg.GivenName)
			b.WriteString("        </ns:Speaker>\n")
			b.WriteString("      </ns2:AudioDescriptor>\n")
		}
		b.WriteString("    </ns2:AudioSegment>\n")
	}
	b.WriteString("  </ns2:Description>\n")
	b.WriteString("</Mpeg7>\n")

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteBrokenXML writes a truncated document that cannot be parsed.
func WriteBrokenXML(t testing.TB, dir, name string) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, name)
	content := `<?xml version="1.0"?><Mpeg7 xmlns:ns2="urn:mpeg:mpeg7:schema:2004"><ns2:AudioSegment>`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// TwoSpeakerSegments returns a small realistic conversation: two speakers
// with one overlapping span, at 100 ticks per second.
func TwoSpeakerSegments() []Segment {
	return []Segment{
		Spoken("2020-05-01T0:0:0:0F100", "PT3S0N100F", "spk1", "male", "Alpha", "0.92", "good morning everyone"),
		Spoken("2020-05-01T0:0:2:0F100", "PT2S50N100F", "spk2", "female", "Beta", "0.88", "morning"),
		Spoken("2020-05-01T0:0:6:0F100", "PT1S0N100F", "spk1", "male", "Alpha", "0.95", "shall we start"),
		{TimePoint: "2020-05-01T0:0:7:0F100", Duration: "PT2S0N100F"},
	}
}
