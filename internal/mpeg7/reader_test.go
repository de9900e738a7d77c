package mpeg7_test

import (
	"errors"
	"strings"
	"testing"

	"talkline/internal/mpeg7"
)

const ifinderDialectDoc = `<?xml version="1.0" encoding="UTF-8"?>
<Mpeg7 xmlns:ns2="urn:mpeg:mpeg7:schema:2004"
       xmlns:ns="http://www.iais.fraunhofer.de/ifinder"
       xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
  <ns2:Description>
    <ns2:AudioSegment>
      <ns2:MediaTime>
        <ns2:MediaTimePoint>2017-11-21T00:00:05:0F100</ns2:MediaTimePoint>
        <ns2:MediaDuration>PT2S50N100F</ns2:MediaDuration>
      </ns2:MediaTime>
      <ns2:AudioDescriptor xsi:type="SpokenContentType">
        <ns:Identifier>spk1</ns:Identifier>
        <ns:SpokenUnitVector>hello there</ns:SpokenUnitVector>
        <ns:ConfidenceVector>0.95</ns:ConfidenceVector>
        <ns:Speaker gender="male">
          <ns2:GivenName>Alpha</ns2:GivenName>
        </ns:Speaker>
      </ns2:AudioDescriptor>
    </ns2:AudioSegment>
    <ns2:AudioSegment>
      <ns2:MediaTime>
        <ns2:MediaTimePoint>2017-11-21T00:00:08:0F100</ns2:MediaTimePoint>
        <ns2:MediaDuration>PT1S0N100F</ns2:MediaDuration>
      </ns2:MediaTime>
    </ns2:AudioSegment>
  </ns2:Description>
</Mpeg7>`

const mpeg7DialectDoc = `<?xml version="1.0" encoding="UTF-8"?>
<mpeg7:Mpeg7 xmlns:mpeg7="urn:mpeg:mpeg7:schema:2004"
             xmlns:ifinder="http://www.iais.fraunhofer.de/ifinder"
             xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
  <mpeg7:Description>
    <mpeg7:AudioSegment>
      <mpeg7:MediaTime>
        <mpeg7:MediaTimePoint>T00:01:00:0F25</mpeg7:MediaTimePoint>
        <mpeg7:MediaDuration>PT3S5N25F</mpeg7:MediaDuration>
      </mpeg7:MediaTime>
      <mpeg7:AudioDescriptor xsi:type="ifinder:SpokenContentType">
        <ifinder:Identifier>spk2</ifinder:Identifier>
        <ifinder:SpokenUnitVector>guten tag</ifinder:SpokenUnitVector>
        <ifinder:ConfidenceVector>0.8</ifinder:ConfidenceVector>
        <ifinder:Speaker gender="female">
          <mpeg7:GivenName>Beta</mpeg7:GivenName>
        </ifinder:Speaker>
      </mpeg7:AudioDescriptor>
    </mpeg7:AudioSegment>
  </mpeg7:Description>
</mpeg7:Mpeg7>`

func TestReadIFinderDialect(t *testing.T) {
	segments, err := mpeg7.Read(strings.NewReader(ifinderDialectDoc))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("len(segments) = %d, want 2", len(segments))
	}

	first := segments[0]
	if first.TimePoint != "2017-11-21T00:00:05:0F100" {
		t.Errorf("TimePoint = %q", first.TimePoint)
	}
	if first.Duration != "PT2S50N100F" {
		t.Errorf("Duration = %q", first.Duration)
	}
	if first.Descriptor == nil {
		t.Fatal("first segment descriptor missing")
	}
	if first.Descriptor.SpeakerID != "spk1" {
		t.Errorf("SpeakerID = %q", first.Descriptor.SpeakerID)
	}
	if first.Descriptor.Gender != "male" {
		t.Errorf("Gender = %q", first.Descriptor.Gender)
	}
	if first.Descriptor.GivenName != "Alpha" {
		t.Errorf("GivenName = %q", first.Descriptor.GivenName)
	}
	if first.Descriptor.Confidence != "0.95" {
		t.Errorf("Confidence = %q", first.Descriptor.Confidence)
	}
	if first.Descriptor.Transcription != "hello there" {
		t.Errorf("Transcription = %q", first.Descriptor.Transcription)
	}

	// The second segment carries no spoken content.
	if segments[1].Descriptor != nil {
		t.Errorf("second segment descriptor = %+v, want nil", segments[1].Descriptor)
	}
	if segments[1].TimePoint == "" || segments[1].Duration == "" {
		t.Error("second segment times missing")
	}
}

func TestReadMPEG7Dialect(t *testing.T) {
	segments, err := mpeg7.Read(strings.NewReader(mpeg7DialectDoc))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(segments) != 1 {
		t.Fatalf("len(segments) = %d, want 1", len(segments))
	}

	seg := segments[0]
	if seg.Descriptor == nil {
		t.Fatal("descriptor missing")
	}
	if seg.Descriptor.SpeakerID != "spk2" {
		t.Errorf("SpeakerID = %q", seg.Descriptor.SpeakerID)
	}
	if seg.Descriptor.Gender != "female" {
		t.Errorf("Gender = %q", seg.Descriptor.Gender)
	}
	if seg.Descriptor.GivenName != "Beta" {
		t.Errorf("GivenName = %q", seg.Descriptor.GivenName)
	}
}

func TestReadNoSegments(t *testing.T) {
	doc := `<?xml version="1.0"?><Mpeg7 xmlns="urn:mpeg:mpeg7:schema:2004"></Mpeg7>`
	_, err := mpeg7.Read(strings.NewReader(doc))
	if !errors.Is(err, mpeg7.ErrNoSegments) {
		t.Errorf("Read error = %v, want ErrNoSegments", err)
	}
}

func TestReadIgnoresForeignDescriptors(t *testing.T) {
	doc := `<?xml version="1.0"?>
<Mpeg7 xmlns:ns2="urn:mpeg:mpeg7:schema:2004" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
  <ns2:AudioSegment>
    <ns2:MediaTimePoint>T0:0:0:0F10</ns2:MediaTimePoint>
    <ns2:MediaDuration>PT1S</ns2:MediaDuration>
    <ns2:AudioDescriptor xsi:type="SoundClassificationType">
      <ns2:Label>music</ns2:Label>
    </ns2:AudioDescriptor>
  </ns2:AudioSegment>
</Mpeg7>`
	segments, err := mpeg7.Read(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if segments[0].Descriptor != nil {
		t.Errorf("foreign descriptor should be ignored, got %+v", segments[0].Descriptor)
	}
	if segments[0].TimePoint != "T0:0:0:0F10" {
		t.Errorf("TimePoint = %q", segments[0].TimePoint)
	}
}

func TestReadMalformedXML(t *testing.T) {
	doc := `<Mpeg7 xmlns="urn:mpeg:mpeg7:schema:2004"><AudioSegment><MediaTimePoint>`
	if _, err := mpeg7.Read(strings.NewReader(doc)); err == nil {
		t.Error("expected error for truncated document")
	}
}
