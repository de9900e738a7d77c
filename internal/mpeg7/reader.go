// Package mpeg7 reads speaker annotations out of MPEG-7 audio description
// documents.
//
// Two dialects occur in the wild for this corpus: plain MPEG-7
// (urn:mpeg:mpeg7:schema:2004) and the Fraunhofer iFinder profile, which
// nests its spoken-content fields in its own namespace. The reader is
// namespace-aware and handles both with one code path, so callers do not
// declare a dialect up front.
//
// Only the raw strings are extracted here; parsing timestamps and validating
// descriptor fields is the annotations package's job.
package mpeg7

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"talkline/internal/annotations"
)

// Namespaces accepted for annotation elements.
const (
	nsMPEG7   = "urn:mpeg:mpeg7:schema:2004"
	nsIFinder = "http://www.iais.fraunhofer.de/ifinder"
	nsXSI     = "http://www.w3.org/2001/XMLSchema-instance"
)

// spokenContentType is the xsi:type marking a spoken-content descriptor.
// The prefix varies by dialect ("SpokenContentType" vs
// "ifinder:SpokenContentType"), so matching is on the local part.
const spokenContentType = "SpokenContentType"

// ErrNoSegments indicates a document without a single AudioSegment element.
var ErrNoSegments = errors.New("no AudioSegment elements found")

// ReadFile parses the MPEG-7 document at path into raw annotation segments,
// in document order.
func ReadFile(path string) ([]annotations.RawSegment, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open annotation document: %w", err)
	}
	defer file.Close()

	segments, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return segments, nil
}

// Read parses an MPEG-7 document from r.
func Read(r io.Reader) ([]annotations.RawSegment, error) {
	decoder := xml.NewDecoder(r)

	var segments []annotations.RawSegment
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read document: %w", err)
		}

		start, ok := token.(xml.StartElement)
		if !ok || start.Name.Local != "AudioSegment" || start.Name.Space != nsMPEG7 {
			continue
		}
		segment, err := readSegment(decoder, start)
		if err != nil {
			return nil, err
		}
		segments = append(segments, segment)
	}

	if len(segments) == 0 {
		return nil, ErrNoSegments
	}
	return segments, nil
}

// readSegment consumes one AudioSegment subtree.
func readSegment(decoder *xml.Decoder, start xml.StartElement) (annotations.RawSegment, error) {
	var segment annotations.RawSegment

	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return segment, fmt.Errorf("read AudioSegment: %w", err)
		}
		switch el := token.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "MediaTimePoint":
				text, err := readText(decoder)
				if err != nil {
					return segment, err
				}
				segment.TimePoint = text
			case "MediaDuration":
				text, err := readText(decoder)
				if err != nil {
					return segment, err
				}
				segment.Duration = text
			case "AudioDescriptor":
				if !isSpokenContent(el) {
					if err := decoder.Skip(); err != nil {
						return segment, fmt.Errorf("skip descriptor: %w", err)
					}
					continue
				}
				descriptor, err := readDescriptor(decoder)
				if err != nil {
					return segment, err
				}
				segment.Descriptor = descriptor
			default:
				depth++
			}
		case xml.EndElement:
			depth--
		}
	}
	return segment, nil
}

// readDescriptor consumes one SpokenContentType subtree.
func readDescriptor(decoder *xml.Decoder) (*annotations.RawDescriptor, error) {
	descriptor := &annotations.RawDescriptor{}

	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return nil, fmt.Errorf("read AudioDescriptor: %w", err)
		}
		switch el := token.(type) {
		case xml.StartElement:
			if !annotationNS(el.Name.Space) {
				depth++
				continue
			}
			switch el.Name.Local {
			case "Identifier":
				text, err := readText(decoder)
				if err != nil {
					return nil, err
				}
				descriptor.SpeakerID = text
			case "SpokenUnitVector":
				text, err := readText(decoder)
				if err != nil {
					return nil, err
				}
				descriptor.Transcription = text
			case "ConfidenceVector":
				text, err := readText(decoder)
				if err != nil {
					return nil, err
				}
				descriptor.Confidence = text
			case "Speaker":
				for _, attr := range el.Attr {
					if attr.Name.Local == "gender" {
						descriptor.Gender = attr.Value
					}
				}
				depth++
			case "GivenName":
				text, err := readText(decoder)
				if err != nil {
					return nil, err
				}
				descriptor.GivenName = text
			default:
				depth++
			}
		case xml.EndElement:
			depth--
		}
	}
	return descriptor, nil
}

// readText consumes an element's character data up to its end tag. The
// element must not contain child elements.
func readText(decoder *xml.Decoder) (string, error) {
	var text strings.Builder
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return "", fmt.Errorf("read element text: %w", err)
		}
		switch el := token.(type) {
		case xml.CharData:
			text.Write(el)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return strings.TrimSpace(text.String()), nil
}

// annotationNS reports whether a namespace may carry annotation fields. The
// spoken-content children live in the iFinder namespace in both dialects,
// except GivenName which stays in the MPEG-7 namespace.
func annotationNS(space string) bool {
	return space == nsIFinder || space == nsMPEG7
}

func isSpokenContent(el xml.StartElement) bool {
	for _, attr := range el.Attr {
		if attr.Name.Space != nsXSI || attr.Name.Local != "type" {
			continue
		}
		value := attr.Value
		if idx := strings.LastIndex(value, ":"); idx >= 0 {
			value = value[idx+1:]
		}
		return value == spokenContentType
	}
	return false
}
