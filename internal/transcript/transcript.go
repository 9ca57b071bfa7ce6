package transcript

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrDecode marks a transcript document that does not match the
// expected shape.
var ErrDecode = errors.New("transcript document malformed")

// Document is the transcript JSON written by the transcription service.
type Document struct {
	Results Results `json:"results"`
}

type Results struct {
	Transcripts   []Text         `json:"transcripts"`
	SpeakerLabels *SpeakerLabels `json:"speaker_labels,omitempty"`
	Items         []Item         `json:"items,omitempty"`
}

type Text struct {
	Transcript string `json:"transcript"`
}

type SpeakerLabels struct {
	Segments []Segment `json:"segments"`
}

type Segment struct {
	SpeakerLabel string `json:"speaker_label"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
}

type Item struct {
	StartTime    string        `json:"start_time"`
	EndTime      string        `json:"end_time"`
	Alternatives []Alternative `json:"alternatives"`
}

type Alternative struct {
	Content string `json:"content"`
}

// Decode extracts the transcript text consumed by notes generation.
// When speaker labels and word items are present the text is
// re-assembled into per-speaker runs; otherwise the flat transcript is
// returned as-is.
func Decode(data []byte) (string, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if len(doc.Results.Transcripts) == 0 {
		return "", fmt.Errorf("%w: no transcripts", ErrDecode)
	}

	if doc.Results.SpeakerLabels != nil && len(doc.Results.Items) > 0 {
		return formatWithSpeakers(doc.Results), nil
	}
	return doc.Results.Transcripts[0].Transcript, nil
}

// formatWithSpeakers rebuilds the transcript as "{label}: word word "
// runs. Each word item belongs to the segment whose time range contains
// it; the label is emitted whenever it differs from the previous
// segment's. Items without timestamps (punctuation) match no segment.
func formatWithSpeakers(results Results) string {
	var b strings.Builder
	currentSpeaker := ""

	for _, segment := range results.SpeakerLabels.Segments {
		segStart, okStart := parseTime(segment.StartTime)
		segEnd, okEnd := parseTime(segment.EndTime)
		if !okStart || !okEnd {
			continue
		}

		if segment.SpeakerLabel != currentSpeaker {
			currentSpeaker = segment.SpeakerLabel
			b.WriteString("\n" + currentSpeaker + ": ")
		}

		for _, item := range results.Items {
			start, ok := parseTime(item.StartTime)
			if !ok {
				continue
			}
			end, ok := parseTime(item.EndTime)
			if !ok {
				continue
			}
			if start >= segStart && end <= segEnd && len(item.Alternatives) > 0 {
				b.WriteString(item.Alternatives[0].Content + " ")
			}
		}
	}

	return b.String()
}

func parseTime(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
