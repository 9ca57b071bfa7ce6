package notesgen

import (
	"context"
	"errors"
	"strings"
)

// The generated text is a free-text contract with the notes parser:
// these markers delimit the sections downstream code looks for. The two
// summary markers are mandatory; output missing either one is rejected
// rather than cached as a silent partial result.
const (
	MarkerQuickSummary    = "QUICK SUMMARY:"
	MarkerDetailedSummary = "DETAILED SUMMARY:"
	MarkerKeyDecisions    = "KEY DECISIONS:"
	MarkerActionItems     = "ACTION ITEMS:"
	MarkerBlockers        = "BLOCKERS:"
)

// ErrInvalidFormat marks model output that lacks the mandatory section
// markers.
var ErrInvalidFormat = errors.New("generated notes missing required sections")

// Generator produces meeting notes from a transcript in a single
// blocking request.
type Generator interface {
	Generate(ctx context.Context, transcript string) (string, error)
}

// Validate checks that note text carries both mandatory markers.
func Validate(noteText string) error {
	if !strings.Contains(noteText, MarkerQuickSummary) ||
		!strings.Contains(noteText, MarkerDetailedSummary) {
		return ErrInvalidFormat
	}
	return nil
}
