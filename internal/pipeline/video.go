package pipeline

import (
	"time"

	"github.com/meetscribe/meeting-notes/internal/transcribe"
)

// Video is one uploaded recording with its derived lifecycle status.
// The id is assigned at upload, never changes, and is the join key for
// every artifact path. Notes is populated only after a successful
// FetchNotes while the video is completed; the backing store may hold
// cached notes before this field reflects them.
type Video struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	UploadDate time.Time         `json:"uploadDate"`
	Status     transcribe.Status `json:"status"`
	Notes      string            `json:"notes,omitempty"`
}
