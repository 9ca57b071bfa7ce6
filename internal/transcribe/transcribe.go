package transcribe

import (
	"context"
	"errors"
)

// Status is the lifecycle state of a transcription job as the rest of
// the system sees it. Remote job states collapse onto these three.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether the job will not transition further.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// ErrSubmit marks a rejected job submission.
var ErrSubmit = errors.New("transcription job rejected")

// JobName derives the remote job name for a video. Submission and
// polling both go through this so the status of any video can be
// re-queried without persisting a job handle.
func JobName(videoID string) string {
	return "transcription-" + videoID
}

// Client submits transcription jobs and reports their status.
// Submission is acceptance only; completion is observed via PollStatus,
// which is a side-effect-free read safe to call repeatedly.
type Client interface {
	Submit(ctx context.Context, videoID, mediaPath, outputPath string) error
	PollStatus(ctx context.Context, jobName string) (Status, error)
}
