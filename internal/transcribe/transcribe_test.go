package transcribe

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	transcribesvc "github.com/aws/aws-sdk-go-v2/service/transcribe"
	transcribetypes "github.com/aws/aws-sdk-go-v2/service/transcribe/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAPI struct {
	startIn   *transcribesvc.StartTranscriptionJobInput
	startErr  error
	jobStatus transcribetypes.TranscriptionJobStatus
	getErr    error
}

func (s *stubAPI) StartTranscriptionJob(ctx context.Context, in *transcribesvc.StartTranscriptionJobInput, opts ...func(*transcribesvc.Options)) (*transcribesvc.StartTranscriptionJobOutput, error) {
	s.startIn = in
	if s.startErr != nil {
		return nil, s.startErr
	}
	return &transcribesvc.StartTranscriptionJobOutput{}, nil
}

func (s *stubAPI) GetTranscriptionJob(ctx context.Context, in *transcribesvc.GetTranscriptionJobInput, opts ...func(*transcribesvc.Options)) (*transcribesvc.GetTranscriptionJobOutput, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return &transcribesvc.GetTranscriptionJobOutput{
		TranscriptionJob: &transcribetypes.TranscriptionJob{
			TranscriptionJobStatus: s.jobStatus,
		},
	}, nil
}

func TestJobName(t *testing.T) {
	assert.Equal(t, "transcription-video-1700000000000", JobName("video-1700000000000"))
}

func TestSubmitBuildsJobFromVideoID(t *testing.T) {
	api := &stubAPI{}
	c := NewAWSClient(api, "meeting-bucket", "en-US", 10)

	err := c.Submit(context.Background(), "video-1", "videos/video-1/standup.mp4", "transcripts/video-1/transcript.json")
	require.NoError(t, err)
	require.NotNil(t, api.startIn)

	assert.Equal(t, "transcription-video-1", aws.ToString(api.startIn.TranscriptionJobName))
	assert.Equal(t, "s3://meeting-bucket/videos/video-1/standup.mp4", aws.ToString(api.startIn.Media.MediaFileUri))
	assert.Equal(t, "transcripts/video-1/transcript.json", aws.ToString(api.startIn.OutputKey))
	assert.True(t, aws.ToBool(api.startIn.Settings.ShowSpeakerLabels))
}

func TestSubmitRejectionWrapsErrSubmit(t *testing.T) {
	api := &stubAPI{startErr: errors.New("throttled")}
	c := NewAWSClient(api, "meeting-bucket", "en-US", 10)

	err := c.Submit(context.Background(), "video-1", "videos/video-1/a.mp4", "transcripts/video-1/transcript.json")
	assert.ErrorIs(t, err, ErrSubmit)
}

func TestPollStatusMapping(t *testing.T) {
	tests := []struct {
		remote transcribetypes.TranscriptionJobStatus
		want   Status
	}{
		{transcribetypes.TranscriptionJobStatusCompleted, StatusCompleted},
		{transcribetypes.TranscriptionJobStatusFailed, StatusFailed},
		{transcribetypes.TranscriptionJobStatusInProgress, StatusProcessing},
		{transcribetypes.TranscriptionJobStatusQueued, StatusProcessing},
	}
	for _, tc := range tests {
		t.Run(string(tc.remote), func(t *testing.T) {
			api := &stubAPI{jobStatus: tc.remote}
			c := NewAWSClient(api, "b", "en-US", 10)
			status, err := c.PollStatus(context.Background(), "transcription-video-1")
			require.NoError(t, err)
			assert.Equal(t, tc.want, status)
		})
	}
}

func TestPollStatusTransportError(t *testing.T) {
	api := &stubAPI{getErr: errors.New("connection reset")}
	c := NewAWSClient(api, "b", "en-US", 10)

	status, err := c.PollStatus(context.Background(), "transcription-video-1")
	assert.Error(t, err)
	assert.Equal(t, StatusFailed, status)
}

func TestStatusTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusFailed.Terminal())
	assert.False(t, StatusProcessing.Terminal())
}
