package transcribe

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	transcribesvc "github.com/aws/aws-sdk-go-v2/service/transcribe"
	transcribetypes "github.com/aws/aws-sdk-go-v2/service/transcribe/types"
)

// TranscribeAPI is the slice of the AWS Transcribe client we depend on.
type TranscribeAPI interface {
	StartTranscriptionJob(ctx context.Context, in *transcribesvc.StartTranscriptionJobInput, opts ...func(*transcribesvc.Options)) (*transcribesvc.StartTranscriptionJobOutput, error)
	GetTranscriptionJob(ctx context.Context, in *transcribesvc.GetTranscriptionJobInput, opts ...func(*transcribesvc.Options)) (*transcribesvc.GetTranscriptionJobOutput, error)
}

// AWSClient runs transcription jobs on AWS Transcribe. Media is read
// from and the transcript written to the same bucket the artifact store
// uses, so the coordinator's path convention carries over unchanged.
type AWSClient struct {
	api          TranscribeAPI
	bucket       string
	languageCode string
	maxSpeakers  int32
}

func NewAWSClient(api TranscribeAPI, bucket, languageCode string, maxSpeakers int) *AWSClient {
	return &AWSClient{
		api:          api,
		bucket:       bucket,
		languageCode: languageCode,
		maxSpeakers:  int32(maxSpeakers),
	}
}

func (c *AWSClient) Submit(ctx context.Context, videoID, mediaPath, outputPath string) error {
	_, err := c.api.StartTranscriptionJob(ctx, &transcribesvc.StartTranscriptionJobInput{
		TranscriptionJobName: aws.String(JobName(videoID)),
		Media: &transcribetypes.Media{
			MediaFileUri: aws.String(fmt.Sprintf("s3://%s/%s", c.bucket, mediaPath)),
		},
		OutputBucketName: aws.String(c.bucket),
		OutputKey:        aws.String(outputPath),
		LanguageCode:     transcribetypes.LanguageCode(c.languageCode),
		Settings: &transcribetypes.Settings{
			ShowSpeakerLabels: aws.Bool(true),
			MaxSpeakerLabels:  aws.Int32(c.maxSpeakers),
		},
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSubmit, err)
	}
	return nil
}

func (c *AWSClient) PollStatus(ctx context.Context, jobName string) (Status, error) {
	out, err := c.api.GetTranscriptionJob(ctx, &transcribesvc.GetTranscriptionJobInput{
		TranscriptionJobName: aws.String(jobName),
	})
	if err != nil {
		return StatusFailed, fmt.Errorf("get transcription job %s: %w", jobName, err)
	}
	if out.TranscriptionJob == nil {
		return StatusFailed, fmt.Errorf("get transcription job %s: empty response", jobName)
	}
	return mapJobStatus(out.TranscriptionJob.TranscriptionJobStatus), nil
}

func mapJobStatus(s transcribetypes.TranscriptionJobStatus) Status {
	switch s {
	case transcribetypes.TranscriptionJobStatusCompleted:
		return StatusCompleted
	case transcribetypes.TranscriptionJobStatusFailed:
		return StatusFailed
	default:
		// QUEUED and IN_PROGRESS are both still in flight
		return StatusProcessing
	}
}
