package store

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubS3 struct {
	putIn   *s3.PutObjectInput
	getErr  error
	getBody []byte
	pages   []*s3.ListObjectsV2Output
	page    int
}

func (s *stubS3) PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	s.putIn = in
	return &s3.PutObjectOutput{}, nil
}

func (s *stubS3) GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(s.getBody))}, nil
}

func (s *stubS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	return &s3.DeleteObjectOutput{}, nil
}

func (s *stubS3) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, opts ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	out := s.pages[s.page]
	s.page++
	return out, nil
}

func TestS3StorePutSendsContentType(t *testing.T) {
	stub := &stubS3{}
	s := NewS3Store(stub, "meetings")

	require.NoError(t, s.Put(context.Background(), "videos/video-1/a.mp4", []byte("media"), "video/mp4"))
	require.NotNil(t, stub.putIn)
	assert.Equal(t, "meetings", aws.ToString(stub.putIn.Bucket))
	assert.Equal(t, "videos/video-1/a.mp4", aws.ToString(stub.putIn.Key))
	assert.Equal(t, "video/mp4", aws.ToString(stub.putIn.ContentType))
}

func TestS3StoreGetReturnsBody(t *testing.T) {
	stub := &stubS3{getBody: []byte("note text")}
	s := NewS3Store(stub, "meetings")

	data, err := s.Get(context.Background(), "notes/video-1/notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "note text", string(data))
}

func TestS3StoreGetMapsNoSuchKey(t *testing.T) {
	stub := &stubS3{getErr: &s3types.NoSuchKey{}}
	s := NewS3Store(stub, "meetings")

	_, err := s.Get(context.Background(), "notes/video-1/notes.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestS3StoreListFollowsContinuation(t *testing.T) {
	now := time.Now()
	stub := &stubS3{pages: []*s3.ListObjectsV2Output{
		{
			Contents: []s3types.Object{
				{Key: aws.String("videos/video-1/a.mp4"), LastModified: &now},
			},
			NextContinuationToken: aws.String("next"),
		},
		{
			Contents: []s3types.Object{
				{Key: aws.String("videos/video-2/b.mp4"), LastModified: &now},
			},
		},
	}}
	s := NewS3Store(stub, "meetings")

	objects, err := s.List(context.Background(), "videos/")
	require.NoError(t, err)
	require.Len(t, objects, 2)
	assert.Equal(t, "videos/video-1/a.mp4", objects[0].Path)
	assert.Equal(t, "videos/video-2/b.mp4", objects[1].Path)
	assert.Equal(t, 2, stub.page)
}
