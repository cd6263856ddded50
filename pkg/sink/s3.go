package sink

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/golang/snappy"

	"github.com/dd0wney/cluso-deepwalk/pkg/corpus"
	"github.com/dd0wney/cluso-deepwalk/pkg/source"
)

type s3Sink struct {
	ctx    context.Context
	client source.S3API
	bucket string
	key    string

	buf    bytes.Buffer
	snappy *snappy.Writer
	writer *corpus.Writer
	closed bool
}

// NewS3Sink buffers walks in memory and uploads them as a single object
// when closed. ctx governs the upload.
func NewS3Sink(ctx context.Context, client source.S3API, bucket, key string, compress bool) Sink {
	s := &s3Sink{ctx: ctx, client: client, bucket: bucket, key: key}
	var w io.Writer = &s.buf
	if compress {
		s.snappy = snappy.NewBufferedWriter(&s.buf)
		w = s.snappy
	}
	s.writer = corpus.NewWriter(w)
	return s
}

func (s *s3Sink) Write(walk []uint64) error {
	if s.closed {
		return ErrClosed
	}
	return s.writer.WriteWalk(walk)
}

func (s *s3Sink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.writer.Flush(); err != nil {
		return err
	}
	if s.snappy != nil {
		if err := s.snappy.Close(); err != nil {
			return err
		}
	}

	_, err := s.client.PutObject(s.ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key),
		Body:          bytes.NewReader(s.buf.Bytes()),
		ContentLength: aws.Int64(int64(s.buf.Len())),
		ContentType:   aws.String("text/plain"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload s3://%s/%s: %w", s.bucket, s.key, err)
	}
	return nil
}
