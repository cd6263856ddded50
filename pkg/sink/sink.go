// Package sink delivers walks to where a trainer can read them: local
// files, S3 objects or a PUSH socket.
package sink

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dd0wney/cluso-deepwalk/pkg/source"
)

var (
	ErrEmptyLocation = errors.New("empty output location")
	ErrClosed        = errors.New("sink closed")
)

// Sink receives walks one at a time. Close flushes and releases the
// destination; for S3 it is when the object is uploaded.
type Sink interface {
	Write(walk []uint64) error
	Close() error
}

// Options configures remote destinations
type Options struct {
	Source source.Options
	// SendTimeout bounds a single socket send; 0 means DefaultSendTimeout.
	SendTimeout time.Duration
}

var socketSchemes = []string{"tcp://", "ipc://", "inproc://", "ws://"}

// IsSocket reports whether location names a mangos transport address
func IsSocket(location string) bool {
	for _, scheme := range socketSchemes {
		if strings.HasPrefix(location, scheme) {
			return true
		}
	}
	return false
}

// Open picks a sink by location: s3://bucket/key uploads to S3, socket
// addresses get a PUSH socket, anything else is a local file ("-" for
// stdout). File and S3 locations ending in .sz are snappy compressed.
func Open(ctx context.Context, location string, opts Options) (Sink, error) {
	compress := strings.HasSuffix(location, source.SnappySuffix)
	switch {
	case location == "":
		return nil, ErrEmptyLocation
	case source.IsS3(location):
		client := opts.Source.Client
		if client == nil {
			c, err := source.NewS3Client(ctx, opts.Source)
			if err != nil {
				return nil, err
			}
			client = c
		}
		bucket, key, err := source.ParseS3URI(location)
		if err != nil {
			return nil, err
		}
		return NewS3Sink(ctx, client, bucket, key, compress), nil
	case IsSocket(location):
		return NewPushSink(location, opts.SendTimeout)
	default:
		return NewFileSink(location, compress)
	}
}

// Drain writes every walk to s and closes it, returning the first error
func Drain(s Sink, walks [][]uint64) error {
	for _, w := range walks {
		if err := s.Write(w); err != nil {
			s.Close()
			return err
		}
	}
	return s.Close()
}
