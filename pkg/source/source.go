// Package source opens graph inputs from local files, S3 objects or stdin,
// decompressing snappy streams on the way.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/golang/snappy"
	"golang.org/x/exp/mmap"
)

var (
	ErrEmptyLocation = errors.New("empty input location")
	ErrInvalidS3URI  = errors.New("invalid s3 uri")
)

// SnappySuffix marks inputs and outputs that use snappy stream framing.
const SnappySuffix = ".sz"

// S3API is the subset of the S3 client used to fetch and store objects.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Options configures how remote locations are reached.
type Options struct {
	// Region and Endpoint override the default AWS configuration. A custom
	// endpoint switches the client to path-style addressing (MinIO, LocalStack).
	Region   string
	Endpoint string
	// Client replaces the S3 client built from the default credential chain.
	Client S3API
}

// IsS3 reports whether location is an s3:// URI
func IsS3(location string) bool {
	return strings.HasPrefix(location, "s3://")
}

// ParseS3URI splits s3://bucket/key into its parts
func ParseS3URI(uri string) (bucket, key string, err error) {
	if !IsS3(uri) {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidS3URI, uri)
	}
	rest := strings.TrimPrefix(uri, "s3://")
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidS3URI, uri)
	}
	return bucket, key, nil
}

// NewS3Client builds an S3 client from the default credential chain.
func NewS3Client(ctx context.Context, opts Options) (*s3.Client, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// Open returns a reader for location: "-" is stdin, s3://bucket/key is
// fetched from S3, anything else is a local file mapped into memory.
// Locations ending in SnappySuffix are decompressed transparently.
func Open(ctx context.Context, location string, opts Options) (io.ReadCloser, error) {
	if location == "" {
		return nil, ErrEmptyLocation
	}

	var (
		rc  io.ReadCloser
		err error
	)
	switch {
	case location == "-":
		rc = io.NopCloser(os.Stdin)
	case IsS3(location):
		rc, err = openS3(ctx, location, opts)
	default:
		rc, err = openMapped(location)
	}
	if err != nil {
		return nil, err
	}

	if strings.HasSuffix(location, SnappySuffix) {
		return &readCloser{Reader: snappy.NewReader(rc), closer: rc}, nil
	}
	return rc, nil
}

func openS3(ctx context.Context, location string, opts Options) (io.ReadCloser, error) {
	bucket, key, err := ParseS3URI(location)
	if err != nil {
		return nil, err
	}

	client := opts.Client
	if client == nil {
		c, err := NewS3Client(ctx, opts)
		if err != nil {
			return nil, err
		}
		client = c
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", location, err)
	}
	return out.Body, nil
}

func openMapped(path string) (io.ReadCloser, error) {
	m, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return &readCloser{
		Reader: io.NewSectionReader(m, 0, int64(m.Len())),
		closer: m,
	}, nil
}

type readCloser struct {
	io.Reader
	closer io.Closer
}

func (r *readCloser) Close() error {
	return r.closer.Close()
}
