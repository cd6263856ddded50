package sink

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/golang/snappy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol/pull"

	"github.com/dd0wney/cluso-deepwalk/pkg/source"
)

var sample = [][]uint64{{1, 2, 3}, {7}, {3, 2, 1, 2}}

const sampleText = "1 2 3\n7\n3 2 1 2\n"

type fakeS3 struct {
	objects map[string][]byte
	fail    error
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, os.ErrNotExist
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func TestFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "walks.txt")

	s, err := NewFileSink(path, false)
	require.NoError(t, err)
	require.NoError(t, Drain(s, sample))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleText, string(data))

	assert.ErrorIs(t, s.Write([]uint64{1}), ErrClosed)
	assert.NoError(t, s.Close(), "second close is a no-op")
}

func TestFileSink_Compressed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "walks.txt.sz")

	s, err := Open(context.Background(), path, Options{})
	require.NoError(t, err)
	require.NoError(t, Drain(s, sample))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	data, err := io.ReadAll(snappy.NewReader(f))
	require.NoError(t, err)
	assert.Equal(t, sampleText, string(data))

	// The source package reads it back transparently.
	rc, err := source.Open(context.Background(), path, source.Options{})
	require.NoError(t, err)
	defer rc.Close()
	data, err = io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, sampleText, string(data))
}

func TestFileSink_BadPath(t *testing.T) {
	_, err := NewFileSink(filepath.Join(t.TempDir(), "missing", "walks.txt"), false)
	assert.Error(t, err)
}

func TestS3Sink(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}}
	opts := Options{Source: source.Options{Client: fake}}

	s, err := Open(context.Background(), "s3://corpora/run-1/walks.txt", opts)
	require.NoError(t, err)
	require.NoError(t, s.Write(sample[0]))
	assert.Empty(t, fake.objects, "nothing is uploaded before Close")
	require.NoError(t, s.Write(sample[1]))
	require.NoError(t, s.Write(sample[2]))
	require.NoError(t, s.Close())

	assert.Equal(t, sampleText, string(fake.objects["corpora/run-1/walks.txt"]))
}

func TestS3Sink_CompressedRoundTrip(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}}
	opts := Options{Source: source.Options{Client: fake}}

	s, err := Open(context.Background(), "s3://corpora/walks.txt.sz", opts)
	require.NoError(t, err)
	require.NoError(t, Drain(s, sample))

	rc, err := source.Open(context.Background(), "s3://corpora/walks.txt.sz", opts.Source)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, sampleText, string(data))
}

func TestS3Sink_UploadError(t *testing.T) {
	boom := errors.New("access denied")
	s := NewS3Sink(context.Background(), &fakeS3{objects: map[string][]byte{}, fail: boom}, "b", "k", false)
	require.NoError(t, s.Write(sample[0]))
	assert.ErrorIs(t, s.Close(), boom)
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(context.Background(), "", Options{})
	assert.ErrorIs(t, err, ErrEmptyLocation)

	fake := &fakeS3{objects: map[string][]byte{}}
	_, err = Open(context.Background(), "s3://bucket-only", Options{Source: source.Options{Client: fake}})
	assert.ErrorIs(t, err, source.ErrInvalidS3URI)
}

func TestIsSocket(t *testing.T) {
	assert.True(t, IsSocket("tcp://127.0.0.1:5555"))
	assert.True(t, IsSocket("inproc://walks"))
	assert.False(t, IsSocket("s3://bucket/key"))
	assert.False(t, IsSocket("walks.txt"))
}

func TestPushSink(t *testing.T) {
	const addr = "inproc://deepwalk-push-test"

	puller, err := pull.NewSocket()
	require.NoError(t, err)
	defer puller.Close()
	require.NoError(t, puller.SetOption(mangos.OptionRecvDeadline, 5*time.Second))
	require.NoError(t, puller.Listen(addr))

	s, err := Open(context.Background(), addr, Options{SendTimeout: 5 * time.Second})
	require.NoError(t, err)

	for _, w := range sample {
		require.NoError(t, s.Write(w))
	}

	var got []string
	for range sample {
		msg, err := puller.Recv()
		require.NoError(t, err)
		got = append(got, string(msg))
	}
	assert.Equal(t, []string{"1 2 3\n", "7\n", "3 2 1 2\n"}, got)

	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Write(sample[0]), ErrClosed)
}
