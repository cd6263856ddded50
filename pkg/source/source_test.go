package source

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/golang/snappy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string][]byte
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, os.ErrNotExist
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func readAll(t *testing.T, rc io.ReadCloser) string {
	t.Helper()
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(data)
}

func TestParseS3URI(t *testing.T) {
	bucket, key, err := ParseS3URI("s3://graphs/blog/edges.txt")
	require.NoError(t, err)
	assert.Equal(t, "graphs", bucket)
	assert.Equal(t, "blog/edges.txt", key)

	for _, bad := range []string{"graphs/edges", "s3://", "s3://bucket", "s3:///key"} {
		_, _, err := ParseS3URI(bad)
		assert.ErrorIs(t, err, ErrInvalidS3URI, bad)
	}
}

func TestOpen_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edges.txt")
	require.NoError(t, os.WriteFile(path, []byte("1 2\n2 3\n"), 0o644))

	rc, err := Open(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.Equal(t, "1 2\n2 3\n", readAll(t, rc))
}

func TestOpen_SnappyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edges.txt"+SnappySuffix)
	var buf bytes.Buffer
	w := snappy.NewBufferedWriter(&buf)
	_, err := w.Write([]byte("1 2 5\n1 3 1\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	rc, err := Open(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.Equal(t, "1 2 5\n1 3 1\n", readAll(t, rc))
}

func TestOpen_S3(t *testing.T) {
	client := &fakeS3{objects: map[string][]byte{"graphs/karate.adjlist": []byte("1 2 3\n")}}

	rc, err := Open(context.Background(), "s3://graphs/karate.adjlist", Options{Client: client})
	require.NoError(t, err)
	assert.Equal(t, "1 2 3\n", readAll(t, rc))

	_, err = Open(context.Background(), "s3://graphs/missing", Options{Client: client})
	assert.Error(t, err)
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(context.Background(), "", Options{})
	assert.ErrorIs(t, err, ErrEmptyLocation)

	_, err = Open(context.Background(), filepath.Join(t.TempDir(), "nope.txt"), Options{})
	assert.Error(t, err)
}
