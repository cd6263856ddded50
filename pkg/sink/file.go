package sink

import (
	"fmt"
	"io"
	"os"

	"github.com/golang/snappy"

	"github.com/dd0wney/cluso-deepwalk/pkg/corpus"
)

type fileSink struct {
	path   string
	file   io.WriteCloser
	snappy *snappy.Writer
	writer *corpus.Writer
	closed bool
}

// NewFileSink creates (or truncates) path and writes one walk per line.
// With compress set the lines are wrapped in snappy stream framing.
// The path "-" writes to stdout and leaves it open on Close.
func NewFileSink(path string, compress bool) (Sink, error) {
	var file io.WriteCloser
	if path == "-" {
		file = nopWriteCloser{os.Stdout}
	} else {
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", path, err)
		}
		file = f
	}

	s := &fileSink{path: path, file: file}
	if compress {
		s.snappy = snappy.NewBufferedWriter(file)
		s.writer = corpus.NewWriter(s.snappy)
	} else {
		s.writer = corpus.NewWriter(file)
	}
	return s, nil
}

func (s *fileSink) Write(walk []uint64) error {
	if s.closed {
		return ErrClosed
	}
	return s.writer.WriteWalk(walk)
}

func (s *fileSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	err := s.writer.Flush()
	if s.snappy != nil {
		if cerr := s.snappy.Close(); err == nil {
			err = cerr
		}
	}
	if cerr := s.file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to finish %s: %w", s.path, err)
	}
	return nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
