package corpus

import (
	"bufio"
	"io"
	"strconv"
)

// AppendWalk appends w to dst as space-separated decimal IDs followed by a
// newline.
func AppendWalk(dst []byte, w []uint64) []byte {
	for i, v := range w {
		if i > 0 {
			dst = append(dst, ' ')
		}
		dst = strconv.AppendUint(dst, v, 10)
	}
	return append(dst, '\n')
}

// Writer writes walks one per line, the sentence layout word2vec-style
// trainers read.
type Writer struct {
	w       *bufio.Writer
	scratch []byte
}

// NewWriter wraps w in a buffered walk writer
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriterSize(w, 256*1024)}
}

// WriteWalk buffers a single walk
func (cw *Writer) WriteWalk(w []uint64) error {
	cw.scratch = AppendWalk(cw.scratch[:0], w)
	_, err := cw.w.Write(cw.scratch)
	return err
}

// Flush writes any buffered data to the underlying writer
func (cw *Writer) Flush() error {
	return cw.w.Flush()
}
