package loader

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

const (
	initialLineBuffer = 64 * 1024
	// maxLineLength bounds a single adjacency row; hubs in web graphs can
	// list millions of neighbors.
	maxLineLength = 256 * 1024 * 1024
	// checkEvery is how many lines pass between context checks
	checkEvery = 4096
)

func newLineScanner(r io.Reader) *bufio.Scanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, initialLineBuffer), maxLineLength)
	return s
}

// skipLine reports blank lines and comments. Only a '#' in the first column
// starts a comment; an indented '#' is an ordinary token.
func skipLine(line string) bool {
	return strings.TrimSpace(line) == "" || line[0] == '#'
}

func parseNode(f Format, lineNo int, tok string) (uint64, error) {
	v, err := strconv.ParseUint(tok, 10, 64)
	if err != nil {
		return 0, &ParseError{Format: f, Line: lineNo, Token: tok, Err: err}
	}
	return v, nil
}
