package shell

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// LineSource supplies raw input lines in order. Each line keeps its trailing
// newline; the final line of a stream may lack one. io.EOF is returned once
// the stream is exhausted.
type LineSource interface {
	ReadLine() (string, error)
}

// LineReader is a LineSource over an io.Reader.
type LineReader struct {
	r *bufio.Reader
}

var _ LineSource = (*LineReader)(nil)

// NewLineReader creates a LineSource that reads r one line at a time.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{r: bufio.NewReader(r)}
}

// ReadLine implements LineSource.
func (lr *LineReader) ReadLine() (string, error) {
	line, err := lr.r.ReadString('\n')
	switch {
	case err == nil:
		return line, nil
	case errors.Is(err, io.EOF) && line != "":
		return line, nil
	default:
		return "", err
	}
}

// ReadHereDoc accumulates lines from src until one is exactly delim followed
// by a newline, or delim alone as the last line of input. The terminator isn't
// part of the body. Running out of input ends the body without an error.
func ReadHereDoc(delim string, src LineSource) (string, error) {
	if src == nil {
		return "", nil
	}

	var body strings.Builder
	for {
		line, err := src.ReadLine()
		if errors.Is(err, io.EOF) {
			return body.String(), nil
		}
		if err != nil {
			return "", err
		}

		if line == delim+"\n" || line == delim {
			return body.String(), nil
		}
		body.WriteString(line)
	}
}
