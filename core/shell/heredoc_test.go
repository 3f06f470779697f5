package shell

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadHereDoc(t *testing.T) {
	cases := map[string]struct {
		input    string
		delim    string
		expected string
		rest     string
	}{
		"terminated":           {"hello\nworld\nEOF\n", "EOF", "hello\nworld\n", ""},
		"empty body":           {"EOF\nafter\n", "EOF", "", "after\n"},
		"unterminated":         {"hello\nworld\n", "EOF", "hello\nworld\n", ""},
		"no final newline":     {"hello\nEOF", "EOF", "hello\n", ""},
		"partial last line":    {"hello\nwor", "EOF", "hello\nwor", ""},
		"prefix isn't enough":  {"EOFX\nEOF\n", "EOF", "EOFX\n", ""},
		"indented delimiter":   {"  EOF\nEOF\n", "EOF", "  EOF\n", ""},
		"crlf body":            {"a\r\nb\r\nEOF\nc\n", "EOF", "a\r\nb\r\n", "c\n"},
		"crlf delimiter":       {"x\nEOF\r\ny\nEOF\nz\n", "EOF", "x\nEOF\r\ny\n", "z\n"},
		"trailing space":       {"EOF \nEOF\n", "EOF", "EOF \n", ""},
		"blank lines kept":     {"\n\nEOF\n", "EOF", "\n\n", ""},
		"stops at first match": {"x\nEND\ny\nEND\n", "END", "x\n", "y\n"},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			src := NewLineReader(strings.NewReader(tc.input))
			actual, err := ReadHereDoc(tc.delim, src)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, actual)

			var rest strings.Builder
			for {
				line, err := src.ReadLine()
				if err == io.EOF {
					break
				}
				require.NoError(t, err)
				rest.WriteString(line)
			}
			assert.Equal(t, tc.rest, rest.String())
		})
	}
}

func TestLineReader(t *testing.T) {
	lr := NewLineReader(strings.NewReader("one\ntwo"))

	line, err := lr.ReadLine()
	assert.NoError(t, err)
	assert.Equal(t, "one\n", line)

	line, err = lr.ReadLine()
	assert.NoError(t, err)
	assert.Equal(t, "two", line)

	_, err = lr.ReadLine()
	assert.Equal(t, io.EOF, err)
}
