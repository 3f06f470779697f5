package shell

import (
	"errors"
	"fmt"
)

// LexError is reported when a line can't be split into tokens.
type LexError struct {
	Offset int // Byte offset in the line where the error was detected
	Msg    string
}

func (e *LexError) Error() string {
	return e.Msg
}

// SyntaxError is reported when the token sequence doesn't match the grammar.
type SyntaxError struct {
	Msg  string
	Near *Token // Offending token, nil at end of line
}

func (e *SyntaxError) Error() string {
	if e.Near == nil {
		return e.Msg + " at end of line"
	}
	return fmt.Sprintf("%s near %s", e.Msg, e.Near)
}

// SemanticError is reported when a well-formed stage can't be built, such as
// a second redirect on the same channel.
type SemanticError struct {
	Msg string
}

func (e *SemanticError) Error() string {
	return e.Msg
}

// ErrorClass names the class of a parse failure for logs and reports.
func ErrorClass(err error) string {
	var (
		lexErr      *LexError
		syntaxErr   *SyntaxError
		semanticErr *SemanticError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &lexErr):
		return "lex"
	case errors.As(err, &syntaxErr):
		return "syntax"
	case errors.As(err, &semanticErr):
		return "semantic"
	default:
		return "io"
	}
}

// errTrySubcommand is a soft failure: the simple command parser stopped at a
// ‘(’ after its prefix, so the stage may still be a subcommand.
var errTrySubcommand = errors.New("not a simple command")
