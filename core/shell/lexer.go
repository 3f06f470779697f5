package shell

import (
	"strings"
	"unicode/utf8"
)

const eof rune = -1

// metachars terminate TEXT tokens and start operators.
const metachars = "<>;&|()"

type lexer struct {
	input  string
	start  int // Start of the current token in input
	pos    int // Cursor position in input
	width  int // Width of the last rune read
	tokens []Token
}

type lexFn func(*lexer) lexFn

// Tokenize splits a single command line into tokens.
//
// An empty or comment-only line yields no tokens and no error.
func Tokenize(line string) ([]Token, error) {
	l := &lexer{input: line}
	for state := lexDefault; state != nil; {
		state = state(l)
	}

	if n := len(l.tokens); n > 0 && l.tokens[n-1].Kind.IsRedirect() {
		return nil, &LexError{Offset: len(line), Msg: "missing filename"}
	}

	depth := 0
	for _, t := range l.tokens {
		switch t.Kind {
		case TokParenLeft:
			depth++
		case TokParenRight:
			depth--
		}
	}
	if depth != 0 {
		return nil, &LexError{Offset: len(line), Msg: "uneven parens"}
	}

	return l.tokens, nil
}

func (l *lexer) emit(k TokenKind, text string) {
	l.tokens = append(l.tokens, Token{Kind: k, Text: text})
	l.start = l.pos
}

func (l *lexer) next() rune {
	var r rune

	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}
	r, l.width = utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += l.width
	return r
}

func (l *lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

// lastRaw returns the input bytes of the last rune read, so invalid UTF-8
// passes through unchanged.
func (l *lexer) lastRaw() string {
	return l.input[l.pos-l.width : l.pos]
}

func (l *lexer) backup() {
	l.pos -= l.width
}

func lexDefault(l *lexer) lexFn {
	for {
		l.start = l.pos
		switch r := l.next(); {
		case r == eof:
			return nil
		case r == '#':
			l.pos = len(l.input)
			return nil
		case isSpace(r):
		case isMetachar(r):
			l.backup()
			return lexOperator
		default:
			l.backup()
			return lexText
		}
	}
}

func lexText(l *lexer) lexFn {
	var sb strings.Builder
	for {
		switch r := l.next(); {
		case r == '\\':
			// A trailing backslash stands for itself.
			if esc := l.next(); esc != eof {
				sb.WriteString(l.lastRaw())
			} else {
				sb.WriteByte('\\')
			}
		case r == eof || r == '#' || isSpace(r) || isMetachar(r):
			l.backup()
			if r == '>' && l.input[l.start:l.pos] == "2" {
				return lexErrRedirect
			}
			l.emit(TokText, sb.String())
			return lexDefault
		default:
			sb.WriteString(l.lastRaw())
		}
	}
}

// lexErrRedirect handles 2> and 2>>, the cursor sits just after the 2.
func lexErrRedirect(l *lexer) lexFn {
	l.next() // Consume ‘>’
	kind := TokRedirectErr
	if l.peek() == '>' {
		l.next()
		kind = TokRedirectErrAppend
	}
	l.emit(kind, l.input[l.start:l.pos])
	return lexDefault
}

func lexOperator(l *lexer) lexFn {
	l.next()
	if r := l.peek(); r != eof {
		pair := l.input[l.start:l.pos] + string(r)
		if kind, ok := operators[pair]; ok {
			l.next()
			l.emit(kind, pair)
			return lexDefault
		}
	}

	single := l.input[l.start:l.pos]
	l.emit(operators[single], single)
	return lexDefault
}

// isSpace matches the ASCII whitespace of the C locale.
func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func isMetachar(r rune) bool {
	return strings.ContainsRune(metachars, r)
}
