package shell

import (
	"errors"
	"fmt"
)

// Parser turns command lines into command trees.
//
// Here-document bodies are read from Source, the same ordered stream the
// command lines come from. A nil Source behaves like an empty stream.
type Parser struct {
	Source  LineSource
	Tracker Tracker
}

// Parse parses one command line read with src as the here-document source.
func Parse(line string, src LineSource) (*Node, error) {
	p := Parser{Source: src}
	return p.Parse(line)
}

// Parse parses a single newline-stripped line. An empty or comment-only line
// returns a nil node and a nil error. On failure no part of the tree survives.
func (p *Parser) Parse(line string) (*Node, error) {
	tokens, err := Tokenize(line)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, nil
	}

	ps := &parseState{
		tokens:   tokens,
		src:      p.Source,
		tracker:  p.Tracker,
		heredocs: make(map[int]string),
	}

	root, err := ps.parseCommand()
	if err != nil {
		return nil, err
	}
	if tok, ok := ps.peek(); ok {
		root.Release()
		return nil, ps.syntaxError("unexpected token", tok)
	}
	return root, nil
}

// parseState is the cursor over one line's tokens. The heredocs memo is keyed
// by the index of the ‘<<’ token so a backtracked prefix reuses the body
// instead of reading the shared input again.
type parseState struct {
	tokens   []Token
	pos      int
	src      LineSource
	tracker  Tracker
	heredocs map[int]string
}

func (ps *parseState) peek() (Token, bool) {
	if ps.pos >= len(ps.tokens) {
		return Token{}, false
	}
	return ps.tokens[ps.pos], true
}

// peekKind reports whether the next token has one of the given kinds.
func (ps *parseState) peekKind(kinds ...TokenKind) bool {
	tok, ok := ps.peek()
	if !ok {
		return false
	}
	for _, k := range kinds {
		if tok.Kind == k {
			return true
		}
	}
	return false
}

// atBoundary reports whether the cursor is at the end of the line or at a
// closing parenthesis, where no operand can start.
func (ps *parseState) atBoundary(offset int) bool {
	i := ps.pos + offset
	return i >= len(ps.tokens) || ps.tokens[i].Kind == TokParenRight
}

func (ps *parseState) next() Token {
	tok := ps.tokens[ps.pos]
	ps.pos++
	return tok
}

func (ps *parseState) syntaxError(msg string, near Token) *SyntaxError {
	return &SyntaxError{Msg: msg, Near: &near}
}

// syntaxErrorHere reports msg against the current token, or the end of line.
func (ps *parseState) syntaxErrorHere(msg string) *SyntaxError {
	if tok, ok := ps.peek(); ok {
		return ps.syntaxError(msg, tok)
	}
	return &SyntaxError{Msg: msg}
}

// command = sequence [';' | '&']
func (ps *parseState) parseCommand() (*Node, error) {
	seq, err := ps.parseSequence()
	if err != nil {
		return nil, err
	}

	if !ps.peekKind(TokSeqEnd, TokSeqBg) {
		return seq, nil
	}

	kind := KindSeqEnd
	if ps.next().Kind == TokSeqBg {
		kind = KindSeqBg
	}
	term := newNode(kind, ps.tracker)
	term.Left = seq
	return term, nil
}

// sequence = and-or ((';'|'&') and-or)*
//
// A separator followed by the end of line or ‘)’ is left for parseCommand.
func (ps *parseState) parseSequence() (*Node, error) {
	return ps.fold(ps.parseAndOr, func() (Kind, bool) {
		switch {
		case ps.atBoundary(1):
			return 0, false
		case ps.peekKind(TokSeqEnd):
			return KindSeqEnd, true
		case ps.peekKind(TokSeqBg):
			return KindSeqBg, true
		}
		return 0, false
	})
}

// and-or = pipeline (('&&'|'||') pipeline)*
func (ps *parseState) parseAndOr() (*Node, error) {
	return ps.fold(ps.parsePipeline, func() (Kind, bool) {
		switch {
		case ps.peekKind(TokAnd):
			return KindAnd, true
		case ps.peekKind(TokOr):
			return KindOr, true
		}
		return 0, false
	})
}

// pipeline = stage ('|' stage)*
func (ps *parseState) parsePipeline() (*Node, error) {
	return ps.fold(ps.parseStage, func() (Kind, bool) {
		return KindPipe, ps.peekKind(TokPipe)
	})
}

// fold builds a left-leaning tree for one binary level. op reports whether
// the next token is an operator at this level and the node kind it makes.
func (ps *parseState) fold(operand func() (*Node, error), op func() (Kind, bool)) (*Node, error) {
	acc, err := operand()
	if err != nil {
		return nil, err
	}

	ok := false
	defer func() {
		if !ok {
			acc.Release()
		}
	}()

	for {
		kind, more := op()
		if !more {
			break
		}
		opTok := ps.next()
		if ps.atBoundary(0) {
			return nil, ps.syntaxErrorHere("dangling operator " + opTok.Text)
		}

		rhs, err := operand()
		if err != nil {
			return nil, err
		}
		n := newNode(kind, ps.tracker)
		n.Left, n.Right = acc, rhs
		acc = n
	}

	ok = true
	return acc, nil
}

// stage = simple | subcmd
func (ps *parseState) parseStage() (*Node, error) {
	start := ps.pos
	n, err := ps.parseSimple()
	if !errors.Is(err, errTrySubcommand) {
		return n, err
	}

	ps.pos = start
	return ps.parseSubcommand()
}

// simple = prefix TEXT suffix
func (ps *parseState) parseSimple() (*Node, error) {
	n := newNode(KindSimple, ps.tracker)
	ok := false
	defer func() {
		if !ok {
			n.Release()
		}
	}()

	if err := ps.parsePrefix(n); err != nil {
		return nil, err
	}

	tok, more := ps.peek()
	switch {
	case !more:
		return nil, &SyntaxError{Msg: "empty command"}
	case tok.Kind == TokParenLeft:
		return nil, errTrySubcommand
	case tok.Kind != TokText:
		return nil, ps.syntaxError("no command word", tok)
	}
	n.Argv = append(n.Argv, ps.next().Text)

	// suffix = (TEXT | redirect)*
	for {
		tok, more := ps.peek()
		switch {
		case !more:
		case tok.Kind == TokText:
			n.Argv = append(n.Argv, ps.next().Text)
			continue
		case tok.Kind.IsRedirect():
			if err := ps.parseRedirect(n); err != nil {
				return nil, err
			}
			continue
		}
		break
	}

	ok = true
	return n, nil
}

// subcmd = prefix '(' command ')' redirect*
func (ps *parseState) parseSubcommand() (*Node, error) {
	n := newNode(KindSubcommand, ps.tracker)
	ok := false
	defer func() {
		if !ok {
			n.Release()
		}
	}()

	if err := ps.parsePrefix(n); err != nil {
		return nil, err
	}
	if !ps.peekKind(TokParenLeft) {
		return nil, ps.syntaxErrorHere("expected (")
	}
	ps.next()

	inner, err := ps.parseCommand()
	if err != nil {
		return nil, err
	}
	n.Left = inner

	if !ps.peekKind(TokParenRight) {
		return nil, ps.syntaxErrorHere("expected )")
	}
	ps.next()

	for {
		tok, more := ps.peek()
		if !more || !tok.Kind.IsRedirect() {
			break
		}
		if err := ps.parseRedirect(n); err != nil {
			return nil, err
		}
	}

	if tok, more := ps.peek(); more && (tok.Kind == TokText || tok.Kind == TokParenLeft) {
		return nil, ps.syntaxError("invalid token after subcommand", tok)
	}

	ok = true
	return n, nil
}

// prefix = (local | redirect)*
func (ps *parseState) parsePrefix(n *Node) error {
	for {
		tok, more := ps.peek()
		if !more {
			return nil
		}

		switch {
		case tok.Kind.IsRedirect():
			if err := ps.parseRedirect(n); err != nil {
				return err
			}
		case tok.Kind == TokText:
			local, isLocal := parseLocal(tok.Text)
			if !isLocal {
				return nil
			}
			ps.next()
			n.Locals = append(n.Locals, local)
		default:
			return nil
		}
	}
}

// redirect = red-op TEXT
func (ps *parseState) parseRedirect(n *Node) error {
	opIndex := ps.pos
	op := ps.next()

	target, more := ps.peek()
	if !more || target.Kind != TokText {
		return ps.syntaxErrorHere("missing filename after " + op.Text)
	}
	ps.next()

	value := target.Text
	if op.Kind == TokRedirectInHere {
		body, err := ps.hereDoc(opIndex, target.Text)
		if err != nil {
			return err
		}
		value = body
	}

	return n.setRedirect(op, value)
}

func (ps *parseState) hereDoc(opIndex int, delim string) (string, error) {
	if body, ok := ps.heredocs[opIndex]; ok {
		return body, nil
	}

	body, err := ReadHereDoc(delim, ps.src)
	if err != nil {
		return "", fmt.Errorf("reading here-document %q: %w", delim, err)
	}
	ps.heredocs[opIndex] = body
	return body, nil
}

// parseLocal splits NAME=VALUE. NAME must be non-empty and only hold letters,
// digits and underscores.
func parseLocal(word string) (Local, bool) {
	for i, r := range word {
		switch {
		case r == '=':
			if i == 0 {
				return Local{}, false
			}
			return Local{Name: word[:i], Value: word[i+1:]}, true
		case r == '_',
			'a' <= r && r <= 'z',
			'A' <= r && r <= 'Z',
			'0' <= r && r <= '9':
		default:
			return Local{}, false
		}
	}
	return Local{}, false
}
