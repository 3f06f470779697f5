package shell

import "fmt"

// Kind is the type of a command tree node.
type Kind int

const (
	KindSimple Kind = iota
	KindSubcommand
	KindPipe
	KindAnd
	KindOr
	KindSeqEnd
	KindSeqBg
)

var kindNames = map[Kind]string{
	KindSimple:     "SIMPLE",
	KindSubcommand: "SUBCMD",
	KindPipe:       "PIPE",
	KindAnd:        "SEP_AND",
	KindOr:         "SEP_OR",
	KindSeqEnd:     "SEP_END",
	KindSeqBg:      "SEP_BG",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// Local is a NAME=VALUE assignment scoped to one stage.
type Local struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type StdinMode int

const (
	StdinNone    StdinMode = iota
	StdinFile              // <
	StdinHereDoc           // <<
)

// StdinRedirect describes where standard input comes from. Source is a path
// for StdinFile and the document body for StdinHereDoc.
type StdinRedirect struct {
	Mode   StdinMode
	Source string
}

type StdoutMode int

const (
	StdoutNone   StdoutMode = iota
	StdoutFile              // >
	StdoutAppend            // >>
	StdoutBoth              // &>
)

// StdoutRedirect describes where standard output goes.
type StdoutRedirect struct {
	Mode StdoutMode
	Path string
}

type StderrMode int

const (
	StderrNone   StderrMode = iota
	StderrFile              // 2>
	StderrAppend            // 2>>
	StderrBoth              // &>, the path is kept on the stdout side
)

// StderrRedirect describes where standard error goes.
type StderrRedirect struct {
	Mode StderrMode
	Path string
}

// Node is a command tree node.
//
// Simple nodes carry Argv and have no children. Subcommand nodes hold the
// nested command in Left. Pipe, And, Or and infix SeqEnd/SeqBg nodes have both
// children; a trailing terminator is a SeqEnd/SeqBg node with only Left.
// Locals and redirects are only meaningful on Simple and Subcommand nodes.
type Node struct {
	Kind   Kind
	Argv   []string
	Locals []Local
	Stdin  StdinRedirect
	Stdout StdoutRedirect
	Stderr StderrRedirect
	Left   *Node
	Right  *Node

	tracker Tracker
}

// Tracker observes node lifetimes, it's used to check that a parse releases
// everything it allocates.
type Tracker interface {
	NodeAllocated(n *Node)
	NodeReleased(n *Node)
}

func newNode(kind Kind, t Tracker) *Node {
	n := &Node{Kind: kind, tracker: t}
	if t != nil {
		t.NodeAllocated(n)
	}
	return n
}

// Release tears down the tree rooted at n. Releasing a nil or already
// released node does nothing.
func (n *Node) Release() {
	if n == nil {
		return
	}

	left, right, t := n.Left, n.Right, n.tracker
	*n = Node{Kind: n.Kind}
	left.Release()
	right.Release()

	if t != nil {
		t.NodeReleased(n)
	}
}

// Count returns the number of nodes in the tree rooted at n.
func (n *Node) Count() int {
	if n == nil {
		return 0
	}
	return 1 + n.Left.Count() + n.Right.Count()
}

// Walk calls fn for every node in the tree in pre-order.
func (n *Node) Walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	n.Left.Walk(fn)
	n.Right.Walk(fn)
}

func (n *Node) setRedirect(op Token, target string) error {
	switch op.Kind {
	case TokRedirectIn, TokRedirectInHere:
		if n.Stdin.Mode != StdinNone {
			return &SemanticError{Msg: "multiple input redirects"}
		}
		n.Stdin = StdinRedirect{Mode: StdinFile, Source: target}
		if op.Kind == TokRedirectInHere {
			n.Stdin.Mode = StdinHereDoc
		}

	case TokRedirectOut, TokRedirectOutAppend:
		if n.Stdout.Mode != StdoutNone {
			return &SemanticError{Msg: "multiple output redirects"}
		}
		n.Stdout = StdoutRedirect{Mode: StdoutFile, Path: target}
		if op.Kind == TokRedirectOutAppend {
			n.Stdout.Mode = StdoutAppend
		}

	case TokRedirectErr, TokRedirectErrAppend:
		if n.Stderr.Mode != StderrNone {
			return &SemanticError{Msg: "multiple error redirects"}
		}
		n.Stderr = StderrRedirect{Mode: StderrFile, Path: target}
		if op.Kind == TokRedirectErrAppend {
			n.Stderr.Mode = StderrAppend
		}

	case TokRedirectOutErr:
		switch {
		case n.Stdout.Mode != StdoutNone:
			return &SemanticError{Msg: "multiple output redirects"}
		case n.Stderr.Mode != StderrNone:
			return &SemanticError{Msg: "multiple error redirects"}
		}
		n.Stdout = StdoutRedirect{Mode: StdoutBoth, Path: target}
		n.Stderr = StderrRedirect{Mode: StderrBoth}

	default:
		panic("unreachable")
	}

	return nil
}
