package shell

import "strings"

// HereDocDelimiter is written in place of here-document bodies by Format,
// which can't put a body back on a single line.
const HereDocDelimiter = "EOF"

// Format rebuilds a command line that parses back into an equivalent tree.
// Words are escaped with ‘\’ where the lexer would otherwise split or drop
// them. A nil node formats as the empty string.
func Format(n *Node) string {
	var sb strings.Builder
	format(&sb, n)
	return sb.String()
}

func format(sb *strings.Builder, n *Node) {
	if n == nil {
		return
	}

	switch n.Kind {
	case KindSimple:
		words := make([]string, 0, len(n.Locals)+len(n.Argv))
		words = append(words, formatLocals(n.Locals)...)
		for _, arg := range n.Argv {
			words = append(words, Quote(arg))
		}
		sb.WriteString(strings.Join(words, " "))
		formatRedirects(sb, n)

	case KindSubcommand:
		for _, l := range formatLocals(n.Locals) {
			sb.WriteString(l)
			sb.WriteByte(' ')
		}
		sb.WriteString("( ")
		format(sb, n.Left)
		sb.WriteString(" )")
		formatRedirects(sb, n)

	case KindPipe:
		formatInfix(sb, n, "|")
	case KindAnd:
		formatInfix(sb, n, "&&")
	case KindOr:
		formatInfix(sb, n, "||")
	case KindSeqEnd:
		formatInfix(sb, n, ";")
	case KindSeqBg:
		formatInfix(sb, n, "&")
	}
}

func formatInfix(sb *strings.Builder, n *Node, op string) {
	format(sb, n.Left)
	sb.WriteString(" " + op)
	if n.Right != nil {
		sb.WriteByte(' ')
		format(sb, n.Right)
	}
}

func formatLocals(locals []Local) []string {
	out := make([]string, 0, len(locals))
	for _, l := range locals {
		out = append(out, l.Name+"="+Quote(l.Value))
	}
	return out
}

func formatRedirects(sb *strings.Builder, n *Node) {
	switch n.Stdin.Mode {
	case StdinFile:
		sb.WriteString(" < " + Quote(n.Stdin.Source))
	case StdinHereDoc:
		sb.WriteString(" << " + HereDocDelimiter)
	}

	switch n.Stdout.Mode {
	case StdoutFile:
		sb.WriteString(" > " + Quote(n.Stdout.Path))
	case StdoutAppend:
		sb.WriteString(" >> " + Quote(n.Stdout.Path))
	case StdoutBoth:
		sb.WriteString(" &> " + Quote(n.Stdout.Path))
	}

	switch n.Stderr.Mode {
	case StderrFile:
		sb.WriteString(" 2> " + Quote(n.Stderr.Path))
	case StderrAppend:
		sb.WriteString(" 2>> " + Quote(n.Stderr.Path))
	}
}

// Quote escapes s so the lexer reads it back as a single TEXT token.
func Quote(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := rune(s[i])
		if c == '\\' || c == '#' || isMetachar(c) || isSpace(c) {
			sb.WriteByte('\\')
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}
