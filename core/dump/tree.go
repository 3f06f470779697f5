package dump

import (
	"fmt"
	"strings"

	"github.com/josephlewis42/parsley/core/shell"
)

const continuation = "\n         "

type treePrinter struct {
	sb    strings.Builder
	color ColorPrinter
}

// Tree renders n in the classic tree layout.
func Tree(n *shell.Node, color ColorPrinter) string {
	tp := &treePrinter{color: color}
	tp.node(n, 0)
	return tp.sb.String()
}

func (tp *treePrinter) printf(format string, a ...interface{}) {
	fmt.Fprintf(&tp.sb, format, a...)
}

func (tp *treePrinter) kind(name string) {
	tp.sb.WriteString(tp.color.Sprintf(ColorBoldCyan, "%s", name))
}

func (tp *treePrinter) anomaly(msg string) {
	tp.sb.WriteString("  " + tp.color.Sprintf(ColorBoldRed, "%s", msg))
}

func (tp *treePrinter) node(n *shell.Node, depth int) {
	if n == nil {
		return
	}

	tp.node(n.Left, depth+1)

	tp.printf("CMD (Depth = %d):  ", depth)

	switch {
	case n.Kind == shell.KindSimple:
		switch {
		case n.Left != nil:
			tp.anomaly("SIMPLE HAS LEFT CHILD")
		case n.Right != nil:
			tp.anomaly("SIMPLE HAS RIGHT CHILD")
		default:
			tp.kind("SIMPLE")
			tp.args(n)
			tp.redirects(n)
		}

	case len(n.Argv) > 0:
		tp.anomaly("NON-SIMPLE HAS ARGUMENTS")

	case n.Kind == shell.KindSubcommand:
		switch {
		case n.Right != nil:
			tp.anomaly("SUBCMD HAS RIGHT CHILD")
		case n.Left == nil:
			tp.anomaly("SUBCMD HAS NO LEFT CHILD")
		default:
			tp.kind("SUBCMD")
			tp.redirects(n)
		}

	case hasRedirect(n):
		tp.anomaly("NON-SIMPLE, NON-SUBCMD HAS I/O REDIRECTION")

	case len(n.Locals) > 0:
		tp.anomaly("NON-SIMPLE, NON-SUBCMD HAS LOCAL VARIABLES")

	case n.Kind.Valid():
		tp.kind(n.Kind.String())

	default:
		tp.anomaly("NODE HAS INVALID TYPE")
	}

	tp.sb.WriteByte('\n')

	tp.node(n.Right, depth+1)
}

func hasRedirect(n *shell.Node) bool {
	return n.Stdin != (shell.StdinRedirect{}) ||
		n.Stdout != (shell.StdoutRedirect{}) ||
		n.Stderr != (shell.StderrRedirect{})
}

func (tp *treePrinter) args(n *shell.Node) {
	if len(n.Argv) == 0 {
		tp.anomaly("ARGV IS EMPTY")
		return
	}
	for i, arg := range n.Argv {
		tp.printf(",  argv[%d] = %s", i, tp.color.Sprintf(ColorGreen, "%s", arg))
	}
}

func (tp *treePrinter) redirect(format string, a ...interface{}) {
	tp.sb.WriteString("  " + tp.color.Sprintf(ColorYellow, format, a...))
}

func (tp *treePrinter) redirects(n *shell.Node) {
	switch in := n.Stdin; {
	case in == (shell.StdinRedirect{}):
	case in.Mode == shell.StdinFile && in.Source != "":
		tp.redirect("<%s", in.Source)
	case in.Mode == shell.StdinHereDoc:
		tp.redirect("<<HERE")
	default:
		tp.anomaly("ILLEGAL INPUT REDIRECTION")
	}

	switch out := n.Stdout; {
	case out == (shell.StdoutRedirect{}):
	case out.Mode == shell.StdoutFile && out.Path != "":
		tp.redirect(">%s", out.Path)
	case out.Mode == shell.StdoutAppend && out.Path != "":
		tp.redirect(">>%s", out.Path)
	case out.Mode == shell.StdoutBoth && out.Path != "":
		tp.redirect("&>%s", out.Path)
	default:
		tp.anomaly("ILLEGAL OUTPUT REDIRECTION")
	}

	// The stderr half of ‘&>’ has no path of its own.
	switch errOut := n.Stderr; {
	case errOut == (shell.StderrRedirect{}):
	case errOut.Mode == shell.StderrFile && errOut.Path != "":
		tp.redirect("2>%s", errOut.Path)
	case errOut.Mode == shell.StderrAppend && errOut.Path != "":
		tp.redirect("2>>%s", errOut.Path)
	case errOut.Mode == shell.StderrBoth && errOut.Path == "" && n.Stdout.Mode == shell.StdoutBoth:
		tp.redirect("&>%s", n.Stdout.Path)
	default:
		tp.anomaly("ILLEGAL ERROR REDIRECTION")
	}

	tp.locals(n.Locals)

	if n.Stdin.Mode == shell.StdinHereDoc {
		tp.hereDoc(n.Stdin.Source)
	}
}

func (tp *treePrinter) locals(locals []shell.Local) {
	if len(locals) == 0 {
		return
	}
	for _, l := range locals {
		if l.Name == "" {
			tp.anomaly("INVALID LOCAL")
			return
		}
	}

	tp.sb.WriteString(continuation + "LOCAL: ")
	for _, l := range locals {
		if strings.Contains(l.Value, "=") {
			tp.printf("%s = %s, ", l.Name, l.Value)
		} else {
			tp.printf("%s=%s, ", l.Name, l.Value)
		}
	}
}

func (tp *treePrinter) hereDoc(body string) {
	tp.sb.WriteString(continuation + "HERE:  ")
	for i, r := range body {
		switch {
		case r != '\n':
			tp.sb.WriteRune(r)
		case i+1 < len(body):
			tp.sb.WriteString(continuation + "HERE:  ")
		default:
			tp.sb.WriteString("<newline>")
		}
	}
}
