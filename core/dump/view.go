package dump

import "github.com/josephlewis42/parsley/core/shell"

// NodeView is a serializable read-only copy of a tree.
type NodeView struct {
	Kind   string        `json:"kind"`
	Locals []shell.Local `json:"locals,omitempty"`
	Argv   []string      `json:"argv,omitempty"`
	Stdin  *RedirectView `json:"stdin,omitempty"`
	Stdout *RedirectView `json:"stdout,omitempty"`
	Stderr *RedirectView `json:"stderr,omitempty"`
	Left   *NodeView     `json:"left,omitempty"`
	Right  *NodeView     `json:"right,omitempty"`
}

// RedirectView describes one redirected channel. Target is a path, or the
// body for here-documents.
type RedirectView struct {
	Mode   string `json:"mode"`
	Target string `json:"target,omitempty"`
}

var (
	stdinModes  = map[shell.StdinMode]string{shell.StdinFile: "file", shell.StdinHereDoc: "heredoc"}
	stdoutModes = map[shell.StdoutMode]string{shell.StdoutFile: "file", shell.StdoutAppend: "append", shell.StdoutBoth: "both"}
	stderrModes = map[shell.StderrMode]string{shell.StderrFile: "file", shell.StderrAppend: "append", shell.StderrBoth: "both"}
)

func modeName(name string, ok bool) string {
	if !ok {
		return "invalid"
	}
	return name
}

// View copies n into its serializable form.
func View(n *shell.Node) *NodeView {
	if n == nil {
		return nil
	}

	v := &NodeView{
		Kind:   n.Kind.String(),
		Locals: n.Locals,
		Argv:   n.Argv,
		Left:   View(n.Left),
		Right:  View(n.Right),
	}

	if n.Stdin != (shell.StdinRedirect{}) {
		name, ok := stdinModes[n.Stdin.Mode]
		v.Stdin = &RedirectView{Mode: modeName(name, ok), Target: n.Stdin.Source}
	}
	if n.Stdout != (shell.StdoutRedirect{}) {
		name, ok := stdoutModes[n.Stdout.Mode]
		v.Stdout = &RedirectView{Mode: modeName(name, ok), Target: n.Stdout.Path}
	}
	if n.Stderr != (shell.StderrRedirect{}) {
		name, ok := stderrModes[n.Stderr.Mode]
		v.Stderr = &RedirectView{Mode: modeName(name, ok), Target: n.Stderr.Path}
	}

	return v
}
