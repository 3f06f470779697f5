// Package dump renders command trees for inspection.
//
// The tree format prints one line per node from an in-order walk and reports
// structural problems in place instead of failing, so it can be pointed at
// hand-built or damaged trees.
package dump

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/josephlewis42/parsley/core/shell"
	"sigs.k8s.io/yaml"
)

// Format selects how a tree is rendered.
type Format string

const (
	FormatTree Format = "tree"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Formats lists the accepted format names.
var Formats = []string{string(FormatTree), string(FormatYAML), string(FormatJSON)}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if s == f {
			return Format(s), nil
		}
	}
	return "", fmt.Errorf("unknown format %q, expected one of %s", s, strings.Join(Formats, ", "))
}

// Dumper writes trees to an output stream.
type Dumper struct {
	w      io.Writer
	format Format
	color  ColorPrinter
}

// New creates a Dumper. An empty format means FormatTree.
func New(w io.Writer, format Format, color ColorPrinter) *Dumper {
	if format == "" {
		format = FormatTree
	}
	return &Dumper{w: w, format: format, color: color}
}

// Dump renders n. A nil tree renders nothing.
func (d *Dumper) Dump(n *shell.Node) error {
	if n == nil {
		return nil
	}

	switch d.format {
	case FormatTree:
		_, err := io.WriteString(d.w, Tree(n, d.color))
		return err

	case FormatJSON:
		out, err := json.MarshalIndent(View(n), "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(d.w, "%s\n", out)
		return err

	case FormatYAML:
		out, err := yaml.Marshal(View(n))
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(d.w, "---\n%s", out)
		return err

	default:
		return fmt.Errorf("unknown format %q", d.format)
	}
}
