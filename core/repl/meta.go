package repl

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/anmitsu/go-shlex"
	"github.com/josephlewis42/parsley/core/dump"
	"github.com/josephlewis42/parsley/core/shell"
	"github.com/pborman/getopt/v2"
)

type metaCommand struct {
	usage string
	help  string
	// Split the line into flags, otherwise only rest is filled.
	flags bool
	run   func(s *Session, args []string, rest string)
}

var metaCommands map[string]metaCommand

func init() {
	metaCommands = map[string]metaCommand{
		":help": {
			help: "show this help",
			run:  (*Session).metaHelp,
		},
		":tokens": {
			usage: "LINE",
			help:  "print the tokens of LINE",
			run:   (*Session).metaTokens,
		},
		":fmt": {
			usage: "LINE",
			help:  "parse LINE and print it back in canonical form",
			run:   (*Session).metaFmt,
		},
		":set": {
			usage: "[--format=tree|yaml|json] [--color=always|auto|never]",
			help:  "change how trees are printed, or show the settings",
			flags: true,
			run:   (*Session).metaSet,
		},
		":quit": {
			help: "end the session",
			run: func(s *Session, args []string, rest string) {
				s.quit = true
			},
		},
	}
}

// runMeta handles lines starting with ‘:’. LINE arguments are taken raw from
// the rest of the line so the parser sees exactly what was typed.
func (s *Session) runMeta(line string) {
	line = strings.TrimSpace(line)
	name := line
	if i := strings.IndexFunc(line, isSpace); i >= 0 {
		name = line[:i]
	}
	rest := strings.TrimSpace(line[len(name):])

	cmd, ok := metaCommands[name]
	if !ok {
		fmt.Fprintf(s.Stderr, "parsley: unknown command %s, try :help\n", name)
		return
	}

	var args []string
	if cmd.flags {
		var err error
		if args, err = shlex.Split(line, true); err != nil {
			fmt.Fprintf(s.Stderr, "parsley: %s: %s\n", name, err)
			return
		}
	}
	cmd.run(s, args, rest)
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t'
}

func (s *Session) metaHelp(args []string, rest string) {
	names := []string{":help", ":tokens", ":fmt", ":set", ":quit"}

	w := tabwriter.NewWriter(s.Stdout, 0, 8, 2, ' ', 0)
	for _, name := range names {
		cmd := metaCommands[name]
		fmt.Fprintf(w, "%s %s\t%s\n", name, cmd.usage, cmd.help)
	}
	fmt.Fprintln(w, "Start a line with :: to parse a command beginning with ':'.")
	fmt.Fprintln(w, "Any other line is parsed and printed as a command tree.")
	w.Flush()
}

func (s *Session) metaTokens(args []string, rest string) {
	if err := PrintTokens(s.Stdout, rest); err != nil {
		fmt.Fprintf(s.Stderr, "parsley: %s\n", err)
	}
}

// PrintTokens writes the token stream of line as a table, one token per row.
func PrintTokens(out io.Writer, line string) error {
	tokens, err := shell.Tokenize(line)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 8, 1, ' ', 0)
	for i, tok := range tokens {
		fmt.Fprintf(w, "%d\t%s\t%s\n", i, tok.Kind, tok)
	}
	return w.Flush()
}

func (s *Session) metaFmt(args []string, rest string) {
	root, err := s.parser().Parse(rest)
	if err != nil {
		fmt.Fprintf(s.Stderr, "parsley: %s\n", err)
		return
	}
	defer root.Release()

	fmt.Fprintln(s.Stdout, shell.Format(root))
}

func (s *Session) metaSet(args []string, rest string) {
	opts := getopt.New()
	opts.SetProgram(":set")
	opts.SetParameters("")
	format := opts.EnumLong("format", 'f', dump.Formats, "", "how trees are printed")
	color := opts.EnumLong("color", 'c', dump.ColorModes, "", "when trees are colorized")

	if err := opts.Getopt(args, nil); err != nil {
		fmt.Fprintf(s.Stderr, "parsley: %s\n", err)
		opts.PrintUsage(s.Stderr)
		return
	}
	if opts.NArgs() > 0 {
		fmt.Fprintf(s.Stderr, "parsley: :set: unexpected argument %q\n", opts.Args()[0])
		return
	}

	if *format != "" {
		s.Format = dump.Format(*format)
	}
	if *color != "" {
		s.Color.Mode = dump.ColorMode(*color)
	}

	s.printSettings(s.Stdout)
}

func (s *Session) printSettings(w io.Writer) {
	format := s.Format
	if format == "" {
		format = dump.FormatTree
	}
	mode := s.Color.Mode
	if mode == "" {
		mode = dump.ColorAuto
	}
	fmt.Fprintf(w, "format=%s color=%s\n", format, mode)
}
