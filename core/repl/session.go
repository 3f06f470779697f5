// Package repl implements the prompt, parse and dump loop.
package repl

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/josephlewis42/parsley/core/config"
	"github.com/josephlewis42/parsley/core/dump"
	"github.com/josephlewis42/parsley/core/logger"
	"github.com/josephlewis42/parsley/core/shell"
)

const DefaultPrompt = "(%d)$ "

// Session reads command lines from a Terminal, parses them and dumps the
// resulting trees. Here-document bodies are read from the same Terminal.
type Session struct {
	Terminal Terminal
	Stdout   io.Writer
	Stderr   io.Writer

	// Prompt renders the prompt for the n-th command.
	Prompt        func(n int) string
	HereDocPrompt string

	Format dump.Format
	Color  dump.ColorPrinter

	// Log receives one event per parsed line, nil disables logging.
	Log   *logger.SessionLogger
	Start logger.SessionStart

	// FinalNewline ends the output with a newline once input runs out so the
	// caller's prompt starts on a fresh line.
	FinalNewline bool

	Tracker shell.Tracker

	commands int
	failures int
	quit     bool
}

// ApplyConfig copies the prompt and output settings from cfg.
func (s *Session) ApplyConfig(cfg *config.Configuration) {
	s.Prompt = cfg.PromptFor
	s.HereDocPrompt = cfg.HereDocPrompt
	s.Format = dump.Format(cfg.Format)
	s.Color.Mode = dump.ColorMode(cfg.Color)
}

func (s *Session) prompt() string {
	if s.Prompt == nil {
		return fmt.Sprintf(DefaultPrompt, s.commands+1)
	}
	return s.Prompt(s.commands + 1)
}

func (s *Session) record(event logger.LogType) {
	if s.Log == nil {
		return
	}
	if err := s.Log.Record(event); err != nil {
		fmt.Fprintf(s.Stderr, "parsley: recording event: %s\n", err)
	}
}

// Commands returns the number of successfully parsed commands.
func (s *Session) Commands() int {
	return s.commands
}

// Failures returns the number of lines that failed to parse.
func (s *Session) Failures() int {
	return s.failures
}

func (s *Session) parser() *shell.Parser {
	return &shell.Parser{
		Source:  &hereDocSource{term: s.Terminal, prompt: s.HereDocPrompt},
		Tracker: s.Tracker,
	}
}

// Run loops until the input is exhausted or :quit is entered. Parse errors
// are reported on Stderr and don't stop the loop.
func (s *Session) Run() error {
	start := s.Start
	s.record(&start)
	defer func() {
		s.record(&logger.SessionEnd{Commands: s.commands, Failures: s.failures})
	}()

	for !s.quit {
		line, err := s.Terminal.Prompt(s.prompt())
		switch {
		case errors.Is(err, io.EOF):
			s.quit = true
			continue

		case errors.Is(err, readline.ErrInterrupt):
			continue

		case err != nil:
			return err
		}

		line, meta := splitMeta(line)
		if meta {
			s.runMeta(line)
			continue
		}

		if err := s.Eval(line); err != nil {
			return err
		}
	}

	if s.FinalNewline {
		fmt.Fprintln(s.Stdout)
	}
	return nil
}

// RunLine evaluates line as a whole session. Here-document bodies are still
// read from the Terminal.
func (s *Session) RunLine(line string) error {
	start := s.Start
	s.record(&start)
	defer func() {
		s.record(&logger.SessionEnd{Commands: s.commands, Failures: s.failures})
	}()

	return s.Eval(line)
}

// Eval parses and dumps a single line. Only failures to write output are
// returned, parse errors are reported on Stderr.
func (s *Session) Eval(line string) error {
	root, err := s.parser().Parse(line)
	if root == nil && err == nil {
		return nil
	}

	event := &logger.Parse{Line: line}
	defer s.record(event)

	if err != nil {
		s.failures++
		event.ErrorClass = shell.ErrorClass(err)
		event.Error = err.Error()
		fmt.Fprintf(s.Stderr, "parsley: %s\n", err)
		return nil
	}
	defer root.Release()

	s.commands++
	event.Success = true
	event.NodeCount = root.Count()
	event.CommandWord, event.HereDocs = summarize(root)

	return dump.New(s.Stdout, s.Format, s.Color).Dump(root)
}

// summarize finds the leftmost command word and counts here-documents.
func summarize(root *shell.Node) (word string, hereDocs int) {
	root.Walk(func(n *shell.Node) {
		if n.Kind == shell.KindSimple && word == "" && len(n.Argv) > 0 {
			word = n.Argv[0]
		}
		if n.Stdin.Mode == shell.StdinHereDoc {
			hereDocs++
		}
	})
	return
}

// splitMeta reports whether line is a meta command. A leading "::" stands for
// a literal ‘:’ and the rest of the line goes to the parser.
func splitMeta(line string) (string, bool) {
	trimmed := strings.TrimLeft(line, " \t")
	switch {
	case strings.HasPrefix(trimmed, "::"):
		return trimmed[1:], false
	case strings.HasPrefix(trimmed, ":"):
		return line, true
	}
	return line, false
}
