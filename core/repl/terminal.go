package repl

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/abiosoft/readline"
)

// Terminal reads one line of input after showing a prompt. Lines are
// returned without their trailing newline and io.EOF marks the end of input.
type Terminal interface {
	Prompt(prompt string) (string, error)
}

// ReadlineTerminal is an interactive Terminal with line editing and history.
type ReadlineTerminal struct {
	rl *readline.Instance
}

var _ Terminal = (*ReadlineTerminal)(nil)

// NewReadlineTerminal creates a line editor from cfg.
func NewReadlineTerminal(cfg *readline.Config) (*ReadlineTerminal, error) {
	if err := cfg.Init(); err != nil {
		return nil, err
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return nil, err
	}
	return &ReadlineTerminal{rl: rl}, nil
}

func (t *ReadlineTerminal) Prompt(prompt string) (string, error) {
	t.rl.SetPrompt(prompt)
	return t.rl.Readline()
}

// Stdout writes above the line being edited.
func (t *ReadlineTerminal) Stdout() io.Writer {
	return t.rl.Stdout()
}

// Stderr writes above the line being edited.
func (t *ReadlineTerminal) Stderr() io.Writer {
	return t.rl.Stderr()
}

func (t *ReadlineTerminal) Close() error {
	return t.rl.Close()
}

// ReaderTerminal reads lines from a plain stream. Prompts are written to
// PromptOut if it's set.
type ReaderTerminal struct {
	r         *bufio.Reader
	PromptOut io.Writer
}

var _ Terminal = (*ReaderTerminal)(nil)

// NewReaderTerminal creates a Terminal over r that doesn't show prompts.
func NewReaderTerminal(r io.Reader) *ReaderTerminal {
	return &ReaderTerminal{r: bufio.NewReader(r)}
}

func (t *ReaderTerminal) Prompt(prompt string) (string, error) {
	line, err := t.PromptRaw(prompt)
	if err != nil {
		return "", err
	}

	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

// PromptRaw is like Prompt but returns the line exactly as read, including
// its line ending. The last line of the input may have none.
func (t *ReaderTerminal) PromptRaw(prompt string) (string, error) {
	if t.PromptOut != nil {
		if _, err := io.WriteString(t.PromptOut, prompt); err != nil {
			return "", err
		}
	}

	line, err := t.r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return line, nil
}

// rawTerminal is implemented by terminals that can return lines verbatim.
type rawTerminal interface {
	PromptRaw(prompt string) (string, error)
}

// hereDocSource feeds here-document lines from the same Terminal the command
// lines come from.
type hereDocSource struct {
	term   Terminal
	prompt string
}

func (h *hereDocSource) ReadLine() (string, error) {
	if raw, ok := h.term.(rawTerminal); ok {
		return raw.PromptRaw(h.prompt)
	}

	line, err := h.term.Prompt(h.prompt)
	switch {
	case errors.Is(err, readline.ErrInterrupt):
		// ^C ends the document early.
		return "", io.EOF
	case err != nil:
		return "", err
	}
	return line + "\n", nil
}
