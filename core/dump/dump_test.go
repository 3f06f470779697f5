package dump

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/josephlewis42/parsley/core/shell"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/yaml"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()

	return goldie.New(
		t,
		goldie.WithFixtureDir(filepath.Join("testdata", "golden")),
		goldie.WithDiffEngine(goldie.ColoredDiff),
		goldie.WithTestNameForDir(true),
	)
}

func mustParse(t *testing.T, line, heredocs string) *shell.Node {
	t.Helper()

	root, err := shell.Parse(line, shell.NewLineReader(strings.NewReader(heredocs)))
	require.NoError(t, err)
	t.Cleanup(root.Release)
	return root
}

func TestDumpTree(t *testing.T) {
	cases := map[string]struct {
		line     string
		heredocs string
	}{
		"simple":          {line: "ls -l"},
		"pipeline":        {line: "ls -l | grep foo"},
		"locals_redirect": {line: "X=1 Y=a=b cmd arg1 < in > out.txt 2>> err"},
		"subcommand":      {line: "(a ; b) && c &"},
		"heredoc":         {line: "cat << EOF &> all", heredocs: "hello\nworld\nEOF\n"},
	}

	g := newGoldie(t)
	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			root := mustParse(t, tc.line, tc.heredocs)

			var out bytes.Buffer
			d := New(&out, FormatTree, ColorPrinter{Mode: ColorNever})
			require.NoError(t, d.Dump(root))

			g.Assert(t, tn, out.Bytes())
		})
	}
}

func TestDumpTreeAnomalies(t *testing.T) {
	cases := map[string]*shell.Node{
		"misplaced_fields": {
			Kind: shell.KindOr,
			Argv: []string{"x"},
			Left: &shell.Node{
				Kind: shell.KindSimple,
				Left: &shell.Node{
					Kind:   shell.KindPipe,
					Stdout: shell.StdoutRedirect{Mode: shell.StdoutFile, Path: "f"},
				},
			},
			Right: &shell.Node{Kind: shell.Kind(42)},
		},
		"missing_parts": {
			Kind: shell.KindSeqEnd,
			Left: &shell.Node{
				Kind:  shell.KindSimple,
				Stdin: shell.StdinRedirect{Mode: shell.StdinFile},
			},
			Right: &shell.Node{Kind: shell.KindSubcommand},
		},
		"illegal_redirects": {
			Kind:   shell.KindSubcommand,
			Left:   &shell.Node{Kind: shell.KindSimple, Argv: []string{"a"}},
			Stdout: shell.StdoutRedirect{Mode: shell.StdoutAppend},
			Stderr: shell.StderrRedirect{Mode: shell.StderrBoth},
			Locals: []shell.Local{{Name: "", Value: "v"}},
		},
	}

	g := newGoldie(t)
	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			out := Tree(tc, ColorPrinter{Mode: ColorNever})
			g.Assert(t, tn, []byte(out))
		})
	}
}

func TestDumpColor(t *testing.T) {
	root := mustParse(t, "ls | wc", "")

	colored := Tree(root, ColorPrinter{Mode: ColorAlways})
	assert.Contains(t, colored, "\x1b[36;1mPIPE\x1b[0m")

	plain := Tree(root, ColorPrinter{Mode: ColorNever})
	assert.NotContains(t, plain, "\x1b[")

	auto := Tree(root, ColorPrinter{Mode: ColorAuto, IsTerminal: false})
	assert.Equal(t, plain, auto)
	autoTTY := Tree(root, ColorPrinter{Mode: ColorAuto, IsTerminal: true})
	assert.Equal(t, colored, autoTTY)
}

func TestDumpStructured(t *testing.T) {
	root := mustParse(t, "X=1 cmd a > out | cat << EOF", "body\nEOF\n")

	expected := &NodeView{
		Kind: "PIPE",
		Left: &NodeView{
			Kind:   "SIMPLE",
			Locals: []shell.Local{{Name: "X", Value: "1"}},
			Argv:   []string{"cmd", "a"},
			Stdout: &RedirectView{Mode: "file", Target: "out"},
		},
		Right: &NodeView{
			Kind:  "SIMPLE",
			Argv:  []string{"cat"},
			Stdin: &RedirectView{Mode: "heredoc", Target: "body\n"},
		},
	}
	assert.Equal(t, expected, View(root))

	t.Run("json", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, New(&out, FormatJSON, ColorPrinter{}).Dump(root))

		actual := &NodeView{}
		require.NoError(t, json.Unmarshal(out.Bytes(), actual))
		assert.Equal(t, expected, actual)
	})

	t.Run("yaml", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, New(&out, FormatYAML, ColorPrinter{}).Dump(root))
		assert.True(t, strings.HasPrefix(out.String(), "---\n"))

		actual := &NodeView{}
		require.NoError(t, yaml.Unmarshal(out.Bytes(), actual))
		assert.Equal(t, expected, actual)
	})
}

func TestDumpNil(t *testing.T) {
	var out bytes.Buffer
	assert.NoError(t, New(&out, "", ColorPrinter{}).Dump(nil))
	assert.Empty(t, out.String())
}

func TestParseFormat(t *testing.T) {
	for _, name := range Formats {
		f, err := ParseFormat(name)
		assert.NoError(t, err)
		assert.Equal(t, name, string(f))
	}

	_, err := ParseFormat("xml")
	assert.EqualError(t, err, `unknown format "xml", expected one of tree, yaml, json`)

	_, err = ParseColorMode("sometimes")
	assert.Error(t, err)
	mode, err := ParseColorMode("never")
	assert.NoError(t, err)
	assert.Equal(t, ColorNever, mode)
}
