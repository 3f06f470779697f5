package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/abiosoft/readline"
	"github.com/josephlewis42/parsley/core/config"
	"github.com/josephlewis42/parsley/core/dump"
	"github.com/josephlewis42/parsley/core/logger"
	"github.com/josephlewis42/parsley/core/repl"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	cfgPath    string
	formatFlag string
	colorFlag  string
)

// loadConfig reads the configuration from --config and applies the output
// flags. The built-in defaults are used if the directory has no config file.
func loadConfig() (*config.Configuration, error) {
	configuration, err := config.Load(cfgPath)
	if errors.Is(err, fs.ErrNotExist) {
		configuration, err = config.Default(), nil
	}
	if err != nil {
		return nil, err
	}

	if formatFlag != "" {
		format, err := dump.ParseFormat(formatFlag)
		if err != nil {
			return nil, err
		}
		configuration.Format = string(format)
	}

	if colorFlag != "" {
		mode, err := dump.ParseColorMode(colorFlag)
		if err != nil {
			return nil, err
		}
		configuration.Color = string(mode)
	}

	return configuration, nil
}

// openEventLog returns the configured event log, the returned function closes
// it.
func openEventLog(configuration *config.Configuration) (*logger.Logger, func() error, error) {
	if !configuration.HasEventLog() {
		return logger.NopLogger(), func() error { return nil }, nil
	}

	fd, err := configuration.OpenEventLog()
	if err != nil {
		return nil, nil, fmt.Errorf("opening event log: %w", err)
	}
	return logger.NewJsonLinesLogRecorder(fd), fd.Close, nil
}

func isTerminal(stream interface{}) bool {
	fd, ok := stream.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(fd.Fd()) || isatty.IsCygwinTerminal(fd.Fd())
}

// newSession creates a loop over term writing to the command's streams.
func newSession(cmd *cobra.Command, configuration *config.Configuration, events *logger.Logger, term repl.Terminal, source string) *repl.Session {
	session := &repl.Session{
		Terminal: term,
		Stdout:   cmd.OutOrStdout(),
		Stderr:   cmd.ErrOrStderr(),
		Log:      events.NewSession(),
		Start:    logger.SessionStart{Source: source},
	}
	session.ApplyConfig(configuration)
	session.Color.IsTerminal = isTerminal(session.Stdout)
	return session
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "parsley",
	Short: "Shell command line parser",
	Long: `Parses shell command lines and prints the resulting command trees.

Without a subcommand, lines are read interactively. Here-document bodies are
read from the same input after the line that introduces them. Lines starting
with ':' are commands to the loop itself, try :help.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configuration, err := loadConfig()
		if err != nil {
			return err
		}

		events, closeLog, err := openEventLog(configuration)
		if err != nil {
			return err
		}
		defer closeLog()

		stdin := cmd.InOrStdin()
		if !isTerminal(stdin) {
			session := newSession(cmd, configuration, events, repl.NewReaderTerminal(stdin), "stdin")
			return session.Run()
		}

		term, err := repl.NewReadlineTerminal(&readline.Config{
			HistoryFile:     configuration.HistoryPath(),
			InterruptPrompt: "^C",
			Stdin:           readline.NewCancelableStdin(stdin),
		})
		if err != nil {
			return err
		}
		defer term.Close()

		session := newSession(cmd, configuration, events, term, "terminal")
		session.Stdout = term.Stdout()
		session.Stderr = term.Stderr()
		return session.Run()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", ".", "config path")
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", "", fmt.Sprintf("output format, one of %v", dump.Formats))
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "", fmt.Sprintf("colorize output, one of %v", dump.ColorModes))
}
