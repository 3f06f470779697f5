package cmd

import (
	"fmt"
	"os"

	"github.com/josephlewis42/parsley/core/repl"
	"github.com/spf13/cobra"
)

var parseLine string

var parseCmd = &cobra.Command{
	Use:   "parse [-c LINE] [FILE]",
	Short: "Parse command lines from a file or standard input.",
	Long: `Parses each line of FILE, or standard input, and prints its tree.
Here-document bodies are read from the same input.

With -c, only LINE is parsed and its here-documents are read from FILE or
standard input. The command fails if any line doesn't parse.`,
	Args: cobra.MaximumNArgs(1),
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

		input, source := cmd.InOrStdin(), "stdin"
		if len(args) == 1 {
			fd, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer fd.Close()
			input, source = fd, "file"
		}

		session := newSession(cmd, configuration, events, repl.NewReaderTerminal(input), source)
		if cmd.Flags().Changed("command") {
			session.Start.Source = "argument"
			err = session.RunLine(parseLine)
		} else {
			err = session.Run()
		}

		switch {
		case err != nil:
			return err
		case session.Failures() > 0:
			return fmt.Errorf("%d of %d lines failed to parse", session.Failures(), session.Failures()+session.Commands())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&parseLine, "command", "c", "", "parse LINE instead of reading lines")
}
