package cmd

import (
	"fmt"

	"github.com/josephlewis42/parsley/core/logger"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Explore the parse event log.",
}

// readEvents feeds every entry of the configured event log to handler.
func readEvents(handler func(*logger.LogEntry)) error {
	configuration, err := loadConfig()
	if err != nil {
		return err
	}

	fd, err := configuration.ReadEventLog()
	if err != nil {
		return err
	}
	defer fd.Close()

	return logger.ReadJSONLinesLog(fd, handler)
}

func printYAML(cmd *cobra.Command, v interface{}) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), string(out))
	return nil
}

var reportCommand = &cobra.Command{
	Use:   "report",
	Short: "Show a report of events.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		report := logger.NewReport()
		if err := readEvents(report.Update); err != nil {
			return err
		}
		return printYAML(cmd, report)
	},
}

var sessionsCommand = &cobra.Command{
	Use:   "sessions [SESSION_ID]",
	Short: "Show the lines entered in each session.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		var history logger.SessionHistory
		if err := readEvents(history.Update); err != nil {
			return err
		}

		if len(args) == 0 {
			return printYAML(cmd, &history)
		}

		session := history.Get(args[0])
		if session == nil {
			return fmt.Errorf("no session with ID %q", args[0])
		}
		return printYAML(cmd, session)
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(reportCommand)
	eventsCmd.AddCommand(sessionsCommand)
}
