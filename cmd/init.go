package cmd

import (
	"log"

	"github.com/josephlewis42/parsley/core/config"
	"github.com/spf13/cobra"
)

// initCmd writes the default configuration and a host key
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the configuration in the --config directory.",
	Long: `Writes the default parsley.yaml and an SSH host key. Existing files are
left untouched.`,
	Args: cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		logger := log.New(cmd.ErrOrStderr(), "", 0)

		_, err := config.Initialize(cfgPath, logger)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
