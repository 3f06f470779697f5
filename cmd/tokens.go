package cmd

import (
	"strings"

	"github.com/josephlewis42/parsley/core/repl"
	"github.com/spf13/cobra"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens LINE...",
	Short: "Print the tokens of a command line.",
	Long:  `Joins the arguments with spaces and prints the resulting tokens.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return repl.PrintTokens(cmd.OutOrStdout(), strings.Join(args, " "))
	},
}

func init() {
	rootCmd.AddCommand(tokensCmd)
}
