package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.3.0"

// Exit codes.
const (
	ExitSuccess      = 0
	ExitUsageError   = 2
	ExitAuthError    = 3
	ExitRuntimeError = 4
	ExitInterrupted  = 130
)

var rootCmd = &cobra.Command{
	Use:   "critic",
	Short: "Send source files to an LLM for code review",
	Long: `Critic collects source files from a file or directory, renders them with a
directory layout into one document, and asks an LLM chat-completion service
for review commentary.`,
}

func init() {
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(languagesCmd)
	rootCmd.AddCommand(versionCmd)
}

// Run executes the root command and returns an exit code.
func Run() int {
	return execute(nil)
}

// execute runs the command tree with args (os.Args when nil).
func execute(args []string) int {
	exitCode = ExitSuccess
	if args != nil {
		rootCmd.SetArgs(args)
	}
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}
	return exitCode
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print critic version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "critic version %s\n", version)
	},
}
