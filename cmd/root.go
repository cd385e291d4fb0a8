package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the daybook application
var rootCmd = &cobra.Command{
	Use:   "daybook",
	Short: "Calendar assistant backend for Google Calendar and Outlook",
	Long: `daybook normalizes Google Calendar and Microsoft Outlook behind one
provider-agnostic calendar interface.

It can run as:
  - An MCP (Model Context Protocol) server for AI assistants (default)
  - An HTTP server exposing the calendar REST API alongside MCP`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "daybook version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the daybook version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("daybook version %s\n", version)
		},
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
}
