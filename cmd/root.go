package cmd

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pageforge",
	Short: "Webhook service that generates and deploys static web apps",
	Long: `Pageforge accepts task briefs over a webhook, asks a Large Language
Model to generate a static web application satisfying the brief, publishes the
result to a GitHub repository with GitHub Pages enabled, and reports the
resulting URLs back to the calling evaluation server.

Available commands:
  serve    - Run the webhook server
  version  - Print version information`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
