// Package cmd provides the CLI commands for molty.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wethinkt/go-molty/internal/config"
	"github.com/wethinkt/go-molty/internal/dashlog"
)

// global flags
var (
	configPath string
	logPath    string
	verbose    bool
	outputJSON bool
)

// rootCmd is the root command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "molty",
	Short: "Local status dashboard for the molty agent",
	Long: `molty serves a small dashboard that shows what the agent is doing right now,
by tailing its log files, and what it has published, by reading the project journal.

Running without a subcommand starts the dashboard server.

Commands:
  serve     Start the dashboard server (default)
  status    Print the current activity snapshot
  projects  List published projects
  stats     Print commit and line counts across project checkouts

Examples:
  molty                       # Serve on http://localhost:8790
  PORT=9000 molty             # Serve on another port
  molty status --follow       # Watch activity in the terminal
  molty projects --json       # Project journal as JSON`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := dashlog.Init(logPath); err != nil {
			return err
		}
		if verbose {
			if logPath == "" {
				dashlog.Log.SetOutput(os.Stderr)
			}
			dashlog.Log.SetLevel(dashlog.LevelDebug)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return dashlog.Log.Close()
	},
	RunE: runServe,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the config file named by --config (or the default one).
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.molty/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logPath, "log", "", "write debug log to file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output (to stderr unless --log is set)")

	addServeFlags(rootCmd)
	addServeFlags(serveCmd)

	statusCmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")
	statusCmd.Flags().BoolVarP(&statusFollow, "follow", "f", false, "keep printing new activity until interrupted")

	projectsCmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")
	projectsCmd.Flags().BoolVarP(&projectsShort, "short", "s", false, "print names only")
	projectsCmd.Flags().BoolVar(&projectsSummary, "summary", false, "print a detailed summary")
	projectsCmd.Flags().StringVar(&projectsTemplate, "template", "", "custom Go text/template for --summary")

	statsCmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")

	versionCmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
}
