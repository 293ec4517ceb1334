package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/wethinkt/go-molty/internal/activity"
	"github.com/wethinkt/go-molty/internal/cli"
)

var statusFollow bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the current activity snapshot",
	Long: `Read the newest agent log and print what the agent is doing.

A single invocation reads the whole log. With --follow, molty watches the
log directory and prints a new snapshot whenever the agent writes to it.

Examples:
  molty status              # one-shot snapshot
  molty status --json       # same as GET /api/status
  molty status --follow     # keep watching until Ctrl-C`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	tracker := newSources(cfg).Tracker
	out := cmd.OutOrStdout()
	formatter := cli.NewStatusFormatter(out, out == os.Stdout && cli.IsTerminal(os.Stdout))

	show := func(s activity.Snapshot) error {
		if outputJSON {
			return cli.WriteJSON(out, s)
		}
		return formatter.FormatSnapshot(s)
	}

	if err := show(tracker.Status()); err != nil {
		return err
	}
	if !statusFollow {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	w, err := activity.NewWatcher(tracker, activity.DefaultDebounce)
	if err != nil {
		return err
	}
	defer w.Close()

	polls, err := w.Start(ctx)
	if err != nil {
		return fmt.Errorf("follow %s: %w", tracker.Dir(), err)
	}
	for p := range polls {
		if !outputJSON {
			fmt.Fprintln(out)
		}
		if err := show(p.Snapshot); err != nil {
			return err
		}
	}
	return nil
}
