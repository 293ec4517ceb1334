package cli

import (
	"fmt"
	"io"

	"charm.land/lipgloss/v2"

	"github.com/wethinkt/go-molty/internal/activity"
	"github.com/wethinkt/go-molty/internal/gitstats"
)

// stateColors mirror the dashboard orb colors.
var stateColors = map[activity.State]string{
	activity.StateSleeping:  "#6b7280",
	activity.StateThinking:  "#f59e0b",
	activity.StateCoding:    "#6c5ce7",
	activity.StateSearching: "#3b82f6",
	activity.StatePushing:   "#34d399",
}

var entryColors = map[activity.EntryType]string{
	activity.EntryError:   "#ef4444",
	activity.EntrySuccess: "#34d399",
	activity.EntryWarning: "#f59e0b",
	activity.EntryInfo:    "#9ca3af",
}

// StatusFormatter prints activity snapshots. Color is only used when the
// destination is a terminal.
type StatusFormatter struct {
	w     io.Writer
	color bool
}

// NewStatusFormatter creates a status formatter.
func NewStatusFormatter(w io.Writer, color bool) *StatusFormatter {
	return &StatusFormatter{w: w, color: color}
}

func (f *StatusFormatter) paint(hex string, bold bool, s string) string {
	if !f.color {
		return s
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Bold(bold).Render(s)
}

// FormatSnapshot writes the state line, last action and log feed.
func (f *StatusFormatter) FormatSnapshot(s activity.Snapshot) error {
	state := f.paint(stateColors[s.State], true, "● "+string(s.State))
	fmt.Fprintf(f.w, "%s  %s\n", state, s.Activity)
	fmt.Fprintf(f.w, "  last: %s\n", s.LastAction)
	return f.FormatEntries(s.Logs)
}

// FormatEntries writes log entries, newest first as received.
func (f *StatusFormatter) FormatEntries(entries []activity.LogEntry) error {
	for _, e := range entries {
		tag := f.paint(entryColors[e.Type], false, fmt.Sprintf("%-7s", e.Type))
		if _, err := fmt.Fprintf(f.w, "  %s %s\n", tag, e.Message); err != nil {
			return err
		}
	}
	return nil
}

// FormatStats writes the aggregate counts on one line.
func (f *StatusFormatter) FormatStats(s gitstats.Snapshot) error {
	_, err := fmt.Fprintf(f.w, "projects: %d  commits: %d  loc: %s\n", s.Projects, s.Commits, HumanCount(s.LOC))
	return err
}

// HumanCount abbreviates large counts the way the dashboard does: 1.2k, 3.4M.
func HumanCount(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fk", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}
