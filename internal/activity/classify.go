package activity

import (
	"regexp"
	"strings"
)

// messagePattern captures what follows the bracketed timestamp prefix:
// "[12:00:01] INFO git commit" yields "INFO git commit".
var messagePattern = regexp.MustCompile(`\[(.*?)\].*?\s+(.*)`)

var sourceFilePattern = regexp.MustCompile(`\.(py|js|ts|html|css|rs|go)\b`)

type rule struct {
	state    State
	activity string
	match    func(low string) bool
}

// rules are evaluated in order; the first hit wins for a line.
var rules = []rule{
	{StateSearching, "Researching", func(low string) bool {
		return strings.Contains(low, "web_search") || strings.Contains(low, "web_fetch")
	}},
	{StatePushing, "Publishing", func(low string) bool {
		return strings.Contains(low, "git push") || strings.Contains(low, "gh repo create")
	}},
	{StatePushing, "Committing", func(low string) bool {
		return strings.Contains(low, "git commit")
	}},
	{StateCoding, "Writing code", func(low string) bool {
		return sourceFilePattern.MatchString(low) &&
			(strings.Contains(low, "write") || strings.Contains(low, "edit"))
	}},
	{StateThinking, "Thinking", func(low string) bool {
		return strings.Contains(low, "thinking") || strings.Contains(low, "analyzing")
	}},
}

// classifyLine returns the state for a lower-cased line, or ok=false when no
// rule applies.
func classifyLine(low string) (State, string, bool) {
	for _, r := range rules {
		if r.match(low) {
			return r.state, r.activity, true
		}
	}
	return "", "", false
}

func entryType(low string) EntryType {
	switch {
	case strings.Contains(low, "error"):
		return EntryError
	case strings.Contains(low, "success"), strings.Contains(low, "complete"), strings.Contains(low, "shipped"):
		return EntrySuccess
	case strings.Contains(low, "warn"):
		return EntryWarning
	default:
		return EntryInfo
	}
}

func extractMessage(line string) (string, bool) {
	m := messagePattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[2], true
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// Summarize classifies log lines given in chronological order. Only the
// newest lines are considered. State and activity come from the newest line
// that matches a rule; older lines still feed lastAction and the log list.
func Summarize(lines []string) Snapshot {
	if len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}

	snap := Snapshot{
		State:      StateSleeping,
		Activity:   ActivityIdle,
		LastAction: NoRecentActivity,
		Logs:       []LogEntry{},
	}
	classified := false
	haveAction := false

	for i := len(lines) - 1; i >= 0; i-- {
		line := lines[i]
		msg, ok := extractMessage(line)
		if !ok {
			continue
		}
		low := strings.ToLower(line)

		if !classified {
			if state, activity, hit := classifyLine(low); hit {
				snap.State, snap.Activity = state, activity
				classified = true
			}
		}

		if !haveAction {
			snap.LastAction = truncate(msg, maxLastActionRunes)
			haveAction = true
		}

		if len(snap.Logs) < maxEntries {
			snap.Logs = append(snap.Logs, LogEntry{
				Message: truncate(msg, maxMessageRunes),
				Type:    entryType(low),
			})
		}
	}

	return snap
}

// splitLines returns the non-blank lines of chunk, keeping at most the last n.
func splitLines(chunk string, n int) []string {
	var lines []string
	for _, line := range strings.Split(chunk, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}
