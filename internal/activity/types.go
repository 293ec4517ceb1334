// Package activity derives a coarse activity state for the agent process by
// incrementally tailing its newest log file.
package activity

// State is the coarse activity classification shown by the dashboard orb.
type State string

const (
	StateSleeping  State = "sleeping"
	StateSearching State = "searching"
	StatePushing   State = "pushing"
	StateCoding    State = "coding"
	StateThinking  State = "thinking"
)

// EntryType tags a log entry for the activity feed.
type EntryType string

const (
	EntryInfo    EntryType = "info"
	EntryError   EntryType = "error"
	EntrySuccess EntryType = "success"
	EntryWarning EntryType = "warning"
)

// Placeholder texts carried by snapshots when there is nothing to report.
const (
	ActivityIdle       = "Idle"
	ActivityNoLogs     = "No logs found"
	ActivityReadError  = "Error reading logs"
	NoRecentActivity   = "No recent activity"
	WaitingForTasks    = "Waiting for tasks"
	maxLines           = 50
	maxEntries         = 8
	maxMessageRunes    = 200
	maxLastActionRunes = 120
)

// LogEntry is one line of the activity feed.
type LogEntry struct {
	Message string    `json:"message"`
	Type    EntryType `json:"type"`
}

// Snapshot is the status summary served at /api/status. Logs is never nil so
// it encodes as [] rather than null.
type Snapshot struct {
	State      State      `json:"state"`
	Activity   string     `json:"activity"`
	LastAction string     `json:"lastAction"`
	Logs       []LogEntry `json:"logs"`
}

// Idle returns a sleeping snapshot with the given activity text.
func Idle(activity string) Snapshot {
	return Snapshot{
		State:      StateSleeping,
		Activity:   activity,
		LastAction: WaitingForTasks,
		Logs:       []LogEntry{},
	}
}

// Cursor records how far into a log file the tracker has read.
type Cursor struct {
	Path   string `json:"path"`
	Offset int64  `json:"offset"`
}
