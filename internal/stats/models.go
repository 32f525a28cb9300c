package stats

import "time"

// Session represents a run of the widget, from launch to quit
type Session struct {
	ID        string     `json:"id"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

// Burst is one completed blink burst
type Burst struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	At        time.Time `json:"at"`
	Pulses    int       `json:"pulses"`
}

// Repair records a settings file that had to be regenerated at startup
type Repair struct {
	ID         int64     `json:"id"`
	At         time.Time `json:"at"`
	Path       string    `json:"path"`
	BackupPath string    `json:"backup_path"`
}

// StartOfDay returns midnight of t's day in t's location
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
