// Package transcript persists a per-turn audit record of stage
// outputs and routing decisions. Compliance review of an advisory
// trail needs the exact inputs each decision saw.
package transcript

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event is one stage invocation or routing decision within a turn.
type Event struct {
	Stage    string          `json:"stage,omitempty"`
	Decision string          `json:"decision,omitempty"`
	Output   json.RawMessage `json:"output,omitempty"`
	At       time.Time       `json:"at"`
}

// Record is the full audit trail of one turn.
type Record struct {
	TurnID    string    `json:"turn_id"`
	SessionID string    `json:"session_id"`
	Query     string    `json:"query"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
	Outcome   string    `json:"outcome"`
	Revisions int       `json:"revisions"`
	Events    []Event   `json:"events"`
}

// Writer persists records under a directory, one file per turn.
// A nil Writer is valid and writes nothing.
type Writer struct {
	fs  FS
	dir string
}

// NewWriter returns nil when dir is empty, which disables persistence.
func NewWriter(fs FS, dir string) *Writer {
	if dir == "" {
		return nil
	}
	return &Writer{fs: fs, dir: dir}
}

// Write stores the record as indented JSON. The file lands via a
// rename so a crashed write never leaves a torn transcript behind.
func (w *Writer) Write(record Record) error {
	if w == nil {
		return nil
	}
	if err := w.fs.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("ensure transcript directory: %w", err)
	}
	encoded, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("encode transcript: %w", err)
	}
	finalPath := w.fs.Join(w.dir, record.TurnID+".json")
	tempPath := finalPath + ".tmp"
	if err := w.fs.WriteFile(tempPath, encoded, 0o644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	if err := w.fs.Rename(tempPath, finalPath); err != nil {
		return fmt.Errorf("finalize transcript: %w", err)
	}
	return nil
}
