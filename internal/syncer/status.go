package syncer

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Status is the informational record persisted between process runs.
// It is never authoritative: a missing or corrupt file reads as "never
// synced" and the idempotent upload design makes that safe.
type Status struct {
	LastSuccessfulSync time.Time `json:"last_successful_sync"`
	LastAttempt        time.Time `json:"last_attempt"`
}

// StatusFile loads and saves Status at a fixed path.
type StatusFile struct {
	path string
}

// NewStatusFile returns a StatusFile at path.
func NewStatusFile(path string) *StatusFile {
	return &StatusFile{path: path}
}

// Load reads the previous status. Any read or decode problem yields
// the zero Status.
func (f *StatusFile) Load() Status {
	var st Status
	data, err := os.ReadFile(f.path)
	if err != nil {
		return Status{}
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return Status{}
	}
	return st
}

// Save writes the status atomically (write to a temp file, then
// rename) so a crash mid-write cannot leave a torn file.
func (f *StatusFile) Save(st Status) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encode status: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o660); err != nil {
		return fmt.Errorf("write status: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace status: %w", err)
	}
	return nil
}
