// Package capture persists freshly recorded violation evidence. The
// local store is the normal destination; if it is unusable the record
// is spilled to a JSON file in the evidence directory so a field
// capture is never lost, only deferred.
package capture

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/jicmugot16/fieldsync/internal/common"
	"github.com/jicmugot16/fieldsync/internal/filex"
	"github.com/jicmugot16/fieldsync/internal/logging"
	"github.com/jicmugot16/fieldsync/internal/models"
)

// EvidenceStore is the slice of the local store the recorder needs.
type EvidenceStore interface {
	InsertEvidence(ctx context.Context, rec *models.EvidenceRecord) (int64, error)
}

// Recorder writes new evidence records.
type Recorder struct {
	store       EvidenceStore
	evidenceDir string
	deviceID    string
	reportedBy  string
	log         logging.Logger
	now         func() time.Time
}

func NewRecorder(store EvidenceStore, evidenceDir, deviceID string, log logging.Logger) *Recorder {
	return &Recorder{
		store:       store,
		evidenceDir: evidenceDir,
		deviceID:    deviceID,
		reportedBy:  common.DefaultReportedBy,
		log:         log,
		now:         time.Now,
	}
}

// Result reports where a capture ended up. SpillFile is non-empty when
// the record went to a JSON file instead of the store.
type Result struct {
	EvidenceID int64
	SpillFile  string
}

// spillRecord mirrors the evidence row for the JSON fallback file.
type spillRecord struct {
	EvidenceID    string `json:"evidence_id"`
	TagID         string `json:"rfid_uid"`
	PhotoRef      string `json:"photo_path"`
	CategoryLabel string `json:"violation_type"`
	CapturedAt    string `json:"timestamp"`
	Location      string `json:"location"`
	DeviceID      string `json:"device_id"`
	SyncStatus    string `json:"sync_status"`
}

// Record stores one capture. The tag id is kept exactly as scanned;
// normalization happens at lookup and upload time, never at rest.
func (r *Recorder) Record(ctx context.Context, tagID, categoryLabel, location, photoRef string) (Result, error) {
	rec := &models.EvidenceRecord{
		TagID:         tagID,
		PhotoRef:      photoRef,
		CategoryLabel: categoryLabel,
		Location:      location,
		DeviceID:      r.deviceID,
		CapturedAt:    r.now().UTC(),
		ReportedBy:    r.reportedBy,
		SyncStatus:    models.SyncPending,
	}

	id, err := r.store.InsertEvidence(ctx, rec)
	if err == nil {
		return Result{EvidenceID: id}, nil
	}
	r.log.Warn(ctx, "local store unusable, spilling capture to file", "error", err)

	path, spillErr := r.spill(rec)
	if spillErr != nil {
		return Result{}, fmt.Errorf("store capture: %w (spill also failed: %v)", err, spillErr)
	}
	return Result{SpillFile: path}, nil
}

func (r *Recorder) spill(rec *models.EvidenceRecord) (string, error) {
	dir, err := filex.EnsureDir(r.evidenceDir)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()[:8]
	sr := spillRecord{
		EvidenceID:    id,
		TagID:         rec.TagID,
		PhotoRef:      rec.PhotoRef,
		CategoryLabel: rec.CategoryLabel,
		CapturedAt:    rec.CapturedAt.Format(time.RFC3339Nano),
		Location:      rec.Location,
		DeviceID:      rec.DeviceID,
		SyncStatus:    string(rec.SyncStatus),
	}

	data, err := json.MarshalIndent(sr, "", "  ")
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, fmt.Sprintf("evidence_%s.json", id))
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return "", err
	}
	return path, nil
}
