// Package syncer orchestrates the reconciliation between the local
// device store and the central store: pending evidence moves up, the
// reference mirrors refresh down, and every failure is confined to the
// smallest unit that can absorb it.
package syncer

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/multierr"

	"github.com/jicmugot16/fieldsync/internal/common"
	"github.com/jicmugot16/fieldsync/internal/logging"
	"github.com/jicmugot16/fieldsync/internal/models"
	"github.com/jicmugot16/fieldsync/internal/reconcile"
)

// LocalStore is what the engine needs from the device store.
type LocalStore interface {
	Ping(ctx context.Context) error
	ListPendingEvidence(ctx context.Context) ([]models.EvidenceRecord, error)
	MarkSynced(ctx context.Context, id int64) error
	ReplaceTags(ctx context.Context, rows []models.Tag) error
	ReplaceVehicles(ctx context.Context, rows []models.Vehicle) error
	ReplaceUserProfiles(ctx context.Context, rows []models.UserProfile) error
}

// CentralStore is what the engine needs from the authoritative store.
type CentralStore interface {
	ResolveVehicleByTag(ctx context.Context, tagUID string) (int64, bool, error)
	InsertEvidence(ctx context.Context, rec models.CentralEvidence) (bool, error)
	ReadTags(ctx context.Context) ([]models.Tag, error)
	ReadVehicles(ctx context.Context) ([]models.Vehicle, error)
	ReadUserProfiles(ctx context.Context) ([]models.UserProfile, error)
}

// Prober gates sync attempts on reachability.
type Prober interface {
	IsReachable(ctx context.Context) bool
}

// passState names the stages of one sync pass, for logging.
type passState int

const (
	stateIdle passState = iota
	stateProbing
	stateUploading
	stateRefreshing
	stateDone
	stateAborted
)

func (s passState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateProbing:
		return "probing-connectivity"
	case stateUploading:
		return "uploading-evidence"
	case stateRefreshing:
		return "refreshing-references"
	case stateDone:
		return "done"
	case stateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Engine runs sync passes. It owns no goroutines; the scheduler or the
// CLI drives it.
type Engine struct {
	probe    Prober
	local    LocalStore
	central  CentralStore
	photoDir string
	log      logging.Logger

	readFile func(name string) ([]byte, error)
}

// NewEngine wires a sync engine. photoDir is the directory relative
// photo references resolve against, normally the evidence directory
// next to the running binary.
func NewEngine(probe Prober, local LocalStore, central CentralStore, photoDir string, log logging.Logger) *Engine {
	return &Engine{
		probe:    probe,
		local:    local,
		central:  central,
		photoDir: photoDir,
		log:      log,
		readFile: os.ReadFile,
	}
}

// RunSyncPass performs one complete pass: probe, upload pending
// evidence, refresh reference mirrors. A per-record or per-table
// failure never aborts the pass; only lost connectivity before the
// pass or an unusable local store does.
func (e *Engine) RunSyncPass(ctx context.Context) models.SyncResult {
	state := stateProbing
	e.log.Info(ctx, "sync pass starting", "state", state.String())

	if !e.probe.IsReachable(ctx) {
		e.log.Warn(ctx, "sync pass aborted", "state", stateAborted.String(), "reason", common.ErrNoConnectivity)
		return models.SyncResult{OK: false, Error: common.ErrNoConnectivity.Error()}
	}

	if err := e.local.Ping(ctx); err != nil {
		err = fmt.Errorf("%w: %v", common.ErrFatalStore, err)
		e.log.Error(ctx, "sync pass aborted", "state", stateAborted.String(), "error", err)
		return models.SyncResult{OK: false, Error: err.Error()}
	}

	state = stateUploading
	result := models.SyncResult{OK: true}

	pending, err := e.local.ListPendingEvidence(ctx)
	if err != nil {
		err = fmt.Errorf("%w: %v", common.ErrFatalStore, err)
		e.log.Error(ctx, "sync pass aborted", "state", stateAborted.String(), "error", err)
		return models.SyncResult{OK: false, Error: err.Error()}
	}
	e.log.Info(ctx, "uploading evidence", "state", state.String(), "pending", len(pending))

	for i := range pending {
		rec := &pending[i]
		if err := e.uploadRecord(ctx, rec); err != nil {
			// Record stays pending; the rest of the batch continues.
			result.Skipped++
			result.Detail = multierr.Append(result.Detail, fmt.Errorf("record %d: %w", rec.ID, err))
			e.log.Warn(ctx, "evidence record skipped", "id", rec.ID, "tag", rec.TagID, "error", err)
			continue
		}
		result.Uploaded++
	}

	state = stateRefreshing
	e.log.Info(ctx, "refreshing reference tables", "state", state.String())

	for _, ref := range e.refreshSet() {
		if err := ref.refresh(ctx); err != nil {
			result.FailedTables = append(result.FailedTables, ref.name)
			result.Detail = multierr.Append(result.Detail, fmt.Errorf("table %s: %w", ref.name, err))
			e.log.Warn(ctx, "reference table refresh failed", "table", ref.name, "error", err)
			continue
		}
		result.RefreshedTables = append(result.RefreshedTables, ref.name)
	}

	state = stateDone
	e.log.Info(ctx, "sync pass finished", "state", state.String(),
		"uploaded", result.Uploaded, "skipped", result.Skipped,
		"refreshed", len(result.RefreshedTables), "failed_tables", len(result.FailedTables))
	return result
}

// uploadRecord moves a single pending record to the central store and
// marks it synced. The evidence itself (tag, category, time) outranks
// the photo: a missing photo degrades to a null attachment instead of
// failing the record.
func (e *Engine) uploadRecord(ctx context.Context, rec *models.EvidenceRecord) error {
	normalized := reconcile.NormalizeTagID(rec.TagID)

	vehicleID, found, err := e.resolveVehicle(ctx, normalized, rec.TagID)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrStoreWrite, err)
	}
	if !found {
		return fmt.Errorf("%w: no vehicle for tag %q", common.ErrReconciliation, normalized)
	}

	central := models.CentralEvidence{
		TagUID:       normalized,
		VehicleID:    vehicleID,
		CategoryCode: reconcile.MapCategoryLabel(rec.CategoryLabel),
		Location:     rec.Location,
		DeviceID:     rec.DeviceID,
		CapturedAt:   rec.CapturedAt,
		ReportedBy:   rec.ReportedBy,
	}

	if rec.PhotoRef != "" {
		path := reconcile.ResolvePhotoPath(rec.PhotoRef, e.photoDir)
		photo, err := e.readFile(path)
		if err != nil {
			e.log.Warn(ctx, "uploading without attachment",
				"id", rec.ID, "path", path,
				"error", fmt.Errorf("%w: %v", common.ErrAttachment, err))
		} else {
			central.Photo = photo
		}
	}

	inserted, err := e.central.InsertEvidence(ctx, central)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrStoreWrite, err)
	}
	if !inserted {
		// Already present under the natural key: a previous pass wrote
		// the row but crashed before the local mark.
		e.log.Info(ctx, "evidence already uploaded, reconciling local status", "id", rec.ID)
	}

	if err := e.local.MarkSynced(ctx, rec.ID); err != nil {
		// The central row exists; the natural key makes the retry on the
		// next pass harmless.
		return fmt.Errorf("%w: mark synced: %v", common.ErrStoreWrite, err)
	}
	return nil
}

// resolveVehicle tries the normalized tag id first and the raw form
// second; historical central rows may exist under either.
func (e *Engine) resolveVehicle(ctx context.Context, normalized, raw string) (int64, bool, error) {
	id, found, err := e.central.ResolveVehicleByTag(ctx, normalized)
	if err != nil || found {
		return id, found, err
	}
	if raw == normalized {
		return 0, false, nil
	}
	return e.central.ResolveVehicleByTag(ctx, raw)
}

type refTable struct {
	name    string
	refresh func(ctx context.Context) error
}

// refreshSet lists the reference tables mirrored to the device. Each
// entry reads the full table from the central store and swaps the
// local snapshot; entries are independent of each other.
func (e *Engine) refreshSet() []refTable {
	return []refTable{
		{models.TableTags, func(ctx context.Context) error {
			rows, err := e.central.ReadTags(ctx)
			if err != nil {
				return err
			}
			return e.local.ReplaceTags(ctx, rows)
		}},
		{models.TableVehicles, func(ctx context.Context) error {
			rows, err := e.central.ReadVehicles(ctx)
			if err != nil {
				return err
			}
			return e.local.ReplaceVehicles(ctx, rows)
		}},
		{models.TableUserProfiles, func(ctx context.Context) error {
			rows, err := e.central.ReadUserProfiles(ctx)
			if err != nil {
				return err
			}
			return e.local.ReplaceUserProfiles(ctx, rows)
		}},
	}
}
