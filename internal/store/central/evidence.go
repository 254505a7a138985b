package central

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jicmugot16/fieldsync/internal/models"
)

// InsertEvidence appends one reconciled evidence record. Duplicates on
// the natural key (tag_uid, captured_at, device_id) are ignored, which
// makes re-uploading after an interrupted pass safe. The return value
// reports whether a new row was actually written.
func (s *Store) InsertEvidence(ctx context.Context, rec models.CentralEvidence) (bool, error) {
	query := `INSERT INTO vehicle_evidence
		(tag_uid, vehicle_id, photo, category_code, location, device_id, captured_at, reported_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT ON CONSTRAINT evidence_natural_key DO NOTHING`

	var vehicleID any
	if rec.VehicleID != 0 {
		vehicleID = rec.VehicleID
	}

	res, err := s.db.ExecContext(ctx, query,
		rec.TagUID, vehicleID, rec.Photo, rec.CategoryCode,
		rec.Location, rec.DeviceID, rec.CapturedAt.UTC(), rec.ReportedBy)
	if err != nil {
		return false, fmt.Errorf("failed to insert central evidence: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read insert result: %w", err)
	}
	return n > 0, nil
}

// ResolveVehicleByTag finds the vehicle linked to a tag uid. found is
// false when the tag is unknown or not linked to any vehicle.
func (s *Store) ResolveVehicleByTag(ctx context.Context, tagUID string) (int64, bool, error) {
	var vehicleID sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT vehicle_id FROM rfid_tags WHERE tag_uid = $1`, tagUID).Scan(&vehicleID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to resolve vehicle for tag: %w", err)
	}
	if !vehicleID.Valid {
		return 0, false, nil
	}
	return vehicleID.Int64, true, nil
}

// CountEvidence reports the central evidence row count for one device.
// Used in verification tooling, not by the sync pass itself.
func (s *Store) CountEvidence(ctx context.Context, deviceID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM vehicle_evidence WHERE device_id = $1`, deviceID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count central evidence: %w", err)
	}
	return n, nil
}
