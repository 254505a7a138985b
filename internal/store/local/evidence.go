package local

import (
	"context"
	"fmt"

	"github.com/jicmugot16/fieldsync/internal/models"
)

// InsertEvidence stores a newly captured enforcement event. The record
// is always created pending; only the sync engine moves it to synced.
func (s *Store) InsertEvidence(ctx context.Context, rec *models.EvidenceRecord) (int64, error) {
	query := `INSERT INTO vehicle_evidence
		(tag_uid, photo_ref, category_label, location, device_id, captured_at, reported_by, sync_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := s.db.ExecContext(ctx, query,
		rec.TagID, rec.PhotoRef, rec.CategoryLabel, rec.Location,
		rec.DeviceID, formatTime(rec.CapturedAt), rec.ReportedBy, string(models.SyncPending))
	if err != nil {
		return 0, fmt.Errorf("failed to insert evidence: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read evidence id: %w", err)
	}
	return id, nil
}

// ListPendingEvidence returns every record still awaiting upload, in
// capture order.
func (s *Store) ListPendingEvidence(ctx context.Context) ([]models.EvidenceRecord, error) {
	query := `SELECT id, tag_uid, photo_ref, category_label, location, device_id, captured_at, reported_by, sync_status
		FROM vehicle_evidence WHERE sync_status = ? ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, string(models.SyncPending))
	if err != nil {
		return nil, fmt.Errorf("failed to select pending evidence: %w", err)
	}
	defer rows.Close()

	var result []models.EvidenceRecord
	for rows.Next() {
		var rec models.EvidenceRecord
		var capturedAt, status string
		if err := rows.Scan(&rec.ID, &rec.TagID, &rec.PhotoRef, &rec.CategoryLabel,
			&rec.Location, &rec.DeviceID, &capturedAt, &rec.ReportedBy, &status); err != nil {
			return nil, fmt.Errorf("failed to scan evidence: %w", err)
		}
		rec.CapturedAt = parseTime(capturedAt)
		rec.SyncStatus = models.SyncStatus(status)
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate evidence: %w", err)
	}
	return result, nil
}

// MarkSynced transitions one record from pending to synced after its
// central-store write was confirmed.
func (s *Store) MarkSynced(ctx context.Context, id int64) error {
	query := `UPDATE vehicle_evidence SET sync_status = ? WHERE id = ?`
	if _, err := s.db.ExecContext(ctx, query, string(models.SyncSynced), id); err != nil {
		return fmt.Errorf("failed to mark evidence %d synced: %w", id, err)
	}
	return nil
}

// DeleteSynced purges records whose upload has already been confirmed,
// freeing space on the device. Pending records are never touched.
func (s *Store) DeleteSynced(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM vehicle_evidence WHERE sync_status = ?`, string(models.SyncSynced))
	if err != nil {
		return 0, fmt.Errorf("failed to delete synced evidence: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted evidence: %w", err)
	}
	return n, nil
}

// CountPending reports how many records are still awaiting upload.
func (s *Store) CountPending(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM vehicle_evidence WHERE sync_status = ?`,
		string(models.SyncPending)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending evidence: %w", err)
	}
	return n, nil
}
