package local

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jicmugot16/fieldsync/internal/common"
	"github.com/jicmugot16/fieldsync/internal/dbx"
	"github.com/jicmugot16/fieldsync/internal/models"
)

// ReplaceTags swaps the local rfid_tags mirror for the given snapshot.
// Delete and insert run in one transaction, so concurrent readers see
// either the previous snapshot or the new one in full.
func (s *Store) ReplaceTags(ctx context.Context, rows []models.Tag) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM rfid_tags`); err != nil {
			return err
		}
		for _, r := range rows {
			var vehicleID any
			if r.VehicleID != 0 {
				vehicleID = r.VehicleID
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO rfid_tags (id, tag_uid, vehicle_id, status, issued_date, expiry_date)
				VALUES (?, ?, ?, ?, ?, ?)`,
				r.ID, r.TagUID, vehicleID, r.Status, formatTime(r.IssuedAt), formatTime(r.ExpiresAt))
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to replace %s: %w", models.TableTags, err)
	}
	return nil
}

// ReplaceVehicles swaps the local vehicles mirror for the given snapshot.
func (s *Store) ReplaceVehicles(ctx context.Context, rows []models.Vehicle) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM vehicles`); err != nil {
			return err
		}
		for _, r := range rows {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO vehicles (id, user_id, make, model, color, vehicle_type, plate_number)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				r.ID, r.UserID, r.Make, r.Model, r.Color, r.VehicleType, r.PlateNumber)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to replace %s: %w", models.TableVehicles, err)
	}
	return nil
}

// ReplaceUserProfiles swaps the local user_profiles mirror for the
// given snapshot.
func (s *Store) ReplaceUserProfiles(ctx context.Context, rows []models.UserProfile) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM user_profiles`); err != nil {
			return err
		}
		for _, r := range rows {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO user_profiles (user_id, full_name, email, phone, user_type, department, status)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				r.UserID, r.FullName, r.Email, r.Phone, r.UserType, r.Department, r.Status)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to replace %s: %w", models.TableUserProfiles, err)
	}
	return nil
}

// CountReferenceRows reports the row count of one reference mirror.
// Used by the CLI stats view.
func (s *Store) CountReferenceRows(ctx context.Context, table string) (int, error) {
	var query string
	switch table {
	case models.TableTags:
		query = `SELECT COUNT(*) FROM rfid_tags`
	case models.TableVehicles:
		query = `SELECT COUNT(*) FROM vehicles`
	case models.TableUserProfiles:
		query = `SELECT COUNT(*) FROM user_profiles`
	default:
		return 0, fmt.Errorf("%w: reference table %q", common.ErrNotFound, table)
	}

	var n int
	if err := s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}

func nullableString(ns sql.NullString) string {
	if !ns.Valid {
		return ""
	}
	return ns.String
}

func nullableInt(ni sql.NullInt64) int64 {
	if !ni.Valid {
		return 0
	}
	return ni.Int64
}
