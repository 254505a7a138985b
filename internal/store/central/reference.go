package central

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jicmugot16/fieldsync/internal/models"
)

// ReadTags returns the full rfid_tags table for mirroring to the
// device.
func (s *Store) ReadTags(ctx context.Context) ([]models.Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, tag_uid, vehicle_id, status, issued_date, expiry_date FROM rfid_tags ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", models.TableTags, err)
	}
	defer rows.Close()

	var result []models.Tag
	for rows.Next() {
		var t models.Tag
		var vehicleID sql.NullInt64
		var issued, expires sql.NullTime
		if err := rows.Scan(&t.ID, &t.TagUID, &vehicleID, &t.Status, &issued, &expires); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		if vehicleID.Valid {
			t.VehicleID = vehicleID.Int64
		}
		t.IssuedAt = nullTime(issued)
		t.ExpiresAt = nullTime(expires)
		result = append(result, t)
	}
	return result, rows.Err()
}

// ReadVehicles returns the full vehicles table.
func (s *Store) ReadVehicles(ctx context.Context) ([]models.Vehicle, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, make, model, color, vehicle_type, plate_number FROM vehicles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", models.TableVehicles, err)
	}
	defer rows.Close()

	var result []models.Vehicle
	for rows.Next() {
		var v models.Vehicle
		var userID sql.NullInt64
		if err := rows.Scan(&v.ID, &userID, &v.Make, &v.Model, &v.Color, &v.VehicleType, &v.PlateNumber); err != nil {
			return nil, fmt.Errorf("failed to scan vehicle: %w", err)
		}
		if userID.Valid {
			v.UserID = userID.Int64
		}
		result = append(result, v)
	}
	return result, rows.Err()
}

// ReadUserProfiles returns the full user_profiles table.
func (s *Store) ReadUserProfiles(ctx context.Context) ([]models.UserProfile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, full_name, email, phone, user_type, department, status FROM user_profiles ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", models.TableUserProfiles, err)
	}
	defer rows.Close()

	var result []models.UserProfile
	for rows.Next() {
		var u models.UserProfile
		if err := rows.Scan(&u.UserID, &u.FullName, &u.Email, &u.Phone, &u.UserType, &u.Department, &u.Status); err != nil {
			return nil, fmt.Errorf("failed to scan user profile: %w", err)
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

func nullTime(nt sql.NullTime) time.Time {
	if !nt.Valid {
		return time.Time{}
	}
	return nt.Time
}
