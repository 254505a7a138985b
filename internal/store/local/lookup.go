package local

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/jicmugot16/fieldsync/internal/models"
)

// LookupByTag resolves a scanned tag against the local reference
// mirrors, joining sticker status, holder identity and vehicle
// attributes into the projection shown on the device display.
func (s *Store) LookupByTag(ctx context.Context, tagID string) (models.LookupResult, bool, error) {
	query := `SELECT
			rt.status,
			v.user_id,
			up.full_name,
			v.make,
			v.model,
			v.color,
			v.vehicle_type,
			v.plate_number
		FROM rfid_tags rt
		LEFT JOIN vehicles v ON v.id = rt.vehicle_id
		LEFT JOIN user_profiles up ON up.user_id = v.user_id
		WHERE rt.tag_uid = ?
		LIMIT 1`

	var status sql.NullString
	var userID sql.NullInt64
	var fullName, make, model, color, vehicleType, plate sql.NullString

	err := s.db.QueryRowContext(ctx, query, tagID).
		Scan(&status, &userID, &fullName, &make, &model, &color, &vehicleType, &plate)
	if errors.Is(err, sql.ErrNoRows) {
		return models.LookupResult{}, false, nil
	}
	if err != nil {
		return models.LookupResult{}, false, fmt.Errorf("failed to look up tag: %w", err)
	}

	res := models.LookupResult{
		StickerStatus: nullableString(status),
		HolderName:    nullableString(fullName),
		Make:          nullableString(make),
		Model:         nullableString(model),
		Color:         nullableString(color),
		VehicleType:   nullableString(vehicleType),
		PlateNumber:   nullableString(plate),
	}
	if uid := nullableInt(userID); uid != 0 {
		res.UserID = strconv.FormatInt(uid, 10)
	}
	return res, true, nil
}
