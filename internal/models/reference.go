package models

import "time"

// Reference table names as used by both stores and the sync engine's
// refresh set.
const (
	TableTags         = "rfid_tags"
	TableVehicles     = "vehicles"
	TableUserProfiles = "user_profiles"
)

// Tag is a row of the rfid_tags reference table. The central store is
// the sole writer; the local copy is a snapshot replaced wholesale on
// each reference refresh.
type Tag struct {
	ID         int64
	TagUID     string
	VehicleID  int64 // 0 when the tag is not linked to a vehicle
	Status     string
	IssuedAt   time.Time
	ExpiresAt  time.Time
}

// Vehicle is a row of the vehicles reference table.
type Vehicle struct {
	ID          int64
	UserID      int64
	Make        string
	Model       string
	Color       string
	VehicleType string
	PlateNumber string
}

// UserProfile is a row of the user_profiles reference table.
type UserProfile struct {
	UserID     int64
	FullName   string
	Email      string
	Phone      string
	UserType   string
	Department string
	Status     string
}
