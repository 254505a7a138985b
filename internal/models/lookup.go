package models

// LookupResult is the denormalized projection shown to the operator
// when a tag is scanned: sticker status, holder identity and vehicle
// attributes joined from the reference tables.
type LookupResult struct {
	StickerStatus string
	UserID        string
	HolderName    string
	Make          string
	Model         string
	Color         string
	VehicleType   string
	PlateNumber   string
}
