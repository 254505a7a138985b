// Package models defines the record shapes shared by the local and
// central stores and the result types returned to callers.
package models

import "time"

// SyncStatus is the lifecycle state of a locally captured evidence record.
type SyncStatus string

const (
	// SyncPending marks a record that has not yet been confirmed written
	// to the central store.
	SyncPending SyncStatus = "pending"
	// SyncSynced marks a record whose central-store write was confirmed.
	SyncSynced SyncStatus = "synced"
)

// EvidenceRecord is one captured enforcement event as held by the local
// store. A record is created pending and only the sync engine moves it
// to synced, after the central-store write is confirmed.
type EvidenceRecord struct {
	ID            int64
	TagID         string
	PhotoRef      string
	CategoryLabel string
	Location      string
	DeviceID      string
	CapturedAt    time.Time
	ReportedBy    string
	SyncStatus    SyncStatus
}

// CentralEvidence is the central-store shape of an evidence record after
// reconciliation: tag id normalized, vehicle resolved, category label
// mapped to its numeric code and the photo inlined as bytes (nil when
// the file was missing).
//
// (TagUID, CapturedAt, DeviceID) is the record's natural key; the
// central store ignores duplicate inserts on it, which is what makes
// re-running an interrupted pass safe.
type CentralEvidence struct {
	TagUID       string
	VehicleID    int64
	Photo        []byte
	CategoryCode int
	Location     string
	DeviceID     string
	CapturedAt   time.Time
	ReportedBy   string
}
