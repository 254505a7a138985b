package models

// SyncResult is the outcome of one sync pass. It is returned to the
// caller and optionally mirrored to the status file; it is never
// authoritative.
//
// OK reports whether the pass itself completed. Skipped records and
// failed table refreshes do not clear OK; they are visible through
// Skipped, FailedTables and Detail.
type SyncResult struct {
	OK              bool
	Uploaded        int
	Skipped         int
	RefreshedTables []string
	FailedTables    []string
	Error           string

	// Detail aggregates record- and table-level errors for logging.
	// Not persisted.
	Detail error
}

// Clean reports whether the pass succeeded with nothing skipped or
// failed. The CLI exits zero only on a clean pass.
func (r SyncResult) Clean() bool {
	return r.OK && r.Skipped == 0 && len(r.FailedTables) == 0
}
