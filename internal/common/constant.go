package common

// DefaultDeviceID identifies this unit in uploaded evidence when no
// device id has been configured.
const DefaultDeviceID = "HANDHELD_01"

// DefaultReportedBy is recorded on evidence captured while the operator
// authentication collaborator is unavailable.
const DefaultReportedBy = "unknown-operator"
