// Package common defines shared constants and sentinel errors used across
// fieldsync components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Pass-level errors: abort the whole sync pass.
	ErrNoConnectivity = errors.New("no connectivity")
	ErrFatalStore     = errors.New("local store unusable")

	// Record-level errors: skip the record, keep it pending, continue.
	ErrReconciliation = errors.New("record not reconcilable")
	ErrStoreWrite     = errors.New("store write failed")

	// Attachment errors degrade the record (null photo), never fail it.
	ErrAttachment = errors.New("evidence attachment unreadable")
)
