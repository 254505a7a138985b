// Package reconcile holds the pure mapping logic between the local and
// central record shapes: tag id normalization, category label to code
// mapping and evidence photo path resolution. No I/O happens here.
package reconcile

import (
	"path/filepath"
	"strings"
)

// CanonicalTagLength is the fixed length of a tag identifier as stored
// in the central reference tables. Raw scanner output may carry extra
// trailing characters beyond it.
const CanonicalTagLength = 24

// NormalizeTagID truncates a raw scanner read to the canonical length.
// Shorter inputs are returned unchanged; historical data may exist
// under either form, so upload-time lookups try the normalized id
// first and fall back to the raw one.
func NormalizeTagID(raw string) string {
	if len(raw) <= CanonicalTagLength {
		return raw
	}
	return raw[:CanonicalTagLength]
}

// CategoryOther is the code reported for labels matching no known
// category.
const CategoryOther = 0

// categoryRule maps a case-insensitive label substring to the central
// store's numeric violation code. First match wins, so more specific
// substrings go first. Adding a category is a change to this table
// only.
type categoryRule struct {
	substr string
	code   int
}

var categoryRules = []categoryRule{
	{"no parking", 1},
	{"unauthorized", 2},
	{"expired permit", 3},
	{"handicap", 4},
	{"faculty area", 5},
}

// MapCategoryLabel translates the operator-chosen free-text category to
// its central-store numeric code.
func MapCategoryLabel(label string) int {
	lowered := strings.ToLower(label)
	for _, r := range categoryRules {
		if strings.Contains(lowered, r.substr) {
			return r.code
		}
	}
	return CategoryOther
}

// ResolvePhotoPath turns a stored photo reference into an absolute
// path. Absolute references pass through unchanged; relative ones are
// joined against baseDir, which callers anchor at the directory of the
// running process rather than the working directory.
func ResolvePhotoPath(photoRef, baseDir string) string {
	if photoRef == "" {
		return ""
	}
	if filepath.IsAbs(photoRef) {
		return photoRef
	}
	return filepath.Join(baseDir, photoRef)
}
