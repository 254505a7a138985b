package reconcile

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTagID(t *testing.T) {
	canonical := strings.Repeat("E", CanonicalTagLength)

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "canonical length unchanged", raw: canonical, want: canonical},
		{name: "four extra chars truncated", raw: canonical + "FB4B", want: canonical},
		{name: "shorter than canonical unchanged", raw: "E28068", want: "E28068"},
		{name: "empty", raw: "", want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeTagID(tc.raw))
		})
	}
}

func TestMapCategoryLabel(t *testing.T) {
	tests := []struct {
		label string
		want  int
	}{
		{"No Parking Zone", 1},
		{"parked in no parking area", 1},
		{"Unauthorized Vehicle", 2},
		{"Expired Permit", 3},
		{"Handicap Violation", 4},
		{"Student in Faculty Area", 5},
		{"Something Else", CategoryOther},
		{"", CategoryOther},
	}

	for _, tc := range tests {
		t.Run(tc.label, func(t *testing.T) {
			assert.Equal(t, tc.want, MapCategoryLabel(tc.label))
		})
	}
}

func TestResolvePhotoPath(t *testing.T) {
	base := filepath.Join("/opt", "fieldsync", "evidences")

	tests := []struct {
		name string
		ref  string
		want string
	}{
		{name: "relative joined against base", ref: "evidence_1.jpg", want: filepath.Join(base, "evidence_1.jpg")},
		{name: "nested relative", ref: filepath.Join("2026", "evidence_1.jpg"), want: filepath.Join(base, "2026", "evidence_1.jpg")},
		{name: "absolute passes through", ref: filepath.Join("/mnt", "sd", "p.jpg"), want: filepath.Join("/mnt", "sd", "p.jpg")},
		{name: "empty stays empty", ref: "", want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ResolvePhotoPath(tc.ref, base))
		})
	}
}
