package scan

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jicmugot16/fieldsync/internal/cache"
	"github.com/jicmugot16/fieldsync/internal/logging"
	"github.com/jicmugot16/fieldsync/internal/models"
	"github.com/jicmugot16/fieldsync/internal/reconcile"
)

type fakeLookup struct {
	byTag map[string]models.LookupResult
	err   error
	calls []string
}

func (f *fakeLookup) LookupByTag(ctx context.Context, tagID string) (models.LookupResult, bool, error) {
	f.calls = append(f.calls, tagID)
	if f.err != nil {
		return models.LookupResult{}, false, f.err
	}
	res, ok := f.byTag[tagID]
	return res, ok, nil
}

func newResolver(store *fakeLookup) *Resolver {
	return NewResolver(cache.New(300*time.Second, 16), store, logging.Nop())
}

func TestLookup_MissThenCached(t *testing.T) {
	tag := strings.Repeat("A", reconcile.CanonicalTagLength)
	store := &fakeLookup{byTag: map[string]models.LookupResult{
		tag: {PlateNumber: "ABC-1234"},
	}}
	r := newResolver(store)
	ctx := context.Background()

	res, found, err := r.Lookup(ctx, tag)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "ABC-1234", res.PlateNumber)
	assert.Len(t, store.calls, 1)

	// Second read of the held tag is served from the cache.
	res, found, err = r.Lookup(ctx, tag)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "ABC-1234", res.PlateNumber)
	assert.Len(t, store.calls, 1, "cache hit must not touch the store")
}

func TestLookup_NormalizesRawScannerRead(t *testing.T) {
	canonical := strings.Repeat("B", reconcile.CanonicalTagLength)
	store := &fakeLookup{byTag: map[string]models.LookupResult{
		canonical: {PlateNumber: "XYZ-9"},
	}}
	r := newResolver(store)

	// The scanner delivered four extra trailing characters.
	_, found, err := r.Lookup(context.Background(), canonical+"FB4B")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{canonical}, store.calls)
}

func TestLookup_RawFallback(t *testing.T) {
	raw := strings.Repeat("C", reconcile.CanonicalTagLength) + "FB4B"
	store := &fakeLookup{byTag: map[string]models.LookupResult{
		raw: {PlateNumber: "OLD-1"},
	}}
	r := newResolver(store)

	res, found, err := r.Lookup(context.Background(), raw)
	require.NoError(t, err)
	require.True(t, found, "historical raw-form rows must still resolve")
	assert.Equal(t, "OLD-1", res.PlateNumber)
	assert.Len(t, store.calls, 2)
}

func TestLookup_UnknownTagNotCached(t *testing.T) {
	store := &fakeLookup{byTag: map[string]models.LookupResult{}}
	r := newResolver(store)
	ctx := context.Background()

	_, found, err := r.Lookup(ctx, "TAG-NOPE")
	require.NoError(t, err)
	assert.False(t, found)

	_, _, err = r.Lookup(ctx, "TAG-NOPE")
	require.NoError(t, err)
	assert.Len(t, store.calls, 2, "negative results must fall through every time")
}

func TestLookup_StoreError(t *testing.T) {
	store := &fakeLookup{err: errors.New("database is locked")}
	r := newResolver(store)

	_, _, err := r.Lookup(context.Background(), "TAG-A")
	require.Error(t, err)
}
