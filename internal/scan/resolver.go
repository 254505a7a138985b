// Package scan implements the read path used while the operator is
// scanning tags: a read-through cache in front of the local store's
// reference mirrors.
package scan

import (
	"context"
	"fmt"

	"github.com/jicmugot16/fieldsync/internal/cache"
	"github.com/jicmugot16/fieldsync/internal/logging"
	"github.com/jicmugot16/fieldsync/internal/models"
	"github.com/jicmugot16/fieldsync/internal/reconcile"
)

// TagLookup is the slice of the local store the resolver needs.
type TagLookup interface {
	LookupByTag(ctx context.Context, tagID string) (models.LookupResult, bool, error)
}

// Resolver answers "what vehicle is this tag" for the scan UI. Repeated
// reads of a held tag are served from the cache; misses fall through to
// the local store.
type Resolver struct {
	cache *cache.Cache
	store TagLookup
	log   logging.Logger
}

// NewResolver wires a resolver. The cache may be shared with other
// consumers; it only ever affects latency, not results.
func NewResolver(c *cache.Cache, store TagLookup, log logging.Logger) *Resolver {
	return &Resolver{cache: c, store: store, log: log}
}

// Lookup resolves a raw scanner read. The normalized form of the tag is
// tried first, the raw form second, matching the upload-time rule so
// the display and the sync engine agree on which vehicle a tag means.
// Only positive results are cached; an unknown tag is cheap to re-read
// and may become known after the next reference refresh.
func (r *Resolver) Lookup(ctx context.Context, tagID string) (models.LookupResult, bool, error) {
	normalized := reconcile.NormalizeTagID(tagID)

	if res, hit := r.cache.Get(normalized); hit {
		return res, true, nil
	}

	res, found, err := r.store.LookupByTag(ctx, normalized)
	if err != nil {
		return models.LookupResult{}, false, fmt.Errorf("lookup %s: %w", normalized, err)
	}
	if !found && normalized != tagID {
		res, found, err = r.store.LookupByTag(ctx, tagID)
		if err != nil {
			return models.LookupResult{}, false, fmt.Errorf("lookup %s: %w", tagID, err)
		}
	}
	if !found {
		r.log.Debug(ctx, "tag not found in local mirror", "tag", normalized)
		return models.LookupResult{}, false, nil
	}

	r.cache.Put(normalized, res)
	return res, true, nil
}
