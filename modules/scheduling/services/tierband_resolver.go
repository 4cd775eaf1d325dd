package services

import (
	"context"
	"strings"

	"github.com/erosops/scheduler-hub/modules/scheduling/domain/ports"
	"github.com/erosops/scheduler-hub/modules/scheduling/domain/types"
)

// TierBandResolver memoizes tier-template lookups for the lifetime of one
// evaluation session. Not-found results are cached too, so a batch full of
// rows on the same unknown tier costs a single query. Construct one per
// batch and discard it; the cache is not safe for cross-session sharing.
type TierBandResolver struct {
	store ports.TierBandStore
	cache map[string]*types.TierBand
}

func NewTierBandResolver(store ports.TierBandStore) *TierBandResolver {
	return &TierBandResolver{store: store, cache: make(map[string]*types.TierBand)}
}

// Resolve returns the guardrail for tierID, or nil when the tier is unknown
// or tierID is empty. Store faults propagate uncached so a retry within the
// same session is not poisoned by a stale failure.
func (r *TierBandResolver) Resolve(ctx context.Context, tierID string) (*types.TierBand, error) {
	tierID = strings.TrimSpace(tierID)
	if tierID == "" {
		return nil, nil
	}
	if band, ok := r.cache[tierID]; ok {
		return band, nil
	}
	band, found, err := r.store.FindTierBand(ctx, tierID)
	if err != nil {
		return nil, err
	}
	if !found {
		r.cache[tierID] = nil
		return nil, nil
	}
	r.cache[tierID] = &band
	return &band, nil
}
