package persistence

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/erosops/scheduler-hub/modules/scheduling/domain/ports"
	"github.com/erosops/scheduler-hub/modules/scheduling/domain/types"
)

type pgBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type TierBandPGStore struct {
	pool pgBeginner
}

func NewTierBandPGStore(pool pgBeginner) ports.TierBandStore {
	return &TierBandPGStore{pool: pool}
}

func (s *TierBandPGStore) FindTierBand(ctx context.Context, tierID string) (types.TierBand, bool, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return types.TierBand{}, false, err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	var band types.TierBand
	err = tx.QueryRow(ctx, `
	SELECT
	  (premium_price_range).min AS prem_min,
	  (premium_price_range).max AS prem_max,
	  (mid_price_range).min AS mid_min,
	  (mid_price_range).max AS mid_max,
	  (teaser_price_range).min AS tea_min,
	  (teaser_price_range).max AS tea_max
	FROM sched.tier_templates
	WHERE tier_id = $1
	LIMIT 1
	`, tierID).Scan(&band.PremMin, &band.PremMax, &band.MidMin, &band.MidMax, &band.TeaMin, &band.TeaMax)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.TierBand{}, false, nil
		}
		return types.TierBand{}, false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return types.TierBand{}, false, err
	}
	return band, true, nil
}
