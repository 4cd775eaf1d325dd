package persistence

import (
	"context"

	"github.com/erosops/scheduler-hub/modules/scheduling/domain/ports"
	"github.com/erosops/scheduler-hub/modules/scheduling/domain/types"
)

type OverridePGStore struct {
	pool pgBeginner
}

func NewOverridePGStore(pool pgBeginner) ports.OverrideStore {
	return &OverridePGStore{pool: pool}
}

func (s *OverridePGStore) AppendOverrides(ctx context.Context, records []types.OverrideRecord) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	for _, rec := range records {
		if _, err := tx.Exec(ctx, `
	INSERT INTO sched.scheduler_overrides
	  (override_id, override_ts, override_date, username_std, tier_id,
	   price_band, min_allowed, max_allowed, price_entered, reason, scheduler_email)
	VALUES ($1, $2, $2::date, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
			rec.OverrideID,
			rec.OverrideTS,
			rec.Creator,
			rec.TierID,
			string(rec.Band),
			rec.MinAllowed,
			rec.MaxAllowed,
			rec.PriceEntered,
			rec.Reason,
			rec.SchedulerEmail,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
