package persistence

import (
	"context"

	"github.com/erosops/scheduler-hub/modules/scheduling/domain/ports"
	"github.com/erosops/scheduler-hub/modules/scheduling/domain/types"
)

type SendLogPGStore struct {
	pool pgBeginner
}

func NewSendLogPGStore(pool pgBeginner) ports.ActionLog {
	return &SendLogPGStore{pool: pool}
}

const insertSendLogSQL = `
INSERT INTO sched.send_log
  (action_ts, action_date, tracking_hash, username_std, page_type, username_page,
   scheduler_code, scheduler_email, date_local, hod_local, price_usd, caption_id,
   status, action, source)
VALUES ($1, $1::date, $2, $3, $4, $5, $6, $7, $1::date, $8, $9, $10, $11, $12, $13)
`

// AppendActions writes the whole batch inside one transaction; either every
// payload lands or none do.
func (s *SendLogPGStore) AppendActions(ctx context.Context, payloads []types.ActionPayload, meta ports.SubmissionMeta) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	for _, p := range payloads {
		if _, err := tx.Exec(ctx, insertSendLogSQL,
			meta.SubmittedAt,
			p.TrackingHash,
			p.UsernameStd,
			p.PageType,
			p.UsernamePage,
			meta.SchedulerCode,
			meta.SchedulerEmail,
			p.HodLocal,
			p.PriceUSD,
			p.CaptionID,
			string(p.Status),
			meta.Action,
			meta.Source,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// AppendOverrideMarkers writes synthetic price_override rows into the send
// log when the dedicated override store is unavailable. The OVERRIDE|...
// tracking hash and the action column keep them distinguishable from real
// sends.
func (s *SendLogPGStore) AppendOverrideMarkers(ctx context.Context, records []types.OverrideRecord, source string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	for _, rec := range records {
		if _, err := tx.Exec(ctx, insertSendLogSQL,
			rec.OverrideTS,
			OverrideMarkerHash(rec),
			rec.Creator,
			"main",
			rec.Creator+"__main",
			nil,
			rec.SchedulerEmail,
			0,
			rec.PriceEntered,
			nil,
			"Override",
			"price_override",
			source,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// OverrideMarkerHash labels a fallback marker row in place of a content
// digest. Not a dedup key; it only has to be recognizable.
func OverrideMarkerHash(rec types.OverrideRecord) string {
	return "OVERRIDE|" + rec.TierID + "|" + string(rec.Band)
}
