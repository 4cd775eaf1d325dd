package services

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"strings"
	"time"

	"github.com/erosops/scheduler-hub/modules/scheduling/domain/ports"
	"github.com/erosops/scheduler-hub/modules/scheduling/domain/types"
	"github.com/erosops/scheduler-hub/pkg/httperr"
)

const (
	sourceLabel  = "scheduler_hub"
	submitAction = "ui_submit"
)

// TrackingHash digests the identifying fields of a planned send. Same
// (username, page type, message type, timestamp) tuple, same hash: this is
// the idempotency key reconciliation uses to spot duplicate log rows after
// an ambiguous append.
func TrackingHash(row types.PlannedRow) string {
	payload := strings.Join([]string{
		row.UsernameStd,
		row.PageType,
		row.MessageType,
		row.RecommendedSendTS.UTC().Format(time.RFC3339),
	}, "|")
	sum := md5.Sum([]byte(payload))
	return hex.EncodeToString(sum[:])
}

func effectivePrice(row types.PlannedRow) float64 {
	if row.PriceOverride != nil {
		return *row.PriceOverride
	}
	return row.SuggestedPrice
}

// BuildPayloads keeps the actionable rows (status Ready or Sent, creator
// present) and converts them into immutable action payloads. Anything in
// another status is simply not yet actionable and is skipped silently.
func BuildPayloads(rows []types.PlannedRow) []types.ActionPayload {
	var payloads []types.ActionPayload
	for _, row := range rows {
		status := strings.ToUpper(strings.TrimSpace(row.Status))
		if status != "READY" && status != "SENT" {
			continue
		}
		creator := row.Creator()
		if creator == "" {
			continue
		}
		pageType := strings.ToLower(strings.TrimSpace(row.PageType))
		pageKey := pageType
		if pageKey == "" {
			pageKey = "main"
		}
		payloadStatus := types.ActionReady
		if status == "SENT" {
			payloadStatus = types.ActionSent
		}
		payloads = append(payloads, types.ActionPayload{
			TrackingHash: TrackingHash(row),
			UsernameStd:  creator,
			PageType:     pageType,
			UsernamePage: creator + "__" + pageKey,
			PriceUSD:     effectivePrice(row),
			CaptionID:    row.CaptionID,
			HodLocal:     ParseHourOfDay(row.LocalTime),
			Status:       payloadStatus,
		})
	}
	return payloads
}

// ActionSubmitter commits approved rows to the append-only send log.
type ActionSubmitter struct {
	log    ports.ActionLog
	nowUTC func() time.Time
}

func NewActionSubmitter(log ports.ActionLog) *ActionSubmitter {
	return &ActionSubmitter{log: log, nowUTC: func() time.Time { return time.Now().UTC() }}
}

// Submit appends the actionable subset of rows as one atomic batch and
// returns the committed count. An empty actionable subset rejects the whole
// batch with zero writes. If the append fails, nothing may be assumed
// committed; retrying is safe because the tracking hash makes any rows that
// did land detectable downstream.
func (s *ActionSubmitter) Submit(ctx context.Context, rows []types.PlannedRow, actorEmail string, actorCode string) (int, error) {
	payloads := BuildPayloads(rows)
	if len(payloads) == 0 {
		return 0, httperr.NewBadRequest("mark at least one row as Ready or Sent before submitting")
	}
	meta := ports.SubmissionMeta{
		SchedulerEmail: actorEmail,
		SchedulerCode:  actorCode,
		SubmittedAt:    s.nowUTC(),
		Action:         submitAction,
		Source:         sourceLabel,
	}
	if err := s.log.AppendActions(ctx, payloads, meta); err != nil {
		return 0, err
	}
	return len(payloads), nil
}
