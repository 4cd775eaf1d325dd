package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/erosops/scheduler-hub/modules/scheduling/domain/ports"
	"github.com/erosops/scheduler-hub/modules/scheduling/domain/types"
	"github.com/erosops/scheduler-hub/pkg/uuidv7"
)

type GateOutcome string

const (
	GateProceed          GateOutcome = "proceed"
	GateBlocked          GateOutcome = "blocked"
	GateCancelled        GateOutcome = "cancelled"
	GateOverrideApproved GateOutcome = "override_approved"
)

type GateResult struct {
	Outcome         GateOutcome
	OverridesLogged int
}

// OverrideWorkflow decides whether price violations may be bypassed and
// persists the override decision when they are.
type OverrideWorkflow struct {
	roster    ports.RosterStore
	overrides ports.OverrideStore
	actions   ports.ActionLog

	newOverrideID func() (string, error)
	nowUTC        func() time.Time
}

func NewOverrideWorkflow(roster ports.RosterStore, overrides ports.OverrideStore, actions ports.ActionLog) *OverrideWorkflow {
	return &OverrideWorkflow{
		roster:        roster,
		overrides:     overrides,
		actions:       actions,
		newOverrideID: uuidv7.NewString,
		nowUTC:        func() time.Time { return time.Now().UTC() },
	}
}

// Authorize resolves the manager flag for actorEmail. The roster grants
// affirmatively; anything else (absent row, roster fault, roster says no)
// consults the legacy assignment table. Ambiguous or error states never
// grant: the default is false.
func (w *OverrideWorkflow) Authorize(ctx context.Context, actorEmail string) bool {
	if isManager, found, err := w.roster.RosterIsManager(ctx, actorEmail); err == nil && found && isManager {
		return true
	}
	isManager, found, err := w.roster.AssignmentIsManager(ctx, actorEmail)
	if err != nil || !found {
		return false
	}
	return isManager
}

// GateSubmission is the four-outcome gate in front of action submission:
//
//  1. no violations: proceed straight through, no writes;
//  2. violations and a non-manager actor: blocked, no writes;
//  3. violations, manager, no reason captured: cancelled, no writes;
//  4. violations, manager, reason captured: one OverrideRecord per violation
//     is persisted, then submission proceeds.
//
// When the override store is down the records fall back to synthetic marker
// rows in the action log. An override is never silently lost: if both writes
// fail the gate fails and the caller must not submit.
func (w *OverrideWorkflow) GateSubmission(ctx context.Context, violations []types.PriceViolation, actorEmail string, reason string) (GateResult, error) {
	if len(violations) == 0 {
		return GateResult{Outcome: GateProceed}, nil
	}
	if !w.Authorize(ctx, actorEmail) {
		return GateResult{Outcome: GateBlocked}, nil
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return GateResult{Outcome: GateCancelled}, nil
	}

	now := w.nowUTC()
	records := make([]types.OverrideRecord, 0, len(violations))
	for _, v := range violations {
		id, err := w.newOverrideID()
		if err != nil {
			return GateResult{}, fmt.Errorf("override id: %w", err)
		}
		records = append(records, types.OverrideRecord{
			OverrideID:     id,
			OverrideTS:     now,
			Creator:        v.Creator,
			TierID:         v.TierID,
			Band:           v.Band,
			MinAllowed:     v.Min,
			MaxAllowed:     v.Max,
			PriceEntered:   v.Price,
			Reason:         reason,
			SchedulerEmail: actorEmail,
		})
	}

	if err := w.overrides.AppendOverrides(ctx, records); err != nil {
		if fbErr := w.actions.AppendOverrideMarkers(ctx, records, sourceLabel); fbErr != nil {
			return GateResult{}, fmt.Errorf("override log failed: %v (fallback: %w)", err, fbErr)
		}
	}
	return GateResult{Outcome: GateOverrideApproved, OverridesLogged: len(records)}, nil
}
