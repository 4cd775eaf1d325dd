package ports

import (
	"context"
	"time"

	"github.com/erosops/scheduler-hub/modules/scheduling/domain/types"
)

// TierBandStore looks up the price guardrail template for one tier id.
// found=false for an unknown tier is not an error.
type TierBandStore interface {
	FindTierBand(ctx context.Context, tierID string) (types.TierBand, bool, error)
}

// RosterStore resolves the manager flag for a scheduler email. The roster
// table is authoritative; the legacy assignment table exists only as a
// fallback and the workflow owns the resolution order.
type RosterStore interface {
	RosterIsManager(ctx context.Context, email string) (isManager bool, found bool, err error)
	AssignmentIsManager(ctx context.Context, email string) (isManager bool, found bool, err error)
}

// SubmissionMeta tags one send-log append with actor identity and a fixed
// source marker.
type SubmissionMeta struct {
	SchedulerEmail string
	SchedulerCode  string
	SubmittedAt    time.Time
	Action         string
	Source         string
}

// ActionLog is the append-only audit log. AppendActions must apply the whole
// batch in one transaction; a partially applied append is a failed append.
// AppendOverrideMarkers writes synthetic price_override rows and is the
// fallback target when the override store is unavailable.
type ActionLog interface {
	AppendActions(ctx context.Context, payloads []types.ActionPayload, meta SubmissionMeta) error
	AppendOverrideMarkers(ctx context.Context, records []types.OverrideRecord, source string) error
}

// OverrideStore persists manager-approved guardrail bypasses.
type OverrideStore interface {
	AppendOverrides(ctx context.Context, records []types.OverrideRecord) error
}
