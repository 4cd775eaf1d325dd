package types

import "time"

type ActionStatus string

const (
	ActionReady  ActionStatus = "Ready"
	ActionQueued ActionStatus = "Queued"
	ActionSent   ActionStatus = "Sent"
)

// ActionPayload is the unit appended to the send log. Constructed from a
// PlannedRow at submission time and never mutated afterwards. TrackingHash
// is the dedup/idempotency key downstream reconciliation relies on.
type ActionPayload struct {
	TrackingHash string       `json:"tracking_hash"`
	UsernameStd  string       `json:"username_std"`
	PageType     string       `json:"page_type"`
	UsernamePage string       `json:"username_page"`
	PriceUSD     float64      `json:"price_usd"`
	CaptionID    *string      `json:"caption_id"`
	HodLocal     int          `json:"hod_local"`
	Status       ActionStatus `json:"status"`
}

// OverrideRecord is one manager-approved guardrail bypass. Append-only.
type OverrideRecord struct {
	OverrideID     string    `json:"override_id"`
	OverrideTS     time.Time `json:"override_ts"`
	Creator        string    `json:"username_std"`
	TierID         string    `json:"tier_id"`
	Band           Band      `json:"price_band"`
	MinAllowed     *float64  `json:"min_allowed"`
	MaxAllowed     *float64  `json:"max_allowed"`
	PriceEntered   float64   `json:"price_entered"`
	Reason         string    `json:"reason"`
	SchedulerEmail string    `json:"scheduler_email"`
}
