package types

import (
	"strings"
	"time"
)

// PlannedRow is one candidate send produced by the recommendation feed.
// UsernameStd and RecommendedSendTS are required; every other field is
// optional and a zero value means "no signal", not an error. Only Status,
// PriceOverride and the caption fields are operator-editable.
type PlannedRow struct {
	UsernameStd          string    `json:"username_std"`
	PageHandle           string    `json:"page_handle"`
	PageType             string    `json:"page_type"`
	TierID               string    `json:"full_tier_assignment"`
	MessageType          string    `json:"message_type"`
	MessageSubtype       string    `json:"message_subtype"`
	RecommendedSendTS    time.Time `json:"recommended_send_ts"`
	LocalTime            string    `json:"local_time"`
	RecommendationRank   int       `json:"recommendation_rank"`
	RecommendationScore  float64   `json:"recommendation_score"`
	PriceTier            string    `json:"price_tier"`
	SuggestedPrice       float64   `json:"suggested_price"`
	FatigueSafetyScore   float64   `json:"fatigue_safety_score"`
	IsMandatory          bool      `json:"is_mandatory"`
	SpacingOK            bool      `json:"spacing_ok"`
	RecommendationReason string    `json:"recommendation_reason"`
	CaptionGuidance      string    `json:"caption_guidance"`

	Status        string   `json:"status"`
	PriceOverride *float64 `json:"price_override,omitempty"`
	CaptionID     *string  `json:"caption_id,omitempty"`
	CaptionText   string   `json:"caption_text,omitempty"`
}

func (r PlannedRow) Creator() string { return strings.TrimSpace(r.UsernameStd) }
