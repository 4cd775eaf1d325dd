package services

import (
	"strings"

	"github.com/erosops/scheduler-hub/modules/scheduling/domain/types"
)

// ClassifyBand maps a free-text price-tier label onto a guardrail band.
// Matching is case-insensitive; anything unrecognized is BandNone and the
// caller reports it as an unknown-tier finding instead of dropping it.
func ClassifyBand(label string) types.Band {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "PREMIUM", "HIGH":
		return types.BandPremium
	case "MEDIUM", "MID", "CORE":
		return types.BandMid
	case "TEASER", "LOW":
		return types.BandTeaser
	default:
		return types.BandNone
	}
}

// CheckPrice reports whether price sits inside [min, max]. A nil bound is
// open on that side and both bounds are inclusive, so a price exactly at a
// bound is in range.
func CheckPrice(min *float64, max *float64, price float64) bool {
	if min != nil && price < *min {
		return false
	}
	if max != nil && price > *max {
		return false
	}
	return true
}
