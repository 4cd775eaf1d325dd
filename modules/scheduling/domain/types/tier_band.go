package types

// Band identifies one guardrail band within a tier template. Wire labels
// match the warehouse columns (prem/mid/tea).
type Band string

const (
	BandNone    Band = ""
	BandPremium Band = "prem"
	BandMid     Band = "mid"
	BandTeaser  Band = "tea"
)

// TierBand is the resolved price guardrail for one tier id. A nil bound is
// open on that side. Immutable once fetched.
type TierBand struct {
	PremMin *float64 `json:"prem_min"`
	PremMax *float64 `json:"prem_max"`
	MidMin  *float64 `json:"mid_min"`
	MidMax  *float64 `json:"mid_max"`
	TeaMin  *float64 `json:"tea_min"`
	TeaMax  *float64 `json:"tea_max"`
}

// Range returns the bounds for one band. BandNone yields open bounds.
func (b TierBand) Range(band Band) (min *float64, max *float64) {
	switch band {
	case BandPremium:
		return b.PremMin, b.PremMax
	case BandMid:
		return b.MidMin, b.MidMax
	case BandTeaser:
		return b.TeaMin, b.TeaMax
	default:
		return nil, nil
	}
}
