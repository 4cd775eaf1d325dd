package types

import "fmt"

type IssueCategory string

const (
	CategorySpacing   IssueCategory = "spacing"
	CategoryFatigue   IssueCategory = "fatigue"
	CategoryMandatory IssueCategory = "mandatory"
	CategoryPrice     IssueCategory = "price"
	CategoryCaption   IssueCategory = "caption"
)

// Severity is an ordered rank, compared numerically, not by label.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

func ParseSeverity(label string) (Severity, error) {
	switch label {
	case "info":
		return SeverityInfo, nil
	case "warning":
		return SeverityWarning, nil
	case "error":
		return SeverityError, nil
	default:
		return 0, fmt.Errorf("unknown severity %q", label)
	}
}

func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// PreflightIssue is one finding from a preflight evaluation. Issues are
// rebuilt on every run and handed to the diagnostics sink; they are never
// persisted by this module.
type PreflightIssue struct {
	Category IssueCategory  `json:"category"`
	Severity Severity       `json:"severity"`
	Message  string         `json:"message"`
	Context  map[string]any `json:"context,omitempty"`
}

// PriceViolation carries the full context of one out-of-band price.
// RowIndex is the 1-based position within the submitted batch.
type PriceViolation struct {
	RowIndex int      `json:"row"`
	Creator  string   `json:"creator"`
	TierID   string   `json:"tier_id"`
	Band     Band     `json:"band"`
	Min      *float64 `json:"min"`
	Max      *float64 `json:"max"`
	Price    float64  `json:"price"`
}
