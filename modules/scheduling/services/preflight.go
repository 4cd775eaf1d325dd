package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/erosops/scheduler-hub/modules/scheduling/domain/types"
)

const (
	fatigueWarnBelow  = 30.0
	spacingWindowMins = 60
)

type EvaluateOptions struct {
	// RequireCaptions appends an informational caption-readiness issue,
	// mirroring the planner-side validation toggle.
	RequireCaptions bool
}

// PreflightEvaluator runs the guardrail checks over one batch of planned
// rows. Business-rule violations come back as data; only infrastructure
// faults (tier store unreachable) surface as errors, and any such fault
// aborts the whole evaluation rather than reporting a pass that was never
// checked.
type PreflightEvaluator struct {
	resolver *TierBandResolver
	rules    *RuleSet
}

func NewPreflightEvaluator(resolver *TierBandResolver, rules *RuleSet) *PreflightEvaluator {
	return &PreflightEvaluator{resolver: resolver, rules: rules}
}

// Evaluate returns the severity-ordered issue list plus the structured price
// violations the override workflow needs. Errors first; within one severity
// the evaluation order (spacing, fatigue, mandatory, price) is preserved.
func (e *PreflightEvaluator) Evaluate(ctx context.Context, rows []types.PlannedRow, opts EvaluateOptions) ([]types.PreflightIssue, []types.PriceViolation, error) {
	issues := make([]types.PreflightIssue, 0, 4)

	issues = append(issues, evaluateSpacing(rows)...)
	issues = append(issues, evaluateFatigue(rows)...)
	issues = append(issues, evaluateMandatory(rows)...)

	priceIssues, violations, err := e.evaluatePricing(ctx, rows)
	if err != nil {
		return nil, nil, err
	}
	issues = append(issues, priceIssues...)

	if e.rules != nil {
		ruleIssues, err := e.rules.Evaluate(rows)
		if err != nil {
			return nil, nil, err
		}
		issues = append(issues, ruleIssues...)
	}

	if opts.RequireCaptions {
		issues = append(issues, types.PreflightIssue{
			Category: types.CategoryCaption,
			Severity: types.SeverityInfo,
			Message:  "Caption readiness enforced by planner validation.",
		})
	}

	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Severity > issues[j].Severity
	})
	return issues, violations, nil
}

// evaluateSpacing flags creators with two consecutive sends closer than the
// spacing window. A gap of exactly zero is the same slot, not a violation,
// and a gap of exactly 60 minutes is allowed.
func evaluateSpacing(rows []types.PlannedRow) []types.PreflightIssue {
	byCreator := make(map[string][]time.Time)
	for _, row := range rows {
		creator := row.Creator()
		if creator == "" {
			continue
		}
		byCreator[creator] = append(byCreator[creator], row.RecommendedSendTS)
	}

	creators := make([]string, 0, len(byCreator))
	for creator := range byCreator {
		creators = append(creators, creator)
	}
	sort.Strings(creators)

	var offenders []string
	for _, creator := range creators {
		stamps := byCreator[creator]
		sort.Slice(stamps, func(i, j int) bool { return stamps[i].Before(stamps[j]) })
		for i := 1; i < len(stamps); i++ {
			gap := stamps[i].Sub(stamps[i-1])
			if gap > 0 && gap < spacingWindowMins*time.Minute {
				offenders = append(offenders, fmt.Sprintf("%s (%d min)", creator, int(gap.Round(time.Minute)/time.Minute)))
				break
			}
		}
	}

	if len(offenders) == 0 {
		return nil
	}
	return []types.PreflightIssue{{
		Category: types.CategorySpacing,
		Severity: types.SeverityWarning,
		Message:  fmt.Sprintf("Tight spacing detected (<60 min) for %d creator(s).", len(offenders)),
		Context:  map[string]any{"offenders": offenders},
	}}
}

func evaluateFatigue(rows []types.PlannedRow) []types.PreflightIssue {
	var highRisk []string
	for _, row := range rows {
		if row.FatigueSafetyScore < fatigueWarnBelow {
			highRisk = append(highRisk, fmt.Sprintf("%s (%s)", row.UsernameStd, strconv.FormatFloat(row.FatigueSafetyScore, 'f', -1, 64)))
		}
	}
	if len(highRisk) == 0 {
		return nil
	}
	return []types.PreflightIssue{{
		Category: types.CategoryFatigue,
		Severity: types.SeverityWarning,
		Message:  fmt.Sprintf("High fatigue risk (<30) for %d slot(s).", len(highRisk)),
		Context:  map[string]any{"high_risk": highRisk},
	}}
}

// evaluateMandatory emits a coverage confirmation whenever at least one row
// is mandatory; with zero mandatory rows there is nothing to confirm.
func evaluateMandatory(rows []types.PlannedRow) []types.PreflightIssue {
	byCreator := make(map[string]any)
	for _, row := range rows {
		if !row.IsMandatory {
			continue
		}
		count, _ := byCreator[row.UsernameStd].(int)
		byCreator[row.UsernameStd] = count + 1
	}
	if len(byCreator) == 0 {
		return nil
	}
	return []types.PreflightIssue{{
		Category: types.CategoryMandatory,
		Severity: types.SeverityInfo,
		Message:  "Mandatory coverage summary.",
		Context:  byCreator,
	}}
}

func (e *PreflightEvaluator) evaluatePricing(ctx context.Context, rows []types.PlannedRow) ([]types.PreflightIssue, []types.PriceViolation, error) {
	var texts []string
	var violations []types.PriceViolation

	for i, row := range rows {
		if row.SuggestedPrice == 0 || row.PriceTier == "" {
			continue
		}
		band, err := e.resolver.Resolve(ctx, row.TierID)
		if err != nil {
			return nil, nil, fmt.Errorf("resolve tier band %q: %w", row.TierID, err)
		}
		if band == nil {
			continue
		}
		key := ClassifyBand(row.PriceTier)
		if key == types.BandNone {
			texts = append(texts, fmt.Sprintf("%s: unknown price tier %q", row.UsernameStd, row.PriceTier))
			continue
		}
		min, max := band.Range(key)
		price := effectivePrice(row)
		if CheckPrice(min, max, price) {
			continue
		}
		texts = append(texts, fmt.Sprintf("%s: %.2f outside [%s - %s] (%s)", row.UsernameStd, price, boundLabel(min), boundLabel(max), key))
		violations = append(violations, types.PriceViolation{
			RowIndex: i + 1,
			Creator:  row.UsernameStd,
			TierID:   row.TierID,
			Band:     key,
			Min:      min,
			Max:      max,
			Price:    price,
		})
	}

	if len(texts) == 0 {
		return nil, violations, nil
	}
	return []types.PreflightIssue{{
		Category: types.CategoryPrice,
		Severity: types.SeverityError,
		Message:  "Price outside tier guardrail.",
		Context:  map[string]any{"violations": texts},
	}}, violations, nil
}

func boundLabel(v *float64) string {
	if v == nil {
		return "?"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
