package services

import (
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/erosops/scheduler-hub/modules/scheduling/domain/types"
)

// RuleConfig is one operator-defined preflight rule. Expr is a CEL
// expression over the `row` map and must evaluate to bool; rows it matches
// are reported as one aggregated issue under the configured category.
type RuleConfig struct {
	Name     string
	Category string
	Severity string
	Expr     string
	Message  string
}

type compiledRule struct {
	name     string
	category types.IssueCategory
	severity types.Severity
	message  string
	prog     cel.Program
}

// RuleSet holds the compiled rule programs for one server instance.
// Compilation happens once at startup; evaluation is allocation-light.
type RuleSet struct {
	rules []compiledRule
}

func newRuleCELEnv() (*cel.Env, error) {
	return cel.NewEnv(cel.Variable("row", cel.MapType(cel.StringType, cel.DynType)))
}

func CompileRules(cfgs []RuleConfig) (*RuleSet, error) {
	if len(cfgs) == 0 {
		return nil, nil
	}
	env, err := newRuleCELEnv()
	if err != nil {
		return nil, err
	}

	set := &RuleSet{rules: make([]compiledRule, 0, len(cfgs))}
	for _, cfg := range cfgs {
		if cfg.Name == "" || cfg.Expr == "" {
			return nil, fmt.Errorf("rule %q: name and expr are required", cfg.Name)
		}
		severity, err := types.ParseSeverity(cfg.Severity)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", cfg.Name, err)
		}
		category := types.IssueCategory(cfg.Category)
		switch category {
		case types.CategorySpacing, types.CategoryFatigue, types.CategoryMandatory, types.CategoryPrice, types.CategoryCaption:
		default:
			return nil, fmt.Errorf("rule %q: unknown category %q", cfg.Name, cfg.Category)
		}

		ast, iss := env.Compile(cfg.Expr)
		if iss != nil && iss.Err() != nil {
			return nil, fmt.Errorf("rule %q: %w", cfg.Name, iss.Err())
		}
		if ast.OutputType() != cel.BoolType {
			return nil, fmt.Errorf("rule %q: expr must yield bool, got %s", cfg.Name, ast.OutputType())
		}
		prog, err := env.Program(ast)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", cfg.Name, err)
		}
		message := cfg.Message
		if message == "" {
			message = fmt.Sprintf("Rule %q matched.", cfg.Name)
		}
		set.rules = append(set.rules, compiledRule{
			name:     cfg.Name,
			category: category,
			severity: severity,
			message:  message,
			prog:     prog,
		})
	}
	return set, nil
}

// Evaluate runs every rule over the batch and returns at most one aggregated
// issue per rule, listing the matched creators in evaluation order.
func (s *RuleSet) Evaluate(rows []types.PlannedRow) ([]types.PreflightIssue, error) {
	if s == nil || len(s.rules) == 0 {
		return nil, nil
	}

	var issues []types.PreflightIssue
	for _, rule := range s.rules {
		var matched []string
		for i, row := range rows {
			out, _, err := rule.prog.Eval(map[string]any{"row": ruleActivation(row)})
			if err != nil {
				return nil, fmt.Errorf("rule %q row %d: %w", rule.name, i+1, err)
			}
			hit, ok := out.Value().(bool)
			if !ok {
				return nil, fmt.Errorf("rule %q row %d: non-bool result", rule.name, i+1)
			}
			if hit {
				matched = append(matched, row.UsernameStd)
			}
		}
		if len(matched) == 0 {
			continue
		}
		issues = append(issues, types.PreflightIssue{
			Category: rule.category,
			Severity: rule.severity,
			Message:  rule.message,
			Context:  map[string]any{"rule": rule.name, "matched": matched},
		})
	}
	return issues, nil
}

func ruleActivation(row types.PlannedRow) map[string]any {
	return map[string]any{
		"username_std":         row.UsernameStd,
		"page_type":            row.PageType,
		"tier_id":              row.TierID,
		"message_type":         row.MessageType,
		"message_subtype":      row.MessageSubtype,
		"price_tier":           row.PriceTier,
		"suggested_price":      row.SuggestedPrice,
		"fatigue_safety_score": row.FatigueSafetyScore,
		"is_mandatory":         row.IsMandatory,
		"spacing_ok":           row.SpacingOK,
		"hour_local":           ParseHourOfDay(row.LocalTime),
		"status":               row.Status,
	}
}
