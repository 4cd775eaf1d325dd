package services

import (
	"context"
	"fmt"

	"github.com/erosops/scheduler-hub/modules/scheduling/domain/types"
)

// SchedulingFacade wires one evaluation-and-submission cycle: preflight,
// override gate, then the audit-log append. Construct one per batch so the
// tier-band cache stays scoped to the session.
type SchedulingFacade struct {
	evaluator *PreflightEvaluator
	workflow  *OverrideWorkflow
	submitter *ActionSubmitter
}

func NewSchedulingFacade(evaluator *PreflightEvaluator, workflow *OverrideWorkflow, submitter *ActionSubmitter) *SchedulingFacade {
	return &SchedulingFacade{evaluator: evaluator, workflow: workflow, submitter: submitter}
}

type SubmissionResult struct {
	Outcome         GateOutcome            `json:"outcome"`
	Status          string                 `json:"status"`
	ActionsLogged   int                    `json:"actions_logged"`
	OverridesLogged int                    `json:"overrides_logged"`
	Issues          []types.PreflightIssue `json:"issues"`
	Violations      []types.PriceViolation `json:"price_violations"`
}

func (f *SchedulingFacade) Preflight(ctx context.Context, rows []types.PlannedRow, opts EvaluateOptions) ([]types.PreflightIssue, []types.PriceViolation, error) {
	return f.evaluator.Evaluate(ctx, rows, opts)
}

// RunSubmission runs the full cycle for one batch. Blocked and cancelled
// outcomes are results, not errors; the whole cycle either reaches a clear
// outcome or fails with zero committed actions.
func (f *SchedulingFacade) RunSubmission(ctx context.Context, rows []types.PlannedRow, actorEmail string, actorCode string, overrideReason string) (SubmissionResult, error) {
	issues, violations, err := f.evaluator.Evaluate(ctx, rows, EvaluateOptions{})
	if err != nil {
		return SubmissionResult{}, err
	}
	res := SubmissionResult{Issues: issues, Violations: violations}

	gate, err := f.workflow.GateSubmission(ctx, violations, actorEmail, overrideReason)
	if err != nil {
		return SubmissionResult{}, err
	}
	res.Outcome = gate.Outcome
	res.OverridesLogged = gate.OverridesLogged

	switch gate.Outcome {
	case GateBlocked:
		res.Status = fmt.Sprintf("Submission blocked: %d price violation(s). Adjust prices or ask a manager for an override.", len(violations))
		return res, nil
	case GateCancelled:
		res.Status = "Submission cancelled. No override logged."
		return res, nil
	}

	count, err := f.submitter.Submit(ctx, rows, actorEmail, actorCode)
	if err != nil {
		return SubmissionResult{}, err
	}
	res.ActionsLogged = count
	if gate.OverridesLogged > 0 {
		res.Status = fmt.Sprintf("Submitted: %d action(s) logged (%d override(s)).", count, gate.OverridesLogged)
	} else {
		res.Status = fmt.Sprintf("Submitted: %d action(s) logged.", count)
	}
	return res, nil
}
