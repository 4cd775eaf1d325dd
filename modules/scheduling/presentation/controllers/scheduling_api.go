package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/erosops/scheduler-hub/modules/scheduling/domain/types"
	"github.com/erosops/scheduler-hub/modules/scheduling/services"
	"github.com/erosops/scheduler-hub/pkg/httperr"
)

// Actor is the explicit identity threaded into every authorization-relevant
// call. There is no ambient current-user state anywhere below this layer.
type Actor struct {
	Email string
	Code  string
	Role  string
}

type ActorGetter func(ctx context.Context) (Actor, bool)

// SchedulingController exposes the preflight and submission cycle over HTTP.
// NewSession builds a fresh facade per request so tier-band caching stays
// scoped to one batch.
type SchedulingController struct {
	Actor      ActorGetter
	NewSession func() *services.SchedulingFacade
}

type preflightAPIRequest struct {
	Rows            []types.PlannedRow `json:"rows"`
	RequireCaptions bool               `json:"require_captions"`
}

type submitAPIRequest struct {
	Rows           []types.PlannedRow `json:"rows"`
	OverrideReason string             `json:"override_reason"`
}

func (c SchedulingController) HandlePreflightAPI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}

	var req preflightAPIRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "bad_json", "bad json")
		return
	}
	if err := validateRows(req.Rows); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_rows", err.Error())
		return
	}

	session := c.NewSession()
	issues, violations, err := session.Preflight(r.Context(), req.Rows, services.EvaluateOptions{RequireCaptions: req.RequireCaptions})
	if err != nil {
		writeError(w, r, http.StatusBadGateway, "preflight_failed", "preflight evaluation failed")
		return
	}
	if issues == nil {
		issues = make([]types.PreflightIssue, 0)
	}
	if violations == nil {
		violations = make([]types.PriceViolation, 0)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"issues":           issues,
		"price_violations": violations,
		"issue_count":      len(issues),
	})
}

func (c SchedulingController) HandleSubmitAPI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	actor, ok := c.Actor(r.Context())
	if !ok || strings.TrimSpace(actor.Email) == "" {
		writeError(w, r, http.StatusUnauthorized, "actor_missing", "actor identity missing")
		return
	}

	var req submitAPIRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "bad_json", "bad json")
		return
	}
	if err := validateRows(req.Rows); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_rows", err.Error())
		return
	}

	session := c.NewSession()
	res, err := session.RunSubmission(r.Context(), req.Rows, actor.Email, actor.Code, req.OverrideReason)
	if err != nil {
		if httperr.IsBadRequest(err) {
			writeError(w, r, http.StatusBadRequest, "no_actionable_rows", err.Error())
			return
		}
		if isPgInvalidInput(err) {
			writeError(w, r, http.StatusBadRequest, "invalid_input", "store rejected the batch input")
			return
		}
		writeError(w, r, http.StatusBadGateway, "submit_failed", "submission failed; treat the batch as not committed")
		return
	}
	if res.Issues == nil {
		res.Issues = make([]types.PreflightIssue, 0)
	}
	if res.Violations == nil {
		res.Violations = make([]types.PriceViolation, 0)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(res)
}

func validateRows(rows []types.PlannedRow) error {
	if len(rows) == 0 {
		return httperr.NewBadRequest("rows are required")
	}
	for i, row := range rows {
		if row.Creator() == "" {
			return httperr.NewBadRequest(fmt.Sprintf("username_std is required (row %d)", i+1))
		}
		if row.RecommendedSendTS.IsZero() {
			return httperr.NewBadRequest(fmt.Sprintf("recommended_send_ts is required (row %d)", i+1))
		}
	}
	return nil
}
