package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/erosops/scheduler-hub/modules/scheduling/domain/ports"
	"github.com/erosops/scheduler-hub/modules/scheduling/domain/types"
	"github.com/erosops/scheduler-hub/pkg/authz"
)

type tierBandStoreStub struct{}

func (tierBandStoreStub) FindTierBand(context.Context, string) (types.TierBand, bool, error) {
	return types.TierBand{}, false, nil
}

type rosterStoreStub struct{}

func (rosterStoreStub) RosterIsManager(context.Context, string) (bool, bool, error) {
	return false, true, nil
}

func (rosterStoreStub) AssignmentIsManager(context.Context, string) (bool, bool, error) {
	return false, false, nil
}

type actionLogStub struct {
	batches [][]types.ActionPayload
}

func (s *actionLogStub) AppendActions(_ context.Context, payloads []types.ActionPayload, _ ports.SubmissionMeta) error {
	s.batches = append(s.batches, payloads)
	return nil
}

func (s *actionLogStub) AppendOverrideMarkers(context.Context, []types.OverrideRecord, string) error {
	return nil
}

type overrideStoreStub struct{}

func (overrideStoreStub) AppendOverrides(context.Context, []types.OverrideRecord) error {
	return nil
}

func testDeps(actions *actionLogStub, authorizer *authz.Authorizer) Deps {
	return Deps{
		TierBands:  tierBandStoreStub{},
		Roster:     rosterStoreStub{},
		Actions:    actions,
		Overrides:  overrideStoreStub{},
		Authorizer: authorizer,
	}
}

func submitBody(t *testing.T) *strings.Reader {
	t.Helper()
	raw, err := json.Marshal(map[string]any{"rows": []types.PlannedRow{{
		UsernameStd:        "alex",
		PageType:           "main",
		MessageType:        "ppv",
		RecommendedSendTS:  time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC),
		LocalTime:          "09:00",
		FatigueSafetyScore: 90,
		Status:             "Ready",
	}}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return strings.NewReader(string(raw))
}

func TestActorFromContext(t *testing.T) {
	var gotEmail, gotCode, gotRole string
	var gotOK bool
	h := withActor(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFromContext(r.Context())
		gotEmail, gotCode, gotRole, gotOK = actor.Email, actor.Code, actor.Role, ok
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Actor-Email", " ops@example.com ")
	req.Header.Set("X-Actor-Code", "SCH-7")
	req.Header.Set("X-Actor-Role", "Manager")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if !gotOK || gotEmail != "ops@example.com" || gotCode != "SCH-7" || gotRole != "manager" {
		t.Fatalf("actor=(%q,%q,%q) ok=%v", gotEmail, gotCode, gotRole, gotOK)
	}

	if _, ok := actorFromContext(context.Background()); ok {
		t.Fatal("empty context must yield no actor")
	}
}

func TestMux_Healthz(t *testing.T) {
	mux := NewMux(testDeps(&actionLogStub{}, nil))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("body=%v", body)
	}
}

func TestMux_SubmitWithoutAuthorizer(t *testing.T) {
	actions := &actionLogStub{}
	mux := NewMux(testDeps(actions, nil))

	req := httptest.NewRequest(http.MethodPost, "/api/scheduling/submit", submitBody(t))
	req.Header.Set("X-Actor-Email", "ops@example.com")
	req.Header.Set("X-Actor-Code", "SCH-7")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	if len(actions.batches) != 1 {
		t.Fatalf("batches=%v", actions.batches)
	}
}

func writePolicyFixture(t *testing.T) (modelPath, policyPath string) {
	t.Helper()
	dir := t.TempDir()
	modelPath = filepath.Join(dir, "model.conf")
	policyPath = filepath.Join(dir, "policy.csv")

	model := `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`
	policy := "p, role:scheduler, scheduling.actions, submit\n"
	if err := os.WriteFile(modelPath, []byte(model), 0o600); err != nil {
		t.Fatalf("write model: %v", err)
	}
	if err := os.WriteFile(policyPath, []byte(policy), 0o600); err != nil {
		t.Fatalf("write policy: %v", err)
	}
	return modelPath, policyPath
}

func TestMux_EnforcedAuthz(t *testing.T) {
	modelPath, policyPath := writePolicyFixture(t)
	authorizer, err := authz.NewAuthorizer(modelPath, policyPath, authz.ModeEnforce)
	if err != nil {
		t.Fatalf("authorizer: %v", err)
	}
	actions := &actionLogStub{}
	mux := NewMux(testDeps(actions, authorizer))

	req := httptest.NewRequest(http.MethodPost, "/api/scheduling/submit", submitBody(t))
	req.Header.Set("X-Actor-Email", "ops@example.com")
	req.Header.Set("X-Actor-Role", "scheduler")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("granted role: status=%d body=%s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/api/scheduling/submit", submitBody(t))
	req.Header.Set("X-Actor-Email", "nobody@example.com")
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("anonymous role: status=%d", rec.Code)
	}
	if len(actions.batches) != 1 {
		t.Fatalf("forbidden request must not reach the submitter: %v", actions.batches)
	}
}

func TestMux_ShadowAuthzDoesNotBlock(t *testing.T) {
	modelPath, policyPath := writePolicyFixture(t)
	authorizer, err := authz.NewAuthorizer(modelPath, policyPath, authz.ModeShadow)
	if err != nil {
		t.Fatalf("authorizer: %v", err)
	}
	mux := NewMux(testDeps(&actionLogStub{}, authorizer))

	req := httptest.NewRequest(http.MethodPost, "/api/scheduling/submit", submitBody(t))
	req.Header.Set("X-Actor-Email", "ops@example.com")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("shadow deny must pass through: status=%d body=%s", rec.Code, rec.Body.String())
	}
}
