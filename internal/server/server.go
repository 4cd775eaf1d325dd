package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/erosops/scheduler-hub/internal/config"
	"github.com/erosops/scheduler-hub/modules/scheduling/domain/ports"
	"github.com/erosops/scheduler-hub/modules/scheduling/infrastructure/persistence"
	"github.com/erosops/scheduler-hub/modules/scheduling/presentation/controllers"
	"github.com/erosops/scheduler-hub/modules/scheduling/services"
	"github.com/erosops/scheduler-hub/pkg/authz"
)

type Deps struct {
	TierBands  ports.TierBandStore
	Roster     ports.RosterStore
	Actions    ports.ActionLog
	Overrides  ports.OverrideStore
	Rules      *services.RuleSet
	Authorizer *authz.Authorizer
}

// NewMux wires the scheduling API. Every request gets its own facade so the
// per-session tier-band cache never crosses batches.
func NewMux(deps Deps) *http.ServeMux {
	controller := controllers.SchedulingController{
		Actor: actorFromContext,
		NewSession: func() *services.SchedulingFacade {
			resolver := services.NewTierBandResolver(deps.TierBands)
			evaluator := services.NewPreflightEvaluator(resolver, deps.Rules)
			workflow := services.NewOverrideWorkflow(deps.Roster, deps.Overrides, deps.Actions)
			submitter := services.NewActionSubmitter(deps.Actions)
			return services.NewSchedulingFacade(evaluator, workflow, submitter)
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	mux.Handle("/api/scheduling/preflight",
		withActor(requireAuthz(deps.Authorizer, authz.ObjectSchedulingPlanner, authz.ActionPreflight,
			http.HandlerFunc(controller.HandlePreflightAPI))))
	mux.Handle("/api/scheduling/submit",
		withActor(requireAuthz(deps.Authorizer, authz.ObjectSchedulingActions, authz.ActionSubmit,
			http.HandlerFunc(controller.HandleSubmitAPI))))
	return mux
}

// requireAuthz gates a route on the casbin policy. A nil authorizer means no
// policy is configured and the route stays open; shadow-mode denials are
// logged but not enforced.
func requireAuthz(a *authz.Authorizer, object string, action string, next http.Handler) http.Handler {
	if a == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, _ := actorFromContext(r.Context())
		subject := authz.SubjectFromRoleSlug(actor.Role)
		allowed, enforced, err := a.Authorize(subject, object, action)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, "authz_error", "authorization check failed")
			return
		}
		if !allowed {
			if !enforced {
				log.Printf("authz shadow deny: subject=%s object=%s action=%s", subject, object, action)
			} else {
				writeJSONError(w, http.StatusForbidden, "forbidden", "actor role may not perform this action")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSONError(w http.ResponseWriter, status int, code string, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"code": code, "message": message})
}

// NewFromEnv builds the production handler: YAML config (optional), casbin
// policy when configured, and pgx-backed stores from DATABASE_URL.
func NewFromEnv(ctx context.Context) (http.Handler, error) {
	cfg := config.Default()
	if path := os.Getenv("SCHEDULER_CONFIG"); path != "" {
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return nil, err
		}
	}

	ruleConfigs := make([]services.RuleConfig, 0, len(cfg.Rules))
	for _, rule := range cfg.Rules {
		ruleConfigs = append(ruleConfigs, services.RuleConfig{
			Name:     rule.Name,
			Category: rule.Category,
			Severity: rule.Severity,
			Expr:     rule.Expr,
			Message:  rule.Message,
		})
	}
	rules, err := services.CompileRules(ruleConfigs)
	if err != nil {
		return nil, err
	}

	var authorizer *authz.Authorizer
	if cfg.Authz.ModelPath != "" {
		mode, err := authz.ModeFromEnv()
		if err != nil {
			return nil, err
		}
		authorizer, err = authz.NewAuthorizer(cfg.Authz.ModelPath, cfg.Authz.PolicyPath, mode)
		if err != nil {
			return nil, err
		}
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return nil, errors.New("server: DATABASE_URL is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}

	return NewMux(Deps{
		TierBands:  persistence.NewTierBandPGStore(pool),
		Roster:     persistence.NewRosterPGStore(pool),
		Actions:    persistence.NewSendLogPGStore(pool),
		Overrides:  persistence.NewOverridePGStore(pool),
		Rules:      rules,
		Authorizer: authorizer,
	}), nil
}
