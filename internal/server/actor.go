package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/erosops/scheduler-hub/modules/scheduling/presentation/controllers"
)

type actorContextKey struct{}

// withActor lifts the actor identity headers set by the UI shell into the
// request context. Identity resolution itself (directory lookup, session
// handling) belongs to the shell; this core only ever sees explicit values.
func withActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := controllers.Actor{
			Email: strings.TrimSpace(r.Header.Get("X-Actor-Email")),
			Code:  strings.TrimSpace(r.Header.Get("X-Actor-Code")),
			Role:  strings.ToLower(strings.TrimSpace(r.Header.Get("X-Actor-Role"))),
		}
		ctx := context.WithValue(r.Context(), actorContextKey{}, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func actorFromContext(ctx context.Context) (controllers.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(controllers.Actor)
	if !ok || actor.Email == "" {
		return controllers.Actor{}, false
	}
	return actor, true
}
