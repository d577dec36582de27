package http

import (
	"context"
	"net/http"
)

// Role is the caller's role as asserted by the API gateway.
type Role string

const (
	RoleTourist       Role = "tourist"
	RoleProviderStaff Role = "provider_staff"
	RoleSystemAdmin   Role = "system_admin"
)

// Actor identifies the authenticated caller. Authentication happens upstream;
// the gateway forwards identity as trusted headers.
type Actor struct {
	UserID string
	Role   Role
}

// IsStaff reports whether the actor may perform provider operations.
func (a Actor) IsStaff() bool {
	return a.Role == RoleProviderStaff || a.Role == RoleSystemAdmin
}

type actorContextKey struct{}

const (
	headerUserID   = "X-User-ID"
	headerUserRole = "X-User-Role"
)

// WithActor extracts the gateway identity headers and places an Actor in the
// request context. Requests without a valid identity are rejected.
func WithActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(headerUserID)
		role := Role(r.Header.Get(headerUserRole))

		if userID == "" {
			writeError(w, http.StatusForbidden, codeForbidden, "missing identity")
			return
		}
		switch role {
		case RoleTourist, RoleProviderStaff, RoleSystemAdmin:
		default:
			writeError(w, http.StatusForbidden, codeForbidden, "unknown role")
			return
		}

		ctx := context.WithValue(r.Context(), actorContextKey{}, Actor{UserID: userID, Role: role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func actorFrom(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(Actor)
	return actor, ok
}

// requireStaff writes a 403 and returns false when the caller is not staff.
func requireStaff(w http.ResponseWriter, r *http.Request) (Actor, bool) {
	actor, ok := actorFrom(r.Context())
	if !ok || !actor.IsStaff() {
		writeError(w, http.StatusForbidden, codeForbidden, "staff role required")
		return Actor{}, false
	}
	return actor, true
}

func requireActor(w http.ResponseWriter, r *http.Request) (Actor, bool) {
	actor, ok := actorFrom(r.Context())
	if !ok {
		writeError(w, http.StatusForbidden, codeForbidden, "missing identity")
		return Actor{}, false
	}
	return actor, true
}
