package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gustavoamc/sitem-backend/internal/app/store"
	"github.com/gustavoamc/sitem-backend/internal/pkg/resp"
)

// contextKey is a private type for context keys, preventing collisions with
// other packages.
type contextKey string

// identityContextKey stores the resolved store.User in the request context.
const identityContextKey contextKey = "identity"

// ExtractBearer returns the bearer token from the Authorization header, or
// an empty string when the header is missing or not in Bearer form.
func ExtractBearer(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}

	return parts[1]
}

// RequireStatus returns a middleware that resolves the caller's identity and
// authorizes it against the allowed roles before the handler runs. Requests
// failing any gate are rejected with zero side effects.
func (g *Guard) RequireStatus(allowedRoles ...store.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, customErr := g.ResolveIdentity(r.Context(), ExtractBearer(r))
			if customErr != nil {
				resp.RespondError(w, r, customErr)
				return
			}

			if customErr := g.Authorize(user, allowedRoles...); customErr != nil {
				resp.RespondError(w, r, customErr)
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext returns the identity injected by RequireStatus.
func IdentityFromContext(ctx context.Context) (store.User, bool) {
	user, ok := ctx.Value(identityContextKey).(store.User)
	return user, ok
}
