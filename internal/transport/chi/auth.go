package chi

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// exemptPaths are routes that bypass authentication (health, metrics).
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

const bearerPrefix = "Bearer "

// UserIDHeader carries the signed-in user, forwarded by an authenticated
// calling backend. It is trusted only behind BearerAuthMiddleware.
const UserIDHeader = "X-User-ID"

// BearerAuthMiddleware returns a middleware that validates Bearer tokens.
// If apiKeys is empty, authentication is disabled (pass-through).
// Preflight requests are never authenticated.
func BearerAuthMiddleware(apiKeys []string) func(http.Handler) http.Handler {
	validKeys := keySet(apiKeys)

	return func(next http.Handler) http.Handler {
		// Auth disabled, pass everything through
		if len(validKeys) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			token, msg := bearerToken(r)
			if msg != "" {
				writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, msg)
				return
			}
			if _, ok := validKeys[token]; !ok {
				writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, "invalid api key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AdminGate guards the moderation routes.
type AdminGate struct {
	keys  map[string]struct{}
	demo  bool
	roles Roles
}

// NewAdminGate builds the moderation policy. With demo set every caller is
// treated as an admin; otherwise the bearer token must be one of adminKeys
// or the forwarded user must hold the admin role (see WithRoles).
// No keys, no role store and no demo mode means moderation is closed.
func NewAdminGate(adminKeys []string, demo bool) *AdminGate {
	return &AdminGate{keys: keySet(adminKeys), demo: demo}
}

// WithRoles lets users holding the admin role through, identified by UserIDHeader.
func (g *AdminGate) WithRoles(roles Roles) *AdminGate {
	g.roles = roles
	return g
}

// Demo reports whether the gate lets every caller through.
func (g *AdminGate) Demo() bool { return g.demo }

// Middleware enforces the gate: 401 without credentials, 403 for a non-admin caller.
func (g *AdminGate) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if g.demo {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(g.keys) == 0 && g.roles == nil {
				writeError(w, http.StatusForbidden, ErrorCodeForbidden, "admin access is not configured")
				return
			}

			token, msg := bearerToken(r)
			if msg == "" {
				if _, ok := g.keys[token]; ok {
					next.ServeHTTP(w, r)
					return
				}
			}

			if g.roles != nil && r.Header.Get(UserIDHeader) != "" {
				userID, err := uuid.Parse(r.Header.Get(UserIDHeader))
				if err != nil {
					writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, "invalid "+UserIDHeader+" header")
					return
				}
				admin, err := g.roles.IsAdmin(r.Context(), userID)
				if err != nil {
					writeError(w, http.StatusServiceUnavailable, ErrorCodeStoreUnavailable, "role lookup unavailable")
					return
				}
				if admin {
					next.ServeHTTP(w, r)
					return
				}
				writeError(w, http.StatusForbidden, ErrorCodeForbidden, "admin role required")
				return
			}

			if msg != "" {
				writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, msg)
				return
			}
			writeError(w, http.StatusForbidden, ErrorCodeForbidden, "admin role required")
		})
	}
}

// bearerToken extracts the token, or returns a client message explaining why it can't.
func bearerToken(r *http.Request) (token, msg string) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return "", "missing authorization header"
	}
	if !strings.HasPrefix(auth, bearerPrefix) {
		return "", "authorization header must use Bearer scheme"
	}
	return auth[len(bearerPrefix):], ""
}

func keySet(keys []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if k != "" {
			set[k] = struct{}{}
		}
	}
	return set
}
