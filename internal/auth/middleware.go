package auth

import (
	"net/http"
	"strings"

	"github.com/arogyacare/appointment-api/internal/api/respond"
	"github.com/arogyacare/appointment-api/internal/apperr"
	"github.com/arogyacare/appointment-api/pkg/logging"
)

// Authenticate enforces a Bearer token and attaches the caller identity to
// the request context.
func Authenticate(issuer *TokenIssuer, logger *logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				respond.Error(w, logger, apperr.New(apperr.KindAuth, "access denied: no token provided"))
				return
			}
			identity, err := issuer.Verify(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				respond.Error(w, logger, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// RequireRoles rejects callers whose role is not in the allow list. It must
// run after Authenticate.
func RequireRoles(logger *logging.Logger, roles ...string) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				respond.Error(w, logger, apperr.New(apperr.KindAuth, "authentication required"))
				return
			}
			if _, ok := allowed[identity.Role]; !ok {
				respond.Error(w, logger, apperr.New(apperr.KindForbidden, "forbidden: insufficient permissions"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
