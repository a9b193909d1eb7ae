package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-flashcards/internal/api/shared"
	"github.com/phrazzld/scry-flashcards/internal/platform/logger"
)

// PrincipalHeader carries the acting user's ID. It is set by the
// authenticating gateway in front of this service.
const PrincipalHeader = "X-Principal-ID"

// RequirePrincipal rejects requests without a valid principal header and adds
// the principal's ID to the request context for the rest.
func RequirePrincipal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get(PrincipalHeader))
		if raw == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Principal header required")
			return
		}

		principalID, err := uuid.Parse(raw)
		if err != nil || principalID == uuid.Nil {
			logger.FromContext(r.Context()).Warn("invalid principal header")
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid principal")
			return
		}

		next.ServeHTTP(w, r.WithContext(shared.WithPrincipalID(r.Context(), principalID)))
	})
}
