// Package middleware hosts the session gate, logging, and rate limiting
// middleware shared by the facade's endpoints.
package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"tokend/internal/xumm"
	"tokend/pkg/logger"
)

type contextKey string

const ctxSessionTokenKey contextKey = "session_token"

// TokenVerifier checks a bearer token against the external signing service.
type TokenVerifier interface {
	VerifyUserToken(ctx context.Context, token string) (*xumm.TokenStatus, error)
}

// SessionGate refuses requests whose bearer token does not correspond to an
// active, unexpired signing session. The gate never creates sessions; it
// only validates what the signing service reports.
type SessionGate struct {
	verifier TokenVerifier
	logger   logger.Logger
	now      func() time.Time
}

// NewSessionGate constructs a SessionGate.
func NewSessionGate(verifier TokenVerifier, log logger.Logger) *SessionGate {
	return &SessionGate{
		verifier: verifier,
		logger:   log,
		now:      time.Now,
	}
}

// Authenticate enforces the session gate and stores the token on the
// request context for downstream use.
func (g *SessionGate) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if strings.TrimSpace(authHeader) == "" {
			jsonError(w, http.StatusUnauthorized, "Access denied. No token provided.")
			return
		}

		token := authHeader
		if parts := strings.Fields(authHeader); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			token = parts[1]
		}

		status, err := g.verifier.VerifyUserToken(r.Context(), token)
		if err != nil {
			g.logger.Warn("session verification failed", map[string]interface{}{
				"error": err.Error(),
			})
			jsonError(w, http.StatusUnauthorized, "Invalid authentication.")
			return
		}

		switch {
		case status == nil:
			jsonError(w, http.StatusUnauthorized, "Invalid token.")
			return
		case !status.Active:
			jsonError(w, http.StatusUnauthorized, "Inactive token.")
			return
		case status.Expires <= g.now().Unix():
			jsonError(w, http.StatusUnauthorized, "Expired token.")
			return
		}

		ctx := context.WithValue(r.Context(), ctxSessionTokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionTokenFromContext returns the verified signing-session token.
func SessionTokenFromContext(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(ctxSessionTokenKey).(string)
	return s, ok
}
