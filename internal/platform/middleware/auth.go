package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	id "vouchnet/pkg/domain"
	"vouchnet/pkg/requestcontext"
)

// TokenValidator resolves a bearer token into a bank identity. The registry
// trusts this resolution completely; it performs no further authentication.
type TokenValidator interface {
	ExtractBankID(tokenString string) (id.BankID, error)
}

// RequireAdminToken guards administrator routes. The resolved admin identity
// is injected as the caller so handlers pass it to the service explicitly.
func RequireAdminToken(expectedToken string, adminIdentity id.BankID, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("X-Admin-Token")
			// Constant-time comparison to prevent timing attacks.
			if expectedToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) != 1 {
				ctx := r.Context()
				logger.WarnContext(ctx, "admin token mismatch",
					"request_id", requestcontext.RequestID(ctx),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
				return
			}

			ctx := requestcontext.WithCallerBank(r.Context(), adminIdentity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireBank guards bank routes. It validates the bearer token and injects
// the resolved bank identity into the request context; whether that identity
// matches a registry entry is the consensus engine's decision, not ours.
func RequireBank(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok {
				unauthorized(w, r, logger, "missing bearer token")
				return
			}

			bankID, err := validator.ExtractBankID(token)
			if err != nil {
				unauthorized(w, r, logger, "invalid bearer token")
				return
			}

			ctx := requestcontext.WithCallerBank(r.Context(), bankID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request, logger *slog.Logger, reason string) {
	ctx := r.Context()
	logger.WarnContext(ctx, "unauthorized access",
		"reason", reason,
		"request_id", requestcontext.RequestID(ctx),
	)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
}
