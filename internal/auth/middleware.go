package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

type contextKey string

// userClaimsKey is the context key for the authenticated user's claims.
const userClaimsKey = contextKey("userClaims")

// ClaimsFromContext retrieves the claims stored by Middleware.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(userClaimsKey).(*Claims)
	return claims, ok
}

// Authorize checks a raw Authorization header value and returns the validated
// claims. The header must carry exactly a "Bearer <token>" pair; a lone scheme
// word is rejected rather than indexed past.
func (tm *TokenManager) Authorize(header string) (*Claims, error) {
	if strings.TrimSpace(header) == "" {
		return nil, ErrMissingCredential
	}

	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, ErrMalformedCredential
	}

	return tm.Parse(parts[1])
}

// Middleware creates a middleware for protecting routes. All authentication
// failures map to a single generic 401 body; the precise reason is only
// logged, so responses never reveal which check failed.
func (tm *TokenManager) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := tm.Authorize(r.Header.Get("Authorization"))
			if err != nil {
				log.Warn().
					Err(err).
					Str("path", r.URL.Path).
					Str("remote", r.RemoteAddr).
					Msg("Rejected request authentication")
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), userClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": "Authentication required.",
	})
}
