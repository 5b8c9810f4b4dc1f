package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/msyu/cambia-arena/internal/auth"
)

type ctxKey int

const claimsKey ctxKey = iota

// requireAuth enforces the bearer-token contract of spec.md §6: missing,
// malformed, expired, or non-UUID-id tokens are rejected with 401 and a
// JSON error body. No internal detail leaks (spec.md §7).
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "missing or malformed Authorization header")
			return
		}
		claims, err := h.issuer.Verify(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func claimsFrom(r *http.Request) (auth.Claims, bool) {
	c, ok := r.Context().Value(claimsKey).(auth.Claims)
	return c, ok
}
