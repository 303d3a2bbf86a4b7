package auth

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"

	"github.com/eskrenkovic/gift-exchange-go/internal/modules/core"
)

const (
	UserIDHeader = "X-User-Id"

	bearerPrefix = "Bearer "
)

// APITokenMiddleware lets a request through only with the shared admin
// token, and puts the acting user from the X-User-Id header in the
// request session.
func APITokenMiddleware(token string) func(http.Handler) http.Handler {
	expected := []byte(token)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if token == "" || !strings.HasPrefix(header, bearerPrefix) {
				core.WriteUnauthorized(w, r, nil)
				return
			}

			provided := []byte(strings.TrimPrefix(header, bearerPrefix))
			if subtle.ConstantTimeCompare(provided, expected) != 1 {
				core.WriteUnauthorized(w, r, nil)
				return
			}

			userID, err := strconv.ParseInt(r.Header.Get(UserIDHeader), 10, 64)
			if err != nil || userID <= 0 {
				core.WriteUnauthorized(w, r, nil)
				return
			}

			ctx := core.WithSession(r.Context(), core.ContextSession{UserID: userID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
