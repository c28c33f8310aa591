package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/agentstation/servicesync/internal/server/response"
	"github.com/agentstation/servicesync/pkg/logging"
)

// DefaultAPIKeyHeader is checked before the Authorization header.
const DefaultAPIKeyHeader = "X-API-Key"

// RequireAPIKey rejects requests that do not present key in header or as
// an Authorization bearer token. An empty key rejects every request.
func RequireAPIKey(header, key string) func(http.Handler) http.Handler {
	if header == "" {
		header = DefaultAPIKeyHeader
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := extractAPIKey(r, header)
			if key == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
				logging.FromContext(r.Context()).Warn().
					Str("remote_addr", r.RemoteAddr).
					Bool("key_provided", provided != "").
					Msg("Authentication failed")
				response.Unauthorized(w, "Provide a valid API key in the "+header+" header")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func extractAPIKey(r *http.Request, header string) string {
	if key := r.Header.Get(header); key != "" {
		return key
	}
	auth := r.Header.Get("Authorization")
	return strings.TrimPrefix(auth, "Bearer ")
}
