package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/psantana5/tsperf-matrix/pkg/auth"
	"github.com/psantana5/tsperf-matrix/pkg/logging"
)

// PublicPaths are served without an API key
var PublicPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// APIKey rejects requests that do not carry a key accepted by the keyring,
// either as "Authorization: Bearer <key>" or in the X-API-Key header
func APIKey(keys *auth.Keyring, logger *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if PublicPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			key := RequestKey(r)
			if key == "" {
				writeError(w, http.StatusUnauthorized, "API key required")
				return
			}
			if err := keys.Validate(key); err != nil {
				logger.Warn("rejected API key", map[string]interface{}{
					"path":   r.URL.Path,
					"remote": r.RemoteAddr,
				})
				writeError(w, http.StatusUnauthorized, err.Error())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequestKey extracts the API key of a request, or "" when there is none
func RequestKey(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return r.Header.Get("X-API-Key")
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
