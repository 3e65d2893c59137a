package middleware

import (
	"net/http"
)

// RequireAdmin gates a route group behind the configured admin code, supplied
// as the adminCode query parameter. Comparison is exact string equality; a
// missing code and a wrong code are indistinguishable to the caller.
func RequireAdmin(adminCode string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("adminCode") != adminCode {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte("{}\n"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
