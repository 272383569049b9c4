package chi

import "net/http"

const (
	corsAllowOrigin  = "*"
	corsAllowHeaders = "authorization, x-client-info, apikey, content-type"
	corsAllowMethods = "GET, POST, DELETE, OPTIONS"
)

// CORSMiddleware answers preflight requests on any path with 204 and an
// empty body, without reaching the handlers. When enabled, every response
// carries the permissive CORS headers.
func CORSMiddleware(enabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if enabled {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", corsAllowOrigin)
				h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
				h.Set("Access-Control-Allow-Methods", corsAllowMethods)
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
