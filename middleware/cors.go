package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
)

// CORSConfig defines configuration options for CORS middleware.
type CORSConfig struct {
	// AllowOrigins specifies allowed origins. Empty or "*" allows all.
	AllowOrigins []string

	// AllowMethods defaults to GET, POST, PUT, DELETE, OPTIONS.
	AllowMethods []string

	// AllowHeaders defaults to Content-Type, Authorization.
	AllowHeaders []string

	ExposeHeaders []string

	// AllowCredentials is ignored for wildcard origins.
	AllowCredentials bool

	// MaxAge specifies how long preflight requests can be cached (in seconds)
	MaxAge int
}

// CORS returns a CORS middleware that allows any origin with the default
// methods and headers.
func CORS() func(http.Handler) http.Handler {
	return CORSWithConfig(CORSConfig{})
}

// CORSWithConfig returns a CORS middleware with custom configuration.
// Any OPTIONS request is answered directly: 204 for an allowed preflight,
// 403 for a disallowed one, and 204 for a bare OPTIONS.
func CORSWithConfig(cfg CORSConfig) func(http.Handler) http.Handler {
	if len(cfg.AllowMethods) == 0 {
		cfg.AllowMethods = []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		}
	}

	if len(cfg.AllowHeaders) == 0 {
		cfg.AllowHeaders = []string{"Content-Type", "Authorization"}
	}

	allowMethods := strings.Join(cfg.AllowMethods, ", ")
	allowHeaders := strings.Join(cfg.AllowHeaders, ", ")
	exposeHeaders := strings.Join(cfg.ExposeHeaders, ", ")

	allowOriginsMap := make(map[string]bool, len(cfg.AllowOrigins))
	for _, origin := range cfg.AllowOrigins {
		allowOriginsMap[origin] = true
	}
	wildcard := len(cfg.AllowOrigins) == 0 || allowOriginsMap["*"]

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			var allowedOrigin string
			switch {
			case wildcard:
				allowedOrigin = "*"
			case allowOriginsMap[origin]:
				allowedOrigin = origin
			}
			allowed := allowedOrigin != ""

			headers := w.Header()
			if allowed {
				headers.Set("Access-Control-Allow-Origin", allowedOrigin)
				headers.Set("Access-Control-Allow-Methods", allowMethods)
				headers.Set("Access-Control-Allow-Headers", allowHeaders)
				if cfg.AllowCredentials && allowedOrigin != "*" {
					headers.Set("Access-Control-Allow-Credentials", "true")
				}
				if exposeHeaders != "" {
					headers.Set("Access-Control-Expose-Headers", exposeHeaders)
				}
			}
			headers.Add("Vary", "Origin")

			if r.Method != http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			if requestMethod := r.Header.Get("Access-Control-Request-Method"); requestMethod != "" {
				if !allowed || !slices.Contains(cfg.AllowMethods, requestMethod) {
					w.WriteHeader(http.StatusForbidden)
					return
				}
				if cfg.MaxAge > 0 {
					headers.Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
				}
				headers.Add("Vary", "Access-Control-Request-Method")
				headers.Add("Vary", "Access-Control-Request-Headers")
			}

			w.WriteHeader(http.StatusNoContent)
		})
	}
}
