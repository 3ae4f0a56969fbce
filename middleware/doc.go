// Package middleware provides net/http middleware for CORS, request IDs and
// request logging. All middleware has the func(http.Handler) http.Handler
// shape and plugs into chi:
//
//	r := chi.NewRouter()
//	r.Use(middleware.RequestID())
//	r.Use(middleware.Logging(log))
//	r.Use(middleware.CORS())
package middleware
