package api

import (
	"net"
	"net/http"

	"github.com/go-chi/cors"
)

// corsHandler returns the permissive CORS middleware both services share.
// The services sit behind clients on arbitrary origins, so origins are not
// restricted.
func corsHandler() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	})
}

// HealthBody is the health check response body.
type HealthBody struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// clientIP returns the client address without the port. RemoteAddr has
// already been rewritten by the RealIP middleware when the request came
// through a proxy.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
