// AngelaMos | 2026
// cors.go

package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"

	"github.com/pakair-dev/pakair-api/internal/config"
)

// CORS builds the origin policy from configuration. Exactly one entrypoint
// exists; the policy value selects the behavior the old duplicated bootstrap
// files used to hardcode.
//
//   - allow-all: any origin, no credentials (wildcard with credentials is
//     rejected at config load).
//   - allow-listed: only configured origins, credentials allowed.
//   - dev-permissive: any origin including credentialed requests; refused in
//     production by config validation.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	switch cfg.Policy {
	case config.CORSAllowAll:
		return cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   cfg.AllowedMethods,
			AllowedHeaders:   cfg.AllowedHeaders,
			AllowCredentials: false,
			MaxAge:           cfg.MaxAge,
		})

	case config.CORSDevPermissive:
		return cors.Handler(cors.Options{
			AllowOriginFunc: func(r *http.Request, origin string) bool {
				return true
			},
			AllowedMethods:   cfg.AllowedMethods,
			AllowedHeaders:   cfg.AllowedHeaders,
			AllowCredentials: true,
			MaxAge:           cfg.MaxAge,
		})

	default: // config.CORSAllowListed
		allowed := make([]string, 0, len(cfg.AllowedOrigins))
		for _, origin := range cfg.AllowedOrigins {
			allowed = append(allowed, strings.TrimRight(origin, "/"))
		}

		return cors.Handler(cors.Options{
			AllowedOrigins:   allowed,
			AllowedMethods:   cfg.AllowedMethods,
			AllowedHeaders:   cfg.AllowedHeaders,
			AllowCredentials: cfg.AllowCredentials,
			MaxAge:           cfg.MaxAge,
		})
	}
}
