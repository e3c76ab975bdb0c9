package httpapi

import (
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// createCORSMiddleware builds the API's CORS policy from a comma-separated
// allow-list. The config manager's HTTP API is server-to-server by
// default, so CORS stays disabled unless an allow-list is configured.
//
// Entries may be exact origins ("https://example.com") or a leading-"*."
// wildcard ("*.example.com") matching that domain and any subdomain, the
// same wildcard convention the endpoint allow/block lists use for paths.
// A wildcard entry forces gin-contrib/cors into AllowOriginFunc mode,
// since its static AllowOrigins list only does exact matches.
func createCORSMiddleware(enabled bool, allowOriginsStr string, logger *slog.Logger) gin.HandlerFunc {
	if !enabled {
		return nil
	}
	if allowOriginsStr == "" {
		logger.Warn("CORS enabled but no origins configured - CORS will not be applied")
		return nil
	}

	origins := parseOrigins(allowOriginsStr)
	if len(origins) == 0 {
		logger.Warn("CORS enabled but no valid origins found")
		return nil
	}

	logger.Info("CORS enabled", slog.Int("origin_count", len(origins)), slog.Any("origins", origins))

	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "DELETE"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if hasWildcardOrigin(origins) {
		cfg.AllowOriginFunc = func(origin string) bool {
			return matchesAnyOrigin(origins, origin)
		}
	} else {
		cfg.AllowOrigins = origins
	}

	return cors.New(cfg)
}

// parseOrigins splits a comma-separated origin list, trimming whitespace.
func parseOrigins(originsStr string) []string {
	if originsStr == "" {
		return nil
	}
	parts := strings.Split(originsStr, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func hasWildcardOrigin(origins []string) bool {
	for _, o := range origins {
		if strings.HasPrefix(o, "*.") {
			return true
		}
	}
	return false
}

// matchesAnyOrigin reports whether origin (e.g. "https://api.example.com")
// matches any entry in origins, where a "*.example.com" entry matches
// origins whose host is example.com or a subdomain of it.
func matchesAnyOrigin(origins []string, origin string) bool {
	host := origin
	if u, err := url.Parse(origin); err == nil && u.Host != "" {
		host = u.Host
	}

	for _, want := range origins {
		if !strings.HasPrefix(want, "*.") {
			if want == origin {
				return true
			}
			continue
		}
		domain := strings.TrimPrefix(want, "*.")
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}
