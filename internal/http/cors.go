package http

import (
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// corsMaxAge is how long browsers may cache a preflight answer.
const corsMaxAge = 12 * time.Hour

// createCORSMiddleware returns the CORS middleware for browser clients of the session API,
// or nil when CORS is disabled or no origin survives parsing.
//
// A "*" entry allows every origin; credentials are then not allowed, since browsers
// reject a wildcard origin on credentialed requests. Last-Event-ID is accepted so that
// EventSource reconnects to the visibility stream pass preflight, and Retry-After is
// exposed for clients backing off after a 429 or 503.
func createCORSMiddleware(enabled bool, allowOriginsStr string, logger *slog.Logger) gin.HandlerFunc {
	if !enabled {
		return nil
	}

	origins := parseOrigins(allowOriginsStr)
	if len(origins) == 0 {
		logger.Warn("CORS enabled but no origins configured - CORS will not be applied")
		return nil
	}

	config := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE"},
		AllowHeaders:  []string{"Authorization", "Content-Type", "Last-Event-ID"},
		ExposeHeaders: []string{"X-Request-Id", "Retry-After"},
		MaxAge:        corsMaxAge,
	}

	if slices.Contains(origins, "*") {
		config.AllowAllOrigins = true
		logger.Info("CORS enabled for all origins")
	} else {
		config.AllowOrigins = origins
		config.AllowCredentials = true
		logger.Info("CORS enabled",
			slog.Int("origin_count", len(origins)),
			slog.Any("origins", origins))
	}

	return cors.New(config)
}

// parseOrigins splits a comma-separated origin list, trimming whitespace and dropping
// blanks and duplicates. Returns nil for an empty list.
func parseOrigins(originsStr string) []string {
	var origins []string
	for _, part := range strings.Split(originsStr, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" || slices.Contains(origins, trimmed) {
			continue
		}
		origins = append(origins, trimmed)
	}
	return origins
}
