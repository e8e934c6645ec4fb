package middleware

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sangkips/evdekor-api/internal/config"
)

var (
	defaultCORSMethods = []string{
		http.MethodGet, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete, http.MethodOptions,
	}
	defaultCORSHeaders = []string{"Accept", "Authorization", "Content-Type", "Origin", "X-Request-ID"}
	// headers the client must be able to send whatever the configuration says
	requiredCORSHeaders = []string{IdempotencyKeyHeader}
)

// CORSMiddleware allows the single-page frontend to call the API
func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	headers := cfg.AllowedHeaders
	if len(headers) == 0 {
		headers = slices.Clone(defaultCORSHeaders)
	}
	for _, h := range requiredCORSHeaders {
		if !slices.Contains(headers, h) {
			headers = append(headers, h)
		}
	}

	methods := cfg.AllowedMethods
	if len(methods) == 0 {
		methods = defaultCORSMethods
	}

	corsConfig := cors.Config{
		AllowMethods:     methods,
		AllowHeaders:     headers,
		ExposeHeaders:    []string{"Content-Disposition", "Content-Length", "X-Request-ID", IdempotencyReplayedHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if slices.Contains(cfg.AllowedOrigins, "*") {
		// wildcard origins cannot be combined with credentials
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		if len(corsConfig.AllowOrigins) == 0 {
			corsConfig.AllowOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
		}
	}

	return cors.New(corsConfig)
}
