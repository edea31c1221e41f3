package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/pfes/joborder-api/internal/config"
	"go.uber.org/zap"
)

// CORS builds the cross-origin policy for the job order frontends.
// Without configured origins, development accepts any origin and every
// other environment rejects all of them. "*" accepts any origin.
func CORS(cfg *config.CORSConfig, environment string, logger *zap.Logger) func(http.Handler) http.Handler {
	options := cors.Options{
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   cfg.ExposedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}

	devMode := isDevelopment(environment)
	switch {
	case containsOrigin(cfg.AllowedOrigins, "*"):
		if !devMode {
			logger.Warn("CORS allows any origin outside development", zap.String("environment", environment))
		}
		options.AllowOriginFunc = anyOrigin
	case len(cfg.AllowedOrigins) > 0:
		options.AllowedOrigins = cfg.AllowedOrigins
		logger.Info("CORS origins configured", zap.Strings("origins", cfg.AllowedOrigins))
	case devMode:
		options.AllowOriginFunc = anyOrigin
		logger.Info("CORS allows any origin in development")
	default:
		// an empty AllowedOrigins list means "*" to go-chi/cors
		options.AllowOriginFunc = func(r *http.Request, origin string) bool { return false }
		logger.Warn("CORS has no allowed origins, cross-origin requests are refused",
			zap.String("environment", environment))
	}

	return cors.Handler(options)
}

func anyOrigin(r *http.Request, origin string) bool {
	return origin != ""
}

func isDevelopment(environment string) bool {
	switch environment {
	case "", "development", "local":
		return true
	}
	return false
}

func containsOrigin(origins []string, want string) bool {
	for _, o := range origins {
		if o == want {
			return true
		}
	}
	return false
}
