package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/pfes/joborder-api/internal/auth"
	"github.com/pfes/joborder-api/internal/service"
	"go.uber.org/zap"
)

// AuditConfig holds configuration for audit middleware
type AuditConfig struct {
	// SkipPaths contains paths that never carry audit metadata
	SkipPaths []string
	// SkipMethods contains HTTP methods that are not mutations
	SkipMethods []string
}

// DefaultAuditConfig returns default audit configuration
func DefaultAuditConfig() *AuditConfig {
	return &AuditConfig{
		SkipPaths: []string{
			"/health",
			"/swagger",
		},
		SkipMethods: []string{
			http.MethodGet,
			http.MethodOptions,
			http.MethodHead,
		},
	}
}

// AuditMiddleware attaches the caller's IP, user agent and request ID to the
// request context so the services can stamp them on audit entries. Audit
// entries themselves are written by the services after a successful mutation.
// Refused mutations are logged here since they never reach the audit log.
type AuditMiddleware struct {
	config *AuditConfig
	logger *zap.Logger
}

// NewAuditMiddleware creates a new audit middleware
func NewAuditMiddleware(config *AuditConfig, logger *zap.Logger) *AuditMiddleware {
	if config == nil {
		config = DefaultAuditConfig()
	}
	return &AuditMiddleware{
		config: config,
		logger: logger,
	}
}

// Audit returns middleware that prepares audit metadata for mutations
func (m *AuditMiddleware) Audit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.shouldAudit(r) {
			next.ServeHTTP(w, r)
			return
		}

		ctx := service.WithRequestInfo(r.Context(), service.RequestInfo{
			IPAddress: ClientIP(r),
			UserAgent: r.UserAgent(),
			RequestID: RequestIDFromContext(r.Context()),
		})
		r = r.WithContext(ctx)

		rw := &responseCapture{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		if rw.statusCode == http.StatusForbidden {
			m.logRefused(r)
		}
	})
}

// shouldAudit determines if a request is a mutation worth auditing
func (m *AuditMiddleware) shouldAudit(r *http.Request) bool {
	for _, method := range m.config.SkipMethods {
		if r.Method == method {
			return false
		}
	}

	path := r.URL.Path
	for _, skipPath := range m.config.SkipPaths {
		if strings.HasPrefix(path, skipPath) {
			return false
		}
	}

	return true
}

func (m *AuditMiddleware) logRefused(r *http.Request) {
	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", RequestIDFromContext(r.Context())),
		zap.String("client_ip", ClientIP(r)),
	}
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if number := routeCtx.URLParam("number"); number != "" {
			fields = append(fields, zap.String("job_order_number", number))
		}
	}
	if userCtx, ok := auth.FromContext(r.Context()); ok && userCtx != nil {
		fields = append(fields,
			zap.String("user_id", userCtx.UserID.String()),
			zap.String("user_type", userCtx.UserType))
	}
	m.logger.Warn("mutation refused by access policy", fields...)
}

// responseCapture wraps ResponseWriter to capture the status code
type responseCapture struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseCapture) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
