package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pfes/joborder-api/internal/domain"
	"go.uber.org/zap"
)

// TokenValidator verifies bearer tokens
type TokenValidator interface {
	ValidateToken(token string) (*UserContext, error)
}

// Middleware guards routes with the session token issued at login
type Middleware struct {
	validator TokenValidator
	logger    *zap.Logger
}

// NewMiddleware creates a new authentication middleware
func NewMiddleware(validator TokenValidator, logger *zap.Logger) *Middleware {
	return &Middleware{
		validator: validator,
		logger:    logger,
	}
}

// Authenticate requires a valid, unexpired bearer token. An expired token is
// reported as such so clients can end the session and return to sign-in.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			deny(w, http.StatusUnauthorized, domain.ErrorTypeUnauthorized, "missing or malformed bearer token")
			return
		}

		userCtx, err := m.validator.ValidateToken(token)
		if err != nil {
			expired := errors.Is(err, ErrExpiredToken)
			m.logger.Warn("rejected session token",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Bool("expired", expired),
				zap.Error(err),
			)
			detail := ErrInvalidToken.Error()
			if expired {
				detail = ErrExpiredToken.Error()
			}
			deny(w, http.StatusUnauthorized, domain.ErrorTypeUnauthorized, detail)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserContext(r.Context(), userCtx)))
	})
}

// RequireRole lets the request through only for the listed user types
func (m *Middleware) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userCtx, ok := FromContext(r.Context())
			if !ok || userCtx == nil || !userCtx.HasAnyRole(roles...) {
				deny(w, http.StatusForbidden, domain.ErrorTypeForbidden, "You are not allowed to perform this action")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func deny(w http.ResponseWriter, status int, problem, detail string) {
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="joborder"`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(domain.APIError{
		Type:   problem,
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	})
}
