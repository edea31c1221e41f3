package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/pfes/joborder-api/internal/auth"
	"github.com/pfes/joborder-api/internal/domain"
	"github.com/pfes/joborder-api/internal/service"
	"go.uber.org/zap"
)

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// respondValidationError sends a standardized validation error response with specific field messages
func respondValidationError(w http.ResponseWriter, fields map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(domain.APIError{
		Type:   domain.ErrorTypeValidation,
		Title:  "Validation Error",
		Status: http.StatusBadRequest,
		Detail: "One or more fields failed validation",
		Errors: fields,
	})
}

// respondWithError sends a standardized JSON error response
func respondWithError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(domain.APIError{
		Type:   getErrorType(status),
		Title:  http.StatusText(status),
		Status: status,
		Detail: message,
	})
}

// respondServiceError maps a service error onto its HTTP response. Unknown
// errors are logged and reported as 500 without leaking details.
func respondServiceError(w http.ResponseWriter, logger *zap.Logger, err error, op string) {
	if ve, ok := service.IsValidationError(err); ok {
		respondValidationError(w, ve.Fields)
		return
	}

	switch {
	case errors.Is(err, service.ErrDuplicateJobOrder):
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(domain.APIError{
			Type:   domain.ErrorTypeConflict,
			Title:  http.StatusText(http.StatusConflict),
			Status: http.StatusConflict,
			Detail: service.DuplicateJobOrderMessage,
			Errors: map[string]string{"jobOrderNumber": service.DuplicateJobOrderMessage},
		})
	case errors.Is(err, service.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "Resource not found")
	case errors.Is(err, service.ErrUnauthorized):
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
	case errors.Is(err, service.ErrInvalidCredentials):
		respondWithError(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, service.ErrAccountDisabled):
		respondWithError(w, http.StatusForbidden, "Account is disabled")
	case errors.Is(err, domain.ErrActionForbidden):
		respondWithError(w, http.StatusForbidden, "You are not allowed to perform this action")
	case errors.Is(err, domain.ErrJobOrderCompleted):
		respondWithError(w, http.StatusConflict, "Job order is already completed")
	case errors.Is(err, domain.ErrUnloadingNotFinished):
		respondWithError(w, http.StatusConflict, "Unloading must be finished before the job order can be completed")
	case errors.Is(err, service.ErrStaleJobOrder):
		respondWithError(w, http.StatusConflict, "Job order was changed by someone else, reload and try again")
	case errors.Is(err, service.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error("failed to "+op, zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to "+op)
	}
}

// decodeJSON reads a JSON body into target, rejecting unknown fields
func decodeJSON(w http.ResponseWriter, r *http.Request, target interface{}) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// requireUser fetches the authenticated user or writes a 401
func requireUser(w http.ResponseWriter, r *http.Request) (*auth.UserContext, bool) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok || userCtx == nil {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return nil, false
	}
	return userCtx, true
}

func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}

func parseBoolQuery(r *http.Request, key string) *bool {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return nil
	}
	return &b
}

// getErrorType returns the appropriate error type for an HTTP status code
func getErrorType(status int) string {
	switch status {
	case http.StatusBadRequest:
		return domain.ErrorTypeBadRequest
	case http.StatusUnauthorized:
		return domain.ErrorTypeUnauthorized
	case http.StatusForbidden:
		return domain.ErrorTypeForbidden
	case http.StatusNotFound:
		return domain.ErrorTypeNotFound
	case http.StatusConflict:
		return domain.ErrorTypeConflict
	default:
		return domain.ErrorTypeInternal
	}
}
