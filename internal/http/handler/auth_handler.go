package handler

import (
	"net/http"

	"github.com/pfes/joborder-api/internal/domain"
	"github.com/pfes/joborder-api/internal/service"
	"github.com/pfes/joborder-api/internal/validation"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *service.AuthService
	validator   *validation.Validator
	logger      *zap.Logger
}

func NewAuthHandler(authService *service.AuthService, validator *validation.Validator, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   validator,
		logger:      logger,
	}
}

// Login godoc
// @Summary Sign in
// @Description Verifies email and password and returns a signed session token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.LoginRequest true "Credentials"
// @Success 200 {object} domain.LoginResponse
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 403 {object} domain.APIError "Account disabled"
// @Failure 429 {object} domain.APIError
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.validator.Struct(req); err != nil {
		respondValidationError(w, validation.Collect(err).Errors)
		return
	}

	res, err := h.authService.Login(r.Context(), req)
	if err != nil {
		respondServiceError(w, h.logger, err, "sign in")
		return
	}

	respondJSON(w, http.StatusOK, res)
}

// Me godoc
// @Summary Get current authenticated user
// @Description Returns the account of the signed-in user
// @Tags Auth
// @Produce json
// @Success 200 {object} domain.UserDTO
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.Me(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "get current user")
		return
	}
	respondJSON(w, http.StatusOK, user)
}
