package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pfes/joborder-api/internal/domain"
	"github.com/pfes/joborder-api/internal/repository"
	"github.com/pfes/joborder-api/internal/service"
	"go.uber.org/zap"
)

// AuditHandler handles audit log related HTTP requests
type AuditHandler struct {
	auditService *service.AuditLogService
	logger       *zap.Logger
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(auditService *service.AuditLogService, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
		logger:       logger,
	}
}

// List godoc
// @Summary List audit logs
// @Description Returns a paginated list of audit log entries with optional filters. Admin only.
// @Tags Audit
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param pageSize query int false "Page size (default: 20, max: 200)"
// @Param userId query string false "Filter by user ID"
// @Param action query string false "Filter by action type" Enums(create, update, delete, complete, login)
// @Param entityType query string false "Filter by entity type" Enums(job_order, user)
// @Param entityKey query string false "Filter by entity key, e.g. a job order number"
// @Param requestId query string false "Filter by request ID"
// @Param startTime query string false "Filter by start time (RFC3339)"
// @Param endTime query string false "Filter by end time (RFC3339)"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.AuditLogDTO}
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Router /audit [get]
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := &repository.AuditLogFilter{
		UserID:     q.Get("userId"),
		EntityType: q.Get("entityType"),
		EntityKey:  q.Get("entityKey"),
		RequestID:  q.Get("requestId"),
	}

	if actionStr := q.Get("action"); actionStr != "" {
		action := domain.AuditAction(actionStr)
		filter.Action = &action
	}

	for key, target := range map[string]**time.Time{"startTime": &filter.StartTime, "endTime": &filter.EndTime} {
		raw := q.Get(key)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid "+key+" format, expected RFC3339")
			return
		}
		*target = &t
	}

	result, err := h.auditService.List(r.Context(), filter,
		parseIntQuery(r, "page", 1), parseIntQuery(r, "pageSize", 20))
	if err != nil {
		respondServiceError(w, h.logger, err, "retrieve audit logs")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// JobOrderHistory godoc
// @Summary Audit history of a job order
// @Description Most recent audit entries for one job order, newest first
// @Tags Audit
// @Produce json
// @Param number path string true "Job order number"
// @Param limit query int false "Maximum number of entries (default: 50, max: 200)"
// @Success 200 {array} domain.AuditLogDTO
// @Failure 401 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Router /job-orders/{number}/history [get]
func (h *AuditHandler) JobOrderHistory(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	logs, err := h.auditService.History(r.Context(), service.EntityJobOrder, number, parseIntQuery(r, "limit", 50))
	if err != nil {
		h.logger.Error("failed to get job order history", zap.String("job_order_number", number), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve audit history")
		return
	}
	respondJSON(w, http.StatusOK, logs)
}
