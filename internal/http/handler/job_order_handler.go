package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/pfes/joborder-api/internal/domain"
	"github.com/pfes/joborder-api/internal/repository"
	"github.com/pfes/joborder-api/internal/service"
	"go.uber.org/zap"
)

type JobOrderHandler struct {
	jobOrderService *service.JobOrderService
	logger          *zap.Logger
}

func NewJobOrderHandler(jobOrderService *service.JobOrderService, logger *zap.Logger) *JobOrderHandler {
	return &JobOrderHandler{
		jobOrderService: jobOrderService,
		logger:          logger,
	}
}

// List godoc
// @Summary List job orders
// @Description Get a paginated list of job orders with optional filters. Every item carries the caller's allowed actions.
// @Tags JobOrders
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param type query string false "Filter by type" Enums(Domestic, International)
// @Param status query string false "Filter by status" Enums(Ongoing, Waiting, Void)
// @Param completed query bool false "Filter by completion"
// @Param urgent query bool false "Filter by urgent tag"
// @Param mine query bool false "Only job orders created by the caller"
// @Param search query string false "Search number, shipper/consignee, contact name or BL/AWB"
// @Param sortBy query string false "Sort option" Enums(createdAt, eta)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.JobOrderDTO}
// @Failure 401 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /job-orders [get]
func (h *JobOrderHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseJobOrderFilter(w, r)
	if !ok {
		return
	}

	result, err := h.jobOrderService.List(r.Context(), filter,
		parseIntQuery(r, "page", 1), parseIntQuery(r, "pageSize", 20))
	if err != nil {
		respondServiceError(w, h.logger, err, "list job orders")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Create godoc
// @Summary Create job order
// @Description Create a domestic or international job order owned by the caller
// @Tags JobOrders
// @Accept json
// @Produce json
// @Param request body domain.JobOrderPayload true "Job order"
// @Success 201 {object} domain.JobOrderDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Job order number already exists"
// @Security BearerAuth
// @Router /job-orders [post]
func (h *JobOrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.JobOrderPayload
	if !decodeJSON(w, r, &req) {
		return
	}

	jo, err := h.jobOrderService.Create(r.Context(), req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create job order")
		return
	}

	w.Header().Set("Location", "/api/v1/job-orders/"+jo.JobOrderNumber)
	respondJSON(w, http.StatusCreated, jo)
}

// Get godoc
// @Summary Get job order
// @Tags JobOrders
// @Produce json
// @Param number path string true "Job order number"
// @Success 200 {object} domain.JobOrderDTO
// @Failure 401 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /job-orders/{number} [get]
func (h *JobOrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	jo, err := h.jobOrderService.Get(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		respondServiceError(w, h.logger, err, "get job order")
		return
	}
	respondJSON(w, http.StatusOK, jo)
}

// Update godoc
// @Summary Edit job order
// @Description Replace the editable fields of a job order. The number and type cannot change. Send version to reject stale edits.
// @Tags JobOrders
// @Accept json
// @Produce json
// @Param number path string true "Job order number"
// @Param request body domain.JobOrderPayload true "Job order"
// @Success 200 {object} domain.JobOrderDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Completed or changed by someone else"
// @Security BearerAuth
// @Router /job-orders/{number} [put]
func (h *JobOrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.JobOrderPayload
	if !decodeJSON(w, r, &req) {
		return
	}

	jo, err := h.jobOrderService.Edit(r.Context(), chi.URLParam(r, "number"), req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update job order")
		return
	}
	respondJSON(w, http.StatusOK, jo)
}

// Delete godoc
// @Summary Delete job order
// @Description Admin only
// @Tags JobOrders
// @Param number path string true "Job order number"
// @Success 204
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /job-orders/{number} [delete]
func (h *JobOrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.jobOrderService.Delete(r.Context(), chi.URLParam(r, "number")); err != nil {
		respondServiceError(w, h.logger, err, "delete job order")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateOperations godoc
// @Summary Update operations stages
// @Description Set the status and remarks of the preloading, loading and unloading stages. Omitted fields keep their stored value.
// @Tags JobOrders
// @Accept json
// @Produce json
// @Param number path string true "Job order number"
// @Param request body domain.UpdateOperationsRequest true "Stage updates"
// @Success 200 {object} domain.JobOrderDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /job-orders/{number}/operations [put]
func (h *JobOrderHandler) UpdateOperations(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateOperationsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	jo, err := h.jobOrderService.UpdateOperations(r.Context(), chi.URLParam(r, "number"), req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update operations")
		return
	}
	respondJSON(w, http.StatusOK, jo)
}

// Complete godoc
// @Summary Complete job order
// @Description Mark a job order as completed. Unloading must be finished. Completion cannot be undone.
// @Tags JobOrders
// @Accept json
// @Produce json
// @Param number path string true "Job order number"
// @Param request body domain.CompleteJobOrderRequest false "Completion remarks"
// @Success 200 {object} domain.JobOrderDTO
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Already completed or unloading not finished"
// @Security BearerAuth
// @Router /job-orders/{number}/complete [post]
func (h *JobOrderHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req domain.CompleteJobOrderRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}

	jo, err := h.jobOrderService.Complete(r.Context(), chi.URLParam(r, "number"), req)
	if err != nil {
		respondServiceError(w, h.logger, err, "complete job order")
		return
	}
	respondJSON(w, http.StatusOK, jo)
}

// Schedule godoc
// @Summary Apply a schedule change
// @Description Sets one of pickupDate, etd or eta and returns the corrected schedule with the earliest selectable dates
// @Tags JobOrders
// @Accept json
// @Produce json
// @Param request body domain.ScheduleChangeRequest true "Schedule change"
// @Success 200 {object} domain.ScheduleDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /job-orders/schedule [post]
func (h *JobOrderHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	var req domain.ScheduleChangeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.jobOrderService.Schedule(req)
	if err != nil {
		respondServiceError(w, h.logger, err, "apply schedule change")
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// Form godoc
// @Summary Apply a dependent form change
// @Description Applies a change to modeOfTransport, a province or a schedule date and returns the payload with dependent fields reset
// @Tags JobOrders
// @Accept json
// @Produce json
// @Param request body domain.FormReduceRequest true "Payload and change"
// @Success 200 {object} domain.JobOrderPayload
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /job-orders/form [post]
func (h *JobOrderHandler) Form(w http.ResponseWriter, r *http.Request) {
	var req domain.FormReduceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.jobOrderService.ReduceForm(req)
	if err != nil {
		respondServiceError(w, h.logger, err, "apply form change")
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// Validate godoc
// @Summary Validate a job order
// @Description Runs the create/edit validation without storing anything
// @Tags JobOrders
// @Accept json
// @Produce json
// @Param request body domain.JobOrderPayload true "Job order"
// @Success 200 {object} domain.ValidationResultDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /job-orders/validate [post]
func (h *JobOrderHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req domain.JobOrderPayload
	if !decodeJSON(w, r, &req) {
		return
	}
	respondJSON(w, http.StatusOK, h.jobOrderService.Validate(req))
}

// parseJobOrderFilter reads the list filters shared by List and Export
func parseJobOrderFilter(w http.ResponseWriter, r *http.Request) (*repository.JobOrderFilter, bool) {
	q := r.URL.Query()
	filter := &repository.JobOrderFilter{
		Search:    strings.TrimSpace(q.Get("search")),
		SortBy:    q.Get("sortBy"),
		Completed: parseBoolQuery(r, "completed"),
		Urgent:    parseBoolQuery(r, "urgent"),
	}

	if v := q.Get("type"); v != "" {
		variant := domain.Variant(v)
		if !variant.IsValid() {
			respondWithError(w, http.StatusBadRequest, "type must be Domestic or International")
			return nil, false
		}
		filter.Variant = &variant
	}
	if v := q.Get("status"); v != "" {
		status := domain.JobOrderStatus(v)
		switch status {
		case domain.StatusOngoing, domain.StatusWaiting, domain.StatusVoid:
		default:
			respondWithError(w, http.StatusBadRequest, "status must be Ongoing, Waiting or Void")
			return nil, false
		}
		filter.Status = &status
	}
	if mine := parseBoolQuery(r, "mine"); mine != nil && *mine {
		user, ok := requireUser(w, r)
		if !ok {
			return nil, false
		}
		filter.OwnerID = &user.UserID
	}
	switch filter.SortBy {
	case "", "createdAt", "eta":
	default:
		respondWithError(w, http.StatusBadRequest, "sortBy must be createdAt or eta")
		return nil, false
	}
	return filter, true
}
