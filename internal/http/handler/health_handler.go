package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/pfes/joborder-api/internal/database"
	"github.com/pfes/joborder-api/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// HealthHandler serves the liveness and readiness probes
type HealthHandler struct {
	db      *gorm.DB
	storage storage.Storage
	logger  *zap.Logger
}

// NewHealthHandler creates the probe handler; st may be nil
func NewHealthHandler(db *gorm.DB, st storage.Storage, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{db: db, storage: st, logger: logger}
}

// Live godoc
// @Summary Liveness probe
// @Tags Health
// @Produce plain
// @Success 200 {string} string "OK"
// @Router /health [get]
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// Database godoc
// @Summary Database health with pool statistics
// @Tags Health
// @Produce json
// @Success 200 {object} database.Stats
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *HealthHandler) Database(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	stats, err := database.HealthCheckWithStats(ctx, h.db)
	if err != nil {
		h.logger.Error("Database health check failed", zap.Error(err))
		respondJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":  "unhealthy",
			"error":   err.Error(),
			"service": "database",
		})
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// Ready godoc
// @Summary Readiness probe
// @Description Checks the database and the register archive storage
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/ready [get]
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]interface{})
	allHealthy := true

	if err := database.HealthCheck(ctx, h.db); err != nil {
		h.logger.Error("Database health check failed", zap.Error(err))
		checks["database"] = map[string]string{"status": "unhealthy", "error": err.Error()}
		allHealthy = false
	} else {
		checks["database"] = map[string]string{"status": "healthy"}
	}

	if h.storage != nil {
		if _, err := h.storage.List(ctx, "health/"); err != nil {
			h.logger.Error("Storage health check failed", zap.Error(err))
			checks["storage"] = map[string]string{"status": "unhealthy", "error": err.Error()}
			allHealthy = false
		} else {
			checks["storage"] = map[string]string{"status": "healthy"}
		}
	}

	status, code := "healthy", http.StatusOK
	if !allHealthy {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}
	respondJSON(w, code, map[string]interface{}{
		"status": status,
		"checks": checks,
	})
}
