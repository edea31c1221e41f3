package handler

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pfes/joborder-api/internal/service"
	"github.com/pfes/joborder-api/internal/storage"
	"go.uber.org/zap"
)

type ReportHandler struct {
	reportService *service.ReportService
	exportService *service.ExportService
	loc           *time.Location
	logger        *zap.Logger
}

func NewReportHandler(reportService *service.ReportService, exportService *service.ExportService, loc *time.Location, logger *zap.Logger) *ReportHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportHandler{
		reportService: reportService,
		exportService: exportService,
		loc:           loc,
		logger:        logger,
	}
}

// ArchiveDTO is an archived register file
type ArchiveDTO struct {
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	LastModified string `json:"lastModified,omitempty"`
}

// Statistics godoc
// @Summary Job order statistics
// @Description Totals by status, type and mode of transport plus completed, urgent and overdue counts
// @Tags Reports
// @Produce json
// @Success 200 {object} domain.StatisticsDTO
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /job-orders/statistics [get]
func (h *ReportHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reportService.Statistics(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "compute statistics")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// Calendar godoc
// @Summary Schedule calendar
// @Description Pickup, departure and arrival events between two dates inclusive
// @Tags Reports
// @Produce json
// @Param from query string true "First day (YYYY-MM-DD)"
// @Param to query string true "Last day (YYYY-MM-DD)"
// @Success 200 {array} domain.CalendarEventDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /job-orders/calendar [get]
func (h *ReportHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	events, err := h.reportService.Calendar(r.Context(), r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		respondServiceError(w, h.logger, err, "build calendar")
		return
	}
	respondJSON(w, http.StatusOK, events)
}

// Export godoc
// @Summary Export job order register
// @Description Download the job orders matching the list filters as an XLSX workbook
// @Tags Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param type query string false "Filter by type" Enums(Domestic, International)
// @Param status query string false "Filter by status" Enums(Ongoing, Waiting, Void)
// @Param completed query bool false "Filter by completion"
// @Param search query string false "Search text"
// @Success 200 {file} file
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /job-orders/export [get]
func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseJobOrderFilter(w, r)
	if !ok {
		return
	}

	// render fully before writing headers so failures can still return JSON
	var buf bytes.Buffer
	rows, err := h.exportService.WriteRegister(r.Context(), filter, &buf)
	if err != nil {
		respondServiceError(w, h.logger, err, "export job orders")
		return
	}

	filename := service.RegisterFilename(time.Now().In(h.loc))
	w.Header().Set("Content-Type", service.XLSXContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("register download interrupted", zap.Error(err))
		return
	}
	h.logger.Info("job order register exported", zap.Int("rows", rows))
}

// ListArchives godoc
// @Summary List archived registers
// @Description Nightly register snapshots, newest first
// @Tags Reports
// @Produce json
// @Success 200 {array} ArchiveDTO
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Router /job-orders/archives [get]
func (h *ReportHandler) ListArchives(w http.ResponseWriter, r *http.Request) {
	objects, err := h.exportService.ListArchives(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "list archives")
		return
	}
	respondJSON(w, http.StatusOK, toArchiveDTOs(objects))
}

// DownloadArchive godoc
// @Summary Download an archived register
// @Tags Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param name path string true "Archive file name"
// @Success 200 {file} file
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /job-orders/archives/{name} [get]
func (h *ReportHandler) DownloadArchive(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	rc, err := h.exportService.OpenArchive(r.Context(), name)
	if err != nil {
		respondServiceError(w, h.logger, err, "open archive")
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", service.XLSXContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+name)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Warn("archive download interrupted", zap.String("name", name), zap.Error(err))
	}
}

func toArchiveDTOs(objects []storage.Object) []ArchiveDTO {
	dtos := make([]ArchiveDTO, len(objects))
	for i, obj := range objects {
		dtos[i] = ArchiveDTO{Name: obj.Key, Size: obj.Size}
		if !obj.LastModified.IsZero() {
			dtos[i].LastModified = obj.LastModified.UTC().Format(time.RFC3339)
		}
	}
	return dtos
}
