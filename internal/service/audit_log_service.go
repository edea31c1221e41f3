package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pfes/joborder-api/internal/auth"
	"github.com/pfes/joborder-api/internal/domain"
	"github.com/pfes/joborder-api/internal/mapper"
	"github.com/pfes/joborder-api/internal/repository"
	"go.uber.org/zap"
)

// Entity types recorded in the audit log
const (
	EntityJobOrder = "job_order"
	EntityUser     = "user"
)

// RequestInfo is the HTTP metadata attached to audit entries
type RequestInfo struct {
	IPAddress string
	UserAgent string
	RequestID string
}

type requestInfoKey struct{}

// WithRequestInfo stores request metadata for audit entries written during the request
func WithRequestInfo(ctx context.Context, info RequestInfo) context.Context {
	return context.WithValue(ctx, requestInfoKey{}, info)
}

// RequestInfoFromContext returns the request metadata, if any
func RequestInfoFromContext(ctx context.Context) (RequestInfo, bool) {
	info, ok := ctx.Value(requestInfoKey{}).(RequestInfo)
	return info, ok
}

// AuditLogService handles audit logging operations
type AuditLogService struct {
	auditRepo *repository.AuditLogRepository
	logger    *zap.Logger
	now       func() time.Time
}

// NewAuditLogService creates a new audit log service
func NewAuditLogService(auditRepo *repository.AuditLogRepository, logger *zap.Logger) *AuditLogService {
	return &AuditLogService{
		auditRepo: auditRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock replaces the time source
func (s *AuditLogService) WithClock(now func() time.Time) *AuditLogService {
	s.now = now
	return s
}

// LogEntry represents the input for creating an audit log entry
type LogEntry struct {
	Action     domain.AuditAction
	EntityType string
	EntityKey  string
	NewValues  interface{}
}

// Log writes an audit entry enriched with the user and request in ctx.
// Failures are logged and returned; callers treat them as non-fatal.
func (s *AuditLogService) Log(ctx context.Context, entry LogEntry) error {
	auditLog := &domain.AuditLog{
		Action:      entry.Action,
		EntityType:  entry.EntityType,
		EntityKey:   entry.EntityKey,
		PerformedAt: s.now().UTC(),
	}

	if userCtx, ok := auth.FromContext(ctx); ok && userCtx != nil {
		auditLog.UserID = userCtx.UserID.String()
		auditLog.UserEmail = userCtx.Email
		auditLog.UserName = userCtx.Name
	}

	if info, ok := RequestInfoFromContext(ctx); ok {
		auditLog.IPAddress = info.IPAddress
		auditLog.UserAgent = info.UserAgent
		auditLog.RequestID = info.RequestID
	}

	if entry.NewValues != nil {
		if raw, err := json.Marshal(entry.NewValues); err == nil {
			auditLog.NewValues = string(raw)
		}
	}

	if err := s.auditRepo.Create(ctx, auditLog); err != nil {
		s.logger.Error("failed to create audit log",
			zap.String("action", string(entry.Action)),
			zap.String("entity_type", entry.EntityType),
			zap.String("entity_key", entry.EntityKey),
			zap.Error(err))
		return err
	}
	return nil
}

// List returns a page of audit entries, newest first
func (s *AuditLogService) List(ctx context.Context, filter *repository.AuditLogFilter, page, pageSize int) (*domain.PaginatedResponse, error) {
	page, pageSize = clampPage(page, pageSize)

	logs, total, err := s.auditRepo.List(ctx, filter, page, pageSize)
	if err != nil {
		return nil, err
	}

	dtos := make([]domain.AuditLogDTO, len(logs))
	for i := range logs {
		dtos[i] = mapper.ToAuditLogDTO(&logs[i])
	}
	return paginate(dtos, total, page, pageSize), nil
}

// History returns the most recent entries for one entity
func (s *AuditLogService) History(ctx context.Context, entityType, entityKey string, limit int) ([]domain.AuditLogDTO, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	logs, err := s.auditRepo.ListByEntity(ctx, entityType, entityKey, limit)
	if err != nil {
		return nil, err
	}
	dtos := make([]domain.AuditLogDTO, len(logs))
	for i := range logs {
		dtos[i] = mapper.ToAuditLogDTO(&logs[i])
	}
	return dtos, nil
}

// Purge deletes entries older than retention and reports how many were removed.
// A non-positive retention keeps everything.
func (s *AuditLogService) Purge(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, nil
	}
	cutoff := s.now().UTC().Add(-retention)
	n, err := s.auditRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	s.logger.Info("purged audit log entries", zap.Int64("count", n), zap.Time("before", cutoff))
	return n, nil
}

// clampPage applies the default and maximum page sizes
func clampPage(page, pageSize int) (int, int) {
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 200 {
		pageSize = 200
	}
	if page < 1 {
		page = 1
	}
	return page, pageSize
}

func paginate(data interface{}, total int64, page, pageSize int) *domain.PaginatedResponse {
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return &domain.PaginatedResponse{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
