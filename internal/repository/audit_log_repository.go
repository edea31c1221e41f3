package repository

import (
	"context"
	"time"

	"github.com/pfes/joborder-api/internal/domain"
	"gorm.io/gorm"
)

// AuditLogFilter narrows audit queries. Zero values match everything.
type AuditLogFilter struct {
	UserID     string
	Action     *domain.AuditAction
	EntityType string
	EntityKey  string
	StartTime  *time.Time
	EndTime    *time.Time
	RequestID  string
}

// AuditLogRepository is the append-only store for audit entries
type AuditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository creates a new audit log repository
func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

// Create appends an entry
func (r *AuditLogRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// List returns one page of matching entries, newest first, with the total match count
func (r *AuditLogRepository) List(ctx context.Context, filter *AuditLogFilter, page, pageSize int) ([]domain.AuditLog, int64, error) {
	base := r.db.WithContext(ctx).Model(&domain.AuditLog{}).Scopes(filter.scope)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.AuditLog{}, 0, nil
	}

	var entries []domain.AuditLog
	err := base.Scopes(newestFirst).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&entries).Error
	return entries, total, err
}

// ListByEntity returns up to limit entries for one record, newest first
func (r *AuditLogRepository) ListByEntity(ctx context.Context, entityType, entityKey string, limit int) ([]domain.AuditLog, error) {
	filter := &AuditLogFilter{EntityType: entityType, EntityKey: entityKey}

	var entries []domain.AuditLog
	err := r.db.WithContext(ctx).
		Scopes(filter.scope, newestFirst).
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

// DeleteOlderThan drops entries performed before the cutoff
func (r *AuditLogRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("performed_at < ?", before).
		Delete(&domain.AuditLog{})
	return result.RowsAffected, result.Error
}

func newestFirst(db *gorm.DB) *gorm.DB {
	// id breaks ties between entries written in the same instant
	return db.Order("performed_at DESC").Order("id DESC")
}

func (f *AuditLogFilter) scope(db *gorm.DB) *gorm.DB {
	if f == nil {
		return db
	}
	conditions := []struct {
		set   bool
		query string
		arg   func() interface{}
	}{
		{f.UserID != "", "user_id = ?", func() interface{} { return f.UserID }},
		{f.Action != nil, "action = ?", func() interface{} { return *f.Action }},
		{f.EntityType != "", "entity_type = ?", func() interface{} { return f.EntityType }},
		{f.EntityKey != "", "entity_key = ?", func() interface{} { return f.EntityKey }},
		{f.StartTime != nil, "performed_at >= ?", func() interface{} { return *f.StartTime }},
		{f.EndTime != nil, "performed_at <= ?", func() interface{} { return *f.EndTime }},
		{f.RequestID != "", "request_id = ?", func() interface{} { return f.RequestID }},
	}
	for _, c := range conditions {
		if c.set {
			db = db.Where(c.query, c.arg())
		}
	}
	return db
}
