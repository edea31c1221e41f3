package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pfes/joborder-api/internal/domain"
	"gorm.io/gorm"
)

// ErrVersionConflict is returned when a conditional update matched the record
// but not the expected version
var ErrVersionConflict = errors.New("job order was modified by another request")

// JobOrderFilter narrows List and FindAll. Nil fields are not applied.
type JobOrderFilter struct {
	Variant   *domain.Variant
	Status    *domain.JobOrderStatus
	Completed *bool
	OwnerID   *uuid.UUID
	Urgent    *bool
	Search    string
	// SortBy is "createdAt" (default, newest first) or "eta" (soonest first)
	SortBy string
}

// JobOrderStats are aggregate counts over all job orders
type JobOrderStats struct {
	Total     int64
	Completed int64
	Urgent    int64
	Overdue   int64
	ByStatus  map[string]int64
	ByVariant map[string]int64
	ByMode    map[string]int64
}

// JobOrderRepository handles job order persistence
type JobOrderRepository struct {
	db *gorm.DB
}

// NewJobOrderRepository creates a new job order repository
func NewJobOrderRepository(db *gorm.DB) *JobOrderRepository {
	return &JobOrderRepository{db: db}
}

// Insert stores a new job order. A taken job order number surfaces as gorm.ErrDuplicatedKey.
func (r *JobOrderRepository) Insert(ctx context.Context, jo *domain.JobOrder) error {
	if jo.Version == 0 {
		jo.Version = 1
	}
	return r.db.WithContext(ctx).Create(jo).Error
}

// FindByKey loads a job order by its number
func (r *JobOrderRepository) FindByKey(ctx context.Context, number string) (*domain.JobOrder, error) {
	var jo domain.JobOrder
	err := r.db.WithContext(ctx).Where("job_order_number = ?", number).First(&jo).Error
	if err != nil {
		return nil, err
	}
	return &jo, nil
}

// UpdateByKey writes every mutable column of jo, conditional on the stored
// version still equalling jo.Version. On success jo.Version is incremented.
func (r *JobOrderRepository) UpdateByKey(ctx context.Context, jo *domain.JobOrder) error {
	current := jo.Version
	jo.Version = current + 1

	result := r.db.WithContext(ctx).
		Model(&domain.JobOrder{}).
		Where("job_order_number = ? AND version = ?", jo.JobOrderNumber, current).
		Select("*").
		Omit("id", "created_at", "job_order_number", "user_id").
		Updates(jo)
	if result.Error != nil {
		jo.Version = current
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	jo.Version = current
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.JobOrder{}).
		Where("job_order_number = ?", jo.JobOrderNumber).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return ErrVersionConflict
}

// DeleteByKey removes a job order. Deleting a missing record is an error, not a no-op.
func (r *JobOrderRepository) DeleteByKey(ctx context.Context, number string) error {
	result := r.db.WithContext(ctx).Where("job_order_number = ?", number).Delete(&domain.JobOrder{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns a page of job orders matching the filter and the total match count
func (r *JobOrderRepository) List(ctx context.Context, filter *JobOrderFilter, page, pageSize int) ([]domain.JobOrder, int64, error) {
	var jobOrders []domain.JobOrder
	var total int64

	query := r.applyFilters(r.db.WithContext(ctx).Model(&domain.JobOrder{}), filter)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := r.applySort(query, filter).
		Offset(offset).
		Limit(pageSize).
		Find(&jobOrders).Error

	return jobOrders, total, err
}

// FindAll returns every job order matching the filter, unpaged
func (r *JobOrderRepository) FindAll(ctx context.Context, filter *JobOrderFilter) ([]domain.JobOrder, error) {
	var jobOrders []domain.JobOrder
	query := r.applyFilters(r.db.WithContext(ctx).Model(&domain.JobOrder{}), filter)
	err := r.applySort(query, filter).Find(&jobOrders).Error
	return jobOrders, err
}

// ListScheduled returns job orders with a pickup, departure or arrival date in [from, to]
func (r *JobOrderRepository) ListScheduled(ctx context.Context, from, to time.Time) ([]domain.JobOrder, error) {
	var jobOrders []domain.JobOrder
	err := r.db.WithContext(ctx).
		Where("(pickup_date >= ? AND pickup_date <= ?) OR (etd >= ? AND etd <= ?) OR (eta >= ? AND eta <= ?)",
			from, to, from, to, from, to).
		Order("eta ASC").
		Order("job_order_number ASC").
		Find(&jobOrders).Error
	return jobOrders, err
}

// ListOverdue returns open job orders whose ETA is before today
func (r *JobOrderRepository) ListOverdue(ctx context.Context, today time.Time) ([]domain.JobOrder, error) {
	var jobOrders []domain.JobOrder
	err := overdue(r.db.WithContext(ctx), today).
		Order("eta ASC").
		Find(&jobOrders).Error
	return jobOrders, err
}

// Statistics aggregates counts for the dashboard
func (r *JobOrderRepository) Statistics(ctx context.Context, today time.Time) (*JobOrderStats, error) {
	stats := &JobOrderStats{}
	db := r.db.WithContext(ctx)

	if err := db.Model(&domain.JobOrder{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.JobOrder{}).Where("is_completed = ?", true).Count(&stats.Completed).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.JobOrder{}).Where("tag_urgent = ? AND is_completed = ?", true, false).Count(&stats.Urgent).Error; err != nil {
		return nil, err
	}
	if err := overdue(db.Model(&domain.JobOrder{}), today).Count(&stats.Overdue).Error; err != nil {
		return nil, err
	}

	var err error
	if stats.ByStatus, err = r.countBy(ctx, "status"); err != nil {
		return nil, err
	}
	if stats.ByVariant, err = r.countBy(ctx, "variant"); err != nil {
		return nil, err
	}
	if stats.ByMode, err = r.countBy(ctx, "mode_of_transport"); err != nil {
		return nil, err
	}
	return stats, nil
}

// countBy groups job orders by a fixed column name; never pass user input
func (r *JobOrderRepository) countBy(ctx context.Context, column string) (map[string]int64, error) {
	type result struct {
		GroupKey string
		Count    int64
	}

	var results []result
	err := r.db.WithContext(ctx).Model(&domain.JobOrder{}).
		Select(column + " AS group_key, COUNT(*) AS count").
		Group(column).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(results))
	for _, res := range results {
		counts[res.GroupKey] = res.Count
	}
	return counts, nil
}

func overdue(db *gorm.DB, today time.Time) *gorm.DB {
	return db.Where("is_completed = ? AND status <> ? AND eta IS NOT NULL AND eta < ?",
		false, domain.StatusVoid, domain.TruncateDay(today))
}

func (r *JobOrderRepository) applyFilters(query *gorm.DB, filter *JobOrderFilter) *gorm.DB {
	if filter == nil {
		return query
	}
	if filter.Variant != nil {
		query = query.Where("variant = ?", *filter.Variant)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Completed != nil {
		query = query.Where("is_completed = ?", *filter.Completed)
	}
	if filter.OwnerID != nil {
		query = query.Where("user_id = ?", *filter.OwnerID)
	}
	if filter.Urgent != nil {
		query = query.Where("tag_urgent = ?", *filter.Urgent)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"(LOWER(job_order_number) LIKE ? OR LOWER(shipper_consignee) LIKE ? OR LOWER(contact_name) LIKE ? OR LOWER(bl_awb) LIKE ?)",
			pattern, pattern, pattern, pattern,
		)
	}
	return query
}

func (r *JobOrderRepository) applySort(query *gorm.DB, filter *JobOrderFilter) *gorm.DB {
	if filter != nil && filter.SortBy == "eta" {
		return query.Order("eta ASC").Order("job_order_number ASC")
	}
	return query.Order("created_at DESC").Order("job_order_number ASC")
}
