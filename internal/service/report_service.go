package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/pfes/joborder-api/internal/domain"
	"github.com/pfes/joborder-api/internal/logger"
	"github.com/pfes/joborder-api/internal/mapper"
	"github.com/pfes/joborder-api/internal/repository"
	"go.uber.org/zap"
)

// maxCalendarDays bounds a calendar query
const maxCalendarDays = 366

// ReportService serves the dashboard statistics and the schedule calendar
type ReportService struct {
	jobOrderRepo *repository.JobOrderRepository
	logger       *zap.Logger
	loc          *time.Location
	now          func() time.Time
}

// NewReportService creates a new report service
func NewReportService(jobOrderRepo *repository.JobOrderRepository, logger *zap.Logger, loc *time.Location) *ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportService{
		jobOrderRepo: jobOrderRepo,
		logger:       logger,
		loc:          loc,
		now:          time.Now,
	}
}

// WithClock replaces the time source
func (s *ReportService) WithClock(now func() time.Time) *ReportService {
	s.now = now
	return s
}

func (s *ReportService) today() time.Time {
	return domain.TruncateDay(s.now().In(s.loc))
}

// Statistics counts job orders by status, type and mode along with the
// completed, urgent and overdue totals
func (s *ReportService) Statistics(ctx context.Context) (*domain.StatisticsDTO, error) {
	stats, err := s.jobOrderRepo.Statistics(ctx, s.today())
	if err != nil {
		return nil, fmt.Errorf("failed to compute statistics: %w", err)
	}

	dto := &domain.StatisticsDTO{
		Total:     stats.Total,
		Completed: stats.Completed,
		Open:      stats.Total - stats.Completed,
		Urgent:    stats.Urgent,
		Overdue:   stats.Overdue,
		ByStatus:  make(map[domain.JobOrderStatus]int64, len(stats.ByStatus)),
		ByVariant: make(map[domain.Variant]int64, len(stats.ByVariant)),
		ByMode:    make(map[domain.TransportMode]int64, len(stats.ByMode)),
	}
	for k, v := range stats.ByStatus {
		dto.ByStatus[domain.JobOrderStatus(k)] = v
	}
	for k, v := range stats.ByVariant {
		dto.ByVariant[domain.Variant(k)] = v
	}
	for k, v := range stats.ByMode {
		dto.ByMode[domain.TransportMode(k)] = v
	}
	return dto, nil
}

// Calendar lists pickup, departure and arrival events between from and to
// inclusive, ordered by date
func (s *ReportService) Calendar(ctx context.Context, from, to string) ([]domain.CalendarEventDTO, error) {
	fields := map[string]string{}
	start, err := domain.ParseDate(from)
	if err != nil || start.IsZero() {
		fields["from"] = "Must be a date in YYYY-MM-DD format"
	}
	end, err := domain.ParseDate(to)
	if err != nil || end.IsZero() {
		fields["to"] = "Must be a date in YYYY-MM-DD format"
	}
	if len(fields) == 0 {
		switch {
		case end.Before(start):
			fields["to"] = "Must not be earlier than from"
		case end.Sub(start) > maxCalendarDays*24*time.Hour:
			fields["to"] = fmt.Sprintf("Range may span at most %d days", maxCalendarDays)
		}
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	jobOrders, err := s.jobOrderRepo.ListScheduled(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduled job orders: %w", err)
	}

	events := []domain.CalendarEventDTO{}
	for i := range jobOrders {
		events = append(events, mapper.ToCalendarEvents(&jobOrders[i], start, end)...)
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Date != events[j].Date {
			return events[i].Date < events[j].Date
		}
		return events[i].JobOrderNumber < events[j].JobOrderNumber
	})
	return events, nil
}

// ScanOverdue logs every open job order past its ETA and returns how many there are
func (s *ReportService) ScanOverdue(ctx context.Context) (int, error) {
	today := s.today()
	jobOrders, err := s.jobOrderRepo.ListOverdue(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("failed to list overdue job orders: %w", err)
	}
	for i := range jobOrders {
		jo := &jobOrders[i]
		logger.WithJobOrder(s.logger, jo.JobOrderNumber).Warn("job order overdue",
			zap.String("eta", domain.FormatDate(jo.Dates().ETA)),
			zap.String("unloading", string(jo.Operations.Unloading.Status)),
			zap.String("user_id", jo.UserID.String()))
	}
	return len(jobOrders), nil
}
