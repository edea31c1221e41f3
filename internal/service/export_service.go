package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pfes/joborder-api/internal/domain"
	"github.com/pfes/joborder-api/internal/repository"
	"github.com/pfes/joborder-api/internal/storage"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// XLSXContentType is the MIME type of the register workbook
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// RegisterSheet is the worksheet holding the job order register
const RegisterSheet = "Job Orders"

var registerColumns = []string{
	"Job Order No.", "Type", "Shipper/Consignee", "Associate",
	"Contact Name", "Contact Number", "Contact Email",
	"Mode", "Commodity Type", "Commodity Description", "BL/AWB",
	"Origin", "Destination", "Pickup Date", "ETD", "ETA",
	"Status", "Urgent", "Insured",
	"Preloading", "Loading", "Unloading",
	"Rating", "Completed", "Date Completed", "Completion Remarks",
}

// ExportService renders the job order register as an XLSX workbook and
// archives nightly copies to storage
type ExportService struct {
	store   JobOrderStore
	storage storage.Storage
	prefix  string
	logger  *zap.Logger
	loc     *time.Location
	now     func() time.Time
}

// NewExportService creates an export service. store may be nil when only the
// archive listing is needed; storage may be nil when archiving is disabled.
func NewExportService(store JobOrderStore, st storage.Storage, prefix string, logger *zap.Logger, loc *time.Location) *ExportService {
	if loc == nil {
		loc = time.UTC
	}
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &ExportService{
		store:   store,
		storage: st,
		prefix:  prefix,
		logger:  logger,
		loc:     loc,
		now:     time.Now,
	}
}

// WithClock replaces the time source
func (s *ExportService) WithClock(now func() time.Time) *ExportService {
	s.now = now
	return s
}

// WriteRegister writes the workbook for job orders matching filter and
// returns how many rows it contains
func (s *ExportService) WriteRegister(ctx context.Context, filter *repository.JobOrderFilter, w io.Writer) (int, error) {
	jobOrders, err := s.store.FindAll(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to load job orders: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", RegisterSheet); err != nil {
		return 0, err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DCE6F1"}},
	})
	if err != nil {
		return 0, err
	}

	sw, err := f.NewStreamWriter(RegisterSheet)
	if err != nil {
		return 0, err
	}
	if err := sw.SetColWidth(1, len(registerColumns), 18); err != nil {
		return 0, err
	}

	header := make([]interface{}, len(registerColumns))
	for i, name := range registerColumns {
		header[i] = excelize.Cell{StyleID: headerStyle, Value: name}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return 0, err
	}

	for i := range jobOrders {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return 0, err
		}
		if err := sw.SetRow(cell, registerRow(&jobOrders[i], s.loc)); err != nil {
			return 0, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return 0, err
	}

	if err := f.Write(w); err != nil {
		return 0, fmt.Errorf("failed to write workbook: %w", err)
	}
	return len(jobOrders), nil
}

// RegisterFilename is the download name for a register produced on day
func RegisterFilename(day time.Time) string {
	return "job-order-register-" + day.Format(domain.DateLayout) + ".xlsx"
}

// ArchiveRegister stores today's full register under the archive prefix
func (s *ExportService) ArchiveRegister(ctx context.Context) (*storage.Object, error) {
	if s.storage == nil {
		return nil, fmt.Errorf("register archive storage is not configured")
	}

	var buf bytes.Buffer
	rows, err := s.WriteRegister(ctx, &repository.JobOrderFilter{SortBy: "eta"}, &buf)
	if err != nil {
		return nil, err
	}

	now := s.now().In(s.loc)
	key := s.prefix + RegisterFilename(now)
	size, err := s.storage.Put(ctx, key, XLSXContentType, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to store register: %w", err)
	}

	s.logger.Info("job order register archived",
		zap.String("key", key),
		zap.Int("rows", rows),
		zap.Int64("size", size))
	return &storage.Object{Key: key, Size: size, LastModified: now.UTC()}, nil
}

// ListArchives returns archived registers, newest first
func (s *ExportService) ListArchives(ctx context.Context) ([]storage.Object, error) {
	if s.storage == nil {
		return []storage.Object{}, nil
	}
	objects, err := s.storage.List(ctx, s.prefix)
	if err != nil {
		return nil, err
	}
	out := make([]storage.Object, 0, len(objects))
	for i := len(objects) - 1; i >= 0; i-- {
		obj := objects[i]
		obj.Key = strings.TrimPrefix(obj.Key, s.prefix)
		out = append(out, obj)
	}
	return out, nil
}

// OpenArchive opens one archived register by file name
func (s *ExportService) OpenArchive(ctx context.Context, name string) (io.ReadCloser, error) {
	if s.storage == nil {
		return nil, ErrNotFound
	}
	if name == "" || strings.ContainsAny(name, "/\\") {
		return nil, ErrInvalidInput
	}
	rc, err := s.storage.Get(ctx, s.prefix+name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rc, nil
}

// PruneArchives deletes archived registers older than retention
func (s *ExportService) PruneArchives(ctx context.Context, retention time.Duration) (int, error) {
	if s.storage == nil || retention <= 0 {
		return 0, nil
	}
	objects, err := s.storage.List(ctx, s.prefix)
	if err != nil {
		return 0, err
	}
	cutoff := s.now().UTC().Add(-retention)
	removed := 0
	for _, obj := range objects {
		if obj.LastModified.IsZero() || !obj.LastModified.Before(cutoff) {
			continue
		}
		if err := s.storage.Delete(ctx, obj.Key); err != nil {
			return removed, err
		}
		removed++
	}
	if removed > 0 {
		s.logger.Info("pruned archived registers", zap.Int("count", removed))
	}
	return removed, nil
}

func registerRow(jo *domain.JobOrder, loc *time.Location) []interface{} {
	dates := jo.Dates()
	completedAt := ""
	if jo.DateCompleted != nil {
		completedAt = jo.DateCompleted.In(loc).Format("2006-01-02 15:04")
	}
	return []interface{}{
		jo.JobOrderNumber,
		string(jo.Variant),
		jo.ShipperConsignee,
		jo.Associate,
		jo.Contact.Name,
		jo.Contact.Number,
		jo.Contact.Email,
		string(jo.ModeOfTransport),
		jo.Commodity.Type,
		jo.Commodity.Description,
		jo.BLAWB,
		placeText(jo.Origin),
		placeText(jo.Destination),
		domain.FormatDate(dates.PickupDate),
		domain.FormatDate(dates.ETD),
		domain.FormatDate(dates.ETA),
		string(jo.Status),
		yesNo(jo.Tags.Urgent),
		yesNo(jo.Tags.Insured),
		string(jo.Operations.Preloading.Status),
		string(jo.Operations.Loading.Status),
		string(jo.Operations.Unloading.Status),
		jo.Rating,
		yesNo(jo.IsCompleted),
		completedAt,
		jo.CompletionRemarks,
	}
}

func placeText(p domain.Place) string {
	parts := []string{}
	for _, s := range []string{p.Location, p.City, p.ProvinceName, p.Country} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
