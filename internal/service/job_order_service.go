package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pfes/joborder-api/internal/auth"
	"github.com/pfes/joborder-api/internal/domain"
	"github.com/pfes/joborder-api/internal/logger"
	"github.com/pfes/joborder-api/internal/mapper"
	"github.com/pfes/joborder-api/internal/repository"
	"github.com/pfes/joborder-api/internal/validation"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// JobOrderStore is the persistence the job order service depends on
type JobOrderStore interface {
	FindByKey(ctx context.Context, number string) (*domain.JobOrder, error)
	Insert(ctx context.Context, jo *domain.JobOrder) error
	UpdateByKey(ctx context.Context, jo *domain.JobOrder) error
	DeleteByKey(ctx context.Context, number string) error
	List(ctx context.Context, filter *repository.JobOrderFilter, page, pageSize int) ([]domain.JobOrder, int64, error)
	FindAll(ctx context.Context, filter *repository.JobOrderFilter) ([]domain.JobOrder, error)
	ListScheduled(ctx context.Context, from, to time.Time) ([]domain.JobOrder, error)
}

// JobOrderService implements the job order use cases: access policy,
// validation, the completion flow and audited persistence
type JobOrderService struct {
	store     JobOrderStore
	validator *validation.Validator
	provinces domain.ProvinceLookup
	audit     *AuditLogService
	logger    *zap.Logger
	loc       *time.Location
	now       func() time.Time
}

// NewJobOrderService creates a job order service. loc decides which calendar
// day counts as today; audit may be nil.
func NewJobOrderService(
	store JobOrderStore,
	validator *validation.Validator,
	provinces domain.ProvinceLookup,
	audit *AuditLogService,
	logger *zap.Logger,
	loc *time.Location,
) *JobOrderService {
	if loc == nil {
		loc = time.UTC
	}
	return &JobOrderService{
		store:     store,
		validator: validator,
		provinces: provinces,
		audit:     audit,
		logger:    logger,
		loc:       loc,
		now:       time.Now,
	}
}

// WithClock replaces the time source
func (s *JobOrderService) WithClock(now func() time.Time) *JobOrderService {
	s.now = now
	return s
}

// Today is the current calendar date in the service's location
func (s *JobOrderService) Today() time.Time {
	return domain.TruncateDay(s.now().In(s.loc))
}

// Create stores a new job order owned by the calling user
func (s *JobOrderService) Create(ctx context.Context, p domain.JobOrderPayload) (*domain.JobOrderDTO, error) {
	user, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	actor := user.Actor()
	if err := domain.Authorize(actor, domain.ActionCreate, nil); err != nil {
		return nil, err
	}

	p.Normalize()
	if res := s.validator.Validate(p); !res.IsValid {
		return nil, &ValidationError{Fields: res.Errors}
	}

	associate := p.Associate
	if associate == "" {
		associate = user.Name
	}
	jo := &domain.JobOrder{
		JobOrderNumber: p.JobOrderNumber,
		Variant:        p.Type,
		Associate:      associate,
		UserID:         user.UserID,
		Version:        1,
		Operations: domain.Operations{
			Preloading: domain.Stage{Status: domain.StagePending},
			Loading:    domain.Stage{Status: domain.StagePending},
			Unloading:  domain.Stage{Status: domain.StagePending},
		},
	}
	if err := p.ApplyTo(jo, s.provinces); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.store.Insert(ctx, jo); err != nil {
		return nil, storeError("create", err)
	}

	s.record(ctx, domain.AuditActionCreate, jo, p)
	logger.WithJobOrder(s.logger, jo.JobOrderNumber).Info("job order created",
		zap.String("type", string(jo.Variant)),
		zap.String("user_id", user.UserID.String()))

	dto := mapper.ToJobOrderDTO(jo, domain.AllowedActions(actor, jo))
	return &dto, nil
}

// Get returns one job order with the caller's allowed actions
func (s *JobOrderService) Get(ctx context.Context, number string) (*domain.JobOrderDTO, error) {
	actor, err := currentActor(ctx)
	if err != nil {
		return nil, err
	}
	jo, err := s.load(ctx, number)
	if err != nil {
		return nil, err
	}
	if err := domain.Authorize(actor, domain.ActionView, jo); err != nil {
		return nil, err
	}
	dto := mapper.ToJobOrderDTO(jo, domain.AllowedActions(actor, jo))
	return &dto, nil
}

// List returns a filtered page of job orders
func (s *JobOrderService) List(ctx context.Context, filter *repository.JobOrderFilter, page, pageSize int) (*domain.PaginatedResponse, error) {
	actor, err := currentActor(ctx)
	if err != nil {
		return nil, err
	}
	if err := domain.Authorize(actor, domain.ActionView, nil); err != nil {
		return nil, err
	}

	page, pageSize = clampPage(page, pageSize)
	jobOrders, total, err := s.store.List(ctx, filter, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list job orders: %w", err)
	}

	dtos := make([]domain.JobOrderDTO, len(jobOrders))
	for i := range jobOrders {
		dtos[i] = mapper.ToJobOrderDTO(&jobOrders[i], domain.AllowedActions(actor, &jobOrders[i]))
	}
	return paginate(dtos, total, page, pageSize), nil
}

// Edit replaces the editable fields of a job order. The number, type,
// associate and owner never change.
func (s *JobOrderService) Edit(ctx context.Context, number string, p domain.JobOrderPayload) (*domain.JobOrderDTO, error) {
	actor, err := currentActor(ctx)
	if err != nil {
		return nil, err
	}
	jo, err := s.load(ctx, number)
	if err != nil {
		return nil, err
	}
	if err := domain.Authorize(actor, domain.ActionEdit, jo); err != nil {
		return nil, err
	}
	if err := checkVersion(p.Version, jo); err != nil {
		return nil, err
	}

	immutable := map[string]string{}
	if p.JobOrderNumber != "" && p.JobOrderNumber != jo.JobOrderNumber {
		immutable["jobOrderNumber"] = "Job order number cannot be changed"
	}
	if p.Type != "" && p.Type != jo.Variant {
		immutable["type"] = "Job order type cannot be changed"
	}
	if len(immutable) > 0 {
		return nil, &ValidationError{Fields: immutable}
	}
	p.JobOrderNumber = jo.JobOrderNumber
	p.Type = jo.Variant
	p.Associate = jo.Associate
	if p.ModeOfTransport != jo.ModeOfTransport {
		// a BL number never carries over to an AWB or vice versa
		p.ChangeModeOfTransport(p.ModeOfTransport)
	}

	p.Normalize()
	if res := s.validator.Validate(p); !res.IsValid {
		return nil, &ValidationError{Fields: res.Errors}
	}
	if err := p.ApplyTo(jo, s.provinces); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.store.UpdateByKey(ctx, jo); err != nil {
		return nil, storeError("update", err)
	}

	s.record(ctx, domain.AuditActionUpdate, jo, p)
	logger.WithJobOrder(s.logger, jo.JobOrderNumber).Info("job order updated", zap.Int("version", jo.Version))

	dto := mapper.ToJobOrderDTO(jo, domain.AllowedActions(actor, jo))
	return &dto, nil
}

// UpdateOperations changes stage statuses and remarks. Stages left nil keep their stored values.
func (s *JobOrderService) UpdateOperations(ctx context.Context, number string, req domain.UpdateOperationsRequest) (*domain.JobOrderDTO, error) {
	actor, err := currentActor(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, &ValidationError{Fields: validation.Collect(err).Errors}
	}
	jo, err := s.load(ctx, number)
	if err != nil {
		return nil, err
	}
	if err := domain.Authorize(actor, domain.ActionUpdateOperations, jo); err != nil {
		return nil, err
	}
	if err := checkVersion(req.Version, jo); err != nil {
		return nil, err
	}

	applyStage(&jo.Operations.Preloading, req.Preloading)
	applyStage(&jo.Operations.Loading, req.Loading)
	applyStage(&jo.Operations.Unloading, req.Unloading)

	if err := s.store.UpdateByKey(ctx, jo); err != nil {
		return nil, storeError("update operations of", err)
	}

	s.record(ctx, domain.AuditActionUpdate, jo, req)
	logger.WithJobOrder(s.logger, jo.JobOrderNumber).Info("job order operations updated",
		zap.String("preloading", string(jo.Operations.Preloading.Status)),
		zap.String("loading", string(jo.Operations.Loading.Status)),
		zap.String("unloading", string(jo.Operations.Unloading.Status)))

	dto := mapper.ToJobOrderDTO(jo, domain.AllowedActions(actor, jo))
	return &dto, nil
}

// Complete confirms a job order whose unloading is finished. Completion is terminal.
func (s *JobOrderService) Complete(ctx context.Context, number string, req domain.CompleteJobOrderRequest) (*domain.JobOrderDTO, error) {
	actor, err := currentActor(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, &ValidationError{Fields: validation.Collect(err).Errors}
	}
	jo, err := s.load(ctx, number)
	if err != nil {
		return nil, err
	}
	if err := domain.Authorize(actor, domain.ActionComplete, jo); err != nil {
		return nil, err
	}
	if err := checkVersion(req.Version, jo); err != nil {
		return nil, err
	}

	flow := domain.NewCompletionFlow(jo)
	if err := flow.Begin(); err != nil {
		return nil, err
	}
	if err := flow.Confirm(req.Remarks, s.now()); err != nil {
		return nil, err
	}

	if err := s.store.UpdateByKey(ctx, jo); err != nil {
		return nil, storeError("complete", err)
	}

	s.record(ctx, domain.AuditActionComplete, jo, req)
	logger.WithJobOrder(s.logger, jo.JobOrderNumber).Info("job order completed")

	dto := mapper.ToJobOrderDTO(jo, domain.AllowedActions(actor, jo))
	return &dto, nil
}

// Delete removes a job order
func (s *JobOrderService) Delete(ctx context.Context, number string) error {
	actor, err := currentActor(ctx)
	if err != nil {
		return err
	}
	jo, err := s.load(ctx, number)
	if err != nil {
		return err
	}
	if err := domain.Authorize(actor, domain.ActionDelete, jo); err != nil {
		return err
	}

	if err := s.store.DeleteByKey(ctx, number); err != nil {
		return storeError("delete", err)
	}

	s.record(ctx, domain.AuditActionDelete, jo, nil)
	logger.WithJobOrder(s.logger, number).Info("job order deleted")
	return nil
}

// Schedule runs the date engine for one field and returns the corrected
// schedule with the picker minimums
func (s *JobOrderService) Schedule(req domain.ScheduleChangeRequest) (*domain.ScheduleDTO, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, &ValidationError{Fields: validation.Collect(err).Errors}
	}

	p := domain.JobOrderPayload{PickupDate: req.PickupDate, ETD: req.ETD, ETA: req.ETA}
	current, err := p.Dates()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	value, err := domain.ParseDate(req.Value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	today := s.Today()
	next := domain.ApplyDateChange(req.Field, value, current, today)
	dto := mapper.ToScheduleDTO(next, domain.Bounds(next, today))
	return &dto, nil
}

// ReduceForm applies one dependent-field edit to a form payload
func (s *JobOrderService) ReduceForm(req domain.FormReduceRequest) (*domain.JobOrderPayload, error) {
	next, err := domain.ReduceForm(req.Payload, req.Change, s.provinces, s.Today())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return &next, nil
}

// Validate checks a payload without storing it
func (s *JobOrderService) Validate(p domain.JobOrderPayload) domain.ValidationResultDTO {
	p.Normalize()
	res := s.validator.Validate(p)
	return domain.ValidationResultDTO{IsValid: res.IsValid, Errors: res.Errors}
}

func (s *JobOrderService) load(ctx context.Context, number string) (*domain.JobOrder, error) {
	jo, err := s.store.FindByKey(ctx, number)
	if err != nil {
		return nil, storeError("get", err)
	}
	return jo, nil
}

// record writes the audit entry for a mutation. A failed audit write never
// fails the request.
func (s *JobOrderService) record(ctx context.Context, action domain.AuditAction, jo *domain.JobOrder, values interface{}) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Log(ctx, LogEntry{
		Action:     action,
		EntityType: EntityJobOrder,
		EntityKey:  jo.JobOrderNumber,
		NewValues:  values,
	})
}

func applyStage(stage *domain.Stage, update domain.StageUpdate) {
	if update.Status != nil {
		stage.Status = *update.Status
	}
	if update.Remarks != nil {
		stage.Remarks = *update.Remarks
	}
}

func checkVersion(sent int, jo *domain.JobOrder) error {
	if sent > 0 && sent != jo.Version {
		return ErrStaleJobOrder
	}
	return nil
}

func currentUser(ctx context.Context) (*auth.UserContext, error) {
	user, ok := auth.FromContext(ctx)
	if !ok || user == nil {
		return nil, ErrUnauthorized
	}
	return user, nil
}

func currentActor(ctx context.Context) (domain.Actor, error) {
	user, err := currentUser(ctx)
	if err != nil {
		return domain.Actor{}, err
	}
	return user.Actor(), nil
}

// storeError maps persistence errors onto service errors
func storeError(op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateJobOrder
	case errors.Is(err, repository.ErrVersionConflict):
		return ErrStaleJobOrder
	}
	return fmt.Errorf("failed to %s job order: %w", op, err)
}
