package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pfes/joborder-api/internal/auth"
	"github.com/pfes/joborder-api/internal/domain"
	"github.com/pfes/joborder-api/internal/reference"
	"github.com/pfes/joborder-api/internal/repository"
	"github.com/pfes/joborder-api/internal/service"
	"github.com/pfes/joborder-api/internal/testutil"
	"github.com/pfes/joborder-api/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2025, 1, 5, 9, 0, 0, 0, time.UTC)

type fixture struct {
	db        *gorm.DB
	jobOrders *service.JobOrderService
	audit     *repository.AuditLogRepository
	repo      *repository.JobOrderRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ref, err := reference.Load()
	require.NoError(t, err)

	auditRepo := repository.NewAuditLogRepository(db)
	repo := repository.NewJobOrderRepository(db)
	svc := service.NewJobOrderService(
		repo,
		validation.New(ref),
		ref,
		service.NewAuditLogService(auditRepo, zap.NewNop()),
		zap.NewNop(),
		time.UTC,
	).WithClock(func() time.Time { return fixedNow })

	return &fixture{db: db, jobOrders: svc, audit: auditRepo, repo: repo}
}

func asUser(role string) context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID:   uuid.New(),
		Name:     "Test " + role,
		Email:    role + "@example.com",
		UserType: role,
	})
}

func domesticPayload(number string) domain.JobOrderPayload {
	return domain.JobOrderPayload{
		JobOrderNumber:         number,
		Type:                   domain.VariantDomestic,
		ShipperConsignee:       "Acme Trading",
		ContactName:            "José Dela Peña",
		ContactNumber:          "0917-555-0101",
		ContactEmail:           "jose@acme.ph",
		ModeOfTransport:        domain.ModeTruck,
		CommodityType:          "Dry goods",
		CommodityDescription:   "Rice sacks",
		BLAWB:                  "should be dropped for trucks",
		OriginLocation:         "Warehouse 3",
		OriginProvinceKey:      "laguna",
		OriginCity:             "Calamba",
		DestinationLocation:    "Pier 4",
		DestinationProvinceKey: "cebu",
		DestinationCity:        "Mandaue",
		PickupDate:             "2025-01-10",
		ETD:                    "2025-01-11",
		ETA:                    "2025-01-14",
		Status:                 domain.StatusOngoing,
	}
}

func internationalPayload(number string) domain.JobOrderPayload {
	return domain.JobOrderPayload{
		JobOrderNumber:       number,
		Type:                 domain.VariantInternational,
		ShipperConsignee:     "Pacific Imports",
		ContactName:          "Ana Reyes",
		ContactNumber:        "028123456",
		ContactEmail:         "ana@pacific.example",
		ModeOfTransport:      domain.ModeSea,
		CommodityType:        "Containerized",
		CommodityDescription: "Machine parts",
		BLAWB:                "MAEU-1234",
		OriginLocation:       "Port of Busan",
		OriginCountry:        "South Korea",
		DestinationLocation:  "Manila International Container Terminal",
		DestinationCountry:   "Philippines",
		PickupDate:           "2025-01-01",
		ETD:                  "2025-01-20",
		ETA:                  "2025-01-28",
		Status:               domain.StatusWaiting,
	}
}

func TestJobOrderService_Create(t *testing.T) {
	f := newFixture(t)
	sales := asUser(domain.RoleSales)

	t.Run("domestic", func(t *testing.T) {
		dto, err := f.jobOrders.Create(sales, domesticPayload("DOM-0001"))
		require.NoError(t, err)

		user, _ := auth.FromContext(sales)
		assert.Equal(t, user.UserID, dto.User)
		assert.Equal(t, "Test sales", dto.Associate)
		assert.Equal(t, "Laguna", dto.Origin.ProvinceName)
		assert.Equal(t, "Cebu", dto.Destination.ProvinceName)
		assert.Empty(t, dto.BLAWB)
		assert.Equal(t, 1, dto.Version)
		assert.Equal(t, domain.StagePending, dto.Operations.Unloading.Status)
		assert.Equal(t, domain.ActionSet{domain.ActionView, domain.ActionCreate, domain.ActionEdit}, dto.AllowedActions)
	})

	t.Run("international drops pickup date", func(t *testing.T) {
		dto, err := f.jobOrders.Create(sales, internationalPayload("INT-0001"))
		require.NoError(t, err)
		assert.Empty(t, dto.PickupDate)
		assert.Equal(t, "MAEU-1234", dto.BLAWB)
		assert.Equal(t, "South Korea", dto.Origin.Country)
	})

	t.Run("duplicate number", func(t *testing.T) {
		_, err := f.jobOrders.Create(sales, domesticPayload("DOM-0001"))
		assert.ErrorIs(t, err, service.ErrDuplicateJobOrder)
	})

	t.Run("invalid payload", func(t *testing.T) {
		p := domesticPayload("DOM-0002")
		p.OriginProvinceKey = ""
		_, err := f.jobOrders.Create(sales, p)
		ve, ok := service.IsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, "Origin province is required", ve.Fields["originProvinceKey"])
	})

	t.Run("operations cannot create", func(t *testing.T) {
		_, err := f.jobOrders.Create(asUser(domain.RoleOperations), domesticPayload("DOM-0003"))
		assert.ErrorIs(t, err, domain.ErrActionForbidden)
	})

	t.Run("anonymous", func(t *testing.T) {
		_, err := f.jobOrders.Create(context.Background(), domesticPayload("DOM-0004"))
		assert.ErrorIs(t, err, service.ErrUnauthorized)
	})

	t.Run("writes audit entries", func(t *testing.T) {
		logs, total, err := f.audit.List(context.Background(), &repository.AuditLogFilter{EntityKey: "DOM-0001"}, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, domain.AuditActionCreate, logs[0].Action)
		assert.Equal(t, "sales@example.com", logs[0].UserEmail)
	})
}

func TestJobOrderService_GetAndList(t *testing.T) {
	f := newFixture(t)
	sales := asUser(domain.RoleSales)
	_, err := f.jobOrders.Create(sales, domesticPayload("DOM-0001"))
	require.NoError(t, err)
	_, err = f.jobOrders.Create(sales, internationalPayload("INT-0001"))
	require.NoError(t, err)

	t.Run("get missing", func(t *testing.T) {
		_, err := f.jobOrders.Get(sales, "DOM-9999")
		assert.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("other sales sees view only", func(t *testing.T) {
		dto, err := f.jobOrders.Get(asUser(domain.RoleSales), "DOM-0001")
		require.NoError(t, err)
		assert.Equal(t, domain.ActionSet{domain.ActionView, domain.ActionCreate}, dto.AllowedActions)
	})

	t.Run("list filtered by type", func(t *testing.T) {
		variant := domain.VariantInternational
		res, err := f.jobOrders.List(sales, &repository.JobOrderFilter{Variant: &variant}, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.Total)
		assert.Equal(t, 20, res.PageSize)
		assert.Equal(t, 1, res.Page)
		items := res.Data.([]domain.JobOrderDTO)
		assert.Equal(t, "INT-0001", items[0].JobOrderNumber)
	})

	t.Run("page size is capped", func(t *testing.T) {
		res, err := f.jobOrders.List(sales, nil, 1, 1000)
		require.NoError(t, err)
		assert.Equal(t, 200, res.PageSize)
		assert.Equal(t, 1, res.TotalPages)
	})
}

func TestJobOrderService_Edit(t *testing.T) {
	f := newFixture(t)
	owner := asUser(domain.RoleSales)
	created, err := f.jobOrders.Create(owner, domesticPayload("DOM-0001"))
	require.NoError(t, err)

	t.Run("owner edits", func(t *testing.T) {
		p := domesticPayload("DOM-0001")
		p.ShipperConsignee = "Acme Logistics"
		p.Associate = "someone else"
		p.Version = created.Version

		dto, err := f.jobOrders.Edit(owner, "DOM-0001", p)
		require.NoError(t, err)
		assert.Equal(t, "Acme Logistics", dto.ShipperConsignee)
		assert.Equal(t, created.Associate, dto.Associate)
		assert.Equal(t, created.Version+1, dto.Version)
	})

	t.Run("stale version", func(t *testing.T) {
		p := domesticPayload("DOM-0001")
		p.Version = created.Version
		_, err := f.jobOrders.Edit(owner, "DOM-0001", p)
		assert.ErrorIs(t, err, service.ErrStaleJobOrder)
	})

	t.Run("number is immutable", func(t *testing.T) {
		p := domesticPayload("DOM-0002")
		_, err := f.jobOrders.Edit(owner, "DOM-0001", p)
		ve, ok := service.IsValidationError(err)
		require.True(t, ok)
		assert.Contains(t, ve.Fields, "jobOrderNumber")
	})

	t.Run("type is immutable", func(t *testing.T) {
		p := internationalPayload("DOM-0001")
		_, err := f.jobOrders.Edit(owner, "DOM-0001", p)
		ve, ok := service.IsValidationError(err)
		require.True(t, ok)
		assert.Contains(t, ve.Fields, "type")
	})

	t.Run("date order is enforced", func(t *testing.T) {
		p := domesticPayload("DOM-0001")
		p.ETA = "2025-01-09"
		_, err := f.jobOrders.Edit(owner, "DOM-0001", p)
		ve, ok := service.IsValidationError(err)
		require.True(t, ok)
		assert.Contains(t, ve.Fields, "eta")
	})

	t.Run("non-owner sales forbidden", func(t *testing.T) {
		_, err := f.jobOrders.Edit(asUser(domain.RoleSales), "DOM-0001", domesticPayload("DOM-0001"))
		assert.ErrorIs(t, err, domain.ErrActionForbidden)
	})

	t.Run("admin edits any", func(t *testing.T) {
		_, err := f.jobOrders.Edit(asUser(domain.RoleAdmin), "DOM-0001", domesticPayload("DOM-0001"))
		assert.NoError(t, err)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := f.jobOrders.Edit(owner, "DOM-4040", domesticPayload("DOM-4040"))
		assert.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("mode change drops bl/awb", func(t *testing.T) {
		_, err := f.jobOrders.Create(owner, internationalPayload("INT-0001"))
		require.NoError(t, err)

		p := internationalPayload("INT-0001")
		p.ModeOfTransport = domain.ModeAir
		dto, err := f.jobOrders.Edit(owner, "INT-0001", p)
		require.NoError(t, err)
		assert.Equal(t, domain.ModeAir, dto.ModeOfTransport)
		assert.Empty(t, dto.BLAWB)
		assert.Empty(t, dto.Commodity.Type)

		stored, err := f.repo.FindByKey(context.Background(), "INT-0001")
		require.NoError(t, err)
		assert.Empty(t, stored.BLAWB)
	})

	t.Run("same mode keeps bl/awb", func(t *testing.T) {
		p := internationalPayload("INT-0001")
		p.ModeOfTransport = domain.ModeAir
		p.BLAWB = "176-12345675"
		dto, err := f.jobOrders.Edit(owner, "INT-0001", p)
		require.NoError(t, err)
		assert.Equal(t, "176-12345675", dto.BLAWB)
	})
}

func TestJobOrderService_OperationsAndCompletion(t *testing.T) {
	f := newFixture(t)
	owner := asUser(domain.RoleSales)
	ops := asUser(domain.RoleOperations)
	_, err := f.jobOrders.Create(owner, domesticPayload("DOM-0001"))
	require.NoError(t, err)

	inProgress := domain.StageInProgress
	finished := domain.StageFinished
	remarks := "arrived at pier"

	t.Run("completion blocked until unloading finished", func(t *testing.T) {
		before, err := f.repo.FindByKey(context.Background(), "DOM-0001")
		require.NoError(t, err)

		_, err = f.jobOrders.Complete(owner, "DOM-0001", domain.CompleteJobOrderRequest{})
		assert.ErrorIs(t, err, domain.ErrUnloadingNotFinished)

		after, err := f.repo.FindByKey(context.Background(), "DOM-0001")
		require.NoError(t, err)
		assert.False(t, after.IsCompleted)
		assert.Nil(t, after.DateCompleted)
		assert.Equal(t, before.Version, after.Version)
	})

	t.Run("sales cannot update stages", func(t *testing.T) {
		_, err := f.jobOrders.UpdateOperations(owner, "DOM-0001", domain.UpdateOperationsRequest{
			Loading: domain.StageUpdate{Status: &inProgress},
		})
		assert.ErrorIs(t, err, domain.ErrActionForbidden)
	})

	t.Run("partial stage update keeps other stages", func(t *testing.T) {
		dto, err := f.jobOrders.UpdateOperations(ops, "DOM-0001", domain.UpdateOperationsRequest{
			Loading: domain.StageUpdate{Status: &inProgress, Remarks: &remarks},
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StageInProgress, dto.Operations.Loading.Status)
		assert.Equal(t, remarks, dto.Operations.Loading.Remarks)
		assert.Equal(t, domain.StagePending, dto.Operations.Preloading.Status)

		dto, err = f.jobOrders.UpdateOperations(ops, "DOM-0001", domain.UpdateOperationsRequest{
			Unloading: domain.StageUpdate{Status: &finished},
		})
		require.NoError(t, err)
		assert.True(t, dto.Operations.Unloading.IsFinished)
		assert.Equal(t, remarks, dto.Operations.Loading.Remarks)
	})

	t.Run("invalid stage status", func(t *testing.T) {
		bogus := domain.StageStatus("Done")
		_, err := f.jobOrders.UpdateOperations(ops, "DOM-0001", domain.UpdateOperationsRequest{
			Loading: domain.StageUpdate{Status: &bogus},
		})
		_, ok := service.IsValidationError(err)
		assert.True(t, ok)
	})

	t.Run("non-owner cannot complete", func(t *testing.T) {
		_, err := f.jobOrders.Complete(asUser(domain.RoleSales), "DOM-0001", domain.CompleteJobOrderRequest{})
		assert.ErrorIs(t, err, domain.ErrActionForbidden)
	})

	t.Run("owner completes", func(t *testing.T) {
		dto, err := f.jobOrders.Complete(owner, "DOM-0001", domain.CompleteJobOrderRequest{Remarks: "signed by consignee"})
		require.NoError(t, err)
		assert.True(t, dto.IsCompleted)
		assert.Equal(t, "2025-01-05T09:00:00Z", dto.DateCompleted)
		assert.Equal(t, "signed by consignee", dto.CompletionRemarks)
		assert.Equal(t, domain.ActionSet{domain.ActionView, domain.ActionCreate}, dto.AllowedActions)
	})

	t.Run("completed record is frozen", func(t *testing.T) {
		_, err := f.jobOrders.Edit(owner, "DOM-0001", domesticPayload("DOM-0001"))
		assert.ErrorIs(t, err, domain.ErrJobOrderCompleted)

		_, err = f.jobOrders.UpdateOperations(ops, "DOM-0001", domain.UpdateOperationsRequest{
			Loading: domain.StageUpdate{Status: &finished},
		})
		assert.ErrorIs(t, err, domain.ErrJobOrderCompleted)

		_, err = f.jobOrders.Complete(owner, "DOM-0001", domain.CompleteJobOrderRequest{})
		assert.ErrorIs(t, err, domain.ErrJobOrderCompleted)
	})

	t.Run("admin may still delete", func(t *testing.T) {
		assert.ErrorIs(t, f.jobOrders.Delete(owner, "DOM-0001"), domain.ErrActionForbidden)
		require.NoError(t, f.jobOrders.Delete(asUser(domain.RoleAdmin), "DOM-0001"))
		assert.ErrorIs(t, f.jobOrders.Delete(asUser(domain.RoleAdmin), "DOM-0001"), service.ErrNotFound)
	})

	t.Run("audit trail", func(t *testing.T) {
		logs, err := f.audit.ListByEntity(context.Background(), service.EntityJobOrder, "DOM-0001", 20)
		require.NoError(t, err)
		actions := map[domain.AuditAction]int{}
		for _, l := range logs {
			actions[l.Action]++
		}
		assert.Equal(t, 1, actions[domain.AuditActionCreate])
		assert.Equal(t, 2, actions[domain.AuditActionUpdate])
		assert.Equal(t, 1, actions[domain.AuditActionComplete])
		assert.Equal(t, 1, actions[domain.AuditActionDelete])
	})
}

func TestJobOrderService_Schedule(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		req  domain.ScheduleChangeRequest
		want domain.ScheduleDTO
	}{
		{
			name: "pickup pushes later dates",
			req:  domain.ScheduleChangeRequest{Field: domain.FieldPickupDate, Value: "2025-01-12", PickupDate: "2025-01-06", ETD: "2025-01-08", ETA: "2025-01-10"},
			want: domain.ScheduleDTO{PickupDate: "2025-01-12", ETD: "2025-01-12", ETA: "2025-01-12", ETDMin: "2025-01-12", ETAMin: "2025-01-12"},
		},
		{
			name: "pickup before today is clamped",
			req:  domain.ScheduleChangeRequest{Field: domain.FieldPickupDate, Value: "2025-01-01"},
			want: domain.ScheduleDTO{PickupDate: "2025-01-05", ETDMin: "2025-01-05", ETAMin: "2025-01-05"},
		},
		{
			name: "eta cannot precede etd",
			req:  domain.ScheduleChangeRequest{Field: domain.FieldETA, Value: "2025-01-07", ETD: "2025-01-09"},
			want: domain.ScheduleDTO{ETD: "2025-01-09", ETA: "2025-01-09", ETAMin: "2025-01-09"},
		},
		{
			name: "blank value leaves schedule",
			req:  domain.ScheduleChangeRequest{Field: domain.FieldETD, ETD: "2025-01-09"},
			want: domain.ScheduleDTO{ETD: "2025-01-09", ETAMin: "2025-01-09"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.jobOrders.Schedule(tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}

	t.Run("bad field", func(t *testing.T) {
		_, err := f.jobOrders.Schedule(domain.ScheduleChangeRequest{Field: "deliveryDate", Value: "2025-01-07"})
		_, ok := service.IsValidationError(err)
		assert.True(t, ok)
	})
}

func TestJobOrderService_FormAndValidate(t *testing.T) {
	f := newFixture(t)

	got, err := f.jobOrders.ReduceForm(domain.FormReduceRequest{
		Payload: domesticPayload("DOM-1"),
		Change:  domain.FormChange{Field: domain.FormOriginProvinceKey, Value: "cebu"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Cebu", got.OriginProvinceName)
	assert.Empty(t, got.OriginCity)

	_, err = f.jobOrders.ReduceForm(domain.FormReduceRequest{Change: domain.FormChange{Field: "status", Value: "Void"}})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	res := f.jobOrders.Validate(internationalPayload("INT-1"))
	assert.True(t, res.IsValid, "%v", res.Errors)

	p := internationalPayload("INT-1")
	p.ModeOfTransport = domain.ModeTruck
	res = f.jobOrders.Validate(p)
	assert.False(t, res.IsValid)
	assert.Contains(t, res.Errors, "modeOfTransport")
}
