package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pfes/joborder-api/internal/auth"
	"github.com/pfes/joborder-api/internal/config"
	"github.com/pfes/joborder-api/internal/domain"
	"github.com/pfes/joborder-api/internal/http/handler"
	"github.com/pfes/joborder-api/internal/http/middleware"
	"github.com/pfes/joborder-api/internal/http/router"
	"github.com/pfes/joborder-api/internal/reference"
	"github.com/pfes/joborder-api/internal/repository"
	"github.com/pfes/joborder-api/internal/service"
	"github.com/pfes/joborder-api/internal/storage"
	"github.com/pfes/joborder-api/internal/testutil"
	"github.com/pfes/joborder-api/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testPassword = "correct-horse-battery"

type testServer struct {
	handler http.Handler
	authz   *service.AuthService
	tokens  *auth.TokenManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := zap.NewNop()
	db := testutil.SetupTestDB(t)

	ref, err := reference.Load()
	require.NoError(t, err)
	st, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	cfg := &config.Config{
		App: config.AppConfig{Environment: "development"},
		RateLimit: config.RateLimitConfig{
			Enabled:               false,
			RequestsPerMinute:     1000,
			RequestsPerMinuteAuth: 1000,
			LoginPerMinute:        1000,
		},
		Security: config.SecurityConfig{ContentTypeNosniff: true, FrameOptions: "DENY"},
	}

	validator := validation.New(ref)
	tokens := auth.NewTokenManager("router-test-secret-that-is-long-enough", "joborder-test", time.Hour)

	jobOrderRepo := repository.NewJobOrderRepository(db)
	auditService := service.NewAuditLogService(repository.NewAuditLogRepository(db), log)
	jobOrderService := service.NewJobOrderService(jobOrderRepo, validator, ref, auditService, log, time.UTC)
	authService := service.NewAuthService(repository.NewUserRepository(db), tokens, auditService, log, 4)
	reportService := service.NewReportService(jobOrderRepo, log, time.UTC)
	exportService := service.NewExportService(jobOrderRepo, st, "registers", log, time.UTC)

	rt := router.NewRouter(cfg, log,
		auth.NewMiddleware(tokens, log),
		middleware.NewRateLimiter(&cfg.RateLimit, log),
		middleware.NewAuditMiddleware(nil, log),
		router.Handlers{
			Auth:      handler.NewAuthHandler(authService, validator, log),
			JobOrder:  handler.NewJobOrderHandler(jobOrderService, log),
			Report:    handler.NewReportHandler(reportService, exportService, time.UTC, log),
			Reference: handler.NewReferenceHandler(ref),
			Audit:     handler.NewAuditHandler(auditService, log),
			Health:    handler.NewHealthHandler(db, st, log),
		})

	return &testServer{handler: rt.Setup(), authz: authService, tokens: tokens}
}

// signIn creates an account with role and returns a bearer token for it
func (s *testServer) signIn(t *testing.T, role string) string {
	t.Helper()
	email := role + "@pfes.test"
	_, err := s.authz.CreateUser(context.Background(), "Test "+role, email, testPassword, role)
	require.NoError(t, err)

	rec := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": testPassword,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp domain.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			b, err := json.Marshal(body)
			require.NoError(t, err)
			raw = string(b)
		}
		req = httptest.NewRequest(method, path, strings.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func domesticPayload(number string) domain.JobOrderPayload {
	return domain.JobOrderPayload{
		JobOrderNumber:         number,
		Type:                   domain.VariantDomestic,
		ShipperConsignee:       "Acme Trading",
		ContactName:            "Maria Santos",
		ContactNumber:          "0917-555-0101",
		ContactEmail:           "maria@acme.ph",
		ModeOfTransport:        domain.ModeTruck,
		CommodityType:          "Dry goods",
		CommodityDescription:   "Rice sacks",
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

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	rec = s.do(t, http.MethodGet, "/health/db", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]interface{}](t, rec)
	assert.Equal(t, "healthy", body["status"])
}

func TestAuthRoutes(t *testing.T) {
	s := newTestServer(t)
	token := s.signIn(t, domain.RoleSales)

	t.Run("me", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		user := decode[domain.UserDTO](t, rec)
		assert.Equal(t, "sales@pfes.test", user.Email)
		assert.Equal(t, domain.RoleSales, user.UserType)
	})

	t.Run("missing token", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/auth/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/job-orders", "not-a-token", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email":    "sales@pfes.test",
			"password": "wrong-password",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/v1/auth/login", "", `{"email":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing password", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "sales@pfes.test"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		apiErr := decode[domain.APIError](t, rec)
		assert.Contains(t, apiErr.Errors, "password")
	})
}

func TestJobOrderLifecycle(t *testing.T) {
	s := newTestServer(t)
	sales := s.signIn(t, domain.RoleSales)
	ops := s.signIn(t, domain.RoleOperations)
	admin := s.signIn(t, domain.RoleAdmin)

	t.Run("create", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/v1/job-orders", sales, domesticPayload("DOM-100"))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, "/api/v1/job-orders/DOM-100", rec.Header().Get("Location"))

		jo := decode[domain.JobOrderDTO](t, rec)
		assert.Equal(t, "Test sales", jo.Associate)
		assert.Equal(t, "Laguna", jo.Origin.ProvinceName)
		assert.True(t, jo.AllowedActions.Has(domain.ActionEdit))
	})

	t.Run("duplicate number", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/v1/job-orders", sales, domesticPayload("DOM-100"))
		require.Equal(t, http.StatusConflict, rec.Code)
		apiErr := decode[domain.APIError](t, rec)
		assert.Equal(t, service.DuplicateJobOrderMessage, apiErr.Errors["jobOrderNumber"])
	})

	t.Run("operations cannot create", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/v1/job-orders", ops, domesticPayload("DOM-101"))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("field errors", func(t *testing.T) {
		p := domesticPayload("DOM-102")
		p.ContactEmail = "not-an-email"
		p.ETA = "2025-01-01"
		rec := s.do(t, http.MethodPost, "/api/v1/job-orders", sales, p)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		apiErr := decode[domain.APIError](t, rec)
		assert.Equal(t, domain.ErrorTypeValidation, apiErr.Type)
		assert.Contains(t, apiErr.Errors, "contactEmail")
		assert.Contains(t, apiErr.Errors, "eta")
	})

	t.Run("unknown field", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/v1/job-orders", sales, `{"jobOrderNumber":"X","surprise":true}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("get and list", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/job-orders/DOM-100", ops, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		jo := decode[domain.JobOrderDTO](t, rec)
		assert.Equal(t, domain.ActionSet{domain.ActionView, domain.ActionUpdateOperations}, jo.AllowedActions)

		rec = s.do(t, http.MethodGet, "/api/v1/job-orders?type=Domestic&mine=true", sales, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		page := decode[domain.PaginatedResponse](t, rec)
		assert.EqualValues(t, 1, page.Total)

		rec = s.do(t, http.MethodGet, "/api/v1/job-orders?mine=true", ops, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		page = decode[domain.PaginatedResponse](t, rec)
		assert.EqualValues(t, 0, page.Total)
	})

	t.Run("bad list filters", func(t *testing.T) {
		for _, q := range []string{"type=Local", "status=Done", "sortBy=number"} {
			rec := s.do(t, http.MethodGet, "/api/v1/job-orders?"+q, sales, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code, q)
		}
	})

	t.Run("missing job order", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/job-orders/NOPE", sales, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("sales cannot update operations", func(t *testing.T) {
		rec := s.do(t, http.MethodPut, "/api/v1/job-orders/DOM-100/operations", sales,
			map[string]interface{}{"unloading": map[string]string{"status": "Finished"}})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("complete before unloading", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/v1/job-orders/DOM-100/complete", sales, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("operations then completion", func(t *testing.T) {
		rec := s.do(t, http.MethodPut, "/api/v1/job-orders/DOM-100/operations", ops,
			map[string]interface{}{"unloading": map[string]string{"status": "Finished", "remarks": "Delivered"}})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		jo := decode[domain.JobOrderDTO](t, rec)
		assert.True(t, jo.Operations.Unloading.IsFinished)
		assert.Equal(t, domain.StagePending, jo.Operations.Loading.Status)

		rec = s.do(t, http.MethodPost, "/api/v1/job-orders/DOM-100/complete", sales,
			map[string]string{"remarks": "Signed by consignee"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		jo = decode[domain.JobOrderDTO](t, rec)
		assert.True(t, jo.IsCompleted)
		assert.Equal(t, "Signed by consignee", jo.CompletionRemarks)
		assert.Equal(t, domain.ActionSet{domain.ActionView, domain.ActionCreate}, jo.AllowedActions)
	})

	t.Run("completed is read only", func(t *testing.T) {
		rec := s.do(t, http.MethodPut, "/api/v1/job-orders/DOM-100", sales, domesticPayload("DOM-100"))
		assert.Equal(t, http.StatusConflict, rec.Code)

		rec = s.do(t, http.MethodPost, "/api/v1/job-orders/DOM-100/complete", sales, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("delete", func(t *testing.T) {
		rec := s.do(t, http.MethodDelete, "/api/v1/job-orders/DOM-100", sales, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = s.do(t, http.MethodDelete, "/api/v1/job-orders/DOM-100", admin, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = s.do(t, http.MethodGet, "/api/v1/job-orders/DOM-100", admin, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("history", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/job-orders/DOM-100/history", sales, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = s.do(t, http.MethodGet, "/api/v1/job-orders/DOM-100/history", admin, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		logs := decode[[]domain.AuditLogDTO](t, rec)
		assert.Len(t, logs, 4)
		for _, entry := range logs {
			assert.NotEmpty(t, entry.RequestID)
		}
	})

	t.Run("audit list", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/audit?action=complete", admin, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		page := decode[domain.PaginatedResponse](t, rec)
		assert.EqualValues(t, 1, page.Total)

		rec = s.do(t, http.MethodGet, "/api/v1/audit?startTime=yesterday", admin, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = s.do(t, http.MethodGet, "/api/v1/audit", ops, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestFormHelpers(t *testing.T) {
	s := newTestServer(t)
	token := s.signIn(t, domain.RoleSales)

	t.Run("validate", func(t *testing.T) {
		p := domesticPayload("DOM-200")
		p.OriginCity = "Atlantis"
		rec := s.do(t, http.MethodPost, "/api/v1/job-orders/validate", token, p)
		require.Equal(t, http.StatusOK, rec.Code)
		res := decode[domain.ValidationResultDTO](t, rec)
		assert.False(t, res.IsValid)
		assert.Contains(t, res.Errors, "originCity")

		rec = s.do(t, http.MethodPost, "/api/v1/job-orders/validate", token, domesticPayload("DOM-200"))
		require.Equal(t, http.StatusOK, rec.Code)
		res = decode[domain.ValidationResultDTO](t, rec)
		assert.True(t, res.IsValid)
		assert.Empty(t, res.Errors)
	})

	t.Run("schedule rejects unknown field", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/v1/job-orders/schedule", token,
			map[string]string{"field": "deliveryDate", "value": "2025-01-10"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		apiErr := decode[domain.APIError](t, rec)
		assert.Contains(t, apiErr.Errors, "field")
	})
}

func TestReferenceRoutes(t *testing.T) {
	s := newTestServer(t)
	token := s.signIn(t, domain.RoleOperations)

	rec := s.do(t, http.MethodGet, "/api/v1/reference/provinces", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	provinces := decode[[]domain.ProvinceDTO](t, rec)
	assert.NotEmpty(t, provinces)

	rec = s.do(t, http.MethodGet, "/api/v1/reference/provinces/laguna/cities", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decode[[]string](t, rec), "Calamba")

	rec = s.do(t, http.MethodGet, "/api/v1/reference/provinces/atlantis/cities", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/reference/countries", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decode[[]string](t, rec), "Philippines")
}

func TestReportRoutes(t *testing.T) {
	s := newTestServer(t)
	sales := s.signIn(t, domain.RoleSales)
	admin := s.signIn(t, domain.RoleAdmin)

	rec := s.do(t, http.MethodPost, "/api/v1/job-orders", sales, domesticPayload("DOM-300"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	t.Run("statistics", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/job-orders/statistics", sales, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		stats := decode[domain.StatisticsDTO](t, rec)
		assert.EqualValues(t, 1, stats.Total)
		assert.EqualValues(t, 1, stats.ByVariant[domain.VariantDomestic])
	})

	t.Run("calendar", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/job-orders/calendar?from=2025-01-01&to=2025-01-31", sales, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		events := decode[[]domain.CalendarEventDTO](t, rec)
		assert.Len(t, events, 3)

		rec = s.do(t, http.MethodGet, "/api/v1/job-orders/calendar?from=2025-02-01&to=2025-01-01", sales, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("export", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/job-orders/export", sales, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, service.XLSXContentType, rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")
		assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))
	})

	t.Run("archives are admin only", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/job-orders/archives", sales, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = s.do(t, http.MethodGet, "/api/v1/job-orders/archives", admin, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, decode[[]handler.ArchiveDTO](t, rec))

		rec = s.do(t, http.MethodGet, "/api/v1/job-orders/archives/missing.xlsx", admin, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
