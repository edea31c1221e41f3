package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/pfes/joborder-api/internal/domain"
	"github.com/pfes/joborder-api/internal/repository"
	"github.com/pfes/joborder-api/internal/service"
	"github.com/pfes/joborder-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAuditLogService(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewAuditLogRepository(db)
	svc := service.NewAuditLogService(repo, zap.NewNop())

	ctx := service.WithRequestInfo(asUser(domain.RoleAdmin), service.RequestInfo{
		IPAddress: "10.0.0.7",
		UserAgent: "curl/8.5",
		RequestID: "req-123",
	})

	require.NoError(t, svc.Log(ctx, service.LogEntry{
		Action:     domain.AuditActionCreate,
		EntityType: service.EntityJobOrder,
		EntityKey:  "DOM-1",
		NewValues:  map[string]string{"status": "Ongoing"},
	}))
	require.NoError(t, svc.Log(ctx, service.LogEntry{
		Action:     domain.AuditActionDelete,
		EntityType: service.EntityJobOrder,
		EntityKey:  "DOM-1",
	}))
	require.NoError(t, svc.Log(context.Background(), service.LogEntry{
		Action:     domain.AuditActionUpdate,
		EntityType: service.EntityJobOrder,
		EntityKey:  "DOM-2",
	}))

	t.Run("entries carry user and request", func(t *testing.T) {
		history, err := svc.History(ctx, service.EntityJobOrder, "DOM-1", 0)
		require.NoError(t, err)
		require.Len(t, history, 2)

		var created domain.AuditLogDTO
		for _, h := range history {
			if h.Action == domain.AuditActionCreate {
				created = h
			}
		}
		assert.Equal(t, "admin@example.com", created.UserEmail)
		assert.Equal(t, "10.0.0.7", created.IPAddress)
		assert.Equal(t, "req-123", created.RequestID)
		assert.JSONEq(t, `{"status":"Ongoing"}`, created.NewValues)
	})

	t.Run("anonymous entries", func(t *testing.T) {
		history, err := svc.History(ctx, service.EntityJobOrder, "DOM-2", 10)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Empty(t, history[0].UserID)
	})

	t.Run("list with filter", func(t *testing.T) {
		action := domain.AuditActionDelete
		res, err := svc.List(ctx, &repository.AuditLogFilter{Action: &action}, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.Total)
		items := res.Data.([]domain.AuditLogDTO)
		assert.Equal(t, "DOM-1", items[0].EntityKey)
	})

	t.Run("purge", func(t *testing.T) {
		n, err := svc.Purge(ctx, time.Hour)
		require.NoError(t, err)
		assert.Zero(t, n)

		n, err = svc.Purge(ctx, 0)
		require.NoError(t, err)
		assert.Zero(t, n)

		later := service.NewAuditLogService(repo, zap.NewNop()).
			WithClock(func() time.Time { return time.Now().Add(48 * time.Hour) })
		n, err = later.Purge(ctx, 24*time.Hour)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})
}
