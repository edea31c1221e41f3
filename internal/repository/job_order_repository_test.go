package repository_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pfes/joborder-api/internal/domain"
	"github.com/pfes/joborder-api/internal/repository"
	"github.com/pfes/joborder-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupJobOrderRepo(t *testing.T) (*repository.JobOrderRepository, *gorm.DB) {
	db := testutil.SetupTestDB(t)
	return repository.NewJobOrderRepository(db), db
}

func TestJobOrderRepository_InsertAndFind(t *testing.T) {
	repo, _ := setupJobOrderRepo(t)
	ctx := context.Background()
	owner := uuid.New()

	jo := testutil.NewJobOrder(t, "DOM-0001", owner)
	require.NoError(t, repo.Insert(ctx, jo))
	assert.NotEqual(t, uuid.Nil, jo.ID)

	found, err := repo.FindByKey(ctx, "DOM-0001")
	require.NoError(t, err)
	assert.Equal(t, owner, found.UserID)
	assert.Equal(t, "Calamba", found.Origin.City)
	assert.Equal(t, "Dry goods", found.Commodity.Type)
	assert.Equal(t, domain.StagePending, found.Operations.Unloading.Status)
	require.NotNil(t, found.ETA)
	assert.Equal(t, "2025-01-14", domain.FormatDate(*found.ETA))
	assert.Equal(t, 1, found.Version)

	_, err = repo.FindByKey(ctx, "DOM-9999")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestJobOrderRepository_InsertDuplicate(t *testing.T) {
	repo, _ := setupJobOrderRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, testutil.NewJobOrder(t, "DOM-0001", uuid.New())))
	err := repo.Insert(ctx, testutil.NewJobOrder(t, "DOM-0001", uuid.New()))
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestJobOrderRepository_UpdateByKey(t *testing.T) {
	repo, _ := setupJobOrderRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, testutil.NewJobOrder(t, "DOM-0001", uuid.New())))

	t.Run("bumps version and persists zero values", func(t *testing.T) {
		jo, err := repo.FindByKey(ctx, "DOM-0001")
		require.NoError(t, err)

		jo.ShipperConsignee = "Renamed Trading"
		jo.Commodity.Type = ""
		jo.PickupDate = nil
		jo.Operations.Unloading.Status = domain.StageFinished

		require.NoError(t, repo.UpdateByKey(ctx, jo))
		assert.Equal(t, 2, jo.Version)

		reloaded, err := repo.FindByKey(ctx, "DOM-0001")
		require.NoError(t, err)
		assert.Equal(t, "Renamed Trading", reloaded.ShipperConsignee)
		assert.Empty(t, reloaded.Commodity.Type)
		assert.Nil(t, reloaded.PickupDate)
		assert.True(t, reloaded.UnloadingFinished())
		assert.Equal(t, 2, reloaded.Version)
	})

	t.Run("stale copy is rejected", func(t *testing.T) {
		first, err := repo.FindByKey(ctx, "DOM-0001")
		require.NoError(t, err)
		second, err := repo.FindByKey(ctx, "DOM-0001")
		require.NoError(t, err)

		first.Associate = "first writer"
		require.NoError(t, repo.UpdateByKey(ctx, first))

		second.Associate = "second writer"
		err = repo.UpdateByKey(ctx, second)
		assert.ErrorIs(t, err, repository.ErrVersionConflict)
		assert.Equal(t, first.Version-1, second.Version)

		reloaded, err := repo.FindByKey(ctx, "DOM-0001")
		require.NoError(t, err)
		assert.Equal(t, "first writer", reloaded.Associate)
	})

	t.Run("owner is never overwritten", func(t *testing.T) {
		jo, err := repo.FindByKey(ctx, "DOM-0001")
		require.NoError(t, err)
		owner := jo.UserID

		jo.UserID = uuid.New()
		require.NoError(t, repo.UpdateByKey(ctx, jo))

		reloaded, err := repo.FindByKey(ctx, "DOM-0001")
		require.NoError(t, err)
		assert.Equal(t, owner, reloaded.UserID)
	})

	t.Run("missing record", func(t *testing.T) {
		jo := testutil.NewJobOrder(t, "DOM-4040", uuid.New())
		assert.ErrorIs(t, repo.UpdateByKey(ctx, jo), gorm.ErrRecordNotFound)
	})
}

func TestJobOrderRepository_DeleteByKey(t *testing.T) {
	repo, _ := setupJobOrderRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, testutil.NewJobOrder(t, "DOM-0001", uuid.New())))
	require.NoError(t, repo.DeleteByKey(ctx, "DOM-0001"))

	_, err := repo.FindByKey(ctx, "DOM-0001")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, repo.DeleteByKey(ctx, "DOM-0001"), gorm.ErrRecordNotFound)
}

func TestJobOrderRepository_List(t *testing.T) {
	repo, _ := setupJobOrderRepo(t)
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()

	a := testutil.NewJobOrder(t, "DOM-0001", alice)
	a.Tags.Urgent = true
	b := testutil.NewJobOrder(t, "DOM-0002", bob)
	b.IsCompleted = true
	c := testutil.NewJobOrder(t, "INT-0001", alice)
	c.Variant = domain.VariantInternational
	c.ModeOfTransport = domain.ModeSea
	c.BLAWB = "MAEU-778812"
	c.ShipperConsignee = "Pacific Imports"
	c.Status = domain.StatusWaiting
	for _, jo := range []*domain.JobOrder{a, b, c} {
		require.NoError(t, repo.Insert(ctx, jo))
	}

	numbers := func(list []domain.JobOrder) []string {
		out := make([]string, 0, len(list))
		for _, jo := range list {
			out = append(out, jo.JobOrderNumber)
		}
		return out
	}

	international := domain.VariantInternational
	waiting := domain.StatusWaiting
	completed := true
	urgent := true

	tests := []struct {
		name   string
		filter *repository.JobOrderFilter
		want   []string
	}{
		{"variant", &repository.JobOrderFilter{Variant: &international}, []string{"INT-0001"}},
		{"status", &repository.JobOrderFilter{Status: &waiting}, []string{"INT-0001"}},
		{"completed", &repository.JobOrderFilter{Completed: &completed}, []string{"DOM-0002"}},
		{"owner", &repository.JobOrderFilter{OwnerID: &bob}, []string{"DOM-0002"}},
		{"urgent", &repository.JobOrderFilter{Urgent: &urgent}, []string{"DOM-0001"}},
		{"search by shipper", &repository.JobOrderFilter{Search: "pacific"}, []string{"INT-0001"}},
		{"search by bl", &repository.JobOrderFilter{Search: "maeu"}, []string{"INT-0001"}},
		{"search combined with owner", &repository.JobOrderFilter{Search: "dom", OwnerID: &alice}, []string{"DOM-0001"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, total, err := repo.List(ctx, tt.filter, 1, 20)
			require.NoError(t, err)
			assert.Equal(t, int64(len(tt.want)), total)
			assert.ElementsMatch(t, tt.want, numbers(list))
		})
	}

	t.Run("paging", func(t *testing.T) {
		list, total, err := repo.List(ctx, nil, 2, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, list, 1)
	})

	t.Run("find all sorted by eta", func(t *testing.T) {
		all, err := repo.FindAll(ctx, &repository.JobOrderFilter{SortBy: "eta"})
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})
}

func TestJobOrderRepository_ScheduleQueries(t *testing.T) {
	repo, _ := setupJobOrderRepo(t)
	ctx := context.Background()
	owner := uuid.New()

	early := testutil.NewJobOrder(t, "DOM-0001", owner)
	early.PickupDate = testutil.Day(t, "2025-01-02")
	early.ETD = testutil.Day(t, "2025-01-03")
	early.ETA = testutil.Day(t, "2025-01-04")

	late := testutil.NewJobOrder(t, "DOM-0002", owner)
	late.PickupDate = testutil.Day(t, "2025-02-01")
	late.ETD = testutil.Day(t, "2025-02-02")
	late.ETA = testutil.Day(t, "2025-02-05")

	done := testutil.NewJobOrder(t, "DOM-0003", owner)
	done.ETA = testutil.Day(t, "2025-01-05")
	done.IsCompleted = true

	void := testutil.NewJobOrder(t, "DOM-0004", owner)
	void.ETA = testutil.Day(t, "2025-01-05")
	void.Status = domain.StatusVoid

	for _, jo := range []*domain.JobOrder{early, late, done, void} {
		require.NoError(t, repo.Insert(ctx, jo))
	}

	t.Run("scheduled in range", func(t *testing.T) {
		list, err := repo.ListScheduled(ctx, *testutil.Day(t, "2025-01-31"), *testutil.Day(t, "2025-02-01"))
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "DOM-0002", list[0].JobOrderNumber)
	})

	t.Run("range bounds are inclusive", func(t *testing.T) {
		list, err := repo.ListScheduled(ctx, *testutil.Day(t, "2025-01-04"), *testutil.Day(t, "2025-01-04"))
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "DOM-0001", list[0].JobOrderNumber)
	})

	t.Run("overdue skips completed and void", func(t *testing.T) {
		list, err := repo.ListOverdue(ctx, *testutil.Day(t, "2025-01-20"))
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "DOM-0001", list[0].JobOrderNumber)
	})

	t.Run("statistics", func(t *testing.T) {
		stats, err := repo.Statistics(ctx, *testutil.Day(t, "2025-01-20"))
		require.NoError(t, err)
		assert.Equal(t, int64(4), stats.Total)
		assert.Equal(t, int64(1), stats.Completed)
		assert.Equal(t, int64(1), stats.Overdue)
		assert.Equal(t, int64(3), stats.ByStatus[string(domain.StatusOngoing)])
		assert.Equal(t, int64(1), stats.ByStatus[string(domain.StatusVoid)])
		assert.Equal(t, int64(4), stats.ByVariant[string(domain.VariantDomestic)])
		assert.Equal(t, int64(4), stats.ByMode[string(domain.ModeTruck)])
	})
}
