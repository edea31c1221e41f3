package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pfes/joborder-api/internal/config"
	"github.com/pfes/joborder-api/internal/jobs"
	"github.com/pfes/joborder-api/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeArchiver struct {
	archived  int
	retention time.Duration
	err       error
}

func (f *fakeArchiver) ArchiveRegister(ctx context.Context) (*storage.Object, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.archived++
	return &storage.Object{Key: "registers/job-order-register-2025-01-20.xlsx", Size: 10}, nil
}

func (f *fakeArchiver) PruneArchives(ctx context.Context, retention time.Duration) (int, error) {
	f.retention = retention
	return 2, nil
}

type fakeScanner struct{ calls int }

func (f *fakeScanner) ScanOverdue(ctx context.Context) (int, error) {
	f.calls++
	return 3, nil
}

type fakePurger struct{ retention time.Duration }

func (f *fakePurger) Purge(ctx context.Context, retention time.Duration) (int64, error) {
	f.retention = retention
	return 5, nil
}

func TestScheduler(t *testing.T) {
	logger := zap.NewNop()

	t.Run("add and remove", func(t *testing.T) {
		s := jobs.NewScheduler(logger, time.Minute)
		noop := func(ctx context.Context) error { return nil }

		require.NoError(t, s.AddJob("b", "0 0 1 * * *", noop))
		require.NoError(t, s.AddJob("a", "@every 1h", noop))
		assert.Equal(t, []string{"a", "b"}, s.JobNames())

		assert.Error(t, s.AddJob("a", "@every 1h", noop))
		require.NoError(t, s.RemoveJob("a"))
		assert.Error(t, s.RemoveJob("a"))
		assert.Equal(t, []string{"b"}, s.JobNames())
	})

	t.Run("invalid cron expression", func(t *testing.T) {
		s := jobs.NewScheduler(logger, time.Minute)
		err := s.AddJob("bad", "0 0 1 * *", func(ctx context.Context) error { return nil })
		assert.Error(t, err)
		assert.Empty(t, s.JobNames())
	})

	t.Run("run now applies timeout", func(t *testing.T) {
		s := jobs.NewScheduler(logger, time.Minute)
		var deadline bool
		s.RunNow("probe", func(ctx context.Context) error {
			_, deadline = ctx.Deadline()
			return errors.New("logged, not returned")
		})
		assert.True(t, deadline)
	})

	t.Run("start and stop", func(t *testing.T) {
		s := jobs.NewScheduler(logger, time.Minute)
		s.Start()
		ctx := s.Stop()
		select {
		case <-ctx.Done():
		case <-time.After(time.Second):
			t.Fatal("scheduler did not stop")
		}
	})
}

func TestHousekeepingTasks(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	t.Run("export archives then prunes", func(t *testing.T) {
		archiver := &fakeArchiver{}
		err := jobs.ExportTask(archiver, 48*time.Hour, logger)(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, archiver.archived)
		assert.Equal(t, 48*time.Hour, archiver.retention)
	})

	t.Run("export failure stops before pruning", func(t *testing.T) {
		archiver := &fakeArchiver{err: errors.New("storage down")}
		err := jobs.ExportTask(archiver, time.Hour, logger)(ctx)
		assert.Error(t, err)
		assert.Zero(t, archiver.retention)
	})

	t.Run("overdue scan", func(t *testing.T) {
		scanner := &fakeScanner{}
		require.NoError(t, jobs.OverdueTask(scanner, logger)(ctx))
		assert.Equal(t, 1, scanner.calls)
	})

	t.Run("purge", func(t *testing.T) {
		purger := &fakePurger{}
		require.NoError(t, jobs.PurgeTask(purger, 24*time.Hour, logger)(ctx))
		assert.Equal(t, 24*time.Hour, purger.retention)
	})
}

func TestRegisterHousekeeping(t *testing.T) {
	logger := zap.NewNop()
	cfg := &config.JobsConfig{
		Enabled:             true,
		ExportCron:          "0 0 1 * * *",
		OverdueCron:         "0 0 7 * * *",
		PurgeCron:           "",
		ExportRetentionDays: 30,
		AuditRetentionDays:  365,
	}

	t.Run("blank cron disables job", func(t *testing.T) {
		s := jobs.NewScheduler(logger, time.Minute)
		err := jobs.RegisterHousekeeping(s, cfg, &fakeArchiver{}, &fakeScanner{}, &fakePurger{}, logger)
		require.NoError(t, err)
		assert.Equal(t, []string{jobs.OverdueJobName, jobs.ExportJobName}, s.JobNames())
	})

	t.Run("no archive storage", func(t *testing.T) {
		s := jobs.NewScheduler(logger, time.Minute)
		err := jobs.RegisterHousekeeping(s, cfg, nil, &fakeScanner{}, nil, logger)
		require.NoError(t, err)
		assert.Equal(t, []string{jobs.OverdueJobName}, s.JobNames())
	})
}
