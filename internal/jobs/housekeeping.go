package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/pfes/joborder-api/internal/config"
	"github.com/pfes/joborder-api/internal/storage"
	"go.uber.org/zap"
)

const (
	ExportJobName  = "register_export"
	OverdueJobName = "overdue_scan"
	PurgeJobName   = "audit_purge"
)

// RegisterArchiver is implemented by service.ExportService
type RegisterArchiver interface {
	ArchiveRegister(ctx context.Context) (*storage.Object, error)
	PruneArchives(ctx context.Context, retention time.Duration) (int, error)
}

// OverdueScanner is implemented by service.ReportService
type OverdueScanner interface {
	ScanOverdue(ctx context.Context) (int, error)
}

// AuditPurger is implemented by service.AuditLogService
type AuditPurger interface {
	Purge(ctx context.Context, retention time.Duration) (int64, error)
}

// ExportTask archives today's register, then drops archives past retention
func ExportTask(archiver RegisterArchiver, retention time.Duration, logger *zap.Logger) Task {
	return func(ctx context.Context) error {
		obj, err := archiver.ArchiveRegister(ctx)
		if err != nil {
			return fmt.Errorf("failed to archive register: %w", err)
		}
		removed, err := archiver.PruneArchives(ctx, retention)
		if err != nil {
			return fmt.Errorf("failed to prune archives: %w", err)
		}
		logger.Info("register export finished",
			zap.String("key", obj.Key),
			zap.Int64("size", obj.Size),
			zap.Int("pruned", removed))
		return nil
	}
}

// OverdueTask logs open job orders past their ETA
func OverdueTask(scanner OverdueScanner, logger *zap.Logger) Task {
	return func(ctx context.Context) error {
		count, err := scanner.ScanOverdue(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			logger.Warn("overdue job orders found", zap.Int("count", count))
		}
		return nil
	}
}

// PurgeTask deletes audit entries older than retention
func PurgeTask(purger AuditPurger, retention time.Duration, logger *zap.Logger) Task {
	return func(ctx context.Context) error {
		deleted, err := purger.Purge(ctx, retention)
		if err != nil {
			return fmt.Errorf("failed to purge audit log: %w", err)
		}
		logger.Info("audit purge finished", zap.Int64("deleted", deleted))
		return nil
	}
}

// RegisterHousekeeping adds every configured job to the scheduler. The export
// job is skipped when archiver is nil and blank cron expressions disable a job.
func RegisterHousekeeping(s *Scheduler, cfg *config.JobsConfig, archiver RegisterArchiver, scanner OverdueScanner, purger AuditPurger, logger *zap.Logger) error {
	if archiver != nil && cfg.ExportCron != "" {
		if err := s.AddJob(ExportJobName, cfg.ExportCron, ExportTask(archiver, cfg.ExportRetention(), logger)); err != nil {
			return err
		}
	}
	if scanner != nil && cfg.OverdueCron != "" {
		if err := s.AddJob(OverdueJobName, cfg.OverdueCron, OverdueTask(scanner, logger)); err != nil {
			return err
		}
	}
	if purger != nil && cfg.PurgeCron != "" {
		if err := s.AddJob(PurgeJobName, cfg.PurgeCron, PurgeTask(purger, cfg.AuditRetention(), logger)); err != nil {
			return err
		}
	}
	return nil
}
