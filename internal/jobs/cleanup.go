package jobs

import (
	"context"

	"go.uber.org/zap"

	"github.com/Spok95/showcase-judging/internal/admin"
	"github.com/Spok95/showcase-judging/internal/notify"
)

const CleanupJob = "storage_cleanup_dry_run"

type OrphanScanner interface {
	CleanupOrphans(ctx context.Context, dryRun bool) (*admin.CleanupReport, error)
}

// OrphanReport только ищет осиротевшие файлы и сообщает админам; удаление остаётся
// отдельным решением администратора через API.
func OrphanReport(scanner OrphanScanner, n notify.Notifier, log *zap.Logger) Job {
	return func(ctx context.Context) error {
		rep, err := scanner.CleanupOrphans(ctx, true)
		if err != nil {
			return err
		}
		if len(rep.Orphans) == 0 {
			return nil
		}
		log.Info("orphaned storage files found", zap.Int("count", len(rep.Orphans)), zap.String("size", rep.TotalSize))
		n.NotifyAdmins(ctx, "🧹 "+rep.Summary()+"\nPOST /admin/storage/cleanup?dry_run=false to remove them.")
		return nil
	}
}
