package workers

import (
	"context"
	"fmt"
	"time"

	"coursemate_backend/internal/logger"
	"coursemate_backend/internal/services"

	"github.com/robfig/cron/v3"
)

const (
	dueScanWorkerName = "due_scan"
	DefaultScanSpec   = "*/5 * * * *"
	scanTimeout       = 4 * time.Minute
)

// Scanner - то, что умеет пройтись по расписаниям всех пользователей
type Scanner interface {
	ScanAll(ctx context.Context) (*services.ScanSummary, error)
}

// DueScanWorker по расписанию cron отправляет уведомления о задачах,
// даже если клиент не открывал экран расписания
type DueScanWorker struct {
	scanner Scanner
	spec    string
	cron    *cron.Cron
}

func NewDueScanWorker(scanner Scanner, spec string, loc *time.Location) *DueScanWorker {
	if spec == "" {
		spec = DefaultScanSpec
	}
	if loc == nil {
		loc = time.UTC
	}
	return &DueScanWorker{
		scanner: scanner,
		spec:    spec,
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.Recover(cron.DiscardLogger), cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
	}
}

// Start регистрирует задачу и запускает планировщик. Останавливается вместе с ctx.
func (w *DueScanWorker) Start(ctx context.Context) error {
	if _, err := w.cron.AddFunc(w.spec, func() { w.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("invalid scan schedule %q: %w", w.spec, err)
	}
	w.cron.Start()
	logger.Info("Due scan worker started", "spec", w.spec)

	go func() {
		<-ctx.Done()
		<-w.cron.Stop().Done()
		logger.Info("Due scan worker stopped")
	}()
	return nil
}

// RunOnce - один проход сканирования
func (w *DueScanWorker) RunOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, scanTimeout)
	defer cancel()

	start := time.Now()
	summary, err := w.scanner.ScanAll(ctx)
	if err != nil {
		logger.WorkerLog(dueScanWorkerName, "scan_all", err)
		return
	}
	logger.WorkerLog(dueScanWorkerName, "scan_all", nil,
		"users", summary.Users,
		"failed_users", summary.Failed,
		"schedules", summary.Schedules,
		"dispatched", summary.Dispatched,
		"duration", time.Since(start),
	)
}
