package main

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/m04kA/SMC-ConciergeService/pkg/logger"
)

const jobTimeout = 5 * time.Minute

// cronLogger адаптер logger.Logger к cron.Logger
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug("cron: %s %v", msg, keysAndValues)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error("cron: %s: %v %v", msg, err, keysAndValues)
}

// newScheduler планирует досоздание задач и пересчёт ближайших слотов.
// nil, если фоновые задачи выключены.
func newScheduler(a *app) (*cron.Cron, error) {
	if !a.cfg.Jobs.Enabled {
		return nil, nil
	}

	cl := cronLogger{log: a.log}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	if _, err := c.AddFunc(a.cfg.Jobs.ReconcileTasksCron, func() { runReconcileTasks(a) }); err != nil {
		return nil, fmt.Errorf("schedule task reconciliation: %w", err)
	}
	if _, err := c.AddFunc(a.cfg.Jobs.SyncAvailabilityCron, func() { runSyncAvailability(a) }); err != nil {
		return nil, fmt.Errorf("schedule availability sync: %w", err)
	}
	return c, nil
}

func runReconcileTasks(a *app) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	result, err := a.tasks.ReconcileMissing(ctx)
	if err != nil {
		a.log.Error("ReconcileTasksJob: %v", err)
		return
	}
	a.log.Info("ReconcileTasksJob: bookings=%d, created=%d, failed=%d", result.Bookings, result.Created, result.Failed)
}

func runSyncAvailability(a *app) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	result, err := a.availability.SyncAll(ctx)
	if err != nil {
		a.log.Error("SyncAvailabilityJob: %v", err)
		return
	}
	a.log.Info("SyncAvailabilityJob: providers=%d, updated=%d, failed=%d", result.Total, result.Updated, result.Failed)
}
