package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-ConciergeService/internal/config"
	bookingRepo "github.com/m04kA/SMC-ConciergeService/internal/infra/storage/booking"
	providerRepo "github.com/m04kA/SMC-ConciergeService/internal/infra/storage/provider"
	settingsRepo "github.com/m04kA/SMC-ConciergeService/internal/infra/storage/settings"
	slotRepo "github.com/m04kA/SMC-ConciergeService/internal/infra/storage/slot"
	taskRepo "github.com/m04kA/SMC-ConciergeService/internal/infra/storage/task"
	"github.com/m04kA/SMC-ConciergeService/internal/integrations/pricing"
	availabilityService "github.com/m04kA/SMC-ConciergeService/internal/service/availability"
	bookingsService "github.com/m04kA/SMC-ConciergeService/internal/service/bookings"
	settingsService "github.com/m04kA/SMC-ConciergeService/internal/service/settings"
	slotsService "github.com/m04kA/SMC-ConciergeService/internal/service/slots"
	tasksService "github.com/m04kA/SMC-ConciergeService/internal/service/tasks"
	"github.com/m04kA/SMC-ConciergeService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ConciergeService/pkg/logger"
	"github.com/m04kA/SMC-ConciergeService/pkg/metrics"
	"github.com/m04kA/SMC-ConciergeService/pkg/txmanager"
)

// app общие зависимости всех команд
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	db      *sql.DB
	dbm     *dbmetrics.DB
	metrics *metrics.Metrics
	stopCh  chan struct{}

	txManager *txmanager.TransactionManager
	prices    *pricing.Table

	slotRepository     *slotRepo.Repository
	bookingRepository  *bookingRepo.Repository
	taskRepository     *taskRepo.Repository
	providerRepository *providerRepo.Repository
	settingsRepository *settingsRepo.Repository

	availability *availabilityService.Service
	slots        *slotsService.Service
	settings     *settingsService.Service
	bookings     *bookingsService.Service
	tasks        *tasksService.Service
}

// newApp загружает конфигурацию, подключается к базе и собирает сервисы.
// Метрики регистрируются только для долгоживущего процесса (serve).
func newApp(configPath string, withMetrics bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log.Info("Configuration loaded from %s", configPath)

	a := &app{cfg: cfg, log: log, stopCh: make(chan struct{})}

	if withMetrics && cfg.Metrics.Enabled {
		a.metrics = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		log.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	a.db = db
	a.dbm = dbmetrics.WrapWithDefault(db, a.metrics, a.stopCh)
	a.txManager = txmanager.NewTransactionManager(a.dbm)
	a.prices = pricing.NewTable(cfg.PricingProcedures())
	log.Info("Pricing table loaded: %d procedures", a.prices.Len())

	a.slotRepository = slotRepo.NewRepository(a.dbm)
	a.bookingRepository = bookingRepo.NewRepository(a.dbm)
	a.taskRepository = taskRepo.NewRepository(a.dbm)
	a.providerRepository = providerRepo.NewRepository(a.dbm)
	a.settingsRepository = settingsRepo.NewRepository(a.dbm)

	a.availability = availabilityService.NewService(
		a.slotRepository,
		a.providerRepository,
		a.metrics,
		*cfg.Scheduling.RecomputeOnWrite,
		log,
	)
	a.slots = slotsService.NewService(
		a.slotRepository,
		a.providerRepository,
		a.availability,
		a.txManager,
		a.metrics,
		log,
	)
	a.settings = settingsService.NewService(
		a.settingsRepository,
		a.providerRepository,
		cfg.SlotDefaults(),
		log,
	)
	a.bookings = bookingsService.NewService(a.bookingRepository, a.taskRepository, log)
	a.tasks = tasksService.NewService(a.taskRepository, a.bookingRepository, a.metrics, log)

	return a, nil
}

// Close останавливает сбор метрик пула и закрывает соединения
func (a *app) Close() {
	close(a.stopCh)
	if err := a.db.Close(); err != nil {
		a.log.Error("Failed to close database: %v", err)
	}
	a.log.Close()
}
