package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	createSlotHandler "github.com/m04kA/SMC-ConciergeService/internal/api/handlers/create_slot"
	deleteSlotHandler "github.com/m04kA/SMC-ConciergeService/internal/api/handlers/delete_slot"
	getBookableWindowsHandler "github.com/m04kA/SMC-ConciergeService/internal/api/handlers/get_bookable_windows"
	getBookingHandler "github.com/m04kA/SMC-ConciergeService/internal/api/handlers/get_booking"
	getProviderSettingsHandler "github.com/m04kA/SMC-ConciergeService/internal/api/handlers/get_provider_settings"
	getUserBookingsHandler "github.com/m04kA/SMC-ConciergeService/internal/api/handlers/get_user_bookings"
	listResourcesHandler "github.com/m04kA/SMC-ConciergeService/internal/api/handlers/list_resources"
	listSlotsHandler "github.com/m04kA/SMC-ConciergeService/internal/api/handlers/list_slots"
	rankProvidersHandler "github.com/m04kA/SMC-ConciergeService/internal/api/handlers/rank_providers"
	reserveBookingHandler "github.com/m04kA/SMC-ConciergeService/internal/api/handlers/reserve_booking"
	updateProviderSettingsHandler "github.com/m04kA/SMC-ConciergeService/internal/api/handlers/update_provider_settings"
	updateSlotHandler "github.com/m04kA/SMC-ConciergeService/internal/api/handlers/update_slot"
	"github.com/m04kA/SMC-ConciergeService/internal/api/middleware"
	getBookableWindowsUC "github.com/m04kA/SMC-ConciergeService/internal/usecase/get_bookable_windows"
	rankProvidersUC "github.com/m04kA/SMC-ConciergeService/internal/usecase/rank_providers"
	reserveBookingUC "github.com/m04kA/SMC-ConciergeService/internal/usecase/reserve_booking"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server and background jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(configPath, true)
			if err != nil {
				return err
			}
			defer a.Close()
			return runServer(a)
		},
	}
}

func runServer(a *app) error {
	cfg, log := a.cfg, a.log
	log.Info("Starting SMC-ConciergeService...")

	fallbackTimes, err := cfg.FallbackTimes()
	if err != nil {
		return err
	}

	// Use cases
	getBookableWindowsUseCase := getBookableWindowsUC.NewUseCase(
		a.slotRepository,
		a.providerRepository,
		a.settings,
		getBookableWindowsUC.FallbackConfig{Days: cfg.Scheduling.FallbackDays, Times: fallbackTimes},
		log,
	)
	rankProvidersUseCase := rankProvidersUC.NewUseCase(
		a.providerRepository,
		a.availability,
		rankProvidersUC.Config{
			BandPercent:        *cfg.Ranking.ConciergeBandPercent,
			MaxParallelLookups: cfg.Ranking.MaxParallelLookups,
		},
		log,
	)
	reserveBookingUseCase := reserveBookingUC.NewUseCase(
		a.bookingRepository,
		a.slotRepository,
		a.providerRepository,
		a.prices,
		a.settings,
		a.tasks,
		a.availability,
		a.txManager,
		a.metrics,
		log,
	)

	// Handlers
	listSlots := listSlotsHandler.NewHandler(a.slots, log)
	createSlot := createSlotHandler.NewHandler(a.slots, log)
	updateSlot := updateSlotHandler.NewHandler(a.slots, log)
	deleteSlot := deleteSlotHandler.NewHandler(a.slots, log)
	listResources := listResourcesHandler.NewHandler(a.slots, log)
	getBookableWindows := getBookableWindowsHandler.NewHandler(getBookableWindowsUseCase, log)
	rankProviders := rankProvidersHandler.NewHandler(rankProvidersUseCase, log)
	reserveBooking := reserveBookingHandler.NewHandler(reserveBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(a.bookings, log)
	getUserBookings := getUserBookingsHandler.NewHandler(a.bookings, log)
	getProviderSettings := getProviderSettingsHandler.NewHandler(a.settings, log)
	updateProviderSettings := updateProviderSettingsHandler.NewHandler(a.settings, log)

	r := mux.NewRouter()
	r.Use(middleware.RequestID, middleware.Recovery(log))

	if a.metrics != nil {
		r.Use(middleware.MetricsMiddleware(a.metrics))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (X-User-ID опционален, только для логов)
	// ============================================================

	public := api.PathPrefix("").Subrouter()
	public.Use(middleware.OptionalAuth)

	public.HandleFunc("/providers/{providerId}/bookable-windows", getBookableWindows.Handle).Methods(http.MethodGet)
	public.HandleFunc("/procedures/{slug}/providers", rankProviders.Handle).Methods(http.MethodGet)
	public.HandleFunc("/providers/{providerId}/settings", getProviderSettings.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Календарь провайдера ---
	protected.HandleFunc("/providers/{providerId}/slots", listSlots.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/providers/{providerId}/slots", createSlot.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/providers/{providerId}/resources", listResources.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/slots/{slotId}", updateSlot.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/slots/{slotId}", deleteSlot.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/providers/{providerId}/settings", updateProviderSettings.Handle).Methods(http.MethodPut)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", reserveBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// Фоновые задачи
	scheduler, err := newScheduler(a)
	if err != nil {
		return err
	}
	if scheduler != nil {
		scheduler.Start()
		log.Info("Background jobs scheduled (reconcile=%q, sync=%q)",
			cfg.Jobs.ReconcileTasksCron, cfg.Jobs.SyncAvailabilityCron)
	}

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	log.Info("Shutting down server...")

	if scheduler != nil {
		// Ждём завершения запущенных задач
		<-scheduler.Stop().Done()
		log.Info("Background jobs stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}
