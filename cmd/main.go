package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"

	acceptBookingHandler "github.com/m04kA/SMC-MarketplaceService/internal/api/handlers/accept_booking"
	checkExistingBookingsHandler "github.com/m04kA/SMC-MarketplaceService/internal/api/handlers/check_existing_bookings"
	createBookingHandler "github.com/m04kA/SMC-MarketplaceService/internal/api/handlers/create_booking"
	createDateExceptionHandler "github.com/m04kA/SMC-MarketplaceService/internal/api/handlers/create_date_exception"
	deleteDateExceptionHandler "github.com/m04kA/SMC-MarketplaceService/internal/api/handlers/delete_date_exception"
	getAvailableSlotsHandler "github.com/m04kA/SMC-MarketplaceService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-MarketplaceService/internal/api/handlers/get_booking"
	setWeeklyHoursHandler "github.com/m04kA/SMC-MarketplaceService/internal/api/handlers/set_weekly_hours"
	updateBookingStatusHandler "github.com/m04kA/SMC-MarketplaceService/internal/api/handlers/update_booking_status"
	walletTopUpHandler "github.com/m04kA/SMC-MarketplaceService/internal/api/handlers/wallet_top_up"
	"github.com/m04kA/SMC-MarketplaceService/internal/api/middleware"
	"github.com/m04kA/SMC-MarketplaceService/internal/config"
	"github.com/m04kA/SMC-MarketplaceService/internal/infra/lock"
	bookingRepo "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/booking"
	businessRepo "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/business"
	catalogRepo "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/catalog"
	scheduleRepo "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/schedule"
	settlementRepo "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/settlement"
	bookingsService "github.com/m04kA/SMC-MarketplaceService/internal/service/bookings"
	scheduleService "github.com/m04kA/SMC-MarketplaceService/internal/service/schedule"
	walletService "github.com/m04kA/SMC-MarketplaceService/internal/service/wallet"
	"github.com/m04kA/SMC-MarketplaceService/internal/timezone"
	createBookingUC "github.com/m04kA/SMC-MarketplaceService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-MarketplaceService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-MarketplaceService/pkg/dbmetrics"
	"github.com/m04kA/SMC-MarketplaceService/pkg/logger"
	"github.com/m04kA/SMC-MarketplaceService/pkg/metrics"
	"github.com/m04kA/SMC-MarketplaceService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-MarketplaceService...")

	// Метрики (nil, если выключены: все методы записи безопасны для nil)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := db.PingContext(pingCtx); err != nil {
		pingCancel()
		log.Fatal("Failed to ping database: %v", err)
	}
	pingCancel()
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	businessRepository := businessRepo.NewRepository(wrappedDB)
	catalogRepository := catalogRepo.NewRepository(wrappedDB)
	scheduleRepository := scheduleRepo.NewRepository(wrappedDB)
	settlementRepository := settlementRepo.NewRepository(bookingRepository, businessRepository, txMgr)

	locations, err := timezone.NewResolver(cfg.Booking.DefaultTimezone)
	if err != nil {
		log.Fatal("Failed to load default timezone %s: %v", cfg.Booking.DefaultTimezone, err)
	}

	// Блокировка слотов: Redis, если доступен, иначе полагаемся только на транзакцию
	var slotLocker createBookingUC.SlotLocker = lock.NewNoopLock()
	if cfg.Redis.Enabled {
		redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisClient, err := lock.NewRedisClient(redisCtx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		redisCancel()
		if err != nil {
			log.Warn("Redis unavailable, slot locking disabled: %v", err)
		} else {
			defer redisClient.Close()
			slotLocker = lock.NewRedisLock(redisClient)
			log.Info("Slot locking via Redis at %s (ttl=%s)", cfg.Redis.Addr, cfg.Redis.LockTTL())
		}
	}

	// Сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		businessRepository,
		catalogRepository,
		settlementRepository,
		metricsCollector,
		log,
	)
	scheduleSvc := scheduleService.NewService(
		businessRepository,
		scheduleRepository,
		bookingRepository,
		locations,
		log,
	)
	walletSvc := walletService.NewService(settlementRepository, cfg.Admin.UserIDs, metricsCollector, log)

	// Use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		businessRepository,
		catalogRepository,
		settlementRepository,
		slotLocker,
		cfg.Redis.LockTTL(),
		metricsCollector,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		businessRepository,
		catalogRepository,
		scheduleRepository,
		bookingRepository,
		locations,
		metricsCollector,
		cfg.Booking.SlotCadenceMinutes,
		log,
	)

	// Handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	acceptBooking := acceptBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	checkExistingBookings := checkExistingBookingsHandler.NewHandler(scheduleSvc, log)
	setWeeklyHours := setWeeklyHoursHandler.NewHandler(scheduleSvc, log)
	createDateException := createDateExceptionHandler.NewHandler(scheduleSvc, log)
	deleteDateException := deleteDateExceptionHandler.NewHandler(scheduleSvc, log)
	walletTopUp := walletTopUpHandler.NewHandler(walletSvc, log)

	// Роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, metricsCollector.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES
	// ============================================================

	api.HandleFunc("/businesses/{businessId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	var createBookingRoute http.Handler = http.HandlerFunc(createBooking.Handle)
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		createBookingRoute = limiter.Middleware(createBookingRoute)
		log.Info("Rate limit on POST /bookings: %.2f rps, burst %d",
			cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}
	protected.Handle("/bookings", createBookingRoute).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/accept", acceptBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)

	// --- Управление бизнесом (для владельцев) ---
	protected.HandleFunc("/businesses/{businessId}/bookings/count", checkExistingBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/businesses/{businessId}/weekly-hours/{dayOfWeek}", setWeeklyHours.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/businesses/{businessId}/exceptions", createDateException.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/businesses/{businessId}/exceptions/{exceptionId}", deleteDateException.Handle).Methods(http.MethodDelete)

	// --- Кошелек (для администраторов платформы) ---
	protected.HandleFunc("/businesses/{businessId}/wallet/top-ups", walletTopUp.Handle).Methods(http.MethodPost)

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
