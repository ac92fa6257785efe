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

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"

	createBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_booking"
	getAvailabilityHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_availability"
	getAvailableSlotsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_booking"
	getCalendarHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_calendar"
	getClientBookingsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_client_bookings"
	getDashboardHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_dashboard"
	getProfessionalBookingsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_professional_bookings"
	reviewEligibilityHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/review_eligibility"
	setAvailabilityHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/set_availability"
	transitionBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/transition_booking"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/config"
	"github.com/m04kA/SMC-AppointmentService/internal/events"
	availabilityRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/availability"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/memory"
	catalogClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/catalog"
	userServiceClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/userservice"
	"github.com/m04kA/SMC-AppointmentService/internal/lifecycle"
	availabilityService "github.com/m04kA/SMC-AppointmentService/internal/service/availability"
	bookingsService "github.com/m04kA/SMC-AppointmentService/internal/service/bookings"
	calendarService "github.com/m04kA/SMC-AppointmentService/internal/service/calendar"
	reviewsService "github.com/m04kA/SMC-AppointmentService/internal/service/reviews"
	"github.com/m04kA/SMC-AppointmentService/internal/slots"
	createBookingUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	transitionBookingUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/transition_booking"
	"github.com/m04kA/SMC-AppointmentService/pkg/clock"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/keylock"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/redislock"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

// bookingStore хранилище бронирований (PostgreSQL или память)
type bookingStore interface {
	createBookingUC.BookingRepository
	transitionBookingUC.BookingRepository
	getAvailableSlotsUC.BookingRepository
	bookingsService.BookingRepository
	calendarService.BookingRepository
	reviewsService.BookingRepository
}

// availabilityStore хранилище недельных расписаний
type availabilityStore interface {
	createBookingUC.AvailabilityRepository
	availabilityService.AvailabilityRepository
}

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

	log.Info("Starting SMC-AppointmentService...")
	log.Info("Configuration loaded from config.toml")
	log.Debug("Booking settings: timezone=%s, default_slot=%dm, min_notice=%dm, max_range=%dd, lock_wait=%dms, lock_ttl=%dms",
		cfg.Booking.Timezone, cfg.Booking.DefaultSlotMinutes, cfg.Booking.MinNoticeMinutes,
		cfg.Booking.MaxRangeDays, cfg.Booking.LockWaitMs, cfg.Booking.LockTTLMs)

	location, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Invalid booking timezone: %v", err)
	}

	// Метрики собираются всегда, наружу отдаются только если включены
	metricsCollector := metrics.New(cfg.Metrics.ServiceName)
	stopMetricsCh := make(chan struct{})

	// Инициализируем хранилища
	var (
		bookings     bookingStore
		availability availabilityStore
		txMgr        createBookingUC.TransactionManager
	)

	if cfg.Database.Enabled {
		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			log.Fatal("Failed to connect to database: %v", err)
		}
		defer db.Close()

		// Настраиваем connection pool
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

		if err := db.Ping(); err != nil {
			log.Fatal("Failed to ping database: %v", err)
		}
		log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

		if cfg.Metrics.Enabled {
			wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
			bookings = bookingRepo.NewRepository(wrappedDB)
			availability = availabilityRepo.NewRepository(wrappedDB)
			txMgr = txmanager.NewTransactionManager(wrappedDB)
			log.Info("Database metrics collection started")
		} else {
			bookings = bookingRepo.NewRepository(db)
			availability = availabilityRepo.NewRepository(db)
			txMgr = txmanager.NewTransactionManager(txmanager.SQLDB{DB: db})
		}
	} else {
		bookings = memory.NewBookingRepository(clock.Real{}.Now)
		availability = memory.NewAvailabilityRepository(clock.Real{}.Now)
		txMgr = txmanager.Noop{}
		log.Warn("Database disabled: using in-memory storage, data will be lost on restart")
	}

	// Блокировки расписания специалиста и публикация событий
	broker := events.NewBroker(log)
	defer broker.Close()
	publishers := events.Fanout{broker}

	var locker createBookingUC.Locker = keylock.New()
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to ping redis: %v", err)
		}

		locker = redislock.New(rdb, cfg.Redis.LockPrefix, cfg.Booking.LockTTL(), cfg.Booking.LockWait())
		publishers = append(publishers, events.NewRedisPublisher(rdb, cfg.Redis.EventsChannel))
		log.Info("Redis connected (addr=%s): distributed locks and event channel %s enabled",
			cfg.Redis.Addr, cfg.Redis.EventsChannel)
	} else {
		log.Info("Redis disabled: using in-process locks")
	}

	// Уведомления участникам читают события из брокера
	notifyCtx, stopNotifier := context.WithCancel(context.Background())
	defer stopNotifier()
	notifications, unsubscribe := broker.Subscribe(256)
	defer unsubscribe()
	go events.NewNotifier(log).Run(notifyCtx, notifications)

	// Инициализируем интеграционных клиентов
	userClient := userServiceClient.NewClient(
		cfg.UserService.URL,
		time.Duration(cfg.UserService.Timeout)*time.Second,
		log,
	)
	catalog := catalogClient.NewClient(
		cfg.CatalogService.URL,
		time.Duration(cfg.CatalogService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (UserService=%s timeout=%ds, CatalogService=%s timeout=%ds)",
		cfg.UserService.URL, cfg.UserService.Timeout, cfg.CatalogService.URL, cfg.CatalogService.Timeout)

	machine := lifecycle.New()
	generator := slots.NewGenerator(location, cfg.Booking.MinNotice(), cfg.Booking.MaxRangeDays)

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(bookings, machine, log)
	availabilitySvc := availabilityService.NewService(availability, userClient, log)
	calendarSvc := calendarService.NewService(bookings, location, clock.Real{}, log)
	reviewsSvc := reviewsService.NewService(bookings, clock.Real{}, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookings,
		availability,
		userClient,
		catalog,
		txMgr,
		locker,
		publishers,
		metricsCollector,
		location,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookings,
		availability,
		catalog,
		generator,
		metricsCollector,
		cfg.Booking.DefaultSlotMinutes,
		log,
	)

	transitionBookingUseCase := transitionBookingUC.NewUseCase(
		bookings,
		machine,
		publishers,
		metricsCollector,
		log,
	)

	// Инициализируем handlers
	getAvailability := getAvailabilityHandler.NewHandler(availabilitySvc, log)
	setAvailability := setAvailabilityHandler.NewHandler(availabilitySvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, location, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	transitionBooking := transitionBookingHandler.NewHandler(transitionBookingUseCase, log)
	getProfessionalBookings := getProfessionalBookingsHandler.NewHandler(bookingSvc, log)
	getClientBookings := getClientBookingsHandler.NewHandler(bookingSvc, log)
	getCalendar := getCalendarHandler.NewHandler(calendarSvc, location, log)
	getDashboard := getDashboardHandler.NewHandler(calendarSvc, location, log)
	reviewEligibility := reviewEligibilityHandler.NewHandler(reviewsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, metricsCollector.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(
			cfg.RateLimit.RequestsPerSecond,
			cfg.RateLimit.Burst,
			time.Duration(cfg.RateLimit.TTLSeconds)*time.Second,
		)
		api.Use(limiter.Middleware)
		log.Info("Rate limit enabled: %.1f rps, burst %d", cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Расписание специалиста и свободные слоты
	api.HandleFunc("/professionals/{professionalId}/availability",
		getAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/professionals/{professionalId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID и X-User-Role)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Расписание ---
	protected.HandleFunc("/professionals/{professionalId}/availability",
		setAvailability.Handle).Methods(http.MethodPut)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/status", transitionBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/clients/{clientId}/bookings", getClientBookings.Handle).Methods(http.MethodGet)

	// --- Отзывы ---
	protected.HandleFunc("/bookings/{bookingId}/review-eligibility",
		reviewEligibility.HandleEligibility).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/review",
		reviewEligibility.HandleMarkReviewed).Methods(http.MethodPost)

	// --- Кабинет специалиста ---
	protected.HandleFunc("/professionals/{professionalId}/bookings",
		getProfessionalBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/professionals/{professionalId}/calendar",
		getCalendar.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/professionals/{professionalId}/dashboard",
		getDashboard.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
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

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
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
