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

	"github.com/gorilla/mux"
	"github.com/hibiken/asynq"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelBookingHandler "github.com/m04kA/SMC-SalonBookingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-SalonBookingService/internal/api/handlers/create_booking"
	createPaymentIntentHandler "github.com/m04kA/SMC-SalonBookingService/internal/api/handlers/create_payment_intent"
	getAvailabilityHandler "github.com/m04kA/SMC-SalonBookingService/internal/api/handlers/get_availability"
	getBookingHandler "github.com/m04kA/SMC-SalonBookingService/internal/api/handlers/get_booking"
	getBookingAttemptHandler "github.com/m04kA/SMC-SalonBookingService/internal/api/handlers/get_booking_attempt"
	getBookingPolicyHandler "github.com/m04kA/SMC-SalonBookingService/internal/api/handlers/get_booking_policy"
	getBusinessBookingsHandler "github.com/m04kA/SMC-SalonBookingService/internal/api/handlers/get_business_bookings"
	joinWaitlistHandler "github.com/m04kA/SMC-SalonBookingService/internal/api/handlers/join_waitlist"
	listBookingPoliciesHandler "github.com/m04kA/SMC-SalonBookingService/internal/api/handlers/list_booking_policies"
	resetBookingPolicyHandler "github.com/m04kA/SMC-SalonBookingService/internal/api/handlers/reset_booking_policy"
	updateBookingPolicyHandler "github.com/m04kA/SMC-SalonBookingService/internal/api/handlers/update_booking_policy"
	"github.com/m04kA/SMC-SalonBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBookingService/internal/config"
	"github.com/m04kA/SMC-SalonBookingService/internal/infra/queue"
	attemptStore "github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/attempt"
	bookingRepo "github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/booking"
	policyRepo "github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/policy"
	waitlistRepo "github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/waitlist"
	catalogClient "github.com/m04kA/SMC-SalonBookingService/internal/integrations/catalog"
	"github.com/m04kA/SMC-SalonBookingService/internal/integrations/payments"
	bookingsService "github.com/m04kA/SMC-SalonBookingService/internal/service/bookings"
	policyService "github.com/m04kA/SMC-SalonBookingService/internal/service/policy"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/slots"
	createBookingUC "github.com/m04kA/SMC-SalonBookingService/internal/usecase/create_booking"
	createPaymentIntentUC "github.com/m04kA/SMC-SalonBookingService/internal/usecase/create_payment_intent"
	expireAttemptUC "github.com/m04kA/SMC-SalonBookingService/internal/usecase/expire_attempt"
	getAvailabilityUC "github.com/m04kA/SMC-SalonBookingService/internal/usecase/get_availability"
	getBookingAttemptUC "github.com/m04kA/SMC-SalonBookingService/internal/usecase/get_booking_attempt"
	joinWaitlistUC "github.com/m04kA/SMC-SalonBookingService/internal/usecase/join_waitlist"
	"github.com/m04kA/SMC-SalonBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBookingService/pkg/logger"
	"github.com/m04kA/SMC-SalonBookingService/pkg/metrics"
	"github.com/m04kA/SMC-SalonBookingService/pkg/txmanager"
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

	log.Info("Starting SMC-SalonBookingService...")
	log.Info("Configuration loaded from config.toml")

	// Метрики. При выключенных метриках коллекторы не регистрируются,
	// а nil *metrics.Metrics безопасно игнорирует вызовы.
	var (
		registry         *prometheus.Registry
		metricsCollector *metrics.Metrics
		queryMetrics     *dbmetrics.QueryMetrics
	)
	if cfg.Metrics.Enabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metricsCollector = metrics.New(cfg.Metrics.ServiceName, registry)
		queryMetrics = dbmetrics.NewQueryMetrics(cfg.Metrics.ServiceName, registry)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
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

	if registry != nil {
		registry.MustRegister(collectors.NewDBStatsCollector(db, cfg.Database.DBName))
	}

	var observer dbmetrics.QueryObserver
	if queryMetrics != nil {
		observer = queryMetrics
	}
	wrappedDB := dbmetrics.NewDB(db, observer)
	txMgr := txmanager.New(wrappedDB)

	// Redis: попытки бронирования и очередь истечения окна оплаты
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		cancelPing()
		log.Fatal("Failed to ping redis: %v", err)
	}
	cancelPing()
	log.Info("Successfully connected to redis (addr=%s, db=%d)", cfg.Redis.Addr, cfg.Redis.DB)

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	queueClient := asynq.NewClient(redisOpt)
	defer queueClient.Close()

	// Инициализируем интеграционных клиентов
	catalog := catalogClient.NewClient(
		cfg.Catalog.URL,
		time.Duration(cfg.Catalog.Timeout)*time.Second,
		log,
	)
	log.Info("Catalog client initialized (url=%s, timeout=%ds)", cfg.Catalog.URL, cfg.Catalog.Timeout)

	var gateway payments.Gateway
	switch cfg.Payments.Provider {
	case "stripe":
		gateway = payments.NewStripeGateway(cfg.Payments.StripeSecretKey, nil, log)
	default:
		gateway = payments.NewFakeGateway()
		log.Warn("Payments provider is fake, deposits are not charged")
	}
	log.Info("Payments provider: %s (currency=%s)", cfg.Payments.Provider, cfg.Payments.Currency)

	// Инициализируем хранилища
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	policyRepository := policyRepo.NewRepository(wrappedDB)
	waitlistRepository := waitlistRepo.NewRepository(wrappedDB)
	attempts := attemptStore.NewStore(redisClient, cfg.AttemptTTL())
	scheduler := queue.NewScheduler(queueClient, cfg.Queue.Name)

	// Инициализируем сервисы
	location := cfg.Location()
	policySvc := policyService.NewService(policyRepository, catalog, log)
	planner := slots.NewPlanner(catalog, bookingRepository, policySvc, location, log)
	bookingSvc := bookingsService.NewService(bookingRepository, catalog, gateway, attempts, location, log)

	// Инициализируем use cases
	weights := cfg.Risk.Weights()
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(planner, metricsCollector, log)
	createPaymentIntentUseCase := createPaymentIntentUC.NewUseCase(
		planner,
		bookingRepository,
		gateway,
		attempts,
		scheduler,
		weights,
		cfg.Payments.Currency,
		log,
	)
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		planner,
		attempts,
		gateway,
		txMgr,
		metricsCollector,
		weights,
		log,
	)
	joinWaitlistUseCase := joinWaitlistUC.NewUseCase(waitlistRepository, planner, log)
	getBookingAttemptUseCase := getBookingAttemptUC.NewUseCase(attempts, log)
	expireAttemptUseCase := expireAttemptUC.NewUseCase(attempts, gateway, metricsCollector, log)

	// Воркер очереди истечения окна оплаты
	var queueServer *asynq.Server
	if cfg.Queue.Enabled {
		queueServer = queue.NewServer(redisOpt, cfg.Queue.Name, cfg.Queue.Concurrency)
		if err := queueServer.Start(queue.NewServeMux(expireAttemptUseCase, log)); err != nil {
			log.Fatal("Failed to start queue worker: %v", err)
		}
		log.Info("Queue worker started (queue=%s, concurrency=%d)", cfg.Queue.Name, cfg.Queue.Concurrency)
	} else {
		log.Warn("Queue worker disabled, attempts expire only on commit")
	}

	// Инициализируем handlers
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	createPaymentIntent := createPaymentIntentHandler.NewHandler(createPaymentIntentUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	joinWaitlist := joinWaitlistHandler.NewHandler(joinWaitlistUseCase, log)
	getBookingAttempt := getBookingAttemptHandler.NewHandler(getBookingAttemptUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getBusinessBookings := getBusinessBookingsHandler.NewHandler(bookingSvc, log)
	getBookingPolicy := getBookingPolicyHandler.NewHandler(policySvc, log)
	updateBookingPolicy := updateBookingPolicyHandler.NewHandler(policySvc, log)
	resetBookingPolicy := resetBookingPolicyHandler.NewHandler(policySvc, log)
	listBookingPolicies := listBookingPoliciesHandler.NewHandler(policySvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Свободное время для записи
	api.HandleFunc("/businesses/{businessId}/services/{serviceId}/availability",
		getAvailability.Handle).Methods(http.MethodGet)

	// Состояние попытки бронирования с депозитом
	api.HandleFunc("/booking-attempts/{authorizationId}",
		getBookingAttempt.Handle).Methods(http.MethodGet)

	// Операции записи клиента ограничены по частоте
	writes := api.PathPrefix("").Subrouter()
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, log)
		writes.Use(limiter.Middleware)
		log.Info("Rate limit enabled (rps=%.1f, burst=%d)", cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	// Оценка риска и авторизация депозита
	writes.HandleFunc("/payment-intents", createPaymentIntent.Handle).Methods(http.MethodPost)

	// Создание бронирования
	writes.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Лист ожидания
	writes.HandleFunc("/waitlist", joinWaitlist.Handle).Methods(http.MethodPost)

	// ============================================================
	// OPTIONAL AUTH (клиент по email или менеджер по X-User-ID)
	// ============================================================

	optional := api.PathPrefix("").Subrouter()
	optional.Use(middleware.OptionalAuth)

	optional.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	optional.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Управление бизнесом (для менеджеров) ---
	protected.HandleFunc("/businesses/{businessId}/bookings", getBusinessBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/businesses/{businessId}/booking-policy", getBookingPolicy.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/businesses/{businessId}/booking-policy", updateBookingPolicy.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/businesses/{businessId}/booking-policy", resetBookingPolicy.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/businesses/{businessId}/booking-policies", listBookingPolicies.Handle).Methods(http.MethodGet)

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

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	if queueServer != nil {
		queueServer.Shutdown()
		log.Info("Queue worker stopped")
	}

	log.Info("Server stopped gracefully")
}
