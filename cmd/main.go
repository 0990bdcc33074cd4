package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"

	cancelBookingHandler "github.com/m04kA/SMC-ExperienceBookingService/internal/api/handlers/cancel_booking"
	getBookingHandler "github.com/m04kA/SMC-ExperienceBookingService/internal/api/handlers/get_booking"
	getExperienceHandler "github.com/m04kA/SMC-ExperienceBookingService/internal/api/handlers/get_experience"
	healthHandler "github.com/m04kA/SMC-ExperienceBookingService/internal/api/handlers/health"
	listBookingsHandler "github.com/m04kA/SMC-ExperienceBookingService/internal/api/handlers/list_bookings"
	listExperiencesHandler "github.com/m04kA/SMC-ExperienceBookingService/internal/api/handlers/list_experiences"
	reserveSlotHandler "github.com/m04kA/SMC-ExperienceBookingService/internal/api/handlers/reserve_slot"
	validatePromoHandler "github.com/m04kA/SMC-ExperienceBookingService/internal/api/handlers/validate_promo"
	"github.com/m04kA/SMC-ExperienceBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ExperienceBookingService/internal/config"
	experienceCache "github.com/m04kA/SMC-ExperienceBookingService/internal/infra/cache/experience"
	bookingRepo "github.com/m04kA/SMC-ExperienceBookingService/internal/infra/storage/booking"
	experienceRepo "github.com/m04kA/SMC-ExperienceBookingService/internal/infra/storage/experience"
	slotRepo "github.com/m04kA/SMC-ExperienceBookingService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ExperienceBookingService/internal/integrations/events"
	bookingsService "github.com/m04kA/SMC-ExperienceBookingService/internal/service/bookings"
	catalogService "github.com/m04kA/SMC-ExperienceBookingService/internal/service/catalog"
	"github.com/m04kA/SMC-ExperienceBookingService/internal/service/pricing"
	"github.com/m04kA/SMC-ExperienceBookingService/internal/service/promo"
	getExperienceUC "github.com/m04kA/SMC-ExperienceBookingService/internal/usecase/get_experience"
	reserveSlotUC "github.com/m04kA/SMC-ExperienceBookingService/internal/usecase/reserve_slot"
	validatePromoUC "github.com/m04kA/SMC-ExperienceBookingService/internal/usecase/validate_promo"
	"github.com/m04kA/SMC-ExperienceBookingService/migrations"
	"github.com/m04kA/SMC-ExperienceBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ExperienceBookingService/pkg/logger"
	"github.com/m04kA/SMC-ExperienceBookingService/pkg/metrics"
	"github.com/m04kA/SMC-ExperienceBookingService/pkg/txmanager"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to TOML config")
	flag.Parse()

	// Загружаем конфигурацию
	cfg, err := config.Load(*configPath)
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

	log.Info("Starting SMC-ExperienceBookingService...")
	log.Info("Configuration loaded from %s", *configPath)

	// Метрики: при выключенных в компоненты уходит nil, наблюдения пропускаются
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

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if cfg.Database.AutoMigrate {
		if err := migrations.Up(db); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
		log.Info("Database migrations applied")
	}

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(
		wrappedDB,
		txmanager.WithRetry(cfg.Database.TxMaxAttempts, txmanager.DefaultBaseBackoff),
		txmanager.WithLogger(log),
	)

	// Репозитории
	experienceRepository := experienceRepo.NewRepository(wrappedDB)
	slotRepository := slotRepo.NewRepository(wrappedDB)
	bookingRepository := bookingRepo.NewRepository(wrappedDB)

	// Кэш каталога (Redis)
	var catalogCache catalogService.ExperienceCache
	if cfg.Cache.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Addr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			// Кэш необязателен: сервис работает напрямую с БД, пока Redis недоступен
			log.Warn("Redis is unavailable at %s: %v", cfg.Cache.Addr, err)
		}
		cancel()

		catalogCache = experienceCache.NewCache(redisClient, cfg.Cache.Prefix, cfg.Cache.TTL())
		log.Info("Catalog cache enabled (addr=%s, ttl=%s)", cfg.Cache.Addr, cfg.Cache.TTL())
	}

	// События бронирований (RabbitMQ)
	var publisher bookingsService.EventPublisher = events.NoopPublisher{}
	if cfg.Events.Enabled {
		conn, err := events.Dial(cfg.Events.URL, cfg.Events.Exchange)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ: %v", err)
		}
		defer conn.Close()

		publisher = events.NewPublisher(conn.Channel(), cfg.Events.Exchange)
		log.Info("Booking events enabled (exchange=%s)", cfg.Events.Exchange)
	}

	// Промокоды
	promoRules, err := cfg.Promo.Rules()
	if err != nil {
		log.Fatal("Failed to read promo codes: %v", err)
	}
	promoRegistry, err := promo.NewRegistry(promoRules)
	if err != nil {
		log.Fatal("Failed to build promo registry: %v", err)
	}
	promoResolver := promo.NewResolver(promoRegistry)
	log.Info("Promo registry loaded: %d codes", promoRegistry.Len())

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		slotRepository,
		txMgr,
		publisher,
		cfg.Reservation.MaxRefAttempts,
		log,
	)
	catalogSvc := catalogService.NewService(
		experienceRepository,
		catalogCache,
		metricsCollector,
		log,
	)

	// Инициализируем use cases
	reserveSlotUseCase := reserveSlotUC.NewUseCase(
		experienceRepository,
		slotRepository,
		bookingSvc,
		promoResolver,
		pricing.NewCalculator(),
		txMgr,
		publisher,
		metricsCollector,
		reserveSlotUC.Config{
			MaxQuantity: cfg.Reservation.MaxQuantity,
			Timeout:     cfg.Reservation.Timeout(),
		},
		log,
	)
	getExperienceUseCase := getExperienceUC.NewUseCase(
		experienceRepository,
		slotRepository,
		txMgr,
		log,
	)
	validatePromoUseCase := validatePromoUC.NewUseCase(promoResolver, metricsCollector, log)

	// Инициализируем handlers
	listExperiences := listExperiencesHandler.NewHandler(catalogSvc, log)
	getExperience := getExperienceHandler.NewHandler(getExperienceUseCase, log)
	reserveSlot := reserveSlotHandler.NewHandler(reserveSlotUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	validatePromo := validatePromoHandler.NewHandler(validatePromoUseCase, log)
	health := healthHandler.NewHandler(wrappedDB, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.Recovery(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, metricsCollector.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", health.Handle).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// --- Каталог ---
	api.HandleFunc("/experiences", listExperiences.Handle).Methods(http.MethodGet)
	api.HandleFunc("/experiences/{experienceId}", getExperience.Handle).Methods(http.MethodGet)

	// --- Бронирования ---
	api.HandleFunc("/bookings", reserveSlot.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingRef}", getBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingRef}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// --- Промокоды ---
	api.HandleFunc("/promo/validate", validatePromo.Handle).Methods(http.MethodPost)

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

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
