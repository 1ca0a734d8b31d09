package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coursemate_backend/database"
	"coursemate_backend/internal/config"
	"coursemate_backend/internal/email"
	"coursemate_backend/internal/handlers"
	"coursemate_backend/internal/imageprocessor"
	"coursemate_backend/internal/logger"
	"coursemate_backend/internal/middleware"
	"coursemate_backend/internal/push"
	"coursemate_backend/internal/repositories"
	"coursemate_backend/internal/routes"
	"coursemate_backend/internal/services"
	"coursemate_backend/internal/storage"
	"coursemate_backend/internal/validator"
	"coursemate_backend/internal/workers"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// Deps - внешние клиенты. Создаются в Run, в тестах подменяются.
type Deps struct {
	Store   repositories.DocumentStore
	Tickets repositories.TicketRepository
	Sender  push.Sender
	Mailer  email.Provider
	Storage storage.Storage
	// Now - часы для сканирования расписаний (nil = time.Now)
	Now func() time.Time
}

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, cleanup, err := connect(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize dependencies", "error", err)
	}
	defer cleanup()

	ginRouter, serviceContainer := SetupRouter(cfg, deps)

	if cfg.Schedule.ScanEnabled {
		worker := workers.NewDueScanWorker(serviceContainer.ScheduleService, cfg.Schedule.ScanCron, cfg.Location())
		if err := worker.Start(ctx); err != nil {
			logger.Fatal("Failed to start due scan worker", "error", err)
		}
	}

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              address,
		Handler:           ginRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "address", address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
}

// connect поднимает хранилища и клиентов по конфигу
func connect(ctx context.Context, cfg *config.Config) (*Deps, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	gormDB, err := database.ConnectGorm(cfg)
	if err != nil {
		return nil, cleanup, err
	}
	if err := database.AutoMigrate(gormDB); err != nil {
		return nil, cleanup, err
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		closers = append(closers, func() { sqlDB.Close() })
	}
	logger.Info("Ticket ledger connected", "driver", cfg.Database.Driver)

	deps := &Deps{Tickets: repositories.NewTicketRepository(gormDB)}

	switch cfg.Firebase.Backend {
	case "memory":
		logger.Warn("Using in-memory document store, data is lost on restart")
		deps.Store = repositories.NewMemoryStore()
	default:
		client, err := database.ConnectFirestore(ctx, cfg)
		if err != nil {
			return nil, cleanup, err
		}
		closers = append(closers, func() { client.Close() })
		deps.Store = repositories.NewFirestoreStore(client)
		logger.Info("Firestore connected", "project_id", cfg.Firebase.ProjectID)
	}

	if cfg.Push.Disabled {
		logger.Warn("Push delivery is disabled")
		deps.Sender = push.DisabledSender{}
	} else {
		deps.Sender = push.NewExpoSender(push.ExpoConfig{AccessToken: cfg.Push.AccessToken})
	}

	if cfg.EmailEnabled() {
		deps.Mailer = email.NewGomailProvider(email.SMTPConfig{
			Host:      cfg.Email.SMTPHost,
			Port:      cfg.Email.SMTPPort,
			Username:  cfg.Email.SMTPUsername,
			Password:  cfg.Email.SMTPPassword,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
		})
	} else {
		logger.Warn("SMTP is not configured, interest emails are disabled")
		deps.Mailer = email.NoopProvider{}
	}

	deps.Storage, err = storage.NewStorage(storage.Config{
		Type:      cfg.Storage.Type,
		BasePath:  cfg.Storage.BasePath,
		BaseURL:   cfg.Storage.BaseURL,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Endpoint:  cfg.Storage.Endpoint,
	})
	if err != nil {
		return nil, cleanup, fmt.Errorf("failed to initialize storage: %w", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	return deps, cleanup, nil
}

func SetupRouter(cfg *config.Config, deps *Deps) (*gin.Engine, *services.ServiceContainer) {
	// 1. Инициализируем сервисы
	serviceContainer := initializeServices(cfg, deps)

	// 2. Инициализируем хэндлеры
	appHandlers := handlers.NewAppHandlers(validator.New(), serviceContainer)

	// 3. Инициализируем Gin
	ginRouter := initializeGinRouter(cfg)

	// 4. Маршруты
	opts := routes.Options{
		StoreBackend: cfg.Firebase.Backend,
		Swagger:      cfg.Server.Env != "production",
	}
	if cfg.RateLimitEnabled() {
		opts.NotifyLimiter = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	}
	if local, ok := deps.Storage.(*storage.LocalStorage); ok {
		opts.UploadsDir = local.BasePath()
	}
	routes.RegisterRoutes(ginRouter, appHandlers, opts)

	return ginRouter, serviceContainer
}

func initializeServices(cfg *config.Config, deps *Deps) *services.ServiceContainer {
	notificationService := services.NewNotificationService(deps.Sender, deps.Tickets)

	marketService := services.NewMarketService(
		deps.Store, deps.Store, deps.Store,
		notificationService,
		deps.Mailer,
		deps.Storage,
		imageprocessor.NewProcessor(cfg.Upload.ImageQuality, cfg.Upload.MaxDimension),
		services.UploadOptions{MaxSize: cfg.Upload.MaxSize, AllowedTypes: cfg.Upload.AllowedTypes},
	)
	reviewService := services.NewReviewService(deps.Store, deps.Store, deps.Store, deps.Store)
	scheduleService := services.NewScheduleService(deps.Store, deps.Store, notificationService, services.ScheduleOptions{
		Lookahead: cfg.Schedule.Lookahead,
		Location:  cfg.Location(),
		Now:       deps.Now,
	})

	return &services.ServiceContainer{
		MarketService:       marketService,
		ReviewService:       reviewService,
		ScheduleService:     scheduleService,
		NotificationService: notificationService,
	}
}

func initializeGinRouter(cfg *config.Config) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/uploads"})))
	router.MaxMultipartMemory = cfg.Upload.MaxSize + 1<<20
	return router
}
