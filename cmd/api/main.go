package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/evdekor-api/internal/application/service"
	"github.com/sangkips/evdekor-api/internal/config"
	"github.com/sangkips/evdekor-api/internal/domain/repository"
	"github.com/sangkips/evdekor-api/internal/infrastructure/database"
	"github.com/sangkips/evdekor-api/internal/infrastructure/memory"
	gormRepo "github.com/sangkips/evdekor-api/internal/infrastructure/repository"
	"github.com/sangkips/evdekor-api/internal/presentation/http/handler"
	"github.com/sangkips/evdekor-api/internal/presentation/http/middleware"
	"github.com/sangkips/evdekor-api/internal/presentation/http/routes"
	"github.com/sangkips/evdekor-api/pkg/money"
	"github.com/sangkips/evdekor-api/pkg/token"
	"go.uber.org/zap"
)

const idempotencySweepInterval = time.Hour

// repositories is the storage backend selected by DB_DRIVER
type repositories struct {
	customers   repository.CustomerRepository
	orders      repository.OrderRepository
	settings    repository.SettingsRepository
	sequence    repository.SequenceRepository
	idempotency repository.IdempotencyRepository
	transactor  repository.Transactor
}

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer logger.Sync() //nolint:errcheck

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	repos, err := openRepositories(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}

	formatter := money.NewFormatter(cfg.App.Locale)

	settingsService := service.NewSettingsService(repos.settings, cfg.Orders.DefaultTaxRate, logger)
	if err := settingsService.EnsureDefaults(context.Background()); err != nil {
		logger.Fatal("Failed to seed default settings", zap.Error(err))
	}
	suggestionService := service.NewSuggestionService(repos.settings, logger)
	customerService := service.NewCustomerService(repos.customers, logger)
	orderService := service.NewOrderService(
		repos.orders,
		repos.customers,
		repos.sequence,
		repos.transactor,
		settingsService,
		suggestionService,
		formatter,
		service.OrderServiceConfig{
			NumberPrefix:        cfg.Orders.NumberPrefix,
			UnknownCustomerName: cfg.Orders.UnknownCustomerName,
		},
		logger,
	)
	reportService := service.NewReportService(repos.orders, repos.customers, logger)

	handlers := &routes.Handlers{
		Customer: handler.NewCustomerHandler(customerService, orderService),
		Order:    handler.NewOrderHandler(orderService),
		Settings: handler.NewSettingsHandler(settingsService, suggestionService),
		Report:   handler.NewReportHandler(reportService),
		Pricing:  handler.NewPricingHandler(settingsService, formatter),
	}

	var tokens *token.Manager
	if cfg.Auth.Enabled {
		tokens = token.NewManager(cfg.Auth.Secret, cfg.Auth.ExpiryHours)
	}

	rateLimiter := middleware.NewClientRateLimiter(
		middleware.RateLimiterConfigFrom(cfg.RateLimit.Requests, cfg.RateLimit.Duration),
	)
	defer rateLimiter.Stop()

	router := routes.Setup(handlers, &routes.Deps{
		Cfg:             cfg,
		Log:             logger,
		Tokens:          tokens,
		RateLimiter:     rateLimiter,
		IdempotencyRepo: repos.idempotency,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sweepIdempotencyKeys(ctx, repos.idempotency, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting server",
			zap.String("name", cfg.App.Name),
			zap.String("port", cfg.App.Port),
			zap.String("env", cfg.App.Env),
			zap.String("driver", cfg.Database.Driver),
			zap.Bool("auth", cfg.Auth.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.App.Debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func openRepositories(cfg *config.Config, logger *zap.Logger) (*repositories, error) {
	if cfg.Database.Driver == config.DriverMemory {
		logger.Warn("Using in-memory storage; data is lost on restart")
		store := memory.NewStore()
		settings := memory.NewSettingsRepository(store)
		return &repositories{
			customers:   memory.NewCustomerRepository(store),
			orders:      memory.NewOrderRepository(store),
			settings:    settings,
			sequence:    settings,
			idempotency: memory.NewIdempotencyRepository(store),
			transactor:  store,
		}, nil
	}

	db, err := database.Open(&cfg.Database, cfg.App.Debug, logger)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(db, logger); err != nil {
		return nil, err
	}

	return &repositories{
		customers:   gormRepo.NewCustomerRepository(db),
		orders:      gormRepo.NewOrderRepository(db),
		settings:    gormRepo.NewSettingsRepository(db),
		sequence:    gormRepo.NewSequenceRepository(db),
		idempotency: gormRepo.NewIdempotencyRepository(db),
		transactor:  gormRepo.NewTransactor(db),
	}, nil
}

func sweepIdempotencyKeys(ctx context.Context, repo repository.IdempotencyRepository, logger *zap.Logger) {
	ticker := time.NewTicker(idempotencySweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.DeleteExpired(ctx)
			if err != nil {
				logger.Warn("Failed to delete expired idempotency keys", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Debug("Deleted expired idempotency keys", zap.Int64("count", n))
			}
		}
	}
}
