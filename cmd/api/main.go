package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"leadgen-backend/config"
	_ "leadgen-backend/docs" // Important for Swagger
	"leadgen-backend/internal/delivery/http/middleware"
	v1 "leadgen-backend/internal/delivery/http/v1"
	"leadgen-backend/internal/domain"
	mongorepo "leadgen-backend/internal/repository/mongo"
	"leadgen-backend/internal/repository/postgres"
	"leadgen-backend/internal/usecase"
	"leadgen-backend/pkg/auth"
	"leadgen-backend/pkg/database"
	"leadgen-backend/pkg/email"
	"leadgen-backend/pkg/logger"
	redisclient "leadgen-backend/pkg/redis"
	"leadgen-backend/pkg/security"
	"leadgen-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

// @title           Lead Generation Intake API
// @version         1.0
// @description     Form intake backend for the B2B lead-generation marketing site.
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	// 2. Setup Loggers
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting lead intake backend", "port", cfg.Port, "mode", cfg.GinMode)
	if cfg.IsProduction() && cfg.CORSAllowDevOrigins {
		logger.Log.Warn("CORS_ALLOW_DEV_ORIGINS is enabled in release mode, localhost origins are accepted")
	}

	secLog := security.NewSecurityLogger("leadgen-backend", cfg.GinMode, strings.EqualFold(cfg.LogLevel, "DEBUG"))
	defer func() { _ = secLog.Sync() }()

	ctx := context.Background()

	// 3. Setup Submission Store
	repo, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	// 4. Setup Rate Limiter
	var limiter middleware.Limiter = middleware.NewMemoryLimiter()
	var redisProbe usecase.Probe
	if cfg.RedisURL != "" {
		rdb, err := redisclient.NewClient(ctx, redisclient.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword})
		if err != nil {
			logger.Log.Warn("Redis unavailable, rate limiting will use in-memory state", "error", err)
		} else {
			defer rdb.Close()
			limiter = middleware.NewFallbackLimiter(middleware.NewRedisLimiter(rdb), limiter, secLog)
			redisProbe = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
			logger.Log.Info("Rate limiting backed by Redis")
		}
	}

	// 5. Setup Email Service
	emailService := email.NewEmailService(cfg)
	if !emailService.IsConfigured() {
		logger.Log.Warn("Email service not fully configured - submissions will be stored without notification")
	}

	// 6. Setup UseCases
	intakeUC := usecase.NewIntakeUsecase(repo, emailService, validation.New(), usecase.IntakeOptions{
		NotifyTimeout:    cfg.NotifyTimeout(),
		RequireTargeting: cfg.OrderRequireTargeting,
	})
	var adminUC domain.AdminUsecase
	if cfg.AdminEnabled() {
		adminUC = usecase.NewAdminUsecase(repo)
	}
	healthUC := usecase.NewHealthUsecase(map[string]usecase.Probe{
		"store": repo.Ping,
		"redis": redisProbe,
	}, 2*time.Second)

	// 7. Setup Admin Auth Provider (JWKS)
	var jwksProvider *auth.Provider
	if cfg.AdminJWKSURL != "" {
		jwksProvider = auth.NewProvider(cfg.AdminJWKSURL)
	}

	// 8. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		IntakeUC:     intakeUC,
		AdminUC:      adminUC,
		HealthUC:     healthUC,
		Limiter:      limiter,
		JWKSProvider: jwksProvider,
		SecLog:       secLog,
		Config:       cfg,
	})

	// 9. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.NotifyTimeout()+5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}
	if err := intakeUC.Drain(shutdownCtx); err != nil {
		logger.Log.Warn("Pending notifications abandoned", "error", err)
	}

	logger.Log.Info("Server exiting")
}

// openStore picks MongoDB when MONGODB_URI is set, PostgreSQL otherwise.
func openStore(ctx context.Context, cfg *config.Config) (domain.SubmissionRepository, func(), error) {
	switch {
	case cfg.MongoURI != "":
		client, err := database.NewMongoConnection(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		db := client.Database(cfg.MongoDatabase)
		if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
			logger.Log.Warn("Failed to ensure MongoDB indexes", "error", err)
		}
		closeFn := func() { _ = client.Disconnect(context.Background()) }
		return mongorepo.NewSubmissionRepository(db), closeFn, nil

	case cfg.DBUrl != "":
		pool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
		if err != nil {
			return nil, nil, err
		}
		if cfg.DBAutoMigrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, nil, err
			}
			logger.Log.Info("Database schema is up to date")
		}
		return postgres.NewSubmissionRepository(pool), pool.Close, nil
	}
	return nil, nil, errors.New("no submission store configured: set MONGODB_URI or DATABASE_URL")
}
