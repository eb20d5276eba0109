package v1

import (
	"net/http"

	"leadgen-backend/config"
	"leadgen-backend/internal/delivery/http/middleware"
	"leadgen-backend/internal/delivery/http/response"
	"leadgen-backend/internal/domain"
	"leadgen-backend/internal/usecase"
	"leadgen-backend/pkg/auth"
	"leadgen-backend/pkg/logger"
	"leadgen-backend/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	IntakeUC     domain.IntakeUsecase
	AdminUC      domain.AdminUsecase // nil disables the admin routes
	HealthUC     usecase.HealthUsecase
	Limiter      middleware.Limiter
	JWKSProvider *auth.Provider // optional RS256 key source for admin tokens
	SecLog       *security.SecurityLogger
	Config       *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	r := gin.New()

	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Log.Warn("Invalid TRUSTED_PROXIES, client IPs will use the socket address", "error", err)
		_ = r.SetTrustedProxies(nil)
	}

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(cfg.FrontendURL, cfg.CORSAllowDevOrigins)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler())

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "Not found")
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	NewHealthHandler(api, deps.HealthUC)

	// One budget shared by all three form endpoints
	intakeLimit := middleware.RateLimitMiddleware(
		deps.Limiter,
		middleware.IntakeRateLimitConfig(cfg.RateLimitMaxRequests, cfg.RateLimitWindow()),
		deps.SecLog,
	)
	NewIntakeHandler(api, deps.IntakeUC, deps.SecLog, cfg.MaxBodyBytes, intakeLimit)

	// Swagger
	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes
	if deps.AdminUC != nil && (cfg.AdminJWTSecret != "" || deps.JWKSProvider != nil) {
		protected := api.Group("")
		protected.Use(middleware.AdminAuthMiddleware(cfg.AdminJWTSecret, deps.JWKSProvider, deps.SecLog))
		NewAdminHandler(protected, deps.AdminUC)
	}

	return r
}
