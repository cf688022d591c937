package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/invoicing/backend/internal/infrastructure/auth"
	"github.com/invoicing/backend/internal/infrastructure/config"
	"github.com/invoicing/backend/internal/infrastructure/logger"
	"github.com/invoicing/backend/internal/infrastructure/telemetry"
	"github.com/invoicing/backend/internal/interfaces/http/handler"
	"github.com/invoicing/backend/internal/interfaces/http/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Handlers are the HTTP handlers the API serves
type Handlers struct {
	Payment  *handler.PaymentHandler
	Document *handler.DocumentHandler
	Webhook  *handler.WebhookHandler
	System   *handler.SystemHandler
}

// Options carries everything the engine middleware needs
type Options struct {
	HTTP           config.HTTPConfig
	Swagger        config.SwaggerConfig
	Webhook        config.WebhookConfig
	Tracing        middleware.TracingConfig
	Profiling      bool
	RequestTimeout time.Duration
	JWTService     *auth.JWTService
	RateLimiter    *middleware.RateLimiter
	Meters         *telemetry.MeterProvider
	Logger         *zap.Logger
}

// NewEngine builds the gin engine with the global middleware stack and every
// API route mounted.
func NewEngine(opts Options, h Handlers) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	engine.ContextWithFallback = true
	if len(opts.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(opts.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.Tracing(opts.Tracing),
		middleware.SpanErrorMarker(),
		middleware.HTTPMetrics(opts.Meters),
		middleware.CORSWithConfig(middleware.CORSConfigFromHTTP(opts.HTTP)),
		middleware.Secure(),
		middleware.BodyLimit(opts.HTTP.MaxBodySize),
		middleware.Timeout(opts.RequestTimeout),
	)

	jwtConfig := middleware.DefaultJWTConfig(opts.JWTService)
	jwtConfig.Logger = log
	jwt := middleware.JWTAuthMiddlewareWithConfig(jwtConfig)

	// The API skip list exempts /swagger, so the docs get their own check
	docsAuth := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{JWTService: opts.JWTService, Logger: log})

	engine.GET("/health", h.System.Health)
	engine.GET("/swagger/*any", middleware.SwaggerProtection(opts.Swagger, docsAuth), ginSwagger.WrapHandler(swaggerFiles.Handler))

	r := NewRouter(engine, WithAPIVersion("v1"))
	r.Use(jwt, middleware.TracingAttributeInjector())
	if opts.HTTP.RateLimitEnabled && opts.RateLimiter != nil {
		r.Use(middleware.RateLimit(opts.RateLimiter))
	}
	r.Use(middleware.Profiling(opts.Profiling))

	r.Register(
		PaymentRoutes(h.Payment),
		DocumentRoutes(h.Document),
		WebhookRoutes(h.Webhook, opts.Webhook),
		SystemRoutes(h.System),
	)
	r.Setup()

	return engine
}

// PaymentRoutes mounts the payments resource
func PaymentRoutes(h *handler.PaymentHandler) *DomainGroup {
	return NewDomainGroup("payments", "/payments").
		GET("", h.List).
		POST("", h.Store).
		GET("/create", h.Create).
		POST("/bulk", h.Bulk).
		GET("/:id", h.Show).
		PUT("/:id", h.Update).
		DELETE("/:id", h.Destroy).
		GET("/:id/edit", h.Edit).
		GET("/:id/:action", h.Action)
}

// DocumentRoutes mounts the documents resource
func DocumentRoutes(h *handler.DocumentHandler) *DomainGroup {
	return NewDomainGroup("documents", "/documents").
		GET("", h.List).
		POST("/bulk", h.Bulk).
		GET("/:id", h.Show).
		GET("/:id/download", h.Download)
}

// WebhookRoutes mounts provider callbacks. They carry no bearer token; the
// shared secret header authenticates them instead.
func WebhookRoutes(h *handler.WebhookHandler, cfg config.WebhookConfig) *DomainGroup {
	return NewDomainGroup("webhooks", "/webhooks").
		Use(middleware.WebhookToken(cfg)).
		POST("/email", h.EmailEvent)
}

// SystemRoutes mounts build information
func SystemRoutes(h *handler.SystemHandler) *DomainGroup {
	return NewDomainGroup("system", "/system").
		GET("/info", h.GetSystemInfo)
}
