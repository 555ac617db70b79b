package server

import (
	"fmt"
	"net/http"
	"time"

	"restaurant-admin/internal/cache"
	"restaurant-admin/internal/config"
	"restaurant-admin/internal/database"
	custommiddleware "restaurant-admin/internal/middleware"
	"restaurant-admin/internal/repository"
	"restaurant-admin/internal/service"
	"restaurant-admin/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     database.Service
	redis  *redis.Client
}

// NewServer wires repositories, services and handlers onto one router.
// redisClient may be nil, in which case idempotency keys and rate limiting
// are disabled.
func NewServer(cfg *config.Config, logger *zap.Logger, db database.Service, redisClient *redis.Client) *Server {
	router := NewRouter(cfg, logger, db, redisClient)

	return &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}
}

// NewRouter builds the HTTP handler tree
func NewRouter(cfg *config.Config, logger *zap.Logger, db database.Service, redisClient *redis.Client) http.Handler {
	router := chi.NewRouter()

	// Add basic middleware
	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.Server.IsDevelopment()))

	var guard cache.IdempotencyGuard = cache.NewNoopGuard()
	if redisClient != nil {
		guard = cache.NewRedisGuard(redisClient, cfg.Sales.IdempotencyTTL)
		router.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.Requests,
			Window:            cfg.RateLimit.Window,
			KeyPrefix:         "ratelimit",
		}, logger))
	}

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		health := db.Health(r.Context())
		status := http.StatusOK
		if health["status"] != "up" {
			status = http.StatusServiceUnavailable
		}
		custommiddleware.RespondWithJSON(w, status, health)
	})

	// Initialize repositories
	sqlDB := db.DB()
	categoryRepo := repository.NewCategoryRepository(sqlDB)
	productRepo := repository.NewProductRepository(sqlDB)
	saleRepo := repository.NewSaleRepository(sqlDB)
	reportRepo := repository.NewReportRepository(sqlDB)
	transactor := repository.NewTransactor(sqlDB)

	// Initialize services
	categoryService := service.NewCategoryService(transactor, categoryRepo, productRepo, saleRepo, logger)
	productService := service.NewProductService(transactor, productRepo, categoryRepo, saleRepo, logger)
	saleService := service.NewSaleService(transactor, productRepo, saleRepo, cfg.Sales.LockTimeout, logger)
	reportService := service.NewReportService(reportRepo)

	// Register routes
	transport.NewCategoryHandler(categoryService, logger).RegisterRoutes(router)
	transport.NewProductHandler(productService, logger).RegisterRoutes(router)
	transport.NewSaleHandler(saleService, guard, logger).RegisterRoutes(router)
	transport.NewReportHandler(reportService, logger).RegisterRoutes(router)

	return router
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
