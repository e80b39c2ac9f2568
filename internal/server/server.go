// Package server
//
// @title Wanderlust API
// @version 1.0
// @description Tourism website backend: catalog, wishlists and staff dashboards
// @host localhost:8080
// @BasePath /
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"sync"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/hibiken/asynq"
	"github.com/hibiken/asynqmon"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/wanderlust-tours/wanderlust/internal/access"
	"github.com/wanderlust-tours/wanderlust/internal/auth"
	"github.com/wanderlust-tours/wanderlust/internal/catalog"
	"github.com/wanderlust-tours/wanderlust/internal/config"
	"github.com/wanderlust-tours/wanderlust/internal/database"
	"github.com/wanderlust-tours/wanderlust/internal/kv"
	"github.com/wanderlust-tours/wanderlust/internal/metrics"
	"github.com/wanderlust-tours/wanderlust/internal/seed"
	"github.com/wanderlust-tours/wanderlust/internal/tasks"
)

const (
	queuesPath = "/admin/queues"

	// idle time after which a visitor's wishlist is reloaded from storage
	wishlistIdleTTL = 24 * time.Hour
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Server represents the HTTP server
type Server struct {
	router    *gin.Engine
	db        *gorm.DB
	config    *config.Config
	logger    zerolog.Logger
	validator *validator.Validate
	provider  *auth.Provider
	gate      *access.Gate
	catalog   *catalog.Service
	wishlists kv.Storage
	metrics   *metrics.Metrics
	enqueuer  tasks.Enqueuer
	queues    http.Handler
	closers   []func() error
	version   string

	// open wishlist stores by visitor id; guarded by wishlistMu
	openWishlists *cache.Cache
	wishlistMu    sync.Mutex
}

// Options carries the dependencies New builds from configuration. Tests
// inject their own.
type Options struct {
	DB        *gorm.DB
	Wishlists kv.Storage
	Enqueuer  tasks.Enqueuer // nil runs stats refreshes inline
	Metrics   *metrics.Metrics
	Queues    http.Handler // asynq dashboard mounted under /admin/queues
}

// New creates a new server instance from configuration
func New(cfg *config.Config, zlog zerolog.Logger, version string) (*Server, error) {
	// Initialize database with production settings
	db, err := database.Open(cfg.Database, zlog)
	if err != nil {
		return nil, err
	}

	wishlists, closeWishlists, err := openWishlistStorage(cfg, db)
	if err != nil {
		return nil, err
	}

	// Initialize Asynq client for enqueueing tasks
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr: cfg.Redis.Address,
	})

	if cfg.Content.SeedFile != "" {
		content, err := seed.LoadFile(cfg.Content.SeedFile)
		if err != nil {
			return nil, err
		}
		if _, err := seed.Apply(context.Background(), db, content, zlog); err != nil {
			return nil, err
		}
	}

	// Queue dashboard for the stats roll-up worker
	queues := asynqmon.New(asynqmon.Options{
		RootPath:     queuesPath,
		RedisConnOpt: asynq.RedisClientOpt{Addr: cfg.Redis.Address},
	})

	srv, err := NewWithOptions(cfg, zlog, version, Options{
		DB:        db,
		Wishlists: wishlists,
		Enqueuer:  asynqClient,
		Metrics:   metrics.New(),
		Queues:    queues,
	})
	if err != nil {
		return nil, err
	}
	srv.closers = append(srv.closers, asynqClient.Close, queues.Close)
	if closeWishlists != nil {
		srv.closers = append(srv.closers, closeWishlists)
	}
	return srv, nil
}

// openWishlistStorage selects the configured wishlist backend
func openWishlistStorage(cfg *config.Config, db *gorm.DB) (kv.Storage, func() error, error) {
	switch cfg.Wishlist.Backend {
	case config.BackendRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		store, err := kv.NewRedisStore(ctx, cfg.Redis.Address)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case config.BackendMemory:
		return kv.NewMemoryStore(), nil, nil
	default:
		return kv.NewGormStore(db), nil, nil
	}
}

// NewWithOptions creates a server on already opened dependencies
func NewWithOptions(cfg *config.Config, zlog zerolog.Logger, version string, opts Options) (*Server, error) {
	if opts.DB == nil {
		return nil, errors.New("database is required")
	}
	if opts.Wishlists == nil {
		opts.Wishlists = kv.NewGormStore(opts.DB)
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}

	provider := auth.NewProvider(cfg.Auth.SessionTTL)

	// Load JWT secret from database (auto-generated during first setup)
	secret, ok, err := auth.LoadSecret(context.Background(), opts.DB)
	if err != nil {
		return nil, err
	}
	if ok {
		provider.Initialize(secret)
		zlog.Debug().Msg("Loaded JWT secret from database")
	} else {
		// Sessions stay pending until setupFirstAdmin runs
		zlog.Info().Msg("No settings found - sessions resolve after first setup")
	}

	// Initialize validator
	validate := validator.New()

	// Register custom validators
	validate.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		// Lowercase words separated by single hyphens (safe for URLs)
		return slugPattern.MatchString(fl.Field().String())
	})

	server := &Server{
		db:        opts.DB,
		config:    cfg,
		logger:    zlog,
		validator: validate,
		provider:  provider,
		gate:      access.NewGate(cfg.Auth.GatedPublicPaths...),
		catalog:   catalog.NewService(opts.DB, zlog),
		wishlists: opts.Wishlists,
		metrics:   opts.Metrics,
		enqueuer:  opts.Enqueuer,
		queues:    opts.Queues,
		version:   version,

		openWishlists: cache.New(wishlistIdleTTL, time.Hour),
	}

	// Setup router
	server.setupRouter()

	return server, nil
}

// setupRouter configures the Gin router with routes and middleware
func (s *Server) setupRouter() {
	// Set Gin mode based on environment
	gin.SetMode(gin.ReleaseMode)

	s.router = gin.New()

	// Add middleware
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())

	// CORS middleware (same-origin only when no origins are configured)
	if len(s.config.HTTP.CORSOrigins) > 0 {
		s.router.Use(cors.New(cors.Config{
			AllowOrigins:     s.config.HTTP.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "Location"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Every request carries a resolved session; the gate decides on it
	s.router.Use(SessionMiddleware(s.provider, s.db, s.config.Auth.CookieName, s.logger))
	s.router.Use(AccessGateMiddleware(s.gate, s.metrics, s.logger))

	// Health check and metrics endpoints (no auth required)
	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	// Public auth endpoints (no auth required)
	s.router.POST("/api/setup", s.setupFirstAdmin)
	s.router.POST("/api/auth/login", s.login)
	s.router.POST("/api/auth/logout", s.logout)
	s.router.GET("/api/auth/session", s.getSession)

	// Public site content
	api := s.router.Group("/api")
	{
		api.GET("/destinations", s.listDestinations)
		api.GET("/destinations/:id", s.getDestination)
		api.GET("/tours", s.listTours)
		api.GET("/tours/:id", s.getTour)
		api.GET("/gallery", s.listGallery)
		api.GET("/testimonials", s.listTestimonials)
		api.POST("/testimonials", s.submitTestimonial)
		api.GET("/team", s.listTeam)
	}

	// Visitor wishlists
	wishlistRoutes := api.Group("/wishlist")
	wishlistRoutes.Use(VisitorMiddleware(s.logger))
	{
		wishlistRoutes.GET("", s.getWishlist)
		wishlistRoutes.POST("/tours", s.addTourToWishlist)
		wishlistRoutes.GET("/tours/:id", s.isTourInWishlist)
		wishlistRoutes.DELETE("/tours/:id", s.removeTourFromWishlist)
		wishlistRoutes.POST("/destinations", s.addDestinationToWishlist)
		wishlistRoutes.GET("/destinations/:id", s.isDestinationInWishlist)
		wishlistRoutes.DELETE("/destinations/:id", s.removeDestinationFromWishlist)
	}

	// Login entry points (never gated)
	s.router.GET(access.AdminLoginPath, s.loginEntry("admin"))
	s.router.GET(access.WorkerLoginPath, s.loginEntry("worker"))

	// Admin dashboard (gate: admin role)
	admin := s.router.Group("/admin")
	{
		admin.GET("/dashboard", s.adminDashboard)

		admin.GET("/api/tours", s.listTours)
		admin.POST("/api/tours", s.createTour)
		admin.PUT("/api/tours/:id", s.updateTour)
		admin.DELETE("/api/tours/:id", s.deleteTour)

		admin.GET("/api/destinations", s.listDestinations)
		admin.POST("/api/destinations", s.createDestination)
		admin.PUT("/api/destinations/:id", s.updateDestination)
		admin.DELETE("/api/destinations/:id", s.deleteDestination)

		admin.GET("/api/team", s.listTeam)
		admin.POST("/api/team", s.createTeamMember)
		admin.PUT("/api/team/:id", s.updateTeamMember)
		admin.DELETE("/api/team/:id", s.deleteTeamMember)

		admin.GET("/api/users", s.listUsers)
		admin.POST("/api/users", s.createUser)
		admin.DELETE("/api/users/:id", s.deleteUser)

		admin.DELETE("/api/gallery/:id", s.deleteGalleryImage)
		admin.POST("/api/stats/refresh", s.refreshStats)

		if s.queues != nil {
			admin.Any("/queues/*any", gin.WrapH(s.queues))
		}
	}

	// Worker dashboard (gate: staff role)
	worker := s.router.Group("/worker")
	{
		worker.GET("/dashboard", s.workerDashboard)
		worker.GET("/api/testimonials", s.listPendingTestimonials)
		worker.POST("/api/testimonials/:id/approve", s.approveTestimonial)
		worker.DELETE("/api/testimonials/:id", s.deleteTestimonial)
		worker.POST("/api/gallery", s.addGalleryImage)
	}
}

// loggingMiddleware creates a custom logging middleware using zerolog
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start)

		s.logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("HTTP request")
	}
}

// Handler returns the HTTP handler serving all routes
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := s.config.HTTP.Addr

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("HTTP server error")
			errChan <- err
		}
	}()

	// Wait for shutdown signal
	select {
	case <-sigChan:
		s.logger.Info().Msg("Received shutdown signal, shutting down gracefully...")
	case err := <-errChan:
		s.close()
		return err
	}

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	s.logger.Info().Msg("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Error shutting down HTTP server")
		return err
	}

	s.close()
	s.logger.Info().Msg("Server shutdown complete")
	return nil
}

// close releases the asynq client, wishlist backend and database
func (s *Server) close() {
	for _, closer := range s.closers {
		if err := closer(); err != nil {
			s.logger.Warn().Err(err).Msg("Error closing resource")
		}
	}

	// Close database connection to flush WAL writes
	s.logger.Info().Msg("Closing database connection...")
	if err := database.Close(s.db); err != nil {
		s.logger.Error().Err(err).Msg("Error closing database")
	} else {
		s.logger.Info().Msg("Database closed successfully")
	}
}
