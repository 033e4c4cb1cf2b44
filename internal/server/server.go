// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"parley/internal/cache"
	"parley/internal/config"
	"parley/internal/database"
	"parley/internal/middleware"
	"parley/internal/models"
	"parley/internal/repository"
	"parley/internal/service"
	"parley/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	userRepo       repository.UserRepository
	postRepo       repository.PostRepository
	tagRepo        repository.TagRepository
	imageRepo      repository.ImageRepository
	likeRepo       repository.LikeRepository
	commentRepo    repository.CommentRepository
	blobs          storage.BlobStore
	userService    *service.UserService
	postService    *service.PostService
	likeService    *service.LikeService
	commentService *service.CommentService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	var blobs storage.BlobStore
	if cfg.DriveCredentialsFile != "" {
		blobs, err = storage.NewDriveStore(context.Background(), cfg.DriveCredentialsFile, cfg.BlobMaxRetries)
		if err != nil {
			return nil, fmt.Errorf("blob store init failed: %w", err)
		}
	}

	return NewServerWithDeps(cfg, db, redisClient, blobs)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis and the
// blob store itself.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, blobs storage.BlobStore) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	tagRepo := repository.NewTagRepository(db)
	imageRepo := repository.NewImageRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	prom := middleware.InitMetrics("parley-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		userRepo:       userRepo,
		postRepo:       postRepo,
		tagRepo:        tagRepo,
		imageRepo:      imageRepo,
		likeRepo:       likeRepo,
		commentRepo:    commentRepo,
		blobs:          blobs,
	}
	server.userService = service.NewUserService(userRepo)
	server.postService = service.NewPostService(postRepo, tagRepo, userRepo, imageRepo, blobs)
	server.likeService = service.NewLikeService(likeRepo, postRepo, commentRepo, userRepo)
	server.commentService = service.NewCommentService(commentRepo, postRepo, userRepo)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Distributed tracing spans (propagates incoming trace context)
	app.Use(middleware.TracingMiddleware())

	// Context middleware to propagate request and trace IDs into UserContext
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit
	// (e.g. limiter) so browser clients still receive CORS headers on error
	// responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, X-User-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Parley Backend Metrics Dashboard",
	}))

	// User routes
	users := api.Group("/users")
	users.Post("/", middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "register"), s.RegisterUser)
	users.Get("/", s.GetUsers)
	// Define specific /:id/:resource routes BEFORE generic /:id route
	users.Get("/:id/posts", s.GetUserPosts)
	users.Get("/:id", s.GetUser)
	users.Put("/:id", s.actorRequired, s.UpdateUser)
	users.Delete("/:id", s.actorRequired, s.DeleteUser)

	// Post routes
	posts := api.Group("/posts")
	posts.Post("/", s.actorRequired, middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "create_post"), s.CreatePost)
	posts.Get("/", s.GetPosts)
	posts.Get("/search", middleware.RateLimit(
		s.redis, 10, time.Minute, "search"), s.SearchPosts)
	// Define specific /:id/:resource routes BEFORE generic /:id route
	posts.Post("/:id/likes", s.actorRequired, s.LikePost)
	posts.Delete("/:id/likes", s.actorRequired, s.UnlikePost)
	posts.Post("/:id/comments", s.actorRequired, middleware.RateLimit(
		s.redis, 10, time.Minute, "create_comment"), s.CreateComment)
	posts.Get("/:id/comments", s.GetCommentTree)
	posts.Get("/:id", s.GetPost)
	posts.Put("/:id", s.actorRequired, s.UpdatePost)
	posts.Delete("/:id", s.actorRequired, s.DeletePost)

	// Comment routes
	comments := api.Group("/comments")
	comments.Post("/:id/replies", s.actorRequired, middleware.RateLimit(
		s.redis, 10, time.Minute, "create_reply"), s.CreateReply)
	comments.Post("/:id/likes", s.actorRequired, s.LikeComment)
	comments.Delete("/:id/likes", s.actorRequired, s.UnlikeComment)
	comments.Get("/:id", s.GetComment)
	comments.Put("/:id", s.actorRequired, s.UpdateComment)
	comments.Delete("/:id", s.actorRequired, s.DeleteComment)
}

// actorRequired resolves the acting user from the X-User-ID header and stores
// it in locals and the user context. Mutating routes require it; reads do not.
func (s *Server) actorRequired(c *fiber.Ctx) error {
	raw := c.Get("X-User-ID")
	if raw == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("X-User-ID header is required"))
	}

	var userID uint
	if _, err := fmt.Sscanf(raw, "%d", &userID); err != nil || userID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("X-User-ID header must be a positive integer"))
	}

	c.Locals("userID", userID)
	c.SetUserContext(middleware.ContextWithUserID(c.UserContext(), userID))
	return c.Next()
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// The API degrades without Redis (no caching, no rate limits) but
		// stays functional, so a missing client is reported, not fatal.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName:   "Parley API",
		BodyLimit: (s.config.UploadMaxSizeMB + 1) * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
