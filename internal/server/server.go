// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "nightlife/docs" // swagger docs
	"nightlife/internal/bootstrap"
	"nightlife/internal/cache"
	"nightlife/internal/config"
	"nightlife/internal/featureflags"
	"nightlife/internal/legacyid"
	"nightlife/internal/middleware"
	"nightlife/internal/models"
	"nightlife/internal/notifications"
	"nightlife/internal/queue"
	"nightlife/internal/repository"
	"nightlife/internal/service"
	"nightlife/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are collaborators created outside the server. Nil fields disable the
// matching feature: no push queue, or local media storage under the
// configured upload directory.
type Deps struct {
	Queue *queue.Client
	Store storage.Store
}

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	cache          cache.Cache
	redis          *redis.Client
	queue          *queue.Client
	store          storage.Store
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	featureFlags   *featureflags.Manager
	legacyIDs      *legacyid.Resolver

	userService          *service.UserService
	moderationService    *service.ModerationService
	ownershipService     *service.OwnershipService
	establishmentService *service.EstablishmentService
	employeeService      *service.EmployeeService
	commentService       *service.CommentService
	consumableService    *service.ConsumableService
	dashboardService     *service.DashboardService
	notificationService  *service.NotificationService
	gamificationService  *service.GamificationService
	mediaService         *service.MediaService
}

// NewServer connects every backing service described by cfg and builds the server.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	db, c, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{SeedBuiltIns: true})
	if err != nil {
		return nil, err
	}

	store, err := storage.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("media storage: %w", err)
	}

	var q *queue.Client
	if cfg.QueueEnabled {
		opt, err := queue.RedisOpt(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("push queue: %w", err)
		}
		q = queue.NewClient(opt)
	}

	return NewServerWithDeps(cfg, db, c, Deps{Queue: q, Store: store})
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes the DB and cache.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, c cache.Cache, deps Deps) (*Server, error) {
	if db == nil {
		return nil, errors.New("server requires a database")
	}
	if c == nil {
		c = cache.NewMemoryCache()
	}
	store := deps.Store
	if store == nil {
		store = storage.NewLocalStore(cfg.MediaUploadDir, cfg.MediaPublicBaseURL)
	}

	s := &Server{
		config:         cfg,
		db:             db,
		cache:          c,
		redis:          cache.RedisClientOf(c),
		queue:          deps.Queue,
		store:          store,
		promMiddleware: middleware.InitMetrics("nightlife-api"),
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
	}

	userRepo := repository.NewUserRepository(db)
	establishmentRepo := repository.NewEstablishmentRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	employmentRepo := repository.NewEmploymentRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	consumableRepo := repository.NewConsumableRepository(db)
	ownershipRepo := repository.NewOwnershipRepository(db)

	s.legacyIDs = legacyid.NewResolver(repository.NewLegacyIDRepository(db), s.featureFlags)

	var publisher service.UserPublisher
	if s.redis != nil {
		publisher = notifications.NewNotifier(s.redis)
	}
	var push service.PushEnqueuer
	if s.queue != nil {
		push = s.queue
	}

	s.userService = service.NewUserService(userRepo)
	s.notificationService = service.NewNotificationService(repository.NewNotificationRepository(db), publisher, push)
	s.gamificationService = service.NewGamificationService(repository.NewGamificationRepository(db), s.featureFlags)
	s.moderationService = service.NewModerationService(repository.NewModerationRepository(db), s.notificationService, s.gamificationService, c)
	s.ownershipService = service.NewOwnershipService(ownershipRepo, establishmentRepo, s.notificationService)
	s.establishmentService = service.NewEstablishmentService(establishmentRepo, employeeRepo, consumableRepo, s.ownershipService, s.legacyIDs, c)
	s.employeeService = service.NewEmployeeService(employeeRepo, employmentRepo, establishmentRepo, s.ownershipService, s.legacyIDs, c)
	s.commentService = service.NewCommentService(commentRepo, employeeRepo, s.moderationService)
	s.consumableService = service.NewConsumableService(consumableRepo, establishmentRepo, s.ownershipService, c)
	s.dashboardService = service.NewDashboardService(repository.NewStatsRepository(db), c)
	s.mediaService = service.NewMediaService(store, employeeRepo, s.establishmentService, s.ownershipService,
		int64(cfg.MediaMaxUploadMB)<<20,
		func(ctx context.Context, employeeID uuid.UUID) {
			cache.Invalidate(ctx, c, []string{cache.EmployeeKey(employeeID)}, cache.EmployeeListKey)
		})

	return s, nil
}

// NewApp builds the Fiber application with middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "Nightlife API",
		BodyLimit: (s.config.MediaMaxUploadMB + 1) << 20,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
				return models.RespondWithError(c, fe.Code, errors.New(fe.Message))
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
			return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
		},
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Spans carry the request ID, so tracing runs after requestid.
	app.Use(middleware.TracingMiddleware())

	// Context Middleware to propagate Request ID and Trace ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New(helmet.Config{CrossOriginResourcePolicy: "cross-origin"}))

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" || origins == "*" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, " + middleware.CSRFHeader,
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return models.RespondWithError(c, fiber.StatusTooManyRequests,
				&models.AppError{Code: models.CodeRateLimited, Message: "Too many requests, please try again later."})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	if local, ok := s.store.(*storage.LocalStore); ok {
		app.Static(s.config.MediaPublicBaseURL, local.Dir())
	}

	api := app.Group("/api")
	api.Use(middleware.CSRF(s.config.CookieSecure, "/api/auth/login", "/api/auth/register"))

	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Nightlife API Metrics Dashboard",
	}))
	api.Get("/swagger/*", swagger.HandlerDefault)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(s.cache, "register", 3, 10*time.Minute), s.Register)
	auth.Post("/login", middleware.RateLimit(s.cache, "login", 10, 5*time.Minute), s.Login)
	auth.Post("/logout", s.Logout)
	auth.Get("/csrf-token", s.GetCSRFToken)
	auth.Get("/me", s.AuthRequired(), s.Me)

	// Public browse routes. They are registered before the protected group
	// so its auth middleware never runs for them.
	api.Get("/establishments", middleware.RateLimit(s.cache, "establishments_list", 60, time.Minute), s.ListEstablishments)
	api.Get("/establishments/categories", s.ListCategories)
	api.Get("/establishments/:id", s.GetEstablishment)

	api.Get("/employees", middleware.RateLimit(s.cache, "employees_list", 60, time.Minute), s.ListEmployees)
	api.Get("/employees/:id/comments", s.ListEmployeeComments)
	api.Get("/employees/:id/votes", s.OptionalAuth(), s.GetEmployeeVotes)
	api.Get("/employees/:id/employment", s.GetEmploymentHistory)
	api.Get("/employees/:id", s.GetEmployee)

	api.Get("/consumables", s.ListConsumables)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	establishments := protected.Group("/establishments")
	establishments.Post("/", s.CreateEstablishment)
	establishments.Post("/:id/logo", s.UploadEstablishmentLogo)
	establishments.Put("/:id/consumables/:consumableId", s.SetConsumablePrice)
	establishments.Delete("/:id/consumables/:consumableId", s.RemoveConsumablePrice)
	establishments.Put("/:id", s.UpdateEstablishment)

	employees := protected.Group("/employees")
	employees.Post("/", s.CreateEmployee)
	employees.Post("/:id/employment", s.ReassignEmployee)
	employees.Patch("/:id/visibility", s.SetEmployeeVisibility)
	employees.Post("/:id/votes", s.VoteEmployee)
	employees.Post("/:id/self-removal", s.RequestSelfRemoval)
	employees.Post("/:id/comments", middleware.RateLimit(s.cache, "create_comment", 5, time.Minute), s.CreateComment)
	employees.Post("/:id/photos", middleware.RateLimit(s.cache, "upload_photo", 10, time.Minute), s.UploadEmployeePhoto)

	protected.Post("/comments/:id/reports", middleware.RateLimit(s.cache, "report_comment", 10, time.Minute), s.ReportComment)

	ownership := protected.Group("/ownership-requests")
	ownership.Post("/", s.AccountTypeRequired(models.AccountEstablishmentOwner), s.CreateOwnershipRequest)
	ownership.Get("/my", s.ListMyOwnershipRequests)
	ownership.Get("/", s.AdminRequired(), s.ListOwnershipRequests)
	ownership.Patch("/:id/approve", s.AdminRequired(), s.ApproveOwnershipRequest)
	ownership.Patch("/:id/reject", s.AdminRequired(), s.RejectOwnershipRequest)
	ownership.Delete("/:id", s.CancelOwnershipRequest)

	protected.Get("/establishment-owners/my-establishments", s.ListMyEstablishments)

	notifications := protected.Group("/notifications")
	notifications.Get("/", middleware.RateLimit(s.cache, "notifications", 30, time.Minute), s.ListNotifications)
	notifications.Get("/unread-count", middleware.RateLimit(s.cache, "notifications", 30, time.Minute), s.UnreadNotificationCount)
	notifications.Patch("/read-all", s.MarkAllNotificationsRead)
	notifications.Patch("/:id/read", s.MarkNotificationRead)

	protected.Get("/gamification/me", s.GetMyGamification)

	// Moderation and admin routes
	admin := protected.Group("/admin", s.StaffRequired())
	admin.Get("/dashboard/stats", s.GetDashboardStats)
	admin.Get("/feature-flags", s.GetFeatureFlags)

	adminEstablishments := admin.Group("/establishments")
	adminEstablishments.Get("/", s.AdminListEstablishments)
	adminEstablishments.Post("/", s.AdminCreateEstablishment)
	adminEstablishments.Get("/:id/owners", s.AdminRequired(), s.ListEstablishmentOwners)
	adminEstablishments.Post("/:id/approve", s.ApproveEstablishment)
	adminEstablishments.Post("/:id/reject", s.RejectEstablishment)
	adminEstablishments.Get("/:id", s.AdminGetEstablishment)
	adminEstablishments.Put("/:id", s.AdminUpdateEstablishment)
	adminEstablishments.Delete("/:id", s.AdminRequired(), s.AdminDeleteEstablishment)

	adminEmployees := admin.Group("/employees")
	adminEmployees.Get("/", s.AdminListEmployees)
	adminEmployees.Post("/:id/approve", s.ApproveEmployee)
	adminEmployees.Post("/:id/reject", s.RejectEmployee)
	adminEmployees.Patch("/:id/verification", s.SetEmployeeVerification)
	adminEmployees.Get("/:id", s.AdminGetEmployee)
	adminEmployees.Put("/:id", s.AdminUpdateEmployee)

	adminComments := admin.Group("/comments")
	adminComments.Get("/", s.AdminListComments)
	adminComments.Post("/:id/approve", s.ApproveComment)
	adminComments.Post("/:id/reject", s.RejectComment)

	adminReports := admin.Group("/reports")
	adminReports.Get("/", s.AdminListReports)
	adminReports.Patch("/:id/dismiss", s.DismissReport)
	adminReports.Patch("/:id/resolve", s.ResolveReport)

	adminConsumables := admin.Group("/consumables", s.AdminRequired())
	adminConsumables.Post("/", s.CreateConsumableTemplate)
	adminConsumables.Put("/:id", s.UpdateConsumableTemplate)

	adminOwners := admin.Group("/establishment-owners", s.AdminRequired())
	adminOwners.Patch("/:id", s.UpdateEstablishmentOwner)
	adminOwners.Delete("/:id", s.RevokeEstablishmentOwner)
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
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	cacheStatus := "healthy"
	if err := s.cache.Ping(ctx); err != nil {
		cacheStatus = "unhealthy"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	} else if cacheStatus != "healthy" {
		overallStatus = "degraded"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"cache":    cacheStatus,
			"backend":  s.cache.Backend(),
		},
		"time": time.Now(),
	})
}

// Start builds the app and listens on the configured port.
func (s *Server) Start() error {
	app := s.NewApp()
	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if s.queue != nil {
		if err := s.queue.Close(); err != nil {
			middleware.Logger.Error("error closing queue client", slog.String("error", err.Error()))
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
