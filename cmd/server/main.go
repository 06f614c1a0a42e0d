package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/habitstack/stickerdb/internal/auth"
	"github.com/habitstack/stickerdb/internal/config"
	"github.com/habitstack/stickerdb/internal/database"
	"github.com/habitstack/stickerdb/internal/handlers"
	"github.com/habitstack/stickerdb/internal/kvstore"
	"github.com/habitstack/stickerdb/internal/localstore"
	"github.com/habitstack/stickerdb/internal/middleware"
	"github.com/habitstack/stickerdb/internal/migration"
	"github.com/habitstack/stickerdb/internal/remotestore"
	"github.com/habitstack/stickerdb/internal/repository"
	"github.com/habitstack/stickerdb/internal/types"
	"github.com/habitstack/stickerdb/internal/utils"

	_ "github.com/habitstack/stickerdb/docs/api" // Swagger docs
)

// @title StickerDB API
// @version 1.0.0
// @description Habit sticker calendar service with local and remote persistence

// @contact.name API Support
// @contact.url https://github.com/habitstack/stickerdb

// @license.name MIT

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name cookie_session

func main() {
	// Load .env if present; real deployments use the environment directly.
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Open the local store medium
	localDB, err := database.ConnectLocal(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open local database")
	}
	defer database.Close(localDB)

	kv, err := kvstore.NewSQLite(localDB)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize local key-value store")
	}
	local := localstore.New(kv)

	// Remote backend is constructed only when configured; otherwise the
	// service runs permanently in local fallback mode.
	var remoteDB *gorm.DB
	var remoteBackend repository.RemoteBackend
	var migrator auth.Migrator
	var directory auth.UserDirectory
	var validate auth.SessionValidator

	if cfg.RemoteEnabled() {
		remoteDB, err = database.Connect(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to remote database")
		}
		defer database.Close(remoteDB)

		if err := database.AutoMigrate(remoteDB); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}

		remote := remotestore.New(remoteDB)
		remoteBackend = remote
		migrator = migration.New(kv, remote)
		directory = remote
		validate = auth.ValidateSession
	} else {
		log.Info().Msg("remote backend not configured, running local-only")
	}

	users := auth.NewLocalUsers(kv)
	coordinator := auth.NewCoordinator(cfg.RemoteEnabled(), users, migrator, directory, validate)
	factory := repository.NewFactory(local, remoteBackend, cfg.RemoteEnabled())

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("stickerdb")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API routes under /api
	api := app.Group("/api")
	api.Use(middleware.VersionMiddleware())
	api.Use(middleware.ResolveOwner(cfg, coordinator))

	// Create handlers
	authHandler := &handlers.AuthHandler{Coordinator: coordinator}
	calendarHandler := &handlers.CalendarHandler{Factory: factory}
	healthHandler := &handlers.HealthHandler{Cfg: cfg, LocalDB: localDB, RemoteDB: remoteDB}

	// Auth routes
	authGroup := api.Group("/auth")
	authGroup.Post("/signup", authHandler.SignUp)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Get("/session", authHandler.Session)

	// Calendar routes (guest and authenticated owners alike)
	calendar := api.Group("/calendar")
	calendar.Get("/:year/:month", calendarHandler.GetMonth)
	calendar.Get("/:year/:month/stats", calendarHandler.GetStats)
	calendar.Get("/:year/:month/labels", calendarHandler.GetLabels)
	calendar.Put("/:year/:month/labels/:category", calendarHandler.UpdateLabel)
	calendar.Post("/:year/:month/:day/toggle", calendarHandler.ToggleSticker)

	// Health route
	api.Get("/health", healthHandler.GetHealth)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return utils.NotFoundResponse(c, "[404] Resource Not Found")
	})

	// Graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sig
		log.Info().Msg("gracefully shutting down")
		_ = app.Shutdown()
	}()

	log.Info().Str("port", cfg.Port).Bool("remote", cfg.RemoteEnabled()).
		Msg("starting server")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}

	log.Info().Msg("server stopped")
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}
	if e, ok := err.(*types.CustomError); ok {
		code = e.Code
		message = e.Message
		errorType = e.Type
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    code,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}
