package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"holidaytracker/internal/auth"
	"holidaytracker/internal/cache"
	"holidaytracker/internal/config"
	"holidaytracker/internal/db"
	"holidaytracker/internal/handler"
	"holidaytracker/internal/logging"
	"holidaytracker/internal/model"
	"holidaytracker/internal/reporting"
	"holidaytracker/internal/repository"
	"holidaytracker/internal/router"
	"holidaytracker/internal/service"
)

var version = "dev"

// @title Holiday Tracker API
// @version 1.0
// @description Personal holiday tracking API with JWT authentication and owner-scoped holiday records.
// @host localhost:5000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	reporter, err := reporting.New(cfg.SentryDSN, cfg.SentryEnv, version)
	if err != nil {
		logger.Fatalf("init error reporting: %v", err)
	}
	defer reporter.Flush(2 * time.Second)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Store == config.StoreGorm && os.Getenv("RESET_DB") == "true" {
		resetDatabase(cfg, logger)
	}

	store, err := db.OpenStore(cfg, logger)
	if err != nil {
		logger.Fatalf("open store: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warnf("close store: %v", err)
		}
	}()

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	var cachePinger handler.Pinger
	svcCache := service.NoCache
	if cacheClient != nil {
		cachePinger, svcCache = cacheClient, cacheClient
		if err := cacheClient.Ping(ctx); err != nil {
			logger.Warnf("redis unavailable at %s, serving without cache: %v", cfg.RedisAddr, err)
		}
	}

	// Initialize auth components
	jwtService := auth.NewJWTService(auth.TokenConfig{
		Secret: cfg.JWTSecret,
		TTL:    cfg.JWTTTL,
		Issuer: cfg.JWTIssuer,
	})
	hasher := auth.NewArgon2Hasher(auth.Argon2Params{
		Memory:      cfg.Argon2Memory,
		Iterations:  cfg.Argon2Iterations,
		Parallelism: uint8(cfg.Argon2Parallelism),
	})

	// Initialize services
	authService := service.NewAuthService(store.Users, hasher, jwtService)
	userService := service.NewUserService(store.Users, svcCache)
	holidayService := service.NewHolidayService(store.Holidays, svcCache, cfg.CacheTTL, logger)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	holidayHandler := handler.NewHolidayHandler(holidayService)
	healthHandler := handler.NewHealthHandler(store, cachePinger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Register routes
	router.Register(
		e,
		cfg,
		logger,
		reporter,
		jwtService,
		authHandler,
		userHandler,
		holidayHandler,
		healthHandler,
	)

	logger.Infof("Swagger documentation available at: %s", swaggerURL(cfg.SwaggerHost, cfg.ServerPort))

	addr := ":" + cfg.ServerPort
	go func() {
		logger.Infof("listening on %s", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server start: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}
	logger.Info("bye")
}

// resetDatabase drops the schema before migrations recreate it.
func resetDatabase(cfg *config.Config, logger *logrus.Logger) {
	logger.Warn("RESET_DB=true detected, dropping all tables...")
	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN, logger)
	if err != nil {
		logger.Fatalf("database init: %v", err)
	}
	for _, table := range []interface{}{&model.Holiday{}, &model.User{}} {
		if err := gormDB.Migrator().DropTable(table); err != nil {
			logger.Warnf("failed to drop table (may not exist): %v", err)
		}
	}
	if err := repository.NewGormStore(gormDB).Close(); err != nil {
		logger.Warnf("close reset connection: %v", err)
	}
	logger.Info("tables dropped")
}

func swaggerURL(host, port string) string {
	if host == "" {
		return "http://localhost:" + port + "/swagger/index.html"
	}
	// SwaggerHost may already include scheme (http:// or https://)
	if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
		return host + "/swagger/index.html"
	}
	return "http://" + host + "/swagger/index.html"
}
