package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"househunt/internal/apiclient"
	"househunt/internal/auth"
	"househunt/internal/cache"
	"househunt/internal/config"
	"househunt/internal/db"
	"househunt/internal/handler"
	"househunt/internal/repository"
	"househunt/internal/router"
	"househunt/internal/service"
	"househunt/internal/storage"
)

// @title HouseHunt Gateway API
// @version 1.0
// @description Property rental marketplace gateway: device sessions, role-guarded pages and owner booking decisions.
// @host localhost:8080
// @BasePath /
// @schemes http
func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	// Device storage: Redis when configured, process memory otherwise.
	var cacheClient *cache.Client
	var devices storage.Provider
	if cfg.RedisAddr != "" {
		cacheClient = cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := cacheClient.Ping(pingCtx); err != nil {
			logger.Warn("redis unreachable, sessions will not persist until it is back", "addr", cfg.RedisAddr, "error", err)
		}
		cancel()
		devices = storage.NewRedisProvider(cacheClient, cfg.SessionTTL)
	} else {
		logger.Warn("REDIS_ADDR not set, keeping device sessions in memory")
		devices = storage.NewMemoryProvider()
	}

	// Audit ledger: MySQL when configured, disabled otherwise.
	var actionRepo repository.BookingActionRepository
	if cfg.MySQLDSN != "" {
		gormDB, err := db.NewMySQL(cfg.MySQLDSN)
		if err != nil {
			logger.Error("database init", "error", err)
			os.Exit(1)
		}
		if err := db.Migrate(gormDB); err != nil {
			logger.Error("database migrate", "error", err)
			os.Exit(1)
		}
		defer func() { _ = db.Close(gormDB) }()
		actionRepo = repository.NewBookingActionRepository(gormDB)
	} else {
		logger.Info("MYSQL_DSN not set, booking audit ledger disabled")
	}
	actionLogger := service.NewActionLogger(actionRepo, logger)

	api := apiclient.New(cfg.APIBaseURL, cfg.APITimeout, logger)
	jwtService := auth.NewJWTService(cfg.DeviceSecret)

	// Initialize services
	authService := service.NewAuthService(api)
	propertyService := service.NewPropertyService(api, cacheClient, cfg.PropertyCacheTTL, logger)
	bookingService := service.NewBookingService(api, propertyService, actionLogger, logger)
	userService := service.NewUserService(api, propertyService, bookingService)
	adminService := service.NewAdminService(api, propertyService, actionLogger)

	e := echo.New()
	e.HideBanner = true

	// Register routes
	router.Register(e, cfg, logger, jwtService, devices, router.Handlers{
		Pages:      handler.NewPageHandler(propertyService, bookingService, userService, adminService),
		Auth:       handler.NewAuthHandler(authService),
		Properties: handler.NewPropertyHandler(propertyService),
		Bookings:   handler.NewBookingHandler(bookingService),
		Users:      handler.NewUserHandler(userService),
		Admin:      handler.NewAdminHandler(adminService),
	})

	logger.Info("swagger documentation available", "url", swaggerURL(cfg))

	go func() {
		addr := ":" + cfg.ServerPort
		logger.Info("server starting", "addr", addr, "api", cfg.APIBaseURL)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	actionLogger.Close()
	_ = cacheClient.Close()
	logger.Info("server stopped")
}

// swaggerURL is where the Swagger UI is served. SwaggerHost may already
// include a scheme.
func swaggerURL(cfg *config.Config) string {
	host := cfg.SwaggerHost
	if host == "" {
		host = "localhost:" + cfg.ServerPort
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return strings.TrimRight(host, "/") + "/swagger/index.html"
}
