package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	httpapi "github.com/i474232898/city-weather/internal/api/http"
	"github.com/i474232898/city-weather/internal/config"
	"github.com/i474232898/city-weather/internal/metrics"
	"github.com/i474232898/city-weather/internal/scheduler"
	"github.com/i474232898/city-weather/internal/store"
	"github.com/i474232898/city-weather/internal/weather"
	"github.com/i474232898/city-weather/internal/weather/providers"
	"github.com/i474232898/city-weather/internal/widget"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	codes, err := weather.LoadCodeTableFile(cfg.WeatherCodesFile)
	if err != nil {
		logger.Fatal("failed to load weather codes", zap.String("file", cfg.WeatherCodesFile), zap.Error(err))
	}

	// Shared HTTP client for outbound calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	var geo weather.Geocoder
	if cfg.GeocoderAPIKey != "" {
		geo = providers.NewGoogleGeocoder(cfg.GeocoderAPIKey)
	} else {
		geo = providers.NewOpenMeteoGeocoder(httpClient, providers.GeocodingOptions{
			BaseURL:  cfg.GeocodingEndpoint,
			Count:    cfg.GeocodingResultCount,
			Language: cfg.GeocodingLanguage,
		})
	}
	var fetcher weather.Fetcher = providers.NewOpenMeteoProvider(httpClient, cfg.WeatherEndpoint)

	// Caller-side policy: breaker and timeout wrap the single-call clients.
	if cfg.BreakerEnabled {
		geo = providers.GeocoderWithBreaker(geo, providers.DefaultBreakerSettings(), logger)
		fetcher = providers.FetcherWithBreaker(fetcher, providers.DefaultBreakerSettings(), logger)
	}
	geo = providers.GeocoderWithTimeout(geo, cfg.RequestTimeout)
	fetcher = providers.FetcherWithTimeout(fetcher, cfg.RequestTimeout)

	collector := metrics.NewCollector()
	geo = collector.Geocoder(geo)
	fetcher = collector.Fetcher(fetcher)

	sessions := store.NewMemoryStore(cfg.SessionIdleTTL)
	collector.TrackSessions(sessions.Len)

	newWidget := func() (*widget.Widget, error) {
		return widget.New(geo, fetcher, codes, widget.Options{
			DefaultCity: cfg.DefaultCity,
			Logger:      logger,
			Observer:    collector,
		})
	}

	// Evicts sessions nobody has touched for SessionIdleTTL.
	sched := scheduler.New(sessions, cfg.SessionSweepInterval, logger)
	if err := sched.Start(); err != nil {
		logger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "city-weather",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(fiberlogger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "city-weather",
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(collector.Handler()))

	httpapi.RegisterRoutes(app, sessions, newWidget)

	go func() {
		logger.Info("listening", zap.String("port", cfg.Port), zap.String("default_city", cfg.DefaultCity.Name))
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Warn("fiber server stopped", zap.Error(err))
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Warn("error during shutdown", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	cfg.Level = lvl
	return cfg.Build()
}
