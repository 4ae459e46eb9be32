package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/weather-lookup/internal/api/http"
	"github.com/i474232898/weather-lookup/internal/config"
	"github.com/i474232898/weather-lookup/internal/logger"
	"github.com/i474232898/weather-lookup/internal/scheduler"
	"github.com/i474232898/weather-lookup/internal/store"
	"github.com/i474232898/weather-lookup/internal/weather"
	"github.com/i474232898/weather-lookup/internal/weather/providers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info", "development").Fatalf("failed to load config: %v", err)
	}

	log := logger.New(cfg.LogLevel, cfg.Env).WithField("service", "weather-lookup")
	if cfg.EnvFileErr != nil {
		log.Infof("no .env file found or error loading it: %v", cfg.EnvFileErr)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// One provider serves both geocoding and weather so their shapes agree.
	provider, err := providers.New(cfg.Provider, providers.Options{
		Client:                httpClient,
		APIKey:                cfg.APIKey,
		OpenWeatherBaseURL:    cfg.OpenWeatherBaseURL,
		OpenMeteoGeocodingURL: cfg.OpenMeteoGeocodingURL,
		OpenMeteoForecastURL:  cfg.OpenMeteoForecastURL,
		Logger:                log,
	})
	if err != nil {
		log.Fatalf("failed to build weather provider: %v", err)
	}
	log.Infof("using weather provider %s", provider.Name())

	history, err := store.NewHistoryStore(cfg.HistoryFile, log)
	if err != nil {
		log.Fatalf("failed to open search history: %v", err)
	}

	service := weather.NewService(provider, provider, history, weather.NewNormalizer(cfg.Location()), log)

	// Retention job for the search history.
	sched := scheduler.New(history, cfg.HistoryPruneInterval, cfg.HistoryMaxEntries, cfg.HistoryMaxAge, log)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-lookup",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          2 * cfg.HTTPTimeout,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "ok",
			"service":  "weather-lookup",
			"provider": provider.Name(),
		})
	})

	httpapi.RegisterRoutes(app, service)

	if info, err := os.Stat(cfg.StaticDir); err == nil && info.IsDir() {
		app.Static("/", cfg.StaticDir)
	} else {
		log.Warnf("static directory %s not found; serving API only", cfg.StaticDir)
	}

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Errorf("fiber server stopped: %v", err)
		}
	}()
	log.Infof("listening on :%s", cfg.Port)

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Errorf("error during shutdown: %v", err)
	}
}
