package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/dharmasatrya/flightfinder/internal/aggregator"
	"github.com/dharmasatrya/flightfinder/internal/cache"
	"github.com/dharmasatrya/flightfinder/internal/config"
	"github.com/dharmasatrya/flightfinder/internal/handler"
	"github.com/dharmasatrya/flightfinder/internal/pricecalendar"
	"github.com/dharmasatrya/flightfinder/internal/providers"
	"github.com/dharmasatrya/flightfinder/internal/ratelimit"
	"github.com/dharmasatrya/flightfinder/internal/recent"
	"github.com/dharmasatrya/flightfinder/internal/storage"
)

const serviceName = "flightfinder"

// Per-provider request budgets.
var providerLimits = map[string]struct {
	rps   float64
	burst int
}{
	"indian-carriers":   {20, 30},
	"european-carriers": {15, 25},
	"american-carriers": {10, 20},
}

func main() {
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	log = log.Level(cfg.LogLevel)

	store, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open store")
	}
	defer store.Close()
	log.Info().Str("backend", cfg.StoreBackend).Msg("store ready")

	mockCfg := providers.DefaultMockConfig()
	mockCfg.Seed = cfg.MockSeed
	providerList, err := providers.DefaultProviders(mockCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize providers")
	}
	log.Info().Int("count", len(providerList)).Msg("providers initialized")

	providerLimiter := ratelimit.NewKeyedLimiterWithDefaults()
	for name, l := range providerLimits {
		providerLimiter.SetLimit(name, l.rps, l.burst)
	}

	aggConfig := aggregator.DefaultConfig()
	aggConfig.Timeout = cfg.SearchTimeout
	aggConfig.RateLimiter = providerLimiter
	breaker := aggregator.DefaultBreakerConfig()
	aggConfig.Breaker = &breaker
	aggConfig.Logger = log.With().Str("component", "aggregator").Logger()
	agg := aggregator.NewAggregator(providerList, aggConfig)

	var searchCache cache.Cache = cache.NewNoOpCache()
	if cfg.CacheEnabled {
		searchCache = cache.NewStoreCache(store, cfg.SearchCacheTTL, log.With().Str("component", "cache").Logger())
		log.Info().Dur("ttl", cfg.SearchCacheTTL).Msg("search cache enabled")
	}

	recentSearches := recent.NewService(store, log.With().Str("component", "recent").Logger())

	calCfg := pricecalendar.DefaultConfig()
	calCfg.Seed = cfg.MockSeed
	calendar := pricecalendar.NewService(store, log.With().Str("component", "pricecalendar").Logger(), calCfg)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestID())
	e.Use(handler.RequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	clientLimiter := ratelimit.NewKeyedLimiter(ratelimit.Config{
		RequestsPerSecond: cfg.ClientRPS,
		BurstSize:         cfg.ClientBurst,
	})
	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	go clientLimiter.RunJanitor(janitorCtx, time.Minute, 10*time.Minute)
	e.Use(ratelimit.Middleware(clientLimiter))

	handler.RegisterRoutes(e, handler.Handlers{
		Search: handler.NewSearchHandler(agg, searchCache, recentSearches, log.With().Str("component", "search").Logger()),
		Recent: handler.NewRecentHandler(recentSearches),
		Prices: handler.NewPriceHandler(calendar),
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting flight finder server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func openStore(cfg *config.Config) (storage.Store, error) {
	if cfg.StoreBackend != config.StoreRedis {
		return storage.NewMemoryStore(), nil
	}

	redisCfg := storage.DefaultRedisConfig()
	redisCfg.Host = cfg.RedisHost
	redisCfg.Port = cfg.RedisPort
	redisCfg.Password = cfg.RedisPassword
	redisCfg.DB = cfg.RedisDB
	s, err := storage.NewRedisStore(redisCfg)
	if err != nil {
		return nil, err
	}
	return s, nil
}
