package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/navina/travelguide/internal/adapters/cache"
	"github.com/navina/travelguide/internal/adapters/database"
	"github.com/navina/travelguide/internal/adapters/events"
	"github.com/navina/travelguide/internal/api/handlers"
	"github.com/navina/travelguide/internal/api/middleware"
	"github.com/navina/travelguide/internal/api/routes"
	"github.com/navina/travelguide/internal/application/assistant"
	"github.com/navina/travelguide/internal/application/services"
	"github.com/navina/travelguide/internal/domain/providers"
	"github.com/navina/travelguide/internal/infrastructure/clients/postgres"
	"github.com/navina/travelguide/internal/infrastructure/clients/redis"
	"github.com/navina/travelguide/internal/infrastructure/observability"
	"github.com/navina/travelguide/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env, cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	// Redis is optional: without it caching falls back to process memory
	// and transcript streaming is disabled.
	var cacheProvider providers.CacheProvider
	var eventBus providers.EventBus
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, using in-memory cache and disabling streams")
		cacheProvider = cache.NewMemoryAdapter(5*time.Minute, 10*time.Minute)
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient, cfg.Redis.Namespace)
		eventBus = events.NewRedisEventBus(redisClient)
	}

	facts, err := assistant.LoadFacts(cfg.Assistant.FactsPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Assistant.FactsPath).Msg("failed to load guide facts")
	}
	var classifierOpts []assistant.Option
	if cfg.Assistant.RandomSeed != 0 {
		classifierOpts = append(classifierOpts, assistant.WithRandomSource(assistant.NewSeededSource(cfg.Assistant.RandomSeed)))
	}
	classifier := assistant.NewClassifier(facts, classifierOpts...)

	// Adapters
	poiRepo := database.NewCachedPOIAdapter(database.NewPOIAdapter(pgClient), cacheProvider, metrics)
	tourRepo := database.NewTourAdapter(pgClient)
	userRepo := database.NewUserAdapter(pgClient)
	conversationRepo := database.NewConversationAdapter(pgClient)

	// Services
	poiService := services.NewPOIService(poiRepo, cfg.Ranking.NearbyRadiusMeters)
	tourService := services.NewTourService(tourRepo, userRepo, cfg.Ranking.TourLimit)
	userService := services.NewUserService(userRepo)
	conversationService := services.NewConversationService(conversationRepo, classifier, eventBus, cfg.Ranking.HistoryLimit)

	services.NewCacheWarmingService(poiRepo).StartPeriodicWarming(ctx, cfg.Cache.WarmInterval)

	router := routes.NewRouter(
		handlers.NewUserHandler(userService, conversationService),
		handlers.NewPOIHandler(poiService),
		handlers.NewTourHandler(tourService),
		handlers.NewConversationHandler(conversationService),
		handlers.NewSSEHandler(eventBus),
		poiRepo,
		tourRepo,
		middleware.NewCacheMiddleware(cacheProvider, middleware.DefaultCacheRules(), metrics),
		cfg.CORS.AllowedOrigins,
		metrics,
	)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:        serverAddr,
		Handler:     router.SetupRoutes(),
		ReadTimeout: 15 * time.Second,
		// No write timeout: transcript streams stay open
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}
	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Error().Err(err).Msg("error closing event bus")
		}
	}

	log.Info().Msg("server stopped")
}
