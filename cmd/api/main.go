package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/runtime"

	"github.com/buscador-establecimientos/backend/internal/adapters/cache"
	"github.com/buscador-establecimientos/backend/internal/adapters/database"
	"github.com/buscador-establecimientos/backend/internal/api/handlers"
	"github.com/buscador-establecimientos/backend/internal/api/middleware"
	"github.com/buscador-establecimientos/backend/internal/api/routes"
	"github.com/buscador-establecimientos/backend/internal/domain/providers"
	"github.com/buscador-establecimientos/backend/internal/domain/repositories"
	"github.com/buscador-establecimientos/backend/internal/infrastructure/clients/postgres"
	redisclient "github.com/buscador-establecimientos/backend/internal/infrastructure/clients/redis"
	"github.com/buscador-establecimientos/backend/internal/infrastructure/observability"
	"github.com/buscador-establecimientos/backend/internal/query/services"
	"github.com/buscador-establecimientos/backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var metrics *observability.Metrics
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := shutdown(shutdownCtx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()

			if err := runtime.Start(); err != nil {
				log.Warn().Err(err).Msg("failed to start runtime instrumentation")
			}

			metrics, err = observability.InitMetrics()
			if err != nil {
				log.Warn().Err(err).Msg("failed to initialize metrics")
			}
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	log.Info().Msg("PostgreSQL client initialized")

	// The service works without Redis; caching simply degrades to direct reads
	var cacheProvider providers.CacheProvider
	if cfg.Redis.Enabled {
		redisClient, err := redisclient.NewClient(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize Redis client, continuing without cache")
		} else {
			defer redisClient.Close()
			cacheProvider = cache.NewRedisAdapter(redisClient)
			log.Info().Msg("Redis client initialized")
		}
	}

	var repo repositories.EstablecimientoRepository = database.NewEstablecimientoAdapter(pgClient, metrics)
	if cacheProvider != nil {
		repo = database.NewCachedEstablecimientoAdapter(repo, cacheProvider)
	}

	queryService := services.NewEstablecimientoQueryService(repo)

	establecimientoHandler := handlers.NewEstablecimientoHandler(queryService)
	healthHandler := handlers.NewHealthHandler(queryService)

	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider, metrics)
	}

	router := routes.NewRouter(establecimientoHandler, healthHandler, cacheMiddleware, metrics)

	server := &http.Server{
		Addr:         cfg.Server.ServerAddr(),
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	log.Info().Msg("server stopped")
}
