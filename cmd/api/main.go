package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"PawPulse/internal/config"
	"PawPulse/internal/database"
	"PawPulse/internal/directory"
	"PawPulse/internal/geminiservice"
	"PawPulse/internal/geocode"
	"PawPulse/internal/pet"
	"PawPulse/internal/photostore"
	"PawPulse/internal/responsecache"
	"PawPulse/internal/server"
	"PawPulse/internal/utility"
	"PawPulse/internal/wizard"
)

func gracefulShutdown(apiServer *http.Server, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	log.Info().Msg("shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")

	// Notify the main goroutine that the shutdown is complete
	done <- true
}

func setupLogging(cfg config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	zerolog.DefaultContextLogger = &log.Logger
}

// newCacheStore picks Redis when REDIS_ADDR is set, else an in-process LRU.
// It also returns the backend name and a close func.
func newCacheStore(ctx context.Context, cfg config.Config) (responsecache.Store, string, func(), error) {
	if cfg.RedisAddr == "" {
		store, err := responsecache.NewMemoryStore(cfg.CacheMaxEntries)
		return store, "memory", func() {}, err
	}

	client, err := responsecache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, "", nil, err
	}
	log.Info().Str("addr", cfg.RedisAddr).Msg("Using Redis response cache")
	return responsecache.NewRedisStore(client, "pawpulse:cache", responsecache.DefaultRetention), "redis", func() { client.Close() }, nil
}

func main() {
	cfg, err := config.Load()
	setupLogging(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Fatal error: invalid configuration")
	}

	ctx := context.Background()

	// 1. AI gateway
	provider, err := geminiservice.NewGenAIProvider(ctx, cfg.GeminiAPIKey)
	if err != nil {
		log.Fatal().Err(err).Msg("Fatal error: could not create Gemini client")
	}
	store, backend, closeStore, err := newCacheStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Fatal error: could not create response cache")
	}
	defer closeStore()

	cache := responsecache.New(store, responsecache.WithTTL(cfg.CacheTTL))
	gateway := geminiservice.NewGateway(provider, cache, geminiservice.WithModels(cfg.Models))

	deps := pet.Deps{
		AI:      gateway,
		Wizards: wizard.NewStore(wizard.DefaultStoreSize, wizard.DefaultIdleTTL),
		Hub:     utility.NewHub(),
	}

	// 2. Optional collaborators. Interfaces are only set when configured so
	// that an absent one stays a plain nil.
	var db database.Service
	if cfg.Database != nil {
		db, err = database.NewService(ctx, *cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("Fatal error: could not connect to database")
		}
		defer db.Close()
		deps.Records = db.Queries()
	} else {
		log.Warn().Msg("BLUEPRINT_DB_HOST not set, assessments will not be stored")
	}

	if cfg.PhotoBucket != "" {
		photos, err := photostore.NewFromEnv(ctx, cfg.PhotoBucket, cfg.AWSRegion)
		if err != nil {
			log.Fatal().Err(err).Msg("Fatal error: could not configure photo storage")
		}
		deps.Photos = photos
	}

	if cfg.GoogleMapsAPIKey != "" {
		geo, err := geocode.New(cfg.GoogleMapsAPIKey)
		if err != nil {
			log.Fatal().Err(err).Msg("Fatal error: could not create geocoding client")
		}
		deps.Geocoder = geo
	}

	if cfg.PetfinderClientID != "" && cfg.PetfinderClientSecret != "" {
		deps.Directory = directory.New(ctx, cfg.PetfinderClientID, cfg.PetfinderClientSecret)
	}

	// 3. HTTP server
	apiServer := server.NewServer(server.Options{
		Port:    cfg.Port,
		DB:      db,
		Pets:    pet.NewHandler(deps),
		Limiter: utility.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute),

		CacheBackend: backend,
		CacheTTL:     cfg.CacheTTL,
	})

	// Create a done channel to signal when the shutdown is complete
	done := make(chan bool, 1)

	// Run graceful shutdown in a separate goroutine
	go gracefulShutdown(apiServer, done)

	log.Info().Str("addr", apiServer.Addr).Msg("Starting PawPulse API")
	err = apiServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server error")
	}

	// Wait for the graceful shutdown to complete
	<-done
	log.Info().Msg("Graceful shutdown complete.")
}
