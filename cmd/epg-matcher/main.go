package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"

	"github.com/titooo7/teamarr-sub001/internal/config"
	"github.com/titooo7/teamarr-sub001/internal/db"
	"github.com/titooo7/teamarr-sub001/internal/fingerprint"
	"github.com/titooo7/teamarr-sub001/internal/matching"
	"github.com/titooo7/teamarr-sub001/internal/providers/espn"
	"github.com/titooo7/teamarr-sub001/internal/runner"
	"github.com/titooo7/teamarr-sub001/internal/server"
	"github.com/titooo7/teamarr-sub001/internal/streams"
	"github.com/titooo7/teamarr-sub001/internal/textmatch"
)

func main() {
	log.Println("Starting EPG Matcher...")

	cfg := config.LoadConfig()

	// Initialize Redis client
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		log.Fatalf("Failed to parse Redis URL: %v", err)
	}
	redisClient := redis.NewClient(opts)
	defer redisClient.Close()

	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	log.Println("Connected to Redis")

	// Initialize alias store
	aliasStore, err := db.NewClient(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to alias database: %v", err)
	}
	defer aliasStore.Close()
	log.Println("Connected to alias database")

	// Initialize components
	provider := espn.New()
	fpStore := fingerprint.NewRedisStore(redisClient, cfg.Matching.CacheRetentionRuns)
	streamSource := streams.NewHTTPSource(cfg.StreamsURL)

	matcher := matching.NewMultiLeagueMatcher(
		cfg.Matching.Leagues,
		cfg.Matching.IncludeLeagues,
		matching.Config{
			ExceptionKeywords:  cfg.Matching.ExceptionKeywords,
			SingleEventLeagues: cfg.Matching.SingleEventLeagues,
			EventNameThreshold: eventNameThreshold(cfg),
		},
		provider,
		aliasStore,
	)
	cachedMatcher := matching.NewCachedMatcher(
		matcher, fpStore, provider,
		cfg.Matching.ChannelGroupID,
		cfg.Matching.ExcludeFinalEvents,
	)

	jobRunner := runner.New(cachedMatcher, streamSource,
		time.Duration(cfg.Matching.IntervalMinutes)*time.Minute)

	// Introspection endpoints
	handler := server.NewHandler(fpStore, jobRunner, map[string]server.Pinger{
		"redis":    redisPinger{redisClient},
		"postgres": aliasStore,
	})

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", handler.HealthCheck)
	r.Get("/stats", handler.Stats)
	r.Get("/runs/last", handler.LastRun)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	// Setup graceful shutdown
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Received shutdown signal")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	go func() {
		log.Printf("Introspection server listening on %s", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Run the periodic matching job until shutdown
	log.Printf("Matching leagues %v every %d minutes", cfg.Matching.Leagues, cfg.Matching.IntervalMinutes)
	jobRunner.Run(runCtx)

	log.Println("EPG Matcher stopped")
}

// eventNameThreshold selects the event-name pass threshold from config
func eventNameThreshold(cfg *config.Config) float64 {
	if cfg.Matching.StrictEventNames {
		return textmatch.StrictThreshold
	}
	return textmatch.DefaultThreshold
}

// redisPinger adapts the Redis client to the server.Pinger interface
type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
