package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"Channelcast/internal/api/middleware"
	"Channelcast/internal/api/routes"
	"Channelcast/internal/config"
	"Channelcast/internal/core/feed"
	"Channelcast/internal/core/posts"
	"Channelcast/internal/core/reactions"
	postgresRepo "Channelcast/internal/db/postgres"
)

func main() {
	cfg := config.Load()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	log.Println("Connected to database")

	// Run migrations
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal("Failed to set goose dialect:", err)
	}
	if err := goose.Up(db, cfg.MigrationsDir); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	log.Println("Migrations completed successfully")

	// Redis buffers view counts; the service degrades to write-through
	// without it
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Printf("Redis connection warning: %v (continuing without view buffer)", err)
			rdb = nil
		} else {
			log.Println("Redis connected")
		}
		cancel()
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Initialize repositories and services
	postRepo := postgresRepo.NewPostRepository(db)
	reactionRepo := postgresRepo.NewReactionRepository(db)

	viewCounter := posts.NewViewCounter(rdb, postRepo, cfg.ViewFlushInterval, logger)
	viewCounter.Start()
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := viewCounter.Close(flushCtx); err != nil {
			log.Printf("Failed to drain view counter: %v", err)
		}
		cancel()
	}()

	postService := posts.NewService(postRepo, viewCounter, logger)
	feedService := feed.NewService(postRepo)
	reactionService := reactions.NewService(reactionRepo, logger)

	authMiddleware := middleware.NewJWTAuthMiddleware([]byte(cfg.JWTSecret))

	r := chi.NewRouter()

	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)

	// Rate limiting: 100 requests per minute per IP
	rateLimiter := middleware.NewRateLimiter(100, 1*time.Minute)
	r.Use(rateLimiter.Middleware)

	routes.RegisterFeedRoutes(r, feedService, authMiddleware)
	routes.RegisterPostRoutes(r, postService, authMiddleware)
	routes.RegisterReactionRoutes(r, reactionService, authMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	fmt.Printf("Channelcast starting on port %s\n", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, r))
}
