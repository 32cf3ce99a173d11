package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/closergame/countryquiz/internal/catalog"
	"github.com/closergame/countryquiz/internal/config"
	"github.com/closergame/countryquiz/internal/database"
	"github.com/closergame/countryquiz/internal/game"
	"github.com/closergame/countryquiz/internal/geo"
	"github.com/closergame/countryquiz/internal/migrations"
	"github.com/closergame/countryquiz/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- Country catalog ---
	cat, err := catalog.Load(logger, cfg.DataDir)
	if err != nil {
		return fmt.Errorf("loading country catalog: %w", err)
	}

	// --- SQLite ---
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath)

	// --- Score store, with optional redis leaderboard cache ---
	sqliteStore := server.NewSQLiteStore(db)
	var scores game.ScoreStore = sqliteStore
	var scoreAdmin server.ScoreAdmin = sqliteStore

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = openRedis(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer rdb.Close()
		logger.Info("connected to redis, leaderboard cache enabled")

		cached := server.NewCachedScoreStore(sqliteStore, rdb, logger)
		scores = cached
		scoreAdmin = cached
	}

	// --- Game engine and map resolver ---
	engine := game.NewEngine(cat, scores, nil, cfg.LeaderboardSize)
	resolver := geo.NewResolver(cat)

	// --- HTTP server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Engine:            engine,
		Resolver:          resolver,
		Sessions:          server.NewSessions(),
		DB:                db,
		Redis:             rdb,
		AdminPasswordHash: cfg.AdminPasswordHash,
		Scores:            scoreAdmin,
		SPADir:            cfg.SPADir,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}

func openRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return rdb, nil
}
