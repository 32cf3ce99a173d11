package server

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/swaggest/swgui/v5emb"

	"github.com/closergame/countryquiz/internal/game"
	"github.com/closergame/countryquiz/internal/geo"
)

// Deps carries everything the routes need; constructed in main.
type Deps struct {
	Engine   *game.Engine
	Resolver *geo.Resolver
	Sessions *Sessions
	DB       *sql.DB
	Redis    *redis.Client // nil when the cache is disabled
	// AdminPasswordHash enables the admin routes when non-empty.
	AdminPasswordHash string
	Scores            ScoreAdmin
	SPADir            string
}

// ScoreAdmin is the moderation surface over the score store.
type ScoreAdmin interface {
	DeleteEntry(ctx context.Context, nickname string) error
}

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Closer Country API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, deps.DB, deps.Redis))
	r.Method("GET", "/metrics", promhttp.Handler())

	// Player routes — identity resolved by the session cookie.
	r.Route("/api", func(r chi.Router) {
		r.Use(sessionMiddleware(deps.Sessions))
		r.Get("/round", handleRound(logger, deps.Engine))
		r.Post("/guess", handleGuess(logger, deps.Engine))
		r.Get("/gameover/map", handleMap(logger, deps.Resolver))
		r.Post("/nickname", handleNickname(deps.Engine))
		r.Get("/leaderboard", handleLeaderboard(logger, deps.Engine))
	})

	if deps.AdminPasswordHash != "" {
		admins := newAdminSessions()
		r.Post("/api/admin/login", handleAdminLogin(deps.AdminPasswordHash, admins))
		r.Post("/api/admin/logout", handleAdminLogout(admins))
		r.Route("/api/admin/leaderboard", func(r chi.Router) {
			r.Use(adminAuthMiddleware(admins))
			r.Delete("/{nickname}", handleAdminDeleteEntry(logger, deps.Scores))
		})
	}

	if deps.SPADir != "" {
		if info, err := os.Stat(deps.SPADir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", deps.SPADir)
			r.NotFound(handleSPA(deps.SPADir))
		}
	}
}
