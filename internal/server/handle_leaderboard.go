package server

import (
	"log/slog"
	"net/http"

	"github.com/closergame/countryquiz/internal/game"
)

type LeaderboardResponse struct {
	Leaderboard []game.Entry `json:"leaderboard"`
}

func handleLeaderboard(logger *slog.Logger, engine *game.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		top, err := engine.Top(r.Context())
		if err != nil {
			logger.Error("reading leaderboard", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, LeaderboardResponse{Leaderboard: top})
	}
}
