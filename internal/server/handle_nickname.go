package server

import (
	"errors"
	"net/http"

	"github.com/closergame/countryquiz/internal/game"
)

type NicknameRequest struct {
	Nickname string `json:"nickname"`
}

type NicknameResponse struct {
	Success     bool         `json:"success"`
	Leaderboard []game.Entry `json:"leaderboard"`
}

func handleNickname(engine *game.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := playerSession(r)

		var req NicknameRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		top, err := engine.SubmitNickname(r.Context(), sess, req.Nickname)
		if errors.Is(err, game.ErrNoPendingScore) {
			writeError(w, http.StatusBadRequest, "no finished game waiting for a nickname")
			return
		}
		var invalid *game.InvalidNicknameError
		if errors.As(err, &invalid) {
			writeError(w, http.StatusBadRequest, invalid.Error())
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, NicknameResponse{Success: true, Leaderboard: top})
	}
}
