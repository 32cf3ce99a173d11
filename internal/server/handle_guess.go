package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/closergame/countryquiz/internal/game"
)

type GuessRequest struct {
	BaseCountryName   string `json:"baseCountryName"`
	ChosenCountryName string `json:"chosenCountryName"`
	OtherCountryName  string `json:"otherCountryName"`
}

type MapParams struct {
	Base string `json:"base"`
	T1   string `json:"t1"`
	T2   string `json:"t2"`
}

type GuessResponse struct {
	Correct       bool    `json:"correct"`
	ChosenDist    float64 `json:"chosenDist"`
	OtherDist     float64 `json:"otherDist"`
	CloserCountry string  `json:"closerCountry"`

	Score     int  `json:"score,omitempty"`
	Highscore int  `json:"highscore"`
	NewBest   bool `json:"newHighscore,omitempty"`

	GameOver         bool       `json:"gameOver,omitempty"`
	FinalScore       int        `json:"finalScore"`
	MapAvailable     bool       `json:"mapAvailable,omitempty"`
	MapParams        *MapParams `json:"mapParams,omitempty"`
	PromptNickname   bool       `json:"promptNickname,omitempty"`
	ExistingNickname string     `json:"existingNickname,omitempty"`
}

func handleGuess(logger *slog.Logger, engine *game.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := playerSession(r)

		var req GuessRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.BaseCountryName = strings.TrimSpace(req.BaseCountryName)
		req.ChosenCountryName = strings.TrimSpace(req.ChosenCountryName)
		req.OtherCountryName = strings.TrimSpace(req.OtherCountryName)
		if req.BaseCountryName == "" || req.ChosenCountryName == "" || req.OtherCountryName == "" {
			writeError(w, http.StatusBadRequest, "baseCountryName, chosenCountryName and otherCountryName are required")
			return
		}

		res, err := engine.SubmitGuess(r.Context(), sess, req.BaseCountryName, req.ChosenCountryName, req.OtherCountryName)
		if errors.Is(err, game.ErrRoundMismatch) {
			// Stale client state: the session was reset, the player
			// starts over from zero.
			writeJSON(w, http.StatusConflict, GuessResponse{
				GameOver:   true,
				FinalScore: 0,
			})
			return
		}
		if errors.Is(err, game.ErrMissingDistance) {
			logger.Error("distance data missing", "base", req.BaseCountryName, "error", err)
			writeError(w, http.StatusInternalServerError, "missing distance data")
			return
		}
		if err != nil {
			logger.Error("submitting guess", "player", sess.PlayerID(), "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if res.Correct {
			guesses.WithLabelValues("correct").Inc()
		} else {
			guesses.WithLabelValues("incorrect").Inc()
		}

		resp := GuessResponse{
			Correct:       res.Correct,
			ChosenDist:    res.ChosenDistance,
			OtherDist:     res.OtherDistance,
			CloserCountry: res.CloserCountry,
			Score:         res.Score,
			Highscore:     res.Best,
			NewBest:       res.NewBest,
		}
		if res.GameOver {
			resp.GameOver = true
			resp.FinalScore = res.FinalScore
			resp.MapAvailable = true
			resp.MapParams = &MapParams{
				Base: res.MapRound.Base,
				T1:   res.MapRound.Target1,
				T2:   res.MapRound.Target2,
			}
			resp.PromptNickname = res.PromptNickname
			resp.ExistingNickname = res.ExistingNickname
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
