package server

import (
	"log/slog"
	"net/http"

	"github.com/closergame/countryquiz/internal/game"
)

// CountryRef is a country as the client sees it: name plus the ISO code
// used for flag assets.
type CountryRef struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

type RoundResponse struct {
	GameOver bool   `json:"gameOver,omitempty"`
	Message  string `json:"message,omitempty"`

	BaseCountry *CountryRef `json:"baseCountry,omitempty"`
	Target1     *CountryRef `json:"target1,omitempty"`
	Target2     *CountryRef `json:"target2,omitempty"`

	Score     int `json:"score"`
	Highscore int `json:"highscore"`

	// PrefetchCodes lets the client fetch the likely next-round flags
	// ahead of time.
	PrefetchCodes []string `json:"prefetchCodes,omitempty"`
}

func handleRound(logger *slog.Logger, engine *game.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := playerSession(r)

		res, err := engine.RequestRound(r.Context(), sess)
		if err != nil {
			logger.Error("requesting round", "player", sess.PlayerID(), "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if res.GameOver {
			writeJSON(w, http.StatusOK, RoundResponse{
				GameOver: true,
				Message:  "not enough countries left to play",
			})
			return
		}

		roundsServed.Inc()
		writeJSON(w, http.StatusOK, RoundResponse{
			BaseCountry:   &CountryRef{Name: res.Round.Base, Code: res.BaseCode},
			Target1:       &CountryRef{Name: res.Round.Target1, Code: res.Target1Code},
			Target2:       &CountryRef{Name: res.Round.Target2, Code: res.Target2Code},
			Score:         res.Score,
			Highscore:     res.Best,
			PrefetchCodes: res.PrefetchCodes,
		})
	}
}
