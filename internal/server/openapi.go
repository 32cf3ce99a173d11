package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Closer Country API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the Closer Country geography quiz.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(map[string]struct {
		Status string `json:"status"`
	}{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getHealthz)

	// GET /api/round
	getRound, _ := r.NewOperationContext(http.MethodGet, "/api/round")
	getRound.SetSummary("Request a round")
	getRound.SetDescription("Returns the current round: a base country and two candidates. Idempotent while a round is outstanding — a refresh returns the same round.")
	getRound.AddRespStructure(RoundResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getRound.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusInternalServerError))
	_ = r.AddOperation(getRound)

	// POST /api/guess
	postGuess, _ := r.NewOperationContext(http.MethodPost, "/api/guess")
	postGuess.SetSummary("Submit a guess")
	postGuess.SetDescription("Resolves the outstanding round. A guess for a different round than the served one resets the session.")
	postGuess.AddReqStructure(GuessRequest{})
	postGuess.AddRespStructure(GuessResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postGuess.AddRespStructure(GuessResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	postGuess.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postGuess)

	// GET /api/gameover/map
	getMap, _ := r.NewOperationContext(http.MethodGet, "/api/gameover/map")
	getMap.SetSummary("Game-over map")
	getMap.SetDescription("GeoJSON feature collection with the three country shapes, nearest points and distance lines. Query params: base, t1, t2.")
	getMap.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("application/geo+json"))
	getMap.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getMap)

	// POST /api/nickname
	postNickname, _ := r.NewOperationContext(http.MethodPost, "/api/nickname")
	postNickname.SetSummary("Submit a nickname")
	postNickname.SetDescription("Records the pending final score on the leaderboard and returns the refreshed top list.")
	postNickname.AddReqStructure(NicknameRequest{})
	postNickname.AddRespStructure(NicknameResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postNickname.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postNickname)

	// GET /api/leaderboard
	getLeaderboard, _ := r.NewOperationContext(http.MethodGet, "/api/leaderboard")
	getLeaderboard.SetSummary("Leaderboard")
	getLeaderboard.AddRespStructure(LeaderboardResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getLeaderboard)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		json.NewEncoder(w).Encode(spec)
	}
}
