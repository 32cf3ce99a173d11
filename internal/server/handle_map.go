package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/closergame/countryquiz/internal/geo"
)

// handleMap builds the game-over map as a GeoJSON feature collection.
// The three country names come back from the guess response's mapParams.
func handleMap(logger *slog.Logger, resolver *geo.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		base, t1, t2 := q.Get("base"), q.Get("t1"), q.Get("t2")
		if base == "" || t1 == "" || t2 == "" {
			writeError(w, http.StatusBadRequest, "base, t1 and t2 are required")
			return
		}

		fc, err := resolver.Resolve(base, t1, t2)
		var notFound *geo.ShapeNotFoundError
		if errors.As(err, &notFound) {
			writeJSON(w, http.StatusNotFound, map[string]any{
				"error":   "no shape data for requested countries",
				"missing": notFound.Missing,
			})
			return
		}
		if errors.Is(err, geo.ErrIncompleteResolution) {
			writeError(w, http.StatusNotFound, "could not resolve all country shapes")
			return
		}
		if err != nil {
			logger.Error("resolving map", "base", base, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		mapsRendered.Inc()
		writeJSON(w, http.StatusOK, fc)
	}
}
