package catalog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

const (
	distancesFile = "distances.jsonl"
	codesFile     = "country_codes.json"
	shapesFile    = "countries.geo.json"
)

// Shape features are kept only for these values of the "type" property;
// dependencies, disputed areas etc. are not part of the game.
var validShapeTypes = map[string]bool{
	"Country":           true,
	"Sovereign country": true,
}

// Load reads the three data files from dir and builds a cross-validated
// Catalog.
func Load(logger *slog.Logger, dir string) (*Catalog, error) {
	distances, err := loadDistances(logger, filepath.Join(dir, distancesFile))
	if err != nil {
		return nil, fmt.Errorf("loading distances: %w", err)
	}

	codes, err := loadCodes(filepath.Join(dir, codesFile))
	if err != nil {
		return nil, fmt.Errorf("loading country codes: %w", err)
	}

	shapes, err := loadShapes(logger, filepath.Join(dir, shapesFile))
	if err != nil {
		return nil, fmt.Errorf("loading shapes: %w", err)
	}

	c, err := New(distances, codes, shapes)
	if err != nil {
		return nil, err
	}
	logger.Info("country catalog loaded",
		"distances", len(c.distances),
		"codes", len(codes),
		"shapes", len(shapes),
		"playable", len(c.playable),
	)
	return c, nil
}

// loadDistances parses the JSON-lines distance table. Malformed lines are
// skipped; duplicate pairs are resolved in New (minimum wins).
func loadDistances(logger *slog.Logger, path string) (map[[2]string]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	type line struct {
		Country1   string  `json:"country1"`
		Country2   string  `json:"country2"`
		DistanceKM float64 `json:"distance_km"`
	}

	distances := make(map[[2]string]float64)
	skipped := 0
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		var l line
		if err := json.Unmarshal(sc.Bytes(), &l); err != nil || l.Country1 == "" || l.Country2 == "" {
			skipped++
			continue
		}
		key := [2]string{l.Country1, l.Country2}
		if prev, ok := distances[key]; !ok || l.DistanceKM < prev {
			distances[key] = l.DistanceKM
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if skipped > 0 {
		logger.Warn("skipped malformed distance lines", "count", skipped)
	}
	return distances, nil
}

// loadCodes parses the name -> ISO code mapping. The first entry per name
// wins.
func loadCodes(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var entries []struct {
		Name string `json:"name"`
		Code string `json:"code"`
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}

	codes := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.Name == "" || e.Code == "" {
			continue
		}
		if _, ok := codes[e.Name]; !ok {
			codes[e.Name] = e.Code
		}
	}
	return codes, nil
}

// loadShapes parses the country GeoJSON and keeps named Country /
// Sovereign country features with usable geometry, normalized to
// MultiPolygon.
func loadShapes(logger *slog.Logger, path string) (map[string]orb.MultiPolygon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}

	shapes := make(map[string]orb.MultiPolygon)
	dropped := 0
	for _, f := range fc.Features {
		typ, _ := f.Properties["type"].(string)
		if !validShapeTypes[typ] {
			continue
		}
		name, _ := f.Properties["name_en"].(string)
		if name == "" {
			dropped++
			continue
		}

		var mp orb.MultiPolygon
		switch g := f.Geometry.(type) {
		case orb.Polygon:
			mp = orb.MultiPolygon{g}
		case orb.MultiPolygon:
			mp = g
		default:
			dropped++
			continue
		}
		if len(mp) == 0 {
			dropped++
			continue
		}

		// First feature per name wins.
		if _, ok := shapes[name]; !ok {
			shapes[name] = mp
		}
	}
	if dropped > 0 {
		logger.Debug("dropped shape features without name or polygon geometry", "count", dropped)
	}
	return shapes, nil
}
