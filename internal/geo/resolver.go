// Package geo resolves the post-game map: country shapes, the nearest
// points between base and each target, and the geodesic distances
// between those points.
package geo

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/simplify"
	"github.com/tidwall/geodesic"
)

// Display simplification tolerance in degrees. Measurement always runs on
// the original geometry; simplification can move the nearest points.
const simplifyTolerance = 0.05

const (
	colorBase   = "dodgerblue"
	colorTarget = "orangered"
)

// ShapeNotFoundError lists every requested country with no shape in the
// catalog. All three names are validated before any geometry work.
type ShapeNotFoundError struct {
	Missing []string
}

func (e *ShapeNotFoundError) Error() string {
	return fmt.Sprintf("no shape data for: %s", strings.Join(e.Missing, ", "))
}

// ErrIncompleteResolution means a shape existed but was empty or invalid
// after merging, leaving fewer than three usable geometries.
var ErrIncompleteResolution = errors.New("could not resolve all country shapes")

// ShapeSource yields country geometry by name. *catalog.Catalog
// satisfies it.
type ShapeSource interface {
	Shape(name string) (orb.MultiPolygon, bool)
}

type Resolver struct {
	shapes ShapeSource
}

func NewResolver(shapes ShapeSource) *Resolver {
	return &Resolver{shapes: shapes}
}

// Resolve builds the game-over map for base vs the two targets: three
// shape features (simplified for transmission), four nearest-point
// features and two distance lines measured on the original geometry.
// Always nine features on success.
func (r *Resolver) Resolve(base, target1, target2 string) (*geojson.FeatureCollection, error) {
	names := []string{base, target1, target2}

	var missing []string
	shapes := make(map[string]orb.MultiPolygon, len(names))
	for _, name := range names {
		mp, ok := r.shapes.Shape(name)
		if !ok {
			missing = append(missing, name)
			continue
		}
		if mp = mergeParts(mp); len(mp) > 0 {
			shapes[name] = mp
		}
	}
	if len(missing) > 0 {
		return nil, &ShapeNotFoundError{Missing: missing}
	}
	if len(shapes) != len(names) {
		return nil, ErrIncompleteResolution
	}

	fc := geojson.NewFeatureCollection()

	for _, name := range names {
		role, color := "candidate", colorTarget
		if name == base {
			role, color = "base", colorBase
		}

		display := simplify.DouglasPeucker(simplifyTolerance).MultiPolygon(shapes[name].Clone())
		f := geojson.NewFeature(display)
		f.Properties = geojson.Properties{
			"name":         name,
			"feature_type": "country_shape",
			"role":         role,
			"color":        color,
		}
		fc.Append(f)
	}

	for _, target := range []string{target1, target2} {
		basePt, targetPt := NearestPoints(shapes[base], shapes[target])
		km := geodesicKm(basePt, targetPt)

		p1 := geojson.NewFeature(basePt)
		p1.Properties = geojson.Properties{
			"feature_type": "point",
			"name":         fmt.Sprintf("%s (near %s)", base, target),
		}
		fc.Append(p1)

		p2 := geojson.NewFeature(targetPt)
		p2.Properties = geojson.Properties{
			"feature_type": "point",
			"name":         target,
		}
		fc.Append(p2)

		line := geojson.NewFeature(orb.LineString{basePt, targetPt})
		line.Properties = geojson.Properties{
			"feature_type": "distance_line",
			"distance_km":  km,
			"pair":         fmt.Sprintf("%s-%s", base, target),
		}
		fc.Append(line)
	}

	return fc, nil
}

// mergeParts drops empty parts and rings. Country multipolygon parts are
// disjoint, so merging is collection cleanup rather than boolean union.
func mergeParts(mp orb.MultiPolygon) orb.MultiPolygon {
	var out orb.MultiPolygon
	for _, poly := range mp {
		var kept orb.Polygon
		for _, ring := range poly {
			if len(ring) >= 4 {
				kept = append(kept, ring)
			}
		}
		if len(kept) > 0 && len(kept[0]) >= 4 {
			out = append(out, kept)
		}
	}
	return out
}

// geodesicKm is the WGS84 ellipsoidal surface distance between two
// lon/lat points, in kilometers rounded to one decimal.
func geodesicKm(p1, p2 orb.Point) float64 {
	var meters float64
	geodesic.WGS84.Inverse(p1[1], p1[0], p2[1], p2[0], &meters, nil, nil)
	return math.Round(meters/100) / 10
}
