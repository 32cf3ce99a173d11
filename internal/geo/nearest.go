package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// NearestPoints returns the closest pair of coordinates between the
// boundaries of a and b, a as the first point. The search is exact over
// every boundary segment pair, so the result can land mid-segment, not
// just on vertices. Simplified display geometry must never be passed
// here; it can move the nearest points.
func NearestPoints(a, b orb.MultiPolygon) (orb.Point, orb.Point) {
	// Enclave case: one country fully inside the other has distance zero
	// but boundaries that never touch.
	if p, ok := containedPoint(a, b); ok {
		return p, p
	}
	if p, ok := containedPoint(b, a); ok {
		return p, p
	}

	bestDist := math.Inf(1)
	var bestA, bestB orb.Point

	eachSegment(a, func(a1, a2 orb.Point) {
		eachSegment(b, func(b1, b2 orb.Point) {
			pa, pb, d := segmentClosestPoints(a1, a2, b1, b2)
			if d < bestDist {
				bestDist = d
				bestA, bestB = pa, pb
			}
		})
	})
	return bestA, bestB
}

// containedPoint reports a vertex of inner lying inside outer, if any.
func containedPoint(outer, inner orb.MultiPolygon) (orb.Point, bool) {
	for _, poly := range inner {
		for _, ring := range poly {
			for _, pt := range ring {
				if planar.MultiPolygonContains(outer, pt) {
					return pt, true
				}
			}
		}
	}
	return orb.Point{}, false
}

func eachSegment(mp orb.MultiPolygon, fn func(p1, p2 orb.Point)) {
	for _, poly := range mp {
		for _, ring := range poly {
			for i := 0; i+1 < len(ring); i++ {
				fn(ring[i], ring[i+1])
			}
		}
	}
}

// segmentClosestPoints computes the closest points between segments
// [a1,a2] and [b1,b2] and the distance between them. Standard clamped
// projection; degenerate (zero-length) segments are handled.
func segmentClosestPoints(a1, a2, b1, b2 orb.Point) (orb.Point, orb.Point, float64) {
	d1x, d1y := a2[0]-a1[0], a2[1]-a1[1]
	d2x, d2y := b2[0]-b1[0], b2[1]-b1[1]
	rx, ry := a1[0]-b1[0], a1[1]-b1[1]

	la := d1x*d1x + d1y*d1y
	lb := d2x*d2x + d2y*d2y
	f := d2x*rx + d2y*ry

	var s, t float64
	const eps = 1e-18

	switch {
	case la <= eps && lb <= eps:
		s, t = 0, 0
	case la <= eps:
		s, t = 0, clamp01(f/lb)
	default:
		c := d1x*rx + d1y*ry
		if lb <= eps {
			s, t = clamp01(-c/la), 0
		} else {
			bdot := d1x*d2x + d1y*d2y
			den := la*lb - bdot*bdot
			if den > eps {
				s = clamp01((bdot*f - c*lb) / den)
			}
			t = (bdot*s + f) / lb
			if t < 0 {
				t = 0
				s = clamp01(-c / la)
			} else if t > 1 {
				t = 1
				s = clamp01((bdot - c) / la)
			}
		}
	}

	pa := orb.Point{a1[0] + d1x*s, a1[1] + d1y*s}
	pb := orb.Point{b1[0] + d2x*t, b1[1] + d2y*t}
	dx, dy := pa[0]-pb[0], pa[1]-pb[1]
	return pa, pb, math.Hypot(dx, dy)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
