package geo

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func rect(minX, minY, maxX, maxY float64) orb.MultiPolygon {
	return orb.MultiPolygon{orb.Polygon{orb.Ring{
		{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY}, {minX, minY},
	}}}
}

func TestNearestPointsCornerToCorner(t *testing.T) {
	a := rect(0, 0, 1, 1)
	b := rect(3, 2, 4, 3)

	pa, pb := NearestPoints(a, b)
	if pa != (orb.Point{1, 1}) {
		t.Errorf("nearest point on a: got %v, want (1,1)", pa)
	}
	if pb != (orb.Point{3, 2}) {
		t.Errorf("nearest point on b: got %v, want (3,2)", pb)
	}
}

func TestNearestPointsMidSegment(t *testing.T) {
	// A vertex of b projects onto the middle of a's right edge, so the
	// nearest point on a is not one of its vertices.
	a := rect(0, 0, 1, 1)
	b := orb.MultiPolygon{orb.Polygon{orb.Ring{
		{3, 0.5}, {4, 0}, {4, 1}, {3, 0.5},
	}}}

	pa, pb := NearestPoints(a, b)
	if pa != (orb.Point{1, 0.5}) {
		t.Errorf("nearest point on a: got %v, want (1,0.5)", pa)
	}
	if pb != (orb.Point{3, 0.5}) {
		t.Errorf("nearest point on b: got %v, want (3,0.5)", pb)
	}
}

func TestNearestPointsSymmetricDistance(t *testing.T) {
	a := rect(0, 0, 1, 1)
	b := rect(5, 5, 7, 7)

	pa1, pb1 := NearestPoints(a, b)
	pb2, pa2 := NearestPoints(b, a)

	d1 := math.Hypot(pa1[0]-pb1[0], pa1[1]-pb1[1])
	d2 := math.Hypot(pa2[0]-pb2[0], pa2[1]-pb2[1])
	if math.Abs(d1-d2) > 1e-12 {
		t.Errorf("distance differs by argument order: %v vs %v", d1, d2)
	}
}

func TestNearestPointsEnclave(t *testing.T) {
	outer := rect(0, 0, 10, 10)
	inner := rect(4, 4, 5, 5)

	pa, pb := NearestPoints(outer, inner)
	if pa != pb {
		t.Errorf("contained geometry must yield a shared point, got %v and %v", pa, pb)
	}

	// Same in the other order.
	pa, pb = NearestPoints(inner, outer)
	if pa != pb {
		t.Errorf("contained geometry must yield a shared point, got %v and %v", pa, pb)
	}
}

func TestNearestPointsMultiPart(t *testing.T) {
	// The second part of a is far closer to b than the first.
	a := append(rect(0, 0, 1, 1), rect(20, 0, 21, 1)...)
	b := rect(23, 0, 24, 1)

	pa, _ := NearestPoints(a, b)
	if pa[0] != 21 {
		t.Errorf("expected nearest point on the second part (x=21), got %v", pa)
	}
}
