// Package catalog holds the immutable country tables the game runs on:
// pairwise distances, ISO codes, and polygon geometry. A Catalog is built
// once at startup and read-only afterwards.
package catalog

import (
	"errors"
	"fmt"
	"sort"

	"github.com/paulmach/orb"
)

// ErrTooFewCountries is returned when cross-validation leaves fewer than
// three playable countries. The game cannot serve a single round without
// a base and two distinct targets.
var ErrTooFewCountries = errors.New("fewer than 3 playable countries")

// pair is an unordered country-name pair, normalized so a <= b.
type pair struct {
	a, b string
}

func pairOf(x, y string) pair {
	if x > y {
		x, y = y, x
	}
	return pair{a: x, b: y}
}

type Catalog struct {
	distances map[pair]float64
	codes     map[string]string
	shapes    map[string]orb.MultiPolygon
	playable  []string
}

// New cross-validates the three tables and builds the playable list:
// a country is playable iff it has an ISO code, a non-empty shape, and
// appears in the distance table. The playable list is sorted so tests
// and logs are deterministic.
func New(distances map[[2]string]float64, codes map[string]string, shapes map[string]orb.MultiPolygon) (*Catalog, error) {
	c := &Catalog{
		distances: make(map[pair]float64, len(distances)),
		codes:     codes,
		shapes:    shapes,
	}

	inDistances := make(map[string]bool)
	for k, d := range distances {
		p := pairOf(k[0], k[1])
		// Minimum wins when source data carries duplicates.
		if prev, ok := c.distances[p]; !ok || d < prev {
			c.distances[p] = d
		}
		inDistances[k[0]] = true
		inDistances[k[1]] = true
	}

	for name := range inDistances {
		if _, ok := codes[name]; !ok {
			continue
		}
		shape, ok := shapes[name]
		if !ok || len(shape) == 0 {
			continue
		}
		c.playable = append(c.playable, name)
	}
	sort.Strings(c.playable)

	if len(c.playable) < 3 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewCountries, len(c.playable))
	}
	return c, nil
}

// IsPlayable reports whether name has a code, a shape, and at least one
// cataloged distance.
func (c *Catalog) IsPlayable(name string) bool {
	i := sort.SearchStrings(c.playable, name)
	return i < len(c.playable) && c.playable[i] == name
}

// Playable returns the sorted playable country names. The returned slice
// is a copy; callers may reorder it freely.
func (c *Catalog) Playable() []string {
	out := make([]string, len(c.playable))
	copy(out, c.playable)
	return out
}

// Distance returns the cataloged kilometer distance between a and b.
// The lookup is symmetric.
func (c *Catalog) Distance(a, b string) (float64, bool) {
	d, ok := c.distances[pairOf(a, b)]
	return d, ok
}

// Code returns the ISO two-letter code for name.
func (c *Catalog) Code(name string) (string, bool) {
	code, ok := c.codes[name]
	return code, ok
}

// Shape returns the country geometry for name, normalized to a
// MultiPolygon at load time.
func (c *Catalog) Shape(name string) (orb.MultiPolygon, bool) {
	mp, ok := c.shapes[name]
	return mp, ok
}
