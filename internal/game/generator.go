package game

import (
	"math/rand/v2"

	"github.com/closergame/countryquiz/internal/catalog"
)

// Rand supplies uniform random choices. Injected so tests can drive the
// generator with a fixed sequence.
type Rand interface {
	IntN(n int) int
}

type mathRand struct{}

func (mathRand) IntN(n int) int { return rand.IntN(n) }

// Generator produces validated rounds from the catalog.
type Generator struct {
	cat *catalog.Catalog
	rng Rand
}

// NewGenerator builds a Generator. A nil rng falls back to math/rand/v2.
func NewGenerator(cat *catalog.Catalog, rng Rand) *Generator {
	if rng == nil {
		rng = mathRand{}
	}
	return &Generator{cat: cat, rng: rng}
}

// Generate picks a round. When preferredBase is playable it becomes the
// base (so an interrupted chain resumes there); otherwise the base is
// uniform over all playable countries. Targets are two distinct playable
// countries, excluding the base, restricted to those with a cataloged
// distance to it. Returns ErrInsufficientCountries when fewer than two
// such targets exist.
func (g *Generator) Generate(preferredBase string) (Round, error) {
	playable := g.cat.Playable()
	if len(playable) < 3 {
		return Round{}, ErrInsufficientCountries
	}

	base := preferredBase
	if base == "" || !g.cat.IsPlayable(base) {
		base = playable[g.rng.IntN(len(playable))]
	}

	t1, t2, err := g.sampleTargets(base)
	if err != nil {
		return Round{}, err
	}
	return Round{Base: base, Target1: t1, Target2: t2}, nil
}

// Hint precomputes the likely next round: the target closer to the base
// (tie favors Target1) becomes the next base. Returns false when distance
// data is missing or too few alternative targets remain; the caller then
// simply proceeds without a hint.
func (g *Generator) Hint(r Round) (Round, bool) {
	d1, ok1 := g.cat.Distance(r.Base, r.Target1)
	d2, ok2 := g.cat.Distance(r.Base, r.Target2)
	if !ok1 || !ok2 {
		return Round{}, false
	}

	nextBase := r.Target1
	if d2 < d1 {
		nextBase = r.Target2
	}

	t1, t2, err := g.sampleTargets(nextBase)
	if err != nil {
		return Round{}, false
	}
	return Round{Base: nextBase, Target1: t1, Target2: t2}, true
}

// sampleTargets draws two distinct targets for base, uniformly without
// replacement, from the playable countries that have a distance to it.
func (g *Generator) sampleTargets(base string) (string, string, error) {
	var candidates []string
	for _, name := range g.cat.Playable() {
		if name == base {
			continue
		}
		if _, ok := g.cat.Distance(base, name); !ok {
			continue
		}
		candidates = append(candidates, name)
	}
	if len(candidates) < 2 {
		return "", "", ErrInsufficientCountries
	}

	i := g.rng.IntN(len(candidates))
	j := g.rng.IntN(len(candidates) - 1)
	if j >= i {
		j++
	}
	return candidates[i], candidates[j], nil
}
