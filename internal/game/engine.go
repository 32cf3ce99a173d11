package game

import (
	"context"
	"fmt"
	"math"

	"github.com/closergame/countryquiz/internal/catalog"
)

// Engine drives session transitions against the catalog and score store.
type Engine struct {
	cat    *catalog.Catalog
	gen    *Generator
	scores ScoreStore
	topN   int
}

// NewEngine wires the engine. A nil rng means real randomness.
func NewEngine(cat *catalog.Catalog, scores ScoreStore, rng Rand, topN int) *Engine {
	return &Engine{
		cat:    cat,
		gen:    NewGenerator(cat, rng),
		scores: scores,
		topN:   topN,
	}
}

// RoundResult is the outcome of RequestRound.
type RoundResult struct {
	// GameOver is set when the dataset cannot supply another round. All
	// other fields are zero in that case.
	GameOver bool

	Round       Round
	BaseCode    string
	Target1Code string
	Target2Code string

	Score int
	Best  int

	// PrefetchCodes are the hinted next-round target codes, for
	// client-side flag prefetch. Empty when no valid hint exists.
	PrefetchCodes []string
}

// RequestRound serves the player's current round. If a round is already
// outstanding (page refresh) the cached round and hint are returned
// verbatim; the player never gets to re-roll. Otherwise the pending hint
// is consumed when still valid, or a fresh round is generated with the
// chain's base preferred.
func (e *Engine) RequestRound(ctx context.Context, s *Session) (RoundResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	best, err := e.scores.Best(ctx, s.playerID)
	if err != nil {
		return RoundResult{}, fmt.Errorf("reading best score: %w", err)
	}

	if s.served && s.current != nil {
		return e.roundResult(*s.current, s.hint, s.score, best)
	}

	var r Round
	if s.hint != nil && e.hintValid(*s.hint) {
		r = *s.hint
	} else {
		r, err = e.gen.Generate(s.base)
		if err != nil {
			// Dataset exhausted: a valid terminal state, not a failure.
			s.reset()
			return RoundResult{GameOver: true}, nil
		}
	}

	s.current = &r
	s.served = true
	s.base = r.Base
	if hint, ok := e.gen.Hint(r); ok {
		s.hint = &hint
	} else {
		s.hint = nil
	}

	return e.roundResult(r, s.hint, s.score, best)
}

func (e *Engine) roundResult(r Round, hint *Round, score, best int) (RoundResult, error) {
	baseCode, ok1 := e.cat.Code(r.Base)
	t1Code, ok2 := e.cat.Code(r.Target1)
	t2Code, ok3 := e.cat.Code(r.Target2)
	if !ok1 || !ok2 || !ok3 {
		return RoundResult{}, fmt.Errorf("missing ISO code for round %v", r)
	}

	res := RoundResult{
		Round:       r,
		BaseCode:    baseCode,
		Target1Code: t1Code,
		Target2Code: t2Code,
		Score:       score,
		Best:        best,
	}
	if hint != nil {
		c1, ok1 := e.cat.Code(hint.Target1)
		c2, ok2 := e.cat.Code(hint.Target2)
		if ok1 && ok2 {
			res.PrefetchCodes = []string{c1, c2}
		}
	}
	return res, nil
}

// hintValid checks a precomputed hint against the live catalog: all three
// countries still playable, mutually distinct, and both target distances
// present.
func (e *Engine) hintValid(h Round) bool {
	if h.Base == h.Target1 || h.Base == h.Target2 || h.Target1 == h.Target2 {
		return false
	}
	for _, name := range []string{h.Base, h.Target1, h.Target2} {
		if !e.cat.IsPlayable(name) {
			return false
		}
	}
	if _, ok := e.cat.Distance(h.Base, h.Target1); !ok {
		return false
	}
	if _, ok := e.cat.Distance(h.Base, h.Target2); !ok {
		return false
	}
	return true
}

// GuessResult is the outcome of SubmitGuess.
type GuessResult struct {
	Correct        bool
	ChosenDistance float64
	OtherDistance  float64
	CloserCountry  string

	Score   int
	Best    int
	NewBest bool

	// Set on an incorrect guess.
	GameOver         bool
	FinalScore       int
	MapRound         Round
	PromptNickname   bool
	ExistingNickname string
}

// SubmitGuess resolves the outstanding round. The guess is correct iff the
// chosen country is at most as far from the base as the other one; ties
// credit the player. A correct guess increments the score and chains the
// chosen country as the next base. An incorrect guess finalizes the game.
func (e *Engine) SubmitGuess(ctx context.Context, s *Session, base, chosen, other string) (GuessResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.served || s.current == nil || s.current.Base != base {
		// Stale or forged client state: reset to a consistent Idle.
		s.reset()
		return GuessResult{}, ErrRoundMismatch
	}

	// Consume the round exactly once, before anything can fail.
	s.clearRound()

	dChosen, ok1 := e.cat.Distance(base, chosen)
	dOther, ok2 := e.cat.Distance(base, other)
	if !ok1 || !ok2 {
		return GuessResult{}, fmt.Errorf("%w for base %q", ErrMissingDistance, base)
	}

	correct := dChosen <= dOther
	res := GuessResult{
		Correct:        correct,
		ChosenDistance: roundKm(dChosen),
		OtherDistance:  roundKm(dOther),
		CloserCountry:  chosen,
	}
	if !correct {
		res.CloserCountry = other
	}

	best, err := e.scores.Best(ctx, s.playerID)
	if err != nil {
		return GuessResult{}, fmt.Errorf("reading best score: %w", err)
	}

	if correct {
		s.score++
		s.base = chosen
		res.Score = s.score
		if s.score > best {
			if err := e.scores.RaiseIfHigher(ctx, s.playerID, s.score); err != nil {
				return GuessResult{}, fmt.Errorf("persisting best score: %w", err)
			}
			best = s.score
			res.NewBest = true
		}
		res.Best = best
		return res, nil
	}

	final := s.score
	res.GameOver = true
	res.FinalScore = final
	res.Best = best
	res.MapRound = Round{Base: base, Target1: chosen, Target2: other}

	// A tying score still prompts, so a same-value leaderboard entry can
	// be refreshed with a new nickname.
	if final > 0 && final >= best {
		res.PromptNickname = true
		if nick, err := e.scores.Nickname(ctx, s.playerID); err == nil {
			res.ExistingNickname = nick
		}
	}

	s.score = 0
	s.base = ""
	s.hint = nil
	s.finalScore = &final
	return res, nil
}

// SubmitNickname records the pending final score on the leaderboard under
// nickname. The pending score is cleared whether or not the nickname is
// accepted.
func (e *Engine) SubmitNickname(ctx context.Context, s *Session, nickname string) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finalScore == nil {
		return nil, ErrNoPendingScore
	}
	final := *s.finalScore
	s.finalScore = nil

	if err := ValidateNickname(nickname); err != nil {
		return nil, err
	}

	if err := e.scores.UpsertIfNotLower(ctx, s.playerID, nickname, final); err != nil {
		return nil, fmt.Errorf("updating leaderboard: %w", err)
	}
	top, err := e.scores.Top(ctx, e.topN)
	if err != nil {
		return nil, fmt.Errorf("reading leaderboard: %w", err)
	}
	return top, nil
}

// Top returns the current top-N leaderboard.
func (e *Engine) Top(ctx context.Context) ([]Entry, error) {
	return e.scores.Top(ctx, e.topN)
}

func roundKm(km float64) float64 {
	return math.Round(km*10) / 10
}
