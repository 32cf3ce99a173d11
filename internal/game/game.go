// Package game implements the round-sequencing engine: round generation
// with lookahead pre-fetch, the per-player session state machine, and
// scoring against a pluggable score store.
package game

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrInsufficientCountries means the catalog cannot supply a base and
	// two distinct targets. Terminal game state, not a bug.
	ErrInsufficientCountries = errors.New("not enough playable countries")

	// ErrRoundMismatch means a guess arrived for a round that was never
	// served, or for a different base than the served one. The session is
	// reset before this is returned.
	ErrRoundMismatch = errors.New("guess does not match the served round")

	// ErrMissingDistance means the distance table has no entry for a pair
	// involved in a guess. Data integrity fault; never defaulted.
	ErrMissingDistance = errors.New("missing distance data")

	// ErrNoPendingScore means a nickname was submitted without a finished
	// game waiting for one.
	ErrNoPendingScore = errors.New("no final score pending")
)

// InvalidNicknameError reports which nickname rule was violated.
type InvalidNicknameError struct {
	Reason string
}

func (e *InvalidNicknameError) Error() string {
	return fmt.Sprintf("invalid nickname: %s", e.Reason)
}

// Round is one served question: which of the two targets is closer to
// Base? All three names are distinct playable countries.
type Round struct {
	Base    string
	Target1 string
	Target2 string
}

// Entry is one leaderboard row.
type Entry struct {
	Nickname string `json:"nickname"`
	Score    int    `json:"score"`
}

// ScoreStore persists per-player best scores and the global leaderboard.
// The two conditional writes must be atomic per player so concurrent
// requests cannot lose updates.
type ScoreStore interface {
	Best(ctx context.Context, playerID string) (int, error)
	RaiseIfHigher(ctx context.Context, playerID string, score int) error
	Nickname(ctx context.Context, playerID string) (string, error)
	UpsertIfNotLower(ctx context.Context, playerID, nickname string, score int) error
	Top(ctx context.Context, n int) ([]Entry, error)
}
