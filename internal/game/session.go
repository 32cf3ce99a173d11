package game

import "sync"

// Session is the per-player mutable state. It moves between two states:
// Idle (no round outstanding) and RoundServed (a round is cached and
// waiting for a guess). The mutex serializes concurrent requests from the
// same player, e.g. a double page refresh.
type Session struct {
	mu sync.Mutex

	playerID string

	score      int
	base       string // preferred base for the next round; "" = random
	current    *Round // the served round, valid while served is true
	hint       *Round // precomputed next round for asset prefetch
	served     bool
	finalScore *int // pending score awaiting a nickname
}

// NewSession creates an Idle session for playerID.
func NewSession(playerID string) *Session {
	return &Session{playerID: playerID}
}

// PlayerID returns the identity this session belongs to.
func (s *Session) PlayerID() string { return s.playerID }

// reset drops every bit of round and score state, returning the session
// to a clean Idle. Used on desync so the player restarts from zero.
func (s *Session) reset() {
	s.score = 0
	s.base = ""
	s.current = nil
	s.hint = nil
	s.served = false
	s.finalScore = nil
}

// clearRound drops only the outstanding round so it can be consumed
// exactly once.
func (s *Session) clearRound() {
	s.current = nil
	s.served = false
}
