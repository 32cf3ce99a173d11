package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"regexp"
	"sync"

	"github.com/closergame/countryquiz/internal/game"
)

const playerCookieName = "player_id"

// Player IDs are 128-bit random hex; anything else in the cookie is
// treated as absent and replaced.
var playerIDRE = regexp.MustCompile(`^[0-9a-f]{32}$`)

// Sessions maps player IDs to their in-memory game session. Sessions are
// created on first contact and expire with the process; scores survive in
// the store.
type Sessions struct {
	mu sync.Mutex
	m  map[string]*game.Session
}

func NewSessions() *Sessions {
	return &Sessions{m: make(map[string]*game.Session)}
}

// Get returns the session for playerID, creating it if missing.
func (s *Sessions) Get(playerID string) *game.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.m[playerID]
	if !ok {
		sess = game.NewSession(playerID)
		s.m[playerID] = sess
	}
	return sess
}

func newPlayerID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}

type ctxKey int

const ctxKeySession ctxKey = iota

// sessionMiddleware resolves the player identity from the player_id
// cookie, assigning a fresh anonymous identity when absent, and puts the
// game session into the request context.
func sessionMiddleware(sessions *Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var playerID string
			if cookie, err := r.Cookie(playerCookieName); err == nil && playerIDRE.MatchString(cookie.Value) {
				playerID = cookie.Value
			} else {
				playerID = newPlayerID()
				http.SetCookie(w, &http.Cookie{
					Name:     playerCookieName,
					Value:    playerID,
					Path:     "/",
					MaxAge:   365 * 24 * 60 * 60,
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), ctxKeySession, sessions.Get(playerID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func playerSession(r *http.Request) *game.Session {
	return r.Context().Value(ctxKeySession).(*game.Session)
}
