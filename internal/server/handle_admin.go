package server

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
)

const adminCookieName = "admin_session"

// adminSessions holds the valid admin session tokens. In-memory only;
// admins log in again after a restart.
type adminSessions struct {
	mu     sync.Mutex
	tokens map[string]bool
}

func newAdminSessions() *adminSessions {
	return &adminSessions{tokens: make(map[string]bool)}
}

func (a *adminSessions) create() string {
	b := make([]byte, 16)
	rand.Read(b)
	token := hex.EncodeToString(b)

	a.mu.Lock()
	a.tokens[token] = true
	a.mu.Unlock()
	return token
}

func (a *adminSessions) valid(token string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tokens[token]
}

func (a *adminSessions) revoke(token string) {
	a.mu.Lock()
	delete(a.tokens, token)
	a.mu.Unlock()
}

type AdminLoginRequest struct {
	Password string `json:"password"`
}

func handleAdminLogin(passwordHash string, admins *adminSessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AdminLoginRequest
		if err := readJSON(r, &req); err != nil || req.Password == "" {
			writeError(w, http.StatusBadRequest, "password is required")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     adminCookieName,
			Value:    admins.create(),
			Path:     "/api/admin",
			HttpOnly: true,
			SameSite: http.SameSiteStrictMode,
		})
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func handleAdminLogout(admins *adminSessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(adminCookieName); err == nil {
			admins.revoke(cookie.Value)
		}
		http.SetCookie(w, &http.Cookie{
			Name:   adminCookieName,
			Path:   "/api/admin",
			MaxAge: -1,
		})
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func adminAuthMiddleware(admins *adminSessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(adminCookieName)
			if err != nil || !admins.valid(cookie.Value) {
				writeError(w, http.StatusUnauthorized, "not authenticated")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func handleAdminDeleteEntry(logger *slog.Logger, scores ScoreAdmin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		nickname := chi.URLParam(r, "nickname")
		if nickname == "" {
			writeError(w, http.StatusBadRequest, "nickname is required")
			return
		}

		if err := scores.DeleteEntry(r.Context(), nickname); err != nil {
			logger.Error("deleting leaderboard entry", "nickname", nickname, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		logger.Info("leaderboard entry removed", "nickname", nickname)
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}
