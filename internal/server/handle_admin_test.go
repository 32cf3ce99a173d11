package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
)

func adminRouter(t *testing.T, store *SQLiteStore) *chi.Mux {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("open-sesame"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	admins := newAdminSessions()

	r := chi.NewRouter()
	r.Post("/api/admin/login", handleAdminLogin(string(hash), admins))
	r.Post("/api/admin/logout", handleAdminLogout(admins))
	r.Route("/api/admin/leaderboard", func(r chi.Router) {
		r.Use(adminAuthMiddleware(admins))
		r.Delete("/{nickname}", handleAdminDeleteEntry(logger, store))
	})
	return r
}

func login(t *testing.T, r *chi.Mux, password string) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(AdminLoginRequest{Password: password})
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdminLoginWrongPassword(t *testing.T) {
	r := adminRouter(t, testStore(t))

	if w := login(t, r, "guess"); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAdminDeleteRequiresAuth(t *testing.T) {
	r := adminRouter(t, testStore(t))

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/leaderboard/someone", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", w.Code)
	}
}

func TestAdminDeleteEntry(t *testing.T) {
	store := testStore(t)
	r := adminRouter(t, store)

	if err := store.UpsertIfNotLower(t.Context(), "p1", "offensive", 7); err != nil {
		t.Fatalf("seeding leaderboard: %v", err)
	}

	w := login(t, r, "open-sesame")
	if w.Code != http.StatusOK {
		t.Fatalf("login failed: %d", w.Code)
	}
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected an admin session cookie")
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/leaderboard/offensive", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	del := httptest.NewRecorder()
	r.ServeHTTP(del, req)
	if del.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", del.Code, del.Body.String())
	}

	top, err := store.Top(t.Context(), 5)
	if err != nil {
		t.Fatalf("reading top: %v", err)
	}
	if len(top) != 0 {
		t.Errorf("entry not deleted: %+v", top)
	}
}
