package server

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/AleeCode25/panel-billeteras/service/config"
	"github.com/google/uuid"
)

// sessionCookieName is the cookie carrying the panel session token.
const sessionCookieName = "auth_session"

// SessionStore tracks active session tokens in memory. Sessions do not
// survive a restart; the panel has a single shared credential and
// re-login is cheap.
type SessionStore struct {
	mu     sync.RWMutex
	tokens map[string]struct{}
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{tokens: make(map[string]struct{})}
}

// Create mints a new session token.
func (s *SessionStore) Create() string {
	token := uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = struct{}{}
	s.mu.Unlock()
	return token
}

// Valid reports whether the token belongs to an active session.
func (s *SessionStore) Valid(token string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.tokens[token]
	return ok
}

// Revoke removes a session token.
func (s *SessionStore) Revoke(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}

// handleLogin returns a handler that checks the panel's static
// credential and issues a session cookie.
// POST /api/v1/auth/login
func handleLogin(cfg *config.Config, sessions *SessionStore, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Debug("failed to decode login request", "error", err)
			writeError(w, "invalid request body: must be valid JSON", http.StatusBadRequest)
			return
		}

		userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(cfg.PanelUsername)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(cfg.PanelPassword)) == 1
		if !userOK || !passOK {
			logger.Info("login rejected", "username", req.Username)
			writeError(w, "invalid username or password", http.StatusUnauthorized)
			return
		}

		token := sessions.Create()
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookieName,
			Value:    token,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		logger.Info("login accepted", "username", req.Username)
		writeJSON(w, map[string]string{"message": "login successful"}, http.StatusOK)
	})
}

// handleLogout returns a handler that revokes the current session.
// POST /api/v1/auth/logout
func handleLogout(sessions *SessionStore, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(sessionCookieName); err == nil {
			sessions.Revoke(cookie.Value)
		}
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookieName,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			MaxAge:   -1,
		})
		logger.Debug("session revoked")
		w.WriteHeader(http.StatusNoContent)
	})
}

// requireSession wraps a handler with the session check. Requests
// without an active session cookie are rejected with 401.
func requireSession(sessions *SessionStore, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err != nil || !sessions.Valid(cookie.Value) {
				logger.Debug("unauthenticated request", "path", r.URL.Path)
				writeError(w, "authentication required", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
