// Package session tracks the current caller across requests with a signed
// cookie. The cookie carries only the user id; the authenticated user itself
// is resolved fresh from the database on every request.
package session

import (
	"net/http"
	"time"

	"github.com/gorilla/sessions"
)

const (
	sessionName = "blogsite_session"
	userIDKey   = "user_id"
)

type Manager struct {
	store *sessions.CookieStore
}

func NewManager(secret []byte, lifetime time.Duration, secure bool) *Manager {
	store := sessions.NewCookieStore(secret)
	store.MaxAge(int(lifetime.Seconds()))
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = secure

	return &Manager{store: store}
}

// Login associates the session with userID. Logging in again, as the same or
// another user, simply overwrites the association.
func (m *Manager) Login(w http.ResponseWriter, r *http.Request, userID int) error {
	// Get returns a fresh session when the cookie is absent or undecodable,
	// which is exactly what a login wants.
	s, _ := m.store.Get(r, sessionName)
	s.Values[userIDKey] = userID
	return s.Save(r, w)
}

// Logout discards the session. Calling it while anonymous is a no-op.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) error {
	s, _ := m.store.Get(r, sessionName)
	delete(s.Values, userIDKey)
	s.Options.MaxAge = -1
	return s.Save(r, w)
}

// UserID returns the identity claim carried by the cookie. The claim is
// unverified against the store; callers resolve it to a live user row.
func (m *Manager) UserID(r *http.Request) (int, bool) {
	s, err := m.store.Get(r, sessionName)
	if err != nil {
		return 0, false
	}

	id, ok := s.Values[userIDKey].(int)
	if !ok || id <= 0 {
		return 0, false
	}

	return id, true
}

// Flash queues a one-shot message for the next rendered page.
func (m *Manager) Flash(w http.ResponseWriter, r *http.Request, msg string) error {
	s, _ := m.store.Get(r, sessionName)
	s.AddFlash(msg)
	return s.Save(r, w)
}

// Flashes drains the queued messages. Reading consumes them, so the save is
// required even on a GET.
func (m *Manager) Flashes(w http.ResponseWriter, r *http.Request) []string {
	s, _ := m.store.Get(r, sessionName)

	raw := s.Flashes()
	if len(raw) == 0 {
		return nil
	}

	msgs := make([]string, 0, len(raw))
	for _, f := range raw {
		if msg, ok := f.(string); ok {
			msgs = append(msgs, msg)
		}
	}

	_ = s.Save(r, w)

	return msgs
}
