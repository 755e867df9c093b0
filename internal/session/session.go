// Package session holds the authenticated principals of the process. A
// session expires after a fixed period without activity; every successful
// lookup re-arms the timer, which is the inactivity auto-logout.
package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	apperrors "github.com/hitecare/carehome-api/pkg/errors"
	"github.com/hitecare/carehome-api/pkg/logger"
)

// Principal is the authenticated user tied to a session, used for RBAC
// decisions and changed_by/deleted_by attribution.
type Principal struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (p Principal) IsAdmin() bool {
	return p.Role == "admin"
}

// Session is one authenticated login.
type Session struct {
	ID        string    `json:"id"`
	Principal Principal `json:"principal"`
	CreatedAt time.Time `json:"created_at"`
}

// Manager stores sessions with a sliding idle timeout.
type Manager struct {
	sessions *cache.Cache
	idle     time.Duration
	log      *logger.Logger
}

func NewManager(idleTimeout time.Duration, log *logger.Logger) *Manager {
	c := cache.New(idleTimeout, idleTimeout/2)
	m := &Manager{sessions: c, idle: idleTimeout, log: log}
	c.OnEvicted(func(id string, value interface{}) {
		if s, ok := value.(*Session); ok {
			log.Info("session expired after inactivity", "username", s.Principal.Username)
		}
	})
	return m
}

// Create registers a new session for the principal.
func (m *Manager) Create(principal Principal) *Session {
	s := &Session{
		ID:        uuid.New().String(),
		Principal: principal,
		CreatedAt: time.Now(),
	}
	m.sessions.Set(s.ID, s, m.idle)
	return s
}

// Get resolves a session by id and re-arms its idle timer. Expired or unknown
// sessions yield an authentication error, forcing a fresh login.
func (m *Manager) Get(id string) (*Session, error) {
	value, ok := m.sessions.Get(id)
	if !ok {
		return nil, apperrors.NewAuthentication("session expired or unknown")
	}
	s := value.(*Session)
	m.sessions.Set(id, s, m.idle)
	return s, nil
}

// Revoke ends a session immediately (logout).
func (m *Manager) Revoke(id string) {
	m.sessions.Delete(id)
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	return m.sessions.ItemCount()
}
