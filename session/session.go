// session/session.go
package session

import (
	"sync"
	"time"

	"github.com/nitishkumar2303/doodlequest/network"
)

// Session is one live connection. The ID is transient and changes on every
// reconnect; AccountID is the stable identity the roster matches on.
type Session struct {
	ID          string
	Conn        network.Connection
	AccountID   int64
	DisplayName string
	RoomCode    string
	CreatedAt   time.Time
	LastActive  time.Time
	mutex       sync.RWMutex
}

func NewSession(id string, conn network.Connection) *Session {
	now := time.Now()
	return &Session{
		ID:         id,
		Conn:       conn,
		CreatedAt:  now,
		LastActive: now,
	}
}

func (s *Session) Send(event string, data interface{}) error {
	s.mutex.Lock()
	s.LastActive = time.Now()
	s.mutex.Unlock()
	return s.Conn.Send(event, data)
}

func (s *Session) GetID() string {
	return s.ID
}

func (s *Session) Close() error {
	return s.Conn.Close()
}

// Manager tracks every live session by connection id.
type Manager struct {
	sessions map[string]*Session
	mutex    sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
	}
}

func (m *Manager) Add(session *Session) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sessions[session.ID] = session
}

func (m *Manager) Remove(sessionID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.sessions, sessionID)
}

func (m *Manager) Get(sessionID string) (*Session, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	session, exists := m.sessions[sessionID]
	return session, exists
}

func (m *Manager) GetByAccountID(accountID int64) []*Session {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var result []*Session
	for _, session := range m.sessions {
		if session.AccountID == accountID {
			result = append(result, session)
		}
	}
	return result
}

func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.sessions)
}
