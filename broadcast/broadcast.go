// broadcast/broadcast.go
package broadcast

import (
	"github.com/nitishkumar2303/doodlequest/logger"
	"github.com/nitishkumar2303/doodlequest/session"
)

// SessionBroadcaster resolves connection ids through the session manager and
// pushes events out. A dead or missing connection is skipped so one failing
// socket never stalls a room-wide fan-out.
type SessionBroadcaster struct {
	sessions *session.Manager
}

func NewSessionBroadcaster(sessions *session.Manager) *SessionBroadcaster {
	return &SessionBroadcaster{sessions: sessions}
}

func (b *SessionBroadcaster) Send(connID, event string, data interface{}) {
	s, exists := b.sessions.Get(connID)
	if !exists {
		logger.Log.Debugf("broadcast: no session for %s, dropping %s", connID, event)
		return
	}
	if err := s.Send(event, data); err != nil {
		logger.Log.Warnf("broadcast: send %s to %s failed: %v", event, connID, err)
	}
}

func (b *SessionBroadcaster) SendMany(connIDs []string, event string, data interface{}) {
	for _, id := range connIDs {
		b.Send(id, event, data)
	}
}
