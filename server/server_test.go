package server

import (
	"encoding/json"
	"errors"
	"net"
	"sync"
	"testing"

	"github.com/nitishkumar2303/doodlequest/broadcast"
	"github.com/nitishkumar2303/doodlequest/logger"
	"github.com/nitishkumar2303/doodlequest/monitor"
	"github.com/nitishkumar2303/doodlequest/network"
	"github.com/nitishkumar2303/doodlequest/room"
	"github.com/nitishkumar2303/doodlequest/session"
	"github.com/nitishkumar2303/doodlequest/timer"
)

func init() {
	logger.Init()
}

type mockConn struct {
	mu     sync.Mutex
	events []string
}

func (c *mockConn) Send(event string, data interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return nil
}

func (c *mockConn) ReadEnvelope() (*network.Envelope, error) {
	return nil, errors.New("not implemented")
}

func (c *mockConn) Close() error { return nil }

func (c *mockConn) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 12345}
}

type nullScores struct{}

func (nullScores) PlayerJoined(string, int64, int64, func(int64, int)) {}
func (nullScores) ScoreAwarded(string, int64, int)                    {}
func (nullScores) WinnerDecided(string, int64)                        {}

// newTestServer builds a GameServer without the rpc and metrics listeners.
// The namespace must be unique per test, prometheus registration is global.
func newTestServer(namespace string) *GameServer {
	sessions := session.NewManager()
	timers := timer.NewManager()
	return &GameServer{
		sessions: sessions,
		timers:   timers,
		registry: room.NewRegistry(room.Deps{
			Broadcast:    broadcast.NewSessionBroadcaster(sessions),
			Scores:       nullScores{},
			Timers:       timers,
			RoundSeconds: 60,
			GuessAward:   10,
		}),
		monitor:      monitor.NewMonitor(namespace),
		shutdownChan: make(chan struct{}),
	}
}

func joinPayload(t *testing.T, roomCode, name string, userID int64) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(network.JoinRoomPayload{Room: roomCode, Name: name, UserID: userID})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	return raw
}

func TestHandleJoinRoom_RejectsMissingAccount(t *testing.T) {
	s := newTestServer("jointest_account")
	defer s.timers.Shutdown()

	first := session.NewSession("conn-1", &mockConn{})
	second := session.NewSession("conn-2", &mockConn{})
	s.sessions.Add(first)
	s.sessions.Add(second)

	// Two guests omitting userId must not collapse into one player.
	s.handleJoinRoom(first, joinPayload(t, "ab12c", "Guest", 0))
	s.handleJoinRoom(second, joinPayload(t, "ab12c", "Other", 0))

	if s.registry.Count() != 0 {
		t.Errorf("A join without userId must be rejected, got %d rooms", s.registry.Count())
	}
	if first.RoomCode != "" || second.RoomCode != "" {
		t.Error("A rejected join must not bind the session to the room")
	}
}

func TestHandleJoinRoom_RejectsEmptyFields(t *testing.T) {
	s := newTestServer("jointest_fields")
	defer s.timers.Shutdown()

	sess := session.NewSession("conn-1", &mockConn{})
	s.sessions.Add(sess)

	s.handleJoinRoom(sess, joinPayload(t, "  ", "Alice", 7))
	s.handleJoinRoom(sess, joinPayload(t, "ab12c", "", 7))

	if s.registry.Count() != 0 {
		t.Errorf("Joins with empty room or name must be rejected, got %d rooms", s.registry.Count())
	}
}

func TestHandleJoinRoom_BindsSessionAndRoom(t *testing.T) {
	s := newTestServer("jointest_bind")
	defer s.timers.Shutdown()

	sess := session.NewSession("conn-1", &mockConn{})
	s.sessions.Add(sess)

	s.handleJoinRoom(sess, joinPayload(t, "ab12c", "Alice", 7))

	if sess.RoomCode != "AB12C" {
		t.Errorf("Expected session bound to AB12C, got %q", sess.RoomCode)
	}
	if sess.AccountID != 7 || sess.DisplayName != "Alice" {
		t.Error("Join must record the account identity on the session")
	}
	r, exists := s.registry.RoomOf("conn-1")
	if !exists {
		t.Fatal("The joined player must be resolvable through the registry")
	}
	if r.HostID() != "conn-1" {
		t.Error("The first joiner must be the host")
	}
}

func TestHandleJoinRoom_ReusesCodeAfterReap(t *testing.T) {
	s := newTestServer("jointest_reap")
	defer s.timers.Shutdown()

	sess := session.NewSession("conn-1", &mockConn{})
	s.sessions.Add(sess)

	s.handleJoinRoom(sess, joinPayload(t, "ab12c", "Alice", 7))

	leave, err := json.Marshal(network.RoomPayload{Room: "ab12c"})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	s.handleLeaveRoom(sess, leave)
	if s.registry.Count() != 0 {
		t.Fatal("The emptied room must be reaped")
	}

	// The same code must come back as a fresh, registered room.
	s.handleJoinRoom(sess, joinPayload(t, "ab12c", "Alice", 7))
	if s.registry.Count() != 1 {
		t.Fatalf("Expected one room after rejoin, got %d", s.registry.Count())
	}
	if _, exists := s.registry.RoomOf("conn-1"); !exists {
		t.Error("The rejoined player must be resolvable through the registry")
	}
}
