// room/room.go
package room

import (
	"strings"
	"sync"
	"time"

	"github.com/nitishkumar2303/doodlequest/models"
	"github.com/nitishkumar2303/doodlequest/network"
	"github.com/nitishkumar2303/doodlequest/timer"
)

// Status is the room's round phase.
type Status int

const (
	StatusWaiting Status = iota
	StatusPlaying
)

// Player is one roster entry. ConnectionID is transient and rebound on
// reconnect; AccountID is the stable identity.
type Player struct {
	ConnectionID string
	AccountID    int64
	DisplayName  string
	Score        int
	IsReady      bool
	IsHost       bool
}

// Round is the state of one drawing/guessing cycle. Exactly one per room at
// a time; nil between rounds.
type Round struct {
	DrawerID        string
	Word            string
	SecondsLeft     int
	CorrectGuessers map[string]struct{}
	Active          bool
}

// Deps are the collaborators a room needs to run a round. Shared by every
// room of a registry.
type Deps struct {
	Broadcast    Broadcaster
	Scores       ScoreKeeper
	Timers       *timer.Manager
	RoundSeconds int
	GuessAward   int
}

// Room is one isolated game session. All mutations are serialized behind mu;
// rooms are fully independent of each other.
type Room struct {
	Code string

	mu         sync.Mutex
	dead       bool
	players    []*Player // insertion order = join order
	hostID     string
	round      *Round
	strokes    []StrokeEvent
	matchID    int64
	status     Status
	generation uint64
	timerID    int64
	deps       *Deps
	createdAt  time.Time
}

func newRoom(code string, deps *Deps) *Room {
	return &Room{
		Code:      code,
		status:    StatusWaiting,
		deps:      deps,
		createdAt: time.Now(),
	}
}

// HostID returns the current host's connection id, or "" for an empty room.
func (r *Room) HostID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hostID
}

func (r *Room) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Empty reports whether the last player has left.
func (r *Room) Empty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players) == 0
}

// MatchID is the persistence correlation key; zero until the async match
// lookup lands.
func (r *Room) MatchID() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.matchID
}

// Players returns a roster snapshot in join order.
func (r *Room) Players() []models.PlayerSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Room) snapshotLocked() []models.PlayerSnapshot {
	snap := make([]models.PlayerSnapshot, 0, len(r.players))
	for _, p := range r.players {
		snap = append(snap, models.PlayerSnapshot{
			ID:      p.ConnectionID,
			Name:    p.DisplayName,
			Score:   p.Score,
			IsReady: p.IsReady,
			IsHost:  p.IsHost,
		})
	}
	return snap
}

func (r *Room) connIDsLocked() []string {
	ids := make([]string, 0, len(r.players))
	for _, p := range r.players {
		ids = append(ids, p.ConnectionID)
	}
	return ids
}

func (r *Room) connIDsExceptLocked(connID string) []string {
	ids := make([]string, 0, len(r.players))
	for _, p := range r.players {
		if p.ConnectionID != connID {
			ids = append(ids, p.ConnectionID)
		}
	}
	return ids
}

func (r *Room) playerByConnLocked(connID string) *Player {
	for _, p := range r.players {
		if p.ConnectionID == connID {
			return p
		}
	}
	return nil
}

func (r *Room) playerByAccountLocked(accountID int64) *Player {
	for _, p := range r.players {
		if p.AccountID == accountID {
			return p
		}
	}
	return nil
}

func (r *Room) broadcastRosterLocked() {
	r.deps.Broadcast.SendMany(r.connIDsLocked(), network.EventUpdatePlayers, r.snapshotLocked())
}

func (r *Room) broadcastHostLocked() {
	r.deps.Broadcast.SendMany(r.connIDsLocked(), network.EventRoomData, network.RoomDataPayload{HostID: r.hostID})
}

func (r *Room) systemMessageLocked(text string) {
	r.deps.Broadcast.SendMany(r.connIDsLocked(), network.EventReceiveMessage, models.ChatMessage{
		User:     "System",
		Message:  text,
		IsSystem: true,
	})
}

// hasConn reports membership of a connection id, for registry scans.
func (r *Room) hasConn(connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.playerByConnLocked(connID) != nil
}

// killIfEmpty marks the room dead once its roster is empty, cancelling any
// pending round timer. The emptiness check and the kill happen under the same
// lock hold, so a join racing the destroy either lands before the check or
// sees the dead flag and fails. A dead room never comes back to life.
func (r *Room) killIfEmpty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.players) > 0 {
		return false
	}
	r.stopTimerLocked()
	r.round = nil
	r.status = StatusWaiting
	r.dead = true
	return true
}

// NormalizeCode upper-cases a user-typed room code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Registry owns every active Room: the sole place rooms are created and
// destroyed.
type Registry struct {
	rooms map[string]*Room
	mutex sync.RWMutex
	deps  Deps
}

func NewRegistry(deps Deps) *Registry {
	return &Registry{
		rooms: make(map[string]*Room),
		deps:  deps,
	}
}

// GetOrCreate returns the room for code, creating it on first use. Creation
// is idempotent: an existing room is returned unchanged and the caller does
// not become host. A fresh room has no players and no host.
func (m *Registry) GetOrCreate(code string) *Room {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if room, exists := m.rooms[code]; exists {
		return room
	}
	room := newRoom(code, &m.deps)
	m.rooms[code] = room
	return room
}

func (m *Registry) Get(code string) (*Room, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	room, exists := m.rooms[code]
	return room, exists
}

// DestroyIfEmpty deletes the room once its roster is empty, cancelling any
// pending round timer first. Calling it on a missing or occupied room is a
// no-op, so it is safe to invoke after every leave/kick/disconnect. The room
// is marked dead before it leaves the table, so a caller still holding the
// old pointer cannot join it; retrying GetOrCreate yields a fresh room.
func (m *Registry) DestroyIfEmpty(code string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	room, exists := m.rooms[code]
	if !exists || !room.killIfEmpty() {
		return
	}
	delete(m.rooms, code)
}

// RoomOf resolves the room a connection belongs to by scanning memberships.
func (m *Registry) RoomOf(connID string) (*Room, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, room := range m.rooms {
		if room.hasConn(connID) {
			return room, true
		}
	}
	return nil, false
}

func (m *Registry) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.rooms)
}
