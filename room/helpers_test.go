package room

import (
	"sync"

	"github.com/nitishkumar2303/doodlequest/logger"
	"github.com/nitishkumar2303/doodlequest/timer"
)

func init() {
	logger.Init()
}

type sentEvent struct {
	ConnID string
	Event  string
	Data   interface{}
}

// MockBroadcaster records every outbound event instead of delivering it.
type MockBroadcaster struct {
	mu     sync.Mutex
	events []sentEvent
}

func (m *MockBroadcaster) Send(connID, event string, data interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, sentEvent{ConnID: connID, Event: event, Data: data})
}

func (m *MockBroadcaster) SendMany(connIDs []string, event string, data interface{}) {
	for _, id := range connIDs {
		m.Send(id, event, data)
	}
}

func (m *MockBroadcaster) named(event string) []sentEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []sentEvent
	for _, e := range m.events {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

func (m *MockBroadcaster) sentTo(connID string) []sentEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []sentEvent
	for _, e := range m.events {
		if e.ConnID == connID {
			out = append(out, e)
		}
	}
	return out
}

func (m *MockBroadcaster) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

func (m *MockBroadcaster) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
}

type seedRequest struct {
	RoomCode      string
	HostAccountID int64
	AccountID     int64
	OnSeed        func(matchID int64, saved int)
}

type award struct {
	RoomCode  string
	AccountID int64
	Delta     int
}

// MockScoreKeeper records gameplay mirror calls. onSeed callbacks are held
// for the test to fire explicitly, mimicking the async gateway.
type MockScoreKeeper struct {
	mu      sync.Mutex
	Joins   []seedRequest
	Awards  []award
	Winners []int64
}

func (m *MockScoreKeeper) PlayerJoined(roomCode string, hostAccountID, accountID int64, onSeed func(matchID int64, saved int)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Joins = append(m.Joins, seedRequest{roomCode, hostAccountID, accountID, onSeed})
}

func (m *MockScoreKeeper) ScoreAwarded(roomCode string, accountID int64, delta int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Awards = append(m.Awards, award{roomCode, accountID, delta})
}

func (m *MockScoreKeeper) WinnerDecided(roomCode string, accountID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Winners = append(m.Winners, accountID)
}

type testEnv struct {
	registry  *Registry
	broadcast *MockBroadcaster
	scores    *MockScoreKeeper
	timers    *timer.Manager
}

func newTestEnv() *testEnv {
	broadcaster := &MockBroadcaster{}
	scores := &MockScoreKeeper{}
	timers := timer.NewManager()
	return &testEnv{
		registry:  NewRegistry(Deps{Broadcast: broadcaster, Scores: scores, Timers: timers, RoundSeconds: 60, GuessAward: 10}),
		broadcast: broadcaster,
		scores:    scores,
		timers:    timers,
	}
}

func (e *testEnv) close() {
	e.timers.Shutdown()
}

// haltCountdown cancels the scheduled tick without invalidating the round
// generation, so a test can drive tick by hand without racing the scheduler.
func haltCountdown(r *Room) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timerID != 0 {
		r.deps.Timers.Cancel(r.timerID)
		r.timerID = 0
	}
	return r.generation
}

// playingRoom builds a room with Alice hosting, Bob joined, and a round in
// progress with a known drawer and word.
func (e *testEnv) playingRoom(drawerID, word string) *Room {
	r := e.registry.GetOrCreate("AB12C")
	r.Join("conn-alice", 1, "Alice")
	r.Join("conn-bob", 2, "Bob")
	r.StartRound("conn-alice")

	r.mu.Lock()
	r.round.DrawerID = drawerID
	r.round.Word = word
	r.mu.Unlock()

	e.broadcast.reset()
	return r
}
