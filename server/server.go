package server

import (
	"encoding/json"
	"net/http"
	"net/rpc"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/nitishkumar2303/doodlequest/broadcast"
	"github.com/nitishkumar2303/doodlequest/config"
	"github.com/nitishkumar2303/doodlequest/logger"
	"github.com/nitishkumar2303/doodlequest/monitor"
	"github.com/nitishkumar2303/doodlequest/network"
	"github.com/nitishkumar2303/doodlequest/persistence"
	"github.com/nitishkumar2303/doodlequest/room"
	doodlequest_rpc "github.com/nitishkumar2303/doodlequest/rpc"
	"github.com/nitishkumar2303/doodlequest/services"
	"github.com/nitishkumar2303/doodlequest/session"
	"github.com/nitishkumar2303/doodlequest/timer"
)

// GameServer is the transport boundary: it owns the websocket listener,
// translates inbound envelopes into room operations and leaves all game
// state to the room registry.
type GameServer struct {
	addr         string
	upgrader     websocket.Upgrader
	registry     *room.Registry
	sessions     *session.Manager
	monitor      *monitor.Monitor
	rpcServer    *doodlequest_rpc.Server
	timers       *timer.Manager
	shutdownChan chan struct{}
}

func NewGameServer(cfg *config.Config, db persistence.Gateway) *GameServer {
	sessions := session.NewManager()
	timers := timer.NewManager()

	s := &GameServer{
		addr:     cfg.Server.HTTPAddress,
		sessions: sessions,
		timers:   timers,
		registry: room.NewRegistry(room.Deps{
			Broadcast:    broadcast.NewSessionBroadcaster(sessions),
			Scores:       services.NewScoreService(db),
			Timers:       timers,
			RoundSeconds: cfg.Game.RoundSeconds,
			GuessAward:   cfg.Game.GuessAward,
		}),
		monitor:      monitor.NewMonitor("doodlequest"),
		shutdownChan: make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	rpcServer, err := doodlequest_rpc.NewServer(cfg.Server.RPCAddress)
	if err != nil {
		logger.Log.Fatalf("Failed to create RPC server: %v", err)
	}
	s.rpcServer = rpcServer
	rpc.Register(doodlequest_rpc.NewStatsService(db))

	s.monitor.StartServer(cfg.Server.MetricsAddress)

	return s
}

func (s *GameServer) Start() error {
	go s.rpcServer.Start()

	http.HandleFunc("/ws", s.handleWebSocket)
	logger.Log.Infof("Game server listening on %s", s.addr)
	return http.ListenAndServe(s.addr, nil)
}

func (s *GameServer) Shutdown() {
	close(s.shutdownChan)
	s.rpcServer.Stop()
	s.timers.Shutdown()
}

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.handleConnection(conn)
}

func (s *GameServer) handleConnection(conn *websocket.Conn) {
	wsConn := network.NewWSConnection(conn)
	sess := session.NewSession(uuid.New().String(), wsConn)
	s.sessions.Add(sess)
	s.monitor.IncOnlinePlayers()

	logger.Log.Infof("New connection from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())

	defer func() {
		logger.Log.Infof("Connection closed from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())
		s.handleDisconnect(sess)
		s.sessions.Remove(sess.GetID())
		s.monitor.DecOnlinePlayers()
		wsConn.Close()
	}()

	for {
		select {
		case <-s.shutdownChan:
			return
		default:
			env, err := wsConn.ReadEnvelope()
			if err != nil {
				return
			}
			s.handleEnvelope(sess, env)
		}
	}
}

// handleEnvelope dispatches one inbound event. A panic while handling a
// single event is contained here, so one malformed event can never take the
// connection's room, or any other room, down with it.
func (s *GameServer) handleEnvelope(sess *session.Session, env *network.Envelope) {
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Errorf("panic handling %s from session %s: %v", env.Event, sess.GetID(), r)
		}
		s.monitor.ObserveEventLatency(time.Since(started))
	}()
	s.monitor.IncEventsReceived()

	switch env.Event {
	case network.EventJoinRoom:
		s.handleJoinRoom(sess, env.Data)
	case network.EventToggleReady:
		s.handleToggleReady(sess, env.Data)
	case network.EventStartGame:
		s.handleStartGame(sess, env.Data)
	case network.EventKickPlayer:
		s.handleKickPlayer(sess, env.Data)
	case network.EventLeaveRoom:
		s.handleLeaveRoom(sess, env.Data)
	case network.EventSendMessage:
		s.handleSendMessage(sess, env.Data)
	case network.EventBeginPath:
		s.handleBeginPath(sess, env.Data)
	case network.EventDrawLine:
		s.handleDrawLine(sess, env.Data)
	default:
		logger.Log.Infof("Unknown event type: %s", env.Event)
	}
}

func (s *GameServer) handleJoinRoom(sess *session.Session, data json.RawMessage) {
	var payload network.JoinRoomPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		logger.Log.Warnf("malformed join_room payload: %v", err)
		return
	}

	code := room.NormalizeCode(payload.Room)
	if code == "" || payload.Name == "" {
		logger.Log.Warnf("join_room with empty room or name from session %s", sess.GetID())
		return
	}
	// Account id 0 would make every anonymous guest reconnect as the same
	// player, so it is rejected like a missing name.
	if payload.UserID == 0 {
		logger.Log.Warnf("join_room without userId from session %s", sess.GetID())
		return
	}

	// A client that joins a second room implicitly leaves the first.
	if sess.RoomCode != "" && sess.RoomCode != code {
		if old, exists := s.registry.Get(sess.RoomCode); exists {
			old.Leave(sess.GetID())
			s.reapRoom(sess.RoomCode)
		}
	}

	sess.AccountID = payload.UserID
	sess.DisplayName = payload.Name

	// A join can race the destroy of an emptied room with the same code; the
	// dead room rejects it, and re-resolving yields a fresh live one.
	r := s.registry.GetOrCreate(code)
	for !r.Join(sess.GetID(), payload.UserID, payload.Name) {
		r = s.registry.GetOrCreate(code)
	}
	sess.RoomCode = code

	logger.Log.Infof("Session %s joined room %s as %s", sess.GetID(), code, payload.Name)
	s.monitor.SetActiveRooms(s.registry.Count())
}

func (s *GameServer) handleToggleReady(sess *session.Session, data json.RawMessage) {
	if r, ok := s.resolveRoom(data); ok {
		r.ToggleReady(sess.GetID())
	}
}

func (s *GameServer) handleStartGame(sess *session.Session, data json.RawMessage) {
	if r, ok := s.resolveRoom(data); ok {
		r.StartRound(sess.GetID())
	}
}

func (s *GameServer) handleKickPlayer(sess *session.Session, data json.RawMessage) {
	var payload network.KickPlayerPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		logger.Log.Warnf("malformed kick_player payload: %v", err)
		return
	}

	code := room.NormalizeCode(payload.Room)
	r, exists := s.registry.Get(code)
	if !exists {
		return
	}
	if r.Kick(payload.TargetID, sess.GetID()) {
		s.reapRoom(code)
	}
}

func (s *GameServer) handleLeaveRoom(sess *session.Session, data json.RawMessage) {
	r, ok := s.resolveRoom(data)
	if !ok {
		return
	}
	r.Leave(sess.GetID())
	sess.RoomCode = ""
	s.reapRoom(r.Code)
}

func (s *GameServer) handleSendMessage(sess *session.Session, data json.RawMessage) {
	var payload network.ChatPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		logger.Log.Warnf("malformed send_message payload: %v", err)
		return
	}

	r, exists := s.registry.Get(room.NormalizeCode(payload.Room))
	if !exists {
		return
	}

	s.monitor.IncChatMessages()
	sender := sess.DisplayName
	if sender == "" {
		sender = payload.User
	}
	r.HandleMessage(sess.GetID(), sender, payload.Message)
}

func (s *GameServer) handleBeginPath(sess *session.Session, data json.RawMessage) {
	var payload network.BeginPathPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		logger.Log.Warnf("malformed begin_path payload: %v", err)
		return
	}

	r, exists := s.registry.Get(room.NormalizeCode(payload.Room))
	if !exists {
		return
	}

	s.monitor.IncStrokeEvents()
	r.BeginPath(sess.GetID(), payload.X, payload.Y, payload.Color, payload.Width)
}

func (s *GameServer) handleDrawLine(sess *session.Session, data json.RawMessage) {
	var payload network.DrawLinePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		logger.Log.Warnf("malformed draw_line payload: %v", err)
		return
	}

	r, exists := s.registry.Get(room.NormalizeCode(payload.Room))
	if !exists {
		return
	}

	s.monitor.IncStrokeEvents()
	r.DrawLine(sess.GetID(), payload.X, payload.Y)
}

// handleDisconnect treats a transport-level close exactly like an explicit
// leave: the owning room is resolved by membership scan, the player removed,
// and the room destroyed if that left it empty.
func (s *GameServer) handleDisconnect(sess *session.Session) {
	r, exists := s.registry.RoomOf(sess.GetID())
	if !exists {
		return
	}
	r.Leave(sess.GetID())
	s.reapRoom(r.Code)
}

func (s *GameServer) resolveRoom(data json.RawMessage) (*room.Room, bool) {
	var payload network.RoomPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		logger.Log.Warnf("malformed room payload: %v", err)
		return nil, false
	}
	return s.registry.Get(room.NormalizeCode(payload.Room))
}

func (s *GameServer) reapRoom(code string) {
	s.registry.DestroyIfEmpty(code)
	s.monitor.SetActiveRooms(s.registry.Count())
}
