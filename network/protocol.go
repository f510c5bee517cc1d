package network

import "github.com/nitishkumar2303/doodlequest/models"

// Inbound events.
const (
	EventJoinRoom    = "join_room"
	EventToggleReady = "toggle_ready"
	EventStartGame   = "start_game"
	EventKickPlayer  = "kick_player"
	EventLeaveRoom   = "leave_room"
	EventSendMessage = "send_message"
	EventBeginPath   = "begin_path"
	EventDrawLine    = "draw_line"
)

// Outbound events.
const (
	EventUpdatePlayers  = "update_players"
	EventRoomData       = "room_data"
	EventGameStarted    = "game_started"
	EventYourWord       = "your_word"
	EventTimerUpdate    = "timer_update"
	EventClearCanvas    = "clear_canvas"
	EventGameOver       = "game_over"
	EventKicked         = "kicked"
	EventReceiveMessage = "receive_message"
)

type JoinRoomPayload struct {
	Room   string `json:"room"`
	Name   string `json:"name"`
	UserID int64  `json:"userId"`
}

// RoomPayload covers the inbound events that carry nothing but a room code.
type RoomPayload struct {
	Room string `json:"room"`
}

type KickPlayerPayload struct {
	Room     string `json:"room"`
	TargetID string `json:"targetId"`
}

type ChatPayload struct {
	Room    string `json:"room"`
	User    string `json:"user"`
	Message string `json:"message"`
}

type BeginPathPayload struct {
	Room  string  `json:"room"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Color string  `json:"color"`
	Width float64 `json:"width"`
}

type DrawLinePayload struct {
	Room string  `json:"room"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type RoomDataPayload struct {
	HostID string `json:"hostId"`
}

type GameStartedPayload struct {
	DrawerID   string `json:"drawerId"`
	WordLength int    `json:"wordLength"`
}

type YourWordPayload struct {
	Word string `json:"word"`
}

type TimerUpdatePayload struct {
	Seconds int `json:"seconds"`
}

type GameOverPayload struct {
	Winner string `json:"winner"`
	Score  int    `json:"score"`
}

type StrokeBeginPayload struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Color string  `json:"color"`
	Width float64 `json:"width"`
}

type StrokePointPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type UpdatePlayersPayload = []models.PlayerSnapshot
