// models/models.go
package models

// PlayerSnapshot is the roster entry shape pushed to clients on every
// membership or score change.
type PlayerSnapshot struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Score   int    `json:"score"`
	IsReady bool   `json:"isReady"`
	IsHost  bool   `json:"isHost"`
}

// ChatMessage is a chat line, either from a player or from the system.
type ChatMessage struct {
	User     string `json:"user"`
	Message  string `json:"message"`
	IsSystem bool   `json:"isSystem"`
}

// AccountStats is the per-account aggregate served over the admin RPC.
type AccountStats struct {
	TotalMatches int `json:"total_matches"`
	Wins         int `json:"wins"`
	TotalScore   int `json:"total_score"`
}
