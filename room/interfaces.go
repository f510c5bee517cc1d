package room

// Broadcaster delivers outbound events to live connections. Defined here to
// break the import cycle between room and broadcast.
type Broadcaster interface {
	Send(connID, event string, data interface{})
	SendMany(connIDs []string, event string, data interface{})
}

// ScoreKeeper mirrors gameplay outcomes into durable storage. Every method is
// fire-and-forget: implementations must never block the caller and must
// swallow failures, because in-memory state is the source of truth for a live
// session.
type ScoreKeeper interface {
	// PlayerJoined ensures the match row exists, registers the participant
	// and fetches their last saved score. onSeed is invoked from a background
	// goroutine once the match id (and saved score, possibly zero) is known.
	PlayerJoined(roomCode string, hostAccountID, accountID int64, onSeed func(matchID int64, saved int))
	ScoreAwarded(roomCode string, accountID int64, delta int)
	WinnerDecided(roomCode string, accountID int64)
}
