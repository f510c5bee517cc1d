// persistence/interface.go
package persistence

import (
	"errors"

	"github.com/nitishkumar2303/doodlequest/models"
)

// Gateway is the durable mirror of in-memory match state. Every call is
// idempotent-safe to retry and none is required for gameplay correctness.
type Gateway interface {
	GetOrCreateMatch(roomCode string, hostAccountID int64) (int64, error)
	RegisterParticipant(matchID, accountID int64) error
	GetSavedScore(matchID, accountID int64) (int, error)
	AddScore(matchID, accountID int64, delta int) error
	MarkWinner(matchID, accountID int64) error
	GetAccountStats(accountID int64) (models.AccountStats, error)
	Close() error
}

var ErrRecordNotFound = errors.New("record not found")
