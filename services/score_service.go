// services/score_service.go
package services

import (
	"sync"

	"github.com/nitishkumar2303/doodlequest/logger"
	"github.com/nitishkumar2303/doodlequest/persistence"
)

// ScoreService is the async mirror between live rooms and the persistence
// gateway. Every operation runs in its own goroutine; failures are logged and
// swallowed so a slow or broken database never blocks a join, a guess or a
// round transition.
type ScoreService struct {
	gateway persistence.Gateway

	mutex   sync.Mutex
	matches map[string]int64 // room code -> match id
}

func NewScoreService(gateway persistence.Gateway) *ScoreService {
	return &ScoreService{
		gateway: gateway,
		matches: make(map[string]int64),
	}
}

// PlayerJoined resolves the match for the room, registers the participant
// and fetches their last saved score, then hands both back through onSeed.
func (s *ScoreService) PlayerJoined(roomCode string, hostAccountID, accountID int64, onSeed func(matchID int64, saved int)) {
	go func() {
		matchID, err := s.matchID(roomCode, hostAccountID)
		if err != nil {
			logger.Log.Errorf("score: match lookup for room %s failed: %v", roomCode, err)
			return
		}

		if err := s.gateway.RegisterParticipant(matchID, accountID); err != nil {
			logger.Log.Errorf("score: register participant %d failed: %v", accountID, err)
		}

		saved, err := s.gateway.GetSavedScore(matchID, accountID)
		if err != nil {
			logger.Log.Errorf("score: saved score for %d failed: %v", accountID, err)
			saved = 0
		}

		if onSeed != nil {
			onSeed(matchID, saved)
		}
	}()
}

func (s *ScoreService) ScoreAwarded(roomCode string, accountID int64, delta int) {
	go func() {
		matchID, err := s.matchID(roomCode, accountID)
		if err != nil {
			logger.Log.Errorf("score: match lookup for room %s failed: %v", roomCode, err)
			return
		}
		if err := s.gateway.AddScore(matchID, accountID, delta); err != nil {
			logger.Log.Errorf("score: add %d for %d failed: %v", delta, accountID, err)
		}
	}()
}

func (s *ScoreService) WinnerDecided(roomCode string, accountID int64) {
	go func() {
		matchID, err := s.matchID(roomCode, accountID)
		if err != nil {
			logger.Log.Errorf("score: match lookup for room %s failed: %v", roomCode, err)
			return
		}
		if err := s.gateway.MarkWinner(matchID, accountID); err != nil {
			logger.Log.Errorf("score: mark winner %d failed: %v", accountID, err)
		}
	}()
}

// matchID returns the cached match id for a room, asking the gateway on a
// miss. GetOrCreateMatch is idempotent, so racing resolvers converge on the
// same row.
func (s *ScoreService) matchID(roomCode string, accountID int64) (int64, error) {
	s.mutex.Lock()
	id, cached := s.matches[roomCode]
	s.mutex.Unlock()
	if cached {
		return id, nil
	}

	id, err := s.gateway.GetOrCreateMatch(roomCode, accountID)
	if err != nil {
		return 0, err
	}

	s.mutex.Lock()
	s.matches[roomCode] = id
	s.mutex.Unlock()
	return id, nil
}
