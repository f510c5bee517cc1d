// room/round.go
package room

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/nitishkumar2303/doodlequest/logger"
	"github.com/nitishkumar2303/doodlequest/network"
)

// StartRound begins a new drawing round. Rejected silently (no state change,
// no broadcast) unless the caller is the host and at least two players are
// present. A round already in progress is cancelled and replaced.
func (r *Room) StartRound(byConnID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if byConnID != r.hostID {
		logger.Log.Debugf("room %s: start_game by non-host %s ignored", r.Code, byConnID)
		return
	}
	if len(r.players) < 2 {
		logger.Log.Debugf("room %s: start_game with %d players ignored", r.Code, len(r.players))
		return
	}

	r.stopTimerLocked()
	r.strokes = r.strokes[:0]

	drawer := r.players[rand.Intn(len(r.players))]
	word := randomWord()

	r.round = &Round{
		DrawerID:        drawer.ConnectionID,
		Word:            word,
		SecondsLeft:     r.deps.RoundSeconds,
		CorrectGuessers: make(map[string]struct{}),
		Active:          true,
	}
	r.status = StatusPlaying

	logger.Log.Infof("room %s: round started, drawer=%s", r.Code, drawer.DisplayName)

	ids := r.connIDsLocked()
	b := r.deps.Broadcast
	b.SendMany(ids, network.EventClearCanvas, nil)
	b.SendMany(ids, network.EventTimerUpdate, network.TimerUpdatePayload{Seconds: r.round.SecondsLeft})
	b.SendMany(ids, network.EventGameStarted, network.GameStartedPayload{
		DrawerID:   drawer.ConnectionID,
		WordLength: len(word),
	})
	// The full word goes to the drawer alone; everyone else only ever sees
	// its length.
	b.Send(drawer.ConnectionID, network.EventYourWord, network.YourWordPayload{Word: word})

	gen := r.generation
	r.timerID = r.deps.Timers.Schedule(time.Second, time.Second, func() {
		r.tick(gen)
	})
}

// tick is the once-per-second countdown callback. The generation guard makes
// a stale tick (one scheduled before a restart or destroy) a no-op.
func (r *Room) tick(gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if gen != r.generation || r.round == nil || !r.round.Active {
		return
	}

	r.round.SecondsLeft--
	r.deps.Broadcast.SendMany(r.connIDsLocked(), network.EventTimerUpdate,
		network.TimerUpdatePayload{Seconds: r.round.SecondsLeft})

	if r.round.SecondsLeft > 0 {
		return
	}

	r.stopTimerLocked()
	r.systemMessageLocked(fmt.Sprintf("Time's up! The word was %s", r.round.Word))
	r.finishRoundLocked()
}

// stopTimerLocked cancels the countdown and invalidates any tick already in
// flight by bumping the round generation.
func (r *Room) stopTimerLocked() {
	if r.timerID != 0 {
		r.deps.Timers.Cancel(r.timerID)
		r.timerID = 0
	}
	r.generation++
}

// finishRoundLocked resolves the round: the winner is the player with the
// strictly highest score, ties broken by join order; all-zero scores mean no
// winner. The winner flag is mirrored to the gateway asynchronously and the
// outcome is never blocked or reversed by it.
func (r *Room) finishRoundLocked() {
	if r.round == nil {
		return
	}
	r.round.Active = false

	var winner *Player
	for _, p := range r.players {
		if p.Score > 0 && (winner == nil || p.Score > winner.Score) {
			winner = p
		}
	}

	name, score := "No one", 0
	if winner != nil {
		name, score = winner.DisplayName, winner.Score
		r.deps.Scores.WinnerDecided(r.Code, winner.AccountID)
	}

	logger.Log.Infof("room %s: round over, winner=%s score=%d", r.Code, name, score)
	r.deps.Broadcast.SendMany(r.connIDsLocked(), network.EventGameOver,
		network.GameOverPayload{Winner: name, Score: score})

	r.round = nil
	r.status = StatusWaiting
}
