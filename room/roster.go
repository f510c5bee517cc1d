// room/roster.go
package room

import (
	"fmt"
	"slices"

	"github.com/nitishkumar2303/doodlequest/logger"
	"github.com/nitishkumar2303/doodlequest/network"
)

// Join adds a player to the room, or rebinds an existing one when a player
// with the same account id is already present (reconnect). On reconnect the
// score and host flag survive; only the connection id and ready flag are
// refreshed. A player joining mid-round is caught up with the round state and
// the full stroke history before any live stroke can reach them.
//
// Join fails on a room the registry has already destroyed; the caller must
// re-resolve through GetOrCreate, which hands out a fresh live room.
func (r *Room) Join(connID string, accountID int64, name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.dead {
		return false
	}

	if p := r.playerByAccountLocked(accountID); p != nil {
		r.rebindLocked(p, connID)
	} else {
		p := &Player{
			ConnectionID: connID,
			AccountID:    accountID,
			DisplayName:  name,
			IsHost:       len(r.players) == 0,
		}
		if p.IsHost {
			r.hostID = connID
		}
		r.players = append(r.players, p)

		hostAccountID := r.players[0].AccountID
		r.deps.Scores.PlayerJoined(r.Code, hostAccountID, accountID, func(matchID int64, saved int) {
			r.applySeed(accountID, matchID, saved)
		})
	}

	r.catchUpLocked(connID)
	r.broadcastRosterLocked()
	r.broadcastHostLocked()
	return true
}

// rebindLocked refreshes the transient connection id of a returning player,
// re-pointing the host designation, the drawer slot and any correct-guess
// record that referenced the old id.
func (r *Room) rebindLocked(p *Player, connID string) {
	oldID := p.ConnectionID
	p.ConnectionID = connID
	p.IsReady = false

	if p.IsHost {
		r.hostID = connID
	}
	if r.round != nil {
		if r.round.DrawerID == oldID {
			r.round.DrawerID = connID
		}
		if _, ok := r.round.CorrectGuessers[oldID]; ok {
			delete(r.round.CorrectGuessers, oldID)
			r.round.CorrectGuessers[connID] = struct{}{}
		}
	}
}

// catchUpLocked brings a joining connection in sync with an in-progress
// round: round announcement, stroke replay in original order, current timer,
// and the secret word when the joiner is the drawer.
func (r *Room) catchUpLocked(connID string) {
	if r.round == nil || !r.round.Active {
		return
	}

	b := r.deps.Broadcast
	b.Send(connID, network.EventGameStarted, network.GameStartedPayload{
		DrawerID:   r.round.DrawerID,
		WordLength: len(r.round.Word),
	})
	r.replayStrokesLocked(connID)
	b.Send(connID, network.EventTimerUpdate, network.TimerUpdatePayload{Seconds: r.round.SecondsLeft})
	if r.round.DrawerID == connID {
		b.Send(connID, network.EventYourWord, network.YourWordPayload{Word: r.round.Word})
	}
}

// applySeed lands the async score seed fetched at join time. The saved value
// is added to whatever the player earned meanwhile, so live points are never
// lost to a slow gateway.
func (r *Room) applySeed(accountID int64, matchID int64, saved int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.dead {
		return
	}
	r.matchID = matchID

	p := r.playerByAccountLocked(accountID)
	if p == nil || saved <= 0 {
		return
	}
	p.Score += saved
	r.broadcastRosterLocked()
}

// ToggleReady flips the ready flag of the matching player. Unknown
// connection ids are ignored. The host's own flag is cosmetic and never
// gates a round start.
func (r *Room) ToggleReady(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.playerByConnLocked(connID)
	if p == nil {
		return
	}
	p.IsReady = !p.IsReady
	r.broadcastRosterLocked()
}

// Leave removes the player behind connID. Disconnects are treated
// identically: no grace period, a later reconnect is a fresh Join matched by
// account id with the score restored from the persistence gateway.
func (r *Room) Leave(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(connID)
}

// Kick removes targetID on behalf of byID. Fails silently unless byID is the
// host. The target alone receives a kicked notice before removal.
func (r *Room) Kick(targetID, byID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if byID != r.hostID {
		logger.Log.Debugf("room %s: kick by non-host %s ignored", r.Code, byID)
		return false
	}
	if r.playerByConnLocked(targetID) == nil {
		return false
	}

	r.deps.Broadcast.Send(targetID, network.EventKicked, nil)
	r.removeLocked(targetID)
	return true
}

func (r *Room) removeLocked(connID string) {
	idx := -1
	for i, p := range r.players {
		if p.ConnectionID == connID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return
	}

	p := r.players[idx]
	r.players = slices.Delete(r.players, idx, idx+1)
	logger.Log.Infof("room %s: player %s left", r.Code, p.DisplayName)

	if p.IsHost {
		r.hostID = ""
		if len(r.players) > 0 {
			// Deterministic succession: earliest-joined remaining player.
			r.players[0].IsHost = true
			r.hostID = r.players[0].ConnectionID
			r.broadcastHostLocked()
		}
	}

	if r.round != nil && r.round.Active && r.round.DrawerID == connID {
		r.systemMessageLocked(fmt.Sprintf("%s left and was drawing. Round over!", p.DisplayName))
		r.stopTimerLocked()
		r.finishRoundLocked()
	}

	r.broadcastRosterLocked()
}
