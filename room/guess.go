// room/guess.go
package room

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/nitishkumar2303/doodlequest/models"
	"github.com/nitishkumar2303/doodlequest/network"
)

var guessCleaner = regexp.MustCompile(`[^a-z0-9 ]`)

// normalizeGuess lowercases a chat line, strips everything outside
// [a-z0-9 ] and splits on spaces, so "I think its Pizza!" still matches
// "pizza".
func normalizeGuess(text string) []string {
	clean := guessCleaner.ReplaceAllString(strings.ToLower(text), "")
	return strings.Fields(clean)
}

// HandleMessage evaluates a chat line as a guess and otherwise relays it
// verbatim. The chat channel doubles as the guess channel on purpose: one
// input surface, with normalization absorbing punctuation and case noise.
//
// A guess is correct iff a round is active, the normalized words contain the
// secret word, the sender is not the drawer, and the sender has not already
// guessed correctly this round. The drawer's own message containing the word,
// and a repeat guess, fall through to ordinary chat rather than being
// swallowed.
func (r *Room) HandleMessage(connID, sender, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.playerByConnLocked(connID)
	if p == nil {
		return
	}
	if sender == "" {
		sender = p.DisplayName
	}

	if r.correctGuessLocked(connID, text) {
		r.round.CorrectGuessers[connID] = struct{}{}
		p.Score += r.deps.GuessAward
		r.deps.Scores.ScoreAwarded(r.Code, p.AccountID, r.deps.GuessAward)

		r.broadcastRosterLocked()
		// The system notice never reveals the word.
		r.systemMessageLocked(fmt.Sprintf("%s guessed the word!", p.DisplayName))
		return
	}

	r.deps.Broadcast.SendMany(r.connIDsLocked(), network.EventReceiveMessage, models.ChatMessage{
		User:    sender,
		Message: text,
	})
}

func (r *Room) correctGuessLocked(connID, text string) bool {
	if r.round == nil || !r.round.Active || r.round.Word == "" {
		return false
	}
	if connID == r.round.DrawerID {
		return false
	}
	if _, already := r.round.CorrectGuessers[connID]; already {
		return false
	}
	return slices.Contains(normalizeGuess(text), strings.ToLower(r.round.Word))
}
