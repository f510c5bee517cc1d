package room

import (
	"strings"
	"testing"

	"github.com/nitishkumar2303/doodlequest/models"
	"github.com/nitishkumar2303/doodlequest/network"
)

func TestNormalizeGuess(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"Pizza", []string{"pizza"}},
		{"I think its PIZZA!", []string{"i", "think", "its", "pizza"}},
		{"p-i-z-z-a", []string{"pizza"}},
		{"  lots   of   spaces  ", []string{"lots", "of", "spaces"}},
		{"!!!", nil},
	}
	for _, c := range cases {
		got := normalizeGuess(c.in)
		if len(got) != len(c.want) {
			t.Errorf("normalizeGuess(%q) = %v, want %v", c.in, got, c.want)
			continue
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("normalizeGuess(%q) = %v, want %v", c.in, got, c.want)
				break
			}
		}
	}
}

func TestHandleMessage_CorrectGuessAwards(t *testing.T) {
	env := newTestEnv()
	defer env.close()

	r := env.playingRoom("conn-bob", "Pizza")

	r.HandleMessage("conn-alice", "Alice", "i think its pizza!")

	if got := r.Players()[0].Score; got != 10 {
		t.Errorf("Expected Alice at 10 points, got %d", got)
	}
	if len(env.scores.Awards) != 1 {
		t.Fatalf("Expected one gateway award, got %d", len(env.scores.Awards))
	}
	if env.scores.Awards[0].AccountID != 1 || env.scores.Awards[0].Delta != 10 {
		t.Errorf("Unexpected award %+v", env.scores.Awards[0])
	}

	// The guess text itself must not be relayed, and the system notice must
	// not reveal the word to players still guessing.
	var sawNotice bool
	for _, e := range env.broadcast.named(network.EventReceiveMessage) {
		msg := e.Data.(models.ChatMessage)
		if strings.Contains(strings.ToLower(msg.Message), "pizza") {
			t.Errorf("The word leaked in chat: %q", msg.Message)
		}
		if msg.IsSystem && strings.Contains(msg.Message, "Alice guessed") {
			sawNotice = true
		}
	}
	if !sawNotice {
		t.Error("A correct guess must announce the guesser")
	}
	if len(env.broadcast.named(network.EventUpdatePlayers)) == 0 {
		t.Error("A correct guess must rebroadcast the roster")
	}
}

func TestHandleMessage_RepeatGuessIsPlainChat(t *testing.T) {
	env := newTestEnv()
	defer env.close()

	r := env.playingRoom("conn-bob", "Pizza")

	r.HandleMessage("conn-alice", "Alice", "pizza")
	env.broadcast.reset()

	r.HandleMessage("conn-alice", "Alice", "pizza again")

	if got := r.Players()[0].Score; got != 10 {
		t.Errorf("A repeat guess must not score again, got %d", got)
	}
	relays := env.broadcast.named(network.EventReceiveMessage)
	if len(relays) != 2 {
		t.Fatalf("The repeat must relay to both players, got %d sends", len(relays))
	}
	msg := relays[0].Data.(models.ChatMessage)
	if msg.IsSystem || msg.Message != "pizza again" {
		t.Errorf("The repeat must relay verbatim as plain chat, got %+v", msg)
	}
}

func TestHandleMessage_DrawerSayingWordIsPlainChat(t *testing.T) {
	env := newTestEnv()
	defer env.close()

	r := env.playingRoom("conn-bob", "Pizza")

	r.HandleMessage("conn-bob", "Bob", "pizza")

	if got := r.Players()[1].Score; got != 0 {
		t.Errorf("The drawer must never score, got %d", got)
	}
	if len(env.scores.Awards) != 0 {
		t.Error("The drawer must not trigger a gateway award")
	}
	relays := env.broadcast.named(network.EventReceiveMessage)
	if len(relays) == 0 {
		t.Fatal("The drawer's message must still relay as chat")
	}
	if relays[0].Data.(models.ChatMessage).Message != "pizza" {
		t.Error("The drawer's message must relay verbatim")
	}
}

func TestHandleMessage_NoRoundIsPlainChat(t *testing.T) {
	env := newTestEnv()
	defer env.close()

	r := env.registry.GetOrCreate("AB12C")
	r.Join("conn-1", 1, "Alice")
	r.Join("conn-2", 2, "Bob")
	env.broadcast.reset()

	r.HandleMessage("conn-1", "Alice", "Pizza")

	if got := r.Players()[0].Score; got != 0 {
		t.Errorf("Chat outside a round must not score, got %d", got)
	}
	relays := env.broadcast.named(network.EventReceiveMessage)
	if len(relays) != 2 {
		t.Fatalf("Expected a plain relay to both players, got %d sends", len(relays))
	}
	msg := relays[0].Data.(models.ChatMessage)
	if msg.User != "Alice" || msg.Message != "Pizza" || msg.IsSystem {
		t.Errorf("Unexpected relay %+v", msg)
	}
}

func TestHandleMessage_NonMemberIgnored(t *testing.T) {
	env := newTestEnv()
	defer env.close()

	r := env.playingRoom("conn-bob", "Pizza")
	haltCountdown(r)

	r.HandleMessage("conn-ghost", "Ghost", "pizza")

	if env.broadcast.count() != 0 {
		t.Error("A non-member message must be dropped")
	}
}

func TestHandleMessage_FallsBackToRosterName(t *testing.T) {
	env := newTestEnv()
	defer env.close()

	r := env.registry.GetOrCreate("AB12C")
	r.Join("conn-1", 1, "Alice")
	env.broadcast.reset()

	r.HandleMessage("conn-1", "", "hello")

	relays := env.broadcast.named(network.EventReceiveMessage)
	if len(relays) == 0 {
		t.Fatal("Expected the message to relay")
	}
	if relays[0].Data.(models.ChatMessage).User != "Alice" {
		t.Error("An empty sender must fall back to the roster name")
	}
}
