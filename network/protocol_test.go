package network

import (
	"encoding/json"
	"strings"
	"testing"
)

// The field names below are the wire contract with the browser client; a
// renamed json tag breaks every deployed client silently.

func TestInboundEnvelopeDecodes(t *testing.T) {
	raw := `{"event":"join_room","data":{"room":"ab12c","name":"Alice","userId":42}}`

	var env Envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		t.Fatalf("envelope decode failed: %v", err)
	}
	if env.Event != EventJoinRoom {
		t.Errorf("Expected event %s, got %s", EventJoinRoom, env.Event)
	}

	var payload JoinRoomPayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatalf("payload decode failed: %v", err)
	}
	if payload.Room != "ab12c" || payload.Name != "Alice" || payload.UserID != 42 {
		t.Errorf("Unexpected payload %+v", payload)
	}
}

func TestOutboundFieldNames(t *testing.T) {
	cases := []struct {
		payload interface{}
		want    []string
	}{
		{GameStartedPayload{DrawerID: "c1", WordLength: 5}, []string{`"drawerId"`, `"wordLength"`}},
		{RoomDataPayload{HostID: "c1"}, []string{`"hostId"`}},
		{KickPlayerPayload{Room: "AB12C", TargetID: "c2"}, []string{`"targetId"`}},
		{TimerUpdatePayload{Seconds: 60}, []string{`"seconds"`}},
		{GameOverPayload{Winner: "Alice", Score: 30}, []string{`"winner"`, `"score"`}},
	}

	for _, c := range cases {
		raw, err := json.Marshal(c.payload)
		if err != nil {
			t.Fatalf("marshal %T failed: %v", c.payload, err)
		}
		for _, key := range c.want {
			if !strings.Contains(string(raw), key) {
				t.Errorf("%T must serialize key %s, got %s", c.payload, key, raw)
			}
		}
	}
}

func TestEnvelopeOmitsEmptyData(t *testing.T) {
	raw, err := json.Marshal(Envelope{Event: EventClearCanvas})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if strings.Contains(string(raw), `"data"`) {
		t.Errorf("An empty payload must be omitted, got %s", raw)
	}
}
