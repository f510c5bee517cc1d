// room/strokes.go
package room

import (
	"github.com/nitishkumar2303/doodlequest/network"
)

// StrokeKind discriminates the two atomic drawing actions.
type StrokeKind int

const (
	StrokeBegin StrokeKind = iota
	StrokeExtend
)

// StrokeEvent is one drawing action, owned by the room for the lifetime of
// the current round only and replayed verbatim to mid-round joiners.
type StrokeEvent struct {
	Kind  StrokeKind
	X     float64
	Y     float64
	Color string
	Width float64
}

// BeginPath starts a new path. Only the current drawer may draw; strokes
// from anyone else are dropped server-side, not just disabled in the
// drawer's UI. Accepted strokes are logged and fanned out to every other
// connection in the room.
func (r *Room) BeginPath(connID string, x, y float64, color string, width float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.drawerLocked(connID) {
		return
	}

	r.strokes = append(r.strokes, StrokeEvent{Kind: StrokeBegin, X: x, Y: y, Color: color, Width: width})
	r.deps.Broadcast.SendMany(r.connIDsExceptLocked(connID), network.EventBeginPath,
		network.StrokeBeginPayload{X: x, Y: y, Color: color, Width: width})
}

// DrawLine extends the open path with one point.
func (r *Room) DrawLine(connID string, x, y float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.drawerLocked(connID) || len(r.strokes) == 0 {
		return
	}

	r.strokes = append(r.strokes, StrokeEvent{Kind: StrokeExtend, X: x, Y: y})
	r.deps.Broadcast.SendMany(r.connIDsExceptLocked(connID), network.EventDrawLine,
		network.StrokePointPayload{X: x, Y: y})
}

func (r *Room) drawerLocked(connID string) bool {
	return r.round != nil && r.round.Active && r.round.DrawerID == connID
}

// replayStrokesLocked sends the full stroke history to one connection, in
// original order. The caller holds the room lock, so no live stroke can
// interleave with the replay.
func (r *Room) replayStrokesLocked(connID string) {
	b := r.deps.Broadcast
	for _, s := range r.strokes {
		switch s.Kind {
		case StrokeBegin:
			b.Send(connID, network.EventBeginPath,
				network.StrokeBeginPayload{X: s.X, Y: s.Y, Color: s.Color, Width: s.Width})
		case StrokeExtend:
			b.Send(connID, network.EventDrawLine, network.StrokePointPayload{X: s.X, Y: s.Y})
		}
	}
}
