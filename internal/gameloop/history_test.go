package gameloop

import (
	"testing"

	"fight-club/internal/geom"
	"fight-club/internal/protocol"
	"fight-club/internal/world"
)

func snap(frame uint64, actors ...world.Actor) protocol.WorldSnapshot {
	bounds := geom.NewRect(geom.NewVec2(-10, -10), geom.NewVec2(10, 10))
	return protocol.WorldSnapshot{
		Frame:    frame,
		Bounds:   bounds,
		Settings: world.DefaultSettings(),
		Actors:   actors,
	}
}

func actor(id world.ID, x float64) world.Actor {
	return world.Actor{ID: id, Active: true, Name: "a", Position: geom.NewVec2(x, 0)}
}

func TestWorldHistoryDeltaSinceMostRecent(t *testing.T) {
	var h worldHistory
	h.record(snap(1, actor(1, 0)))
	current := snap(2, actor(1, 5))
	update, ok := h.deltaSince(1, current)
	if !ok {
		t.Fatal("expected delta to be computable for most-recent ack")
	}
	if update.Frame != 2 {
		t.Fatalf("expected update frame 2, got %d", update.Frame)
	}
}

func TestWorldHistoryDeltaSinceUnknownAckFallsBackToSnapshot(t *testing.T) {
	var h worldHistory
	h.record(snap(1, actor(1, 0)))
	current := snap(2, actor(1, 5))

	if _, ok := h.deltaSince(0, current); ok {
		t.Fatal("expected ack frame older than any retained snapshot to fail")
	}
}

func TestWorldHistoryEvictsOldestPastCapacity(t *testing.T) {
	var h worldHistory
	for i := uint64(1); i <= maxWorldHistorySize+10; i++ {
		h.record(snap(i, actor(1, float64(i))))
	}
	if len(h.snapshots) != maxWorldHistorySize {
		t.Fatalf("expected ring capped at %d, got %d", maxWorldHistorySize, len(h.snapshots))
	}

	current := snap(maxWorldHistorySize+10, actor(1, 999))
	oldestRetainedFrame := current.Frame - uint64(len(h.snapshots)-1)
	if _, ok := h.deltaSince(oldestRetainedFrame-1, current); ok {
		t.Fatal("expected ack frame older than retained history to be rejected")
	}
	if _, ok := h.deltaSince(oldestRetainedFrame, current); !ok {
		t.Fatal("expected ack frame at the oldest retained snapshot to succeed")
	}
}

func TestWorldHistoryDeltaSinceAddsAllRemoved(t *testing.T) {
	var h worldHistory
	h.record(snap(1, actor(1, 0), actor(2, 0)))
	h.record(snap(2, actor(1, 1))) // actor 2 removed on this tick
	current := snap(3, actor(1, 2))

	update, ok := h.deltaSince(1, current)
	if !ok {
		t.Fatal("expected delta across two intervening ticks to succeed")
	}
	found := false
	for _, id := range update.Actors.Removed {
		if id == 2 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected actor 2's removal to be folded into the delta, got %+v", update.Actors.Removed)
	}
}
