package gameloop

import "fight-club/internal/protocol"

// worldHistory is the bounded ring of recent full snapshots plus the
// deltas between consecutive snapshots, letting the loop answer "what
// changed since frame F" for any F within the last maxWorldHistorySize
// ticks without replaying the engine. Ported from server.rs's
// `world_history` / `world_updates_history` VecDeque pair.
type worldHistory struct {
	snapshots []protocol.WorldSnapshot
	deltas    []protocol.WorldUpdate
}

// record appends current to the ring, evicting the oldest entry first
// once full, and stores the delta from the previous snapshot to current
// alongside it (no delta is stored for the first snapshot ever recorded).
func (h *worldHistory) record(current protocol.WorldSnapshot) {
	if len(h.snapshots) >= maxWorldHistorySize {
		h.snapshots = h.snapshots[1:]
		if len(h.deltas) > 0 {
			h.deltas = h.deltas[1:]
		}
	}
	if len(h.snapshots) > 0 {
		prev := h.snapshots[len(h.snapshots)-1]
		h.deltas = append(h.deltas, protocol.MakeWorldUpdate(prev, current))
	}
	h.snapshots = append(h.snapshots, current)
}

// deltaSince computes the update that carries a session's last-acked
// frame forward to current, folding in every removal recorded by the
// intervening per-tick deltas (server.rs's `add_all_removed`). ok is
// false when ackFrame is too old for the retained history and the caller
// must fall back to a full snapshot.
func (h *worldHistory) deltaSince(ackFrame uint64, current protocol.WorldSnapshot) (protocol.WorldUpdate, bool) {
	if len(h.snapshots) == 0 || ackFrame >= current.Frame {
		return protocol.WorldUpdate{}, false
	}
	oldest := h.snapshots[0].Frame
	if ackFrame < oldest || ackFrame-oldest >= uint64(len(h.snapshots)) {
		return protocol.WorldUpdate{}, false
	}
	index := ackFrame - oldest
	base := h.snapshots[index]
	update := protocol.MakeWorldUpdate(base, current)
	for _, d := range h.deltas[index:] {
		update = protocol.AddAllRemoved(update, d)
	}
	return update, true
}
