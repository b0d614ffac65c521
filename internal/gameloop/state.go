// Package gameloop drives the fixed-tick simulation: draining transport
// input, applying sanitized actions, advancing the engine, and emitting
// per-session snapshots or deltas. Grounded on
// _examples/original_source/src/server.rs's `run_game_server` loop body,
// restructured around Go channels in place of the original's
// crossbeam-channel plumbing.
package gameloop

import (
	"time"

	"fight-club/internal/protocol"
	"fight-club/internal/world"
)

// Constants recovered from server.rs: the per-tick admission caps that
// keep one chatty session from starving the rest of the frame, and the
// bound on how far back a client's ack can lag before it gets a full
// snapshot instead of a delta.
const (
	maxSessionMessagesPerFrame   = 3
	maxDelayedMessagesPerSession = 10
	maxWorldHistorySize          = 120
)

// HeartbeatPeriod is the client's expected keepalive interval; a
// game_session_timeout shorter than this would time out idle-but-alive
// clients, so main warns when the two are misconfigured relative to each
// other (spec.md §6, server.rs's startup sanity check).
const HeartbeatPeriod = time.Second

// playerSession is the game loop's per-UDP-session bookkeeping, mirroring
// server.rs's `GameSession`. Keyed by the transport session id, not the
// player id, since a session exists (briefly) before a Join assigns it a
// player.
type playerSession struct {
	sessionID     uint64
	established   bool
	playerID      uint64
	ackWorldFrame uint64
	ackCastFrame  uint64
	lastActorID   world.ID // last ActorID unicast via GameUpdateSetActorID; world.NoID until sent

	messagesThisFrame int
	droppedMessages   int
	delayed           []protocol.ClientMessage
}
