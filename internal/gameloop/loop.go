package gameloop

import (
	"context"
	"math/rand"
	"time"

	"fight-club/internal/admin"
	"fight-club/internal/engine"
	"fight-club/internal/protocol"
	"fight-club/internal/session"
	"fight-club/internal/world"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "gameloop")

// Loop is the single-goroutine authoritative tick scheduler: it owns the
// *world.World exclusively, drains the transport's ingress queue, applies
// sanitized actions, advances the engine, and emits snapshots or deltas
// back out through the transport's egress queue. Ported from server.rs's
// `run_game_server`.
type Loop struct {
	world     *world.World
	rng       *rand.Rand
	beams     *engine.BeamCollider
	transport *session.Server
	adminCh   chan admin.Request

	maxPlayers   int
	updatePeriod time.Duration

	sessions map[uint64]*playerSession
	limiters *sessionLimiters
	history  worldHistory

	fps      *fpsReservoir
	frameDur *durationReservoir

	stopped bool
}

// Config bundles the knobs NewLoop needs beyond the world and transport.
type Config struct {
	MaxPlayers      int
	UpdateFrequency float64
	UpdatePeriod    time.Duration
	RandomSeed      int64
}

// NewLoop builds a Loop ready to Run. w is taken over exclusively; nothing
// else may touch it once Run starts.
func NewLoop(w *world.World, transport *session.Server, adminCh chan admin.Request, cfg Config) *Loop {
	seed := cfg.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Loop{
		world:        w,
		rng:          rand.New(rand.NewSource(seed)),
		beams:        &engine.BeamCollider{},
		transport:    transport,
		adminCh:      adminCh,
		maxPlayers:   cfg.MaxPlayers,
		updatePeriod: cfg.UpdatePeriod,
		sessions:     make(map[uint64]*playerSession),
		limiters:     newSessionLimiters(cfg.UpdateFrequency),
		fps:          newFPSReservoir(100, time.Second),
		frameDur:     newDurationReservoir(100, time.Second),
	}
}

// Run drives the fixed-step loop until ctx is cancelled, sleeping between
// ticks with catch-up semantics: a tick that overruns its budget skips
// the sleep and rebases the deadline instead of letting debt accumulate,
// matching server.rs's `FrameRateLimiter`.
func (l *Loop) Run(ctx context.Context) {
	next := time.Now().Add(l.updatePeriod)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if l.stopped {
			return
		}

		l.fps.add(time.Now())
		start := time.Now()
		l.tick()
		elapsed := time.Since(start)
		l.frameDur.add(elapsed)
		admin.RecordTick(elapsed)
		admin.UpdateSessionCount(l.transport.Sessions().Len())
		admin.UpdatePlayerCount(engine.ActivePlayerCount(l.world))

		now := time.Now()
		if now.Before(next) {
			timer := time.NewTimer(next.Sub(now))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
			next = next.Add(l.updatePeriod)
		} else {
			next = now.Add(l.updatePeriod)
		}
	}
}

func (l *Loop) tick() {
	l.drainDelayed()
	l.drainIngress()
	l.logDroppedMessages()
	l.applyQuits()

	engine.Advance(l.world, l.updatePeriod.Seconds(), l.rng, l.beams)

	l.sendActorIDUpdates()

	current := protocol.SnapshotWorld(l.world)
	l.sendWorldMessages(current)
	l.history.record(current)

	l.handleOneAdminRequest()
}

// drainDelayed resets each session's per-frame counter and replays as
// many queued delayed messages as the per-frame cap allows, in order.
// Ported from server.rs's `handle_delayed_messages`.
func (l *Loop) drainDelayed() {
	for _, ps := range l.sessions {
		ps.messagesThisFrame = 0
		for len(ps.delayed) > 0 && ps.messagesThisFrame < maxSessionMessagesPerFrame {
			msg := ps.delayed[0]
			ps.delayed = ps.delayed[1:]
			l.handleMessage(ps, msg)
		}
	}
}

// drainIngress pulls every message currently queued by the transport and
// either handles it immediately (if under the per-frame cap and the
// token bucket allows it), queues it as delayed, or drops it once the
// delayed queue is also full. Ported from server.rs's
// `handle_new_client_messages` / `handle_session_new_message`.
func (l *Loop) drainIngress() {
	for {
		select {
		case in := <-l.transport.Ingress:
			l.admitInbound(in)
		default:
			return
		}
	}
}

func (l *Loop) admitInbound(in session.Inbound) {
	ps, ok := l.sessions[in.SessionID]
	if !ok {
		ps = &playerSession{sessionID: in.SessionID}
		l.sessions[in.SessionID] = ps
	}

	if ps.messagesThisFrame < maxSessionMessagesPerFrame && l.limiters.allow(in.SessionID) {
		l.handleMessage(ps, in.Message)
		return
	}
	if len(ps.delayed) >= maxDelayedMessagesPerSession {
		ps.droppedMessages++
		admin.RecordMessageDropped("capacity")
		return
	}
	ps.delayed = append(ps.delayed, in.Message)
}

// handleMessage dispatches one admitted client message against the
// world, mirroring server.rs's `handle_session_message`.
func (l *Loop) handleMessage(ps *playerSession, msg protocol.ClientMessage) {
	ps.messagesThisFrame++

	switch msg.Data.Kind {
	case protocol.ClientJoin:
		l.handleJoin(ps, msg.Data.JoinName)
	case protocol.ClientQuit:
		l.handleQuit(ps)
	case protocol.ClientHeartbeat:
		// Touch already happened at the transport layer; nothing to do.
	case protocol.ClientPlayerControl:
		l.handlePlayerControl(ps, msg.Data)
	}
}

func (l *Loop) handleJoin(ps *playerSession, name string) {
	if ps.established {
		l.unicast(ps.sessionID, protocol.ServerMessageData{
			Kind:         protocol.ServerNewPlayer,
			UpdatePeriod: l.updatePeriod.Seconds(),
			PlayerID:     world.ID(ps.playerID),
		}, nil)
		return
	}

	if !protocol.IsValidPlayerName(name) {
		l.unicast(ps.sessionID, errorMessage("Invalid player name"), nil)
		return
	}
	if engine.ActivePlayerCount(l.world) >= l.maxPlayers {
		l.unicast(ps.sessionID, errorMessage("Server is full"), nil)
		return
	}
	if engine.FindPlayerByName(l.world, name) >= 0 {
		l.unicast(ps.sessionID, errorMessage("Player name is busy"), nil)
		return
	}

	player := engine.AddPlayer(l.world, name)
	ps.established = true
	ps.playerID = uint64(player.ID)
	ps.ackCastFrame = l.world.Frame

	established := session.StateEstablished
	l.unicast(ps.sessionID, protocol.ServerMessageData{
		Kind:         protocol.ServerNewPlayer,
		UpdatePeriod: l.updatePeriod.Seconds(),
		PlayerID:     player.ID,
	}, &established)
	log.WithFields(logrus.Fields{"session_id": ps.sessionID, "player_id": player.ID, "name": name}).Info("player joined")
}

func (l *Loop) handleQuit(ps *playerSession) {
	if ps.established {
		engine.RemovePlayer(l.world, world.ID(ps.playerID))
	}
	delete(l.sessions, ps.sessionID)
	l.limiters.remove(ps.sessionID)
	l.transport.Sessions().Remove(ps.sessionID)
	log.WithField("session_id", ps.sessionID).Info("session done")
}

func (l *Loop) handlePlayerControl(ps *playerSession, data protocol.ClientMessageData) {
	if !ps.established {
		return
	}
	if data.Ack > ps.ackWorldFrame {
		ps.ackWorldFrame = data.Ack
	}
	if ps.ackWorldFrame > l.world.Frame {
		ps.ackWorldFrame = l.world.Frame
	}

	playerIdx := l.world.FindPlayer(world.ID(ps.playerID))
	if playerIdx < 0 {
		return
	}
	actorIdx := l.world.FindActor(l.world.Players[playerIdx].ActorID)
	if actorIdx < 0 {
		return
	}
	actor := &l.world.Actors[actorIdx]
	intent := sanitizeIntent(ps, data.ActorAction, data.CastFrame, actor)
	engine.ApplyActorAction(l.world, actor, intent)
}

// logDroppedMessages surfaces per-session drop counts once per tick and
// resets them, ported from server.rs's `handle_dropped_messages`.
func (l *Loop) logDroppedMessages() {
	for _, ps := range l.sessions {
		if ps.droppedMessages > 0 {
			log.WithFields(logrus.Fields{"session_id": ps.sessionID, "count": ps.droppedMessages}).Warn("dropped messages")
			ps.droppedMessages = 0
		}
	}
}

// applyQuits is a placeholder hook kept symmetrical with server.rs's
// separate remove_inactive_actors pass; in this port, Quit removes the
// player synchronously in handleQuit, so there is nothing left to sweep
// here before Advance runs.
func (l *Loop) applyQuits() {}

// sendActorIDUpdates pushes a GameUpdate::SetActorId to every established
// session whose current actor differs from the last one it was told about,
// covering both the initial post-join spawn and every later respawn (a
// player's ActorID is reassigned each time spawnPlayerActors gives it a
// fresh actor). The original client derives this locally from its own
// render-thread state (client.rs's try_join_server, lib.rs's
// run_single_player); this server has no such local thread to derive it
// in, so it pushes the value spec.md's message taxonomy names explicitly.
func (l *Loop) sendActorIDUpdates() {
	for _, ps := range l.sessions {
		if !ps.established {
			continue
		}
		playerIdx := l.world.FindPlayer(world.ID(ps.playerID))
		if playerIdx < 0 {
			continue
		}
		actorID := l.world.Players[playerIdx].ActorID
		if actorID == world.NoID || actorID == ps.lastActorID {
			continue
		}
		ps.lastActorID = actorID
		l.unicast(ps.sessionID, protocol.ServerMessageData{
			Kind: protocol.ServerGameUpdate,
			GameUpdate: protocol.GameUpdate{
				Kind:    protocol.GameUpdateSetActorID,
				ActorID: actorID,
			},
		}, nil)
	}
}

func (l *Loop) sendWorldMessages(current protocol.WorldSnapshot) {
	memo := make(map[uint64]protocol.WorldUpdate)
	for _, ps := range l.sessions {
		if !ps.established {
			continue
		}
		if ps.ackWorldFrame == 0 {
			l.sendSnapshot(ps.sessionID, current)
			continue
		}
		offset := current.Frame - ps.ackWorldFrame
		if update, cached := memo[offset]; cached {
			l.sendUpdate(ps, update)
			continue
		}
		update, ok := l.history.deltaSince(ps.ackWorldFrame, current)
		if !ok {
			l.sendSnapshot(ps.sessionID, current)
			continue
		}
		memo[offset] = update
		l.sendUpdate(ps, update)
	}
}

func (l *Loop) sendSnapshot(sessionID uint64, current protocol.WorldSnapshot) {
	l.unicast(sessionID, protocol.ServerMessageData{
		Kind: protocol.ServerGameUpdate,
		GameUpdate: protocol.GameUpdate{
			Kind:     protocol.GameUpdateSnapshot,
			Snapshot: current,
		},
	}, nil)
}

func (l *Loop) sendUpdate(ps *playerSession, update protocol.WorldUpdate) {
	l.unicast(ps.sessionID, protocol.ServerMessageData{
		Kind: protocol.ServerGameUpdate,
		GameUpdate: protocol.GameUpdate{
			Kind:   protocol.GameUpdateWorldUpdate,
			Update: update,
		},
	}, nil)
}

func (l *Loop) unicast(sessionID uint64, data protocol.ServerMessageData, advance *session.State) {
	select {
	case l.transport.Egress <- session.Outbound{Kind: session.Unicast, SessionID: sessionID, Data: data, AdvanceState: advance}:
	default:
		log.WithField("session_id", sessionID).Warn("egress queue full, dropping message")
	}
}

func errorMessage(msg string) protocol.ServerMessageData {
	return protocol.ServerMessageData{Kind: protocol.ServerError, ErrorMessage: msg}
}

func (l *Loop) handleOneAdminRequest() {
	select {
	case req := <-l.adminCh:
		l.handleAdminRequest(req)
	default:
	}
}

func (l *Loop) handleAdminRequest(req admin.Request) {
	resp := admin.Response{}
	switch req.Kind {
	case admin.Stop:
		l.stopped = true
	case admin.GetSessions:
		resp.Sessions = l.sessionInfos()
	case admin.RemoveSession:
		if ps, ok := l.sessions[req.RemoveSessionID]; ok {
			l.handleQuit(ps)
		} else {
			resp.Err = "unknown session"
		}
	case admin.GetStatus:
		mean := l.frameDur.mean()
		min, max := l.frameDur.minMax()
		resp.Status = admin.Status{
			FPS:               l.fps.get(),
			FrameDurationMean: mean,
			FrameDurationMin:  min,
			FrameDurationMax:  max,
			Sessions:          l.transport.Sessions().Len(),
			Players:           engine.ActivePlayerCount(l.world),
		}
	case admin.GetWorld:
		resp.World = protocol.SnapshotWorld(l.world)
	}

	select {
	case req.Reply <- resp:
	default:
	}
}

func (l *Loop) sessionInfos() []admin.SessionInfo {
	out := make([]admin.SessionInfo, 0, len(l.sessions))
	for _, info := range l.transport.Sessions().Snapshot() {
		ps, ok := l.sessions[info.ID]
		si := admin.SessionInfo{
			SessionID: info.ID,
			Address:   info.Addr.String(),
			State:     stateName(info.State),
		}
		if ok && ps.established {
			si.PlayerID = ps.playerID
			if idx := l.world.FindPlayer(world.ID(ps.playerID)); idx >= 0 {
				si.PlayerName = l.world.Players[idx].Name
			}
		}
		out = append(out, si)
	}
	return out
}

func stateName(s session.State) string {
	switch s {
	case session.StateNew:
		return "new"
	case session.StateEstablished:
		return "established"
	case session.StateDone:
		return "done"
	default:
		return "unknown"
	}
}
