package gameloop

import (
	"fight-club/internal/engine"
	"fight-club/internal/protocol"
	"fight-club/internal/world"
)

// sanitizeIntent turns a client's raw ActorAction into an engine.Intent,
// normalizing the requested direction and gating the riding cast action
// against the session's ack bookkeeping. Ported from server.rs's
// `sanitize_actor_action` plus the PlayerControl branch of
// `handle_session_message` that decides whether a cast action is honored.
func sanitizeIntent(ps *playerSession, action protocol.ActorAction, castFrame uint64, actor *world.Actor) engine.Intent {
	direction := action.TargetDirection
	if direction.DotSelf() > 0 {
		direction = direction.Normalized()
	} else {
		direction = actor.TargetDirection
	}

	intent := engine.Intent{
		Moving:          action.Moving,
		TargetDirection: direction,
	}

	if action.Cast.Kind == engine.CastNone {
		return intent
	}
	if ps.ackCastFrame < castFrame && castFrame <= ps.ackWorldFrame {
		ps.ackCastFrame = ps.ackWorldFrame
		intent.Cast = action.Cast.Kind
		intent.SpellElement = action.Cast.SpellElement
	}
	return intent
}
