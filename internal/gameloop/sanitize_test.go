package gameloop

import (
	"testing"

	"fight-club/internal/engine"
	"fight-club/internal/geom"
	"fight-club/internal/protocol"
	"fight-club/internal/world"
)

func TestSanitizeIntentNormalizesDirection(t *testing.T) {
	actor := &world.Actor{TargetDirection: geom.NewVec2(1, 0)}
	ps := &playerSession{}
	action := protocol.ActorAction{Moving: true, TargetDirection: geom.NewVec2(0, 2)}

	intent := sanitizeIntent(ps, action, 0, actor)

	if !intent.Moving {
		t.Fatal("expected Moving to carry through")
	}
	if got := intent.TargetDirection.Norm(); got < 0.999 || got > 1.001 {
		t.Fatalf("expected unit-length direction, got norm %v", got)
	}
}

func TestSanitizeIntentFallsBackToActorDirectionWhenZero(t *testing.T) {
	actor := &world.Actor{TargetDirection: geom.NewVec2(0, -1)}
	ps := &playerSession{}
	action := protocol.ActorAction{TargetDirection: geom.Vec2{}}

	intent := sanitizeIntent(ps, action, 0, actor)

	if intent.TargetDirection != actor.TargetDirection {
		t.Fatalf("expected fallback to actor.TargetDirection, got %v", intent.TargetDirection)
	}
}

func TestSanitizeIntentGatesCastByFrame(t *testing.T) {
	actor := &world.Actor{TargetDirection: geom.NewVec2(1, 0)}
	action := protocol.ActorAction{
		TargetDirection: geom.NewVec2(1, 0),
		Cast:            protocol.CastAction{Kind: engine.CastAddSpellElement, SpellElement: world.Fire},
	}

	ps := &playerSession{ackWorldFrame: 10, ackCastFrame: 3}
	intent := sanitizeIntent(ps, action, 7, actor)
	if intent.Cast != engine.CastAddSpellElement || intent.SpellElement != world.Fire {
		t.Fatalf("expected cast to be honored, got %+v", intent)
	}
	if ps.ackCastFrame != ps.ackWorldFrame {
		t.Fatalf("expected ackCastFrame to advance to ackWorldFrame, got %d", ps.ackCastFrame)
	}

	ps2 := &playerSession{ackWorldFrame: 10, ackCastFrame: 12}
	intent2 := sanitizeIntent(ps2, action, 7, actor)
	if intent2.Cast != engine.CastNone {
		t.Fatalf("expected stale cast frame to be rejected, got %+v", intent2)
	}

	ps3 := &playerSession{ackWorldFrame: 5, ackCastFrame: 0}
	intent3 := sanitizeIntent(ps3, action, 7, actor)
	if intent3.Cast != engine.CastNone {
		t.Fatalf("expected future cast frame to be rejected, got %+v", intent3)
	}
}

func TestSanitizeIntentNoCastRequested(t *testing.T) {
	actor := &world.Actor{TargetDirection: geom.NewVec2(1, 0)}
	ps := &playerSession{ackWorldFrame: 10}
	action := protocol.ActorAction{TargetDirection: geom.NewVec2(1, 0)}

	intent := sanitizeIntent(ps, action, 0, actor)

	if intent.Cast != engine.CastNone {
		t.Fatalf("expected no cast, got %+v", intent)
	}
}
