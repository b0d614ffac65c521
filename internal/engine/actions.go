package engine

import (
	"fight-club/internal/geom"
	"fight-club/internal/spell"
	"fight-club/internal/world"
)

// CastKind discriminates the optional cast action riding along an actor
// action (spec.md §4.8 `CastAction`).
type CastKind int

const (
	CastNone CastKind = iota
	CastAddSpellElement
	CastStartDirectedMagick
	CastCompleteDirectedMagick
	CastSelfMagick
	CastStartAreaOfEffectMagick
)

// Intent is the sanitized, per-tick action a controlled actor performs,
// built by the game loop from a client's PlayerControl message before
// being folded into the world ahead of Advance.
type Intent struct {
	Moving          bool
	TargetDirection geom.Vec2
	Cast            CastKind
	SpellElement    world.Element // valid when Cast == CastAddSpellElement
}

// ApplyActorAction applies one sanitized intent to actor, dispatching any
// riding cast action through the spell composer and magick lifecycle.
// Ported from the CastAction match inside server.rs's per-session control
// handling, generalized into a single exported entry point the game loop
// calls once per actor per tick.
func ApplyActorAction(w *world.World, actor *world.Actor, intent Intent) {
	actor.Moving = intent.Moving
	if intent.TargetDirection.DotSelf() > 0 {
		actor.TargetDirection = intent.TargetDirection.Normalized()
	}
	switch intent.Cast {
	case CastAddSpellElement:
		spell.AddElement(&actor.SpellElements, w.Settings.MaxSpellElements, intent.SpellElement)
	case CastStartDirectedMagick:
		castMagick(w, actor, spell.Cast(&actor.SpellElements))
	case CastCompleteDirectedMagick:
		completeDirectedMagick(w, actor)
	case CastSelfMagick:
		selfMagick(w, actor, spell.Cast(&actor.SpellElements))
	case CastStartAreaOfEffectMagick:
		dispatchAreaOfEffectMagick(w, actor, spell.Cast(&actor.SpellElements))
	}
}

// AddPlayer creates a new, actor-less Player that will spawn on a later
// tick once its InitialActorSpawnDelay elapses (spawnPlayerActors checks
// SpawnTime == 0 for the first-spawn case). Ported from server.rs's Join
// handling (the player-creation half; name validation lives in the
// protocol package).
func AddPlayer(w *world.World, name string) *world.Player {
	w.Players = append(w.Players, world.Player{
		ID:     w.NextID(),
		Active: true,
		Name:   name,
	})
	return &w.Players[len(w.Players)-1]
}

// RemovePlayer deactivates a player on Quit or session timeout; their
// actor, if any, is left to the next tick's normal retain/eviction passes
// rather than removed immediately, matching the source's favoring of
// eventual consistency over an out-of-band synchronous removal.
func RemovePlayer(w *world.World, playerID world.ID) {
	idx := w.FindPlayer(playerID)
	if idx < 0 {
		return
	}
	w.Players[idx].Active = false
	if actorIdx := w.FindActor(w.Players[idx].ActorID); actorIdx >= 0 {
		w.Actors[actorIdx].Health = 0
	}
	w.Players[idx].ActorID = world.NoID
}

// FindPlayerByName returns the index of the first player with the given
// name (case-sensitive), used to enforce name-uniqueness on Join, or -1.
func FindPlayerByName(w *world.World, name string) int {
	for i := range w.Players {
		if w.Players[i].Name == name {
			return i
		}
	}
	return -1
}

// ActivePlayerCount returns how many players currently occupy a player
// slot, used to enforce Settings-adjacent max_players capacity outside
// the world itself (the cap is a session-layer concern, not a world
// invariant).
func ActivePlayerCount(w *world.World) int {
	n := 0
	for i := range w.Players {
		if w.Players[i].Active {
			n++
		}
	}
	return n
}
