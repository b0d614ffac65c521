package protocol

import (
	"fight-club/internal/engine"
	"fight-club/internal/geom"
	"fight-club/internal/world"
)

// Variant tags for ClientMessageData. Serialized as a leading u32 ahead of
// the variant's own fields (spec.md §6).
const (
	clientTagJoin uint32 = iota
	clientTagQuit
	clientTagHeartbeat
	clientTagPlayerControl
)

// Variant tags for ServerMessageData.
const (
	serverTagNewPlayer uint32 = iota
	serverTagError
	serverTagGameUpdate
)

// Variant tags for GameUpdate.
const (
	gameUpdateTagWorldSnapshot uint32 = iota
	gameUpdateTagWorldUpdate
	gameUpdateTagSetActorID
	gameUpdateTagGameOver
)

// Variant tags for CastAction, mirroring engine.CastKind one-for-one (the
// wire enum is kept separate from the engine's so the engine package never
// needs to know about wire layout).
const (
	castTagNone uint32 = iota
	castTagAddSpellElement
	castTagStartDirectedMagick
	castTagCompleteDirectedMagick
	castTagSelfMagick
	castTagStartAreaOfEffectMagick
)

// ClientMessage is the outer envelope every client datagram carries
// (spec.md §4.8, §6).
type ClientMessage struct {
	SessionID uint64
	Number    uint64
	Data      ClientMessageData
}

// ClientMessageData is the tagged union of client payload kinds.
type ClientMessageData struct {
	Kind ClientKind

	JoinName string // valid when Kind == ClientJoin

	Ack         uint64       // ack_world_frame, valid when Kind == ClientPlayerControl
	CastFrame   uint64       // cast_action_world_frame, valid when Kind == ClientPlayerControl
	ActorAction ActorAction  // valid when Kind == ClientPlayerControl
}

// ClientKind discriminates ClientMessageData.
type ClientKind int

const (
	ClientJoin ClientKind = iota
	ClientQuit
	ClientHeartbeat
	ClientPlayerControl
)

// ActorAction is the client's requested actor behavior for one tick.
type ActorAction struct {
	Moving          bool
	TargetDirection geom.Vec2
	Cast            CastAction
}

// CastAction is the optional spellcasting action riding an ActorAction.
type CastAction struct {
	Kind         engine.CastKind
	SpellElement world.Element // valid when Kind == engine.CastAddSpellElement
}

// ServerMessage is the outer envelope every server datagram carries. Data
// is the serialized ServerMessageData payload; DecompressedSize is a
// forward-compatibility hint for a peer that negotiates payload
// compression (spec.md §4.8) — this codec never compresses, so it always
// equals len(Data).
type ServerMessage struct {
	SessionID        uint64
	Number           uint64
	DecompressedSize uint32
	Data             []byte
}

// ServerMessageData is the tagged union of server payload kinds, decoded
// from a ServerMessage's Data field.
type ServerMessageData struct {
	Kind ServerKind

	// Kind == ServerNewPlayer
	UpdatePeriod float64
	PlayerID     world.ID

	// Kind == ServerError
	ErrorMessage string

	// Kind == ServerGameUpdate
	GameUpdate GameUpdate
}

// ServerKind discriminates ServerMessageData.
type ServerKind int

const (
	ServerNewPlayer ServerKind = iota
	ServerError
	ServerGameUpdate
)

// GameUpdate is the tagged union of per-tick update payloads broadcast or
// unicast to sessions.
type GameUpdate struct {
	Kind GameUpdateKind

	Snapshot WorldSnapshot // Kind == GameUpdateSnapshot
	Update   WorldUpdate   // Kind == GameUpdateWorldUpdate
	ActorID  world.ID      // Kind == GameUpdateSetActorID
	Reason   string        // Kind == GameUpdateGameOver
}

// GameUpdateKind discriminates GameUpdate.
type GameUpdateKind int

const (
	GameUpdateSnapshot GameUpdateKind = iota
	GameUpdateWorldUpdate
	GameUpdateSetActorID
	GameUpdateGameOver
)
