package protocol

import (
	"reflect"
	"testing"

	"fight-club/internal/engine"
	"fight-club/internal/geom"
	"fight-club/internal/world"
)

func testSnapshot() WorldSnapshot {
	bounds := geom.NewRect(geom.Vec2{X: -50, Y: -50}, geom.Vec2{X: 50, Y: 50})
	settings := world.DefaultSettings()
	return WorldSnapshot{
		Frame:     42,
		Time:      1.5,
		IDCounter: 3,
		Bounds:    bounds,
		Settings:  settings,
		Players: []world.Player{
			{ID: 1, Active: true, Name: "wizard", ActorID: 2, SpawnTime: 0.5, Deaths: 1},
		},
		Actors: []world.Actor{
			{
				ID:               2,
				PlayerID:         1,
				Active:           true,
				Name:             "wizard",
				Body:             world.Body{Radius: 1.0, MaterialType: world.MaterialFlesh},
				Position:         geom.Vec2{X: 10, Y: 20},
				Health:           0.75,
				CurrentDirection: geom.Vec2{X: 1, Y: 0},
				TargetDirection:  geom.Vec2{X: 0, Y: 1},
				SpellElements:    []world.Element{world.Fire, world.Water},
			},
		},
	}
}

func TestWorldSnapshotCodecRoundTrip(t *testing.T) {
	want := testSnapshot()
	got, err := DecodeWorldSnapshot(EncodeWorldSnapshot(want))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("round trip mismatch:\nwant %+v\ngot  %+v", want, got)
	}
}

func TestWorldUpdateCodecRoundTrip(t *testing.T) {
	old := testSnapshot()
	new := testSnapshot()
	new.Frame = 43
	new.Actors[0].Health = 0.5
	new.Players = append(new.Players, world.Player{ID: 5, Active: true, Name: "rogue"})

	update := MakeWorldUpdate(old, new)
	got, err := DecodeWorldUpdate(EncodeWorldUpdate(update))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(update, got) {
		t.Fatalf("round trip mismatch:\nwant %+v\ngot  %+v", update, got)
	}
}

// TestDeltaRoundTripProperty exercises the delta round-trip property:
// applying the delta between old and new onto old reproduces new.
func TestDeltaRoundTripProperty(t *testing.T) {
	old := testSnapshot()
	new := testSnapshot()
	new.Actors[0].Position = geom.Vec2{X: 11, Y: 21}
	new.Projectiles = []world.Projectile{
		{ID: 9, Body: world.Body{Radius: 0.2}, Position: geom.Vec2{X: 1, Y: 1}, Health: 1},
	}

	delta := MakeWorldUpdate(old, new)
	applied := ApplyWorldUpdate(old, delta)

	if !actorEq(applied.Actors[0], new.Actors[0]) {
		t.Fatalf("actor mismatch after apply: want %+v got %+v", new.Actors[0], applied.Actors[0])
	}
	if len(applied.Projectiles) != 1 || !projectileEq(applied.Projectiles[0], new.Projectiles[0]) {
		t.Fatalf("projectile mismatch after apply: %+v", applied.Projectiles)
	}
}

func TestClientMessageCodecRoundTrip(t *testing.T) {
	cases := []ClientMessage{
		{SessionID: 1, Number: 1, Data: ClientMessageData{Kind: ClientJoin, JoinName: "wizard"}},
		{SessionID: 1, Number: 2, Data: ClientMessageData{Kind: ClientHeartbeat}},
		{SessionID: 1, Number: 3, Data: ClientMessageData{Kind: ClientQuit}},
		{
			SessionID: 1, Number: 4,
			Data: ClientMessageData{
				Kind:      ClientPlayerControl,
				Ack:       10,
				CastFrame: 11,
				ActorAction: ActorAction{
					Moving:          true,
					TargetDirection: geom.Vec2{X: 0.6, Y: 0.8},
					Cast:            CastAction{Kind: engine.CastAddSpellElement, SpellElement: world.Fire},
				},
			},
		},
	}
	for _, want := range cases {
		got, err := DecodeClientMessage(EncodeClientMessage(want))
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !reflect.DeepEqual(want, got) {
			t.Fatalf("round trip mismatch:\nwant %+v\ngot  %+v", want, got)
		}
	}
}

func TestServerMessageCodecRoundTrip(t *testing.T) {
	data := EncodeServerMessageData(ServerMessageData{
		Kind: ServerGameUpdate,
		GameUpdate: GameUpdate{
			Kind:     GameUpdateSetActorID,
			ActorID:  7,
		},
	})
	envelope := EncodeServerMessage(3, 4, data)
	got, err := DecodeServerMessageBytes(EncodeServerMessageBytes(envelope))
	if err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if got.SessionID != 3 || got.Number != 4 || got.DecompressedSize != uint32(len(data)) {
		t.Fatalf("envelope mismatch: %+v", got)
	}
	decoded, err := DecodeServerMessageData(got.Data)
	if err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if decoded.Kind != ServerGameUpdate || decoded.GameUpdate.Kind != GameUpdateSetActorID || decoded.GameUpdate.ActorID != 7 {
		t.Fatalf("data mismatch: %+v", decoded)
	}
}

func TestIsValidPlayerName(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"", false},
		{"ab", false},
		{"abc", true},
		{"Wizard", true},
		{"wiz4rd", false},
		{"thisnameiswaytoolongtobevalid", false},
	}
	for _, c := range cases {
		if got := IsValidPlayerName(c.name); got != c.want {
			t.Errorf("IsValidPlayerName(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}
