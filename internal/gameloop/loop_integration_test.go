package gameloop

import (
	"context"
	"math/rand"
	"net"
	"testing"
	"time"

	"fight-club/internal/admin"
	"fight-club/internal/geom"
	"fight-club/internal/protocol"
	"fight-club/internal/session"
	"fight-club/internal/world"
)

// newTestServer binds an ephemeral loopback UDP server and a Loop wired
// to it, matching the wiring cmd/server/main.go does, scaled down to a
// fast tick period for test speed.
func newTestServer(t *testing.T, maxPlayers int) (*session.Server, *Loop) {
	t.Helper()

	bounds := geom.NewRect(geom.NewVec2(-50, -50), geom.NewVec2(50, 50))
	settings := world.DefaultSettings()
	updatePeriod := 5 * time.Millisecond
	settings.UpdatePeriod = updatePeriod.Seconds()
	settings.InitialActorSpawnDelay = 0
	w := world.New(bounds, settings)

	transport, err := session.NewServer("127.0.0.1", 0, 10, time.Second, updatePeriod, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	t.Cleanup(func() { transport.Close() })

	loop := NewLoop(w, transport, admin.NewChannel(), Config{
		MaxPlayers:      maxPlayers,
		UpdateFrequency: 1 / updatePeriod.Seconds(),
		UpdatePeriod:    updatePeriod,
		RandomSeed:      1,
	})
	return transport, loop
}

func dialClient(t *testing.T, serverAddr *net.UDPAddr) net.Conn {
	t.Helper()
	conn, err := net.DialUDP("udp", nil, serverAddr)
	if err != nil {
		t.Fatalf("DialUDP: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendClientMessage(t *testing.T, conn net.Conn, sessionID, number uint64, data protocol.ClientMessageData) {
	t.Helper()
	msg := protocol.ClientMessage{SessionID: sessionID, Number: number, Data: data}
	if _, err := conn.Write(protocol.EncodeClientMessage(msg)); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func readServerMessage(t *testing.T, conn net.Conn, timeout time.Duration) protocol.ServerMessageData {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(timeout))
	buf := make([]byte, 65507)
	n, err := conn.Read(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	envelope, err := protocol.DecodeServerMessageBytes(buf[:n])
	if err != nil {
		t.Fatalf("DecodeServerMessageBytes: %v", err)
	}
	data, err := protocol.DecodeServerMessageData(envelope.Data)
	if err != nil {
		t.Fatalf("DecodeServerMessageData: %v", err)
	}
	return data
}

// TestJoinGrantsPlayerID covers spec.md §8's "Join grants player id"
// scenario: a well-formed Join is answered with a NewPlayer message
// carrying a non-zero player id.
func TestJoinGrantsPlayerID(t *testing.T) {
	transport, loop := newTestServer(t, 8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go transport.Run(ctx)
	go loop.Run(ctx)

	client := dialClient(t, transport.LocalAddr())
	sendClientMessage(t, client, 0, 1, protocol.ClientMessageData{Kind: protocol.ClientJoin, JoinName: "wizard"})

	data := readServerMessage(t, client, time.Second)
	if data.Kind != protocol.ServerNewPlayer {
		t.Fatalf("expected NewPlayer, got kind %v (err=%q)", data.Kind, data.ErrorMessage)
	}
	if data.PlayerID == 0 {
		t.Fatal("expected a non-zero player id")
	}
}

// TestPlayerCapRejectsJoinOverLimit covers spec.md §8's player-cap
// scenario: once max_players are active, a further Join is answered with
// an Error instead of a NewPlayer.
func TestPlayerCapRejectsJoinOverLimit(t *testing.T) {
	transport, loop := newTestServer(t, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go transport.Run(ctx)
	go loop.Run(ctx)

	first := dialClient(t, transport.LocalAddr())
	sendClientMessage(t, first, 0, 1, protocol.ClientMessageData{Kind: protocol.ClientJoin, JoinName: "first"})
	if data := readServerMessage(t, first, time.Second); data.Kind != protocol.ServerNewPlayer {
		t.Fatalf("expected first join to succeed, got %v: %s", data.Kind, data.ErrorMessage)
	}

	second := dialClient(t, transport.LocalAddr())
	sendClientMessage(t, second, 0, 1, protocol.ClientMessageData{Kind: protocol.ClientJoin, JoinName: "second"})
	data := readServerMessage(t, second, time.Second)
	if data.Kind != protocol.ServerError {
		t.Fatalf("expected second join to be rejected once at the player cap, got %v", data.Kind)
	}
}

// TestMultiPlayerFanOut covers spec.md §8's multi-player fan-out
// scenario: once two players have joined, the first player's world
// snapshot includes both of their actors.
func TestMultiPlayerFanOut(t *testing.T) {
	transport, loop := newTestServer(t, 8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go transport.Run(ctx)
	go loop.Run(ctx)

	addr := transport.LocalAddr()
	a := dialClient(t, addr)
	b := dialClient(t, addr)

	sendClientMessage(t, a, 0, 1, protocol.ClientMessageData{Kind: protocol.ClientJoin, JoinName: "alice"})
	readServerMessage(t, a, time.Second) // NewPlayer

	sendClientMessage(t, b, 0, 1, protocol.ClientMessageData{Kind: protocol.ClientJoin, JoinName: "bob"})
	readServerMessage(t, b, time.Second) // NewPlayer

	// Snapshots sent to alice before bob's join list only one player;
	// read past them to the first one that lists both.
	var snapshot protocol.WorldSnapshot
	for i := 0; i < 20; i++ {
		data := readServerMessage(t, a, time.Second)
		if data.Kind == protocol.ServerGameUpdate && data.GameUpdate.Kind == protocol.GameUpdateSnapshot &&
			len(data.GameUpdate.Snapshot.Players) == 2 {
			snapshot = data.GameUpdate.Snapshot
			break
		}
	}
	if len(snapshot.Actors) != 2 {
		t.Fatalf("expected both actors in the fanned-out snapshot, got %d", len(snapshot.Actors))
	}
}

// TestJoinGrantsActorID covers spec.md §8's "Join grants player id"
// scenario's second half: once an actor has spawned for the joining
// player, the session receives a GameUpdate::SetActorId with a non-zero
// actor id.
func TestJoinGrantsActorID(t *testing.T) {
	transport, loop := newTestServer(t, 8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go transport.Run(ctx)
	go loop.Run(ctx)

	client := dialClient(t, transport.LocalAddr())
	sendClientMessage(t, client, 0, 1, protocol.ClientMessageData{Kind: protocol.ClientJoin, JoinName: "wizard"})
	readServerMessage(t, client, time.Second) // NewPlayer

	for i := 0; i < 50; i++ {
		data := readServerMessage(t, client, time.Second)
		if data.Kind == protocol.ServerGameUpdate && data.GameUpdate.Kind == protocol.GameUpdateSetActorID {
			if data.GameUpdate.ActorID == 0 {
				t.Fatal("expected a non-zero actor id")
			}
			return
		}
	}
	t.Fatal("never received a SetActorId update")
}

// TestSessionCapRejectsExtraSessions covers spec.md §8's session-cap
// scenario at the transport layer: a Join beyond max_sessions never
// reaches the game loop, so the connecting client sees no reply at all.
func TestSessionCapRejectsExtraSessions(t *testing.T) {
	bounds := geom.NewRect(geom.NewVec2(-50, -50), geom.NewVec2(50, 50))
	settings := world.DefaultSettings()
	updatePeriod := 5 * time.Millisecond
	settings.UpdatePeriod = updatePeriod.Seconds()
	settings.InitialActorSpawnDelay = 0
	w := world.New(bounds, settings)

	transport, err := session.NewServer("127.0.0.1", 0, 1, time.Second, updatePeriod, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	defer transport.Close()

	loop := NewLoop(w, transport, admin.NewChannel(), Config{
		MaxPlayers:      8,
		UpdateFrequency: 1 / updatePeriod.Seconds(),
		UpdatePeriod:    updatePeriod,
		RandomSeed:      1,
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go transport.Run(ctx)
	go loop.Run(ctx)

	addr := transport.LocalAddr()
	first := dialClient(t, addr)
	sendClientMessage(t, first, 0, 1, protocol.ClientMessageData{Kind: protocol.ClientJoin, JoinName: "first"})
	readServerMessage(t, first, time.Second)

	second := dialClient(t, addr)
	sendClientMessage(t, second, 0, 1, protocol.ClientMessageData{Kind: protocol.ClientJoin, JoinName: "second"})

	second.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	buf := make([]byte, 64)
	if _, err := second.Read(buf); err == nil {
		t.Fatal("expected no reply once the session table is at capacity")
	}
}
