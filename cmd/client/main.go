// Command client is a minimal smoke-test harness for the protocol codec
// and UDP session handshake: it joins, sends a heartbeat each tick until
// the server answers with NewPlayer and a no-op control each tick after
// that, and prints every server update it receives.
// Ported from the shape of _examples/original_source/src/client.rs's
// dual-role client, stripped of rendering (out of scope per spec.md §2)
// down to its join/heartbeat/control/print loop.
package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fight-club/internal/protocol"

	"github.com/sirupsen/logrus"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:7667", "server UDP address")
	name := flag.String("name", "smoketest", "player name to join as")
	rate := flag.Float64("rate", 20, "messages sent per second")
	flag.Parse()

	log := logrus.WithField("component", "client")

	conn, err := net.Dial("udp", *addr)
	if err != nil {
		log.WithError(err).Fatal("dial failed")
	}
	defer conn.Close()

	var sessionID uint64
	var playerID uint64
	var actorID uint64
	var number uint64
	var ackFrame uint64

	send := func(data protocol.ClientMessageData) {
		number++
		msg := protocol.ClientMessage{SessionID: sessionID, Number: number, Data: data}
		if _, err := conn.Write(protocol.EncodeClientMessage(msg)); err != nil {
			log.WithError(err).Warn("send failed")
		}
	}

	send(protocol.ClientMessageData{Kind: protocol.ClientJoin, JoinName: *name})

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	stop := make(chan struct{})
	go func() {
		<-sig
		close(stop)
	}()

	go readLoop(conn, log, &sessionID, &playerID, &actorID, &ackFrame)

	ticker := time.NewTicker(time.Duration(float64(time.Second) / *rate))
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			send(protocol.ClientMessageData{Kind: protocol.ClientQuit})
			return
		case <-ticker.C:
			if playerID == 0 {
				send(protocol.ClientMessageData{Kind: protocol.ClientHeartbeat})
				continue
			}
			send(protocol.ClientMessageData{
				Kind: protocol.ClientPlayerControl,
				Ack:  ackFrame,
			})
		}
	}
}

func readLoop(conn net.Conn, log *logrus.Entry, sessionID, playerID, actorID, ackFrame *uint64) {
	buf := make([]byte, 65507)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			log.WithError(err).Warn("read failed")
			return
		}
		envelope, err := protocol.DecodeServerMessageBytes(buf[:n])
		if err != nil {
			log.WithError(err).Debug("dropping malformed datagram")
			continue
		}
		*sessionID = envelope.SessionID

		data, err := protocol.DecodeServerMessageData(envelope.Data)
		if err != nil {
			log.WithError(err).Debug("dropping malformed payload")
			continue
		}

		switch data.Kind {
		case protocol.ServerNewPlayer:
			*playerID = uint64(data.PlayerID)
			fmt.Printf("joined: session=%d player=%d update_period=%.4fs\n", *sessionID, data.PlayerID, data.UpdatePeriod)
		case protocol.ServerError:
			fmt.Printf("server error: %s\n", data.ErrorMessage)
		case protocol.ServerGameUpdate:
			switch data.GameUpdate.Kind {
			case protocol.GameUpdateSnapshot:
				*ackFrame = data.GameUpdate.Snapshot.Frame
				fmt.Printf("snapshot: frame=%d players=%d actors=%d\n",
					data.GameUpdate.Snapshot.Frame, len(data.GameUpdate.Snapshot.Players), len(data.GameUpdate.Snapshot.Actors))
			case protocol.GameUpdateWorldUpdate:
				*ackFrame = data.GameUpdate.Update.Frame
				fmt.Printf("update: frame=%d\n", data.GameUpdate.Update.Frame)
			case protocol.GameUpdateGameOver:
				fmt.Printf("game over: %s\n", data.GameUpdate.Reason)
			case protocol.GameUpdateSetActorID:
				*actorID = uint64(data.GameUpdate.ActorID)
				fmt.Printf("actor assigned: %d\n", *actorID)
			}
		}
	}
}
