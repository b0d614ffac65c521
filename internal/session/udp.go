package session

import (
	"context"
	"fmt"
	"math/rand"
	"net"
	"time"

	"fight-club/internal/protocol"
)

// sendRetries bounds the egress loop's retry count on a transient socket
// send failure (spec.md §7 "3-retry send loop").
const sendRetries = 3

// Server is the UDP I/O task: a single cooperative loop that owns the
// socket, the session table, and the channels connecting it to the game
// loop. Ported from server.rs's `run_udp_server`, collapsed from a tokio
// task into a goroutine pair (ingress + egress) communicating over Go
// channels instead of an async executor.
type Server struct {
	conn         *net.UDPConn
	sessions     *Table
	maxSessions  int
	sessionTimeout time.Duration
	updatePeriod time.Duration

	Ingress chan Inbound  // delivered to the game loop
	Egress  chan Outbound // received from the game loop

	messageCounter uint64
}

// NewServer binds addr:port and wires a session table capped at
// maxSessions.
func NewServer(addr string, port int, maxSessions int, sessionTimeout, updatePeriod time.Duration, rng *rand.Rand) (*Server, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", addr, port))
	if err != nil {
		return nil, fmt.Errorf("session: resolve address: %w", err)
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return nil, fmt.Errorf("session: bind: %w", err)
	}
	return &Server{
		conn:           conn,
		sessions:       NewTable(maxSessions, rng),
		maxSessions:    maxSessions,
		sessionTimeout: sessionTimeout,
		updatePeriod:   updatePeriod,
		Ingress:        make(chan Inbound, 256),
		Egress:         make(chan Outbound, 256),
	}, nil
}

// Sessions exposes the live session table, e.g. for the admin channel's
// GetSessions handler.
func (s *Server) Sessions() *Table { return s.sessions }

// Close releases the underlying socket.
func (s *Server) Close() error { return s.conn.Close() }

// LocalAddr returns the bound UDP address, useful when port 0 was
// requested and the OS picked an ephemeral one.
func (s *Server) LocalAddr() *net.UDPAddr { return s.conn.LocalAddr().(*net.UDPAddr) }

// Run drives both the ingress and egress loops until ctx is cancelled.
// On cancellation it broadcasts a final GameOver and drops every session,
// matching the source's stop-sequence for the UDP task (spec.md §5).
func (s *Server) Run(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		s.egressLoop(ctx)
		close(done)
	}()
	s.ingressLoop(ctx)
	<-done

	s.broadcastGameOver("Server is stopped")
	for _, info := range s.sessions.Snapshot() {
		s.sessions.Remove(info.ID)
	}
}

// ingressLoop recv's datagrams with a deadline tied to update_period
// (minimum 1ms), identifies or creates a session, validates the envelope,
// and forwards well-formed messages to the game loop. Malformed
// datagrams and protocol violations are dropped silently per spec.md §7.
func (s *Server) ingressLoop(ctx context.Context) {
	buf := make([]byte, 65507)
	timeout := s.updatePeriod
	if timeout < time.Millisecond {
		timeout = time.Millisecond
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		s.conn.SetReadDeadline(time.Now().Add(timeout))
		n, addr, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				s.expireSessions()
				continue
			}
			if ctx.Err() != nil {
				return
			}
			continue
		}

		msg, err := protocol.DecodeClientMessage(buf[:n])
		if err != nil {
			log.WithError(err).Debug("dropping malformed datagram")
			continue
		}
		s.handleInbound(addr, msg)
	}
}

func (s *Server) handleInbound(addr *net.UDPAddr, msg protocol.ClientMessage) {
	now := time.Now()

	info, known := s.sessions.Touch(addr, now)
	if !known {
		if msg.Data.Kind != protocol.ClientJoin || msg.SessionID != 0 {
			return
		}
		if s.sessions.Full() {
			return
		}
		info = s.sessions.Create(addr, now)
	} else if msg.SessionID != info.ID {
		return
	}

	if !s.sessions.AcceptNumber(info.ID, msg.Number) {
		return
	}

	if msg.Data.Kind == protocol.ClientQuit {
		s.sessions.SetState(info.ID, StateDone)
	}

	select {
	case s.Ingress <- Inbound{SessionID: info.ID, Message: msg}:
	default:
		log.Warn("ingress channel full, dropping message")
	}
}

func (s *Server) expireSessions() {
	now := time.Now()
	for _, id := range s.sessions.Expired(now, s.sessionTimeout) {
		select {
		case s.Ingress <- Inbound{SessionID: id, Message: protocol.ClientMessage{SessionID: id, Data: protocol.ClientMessageData{Kind: protocol.ClientQuit}}}:
		default:
		}
		s.sessions.Remove(id)
	}
}

// egressLoop drains the game loop's outbound queue, encodes each message,
// and transmits it to the relevant peer(s). Broadcasts share a single
// message_counter value across every peer in the cycle, matching the
// source's per-frame sequence assignment.
func (s *Server) egressLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case out, ok := <-s.Egress:
			if !ok {
				return
			}
			s.send(out)
		}
	}
}

func (s *Server) send(out Outbound) {
	s.messageCounter++
	data := protocol.EncodeServerMessageData(out.Data)

	switch out.Kind {
	case Unicast:
		info, ok := s.sessions.ByID(out.SessionID)
		if !ok {
			return
		}
		s.sendTo(info, data)
		if out.AdvanceState != nil {
			s.sessions.SetState(out.SessionID, *out.AdvanceState)
		}
	case Broadcast:
		for _, info := range s.sessions.Snapshot() {
			s.sendTo(&info, data)
		}
		if out.AdvanceState != nil {
			for _, info := range s.sessions.Snapshot() {
				s.sessions.SetState(info.ID, *out.AdvanceState)
			}
		}
	}
}

func (s *Server) sendTo(info *Info, data []byte) {
	envelope := protocol.EncodeServerMessage(info.ID, s.messageCounter, data)
	payload := protocol.EncodeServerMessageBytes(envelope)

	var err error
	for attempt := 0; attempt < sendRetries; attempt++ {
		_, err = s.conn.WriteToUDP(payload, info.Addr)
		if err == nil {
			return
		}
	}
	log.WithError(err).WithField("session_id", info.ID).Warn("send failed after retries, closing session")
	s.sessions.Remove(info.ID)
}

func (s *Server) broadcastGameOver(reason string) {
	gameOver := protocol.ServerMessageData{
		Kind: protocol.ServerGameUpdate,
		GameUpdate: protocol.GameUpdate{
			Kind:   protocol.GameUpdateGameOver,
			Reason: reason,
		},
	}
	encoded := protocol.EncodeServerMessageData(gameOver)
	for _, info := range s.sessions.Snapshot() {
		s.sendTo(&info, encoded)
	}
}
