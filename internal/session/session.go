// Package session implements the UDP peer-tracking transport: per-peer
// session lifecycle, sequence-number replay protection, and the
// ingress/egress datagram loops. Grounded on
// _examples/original_source/src/server.rs's UDP half (`UdpServer`,
// `UdpSessionState`) and on the teacher's net/http server lifecycle
// idiom (internal/api/server.go) generalized from TCP/HTTP to UDP.
package session

import (
	"math/rand"
	"net"
	"sync"
	"time"

	"fight-club/internal/protocol"

	"github.com/sirupsen/logrus"
)

// State is a session's lifecycle stage (spec.md §4.9).
type State int

const (
	StateNew State = iota
	StateEstablished
	StateDone
)

// Info is a UDP peer session: its address, its assigned identifier, and
// the bookkeeping the ingress loop needs to enforce sequencing and
// timeouts.
type Info struct {
	ID       uint64
	Addr     *net.UDPAddr
	State    State
	LastRecv time.Time

	lastMessageNumber uint64
}

// Table tracks every live UDP session, keyed by address and by id. It is
// owned by the UDP task alone; Snapshot returns a copy safe for the admin
// channel to read concurrently.
type Table struct {
	mu          sync.Mutex
	byAddr      map[string]*Info
	byID        map[uint64]*Info
	maxSessions int
	rng         *rand.Rand
}

// NewTable creates an empty session table bounded at maxSessions.
func NewTable(maxSessions int, rng *rand.Rand) *Table {
	return &Table{
		byAddr:      make(map[string]*Info),
		byID:        make(map[uint64]*Info),
		maxSessions: maxSessions,
		rng:         rng,
	}
}

// Lookup returns the session for addr, if any.
func (t *Table) Lookup(addr *net.UDPAddr) (*Info, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.byAddr[addr.String()]
	return s, ok
}

// ByID returns the session with the given id, if any.
func (t *Table) ByID(id uint64) (*Info, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.byID[id]
	return s, ok
}

// Full reports whether the table has reached its session cap.
func (t *Table) Full() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.byAddr) >= t.maxSessions
}

// Create allocates a fresh, collision-free session id for addr and adds
// it to the table. Callers must have already checked Full().
func (t *Table) Create(addr *net.UDPAddr, now time.Time) *Info {
	t.mu.Lock()
	defer t.mu.Unlock()

	var id uint64
	for {
		id = t.rng.Uint64()
		if id != 0 {
			if _, exists := t.byID[id]; !exists {
				break
			}
		}
	}

	s := &Info{ID: id, Addr: addr, State: StateNew, LastRecv: now}
	t.byAddr[addr.String()] = s
	t.byID[id] = s
	return s
}

// Remove drops a session from the table entirely.
func (t *Table) Remove(id uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.byID[id]; ok {
		delete(t.byAddr, s.Addr.String())
		delete(t.byID, id)
	}
}

// Touch records that addr was just heard from and returns the session.
func (t *Table) Touch(addr *net.UDPAddr, now time.Time) (*Info, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.byAddr[addr.String()]
	if ok {
		s.LastRecv = now
	}
	return s, ok
}

// AcceptNumber enforces the strictly-increasing sequence contract
// (spec.md §4.9, §8): a number at or below the last accepted one for this
// session is rejected and the session's bookkeeping is left untouched.
func (t *Table) AcceptNumber(id uint64, number uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.byID[id]
	if !ok {
		return false
	}
	if number <= s.lastMessageNumber && s.lastMessageNumber != 0 {
		return false
	}
	s.lastMessageNumber = number
	return true
}

// SetState transitions a session's lifecycle stage.
func (t *Table) SetState(id uint64, state State) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.byID[id]; ok {
		s.State = state
	}
}

// Expired returns the ids of sessions that haven't been heard from within
// timeout.
func (t *Table) Expired(now time.Time, timeout time.Duration) []uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []uint64
	for id, s := range t.byID {
		if now.Sub(s.LastRecv) >= timeout {
			out = append(out, id)
		}
	}
	return out
}

// Snapshot returns a point-in-time copy of every session, for the admin
// channel's GetSessions response.
func (t *Table) Snapshot() []Info {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Info, 0, len(t.byID))
	for _, s := range t.byID {
		out = append(out, *s)
	}
	return out
}

// Len reports the current session count.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.byID)
}

// Inbound is a validated client message paired with the session it came
// from, handed to the game loop over the ingress channel.
type Inbound struct {
	SessionID uint64
	Message   protocol.ClientMessage
}

// OutboundKind discriminates Outbound.
type OutboundKind int

const (
	Unicast OutboundKind = iota
	Broadcast
)

// Outbound is a game-loop-produced message destined for the UDP egress
// loop, mirroring the source's InternalServerMessage enum.
type Outbound struct {
	Kind      OutboundKind
	SessionID uint64 // valid when Kind == Unicast
	Data      protocol.ServerMessageData

	// AdvanceState, when non-nil, is applied to the targeted session(s)
	// once the datagram is sent (e.g. NewPlayer -> Established, GameOver
	// -> Done).
	AdvanceState *State
}

var log = logrus.WithField("component", "session")
