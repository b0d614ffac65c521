package session

import (
	"math/rand"
	"net"
	"testing"
	"time"
)

func udpAddr(t *testing.T, s string) *net.UDPAddr {
	t.Helper()
	addr, err := net.ResolveUDPAddr("udp", s)
	if err != nil {
		t.Fatalf("ResolveUDPAddr(%q): %v", s, err)
	}
	return addr
}

func TestTableCreateAssignsUniqueID(t *testing.T) {
	table := NewTable(2, rand.New(rand.NewSource(1)))
	now := time.Now()

	a := table.Create(udpAddr(t, "127.0.0.1:1111"), now)
	b := table.Create(udpAddr(t, "127.0.0.1:2222"), now)

	if a.ID == 0 || b.ID == 0 {
		t.Fatal("expected non-zero session ids")
	}
	if a.ID == b.ID {
		t.Fatal("expected distinct session ids")
	}
	if a.State != StateNew || b.State != StateNew {
		t.Fatal("expected new sessions to start in StateNew")
	}
}

func TestTableFullRespectsMaxSessions(t *testing.T) {
	table := NewTable(1, rand.New(rand.NewSource(1)))
	now := time.Now()

	if table.Full() {
		t.Fatal("expected empty table to not be full")
	}
	table.Create(udpAddr(t, "127.0.0.1:1111"), now)
	if !table.Full() {
		t.Fatal("expected table at capacity to report full")
	}
}

func TestTableLookupAndByID(t *testing.T) {
	table := NewTable(4, rand.New(rand.NewSource(1)))
	addr := udpAddr(t, "127.0.0.1:1111")
	s := table.Create(addr, time.Now())

	if found, ok := table.Lookup(addr); !ok || found.ID != s.ID {
		t.Fatal("expected Lookup to find the created session by address")
	}
	if found, ok := table.ByID(s.ID); !ok || found.Addr.String() != addr.String() {
		t.Fatal("expected ByID to find the created session")
	}
}

func TestTableRemoveDropsBothIndexes(t *testing.T) {
	table := NewTable(4, rand.New(rand.NewSource(1)))
	addr := udpAddr(t, "127.0.0.1:1111")
	s := table.Create(addr, time.Now())

	table.Remove(s.ID)

	if _, ok := table.ByID(s.ID); ok {
		t.Fatal("expected session to be gone from the id index")
	}
	if _, ok := table.Lookup(addr); ok {
		t.Fatal("expected session to be gone from the address index")
	}
}

func TestTableAcceptNumberRejectsNonIncreasing(t *testing.T) {
	table := NewTable(4, rand.New(rand.NewSource(1)))
	s := table.Create(udpAddr(t, "127.0.0.1:1111"), time.Now())

	if !table.AcceptNumber(s.ID, 1) {
		t.Fatal("expected first sequence number to be accepted")
	}
	if !table.AcceptNumber(s.ID, 5) {
		t.Fatal("expected a strictly larger sequence number to be accepted")
	}
	if table.AcceptNumber(s.ID, 5) {
		t.Fatal("expected a repeated sequence number to be rejected")
	}
	if table.AcceptNumber(s.ID, 2) {
		t.Fatal("expected a lower sequence number to be rejected")
	}
}

func TestTableAcceptNumberUnknownSession(t *testing.T) {
	table := NewTable(4, rand.New(rand.NewSource(1)))
	if table.AcceptNumber(999, 1) {
		t.Fatal("expected an unknown session id to be rejected")
	}
}

func TestTableExpiredReportsStaleSessions(t *testing.T) {
	table := NewTable(4, rand.New(rand.NewSource(1)))
	base := time.Now()
	s := table.Create(udpAddr(t, "127.0.0.1:1111"), base)

	if expired := table.Expired(base.Add(time.Second), 5*time.Second); len(expired) != 0 {
		t.Fatalf("expected no expirations yet, got %v", expired)
	}

	expired := table.Expired(base.Add(10*time.Second), 5*time.Second)
	if len(expired) != 1 || expired[0] != s.ID {
		t.Fatalf("expected session %d to be expired, got %v", s.ID, expired)
	}
}

func TestTableTouchUpdatesLastRecv(t *testing.T) {
	table := NewTable(4, rand.New(rand.NewSource(1)))
	base := time.Now()
	addr := udpAddr(t, "127.0.0.1:1111")
	s := table.Create(addr, base)

	later := base.Add(time.Minute)
	if _, ok := table.Touch(addr, later); !ok {
		t.Fatal("expected Touch to find the existing session")
	}
	if len(table.Expired(later, 5*time.Second)) != 0 {
		t.Fatal("expected touched session to not be expired")
	}
	_ = s
}

func TestTableSetStateTransitions(t *testing.T) {
	table := NewTable(4, rand.New(rand.NewSource(1)))
	s := table.Create(udpAddr(t, "127.0.0.1:1111"), time.Now())

	table.SetState(s.ID, StateEstablished)

	found, ok := table.ByID(s.ID)
	if !ok || found.State != StateEstablished {
		t.Fatal("expected state transition to be visible via ByID")
	}
}

func TestTableSnapshotAndLen(t *testing.T) {
	table := NewTable(4, rand.New(rand.NewSource(1)))
	table.Create(udpAddr(t, "127.0.0.1:1111"), time.Now())
	table.Create(udpAddr(t, "127.0.0.1:2222"), time.Now())

	if table.Len() != 2 {
		t.Fatalf("expected Len 2, got %d", table.Len())
	}
	if snap := table.Snapshot(); len(snap) != 2 {
		t.Fatalf("expected Snapshot to return 2 sessions, got %d", len(snap))
	}
}
