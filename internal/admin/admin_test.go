package admin

import (
	"testing"
	"time"
)

func TestSendRoundTrip(t *testing.T) {
	ch := NewChannel()
	go func() {
		req := <-ch
		req.Reply <- Response{Status: Status{Sessions: 3, Players: 2}}
	}()

	resp, ok := Send(ch, GetStatus, 0, time.Second)
	if !ok {
		t.Fatal("expected Send to receive a reply")
	}
	if resp.Status.Sessions != 3 || resp.Status.Players != 2 {
		t.Fatalf("unexpected status: %+v", resp.Status)
	}
}

func TestSendTimesOutWithNoResponder(t *testing.T) {
	ch := make(chan Request) // unbuffered, nothing ever reads it

	_, ok := Send(ch, GetStatus, 0, 10*time.Millisecond)
	if ok {
		t.Fatal("expected Send to time out when nothing drains the channel")
	}
}

func TestRequestReplyIsBestEffort(t *testing.T) {
	reply := make(chan Response, 1)
	req := Request{Kind: GetSessions, Reply: reply}

	// Simulate a caller that already gave up: send must not block even
	// though nothing will ever read the first reply.
	req.Reply <- Response{Sessions: []SessionInfo{{SessionID: 1}}}
	select {
	case req.Reply <- Response{Sessions: []SessionInfo{{SessionID: 2}}}:
		t.Fatal("expected a full, unread reply channel to not accept a second value")
	default:
	}
}
