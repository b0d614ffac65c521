// Package admin implements the bounded request/response channel for
// server introspection and control (spec.md §4.11), plus the chi-routed
// JSON HTTP surface that fronts it (spec.md §6). Grounded on the
// teacher's internal/api package for HTTP wiring texture and on
// _examples/original_source/src/server.rs's `AdminRequest`/
// `AdminResponse` enum for the request taxonomy.
package admin

import (
	"time"

	"fight-club/internal/protocol"
)

// Kind discriminates a Request.
type Kind int

const (
	Stop Kind = iota
	GetSessions
	RemoveSession
	GetStatus
	GetWorld
)

// SessionInfo is the admin-facing view of one UDP+game session, joined by
// session id.
type SessionInfo struct {
	SessionID uint64 `json:"session_id"`
	Address   string `json:"address"`
	State     string `json:"state"`
	PlayerID  uint64 `json:"player_id"`
	PlayerName string `json:"player_name"`
}

// Status answers GetStatus.
type Status struct {
	FPS             float64       `json:"fps"`
	FrameDurationMean time.Duration `json:"frame_duration_mean_ns"`
	FrameDurationMin  time.Duration `json:"frame_duration_min_ns"`
	FrameDurationMax  time.Duration `json:"frame_duration_max_ns"`
	Sessions        int           `json:"sessions"`
	Players         int           `json:"players"`
}

// Request is a bounded, one-shot admin request sent to the game loop.
// Reply is buffered with capacity 1 so the game loop never blocks
// sending its answer; if the caller has already given up and closed or
// stopped reading, the send is dropped (spec.md §4.11 "best-effort").
type Request struct {
	Kind            Kind
	RemoveSessionID uint64
	Reply           chan Response
}

// Response carries the answer to one Request. Only the field matching
// the originating Kind is populated.
type Response struct {
	Err      string
	Sessions []SessionInfo
	Status   Status
	World    protocol.WorldSnapshot
}

// NewChannel allocates the bounded admin channel shared between the HTTP
// surface and the game loop. A small buffer lets a handful of concurrent
// HTTP requests queue without blocking, while staying bounded so a
// pathological client can't grow it unbounded.
func NewChannel() chan Request {
	return make(chan Request, 16)
}

// Send submits req and waits up to timeout for a reply, or returns false
// if the channel is full, the loop is gone, or the wait times out.
func Send(ch chan Request, kind Kind, removeSessionID uint64, timeout time.Duration) (Response, bool) {
	reply := make(chan Response, 1)
	req := Request{Kind: kind, RemoveSessionID: removeSessionID, Reply: reply}

	select {
	case ch <- req:
	case <-time.After(timeout):
		return Response{}, false
	}

	select {
	case resp := <-reply:
		return resp, true
	case <-time.After(timeout):
		return Response{}, false
	}
}
