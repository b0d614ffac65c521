package protocol

import (
	"fmt"

	"fight-club/internal/engine"
	"fight-club/internal/geom"
	"fight-club/internal/world"
)

func writeCollection[T any](w *writer, items []T, each func(*writer, T)) {
	w.u32(uint32(len(items)))
	for _, it := range items {
		each(w, it)
	}
}

func readCollection[T any](r *reader, each func(*reader) (T, error)) ([]T, error) {
	n, err := r.u32()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	out := make([]T, n)
	for i := range out {
		v, err := each(r)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func writeDelta[T any](w *writer, d CollectionDelta[T], each func(*writer, T)) {
	writeCollection(w, d.Added, each)
	writeCollection(w, d.Changed, each)
	w.u32(uint32(len(d.Removed)))
	for _, id := range d.Removed {
		w.id(id)
	}
}

func readDelta[T any](r *reader, each func(*reader) (T, error)) (CollectionDelta[T], error) {
	var d CollectionDelta[T]
	var err error
	if d.Added, err = readCollection(r, each); err != nil {
		return d, err
	}
	if d.Changed, err = readCollection(r, each); err != nil {
		return d, err
	}
	n, err := r.u32()
	if err != nil {
		return d, err
	}
	if n == 0 {
		return d, nil
	}
	d.Removed = make([]world.ID, n)
	for i := range d.Removed {
		if d.Removed[i], err = r.id(); err != nil {
			return d, err
		}
	}
	return d, nil
}

func writeWorldSnapshot(w *writer, s WorldSnapshot) {
	writeWorldHeader(w, s.Frame, s.Time, s.IDCounter, s.Bounds, s.Settings)
	writeCollection(w, s.Players, (*writer).player)
	writeCollection(w, s.Actors, (*writer).actor)
	writeCollection(w, s.Projectiles, (*writer).projectile)
	writeCollection(w, s.StaticObjects, (*writer).staticObject)
	writeCollection(w, s.Beams, (*writer).beam)
	writeCollection(w, s.StaticAreas, (*writer).staticArea)
	writeCollection(w, s.TempAreas, (*writer).tempArea)
	writeCollection(w, s.BoundedAreas, (*writer).boundedArea)
	writeCollection(w, s.Fields, (*writer).field)
	writeCollection(w, s.Guns, (*writer).gun)
	writeCollection(w, s.Shields, (*writer).shield)
	writeCollection(w, s.TempObstacles, (*writer).tempObstacle)
}

// EncodeWorldSnapshot serializes a full WorldSnapshot.
func EncodeWorldSnapshot(s WorldSnapshot) []byte {
	w := &writer{}
	writeWorldSnapshot(w, s)
	return w.bytes()
}

func decodeWorldSnapshotFromReader(r *reader) (WorldSnapshot, error) {
	var s WorldSnapshot
	var err error
	if s.Frame, s.Time, s.IDCounter, s.Bounds, s.Settings, err = readWorldHeader(r); err != nil {
		return s, err
	}
	if s.Players, err = readCollection(r, (*reader).player); err != nil {
		return s, err
	}
	if s.Actors, err = readCollection(r, (*reader).actor); err != nil {
		return s, err
	}
	if s.Projectiles, err = readCollection(r, (*reader).projectile); err != nil {
		return s, err
	}
	if s.StaticObjects, err = readCollection(r, (*reader).staticObject); err != nil {
		return s, err
	}
	if s.Beams, err = readCollection(r, (*reader).beam); err != nil {
		return s, err
	}
	if s.StaticAreas, err = readCollection(r, (*reader).staticArea); err != nil {
		return s, err
	}
	if s.TempAreas, err = readCollection(r, (*reader).tempArea); err != nil {
		return s, err
	}
	if s.BoundedAreas, err = readCollection(r, (*reader).boundedArea); err != nil {
		return s, err
	}
	if s.Fields, err = readCollection(r, (*reader).field); err != nil {
		return s, err
	}
	if s.Guns, err = readCollection(r, (*reader).gun); err != nil {
		return s, err
	}
	if s.Shields, err = readCollection(r, (*reader).shield); err != nil {
		return s, err
	}
	if s.TempObstacles, err = readCollection(r, (*reader).tempObstacle); err != nil {
		return s, err
	}
	return s, nil
}

// DecodeWorldSnapshot is the inverse of EncodeWorldSnapshot.
func DecodeWorldSnapshot(b []byte) (WorldSnapshot, error) {
	return decodeWorldSnapshotFromReader(newReader(b))
}

func writeWorldUpdate(w *writer, u WorldUpdate) {
	writeWorldHeader(w, u.Frame, u.Time, u.IDCounter, u.Bounds, u.Settings)
	writeDelta(w, u.Players, (*writer).player)
	writeDelta(w, u.Actors, (*writer).actor)
	writeDelta(w, u.Projectiles, (*writer).projectile)
	writeDelta(w, u.StaticObjects, (*writer).staticObject)
	writeDelta(w, u.Beams, (*writer).beam)
	writeDelta(w, u.StaticAreas, (*writer).staticArea)
	writeDelta(w, u.TempAreas, (*writer).tempArea)
	writeDelta(w, u.BoundedAreas, (*writer).boundedArea)
	writeDelta(w, u.Fields, (*writer).field)
	writeDelta(w, u.Guns, (*writer).gun)
	writeDelta(w, u.Shields, (*writer).shield)
	writeDelta(w, u.TempObstacles, (*writer).tempObstacle)
}

// EncodeWorldUpdate serializes a WorldUpdate delta.
func EncodeWorldUpdate(u WorldUpdate) []byte {
	w := &writer{}
	writeWorldUpdate(w, u)
	return w.bytes()
}

func decodeWorldUpdateFromReader(r *reader) (WorldUpdate, error) {
	var u WorldUpdate
	var err error
	if u.Frame, u.Time, u.IDCounter, u.Bounds, u.Settings, err = readWorldHeader(r); err != nil {
		return u, err
	}
	if u.Players, err = readDelta(r, (*reader).player); err != nil {
		return u, err
	}
	if u.Actors, err = readDelta(r, (*reader).actor); err != nil {
		return u, err
	}
	if u.Projectiles, err = readDelta(r, (*reader).projectile); err != nil {
		return u, err
	}
	if u.StaticObjects, err = readDelta(r, (*reader).staticObject); err != nil {
		return u, err
	}
	if u.Beams, err = readDelta(r, (*reader).beam); err != nil {
		return u, err
	}
	if u.StaticAreas, err = readDelta(r, (*reader).staticArea); err != nil {
		return u, err
	}
	if u.TempAreas, err = readDelta(r, (*reader).tempArea); err != nil {
		return u, err
	}
	if u.BoundedAreas, err = readDelta(r, (*reader).boundedArea); err != nil {
		return u, err
	}
	if u.Fields, err = readDelta(r, (*reader).field); err != nil {
		return u, err
	}
	if u.Guns, err = readDelta(r, (*reader).gun); err != nil {
		return u, err
	}
	if u.Shields, err = readDelta(r, (*reader).shield); err != nil {
		return u, err
	}
	if u.TempObstacles, err = readDelta(r, (*reader).tempObstacle); err != nil {
		return u, err
	}
	return u, nil
}

// DecodeWorldUpdate is the inverse of EncodeWorldUpdate.
func DecodeWorldUpdate(b []byte) (WorldUpdate, error) {
	return decodeWorldUpdateFromReader(newReader(b))
}

func writeWorldHeader(w *writer, frame uint64, t float64, idCounter uint64, bounds geom.Rect, settings world.Settings) {
	w.u64(frame)
	w.f64(t)
	w.u64(idCounter)
	w.rect(bounds)
	w.settings(settings)
}

func readWorldHeader(r *reader) (frame uint64, t float64, idCounter uint64, bounds geom.Rect, settings world.Settings, err error) {
	if frame, err = r.u64(); err != nil {
		return
	}
	if t, err = r.f64(); err != nil {
		return
	}
	if idCounter, err = r.u64(); err != nil {
		return
	}
	if bounds, err = r.rect(); err != nil {
		return
	}
	settings, err = r.settings()
	return
}

func (w *writer) actorAction(a ActorAction) {
	w.boolean(a.Moving)
	w.vec2(a.TargetDirection)
	w.castAction(a.Cast)
}

func (r *reader) actorAction() (ActorAction, error) {
	var a ActorAction
	var err error
	if a.Moving, err = r.boolean(); err != nil {
		return a, err
	}
	if a.TargetDirection, err = r.vec2(); err != nil {
		return a, err
	}
	if a.Cast, err = r.castAction(); err != nil {
		return a, err
	}
	return a, nil
}

func (w *writer) castAction(c CastAction) {
	switch c.Kind {
	case engine.CastNone:
		w.u32(castTagNone)
	case engine.CastAddSpellElement:
		w.u32(castTagAddSpellElement)
		w.u32(uint32(c.SpellElement))
	case engine.CastStartDirectedMagick:
		w.u32(castTagStartDirectedMagick)
	case engine.CastCompleteDirectedMagick:
		w.u32(castTagCompleteDirectedMagick)
	case engine.CastSelfMagick:
		w.u32(castTagSelfMagick)
	case engine.CastStartAreaOfEffectMagick:
		w.u32(castTagStartAreaOfEffectMagick)
	default:
		w.u32(castTagNone)
	}
}

func (r *reader) castAction() (CastAction, error) {
	tag, err := r.u32()
	if err != nil {
		return CastAction{}, err
	}
	switch tag {
	case castTagNone:
		return CastAction{Kind: engine.CastNone}, nil
	case castTagAddSpellElement:
		e, err := r.u32()
		if err != nil {
			return CastAction{}, err
		}
		return CastAction{Kind: engine.CastAddSpellElement, SpellElement: world.Element(e)}, nil
	case castTagStartDirectedMagick:
		return CastAction{Kind: engine.CastStartDirectedMagick}, nil
	case castTagCompleteDirectedMagick:
		return CastAction{Kind: engine.CastCompleteDirectedMagick}, nil
	case castTagSelfMagick:
		return CastAction{Kind: engine.CastSelfMagick}, nil
	case castTagStartAreaOfEffectMagick:
		return CastAction{Kind: engine.CastStartAreaOfEffectMagick}, nil
	default:
		return CastAction{}, fmt.Errorf("protocol: unknown cast action tag %d", tag)
	}
}

// EncodeClientMessage serializes a ClientMessage into a single datagram
// payload, ready for net.PacketConn.WriteTo.
func EncodeClientMessage(m ClientMessage) []byte {
	w := &writer{}
	w.u64(m.SessionID)
	w.u64(m.Number)
	switch m.Data.Kind {
	case ClientJoin:
		w.u32(clientTagJoin)
		w.str(m.Data.JoinName)
	case ClientQuit:
		w.u32(clientTagQuit)
	case ClientHeartbeat:
		w.u32(clientTagHeartbeat)
	case ClientPlayerControl:
		w.u32(clientTagPlayerControl)
		w.u64(m.Data.Ack)
		w.u64(m.Data.CastFrame)
		w.actorAction(m.Data.ActorAction)
	}
	return w.bytes()
}

// DecodeClientMessage is the inverse of EncodeClientMessage. Malformed
// input returns an error; callers (the UDP ingress loop) are expected to
// drop the datagram and continue, never treat this as fatal (spec.md §7).
func DecodeClientMessage(b []byte) (ClientMessage, error) {
	r := newReader(b)
	var m ClientMessage
	var err error
	if m.SessionID, err = r.u64(); err != nil {
		return m, err
	}
	if m.Number, err = r.u64(); err != nil {
		return m, err
	}
	tag, err := r.u32()
	if err != nil {
		return m, err
	}
	switch tag {
	case clientTagJoin:
		m.Data.Kind = ClientJoin
		if m.Data.JoinName, err = r.str(); err != nil {
			return m, err
		}
	case clientTagQuit:
		m.Data.Kind = ClientQuit
	case clientTagHeartbeat:
		m.Data.Kind = ClientHeartbeat
	case clientTagPlayerControl:
		m.Data.Kind = ClientPlayerControl
		if m.Data.Ack, err = r.u64(); err != nil {
			return m, err
		}
		if m.Data.CastFrame, err = r.u64(); err != nil {
			return m, err
		}
		if m.Data.ActorAction, err = r.actorAction(); err != nil {
			return m, err
		}
	default:
		return m, fmt.Errorf("protocol: unknown client message tag %d", tag)
	}
	return m, nil
}

// EncodeServerMessageData serializes the ServerMessageData payload that
// rides inside a ServerMessage's Data field.
func EncodeServerMessageData(d ServerMessageData) []byte {
	w := &writer{}
	switch d.Kind {
	case ServerNewPlayer:
		w.u32(serverTagNewPlayer)
		w.f64(d.UpdatePeriod)
		w.id(d.PlayerID)
	case ServerError:
		w.u32(serverTagError)
		w.str(d.ErrorMessage)
	case ServerGameUpdate:
		w.u32(serverTagGameUpdate)
		w.gameUpdate(d.GameUpdate)
	}
	return w.bytes()
}

// DecodeServerMessageData is the inverse of EncodeServerMessageData.
func DecodeServerMessageData(b []byte) (ServerMessageData, error) {
	r := newReader(b)
	tag, err := r.u32()
	if err != nil {
		return ServerMessageData{}, err
	}
	var d ServerMessageData
	switch tag {
	case serverTagNewPlayer:
		d.Kind = ServerNewPlayer
		if d.UpdatePeriod, err = r.f64(); err != nil {
			return d, err
		}
		if d.PlayerID, err = r.id(); err != nil {
			return d, err
		}
	case serverTagError:
		d.Kind = ServerError
		if d.ErrorMessage, err = r.str(); err != nil {
			return d, err
		}
	case serverTagGameUpdate:
		d.Kind = ServerGameUpdate
		if d.GameUpdate, err = r.gameUpdate(); err != nil {
			return d, err
		}
	default:
		return d, fmt.Errorf("protocol: unknown server message tag %d", tag)
	}
	return d, nil
}

func (w *writer) gameUpdate(g GameUpdate) {
	switch g.Kind {
	case GameUpdateSnapshot:
		w.u32(gameUpdateTagWorldSnapshot)
		writeWorldSnapshot(w, g.Snapshot)
	case GameUpdateWorldUpdate:
		w.u32(gameUpdateTagWorldUpdate)
		writeWorldUpdate(w, g.Update)
	case GameUpdateSetActorID:
		w.u32(gameUpdateTagSetActorID)
		w.id(g.ActorID)
	case GameUpdateGameOver:
		w.u32(gameUpdateTagGameOver)
		w.str(g.Reason)
	}
}

func (r *reader) gameUpdate() (GameUpdate, error) {
	tag, err := r.u32()
	if err != nil {
		return GameUpdate{}, err
	}
	var g GameUpdate
	switch tag {
	case gameUpdateTagWorldSnapshot:
		g.Kind = GameUpdateSnapshot
		if g.Snapshot, err = decodeWorldSnapshotFromReader(r); err != nil {
			return g, err
		}
	case gameUpdateTagWorldUpdate:
		g.Kind = GameUpdateWorldUpdate
		if g.Update, err = decodeWorldUpdateFromReader(r); err != nil {
			return g, err
		}
	case gameUpdateTagSetActorID:
		g.Kind = GameUpdateSetActorID
		if g.ActorID, err = r.id(); err != nil {
			return g, err
		}
	case gameUpdateTagGameOver:
		g.Kind = GameUpdateGameOver
		if g.Reason, err = r.str(); err != nil {
			return g, err
		}
	default:
		return g, fmt.Errorf("protocol: unknown game update tag %d", tag)
	}
	return g, nil
}

// EncodeServerMessage serializes the full envelope, filling
// DecompressedSize with len(data) since this codec never compresses.
func EncodeServerMessage(sessionID, number uint64, data []byte) ServerMessage {
	return ServerMessage{SessionID: sessionID, Number: number, DecompressedSize: uint32(len(data)), Data: data}
}

// EncodeServerMessageBytes serializes m as a single datagram payload.
func EncodeServerMessageBytes(m ServerMessage) []byte {
	w := &writer{}
	w.u64(m.SessionID)
	w.u64(m.Number)
	w.u32(m.DecompressedSize)
	w.bytesRaw(m.Data)
	return w.bytes()
}

// DecodeServerMessageBytes is the inverse of EncodeServerMessageBytes.
func DecodeServerMessageBytes(b []byte) (ServerMessage, error) {
	r := newReader(b)
	var m ServerMessage
	var err error
	if m.SessionID, err = r.u64(); err != nil {
		return m, err
	}
	if m.Number, err = r.u64(); err != nil {
		return m, err
	}
	if m.DecompressedSize, err = r.u32(); err != nil {
		return m, err
	}
	m.Data = r.remaining()
	return m, nil
}
