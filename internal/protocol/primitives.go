package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"fight-club/internal/geom"
)

// writer accumulates a message body. Every primitive writer is a thin
// wrapper over encoding/binary so the resulting layout matches spec.md §6
// exactly: little-endian fixed-width scalars, u64-length-prefixed UTF-8
// strings, u32 tags for enums and variant discriminants.
type writer struct {
	buf bytes.Buffer
}

func (w *writer) u32(v uint32) { var b [4]byte; binary.LittleEndian.PutUint32(b[:], v); w.buf.Write(b[:]) }
func (w *writer) u64(v uint64) { var b [8]byte; binary.LittleEndian.PutUint64(b[:], v); w.buf.Write(b[:]) }
func (w *writer) f64(v float64) { w.u64(math.Float64bits(v)) }
func (w *writer) boolean(v bool) {
	if v {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}
func (w *writer) str(s string) {
	w.u64(uint64(len(s)))
	w.buf.WriteString(s)
}
func (w *writer) vec2(v geom.Vec2) { w.f64(v.X); w.f64(v.Y) }
func (w *writer) bytesRaw(b []byte) { w.buf.Write(b) }
func (w *writer) bytes() []byte     { return w.buf.Bytes() }

// reader consumes a message body written by writer, returning an error on
// short reads rather than panicking — malformed datagrams must be dropped,
// never crash the session server (spec.md §7).
type reader struct {
	buf *bytes.Reader
}

func newReader(b []byte) *reader { return &reader{buf: bytes.NewReader(b)} }

func (r *reader) u32() (uint32, error) {
	var b [4]byte
	if _, err := readFull(r.buf, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func (r *reader) u64() (uint64, error) {
	var b [8]byte
	if _, err := readFull(r.buf, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

func (r *reader) f64() (float64, error) {
	v, err := r.u64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

func (r *reader) boolean() (bool, error) {
	b, err := r.buf.ReadByte()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

// maxStringLen guards str() decoding against a malicious or corrupt length
// prefix turning a 65KB datagram into a multi-gigabyte allocation.
const maxStringLen = 1 << 16

func (r *reader) str() (string, error) {
	n, err := r.u64()
	if err != nil {
		return "", err
	}
	if n > maxStringLen {
		return "", fmt.Errorf("protocol: string length %d exceeds max %d", n, maxStringLen)
	}
	b := make([]byte, n)
	if _, err := readFull(r.buf, b); err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *reader) vec2() (geom.Vec2, error) {
	x, err := r.f64()
	if err != nil {
		return geom.Vec2{}, err
	}
	y, err := r.f64()
	if err != nil {
		return geom.Vec2{}, err
	}
	return geom.Vec2{X: x, Y: y}, nil
}

func (r *reader) remaining() []byte {
	b := make([]byte, r.buf.Len())
	_, _ = r.buf.Read(b)
	return b
}

func readFull(r *bytes.Reader, b []byte) (int, error) {
	n, err := r.Read(b)
	if err == nil && n < len(b) {
		err = fmt.Errorf("protocol: short read: got %d of %d bytes", n, len(b))
	}
	return n, err
}
