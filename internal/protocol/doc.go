// Package protocol implements the wire message taxonomy between client and
// server — ClientMessage/ServerMessage envelopes, the ActorAction/CastAction
// union, a compact binary codec, and world-delta synthesis — grounded on
// spec.md §4.8 and §6, and on _examples/original_source/src/protocol.rs for
// the tagged-union shape this binary encoding replaces the Rust
// serde-derived wire format with.
package protocol
