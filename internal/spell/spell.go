// Package spell implements the element combinator: the ordered spell
// sequence an actor builds by adding elements one at a time, and the
// cast() operation that consumes it into a Magick. Grounded on spec.md
// §4.1 and _examples/original_source/src/engine.rs
// (`combine_elements`, `can_cancel_element`).
package spell

import "fight-club/internal/world"

// Sequence is the bounded ordered list of elements an actor is composing.
// Capacity is enforced by Add, not by the slice itself.
type Sequence struct {
	elements []world.Element
	cap      int
}

// NewSequence builds an empty sequence capped at maxElements.
func NewSequence(maxElements int) *Sequence {
	return &Sequence{cap: maxElements}
}

// Elements returns the current sequence contents (read-only view).
func (s *Sequence) Elements() []world.Element { return s.elements }

// Len returns the number of elements currently queued.
func (s *Sequence) Len() int { return len(s.elements) }

// Add walks the sequence from tail to head looking for the first element
// that combines or cancels with e. Combination replaces that slot;
// cancellation removes it. If neither applies anywhere in the sequence,
// e is appended provided the sequence is under capacity.
func (s *Sequence) Add(e world.Element) { AddElement(&s.elements, s.cap, e) }

// Cast consumes the sequence into a Magick whose power[e] equals the
// count of element e in the sequence, then clears the sequence.
func (s *Sequence) Cast() world.Magick { return Cast(&s.elements) }

// AddElement applies the composer rule directly to a bounded element
// slice. Exists alongside Sequence because world.Actor stores its spell
// sequence as a plain []Element (so the protocol snapshot/delta code can
// read it without unwrapping a Sequence); the engine's action dispatch
// calls this directly on Actor.SpellElements.
func AddElement(elements *[]world.Element, cap int, e world.Element) {
	seq := *elements
	for i := len(seq) - 1; i >= 0; i-- {
		if combined, ok := combine(seq[i], e); ok {
			seq[i] = combined
			return
		}
		if cancels(seq[i], e) {
			*elements = append(seq[:i], seq[i+1:]...)
			return
		}
	}
	if len(seq) < cap {
		*elements = append(seq, e)
	}
}

// Cast consumes an element slice into a Magick whose power[e] equals the
// count of element e present, then clears the slice in place.
func Cast(elements *[]world.Element) world.Magick {
	var m world.Magick
	for _, e := range *elements {
		m.Power[e]++
	}
	*elements = (*elements)[:0]
	return m
}

// combine returns the commutative combination of target and element, if
// any: Water+Fire->Steam, Water+Cold->Ice, Ice+Fire->Water.
func combine(target, element world.Element) (world.Element, bool) {
	switch {
	case isPair(target, element, world.Water, world.Fire):
		return world.Steam, true
	case isPair(target, element, world.Water, world.Cold):
		return world.Ice, true
	case isPair(target, element, world.Ice, world.Fire):
		return world.Water, true
	default:
		return 0, false
	}
}

// cancels reports whether element cancels target, matching the source's
// asymmetric pairwise predicates exactly (Steam+Cold and Poison+Life are
// one-directional; do not infer symmetry where the source doesn't).
func cancels(target, element world.Element) bool {
	switch {
	case target == world.Water && element == world.Lightning:
		return true
	case target == world.Lightning && (element == world.Earth || element == world.Water):
		return true
	case target == world.Life && element == world.Arcane:
		return true
	case target == world.Arcane && element == world.Life:
		return true
	case target == world.Shield && element == world.Shield:
		return true
	case target == world.Earth && element == world.Lightning:
		return true
	case target == world.Cold && element == world.Fire:
		return true
	case target == world.Fire && element == world.Cold:
		return true
	case target == world.Steam && element == world.Cold:
		return true
	case target == world.Ice && element == world.Fire:
		return true
	case target == world.Poison && element == world.Life:
		return true
	default:
		return false
	}
}

// isPair reports whether (target, element) matches (a, b) in either order.
func isPair(target, element, a, b world.Element) bool {
	return (target == a && element == b) || (target == b && element == a)
}
