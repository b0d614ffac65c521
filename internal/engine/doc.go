// Package engine advances a world.World by one fixed timestep: resolving
// areas and fields into effects, running per-body dynamics, casting beams,
// resolving collisions, and dispatching delayed magicks into their target
// entities. Grounded on
// _examples/original_source/src/engine.rs (`Engine::update`) and written in
// the teacher's plain-function, struct-method style rather than the
// source's trait-object dispatch.
package engine
