package world

// MaterialType classifies a body's physical material for mass, friction,
// and restitution lookups. Grounded on
// _examples/original_source/src/world.rs (`enum MaterialType`) and the
// density/restitution/friction tables in src/engine.rs.
type MaterialType int

const (
	MaterialNone MaterialType = iota
	MaterialFlesh
	MaterialStone
	MaterialGrass
	MaterialDirt
	MaterialWater
	MaterialIce
)

// Density returns the material's density (kg per unit area), used with a
// body's shape to derive mass.
func (m MaterialType) Density() float64 {
	switch m {
	case MaterialFlesh:
		return 800.0
	case MaterialStone:
		return 2750.0
	case MaterialGrass:
		return 500.0
	case MaterialDirt:
		return 1500.0
	case MaterialWater:
		return 1000.0
	case MaterialIce:
		return 900.0
	default:
		return 1.0
	}
}

// Restitution returns the material's coefficient of restitution for the
// collision impulse formula (spec.md §4.5).
func (m MaterialType) Restitution() float64 {
	switch m {
	case MaterialFlesh:
		return 0.05
	case MaterialStone:
		return 0.2
	case MaterialGrass:
		return 0.01
	case MaterialDirt:
		return 0.01
	case MaterialWater:
		return 0.0
	case MaterialIce:
		return 0.01
	default:
		return 1.0
	}
}

// Friction returns the material's friction coefficient for the dynamics
// stage's ground-friction term (spec.md §4.4).
func (m MaterialType) Friction() float64 {
	switch m {
	case MaterialFlesh:
		return 1.0
	case MaterialStone:
		return 1.0
	case MaterialGrass:
		return 0.5
	case MaterialDirt:
		return 1.0
	case MaterialWater:
		return 1.0
	case MaterialIce:
		return 0.05
	default:
		return 0.0
	}
}
