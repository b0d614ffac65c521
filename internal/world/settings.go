package world

import "math"

// Settings holds the tunable constants that parameterize one simulation
// run. Field set and defaults grounded on
// _examples/original_source/src/world.rs (`WorldSettings::default`).
type Settings struct {
	MaxMagicPower              float64
	DecayFactor                float64
	Margin                     float64
	PhysicalDamageFactor       float64
	MagicalDamageFactor        float64
	MaxBeamLength              float64
	MaxRotationSpeed           float64
	MoveForce                  float64
	MagicForceMultiplier       float64
	MaxSpellElements           int
	MaxBeamDepth               int
	GravitationalAcceleration  float64
	SprayDistanceFactor        float64
	SprayAngle                 float64
	DirectedMagickDuration     float64
	SprayForceFactor           float64
	AreaOfEffectMagickDuration float64
	BorderWidth                float64
	MinMoveDistance            float64
	InitialActorSpawnDelay     float64
	ActorRespawnDelay          float64
	BaseGunFirePeriod          float64
	GunBulletRadius            float64
	GunHalfGroupingAngle       float64
	TempObstacleMagickDuration float64
	TempAreaDuration           float64
	MaxActorSpeed              float64

	// UpdatePeriod is the fixed simulation step (seconds), driving both
	// the engine's time advance and the game loop's tick rate.
	UpdatePeriod float64
}

// DefaultSettings returns the stock tuning values, numerically identical to
// the source's `WorldSettings::default`.
func DefaultSettings() Settings {
	return Settings{
		MaxMagicPower:              5.0,
		DecayFactor:                1.0 / 5.0,
		Margin:                     0.1,
		PhysicalDamageFactor:       1e-3,
		MagicalDamageFactor:        1e3,
		MaxBeamLength:              1e3,
		MaxRotationSpeed:           2.0 * math.Pi,
		MoveForce:                  5e4,
		MagicForceMultiplier:       5e6,
		MaxSpellElements:           5,
		MaxBeamDepth:               4,
		GravitationalAcceleration:  9.8,
		SprayDistanceFactor:        2.0,
		SprayAngle:                 math.Pi / 8,
		DirectedMagickDuration:     3.0,
		SprayForceFactor:           1e5,
		AreaOfEffectMagickDuration: 0.5,
		BorderWidth:                0.1,
		MinMoveDistance:            1e-3,
		InitialActorSpawnDelay:     1.0,
		ActorRespawnDelay:          5.0,
		BaseGunFirePeriod:          0.3,
		GunBulletRadius:            0.2,
		GunHalfGroupingAngle:       math.Pi / 12,
		TempObstacleMagickDuration: 20.0,
		TempAreaDuration:           5.0,
		MaxActorSpeed:              10.0,
		UpdatePeriod:               1.0 / 20.0,
	}
}
