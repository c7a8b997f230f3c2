package engine

import "math/rand/v2"

// EffectType selects how clears are decorated.
type EffectType string

const (
	EffectParticles EffectType = "particles"
	EffectWave      EffectType = "wave"
	EffectNone      EffectType = "none"
)

// ParseEffectType maps a config string to an EffectType, defaulting to particles.
func ParseEffectType(s string) EffectType {
	switch EffectType(s) {
	case EffectWave:
		return EffectWave
	case EffectNone:
		return EffectNone
	default:
		return EffectParticles
	}
}

// EffectKind identifies a board-wide effect.
type EffectKind int

const (
	EffectLineFlash EffectKind = iota
	EffectChainWave
)

// Effect durations and particle physics. Units are cells and milliseconds.
const (
	flashDuration   = 250
	waveDuration    = 600
	particleLife    = 700
	particleGravity = 0.00004
)

// Particle is a short-lived spark thrown off a cleared row.
type Particle struct {
	X, Y   float64
	VX, VY float64
	Color  int
	Age    float64
	Life   float64
}

// Effect is a timed overlay tied to a row.
type Effect struct {
	Kind     EffectKind
	Row      int
	Chain    int
	Age      float64
	Duration float64
}

// Progress returns how far the effect has run, 0..1.
func (e Effect) Progress() float64 {
	if e.Duration <= 0 {
		return 1
	}
	p := e.Age / e.Duration
	if p > 1 {
		return 1
	}
	return p
}

// EffectSystem turns clear events into cosmetic particles and overlays.
// It never touches game state.
type EffectSystem struct {
	kind      EffectType
	rng       *rand.Rand
	particles []Particle
	effects   []Effect
}

// NewEffectSystem creates an effect system.
func NewEffectSystem(kind EffectType, seed int64) *EffectSystem {
	return &EffectSystem{
		kind: kind,
		rng:  rand.New(rand.NewPCG(uint64(seed), 0x5851f42d4c957f2d)),
	}
}

// Type returns the generation strategy.
func (s *EffectSystem) Type() EffectType { return s.kind }

// SetType switches strategy and drops anything in flight.
func (s *EffectSystem) SetType(kind EffectType) {
	s.kind = kind
	s.Clear()
}

// Hooks returns game hooks that feed clears into the system.
// Particles are tinted by chain position.
func (s *EffectSystem) Hooks(width int) Hooks {
	return Hooks{OnClear: func(ev ClearEvent) { s.Spawn(ev, width) }}
}

// Spawn decorates one clear pass.
func (s *EffectSystem) Spawn(ev ClearEvent, width int) {
	if s.kind == EffectNone || len(ev.Rows) == 0 {
		return
	}
	for _, row := range ev.Rows {
		s.effects = append(s.effects, Effect{Kind: EffectLineFlash, Row: row, Chain: ev.Chain, Duration: flashDuration})
	}
	switch s.kind {
	case EffectWave:
		s.effects = append(s.effects, Effect{
			Kind:     EffectChainWave,
			Row:      ev.Rows[0],
			Chain:    ev.Chain,
			Duration: waveDuration * float64(max(ev.Chain, 1)),
		})
	case EffectParticles:
		color := (ev.Chain-1)%7 + 1
		for _, row := range ev.Rows {
			for x := 0; x < width; x++ {
				s.particles = append(s.particles, Particle{
					X:     float64(x) + 0.5,
					Y:     float64(row) + 0.5,
					VX:    (s.rng.Float64() - 0.5) * 0.02,
					VY:    -0.005 - s.rng.Float64()*0.015,
					Color: color,
					Life:  particleLife,
				})
			}
		}
	}
}

// Update ages everything by dt ms and drops what has expired.
// Surviving entries keep their spawn order.
func (s *EffectSystem) Update(dt float64) {
	alive := s.particles[:0]
	for _, p := range s.particles {
		p.Age += dt
		if p.Age >= p.Life {
			continue
		}
		p.VY += particleGravity * dt
		p.X += p.VX * dt
		p.Y += p.VY * dt
		alive = append(alive, p)
	}
	s.particles = alive

	live := s.effects[:0]
	for _, e := range s.effects {
		e.Age += dt
		if e.Age >= e.Duration {
			continue
		}
		live = append(live, e)
	}
	s.effects = live
}

// Particles returns the live particles in spawn order.
func (s *EffectSystem) Particles() []Particle { return s.particles }

// Effects returns the live overlays in spawn order.
func (s *EffectSystem) Effects() []Effect { return s.effects }

// Active reports whether anything is still animating.
func (s *EffectSystem) Active() bool {
	return len(s.particles) > 0 || len(s.effects) > 0
}

// Clear drops all particles and effects.
func (s *EffectSystem) Clear() {
	s.particles = s.particles[:0]
	s.effects = s.effects[:0]
}
