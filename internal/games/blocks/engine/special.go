package engine

// SpecialGame is the cascade variant: after a clear, loose blocks fall one
// row per step and may complete further rows, each worth more than the last.
// Hold is always available.
type SpecialGame struct {
	*Game
	cascade *CascadeResolver
}

// NewSpecialGame builds a cascade game. stepInterval is the ms between
// gravity steps; non-positive means DefaultCascadeStep.
func NewSpecialGame(opts Options, stepInterval float64) *SpecialGame {
	cascade := NewCascadeResolver(stepInterval)
	opts.Resolver = cascade
	opts.AllowHold = true
	return &SpecialGame{Game: NewGame(opts), cascade: cascade}
}

// IsCascading reports whether a chain is still being animated.
func (s *SpecialGame) IsCascading() bool {
	return s.cascade.Cascading()
}

// ChainCount returns the chain reached by the latest lock.
func (s *SpecialGame) ChainCount() int {
	return s.cascade.Chain()
}
