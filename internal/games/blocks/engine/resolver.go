package engine

// Resolver decides what happens to the board after a piece is written into it.
type Resolver interface {
	// Resolve runs right after a lock. It returns the lines cleared
	// immediately and whether resolution continues over later updates.
	Resolve(g *Game) (lines int, pending bool)
	// Step advances a pending resolution by dt milliseconds and reports
	// whether it has finished.
	Step(g *Game, dt float64) (done bool)
	// Reset drops any in-progress resolution.
	Reset()
}

// ImmediateResolver clears complete rows on lock and is done.
type ImmediateResolver struct{}

// Resolve implements Resolver.
func (ImmediateResolver) Resolve(g *Game) (int, bool) {
	rows := ClearLines(g.board)
	if len(rows) > 0 {
		g.award(rows, 1)
	}
	return len(rows), false
}

// Step implements Resolver.
func (ImmediateResolver) Step(*Game, float64) bool { return true }

// Reset implements Resolver.
func (ImmediateResolver) Reset() {}

// DefaultCascadeStep is the pause between animated gravity steps, in ms.
const DefaultCascadeStep = 500

// CascadeResolver resolves chains one gravity step at a time so the
// falling blocks can be shown between steps.
type CascadeResolver struct {
	StepInterval float64

	cascading bool
	chain     int
	timer     float64
}

// NewCascadeResolver creates a cascade resolver. Non-positive intervals use
// DefaultCascadeStep.
func NewCascadeResolver(stepInterval float64) *CascadeResolver {
	if stepInterval <= 0 {
		stepInterval = DefaultCascadeStep
	}
	return &CascadeResolver{StepInterval: stepInterval}
}

// Resolve implements Resolver.
func (c *CascadeResolver) Resolve(g *Game) (int, bool) {
	rows := ClearLines(g.board)
	if len(rows) == 0 {
		c.chain = 0
		return 0, false
	}
	c.chain = 1
	c.cascading = true
	c.timer = 0
	g.award(rows, c.chain)
	return len(rows), true
}

// Step implements Resolver.
func (c *CascadeResolver) Step(g *Game, dt float64) bool {
	if !c.cascading {
		return true
	}
	c.timer += dt
	for c.cascading && c.timer >= c.StepInterval {
		c.timer -= c.StepInterval
		c.advance(g)
	}
	return !c.cascading
}

func (c *CascadeResolver) advance(g *Game) {
	if ApplyGravity(g.board) {
		return
	}
	rows := ClearLines(g.board)
	if len(rows) == 0 {
		c.cascading = false
		c.timer = 0
		return
	}
	c.chain++
	g.award(rows, c.chain)
}

// Reset implements Resolver.
func (c *CascadeResolver) Reset() {
	c.cascading = false
	c.chain = 0
	c.timer = 0
}

// Cascading reports whether a chain is being animated.
func (c *CascadeResolver) Cascading() bool {
	return c.cascading
}

// Chain returns the current chain count: 1 after an initial clear, growing
// with each follow-up clear, 0 when the last lock cleared nothing.
func (c *CascadeResolver) Chain() int {
	return c.chain
}

func (c *CascadeResolver) state() *CascadeState {
	return &CascadeState{Cascading: c.cascading, Chain: c.chain, Timer: c.timer}
}

func (c *CascadeResolver) restore(s *CascadeState) {
	if s == nil {
		c.Reset()
		return
	}
	c.cascading = s.Cascading
	c.chain = s.Chain
	c.timer = s.Timer
}
