package online

// Timer converts accumulated frame time into whole periods owed. It has no
// goroutine; the owner advances it from Update and stops it on teardown.
type Timer struct {
	period  float64
	pending float64
	total   float64
	running bool
}

// NewTimer creates a stopped timer with the given period in milliseconds.
func NewTimer(period float64) *Timer {
	if period <= 0 {
		period = 1000
	}
	return &Timer{period: period}
}

// Start resets and starts the timer.
func (t *Timer) Start() {
	t.pending = 0
	t.total = 0
	t.running = true
}

// Stop halts the timer and discards partial progress.
func (t *Timer) Stop() {
	t.running = false
	t.pending = 0
}

// Running reports whether the timer is counting.
func (t *Timer) Running() bool {
	return t.running
}

// Advance adds dt milliseconds and returns how many periods elapsed.
func (t *Timer) Advance(dt float64) int {
	if !t.running || dt <= 0 {
		return 0
	}
	t.total += dt
	t.pending += dt
	n := 0
	for t.pending >= t.period {
		t.pending -= t.period
		n++
	}
	return n
}

// Elapsed returns the milliseconds counted since Start.
func (t *Timer) Elapsed() float64 {
	return t.total
}
