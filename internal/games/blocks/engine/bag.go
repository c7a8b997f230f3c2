package engine

import (
	"fmt"
	"math/rand/v2"
)

// Bag is a 7-bag randomizer. Each refill is a fresh shuffle of all seven kinds.
// The generator is a PCG so its state can be saved and restored exactly.
type Bag struct {
	src   *rand.PCG
	rng   *rand.Rand
	queue []PieceType
}

// NewBag creates a bag seeded deterministically from seed.
func NewBag(seed int64) *Bag {
	src := rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)
	return &Bag{src: src, rng: rand.New(src)}
}

// Next pops the next piece kind, refilling the bag when it runs out.
func (b *Bag) Next() PieceType {
	if len(b.queue) == 0 {
		b.refill()
	}
	t := b.queue[0]
	b.queue = b.queue[1:]
	return t
}

// Remaining returns a copy of the undrawn kinds of the current bag.
func (b *Bag) Remaining() []PieceType {
	out := make([]PieceType, len(b.queue))
	copy(out, b.queue)
	return out
}

// Rand exposes the bag's generator for other seeded choices such as garbage holes.
func (b *Bag) Rand() *rand.Rand {
	return b.rng
}

// State returns the serialized generator state.
func (b *Bag) State() ([]byte, error) {
	return b.src.MarshalBinary()
}

// Restore replaces the queue and generator state.
func (b *Bag) Restore(queue []PieceType, state []byte) error {
	for _, t := range queue {
		if !t.Valid() {
			return fmt.Errorf("engine: invalid piece type %d in queue", t)
		}
	}
	if len(state) > 0 {
		if err := b.src.UnmarshalBinary(state); err != nil {
			return fmt.Errorf("engine: restore rng: %w", err)
		}
	}
	b.queue = append(b.queue[:0], queue...)
	return nil
}

func (b *Bag) refill() {
	b.queue = append(b.queue[:0], AllPieceTypes[:]...)
	b.rng.Shuffle(len(b.queue), func(i, j int) {
		b.queue[i], b.queue[j] = b.queue[j], b.queue[i]
	})
}
