package engine

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Randomizer is the source of randomness used to pick piece types and colors
type Randomizer interface {
	// IntN returns a uniformly distributed int in [0, n). n is always > 0.
	IntN(n int) int
}

// NewSeededRandomizer returns a deterministic PCG-backed randomizer
func NewSeededRandomizer(seed uint64) Randomizer {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewTimeSeededRandomizer seeds from the wall clock
func NewTimeSeededRandomizer() Randomizer {
	return NewSeededRandomizer(uint64(time.Now().UnixNano()))
}

// PieceFactory creates random tetrominoes. It is safe for concurrent use.
type PieceFactory struct {
	mu  sync.Mutex
	rng Randomizer
}

// NewPieceFactory creates a factory drawing from rng
func NewPieceFactory(rng Randomizer) *PieceFactory {
	if rng == nil {
		rng = NewTimeSeededRandomizer()
	}
	return &PieceFactory{rng: rng}
}

// Create returns a piece of a uniformly random type and a uniformly random color from the
// palette, placed at the spawn position. An empty palette falls back to DefaultColors.
func (f *PieceFactory) Create(colors []Color) *Piece {
	if len(colors) == 0 {
		colors = DefaultColors
	}

	f.mu.Lock()
	t := TetrominoType(f.rng.IntN(TetrominoCount))
	c := colors[f.rng.IntN(len(colors))]
	f.mu.Unlock()

	return NewPiece(t, c)
}
