package engine

import (
	"time"
)

// seqRand replays a fixed sequence of values, reduced modulo n
type seqRand struct {
	vals []int
	i    int
}

func (r *seqRand) IntN(n int) int {
	v := r.vals[r.i%len(r.vals)]
	r.i++
	return v % n
}

var testStart = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestProcessor(vals ...int) (*Processor, *MockClock) {
	if len(vals) == 0 {
		vals = []int{0}
	}
	clock := NewMockClock(testStart)
	return NewProcessor(NewPieceFactory(&seqRand{vals: vals}), clock), clock
}

// fillRow occupies every column of row y except the listed ones
func fillRow(g *Grid, y int, except ...int) {
	for x := 0; x < GridWidth; x++ {
		skip := false
		for _, e := range except {
			if e == x {
				skip = true
			}
		}
		if !skip {
			g[y][x] = "#AAAAAA"
		}
	}
}

func placed(t TetrominoType, x, y int) *Piece {
	p := NewPiece(t, "#FF0000")
	p.Position = Position{X: x, Y: y}
	return p
}

func verticalI(x, y int) *Piece {
	p := placed(TetrominoI, x, y)
	return p.WithShape(RotateClockwise(p.Shape))
}
