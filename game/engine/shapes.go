package engine

// canonical spawn orientations, indexed by TetrominoType
var tetrominoShapes = [TetrominoCount]Shape{
	TetrominoI: {
		{0, 0, 0, 0},
		{1, 1, 1, 1},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	},
	TetrominoJ: {
		{1, 0, 0},
		{1, 1, 1},
		{0, 0, 0},
	},
	TetrominoL: {
		{0, 0, 1},
		{1, 1, 1},
		{0, 0, 0},
	},
	TetrominoO: {
		{1, 1},
		{1, 1},
	},
	TetrominoS: {
		{0, 1, 1},
		{1, 1, 0},
		{0, 0, 0},
	},
	TetrominoT: {
		{0, 1, 0},
		{1, 1, 1},
		{0, 0, 0},
	},
	TetrominoZ: {
		{1, 1, 0},
		{0, 1, 1},
		{0, 0, 0},
	},
}

// ShapeOf returns a copy of the canonical matrix for a tetromino type
func ShapeOf(t TetrominoType) Shape {
	return tetrominoShapes[t].clone()
}

// NewPiece builds a piece of the given type at the spawn position
func NewPiece(t TetrominoType, color Color) *Piece {
	return &Piece{
		Type:     t,
		Shape:    ShapeOf(t),
		Color:    color,
		Position: SpawnPosition(),
	}
}

// RotateClockwise returns the shape turned 90 degrees clockwise: row i of the result is
// column i of the input read bottom to top.
func RotateClockwise(s Shape) Shape {
	if len(s) == 0 {
		return Shape{}
	}
	rows, cols := len(s), len(s[0])
	out := make(Shape, cols)
	for i := 0; i < cols; i++ {
		out[i] = make([]int, rows)
		for j := 0; j < rows; j++ {
			out[i][j] = s[rows-1-j][i]
		}
	}
	return out
}

// RotateCounterClockwise returns the shape turned 90 degrees counter-clockwise
// (transpose, then reverse the row order).
func RotateCounterClockwise(s Shape) Shape {
	if len(s) == 0 {
		return Shape{}
	}
	rows, cols := len(s), len(s[0])
	out := make(Shape, cols)
	for i := 0; i < cols; i++ {
		out[i] = make([]int, rows)
		for j := 0; j < rows; j++ {
			out[i][j] = s[j][cols-1-i]
		}
	}
	return out
}

// Equal reports whether two shapes have identical occupancy
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for y := range s {
		if len(s[y]) != len(other[y]) {
			return false
		}
		for x := range s[y] {
			if s[y][x] != other[y][x] {
				return false
			}
		}
	}
	return true
}

func (s Shape) clone() Shape {
	out := make(Shape, len(s))
	for y, row := range s {
		out[y] = append([]int(nil), row...)
	}
	return out
}
