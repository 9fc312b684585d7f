package engine

// DefaultColors is the full palette offered to players
var DefaultColors = []Color{
	"#FF0000", // red
	"#00FF00", // green
	"#0000FF", // blue
	"#FFFF00", // yellow
	"#FF00FF", // magenta
	"#00FFFF", // cyan
	"#FFA500", // orange
}

// Palette size bounds enforced by callers that update the selection
const (
	MinPaletteSize = 2
	MaxPaletteSize = 7
)

// DefaultSelectedColors returns the initial palette: the first four default colors
func DefaultSelectedColors() []Color {
	return copyColors(DefaultColors[:4])
}

func copyColors(colors []Color) []Color {
	if colors == nil {
		return nil
	}
	return append([]Color(nil), colors...)
}

// IsRowFull reports whether every cell of a row is occupied
func IsRowFull(row [GridWidth]Color) bool {
	for _, cell := range row {
		if cell == Empty {
			return false
		}
	}
	return true
}

// IsEmpty reports whether the grid has no occupied cells
func (g *Grid) IsEmpty() bool {
	for y := range g {
		for x := range g[y] {
			if g[y][x] != Empty {
				return false
			}
		}
	}
	return true
}

// ClearLines removes full rows, shifts the remaining rows down keeping their order, and
// fills the top with empty rows. It returns the new grid and how many rows were removed.
func ClearLines(g Grid) (Grid, int) {
	var out Grid
	write := GridHeight - 1
	for y := GridHeight - 1; y >= 0; y-- {
		if IsRowFull(g[y]) {
			continue
		}
		out[write] = g[y]
		write--
	}
	return out, write + 1
}

// merge writes the piece's color into every cell it occupies
func merge(g Grid, p *Piece) Grid {
	for _, c := range p.Cells() {
		if c.X >= 0 && c.X < GridWidth && c.Y >= 0 && c.Y < GridHeight {
			g[c.Y][c.X] = p.Color
		}
	}
	return g
}

// dropDistance counts how many rows the piece can fall before colliding
func dropDistance(g *Grid, p *Piece) int {
	rows := 0
	for IsValidMove(g, p.Moved(0, rows+1)) {
		rows++
	}
	return rows
}
