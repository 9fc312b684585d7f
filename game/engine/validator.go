package engine

// IsValidMove reports whether every occupied cell of the piece lies inside the board on an
// empty cell.
func IsValidMove(g *Grid, p *Piece) bool {
	if p == nil {
		return false
	}
	for y, row := range p.Shape {
		for x, v := range row {
			if v == 0 {
				continue
			}
			gx, gy := p.Position.X+x, p.Position.Y+y
			if gx < 0 || gx >= GridWidth || gy < 0 || gy >= GridHeight {
				return false
			}
			if g[gy][gx] != Empty {
				return false
			}
		}
	}
	return true
}

// isBlocked treats out-of-bounds coordinates as occupied
func isBlocked(g *Grid, x, y int) bool {
	if x < 0 || x >= GridWidth || y < 0 || y >= GridHeight {
		return true
	}
	return g[y][x] != Empty
}
