package engine

// wallKicks are tried in order when a clockwise rotation collides in place
var wallKicks = []Position{
	{X: -1, Y: 0},
	{X: 1, Y: 0},
	{X: 0, Y: -1},
	{X: -2, Y: 0},
	{X: 2, Y: 0},
	{X: 0, Y: -2},
}

// WallKicks returns the clockwise kick offsets in the order they are attempted
func WallKicks() []Position {
	return append([]Position(nil), wallKicks...)
}

func (p *Processor) shift(s *GameState, dx int) *GameState {
	if s.CurrentPiece == nil {
		return s
	}
	moved := s.CurrentPiece.Moved(dx, 0)
	if !IsValidMove(&s.Grid, moved) {
		return s
	}
	next := s.clone()
	next.CurrentPiece = moved
	return next
}

// moveDown steps the piece one row, promotes the queued piece when none is active, or locks
// when the piece is resting
func (p *Processor) moveDown(s *GameState, soft bool) *GameState {
	if s.CurrentPiece == nil {
		return p.promote(s)
	}

	moved := s.CurrentPiece.Moved(0, 1)
	if IsValidMove(&s.Grid, moved) {
		next := s.clone()
		next.CurrentPiece = moved
		if soft {
			next.Score += PointsSoftDrop
		}
		return next
	}

	return p.lock(s, s, s.CurrentPiece, s.LastActionRotate)
}

func (p *Processor) hardDrop(s *GameState) *GameState {
	if s.CurrentPiece == nil {
		return s
	}
	rows := dropDistance(&s.Grid, s.CurrentPiece)
	dropped := s.clone()
	dropped.CurrentPiece = s.CurrentPiece.Moved(0, rows)
	dropped.Score += rows * PointsHardDrop
	// the piece only counts as rotated into place if it did not fall after the rotation
	return p.lock(s, dropped, dropped.CurrentPiece, s.LastActionRotate && rows == 0)
}

func (p *Processor) promote(s *GameState) *GameState {
	next := s.clone()
	incoming := s.NextPiece
	if incoming == nil {
		incoming = p.factory.Create(s.SelectedColors)
	}
	if !IsValidMove(&s.Grid, incoming) {
		next.IsGameOver = true
		return next
	}
	next.CurrentPiece = incoming
	next.NextPiece = p.factory.Create(s.SelectedColors)
	return next
}

func (p *Processor) rotate(s *GameState, clockwise bool) *GameState {
	if s.CurrentPiece == nil {
		return s
	}

	var rotated *Piece
	if clockwise {
		rotated = s.CurrentPiece.WithShape(RotateClockwise(s.CurrentPiece.Shape))
	} else {
		rotated = s.CurrentPiece.WithShape(RotateCounterClockwise(s.CurrentPiece.Shape))
	}

	placed := tryPlace(&s.Grid, rotated, clockwise)
	if placed == nil {
		return s
	}

	next := s.clone()
	next.CurrentPiece = placed
	next.LastActionRotate = true
	return next
}

// tryPlace returns the rotated piece at its position, or at the first wall-kick offset that
// fits. Counter-clockwise rotations do not kick.
func tryPlace(g *Grid, rotated *Piece, kick bool) *Piece {
	if IsValidMove(g, rotated) {
		return rotated
	}
	if !kick {
		return nil
	}
	for _, k := range wallKicks {
		candidate := rotated.Moved(k.X, k.Y)
		if IsValidMove(g, candidate) {
			return candidate
		}
	}
	return nil
}
