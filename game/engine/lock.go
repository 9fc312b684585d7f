package engine

// LockResult describes what happened when a piece locked
type LockResult struct {
	LinesCleared int  `json:"lines_cleared"`
	PerfectClear bool `json:"perfect_clear"`
	TSpin        bool `json:"t_spin"`
	BackToBack   bool `json:"back_to_back"`
	Combo        int  `json:"combo"`
	Points       int  `json:"points"`
}

// lock merges piece into the grid of base and runs the clear, score, mode and spawn steps.
// prev is the state the command started from; its grid, score and level are what an undo
// restores.
func (p *Processor) lock(prev, base *GameState, piece *Piece, rotated bool) *GameState {
	next := base.clone()

	next.History = prev.History.Push(HistoryEntry{
		Grid:  prev.Grid,
		Score: prev.Score,
		Level: prev.Level,
	})

	merged := merge(base.Grid, piece)
	cleared, lines := ClearLines(merged)
	next.Grid = cleared

	result := evaluateLock(base, &merged, &cleared, piece, lines, rotated)
	next.Combo = result.Combo
	next.BackToBack = result.TSpin || lines == 4

	next.LineClearStats = base.LineClearStats.Record(lines)
	perf := base.Performance
	perf.LineClearStats = perf.LineClearStats.Record(lines)
	perf.PiecesPlaced++
	perf.LinesCleared += lines
	if result.Combo > perf.MaxCombo {
		perf.MaxCombo = result.Combo
	}
	if result.PerfectClear {
		perf.PerfectClears++
	}
	if result.TSpin {
		perf.TSpins++
	}
	next.Performance = perf

	next.Score += applyModeMultiplier(result.Points, base.GameMode)
	applyModeRules(next)

	next.CanHold = true
	next.CurrentPiece = next.NextPiece
	if next.CurrentPiece == nil {
		next.CurrentPiece = p.factory.Create(next.SelectedColors)
	}
	next.NextPiece = p.factory.Create(next.SelectedColors)
	if !IsValidMove(&next.Grid, next.CurrentPiece) {
		next.CurrentPiece = nil
		next.IsGameOver = true
	}

	return next
}

// evaluateLock derives the clear classification and base points for a lock
func evaluateLock(base *GameState, merged, cleared *Grid, piece *Piece, lines int, rotated bool) LockResult {
	r := LockResult{LinesCleared: lines}
	r.PerfectClear = lines > 0 && cleared.IsEmpty()
	r.TSpin = rotated && isTSpinPocket(merged, piece)

	bonusEligible := (lines == 4 || r.TSpin) && base.BackToBack
	r.BackToBack = bonusEligible

	if lines > 0 {
		r.Combo = base.Combo + 1
	}

	r.Points = CalculateScore(lines, base.Level, r.TSpin, bonusEligible, base.Combo, r.PerfectClear)
	return r
}

// isTSpinPocket checks the T piece's 3x3 box: at least three of the four corners around its
// center must be walls or occupied.
func isTSpinPocket(g *Grid, piece *Piece) bool {
	if piece.Type != TetrominoT || len(piece.Shape) != 3 {
		return false
	}
	cx, cy := piece.Position.X+1, piece.Position.Y+1
	blocked := 0
	for _, d := range [4][2]int{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}} {
		if isBlocked(g, cx+d[0], cy+d[1]) {
			blocked++
		}
	}
	return blocked >= 3
}

// PreviewLock reports what locking the active piece at its landing spot would score, without
// changing anything
func PreviewLock(s *GameState) (LockResult, bool) {
	if s == nil || s.CurrentPiece == nil {
		return LockResult{}, false
	}
	landed := s.CurrentPiece.Moved(0, dropDistance(&s.Grid, s.CurrentPiece))
	merged := merge(s.Grid, landed)
	cleared, lines := ClearLines(merged)
	r := evaluateLock(s, &merged, &cleared, landed, lines, s.LastActionRotate && landed.Position == s.CurrentPiece.Position)
	r.Points = applyModeMultiplier(r.Points, s.GameMode)
	return r, true
}
