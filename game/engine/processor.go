package engine

// Processor applies commands to snapshots. Apply never mutates its input and never panics;
// a rejected command returns the input pointer itself.
type Processor struct {
	factory *PieceFactory
	clock   Clock
}

// NewProcessor creates a processor using the given piece source and clock
func NewProcessor(factory *PieceFactory, clock Clock) *Processor {
	if factory == nil {
		factory = NewPieceFactory(nil)
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Processor{factory: factory, clock: clock}
}

// Clock returns the processor's time source
func (p *Processor) Clock() Clock {
	return p.clock
}

// InitialState starts a fresh game. An unknown mode falls back to classic and a nil palette
// to the default selection.
func (p *Processor) InitialState(mode GameMode, colors []Color) *GameState {
	if _, ok := SettingsFor(mode); !ok {
		mode = ModeClassic
	}
	return p.freshGame(mode, 1, 0, 0, colors)
}

// Apply runs one command and returns the resulting snapshot
func (p *Processor) Apply(s *GameState, cmd Command) *GameState {
	if s == nil {
		return p.InitialState(cmd.Mode, nil)
	}

	if s.IsGameOver && !allowedWhenOver(cmd.Type) {
		return s
	}
	if s.IsPaused && !allowedWhenPaused(cmd.Type) {
		return s
	}

	var next *GameState
	switch cmd.Type {
	case CmdMoveLeft:
		next = p.shift(s, -1)
	case CmdMoveRight:
		next = p.shift(s, 1)
	case CmdMoveDown:
		next = p.moveDown(s, false)
	case CmdSoftDrop:
		next = p.moveDown(s, true)
	case CmdHardDrop:
		next = p.hardDrop(s)
	case CmdRotate:
		next = p.rotate(s, true)
	case CmdRotateCounter:
		next = p.rotate(s, false)
	case CmdHold:
		next = p.hold(s)
	case CmdPause:
		next = p.setPaused(s, true)
	case CmdResume:
		next = p.setPaused(s, false)
	case CmdTickTime:
		next = p.tick(s)
	case CmdNewGame:
		next = p.newGame(s, cmd.Mode)
	case CmdRestartGame:
		next = p.restart(s)
	case CmdUndoMove:
		next = p.undo(s)
	case CmdUpdateColors:
		next = p.updateColors(s, cmd.Colors)
	default:
		return s
	}

	if next == s {
		return s
	}
	if cmd.Type != CmdRotate && cmd.Type != CmdRotateCounter {
		next.LastActionRotate = false
	}
	p.finishIfEnded(s, next)
	return next
}

func allowedWhenOver(t CommandType) bool {
	return t == CmdNewGame || t == CmdRestartGame || t == CmdUndoMove
}

func allowedWhenPaused(t CommandType) bool {
	switch t {
	case CmdPause, CmdResume, CmdNewGame, CmdRestartGame, CmdTickTime:
		return true
	}
	return false
}

// finishIfEnded books the end of a game exactly once, on the transition into a terminal state
func (p *Processor) finishIfEnded(prev, next *GameState) {
	if prev.IsTerminal() || !next.IsTerminal() {
		return
	}
	next.GlobalScore += next.Score
	next.GamesCompleted++
	if next.Performance.EndTime == nil {
		now := p.clock.Now()
		next.Performance.EndTime = &now
	}
}

func (p *Processor) setPaused(s *GameState, paused bool) *GameState {
	if s.IsPaused == paused {
		return s
	}
	next := s.clone()
	next.IsPaused = paused
	return next
}

func (p *Processor) tick(s *GameState) *GameState {
	if s.GameMode != ModeTimeAttack || s.TimeRemaining <= 0 {
		return s
	}
	next := s.clone()
	next.TimeRemaining--
	if next.TimeRemaining <= 0 {
		next.TimeRemaining = 0
		next.IsGameOver = true
		now := p.clock.Now()
		next.Performance.EndTime = &now
	}
	return next
}

func (p *Processor) newGame(s *GameState, mode GameMode) *GameState {
	if mode == "" {
		mode = s.GameMode
	}
	if _, ok := SettingsFor(mode); !ok {
		return s
	}
	level := 1
	if s.IsGameCompleted {
		level = s.Level + 1
	}
	return p.freshGame(mode, level, s.GlobalScore, s.GamesCompleted, s.SelectedColors)
}

func (p *Processor) restart(s *GameState) *GameState {
	mode := s.GameMode
	if _, ok := SettingsFor(mode); !ok {
		mode = ModeClassic
	}
	return p.freshGame(mode, 1, s.GlobalScore, s.GamesCompleted, s.SelectedColors)
}

func (p *Processor) freshGame(mode GameMode, level, globalScore, gamesCompleted int, selected []Color) *GameState {
	settings, _ := SettingsFor(mode)
	colors := copyColors(selected)
	if colors == nil {
		colors = DefaultSelectedColors()
	}

	s := &GameState{
		CurrentPiece:    p.factory.Create(colors),
		NextPiece:       p.factory.Create(colors),
		CanHold:         true,
		GlobalScore:     globalScore,
		GamesCompleted:  gamesCompleted,
		Level:           level,
		TargetScore:     settings.TargetScore,
		AvailableColors: copyColors(DefaultColors),
		SelectedColors:  colors,
		GameMode:        mode,
		TimeRemaining:   settings.TimeLimit,
		Performance: Performance{
			StartTime: p.clock.Now(),
		},
	}
	if mode == ModeSurvival {
		s.SurvivalLevel = level
	}
	return s
}

func (p *Processor) undo(s *GameState) *GameState {
	entry, history, ok := s.History.Pop()
	if !ok {
		return s
	}
	next := s.clone()
	next.Grid = entry.Grid
	next.Score = entry.Score
	next.Level = entry.Level
	next.History = history
	if s.IsTerminal() {
		// the revived game will be booked again when it ends
		next.GlobalScore -= s.Score
		if next.GamesCompleted > 0 {
			next.GamesCompleted--
		}
	}
	next.IsGameOver = false
	next.IsGameCompleted = false
	next.Performance.EndTime = nil
	return next
}

func (p *Processor) updateColors(s *GameState, colors []Color) *GameState {
	if ValidatePalette(colors) != nil {
		return s
	}
	next := s.clone()
	next.SelectedColors = copyColors(colors)
	return next
}

func (p *Processor) hold(s *GameState) *GameState {
	if !s.CanHold || s.CurrentPiece == nil {
		return s
	}
	next := s.clone()
	held := s.CurrentPiece.AtSpawn()

	if s.HoldPiece != nil {
		next.CurrentPiece = s.HoldPiece.AtSpawn()
	} else {
		incoming := s.NextPiece
		if incoming == nil {
			incoming = p.factory.Create(s.SelectedColors)
		}
		next.CurrentPiece = incoming.AtSpawn()
		next.NextPiece = p.factory.Create(s.SelectedColors)
	}

	next.HoldPiece = held
	next.CanHold = false
	next.Performance.HoldUsed++

	if !IsValidMove(&next.Grid, next.CurrentPiece) {
		next.CurrentPiece = nil
		next.IsGameOver = true
	}
	return next
}
