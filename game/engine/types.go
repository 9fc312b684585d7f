package engine

import (
	"encoding/json"
	"fmt"
	"time"
)

// Board dimensions
const (
	GridWidth  = 10
	GridHeight = 20
)

// Color is a palette token written into grid cells. The empty string is an empty cell.
type Color string

// Empty is the value of an unoccupied cell
const Empty Color = ""

// Grid is the 20x10 playfield, indexed [row][column]
type Grid [GridHeight][GridWidth]Color

// Position is the top-left anchor of a piece's bounding matrix
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// TetrominoType enumerates the seven piece shapes
type TetrominoType int

const (
	TetrominoI TetrominoType = iota
	TetrominoJ
	TetrominoL
	TetrominoO
	TetrominoS
	TetrominoT
	TetrominoZ
)

// TetrominoCount is the number of distinct piece types
const TetrominoCount = 7

var tetrominoNames = [TetrominoCount]string{"I", "J", "L", "O", "S", "T", "Z"}

// String returns the single-letter name of the type
func (t TetrominoType) String() string {
	if t < 0 || int(t) >= TetrominoCount {
		return fmt.Sprintf("TetrominoType(%d)", int(t))
	}
	return tetrominoNames[t]
}

// MarshalText encodes the type as its letter
func (t TetrominoType) MarshalText() ([]byte, error) {
	if t < 0 || int(t) >= TetrominoCount {
		return nil, fmt.Errorf("unknown tetromino type %d", int(t))
	}
	return []byte(tetrominoNames[t]), nil
}

// UnmarshalText decodes a letter into a type
func (t *TetrominoType) UnmarshalText(text []byte) error {
	parsed, err := ParseTetrominoType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTetrominoType maps a letter (I, J, L, O, S, T, Z) to its type
func ParseTetrominoType(s string) (TetrominoType, error) {
	for i, name := range tetrominoNames {
		if name == s {
			return TetrominoType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown tetromino type %q", s)
}

// Shape is a 0/1 occupancy matrix. Shapes are never modified after construction.
type Shape [][]int

// Piece is a tetromino placed on the board
type Piece struct {
	Type     TetrominoType `json:"type"`
	Shape    Shape         `json:"shape"`
	Color    Color         `json:"color"`
	Position Position      `json:"position"`
}

// Cells returns the absolute grid coordinates occupied by the piece
func (p *Piece) Cells() []Position {
	cells := make([]Position, 0, 4)
	for y, row := range p.Shape {
		for x, v := range row {
			if v != 0 {
				cells = append(cells, Position{X: p.Position.X + x, Y: p.Position.Y + y})
			}
		}
	}
	return cells
}

// Moved returns a copy of the piece translated by (dx, dy)
func (p *Piece) Moved(dx, dy int) *Piece {
	moved := *p
	moved.Position = Position{X: p.Position.X + dx, Y: p.Position.Y + dy}
	return &moved
}

// WithShape returns a copy of the piece carrying a different shape
func (p *Piece) WithShape(shape Shape) *Piece {
	changed := *p
	changed.Shape = shape
	return &changed
}

// AtSpawn returns a copy of the piece re-centered at the spawn position
func (p *Piece) AtSpawn() *Piece {
	spawned := *p
	spawned.Position = SpawnPosition()
	return &spawned
}

// SpawnPosition is where new pieces enter the board
func SpawnPosition() Position {
	return Position{X: GridWidth/2 - 1, Y: 0}
}

// GameMode selects scoring, progression and termination rules
type GameMode string

const (
	ModeClassic    GameMode = "classic"
	ModeTimeAttack GameMode = "time-attack"
	ModeSurvival   GameMode = "survival"
	ModeMarathon   GameMode = "marathon"
)

// LineClearStats tallies clears by size
type LineClearStats struct {
	Singles  int `json:"singles"`
	Doubles  int `json:"doubles"`
	Triples  int `json:"triples"`
	Tetrises int `json:"tetrises"`
}

// Record adds one clear of the given size
func (s LineClearStats) Record(lines int) LineClearStats {
	switch lines {
	case 1:
		s.Singles++
	case 2:
		s.Doubles++
	case 3:
		s.Triples++
	case 4:
		s.Tetrises++
	}
	return s
}

// Total returns the number of clearing locks recorded
func (s LineClearStats) Total() int {
	return s.Singles + s.Doubles + s.Triples + s.Tetrises
}

// Performance holds per-game play statistics
type Performance struct {
	StartTime      time.Time      `json:"start_time"`
	EndTime        *time.Time     `json:"end_time,omitempty"`
	PiecesPlaced   int            `json:"pieces_placed"`
	LinesCleared   int            `json:"lines_cleared"`
	LineClearStats LineClearStats `json:"line_clear_stats"`
	MaxCombo       int            `json:"max_combo"`
	PerfectClears  int            `json:"perfect_clears"`
	TSpins         int            `json:"t_spins"`
	HoldUsed       int            `json:"hold_used"`
}

// PlayTime returns the elapsed time of the game, up to now when it is still running
func (p Performance) PlayTime(now time.Time) time.Duration {
	end := now
	if p.EndTime != nil {
		end = *p.EndTime
	}
	if end.Before(p.StartTime) {
		return 0
	}
	return end.Sub(p.StartTime)
}

// GameState is one immutable snapshot of a game. Transitions always build a new value.
type GameState struct {
	Grid           Grid   `json:"grid"`
	CurrentPiece   *Piece `json:"current_piece"`
	NextPiece      *Piece `json:"next_piece"`
	HoldPiece      *Piece `json:"hold_piece"`
	CanHold        bool   `json:"can_hold"`
	Score          int    `json:"score"`
	GlobalScore    int    `json:"global_score"`
	GamesCompleted int    `json:"games_completed"`
	Level          int    `json:"level"`
	// TargetScore is zero for modes without a target
	TargetScore     int     `json:"target_score,omitempty"`
	IsGameOver      bool    `json:"is_game_over"`
	IsPaused        bool    `json:"is_paused"`
	IsGameCompleted bool    `json:"is_game_completed"`
	AvailableColors []Color `json:"available_colors"`
	SelectedColors  []Color `json:"selected_colors"`
	History         History `json:"history"`

	GameMode      GameMode `json:"game_mode"`
	TimeRemaining int      `json:"time_remaining,omitempty"`
	SurvivalLevel int      `json:"survival_level,omitempty"`

	Combo          int            `json:"combo"`
	BackToBack     bool           `json:"back_to_back"`
	LineClearStats LineClearStats `json:"line_clear_stats"`
	Performance    Performance    `json:"performance"`

	// LastActionRotate is set only by a successful rotation and cleared by any other accepted command
	LastActionRotate bool `json:"last_action_rotate"`
}

// IsTerminal reports whether the game has ended, by game over or by completion
func (s *GameState) IsTerminal() bool {
	return s.IsGameOver || s.IsGameCompleted
}

// clone returns a shallow copy. Slices and pieces are shared and must be replaced, never mutated.
func (s *GameState) clone() *GameState {
	next := *s
	return &next
}

// Board returns the grid with the active piece drawn in
func (s *GameState) Board() Grid {
	board := s.Grid
	if s.CurrentPiece != nil {
		for _, c := range s.CurrentPiece.Cells() {
			if c.X >= 0 && c.X < GridWidth && c.Y >= 0 && c.Y < GridHeight {
				board[c.Y][c.X] = s.CurrentPiece.Color
			}
		}
	}
	return board
}

// GhostPosition returns where the active piece would land on a hard drop
func (s *GameState) GhostPosition() (Position, bool) {
	if s.CurrentPiece == nil {
		return Position{}, false
	}
	rows := dropDistance(&s.Grid, s.CurrentPiece)
	return s.CurrentPiece.Moved(0, rows).Position, true
}

// UnmarshalJSON rejects grids of the wrong dimensions
func (g *Grid) UnmarshalJSON(data []byte) error {
	var rows [][]Color
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	if len(rows) != GridHeight {
		return fmt.Errorf("grid must have %d rows, got %d", GridHeight, len(rows))
	}
	for y, row := range rows {
		if len(row) != GridWidth {
			return fmt.Errorf("grid row %d must have %d cells, got %d", y, GridWidth, len(row))
		}
		copy(g[y][:], row)
	}
	return nil
}
