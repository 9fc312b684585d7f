package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/wricardo/mcp-training/blockfall/game/engine"
	"github.com/wricardo/mcp-training/blockfall/game/stats"
)

// Layout of the play field. Each board cell is two columns wide.
const (
	boardLeft  = 1
	boardTop   = 1
	cellWidth  = 2
	panelLeft  = boardLeft + engine.GridWidth*cellWidth + 4
	blockRune  = '█'
	ghostRune  = '░'
	borderRune = '│'
)

var (
	borderStyle = tcell.StyleDefault.Foreground(tcell.ColorGray)
	textStyle   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	labelStyle  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	ghostStyle  = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	alertStyle  = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
)

func colorStyle(c engine.Color) tcell.Style {
	return tcell.StyleDefault.Foreground(tcell.GetColor(string(c)))
}

func drawText(screen tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range []rune(text) {
		screen.SetContent(x+i, y, r, nil, style)
	}
}

// drawCell paints board cell (x, y) with r in both of its columns
func drawCell(screen tcell.Screen, x, y int, r rune, style tcell.Style) {
	sx := boardLeft + 1 + x*cellWidth
	sy := boardTop + y
	screen.SetContent(sx, sy, r, nil, style)
	screen.SetContent(sx+1, sy, r, nil, style)
}

// render draws a full frame for state
func render(screen tcell.Screen, state *engine.GameState) {
	screen.Clear()
	drawBoard(screen, state)
	drawPanel(screen, state)
	screen.Show()
}

func drawBoard(screen tcell.Screen, state *engine.GameState) {
	right := boardLeft + 1 + engine.GridWidth*cellWidth
	bottom := boardTop + engine.GridHeight
	for y := boardTop; y < bottom; y++ {
		screen.SetContent(boardLeft, y, borderRune, nil, borderStyle)
		screen.SetContent(right, y, borderRune, nil, borderStyle)
	}
	screen.SetContent(boardLeft, bottom, '└', nil, borderStyle)
	screen.SetContent(right, bottom, '┘', nil, borderStyle)
	for x := boardLeft + 1; x < right; x++ {
		screen.SetContent(x, bottom, '─', nil, borderStyle)
	}

	for y, row := range state.Grid {
		for x, c := range row {
			if c != engine.Empty {
				drawCell(screen, x, y, blockRune, colorStyle(c))
			}
		}
	}

	piece := state.CurrentPiece
	if piece == nil || state.IsGameOver {
		return
	}
	if ghost, ok := state.GhostPosition(); ok && ghost != piece.Position {
		shadow := *piece
		shadow.Position = ghost
		for _, c := range shadow.Cells() {
			drawCell(screen, c.X, c.Y, ghostRune, ghostStyle)
		}
	}
	for _, c := range piece.Cells() {
		if c.Y >= 0 && c.Y < engine.GridHeight {
			drawCell(screen, c.X, c.Y, blockRune, colorStyle(piece.Color))
		}
	}
}

func pieceName(p *engine.Piece) string {
	if p == nil {
		return "-"
	}
	return p.Type.String()
}

func drawPanel(screen tcell.Screen, state *engine.GameState) {
	settings, _ := engine.SettingsFor(state.GameMode)
	y := boardTop

	line := func(label, value string) {
		drawText(screen, panelLeft, y, labelStyle, label)
		drawText(screen, panelLeft+8, y, textStyle, value)
		y++
	}

	line("Mode", settings.Name)
	line("Score", fmt.Sprintf("%d", state.Score))
	if state.TargetScore > 0 {
		line("Target", fmt.Sprintf("%d", state.TargetScore))
	}
	line("Level", fmt.Sprintf("%d", state.Level))
	line("Lines", fmt.Sprintf("%d", state.Performance.LinesCleared))
	if state.GameMode == engine.ModeTimeAttack {
		line("Time", stats.FormatDuration(secondsToDuration(state.TimeRemaining)))
	}
	if state.Combo > 1 {
		line("Combo", fmt.Sprintf("x%d", state.Combo))
	}
	y++
	line("Next", pieceName(state.NextPiece))
	line("Hold", pieceName(state.HoldPiece))
	y++

	switch {
	case state.IsGameCompleted:
		drawText(screen, panelLeft, y, labelStyle, "GAME COMPLETED!")
		y++
	case state.IsGameOver:
		drawText(screen, panelLeft, y, alertStyle, "GAME OVER")
		y++
	case state.IsPaused:
		drawText(screen, panelLeft, y, labelStyle, "PAUSED")
		y++
	}
	if state.IsTerminal() {
		drawText(screen, panelLeft, y, textStyle, "r: restart  1-4: new game")
		y++
	}
	y++

	for _, help := range keyHelp {
		drawText(screen, panelLeft, y, textStyle, help)
		y++
	}
}
