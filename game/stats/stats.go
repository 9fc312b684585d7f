package stats

import (
	"fmt"
	"math"
	"time"

	"github.com/wricardo/mcp-training/blockfall/game/engine"
)

// PiecesPerMinute is the number of locked pieces per minute of play
func PiecesPerMinute(perf engine.Performance, now time.Time) float64 {
	return perMinute(float64(perf.PiecesPlaced), perf.PlayTime(now))
}

// LinesPerMinute is the number of cleared rows per minute of play
func LinesPerMinute(perf engine.Performance, now time.Time) float64 {
	return perMinute(float64(perf.LinesCleared), perf.PlayTime(now))
}

// Efficiency is the score earned per minute of play
func Efficiency(score int, perf engine.Performance, now time.Time) float64 {
	return perMinute(float64(score), perf.PlayTime(now))
}

func perMinute(n float64, elapsed time.Duration) float64 {
	minutes := elapsed.Minutes()
	if minutes <= 0 {
		return 0
	}
	return n / minutes
}

// LineClearName names a clear: Single, Double, Triple, Tetris, or the T-Spin variants.
// Zero lines without a T-spin has no name.
func LineClearName(lines int, tSpin bool) string {
	if tSpin {
		switch lines {
		case 1:
			return "T-Spin Single"
		case 2:
			return "T-Spin Double"
		case 3:
			return "T-Spin Triple"
		default:
			return "T-Spin"
		}
	}
	switch lines {
	case 1:
		return "Single"
	case 2:
		return "Double"
	case 3:
		return "Triple"
	case 4:
		return "Tetris"
	}
	return ""
}

// Grade rates the clear mix. Tetris share decides S+ (70%), S (50%) and A (30%); the share
// of triples and tetrises decides B (50%) and C (30%); anything else is D, and F means no
// clears at all.
func Grade(s engine.LineClearStats) string {
	total := s.Total()
	if total == 0 {
		return "F"
	}
	tetrisRatio := float64(s.Tetrises) / float64(total)
	complexRatio := float64(s.Triples+s.Tetrises) / float64(total)

	switch {
	case tetrisRatio >= 0.7:
		return "S+"
	case tetrisRatio >= 0.5:
		return "S"
	case tetrisRatio >= 0.3:
		return "A"
	case complexRatio >= 0.5:
		return "B"
	case complexRatio >= 0.3:
		return "C"
	}
	return "D"
}

// FormatDuration renders m:ss, truncating fractional seconds
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// WeekString returns the YYYY-Www key of the week containing t. Weeks start on Sunday and
// week 1 is the one holding January 1st.
func WeekString(t time.Time) string {
	jan1 := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	pastDays := t.Sub(jan1).Hours() / 24
	week := int(math.Ceil((pastDays + float64(jan1.Weekday()) + 1) / 7))
	return fmt.Sprintf("%d-W%02d", t.Year(), week)
}

// MonthString returns the YYYY-MM key of t
func MonthString(t time.Time) string {
	return fmt.Sprintf("%d-%02d", t.Year(), int(t.Month()))
}

// Summary is the analytics view of one game
type Summary struct {
	Mode            engine.GameMode       `json:"mode"`
	Score           int                   `json:"score"`
	Level           int                   `json:"level"`
	PlayTime        string                `json:"play_time"`
	PlaySeconds     int                   `json:"play_seconds"`
	PiecesPlaced    int                   `json:"pieces_placed"`
	LinesCleared    int                   `json:"lines_cleared"`
	PiecesPerMinute float64               `json:"pieces_per_minute"`
	LinesPerMinute  float64               `json:"lines_per_minute"`
	Efficiency      float64               `json:"efficiency"`
	Grade           string                `json:"grade"`
	LineClearStats  engine.LineClearStats `json:"line_clear_stats"`
	MaxCombo        int                   `json:"max_combo"`
	PerfectClears   int                   `json:"perfect_clears"`
	TSpins          int                   `json:"t_spins"`
	HoldUsed        int                   `json:"hold_used"`
	Finished        bool                  `json:"finished"`
}

// Summarize builds the analytics view of a snapshot as of now
func Summarize(state *engine.GameState, now time.Time) Summary {
	perf := state.Performance
	elapsed := perf.PlayTime(now)
	return Summary{
		Mode:            state.GameMode,
		Score:           state.Score,
		Level:           state.Level,
		PlayTime:        FormatDuration(elapsed),
		PlaySeconds:     int(elapsed / time.Second),
		PiecesPlaced:    perf.PiecesPlaced,
		LinesCleared:    perf.LinesCleared,
		PiecesPerMinute: round2(PiecesPerMinute(perf, now)),
		LinesPerMinute:  round2(LinesPerMinute(perf, now)),
		Efficiency:      round2(Efficiency(state.Score, perf, now)),
		Grade:           Grade(perf.LineClearStats),
		LineClearStats:  perf.LineClearStats,
		MaxCombo:        perf.MaxCombo,
		PerfectClears:   perf.PerfectClears,
		TSpins:          perf.TSpins,
		HoldUsed:        perf.HoldUsed,
		Finished:        state.IsTerminal(),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
