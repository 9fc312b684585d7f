package achievements

import (
	"time"

	"github.com/wricardo/mcp-training/blockfall/game/engine"
	"github.com/wricardo/mcp-training/blockfall/game/stats"
)

// Achievement IDs
const (
	FirstGame      = "first_game"
	TetrisMaster   = "tetris_master"
	ComboKing      = "combo_king"
	SpeedDemon     = "speed_demon"
	PerfectClear   = "perfect_clear"
	Level10        = "level_10"
	MarathonWinner = "marathon_winner"
	TimeAttackPro  = "time_attack_pro"
	SurvivalExpert = "survival_expert"
	LineClearer    = "line_clearer"
	Dedication     = "dedication"
	HundredGames   = "hundred_games"
)

// Achievement is one player's record for an achievement
type Achievement struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Unlocked    bool       `json:"unlocked"`
	UnlockedAt  *time.Time `json:"unlocked_date,omitempty"`
	Progress    int        `json:"progress,omitempty"`
	// MaxProgress is zero for achievements without a progress bar
	MaxProgress int `json:"max_progress,omitempty"`
}

var templates = []Achievement{
	{ID: FirstGame, Name: "First Steps", Description: "Complete your first game", Icon: "🎮"},
	{ID: TetrisMaster, Name: "Tetris Master", Description: "Clear 4 lines at once (Tetris)", Icon: "🏆"},
	{ID: ComboKing, Name: "Combo King", Description: "Achieve a 10x combo", Icon: "⚡", MaxProgress: 10},
	{ID: SpeedDemon, Name: "Speed Demon", Description: "Achieve 60+ pieces per minute", Icon: "💨"},
	{ID: PerfectClear, Name: "Perfect Clear", Description: "Clear the entire board", Icon: "✨"},
	{ID: Level10, Name: "Rising Star", Description: "Reach level 10", Icon: "⭐", MaxProgress: 10},
	{ID: MarathonWinner, Name: "Marathon Champion", Description: "Complete Marathon mode", Icon: "🏃"},
	{ID: TimeAttackPro, Name: "Time Attack Pro", Description: "Score 5000+ in Time Attack", Icon: "⏱️", MaxProgress: 5000},
	{ID: SurvivalExpert, Name: "Survival Expert", Description: "Survive 10 minutes in Survival mode", Icon: "🛡️", MaxProgress: 600},
	{ID: LineClearer, Name: "Line Clearer", Description: "Clear 100 lines total", Icon: "📏", MaxProgress: 100},
	{ID: Dedication, Name: "Dedication", Description: "Play for 10 hours total", Icon: "⏰", MaxProgress: 36000},
	{ID: HundredGames, Name: "Centurion", Description: "Play 100 games", Icon: "💯", MaxProgress: 100},
}

// Templates returns the locked starting record of every achievement, in display order
func Templates() []Achievement {
	return append([]Achievement(nil), templates...)
}

// Totals are the cumulative figures of a player's earlier games, excluding the one being
// evaluated
type Totals struct {
	LinesCleared int
	PlayTime     time.Duration
	GamesPlayed  int
}

// Check evaluates a snapshot with no earlier games on record
func Check(state *engine.GameState, prior []Achievement, now time.Time) []Achievement {
	return Evaluate(state, prior, Totals{}, now)
}

// Evaluate returns the records that unlocked or progressed
func Evaluate(state *engine.GameState, prior []Achievement, totals Totals, now time.Time) []Achievement {
	if state == nil {
		return nil
	}
	byID := index(prior)
	perf := state.Performance
	playSeconds := int(perf.PlayTime(now) / time.Second)

	var changed []Achievement
	for _, tmpl := range templates {
		record, seen := byID[tmpl.ID]
		if seen && record.Unlocked {
			continue
		}
		priorProgress := 0
		if seen {
			priorProgress = record.Progress
		}

		unlock := false
		progress := priorProgress
		switch tmpl.ID {
		case FirstGame:
			unlock = state.IsGameCompleted || state.IsGameOver
		case TetrisMaster:
			unlock = state.LineClearStats.Tetrises > 0
		case ComboKing:
			progress = max(progress, state.Combo)
			unlock = state.Combo >= 10
		case SpeedDemon:
			unlock = stats.PiecesPerMinute(perf, now) >= 60
		case PerfectClear:
			unlock = perf.PerfectClears > 0
		case Level10:
			progress = max(progress, state.Level)
			unlock = state.Level >= 10
		case MarathonWinner:
			unlock = state.GameMode == engine.ModeMarathon && state.IsGameCompleted
		case TimeAttackPro:
			if state.GameMode == engine.ModeTimeAttack {
				progress = max(progress, state.Score)
				unlock = state.Score >= 5000
			}
		case SurvivalExpert:
			if state.GameMode == engine.ModeSurvival {
				progress = max(progress, playSeconds)
				unlock = playSeconds >= 600
			}
		case LineClearer:
			lines := totals.LinesCleared + perf.LinesCleared
			progress = max(progress, lines)
			unlock = lines >= 100
		case Dedication:
			seconds := int(totals.PlayTime/time.Second) + playSeconds
			progress = max(progress, seconds)
			unlock = seconds >= 36000
		case HundredGames:
			games := state.GamesCompleted
			if state.IsTerminal() {
				games = max(games, totals.GamesPlayed+1)
			} else {
				games = max(games, totals.GamesPlayed)
			}
			progress = max(progress, games)
			unlock = games >= 100
		}

		switch {
		case unlock:
			unlocked := tmpl
			unlocked.Unlocked = true
			at := now
			unlocked.UnlockedAt = &at
			unlocked.Progress = tmpl.MaxProgress
			if unlocked.Progress == 0 {
				unlocked.Progress = 1
			}
			changed = append(changed, unlocked)
		case progress > priorProgress:
			updated := tmpl
			updated.Progress = progress
			changed = append(changed, updated)
		}
	}
	return changed
}

// Merge applies changes to a full record list. Missing templates are added, unlocked records
// are kept as they are and progress never decreases.
func Merge(prior, changes []Achievement) []Achievement {
	byID := index(prior)
	for _, c := range changes {
		current, ok := byID[c.ID]
		if ok && current.Unlocked {
			continue
		}
		if ok && !c.Unlocked && c.Progress < current.Progress {
			continue
		}
		byID[c.ID] = c
	}

	merged := make([]Achievement, 0, len(templates))
	for _, tmpl := range templates {
		if r, ok := byID[tmpl.ID]; ok {
			merged = append(merged, r)
			continue
		}
		merged = append(merged, tmpl)
	}
	return merged
}

// UnlockedCount returns how many records are unlocked
func UnlockedCount(records []Achievement) int {
	n := 0
	for _, r := range records {
		if r.Unlocked {
			n++
		}
	}
	return n
}

func index(records []Achievement) map[string]Achievement {
	byID := make(map[string]Achievement, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}
	return byID
}
