package profile

import (
	"time"

	"github.com/google/uuid"

	"github.com/wricardo/mcp-training/blockfall/game/achievements"
	"github.com/wricardo/mcp-training/blockfall/game/engine"
)

// GuestID is the profile used when a session is created without one
const GuestID = "guest"

// MaxRecentGames bounds Profile.RecentGames
const MaxRecentGames = 20

// GameStats are a player's lifetime figures
type GameStats struct {
	HighScore     int           `json:"high_score"`
	GameCount     int           `json:"game_count"`
	HighestLevel  int           `json:"highest_level"`
	TotalScore    int           `json:"total_score"`
	TotalLines    int           `json:"total_lines"`
	TotalPlayTime time.Duration `json:"total_play_time"`
}

// GameRecord is the result of one finished game
type GameRecord struct {
	ID             string                `json:"id"`
	Score          int                   `json:"score"`
	Level          int                   `json:"level"`
	LinesCleared   int                   `json:"lines_cleared"`
	LineClearStats engine.LineClearStats `json:"line_clear_stats"`
	PlayTime       time.Duration         `json:"play_time"`
	Mode           engine.GameMode       `json:"mode"`
	MaxCombo       int                   `json:"max_combo"`
	PerfectClears  int                   `json:"perfect_clears"`
	TSpins         int                   `json:"t_spins"`
	Completed      bool                  `json:"completed"`
	EndedAt        time.Time             `json:"ended_at"`
}

// NewGameRecord captures a finished game. The end stamp falls back to now for a state that
// was never stamped.
func NewGameRecord(state *engine.GameState, now time.Time) GameRecord {
	perf := state.Performance
	ended := now
	if perf.EndTime != nil {
		ended = *perf.EndTime
	}
	return GameRecord{
		ID:             uuid.New().String(),
		Score:          state.Score,
		Level:          state.Level,
		LinesCleared:   perf.LinesCleared,
		LineClearStats: perf.LineClearStats,
		PlayTime:       perf.PlayTime(now),
		Mode:           state.GameMode,
		MaxCombo:       perf.MaxCombo,
		PerfectClears:  perf.PerfectClears,
		TSpins:         perf.TSpins,
		Completed:      state.IsGameCompleted,
		EndedAt:        ended,
	}
}

// Profile is one player
type Profile struct {
	ID           string                     `json:"id"`
	DisplayName  string                     `json:"display_name"`
	CreatedAt    time.Time                  `json:"created_at"`
	LastPlayedAt *time.Time                 `json:"last_played_at,omitempty"`
	Stats        GameStats                  `json:"stats"`
	Achievements []achievements.Achievement `json:"achievements"`
	RecentGames  []GameRecord               `json:"recent_games"`
}

// New creates an empty profile with every achievement locked
func New(id, displayName string, now time.Time) *Profile {
	if id == "" {
		id = uuid.New().String()
	}
	if displayName == "" {
		displayName = id
	}
	return &Profile{
		ID:           id,
		DisplayName:  displayName,
		CreatedAt:    now,
		Achievements: achievements.Templates(),
		RecentGames:  []GameRecord{},
	}
}

// Totals returns the cumulative figures used by achievement evaluation
func (p *Profile) Totals() achievements.Totals {
	return achievements.Totals{
		LinesCleared: p.Stats.TotalLines,
		PlayTime:     p.Stats.TotalPlayTime,
		GamesPlayed:  p.Stats.GameCount,
	}
}

// TotalsWithout is Totals minus an already booked game, or Totals itself when booked is nil
func (p *Profile) TotalsWithout(booked *GameRecord) achievements.Totals {
	t := p.Totals()
	if booked == nil {
		return t
	}
	t.LinesCleared -= booked.LinesCleared
	t.PlayTime -= booked.PlayTime
	if t.GamesPlayed > 0 {
		t.GamesPlayed--
	}
	return t
}

// ApplyGame books a finished game: counts and totals grow, bests are raised and the record is
// prepended to the recent games
func (p *Profile) ApplyGame(record GameRecord) {
	p.Stats.GameCount++
	p.Stats.TotalScore += record.Score
	p.Stats.TotalLines += record.LinesCleared
	p.Stats.TotalPlayTime += record.PlayTime
	if record.Score > p.Stats.HighScore {
		p.Stats.HighScore = record.Score
	}
	if record.Level > p.Stats.HighestLevel {
		p.Stats.HighestLevel = record.Level
	}

	recent := make([]GameRecord, 0, MaxRecentGames)
	recent = append(recent, record)
	for _, r := range p.RecentGames {
		if len(recent) == MaxRecentGames {
			break
		}
		recent = append(recent, r)
	}
	p.RecentGames = recent

	ended := record.EndedAt
	p.LastPlayedAt = &ended
}

// ReplaceGame rebooks a game that ended again after an undo. Totals move by the difference
// between the two records and the game count stays.
func (p *Profile) ReplaceGame(old, record GameRecord) {
	p.Stats.TotalScore += record.Score - old.Score
	p.Stats.TotalLines += record.LinesCleared - old.LinesCleared
	p.Stats.TotalPlayTime += record.PlayTime - old.PlayTime
	if record.Score > p.Stats.HighScore {
		p.Stats.HighScore = record.Score
	}
	if record.Level > p.Stats.HighestLevel {
		p.Stats.HighestLevel = record.Level
	}

	replaced := false
	for i := range p.RecentGames {
		if p.RecentGames[i].ID == old.ID {
			p.RecentGames[i] = record
			replaced = true
			break
		}
	}
	if !replaced {
		recent := make([]GameRecord, 0, MaxRecentGames)
		recent = append(recent, record)
		for _, r := range p.RecentGames {
			if len(recent) == MaxRecentGames {
				break
			}
			recent = append(recent, r)
		}
		p.RecentGames = recent
	}

	ended := record.EndedAt
	p.LastPlayedAt = &ended
}

// MergeAchievements folds evaluator output into the profile and reports whether anything
// changed
func (p *Profile) MergeAchievements(changes []achievements.Achievement) bool {
	if len(changes) == 0 {
		return false
	}
	p.Achievements = achievements.Merge(p.Achievements, changes)
	return true
}
