package engine

import (
	"fmt"
	"time"
)

// ModeSettings are the static rules of a game mode
type ModeSettings struct {
	Mode        GameMode `json:"mode"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	// TimeLimit is in seconds; zero means untimed
	TimeLimit int `json:"time_limit,omitempty"`
	// TargetScore is zero for endless modes
	TargetScore           int     `json:"target_score,omitempty"`
	DifficultyProgression bool    `json:"difficulty_progression"`
	ScoreMultiplier       float64 `json:"score_multiplier"`
}

var modeSettings = map[GameMode]ModeSettings{
	ModeClassic: {
		Mode:                  ModeClassic,
		Name:                  "Classic",
		Description:           "Traditional Tetris gameplay",
		TargetScore:           1000,
		DifficultyProgression: true,
		ScoreMultiplier:       1,
	},
	ModeTimeAttack: {
		Mode:                  ModeTimeAttack,
		Name:                  "Time Attack",
		Description:           "Score as much as possible in limited time",
		TimeLimit:             120,
		DifficultyProgression: false,
		ScoreMultiplier:       2,
	},
	ModeSurvival: {
		Mode:                  ModeSurvival,
		Name:                  "Survival",
		Description:           "Survive as long as possible with increasing speed",
		DifficultyProgression: true,
		ScoreMultiplier:       1.5,
	},
	ModeMarathon: {
		Mode:                  ModeMarathon,
		Name:                  "Marathon",
		Description:           "Endurance mode with high target score",
		TargetScore:           10000,
		DifficultyProgression: true,
		ScoreMultiplier:       1,
	},
}

// Modes lists every mode in display order
func Modes() []ModeSettings {
	return []ModeSettings{
		modeSettings[ModeClassic],
		modeSettings[ModeTimeAttack],
		modeSettings[ModeSurvival],
		modeSettings[ModeMarathon],
	}
}

// SettingsFor returns the rules of a mode
func SettingsFor(mode GameMode) (ModeSettings, bool) {
	s, ok := modeSettings[mode]
	return s, ok
}

// ParseGameMode validates a mode name
func ParseGameMode(s string) (GameMode, error) {
	mode := GameMode(s)
	if _, ok := modeSettings[mode]; !ok {
		return "", fmt.Errorf("unknown game mode %q", s)
	}
	return mode, nil
}

// LevelForScore is the progression formula used by modes with difficulty progression
func LevelForScore(score int) int {
	return score/1000 + 1
}

// InitialSpeed is the gravity interval at level 1
const InitialSpeed = 1000 * time.Millisecond

// MinimumSpeed is the fastest gravity interval
const MinimumSpeed = 100 * time.Millisecond

// GravityInterval is how often the host issues MOVE_DOWN at a level
func GravityInterval(level int, base time.Duration) time.Duration {
	if base <= 0 {
		base = InitialSpeed
	}
	if level < 1 {
		level = 1
	}
	interval := base - time.Duration(level-1)*50*time.Millisecond
	if interval < MinimumSpeed {
		return MinimumSpeed
	}
	return interval
}

// applyModeRules recomputes level and completion after the score changed
func applyModeRules(s *GameState) {
	settings, ok := SettingsFor(s.GameMode)
	if !ok {
		return
	}
	if settings.DifficultyProgression {
		s.Level = LevelForScore(s.Score)
	}
	if s.GameMode == ModeSurvival {
		s.SurvivalLevel = s.Level
	}
	if s.TargetScore > 0 && s.Score >= s.TargetScore {
		s.IsGameCompleted = true
	}
}
