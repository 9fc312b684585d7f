package service

import (
	"time"

	"github.com/wricardo/mcp-training/blockfall/game/achievements"
	"github.com/wricardo/mcp-training/blockfall/game/engine"
	"github.com/wricardo/mcp-training/blockfall/game/profile"
)

// Event types reported alongside command results
const (
	EventLineClear     = "line_clear"
	EventGameOver      = "game_over"
	EventGameCompleted = "game_completed"
	EventLevelUp       = "level_up"
	EventAchievement   = "achievement"
	EventUndo          = "undo"
	EventNewGame       = "new_game"
)

// Stop reason codes for batches
const (
	StopGameOver  = "game_over"
	StopTruncated = "truncated"
)

// MaxBatchCommands caps a single batch request
const MaxBatchCommands = 500

// CreateSessionRequest selects the preset, player profile and optional mode override
type CreateSessionRequest struct {
	SessionID string          `json:"session_id,omitempty"`
	ConfigID  string          `json:"config_id,omitempty"`
	ProfileID string          `json:"profile_id,omitempty"`
	Mode      engine.GameMode `json:"mode,omitempty"`
}

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	ProfileID      string             `json:"profile_id"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	TimersRunning  bool               `json:"timers_running"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// CommandResult contains the result of one command
type CommandResult struct {
	Accepted     bool                       `json:"accepted"`
	GameState    *engine.GameState          `json:"game_state"`
	Message      string                     `json:"message,omitempty"`
	Events       []GameEvent                `json:"events,omitempty"`
	Achievements []achievements.Achievement `json:"achievements,omitempty"`
}

// BatchResult contains the result of a command sequence
type BatchResult struct {
	Requested  int               `json:"requested"`
	Executed   int               `json:"executed"`
	Accepted   int               `json:"accepted"`
	GameState  *engine.GameState `json:"game_state"`
	Events     []GameEvent       `json:"events"`
	ScoreDelta int               `json:"score_delta"`
	// StoppedReason is a machine-friendly code: game_over|truncated
	StoppedReason    string                     `json:"stopped_reason,omitempty"`
	StoppedOnCommand int                        `json:"stopped_on_command,omitempty"` // 1-based index
	Truncated        bool                       `json:"truncated,omitempty"`
	Limit            int                        `json:"limit,omitempty"`
	Achievements     []achievements.Achievement `json:"achievements,omitempty"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type          string    `json:"type"`
	Message       string    `json:"message"`
	Timestamp     time.Time `json:"timestamp"`
	Lines         int       `json:"lines,omitempty"`
	Points        int       `json:"points,omitempty"`
	Level         int       `json:"level,omitempty"`
	AchievementID string    `json:"achievement_id,omitempty"`
}

// HistoryOptions configures undo history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryItem summarizes one undo snapshot
type HistoryItem struct {
	// Index is the position in the undo stack, 0 being the oldest
	Index       int `json:"index"`
	Score       int `json:"score"`
	Level       int `json:"level"`
	FilledCells int `json:"filled_cells"`
}

// HistoryResponse contains paginated undo history
type HistoryResponse struct {
	Entries      []HistoryItem `json:"entries"`
	TotalEntries int           `json:"total_entries"`
	Page         int           `json:"page"`
	PageSize     int           `json:"page_size"`
	TotalPages   int           `json:"total_pages"`
	HasNext      bool          `json:"has_next"`
	HasPrevious  bool          `json:"has_previous"`
}

// LeaderboardResponse is one ranked category
type LeaderboardResponse struct {
	Category profile.Category `json:"category"`
	Entries  []profile.Entry  `json:"entries"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename    string          `json:"filename"`
	ConfigID    string          `json:"config_id"` // The identifier to use for session creation
	Name        string          `json:"name"`      // Display name
	Description string          `json:"description"`
	Mode        engine.GameMode `json:"mode"`
	Colors      []engine.Color  `json:"colors"`
	BaseSpeedMs int             `json:"base_speed_ms,omitempty"`
}
