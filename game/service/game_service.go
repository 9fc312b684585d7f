package service

import (
	"context"
	"time"

	"github.com/wricardo/mcp-training/blockfall/game/achievements"
	"github.com/wricardo/mcp-training/blockfall/game/engine"
	"github.com/wricardo/mcp-training/blockfall/game/profile"
	"github.com/wricardo/mcp-training/blockfall/game/stats"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, req CreateSessionRequest) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Dispatch(ctx context.Context, sessionID string, cmd engine.Command) (*CommandResult, error)
	DispatchBatch(ctx context.Context, sessionID string, cmds []engine.Command) (*BatchResult, error)
	StartTimers(ctx context.Context, sessionID string) error
	StopTimers(ctx context.Context, sessionID string) error

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetSummary(ctx context.Context, sessionID string) (*stats.Summary, error)
	GetUndoHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)
	GetAchievements(ctx context.Context, sessionID string) ([]achievements.Achievement, error)

	// Profiles
	GetProfile(ctx context.Context, profileID string) (*profile.Profile, error)
	GetLeaderboard(ctx context.Context, category string, limit int) (*LeaderboardResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.GameConfig, profileID string) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// ConfigManager handles game configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}

// Session represents an active game session
type Session struct {
	ID     string
	Engine *engine.GameEngine
	Config *engine.GameConfig
	// ConfigID is the preset file name the session was created from
	ConfigID       string
	ProfileID      string
	CreatedAt      time.Time
	LastAccessedAt time.Time
	// BookedGame is the profile record of the current game once it has ended. An undo can
	// revive that game, and its next ending replaces the record instead of adding one.
	BookedGame *profile.GameRecord
}
