package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/mcp-training/blockfall/game/achievements"
	"github.com/wricardo/mcp-training/blockfall/game/engine"
	"github.com/wricardo/mcp-training/blockfall/game/host"
	"github.com/wricardo/mcp-training/blockfall/game/profile"
	"github.com/wricardo/mcp-training/blockfall/game/service"
)

var testStart = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

// onlyI always picks the first piece type (I) and the first palette color
type onlyI struct{}

func (onlyI) IntN(int) int { return 0 }

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	mu       sync.Mutex
	clock    *engine.MockClock
	sessions map[string]*service.Session
	saves    int
}

func NewMockSessionManager(clock *engine.MockClock) *MockSessionManager {
	return &MockSessionManager{
		clock:    clock,
		sessions: make(map[string]*service.Session),
	}
}

func (m *MockSessionManager) Create(id string, config *engine.GameConfig, profileID string) (*service.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Generate ID if empty (mimics real session manager behavior)
	if id == "" {
		id = fmt.Sprintf("t%03d", len(m.sessions)+1)
	}

	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	eng, err := engine.NewEngineWithSources(config, onlyI{}, m.clock)
	if err != nil {
		return nil, err
	}

	session := &service.Session{
		ID:             id,
		Engine:         eng,
		Config:         config,
		ProfileID:      profileID,
		CreatedAt:      m.clock.Now(),
		LastAccessedAt: m.clock.Now(),
	}

	m.sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, exists := m.sessions[id]
	if !exists {
		return nil, service.ErrSessionNotFound
	}
	return session, nil
}

func (m *MockSessionManager) List() []*service.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sessions[id]; !exists {
		return service.ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if session, exists := m.sessions[id]; exists {
		session.LastAccessedAt = m.clock.Now()
		return nil
	}
	return service.ErrSessionNotFound
}

func (m *MockSessionManager) Save(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sessions[id]; !exists {
		return service.ErrSessionNotFound
	}
	m.saves++
	return nil
}

// MockConfigManager implements service.ConfigManager for testing
type MockConfigManager struct {
	configs map[string]*engine.GameConfig
}

func NewMockConfigManager() *MockConfigManager {
	classic := &engine.GameConfig{
		Name:        "Classic",
		Description: "Test configuration",
		Mode:        engine.ModeClassic,
		Colors:      []engine.Color{"#FF0000", "#00FF00"},
	}
	attack := &engine.GameConfig{
		Name:        "Time Attack",
		Description: "Two minutes",
		Mode:        engine.ModeTimeAttack,
		Colors:      []engine.Color{"#FF0000", "#00FF00"},
	}

	return &MockConfigManager{
		configs: map[string]*engine.GameConfig{
			"classic":     classic,
			"time-attack": attack,
		},
	}
}

func (m *MockConfigManager) LoadConfig(name string) (*engine.GameConfig, error) {
	config, exists := m.configs[name]
	if !exists {
		return nil, errors.New("configuration not found")
	}
	return config, nil
}

func (m *MockConfigManager) ListConfigs() ([]*service.ConfigInfo, error) {
	result := make([]*service.ConfigInfo, 0, len(m.configs))
	for name, config := range m.configs {
		result = append(result, &service.ConfigInfo{
			Filename:    name + ".json",
			ConfigID:    name,
			Name:        config.Name,
			Description: config.Description,
			Mode:        config.Mode,
			Colors:      config.Colors,
		})
	}
	return result, nil
}

func (m *MockConfigManager) GetDefault() *engine.GameConfig {
	return m.configs["classic"]
}

func (m *MockConfigManager) SaveConfig(name string, config *engine.GameConfig) error {
	if err := engine.ValidateGameConfig(config); err != nil {
		return err
	}
	m.configs[name] = config
	return nil
}

type fixture struct {
	ctx      context.Context
	clock    *engine.MockClock
	sessions *MockSessionManager
	profiles *profile.MemoryStore
	svc      service.GameService
}

func newFixture(t *testing.T, opts ...service.Option) *fixture {
	t.Helper()
	clock := engine.NewMockClock(testStart)
	sessions := NewMockSessionManager(clock)
	profiles := profile.NewMemoryStore()
	opts = append([]service.Option{service.WithProfiles(profiles), service.WithClock(clock)}, opts...)
	return &fixture{
		ctx:      context.Background(),
		clock:    clock,
		sessions: sessions,
		profiles: profiles,
		svc:      service.NewGameService(sessions, NewMockConfigManager(), opts...),
	}
}

// prepare edits the session's current snapshot in place of play
func (f *fixture) prepare(t *testing.T, id string, edit func(s *engine.GameState)) {
	t.Helper()
	sess, err := f.sessions.Get(id)
	if err != nil {
		t.Fatalf("session %s: %v", id, err)
	}
	next := *sess.Engine.GetState()
	edit(&next)
	if err := sess.Engine.SetState(&next); err != nil {
		t.Fatalf("SetState: %v", err)
	}
}

// fillBottomExceptSpawn fills row 19 except the columns a flat I piece covers at spawn
func fillBottomExceptSpawn(s *engine.GameState) {
	for x := 0; x < engine.GridWidth; x++ {
		if x < 4 || x > 7 {
			s.Grid[19][x] = "#AAAAAA"
		}
	}
}

// leaveResidue keeps one cell above the bottom row so a clear is not a perfect clear
func leaveResidue(s *engine.GameState) {
	s.Grid[18][0] = "#AAAAAA"
}

// blockSpawnColumn fills column 4 from row 2 down so the next lock tops out
func blockSpawnColumn(s *engine.GameState) {
	for y := 2; y < engine.GridHeight; y++ {
		s.Grid[y][4] = "#AAAAAA"
	}
}

func hasEvent(events []service.GameEvent, typ string) (service.GameEvent, bool) {
	for _, e := range events {
		if e.Type == typ {
			return e, true
		}
	}
	return service.GameEvent{}, false
}

func TestGameService_CreateSession(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name       string
		req        service.CreateSessionRequest
		wantErr    bool
		wantConfig string
		wantMode   engine.GameMode
		wantUser   string
	}{
		{
			name:       "create with default config",
			req:        service.CreateSessionRequest{},
			wantConfig: "classic",
			wantMode:   engine.ModeClassic,
			wantUser:   profile.GuestID,
		},
		{
			name:       "create with specific config",
			req:        service.CreateSessionRequest{ConfigID: "time-attack", ProfileID: "ana"},
			wantConfig: "time-attack",
			wantMode:   engine.ModeTimeAttack,
			wantUser:   "ana",
		},
		{
			name:       "mode override",
			req:        service.CreateSessionRequest{ConfigID: "classic", Mode: "survival"},
			wantConfig: "classic",
			wantMode:   engine.ModeSurvival,
			wantUser:   profile.GuestID,
		},
		{
			name:    "create with invalid config",
			req:     service.CreateSessionRequest{ConfigID: "nonexistent"},
			wantErr: true,
		},
		{
			name:    "unknown mode",
			req:     service.CreateSessionRequest{Mode: "zen"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := f.svc.CreateSession(f.ctx, tt.req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CreateSession() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if info.ConfigName != tt.wantConfig {
				t.Errorf("Expected config %s, got %s", tt.wantConfig, info.ConfigName)
			}
			if info.GameState.GameMode != tt.wantMode {
				t.Errorf("Expected mode %s, got %s", tt.wantMode, info.GameState.GameMode)
			}
			if info.ProfileID != tt.wantUser {
				t.Errorf("Expected profile %s, got %s", tt.wantUser, info.ProfileID)
			}
			if info.TimersRunning {
				t.Error("New sessions start without timers")
			}
		})
	}

	t.Run("not found lists available configs", func(t *testing.T) {
		_, err := f.svc.CreateSession(f.ctx, service.CreateSessionRequest{ConfigID: "nope"})
		if err == nil || !strings.Contains(err.Error(), "Available configs") {
			t.Errorf("Expected helpful error, got %v", err)
		}
	})

	t.Run("mode override leaves the preset untouched", func(t *testing.T) {
		cfg, _ := f.svc.LoadConfig(f.ctx, "classic")
		if cfg.Mode != engine.ModeClassic {
			t.Errorf("Preset was modified: %s", cfg.Mode)
		}
	})

	t.Run("profile is created on first use", func(t *testing.T) {
		p, err := f.profiles.Load("ana")
		if err != nil {
			t.Fatalf("Expected profile ana to exist: %v", err)
		}
		if len(p.Achievements) != len(achievements.Templates()) {
			t.Errorf("Expected full achievement list, got %d", len(p.Achievements))
		}
	})
}

func TestGameService_Dispatch(t *testing.T) {
	f := newFixture(t)
	info, err := f.svc.CreateSession(f.ctx, service.CreateSessionRequest{})
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	tests := []struct {
		name         string
		sessionID    string
		cmd          engine.Command
		wantErr      bool
		wantAccepted bool
	}{
		{"valid move", info.ID, engine.Cmd(engine.CmdMoveLeft), false, true},
		{"lower case command name", info.ID, engine.Command{Type: "rotate"}, false, true},
		{"nothing to undo", info.ID, engine.Cmd(engine.CmdUndoMove), false, false},
		{"invalid session", "nonexistent", engine.Cmd(engine.CmdMoveLeft), true, false},
		{"invalid command", info.ID, engine.Command{Type: "JUMP"}, true, false},
		{"invalid new game mode", info.ID, engine.NewGame("zen"), true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := f.svc.Dispatch(f.ctx, tt.sessionID, tt.cmd)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Dispatch() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if result.Accepted != tt.wantAccepted {
				t.Errorf("Expected accepted=%v, got %v", tt.wantAccepted, result.Accepted)
			}
			if result.GameState == nil {
				t.Error("Expected a game state")
			}
			if !result.Accepted && result.Message == "" {
				t.Error("Rejected commands carry a reason")
			}
		})
	}

	t.Run("invalid command errors", func(t *testing.T) {
		_, err := f.svc.Dispatch(f.ctx, info.ID, engine.Command{Type: "JUMP"})
		if !errors.Is(err, service.ErrInvalidCommand) {
			t.Errorf("Expected ErrInvalidCommand, got %v", err)
		}
		_, err = f.svc.Dispatch(f.ctx, info.ID, engine.NewGame("zen"))
		if !errors.Is(err, service.ErrInvalidMode) {
			t.Errorf("Expected ErrInvalidMode, got %v", err)
		}
	})

	t.Run("palette is checked before it reaches the game", func(t *testing.T) {
		fifty := make([]engine.Color, 50)
		for i := range fifty {
			fifty[i] = engine.Color(fmt.Sprintf("#%06X", i))
		}
		for _, colors := range [][]engine.Color{nil, fifty, {"#FF0000", "#12345G"}} {
			_, err := f.svc.Dispatch(f.ctx, info.ID, engine.UpdateColors(colors))
			if !errors.Is(err, service.ErrInvalidCommand) {
				t.Errorf("%d colors: expected ErrInvalidCommand, got %v", len(colors), err)
			}
		}
		_, err := f.svc.DispatchBatch(f.ctx, info.ID, []engine.Command{engine.Cmd(engine.CmdMoveLeft), engine.UpdateColors(fifty)})
		if !errors.Is(err, service.ErrInvalidCommand) {
			t.Errorf("batch: expected ErrInvalidCommand, got %v", err)
		}

		res, err := f.svc.Dispatch(f.ctx, info.ID, engine.UpdateColors([]engine.Color{"#112233", "#445566"}))
		if err != nil || !res.Accepted {
			t.Fatalf("Expected a valid palette to be accepted, got %+v err=%v", res, err)
		}
		if len(res.GameState.SelectedColors) != 2 {
			t.Errorf("Expected the new palette, got %v", res.GameState.SelectedColors)
		}
	})

	t.Run("paused game rejects movement", func(t *testing.T) {
		f.svc.Dispatch(f.ctx, info.ID, engine.Cmd(engine.CmdPause))
		result, err := f.svc.Dispatch(f.ctx, info.ID, engine.Cmd(engine.CmdMoveRight))
		if err != nil {
			t.Fatalf("Dispatch failed: %v", err)
		}
		if result.Accepted || result.Message != "game is paused" {
			t.Errorf("Expected paused rejection, got accepted=%v message=%q", result.Accepted, result.Message)
		}
		f.svc.Dispatch(f.ctx, info.ID, engine.Cmd(engine.CmdResume))
	})
}

func TestGameService_LineClearEvents(t *testing.T) {
	f := newFixture(t)
	info, _ := f.svc.CreateSession(f.ctx, service.CreateSessionRequest{})

	f.prepare(t, info.ID, func(s *engine.GameState) {
		fillBottomExceptSpawn(s)
		leaveResidue(s)
	})
	result, err := f.svc.Dispatch(f.ctx, info.ID, engine.Cmd(engine.CmdHardDrop))
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}

	ev, ok := hasEvent(result.Events, service.EventLineClear)
	if !ok {
		t.Fatalf("Expected a line_clear event, got %+v", result.Events)
	}
	if ev.Lines != 1 {
		t.Errorf("Expected 1 line, got %d", ev.Lines)
	}
	if !strings.HasPrefix(ev.Message, "Single") {
		t.Errorf("Expected a Single, got %q", ev.Message)
	}
	if ev.Points != result.GameState.Score {
		t.Errorf("Expected points %d, got %d", result.GameState.Score, ev.Points)
	}
	// 18 rows of hard drop plus a level 1 single
	if result.GameState.Score != 36+110 {
		t.Errorf("Expected score 146, got %d", result.GameState.Score)
	}
	if result.GameState.Grid[19][0] == engine.Empty || result.GameState.Grid[18][0] != engine.Empty {
		t.Error("Expected the residue to shift down into the cleared row")
	}

	t.Run("undo reports an undo event", func(t *testing.T) {
		undo, err := f.svc.Dispatch(f.ctx, info.ID, engine.Cmd(engine.CmdUndoMove))
		if err != nil {
			t.Fatalf("Dispatch failed: %v", err)
		}
		if _, ok := hasEvent(undo.Events, service.EventUndo); !ok {
			t.Errorf("Expected undo event, got %+v", undo.Events)
		}
		if undo.GameState.Score != 0 {
			t.Errorf("Expected score restored to 0, got %d", undo.GameState.Score)
		}
	})
}

func TestGameService_LevelUpEvent(t *testing.T) {
	f := newFixture(t)
	info, _ := f.svc.CreateSession(f.ctx, service.CreateSessionRequest{})

	f.prepare(t, info.ID, func(s *engine.GameState) {
		fillBottomExceptSpawn(s)
		leaveResidue(s)
		s.Score = 990
	})
	result, err := f.svc.Dispatch(f.ctx, info.ID, engine.Cmd(engine.CmdHardDrop))
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	ev, ok := hasEvent(result.Events, service.EventLevelUp)
	if !ok {
		t.Fatalf("Expected level_up, got %+v", result.Events)
	}
	if ev.Level != 2 || result.GameState.Level != 2 {
		t.Errorf("Expected level 2, got event %d state %d", ev.Level, result.GameState.Level)
	}
}

func TestGameService_GameOverBooksProfile(t *testing.T) {
	f := newFixture(t)
	info, _ := f.svc.CreateSession(f.ctx, service.CreateSessionRequest{ProfileID: "ana"})

	f.clock.Advance(90 * time.Second)
	f.prepare(t, info.ID, blockSpawnColumn)

	result, err := f.svc.Dispatch(f.ctx, info.ID, engine.Cmd(engine.CmdHardDrop))
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if !result.GameState.IsGameOver {
		t.Fatal("Expected the lock to top out")
	}
	if _, ok := hasEvent(result.Events, service.EventGameOver); !ok {
		t.Errorf("Expected game_over event, got %+v", result.Events)
	}

	ev, ok := hasEvent(result.Events, service.EventAchievement)
	if !ok || ev.AchievementID != achievements.FirstGame {
		t.Errorf("Expected first_game unlock event, got %+v", result.Events)
	}
	found := false
	for _, a := range result.Achievements {
		if a.ID == achievements.FirstGame && a.Unlocked {
			found = true
		}
	}
	if !found {
		t.Error("Expected first_game among unlocked achievements")
	}

	p, err := f.svc.GetProfile(f.ctx, "ana")
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if p.Stats.GameCount != 1 {
		t.Errorf("Expected 1 game on record, got %d", p.Stats.GameCount)
	}
	if len(p.RecentGames) != 1 || p.RecentGames[0].PlayTime != 90*time.Second {
		t.Errorf("Expected one 90s game in recent games, got %+v", p.RecentGames)
	}

	t.Run("commands after game over are rejected", func(t *testing.T) {
		res, _ := f.svc.Dispatch(f.ctx, info.ID, engine.Cmd(engine.CmdMoveLeft))
		if res.Accepted || res.Message != "game is over" {
			t.Errorf("Expected game over rejection, got %+v", res)
		}
	})

	t.Run("achievements come from the profile", func(t *testing.T) {
		list, err := f.svc.GetAchievements(f.ctx, info.ID)
		if err != nil {
			t.Fatalf("GetAchievements failed: %v", err)
		}
		if achievements.UnlockedCount(list) < 1 {
			t.Error("Expected at least one unlocked achievement")
		}
	})

	t.Run("leaderboard ranks the finished game", func(t *testing.T) {
		board, err := f.svc.GetLeaderboard(f.ctx, "game_count", 0)
		if err != nil {
			t.Fatalf("GetLeaderboard failed: %v", err)
		}
		if len(board.Entries) != 1 || board.Entries[0].ProfileID != "ana" || board.Entries[0].Value != 1 {
			t.Errorf("Unexpected leaderboard: %+v", board.Entries)
		}
		if _, err := f.svc.GetLeaderboard(f.ctx, "fastest", 0); err == nil {
			t.Error("Expected error for unknown category")
		}
	})

	t.Run("new game starts fresh", func(t *testing.T) {
		res, err := f.svc.Dispatch(f.ctx, info.ID, engine.NewGame(""))
		if err != nil {
			t.Fatalf("Dispatch failed: %v", err)
		}
		if _, ok := hasEvent(res.Events, service.EventNewGame); !ok {
			t.Errorf("Expected new_game event, got %+v", res.Events)
		}
		if res.GameState.IsGameOver || res.GameState.GamesCompleted != 1 {
			t.Errorf("Unexpected state after new game: over=%v completed=%d", res.GameState.IsGameOver, res.GameState.GamesCompleted)
		}
	})
}

func TestGameService_UndoneGameOverIsBookedOnce(t *testing.T) {
	f := newFixture(t)
	info, _ := f.svc.CreateSession(f.ctx, service.CreateSessionRequest{ProfileID: "ben"})
	f.prepare(t, info.ID, blockSpawnColumn)

	topOut := func() *service.CommandResult {
		t.Helper()
		res, err := f.svc.Dispatch(f.ctx, info.ID, engine.Cmd(engine.CmdHardDrop))
		if err != nil {
			t.Fatalf("Dispatch failed: %v", err)
		}
		if !res.GameState.IsGameOver {
			t.Fatal("Expected the lock to top out")
		}
		return res
	}

	topOut()
	first, _ := f.svc.GetProfile(f.ctx, "ben")
	if first.Stats.GameCount != 1 || len(first.RecentGames) != 1 {
		t.Fatalf("Expected one booked game, got count=%d recent=%d", first.Stats.GameCount, len(first.RecentGames))
	}
	gameID := first.RecentGames[0].ID

	undo, err := f.svc.Dispatch(f.ctx, info.ID, engine.Cmd(engine.CmdUndoMove))
	if err != nil || !undo.Accepted || undo.GameState.IsGameOver {
		t.Fatalf("Expected undo to revive the game, got %+v err=%v", undo, err)
	}
	if undo.GameState.GamesCompleted != 0 {
		t.Errorf("Expected the revived game to leave the completed count, got %d", undo.GameState.GamesCompleted)
	}

	// bring in the next piece, then top out again
	f.svc.Dispatch(f.ctx, info.ID, engine.Cmd(engine.CmdMoveDown))
	f.clock.Advance(30 * time.Second)
	again := topOut()
	if again.GameState.GamesCompleted != 1 {
		t.Errorf("Expected one completed game, got %d", again.GameState.GamesCompleted)
	}

	p, err := f.svc.GetProfile(f.ctx, "ben")
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if p.Stats.GameCount != 1 {
		t.Errorf("Expected the game to be counted once, got %d", p.Stats.GameCount)
	}
	if len(p.RecentGames) != 1 || p.RecentGames[0].ID != gameID {
		t.Fatalf("Expected the record %s to be replaced, got %+v", gameID, p.RecentGames)
	}
	if p.RecentGames[0].PlayTime != 30*time.Second || p.Stats.TotalPlayTime != 30*time.Second {
		t.Errorf("Expected the second ending's play time, got record=%v total=%v",
			p.RecentGames[0].PlayTime, p.Stats.TotalPlayTime)
	}

	t.Run("a new game is booked separately", func(t *testing.T) {
		if _, err := f.svc.Dispatch(f.ctx, info.ID, engine.NewGame("")); err != nil {
			t.Fatalf("Dispatch failed: %v", err)
		}
		f.prepare(t, info.ID, blockSpawnColumn)
		topOut()

		p, _ := f.svc.GetProfile(f.ctx, "ben")
		if p.Stats.GameCount != 2 || len(p.RecentGames) != 2 {
			t.Errorf("Expected two games, got count=%d recent=%d", p.Stats.GameCount, len(p.RecentGames))
		}
	})
}

func TestGameService_DispatchBatch(t *testing.T) {
	f := newFixture(t)
	info, _ := f.svc.CreateSession(f.ctx, service.CreateSessionRequest{})

	t.Run("empty batch", func(t *testing.T) {
		_, err := f.svc.DispatchBatch(f.ctx, info.ID, nil)
		if !errors.Is(err, service.ErrEmptyBatch) {
			t.Errorf("Expected ErrEmptyBatch, got %v", err)
		}
	})

	t.Run("invalid command rejects the whole batch", func(t *testing.T) {
		_, err := f.svc.DispatchBatch(f.ctx, info.ID, []engine.Command{engine.Cmd(engine.CmdMoveLeft), {Type: "JUMP"}})
		if !errors.Is(err, service.ErrInvalidCommand) {
			t.Errorf("Expected ErrInvalidCommand, got %v", err)
		}
		state, _ := f.svc.GetGameState(f.ctx, info.ID)
		if state.CurrentPiece.Position.X != engine.SpawnPosition().X {
			t.Error("No command should have run")
		}
	})

	t.Run("mixed accepted and rejected", func(t *testing.T) {
		result, err := f.svc.DispatchBatch(f.ctx, info.ID, []engine.Command{
			engine.Cmd(engine.CmdMoveLeft),
			engine.Cmd(engine.CmdUndoMove),
			engine.Cmd(engine.CmdMoveRight),
		})
		if err != nil {
			t.Fatalf("DispatchBatch failed: %v", err)
		}
		if result.Requested != 3 || result.Executed != 3 || result.Accepted != 2 {
			t.Errorf("Unexpected counts: %+v", result)
		}
		if result.StoppedReason != "" {
			t.Errorf("Expected no stop, got %s", result.StoppedReason)
		}
	})

	t.Run("stops at game over", func(t *testing.T) {
		cmds := make([]engine.Command, 40)
		for i := range cmds {
			cmds[i] = engine.Cmd(engine.CmdHardDrop)
		}
		result, err := f.svc.DispatchBatch(f.ctx, info.ID, cmds)
		if err != nil {
			t.Fatalf("DispatchBatch failed: %v", err)
		}
		if !result.GameState.IsGameOver {
			t.Fatal("Expected stacked I pieces to top out")
		}
		if result.StoppedReason != service.StopGameOver {
			t.Errorf("Expected game_over stop, got %q", result.StoppedReason)
		}
		if result.Executed >= len(cmds) || result.StoppedOnCommand != result.Executed+1 {
			t.Errorf("Expected to stop at the first command after game over: executed=%d stopped_on=%d",
				result.Executed, result.StoppedOnCommand)
		}
		if result.ScoreDelta <= 0 {
			t.Errorf("Expected drop points, got delta %d", result.ScoreDelta)
		}
		if _, ok := hasEvent(result.Events, service.EventGameOver); !ok {
			t.Error("Expected game_over among batch events")
		}
	})

	t.Run("truncated", func(t *testing.T) {
		f.svc.Dispatch(f.ctx, info.ID, engine.NewGame(""))
		cmds := make([]engine.Command, service.MaxBatchCommands+10)
		for i := range cmds {
			cmds[i] = engine.Cmd(engine.CmdMoveLeft)
		}
		result, err := f.svc.DispatchBatch(f.ctx, info.ID, cmds)
		if err != nil {
			t.Fatalf("DispatchBatch failed: %v", err)
		}
		if !result.Truncated || result.Limit != service.MaxBatchCommands {
			t.Errorf("Expected truncation at %d, got %+v", service.MaxBatchCommands, result)
		}
		if result.Executed != service.MaxBatchCommands || result.StoppedReason != service.StopTruncated {
			t.Errorf("Unexpected executed=%d reason=%s", result.Executed, result.StoppedReason)
		}
	})
}

func TestGameService_GetUndoHistory(t *testing.T) {
	f := newFixture(t)
	info, _ := f.svc.CreateSession(f.ctx, service.CreateSessionRequest{})

	// Three locks stack three flat I pieces
	for i := 0; i < 3; i++ {
		f.svc.Dispatch(f.ctx, info.ID, engine.Cmd(engine.CmdHardDrop))
	}

	tests := []struct {
		name        string
		opts        service.HistoryOptions
		wantCount   int
		wantFirst   int
		wantPages   int
		wantHasNext bool
	}{
		{"defaults newest first", service.HistoryOptions{}, 3, 2, 1, false},
		{"ascending", service.HistoryOptions{Order: "asc"}, 3, 0, 1, false},
		{"paged", service.HistoryOptions{Limit: 2, Order: "asc"}, 2, 0, 2, true},
		{"second page", service.HistoryOptions{Limit: 2, Page: 2, Order: "asc"}, 1, 2, 2, false},
		{"past the end", service.HistoryOptions{Page: 5}, 0, -1, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := f.svc.GetUndoHistory(f.ctx, info.ID, tt.opts)
			if err != nil {
				t.Fatalf("GetUndoHistory failed: %v", err)
			}
			if resp.TotalEntries != 3 {
				t.Errorf("Expected 3 entries in total, got %d", resp.TotalEntries)
			}
			if len(resp.Entries) != tt.wantCount {
				t.Fatalf("Expected %d entries, got %d", tt.wantCount, len(resp.Entries))
			}
			if tt.wantFirst >= 0 && resp.Entries[0].Index != tt.wantFirst {
				t.Errorf("Expected first index %d, got %d", tt.wantFirst, resp.Entries[0].Index)
			}
			if resp.TotalPages != tt.wantPages || resp.HasNext != tt.wantHasNext {
				t.Errorf("Expected pages=%d hasNext=%v, got %d/%v", tt.wantPages, tt.wantHasNext, resp.TotalPages, resp.HasNext)
			}
		})
	}

	t.Run("snapshots are pre-lock boards", func(t *testing.T) {
		resp, _ := f.svc.GetUndoHistory(f.ctx, info.ID, service.HistoryOptions{Order: "asc"})
		for i, e := range resp.Entries {
			if e.FilledCells != 4*i {
				t.Errorf("Entry %d: expected %d filled cells, got %d", i, 4*i, e.FilledCells)
			}
		}
	})

	t.Run("limit is capped", func(t *testing.T) {
		resp, _ := f.svc.GetUndoHistory(f.ctx, info.ID, service.HistoryOptions{Limit: 1000})
		if resp.PageSize != service.MaxHistoryLimit {
			t.Errorf("Expected page size %d, got %d", service.MaxHistoryLimit, resp.PageSize)
		}
	})
}

func TestGameService_GetSummary(t *testing.T) {
	f := newFixture(t)
	info, _ := f.svc.CreateSession(f.ctx, service.CreateSessionRequest{})

	for i := 0; i < 3; i++ {
		f.svc.Dispatch(f.ctx, info.ID, engine.Cmd(engine.CmdHardDrop))
	}
	f.clock.Advance(time.Minute)

	summary, err := f.svc.GetSummary(f.ctx, info.ID)
	if err != nil {
		t.Fatalf("GetSummary failed: %v", err)
	}
	if summary.PiecesPlaced != 3 || summary.PiecesPerMinute != 3 {
		t.Errorf("Expected 3 pieces at 3/min, got %d at %v", summary.PiecesPlaced, summary.PiecesPerMinute)
	}
	if summary.PlayTime != "1:00" {
		t.Errorf("Expected 1:00, got %s", summary.PlayTime)
	}
}

func TestGameService_ListAndDeleteSessions(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < 3; i++ {
		if _, err := f.svc.CreateSession(f.ctx, service.CreateSessionRequest{}); err != nil {
			t.Fatalf("Failed to create session %d: %v", i, err)
		}
	}

	sessions, err := f.svc.ListSessions(f.ctx)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(sessions) != 3 {
		t.Errorf("Expected 3 sessions, got %d", len(sessions))
	}

	if err := f.svc.DeleteSession(f.ctx, sessions[0].ID); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if _, err := f.svc.GetSession(f.ctx, sessions[0].ID); err == nil {
		t.Error("Expected deleted session to be gone")
	}
	if err := f.svc.DeleteSession(f.ctx, "missing"); err == nil {
		t.Error("Expected error deleting a missing session")
	}
}

// manualTicker only fires when the test sends on it
type manualTicker struct {
	c chan time.Time
}

func (m *manualTicker) C() <-chan time.Time { return m.c }
func (m *manualTicker) Stop()               {}

type tickerSource struct {
	created chan *manualTicker
}

func (s *tickerSource) New(d time.Duration) host.Ticker {
	t := &manualTicker{c: make(chan time.Time)}
	s.created <- t
	return t
}

func TestGameService_Timers(t *testing.T) {
	source := &tickerSource{created: make(chan *manualTicker, 8)}
	updates := make(chan *service.CommandResult, 8)
	f := newFixture(t,
		service.WithTickers(source.New),
		service.WithUpdateListener(func(id string, r *service.CommandResult) { updates <- r }),
	)
	info, _ := f.svc.CreateSession(f.ctx, service.CreateSessionRequest{})

	if err := f.svc.StartTimers(f.ctx, "missing"); err == nil {
		t.Error("Expected error for a missing session")
	}
	if err := f.svc.StartTimers(f.ctx, info.ID); err != nil {
		t.Fatalf("StartTimers failed: %v", err)
	}
	if err := f.svc.StartTimers(f.ctx, info.ID); err != nil {
		t.Fatalf("Second StartTimers should be a no-op: %v", err)
	}

	var gravity *manualTicker
	select {
	case gravity = <-source.created:
	case <-time.After(2 * time.Second):
		t.Fatal("Gravity ticker was not created")
	}

	gravity.c <- testStart
	select {
	case r := <-updates:
		if !r.Accepted || r.GameState.CurrentPiece.Position.Y != 1 {
			t.Errorf("Expected the piece to fall one row, got %+v", r.GameState.CurrentPiece.Position)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("No update after a gravity tick")
	}

	got, _ := f.svc.GetSession(f.ctx, info.ID)
	if !got.TimersRunning {
		t.Error("Expected timers to be reported as running")
	}

	if err := f.svc.StopTimers(f.ctx, info.ID); err != nil {
		t.Fatalf("StopTimers failed: %v", err)
	}
	got, _ = f.svc.GetSession(f.ctx, info.ID)
	if got.TimersRunning {
		t.Error("Expected timers to be stopped")
	}
}

func TestGameService_Configs(t *testing.T) {
	f := newFixture(t)

	configs, err := f.svc.ListConfigs(f.ctx)
	if err != nil {
		t.Fatalf("ListConfigs failed: %v", err)
	}
	if len(configs) != 2 {
		t.Errorf("Expected 2 configs, got %d", len(configs))
	}

	zen := &engine.GameConfig{Name: "Zen", Mode: engine.ModeClassic, Colors: []engine.Color{"#00FFFF", "#FF00FF"}, BaseSpeedMs: 2000}
	if err := f.svc.SaveConfig(f.ctx, "zen", zen); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}
	info, err := f.svc.CreateSession(f.ctx, service.CreateSessionRequest{ConfigID: "zen"})
	if err != nil {
		t.Fatalf("CreateSession with saved config failed: %v", err)
	}
	if info.ConfigName != "zen" || info.GameConfig.BaseSpeedMs != 2000 {
		t.Errorf("Unexpected session config: %s %+v", info.ConfigName, info.GameConfig)
	}
}
