package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wricardo/mcp-training/blockfall/game/achievements"
	"github.com/wricardo/mcp-training/blockfall/game/engine"
	"github.com/wricardo/mcp-training/blockfall/game/host"
	"github.com/wricardo/mcp-training/blockfall/game/profile"
	"github.com/wricardo/mcp-training/blockfall/game/stats"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidCommand  = errors.New("invalid command")
	ErrEmptyBatch      = errors.New("no commands provided")
	ErrInvalidMode     = errors.New("invalid game mode")
)

// Default and maximum page sizes for undo history
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// UpdateListener receives results of commands issued by session timers
type UpdateListener func(sessionID string, result *CommandResult)

// Option configures the game service
type Option func(*gameServiceImpl)

// WithProfiles sets the profile store. The default keeps profiles in memory.
func WithProfiles(store profile.Store) Option {
	return func(s *gameServiceImpl) {
		if store != nil {
			s.profiles = store
		}
	}
}

// WithLogger sets the service logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *gameServiceImpl) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTickers sets the ticker source for session timers
func WithTickers(tickers host.TickerFactory) Option {
	return func(s *gameServiceImpl) {
		if tickers != nil {
			s.tickers = tickers
		}
	}
}

// WithClock sets the time source for events, achievements and game records
func WithClock(clock engine.Clock) Option {
	return func(s *gameServiceImpl) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithUpdateListener registers a callback for timer driven commands
func WithUpdateListener(fn UpdateListener) Option {
	return func(s *gameServiceImpl) {
		s.onUpdate = fn
	}
}

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	profiles profile.Store
	logger   *zap.Logger
	tickers  host.TickerFactory
	clock    engine.Clock
	onUpdate UpdateListener

	mu     sync.RWMutex
	timers map[string]*host.Scheduler
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		profiles: profile.NewMemoryStore(),
		logger:   zap.NewNop(),
		tickers:  host.RealTickers,
		clock:    engine.SystemClock{},
		timers:   make(map[string]*host.Scheduler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(sess *Session) string {
	if sess.ConfigID != "" {
		return sess.ConfigID
	}
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == sess.Config.Name {
				return cfg.ConfigID
			}
		}
	}
	if sess.Config.Name == "" {
		return "default"
	}
	return sess.Config.Name
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     s.getConfigID(sess),
		ProfileID:      sess.ProfileID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		TimersRunning:  s.timersRunning(sess.ID),
		GameState:      sess.Engine.GetState(),
		GameConfig:     sess.Config,
	}
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, req CreateSessionRequest) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	config, configID, err := s.resolveConfig(req.ConfigID)
	if err != nil {
		return nil, err
	}

	if req.Mode != "" {
		mode, err := engine.ParseGameMode(string(req.Mode))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidMode, err)
		}
		if mode != config.Mode {
			override := *config
			override.Mode = mode
			config = &override
		}
	}

	profileID := req.ProfileID
	if profileID == "" {
		profileID = profile.GuestID
	}
	if _, err := s.loadProfile(profileID); err != nil {
		return nil, err
	}

	sess, err := s.sessions.Create(req.SessionID, config, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	sess.ConfigID = configID
	s.persist(sess.ID, "create")

	s.logger.Info("session created",
		zap.String("session_id", sess.ID),
		zap.String("config", configID),
		zap.String("mode", string(config.Mode)),
		zap.String("profile_id", profileID))

	return s.sessionInfo(sess), nil
}

// resolveConfig loads a preset by ID, or the default when the ID is empty
func (s *gameServiceImpl) resolveConfig(configID string) (*engine.GameConfig, string, error) {
	if configID == "" {
		config := s.configs.GetDefault()
		if config == nil {
			config = engine.DefaultGameConfig()
		}
		return config, "", nil
	}

	config, err := s.configs.LoadConfig(configID)
	if err == nil {
		return config, strings.TrimSuffix(configID, ".json"), nil
	}

	// Provide helpful error message with available options
	if strings.Contains(err.Error(), "configuration not found") {
		availableConfigs, listErr := s.configs.ListConfigs()
		if listErr == nil && len(availableConfigs) > 0 {
			var configIDs []string
			for _, cfg := range availableConfigs {
				configIDs = append(configIDs, cfg.ConfigID)
			}
			return nil, "", fmt.Errorf("config '%s' not found. Available configs: %v: %w", configID, configIDs, err)
		}
		return nil, "", fmt.Errorf("config '%s' not found. Use /api/configs to list available configurations: %w", configID, err)
	}
	return nil, "", fmt.Errorf("failed to load config %s: %w", configID, err)
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return s.sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession stops the session's timers and removes it
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.stopTimers(sessionID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	s.logger.Info("session deleted", zap.String("session_id", sessionID))
	return nil
}

// Dispatch applies one command to a session
func (s *gameServiceImpl) Dispatch(ctx context.Context, sessionID string, cmd engine.Command) (*CommandResult, error) {
	cmd, err := normalizeCommand(cmd)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	result := s.apply(sess, cmd)
	if result.Accepted {
		s.persist(sess.ID, string(cmd.Type))
	}
	return result, nil
}

// DispatchBatch applies commands in order. Once the game is over, the first command that
// cannot recover it stops the batch.
func (s *gameServiceImpl) DispatchBatch(ctx context.Context, sessionID string, cmds []engine.Command) (*BatchResult, error) {
	if len(cmds) == 0 {
		return nil, ErrEmptyBatch
	}
	normalized := make([]engine.Command, len(cmds))
	for i, cmd := range cmds {
		c, err := normalizeCommand(cmd)
		if err != nil {
			return nil, fmt.Errorf("command %d: %w", i+1, err)
		}
		normalized[i] = c
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	start := sess.Engine.GetState()
	result := &BatchResult{
		Requested: len(normalized),
		Events:    make([]GameEvent, 0),
	}

	// Limit commands to prevent abuse
	if len(normalized) > MaxBatchCommands {
		result.Truncated = true
		result.Limit = MaxBatchCommands
		normalized = normalized[:MaxBatchCommands]
	}

	for i, cmd := range normalized {
		if err := ctx.Err(); err != nil {
			result.StoppedReason = "canceled"
			result.StoppedOnCommand = i + 1
			break
		}
		if sess.Engine.IsGameOver() && !recoversFromGameOver(cmd.Type) {
			result.StoppedReason = StopGameOver
			result.StoppedOnCommand = i + 1
			break
		}

		res := s.apply(sess, cmd)
		result.Executed++
		if res.Accepted {
			result.Accepted++
		}
		result.Events = append(result.Events, res.Events...)
		result.Achievements = append(result.Achievements, res.Achievements...)
	}
	if result.StoppedReason == "" && result.Truncated {
		result.StoppedReason = StopTruncated
		result.StoppedOnCommand = MaxBatchCommands + 1
	}

	final := sess.Engine.GetState()
	result.GameState = final
	result.ScoreDelta = final.Score - start.Score

	if result.Accepted > 0 {
		s.persist(sess.ID, "batch")
	}

	s.logger.Info("batch",
		zap.String("session_id", sess.ID),
		zap.Int("requested", result.Requested),
		zap.Int("executed", result.Executed),
		zap.Int("accepted", result.Accepted),
		zap.String("stopped", result.StoppedReason),
		zap.Int("score", final.Score))

	return result, nil
}

// apply runs one command and derives events and achievement progress. Callers hold s.mu.
func (s *gameServiceImpl) apply(sess *Session, cmd engine.Command) *CommandResult {
	prev := sess.Engine.GetState()
	next, accepted := sess.Engine.Dispatch(cmd)

	result := &CommandResult{Accepted: accepted, GameState: next}
	if !accepted {
		result.Message = rejectionReason(prev, cmd)
		s.logger.Debug("command rejected",
			zap.String("session_id", sess.ID),
			zap.String("command", string(cmd.Type)),
			zap.String("reason", result.Message))
		return result
	}

	now := s.clock.Now()
	if cmd.Type == engine.CmdNewGame || cmd.Type == engine.CmdRestartGame {
		sess.BookedGame = nil
	}
	result.Events = commandEvents(prev, next, cmd, now)
	unlocked := s.recordProgress(sess, prev, next, now)
	for _, a := range unlocked {
		result.Events = append(result.Events, GameEvent{
			Type:          EventAchievement,
			Message:       fmt.Sprintf("Achievement unlocked: %s", a.Name),
			Timestamp:     now,
			AchievementID: a.ID,
		})
	}
	result.Achievements = unlocked

	s.logger.Info("command",
		zap.String("session_id", sess.ID),
		zap.String("command", string(cmd.Type)),
		zap.Int("score", next.Score),
		zap.Int("level", next.Level),
		zap.Int("events", len(result.Events)))

	return result
}

// recordProgress evaluates achievements after a lock or at game end and books finished games
// on the session's profile. It returns the achievements unlocked by this transition.
func (s *gameServiceImpl) recordProgress(sess *Session, prev, next *engine.GameState, now time.Time) []achievements.Achievement {
	locked := next.Performance.PiecesPlaced > prev.Performance.PiecesPlaced
	ended := !prev.IsTerminal() && next.IsTerminal()
	if !locked && !ended {
		return nil
	}

	p, err := s.loadProfile(sess.ProfileID)
	if err != nil {
		s.logger.Warn("profile unavailable", zap.String("profile_id", sess.ProfileID), zap.Error(err))
		return nil
	}

	wasUnlocked := make(map[string]bool, len(p.Achievements))
	for _, a := range p.Achievements {
		wasUnlocked[a.ID] = a.Unlocked
	}

	// Cumulative achievements count the finished games before this one plus the current game
	changes := achievements.Evaluate(next, p.Achievements, p.TotalsWithout(sess.BookedGame), now)
	changed := p.MergeAchievements(changes)

	if ended {
		record := profile.NewGameRecord(next, now)
		if booked := sess.BookedGame; booked != nil {
			record.ID = booked.ID
			p.ReplaceGame(*booked, record)
		} else {
			p.ApplyGame(record)
		}
		sess.BookedGame = &record
		changed = true
		s.logger.Info("game finished",
			zap.String("session_id", sess.ID),
			zap.String("profile_id", p.ID),
			zap.String("game_id", record.ID),
			zap.Int("score", record.Score),
			zap.Bool("completed", record.Completed),
			zap.Duration("play_time", record.PlayTime))
	}

	if changed {
		if err := s.profiles.Save(p); err != nil {
			s.logger.Warn("failed to save profile", zap.String("profile_id", p.ID), zap.Error(err))
		}
	}

	var unlocked []achievements.Achievement
	for _, a := range changes {
		if a.Unlocked && !wasUnlocked[a.ID] {
			unlocked = append(unlocked, a)
		}
	}
	return unlocked
}

// loadProfile returns the stored profile, creating it on first use
func (s *gameServiceImpl) loadProfile(id string) (*profile.Profile, error) {
	p, err := s.profiles.Load(id)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, profile.ErrProfileNotFound) {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	p = profile.New(id, id, s.clock.Now())
	if err := s.profiles.Save(p); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return p, nil
}

// persist saves a session, logging failures without failing the operation
func (s *gameServiceImpl) persist(sessionID, after string) {
	if err := s.sessions.Save(sessionID); err != nil {
		s.logger.Warn("failed to persist session",
			zap.String("session_id", sessionID),
			zap.String("after", after),
			zap.Error(err))
	}
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.GetState(), nil
}

// GetSummary returns the analytics view of the session's current game
func (s *gameServiceImpl) GetSummary(ctx context.Context, sessionID string) (*stats.Summary, error) {
	state, err := s.GetGameState(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	summary := stats.Summarize(state, s.clock.Now())
	return &summary, nil
}

// GetUndoHistory returns paginated undo snapshots
func (s *gameServiceImpl) GetUndoHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	history := sess.Engine.GetHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultHistoryLimit
	}
	if opts.Limit > MaxHistoryLimit {
		opts.Limit = MaxHistoryLimit
	}
	if opts.Order != "asc" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	entries := []HistoryItem{}
	for i := start; i < end; i++ {
		idx := i
		if opts.Order == "desc" {
			// Most recent first
			idx = total - 1 - i
		}
		entries = append(entries, historyItem(idx, history[idx]))
	}

	return &HistoryResponse{
		Entries:      entries,
		TotalEntries: total,
		Page:         opts.Page,
		PageSize:     opts.Limit,
		TotalPages:   totalPages,
		HasNext:      opts.Page < totalPages,
		HasPrevious:  opts.Page > 1,
	}, nil
}

func historyItem(index int, e engine.HistoryEntry) HistoryItem {
	filled := 0
	for _, row := range e.Grid {
		for _, c := range row {
			if c != engine.Empty {
				filled++
			}
		}
	}
	return HistoryItem{Index: index, Score: e.Score, Level: e.Level, FilledCells: filled}
}

// GetAchievements returns the achievement records of the session's profile
func (s *gameServiceImpl) GetAchievements(ctx context.Context, sessionID string) ([]achievements.Achievement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	p, err := s.loadProfile(sess.ProfileID)
	if err != nil {
		return nil, err
	}
	return p.Achievements, nil
}

// GetProfile returns a stored profile. The guest profile always exists.
func (s *gameServiceImpl) GetProfile(ctx context.Context, profileID string) (*profile.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if profileID == profile.GuestID {
		return s.loadProfile(profileID)
	}
	p, err := s.profiles.Load(profileID)
	if err != nil {
		return nil, fmt.Errorf("profile %q: %w", profileID, err)
	}
	return p, nil
}

// GetLeaderboard ranks stored profiles in one category
func (s *gameServiceImpl) GetLeaderboard(ctx context.Context, category string, limit int) (*LeaderboardResponse, error) {
	cat, err := profile.ParseCategory(category)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	profiles, err := s.profiles.List()
	s.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	return &LeaderboardResponse{
		Category: cat,
		Entries:  profile.Leaderboard(profiles, cat, limit),
	}, nil
}

// StartTimers attaches gravity and countdown timers to a session. Starting twice is a no-op.
func (s *gameServiceImpl) StartTimers(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return fmt.Errorf("session %s: %w", sessionID, err)
	}

	key := strings.ToLower(sess.ID)
	if sched, ok := s.timers[key]; ok && sched.Running() {
		return nil
	}

	sched := host.NewScheduler(&sessionTarget{svc: s, sessionID: sess.ID}, host.Config{
		BaseSpeed: sess.Config.BaseSpeed(),
		Tickers:   s.tickers,
		Logger:    s.logger.With(zap.String("session_id", sess.ID)),
	})
	if err := sched.Start(); err != nil {
		return err
	}
	s.timers[key] = sched
	s.logger.Info("timers started", zap.String("session_id", sess.ID))
	return nil
}

// StopTimers detaches a session's timers and waits for them to stop
func (s *gameServiceImpl) StopTimers(ctx context.Context, sessionID string) error {
	s.mu.RLock()
	_, err := s.sessions.Get(sessionID)
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("session %s: %w", sessionID, err)
	}

	s.stopTimers(sessionID)
	return nil
}

// stopTimers must run without s.mu held, the scheduler loop may be waiting on it
func (s *gameServiceImpl) stopTimers(sessionID string) {
	key := strings.ToLower(sessionID)

	s.mu.Lock()
	sched, ok := s.timers[key]
	delete(s.timers, key)
	s.mu.Unlock()

	if ok {
		sched.Stop()
		s.logger.Info("timers stopped", zap.String("session_id", sessionID))
	}
}

// timersRunning expects s.mu to be held
func (s *gameServiceImpl) timersRunning(sessionID string) bool {
	sched, ok := s.timers[strings.ToLower(sessionID)]
	return ok && sched.Running()
}

// timedDispatch is the scheduler path into the command pipeline
func (s *gameServiceImpl) timedDispatch(sessionID string, cmd engine.Command) *CommandResult {
	s.mu.Lock()
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		s.mu.Unlock()
		return nil
	}
	prev := sess.Engine.GetState()
	result := s.apply(sess, cmd)
	next := result.GameState
	if result.Accepted && (next.Performance.PiecesPlaced != prev.Performance.PiecesPlaced || next.IsTerminal() != prev.IsTerminal()) {
		s.persist(sess.ID, string(cmd.Type))
	}
	listener := s.onUpdate
	s.mu.Unlock()

	if result.Accepted && listener != nil {
		listener(sessionID, result)
	}
	return result
}

// sessionTarget adapts one session to the scheduler
type sessionTarget struct {
	svc       *gameServiceImpl
	sessionID string
}

func (t *sessionTarget) GetState() *engine.GameState {
	t.svc.mu.RLock()
	defer t.svc.mu.RUnlock()

	sess, err := t.svc.sessions.Get(t.sessionID)
	if err != nil {
		return nil
	}
	return sess.Engine.GetState()
}

func (t *sessionTarget) Dispatch(cmd engine.Command) (*engine.GameState, bool) {
	result := t.svc.timedDispatch(t.sessionID, cmd)
	if result == nil {
		return nil, false
	}
	return result.GameState, result.Accepted
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}

// normalizeCommand canonicalizes the command name and checks its arguments
func normalizeCommand(cmd engine.Command) (engine.Command, error) {
	t, err := engine.ParseCommandType(string(cmd.Type))
	if err != nil {
		return cmd, fmt.Errorf("%w: %v", ErrInvalidCommand, err)
	}
	cmd.Type = t
	if cmd.Type == engine.CmdNewGame && cmd.Mode != "" {
		mode, err := engine.ParseGameMode(string(cmd.Mode))
		if err != nil {
			return cmd, fmt.Errorf("%w: %v", ErrInvalidMode, err)
		}
		cmd.Mode = mode
	}
	if cmd.Type == engine.CmdUpdateColors {
		if err := engine.ValidatePalette(cmd.Colors); err != nil {
			return cmd, fmt.Errorf("%w: %v", ErrInvalidCommand, err)
		}
	}
	return cmd, nil
}

func recoversFromGameOver(t engine.CommandType) bool {
	return t == engine.CmdNewGame || t == engine.CmdRestartGame || t == engine.CmdUndoMove
}

// rejectionReason explains why a command left the state unchanged
func rejectionReason(state *engine.GameState, cmd engine.Command) string {
	switch {
	case state.IsGameOver && !recoversFromGameOver(cmd.Type):
		return "game is over"
	case state.IsPaused && cmd.Type != engine.CmdResume && cmd.Type != engine.CmdPause:
		return "game is paused"
	}
	switch cmd.Type {
	case engine.CmdUndoMove:
		return "nothing to undo"
	case engine.CmdHold:
		return "hold already used for this piece"
	case engine.CmdPause:
		return "game is already paused"
	case engine.CmdResume:
		return "game is not paused"
	case engine.CmdTickTime:
		return "no clock running in this mode"
	}
	return fmt.Sprintf("%s is blocked", cmd.Type)
}

// commandEvents derives the events of one accepted transition
func commandEvents(prev, next *engine.GameState, cmd engine.Command, now time.Time) []GameEvent {
	switch cmd.Type {
	case engine.CmdNewGame, engine.CmdRestartGame:
		return []GameEvent{{
			Type:      EventNewGame,
			Message:   fmt.Sprintf("New %s game at level %d", next.GameMode, next.Level),
			Timestamp: now,
			Level:     next.Level,
		}}
	case engine.CmdUndoMove:
		return []GameEvent{{
			Type:      EventUndo,
			Message:   fmt.Sprintf("Undid the last lock, score back to %d", next.Score),
			Timestamp: now,
			Points:    next.Score - prev.Score,
		}}
	}

	var events []GameEvent
	if lines := next.Performance.LinesCleared - prev.Performance.LinesCleared; lines > 0 {
		tSpin := next.Performance.TSpins > prev.Performance.TSpins
		name := stats.LineClearName(lines, tSpin)
		events = append(events, GameEvent{
			Type:      EventLineClear,
			Message:   fmt.Sprintf("%s for %d points", name, next.Score-prev.Score),
			Timestamp: now,
			Lines:     lines,
			Points:    next.Score - prev.Score,
		})
	}
	if next.Level > prev.Level {
		events = append(events, GameEvent{
			Type:      EventLevelUp,
			Message:   fmt.Sprintf("Level %d", next.Level),
			Timestamp: now,
			Level:     next.Level,
		})
	}
	if !prev.IsGameCompleted && next.IsGameCompleted {
		events = append(events, GameEvent{
			Type:      EventGameCompleted,
			Message:   fmt.Sprintf("Target reached with %d points", next.Score),
			Timestamp: now,
			Points:    next.Score,
		})
	}
	if !prev.IsGameOver && next.IsGameOver {
		msg := fmt.Sprintf("Game over with %d points", next.Score)
		if next.GameMode == engine.ModeTimeAttack && next.TimeRemaining == 0 {
			msg = fmt.Sprintf("Time up with %d points", next.Score)
		}
		events = append(events, GameEvent{
			Type:      EventGameOver,
			Message:   msg,
			Timestamp: now,
			Points:    next.Score,
		})
	}
	return events
}
