package engine

import (
	"fmt"
	"sync"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	SetState(state *GameState) error
	Reset() *GameState
	IsGameOver() bool
	IsGameCompleted() bool
	GetScore() int
	GetLevel() int

	// Commands
	Dispatch(cmd Command) (*GameState, bool)
	DispatchAll(cmds []Command) (*GameState, int)

	// Configuration
	GetConfig() *GameConfig

	// History
	GetHistory() []HistoryEntry
}

// GameEngine holds the current snapshot of one game and feeds commands to a Processor.
// It is safe for concurrent use; snapshots it hands out are immutable.
type GameEngine struct {
	mu        sync.RWMutex
	state     *GameState
	config    *GameConfig
	processor *Processor
}

// NewEngine creates a game engine for a preset. A non-zero preset seed makes the piece
// sequence deterministic.
func NewEngine(config *GameConfig) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	var rng Randomizer
	if config.Seed != 0 {
		rng = NewSeededRandomizer(config.Seed)
	}
	return NewEngineWithSources(config, rng, nil)
}

// NewEngineWithSources creates a game engine with explicit randomness and time sources.
// Nil sources fall back to a time-seeded randomizer and the system clock.
func NewEngineWithSources(config *GameConfig, rng Randomizer, clock Clock) (*GameEngine, error) {
	if config == nil {
		config = DefaultGameConfig()
	}
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	processor := NewProcessor(NewPieceFactory(rng), clock)
	return &GameEngine{
		config:    config,
		processor: processor,
		state:     InitGameStateFromConfig(processor, config),
	}, nil
}

// NewEngineWithDefaults creates a game engine with the built-in classic preset
func NewEngineWithDefaults() *GameEngine {
	e, _ := NewEngineWithSources(DefaultGameConfig(), nil, nil)
	return e
}

// GetState returns the current snapshot
func (e *GameEngine) GetState() *GameState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// SetState replaces the current snapshot (used when restoring persisted sessions)
func (e *GameEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = state
	return nil
}

// Reset restarts the game at level 1, keeping cumulative totals and the palette
func (e *GameEngine) Reset() *GameState {
	state, _ := e.Dispatch(Cmd(CmdRestartGame))
	return state
}

// Dispatch applies one command. accepted is false when the command was rejected and the
// snapshot is unchanged.
func (e *GameEngine) Dispatch(cmd Command) (*GameState, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	next := e.processor.Apply(e.state, cmd)
	accepted := next != e.state
	e.state = next
	return next, accepted
}

// DispatchAll applies commands in order and returns the final snapshot and how many were
// accepted
func (e *GameEngine) DispatchAll(cmds []Command) (*GameState, int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	accepted := 0
	for _, cmd := range cmds {
		next := e.processor.Apply(e.state, cmd)
		if next != e.state {
			accepted++
		}
		e.state = next
	}
	return e.state, accepted
}

// IsGameOver checks if the game has ended by top-out or time-out
func (e *GameEngine) IsGameOver() bool {
	return e.GetState().IsGameOver
}

// IsGameCompleted checks if the mode's target score was reached
func (e *GameEngine) IsGameCompleted() bool {
	return e.GetState().IsGameCompleted
}

// GetScore returns the current score
func (e *GameEngine) GetScore() int {
	return e.GetState().Score
}

// GetLevel returns the current level
func (e *GameEngine) GetLevel() int {
	return e.GetState().Level
}

// GetConfig returns the preset the engine was built from
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// GetHistory returns the undo snapshots, oldest first
func (e *GameEngine) GetHistory() []HistoryEntry {
	return e.GetState().History.Entries()
}

// Clock returns the engine's time source
func (e *GameEngine) Clock() Clock {
	return e.processor.Clock()
}
