package host

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/wricardo/mcp-training/blockfall/game/engine"
)

// ErrAlreadyStarted is returned when Start is called on a running or stopped scheduler
var ErrAlreadyStarted = errors.New("scheduler already started")

// ClockInterval is the time-attack countdown step
const ClockInterval = time.Second

// Target is the game a scheduler drives
type Target interface {
	GetState() *engine.GameState
	Dispatch(cmd engine.Command) (*engine.GameState, bool)
}

// Ticker delivers ticks until stopped
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory creates a ticker firing every d
type TickerFactory func(d time.Duration) Ticker

type realTicker struct {
	t *time.Ticker
}

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

// RealTickers creates tickers backed by time.Ticker
func RealTickers(d time.Duration) Ticker {
	return realTicker{t: time.NewTicker(d)}
}

// Config configures a Scheduler
type Config struct {
	// BaseSpeed is the level 1 gravity interval; zero uses engine.InitialSpeed
	BaseSpeed time.Duration
	// Tickers defaults to RealTickers
	Tickers TickerFactory
	Logger  *zap.Logger
	// OnUpdate is called with every snapshot produced by an accepted scheduled command
	OnUpdate func(state *engine.GameState)
}

// Scheduler issues timed commands to one target
type Scheduler struct {
	target    Target
	baseSpeed time.Duration
	tickers   TickerFactory
	logger    *zap.Logger
	onUpdate  func(state *engine.GameState)

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	started  atomic.Bool
	running  atomic.Bool
}

// NewScheduler creates a scheduler for target. It does nothing until Start.
func NewScheduler(target Target, cfg Config) *Scheduler {
	if cfg.Tickers == nil {
		cfg.Tickers = RealTickers
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Scheduler{
		target:    target,
		baseSpeed: cfg.BaseSpeed,
		tickers:   cfg.Tickers,
		logger:    cfg.Logger,
		onUpdate:  cfg.OnUpdate,
		stopChan:  make(chan struct{}),
	}
}

// Start launches the scheduling loop. A scheduler runs at most once.
func (s *Scheduler) Start() error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	s.running.Store(true)
	s.wg.Add(1)
	go s.loop()
	return nil
}

// Stop halts the loop and waits for it to exit. It is safe to call more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
		s.running.Store(false)
	})
}

// Running reports whether the loop is active
func (s *Scheduler) Running() bool {
	return s.running.Load()
}

func (s *Scheduler) loop() {
	defer s.wg.Done()

	level, mode := 1, engine.ModeClassic
	if state := s.target.GetState(); state != nil {
		level, mode = state.Level, state.GameMode
	}

	gravity := s.tickers(engine.GravityInterval(level, s.baseSpeed))
	var clock Ticker
	if mode == engine.ModeTimeAttack {
		clock = s.tickers(ClockInterval)
	}
	defer func() {
		gravity.Stop()
		if clock != nil {
			clock.Stop()
		}
	}()

	for {
		var clockC <-chan time.Time
		if clock != nil {
			clockC = clock.C()
		}

		select {
		case <-s.stopChan:
			return
		case <-gravity.C():
			s.fire(engine.CmdMoveDown)
		case <-clockC:
			s.fire(engine.CmdTickTime)
		}

		state := s.target.GetState()
		if state == nil {
			continue
		}
		if state.Level != level {
			level = state.Level
			gravity.Stop()
			interval := engine.GravityInterval(level, s.baseSpeed)
			gravity = s.tickers(interval)
			s.logger.Debug("gravity re-armed", zap.Int("level", level), zap.Duration("interval", interval))
		}
		wantClock := state.GameMode == engine.ModeTimeAttack
		switch {
		case wantClock && clock == nil:
			clock = s.tickers(ClockInterval)
		case !wantClock && clock != nil:
			clock.Stop()
			clock = nil
		}
	}
}

// fire dispatches a timed command unless the game is paused or over
func (s *Scheduler) fire(cmd engine.CommandType) {
	state := s.target.GetState()
	if state == nil || state.IsPaused || state.IsGameOver {
		return
	}
	next, accepted := s.target.Dispatch(engine.Cmd(cmd))
	if !accepted {
		return
	}
	if next.IsGameOver && !state.IsGameOver {
		s.logger.Info("game over", zap.String("cause", string(cmd)), zap.Int("score", next.Score))
	}
	if s.onUpdate != nil {
		s.onUpdate(next)
	}
}
