// Command play runs blockfall in the terminal. The engine is driven locally: keys become
// commands and a host.Scheduler supplies gravity and the time-attack clock.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/wricardo/mcp-training/blockfall/game/engine"
	"github.com/wricardo/mcp-training/blockfall/game/host"
)

var (
	configPath = flag.String("config", "", "Preset JSON file (default: built-in classic preset)")
	modeName   = flag.String("mode", "", "Override the preset mode: classic, time-attack, survival, marathon")
	seed       = flag.Uint64("seed", 0, "Piece sequence seed (0 uses the preset seed or the clock)")
	logPath    = flag.String("log", "", "Write debug logs to this file")
)

var keyHelp = []string{
	"←/→   move",
	"↓     soft drop",
	"space hard drop",
	"↑/x   rotate",
	"z     rotate back",
	"c     hold",
	"p     pause",
	"u     undo",
	"q     quit",
}

func secondsToDuration(s int) time.Duration {
	return time.Duration(s) * time.Second
}

// keyToCommand maps a key press to a command for the current state. ok is false for keys
// without a binding.
func keyToCommand(ev *tcell.EventKey, state *engine.GameState) (cmd engine.Command, ok bool) {
	switch ev.Key() {
	case tcell.KeyLeft:
		return engine.Cmd(engine.CmdMoveLeft), true
	case tcell.KeyRight:
		return engine.Cmd(engine.CmdMoveRight), true
	case tcell.KeyDown:
		return engine.Cmd(engine.CmdSoftDrop), true
	case tcell.KeyUp:
		return engine.Cmd(engine.CmdRotate), true
	case tcell.KeyRune:
	default:
		return engine.Command{}, false
	}

	switch r := ev.Rune(); r {
	case ' ':
		return engine.Cmd(engine.CmdHardDrop), true
	case 'x', 'X':
		return engine.Cmd(engine.CmdRotate), true
	case 'z', 'Z':
		return engine.Cmd(engine.CmdRotateCounter), true
	case 'c', 'C':
		return engine.Cmd(engine.CmdHold), true
	case 'p', 'P':
		if state.IsPaused {
			return engine.Cmd(engine.CmdResume), true
		}
		return engine.Cmd(engine.CmdPause), true
	case 'u', 'U':
		return engine.Cmd(engine.CmdUndoMove), true
	case 'r', 'R':
		return engine.Cmd(engine.CmdRestartGame), true
	case '1', '2', '3', '4':
		return engine.NewGame(engine.Modes()[r-'1'].Mode), true
	}
	return engine.Command{}, false
}

func isQuit(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' || ev.Rune() == 'Q'
	}
	return false
}

// Player couples one engine to one screen
type Player struct {
	screen    tcell.Screen
	game      *engine.GameEngine
	scheduler *host.Scheduler
	logger    *zap.Logger
	updates   chan struct{}
}

// NewPlayer creates a player. The scheduler is started by Run.
func NewPlayer(screen tcell.Screen, game *engine.GameEngine, logger *zap.Logger) *Player {
	p := &Player{
		screen:  screen,
		game:    game,
		logger:  logger,
		updates: make(chan struct{}, 1),
	}
	p.scheduler = host.NewScheduler(game, host.Config{
		BaseSpeed: game.GetConfig().BaseSpeed(),
		Logger:    logger,
		OnUpdate:  func(*engine.GameState) { p.notify() },
	})
	return p
}

// notify requests a redraw without blocking the scheduler
func (p *Player) notify() {
	select {
	case p.updates <- struct{}{}:
	default:
	}
}

// HandleKey applies a key press. It returns false when the player asked to quit.
func (p *Player) HandleKey(ev *tcell.EventKey) bool {
	if isQuit(ev) {
		return false
	}
	cmd, ok := keyToCommand(ev, p.game.GetState())
	if !ok {
		return true
	}
	next, accepted := p.game.Dispatch(cmd)
	p.logger.Debug("key",
		zap.String("command", string(cmd.Type)),
		zap.Bool("accepted", accepted),
		zap.Int("score", next.Score))
	return true
}

// Run draws and processes input until the player quits
func (p *Player) Run() error {
	if err := p.scheduler.Start(); err != nil {
		return err
	}
	defer p.scheduler.Stop()

	events := make(chan tcell.Event, 16)
	go func() {
		// PollEvent returns nil once the screen is finalized
		for ev := p.screen.PollEvent(); ev != nil; ev = p.screen.PollEvent() {
			events <- ev
		}
		close(events)
	}()

	render(p.screen, p.game.GetState())
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !p.HandleKey(ev) {
					return nil
				}
			case *tcell.EventResize:
				p.screen.Sync()
			}
		case <-p.updates:
		}
		render(p.screen, p.game.GetState())
	}
}

func newLogger(path string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	return cfg.Build()
}

func newEngine() (*engine.GameEngine, error) {
	config := engine.DefaultGameConfig()
	if *configPath != "" {
		loaded, err := engine.LoadGameConfig(*configPath)
		if err != nil {
			return nil, fmt.Errorf("loading preset: %w", err)
		}
		config = loaded
	}
	if *modeName != "" {
		mode, err := engine.ParseGameMode(*modeName)
		if err != nil {
			return nil, err
		}
		config.Mode = mode
	}

	rng := engine.NewTimeSeededRandomizer()
	switch {
	case *seed != 0:
		rng = engine.NewSeededRandomizer(*seed)
	case config.Seed != 0:
		rng = engine.NewSeededRandomizer(config.Seed)
	}
	return engine.NewEngineWithSources(config, rng, engine.SystemClock{})
}

func run() error {
	logger, err := newLogger(*logPath)
	if err != nil {
		return err
	}
	defer logger.Sync()

	game, err := newEngine()
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	logger.Info("starting", zap.String("mode", string(game.GetState().GameMode)))
	err = NewPlayer(screen, game, logger).Run()

	final := game.GetState()
	logger.Info("finished", zap.Int("score", final.Score), zap.Int("level", final.Level))
	return err
}

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "play: %v\n", err)
		os.Exit(1)
	}
}
