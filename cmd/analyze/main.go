// Command analyze replays a command script against a seeded engine and prints
// what happened: final score and grade, every named clear, and how often each
// piece type was locked. The same script, preset and seed always produce the
// same report, which makes it handy for comparing agent strategies offline.
//
// Scripts hold one textual command per line; blank lines and lines starting
// with '#' are ignored:
//
//	# drop the first three pieces flat
//	hard_drop
//	move_left
//	hard_drop
//
// Usage:
//
//	analyze --config configs/marathon.json --seed 42 moves.txt
//	analyze -c hard_drop -c rotate -c hard_drop
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/kamstrup/intmap"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/blockfall/game/engine"
	"github.com/wricardo/mcp-training/blockfall/game/stats"
)

// commandInterval is how far the replay clock advances per command
const commandInterval = 250 * time.Millisecond

// replayStart anchors the replay clock so play times are reproducible
var replayStart = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// Replay is the outcome of running a script
type Replay struct {
	Final    *engine.GameState
	Executed int
	Accepted int
	// Stopped is true when the game ended before the script did
	Stopped bool
	// Clears lists the name of every clearing lock in order
	Clears []string

	pieces *intmap.Map[engine.TetrominoType, int]
	sizes  *intmap.Map[int, int]
}

func newReplay() *Replay {
	return &Replay{
		pieces: intmap.New[engine.TetrominoType, int](engine.TetrominoCount),
		sizes:  intmap.New[int, int](4),
	}
}

// PieceCount returns how many pieces of type t were locked
func (r *Replay) PieceCount(t engine.TetrominoType) int {
	n, _ := r.pieces.Get(t)
	return n
}

// ClearCount returns how many locks cleared exactly lines rows
func (r *Replay) ClearCount(lines int) int {
	n, _ := r.sizes.Get(lines)
	return n
}

// observe records the lock, if any, between two consecutive snapshots
func (r *Replay) observe(prev, next *engine.GameState) {
	if prev.CurrentPiece == nil || next.Performance.PiecesPlaced != prev.Performance.PiecesPlaced+1 {
		return
	}
	t := prev.CurrentPiece.Type
	r.pieces.Put(t, r.PieceCount(t)+1)

	lines := next.Performance.LinesCleared - prev.Performance.LinesCleared
	tSpin := next.Performance.TSpins > prev.Performance.TSpins
	if lines > 0 {
		r.sizes.Put(lines, r.ClearCount(lines)+1)
	}
	if name := stats.LineClearName(lines, tSpin); name != "" {
		r.Clears = append(r.Clears, name)
	}
}

// readScript parses one command per line
func readScript(r io.Reader) ([]engine.Command, error) {
	var cmds []engine.Command
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cmd, err := engine.ParseCommand(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		cmds = append(cmds, cmd)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cmds, nil
}

// replay runs cmds from a fresh game and stops early when the game ends
func replay(config *engine.GameConfig, seed uint64, cmds []engine.Command) (*Replay, error) {
	clock := engine.NewMockClock(replayStart)
	game, err := engine.NewEngineWithSources(config, engine.NewSeededRandomizer(seed), clock)
	if err != nil {
		return nil, err
	}

	r := newReplay()
	r.Final = game.GetState()
	for _, cmd := range cmds {
		clock.Advance(commandInterval)
		prev := r.Final
		next, accepted := game.Dispatch(cmd)
		r.Executed++
		if accepted {
			r.Accepted++
			r.observe(prev, next)
		}
		r.Final = next
		if next.IsTerminal() {
			r.Stopped = r.Executed < len(cmds)
			break
		}
	}
	return r, nil
}

// printReport writes a human-readable report of r
func printReport(w io.Writer, r *Replay, now time.Time) {
	summary := stats.Summarize(r.Final, now)
	settings, _ := engine.SettingsFor(summary.Mode)

	fmt.Fprintf(w, "Mode: %s\n", settings.Name)
	fmt.Fprintf(w, "Commands: %d executed, %d accepted\n", r.Executed, r.Accepted)
	if r.Stopped {
		fmt.Fprintln(w, "The game ended before the script did")
	}
	switch {
	case r.Final.IsGameCompleted:
		fmt.Fprintln(w, "Result: completed")
	case r.Final.IsGameOver:
		fmt.Fprintln(w, "Result: game over")
	default:
		fmt.Fprintln(w, "Result: in progress")
	}

	fmt.Fprintf(w, "Score: %d (level %d)\n", summary.Score, summary.Level)
	fmt.Fprintf(w, "Grade: %s\n", summary.Grade)
	fmt.Fprintf(w, "Play time: %s\n", summary.PlayTime)
	fmt.Fprintf(w, "Pieces placed: %d\n", summary.PiecesPlaced)
	fmt.Fprintf(w, "Lines cleared: %d\n", summary.LinesCleared)
	fmt.Fprintf(w, "Max combo: %d, T-spins: %d, perfect clears: %d\n",
		summary.MaxCombo, summary.TSpins, summary.PerfectClears)

	fmt.Fprintln(w, "\nClears by size:")
	for lines := 1; lines <= 4; lines++ {
		fmt.Fprintf(w, "  %-7s %d\n", stats.LineClearName(lines, false), r.ClearCount(lines))
	}
	if len(r.Clears) > 0 {
		fmt.Fprintf(w, "Sequence: %s\n", strings.Join(r.Clears, ", "))
	}

	fmt.Fprintln(w, "\nPiece distribution:")
	for t := engine.TetrominoType(0); int(t) < engine.TetrominoCount; t++ {
		n := r.PieceCount(t)
		fmt.Fprintf(w, "  %s %3d %s\n", t, n, strings.Repeat("#", n))
	}
}

func loadPreset(path string) (*engine.GameConfig, error) {
	if path == "" {
		return engine.DefaultGameConfig(), nil
	}
	return engine.LoadGameConfig(path)
}

func loadCommands(cmd *cli.Command, stdin io.Reader) ([]engine.Command, error) {
	var cmds []engine.Command
	for _, text := range cmd.StringSlice("command") {
		c, err := engine.ParseCommand(text)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, c)
	}

	if script := cmd.Args().First(); script != "" {
		var r io.Reader = stdin
		if script != "-" {
			f, err := os.Open(script)
			if err != nil {
				return nil, err
			}
			defer f.Close()
			r = f
		}
		fromScript, err := readScript(r)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", script, err)
		}
		cmds = append(cmds, fromScript...)
	}

	if len(cmds) == 0 {
		return nil, errors.New("no commands: pass a script file or --command")
	}
	return cmds, nil
}

func newCommand(stdin io.Reader, stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "replay a command script deterministically and report the result",
		ArgsUsage: "[script file, or - for stdin]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "preset JSON file; the built-in classic preset when empty",
			},
			&cli.StringFlag{
				Name:  "mode",
				Usage: "override the preset mode (classic, time-attack, survival, marathon)",
			},
			&cli.Uint64Flag{
				Name:  "seed",
				Value: 1,
				Usage: "piece sequence seed; a seeded preset wins unless this is set",
			},
			&cli.StringSliceFlag{
				Name:    "command",
				Aliases: []string{"c"},
				Usage:   "command to run before the script, repeatable",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			config, err := loadPreset(cmd.String("config"))
			if err != nil {
				return fmt.Errorf("loading preset: %w", err)
			}
			if m := cmd.String("mode"); m != "" {
				mode, err := engine.ParseGameMode(m)
				if err != nil {
					return err
				}
				config.Mode = mode
			}

			seed := cmd.Uint64("seed")
			if !cmd.IsSet("seed") && config.Seed != 0 {
				seed = config.Seed
			}

			cmds, err := loadCommands(cmd, stdin)
			if err != nil {
				return err
			}

			r, err := replay(config, seed, cmds)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "=== %s (seed %d) ===\n", config.Name, seed)
			printReport(stdout, r, replayStart.Add(time.Duration(r.Executed)*commandInterval))
			return nil
		},
	}
}

func main() {
	if err := newCommand(os.Stdin, os.Stdout).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "analyze: %v\n", err)
		os.Exit(1)
	}
}
