// Package engine provides the core rules of the falling-block game.
//
// The engine package implements:
//   - The 20x10 grid, the seven tetrominoes and their rotations
//   - Move validation against walls, floor and locked cells
//   - A command processor covering movement, rotation with wall kicks, drops, hold,
//     pause, the time-attack clock, new game, restart, undo and palette updates
//   - Locking, line clears, perfect clears, T-spin detection, combos and back-to-back
//   - Scoring, per-mode progression and completion rules
//   - A bounded undo history
//
// Core Types:
//
// GameState is an immutable snapshot. Processor.Apply maps (GameState, Command) to a new
// GameState and returns the same pointer when a command is rejected. GameEngine wraps a
// Processor with the current snapshot of one game. GameConfig is a named preset (mode,
// palette, base speed, optional seed) loaded from JSON.
//
// Usage:
//
//	config, err := engine.LoadConfigByName("marathon")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine, err := engine.NewEngine(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	state, accepted := gameEngine.Dispatch(engine.Cmd(engine.CmdRotate))
//	state, _ = gameEngine.Dispatch(engine.Cmd(engine.CmdHardDrop))
//
// Determinism:
//
// Randomness comes from a Randomizer and time from a Clock, both injected. With a seeded
// randomizer and a MockClock a command sequence always produces the same snapshots. The
// engine owns no timers: hosts issue MOVE_DOWN at GravityInterval(level, base) and, in
// time-attack, TICK_TIME once per second.
package engine
