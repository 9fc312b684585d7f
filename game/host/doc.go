// Package host drives a game in real time.
//
// The engine owns no timers. A Scheduler attaches to a Target (anything that exposes the
// current snapshot and accepts commands) and issues MOVE_DOWN at the gravity interval of the
// current level and, in time-attack, TICK_TIME once per second. The gravity ticker is
// re-armed whenever the level changes and the clock ticker follows the current mode. Nothing
// fires while the game is paused or over.
//
// Tickers come from a TickerFactory so tests can drive the loop by hand.
package host
