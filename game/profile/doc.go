// Package profile keeps player profiles: lifetime statistics, achievement records and
// recent game results, persisted as one JSON file per player, plus the leaderboards
// computed from them.
package profile
