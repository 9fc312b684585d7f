// Package achievements evaluates the fixed achievement list against game snapshots.
//
// Evaluate is pure: given a snapshot, the player's prior records and the totals of the
// player's earlier games, it returns only the records that changed. A record is emitted when
// it unlocks, stamped with the evaluation time and full progress, or when its progress rises
// while still locked. Unlocked records are never emitted again and never re-lock.
//
// Merge folds those changes back into a player's full record list.
package achievements
