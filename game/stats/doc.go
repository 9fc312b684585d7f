// Package stats derives play analytics from game snapshots: rates per minute, clear names,
// a letter grade for the clear mix, and the period keys used to bucket results.
package stats
