// Package session provides session management for blockfall games.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Write-through persistence of game snapshots
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// Each service.Session owns its own engine, the preset it was created from and
// the profile that receives its finished games.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference. IDs are matched
// case-insensitively. Caller-chosen IDs may use letters, digits, '-' and '_'.
//
// Persistence:
//
// FilePersistence keeps one JSON document per session in the sessions
// directory. A restored session rebuilds its engine from the stored preset and
// snapshot; the piece source is freshly seeded.
//
// Usage:
//
//	manager := session.NewManagerWithPersistence(persistence, session.WithLogger(logger))
//
//	sess, err := manager.Create("", config, profile.GuestID)
//	if err != nil {
//		return err
//	}
//
//	// Retrieve existing session, restoring it from disk if needed
//	sess, err = manager.Get(sessionID)
//
// Cleanup:
//
// CleanupExpiredSessions evicts idle sessions from memory. Their files stay on
// disk and are loaded again on the next Get.
package session
