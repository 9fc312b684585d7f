// Package api provides HTTP REST API handlers for blockfall.
//
// The api package implements:
//   - Session lifecycle endpoints
//   - Single and batched game commands
//   - Undo history, achievements and end-of-game summaries
//   - Player profiles and leaderboards
//   - Preset listing, lookup and creation
//   - WebSocket upgrade handling
//
// Endpoints:
//
// Sessions:
//   - POST /api/sessions - Create new session
//   - GET /api/sessions - List sessions (sort=created|accessed, order, limit, profile)
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current snapshot
//   - POST /api/sessions/{id}/commands - Run one command
//   - POST /api/sessions/{id}/batch - Run up to 500 commands
//   - GET /api/sessions/{id}/history - Undo snapshots with pagination
//   - GET /api/sessions/{id}/achievements - Session achievements
//   - GET /api/sessions/{id}/summary - Performance summary
//   - POST /api/sessions/{id}/timers/start - Start gravity and clock
//   - POST /api/sessions/{id}/timers/stop - Stop gravity and clock
//
// Players:
//   - GET /api/profiles/{id} - Profile with lifetime stats
//   - GET /api/leaderboard?category=high_score&limit=10 - Ranked profiles
//
// Configuration:
//   - GET /api/modes - Game mode rules
//   - GET /api/configs - List presets
//   - GET /api/configs/{name} - Get a preset
//   - POST /api/configs - Save a preset
//
// Request/Response Format:
//
// All endpoints accept and return JSON. A command is sent as
//
//	{"type": "HARD_DROP"}
//	{"type": "NEW_GAME", "mode": "marathon"}
//	{"type": "UPDATE_COLORS", "colors": ["#FF0000", "#00FF00"]}
//
// A batch takes the same objects, or the textual form of each command:
//
//	{"commands": ["move_left", "rotate", {"type": "HARD_DROP"}]}
//
// A command the game refuses is not an error. The response carries
// "accepted": false with a message explaining why.
//
// Usage:
//
//	server := api.NewServer(gameService, hub, api.WithLogger(logger))
//	http.ListenAndServe(":8080", server)
//
// Error Handling:
//
// Errors are returned as JSON with an HTTP status derived from the
// underlying error (404 unknown session, profile or preset, 409 duplicate
// session ID, 400 invalid input):
//
//	{"error": "error message"}
package api
