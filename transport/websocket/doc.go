// Package websocket provides WebSocket transport for blockfall.
//
// The websocket package implements:
//   - Per-session fan-out of game snapshots and game events
//   - Commands sent by clients as JSON frames
//   - Connection lifecycle management
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub owns all
// connections. Each client runs a read pump and a write pump; the hub loop is
// the only writer to a client's send queue.
//
// Message Protocol:
//
//   - Incoming: {"type": "MOVE_LEFT"}, {"type": "NEW_GAME", "mode": "marathon"},
//     {"type": "UPDATE_COLORS", "colors": ["#FF0000", "#00FF00"]}
//   - Outgoing: {"session_id": "ab12", "event": "state_update", "game_state": {...}}
//     or {"session_id": "ab12", "event": "line_clear", "data": {...}}
//
// A frame that cannot be parsed, or a command the handler refuses, produces an
// "error" event for the sending client only.
//
// Usage:
//
//	hub := websocket.NewHub(
//		websocket.WithLogger(logger),
//		websocket.WithCommandHandler(handler))
//	go hub.Run(ctx)
//
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
package websocket
