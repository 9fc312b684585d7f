// Package mcp provides a Model Context Protocol server for blockfall.
//
// The MCP server is a thin proxy: every tool call becomes a request to the
// REST API, so agents see exactly the sessions that HTTP and WebSocket
// clients see.
//
// MCP Tools:
//   - create_session, list_sessions, get_session: session lifecycle
//   - game_state: the board as text, with the falling piece drawn as '@'
//   - send_command: one command in textual form, e.g. "new_game marathon"
//   - send_commands: a batch of textual commands, stopped when the game ends
//   - preview_drop: points and lines a hard drop would produce right now
//   - undo_history: the snapshots UNDO_MOVE can restore
//   - achievements, game_summary: per-session progress and analytics
//   - profile, leaderboard: lifetime player statistics
//   - list_configs: available presets
//   - game_instructions: rules, scoring and strategy for agents
//
// Command tools take an "intent" argument. It is not interpreted; asking the
// agent to state its plan tends to improve its play.
//
// Transport Modes:
//   - Stdio: server.ServeStdio(client.GetMCPServer())
//   - HTTP: the /mcp endpoint of the main server passes JSON-RPC bodies to
//     GetMCPServer().HandleMessage
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
