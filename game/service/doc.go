// Package service provides the business logic layer for blockfall.
//
// The service package implements:
//   - Multi-session game management
//   - Preset loading with per-session mode overrides
//   - Command dispatch, single and batched, with derived game events
//   - Achievement evaluation and profile bookkeeping for finished games
//   - Gravity and countdown timers per session
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages preset loading and validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. Each session owns its own engine; every command from any
// transport, and every timer tick, goes through the same pipeline so events,
// achievements and persistence behave the same whichever way a game is played.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr,
//		service.WithProfiles(profiles),
//		service.WithLogger(logger))
//
//	info, err := gameService.CreateSession(ctx, service.CreateSessionRequest{ConfigID: "marathon"})
//	if err != nil {
//		return err
//	}
//
//	result, err := gameService.Dispatch(ctx, info.ID, engine.Cmd(engine.CmdHardDrop))
//
// Batches:
//
// DispatchBatch runs up to MaxBatchCommands commands. Once the game is over it
// stops at the first command that cannot recover the game and reports its
// 1-based position.
package service
