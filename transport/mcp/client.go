package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/mcp-training/blockfall/game/achievements"
	"github.com/wricardo/mcp-training/blockfall/game/engine"
	"github.com/wricardo/mcp-training/blockfall/game/profile"
	"github.com/wricardo/mcp-training/blockfall/game/service"
	"github.com/wricardo/mcp-training/blockfall/game/stats"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Blockfall",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Blockfall - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Stack falling pieces on a 10x20 board and clear full rows. Each mode has its own goal:
classic ends at 1000 points, marathon at 10000, time-attack after 120 seconds and survival
only when the stack reaches the top.

AVAILABLE TOOLS:
- create_session: Create new game session
- list_sessions: List all active sessions
- get_session: Get session details
- game_state: Get the board and the current piece
- send_command: Run one command (move_left, rotate, hard_drop, new_game marathon, ...) - requires intent
- send_commands: Run up to 500 commands at once - requires intent
- preview_drop: What a hard drop would clear and score right now
- undo_history: View the snapshots UNDO_MOVE can return to
- achievements: Session achievements
- game_summary: Performance summary of the current game
- profile: A player's lifetime statistics
- leaderboard: Ranked players
- list_configs: List available presets
- game_instructions: Get comprehensive game instructions and rules

NOTE: The 'intent' parameter on command tools serves as rubber duck debugging - explain your reasoning!`),
	)

	// Register all tools
	c.registerTools()
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func intentProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Explain what you are trying to achieve with these commands",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional preset, mode and player profile",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Preset to use (optional, see list_configs)",
				},
				"mode": map[string]interface{}{
					"type":        "string",
					"description": "Override the preset's mode",
					"enum":        []string{"classic", "time-attack", "survival", "marathon"},
				},
				"profile_id": map[string]interface{}{
					"type":        "string",
					"description": "Player profile credited with finished games (default guest)",
				},
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Custom session ID (optional, generated when empty)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to retrieve",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the board, the falling piece and the score",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "send_command",
		Description: "Run one command: move_left, move_right, move_down, soft_drop, hard_drop, rotate, rotate_counter, hold, pause, resume, tick_time, new_game [mode], restart_game, undo_move, update_colors #RRGGBB ...",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"command": map[string]interface{}{
					"type":        "string",
					"description": "Command text, e.g. 'rotate' or 'new_game marathon'",
				},
				"intent": intentProperty(),
			},
			Required: []string{"session_id", "command", "intent"},
		},
	}, c.handleSendCommand)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "send_commands",
		Description: "Run several commands in order. Stops when the game ends.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"commands": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Command texts, e.g. ['move_left', 'move_left', 'hard_drop']",
				},
				"intent": intentProperty(),
			},
			Required: []string{"session_id", "commands", "intent"},
		},
	}, c.handleSendCommands)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "preview_drop",
		Description: "Show what hard dropping the current piece would clear and score, without moving it",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handlePreviewDrop)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "undo_history",
		Description: "List the snapshots undo_move can return to",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"page": map[string]interface{}{
					"type":        "number",
					"description": "Page number (default 1)",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Entries per page (default 20)",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"description": "desc (newest first, default) or asc",
					"enum":        []string{"asc", "desc"},
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleUndoHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "achievements",
		Description: "List the session's achievements with progress",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleAchievements)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_summary",
		Description: "Performance summary of the session's current game",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGameSummary)

	// Players
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "profile",
		Description: "Get a player's lifetime statistics and recent games",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"profile_id": map[string]interface{}{
					"type":        "string",
					"description": "Profile ID",
				},
			},
			Required: []string{"profile_id"},
		},
	}, c.handleProfile)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "leaderboard",
		Description: "Rank players by high score, games played or highest level",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"category": map[string]interface{}{
					"type":        "string",
					"description": "Ranking category (default high_score)",
					"enum":        []string{"high_score", "game_count", "highest_level"},
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Number of players (default 10)",
				},
			},
		},
	}, c.handleLeaderboard)

	// Configuration
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available game presets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions, scoring rules and strategy tips",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body := map[string]string{}
	for _, key := range []string{"config_id", "mode", "profile_id", "session_id"} {
		if v := request.GetString(key, ""); v != "" {
			body[key] = v
		}
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\nProfile: %s\n\n%s",
		session.ID, session.ConfigName, session.ProfileID, formatGameState(session.GameState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		score, mode := 0, engine.GameMode("")
		if s.GameState != nil {
			score, mode = s.GameState.Score, s.GameState.GameMode
		}
		fmt.Fprintf(&b, "- %s (Config: %s, Mode: %s, Player: %s, Score: %d, Created: %s)\n",
			s.ID, s.ConfigName, mode, s.ProfileID, score, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleSendCommand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")
	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = request.GetString("intent", "")

	cmd, err := engine.ParseCommand(request.GetString("command", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result service.CommandResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/commands"), cmd, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatCommandResult(cmd, &result)), nil
}

func (c *Client) handleSendCommands(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")
	_ = request.GetString("intent", "")

	var lines []string
	if raw, ok := request.GetArguments()["commands"].([]interface{}); ok {
		for _, item := range raw {
			if s, ok := item.(string); ok {
				lines = append(lines, s)
			}
		}
	}
	if len(lines) == 0 {
		return mcp.NewToolResultError("commands must be a non-empty list of command strings"), nil
	}

	body := map[string]interface{}{"commands": lines}

	var result service.BatchResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/batch"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBatchResult(sessionID, &result)), nil
}

func (c *Client) handlePreviewDrop(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatPreview(&state)), nil
}

func (c *Client) handleUndoHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")

	params := url.Values{}
	if page := request.GetInt("page", 0); page > 0 {
		params.Set("page", fmt.Sprint(page))
	}
	if limit := request.GetInt("limit", 0); limit > 0 {
		params.Set("limit", fmt.Sprint(limit))
	}
	if order := request.GetString("order", ""); order != "" {
		params.Set("order", order)
	}
	path := sessionPath(sessionID, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleAchievements(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")

	var response struct {
		Achievements []achievements.Achievement `json:"achievements"`
		Unlocked     int                        `json:"unlocked"`
		Total        int                        `json:"total"`
	}
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/achievements"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Achievements (%d/%d unlocked):\n\n", response.Unlocked, response.Total)
	b.WriteString(formatAchievements(response.Achievements))
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")

	var summary stats.Summary
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/summary"), nil, &summary); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSummary(&summary)), nil
}

func (c *Client) handleProfile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	profileID := request.GetString("profile_id", "")

	var p profile.Profile
	if err := c.apiCall(ctx, "GET", "/api/profiles/"+url.PathEscape(profileID), nil, &p); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatProfile(&p)), nil
}

func (c *Client) handleLeaderboard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := url.Values{}
	if category := request.GetString("category", ""); category != "" {
		params.Set("category", category)
	}
	if limit := request.GetInt("limit", 0); limit > 0 {
		params.Set("limit", fmt.Sprint(limit))
	}
	path := "/api/leaderboard"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var board service.LeaderboardResponse
	if err := c.apiCall(ctx, "GET", path, nil, &board); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Leaderboard (%s):\n\n", board.Category)
	if len(board.Entries) == 0 {
		b.WriteString("(no finished games yet)\n")
	}
	for _, e := range board.Entries {
		fmt.Fprintf(&b, "%d. %s (%s) - %d\n", e.Rank, e.DisplayName, e.ProfileID, e.Value)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, config := range configs {
		speed := "default"
		if config.BaseSpeedMs > 0 {
			speed = fmt.Sprintf("%dms", config.BaseSpeedMs)
		}
		fmt.Fprintf(&b, "• %s (config_id: %s)\n  %s\n  Mode: %s, Colors: %d, Gravity: %s\n\n",
			config.Name, config.ConfigID, config.Description, config.Mode, len(config.Colors), speed)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

const instructions = `Blockfall - Complete Instructions

GAME OBJECTIVE:
Pieces of four cells fall into a board 10 columns wide and 20 rows tall. Move and rotate
the falling piece so that it completes full rows. A full row disappears and everything
above it drops down. The game ends when a new piece cannot appear at the top.

BOARD LEGEND (game_state):
  .  empty cell
  #  settled block
  @  the falling piece
Row 0 is the top of the board. Column 0 is the left edge. New pieces appear around
column 4 on row 0.

PIECES:
I (straight four), O (square), T, S, Z, J and L. The next piece is always shown.

COMMANDS:
  move_left / move_right    shift one column
  move_down / soft_drop     one row down (soft drop scores 1 point)
  hard_drop                 drop to the bottom and lock (2 points per row)
  rotate / rotate_counter   rotate, trying one column left or right when blocked
  hold                      swap with the held piece, once per piece
  pause / resume
  tick_time                 one time-attack clock second
  new_game [mode]           start over, optionally in another mode
  restart_game              start over in the same mode
  undo_move                 return to the board before the last lock
  update_colors #RRGGBB ... choose the palette

SCORING:
  1 row 100, 2 rows 300, 3 rows 500, 4 rows 800
  T-spin clears 800/1200/1600, a back-to-back tetris or T-spin is worth 1.5x
  Consecutive clears add 50 x combo, a clear that empties the board is worth 3000
  Every value grows 10% per level. Time attack doubles points, survival adds 50%.

MODES:
  classic      reach 1000 points
  time-attack  score as much as possible in 120 seconds
  survival     gravity speeds up with every level, no target
  marathon     reach 10000 points

AI AGENTS - STRATEGY:
1. Read the board with game_state before every placement.
2. Use preview_drop to check what a hard drop would clear before committing.
3. Batch a whole placement into one send_commands call, e.g.
   ["rotate", "move_left", "move_left", "hard_drop"].
4. Keep the stack flat and leave one column open for I pieces.
5. Use undo_move after a bad placement; up to 10 placements can be undone.

Good luck!`

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nProfile: %s\nTimers: %v\nCreated: %s\n\n%s",
		session.ID, session.ConfigName, session.ProfileID, session.TimersRunning,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Mode: %s | Score: %d | Level: %d | Lines: %d",
		state.GameMode, state.Score, state.Level, state.Performance.LinesCleared)
	if state.TargetScore > 0 {
		fmt.Fprintf(&b, " | Target: %d", state.TargetScore)
	}
	if state.GameMode == engine.ModeTimeAttack {
		fmt.Fprintf(&b, " | Time left: %ds", state.TimeRemaining)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Current: %s | Next: %s | Hold: %s\n\n",
		pieceName(state.CurrentPiece), pieceName(state.NextPiece), pieceName(state.HoldPiece))

	b.WriteString(renderBoard(state))

	switch {
	case state.IsGameCompleted:
		b.WriteString("\n🎉 GAME COMPLETED!")
	case state.IsGameOver:
		b.WriteString("\n💀 GAME OVER")
	case state.IsPaused:
		b.WriteString("\n⏸ PAUSED")
	}

	return b.String()
}

func pieceName(p *engine.Piece) string {
	if p == nil {
		return "-"
	}
	return p.Type.String()
}

// renderBoard draws the grid with the falling piece on top
func renderBoard(state *engine.GameState) string {
	active := map[engine.Position]bool{}
	if state.CurrentPiece != nil {
		for _, cell := range state.CurrentPiece.Cells() {
			active[cell] = true
		}
	}

	var b strings.Builder
	for y := 0; y < engine.GridHeight; y++ {
		fmt.Fprintf(&b, "%2d ", y)
		for x := 0; x < engine.GridWidth; x++ {
			switch {
			case active[engine.Position{X: x, Y: y}]:
				b.WriteByte('@')
			case state.Grid[y][x] != engine.Empty:
				b.WriteByte('#')
			default:
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	b.WriteString("   0123456789\n")
	return b.String()
}

func formatCommandResult(cmd engine.Command, result *service.CommandResult) string {
	var b strings.Builder
	if result.Accepted {
		fmt.Fprintf(&b, "✓ %s accepted\n", cmd.Type)
	} else {
		fmt.Fprintf(&b, "✗ %s rejected: %s\n", cmd.Type, result.Message)
	}
	b.WriteString(formatEvents(result.Events))
	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatBatchResult(sessionID string, result *service.BatchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session %s: %d/%d commands executed, %d accepted, score %+d\n",
		sessionID, result.Executed, result.Requested, result.Accepted, result.ScoreDelta)
	switch {
	case result.StoppedReason == service.StopGameOver:
		fmt.Fprintf(&b, "Stopped on command %d: the game ended\n", result.StoppedOnCommand)
	case result.Truncated:
		fmt.Fprintf(&b, "Truncated to the first %d commands\n", result.Limit)
	}
	b.WriteString(formatEvents(result.Events))
	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatEvents(events []service.GameEvent) string {
	if len(events) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Events:\n")
	for _, e := range events {
		fmt.Fprintf(&b, "  - %s: %s\n", e.Type, e.Message)
	}
	return b.String()
}

func formatPreview(state *engine.GameState) string {
	result, ok := engine.PreviewLock(state)
	if !ok {
		return "No falling piece to preview"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Hard drop of %s would clear %d line(s) for %d points",
		pieceName(state.CurrentPiece), result.LinesCleared, result.Points)
	var extras []string
	if result.TSpin {
		extras = append(extras, "T-spin")
	}
	if result.BackToBack {
		extras = append(extras, "back-to-back")
	}
	if result.Combo > 1 {
		extras = append(extras, fmt.Sprintf("combo %d", result.Combo))
	}
	if result.PerfectClear {
		extras = append(extras, "perfect clear")
	}
	if len(extras) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(extras, ", "))
	}
	b.WriteString(", not counting drop points\n")
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Undo History (Page %d/%d) - Snapshots: %d\n\n",
		history.Page, history.TotalPages, history.TotalEntries)
	if len(history.Entries) == 0 {
		b.WriteString("(nothing to undo)\n")
	}
	for _, e := range history.Entries {
		fmt.Fprintf(&b, "%d. score %d, level %d, %d filled cells\n",
			e.Index, e.Score, e.Level, e.FilledCells)
	}
	return b.String()
}

func formatAchievements(list []achievements.Achievement) string {
	var b strings.Builder
	for _, a := range list {
		status := "🔒"
		if a.Unlocked {
			status = "✓"
		}
		fmt.Fprintf(&b, "%s %s %s - %s", status, a.Icon, a.Name, a.Description)
		if a.MaxProgress > 0 && !a.Unlocked {
			fmt.Fprintf(&b, " (%d/%d)", a.Progress, a.MaxProgress)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatSummary(s *stats.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Grade %s | Mode: %s | Score: %d | Level: %d\n", s.Grade, s.Mode, s.Score, s.Level)
	fmt.Fprintf(&b, "Play time: %s | Pieces: %d | Lines: %d\n", s.PlayTime, s.PiecesPlaced, s.LinesCleared)
	fmt.Fprintf(&b, "Pieces/min: %.1f | Lines/min: %.1f | Efficiency: %.2f\n",
		s.PiecesPerMinute, s.LinesPerMinute, s.Efficiency)
	fmt.Fprintf(&b, "Clears: %d single, %d double, %d triple, %d tetris\n",
		s.LineClearStats.Singles, s.LineClearStats.Doubles, s.LineClearStats.Triples, s.LineClearStats.Tetrises)
	fmt.Fprintf(&b, "Max combo: %d | Perfect clears: %d | T-spins: %d | Holds: %d\n",
		s.MaxCombo, s.PerfectClears, s.TSpins, s.HoldUsed)
	if s.Finished {
		b.WriteString("Game finished\n")
	}
	return b.String()
}

func formatProfile(p *profile.Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Player: %s (%s)\n", p.DisplayName, p.ID)
	fmt.Fprintf(&b, "Games: %d | High score: %d | Highest level: %d\n",
		p.Stats.GameCount, p.Stats.HighScore, p.Stats.HighestLevel)
	fmt.Fprintf(&b, "Total score: %d | Total lines: %d | Play time: %s\n",
		p.Stats.TotalScore, p.Stats.TotalLines, p.Stats.TotalPlayTime.Round(time.Second))

	if len(p.RecentGames) > 0 {
		b.WriteString("\nRecent games:\n")
		for _, g := range p.RecentGames {
			fmt.Fprintf(&b, "  - %s: %d points, level %d, %d lines (%s)\n",
				g.Mode, g.Score, g.Level, g.LinesCleared, g.PlayTime.Round(time.Second))
		}
	}

	unlocked := 0
	for _, a := range p.Achievements {
		if a.Unlocked {
			unlocked++
		}
	}
	fmt.Fprintf(&b, "\nAchievements: %d/%d unlocked\n", unlocked, len(p.Achievements))
	return b.String()
}
