package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/wricardo/mcp-training/blockfall/game/engine"
	"github.com/wricardo/mcp-training/blockfall/game/profile"
	"github.com/wricardo/mcp-training/blockfall/game/service"
)

func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("Expected result content, got nil")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	return text.Text
}

func spawnState() *engine.GameState {
	return &engine.GameState{
		CurrentPiece: engine.NewPiece(engine.TetrominoI, "#00FFFF"),
		NextPiece:    engine.NewPiece(engine.TetrominoT, "#FF00FF"),
		Level:        1,
		GameMode:     engine.ModeClassic,
		TargetScore:  1000,
	}
}

func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewClient(baseURL + "/")

	if client == nil {
		t.Fatal("Expected client to be created")
	}

	if client.baseURL != baseURL {
		t.Errorf("Expected baseURL %s, got %s", baseURL, client.baseURL)
	}

	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}

	if client.mcpServer == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "ab12", "score": 5})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response map[string]interface{}
	if err := client.apiCall(context.Background(), "GET", "/api/sessions/ab12", nil, &response); err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}

	if response["id"] != "ab12" {
		t.Errorf("Expected id ab12, got %v", response["id"])
	}
}

func TestClient_apiCall_Error(t *testing.T) {
	client := NewClient("http://invalid-url-that-does-not-exist:9999")

	if err := client.apiCall(context.Background(), "GET", "/api/health", nil, nil); err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{
			name: "plain body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Internal Server Error"))
			},
			want: "API error: 500",
		},
		{
			name: "JSON error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(map[string]string{"error": "session zz99: session not found"})
			},
			want: "session zz99: session not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			err := NewClient(server.URL).apiCall(context.Background(), "GET", "/api/sessions/zz99", nil, nil)
			if err == nil || err.Error() != tt.want {
				t.Errorf("Expected error %q, got %v", tt.want, err)
			}
		})
	}
}

func TestClient_createSession(t *testing.T) {
	var body map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/sessions" {
			t.Errorf("Expected POST /api/sessions, got %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&body)

		resp := service.SessionInfo{
			ID:         "test-session-123",
			ConfigName: "marathon",
			ProfileID:  "ana",
			GameState:  spawnState(),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleCreateSession(context.Background(), callRequest("create_session", map[string]interface{}{
		"config_id":  "marathon",
		"profile_id": "ana",
	}))
	if err != nil {
		t.Fatalf("createSession failed: %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "test-session-123") || !strings.Contains(text, "Profile: ana") {
		t.Errorf("Expected session details in result, got: %s", text)
	}
	if body["config_id"] != "marathon" || body["profile_id"] != "ana" {
		t.Errorf("Expected config and profile to be forwarded, got %v", body)
	}
	if _, ok := body["mode"]; ok {
		t.Errorf("Expected empty arguments to be omitted, got %v", body)
	}
}

func TestClient_sendCommand(t *testing.T) {
	var got engine.Command
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sessions/ab12/commands" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)

		resp := service.CommandResult{Accepted: true, GameState: spawnState()}
		if got.Type == engine.CmdUndoMove {
			resp = service.CommandResult{Accepted: false, GameState: spawnState(), Message: "nothing to undo"}
		}
		if got.Type == engine.CmdNewGame {
			resp.Events = []service.GameEvent{{Type: service.EventNewGame, Message: "New marathon game"}}
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	t.Run("new game with mode", func(t *testing.T) {
		result, _ := client.handleSendCommand(ctx, callRequest("send_command", map[string]interface{}{
			"session_id": "ab12",
			"command":    "new_game marathon",
			"intent":     "start a long game",
		}))
		text := resultText(t, result)
		if got.Type != engine.CmdNewGame || got.Mode != engine.ModeMarathon {
			t.Errorf("Expected NEW_GAME marathon to be sent, got %+v", got)
		}
		if !strings.Contains(text, "✓ NEW_GAME accepted") || !strings.Contains(text, "new_game: New marathon game") {
			t.Errorf("Unexpected output: %s", text)
		}
	})

	t.Run("rejected", func(t *testing.T) {
		result, _ := client.handleSendCommand(ctx, callRequest("send_command", map[string]interface{}{
			"session_id": "ab12",
			"command":    "UNDO_MOVE",
		}))
		if text := resultText(t, result); !strings.Contains(text, "✗ UNDO_MOVE rejected: nothing to undo") {
			t.Errorf("Unexpected output: %s", text)
		}
	})

	t.Run("unknown command stays local", func(t *testing.T) {
		got = engine.Command{}
		result, _ := client.handleSendCommand(ctx, callRequest("send_command", map[string]interface{}{
			"session_id": "ab12",
			"command":    "teleport",
		}))
		if !result.IsError {
			t.Error("Expected an error result")
		}
		if got.Type != "" {
			t.Errorf("Expected no request, got %+v", got)
		}
	})
}

func TestClient_sendCommands(t *testing.T) {
	var body struct {
		Commands []string `json:"commands"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sessions/ab12/batch" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&body)

		over := spawnState()
		over.IsGameOver = true
		json.NewEncoder(w).Encode(service.BatchResult{
			Requested:        len(body.Commands),
			Executed:         2,
			Accepted:         2,
			ScoreDelta:       76,
			GameState:        over,
			StoppedReason:    service.StopGameOver,
			StoppedOnCommand: 3,
			Events:           []service.GameEvent{{Type: service.EventGameOver, Message: "Game over"}},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	result, _ := client.handleSendCommands(context.Background(), callRequest("send_commands", map[string]interface{}{
		"session_id": "ab12",
		"commands":   []interface{}{"move_left", "hard_drop", "hard_drop"},
		"intent":     "stack on the left",
	}))
	text := resultText(t, result)

	if strings.Join(body.Commands, ",") != "move_left,hard_drop,hard_drop" {
		t.Errorf("Expected commands to be forwarded verbatim, got %v", body.Commands)
	}
	for _, want := range []string{"2/3 commands executed", "score +76", "Stopped on command 3", "💀 GAME OVER"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in output, got: %s", want, text)
		}
	}

	t.Run("empty list", func(t *testing.T) {
		result, _ := client.handleSendCommands(context.Background(), callRequest("send_commands", map[string]interface{}{
			"session_id": "ab12",
			"commands":   []interface{}{},
		}))
		if !result.IsError {
			t.Error("Expected an error result")
		}
	})
}

func TestClient_undoHistoryQuery(t *testing.T) {
	var query string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		json.NewEncoder(w).Encode(service.HistoryResponse{
			Entries:      []service.HistoryItem{{Index: 1, Score: 36, Level: 1, FilledCells: 8}},
			TotalEntries: 2,
			Page:         1,
			PageSize:     1,
			TotalPages:   2,
		})
	}))
	defer server.Close()

	result, _ := NewClient(server.URL).handleUndoHistory(context.Background(), callRequest("undo_history", map[string]interface{}{
		"session_id": "ab12",
		"limit":      float64(1),
		"order":      "asc",
	}))
	text := resultText(t, result)

	if query != "limit=1&order=asc" {
		t.Errorf("Expected limit and order in query, got %q", query)
	}
	if !strings.Contains(text, "Page 1/2") || !strings.Contains(text, "1. score 36, level 1, 8 filled cells") {
		t.Errorf("Unexpected output: %s", text)
	}
}

func TestClient_leaderboard(t *testing.T) {
	var query string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		json.NewEncoder(w).Encode(service.LeaderboardResponse{
			Category: profile.ByGameCount,
			Entries:  []profile.Entry{{Rank: 1, ProfileID: "ana", DisplayName: "Ana", Value: 4}},
		})
	}))
	defer server.Close()

	result, _ := NewClient(server.URL).handleLeaderboard(context.Background(), callRequest("leaderboard", map[string]interface{}{
		"category": "game_count",
	}))

	if query != "category=game_count" {
		t.Errorf("Unexpected query %q", query)
	}
	if text := resultText(t, result); !strings.Contains(text, "1. Ana (ana) - 4") {
		t.Errorf("Unexpected output: %s", text)
	}
}

func TestFormatGameState(t *testing.T) {
	state := spawnState()
	state.Score = 420
	state.Grid[19][0] = "#FF0000"
	state.HoldPiece = engine.NewPiece(engine.TetrominoO, "#FFFF00")

	result := formatGameState(state)

	expectedFields := []string{
		"Mode: classic",
		"Score: 420",
		"Target: 1000",
		"Current: I | Next: T | Hold: O",
		" 1 ....@@@@..",
		"19 #.........",
		"   0123456789",
	}

	for _, field := range expectedFields {
		if !strings.Contains(result, field) {
			t.Errorf("Expected field '%s' in formatted output, got: %s", field, result)
		}
	}
}

func TestFormatGameState_Endings(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*engine.GameState)
		want   string
	}{
		{"game over", func(s *engine.GameState) { s.IsGameOver = true; s.CurrentPiece = nil }, "💀 GAME OVER"},
		{"completed", func(s *engine.GameState) { s.IsGameCompleted = true }, "🎉 GAME COMPLETED!"},
		{"paused", func(s *engine.GameState) { s.IsPaused = true }, "⏸ PAUSED"},
		{"time attack clock", func(s *engine.GameState) {
			s.GameMode = engine.ModeTimeAttack
			s.TargetScore = 0
			s.TimeRemaining = 42
		}, "Time left: 42s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := spawnState()
			tt.modify(state)
			if result := formatGameState(state); !strings.Contains(result, tt.want) {
				t.Errorf("Expected %q in result, got: %s", tt.want, result)
			}
		})
	}

	if formatGameState(nil) != "No game state available" {
		t.Error("Expected placeholder for a nil state")
	}
}

func TestFormatPreview(t *testing.T) {
	state := spawnState()
	// The I piece covers columns 4-7 and completes the bottom row; the residue keeps it from
	// being a perfect clear.
	for x := 0; x < engine.GridWidth; x++ {
		if x < 4 || x > 7 {
			state.Grid[19][x] = "#FF0000"
		}
	}
	state.Grid[18][0] = "#FF0000"

	result := formatPreview(state)
	if !strings.Contains(result, "would clear 1 line(s) for 110 points") {
		t.Errorf("Unexpected preview: %s", result)
	}

	state.CurrentPiece = nil
	if formatPreview(state) != "No falling piece to preview" {
		t.Error("Expected placeholder without a falling piece")
	}
}

func TestClient_handleGameInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")

	result, err := client.handleGameInstructions(context.Background(), callRequest("game_instructions", map[string]interface{}{}))
	if err != nil {
		t.Fatalf("handleGameInstructions failed: %v", err)
	}

	text := resultText(t, result)
	expectedContent := []string{
		"Blockfall - Complete Instructions",
		"GAME OBJECTIVE:",
		"BOARD LEGEND (game_state):",
		"COMMANDS:",
		"SCORING:",
		"MODES:",
		"AI AGENTS - STRATEGY:",
		"Good luck!",
	}

	for _, content := range expectedContent {
		if !strings.Contains(text, content) {
			t.Errorf("Expected '%s' in instructions, got: %s", content, text)
		}
	}
}
