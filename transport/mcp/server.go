package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/mcp-training/samegame/game/engine"
	"github.com/wricardo/mcp-training/samegame/game/service"
	"github.com/wricardo/mcp-training/samegame/internal/ctxlog"
	"github.com/wricardo/mcp-training/samegame/internal/render"
)

// Server exposes a GameService as MCP tools
type Server struct {
	svc       service.GameService
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

type toolHandler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// NewServer creates an MCP server backed in-process by svc
func NewServer(svc service.GameService, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		svc:    svc,
		logger: logger,
	}

	s.initMCPServer()
	return s
}

// initMCPServer initializes the MCP server with all tools
func (s *Server) initMCPServer() {
	s.mcpServer = server.NewMCPServer(
		"Same Game",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Same Game - MCP Interface

GAME OBJECTIVE:
Remove groups of two or more same-colored tiles. Every column you empty
scores one point and is refilled with new tiles.

AVAILABLE TOOLS:
- create_session: Create new game session
- list_sessions: List all active sessions
- get_session: Get session details
- game_state: Get current board and score
- move: Click one cell (row, col) - requires intent explanation
- bulk_move: Click several cells in order - requires intent explanation
- reset_game: Start a new board in the same session
- move_history: View past clicks
- list_configs: List available board presets
- game_instructions: Get the full rules
- describe_cell: Inspect one cell and the group it belongs to

Row 0 is the BOTTOM row. Boards are printed top row first with row labels.

NOTE: The 'intent' parameter on move/bulk_move tools serves as rubber duck debugging - explain your reasoning!`),
	)

	s.registerTools()
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	// Session management
	s.addTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional preset selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_name": map[string]interface{}{
					"type":        "string",
					"description": "Preset to use (optional, see list_configs)",
				},
			},
		},
	}, s.handleCreateSession)

	s.addTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleListSessions)

	s.addTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, s.handleGetSession)

	// Game operations
	s.addTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current board, score and available groups",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, s.handleGameState)

	s.addTool(mcp.Tool{
		Name:        "move",
		Description: "Click a cell. Removes its group when it has at least one same-colored neighbor.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"row": map[string]interface{}{
					"type":        "integer",
					"description": "Row to click (0 is the bottom row)",
				},
				"col": map[string]interface{}{
					"type":        "integer",
					"description": "Column to click (0 is the leftmost column)",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Reset before moving",
				},
			},
			Required: []string{"session_id", "row", "col"},
		},
	}, s.handleMove)

	s.addTool(mcp.Tool{
		Name:        "bulk_move",
		Description: fmt.Sprintf("Click several cells in sequence (max %d). Coordinates refer to the board as it is when each click happens.", engine.MaxBulkMoves),
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"moves": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"row": map[string]interface{}{"type": "integer"},
							"col": map[string]interface{}{"type": "integer"},
						},
						"required": []string{"row", "col"},
					},
					"description": "Array of {row, col} clicks",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this sequence of moves (serves as a rubber duck to help explain your reasoning)",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Reset before moving",
				},
			},
			Required: []string{"session_id", "moves"},
		},
	}, s.handleBulkMove)

	s.addTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Start a new board in the session. Move history is kept.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, s.handleReset)

	s.addTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get move history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page (max 100)",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "asc for oldest first, desc for newest first",
				},
			},
			Required: []string{"session_id"},
		},
	}, s.handleMoveHistory)

	s.addTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available board presets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleListConfigs)

	s.addTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleGameInstructions)

	s.addTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Get the color of one cell and the group a click there would remove",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"row": map[string]interface{}{
					"type":        "integer",
					"description": "Row of the cell (0 is the bottom row)",
				},
				"col": map[string]interface{}{
					"type":        "integer",
					"description": "Column of the cell (0-based)",
				},
			},
			Required: []string{"session_id", "row", "col"},
		},
	}, s.handleDescribeCell)
}

// addTool registers a handler with the server logger attached to its context
func (s *Server) addTool(tool mcp.Tool, handler toolHandler) {
	logger := s.logger.With("tool", tool.Name)
	s.mcpServer.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handler(ctxlog.WithLogger(ctx, logger), request)
	})
}

// ServeStdio serves the tools over stdin/stdout until the input closes
func (s *Server) ServeStdio() error {
	s.logger.Info("serving MCP over stdio")
	return server.ServeStdio(s.mcpServer)
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	return args
}

// intArg reads a JSON number argument
func intArg(args map[string]interface{}, name string) (int, bool) {
	switch v := args[name].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	default:
		return 0, false
	}
}

func (s *Server) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	configName, _ := args["config_name"].(string)

	session, err := s.svc.CreateSession(ctx, configName)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n\n%s", session.ID, session.ConfigName, formatGameState(session.GameState))
	return mcp.NewToolResultText(result), nil
}

func (s *Server) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessions, err := s.svc.ListSessions(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", len(sessions))
	for _, sess := range sessions {
		fmt.Fprintf(&b, "- %s (Config: %s, Score: %d, Created: %s)\n",
			sess.ID, sess.ConfigName, sess.GameState.Score, sess.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	session, err := s.svc.GetSession(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(session)), nil
}

func (s *Server) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	state, err := s.svc.GetGameState(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(state)), nil
}

func (s *Server) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	intent, _ := args["intent"].(string)
	reset, _ := args["reset"].(bool)

	row, okRow := intArg(args, "row")
	col, okCol := intArg(args, "col")
	if !okRow || !okCol {
		return mcp.NewToolResultError("row and col are required integers"), nil
	}

	ctxlog.FromContext(ctx).Debug("move requested", "session", sessionID, "row", row, "col", col, "intent", intent)

	result, err := s.svc.Move(ctx, sessionID, row, col, reset)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(result)), nil
}

func (s *Server) handleBulkMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	movesRaw, _ := args["moves"].([]interface{})
	intent, _ := args["intent"].(string)
	reset, _ := args["reset"].(bool)

	moves, err := parseMoves(movesRaw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ctxlog.FromContext(ctx).Debug("bulk move requested", "session", sessionID, "moves", len(moves), "intent", intent)

	result, err := s.svc.BulkMove(ctx, sessionID, moves, reset)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBulkMoveResult(sessionID, result)), nil
}

// parseMoves accepts {row, col} objects or [row, col] pairs
func parseMoves(raw []interface{}) ([]engine.Position, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("moves must be a non-empty array of {row, col}")
	}

	moves := make([]engine.Position, 0, len(raw))
	for i, m := range raw {
		switch v := m.(type) {
		case map[string]interface{}:
			row, okRow := intArg(v, "row")
			col, okCol := intArg(v, "col")
			if !okRow || !okCol {
				return nil, fmt.Errorf("move %d: row and col are required integers", i+1)
			}
			moves = append(moves, engine.Position{Row: row, Col: col})
		case []interface{}:
			if len(v) != 2 {
				return nil, fmt.Errorf("move %d: expected [row, col]", i+1)
			}
			row, okRow := v[0].(float64)
			col, okCol := v[1].(float64)
			if !okRow || !okCol {
				return nil, fmt.Errorf("move %d: expected [row, col]", i+1)
			}
			moves = append(moves, engine.Position{Row: int(row), Col: int(col)})
		default:
			return nil, fmt.Errorf("move %d: expected {row, col}", i+1)
		}
	}
	return moves, nil
}

func (s *Server) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	state, err := s.svc.Reset(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Game reset with a new board\n\n%s", formatGameState(state))
	return mcp.NewToolResultText(result), nil
}

func (s *Server) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	opts := service.HistoryOptions{}
	if page, ok := intArg(args, "page"); ok {
		opts.Page = page
	}
	if limit, ok := intArg(args, "limit"); ok {
		opts.Limit = limit
	}
	opts.Order, _ = args["order"].(string)

	history, err := s.svc.GetMoveHistory(ctx, sessionID, opts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatHistory(history)

	// Also show the current segment from live state
	if state, err := s.svc.GetGameState(ctx, sessionID); err == nil {
		result += "\n" + formatCurrentSegment(state)
	}
	return mcp.NewToolResultText(result), nil
}

func (s *Server) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	configs, err := s.svc.ListConfigs(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Presets:\n\n")
	for _, config := range configs {
		kind := "random"
		if config.Fixed {
			kind = "fixed layout"
		}
		fmt.Fprintf(&b, "• %s (config_name: %s)\n  %s\n  Board: %dx%d, Colors: %d, %s\n\n",
			config.Name, config.ConfigID, config.Description, config.Width, config.Width, config.Colors, kind)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Same Game - Complete Instructions

BOARD:
• A square board of colored tiles. Colors are digits 1..K, '.' is an empty cell.
• Coordinates are (row, col). Row 0 is the BOTTOM row, col 0 the LEFT column.
• Boards are printed top row first, each line labeled with its row number.

MOVES:
• Click a tile that touches (up/down/left/right) at least one tile of the same color.
• The whole connected group of that color is removed.
• A click on an empty cell or a lone tile does nothing and is recorded as invalid.

AFTER A MOVE:
1. Gravity: tiles fall straight down into empty cells.
2. Compaction: empty columns slide to the right, so tiles shift left.
3. Scoring: +1 point for each completely empty column.
4. Refill: each empty column is filled with new random tiles.

GAME OVER:
• The game ends when no tile touches a same-colored neighbor.

STRATEGY:
• Points only come from emptying whole columns, not from group size.
• Narrow columns of one color are worth more than big groups spread across columns.
• Use describe_cell to preview the group a click would remove.
• bulk_move applies clicks in order; later coordinates must refer to the board after earlier clicks.`

	return mcp.NewToolResultText(instructions), nil
}

func (s *Server) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	row, okRow := intArg(args, "row")
	col, okCol := intArg(args, "col")
	if !okRow || !okCol {
		return mcp.NewToolResultError("row and col are required integers"), nil
	}

	state, err := s.svc.GetGameState(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	width := state.Width
	if row < 0 || row >= width || col < 0 || col >= width {
		return mcp.NewToolResultError(fmt.Sprintf("Cell (%d, %d) is out of bounds. Board is %dx%d (0-%d for both row and col)",
			row, col, width, width, width-1)), nil
	}

	return mcp.NewToolResultText(describeCell(state, row, col)), nil
}

// describeCell reports a cell's color and the group a click there removes
func describeCell(state *engine.GameState, row, col int) string {
	tile := state.Grid[row][col]

	var b strings.Builder
	fmt.Fprintf(&b, "Cell (%d, %d)\n", row, col)
	if tile == engine.Empty {
		b.WriteString("Color: . (empty)\nClicking here does nothing.\n")
		return b.String()
	}

	board, err := engine.NewBoardFromRows(state.Grid, engine.MaxColors, engine.NewFixedSource())
	group := []engine.Position{{Row: row, Col: col}}
	if err == nil {
		if region := board.Region(row, col); len(region) > 0 {
			group = region
		}
	}
	fmt.Fprintf(&b, "Color: %d\nGroup size: %d\n", tile, len(group))
	if len(group) < 2 || state.GameOver || err != nil {
		b.WriteString("Valid move: no\n")
		return b.String()
	}

	// Play the click on a copy; refills draw from a fixed source and are
	// not reported.
	outcome := board.Clone().Apply(row, col)
	emptied := outcome.ClearedColumns - engine.CountEmptyColumns(board)
	fmt.Fprintf(&b, "Valid move: yes\nColumns emptied by this click: %d\nScore for this click: %d\nGroup cells:",
		emptied, outcome.ScoreDelta)
	for _, p := range group {
		fmt.Fprintf(&b, " (%d,%d)", p.Row, p.Col)
	}
	b.WriteByte('\n')
	return b.String()
}

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Board: %dx%d | Colors: %d | Score: %d | Tiles removed: %d | Groups: %d | Moves: %d\n\n",
		state.Width, state.Width, state.Colors, state.Score, state.TilesRemoved, state.AvailableGroups, state.TotalMoves)

	b.WriteString(render.FormatBoard(state.Grid))

	if state.GameOver {
		b.WriteString("\nGAME OVER")
	}
	if state.Message != "" {
		fmt.Fprintf(&b, "\nMessage: %s", state.Message)
	}

	return b.String()
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder
	if result.Success {
		fmt.Fprintf(&b, "✓ Removed %d tiles of color %d at (%d,%d)\n",
			result.Outcome.Removed, result.Outcome.Color, result.Position.Row, result.Position.Col)
	} else {
		fmt.Fprintf(&b, "✗ No group at (%d,%d)\n", result.Position.Row, result.Position.Col)
	}

	if len(result.Events) > 0 {
		b.WriteString("Events:\n")
		for _, event := range result.Events {
			fmt.Fprintf(&b, "- %s: %s\n", event.Type, event.Message)
		}
	}

	b.WriteString("\n" + formatGameState(result.GameState))
	return b.String()
}

func formatBulkMoveResult(sessionID string, result *service.BulkMoveResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Session: %s\n", sessionID)
	fmt.Fprintf(&b, "Executed %d/%d moves (%d removed a group)\n",
		result.MovesExecuted, result.RequestedMoves, result.Applied)
	if result.Truncated {
		fmt.Fprintf(&b, "Truncated to the first %d moves\n", result.Limit)
	}
	fmt.Fprintf(&b, "Score: %d → %d (%+d), tiles removed: %d\n",
		result.StartScore, result.EndScore, result.ScoreDelta, result.TilesRemoved)

	for i, outcome := range result.Outcomes {
		status := "✗"
		if outcome.Applied {
			status = "✓"
		}
		fmt.Fprintf(&b, "%d. %s removed=%d cleared=%d\n", i+1, status, outcome.Removed, outcome.ClearedColumns)
	}

	if result.StopReasonCode == service.StopGameOver {
		fmt.Fprintf(&b, "Stopped: game over after move %d\n", result.StoppedOnMove)
	}

	if len(result.PossibleMoves) > 0 {
		b.WriteString("Groups to click:")
		for _, p := range result.PossibleMoves {
			fmt.Fprintf(&b, " (%d,%d)", p.Row, p.Col)
		}
		b.WriteByte('\n')
	}

	b.WriteString("\n" + formatGameState(result.GameState))
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Move History (Page %d/%d) | Total (cumulative): %d\n\n",
		history.Page, history.TotalPages, history.TotalMoves)

	for _, move := range history.Moves {
		b.WriteString(formatHistoryEntry(move.MoveNumber, move))
	}

	return b.String()
}

func formatCurrentSegment(state *engine.GameState) string {
	if state == nil {
		return "Current Segment: unavailable"
	}
	header := fmt.Sprintf("Current Move Segment | Moves: %d\n\n", state.CurrentMovesCount)
	if len(state.CurrentMoves) == 0 {
		return header + "(no moves in current segment)"
	}

	var b strings.Builder
	b.WriteString(header)
	for i, move := range state.CurrentMoves {
		b.WriteString(formatHistoryEntry(i+1, move))
	}
	return b.String()
}

func formatHistoryEntry(num int, move engine.MoveHistoryEntry) string {
	status := "✓"
	if !move.Success {
		status = "✗"
	}
	return fmt.Sprintf("%d. (%d,%d) %s removed=%d [Score: %d]\n",
		num, move.Position.Row, move.Position.Col, status, move.Removed, move.Score)
}
