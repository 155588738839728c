// Package mcp exposes the Same Game service as Model Context Protocol tools
// over stdio.
//
// The server calls a service.GameService in-process. Tools:
//   - create_session, list_sessions, get_session: session lifecycle
//   - game_state: board, score and group count
//   - move: click one (row, col); requires an intent explanation
//   - bulk_move: click several cells in order
//   - reset_game: start a new board, keeping the history
//   - move_history: paginated history plus the current segment
//   - list_configs: available board presets
//   - game_instructions: rules and coordinate conventions
//   - describe_cell: color and group of one cell
//
// Boards are printed top row first with row labels, digits for colors and
// '.' for empty cells. Row 0 is the bottom row.
//
// Usage:
//
//	srv := mcp.NewServer(gameService, logger)
//	if err := srv.ServeStdio(); err != nil {
//		return err
//	}
//
// Stdout carries the protocol, so loggers passed here must write elsewhere.
package mcp
