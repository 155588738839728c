// Package engine provides the core game logic for Same Game.
//
// The engine package implements the game mechanics including:
//   - Connected region discovery on a square grid of colored tiles
//   - Gravity collapse of columns and compaction of emptied columns
//   - Column-clear scoring and random refill of cleared columns
//   - Terminal state detection when no two adjacent tiles match
//   - Preset validation and game state snapshots
//
// Core Types:
//
// Board owns the grid and the score and is the only type that mutates tiles.
// GameEngine wraps a Board with its preset, move history and messages.
// GameState is the serializable snapshot handed to the service layer.
//
// Usage:
//
//	board, err := engine.NewBoard(10, 5, engine.NewRandomSource(42))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if board.IsValidMove(0, 0) {
//		board.PerformMove(0, 0)
//	}
//	over := !board.HasValidMoves()
//
// Game Rules:
//
// Clicking a tile that shares its color with at least one orthogonal
// neighbor removes the whole connected group. Tiles above fall down, empty
// columns slide to the right, every column left fully empty scores a point
// and is refilled with fresh random tiles. Row 0 is the bottom row.
package engine
