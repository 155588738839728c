// Package service provides the business logic layer for the Same Game board engine.
//
// The service package implements:
//   - Multi-session game management
//   - Board preset loading through a ConfigManager
//   - Click processing with per-move events
//   - Move history tracking with pagination
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager loads board presets.
//
// Architecture:
//
// The service layer sits between the front ends (terminal CLI and the MCP
// stdio server) and the game engine. Each session owns its own engine and
// random source, so sessions never share board state.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		return err
//	}
//
//	result, err := gameService.Move(ctx, info.ID, 0, 3, false)
//
// Events:
//
// A click yields "remove" when a group is taken, "column_cleared" and
// "refill" when whole columns empty out, "game_over" when no group is left,
// and "invalid_move" when nothing happens. A reset yields "reset".
package service
