package service

import (
	"time"

	"github.com/wricardo/mcp-training/samegame/game/engine"
)

// Event types emitted by moves
const (
	EventRemove        = "remove"
	EventColumnCleared = "column_cleared"
	EventRefill        = "refill"
	EventGameOver      = "game_over"
	EventReset         = "reset"
	EventInvalidMove   = "invalid_move"
)

// Bulk move stop reasons
const (
	StopGameOver  = "game_over"
	StopTruncated = "truncated"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// MoveResult contains the result of a single click
type MoveResult struct {
	Success   bool               `json:"success"`
	Position  engine.Position    `json:"position"`
	Outcome   engine.MoveOutcome `json:"outcome"`
	GameState *engine.GameState  `json:"game_state"`
	Message   string             `json:"message"`
	Events    []GameEvent        `json:"events,omitempty"`
}

// BulkMoveResult contains the result of multiple clicks
type BulkMoveResult struct {
	MovesExecuted  int               `json:"moves_executed"`
	RequestedMoves int               `json:"requested_moves"`
	Applied        int               `json:"applied"`
	Success        bool              `json:"success"`
	GameState      *engine.GameState `json:"game_state"`
	Events         []GameEvent       `json:"events"`
	StopReasonCode string            `json:"stop_reason_code,omitempty"` // game_over|truncated
	StoppedOnMove  int               `json:"stopped_on_move,omitempty"`  // 1-based index of the move that ended the game
	Truncated      bool              `json:"truncated,omitempty"`
	Limit          int               `json:"limit,omitempty"`

	StartScore    int                  `json:"start_score"`
	EndScore      int                  `json:"end_score"`
	ScoreDelta    int                  `json:"score_delta"`
	TilesRemoved  int                  `json:"tiles_removed"`
	Outcomes      []engine.MoveOutcome `json:"outcomes"`
	GameOver      bool                 `json:"game_over"`
	Message       string               `json:"message,omitempty"`
	PossibleMoves []engine.Position    `json:"possible_moves,omitempty"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string          `json:"type"`
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
	Position  engine.Position `json:"position,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// ConfigInfo provides information about a board preset
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	Width       int    `json:"width"`
	Colors      int    `json:"colors"`
	Fixed       bool   `json:"fixed"` // Preset carries a starting layout
}
