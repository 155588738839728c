package engine

import (
	"fmt"
	"time"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	Reset() *GameState
	IsGameOver() bool
	GetScore() int
	Board() *Board

	// Move operations
	Move(row, col int) MoveOutcome
	CanMove(row, col int) bool
	GetPossibleMoves() []Position
	Region(row, col int) []Position

	// Configuration
	GetConfig() *GameConfig
	SetConfig(config *GameConfig) error

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry
}

// GameEngine implements the Engine interface on top of a Board
type GameEngine struct {
	board    *Board
	config   *GameConfig
	messages Messages
	rng      RandomSource

	message      string
	gameOver     bool
	tilesRemoved int

	moveHistory  []MoveHistoryEntry
	currentMoves []MoveHistoryEntry
	totalMoves   int
}

// NewEngine creates a new game engine with the provided preset. A nil rng
// uses the preset seed when set, the clock otherwise.
func NewEngine(config *GameConfig, rng RandomSource) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = sourceFor(config)
	}

	e := &GameEngine{
		config:       config,
		messages:     messagesFor(config),
		rng:          rng,
		moveHistory:  []MoveHistoryEntry{},
		currentMoves: []MoveHistoryEntry{},
	}
	if err := e.newBoard(); err != nil {
		return nil, err
	}
	return e, nil
}

// NewEngineWithDefaults creates a new game engine with the built-in preset
func NewEngineWithDefaults(rng RandomSource) *GameEngine {
	e, err := NewEngine(DefaultConfig(), rng)
	if err != nil {
		// DefaultConfig always validates
		panic(err)
	}
	return e
}

// GetState returns a snapshot of the current game
func (e *GameEngine) GetState() *GameState {
	return &GameState{
		Width:             e.board.Width(),
		Colors:            e.board.Colors(),
		Grid:              e.board.Rows(),
		Score:             e.board.Score(),
		TilesRemoved:      e.tilesRemoved,
		Message:           e.message,
		GameOver:          e.gameOver,
		ConfigName:        e.config.Name,
		MoveHistory:       append([]MoveHistoryEntry{}, e.moveHistory...),
		TotalMoves:        e.totalMoves,
		CurrentMoves:      append([]MoveHistoryEntry{}, e.currentMoves...),
		CurrentMovesCount: len(e.currentMoves),
		AvailableGroups:   len(Groups(e.board)),
	}
}

// Reset starts a new game with the same preset. Cumulative history survives,
// the current segment is cleared.
func (e *GameEngine) Reset() *GameState {
	if err := e.newBoard(); err != nil {
		// The preset was validated when it was installed
		panic(err)
	}
	e.currentMoves = []MoveHistoryEntry{}
	return e.GetState()
}

// IsGameOver returns whether no moves are left
func (e *GameEngine) IsGameOver() bool {
	return e.gameOver
}

// GetScore returns the current score
func (e *GameEngine) GetScore() int {
	return e.board.Score()
}

// Board exposes the underlying board for rendering
func (e *GameEngine) Board() *Board {
	return e.board
}

// Move clicks (row, col). Every attempt is recorded in the history; an
// invalid click leaves the board unchanged.
func (e *GameEngine) Move(row, col int) MoveOutcome {
	if e.gameOver {
		e.addMoveToHistory(Position{Row: row, Col: col}, MoveOutcome{})
		return MoveOutcome{}
	}

	outcome := e.board.Apply(row, col)
	e.addMoveToHistory(Position{Row: row, Col: col}, outcome)

	switch {
	case !outcome.Applied:
		e.message = e.messages.InvalidMove
	case outcome.ClearedColumns > 0:
		e.message = fmt.Sprintf(e.messages.ColumnCleared, e.board.Score())
	default:
		e.message = fmt.Sprintf(e.messages.Removed, outcome.Removed)
	}
	e.tilesRemoved += outcome.Removed

	if !e.board.HasValidMoves() {
		e.gameOver = true
		e.message = fmt.Sprintf(e.messages.NoMoves, e.board.Score())
	}

	return outcome
}

// CanMove checks if clicking (row, col) would remove a group
func (e *GameEngine) CanMove(row, col int) bool {
	return !e.gameOver && e.board.IsValidMove(row, col)
}

// GetPossibleMoves returns one position per removable group
func (e *GameEngine) GetPossibleMoves() []Position {
	if e.gameOver {
		return nil
	}
	return Groups(e.board)
}

// Region returns the group a click on (row, col) would remove
func (e *GameEngine) Region(row, col int) []Position {
	return e.board.Region(row, col)
}

// GetConfig returns the current preset
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// SetConfig installs a new preset and starts a new game
func (e *GameEngine) SetConfig(config *GameConfig) error {
	if err := ValidateGameConfig(config); err != nil {
		return err
	}

	e.config = config
	e.messages = messagesFor(config)
	e.currentMoves = []MoveHistoryEntry{}
	return e.newBoard()
}

// GetMoveHistory returns the complete move history
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	return e.moveHistory
}

// GetLastMove returns the last move made, or nil if no moves
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.moveHistory) == 0 {
		return nil
	}
	return &e.moveHistory[len(e.moveHistory)-1]
}

// BulkMove executes multiple clicks in sequence, returning the outcome of each.
// It stops once the game is over.
func (e *GameEngine) BulkMove(moves []Position) []MoveOutcome {
	results := make([]MoveOutcome, 0, len(moves))

	for _, pos := range moves {
		if e.IsGameOver() {
			break
		}
		results = append(results, e.Move(pos.Row, pos.Col))
	}

	return results
}

func (e *GameEngine) newBoard() error {
	board, err := NewBoardFromConfig(e.config, e.rng)
	if err != nil {
		return err
	}
	e.board = board
	e.tilesRemoved = 0
	e.gameOver = !board.HasValidMoves()
	e.message = e.messages.Welcome
	if e.gameOver {
		e.message = fmt.Sprintf(e.messages.NoMoves, 0)
	}
	return nil
}

func (e *GameEngine) addMoveToHistory(pos Position, outcome MoveOutcome) {
	entry := MoveHistoryEntry{
		Position:       pos,
		Color:          outcome.Color,
		Removed:        outcome.Removed,
		ClearedColumns: outcome.ClearedColumns,
		Score:          e.board.Score(),
		Timestamp:      time.Now().Unix(),
		Success:        outcome.Applied,
		MoveNumber:     e.totalMoves + 1,
	}
	// Append to cumulative history (never cleared by reset) and increment total
	e.moveHistory = append(e.moveHistory, entry)
	e.totalMoves++

	e.currentMoves = append(e.currentMoves, entry)
}

// sourceFor picks the random source for a preset
func sourceFor(config *GameConfig) RandomSource {
	if config.Seed != 0 {
		return NewRandomSource(config.Seed)
	}
	return NewTimeSource()
}
