package engine

import (
	"fmt"
	"strings"
)

// ValidateGameConfig validates a board preset for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is required")
	}

	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	// Validate dimensions
	if config.Width < MinWidth || config.Width > MaxWidth {
		return fmt.Errorf("config validation: width must be between %d and %d, got %d", MinWidth, MaxWidth, config.Width)
	}
	if config.Colors < MinColors || config.Colors > MaxColors {
		return fmt.Errorf("config validation: colors must be between %d and %d, got %d", MinColors, MaxColors, config.Colors)
	}

	// Validate layout
	if len(config.Layout) > 0 {
		if len(config.Layout) != config.Width {
			return fmt.Errorf("config validation: layout must have %d rows to match width, got %d",
				config.Width, len(config.Layout))
		}
		rows, err := ParseLayout(config.Layout, config.Colors)
		if err != nil {
			return fmt.Errorf("config validation: %v", err)
		}
		if _, err := NewBoardFromRows(rows, config.Colors, NewFixedSource()); err != nil {
			return fmt.Errorf("config validation: %v", err)
		}
	}

	// Validate format strings
	if m := config.Messages; m != nil {
		if m.Removed != "" && !strings.Contains(m.Removed, "%d") {
			return fmt.Errorf("config validation: messages.removed must contain %%d for tile count")
		}
		if m.ColumnCleared != "" && !strings.Contains(m.ColumnCleared, "%d") {
			return fmt.Errorf("config validation: messages.column_cleared must contain %%d for score")
		}
		if m.NoMoves != "" && !strings.Contains(m.NoMoves, "%d") {
			return fmt.Errorf("config validation: messages.no_moves must contain %%d for final score")
		}
	}

	return nil
}

// DefaultConfig returns the built-in preset used when no preset files exist
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Name:        "default",
		Description: "Standard 10x10 board with five colors",
		Width:       DefaultWidth,
		Colors:      DefaultColors,
		Messages:    DefaultMessages(),
	}
}

// DefaultMessages returns the stock player messages
func DefaultMessages() *Messages {
	return &Messages{
		Welcome:       "Clear the board! Pick a group of two or more matching tiles.",
		Removed:       "Removed %d tiles",
		ColumnCleared: "Column cleared! Score: %d",
		InvalidMove:   "Pick a tile that touches another tile of the same color",
		NoMoves:       "No moves left! Final score: %d",
	}
}

// messagesFor fills any blank message with its default
func messagesFor(config *GameConfig) Messages {
	defaults := DefaultMessages()
	if config == nil || config.Messages == nil {
		return *defaults
	}
	m := *config.Messages
	if m.Welcome == "" {
		m.Welcome = defaults.Welcome
	}
	if m.Removed == "" {
		m.Removed = defaults.Removed
	}
	if m.ColumnCleared == "" {
		m.ColumnCleared = defaults.ColumnCleared
	}
	if m.InvalidMove == "" {
		m.InvalidMove = defaults.InvalidMove
	}
	if m.NoMoves == "" {
		m.NoMoves = defaults.NoMoves
	}
	return m
}

// NewBoardFromConfig creates the starting board for a preset. A preset
// layout is used as-is; otherwise the board is filled from rng.
func NewBoardFromConfig(config *GameConfig, rng RandomSource) (*Board, error) {
	if len(config.Layout) > 0 {
		rows, err := ParseLayout(config.Layout, config.Colors)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidLayout, err)
		}
		return NewBoardFromRows(rows, config.Colors, rng)
	}
	return NewBoard(config.Width, config.Colors, rng)
}
