package engine

// Tile is the value of a single grid cell: Empty or a color in 1..K.
type Tile int

const (
	Empty Tile = 0

	// Validation constants
	MinWidth      = 3
	MaxWidth      = 30
	MinColors     = 2
	MaxColors     = 8
	DefaultWidth  = 10
	DefaultColors = 5
	MaxBulkMoves  = 50
)

// Position represents row,col coordinates. Row 0 is the bottom row.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Messages holds the text shown to the player for game events
type Messages struct {
	Welcome       string `json:"welcome" hcl:"welcome,optional"`
	Removed       string `json:"removed" hcl:"removed,optional"`
	ColumnCleared string `json:"column_cleared" hcl:"column_cleared,optional"`
	InvalidMove   string `json:"invalid_move" hcl:"invalid_move,optional"`
	NoMoves       string `json:"no_moves" hcl:"no_moves,optional"`
}

// GameConfig represents a board preset loaded from JSON or HCL
type GameConfig struct {
	Name        string `json:"name" hcl:"name"`
	Description string `json:"description" hcl:"description"`
	Width       int    `json:"width" hcl:"width"`
	Colors      int    `json:"colors" hcl:"colors"`
	Seed        uint64 `json:"seed,omitempty" hcl:"seed,optional"`

	// Layout optionally fixes the starting board. Rows are listed top row
	// first, one digit per tile, '.' for empty.
	Layout []string `json:"layout,omitempty" hcl:"layout,optional"`

	Messages *Messages `json:"messages,omitempty" hcl:"messages,block"`
}

// MoveOutcome describes what a single PerformMove did to the board
type MoveOutcome struct {
	Applied        bool       `json:"applied"`
	Color          Tile       `json:"color"`
	Removed        int        `json:"removed"`
	ClearedColumns int        `json:"cleared_columns"`
	ScoreDelta     int        `json:"score_delta"`
	Region         []Position `json:"region,omitempty"`
}

// MoveHistoryEntry represents a single move in the game history
type MoveHistoryEntry struct {
	Position       Position `json:"position"`
	Color          Tile     `json:"color"`
	Removed        int      `json:"removed"`
	ClearedColumns int      `json:"cleared_columns"`
	Score          int      `json:"score"`
	Timestamp      int64    `json:"timestamp"`
	Success        bool     `json:"success"`
	MoveNumber     int      `json:"move_number"`
}

// GameState is a snapshot of a game. Grid rows are ordered bottom to top,
// so Grid[row][col] matches Board.Color(row, col).
type GameState struct {
	Width        int      `json:"width"`
	Colors       int      `json:"colors"`
	Grid         [][]Tile `json:"grid"`
	Score        int      `json:"score"`
	TilesRemoved int      `json:"tiles_removed"`
	Message      string   `json:"message"`
	GameOver     bool     `json:"game_over"`
	ConfigName   string   `json:"config_name"`

	MoveHistory []MoveHistoryEntry `json:"move_history"`
	TotalMoves  int                `json:"total_moves"`

	// CurrentMoves tracks only the moves since the last reset. MoveHistory
	// stays cumulative across resets.
	CurrentMoves      []MoveHistoryEntry `json:"current_moves"`
	CurrentMovesCount int                `json:"current_moves_count"`

	// Number of distinct removable groups on the board
	AvailableGroups int `json:"available_groups"`
}
