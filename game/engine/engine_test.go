package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestConfig() *GameConfig {
	return &GameConfig{
		Name:        "Engine Test Config",
		Description: "Configuration for engine integration tests",
		Width:       3,
		Colors:      3,
		Layout: []string{
			"333",
			"122",
			"112",
		},
		Messages: &Messages{
			Welcome:       "Welcome to engine test!",
			Removed:       "Removed %d",
			ColumnCleared: "Cleared! Score: %d",
			InvalidMove:   "Nope",
			NoMoves:       "Done! Score: %d",
		},
	}
}

func TestNewEngine(t *testing.T) {
	config := createTestConfig()
	e, err := NewEngine(config, NewFixedSource(0))
	require.NoError(t, err)
	require.NotNil(t, e)

	state := e.GetState()
	assert.Equal(t, 3, state.Width)
	assert.Equal(t, 3, state.Colors)
	assert.Equal(t, 0, state.Score)
	assert.False(t, state.GameOver)
	assert.Equal(t, "Welcome to engine test!", state.Message)
	assert.Equal(t, "Engine Test Config", state.ConfigName)
	assert.Equal(t, [][]Tile{{1, 1, 2}, {1, 2, 2}, {3, 3, 3}}, state.Grid)
	assert.Equal(t, 3, state.AvailableGroups)
}

func TestNewEngine_InvalidConfig(t *testing.T) {
	config := createTestConfig()
	config.Name = ""

	_, err := NewEngine(config, nil)
	assert.Error(t, err)
}

func TestNewEngineWithDefaults(t *testing.T) {
	e := NewEngineWithDefaults(NewRandomSource(3))
	require.NotNil(t, e)

	assert.Equal(t, DefaultWidth, e.Board().Width())
	assert.Equal(t, DefaultColors, e.Board().Colors())
	assert.Equal(t, 0, e.GetScore())
}

func TestEngine_Move(t *testing.T) {
	e, err := NewEngine(createTestConfig(), NewFixedSource(0))
	require.NoError(t, err)

	outcome := e.Move(0, 0)
	assert.True(t, outcome.Applied)
	assert.Equal(t, 3, outcome.Removed)

	state := e.GetState()
	assert.Equal(t, [][]Tile{{3, 2, 2}, {0, 3, 2}, {0, 0, 3}}, state.Grid)
	assert.Equal(t, "Removed 3", state.Message)
	assert.Equal(t, 3, state.TilesRemoved)

	history := e.GetMoveHistory()
	require.Len(t, history, 1)
	assert.Equal(t, Position{Row: 0, Col: 0}, history[0].Position)
	assert.Equal(t, Tile(1), history[0].Color)
	assert.True(t, history[0].Success)
	assert.Equal(t, 1, history[0].MoveNumber)

	last := e.GetLastMove()
	require.NotNil(t, last)
	assert.Equal(t, 3, last.Removed)
}

func TestEngine_InvalidMoveRecorded(t *testing.T) {
	e, err := NewEngine(createTestConfig(), NewFixedSource(0))
	require.NoError(t, err)
	before := e.GetState().Grid

	outcome := e.Move(2, 5)
	assert.False(t, outcome.Applied)
	assert.Equal(t, before, e.GetState().Grid)
	assert.Equal(t, "Nope", e.GetState().Message)

	last := e.GetLastMove()
	require.NotNil(t, last)
	assert.False(t, last.Success)
	assert.Equal(t, 1, e.GetState().TotalMoves)
}

func TestEngine_GameOver(t *testing.T) {
	config := createTestConfig()
	config.Layout = []string{
		"113",
		"212",
		"121",
	}
	e, err := NewEngine(config, NewFixedSource(0))
	require.NoError(t, err)
	require.False(t, e.IsGameOver())

	outcome := e.Move(2, 0)
	require.True(t, outcome.Applied)
	require.Equal(t, 3, outcome.Removed)

	// Remaining tiles: no two equal neighbors
	assert.True(t, e.IsGameOver())
	assert.True(t, strings.HasPrefix(e.GetState().Message, "Done!"))
	assert.Nil(t, e.GetPossibleMoves())
	assert.False(t, e.CanMove(0, 0))

	// Moves after game over are recorded but do nothing
	grid := e.GetState().Grid
	assert.False(t, e.Move(0, 0).Applied)
	assert.Equal(t, grid, e.GetState().Grid)
}

func TestEngine_StartsOver(t *testing.T) {
	config := createTestConfig()
	config.Layout = []string{
		"121",
		"212",
		"121",
	}
	e, err := NewEngine(config, nil)
	require.NoError(t, err)
	assert.True(t, e.IsGameOver())
	assert.Equal(t, "Done! Score: 0", e.GetState().Message)
}

func TestEngine_Reset(t *testing.T) {
	e, err := NewEngine(createTestConfig(), NewFixedSource(0))
	require.NoError(t, err)

	e.Move(0, 0)
	e.Move(9, 9)
	require.Equal(t, 2, e.GetState().TotalMoves)

	state := e.Reset()
	assert.Equal(t, [][]Tile{{1, 1, 2}, {1, 2, 2}, {3, 3, 3}}, state.Grid)
	assert.Equal(t, 0, state.Score)
	assert.Equal(t, 0, state.TilesRemoved)
	assert.Equal(t, 2, state.TotalMoves)
	assert.Len(t, state.MoveHistory, 2)
	assert.Equal(t, 0, state.CurrentMovesCount)
	assert.Empty(t, state.CurrentMoves)

	e.Move(0, 0)
	state = e.GetState()
	assert.Equal(t, 3, state.TotalMoves)
	assert.Equal(t, 1, state.CurrentMovesCount)
	assert.Equal(t, 3, state.CurrentMoves[0].MoveNumber)
}

func TestEngine_PossibleMovesAndRegion(t *testing.T) {
	e, err := NewEngine(createTestConfig(), NewFixedSource(0))
	require.NoError(t, err)

	assert.Equal(t, []Position{{0, 0}, {0, 2}, {2, 0}}, e.GetPossibleMoves())
	assert.ElementsMatch(t, []Position{{0, 2}, {1, 1}, {1, 2}}, e.Region(1, 1))
	assert.True(t, e.CanMove(2, 2))
	assert.False(t, e.CanMove(3, 0))
}

func TestEngine_BulkMove(t *testing.T) {
	e, err := NewEngine(createTestConfig(), NewFixedSource(0))
	require.NoError(t, err)

	results := e.BulkMove([]Position{{0, 0}, {5, 5}, {0, 1}})
	require.Len(t, results, 3)
	assert.True(t, results[0].Applied)
	assert.False(t, results[1].Applied)
	assert.True(t, results[2].Applied)
	assert.Len(t, e.GetMoveHistory(), 3)
}

func TestEngine_ColumnClearMessage(t *testing.T) {
	config := createTestConfig()
	config.Layout = []string{
		"133",
		"123",
		"123",
	}
	e, err := NewEngine(config, NewFixedSource(1))
	require.NoError(t, err)

	outcome := e.Move(0, 0)
	assert.Equal(t, 1, outcome.ClearedColumns)
	assert.Equal(t, "Cleared! Score: 1", e.GetState().Message)
	assert.Equal(t, 1, e.GetMoveHistory()[0].Score)
}

func TestEngine_SetConfig(t *testing.T) {
	e := NewEngineWithDefaults(NewRandomSource(1))

	err := e.SetConfig(createTestConfig())
	require.NoError(t, err)
	assert.Equal(t, 3, e.Board().Width())
	assert.Equal(t, "Engine Test Config", e.GetConfig().Name)

	bad := createTestConfig()
	bad.Width = 1
	assert.Error(t, e.SetConfig(bad))
	assert.Equal(t, "Engine Test Config", e.GetConfig().Name)
}

func TestEngine_SeededPreset(t *testing.T) {
	config := DefaultConfig()
	config.Seed = 1234

	a, err := NewEngine(config, nil)
	require.NoError(t, err)
	b, err := NewEngine(config, nil)
	require.NoError(t, err)

	assert.Equal(t, a.GetState().Grid, b.GetState().Grid)
}
