package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/mcp-training/samegame/game/engine"
	"github.com/wricardo/mcp-training/samegame/game/service"
	"github.com/wricardo/mcp-training/samegame/game/session"
)

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	sessions map[string]*service.Session
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
	}
}

func (m *MockSessionManager) Create(id string, config *engine.GameConfig) (*service.Session, error) {
	if id == "" {
		id = fmt.Sprintf("t%03d", len(m.sessions)+1)
	}

	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	// Refills always draw color 2
	eng, err := engine.NewEngine(config, engine.NewFixedSource(1))
	if err != nil {
		return nil, err
	}

	session := &service.Session{
		ID:             id,
		Engine:         eng,
		Config:         config,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}

	m.sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	session, exists := m.sessions[id]
	if !exists {
		return nil, errors.New("session not found")
	}
	return session, nil
}

func (m *MockSessionManager) GetOrCreate(id string, config *engine.GameConfig) (*service.Session, error) {
	if session, exists := m.sessions[id]; exists {
		return session, nil
	}
	return m.Create(id, config)
}

func (m *MockSessionManager) List() []*service.Session {
	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return errors.New("session not found")
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	if session, exists := m.sessions[id]; exists {
		session.LastAccessedAt = time.Now()
		return nil
	}
	return errors.New("session not found")
}

// MockConfigManager implements service.ConfigManager for testing
type MockConfigManager struct {
	configs map[string]*engine.GameConfig
}

func NewMockConfigManager() *MockConfigManager {
	return &MockConfigManager{
		configs: map[string]*engine.GameConfig{
			"test": {
				Name:        "test",
				Description: "Test configuration",
				Width:       3,
				Colors:      3,
				Layout:      []string{"333", "122", "112"},
			},
			"column": {
				Name:        "Column",
				Description: "Clears a column on the first click",
				Width:       3,
				Colors:      3,
				Layout:      []string{"133", "123", "123"},
			},
			"ending": {
				Name:        "Ending",
				Description: "One click from game over",
				Width:       3,
				Colors:      3,
				Layout:      []string{"113", "212", "121"},
			},
		},
	}
}

func (m *MockConfigManager) LoadConfig(name string) (*engine.GameConfig, error) {
	config, exists := m.configs[name]
	if !exists {
		return nil, errors.New("configuration not found")
	}
	return config, nil
}

func (m *MockConfigManager) ListConfigs() ([]*service.ConfigInfo, error) {
	var configs []*service.ConfigInfo
	for id, config := range m.configs {
		configs = append(configs, &service.ConfigInfo{
			Filename:    id + ".json",
			ConfigID:    id,
			Name:        config.Name,
			Description: config.Description,
			Width:       config.Width,
			Colors:      config.Colors,
			Fixed:       len(config.Layout) > 0,
		})
	}
	return configs, nil
}

func (m *MockConfigManager) GetDefault() *engine.GameConfig {
	return m.configs["test"]
}

func newTestService() service.GameService {
	return service.NewGameService(NewMockSessionManager(), NewMockConfigManager())
}

func eventTypes(events []service.GameEvent) []string {
	types := make([]string, 0, len(events))
	for _, e := range events {
		types = append(types, e.Type)
	}
	return types
}

func TestGameService_CreateSession(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	t.Run("default config", func(t *testing.T) {
		info, err := svc.CreateSession(ctx, "")
		require.NoError(t, err)
		assert.NotEmpty(t, info.ID)
		assert.Equal(t, "test", info.ConfigName)
		require.NotNil(t, info.GameState)
		assert.Equal(t, 3, info.GameState.Width)
	})

	t.Run("named config", func(t *testing.T) {
		info, err := svc.CreateSession(ctx, "column")
		require.NoError(t, err)
		assert.Equal(t, "column", info.ConfigName)
		assert.Equal(t, "Column", info.GameConfig.Name)
	})

	t.Run("unknown config lists alternatives", func(t *testing.T) {
		_, err := svc.CreateSession(ctx, "missing")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config 'missing' not found")
		assert.Contains(t, err.Error(), "Available configs")
	})
}

func TestGameService_GetAndDeleteSession(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "")
	require.NoError(t, err)

	got, err := svc.GetSession(ctx, info.ID)
	require.NoError(t, err)
	assert.Equal(t, info.ID, got.ID)
	assert.Equal(t, "test", got.ConfigName)

	require.NoError(t, svc.DeleteSession(ctx, info.ID))
	_, err = svc.GetSession(ctx, info.ID)
	assert.Error(t, err)
	assert.Error(t, svc.DeleteSession(ctx, info.ID))
}

func TestGameService_Move(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	info, err := svc.CreateSession(ctx, "")
	require.NoError(t, err)

	t.Run("valid click", func(t *testing.T) {
		result, err := svc.Move(ctx, info.ID, 0, 0, false)
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, 3, result.Outcome.Removed)
		assert.Equal(t, engine.Tile(1), result.Outcome.Color)
		assert.Equal(t, []string{service.EventRemove}, eventTypes(result.Events))
		assert.Equal(t, [][]engine.Tile{{3, 2, 2}, {0, 3, 2}, {0, 0, 3}}, result.GameState.Grid)
	})

	t.Run("invalid click", func(t *testing.T) {
		result, err := svc.Move(ctx, info.ID, 0, 0, false)
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, []string{service.EventInvalidMove}, eventTypes(result.Events))
	})

	t.Run("reset then click", func(t *testing.T) {
		result, err := svc.Move(ctx, info.ID, 0, 0, true)
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, []string{service.EventReset, service.EventRemove}, eventTypes(result.Events))
		assert.Equal(t, 3, result.GameState.TotalMoves)
		assert.Equal(t, 1, result.GameState.CurrentMovesCount)
	})

	t.Run("unknown session", func(t *testing.T) {
		_, err := svc.Move(ctx, "nope", 0, 0, false)
		assert.Error(t, err)
	})
}

func TestGameService_MoveColumnCleared(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	info, err := svc.CreateSession(ctx, "column")
	require.NoError(t, err)

	result, err := svc.Move(ctx, info.ID, 0, 0, false)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Outcome.ClearedColumns)
	assert.Equal(t, 1, result.GameState.Score)
	assert.Equal(t,
		[]string{service.EventRemove, service.EventColumnCleared, service.EventRefill},
		eventTypes(result.Events))
}

func TestGameService_MoveGameOver(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	info, err := svc.CreateSession(ctx, "ending")
	require.NoError(t, err)

	result, err := svc.Move(ctx, info.ID, 2, 0, false)
	require.NoError(t, err)
	assert.True(t, result.GameState.GameOver)
	assert.Equal(t, []string{service.EventRemove, service.EventGameOver}, eventTypes(result.Events))

	result, err = svc.Move(ctx, info.ID, 0, 0, false)
	require.NoError(t, err)
	assert.False(t, result.Success)
	require.Len(t, result.Events, 1)
	assert.Equal(t, "Game is over", result.Events[0].Message)
}

func TestGameService_BulkMove(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	t.Run("mixed clicks", func(t *testing.T) {
		info, err := svc.CreateSession(ctx, "")
		require.NoError(t, err)

		result, err := svc.BulkMove(ctx, info.ID, []engine.Position{{Row: 0, Col: 0}, {Row: 5, Col: 5}, {Row: 0, Col: 1}}, false)
		require.NoError(t, err)
		assert.Equal(t, 3, result.RequestedMoves)
		assert.Equal(t, 3, result.MovesExecuted)
		assert.Equal(t, 2, result.Applied)
		assert.Equal(t, 6, result.TilesRemoved)
		assert.False(t, result.Success)
		assert.False(t, result.GameOver)
		assert.Len(t, result.Outcomes, 3)
		assert.Empty(t, result.StopReasonCode)
		assert.NotEmpty(t, result.PossibleMoves)
	})

	t.Run("stops at game over", func(t *testing.T) {
		info, err := svc.CreateSession(ctx, "ending")
		require.NoError(t, err)

		result, err := svc.BulkMove(ctx, info.ID, []engine.Position{{Row: 2, Col: 0}, {Row: 0, Col: 0}, {Row: 1, Col: 1}}, false)
		require.NoError(t, err)
		assert.Equal(t, 1, result.MovesExecuted)
		assert.Equal(t, service.StopGameOver, result.StopReasonCode)
		assert.Equal(t, 1, result.StoppedOnMove)
		assert.True(t, result.GameOver)
		assert.Nil(t, result.PossibleMoves)
	})

	t.Run("truncated", func(t *testing.T) {
		info, err := svc.CreateSession(ctx, "")
		require.NoError(t, err)

		moves := make([]engine.Position, engine.MaxBulkMoves+10)
		for i := range moves {
			moves[i] = engine.Position{Row: 9, Col: 9}
		}
		result, err := svc.BulkMove(ctx, info.ID, moves, false)
		require.NoError(t, err)
		assert.True(t, result.Truncated)
		assert.Equal(t, engine.MaxBulkMoves, result.Limit)
		assert.Equal(t, engine.MaxBulkMoves, result.MovesExecuted)
		assert.Equal(t, service.StopTruncated, result.StopReasonCode)
	})

	t.Run("score delta with reset", func(t *testing.T) {
		info, err := svc.CreateSession(ctx, "column")
		require.NoError(t, err)
		_, err = svc.Move(ctx, info.ID, 0, 0, false)
		require.NoError(t, err)

		result, err := svc.BulkMove(ctx, info.ID, []engine.Position{{Row: 0, Col: 0}}, true)
		require.NoError(t, err)
		assert.Equal(t, service.EventReset, result.Events[0].Type)
		assert.Equal(t, 0, result.StartScore)
		assert.Equal(t, 1, result.EndScore)
		assert.Equal(t, 1, result.ScoreDelta)
	})
}

func TestGameService_GetMoveHistory(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	info, err := svc.CreateSession(ctx, "")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := svc.Move(ctx, info.ID, 9, 9, false)
		require.NoError(t, err)
	}

	t.Run("ascending page", func(t *testing.T) {
		resp, err := svc.GetMoveHistory(ctx, info.ID, service.HistoryOptions{Page: 2, Limit: 2})
		require.NoError(t, err)
		require.Len(t, resp.Moves, 2)
		assert.Equal(t, 3, resp.Moves[0].MoveNumber)
		assert.Equal(t, 4, resp.Moves[1].MoveNumber)
		assert.Equal(t, 5, resp.TotalMoves)
		assert.Equal(t, 3, resp.TotalPages)
		assert.True(t, resp.HasNext)
		assert.True(t, resp.HasPrevious)
	})

	t.Run("descending page", func(t *testing.T) {
		resp, err := svc.GetMoveHistory(ctx, info.ID, service.HistoryOptions{Page: 1, Limit: 2, Order: "desc"})
		require.NoError(t, err)
		require.Len(t, resp.Moves, 2)
		assert.Equal(t, 5, resp.Moves[0].MoveNumber)
		assert.Equal(t, 4, resp.Moves[1].MoveNumber)
	})

	t.Run("last page", func(t *testing.T) {
		resp, err := svc.GetMoveHistory(ctx, info.ID, service.HistoryOptions{Page: 3, Limit: 2})
		require.NoError(t, err)
		require.Len(t, resp.Moves, 1)
		assert.False(t, resp.HasNext)
	})

	t.Run("defaults and limit cap", func(t *testing.T) {
		resp, err := svc.GetMoveHistory(ctx, info.ID, service.HistoryOptions{Limit: 500})
		require.NoError(t, err)
		assert.Equal(t, 1, resp.Page)
		assert.Equal(t, 100, resp.PageSize)
		assert.Len(t, resp.Moves, 5)
	})

	t.Run("past the end", func(t *testing.T) {
		resp, err := svc.GetMoveHistory(ctx, info.ID, service.HistoryOptions{Page: 9, Limit: 2})
		require.NoError(t, err)
		assert.NotNil(t, resp.Moves)
		assert.Empty(t, resp.Moves)
	})
}

func TestGameService_ListSessions(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.CreateSession(ctx, "")
	require.NoError(t, err)
	_, err = svc.CreateSession(ctx, "column")
	require.NoError(t, err)

	sessions, err := svc.ListSessions(ctx)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
}

func TestGameService_Reset(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	info, err := svc.CreateSession(ctx, "")
	require.NoError(t, err)

	_, err = svc.Move(ctx, info.ID, 0, 0, false)
	require.NoError(t, err)

	state, err := svc.Reset(ctx, info.ID)
	require.NoError(t, err)
	assert.Equal(t, [][]engine.Tile{{1, 1, 2}, {1, 2, 2}, {3, 3, 3}}, state.Grid)
	assert.Equal(t, 1, state.TotalMoves)

	current, err := svc.GetGameState(ctx, info.ID)
	require.NoError(t, err)
	assert.Equal(t, state.Grid, current.Grid)

	_, err = svc.Reset(ctx, "nope")
	assert.Error(t, err)
}

func TestGameService_Configs(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	configs, err := svc.ListConfigs(ctx)
	require.NoError(t, err)
	assert.Len(t, configs, 3)

	config, err := svc.LoadConfig(ctx, "column")
	require.NoError(t, err)
	assert.Equal(t, "Column", config.Name)
}

func TestGameService_ConcurrentAccess(t *testing.T) {
	sessions := session.NewManager(session.WithSourceFactory(func(*engine.GameConfig) engine.RandomSource {
		return engine.NewFixedSource(1)
	}))
	svc := service.NewGameService(sessions, NewMockConfigManager())
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "test")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				switch (worker + j) % 5 {
				case 0:
					_, err := svc.GetSession(ctx, info.ID)
					assert.NoError(t, err)
				case 1:
					_, err := svc.GetGameState(ctx, info.ID)
					assert.NoError(t, err)
				case 2:
					_, err := svc.GetMoveHistory(ctx, info.ID, service.HistoryOptions{Page: 1, Limit: 5})
					assert.NoError(t, err)
				case 3:
					_, err := svc.ListSessions(ctx)
					assert.NoError(t, err)
				default:
					_, err := svc.Move(ctx, info.ID, j%3, worker%3, false)
					assert.NoError(t, err)
				}
			}
		}(i)
	}
	wg.Wait()

	got, err := svc.GetSession(ctx, info.ID)
	require.NoError(t, err)
	assert.False(t, got.LastAccessedAt.Before(got.CreatedAt))
	assert.Equal(t, 80, got.GameState.TotalMoves)
}
