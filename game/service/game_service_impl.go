package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/samegame/game/engine"
	"github.com/wricardo/mcp-training/samegame/internal/ctxlog"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager

	// mu guards every engine and session timestamp. Calls that touch
	// LastAccessedAt take the write lock.
	mu sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// getConfigID returns the config_id for a given preset display name
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if strings.Contains(err.Error(), "configuration not found") {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found. Available configs: %v", configName, configIDs)
				}
				return nil, fmt.Errorf("config '%s' not found. Use list_configs to see available presets", configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let session manager generate a proper 4-character ID
	session, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	ctxlog.FromContext(ctx).Info("session created", "session", session.ID, "preset", configID)

	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     configID,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Engine.GetState(),
		GameConfig:     session.Config,
	}, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return s.sessionInfo(session), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Info("session deleted", "session", sessionID)
	return nil
}

// Move clicks (row, col) on a session's board
func (s *gameServiceImpl) Move(ctx context.Context, sessionID string, row, col int, reset bool) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	events := []GameEvent{}
	if reset {
		sess.Engine.Reset()
		events = append(events, resetEvent())
	}

	pos := engine.Position{Row: row, Col: col}
	outcome := sess.Engine.Move(row, col)
	state := sess.Engine.GetState()

	events = append(events, moveEvents(pos, outcome, state)...)

	ctxlog.FromContext(ctx).Debug("move",
		"session", sess.ID,
		"row", row,
		"col", col,
		"applied", outcome.Applied,
		"removed", outcome.Removed,
		"score", state.Score,
	)

	return &MoveResult{
		Success:   outcome.Applied,
		Position:  pos,
		Outcome:   outcome,
		GameState: state,
		Message:   state.Message,
		Events:    events,
	}, nil
}

// BulkMove executes multiple clicks in sequence. Invalid clicks are recorded
// and skipped; the run stops when the game ends.
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []engine.Position, reset bool) (*BulkMoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	result := &BulkMoveResult{
		RequestedMoves: len(moves),
		Events:         make([]GameEvent, 0),
		Outcomes:       make([]engine.MoveOutcome, 0, len(moves)),
		Success:        true,
	}

	if reset {
		sess.Engine.Reset()
		result.Events = append(result.Events, resetEvent())
	}

	startState := sess.Engine.GetState()
	result.StartScore = startState.Score

	if len(moves) > engine.MaxBulkMoves {
		result.Truncated = true
		result.Limit = engine.MaxBulkMoves
		result.StopReasonCode = StopTruncated
		moves = moves[:engine.MaxBulkMoves]
	}

	for i, pos := range moves {
		if sess.Engine.IsGameOver() {
			result.StopReasonCode = StopGameOver
			break
		}

		outcome := sess.Engine.Move(pos.Row, pos.Col)
		result.MovesExecuted++
		result.Outcomes = append(result.Outcomes, outcome)
		if outcome.Applied {
			result.Applied++
			result.TilesRemoved += outcome.Removed
		} else {
			result.Success = false
		}

		state := sess.Engine.GetState()
		result.Events = append(result.Events, moveEvents(pos, outcome, state)...)

		if state.GameOver {
			result.StopReasonCode = StopGameOver
			result.StoppedOnMove = i + 1
		}
	}

	state := sess.Engine.GetState()
	result.GameState = state
	result.EndScore = state.Score
	result.ScoreDelta = state.Score - result.StartScore
	result.GameOver = state.GameOver
	result.Message = state.Message
	result.PossibleMoves = sess.Engine.GetPossibleMoves()

	ctxlog.FromContext(ctx).Debug("bulk move",
		"session", sess.ID,
		"requested", result.RequestedMoves,
		"executed", result.MovesExecuted,
		"applied", result.Applied,
		"score_delta", result.ScoreDelta,
	)

	return result, nil
}

// Reset starts a new game in a session
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	ctxlog.FromContext(ctx).Debug("reset", "session", sess.ID)
	return sess.Engine.Reset(), nil
}

// GetGameState returns the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	return sess.Engine.GetState(), nil
}

// GetMoveHistory returns a page of the session's cumulative move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}

	history := sess.Engine.GetMoveHistory()
	total := len(history)

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	var moves []engine.MoveHistoryEntry
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else if start < total {
		moves = append(moves, history[start:end]...)
	}

	if moves == nil {
		moves = []engine.MoveHistoryEntry{}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available board presets
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific board preset
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     s.getConfigID(sess.Config.Name),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.GetState(),
		GameConfig:     sess.Config,
	}
}

// moveEvents generates the events for one click
func moveEvents(pos engine.Position, outcome engine.MoveOutcome, state *engine.GameState) []GameEvent {
	now := time.Now()

	if !outcome.Applied {
		events := []GameEvent{{
			Type:      EventInvalidMove,
			Message:   fmt.Sprintf("No group at (%d,%d)", pos.Row, pos.Col),
			Timestamp: now,
			Position:  pos,
		}}
		if state.GameOver {
			events[0].Message = "Game is over"
		}
		return events
	}

	events := []GameEvent{{
		Type:      EventRemove,
		Message:   fmt.Sprintf("Removed %d tiles of color %d at (%d,%d)", outcome.Removed, outcome.Color, pos.Row, pos.Col),
		Timestamp: now,
		Position:  pos,
	}}

	if outcome.ClearedColumns > 0 {
		events = append(events,
			GameEvent{
				Type:      EventColumnCleared,
				Message:   fmt.Sprintf("%d column(s) cleared, +%d score (total %d)", outcome.ClearedColumns, outcome.ScoreDelta, state.Score),
				Timestamp: now,
				Position:  pos,
			},
			GameEvent{
				Type:      EventRefill,
				Message:   fmt.Sprintf("Refilled %d column(s) with new tiles", outcome.ClearedColumns),
				Timestamp: now,
			},
		)
	}

	if state.GameOver {
		events = append(events, GameEvent{
			Type:      EventGameOver,
			Message:   state.Message,
			Timestamp: now,
		})
	}

	return events
}

func resetEvent() GameEvent {
	return GameEvent{
		Type:      EventReset,
		Message:   "Game reset with a new board",
		Timestamp: time.Now(),
	}
}
