package board

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Manager builds one Engine per project, lazily, and relays store changes
// to an optional listener (the gateway's websocket hub).
type Manager struct {
	tracker         TrackerAPI
	backlogPageSize int
	onChange        func(projectID string, snap Snapshot)

	mu      sync.Mutex
	engines map[string]*Engine
}

func NewManager(tracker TrackerAPI, backlogPageSize int, onChange func(string, Snapshot)) *Manager {
	return &Manager{
		tracker:         tracker,
		backlogPageSize: backlogPageSize,
		onChange:        onChange,
		engines:         make(map[string]*Engine),
	}
}

// Engine returns the project's engine, creating and priming it on first
// use. Priming loads the current sprint (which cascades into a task
// reload) and the user reference list; neither failure is fatal, the views
// degrade to empty state and remain retryable.
func (m *Manager) Engine(ctx context.Context, projectID string) *Engine {
	m.mu.Lock()
	if e, ok := m.engines[projectID]; ok {
		m.mu.Unlock()
		return e
	}

	e := NewEngine(projectID, m.tracker, m.backlogPageSize)
	if m.onChange != nil {
		e.Store.Subscribe(func(snap Snapshot) {
			m.onChange(projectID, snap)
		})
	}
	m.engines[projectID] = e
	m.mu.Unlock()

	e.Sprints.LoadCurrent(ctx)
	if err := e.RefreshUsers(ctx); err != nil {
		log.Warn().Err(err).Str("project_id", projectID).Msg("load user directory")
	}
	return e
}
