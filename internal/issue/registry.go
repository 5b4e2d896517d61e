package issue

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sprintdeck/sprintdeck/internal/domain"
)

// Session is one open editor, addressable by a gateway-local id.
type Session struct {
	ID        uuid.UUID `json:"id"`
	TaskID    string    `json:"task_id"`
	ProjectID string    `json:"project_id"`
	CreatedAt time.Time `json:"created_at"`
	Editor    *Editor   `json:"-"`
}

// Registry holds the open editor sessions of the gateway.
type Registry struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[uuid.UUID]*Session)}
}

// Open registers an editor as a new session.
func (r *Registry) Open(projectID string, editor *Editor) *Session {
	s := &Session{
		ID:        uuid.New(),
		TaskID:    editor.TaskID(),
		ProjectID: projectID,
		CreatedAt: time.Now(),
		Editor:    editor,
	}
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

// Get looks up an open session.
func (r *Registry) Get(id uuid.UUID) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

// Close discards a session. Unsaved edits are dropped; an in-flight save
// finishes but its result is no longer observable, matching the
// discard-on-unmount behavior of the views.
func (r *Registry) Close(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.sessions, id)
	return nil
}
