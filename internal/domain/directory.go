package domain

import "sync"

// Placeholder labels returned when a lookup id is absent or unknown.
const (
	UnassignedLabel = "Unassigned"
	NoSprintLabel   = "No Sprint"
)

// Directory holds the currently loaded reference lists (users, sprints) and
// resolves ids to display labels. Lookups never fail: a missing or unknown
// id resolves to a fixed placeholder. Safe for concurrent use.
type Directory struct {
	mu      sync.RWMutex
	users   map[string]*User
	sprints map[string]*Sprint
}

func NewDirectory() *Directory {
	return &Directory{
		users:   make(map[string]*User),
		sprints: make(map[string]*Sprint),
	}
}

// SetUsers replaces the loaded user list.
func (d *Directory) SetUsers(users []*User) {
	m := make(map[string]*User, len(users))
	for _, u := range users {
		m[u.ID] = u
	}
	d.mu.Lock()
	d.users = m
	d.mu.Unlock()
}

// SetSprints replaces the loaded sprint list.
func (d *Directory) SetSprints(sprints []*Sprint) {
	m := make(map[string]*Sprint, len(sprints))
	for _, s := range sprints {
		m[s.ID] = s
	}
	d.mu.Lock()
	d.sprints = m
	d.mu.Unlock()
}

// AddSprint records a single sprint, keeping prior entries.
func (d *Directory) AddSprint(s *Sprint) {
	if s == nil || s.ID == "" {
		return
	}
	d.mu.Lock()
	d.sprints[s.ID] = s
	d.mu.Unlock()
}

// ResolveUserName returns the display name for a user id, or "Unassigned"
// when the id is empty or not loaded.
func (d *Directory) ResolveUserName(id string) string {
	if id == "" {
		return UnassignedLabel
	}
	d.mu.RLock()
	u, ok := d.users[id]
	d.mu.RUnlock()
	if !ok {
		return UnassignedLabel
	}
	return u.DisplayName()
}

// ResolveSprintName returns the name for a sprint id, or "No Sprint" when
// the id is empty or not loaded.
func (d *Directory) ResolveSprintName(id string) string {
	if id == "" {
		return NoSprintLabel
	}
	d.mu.RLock()
	s, ok := d.sprints[id]
	d.mu.RUnlock()
	if !ok || s.Name == "" {
		return NoSprintLabel
	}
	return s.Name
}
