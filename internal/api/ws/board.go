package ws

// BoardEvent represents a real-time board update.
type BoardEvent struct {
	Type      string `json:"type"` // "tasks_reloaded", "board_cleared", "sprint_changed"
	ProjectID string `json:"project_id"`
	SprintID  string `json:"sprint_id,omitempty"`
	Revision  uint64 `json:"revision"`
}
