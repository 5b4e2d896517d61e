package domain

type SprintStatus string

const (
	SprintStatusPlanned   SprintStatus = "PLANNED"
	SprintStatusActive    SprintStatus = "ACTIVE"
	SprintStatusCompleted SprintStatus = "COMPLETED"
)

// Sprint is a tracker sprint record. A sprint can be the project's current
// sprint without being ACTIVE (a freshly created sprint is PLANNED but still
// current); "current" and "active" are therefore tracked as separate facts.
type Sprint struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Status    SprintStatus `json:"status"`
	StartDate string       `json:"start_date"`
	EndDate   string       `json:"end_date"`
}

// Running reports whether the sprint is ACTIVE. Only ACTIVE counts as
// running; PLANNED and COMPLETED do not.
func (s *Sprint) Running() bool {
	return s.Status == SprintStatusActive
}
