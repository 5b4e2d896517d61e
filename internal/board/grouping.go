// Package board owns the task collection for a project's active sprint:
// lane grouping, the revision-counted store, and the move operator shared
// by drag-and-drop, the backlog view and the issue editor.
package board

import "github.com/sprintdeck/sprintdeck/internal/domain"

// Lane is one board column: a status key and its tasks in server order.
type Lane struct {
	Status domain.TaskStatus `json:"status"`
	Tasks  []*domain.Task    `json:"tasks"`
}

// Group partitions tasks into the five fixed status lanes, preserving the
// order received from the tracker. A task with an unknown status lands in a
// group keyed by that literal value rather than being dropped.
func Group(tasks []*domain.Task) map[domain.TaskStatus][]*domain.Task {
	groups := make(map[domain.TaskStatus][]*domain.Task, len(domain.KnownStatuses))
	for _, s := range domain.KnownStatuses {
		groups[s] = []*domain.Task{}
	}
	for _, t := range tasks {
		groups[t.Status] = append(groups[t.Status], t)
	}
	return groups
}

// Lanes returns the grouped tasks as an ordered slice: the five known
// statuses in canonical order, then any overflow statuses in first-seen
// order.
func Lanes(tasks []*domain.Task) []Lane {
	groups := Group(tasks)

	lanes := make([]Lane, 0, len(groups))
	for _, s := range domain.KnownStatuses {
		lanes = append(lanes, Lane{Status: s, Tasks: groups[s]})
	}

	seen := make(map[domain.TaskStatus]bool, len(domain.KnownStatuses))
	for _, s := range domain.KnownStatuses {
		seen[s] = true
	}
	for _, t := range tasks {
		if seen[t.Status] {
			continue
		}
		seen[t.Status] = true
		lanes = append(lanes, Lane{Status: t.Status, Tasks: groups[t.Status]})
	}
	return lanes
}
