package domain

import (
	"slices"
	"strings"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusInReview   TaskStatus = "IN_REVIEW"
	TaskStatusDone       TaskStatus = "DONE"
	TaskStatusBlocked    TaskStatus = "BLOCKED"
)

// KnownStatuses is the canonical lane order of the board.
var KnownStatuses = []TaskStatus{ //nolint:gochecknoglobals // canonical enum list
	TaskStatusTodo,
	TaskStatusInProgress,
	TaskStatusInReview,
	TaskStatusDone,
	TaskStatusBlocked,
}

// Known returns true if the status is one of the five board statuses.
// Unknown statuses are still carried through (overflow lanes), never dropped.
func (s TaskStatus) Known() bool {
	return slices.Contains(KnownStatuses, s)
}

type Priority string

const (
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

type TaskType string

const (
	TypeTask  TaskType = "TASK"
	TypeStory TaskType = "STORY"
	TypeBug   TaskType = "BUG"
	TypeEpic  TaskType = "EPIC"
)

// Task is the canonical in-memory shape of a tracker record. Every field is
// defaulted at normalization time; an empty SprintID means the task sits in
// the backlog.
type Task struct {
	ID               string     `json:"id"`
	Key              string     `json:"key"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Status           TaskStatus `json:"status"`
	Priority         Priority   `json:"priority"`
	Type             TaskType   `json:"type"`
	Assignee         string     `json:"assignee"` // user id, empty = unassigned
	Reporter         string     `json:"reporter"` // user id, immutable from the editor
	SprintID         string     `json:"sprint_id"`
	Labels           []string   `json:"labels"`
	DueDate          string     `json:"due_date"` // YYYY-MM-DD, empty = unset
	StoryPoints      string     `json:"story_points"`
	OriginalEstimate string     `json:"original_estimate"`
	TimeTracked      string     `json:"time_tracked"` // server-computed, read-only
	Epic             string     `json:"epic"`
	FixVersions      []string   `json:"fix_versions"`
	CreatedAt        string     `json:"created_at"` // server-assigned
	UpdatedAt        string     `json:"updated_at"` // server-assigned
}

// LabelsDisplay joins the label list for display.
func (t *Task) LabelsDisplay() string {
	return strings.Join(t.Labels, ", ")
}

// FixVersionsDisplay joins the fix-version list for display.
func (t *Task) FixVersionsDisplay() string {
	return strings.Join(t.FixVersions, ", ")
}

// InBacklog reports whether the task belongs to no sprint.
func (t *Task) InBacklog() bool {
	return t.SprintID == ""
}

// SplitLabels parses a comma-joined label string into the internal list
// form: split on comma, trim, drop empty entries.
func SplitLabels(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
