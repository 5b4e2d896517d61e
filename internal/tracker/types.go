package tracker

import (
	"encoding/json"
	"strings"

	"github.com/sprintdeck/sprintdeck/internal/domain"
)

// StringList is a list-typed wire field that the tracker serves either as a
// JSON array or as an already-joined comma string. It normalizes to an
// ordered list with entries trimmed and empties dropped.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = []string{}
		return nil
	}

	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		out := make([]string, 0, len(arr))
		for _, v := range arr {
			v = strings.TrimSpace(v)
			if v != "" {
				out = append(out, v)
			}
		}
		*l = out
		return nil
	}

	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return err
	}
	*l = domain.SplitLabels(joined)
	return nil
}

// FlexString is a scalar wire field the tracker serves as string, number or
// null. Numbers keep their literal representation.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// TaskRecord is the raw task shape served by the tracker. Fields may be
// absent or null; Canonical fills every gap.
type TaskRecord struct {
	ID               FlexString `json:"id"`
	Key              string     `json:"key"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Status           string     `json:"status"`
	Priority         string     `json:"priority"`
	Type             string     `json:"type"`
	AssignedTo       FlexString `json:"assigned_to"`
	Reporter         FlexString `json:"reporter"`
	SprintID         FlexString `json:"sprint_id"`
	Labels           StringList `json:"labels"`
	DueDate          string     `json:"due_date"`
	StoryPoints      FlexString `json:"story_points"`
	OriginalEstimate string     `json:"original_estimate"`
	TimeTracked      string     `json:"time_tracked"`
	Epic             string     `json:"epic"`
	FixVersions      StringList `json:"fix_versions"`
	CreatedAt        string     `json:"created_at"`
	UpdatedAt        string     `json:"updated_at"`
}

// Canonical normalizes a raw record into a fully-defaulted domain.Task:
// string fields default to empty, status to TODO, priority to MEDIUM, type
// to TASK, and the human key is derived from the id when absent.
func (r *TaskRecord) Canonical() *domain.Task {
	t := &domain.Task{
		ID:               string(r.ID),
		Key:              r.Key,
		Title:            r.Title,
		Description:      r.Description,
		Status:           domain.TaskStatus(r.Status),
		Priority:         domain.Priority(r.Priority),
		Type:             domain.TaskType(r.Type),
		Assignee:         string(r.AssignedTo),
		Reporter:         string(r.Reporter),
		SprintID:         string(r.SprintID),
		Labels:           r.Labels,
		DueDate:          r.DueDate,
		StoryPoints:      string(r.StoryPoints),
		OriginalEstimate: r.OriginalEstimate,
		TimeTracked:      r.TimeTracked,
		Epic:             r.Epic,
		FixVersions:      r.FixVersions,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
	if t.Status == "" {
		t.Status = domain.TaskStatusTodo
	}
	if t.Priority == "" {
		t.Priority = domain.PriorityMedium
	}
	if t.Type == "" {
		t.Type = domain.TypeTask
	}
	if t.Key == "" && t.ID != "" {
		t.Key = "TASK-" + t.ID
	}
	if t.Labels == nil {
		t.Labels = []string{}
	}
	if t.FixVersions == nil {
		t.FixVersions = []string{}
	}
	return t
}

// SprintRecord is the raw sprint shape served by the tracker.
type SprintRecord struct {
	ID        FlexString `json:"id"`
	Name      string     `json:"name"`
	Status    string     `json:"status"`
	StartDate string     `json:"start_date"`
	EndDate   string     `json:"end_date"`
}

func (r *SprintRecord) Canonical() *domain.Sprint {
	s := &domain.Sprint{
		ID:        string(r.ID),
		Name:      r.Name,
		Status:    domain.SprintStatus(r.Status),
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
	}
	if s.Status == "" {
		s.Status = domain.SprintStatusPlanned
	}
	return s
}

// UserRecord is the raw user shape served by the tracker.
type UserRecord struct {
	ID       FlexString `json:"id"`
	Name     string     `json:"name"`
	Username string     `json:"username"`
	Email    string     `json:"email"`
}

func (r *UserRecord) Canonical() *domain.User {
	return &domain.User{
		ID:       string(r.ID),
		Name:     r.Name,
		Username: r.Username,
		Email:    r.Email,
	}
}

// Comment is a comment-thread entry. The board core treats comments as
// opaque pass-through data it must not corrupt.
type Comment struct {
	ID        FlexString `json:"id"`
	Author    FlexString `json:"author"`
	Content   string     `json:"content"`
	CreatedAt string     `json:"created_at"`
}

// CreateTaskRequest is the creation payload. Title is validated client-side
// before the call.
type CreateTaskRequest struct {
	ProjectID   string   `json:"project_id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Priority    string   `json:"priority,omitempty"`
	Type        string   `json:"type,omitempty"`
	AssignedTo  string   `json:"assigned_to,omitempty"`
	SprintID    string   `json:"sprint_id,omitempty"`
	Labels      []string `json:"labels,omitempty"`
	DueDate     string   `json:"due_date,omitempty"`
}
