// Package issue implements the issue editor: a working copy of an issue's
// editable fields tracked against a pristine snapshot, and the grouped save
// pipeline that persists the minimal set of changed field groups.
package issue

import "github.com/sprintdeck/sprintdeck/internal/domain"

// Field names the editable fields of an issue.
type Field string

const (
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
	FieldAssignee    Field = "assignee"
	FieldDueDate     Field = "due_date"
	FieldEpic        Field = "epic"
	FieldLabels      Field = "labels"
	FieldStatus      Field = "status"
	FieldSprint      Field = "sprint"
)

// Fields is the editable field set. Labels are held in the UI-layer form,
// a comma-joined string; they are split back into a list at save time. The
// struct is comparable, so the dirty check is plain equality.
type Fields struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Assignee    string            `json:"assignee"`
	DueDate     string            `json:"due_date"`
	Epic        string            `json:"epic"`
	Labels      string            `json:"labels"`
	Status      domain.TaskStatus `json:"status"`
	SprintID    string            `json:"sprint_id"`
}

// FieldsOf takes the editable snapshot of a canonical task.
func FieldsOf(t *domain.Task) Fields {
	return Fields{
		Title:       t.Title,
		Description: t.Description,
		Assignee:    t.Assignee,
		DueDate:     t.DueDate,
		Epic:        t.Epic,
		Labels:      t.LabelsDisplay(),
		Status:      t.Status,
		SprintID:    t.SprintID,
	}
}

// Get returns the named field's value.
func (f Fields) Get(name Field) (string, bool) {
	switch name {
	case FieldTitle:
		return f.Title, true
	case FieldDescription:
		return f.Description, true
	case FieldAssignee:
		return f.Assignee, true
	case FieldDueDate:
		return f.DueDate, true
	case FieldEpic:
		return f.Epic, true
	case FieldLabels:
		return f.Labels, true
	case FieldStatus:
		return string(f.Status), true
	case FieldSprint:
		return f.SprintID, true
	default:
		return "", false
	}
}

// set assigns the named field. Unknown fields report false.
func (f *Fields) set(name Field, value string) bool {
	switch name {
	case FieldTitle:
		f.Title = value
	case FieldDescription:
		f.Description = value
	case FieldAssignee:
		f.Assignee = value
	case FieldDueDate:
		f.DueDate = value
	case FieldEpic:
		f.Epic = value
	case FieldLabels:
		f.Labels = value
	case FieldStatus:
		f.Status = domain.TaskStatus(value)
	case FieldSprint:
		f.SprintID = value
	default:
		return false
	}
	return true
}

// Group names one of the save pipeline's grouped update calls.
type Group string

const (
	GroupDetails        Group = "details"        // title, description
	GroupAssignment     Group = "assignment"     // assignee, due date
	GroupClassification Group = "classification" // epic, labels
	GroupMove           Group = "move"           // status, sprint
)

// detailsChanged reports whether the details group differs between two
// field sets; likewise for the other group predicates.
func detailsChanged(a, b Fields) bool {
	return a.Title != b.Title || a.Description != b.Description
}

func assignmentChanged(a, b Fields) bool {
	return a.Assignee != b.Assignee || a.DueDate != b.DueDate
}

func classificationChanged(a, b Fields) bool {
	return a.Epic != b.Epic || a.Labels != b.Labels
}

func moveChanged(a, b Fields) bool {
	return a.Status != b.Status || a.SprintID != b.SprintID
}
