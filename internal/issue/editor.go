package issue

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/sprintdeck/sprintdeck/internal/domain"
)

// ErrSaveFailed reports that at least one save group failed. The per-group
// detail lives in the SaveResult; the user sees a single message.
var ErrSaveFailed = errors.New("issue: save failed")

// ErrUnknownField reports an edit against a field outside the editable set.
var ErrUnknownField = errors.New("issue: unknown field")

// Saver is the slice of the tracker API covering the three grouped update
// calls.
type Saver interface {
	UpdateTaskDetails(ctx context.Context, id, title, description string) error
	UpdateTaskAssignment(ctx context.Context, id, assignedTo, dueDate string) error
	UpdateTaskClassification(ctx context.Context, id, epic string, labels []string) error
}

// Mover is the move operator contract shared with the board: the editor's
// status/sprint group goes through the exact same call as drag-and-drop.
type Mover interface {
	MoveTo(ctx context.Context, taskID string, status domain.TaskStatus, sprintID *string) error
}

// GroupOutcome records one group's fate within a save.
type GroupOutcome struct {
	Group     Group  `json:"group"`
	Attempted bool   `json:"attempted"`
	Err       string `json:"error,omitempty"`
}

// SaveResult is the per-group outcome record of one save sequence.
type SaveResult struct {
	Outcomes []GroupOutcome `json:"outcomes"`
}

// Failed reports whether any attempted group failed.
func (r SaveResult) Failed() bool {
	for _, o := range r.Outcomes {
		if o.Attempted && o.Err != "" {
			return true
		}
	}
	return false
}

// Attempted reports whether any group was dispatched at all.
func (r SaveResult) Attempted() bool {
	for _, o := range r.Outcomes {
		if o.Attempted {
			return true
		}
	}
	return false
}

// Editor tracks a working copy of one issue's editable fields against a
// pristine snapshot taken at load time. The snapshot only ever absorbs
// field groups the tracker confirmed, so IsDirty keeps reflecting the real
// state of the server even across partially failed saves.
type Editor struct {
	taskID string
	saver  Saver
	mover  Mover

	mu       sync.Mutex
	busy     bool
	pristine Fields
	working  Fields
	onSaved  []func()
}

// NewEditor opens an editor over a freshly loaded task.
func NewEditor(task *domain.Task, saver Saver, mover Mover) *Editor {
	snap := FieldsOf(task)
	return &Editor{
		taskID:   task.ID,
		saver:    saver,
		mover:    mover,
		pristine: snap,
		working:  snap,
	}
}

// TaskID returns the edited task's id.
func (e *Editor) TaskID() string { return e.taskID }

// OnSaved registers a changed-notification fired after a fully successful
// save, so an enclosing board or backlog view can reload.
func (e *Editor) OnSaved(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onSaved = append(e.onSaved, fn)
}

// Set mutates one working-copy field. Dirty state is recomputed on every
// mutation by comparing against the pristine snapshot.
func (e *Editor) Set(field Field, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.working.set(field, value) {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// Revert restores one field to its pristine value: the Escape affordance.
// Purely local, no network call.
func (e *Editor) Revert(field Field) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	pristine, ok := e.pristine.Get(field)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	e.working.set(field, pristine)
	return nil
}

// IsDirty reports whether any working field differs from pristine.
func (e *Editor) IsDirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.working != e.pristine
}

// Working returns the working copy.
func (e *Editor) Working() Fields {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.working
}

// Pristine returns the last-confirmed snapshot.
func (e *Editor) Pristine() Fields {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pristine
}

// Save dispatches the grouped update calls for every group whose fields
// differ from the pristine snapshot. Details, assignment and classification
// have no inter-group dependency and are issued concurrently; the move
// group follows, through the shared move operator, and only when status or
// sprint changed. Each fully-succeeded group folds back into the pristine
// snapshot, so a retry re-sends only the groups that still differ. Any
// group failure makes the save fail as a whole (ErrSaveFailed) with the
// per-group detail in the result.
func (e *Editor) Save(ctx context.Context) (SaveResult, error) {
	e.mu.Lock()
	if e.busy {
		e.mu.Unlock()
		return SaveResult{}, domain.ErrBusy
	}
	e.busy = true
	pristine := e.pristine
	working := e.working
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.busy = false
		e.mu.Unlock()
	}()

	outcomes := map[Group]*GroupOutcome{
		GroupDetails:        {Group: GroupDetails},
		GroupAssignment:     {Group: GroupAssignment},
		GroupClassification: {Group: GroupClassification},
		GroupMove:           {Group: GroupMove},
	}

	var wg sync.WaitGroup
	dispatch := func(g Group, call func() error) {
		outcomes[g].Attempted = true
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := call(); err != nil {
				outcomes[g].Err = err.Error()
			}
		}()
	}

	if detailsChanged(working, pristine) {
		dispatch(GroupDetails, func() error {
			return e.saver.UpdateTaskDetails(ctx, e.taskID, working.Title, working.Description)
		})
	}
	if assignmentChanged(working, pristine) {
		dispatch(GroupAssignment, func() error {
			return e.saver.UpdateTaskAssignment(ctx, e.taskID, working.Assignee, working.DueDate)
		})
	}
	if classificationChanged(working, pristine) {
		dispatch(GroupClassification, func() error {
			return e.saver.UpdateTaskClassification(ctx, e.taskID, working.Epic, domain.SplitLabels(working.Labels))
		})
	}
	wg.Wait()

	// The move group runs after the others: it uses a distinct endpoint
	// family and its failure must not block them from having been attempted.
	if moveChanged(working, pristine) {
		outcomes[GroupMove].Attempted = true
		var sprintID *string
		if working.SprintID != pristine.SprintID {
			// Explicit target, including pointer-to-empty for "back to
			// backlog". An unchanged sprint is omitted entirely.
			sid := working.SprintID
			sprintID = &sid
		}
		if err := e.mover.MoveTo(ctx, e.taskID, working.Status, sprintID); err != nil {
			outcomes[GroupMove].Err = err.Error()
		}
	}

	result := SaveResult{Outcomes: []GroupOutcome{
		*outcomes[GroupDetails],
		*outcomes[GroupAssignment],
		*outcomes[GroupClassification],
		*outcomes[GroupMove],
	}}

	// Fold confirmed groups back into the pristine snapshot.
	e.mu.Lock()
	if ok := outcomes[GroupDetails]; ok.Attempted && ok.Err == "" {
		e.pristine.Title = working.Title
		e.pristine.Description = working.Description
	}
	if ok := outcomes[GroupAssignment]; ok.Attempted && ok.Err == "" {
		e.pristine.Assignee = working.Assignee
		e.pristine.DueDate = working.DueDate
	}
	if ok := outcomes[GroupClassification]; ok.Attempted && ok.Err == "" {
		e.pristine.Epic = working.Epic
		e.pristine.Labels = working.Labels
	}
	if ok := outcomes[GroupMove]; ok.Attempted && ok.Err == "" {
		e.pristine.Status = working.Status
		e.pristine.SprintID = working.SprintID
	}
	e.mu.Unlock()

	if result.Failed() {
		log.Warn().Str("task_id", e.taskID).Msg("issue save failed")
		return result, ErrSaveFailed
	}

	if result.Attempted() {
		e.notifySaved()
	}
	return result, nil
}

func (e *Editor) notifySaved() {
	e.mu.Lock()
	callbacks := make([]func(), len(e.onSaved))
	copy(callbacks, e.onSaved)
	e.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
}
