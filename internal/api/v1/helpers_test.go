package v1_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"

	v1 "github.com/sprintdeck/sprintdeck/internal/api/v1"
	"github.com/sprintdeck/sprintdeck/internal/board"
	"github.com/sprintdeck/sprintdeck/internal/domain"
	"github.com/sprintdeck/sprintdeck/internal/issue"
	"github.com/sprintdeck/sprintdeck/internal/tracker"
)

// fakeTracker is a stateful in-memory tracker backend. It implements both
// board.TrackerAPI and v1.Tracker, so one instance backs a whole test server.
type fakeTracker struct {
	mu sync.Mutex

	current         *domain.Sprint
	requireInitials bool
	tasks           map[string]*domain.Task
	users           []*domain.User
	comments        map[string][]tracker.Comment
	failOp          map[string]error
	nextID          int
}

func newFakeTracker() *fakeTracker {
	return &fakeTracker{
		tasks:    make(map[string]*domain.Task),
		comments: make(map[string][]tracker.Comment),
		failOp:   make(map[string]error),
	}
}

func (f *fakeTracker) fail(op string) error {
	return f.failOp[op]
}

func (f *fakeTracker) addTask(t *domain.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[t.ID] = t
}

func (f *fakeTracker) GetCurrentSprint(context.Context, string) (*domain.Sprint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("getCurrentSprint"); err != nil {
		return nil, err
	}
	return f.current, nil
}

func (f *fakeTracker) StartSprint(_ context.Context, _, initials string) (*domain.Sprint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("startSprint"); err != nil {
		return nil, err
	}
	if f.requireInitials && initials == "" {
		return nil, &domain.BackendError{Op: "startSprint", Message: "Initials are required to name the sprint"}
	}
	f.nextID++
	name := fmt.Sprintf("Sprint %d", f.nextID)
	if initials != "" {
		name = fmt.Sprintf("Sprint %d (%s)", f.nextID, initials)
	}
	f.current = &domain.Sprint{
		ID:     fmt.Sprintf("s%d", f.nextID),
		Name:   name,
		Status: domain.SprintStatusActive,
	}
	return f.current, nil
}

func (f *fakeTracker) EndSprint(_ context.Context, sprintID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("endSprint"); err != nil {
		return err
	}
	if f.current == nil || f.current.ID != sprintID {
		return &domain.BackendError{Op: "endSprint", Message: "sprint not found"}
	}
	f.current = nil
	return nil
}

func (f *fakeTracker) ListSprintTasks(_ context.Context, sprintID string) ([]*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("listSprintTasks"); err != nil {
		return nil, err
	}
	var out []*domain.Task
	for _, t := range f.tasks {
		if t.SprintID == sprintID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeTracker) ListBacklog(_ context.Context, _ string, _ int) ([]*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("listBacklog"); err != nil {
		return nil, err
	}
	var out []*domain.Task
	for _, t := range f.tasks {
		if t.SprintID == "" {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeTracker) MoveTask(_ context.Context, id string, status domain.TaskStatus, sprintID *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("moveTask"); err != nil {
		return err
	}
	t, ok := f.tasks[id]
	if !ok {
		return &domain.BackendError{Op: "moveTask", Message: "task not found"}
	}
	t.Status = status
	if sprintID != nil {
		t.SprintID = *sprintID
	}
	return nil
}

func (f *fakeTracker) ListUsers(context.Context) ([]*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("listUsers"); err != nil {
		return nil, err
	}
	return f.users, nil
}

func (f *fakeTracker) CreateTask(_ context.Context, req tracker.CreateTaskRequest) (*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("createTask"); err != nil {
		return nil, err
	}
	f.nextID++
	t := &domain.Task{
		ID:       fmt.Sprintf("%d", 100+f.nextID),
		Key:      fmt.Sprintf("TASK-%d", 100+f.nextID),
		Title:    req.Title,
		Status:   domain.TaskStatusTodo,
		SprintID: req.SprintID,
		Labels:   req.Labels,
	}
	f.tasks[t.ID] = t
	cp := *t
	return &cp, nil
}

func (f *fakeTracker) GetTaskDetails(_ context.Context, id, _ string) (*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("getTaskDetails"); err != nil {
		return nil, err
	}
	t, ok := f.tasks[id]
	if !ok {
		return nil, &domain.BackendError{Op: "getTaskDetails", Message: "task not found"}
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTracker) UpdateTaskDetails(_ context.Context, id, title, description string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("updateDetails"); err != nil {
		return err
	}
	t, ok := f.tasks[id]
	if !ok {
		return &domain.BackendError{Op: "updateDetails", Message: "task not found"}
	}
	t.Title = title
	t.Description = description
	return nil
}

func (f *fakeTracker) UpdateTaskAssignment(_ context.Context, id, assignedTo, dueDate string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("updateAssignment"); err != nil {
		return err
	}
	t, ok := f.tasks[id]
	if !ok {
		return &domain.BackendError{Op: "updateAssignment", Message: "task not found"}
	}
	t.Assignee = assignedTo
	t.DueDate = dueDate
	return nil
}

func (f *fakeTracker) UpdateTaskClassification(_ context.Context, id, epic string, labels []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("updateClassification"); err != nil {
		return err
	}
	t, ok := f.tasks[id]
	if !ok {
		return &domain.BackendError{Op: "updateClassification", Message: "task not found"}
	}
	t.Epic = epic
	t.Labels = labels
	return nil
}

func (f *fakeTracker) ListComments(_ context.Context, taskID string) ([]tracker.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("listComments"); err != nil {
		return nil, err
	}
	return f.comments[taskID], nil
}

func (f *fakeTracker) AddComment(_ context.Context, taskID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("addComment"); err != nil {
		return err
	}
	f.comments[taskID] = append(f.comments[taskID], tracker.Comment{
		ID:      tracker.FlexString(fmt.Sprintf("c%d", len(f.comments[taskID])+1)),
		Author:  "u1",
		Content: content,
	})
	return nil
}

// newTestAPI wires the full v1 surface over a fake tracker, mirroring the
// server's route registration.
func newTestAPI(t *testing.T, ft *fakeTracker) humatest.TestAPI {
	t.Helper()

	_, api := humatest.New(t)
	engines := board.NewManager(ft, 50, nil)
	sessions := issue.NewRegistry()

	v1.RegisterBoardRoutes(api, engines)
	v1.RegisterSprintRoutes(api, engines)
	v1.RegisterTaskRoutes(api, engines, ft)
	v1.RegisterEditorRoutes(api, engines, ft, sessions)
	v1.RegisterUserRoutes(api, ft)
	v1.RegisterCommentRoutes(api, ft)

	return api
}
