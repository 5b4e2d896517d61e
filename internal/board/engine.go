package board

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/sprintdeck/sprintdeck/internal/domain"
	"github.com/sprintdeck/sprintdeck/internal/sprint"
)

// TrackerAPI is the full tracker surface the engine needs.
type TrackerAPI interface {
	sprint.TrackerClient
	ListSprintTasks(ctx context.Context, sprintID string) ([]*domain.Task, error)
	ListBacklog(ctx context.Context, projectID string, pageSize int) ([]*domain.Task, error)
	MoveTask(ctx context.Context, id string, status domain.TaskStatus, sprintID *string) error
	ListUsers(ctx context.Context) ([]*domain.User, error)
}

// Engine wires the sprint controller, the task store and the move operator
// for one project. Sprint transitions propagate into the store: a new
// current sprint triggers a reload, an ended sprint clears the lanes.
type Engine struct {
	ProjectID string
	Sprints   *sprint.Controller
	Store     *Store
	Moves     *Operator
	Directory *domain.Directory

	tracker         TrackerAPI
	backlogPageSize int
}

func NewEngine(projectID string, tracker TrackerAPI, backlogPageSize int) *Engine {
	e := &Engine{
		ProjectID:       projectID,
		Sprints:         sprint.NewController(projectID, tracker),
		Store:           NewStore(tracker),
		Directory:       domain.NewDirectory(),
		tracker:         tracker,
		backlogPageSize: backlogPageSize,
	}
	e.Moves = NewOperator(tracker, e.Store, e)

	e.Sprints.OnChange(func(snap sprint.Snapshot) {
		if snap.Sprint == nil {
			e.Store.Clear()
			return
		}
		e.Directory.AddSprint(snap.Sprint)

		e.Store.SetSprint(snap.Sprint.ID)
		// Suspension points are plain network calls; there is no caller
		// context here, the client timeout bounds the request.
		if err := e.Store.Reload(context.Background()); err != nil {
			log.Warn().Err(err).Str("project_id", projectID).Msg("reload after sprint change")
		}
	})

	return e
}

// CurrentSprintID satisfies ActiveSprint for the move operator.
func (e *Engine) CurrentSprintID() string {
	snap := e.Sprints.Snapshot()
	if snap.Sprint == nil {
		return ""
	}
	return snap.Sprint.ID
}

// Backlog returns the project's backlog page in server order.
func (e *Engine) Backlog(ctx context.Context) ([]*domain.Task, error) {
	return e.tracker.ListBacklog(ctx, e.ProjectID, e.backlogPageSize)
}

// RefreshUsers reloads the user reference list into the directory. A load
// failure degrades to the previous list; lookups keep resolving.
func (e *Engine) RefreshUsers(ctx context.Context) error {
	users, err := e.tracker.ListUsers(ctx)
	if err != nil {
		return err
	}
	e.Directory.SetUsers(users)
	return nil
}
