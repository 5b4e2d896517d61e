package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/sprintdeck/sprintdeck/internal/board"
	"github.com/sprintdeck/sprintdeck/internal/domain"
)

type GetBoardInput struct {
	ProjectID string `path:"projectID" doc:"Project ID"`
}

type GetBoardOutput struct {
	Body struct {
		Sprint   sprintView   `json:"sprint"`
		Revision uint64       `json:"revision"`
		Lanes    []board.Lane `json:"lanes"`
	}
}

type GetBacklogInput struct {
	ProjectID string `path:"projectID" doc:"Project ID"`
}

type GetBacklogOutput struct {
	Body struct {
		Tasks []*domain.Task `json:"tasks"`
	}
}

type MoveTaskInput struct {
	ProjectID string `path:"projectID" doc:"Project ID"`
	TaskID    string `path:"taskID" doc:"Task ID"`
	Body      struct {
		Origin domain.DragOrigin `json:"origin" doc:"Where the move originated: board or backlog"`
		Status domain.TaskStatus `json:"status" doc:"Target status lane"`
	}
}

type MoveTaskOutput struct {
	Body struct {
		Moved    bool   `json:"moved"`
		Revision uint64 `json:"revision"`
	}
}

func RegisterBoardRoutes(api huma.API, engines EngineProvider) {
	huma.Register(api, huma.Operation{
		OperationID: "get-board",
		Method:      http.MethodGet,
		Path:        "/projects/{projectID}/board",
		Summary:     "Get the board lanes for the project's current sprint",
		Tags:        []string{"Board"},
	}, func(ctx context.Context, input *GetBoardInput) (*GetBoardOutput, error) {
		e := engines.Engine(ctx, input.ProjectID)

		snap := e.Store.Snapshot()
		out := &GetBoardOutput{}
		out.Body.Sprint = viewOf(e.Sprints.Snapshot())
		out.Body.Revision = snap.Revision
		out.Body.Lanes = board.Lanes(snap.Tasks)
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-backlog",
		Method:      http.MethodGet,
		Path:        "/projects/{projectID}/backlog",
		Summary:     "List the project's backlog",
		Tags:        []string{"Board"},
	}, func(ctx context.Context, input *GetBacklogInput) (*GetBacklogOutput, error) {
		e := engines.Engine(ctx, input.ProjectID)

		tasks, err := e.Backlog(ctx)
		if err != nil {
			return nil, apiError(err)
		}

		out := &GetBacklogOutput{}
		out.Body.Tasks = tasks
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "move-task",
		Method:      http.MethodPost,
		Path:        "/projects/{projectID}/tasks/{taskID}/move",
		Summary:     "Move a task to a status lane, and into the sprint when dragged from the backlog",
		Tags:        []string{"Board"},
	}, func(ctx context.Context, input *MoveTaskInput) (*MoveTaskOutput, error) {
		if !input.Body.Status.Known() {
			return nil, huma.Error422UnprocessableEntity("unknown task status: " + string(input.Body.Status))
		}
		if !input.Body.Origin.Valid() {
			return nil, huma.Error422UnprocessableEntity("unknown drag origin: " + string(input.Body.Origin))
		}

		e := engines.Engine(ctx, input.ProjectID)

		payload := domain.DragPayload{Origin: input.Body.Origin, TaskID: input.TaskID}
		if err := e.Moves.Move(ctx, payload, input.Body.Status); err != nil {
			return nil, apiError(err)
		}

		out := &MoveTaskOutput{}
		out.Body.Moved = true
		out.Body.Revision = e.Store.Snapshot().Revision
		return out, nil
	})
}
