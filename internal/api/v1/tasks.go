package v1

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/sprintdeck/sprintdeck/internal/domain"
	"github.com/sprintdeck/sprintdeck/internal/tracker"
)

type CreateTaskInput struct {
	ProjectID string `path:"projectID" doc:"Project ID"`
	Body      struct {
		Title       string   `json:"title" minLength:"1" maxLength:"500" doc:"Task title"`
		Description string   `json:"description,omitempty" doc:"Task description"`
		Priority    string   `json:"priority,omitempty" doc:"LOW, MEDIUM, HIGH or CRITICAL"`
		Type        string   `json:"type,omitempty" doc:"TASK, STORY, BUG or EPIC"`
		AssignedTo  string   `json:"assigned_to,omitempty" doc:"Assignee user ID"`
		SprintID    string   `json:"sprint_id,omitempty" doc:"Optional sprint placement"`
		Labels      []string `json:"labels,omitempty" doc:"Labels"`
		DueDate     string   `json:"due_date,omitempty" doc:"Due date, YYYY-MM-DD"`
	}
}

type CreateTaskOutput struct {
	Body *domain.Task
}

type GetTaskInput struct {
	ProjectID string `path:"projectID" doc:"Project ID"`
	TaskID    string `path:"taskID" doc:"Task ID"`
}

// TaskDetail is a canonical task plus lookup-resolved display labels.
type TaskDetail struct {
	Task         *domain.Task `json:"task"`
	AssigneeName string       `json:"assignee_name"`
	ReporterName string       `json:"reporter_name"`
	SprintName   string       `json:"sprint_name"`
}

type GetTaskOutput struct {
	Body TaskDetail
}

func RegisterTaskRoutes(api huma.API, engines EngineProvider, tc Tracker) {
	huma.Register(api, huma.Operation{
		OperationID: "create-task",
		Method:      http.MethodPost,
		Path:        "/projects/{projectID}/tasks",
		Summary:     "Create a task, optionally placed in a sprint",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *CreateTaskInput) (*CreateTaskOutput, error) {
		if strings.TrimSpace(input.Body.Title) == "" {
			return nil, huma.Error422UnprocessableEntity("title is required")
		}

		created, err := tc.CreateTask(ctx, tracker.CreateTaskRequest{
			ProjectID:   input.ProjectID,
			Title:       input.Body.Title,
			Description: input.Body.Description,
			Priority:    input.Body.Priority,
			Type:        input.Body.Type,
			AssignedTo:  input.Body.AssignedTo,
			SprintID:    input.Body.SprintID,
			Labels:      input.Body.Labels,
			DueDate:     input.Body.DueDate,
		})
		if err != nil {
			return nil, apiError(err)
		}

		// A task created straight into the current sprint shows up on the
		// board; reload so every consumer sees the authoritative list.
		e := engines.Engine(ctx, input.ProjectID)
		if created.SprintID != "" && created.SprintID == e.CurrentSprintID() {
			if reloadErr := e.Store.Reload(ctx); reloadErr != nil {
				return nil, apiError(reloadErr)
			}
		}

		return &CreateTaskOutput{Body: created}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-task",
		Method:      http.MethodGet,
		Path:        "/projects/{projectID}/tasks/{taskID}",
		Summary:     "Get a task with resolved display labels",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *GetTaskInput) (*GetTaskOutput, error) {
		task, err := tc.GetTaskDetails(ctx, input.TaskID, input.ProjectID)
		if err != nil {
			return nil, apiError(err)
		}

		e := engines.Engine(ctx, input.ProjectID)
		out := &GetTaskOutput{}
		out.Body = TaskDetail{
			Task:         task,
			AssigneeName: e.Directory.ResolveUserName(task.Assignee),
			ReporterName: e.Directory.ResolveUserName(task.Reporter),
			SprintName:   e.Directory.ResolveSprintName(task.SprintID),
		}
		return out, nil
	})
}
