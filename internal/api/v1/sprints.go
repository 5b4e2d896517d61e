package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/sprintdeck/sprintdeck/internal/sprint"
)

type GetSprintInput struct {
	ProjectID string `path:"projectID" doc:"Project ID"`
	Refresh   bool   `query:"refresh" doc:"Re-query the tracker for the current sprint"`
}

type GetSprintOutput struct {
	Body sprintView
}

type StartSprintInput struct {
	ProjectID string `path:"projectID" doc:"Project ID"`
	Body      struct {
		Initials string `json:"initials,omitempty" doc:"Optional 3-letter naming token"`
	}
}

type StartSprintOutput struct {
	Body struct {
		Started          bool       `json:"started"`
		InitialsRequired bool       `json:"initials_required"`
		Sprint           sprintView `json:"sprint"`
	}
}

type EndSprintInput struct {
	ProjectID string `path:"projectID" doc:"Project ID"`
}

type EndSprintOutput struct {
	Body struct {
		Ended  bool       `json:"ended"`
		Sprint sprintView `json:"sprint"`
	}
}

func RegisterSprintRoutes(api huma.API, engines EngineProvider) {
	huma.Register(api, huma.Operation{
		OperationID: "get-sprint",
		Method:      http.MethodGet,
		Path:        "/projects/{projectID}/sprint",
		Summary:     "Get the project's current sprint state",
		Tags:        []string{"Sprints"},
	}, func(ctx context.Context, input *GetSprintInput) (*GetSprintOutput, error) {
		e := engines.Engine(ctx, input.ProjectID)

		snap := e.Sprints.Snapshot()
		if input.Refresh {
			snap = e.Sprints.LoadCurrent(ctx)
		}
		return &GetSprintOutput{Body: viewOf(snap)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "start-sprint",
		Method:      http.MethodPost,
		Path:        "/projects/{projectID}/sprint/start",
		Summary:     "Start a sprint, optionally with a naming token",
		Tags:        []string{"Sprints"},
	}, func(ctx context.Context, input *StartSprintInput) (*StartSprintOutput, error) {
		e := engines.Engine(ctx, input.ProjectID)

		out := &StartSprintOutput{}
		snap, err := e.Sprints.Start(ctx, input.Body.Initials)
		if err != nil {
			// Not a failure: the tracker wants a naming token. The client
			// shows the initials prompt and retries with the token.
			if errors.Is(err, sprint.ErrInitialsRequired) {
				out.Body.InitialsRequired = true
				out.Body.Sprint = viewOf(snap)
				return out, nil
			}
			return nil, apiError(err)
		}

		out.Body.Started = true
		out.Body.Sprint = viewOf(snap)
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "end-sprint",
		Method:      http.MethodPost,
		Path:        "/projects/{projectID}/sprint/end",
		Summary:     "End the project's current sprint",
		Tags:        []string{"Sprints"},
	}, func(ctx context.Context, input *EndSprintInput) (*EndSprintOutput, error) {
		e := engines.Engine(ctx, input.ProjectID)

		snap, err := e.Sprints.End(ctx)
		if err != nil {
			return nil, apiError(err)
		}

		out := &EndSprintOutput{}
		out.Body.Ended = true
		out.Body.Sprint = viewOf(snap)
		return out, nil
	})
}
