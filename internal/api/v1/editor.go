package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/sprintdeck/sprintdeck/internal/domain"
	"github.com/sprintdeck/sprintdeck/internal/issue"
)

type OpenEditorInput struct {
	ProjectID string `path:"projectID" doc:"Project ID"`
	TaskID    string `path:"taskID" doc:"Task ID"`
}

type OpenEditorOutput struct {
	Body struct {
		SessionID uuid.UUID    `json:"session_id"`
		Fields    issue.Fields `json:"fields"`
		Dirty     bool         `json:"dirty"`
	}
}

type EditFieldInput struct {
	SessionID uuid.UUID `path:"sessionID" doc:"Editor session ID"`
	Body      struct {
		Field issue.Field `json:"field" doc:"Field name"`
		Value string      `json:"value" doc:"New working-copy value"`
	}
}

type EditFieldOutput struct {
	Body struct {
		Fields issue.Fields `json:"fields"`
		Dirty  bool         `json:"dirty"`
	}
}

type RevertFieldInput struct {
	SessionID uuid.UUID `path:"sessionID" doc:"Editor session ID"`
	Body      struct {
		Field issue.Field `json:"field" doc:"Field name"`
	}
}

type SaveEditorInput struct {
	SessionID uuid.UUID `path:"sessionID" doc:"Editor session ID"`
}

type SaveEditorOutput struct {
	Body struct {
		Saved   bool             `json:"saved"`
		Dirty   bool             `json:"dirty"`
		Result  issue.SaveResult `json:"result"`
		Message string           `json:"message,omitempty"`
	}
}

type CloseEditorInput struct {
	SessionID uuid.UUID `path:"sessionID" doc:"Editor session ID"`
}

func RegisterEditorRoutes(api huma.API, engines EngineProvider, tc Tracker, sessions *issue.Registry) {
	huma.Register(api, huma.Operation{
		OperationID: "open-editor",
		Method:      http.MethodPost,
		Path:        "/projects/{projectID}/tasks/{taskID}/editor",
		Summary:     "Open an editor session over a task's fields",
		Tags:        []string{"Editor"},
	}, func(ctx context.Context, input *OpenEditorInput) (*OpenEditorOutput, error) {
		e := engines.Engine(ctx, input.ProjectID)

		task, err := tc.GetTaskDetails(ctx, input.TaskID, input.ProjectID)
		if err != nil {
			return nil, apiError(err)
		}

		editor := issue.NewEditor(task, tc, e.Moves)
		// Converge the board with editor saves through the shared changed
		// notification, independent of the board's own reload cycle.
		editor.OnSaved(func() {
			if reloadErr := e.Store.Reload(context.Background()); reloadErr != nil {
				log.Warn().Err(reloadErr).Str("task_id", task.ID).Msg("reload after editor save")
			}
		})

		sess := sessions.Open(input.ProjectID, editor)

		out := &OpenEditorOutput{}
		out.Body.SessionID = sess.ID
		out.Body.Fields = editor.Working()
		out.Body.Dirty = false
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "edit-field",
		Method:      http.MethodPatch,
		Path:        "/editor/{sessionID}",
		Summary:     "Set one working-copy field",
		Tags:        []string{"Editor"},
	}, func(_ context.Context, input *EditFieldInput) (*EditFieldOutput, error) {
		sess, err := sessions.Get(input.SessionID)
		if err != nil {
			return nil, apiError(err)
		}

		if err := sess.Editor.Set(input.Body.Field, input.Body.Value); err != nil {
			return nil, apiError(err)
		}

		out := &EditFieldOutput{}
		out.Body.Fields = sess.Editor.Working()
		out.Body.Dirty = sess.Editor.IsDirty()
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "revert-field",
		Method:      http.MethodPost,
		Path:        "/editor/{sessionID}/revert",
		Summary:     "Revert one field to its pristine value without persisting",
		Tags:        []string{"Editor"},
	}, func(_ context.Context, input *RevertFieldInput) (*EditFieldOutput, error) {
		sess, err := sessions.Get(input.SessionID)
		if err != nil {
			return nil, apiError(err)
		}

		if err := sess.Editor.Revert(input.Body.Field); err != nil {
			return nil, apiError(err)
		}

		out := &EditFieldOutput{}
		out.Body.Fields = sess.Editor.Working()
		out.Body.Dirty = sess.Editor.IsDirty()
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "save-editor",
		Method:      http.MethodPost,
		Path:        "/editor/{sessionID}/save",
		Summary:     "Save changed field groups to the tracker",
		Tags:        []string{"Editor"},
	}, func(ctx context.Context, input *SaveEditorInput) (*SaveEditorOutput, error) {
		sess, err := sessions.Get(input.SessionID)
		if err != nil {
			return nil, apiError(err)
		}

		result, err := sess.Editor.Save(ctx)
		if err != nil && !errors.Is(err, issue.ErrSaveFailed) {
			return nil, apiError(err)
		}

		out := &SaveEditorOutput{}
		out.Body.Saved = err == nil
		out.Body.Dirty = sess.Editor.IsDirty()
		out.Body.Result = result
		if err != nil {
			out.Body.Message = "Failed to save issue"
		}
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "close-editor",
		Method:      http.MethodDelete,
		Path:        "/editor/{sessionID}",
		Summary:     "Discard an editor session",
		Tags:        []string{"Editor"},
	}, func(_ context.Context, input *CloseEditorInput) (*struct{}, error) {
		if err := sessions.Close(input.SessionID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("editor session not found")
			}
			return nil, apiError(err)
		}
		return nil, nil
	})
}
