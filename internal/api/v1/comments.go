package v1

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/sprintdeck/sprintdeck/internal/tracker"
)

type ListCommentsInput struct {
	TaskID string `path:"taskID" doc:"Task ID"`
}

type ListCommentsOutput struct {
	Body struct {
		Comments []tracker.Comment `json:"comments"`
	}
}

type AddCommentInput struct {
	TaskID string `path:"taskID" doc:"Task ID"`
	Body   struct {
		Content string `json:"content" minLength:"1" doc:"Comment text"`
	}
}

type AddCommentOutput struct {
	Body struct {
		Added bool `json:"added"`
	}
}

// Comment routes are plain pass-throughs: the thread is tracker-owned data
// the board must not corrupt.
func RegisterCommentRoutes(api huma.API, tc Tracker) {
	huma.Register(api, huma.Operation{
		OperationID: "list-comments",
		Method:      http.MethodGet,
		Path:        "/tasks/{taskID}/comments",
		Summary:     "List a task's comments",
		Tags:        []string{"Comments"},
	}, func(ctx context.Context, input *ListCommentsInput) (*ListCommentsOutput, error) {
		comments, err := tc.ListComments(ctx, input.TaskID)
		if err != nil {
			return nil, apiError(err)
		}

		out := &ListCommentsOutput{}
		out.Body.Comments = comments
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "add-comment",
		Method:      http.MethodPost,
		Path:        "/tasks/{taskID}/comments",
		Summary:     "Add a comment to a task",
		Tags:        []string{"Comments"},
	}, func(ctx context.Context, input *AddCommentInput) (*AddCommentOutput, error) {
		if strings.TrimSpace(input.Body.Content) == "" {
			return nil, huma.Error422UnprocessableEntity("comment content is required")
		}

		if err := tc.AddComment(ctx, input.TaskID, input.Body.Content); err != nil {
			return nil, apiError(err)
		}

		out := &AddCommentOutput{}
		out.Body.Added = true
		return out, nil
	})
}
