package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/sprintdeck/sprintdeck/internal/domain"
)

type ListUsersOutput struct {
	Body struct {
		Users []*domain.User `json:"users"`
	}
}

func RegisterUserRoutes(api huma.API, tc Tracker) {
	huma.Register(api, huma.Operation{
		OperationID: "list-users",
		Method:      http.MethodGet,
		Path:        "/users",
		Summary:     "List tracker users",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, _ *struct{}) (*ListUsersOutput, error) {
		users, err := tc.ListUsers(ctx)
		if err != nil {
			return nil, apiError(err)
		}

		out := &ListUsersOutput{}
		out.Body.Users = users
		return out, nil
	})
}
