package v1

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/sprintdeck/sprintdeck/internal/board"
	"github.com/sprintdeck/sprintdeck/internal/domain"
	"github.com/sprintdeck/sprintdeck/internal/issue"
	"github.com/sprintdeck/sprintdeck/internal/sprint"
	"github.com/sprintdeck/sprintdeck/internal/tracker"
)

// EngineProvider hands out per-project board engines.
// *board.Manager satisfies this interface.
type EngineProvider interface {
	Engine(ctx context.Context, projectID string) *board.Engine
}

// Tracker is the slice of the tracker client the handlers use directly:
// pass-throughs and the editor's grouped save calls.
// *tracker.Client satisfies this interface.
type Tracker interface {
	issue.Saver
	CreateTask(ctx context.Context, req tracker.CreateTaskRequest) (*domain.Task, error)
	GetTaskDetails(ctx context.Context, id, projectID string) (*domain.Task, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	ListComments(ctx context.Context, taskID string) ([]tracker.Comment, error)
	AddComment(ctx context.Context, taskID, content string) error
}

// apiError normalizes engine and tracker failures to HTTP errors. A
// tracker-reported logical failure and a transport failure are the same
// class; both surface the message inline and neither is fatal.
func apiError(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, domain.ErrBusy):
		return huma.Error409Conflict("operation already in progress")
	case errors.Is(err, domain.ErrInvalidInitials),
		errors.Is(err, domain.ErrEmptyTitle),
		errors.Is(err, domain.ErrNoActiveSprint),
		errors.Is(err, issue.ErrUnknownField):
		return huma.Error422UnprocessableEntity(err.Error())
	default:
		return huma.Error502BadGateway(displayMessage(err))
	}
}

// displayMessage prefers the tracker's human-readable message when present.
func displayMessage(err error) string {
	if be, ok := domain.AsBackendError(err); ok && be.Message != "" {
		return be.Message
	}
	return err.Error()
}

// sprintView is the wire shape of a controller snapshot.
type sprintView struct {
	Sprint  *domain.Sprint `json:"sprint"`
	Active  bool           `json:"active"`
	Message string         `json:"message,omitempty"`
}

func viewOf(snap sprint.Snapshot) sprintView {
	return sprintView{Sprint: snap.Sprint, Active: snap.Active, Message: snap.Message}
}
