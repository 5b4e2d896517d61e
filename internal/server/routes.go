package server

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	v1 "github.com/sprintdeck/sprintdeck/internal/api/v1"
	"github.com/sprintdeck/sprintdeck/internal/api/ws"
	"github.com/sprintdeck/sprintdeck/internal/board"
	"github.com/sprintdeck/sprintdeck/internal/issue"
	"github.com/sprintdeck/sprintdeck/internal/tracker"
)

func registerAPIRoutes(api huma.API, engines *board.Manager, tc *tracker.Client, sessions *issue.Registry) {
	v1.RegisterBoardRoutes(api, engines)
	v1.RegisterSprintRoutes(api, engines)
	v1.RegisterTaskRoutes(api, engines, tc)
	v1.RegisterEditorRoutes(api, engines, tc, sessions)
	v1.RegisterUserRoutes(api, tc)
	v1.RegisterCommentRoutes(api, tc)
}

func registerWSRoutes(r chi.Router, hub *ws.Hub) {
	r.Get("/board/{projectID}", hub.ServeBoard)
}
