package board

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/sprintdeck/sprintdeck/internal/domain"
)

// MoveClient is the slice of the tracker API the operator uses.
type MoveClient interface {
	MoveTask(ctx context.Context, id string, status domain.TaskStatus, sprintID *string) error
}

// ActiveSprint supplies the sprint id a backlog move should target.
type ActiveSprint interface {
	CurrentSprintID() string
}

// Operator is the single source of truth for changing a task's status
// and/or sprint membership. Drag-and-drop, the backlog add-to-sprint action
// and the issue editor's status field all go through it and observe the
// same post-condition: server-confirmed state, never an optimistic local
// mutation.
type Operator struct {
	tracker MoveClient
	store   *Store
	sprints ActiveSprint

	mu   sync.Mutex
	busy bool
}

func NewOperator(tracker MoveClient, store *Store, sprints ActiveSprint) *Operator {
	return &Operator{tracker: tracker, store: store, sprints: sprints}
}

// Move applies a drag payload to a target status. A payload without a task
// id is a no-op (a non-task drag landed on a lane). Origin decides the call
// shape: backlog moves carry the current sprint id, board moves leave
// sprint membership untouched. On success the store reloads so every
// consumer sees authoritative state; on failure nothing changes locally.
func (o *Operator) Move(ctx context.Context, payload domain.DragPayload, status domain.TaskStatus) error {
	if payload.Empty() {
		return nil
	}
	if !status.Known() {
		return fmt.Errorf("board: unknown target status %q", status)
	}
	if !payload.Origin.Valid() {
		return fmt.Errorf("board: unknown drag origin %q", payload.Origin)
	}

	var sprintID *string
	if payload.Origin == domain.OriginBacklog {
		current := o.sprints.CurrentSprintID()
		if current == "" {
			return domain.ErrNoActiveSprint
		}
		sprintID = &current
	}

	return o.apply(ctx, payload.TaskID, status, sprintID)
}

// MoveTo changes status and sprint membership explicitly. The issue editor
// uses this shape: it knows the exact target sprint (or backlog) from its
// working copy.
func (o *Operator) MoveTo(ctx context.Context, taskID string, status domain.TaskStatus, sprintID *string) error {
	if taskID == "" {
		return nil
	}
	if !status.Known() {
		return fmt.Errorf("board: unknown target status %q", status)
	}
	return o.apply(ctx, taskID, status, sprintID)
}

func (o *Operator) apply(ctx context.Context, taskID string, status domain.TaskStatus, sprintID *string) error {
	if !o.begin() {
		return domain.ErrBusy
	}
	defer o.end()

	if err := o.tracker.MoveTask(ctx, taskID, status, sprintID); err != nil {
		// The move did not happen; the caller surfaces the message and
		// must re-fetch rather than assume anything about server state.
		return err
	}

	log.Debug().Str("task_id", taskID).Str("status", string(status)).Msg("task moved")

	if err := o.store.Reload(ctx); err != nil {
		// The move itself succeeded; the board just failed to refresh.
		return fmt.Errorf("board: reload after move: %w", err)
	}
	return nil
}

func (o *Operator) begin() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.busy {
		return false
	}
	o.busy = true
	return true
}

func (o *Operator) end() {
	o.mu.Lock()
	o.busy = false
	o.mu.Unlock()
}
