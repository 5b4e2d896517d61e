// Package sprint tracks a project's current sprint and drives the
// start/end lifecycle against the tracker.
package sprint

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/sprintdeck/sprintdeck/internal/domain"
)

// ErrInitialsRequired is returned by Start when the tracker rejects a bare
// start with a message indicating a naming token is needed. The caller must
// prompt for a 3-letter token and retry; this is not a generic failure.
var ErrInitialsRequired = errors.New("sprint: initials required to start sprint")

// TrackerClient is the slice of the tracker API the controller uses.
type TrackerClient interface {
	GetCurrentSprint(ctx context.Context, projectID string) (*domain.Sprint, error)
	StartSprint(ctx context.Context, projectID, initials string) (*domain.Sprint, error)
	EndSprint(ctx context.Context, sprintID string) error
}

// Snapshot is the controller state handed to dependents. A nil Sprint means
// NO_SPRINT. Active is tracked separately from "current": a PLANNED sprint
// can be current without running.
type Snapshot struct {
	Sprint  *domain.Sprint
	Active  bool
	Message string // display-only message from the last failed load
}

// Controller is the state machine over {NO_SPRINT, HAS_CURRENT(id, active)}
// for one project. All operations are gated by a busy flag: an overlapping
// call returns domain.ErrBusy instead of issuing a duplicate request.
type Controller struct {
	projectID string
	tracker   TrackerClient

	mu       sync.Mutex
	busy     bool
	current  *domain.Sprint
	message  string
	onChange []func(Snapshot)
}

func NewController(projectID string, tracker TrackerClient) *Controller {
	return &Controller{projectID: projectID, tracker: tracker}
}

// OnChange registers a dependent notified after every state transition.
// Callbacks run outside the controller lock.
func (c *Controller) OnChange(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = append(c.onChange, fn)
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{Message: c.message}
	if c.current != nil {
		cp := *c.current
		snap.Sprint = &cp
		snap.Active = cp.Running()
	}
	return snap
}

// LoadCurrent queries the tracker for the project's current sprint. It never
// fails outward: a load error or empty result transitions to NO_SPRINT with
// the error captured as a display-only message.
func (c *Controller) LoadCurrent(ctx context.Context) Snapshot {
	if !c.begin() {
		return c.Snapshot()
	}
	defer c.end()

	sprint, err := c.tracker.GetCurrentSprint(ctx, c.projectID)

	c.mu.Lock()
	if err != nil {
		log.Warn().Err(err).Str("project_id", c.projectID).Msg("load current sprint")
		c.current = nil
		c.message = err.Error()
	} else {
		c.current = sprint
		c.message = ""
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snap)
	return snap
}

// Start attempts to start a sprint. With empty initials a bare start is
// tried first; if the tracker's failure message indicates initials are
// required, ErrInitialsRequired is returned so the caller can prompt.
// Non-empty initials are validated locally before any network call. An
// unexpected failure is authoritative and is not retried.
func (c *Controller) Start(ctx context.Context, initials string) (Snapshot, error) {
	if initials != "" {
		norm, err := domain.ValidateInitials(initials)
		if err != nil {
			return c.Snapshot(), err
		}
		initials = norm
	}

	if !c.begin() {
		return c.Snapshot(), domain.ErrBusy
	}
	defer c.end()

	started, err := c.tracker.StartSprint(ctx, c.projectID, initials)
	if err != nil {
		if initials == "" && needsInitials(err) {
			return c.Snapshot(), ErrInitialsRequired
		}
		return c.Snapshot(), err
	}

	// The tracker may report the new sprint before flipping it to ACTIVE;
	// a freshly started sprint is running from the client's point of view.
	if started.Status == domain.SprintStatusPlanned {
		started.Status = domain.SprintStatusActive
	}

	c.mu.Lock()
	c.current = started
	c.message = ""
	snap := c.snapshotLocked()
	c.mu.Unlock()

	log.Info().Str("project_id", c.projectID).Str("sprint_id", started.ID).Msg("sprint started")
	c.notify(snap)
	return snap, nil
}

// End terminates the current sprint. On success the controller transitions
// to NO_SPRINT and dependents are notified; the board clears its task list
// as part of that notification.
func (c *Controller) End(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	if c.current == nil {
		c.mu.Unlock()
		return Snapshot{}, domain.ErrNoActiveSprint
	}
	sprintID := c.current.ID
	c.mu.Unlock()

	if !c.begin() {
		return c.Snapshot(), domain.ErrBusy
	}
	defer c.end()

	if err := c.tracker.EndSprint(ctx, sprintID); err != nil {
		return c.Snapshot(), err
	}

	c.mu.Lock()
	c.current = nil
	c.message = ""
	snap := c.snapshotLocked()
	c.mu.Unlock()

	log.Info().Str("project_id", c.projectID).Str("sprint_id", sprintID).Msg("sprint ended")
	c.notify(snap)
	return snap, nil
}

// needsInitials matches the tracker's "initials required" failure by
// case-insensitive substring, the only signal the tracker gives.
func needsInitials(err error) bool {
	be, ok := domain.AsBackendError(err)
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(be.Message), "initials")
}

func (c *Controller) begin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return false
	}
	c.busy = true
	return true
}

func (c *Controller) end() {
	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()
}

func (c *Controller) notify(snap Snapshot) {
	c.mu.Lock()
	callbacks := make([]func(Snapshot), len(c.onChange))
	copy(callbacks, c.onChange)
	c.mu.Unlock()

	for _, fn := range callbacks {
		fn(snap)
	}
}
