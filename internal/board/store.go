package board

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/sprintdeck/sprintdeck/internal/domain"
)

// TaskLister is the slice of the tracker API the store uses.
type TaskLister interface {
	ListSprintTasks(ctx context.Context, sprintID string) ([]*domain.Task, error)
}

// Snapshot is an immutable view of the store at one revision.
type Snapshot struct {
	Revision uint64
	SprintID string
	Tasks    []*domain.Task
}

// Store is the single owner of the task collection for one project's active
// sprint. Consumers render from snapshots, never from locally cached copies.
// Every change bumps a monotonically increasing revision; a reload fully
// replaces the list, and a reload completing after a newer one dispatched is
// discarded rather than applied.
type Store struct {
	tracker TaskLister

	mu       sync.Mutex
	revision uint64
	loadSeq  uint64 // tag of the most recent reload dispatch
	sprintID string
	tasks    []*domain.Task
	subs     []func(Snapshot)
}

func NewStore(tracker TaskLister) *Store {
	return &Store{tracker: tracker}
}

// Subscribe registers a consumer notified on every revision bump.
// Callbacks run outside the store lock.
func (s *Store) Subscribe(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Snapshot returns the current revision and task list.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	tasks := make([]*domain.Task, len(s.tasks))
	copy(tasks, s.tasks)
	return Snapshot{Revision: s.revision, SprintID: s.sprintID, Tasks: tasks}
}

// SetSprint switches the store to a different sprint. An empty id clears
// the board: lane contents are only meaningful for the current sprint.
func (s *Store) SetSprint(sprintID string) {
	s.mu.Lock()
	if s.sprintID == sprintID {
		s.mu.Unlock()
		return
	}
	s.sprintID = sprintID
	s.tasks = nil
	s.loadSeq++ // orphan any in-flight reload for the old sprint
	s.revision++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// Clear empties the task list, e.g. when the sprint ends.
func (s *Store) Clear() {
	s.mu.Lock()
	s.sprintID = ""
	s.tasks = nil
	s.loadSeq++
	s.revision++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// Reload fetches the sprint's tasks and replaces the list. The fetch is
// tagged with a sequence number at dispatch; if a newer reload (or a sprint
// switch) happens while it is in flight, the stale result is discarded.
func (s *Store) Reload(ctx context.Context) error {
	s.mu.Lock()
	if s.sprintID == "" {
		s.mu.Unlock()
		return nil
	}
	sprintID := s.sprintID
	s.loadSeq++
	seq := s.loadSeq
	s.mu.Unlock()

	tasks, err := s.tracker.ListSprintTasks(ctx, sprintID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if seq != s.loadSeq || sprintID != s.sprintID {
		s.mu.Unlock()
		log.Debug().Str("sprint_id", sprintID).Uint64("seq", seq).Msg("discarding stale task reload")
		return nil
	}
	s.tasks = tasks
	s.revision++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return nil
}

func (s *Store) notify(snap Snapshot) {
	s.mu.Lock()
	subs := make([]func(Snapshot), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}
