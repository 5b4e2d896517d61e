package domain

// DragOrigin tags where a move request originated. The origin decides the
// call shape of the move: backlog moves carry the active sprint id, board
// moves leave sprint membership untouched.
type DragOrigin string

const (
	OriginBoard   DragOrigin = "board"
	OriginBacklog DragOrigin = "backlog"
)

// Valid reports whether the origin is one of the two known tags.
func (o DragOrigin) Valid() bool {
	return o == OriginBoard || o == OriginBacklog
}

// DragPayload is the data carried by a drag-and-drop gesture. A payload
// without a task id (a non-task drag landed on a lane) is a no-op drop.
type DragPayload struct {
	Origin DragOrigin `json:"origin"`
	TaskID string     `json:"task_id"`
}

// Empty reports whether the payload carries no task.
func (p DragPayload) Empty() bool {
	return p.TaskID == ""
}
