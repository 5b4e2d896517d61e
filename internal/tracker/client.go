package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sprintdeck/sprintdeck/internal/domain"
)

const defaultTimeout = 10 * time.Second

// Client is the HTTP client for the remote tracker API. Every response
// carries a success flag and a message; a false flag is surfaced as a
// *domain.BackendError, which callers treat identically to a transport
// failure.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a tracker client. A zero timeout falls back to the
// default.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// envelope is the uniform tracker response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// do issues one request and decodes the envelope. When out is non-nil the
// envelope's data payload is decoded into it. The payload is never touched
// when the success flag is false.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("tracker.%s: marshal: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("tracker.%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("tracker.%s: %w", op, err)
	}
	defer resp.Body.Close()

	var env envelope
	if decodeErr := json.NewDecoder(resp.Body).Decode(&env); decodeErr != nil {
		if resp.StatusCode >= 400 {
			return &domain.BackendError{Op: op, Message: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("tracker.%s: decode: %w", op, decodeErr)
	}

	if !env.Success {
		return &domain.BackendError{Op: op, Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if decodeErr := json.Unmarshal(env.Data, out); decodeErr != nil {
			return fmt.Errorf("tracker.%s: decode data: %w", op, decodeErr)
		}
	}
	return nil
}

// ListBacklog returns the project's backlog page as canonical tasks,
// preserving server order.
func (c *Client) ListBacklog(ctx context.Context, projectID string, pageSize int) ([]*domain.Task, error) {
	query := url.Values{}
	if pageSize > 0 {
		query.Set("page_size", strconv.Itoa(pageSize))
	}
	var records []TaskRecord
	err := c.do(ctx, "listBacklog", http.MethodGet, "/projects/"+url.PathEscape(projectID)+"/backlog", query, nil, &records)
	if err != nil {
		return nil, err
	}
	return canonicalTasks(records), nil
}

// GetCurrentSprint returns the project's current sprint, or nil when the
// project has none. "Current" does not imply ACTIVE.
func (c *Client) GetCurrentSprint(ctx context.Context, projectID string) (*domain.Sprint, error) {
	var record *SprintRecord
	err := c.do(ctx, "getCurrentSprint", http.MethodGet, "/projects/"+url.PathEscape(projectID)+"/sprints/current", nil, nil, &record)
	if err != nil {
		return nil, err
	}
	if record == nil || record.ID == "" {
		return nil, nil
	}
	return record.Canonical(), nil
}

// ListSprintTasks returns a sprint's tasks in server order.
func (c *Client) ListSprintTasks(ctx context.Context, sprintID string) ([]*domain.Task, error) {
	var records []TaskRecord
	err := c.do(ctx, "listSprintTasks", http.MethodGet, "/sprints/"+url.PathEscape(sprintID)+"/tasks", nil, nil, &records)
	if err != nil {
		return nil, err
	}
	return canonicalTasks(records), nil
}

// StartSprint starts a sprint for the project. Initials are optional; the
// tracker may reject a bare start with a message indicating initials are
// required, in which case the caller prompts and retries.
func (c *Client) StartSprint(ctx context.Context, projectID, initials string) (*domain.Sprint, error) {
	body := struct {
		Initials string `json:"initials,omitempty"`
	}{Initials: initials}

	var record SprintRecord
	err := c.do(ctx, "startSprint", http.MethodPost, "/projects/"+url.PathEscape(projectID)+"/sprints/start", nil, body, &record)
	if err != nil {
		return nil, err
	}
	return record.Canonical(), nil
}

// EndSprint requests sprint termination.
func (c *Client) EndSprint(ctx context.Context, sprintID string) error {
	return c.do(ctx, "endSprint", http.MethodPost, "/sprints/"+url.PathEscape(sprintID)+"/end", nil, nil, nil)
}

// MoveTask changes a task's status and, when sprintID is non-nil, its
// sprint membership. A nil sprintID leaves membership untouched server-side.
func (c *Client) MoveTask(ctx context.Context, id string, status domain.TaskStatus, sprintID *string) error {
	body := struct {
		Status   domain.TaskStatus `json:"status"`
		SprintID *string           `json:"sprint_id,omitempty"`
	}{Status: status, SprintID: sprintID}

	return c.do(ctx, "moveTask", http.MethodPost, "/tasks/"+url.PathEscape(id)+"/move", nil, body, nil)
}

// GetTaskDetails fetches one task as a canonical record.
func (c *Client) GetTaskDetails(ctx context.Context, id, projectID string) (*domain.Task, error) {
	query := url.Values{}
	if projectID != "" {
		query.Set("project_id", projectID)
	}
	var record TaskRecord
	err := c.do(ctx, "getTaskDetails", http.MethodGet, "/tasks/"+url.PathEscape(id), query, nil, &record)
	if err != nil {
		return nil, err
	}
	return record.Canonical(), nil
}

// UpdateTaskDetails saves the details group (title, description).
func (c *Client) UpdateTaskDetails(ctx context.Context, id, title, description string) error {
	body := struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}{Title: title, Description: description}

	return c.do(ctx, "updateTaskDetails", http.MethodPut, "/tasks/"+url.PathEscape(id)+"/details", nil, body, nil)
}

// UpdateTaskAssignment saves the assignment group (assignee, due date).
func (c *Client) UpdateTaskAssignment(ctx context.Context, id, assignedTo, dueDate string) error {
	body := struct {
		AssignedTo string `json:"assigned_to"`
		DueDate    string `json:"due_date"`
	}{AssignedTo: assignedTo, DueDate: dueDate}

	return c.do(ctx, "updateTaskAssignment", http.MethodPut, "/tasks/"+url.PathEscape(id)+"/assignment", nil, body, nil)
}

// UpdateTaskClassification saves the classification group (epic, labels).
// Labels go over the wire as a list.
func (c *Client) UpdateTaskClassification(ctx context.Context, id, epic string, labels []string) error {
	if labels == nil {
		labels = []string{}
	}
	body := struct {
		Epic   string   `json:"epic"`
		Labels []string `json:"labels"`
	}{Epic: epic, Labels: labels}

	return c.do(ctx, "updateTaskClassification", http.MethodPut, "/tasks/"+url.PathEscape(id)+"/classification", nil, body, nil)
}

// CreateTask creates a task in the project, optionally placed in a sprint.
func (c *Client) CreateTask(ctx context.Context, req CreateTaskRequest) (*domain.Task, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, domain.ErrEmptyTitle
	}
	var record TaskRecord
	err := c.do(ctx, "createTask", http.MethodPost, "/tasks", nil, req, &record)
	if err != nil {
		return nil, err
	}
	return record.Canonical(), nil
}

// ListUsers returns the tracker's user reference list.
func (c *Client) ListUsers(ctx context.Context) ([]*domain.User, error) {
	var records []UserRecord
	err := c.do(ctx, "listUsers", http.MethodGet, "/users", nil, nil, &records)
	if err != nil {
		return nil, err
	}
	users := make([]*domain.User, 0, len(records))
	for i := range records {
		users = append(users, records[i].Canonical())
	}
	return users, nil
}

// ListComments returns a task's comment thread in server order.
func (c *Client) ListComments(ctx context.Context, taskID string) ([]Comment, error) {
	var comments []Comment
	err := c.do(ctx, "listComments", http.MethodGet, "/tasks/"+url.PathEscape(taskID)+"/comments", nil, nil, &comments)
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// AddComment appends to a task's comment thread.
func (c *Client) AddComment(ctx context.Context, taskID, content string) error {
	body := struct {
		Content string `json:"content"`
	}{Content: content}

	return c.do(ctx, "addComment", http.MethodPost, "/tasks/"+url.PathEscape(taskID)+"/comments", nil, body, nil)
}

func canonicalTasks(records []TaskRecord) []*domain.Task {
	tasks := make([]*domain.Task, 0, len(records))
	for i := range records {
		tasks = append(tasks, records[i].Canonical())
	}
	return tasks
}
