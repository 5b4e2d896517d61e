package tracker_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprintdeck/sprintdeck/internal/domain"
	"github.com/sprintdeck/sprintdeck/internal/tracker"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *tracker.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return tracker.NewClient(srv.URL, 5*time.Second)
}

func writeEnvelope(t *testing.T, w http.ResponseWriter, success bool, message string, data any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(map[string]any{
		"success": success,
		"message": message,
		"data":    data,
	})
	require.NoError(t, err)
}

// ---------------------------------------------------------------------------
// 1. Record normalization — every field defaulted, flexible list forms.
// ---------------------------------------------------------------------------

func TestTaskRecord_Canonical_Defaults(t *testing.T) {
	t.Parallel()

	rec := tracker.TaskRecord{ID: "42"}
	task := rec.Canonical()

	assert.Equal(t, "42", task.ID)
	assert.Equal(t, "TASK-42", task.Key, "key is derived from id when absent")
	assert.Equal(t, domain.TaskStatusTodo, task.Status)
	assert.Equal(t, domain.PriorityMedium, task.Priority)
	assert.Equal(t, domain.TypeTask, task.Type)
	assert.Equal(t, "", task.Title)
	assert.Equal(t, "", task.SprintID)
	assert.True(t, task.InBacklog())
	assert.Equal(t, []string{}, task.Labels)
	assert.Equal(t, []string{}, task.FixVersions)
}

func TestTaskRecord_Canonical_KeepsExplicitValues(t *testing.T) {
	t.Parallel()

	rec := tracker.TaskRecord{
		ID:       "7",
		Key:      "PROJ-7",
		Status:   "BLOCKED",
		Priority: "CRITICAL",
		Type:     "BUG",
		SprintID: "s1",
	}
	task := rec.Canonical()

	assert.Equal(t, "PROJ-7", task.Key)
	assert.Equal(t, domain.TaskStatusBlocked, task.Status)
	assert.Equal(t, domain.PriorityCritical, task.Priority)
	assert.Equal(t, domain.TypeBug, task.Type)
	assert.False(t, task.InBacklog())
}

func TestStringList_UnmarshalForms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"array", `["a","b"]`, []string{"a", "b"}},
		{"array_trimmed", `[" a ","","b"]`, []string{"a", "b"}},
		{"joined_string", `"a, b,c"`, []string{"a", "b", "c"}},
		{"empty_string", `""`, []string{}},
		{"null", `null`, []string{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var l tracker.StringList
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &l))
			assert.Equal(t, tt.want, []string(l))
		})
	}
}

func TestFlexString_UnmarshalForms(t *testing.T) {
	t.Parallel()

	var f tracker.FlexString
	require.NoError(t, json.Unmarshal([]byte(`"abc"`), &f))
	assert.Equal(t, tracker.FlexString("abc"), f)

	require.NoError(t, json.Unmarshal([]byte(`123`), &f))
	assert.Equal(t, tracker.FlexString("123"), f)

	require.NoError(t, json.Unmarshal([]byte(`2.5`), &f))
	assert.Equal(t, tracker.FlexString("2.5"), f)

	require.NoError(t, json.Unmarshal([]byte(`null`), &f))
	assert.Equal(t, tracker.FlexString(""), f)
}

// ---------------------------------------------------------------------------
// 2. Envelope handling — a false success flag is the same class of failure
// as a transport error, and the payload is never trusted on failure.
// ---------------------------------------------------------------------------

func TestClient_BackendFailureFlag(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, false, "sprint already active", map[string]any{"bogus": true})
	})

	_, err := c.StartSprint(context.Background(), "p1", "")
	require.Error(t, err)

	be, ok := domain.AsBackendError(err)
	require.True(t, ok)
	assert.Equal(t, "sprint already active", be.Message)
	assert.Equal(t, "startSprint", be.Op)
}

func TestClient_HTTPErrorWithoutEnvelope(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway exploded", http.StatusBadGateway)
	})

	_, err := c.ListSprintTasks(context.Background(), "s1")
	require.Error(t, err)
	_, ok := domain.AsBackendError(err)
	assert.True(t, ok, "a non-envelope HTTP failure normalizes to the same class")
}

func TestClient_GetCurrentSprint_Empty(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, true, "", nil)
	})

	s, err := c.GetCurrentSprint(context.Background(), "p1")
	require.NoError(t, err)
	assert.Nil(t, s, "no current sprint is a successful empty result")
}

func TestClient_ListSprintTasks_PreservesOrder(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sprints/s1/tasks", r.URL.Path)
		writeEnvelope(t, w, true, "", []map[string]any{
			{"id": "3", "status": "DONE"},
			{"id": "1", "status": "TODO", "labels": "a,b"},
			{"id": "2"},
		})
	})

	tasks, err := c.ListSprintTasks(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "3", tasks[0].ID, "server order is preserved, no client-side sort")
	assert.Equal(t, "1", tasks[1].ID)
	assert.Equal(t, []string{"a", "b"}, tasks[1].Labels)
	assert.Equal(t, domain.TaskStatusTodo, tasks[2].Status)
}

// ---------------------------------------------------------------------------
// 3. Move call shapes — sprint membership is only sent when supplied.
// ---------------------------------------------------------------------------

func TestClient_MoveTask_CallShapes(t *testing.T) {
	t.Parallel()

	t.Run("board_origin_omits_sprint", func(t *testing.T) {
		t.Parallel()

		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "DONE", body["status"])
			_, hasSprint := body["sprint_id"]
			assert.False(t, hasSprint, "nil sprint id must be omitted entirely")
			writeEnvelope(t, w, true, "", nil)
		})

		require.NoError(t, c.MoveTask(context.Background(), "T1", domain.TaskStatusDone, nil))
	})

	t.Run("backlog_origin_sends_sprint", func(t *testing.T) {
		t.Parallel()

		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/tasks/T2/move", r.URL.Path)
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "TODO", body["status"])
			assert.Equal(t, "S1", body["sprint_id"])
			writeEnvelope(t, w, true, "", nil)
		})

		sid := "S1"
		require.NoError(t, c.MoveTask(context.Background(), "T2", domain.TaskStatusTodo, &sid))
	})
}

// ---------------------------------------------------------------------------
// 4. Grouped update calls and creation.
// ---------------------------------------------------------------------------

func TestClient_UpdateTaskClassification_SendsList(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Epic   string   `json:"epic"`
			Labels []string `json:"labels"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "EPIC-1", body.Epic)
		assert.Equal(t, []string{"api", "urgent"}, body.Labels)
		writeEnvelope(t, w, true, "", nil)
	})

	err := c.UpdateTaskClassification(context.Background(), "T1", "EPIC-1", []string{"api", "urgent"})
	require.NoError(t, err)
}

func TestClient_CreateTask_RequiresTitle(t *testing.T) {
	t.Parallel()

	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := c.CreateTask(context.Background(), tracker.CreateTaskRequest{ProjectID: "p1", Title: "   "})
	assert.ErrorIs(t, err, domain.ErrEmptyTitle)
	assert.False(t, called, "validation failure must not reach the tracker")
}

func TestClient_ListBacklog_PageSize(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/projects/p1/backlog", r.URL.Path)
		assert.Equal(t, "25", r.URL.Query().Get("page_size"))
		writeEnvelope(t, w, true, "", []map[string]any{{"id": "9"}})
	})

	tasks, err := c.ListBacklog(context.Background(), "p1", 25)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "TASK-9", tasks[0].Key)
}
