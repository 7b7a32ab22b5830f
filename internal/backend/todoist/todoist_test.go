package todoist

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/taskline/internal/backend"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*Todoist, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewWithBaseURL("test-token", srv.URL), srv
}

func TestFetchTasks_Normalization(t *testing.T) {
	adapter, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "/tasks", r.URL.Path)
		json.NewEncoder(w).Encode([]apiTask{
			{
				ID:          "r-1",
				ProjectID:   "rp-1",
				Content:     "Water plants",
				Priority:    4,
				Order:       3,
				Labels:      []string{"home", "chores"},
				Due:         &apiDue{Date: "2026-09-01"},
				IsCompleted: false,
			},
			{
				ID:        "r-2",
				ProjectID: "rp-1",
				SectionID: strp("rs-1"),
				ParentID:  strp("r-1"),
				Content:   "Timed subtask",
				Priority:  9,
				Due: &apiDue{
					Date:        "2026-09-02",
					Datetime:    strp("2026-09-02T14:30:00Z"),
					IsRecurring: true,
				},
			},
			{
				ID:        "r-3",
				ProjectID: "rp-2",
				Content:   "No due",
				Priority:  0,
			},
		})
	})

	tasks, err := adapter.FetchTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 3)

	assert.Equal(t, "r-1", tasks[0].RemoteID)
	assert.Equal(t, "Water plants", tasks[0].Content)
	assert.Equal(t, 4, tasks[0].Priority)
	assert.Equal(t, 3, tasks[0].OrderIndex)
	assert.Equal(t, []string{"home", "chores"}, tasks[0].Labels)
	require.NotNil(t, tasks[0].DueDate)
	assert.Equal(t, "2026-09-01", *tasks[0].DueDate)
	assert.Nil(t, tasks[0].DueDatetime)

	require.NotNil(t, tasks[1].SectionRemoteID)
	assert.Equal(t, "rs-1", *tasks[1].SectionRemoteID)
	require.NotNil(t, tasks[1].ParentRemoteID)
	assert.Equal(t, "r-1", *tasks[1].ParentRemoteID)
	assert.Equal(t, 4, tasks[1].Priority, "out-of-range priority clamps high")
	require.NotNil(t, tasks[1].DueDatetime)
	assert.Equal(t, "2026-09-02T14:30:00Z", *tasks[1].DueDatetime)
	assert.True(t, tasks[1].IsRecurring)

	assert.Equal(t, 1, tasks[2].Priority, "zero priority clamps low")
	assert.Nil(t, tasks[2].DueDate)
	assert.Nil(t, tasks[2].DueDatetime)
}

func TestFetchProjects_Normalization(t *testing.T) {
	adapter, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/projects", r.URL.Path)
		json.NewEncoder(w).Encode([]apiProject{
			{ID: "rp-1", Name: "Inbox", Color: "grey", IsInboxProject: true},
			{ID: "rp-2", Name: "Garden", Color: "green", ParentID: strp("rp-1"), Order: 2, IsFavorite: true},
		})
	})

	projects, err := adapter.FetchProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.True(t, projects[0].IsInbox)
	assert.Equal(t, "Garden", projects[1].Name)
	assert.True(t, projects[1].IsFavorite)
	assert.Equal(t, 2, projects[1].OrderIndex)
	require.NotNil(t, projects[1].ParentRemoteID)
	assert.Equal(t, "rp-1", *projects[1].ParentRemoteID)
}

func TestCreateTask_SendsBodyAndDecodesResult(t *testing.T) {
	adapter, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/tasks", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Prune roses", body["content"])
		assert.Equal(t, "rp-2", body["project_id"])
		assert.Equal(t, "2026-09-05", body["due_date"])

		json.NewEncoder(w).Encode(apiTask{
			ID:        "r-new",
			ProjectID: "rp-2",
			Content:   "Prune roses",
			Priority:  2,
			Due:       &apiDue{Date: "2026-09-05"},
		})
	})

	created, err := adapter.CreateTask(context.Background(), backend.CreateTaskArgs{
		Content:         "Prune roses",
		ProjectRemoteID: "rp-2",
		DueDate:         strp("2026-09-05"),
	})
	require.NoError(t, err)
	assert.Equal(t, "r-new", created.RemoteID)
	assert.Equal(t, 2, created.Priority)
	require.NotNil(t, created.DueDate)
	assert.Equal(t, "2026-09-05", *created.DueDate)
}

func TestCompleteTask_PostsClose(t *testing.T) {
	var gotPath string
	adapter, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, adapter.CompleteTask(context.Background(), "r-9"))
	assert.Equal(t, "/tasks/r-9/close", gotPath)
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		status int
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, backend.ErrAuth},
		{"forbidden", http.StatusForbidden, backend.ErrAuth},
		{"not found", http.StatusNotFound, backend.ErrNotFound},
		{"bad request", http.StatusBadRequest, backend.ErrValidation},
		{"unprocessable", http.StatusUnprocessableEntity, backend.ErrValidation},
		{"server error", http.StatusInternalServerError, backend.ErrNetwork},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			adapter, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			})
			_, err := adapter.FetchProjects(context.Background())
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestRateLimit_CarriesRetryAfter(t *testing.T) {
	adapter, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "42")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := adapter.FetchTasks(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, backend.ErrRateLimited)

	var rle *backend.RateLimitError
	require.True(t, errors.As(err, &rle))
	assert.Equal(t, 42*time.Second, rle.RetryAfter)
}

func TestRateLimit_MissingRetryAfter(t *testing.T) {
	adapter, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := adapter.FetchTasks(context.Background())
	var rle *backend.RateLimitError
	require.True(t, errors.As(err, &rle))
	assert.Equal(t, time.Duration(0), rle.RetryAfter)
}

func TestTransportFailure_MapsToNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	adapter := NewWithBaseURL("test-token", srv.URL)

	_, err := adapter.FetchLabels(context.Background())
	assert.ErrorIs(t, err, backend.ErrNetwork)
}

func strp(s string) *string { return &s }
