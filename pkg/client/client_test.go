package client_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/go-planner/pkg/client"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   map[string]any
}

func newRecordingServer(t *testing.T, status int, response string) (*httptest.Server, *recordedRequest) {
	t.Helper()

	rec := new(recordedRequest)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.Method = r.Method
		rec.Path = r.URL.EscapedPath()
		rec.Query = r.URL.RawQuery
		rec.Auth = r.Header.Get("Authorization")

		body, _ := io.ReadAll(r.Body)
		rec.Body = nil
		if len(body) > 0 {
			require.NoError(t, json.Unmarshal(body, &rec.Body))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func TestClient_CreateTask(t *testing.T) {
	srv, rec := newRecordingServer(t, http.StatusCreated, `{
		"_id": "t1",
		"userId": "u1",
		"text": "Buy milk",
		"completed": false,
		"scheduledDate": "2025-05-01T09:00:00Z",
		"projectId": null,
		"isProjectTask": false,
		"created": "2025-04-30T12:00:00.123Z"
	}`)
	c := client.New(srv.URL+"/", client.WithToken("tok"))

	scheduled := time.Date(2025, time.May, 1, 9, 0, 0, 0, time.UTC)
	task, err := c.CreateTask(context.Background(), client.NewTask{Text: "Buy milk", ScheduledDate: &scheduled})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, rec.Method)
	assert.Equal(t, "/api/tasks", rec.Path)
	assert.Equal(t, "Bearer tok", rec.Auth)
	assert.Equal(t, "Buy milk", rec.Body["text"])
	assert.Equal(t, "2025-05-01T09:00:00Z", rec.Body["scheduledDate"])

	assert.Equal(t, "t1", task.ID)
	assert.Nil(t, task.ProjectID)
	assert.True(t, scheduled.Equal(task.ScheduledDate))
}

func TestClient_PartialUpdateSendsOnlyPresentFields(t *testing.T) {
	srv, rec := newRecordingServer(t, http.StatusOK, `{"_id":"t1","completed":false}`)
	c := client.New(srv.URL)

	completed := false
	_, err := c.UpdateTask(context.Background(), "t1", client.TaskUpdate{Completed: &completed})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPatch, rec.Method)
	assert.Equal(t, "/api/tasks/t1", rec.Path)
	assert.Equal(t, map[string]any{"completed": false}, rec.Body)
	assert.Empty(t, rec.Auth)
}

func TestClient_Paths(t *testing.T) {
	srv, rec := newRecordingServer(t, http.StatusOK, `{}`)
	c := client.New(srv.URL)
	ctx := context.Background()

	tests := []struct {
		name   string
		call   func() error
		method string
		path   string
		query  string
	}{
		{
			name:   "delete note",
			call:   func() error { _, err := c.DeleteNote(ctx, "n/1"); return err },
			method: http.MethodDelete, path: "/api/notes/n%2F1",
		},
		{
			name:   "project task update",
			call:   func() error { _, err := c.UpdateProjectTask(ctx, "p1", "t1", client.TaskUpdate{}); return err },
			method: http.MethodPatch, path: "/api/projects/p1/tasks/t1",
		},
		{
			name:   "project note create",
			call:   func() error { _, err := c.CreateProjectNote(ctx, "p1", "plan"); return err },
			method: http.MethodPost, path: "/api/projects/p1/notes",
		},
		{
			name:   "delete project",
			call:   func() error { _, err := c.DeleteProject(ctx, "p1"); return err },
			method: http.MethodDelete, path: "/api/projects/p1",
		},
		{
			name:   "profile",
			call:   func() error { _, err := c.Profile(ctx); return err },
			method: http.MethodGet, path: "/api/user/profile",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.call())
			assert.Equal(t, tt.method, rec.Method)
			assert.Equal(t, tt.path, rec.Path)
			assert.Equal(t, tt.query, rec.Query)
		})
	}
}

func TestClient_ListTodayTasks(t *testing.T) {
	srv, rec := newRecordingServer(t, http.StatusOK, `[{"_id":"t1"},{"_id":"t2"}]`)
	c := client.New(srv.URL)

	tasks, err := c.ListTasks(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
	assert.Equal(t, "/api/tasks", rec.Path)
	assert.Equal(t, "today=true", rec.Query)
}

func TestClient_APIError(t *testing.T) {
	srv, _ := newRecordingServer(t, http.StatusNotFound, `{"code":404,"message":"task not found"}`)
	c := client.New(srv.URL)

	_, err := c.DeleteTask(context.Background(), "missing")
	require.Error(t, err)

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "task not found", apiErr.Message)
	assert.True(t, client.IsNotFound(err))
	assert.False(t, client.IsUnauthorized(err))
}

func TestClient_APIErrorWithoutBody(t *testing.T) {
	srv, _ := newRecordingServer(t, http.StatusUnauthorized, ``)
	c := client.New(srv.URL)

	_, err := c.ListNotes(context.Background())
	assert.True(t, client.IsUnauthorized(err))
	assert.Contains(t, err.Error(), "Unauthorized")
}

func TestClient_SetToken(t *testing.T) {
	srv, rec := newRecordingServer(t, http.StatusOK, `[]`)
	c := client.New(srv.URL)

	c.SetToken("fresh")
	_, err := c.ListProjects(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer fresh", rec.Auth)
}
