package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/benvon/todo-everyday/internal/middleware"
	"github.com/benvon/todo-everyday/internal/models"
	"github.com/benvon/todo-everyday/internal/queue"
	"github.com/benvon/todo-everyday/internal/request"
	"github.com/benvon/todo-everyday/internal/services/todos"
	"github.com/benvon/todo-everyday/internal/testutil"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubPinger struct{ err error }

func (s stubPinger) PingContext(context.Context) error { return s.err }

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newRouter(t *testing.T, mutate func(*Options)) (*mux.Router, *testutil.RecordingPublisher) {
	t.Helper()

	pub := &testutil.RecordingPublisher{}
	opts := Options{
		Logger:    zap.NewNop(),
		Service:   todos.NewService(testutil.NewFakeTodoRepository(), zap.NewNop(), todos.WithPublisher(pub)),
		DB:        stubPinger{},
		Publisher: pub,
		RateLimit: "1000-M",
	}
	if mutate != nil {
		mutate(&opts)
	}

	r, err := NewRouter(opts)
	require.NoError(t, err)
	return r, pub
}

func serve(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func TestRouter_TodoLifecycle(t *testing.T) {
	t.Parallel()

	r, pub := newRouter(t, nil)

	w, env := serve(t, r, http.MethodPost, "/api/v1/todos", `{"title":"Buy milk"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Todo
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, models.DefaultPriority, created.Priority)
	assert.False(t, created.IsCompleted)

	todoPath := fmt.Sprintf("/api/v1/todos/%d", created.ID)

	w, env = serve(t, r, http.MethodPatch, todoPath+"/toggle", "")
	require.Equal(t, http.StatusOK, w.Code)
	var toggled models.Todo
	require.NoError(t, json.Unmarshal(env.Data, &toggled))
	assert.True(t, toggled.IsCompleted)
	assert.NotNil(t, toggled.CompletedAt)

	w, env = serve(t, r, http.MethodGet, "/api/v1/todos/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	var stats models.Stats
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.GreaterOrEqual(t, stats.Completed, int64(1))
	assert.Equal(t, stats.Total-stats.Completed, stats.Pending)

	w, env = serve(t, r, http.MethodPost, "/api/v1/todos/batch", `{"action":"delete_completed"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Deleted 1 completed todos", env.Message)

	w, env = serve(t, r, http.MethodGet, todoPath, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Todo not found", env.Message)

	var types []queue.EventType
	for _, e := range pub.Events() {
		types = append(types, e.Type)
	}
	assert.Equal(t, []queue.EventType{queue.EventTodoCreated, queue.EventTodoToggled, queue.EventTodosBatch}, types)
}

func TestRouter_SetsRequestAndSecurityHeaders(t *testing.T) {
	t.Parallel()

	r, _ := newRouter(t, nil)

	w, _ := serve(t, r, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(request.RequestIDHeader))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Empty(t, w.Header().Get("Cache-Control"))

	w, _ = serve(t, r, http.MethodGet, "/api/v1/todos/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestRouter_UnknownRoute(t *testing.T) {
	t.Parallel()

	r, _ := newRouter(t, nil)

	w, env := serve(t, r, http.MethodGet, "/api/v1/nothing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)

	w, env = serve(t, r, http.MethodGet, "/api/v1/todos/1/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Route not found", env.Message)
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	r, _ := newRouter(t, nil)

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodPost, "/api/v1/todos/stats", `{}`},
		{http.MethodDelete, "/api/v1/todos", ""},
		{http.MethodPut, "/api/v1/todos", `{}`},
		{http.MethodGet, "/api/v1/todos/batch", ""},
		{http.MethodPost, "/api/v1/todos/1/toggle", ""},
		{http.MethodPatch, "/api/v1/todos/1", ""},
		{http.MethodPost, "/health", ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			t.Parallel()

			w, env := serve(t, r, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
			assert.False(t, env.Success)
			assert.Equal(t, "Method not allowed", env.Message)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		})
	}
}

func TestRouter_Preflight(t *testing.T) {
	t.Parallel()

	r, _ := newRouter(t, func(o *Options) { o.FrontendURL = "https://app.example.com" })

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/todos/1/toggle", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Less(t, w.Code, 300)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_RateLimitWithRedis(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client, err := middleware.NewRedisClient("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	r, _ := newRouter(t, func(o *Options) {
		o.Redis = client
		o.RateLimit = "1-M"
	})

	w, _ := serve(t, r, http.MethodGet, "/api/v1/todos", "")
	require.Equal(t, http.StatusOK, w.Code)

	w, env := serve(t, r, http.MethodGet, "/api/v1/todos", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "Too many requests", env.Message)

	// Liveness is outside the limited subtree
	w, _ = serve(t, r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_ExtendedHealth(t *testing.T) {
	t.Parallel()

	r, _ := newRouter(t, func(o *Options) {
		o.Publisher = &testutil.RecordingPublisher{Err: errors.New("channel closed")}
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz?mode=extended", nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "unhealthy", resp.Status)
	assert.Equal(t, "healthy", resp.Checks["database"])
	assert.Contains(t, resp.Checks["queue"], "unhealthy")
}

func TestNewRouter_InvalidRate(t *testing.T) {
	t.Parallel()

	_, err := NewRouter(Options{
		Service:   todos.NewService(testutil.NewFakeTodoRepository(), zap.NewNop()),
		DB:        stubPinger{},
		RateLimit: "soon",
	})
	assert.Error(t, err)
}
