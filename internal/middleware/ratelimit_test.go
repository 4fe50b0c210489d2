package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := NewRedisClient("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func doRequest(h http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/todos", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRateLimit_Stores(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		client func(t *testing.T) *redis.Client
	}{
		{name: "redis", client: setupTestRedis},
		{name: "memory", client: func(*testing.T) *redis.Client { return nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mw, err := RateLimit(tt.client(t), "2-M", zap.NewNop())
			require.NoError(t, err)

			h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			assert.Equal(t, http.StatusOK, doRequest(h, "10.0.0.1:1234").Code)
			second := doRequest(h, "10.0.0.1:1234")
			assert.Equal(t, http.StatusOK, second.Code)
			assert.Equal(t, "2", second.Header().Get("X-RateLimit-Limit"))
			assert.Equal(t, "0", second.Header().Get("X-RateLimit-Remaining"))

			limited := doRequest(h, "10.0.0.1:1234")
			assert.Equal(t, http.StatusTooManyRequests, limited.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(limited.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, "Too many requests", body.Message)

			// Another client has its own budget
			assert.Equal(t, http.StatusOK, doRequest(h, "10.0.0.2:1234").Code)
		})
	}
}

func TestRateLimit_InvalidRate(t *testing.T) {
	t.Parallel()

	_, err := RateLimit(nil, "lots", zap.NewNop())
	assert.Error(t, err)
}

func TestNewRedisClient_InvalidURL(t *testing.T) {
	t.Parallel()

	_, err := NewRedisClient("://not-a-url")
	assert.Error(t, err)
}
