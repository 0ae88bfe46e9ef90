package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusadmin/campusctl/internal/config"
)

func TestClientCreation(t *testing.T) {
	c, err := New(config.BackendConfig{BaseURL: "http://localhost:5000", BasePath: "/api"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000", c.BaseURL())
}

func TestClientRequiresBaseURL(t *testing.T) {
	_, err := New(config.BackendConfig{})
	assert.Error(t, err)
}

func TestBearerHeaderAttachedWhenTokenPresent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c, err := New(config.BackendConfig{BaseURL: server.URL},
		WithTokenSource(func() string { return "tok-123" }))
	require.NoError(t, err)

	resp, err := c.Get(context.Background(), "/students", nil)
	require.NoError(t, err)
	assert.True(t, resp.OK())
}

func TestNoAuthorizationHeaderWithoutToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present := r.Header["Authorization"]
		assert.False(t, present, "no token means no Authorization header at all")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c, err := New(config.BackendConfig{BaseURL: server.URL},
		WithTokenSource(func() string { return "" }))
	require.NoError(t, err)

	_, err = c.Get(context.Background(), "/students", nil)
	require.NoError(t, err)
}

func TestBasePathPrefixing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/colleges", r.URL.Path)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c, err := New(config.BackendConfig{BaseURL: server.URL, BasePath: "/api"})
	require.NoError(t, err)

	_, err = c.Get(context.Background(), "/colleges", nil)
	require.NoError(t, err)

	// An already-prefixed path is not prefixed twice.
	_, err = c.Get(context.Background(), "/api/colleges", nil)
	require.NoError(t, err)
}

func TestQueryParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c, err := New(config.BackendConfig{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = c.Get(context.Background(), "/students", map[string]string{"page": "2", "limit": "10"})
	require.NoError(t, err)
}

func TestPostMarshalsJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "alice", body["username"])
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"message":"ok"}`))
	}))
	defer server.Close()

	c, err := New(config.BackendConfig{BaseURL: server.URL})
	require.NoError(t, err)

	resp, err := c.Post(context.Background(), "/auth/register", map[string]string{"username": "alice", "password": "pw"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestResponseErrExtractsBackendMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"error field preferred", `{"error":"Student not found","message":"ignored"}`, "Student not found"},
		{"message fallback", `{"message":"something went wrong"}`, "something went wrong"},
		{"generic fallback", `{"detail":"nope"}`, "Request failed"},
		{"unparseable body", `<html>panic</html>`, "Request failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &Response{StatusCode: http.StatusNotFound, Body: []byte(tt.body)}
			err := resp.Err()

			var reqErr *RequestError
			require.ErrorAs(t, err, &reqErr)
			assert.Equal(t, tt.want, reqErr.Message)
		})
	}
}

func TestNetworkFailureIsNetworkError(t *testing.T) {
	// A closed server yields connection refused.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	c, err := New(config.BackendConfig{BaseURL: url, Timeout: time.Second})
	require.NoError(t, err)

	_, err = c.Get(context.Background(), "/students", nil)
	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, "Cannot reach server", netErr.Error())
}

type recordingObserver struct {
	mu    sync.Mutex
	calls []int
}

func (o *recordingObserver) Observe(_ string, _ string, status int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, status)
}

func TestObserverSeesEveryRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"nope"}`))
	}))
	defer server.Close()

	obs := &recordingObserver{}
	c, err := New(config.BackendConfig{BaseURL: server.URL}, WithObserver(obs))
	require.NoError(t, err)

	_, err = c.Get(context.Background(), "/students", nil)
	require.NoError(t, err, "a received 404 is a response, not a transport error")

	require.Len(t, obs.calls, 1)
	assert.Equal(t, http.StatusNotFound, obs.calls[0])
}
