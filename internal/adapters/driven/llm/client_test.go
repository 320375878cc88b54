package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docshelf/internal/core/domain"
)

func jsonError(body []byte) string {
	var v struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &v) != nil {
		return ""
	}
	return v.Error
}

func TestClient_PostJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/run", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "secret", r.Header.Get("X-Key"))

		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		_, _ = w.Write([]byte(`{"echo":"` + in["say"] + `"}`))
	}))
	defer server.Close()

	c := NewClient("test", server.URL+"/", time.Second, map[string]string{"X-Key": "secret"}, jsonError)
	assert.Equal(t, server.URL, c.BaseURL())

	var out struct {
		Echo string `json:"echo"`
	}
	require.NoError(t, c.PostJSON(context.Background(), "/v1/run", map[string]string{"say": "hi"}, &out))
	assert.Equal(t, "hi", out.Echo)
}

func TestClient_PostJSON_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"provider message", http.StatusBadRequest, `{"error":"model not found"}`, "test (status 400): model not found"},
		{"raw body", http.StatusBadGateway, `upstream down`, "upstream down"},
		{"empty body", http.StatusServiceUnavailable, ``, "Service Unavailable"},
		{"unauthorised", http.StatusUnauthorized, `{"error":"bad key"}`, "check the API key"},
		{"error in ok reply", http.StatusOK, `{"error":"out of memory"}`, "test: out of memory"},
		{"not json", http.StatusOK, `not json`, "decode response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := NewClient("test", server.URL, time.Second, nil, jsonError)
			var out map[string]any
			err := c.PostJSON(context.Background(), "/", map[string]string{}, &out)

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrRemote)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestClient_PostJSON_TruncatesLongBodies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(strings.Repeat("x", 2000)))
	}))
	defer server.Close()

	c := NewClient("test", server.URL, time.Second, nil, nil)
	err := c.PostJSON(context.Background(), "/", struct{}{}, &struct{}{})

	require.Error(t, err)
	assert.Less(t, len(err.Error()), 600)
	assert.Contains(t, err.Error(), "...")
}

func TestClient_PostJSON_OversizedReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("a", MaxResponseBytes+10)))
	}))
	defer server.Close()

	c := NewClient("test", server.URL, 5*time.Second, nil, nil)
	err := c.PostJSON(context.Background(), "/", struct{}{}, &struct{}{})

	assert.ErrorIs(t, err, domain.ErrRemote)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestClient_Ping(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusOK)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/models", r.URL.Path)
		w.WriteHeader(int(status.Load()))
	}))
	defer server.Close()

	c := NewClient("test", server.URL, time.Second, nil, nil)
	require.NoError(t, c.Ping(context.Background(), "/models"))

	status.Store(http.StatusForbidden)
	err := c.Ping(context.Background(), "/models")
	assert.ErrorContains(t, err, "status 403")
}

func TestClient_Ping_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	c := NewClient("test", url, time.Second, nil, nil)
	assert.ErrorContains(t, c.Ping(context.Background(), "/"), "test: ping failed")
}
