package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docshelf/internal/core/domain"
	"github.com/custodia-labs/docshelf/internal/core/ports/driven"
)

func TestNewLLMService_Defaults(t *testing.T) {
	svc := NewLLMService(LLMConfig{})
	assert.Equal(t, DefaultLLMModel, svc.ModelName())
	assert.Equal(t, DefaultBaseURL, svc.client.BaseURL())
}

func TestGenerate(t *testing.T) {
	var got generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"response":"Short summary.","done":true}`))
	}))
	defer server.Close()

	svc := NewLLMService(LLMConfig{BaseURL: server.URL, Model: "phi3"})

	out, err := svc.Generate(context.Background(), "Summarise", driven.GenerateOptions{System: "Be brief", MaxTokens: 200})
	require.NoError(t, err)

	assert.Equal(t, "Short summary.", out)
	assert.Equal(t, "phi3", got.Model)
	assert.Equal(t, "Be brief", got.System)
	assert.False(t, got.Stream)
	require.NotNil(t, got.Options)
	assert.Equal(t, 200, got.Options.NumPredict)
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"model missing", http.StatusNotFound, `{"error":"model 'phi3' not found"}`},
		{"error in body", http.StatusOK, `{"error":"out of memory"}`},
		{"garbage", http.StatusOK, `not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewLLMService(LLMConfig{BaseURL: server.URL}).Generate(context.Background(), "p", driven.GenerateOptions{})
			assert.ErrorIs(t, err, domain.ErrRemote)
		})
	}
}

func TestPing_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	svc := NewLLMService(LLMConfig{BaseURL: url})
	assert.ErrorContains(t, svc.Ping(context.Background()), "ping failed")
}
