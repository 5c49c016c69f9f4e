package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewService(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{name: "nil config", cfg: nil, wantErr: true},
		{name: "missing model", cfg: &Config{Provider: "deepseek"}, wantErr: true},
		{name: "unknown provider without base url", cfg: &Config{Provider: "nope", Model: "m"}, wantErr: true},
		{name: "unknown provider with base url", cfg: &Config{Provider: "nope", Model: "m", BaseURL: "http://localhost:1"}},
		{name: "deepseek defaults", cfg: &Config{Provider: "deepseek", Model: "deepseek-chat", APIKey: "k"}},
		{name: "ollama without key", cfg: &Config{Provider: "ollama", Model: "qwen2.5"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc, err := NewService(tc.cfg)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, svc)
		})
	}
}

func TestNewService_DefaultTimeout(t *testing.T) {
	svc, err := NewService(&Config{Provider: "openrouter", Model: "m", MaxTokens: 600, Temperature: 0.05})
	require.NoError(t, err)

	s, ok := svc.(*service)
	require.True(t, ok)
	assert.Equal(t, defaultTimeout, s.timeout)
	assert.Equal(t, 600, s.maxTokens)
	assert.InDelta(t, 0.05, s.temperature, 1e-6)
}

func TestConvertMessages(t *testing.T) {
	got := convertMessages(FormatMessages("sys", "hi", []Message{AssistantMessage("a"), {Role: "tool", Content: "x"}}))
	require.Len(t, got, 4)
	assert.Equal(t, "system", got[0].Role)
	assert.Equal(t, "assistant", got[1].Role)
	assert.Equal(t, "user", got[2].Role)
	assert.Equal(t, "user", got[3].Role)
	assert.Equal(t, "hi", got[3].Content)
}

// newFakeServer serves chat completions the way an OpenAI-compatible endpoint does.
func newFakeServer(t *testing.T, handler func(req map[string]any, w http.ResponseWriter)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		handler(req, w)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestService_Chat(t *testing.T) {
	var gotReq map[string]any
	srv := newFakeServer(t, func(req map[string]any, w http.ResponseWriter) {
		gotReq = req
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, `{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"[]"},"finish_reason":"stop"}],"usage":{"prompt_tokens":10,"completion_tokens":2,"total_tokens":12}}`)
	})

	svc, err := NewService(&Config{Provider: "openai", Model: "test-model", APIKey: "k", BaseURL: srv.URL, MaxTokens: 600, Temperature: 0.05})
	require.NoError(t, err)

	content, stats, err := svc.Chat(context.Background(), []Message{SystemPrompt("s"), UserMessage("u")})
	require.NoError(t, err)
	assert.Equal(t, "[]", content)
	require.NotNil(t, stats)
	assert.Equal(t, 12, stats.TotalTokens)

	assert.Equal(t, "test-model", gotReq["model"])
	assert.EqualValues(t, 600, gotReq["max_tokens"])
	assert.InDelta(t, 0.05, gotReq["temperature"], 1e-6)
}

func TestService_Chat_EmptyChoices(t *testing.T) {
	srv := newFakeServer(t, func(_ map[string]any, w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, `{"id":"1","choices":[]}`)
	})
	svc, err := NewService(&Config{Provider: "openai", Model: "m", BaseURL: srv.URL})
	require.NoError(t, err)

	_, _, err = svc.Chat(context.Background(), []Message{UserMessage("u")})
	assert.Error(t, err)
}

func TestService_Chat_Timeout(t *testing.T) {
	srv := newFakeServer(t, func(_ map[string]any, w http.ResponseWriter) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})
	svc, err := NewService(&Config{Provider: "openai", Model: "m", BaseURL: srv.URL, Timeout: 20 * time.Millisecond})
	require.NoError(t, err)

	_, _, err = svc.Chat(context.Background(), []Message{UserMessage("u")})
	assert.Error(t, err)
}

func TestService_ChatStream(t *testing.T) {
	srv := newFakeServer(t, func(req map[string]any, w http.ResponseWriter) {
		assert.Equal(t, true, req["stream"])
		w.Header().Set("Content-Type", "text/event-stream")
		for _, chunk := range []string{"好的", "，已记录"} {
			_, _ = fmt.Fprintf(w, "data: {\"id\":\"1\",\"choices\":[{\"index\":0,\"delta\":{\"content\":%q}}]}\n\n", chunk)
		}
		_, _ = fmt.Fprint(w, "data: {\"id\":\"1\",\"choices\":[],\"usage\":{\"prompt_tokens\":5,\"completion_tokens\":3,\"total_tokens\":8}}\n\n")
		_, _ = fmt.Fprint(w, "data: [DONE]\n\n")
	})
	svc, err := NewService(&Config{Provider: "openai", Model: "m", BaseURL: srv.URL})
	require.NoError(t, err)

	contentCh, statsCh, errCh := svc.ChatStream(context.Background(), []Message{UserMessage("u")})

	var sb strings.Builder
	for chunk := range contentCh {
		sb.WriteString(chunk)
	}
	assert.Equal(t, "好的，已记录", sb.String())

	stats := <-statsCh
	require.NotNil(t, stats)
	assert.Equal(t, 8, stats.TotalTokens)
	assert.NoError(t, <-errCh)
}

func TestService_ChatStream_CreateError(t *testing.T) {
	srv := newFakeServer(t, func(_ map[string]any, w http.ResponseWriter) {
		http.Error(w, `{"error":{"message":"boom"}}`, http.StatusInternalServerError)
	})
	svc, err := NewService(&Config{Provider: "openai", Model: "m", BaseURL: srv.URL})
	require.NoError(t, err)

	contentCh, statsCh, errCh := svc.ChatStream(context.Background(), []Message{UserMessage("u")})
	for range contentCh {
	}
	assert.Nil(t, <-statsCh)
	assert.Error(t, <-errCh)
}

func TestService_Warmup_NoPanic(t *testing.T) {
	svc, err := NewService(&Config{Provider: "openai", Model: "m", BaseURL: "http://127.0.0.1:1"})
	require.NoError(t, err)
	svc.Warmup(context.Background())
}
