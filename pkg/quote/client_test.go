package quote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fakeCompletions serves one canned chat completion and records the request
func fakeCompletions(t *testing.T, content string, got *map[string]any) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		if got != nil {
			assert.NoError(t, json.Unmarshal(body, got))
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1,
			"model":   "gpt-4.1",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
			"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestClient(t *testing.T, server *httptest.Server, model string) *Client {
	t.Helper()
	c, err := NewClient(Config{APIKey: "test-key", Model: model, BaseURL: server.URL + "/v1"}, zaptest.NewLogger(t))
	require.NoError(t, err)
	return c
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(Config{}, nil)
	assert.Error(t, err)
}

func TestNewClientDefaultModel(t *testing.T) {
	c, err := NewClient(Config{APIKey: "k"}, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, c.Model())
}

func TestQuote(t *testing.T) {
	var req map[string]any
	server := fakeCompletions(t, validReply, &req)
	c := newTestClient(t, server, "")

	images := writeImages(t, 2)
	q, err := c.Quote(context.Background(), images, []string{"az=0 el=20", "az=45 el=20"}, "steel", nil)
	require.NoError(t, err)
	assert.Equal(t, 182.5, q.PriceTotalUSD)
	assert.Len(t, q.Bodies, 2)

	assert.Equal(t, "gpt-4.1", req["model"])
	assert.Equal(t, map[string]any{"type": "json_object"}, req["response_format"])

	messages := req["messages"].([]any)
	require.Len(t, messages, 1)
	msg := messages[0].(map[string]any)
	assert.Equal(t, "user", msg["role"])
	assert.Len(t, msg["content"].([]any), 5)
}

func TestQuoteInvalidReply(t *testing.T) {
	server := fakeCompletions(t, "I think around $200.", nil)
	c := newTestClient(t, server, "gpt-4o")

	_, err := c.Quote(context.Background(), nil, nil, "steel", nil)
	assert.ErrorIs(t, err, ErrInvalidQuote)
}

func TestQuoteAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error": {"message": "bad key", "type": "invalid_request_error"}}`)
	}))
	t.Cleanup(server.Close)
	c := newTestClient(t, server, "")

	_, err := c.Quote(context.Background(), nil, nil, "steel", nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidQuote)
}
