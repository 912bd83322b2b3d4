package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eryajf/femcare/internal/apperr"
	"github.com/eryajf/femcare/internal/conversation"
)

// stubProvider 模拟 OpenAI 兼容接口,记录收到的请求体
type stubProvider struct {
	server   *httptest.Server
	calls    int
	lastBody map[string]any
	respond  func(w http.ResponseWriter)
}

func newStubProvider(t *testing.T) *stubProvider {
	s := &stubProvider{}
	s.respond = func(w http.ResponseWriter) {
		s.writeContent(w, "stub reply")
	}
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.calls++
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		s.lastBody = body
		s.respond(w)
	}))
	t.Cleanup(s.server.Close)
	return s
}

func (s *stubProvider) writeContent(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	resp := map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-3.5-turbo",
		"choices": []map[string]any{
			{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			},
		},
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *stubProvider) newClient() *Client {
	return NewClient(&Config{
		Model:   "gpt-3.5-turbo",
		APIKey:  "test-key",
		BaseURL: s.server.URL + "/v1",
	})
}

func TestCompleteSuccess(t *testing.T) {
	stub := newStubProvider(t)
	client := stub.newClient()

	content, err := client.Complete(context.Background(), &CompletionRequest{
		Turns: []conversation.Turn{
			{Role: "system", Content: "be helpful"},
			{Role: "user", Content: "hello"},
		},
		Mode: ModeText,
	})
	require.NoError(t, err)
	assert.Equal(t, "stub reply", content)
	assert.Equal(t, 1, stub.calls)

	messages := stub.lastBody["messages"].([]any)
	require.Len(t, messages, 2)
	first := messages[0].(map[string]any)
	assert.Equal(t, "system", first["role"])
	assert.Equal(t, "be helpful", first["content"])
}

func TestCompleteProviderErrorWrappedAsInternal(t *testing.T) {
	stub := newStubProvider(t)
	stub.respond = func(w http.ResponseWriter) {
		http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
	}
	client := stub.newClient()

	_, err := client.Complete(context.Background(), &CompletionRequest{
		Turns: []conversation.Turn{{Role: "user", Content: "hello"}},
	})
	require.Error(t, err)
	assert.Equal(t, apperr.Internal, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "Failed to process AI request.")
	// 不重试,上游只收到一次请求
	assert.Equal(t, 1, stub.calls)
}

func TestCompleteJSONModeSetsResponseFormat(t *testing.T) {
	stub := newStubProvider(t)
	client := stub.newClient()

	_, err := client.Complete(context.Background(), &CompletionRequest{
		Turns: []conversation.Turn{{Role: "user", Content: "give me json"}},
		Mode:  ModeJSON,
	})
	require.NoError(t, err)

	format, ok := stub.lastBody["response_format"].(map[string]any)
	require.True(t, ok, "json mode should set response_format")
	assert.Equal(t, "json_object", format["type"])
}

func TestCompleteTextModeOmitsResponseFormat(t *testing.T) {
	stub := newStubProvider(t)
	client := stub.newClient()

	_, err := client.Complete(context.Background(), &CompletionRequest{
		Turns: []conversation.Turn{{Role: "user", Content: "hello"}},
		Mode:  ModeText,
	})
	require.NoError(t, err)
	_, present := stub.lastBody["response_format"]
	assert.False(t, present)
}

func TestCompleteDefaultSampling(t *testing.T) {
	stub := newStubProvider(t)
	client := stub.newClient()

	_, err := client.Complete(context.Background(), &CompletionRequest{
		Turns: []conversation.Turn{{Role: "user", Content: "hello"}},
	})
	require.NoError(t, err)

	assert.InDelta(t, 0.7, stub.lastBody["temperature"].(float64), 0.001)
	assert.EqualValues(t, 500, stub.lastBody["max_tokens"].(float64))
}

func TestAnalyzeImageSendsMultiContent(t *testing.T) {
	stub := newStubProvider(t)
	stub.respond = func(w http.ResponseWriter) {
		stub.writeContent(w, `{"overallScore":"72"}`)
	}
	client := stub.newClient()

	content, err := client.AnalyzeImage(context.Background(), "you are a dermatologist", "analyze this", "https://example.com/skin.jpg")
	require.NoError(t, err)
	assert.Equal(t, `{"overallScore":"72"}`, content)

	messages := stub.lastBody["messages"].([]any)
	require.Len(t, messages, 2)

	user := messages[1].(map[string]any)
	parts := user["content"].([]any)
	require.Len(t, parts, 2)

	text := parts[0].(map[string]any)
	assert.Equal(t, "text", text["type"])
	assert.Equal(t, "analyze this", text["text"])

	image := parts[1].(map[string]any)
	assert.Equal(t, "image_url", image["type"])
	assert.Equal(t, "https://example.com/skin.jpg", image["image_url"].(map[string]any)["url"])

	format := stub.lastBody["response_format"].(map[string]any)
	assert.Equal(t, "json_object", format["type"])
}
