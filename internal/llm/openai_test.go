package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mzanetti/campusmate/internal/fault"
)

func TestOpenAIClientComplete(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4", req.Model)
		assert.Equal(t, 0.7, req.Temperature)
		assert.Equal(t, 500, req.MaxTokens)
		require.NotEmpty(t, req.Messages)
		assert.Equal(t, RoleSystem, req.Messages[0].Role)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "Good luck on the exam!"}, "finish_reason": "stop"},
			},
		})
	}))
	defer ts.Close()

	c := NewOpenAIClient(Config{APIKey: "test-key", BaseURL: ts.URL, Model: "gpt-4", Temperature: 0.7, MaxTokens: 500})
	out, err := c.Complete(context.Background(), []Message{
		{Role: RoleSystem, Content: "You are a helpful assistant."},
		{Role: RoleUser, Content: "Wish me luck"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Good luck on the exam!", out)
}

func TestOpenAIClientSurfacesAPIErrors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": {"message": "rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer ts.Close()

	c := NewOpenAIClient(Config{APIKey: "test-key", BaseURL: ts.URL})
	_, err := c.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	require.Error(t, err)
	assert.Equal(t, fault.KindExternalCall, fault.KindOf(err))
	assert.Contains(t, err.Error(), "429")
}

func TestNewProviderCascade(t *testing.T) {
	c, err := New(Config{Provider: "auto"})
	require.NoError(t, err)
	assert.Nil(t, c, "auto without a key yields no client")

	c, err = New(Config{Provider: "auto", APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, c)

	c, err = New(Config{Provider: "mock"})
	require.NoError(t, err)
	assert.IsType(t, &MockClient{}, c)

	_, err = New(Config{Provider: "openai"})
	require.Error(t, err, "openai mode requires a key")

	_, err = New(Config{Provider: "banana"})
	require.Error(t, err)
}

func TestMockClientEchoesLastUserMessage(t *testing.T) {
	c := NewMockClient()
	out, err := c.Complete(context.Background(), []Message{
		{Role: RoleSystem, Content: "persona"},
		{Role: RoleUser, Content: "Tell me a joke"},
	})
	require.NoError(t, err)
	assert.Equal(t, "I heard you: Tell me a joke", out)
}
