package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteForwardsConversation(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "cmpl-1",
			"object": "chat.completion",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "two missing units"}, "finish_reason": "stop"}]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-model")
	reply, err := c.Complete(context.Background(), "", []Message{
		{Role: "system", Content: "You summarize punchlists."},
		{Role: "user", Content: "Summarize punchlist 7."},
	})
	require.NoError(t, err)
	assert.Equal(t, "two missing units", reply)

	assert.Equal(t, "test-model", gotBody["model"])
	msgs := gotBody["messages"].([]any)
	require.Len(t, msgs, 2)
	first := msgs[0].(map[string]any)
	assert.Equal(t, "system", first["role"])
}

func TestCompleteUpstreamErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "model not loaded"}}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "m").Complete(context.Background(), "", []Message{{Role: "user", Content: "hi"}})
	require.Error(t, err)
}
