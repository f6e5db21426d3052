package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientStreamChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "text/event-stream", r.Header.Get("Accept"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Equal(t, "Side thread: Pazarlama", req.Context)

		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, line := range []string{
			dataLine("Merhaba") + "\n",
			dataLine(", nasılsın?") + "\n",
			"data: [DONE]\n\n",
		} {
			w.Write([]byte(line))
			flusher.Flush()
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", "test-key")

	var deltas []string
	full, err := client.StreamChat(context.Background(), []ChatMessage{{Role: "user", Content: "selam"}}, "Side thread: Pazarlama", func(d string) {
		deltas = append(deltas, d)
	})

	require.NoError(t, err)
	assert.Equal(t, "Merhaba, nasılsın?", full)
	assert.Equal(t, []string{"Merhaba", ", nasılsın?"}, deltas)
}

func TestClientStreamChatOmitsEmptyContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		assert.Contains(t, raw, "messages")
		assert.NotContains(t, raw, "context") // boşsa gövdeye hiç yazılmaz

		w.Write([]byte("data: [DONE]\n\n"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", "")

	_, err := client.StreamChat(context.Background(), []ChatMessage{{Role: "user", Content: "x"}}, "", func(string) {})
	require.NoError(t, err)
}

func TestClientStreamChatUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", "")

	_, err := client.StreamChat(context.Background(), nil, "", func(string) {})
	assert.ErrorContains(t, err, "502")
}

func TestClientSummarize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req summarizeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Sprint planı", req.ThreadName)
		assert.Contains(t, req.ThreadContext, "Ali:")

		json.NewEncoder(w).Encode(summarizeResponse{Content: "Takım sprint hedeflerini netleştirdi."})
	}))
	defer srv.Close()

	client := NewClient("", srv.URL, "")

	summary, err := client.Summarize(context.Background(), "Sprint planı", "Ali: hedefler ne?\nVeli: üç madde var")
	require.NoError(t, err)
	assert.Equal(t, "Takım sprint hedeflerini netleştirdi.", summary)
}

func TestClientSummarizeWireFieldNames(t *testing.T) {
	// Gateway sözleşmesi camelCase bekler: threadContext / threadName.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		assert.Equal(t, "Brainstorm", raw["threadName"])
		assert.Equal(t, "Sarah: idea A\nAlex: idea B", raw["threadContext"])

		json.NewEncoder(w).Encode(summarizeResponse{Content: "ok"})
	}))
	defer srv.Close()

	client := NewClient("", srv.URL, "")

	_, err := client.Summarize(context.Background(), "Brainstorm", "Sarah: idea A\nAlex: idea B")
	require.NoError(t, err)
}

func TestClientSummarizeUpstreamReportsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(summarizeResponse{Error: "model overloaded"})
	}))
	defer srv.Close()

	client := NewClient("", srv.URL, "")

	_, err := client.Summarize(context.Background(), "x", "y")
	assert.ErrorContains(t, err, "model overloaded")
}
