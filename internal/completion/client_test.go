package completion_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lss-analytics/training-api/internal/completion"
	"github.com/lss-analytics/training-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(baseURL string) *completion.Client {
	return completion.NewClient(completion.Config{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Model:   "gpt-4-turbo-preview",
		// High ceiling keeps limiter waits negligible in tests
		RequestsPerMinute: 60000,
		MaxRetries:        2,
	}, zap.NewNop())
}

func completionResponse(content string) string {
	return `{"choices":[{"message":{"content":"` + content + `"}}]}`
}

func TestComplete_Success(t *testing.T) {
	var gotReq struct {
		Model    string               `json:"model"`
		Messages []completion.Message `json:"messages"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Write([]byte(completionResponse("De omzet was € 2.500,00.")))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	answer, err := client.Complete(context.Background(), []completion.Message{
		{Role: completion.RoleSystem, Content: "Je bent een analist."},
		{Role: completion.RoleUser, Content: "Wat was de omzet?"},
	})

	require.NoError(t, err)
	assert.Equal(t, "De omzet was € 2.500,00.", answer)
	assert.Equal(t, "gpt-4-turbo-preview", gotReq.Model)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, completion.RoleSystem, gotReq.Messages[0].Role)
}

func TestComplete_RetriesTransientFailures(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(completionResponse("ok")))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	answer, err := client.Complete(context.Background(), []completion.Message{
		{Role: completion.RoleUser, Content: "vraag"},
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", answer)
	assert.Equal(t, 2, calls)
}

func TestComplete_ClientErrorIsNotRetried(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.Complete(context.Background(), []completion.Message{
		{Role: completion.RoleUser, Content: "vraag"},
	})

	var compErr *domain.CompletionError
	require.ErrorAs(t, err, &compErr)
	assert.Equal(t, 1, calls)
}

func TestComplete_ExhaustedRetriesReturnCompletionError(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.Complete(context.Background(), []completion.Message{
		{Role: completion.RoleUser, Content: "vraag"},
	})

	var compErr *domain.CompletionError
	require.ErrorAs(t, err, &compErr)
	// Initial attempt plus the configured retries
	assert.Equal(t, 3, calls)
}

func TestComplete_EmptyChoicesFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.Complete(context.Background(), []completion.Message{
		{Role: completion.RoleUser, Content: "vraag"},
	})

	var compErr *domain.CompletionError
	assert.ErrorAs(t, err, &compErr)
}
