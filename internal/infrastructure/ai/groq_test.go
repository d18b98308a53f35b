package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testURL = "https://groq.test/chat/completions"

func newTestClient() *Client {
	hc := &http.Client{}
	httpmock.ActivateNonDefault(hc)
	return NewClient("test-key").WithBaseURL(testURL).WithHTTPClient(hc)
}

func completionJSON(content string) string {
	return `{"choices":[{"message":{"content":` + string(mustJSON(content)) + `}}]}`
}

func mustJSON(s string) []byte {
	b, _ := json.Marshal(s)
	return b
}

func TestChat_Success(t *testing.T) {
	c := newTestClient()
	defer httpmock.DeactivateAndReset()

	var captured chatRequest
	httpmock.RegisterResponder(http.MethodPost, testURL,
		func(req *http.Request) (*http.Response, error) {
			require.NoError(t, json.NewDecoder(req.Body).Decode(&captured))
			assert.Equal(t, "Bearer test-key", req.Header.Get("Authorization"))
			return httpmock.NewStringResponse(http.StatusOK, completionJSON("Executive summary here.")), nil
		})

	out, err := c.Chat(context.Background(), "Summarize the loan.", "You are an analyst.")
	require.NoError(t, err)
	assert.Equal(t, "Executive summary here.", out)

	assert.Equal(t, "llama-3.3-70b-versatile", captured.Model)
	assert.InDelta(t, 0.2, captured.Temperature, 1e-9)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "user", captured.Messages[1].Role)
}

func TestChatWithHistory_FiltersRoles(t *testing.T) {
	c := newTestClient()
	defer httpmock.DeactivateAndReset()

	var captured chatRequest
	httpmock.RegisterResponder(http.MethodPost, testURL,
		func(req *http.Request) (*http.Response, error) {
			_ = json.NewDecoder(req.Body).Decode(&captured)
			return httpmock.NewStringResponse(http.StatusOK, completionJSON("ok")), nil
		})

	history := []Message{
		{Role: "user", Content: "earlier question"},
		{Role: "assistant", Content: "earlier answer"},
		{Role: "tool", Content: "must be dropped"},
	}
	_, err := c.ChatWithHistory(context.Background(), "next question", "sys", history)
	require.NoError(t, err)

	require.Len(t, captured.Messages, 4) // system + 2 history + user
	for _, m := range captured.Messages {
		assert.NotEqual(t, "tool", m.Role)
	}
}

func TestChat_ClientErrorNotRetried(t *testing.T) {
	c := newTestClient()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, testURL,
		httpmock.NewStringResponder(http.StatusBadRequest, `{"error":{"message":"invalid model"}}`))

	_, err := c.Chat(context.Background(), "hi", "")
	require.ErrorIs(t, err, ErrUpstream)
	assert.Contains(t, err.Error(), "invalid model")
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestChat_RetriesRateLimit(t *testing.T) {
	c := newTestClient()
	defer httpmock.DeactivateAndReset()

	calls := 0
	httpmock.RegisterResponder(http.MethodPost, testURL,
		func(req *http.Request) (*http.Response, error) {
			calls++
			if calls == 1 {
				return httpmock.NewStringResponse(http.StatusTooManyRequests, `{}`), nil
			}
			return httpmock.NewStringResponse(http.StatusOK, completionJSON("recovered")), nil
		})

	out, err := c.Chat(context.Background(), "hi", "")
	require.NoError(t, err)
	assert.Equal(t, "recovered", out)
	assert.Equal(t, 2, calls)
}

func TestChat_MissingAPIKey(t *testing.T) {
	hc := &http.Client{}
	c := NewClient("").WithBaseURL(testURL).WithHTTPClient(hc)

	_, err := c.Chat(context.Background(), "hi", "")
	require.ErrorIs(t, err, ErrUpstream)
}

func TestChat_EmptyChoices(t *testing.T) {
	c := newTestClient()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, testURL,
		httpmock.NewStringResponder(http.StatusOK, `{"choices":[]}`))

	_, err := c.Chat(context.Background(), "hi", "")
	require.ErrorIs(t, err, ErrUpstream)
}
