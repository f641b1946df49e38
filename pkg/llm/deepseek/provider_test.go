package deepseek

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"timecapsule-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) (*Provider, *[]time.Duration) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p := NewProvider("test-key", server.URL, "", 5*time.Second, 3, nil)

	var slept []time.Duration
	p.sleep = func(d time.Duration) { slept = append(slept, d) }
	return p, &slept
}

func history() []llm.Message {
	return []llm.Message{
		{Role: "system", Content: "persona prompt"},
		{Role: "user", Content: "hello"},
	}
}

func successBody(content string) string {
	body, _ := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": content}},
		},
	})
	return string(body)
}

func TestSend_Success(t *testing.T) {
	var gotRequest chatRequest
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))
		w.Write([]byte(successBody("hi from the model")))
	})

	result := p.Send(context.Background(), history())

	assert.True(t, result.IsContent())
	assert.Equal(t, "hi from the model", result.Text)
	assert.Empty(t, result.Tag())

	assert.Equal(t, "deepseek-chat", gotRequest.Model)
	assert.Equal(t, 0.8, gotRequest.Temperature)
	assert.Equal(t, 1024, gotRequest.MaxTokens)
	require.Len(t, gotRequest.Messages, 2)
	assert.Equal(t, "system", gotRequest.Messages[0].Role)
}

func TestSend_Options(t *testing.T) {
	var gotRequest chatRequest
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotRequest)
		w.Write([]byte(successBody("ok")))
	})

	p.Send(context.Background(), history(),
		llm.WithTemperature(0.2),
		llm.WithMaxTokens(256),
		llm.WithModel("deepseek-reasoner"),
	)

	assert.Equal(t, "deepseek-reasoner", gotRequest.Model)
	assert.Equal(t, 0.2, gotRequest.Temperature)
	assert.Equal(t, 256, gotRequest.MaxTokens)
}

func TestSend_MalformedSuccessBody(t *testing.T) {
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"unexpected": true}`))
	})

	result := p.Send(context.Background(), history())

	assert.Equal(t, llm.KindDegraded, result.Kind)
	assert.Equal(t, llm.ReasonParseError, result.Reason)
	assert.Equal(t, "degraded:parse_error", result.Tag())
}

func TestSend_Unauthorized(t *testing.T) {
	requests := 0
	p, slept := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusUnauthorized)
	})

	result := p.Send(context.Background(), history())

	assert.Equal(t, llm.KindProviderTerminal, result.Kind)
	assert.Equal(t, llm.ReasonAuth, result.Reason)
	assert.Equal(t, 1, requests, "401 must never be retried")
	assert.Empty(t, *slept)
}

func TestSend_InsufficientBalance(t *testing.T) {
	requests := 0
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error": {"message": "Insufficient Balance"}}`))
	})

	result := p.Send(context.Background(), history())

	assert.Equal(t, llm.KindProviderTerminal, result.Kind)
	assert.Equal(t, llm.ReasonInsufficientBalance, result.Reason)
	assert.Equal(t, "terminal:insufficient_balance", result.Tag())
	assert.Equal(t, 1, requests)
}

func TestSend_RateLimitedExhaustsRetries(t *testing.T) {
	requests := 0
	p, slept := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusTooManyRequests)
	})

	result := p.Send(context.Background(), history())

	assert.Equal(t, llm.KindDegraded, result.Kind)
	assert.Equal(t, llm.ReasonExhaustedRetries, result.Reason)
	assert.Equal(t, 4, requests, "initial attempt plus three retries")

	// Exponential backoff without a Retry-After header.
	require.Len(t, *slept, 3)
	assert.Equal(t, time.Second, (*slept)[0])
	assert.Equal(t, 2*time.Second, (*slept)[1])
	assert.Equal(t, 4*time.Second, (*slept)[2])
}

func TestSend_HonorsRetryAfter(t *testing.T) {
	requests := 0
	p, slept := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			w.Header().Set("Retry-After", "7")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(successBody("recovered")))
	})

	result := p.Send(context.Background(), history())

	assert.True(t, result.IsContent())
	assert.Equal(t, "recovered", result.Text)
	require.Len(t, *slept, 1)
	assert.Equal(t, 7*time.Second, (*slept)[0])
}

func TestSend_ServerErrorRetriesThenSucceeds(t *testing.T) {
	requests := 0
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(successBody("third time lucky")))
	})

	result := p.Send(context.Background(), history())

	assert.True(t, result.IsContent())
	assert.Equal(t, "third time lucky", result.Text)
	assert.Equal(t, 3, requests)
}

func TestSend_TransportErrorDegrades(t *testing.T) {
	p := NewProvider("test-key", "http://127.0.0.1:1", "", time.Second, 1, nil)
	p.sleep = func(time.Duration) {}

	result := p.Send(context.Background(), history())

	assert.Equal(t, llm.KindDegraded, result.Kind)
	assert.Equal(t, llm.ReasonExhaustedRetries, result.Reason)
}

func TestParseRetryAfter(t *testing.T) {
	assert.Equal(t, time.Duration(0), parseRetryAfter(""))
	assert.Equal(t, time.Duration(0), parseRetryAfter("soon"))
	assert.Equal(t, time.Duration(0), parseRetryAfter("-3"))
	assert.Equal(t, 12*time.Second, parseRetryAfter("12"))
}

func TestNewProvider_Defaults(t *testing.T) {
	p := NewProvider("key", "", "", 0, -1, nil)

	assert.Equal(t, defaultBaseURL, p.baseURL)
	assert.Equal(t, defaultModel, p.model)
	assert.Equal(t, 3, p.maxRetries)
	assert.Equal(t, 60*time.Second, p.client.Timeout)
}
