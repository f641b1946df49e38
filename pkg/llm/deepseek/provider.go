package deepseek

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"timecapsule-be/pkg/llm"
)

const (
	defaultBaseURL     = "https://api.deepseek.com/v1"
	defaultModel       = "deepseek-chat"
	defaultTemperature = 0.8
	defaultMaxTokens   = 1024
)

// Provider talks to the DeepSeek chat-completions endpoint (OpenAI
// compatible). All failure modes are classified into llm.Result tags;
// callers never see transport errors directly.
type Provider struct {
	apiKey     string
	baseURL    string
	model      string
	maxRetries int
	retryBase  time.Duration
	client     *http.Client
	logger     *log.Logger

	// sleep is swapped out in tests to avoid real backoff waits
	sleep func(time.Duration)
}

var _ llm.Provider = &Provider{}

func NewProvider(apiKey, baseURL, model string, timeout time.Duration, maxRetries int, logger *log.Logger) *Provider {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = defaultModel
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if maxRetries < 0 {
		maxRetries = 3
	}
	return &Provider{
		apiKey:     apiKey,
		baseURL:    baseURL,
		model:      model,
		maxRetries: maxRetries,
		retryBase:  time.Second,
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
		sleep:  time.Sleep,
	}
}

// --- Request/Response structs (Internal to this package) ---

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []wireMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (p *Provider) Send(ctx context.Context, history []llm.Message, options ...llm.Option) llm.Result {
	opts := &llm.Options{
		Temperature: defaultTemperature,
		MaxTokens:   defaultMaxTokens,
		Model:       p.model,
	}
	for _, o := range options {
		o(opts)
	}

	wire := make([]wireMessage, len(history))
	for i, msg := range history {
		wire[i] = wireMessage{Role: msg.Role, Content: msg.Content}
	}

	payload := chatRequest{
		Model:       opts.Model,
		Messages:    wire,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		p.logf("marshal request: %v", err)
		return llm.Degraded(llm.ReasonParseError)
	}

	url := fmt.Sprintf("%s/chat/completions", p.baseURL)

	for attempt := 1; attempt <= p.maxRetries+1; attempt++ {
		result, retryAfter, retryable := p.attempt(ctx, url, body)
		if !retryable {
			return result
		}
		if attempt > p.maxRetries {
			break
		}

		delay := p.retryBase * time.Duration(1<<(attempt-1))
		if retryAfter > 0 {
			delay = retryAfter
		}
		p.logf("transient failure, retrying in %s (attempt %d/%d)", delay, attempt, p.maxRetries)
		p.sleep(delay)
	}

	return llm.Degraded(llm.ReasonExhaustedRetries)
}

// attempt performs a single HTTP round trip. retryable is true only for
// transient failures (429, transport errors, timeouts).
func (p *Provider) attempt(ctx context.Context, url string, body []byte) (result llm.Result, retryAfter time.Duration, retryable bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		p.logf("create request: %v", err)
		return llm.Degraded(llm.ReasonExhaustedRetries), 0, true
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.logf("request failed: %v", err)
		return llm.Result{}, 0, true
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		p.logf("read response: %v", err)
		return llm.Result{}, 0, true
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var parsed chatResponse
		if err := json.Unmarshal(respBody, &parsed); err != nil || len(parsed.Choices) == 0 {
			p.logf("unexpected response body: %s", truncate(string(respBody), 200))
			return llm.Degraded(llm.ReasonParseError), 0, false
		}
		return llm.Content(parsed.Choices[0].Message.Content), 0, false

	case resp.StatusCode == http.StatusUnauthorized:
		p.logf("authentication failed (401)")
		return llm.ProviderTerminal(llm.ReasonAuth), 0, false

	case strings.Contains(string(respBody), "Insufficient Balance"):
		p.logf("provider reports insufficient balance")
		return llm.ProviderTerminal(llm.ReasonInsufficientBalance), 0, false

	case resp.StatusCode == http.StatusTooManyRequests:
		return llm.Result{}, parseRetryAfter(resp.Header.Get("Retry-After")), true

	default:
		p.logf("provider error: status %d, body: %s", resp.StatusCode, truncate(string(respBody), 200))
		return llm.Result{}, 0, true
	}
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	secs, err := strconv.Atoi(header)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func (p *Provider) logf(format string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Printf("[DEEPSEEK] "+format, args...)
	}
}
