package providers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker"

	"github.com/i474232898/ai-weather-summariser/internal/weather"
)

const (
	DefaultGroqBaseURL = "https://api.groq.com/openai/v1"
	DefaultGroqModel   = "llama-3.3-70b-versatile"

	summarySystemPrompt = "You are a terse weather summary generator. Always produce only the requested summary text."
	summaryMaxTokens    = 200
)

var errNoChoices = errors.New("response contained no choices")

// GroqSummarizer implements weather.Summarizer against an OpenAI-compatible
// chat completion endpoint.
type GroqSummarizer struct {
	baseURL string
	apiKey  string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

var _ weather.Summarizer = (*GroqSummarizer)(nil)

// NewGroqSummarizer builds a client. The http.Client should carry its own
// timeout; chat completions can be slow.
func NewGroqSummarizer(client *http.Client, baseURL, apiKey string, breaker BreakerConfig) *GroqSummarizer {
	if baseURL == "" {
		baseURL = DefaultGroqBaseURL
	}
	return &GroqSummarizer{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
		circuit: newCircuitBreaker("groq", breaker),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type apiErrorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Summarize sends the system persona and prompt with deterministic sampling
// and returns the first choice, trimmed.
func (g *GroqSummarizer) Summarize(ctx context.Context, prompt, model string) (string, error) {
	if model == "" {
		model = DefaultGroqModel
	}

	body, err := json.Marshal(chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: summarySystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.0,
		MaxTokens:   summaryMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("groq: encode request: %w", err)
	}

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}

	resp, err := doRequest(ctx, g.client, g.circuit, buildRequest)
	if err != nil {
		return "", fmt.Errorf("groq: %w", apiError(err))
	}
	defer resp.Body.Close()

	var payload chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("groq: decode response: %w", err)
	}
	if len(payload.Choices) == 0 {
		return "", fmt.Errorf("groq: %w", errNoChoices)
	}

	return strings.TrimSpace(payload.Choices[0].Message.Content), nil
}

// apiError replaces a raw JSON body excerpt with the API's error message
// when one is present.
func apiError(err error) error {
	var se *statusError
	if !errors.As(err, &se) || se.body == "" {
		return err
	}
	var body apiErrorBody
	if json.Unmarshal([]byte(se.body), &body) == nil && body.Error.Message != "" {
		return &statusError{kind: se.kind, code: se.code, body: body.Error.Message}
	}
	return err
}
