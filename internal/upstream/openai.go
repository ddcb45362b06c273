package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"modelbridge/internal/config"
)

// OpenAIClient talks to OpenAI-compatible completion servers (vLLM, LocalAI,
// llama.cpp server and the like) through the typed SDK. CompletionPath is
// ignored here: the SDK owns its endpoint layout under /v1.
type OpenAIClient struct {
	client *openai.Client
}

func NewOpenAIClient(cfg config.UpstreamConfig) *OpenAIClient {
	apiKey := cfg.APIKey
	if apiKey == "" {
		// Local servers accept any token but the SDK insists on one.
		apiKey = "not-required"
	}
	clientConfig := openai.DefaultConfig(apiKey)
	clientConfig.BaseURL = strings.TrimRight(cfg.BaseURL, "/") + "/v1"
	clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	return &OpenAIClient{client: openai.NewClientWithConfig(clientConfig)}
}

func (c *OpenAIClient) Complete(ctx context.Context, req Request) (Result, error) {
	resp, err := c.client.CreateCompletion(ctx, openai.CompletionRequest{
		Model:       req.Model,
		Prompt:      req.Prompt,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return classifyOpenAIError(err)
	}

	// Re-encode the typed response so callers see the same raw-body contract
	// as the generic client.
	body, err := json.Marshal(resp)
	if err != nil {
		return Result{}, err
	}
	return Result{StatusCode: http.StatusOK, Body: body}, nil
}

func classifyOpenAIError(err error) (Result, error) {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return statusResult(apiErr.HTTPStatusCode, apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.HTTPStatusCode != 0 {
			return statusResult(reqErr.HTTPStatusCode, reqErr.Error())
		}
		err = reqErr.Err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Result{}, timedOut(err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Result{}, timedOut(err)
	}
	return Result{}, unavailable(err)
}

func statusResult(status int, message string) (Result, error) {
	body, err := json.Marshal(map[string]string{"error": message})
	if err != nil {
		return Result{}, err
	}
	return Result{StatusCode: status, Body: body}, nil
}
