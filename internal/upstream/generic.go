package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"modelbridge/internal/config"
)

// completionPayload mirrors what the self-hosted server expects. The exact
// contract varies between servers; these are the common denominator fields.
type completionPayload struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float32 `json:"temperature"`
}

// GenericClient posts raw JSON to baseURL+completionPath and returns the
// body untouched. It works against any completion server regardless of its
// response schema.
type GenericClient struct {
	httpClient *http.Client
	url        string
	apiKey     string
	maxRetries int
}

func NewGenericClient(cfg config.UpstreamConfig) *GenericClient {
	return &GenericClient{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		url:        strings.TrimRight(cfg.BaseURL, "/") + cfg.CompletionPath,
		apiKey:     cfg.APIKey,
		maxRetries: cfg.MaxRetries,
	}
}

func (c *GenericClient) Complete(ctx context.Context, req Request) (Result, error) {
	res, err := c.post(ctx, req)
	if err != nil && c.maxRetries > 0 && errors.Is(err, ErrUnavailable) && ctx.Err() == nil {
		res, err = c.post(ctx, req)
	}
	return res, err
}

func (c *GenericClient) post(ctx context.Context, req Request) (Result, error) {
	body, err := json.Marshal(completionPayload{
		Model:       req.Model,
		Prompt:      req.Prompt,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return Result{}, fmt.Errorf("marshal upstream payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return Result{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Result{}, classifyTransportError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, classifyTransportError(err)
	}
	return Result{StatusCode: resp.StatusCode, Body: respBody}, nil
}

func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return timedOut(err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return timedOut(err)
	}
	return unavailable(err)
}
