package bridge

import (
	"context"
	"errors"
	"fmt"

	"modelbridge/internal/config"
	"modelbridge/internal/extract"
	"modelbridge/internal/upstream"
)

// Service forwards one completion request upstream and interprets the reply.
// It holds no mutable state; every call is an independent forward/respond
// cycle.
type Service struct {
	client     upstream.Client
	strategies []extract.Strategy
	defaults   config.DefaultsConfig
}

func NewService(client upstream.Client, strategies []extract.Strategy, defaults config.DefaultsConfig) *Service {
	return &Service{client: client, strategies: strategies, defaults: defaults}
}

func (s *Service) Complete(ctx context.Context, req CompleteRequest) (*CompleteResponse, error) {
	upstreamReq := upstream.Request{
		Prompt:      req.Prompt,
		Model:       req.Model,
		MaxTokens:   req.MaxTokens,
		Temperature: s.defaults.Temperature,
	}
	if upstreamReq.Model == "" {
		upstreamReq.Model = s.defaults.Model
	}
	if upstreamReq.MaxTokens == 0 {
		upstreamReq.MaxTokens = s.defaults.MaxTokens
	}
	if req.Temperature != nil {
		upstreamReq.Temperature = *req.Temperature
	}

	result, err := s.client.Complete(ctx, upstreamReq)
	if err != nil {
		return nil, classify(err)
	}
	if !result.Success() {
		return nil, &UpstreamError{
			Kind:   KindBadStatus,
			Detail: fmt.Sprintf("upstream returned status %d: %s", result.StatusCode, truncate(result.Body, 512)),
		}
	}

	extracted := extract.Run(s.strategies, result.Body)
	resp := &CompleteResponse{RawResponse: extracted.Raw}
	if extracted.Recognized {
		resp.Response = &extracted.Text
	}
	return resp, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, upstream.ErrTimeout):
		return &UpstreamError{Kind: KindTimeout, Detail: err.Error()}
	default:
		return &UpstreamError{Kind: KindUnavailable, Detail: err.Error()}
	}
}

func truncate(body []byte, limit int) string {
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
