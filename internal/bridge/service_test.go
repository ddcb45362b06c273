package bridge

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modelbridge/internal/config"
	"modelbridge/internal/extract"
	"modelbridge/internal/upstream"
)

// stubClient records the forwarded request and plays back a canned reply.
type stubClient struct {
	calls   int
	lastReq upstream.Request
	result  upstream.Result
	err     error
}

func (s *stubClient) Complete(_ context.Context, req upstream.Request) (upstream.Result, error) {
	s.calls++
	s.lastReq = req
	return s.result, s.err
}

func testDefaults() config.DefaultsConfig {
	return config.DefaultsConfig{Model: "default-model", MaxTokens: 200, Temperature: 0.7}
}

func okResult(body string) upstream.Result {
	return upstream.Result{StatusCode: http.StatusOK, Body: []byte(body)}
}

func TestServiceAppliesDefaults(t *testing.T) {
	client := &stubClient{result: okResult(`{"completion": "x"}`)}
	service := NewService(client, extract.DefaultStrategies(""), testDefaults())

	_, err := service.Complete(context.Background(), CompleteRequest{Prompt: "hello"})
	require.NoError(t, err)

	assert.Equal(t, "hello", client.lastReq.Prompt)
	assert.Equal(t, "default-model", client.lastReq.Model)
	assert.Equal(t, 200, client.lastReq.MaxTokens)
	assert.InDelta(t, 0.7, client.lastReq.Temperature, 0.001)
}

func TestServiceHonorsExplicitParameters(t *testing.T) {
	client := &stubClient{result: okResult(`{"completion": "x"}`)}
	service := NewService(client, extract.DefaultStrategies(""), testDefaults())

	zero := float32(0)
	_, err := service.Complete(context.Background(), CompleteRequest{
		Prompt:      "hello",
		Model:       "custom-model",
		MaxTokens:   16,
		Temperature: &zero,
	})
	require.NoError(t, err)

	assert.Equal(t, "custom-model", client.lastReq.Model)
	assert.Equal(t, 16, client.lastReq.MaxTokens)
	assert.Zero(t, client.lastReq.Temperature, "explicit zero temperature must not be replaced")
}

func TestServiceExtractsCompletion(t *testing.T) {
	client := &stubClient{result: okResult(`{"completion": "foo"}`)}
	service := NewService(client, extract.DefaultStrategies(""), testDefaults())

	resp, err := service.Complete(context.Background(), CompleteRequest{Prompt: "p"})
	require.NoError(t, err)

	require.NotNil(t, resp.Response)
	assert.Equal(t, "foo", *resp.Response)
	assert.Equal(t, map[string]any{"completion": "foo"}, resp.RawResponse)
}

func TestServicePassesThroughUnrecognizedShape(t *testing.T) {
	client := &stubClient{result: okResult(`{"x": 1}`)}
	service := NewService(client, extract.DefaultStrategies(""), testDefaults())

	resp, err := service.Complete(context.Background(), CompleteRequest{Prompt: "p"})
	require.NoError(t, err)

	assert.Nil(t, resp.Response)
	assert.Equal(t, map[string]any{"x": float64(1)}, resp.RawResponse)
}

func TestServiceConfiguredFieldWins(t *testing.T) {
	client := &stubClient{result: okResult(`{"answer": "configured", "completion": "builtin"}`)}
	service := NewService(client, extract.DefaultStrategies("answer"), testDefaults())

	resp, err := service.Complete(context.Background(), CompleteRequest{Prompt: "p"})
	require.NoError(t, err)

	require.NotNil(t, resp.Response)
	assert.Equal(t, "configured", *resp.Response)
}

func TestServiceClassifiesFailures(t *testing.T) {
	tests := []struct {
		name     string
		result   upstream.Result
		err      error
		wantKind ErrorKind
	}{
		{
			name:     "timeout",
			err:      upstream.ErrTimeout,
			wantKind: KindTimeout,
		},
		{
			name:     "unavailable",
			err:      upstream.ErrUnavailable,
			wantKind: KindUnavailable,
		},
		{
			name:     "upstream 500",
			result:   upstream.Result{StatusCode: http.StatusInternalServerError, Body: []byte(`{"detail":"boom"}`)},
			wantKind: KindBadStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &stubClient{result: tt.result, err: tt.err}
			service := NewService(client, extract.DefaultStrategies(""), testDefaults())

			_, err := service.Complete(context.Background(), CompleteRequest{Prompt: "p"})
			require.Error(t, err)

			var upstreamErr *UpstreamError
			require.ErrorAs(t, err, &upstreamErr)
			assert.Equal(t, tt.wantKind, upstreamErr.Kind)
			assert.NotEmpty(t, upstreamErr.Detail)
		})
	}
}
