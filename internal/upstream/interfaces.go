package upstream

import (
	"context"
	"errors"
	"fmt"
)

// Request is the payload forwarded to the completion server.
type Request struct {
	Prompt      string
	Model       string
	MaxTokens   int
	Temperature float32
}

// Result is the upstream reply before any shape interpretation. Body is kept
// as raw bytes because the upstream's response schema is not fixed.
type Result struct {
	StatusCode int
	Body       []byte
}

func (r Result) Success() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

type Client interface {
	Complete(ctx context.Context, req Request) (Result, error)
}

// ErrTimeout reports that the upstream did not answer within the configured
// deadline. ErrUnavailable covers everything else that prevented a reply
// (refused connection, DNS failure, reset mid-response).
var (
	ErrTimeout     = errors.New("upstream timed out")
	ErrUnavailable = errors.New("upstream unavailable")
)

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func timedOut(err error) error {
	return fmt.Errorf("%w: %v", ErrTimeout, err)
}
