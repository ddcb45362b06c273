package bridge

// CompleteRequest is the inbound payload. Prompt is mandatory; everything
// else falls back to configured defaults.
type CompleteRequest struct {
	Prompt      string   `json:"prompt"`
	Model       string   `json:"model,omitempty"`
	MaxTokens   int      `json:"max_tokens,omitempty"`
	Temperature *float32 `json:"temperature,omitempty"`
}

// CompleteResponse relays the extracted completion. Response is null when no
// extraction strategy recognized the upstream body; RawResponse always
// carries the upstream reply for inspection.
type CompleteResponse struct {
	Response    *string `json:"response"`
	RawResponse any     `json:"raw_response"`
}

type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

type ErrorKind int

const (
	KindUnavailable ErrorKind = iota
	KindTimeout
	KindBadStatus
)

// UpstreamError is returned by the service when the forward failed. The
// controller maps Kind onto an HTTP status.
type UpstreamError struct {
	Kind   ErrorKind
	Detail string
}

func (e *UpstreamError) Error() string {
	return e.Detail
}
