// Package extract pulls completion text out of upstream responses whose
// schema is not known in advance. An ordered list of strategies is probed
// against the decoded body; the first hit wins. Bodies no strategy
// recognizes are passed through raw so the caller can inspect them.
package extract

import (
	"encoding/json"
)

// Strategy names one way a completion server might label its generated text.
type Strategy struct {
	Name  string
	Probe func(body map[string]any) (string, bool)
}

// Result is tagged: either Recognized with Text set, or a raw passthrough.
// Raw always holds the decoded body (or the body as a string when it was
// not valid JSON).
type Result struct {
	Recognized bool
	Text       string
	Raw        any
}

// DefaultStrategies returns the probing order. A configured field name, when
// present, is tried first; the built-ins cover the OpenAI completions and
// chat shapes followed by common flat field names.
func DefaultStrategies(configuredField string) []Strategy {
	strategies := make([]Strategy, 0, 8)
	if configuredField != "" {
		strategies = append(strategies, FieldStrategy(configuredField))
	}
	strategies = append(strategies,
		Strategy{Name: "choices.text", Probe: choicesText},
		Strategy{Name: "choices.message.content", Probe: choicesMessageContent},
	)
	for _, field := range []string{"completion", "response", "text", "output"} {
		strategies = append(strategies, FieldStrategy(field))
	}
	return strategies
}

// FieldStrategy matches a non-empty string at a top-level field.
func FieldStrategy(name string) Strategy {
	return Strategy{
		Name: "field." + name,
		Probe: func(body map[string]any) (string, bool) {
			text, ok := body[name].(string)
			return text, ok && text != ""
		},
	}
}

// Run decodes body and applies the strategies in order.
func Run(strategies []Strategy, body []byte) Result {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		// Not JSON at all; hand the caller the text as-is.
		return Result{Raw: string(body)}
	}

	object, ok := decoded.(map[string]any)
	if !ok {
		return Result{Raw: decoded}
	}

	for _, s := range strategies {
		if text, ok := s.Probe(object); ok {
			return Result{Recognized: true, Text: text, Raw: decoded}
		}
	}
	return Result{Raw: decoded}
}

func choicesText(body map[string]any) (string, bool) {
	first, ok := firstChoice(body)
	if !ok {
		return "", false
	}
	text, ok := first["text"].(string)
	return text, ok && text != ""
}

func choicesMessageContent(body map[string]any) (string, bool) {
	first, ok := firstChoice(body)
	if !ok {
		return "", false
	}
	message, ok := first["message"].(map[string]any)
	if !ok {
		return "", false
	}
	content, ok := message["content"].(string)
	return content, ok && content != ""
}

func firstChoice(body map[string]any) (map[string]any, bool) {
	choices, ok := body["choices"].([]any)
	if !ok || len(choices) == 0 {
		return nil, false
	}
	first, ok := choices[0].(map[string]any)
	return first, ok
}
