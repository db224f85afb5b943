package streamshape

import (
	json "github.com/goccy/go-json"
)

// Usage aggregates the token counters reported by the upstream source at end
// of stream. Counters are zero when the source never reported usage.
type Usage struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
	TotalTokens      int64 `json:"total_tokens"`

	PromptTokensDetails     *PromptTokensDetails     `json:"prompt_tokens_details,omitempty"`
	CompletionTokensDetails *CompletionTokensDetails `json:"completion_tokens_details,omitempty"`

	// Extra preserves counters this package does not recognize. They are
	// passed through opaquely rather than dropped.
	Extra map[string]any `json:"-"`
}

// PromptTokensDetails breaks down the prompt-side counters.
type PromptTokensDetails struct {
	CachedTokens int64 `json:"cached_tokens"`
}

// CompletionTokensDetails breaks down the completion-side counters.
type CompletionTokensDetails struct {
	ReasoningTokens          int64 `json:"reasoning_tokens"`
	AcceptedPredictionTokens int64 `json:"accepted_prediction_tokens"`
	RejectedPredictionTokens int64 `json:"rejected_prediction_tokens"`
}

// IsZero reports whether no counter was ever populated.
func (u Usage) IsZero() bool {
	return u.PromptTokens == 0 && u.CompletionTokens == 0 && u.TotalTokens == 0 &&
		u.PromptTokensDetails == nil && u.CompletionTokensDetails == nil && len(u.Extra) == 0
}

// recognized top-level usage keys; anything else lands in Extra.
var usageKnownKeys = map[string]struct{}{
	"prompt_tokens":             {},
	"completion_tokens":         {},
	"total_tokens":              {},
	"prompt_tokens_details":     {},
	"completion_tokens_details": {},
}

// UsageFromJSON decodes a usage payload, keeping unrecognized keys in Extra.
func UsageFromJSON(raw []byte) (Usage, error) {
	var u Usage
	if err := json.Unmarshal(raw, &u); err != nil {
		return Usage{}, toIssues(err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return Usage{}, toIssues(err)
	}
	for k, v := range m {
		if _, ok := usageKnownKeys[k]; ok {
			continue
		}
		if u.Extra == nil {
			u.Extra = map[string]any{}
		}
		u.Extra[k] = v
	}
	return u, nil
}
