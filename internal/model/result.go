package model

import "core/internal/dataset"

// Result kinds for the tagged query result.
const (
	ResultKindProperty = "property"
	ResultKindChat     = "chat"
)

// Timings records per-stage latencies in milliseconds, keyed by stage name.
type Timings map[string]int64

// QueryResult is the tagged union the workflow returns: exactly one of
// Property or Chat is set, matching Kind.
type QueryResult struct {
	Kind     string          `json:"result_type"`
	Property *PropertyResult `json:"property,omitempty"`
	Chat     *ChatResult     `json:"chat,omitempty"`
}

// PropertyResult carries the fused record set plus both raw inputs to the
// fusion for diagnostics.
type PropertyResult struct {
	Final       *dataset.Table `json:"final_df"`
	Filtered    *dataset.Table `json:"csv_result"`
	SemanticIDs []string       `json:"hybrid_result"`
	Timings     Timings        `json:"timings"`
}

// ChatResult carries the conversational answer for non-property queries.
type ChatResult struct {
	Text    string  `json:"result"`
	Timings Timings `json:"timings"`
}
