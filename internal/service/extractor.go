package service

import (
	"context"
	"fmt"

	"core/internal/model"
)

// PromptKind identifies one structured extraction shape. Each kind maps to
// exactly one prompt and one response type.
type PromptKind string

const (
	PromptIntent        PromptKind = "intent"
	PromptFieldMask     PromptKind = "field_mask"
	PromptCriteria      PromptKind = "search_criteria"
	PromptComparators   PromptKind = "column_filters"
	PromptSemanticQuery PromptKind = "semantic_query"
	PromptChat          PromptKind = "chat"
)

// ExtractionError reports a failed or unparseable structured-extraction
// call. The workflow aborts the whole query on this; it never returns a
// partial property result.
type ExtractionError struct {
	Kind PromptKind
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction %s failed: %v", e.Kind, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Extractor turns free text into the structured shapes the workflow needs.
// Implementations are expected to be safe for concurrent calls; the
// workflow fans several of these out at once. Tests substitute
// deterministic fakes.
type Extractor interface {
	// Intent classifies the query as greeting/property/farewell/other.
	Intent(ctx context.Context, query string) (*model.Intent, error)

	// FieldMask flags which property attributes the query cares about.
	FieldMask(ctx context.Context, query string) (*model.FieldMask, error)

	// Criteria extracts the literal values mentioned per attribute.
	Criteria(ctx context.Context, query string) (*model.SearchCriteria, error)

	// Comparators extracts per-column inequality directions.
	Comparators(ctx context.Context, query string) (*model.ComparatorMap, error)

	// SemanticQuery reformulates the query into a semantic-search-only
	// sub-query, or the skip sentinel when nothing qualifies.
	SemanticQuery(ctx context.Context, query string) (string, error)

	// Respond produces a conversational answer for non-property queries.
	Respond(ctx context.Context, query string) (string, error)
}
