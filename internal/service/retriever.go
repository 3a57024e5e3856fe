package service

import (
	"context"
	"strings"
)

// skipSentinels are the reformulator outputs meaning "nothing here is
// semantically searchable". The empty string covers models that reply
// with whitespace only.
var skipSentinels = map[string]bool{
	"":              true,
	"No_User_Query": true,
	"N/A":           true,
	"None":          true,
}

// SkipSemanticQuery reports whether a reformulated query should bypass
// semantic search entirely.
func SkipSemanticQuery(q string) bool {
	return skipSentinels[strings.TrimSpace(q)]
}

// Retriever performs hybrid similarity search over indexed property
// descriptions and returns ranked property_id values, capped at a bounded
// top-K. A nil Retriever in the workflow means the deployment has no
// semantic index configured, which is distinct from a search that ran and
// found nothing.
type Retriever interface {
	Search(ctx context.Context, query string) ([]string, error)
}
