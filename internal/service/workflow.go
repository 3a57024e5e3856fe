package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"core/internal/dataset"
	"core/internal/model"
	"core/internal/utils"
)

// Workflow orchestrates a query: concurrent extraction fan-out, the
// intent branch, deterministic filtering raced against hybrid retrieval,
// and fusion of the two candidate sets by property_id.
type Workflow struct {
	extractor Extractor
	retriever Retriever // nil when semantic search is not configured
	filter    *FilterEngine
	logger    *zap.Logger
}

// NewWorkflow wires the workflow. retriever may be nil.
func NewWorkflow(extractor Extractor, retriever Retriever, filter *FilterEngine, logger *zap.Logger) *Workflow {
	return &Workflow{
		extractor: extractor,
		retriever: retriever,
		filter:    filter,
		logger:    logger,
	}
}

type retrievalOutcome struct {
	ids     []string
	elapsed time.Duration
	err     error
}

// Process runs one query against the read-only property table. Extraction
// and retrieval failures abort the whole query; filtering never fails.
func (w *Workflow) Process(ctx context.Context, query string, table *dataset.Table) (*model.QueryResult, error) {
	timings := model.Timings{}

	// Stage 1: intent, field mask and the semantic sub-query, all at once.
	var (
		intent        *model.Intent
		mask          *model.FieldMask
		semanticQuery string
	)
	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		intent, err = w.extractor.Intent(gctx, query)
		return err
	})
	g.Go(func() error {
		var err error
		mask, err = w.extractor.FieldMask(gctx, query)
		return err
	})
	g.Go(func() error {
		var err error
		semanticQuery, err = w.extractor.SemanticQuery(gctx, query)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	timings["intent_fields_semantic_query"] = time.Since(start).Milliseconds()

	if !intent.PropertyRelated {
		return w.chat(ctx, query, timings)
	}

	semantic := w.retriever != nil && !SkipSemanticQuery(semanticQuery)
	w.logger.Info("property query",
		zap.Bool("semantic", semantic),
		zap.String("semantic_query", semanticQuery))

	// Retrieval runs in the background while criteria extraction and the
	// deterministic filter proceed. The buffered channel lets Process
	// return on extraction failure without leaking the goroutine.
	var retrievalCh chan retrievalOutcome
	if semantic {
		retrievalCh = make(chan retrievalOutcome, 1)
		retrievalStart := time.Now()
		go func() {
			ids, err := w.retriever.Search(ctx, semanticQuery)
			retrievalCh <- retrievalOutcome{ids: ids, elapsed: time.Since(retrievalStart), err: err}
		}()
	}

	// Stage 2: criteria values and comparator directions, concurrently.
	var (
		criteria    *model.SearchCriteria
		comparators *model.ComparatorMap
	)
	start = time.Now()
	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		criteria, err = w.extractor.Criteria(gctx, query)
		return err
	})
	g.Go(func() error {
		var err error
		comparators, err = w.extractor.Comparators(gctx, query)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	timings["criteria_comparators"] = time.Since(start).Milliseconds()

	start = time.Now()
	filtered := w.filter.Apply(table, mask, criteria, comparators)
	timings["filter"] = time.Since(start).Milliseconds()
	w.logger.Info("deterministic filter done", zap.Int("rows", filtered.Len()))

	if !semantic {
		return &model.QueryResult{
			Kind: model.ResultKindProperty,
			Property: &model.PropertyResult{
				Final:       filtered,
				Filtered:    filtered,
				SemanticIDs: []string{},
				Timings:     timings,
			},
		}, nil
	}

	outcome := <-retrievalCh
	timings["retrieval"] = outcome.elapsed.Milliseconds()
	if outcome.err != nil {
		return nil, fmt.Errorf("semantic retrieval: %w", outcome.err)
	}
	w.logger.Info("hybrid retrieval done", zap.Int("candidates", len(outcome.ids)))

	final := fuse(filtered, outcome.ids)
	return &model.QueryResult{
		Kind: model.ResultKindProperty,
		Property: &model.PropertyResult{
			Final:       final,
			Filtered:    filtered,
			SemanticIDs: outcome.ids,
			Timings:     timings,
		},
	}, nil
}

// chat handles the non-property branch. No dataset access happens here.
func (w *Workflow) chat(ctx context.Context, query string, timings model.Timings) (*model.QueryResult, error) {
	start := time.Now()
	text, err := w.extractor.Respond(ctx, query)
	if err != nil {
		return nil, err
	}
	timings["chat_response"] = time.Since(start).Milliseconds()

	return &model.QueryResult{
		Kind: model.ResultKindChat,
		Chat: &model.ChatResult{Text: text, Timings: timings},
	}, nil
}

// fuse intersects the filtered rows with the semantic candidate ids.
// Strict policy: retrieval that ran but found nothing forces an empty
// result, and a filtered set without a property_id column cannot be
// intersected, so it is forced empty too rather than passed through.
func fuse(filtered *dataset.Table, semanticIDs []string) *dataset.Table {
	if len(semanticIDs) == 0 {
		return filtered.Empty()
	}
	if !filtered.HasColumn(model.FieldPropertyID) {
		return filtered.Empty()
	}

	idSet := make(map[string]bool, len(semanticIDs))
	for _, id := range semanticIDs {
		idSet[utils.Normalize(id)] = true
	}

	return filtered.Select(func(row dataset.Row) bool {
		cell, _ := filtered.Cell(row, model.FieldPropertyID)
		return idSet[utils.Normalize(cell)]
	})
}
