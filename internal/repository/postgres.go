package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"core/internal/dataset"
)

// Embedder generates embeddings for texts. The OpenAI extractor satisfies
// this; tests substitute a deterministic fake.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// PostgresRepository handles database operations: hydrating the in-memory
// property table at startup and serving the hybrid description search.
type PostgresRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewPostgresRepository creates a new PostgreSQL repository.
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int, logger *zap.Logger) (*PostgresRepository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db, logger: logger}, nil
}

// Close closes the database connection.
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// LoadTable reads the whole properties table into the in-memory dataset.
// Done once at startup; query processing only ever derives views.
func (r *PostgresRepository) LoadTable(ctx context.Context) (*dataset.Table, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT * FROM properties ORDER BY property_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to read properties: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read property columns: %w", err)
	}

	var tableRows []dataset.Row
	for rows.Next() {
		cells, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("failed to scan property row: %w", err)
		}
		row := make(dataset.Row, len(cells))
		for i, cell := range cells {
			row[i] = cellToString(cell)
		}
		tableRows = append(tableRows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate properties: %w", err)
	}

	r.logger.Info("property table loaded",
		zap.Int("columns", len(columns)),
		zap.Int("rows", len(tableRows)))
	return dataset.New(columns, tableRows), nil
}

// cellToString renders a scanned SQL value as a raw table cell.
func cellToString(cell interface{}) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case []byte:
		return string(v)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// rrfK is the Reciprocal Rank Fusion constant.
const rrfK = 60

// HybridRetriever searches property descriptions with dense pgvector KNN
// and sparse full-text ranking, fused by Reciprocal Rank Fusion. Both
// halves run concurrently; each contributes up to topK candidates.
type HybridRetriever struct {
	repo     *PostgresRepository
	embedder Embedder
	topK     int
	logger   *zap.Logger
}

// NewHybridRetriever creates a retriever over the description index.
func NewHybridRetriever(repo *PostgresRepository, embedder Embedder, topK int, logger *zap.Logger) *HybridRetriever {
	return &HybridRetriever{repo: repo, embedder: embedder, topK: topK, logger: logger}
}

// Search returns ranked property_ids for the query.
func (h *HybridRetriever) Search(ctx context.Context, query string) ([]string, error) {
	vectors, err := h.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("embed query: no vector returned")
	}

	var dense, sparse []string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		dense, err = h.searchDense(gctx, vectors[0])
		return err
	})
	g.Go(func() error {
		var err error
		sparse, err = h.searchSparse(gctx, query)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ids := fuseRRF(dense, sparse, h.topK)
	h.logger.Debug("hybrid search done",
		zap.Int("dense", len(dense)),
		zap.Int("sparse", len(sparse)),
		zap.Int("fused", len(ids)))
	return ids, nil
}

func (h *HybridRetriever) searchDense(ctx context.Context, vector []float32) ([]string, error) {
	var ids []string
	err := h.repo.db.SelectContext(ctx, &ids, `
		SELECT property_id
		FROM property_descriptions
		WHERE embedding IS NOT NULL
		ORDER BY embedding <=> $1
		LIMIT $2
	`, pgvector.NewVector(vector), h.topK)
	if err != nil {
		return nil, fmt.Errorf("dense search: %w", err)
	}
	return ids, nil
}

func (h *HybridRetriever) searchSparse(ctx context.Context, query string) ([]string, error) {
	var ids []string
	err := h.repo.db.SelectContext(ctx, &ids, `
		SELECT property_id
		FROM property_descriptions
		WHERE search_vector @@ plainto_tsquery('english', $1)
		ORDER BY ts_rank(search_vector, plainto_tsquery('english', $1)) DESC
		LIMIT $2
	`, query, h.topK)
	if err != nil {
		return nil, fmt.Errorf("sparse search: %w", err)
	}
	return ids, nil
}

// fuseRRF merges two ranked id lists via Reciprocal Rank Fusion:
// score(id) = sum of 1/(k + rank) over the lists it appears in.
// Ties break lexicographically so results are deterministic.
func fuseRRF(dense, sparse []string, topK int) []string {
	scores := make(map[string]float64, len(dense)+len(sparse))
	for rank, id := range dense {
		scores[id] += 1.0 / float64(rrfK+rank+1)
	}
	for rank, id := range sparse {
		scores[id] += 1.0 / float64(rrfK+rank+1)
	}

	ids := make([]string, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if scores[ids[i]] != scores[ids[j]] {
			return scores[ids[i]] > scores[ids[j]]
		}
		return ids[i] < ids[j]
	})

	if len(ids) > topK {
		ids = ids[:topK]
	}
	return ids
}

// indexBatchSize bounds one embedding API call during reindexing.
const indexBatchSize = 100

// ReindexDescriptions embeds every property description and stores the
// vectors the dense search reads. Returns how many rows were updated.
func (r *PostgresRepository) ReindexDescriptions(ctx context.Context, embedder Embedder) (int, error) {
	type descRow struct {
		PropertyID  string `db:"property_id"`
		Description string `db:"description"`
	}

	var descs []descRow
	err := r.db.SelectContext(ctx, &descs, `
		SELECT property_id, description
		FROM property_descriptions
		WHERE description IS NOT NULL AND description <> ''
		ORDER BY property_id
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to read descriptions: %w", err)
	}

	updated := 0
	for start := 0; start < len(descs); start += indexBatchSize {
		end := start + indexBatchSize
		if end > len(descs) {
			end = len(descs)
		}
		batch := descs[start:end]

		texts := make([]string, len(batch))
		for i, d := range batch {
			texts[i] = d.Description
		}

		vectors, err := embedder.Embed(ctx, texts)
		if err != nil {
			return updated, fmt.Errorf("embed description batch: %w", err)
		}

		for i, d := range batch {
			_, err := r.db.ExecContext(ctx, `
				UPDATE property_descriptions
				SET embedding = $1,
				    search_vector = to_tsvector('english', description)
				WHERE property_id = $2
			`, pgvector.NewVector(vectors[i]), d.PropertyID)
			if err != nil {
				return updated, fmt.Errorf("update embedding for %s: %w", d.PropertyID, err)
			}
			updated++
		}
	}

	r.logger.Info("description index rebuilt", zap.Int("rows", updated))
	return updated, nil
}
