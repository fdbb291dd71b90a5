package recommend

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/sensorank/internal/domain"
	"github.com/kailas-cloud/sensorank/internal/domain/item"
	"github.com/kailas-cloud/sensorank/internal/domain/query"
	"github.com/kailas-cloud/sensorank/internal/domain/scored"
	"github.com/kailas-cloud/sensorank/internal/domain/weights"
)

const defaultWorkers = 4

// Request holds the parameters of one recommendation call.
type Request struct {
	Text          string
	RequestedType string
	Modules       []string
	EnvTags       []string
	Profile       weights.Profile
	TopK          int
	MinScore      float64
}

// Service is the recommendation engine. It binds the embedding provider and
// an immutable catalog snapshot at construction; each Recommend call owns its
// own query and scored values, so concurrent calls share no mutable state.
type Service struct {
	snapshot []item.Item
	embed    Embedder
	scorers  []Scorer
	workers  int
	logger   *zap.Logger
}

// New creates a recommendation engine over a catalog snapshot.
func New(snapshot []item.Item, embed Embedder, logger *zap.Logger) *Service {
	return &Service{
		snapshot: snapshot,
		embed:    embed,
		scorers:  defaultScorers(),
		workers:  defaultWorkers,
		logger:   logger,
	}
}

// NewFromCatalog loads the snapshot from a catalog source and creates the
// engine over it. The snapshot is fixed for the lifetime of the service.
func NewFromCatalog(ctx context.Context, src CatalogSource, embed Embedder, logger *zap.Logger) (*Service, error) {
	snapshot, err := src.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog snapshot: %w", err)
	}
	return New(snapshot, embed, logger), nil
}

// WithWorkers sets the number of concurrent scoring workers.
func (s *Service) WithWorkers(n int) *Service {
	if n > 0 {
		s.workers = n
	}
	return s
}

// CatalogSize returns the number of items in the snapshot.
func (s *Service) CatalogSize() int { return len(s.snapshot) }

// TypeCounts returns a histogram of sensor types in the snapshot.
func (s *Service) TypeCounts() map[string]int {
	counts := make(map[string]int)
	for i := range s.snapshot {
		counts[s.snapshot[i].SensorType()]++
	}
	return counts
}

// Recommend embeds the query text, scores every catalog item on all facets,
// aggregates with the weight profile, and returns the ranked top-K. Ranking is
// all-or-nothing: a failed call returns no partial result.
func (s *Service) Recommend(ctx context.Context, req Request) (scored.Result, error) {
	if req.TopK <= 0 {
		return scored.Result{}, fmt.Errorf("%w: %d", domain.ErrInvalidTopK, req.TopK)
	}
	if req.Profile.Sum() == 0 {
		return scored.Result{}, domain.ErrEmptyWeightProfile
	}

	// No matches is a valid outcome, and an empty catalog needs no query vector.
	if len(s.snapshot) == 0 {
		return scored.NewResult(nil, req.Profile, req.TopK, 0), nil
	}

	start := time.Now()

	embRes, err := s.embed.Embed(ctx, req.Text)
	if err != nil {
		return scored.Result{}, fmt.Errorf("vectorize query: %w", err)
	}

	q, err := query.New(req.Text, req.RequestedType, req.Modules, req.EnvTags, embRes.Embedding)
	if err != nil {
		return scored.Result{}, fmt.Errorf("build query: %w", err)
	}

	all, err := s.scoreAll(ctx, &q, &req.Profile)
	if err != nil {
		return scored.Result{}, err
	}

	matched := all
	if req.MinScore > 0 {
		matched = make([]scored.Item, 0, len(all))
		for i := range all {
			if all[i].Total() >= req.MinScore {
				matched = append(matched, all[i])
			}
		}
	}

	ranked, err := rank(matched, req.TopK)
	if err != nil {
		return scored.Result{}, err
	}

	s.logger.Debug("Recommendation computed",
		zap.Int("catalog_size", len(s.snapshot)),
		zap.Int("matched", len(matched)),
		zap.Int("returned", len(ranked)),
		zap.Int("top_k", req.TopK),
		zap.Duration("duration", time.Since(start)),
	)

	return scored.NewResult(ranked, req.Profile, req.TopK, len(matched)), nil
}

// scoreAll fans per-item scoring out over index ranges. Each worker writes
// into its own slice positions, so the assembled output order is the catalog
// order regardless of scheduling. Cancellation is coarse: no new chunk is
// handed out after ctx is done, in-flight chunks finish.
func (s *Service) scoreAll(ctx context.Context, q *query.Query, profile *weights.Profile) ([]scored.Item, error) {
	out := make([]scored.Item, len(s.snapshot))

	workers := s.workers
	if workers > len(s.snapshot) {
		workers = len(s.snapshot)
	}
	chunk := (len(s.snapshot) + workers - 1) / workers

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	setErr := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	for start := 0; start < len(s.snapshot); start += chunk {
		if err := ctx.Err(); err != nil {
			setErr(fmt.Errorf("scoring canceled: %w", err))
			break
		}

		end := start + chunk
		if end > len(s.snapshot) {
			end = len(s.snapshot)
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				si, err := s.scoreOne(q, &s.snapshot[i], profile)
				if err != nil {
					setErr(err)
					return
				}
				out[i] = si
			}
		}(start, end)
	}

	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

// scoreOne runs every facet scorer for one item and aggregates the breakdown.
// Facet scores are produced fresh per (query, item) pair, never cached across
// queries.
func (s *Service) scoreOne(q *query.Query, it *item.Item, profile *weights.Profile) (scored.Item, error) {
	breakdown := make([]scored.FacetScore, 0, len(s.scorers))
	for _, sc := range s.scorers {
		v, err := sc.Score(q, it)
		if err != nil {
			return scored.Item{}, fmt.Errorf("score facet %s for item %s: %w", sc.Facet(), it.ID(), err)
		}
		breakdown = append(breakdown, scored.NewFacetScore(sc.Facet(), v))
	}
	return aggregate(it, breakdown, profile)
}
