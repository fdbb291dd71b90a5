package recommend

import (
	"errors"
	"strings"

	"github.com/kailas-cloud/sensorank/internal/domain"
	"github.com/kailas-cloud/sensorank/internal/domain/facet"
	"github.com/kailas-cloud/sensorank/internal/domain/item"
	"github.com/kailas-cloud/sensorank/internal/domain/query"
)

// Scorer maps a (query, item) pair to a relevance value in [0,1].
// Scorers are stateless and never communicate with each other, so per-item
// facet computation is safe to run on any number of workers.
type Scorer interface {
	Facet() facet.Facet
	Score(q *query.Query, it *item.Item) (float64, error)
}

func defaultScorers() []Scorer {
	return []Scorer{typeScorer{}, moduleScorer{}, environmentScorer{}, nluScorer{}}
}

// typeScorer is a hard categorical filter: 1.0 when no type was requested or
// the requested type matches the item type exactly (case-insensitive,
// trimmed), 0.0 otherwise. No partial credit.
type typeScorer struct{}

func (typeScorer) Facet() facet.Facet { return facet.Type }

func (typeScorer) Score(q *query.Query, it *item.Item) (float64, error) {
	want := strings.TrimSpace(q.RequestedType())
	if want == "" {
		return 1, nil
	}
	if strings.EqualFold(want, strings.TrimSpace(it.SensorType())) {
		return 1, nil
	}
	return 0, nil
}

// moduleScorer scores the fraction of requested application scenarios the
// item's compatible modules cover.
type moduleScorer struct{}

func (moduleScorer) Facet() facet.Facet { return facet.Module }

func (moduleScorer) Score(q *query.Query, it *item.Item) (float64, error) {
	return tagOverlap(q.Modules(), it.Modules()), nil
}

// environmentScorer scores the fraction of requested operating conditions the
// item's environment tags cover.
type environmentScorer struct{}

func (environmentScorer) Facet() facet.Facet { return facet.Environment }

func (environmentScorer) Score(q *query.Query, it *item.Item) (float64, error) {
	return tagOverlap(q.EnvTags(), it.EnvTags()), nil
}

// nluScorer delegates to cosine similarity on the precomputed embeddings.
// A degenerate (all-zero placeholder) vector scores 0.0 instead of failing the
// request; a dimension mismatch is a catalog-integrity bug and is surfaced.
type nluScorer struct{}

func (nluScorer) Facet() facet.Facet { return facet.NLU }

func (nluScorer) Score(q *query.Query, it *item.Item) (float64, error) {
	sim, err := domain.CosineSimilarity(q.Vector(), it.Vector())
	if err != nil {
		if errors.Is(err, domain.ErrDegenerateVector) {
			return 0, nil
		}
		return 0, err
	}
	return sim, nil
}

// tagOverlap returns |requested ∩ have| / |requested| over normalized tags.
// An empty request expresses no preference and must not penalize any item,
// hence the asymmetric 1.0.
func tagOverlap(requested, have []string) float64 {
	haveSet := make(map[string]struct{}, len(have))
	for _, tag := range have {
		if n := normalizeTag(tag); n != "" {
			haveSet[n] = struct{}{}
		}
	}

	seen := make(map[string]struct{}, len(requested))
	var total, matched int
	for _, tag := range requested {
		n := normalizeTag(tag)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		total++
		if _, ok := haveSet[n]; ok {
			matched++
		}
	}

	if total == 0 {
		return 1
	}
	return float64(matched) / float64(total)
}

func normalizeTag(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
