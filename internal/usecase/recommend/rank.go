package recommend

import (
	"fmt"
	"sort"

	"github.com/kailas-cloud/sensorank/internal/domain"
	"github.com/kailas-cloud/sensorank/internal/domain/facet"
	"github.com/kailas-cloud/sensorank/internal/domain/scored"
)

// rank returns the top k items by total score descending. Floating-point ties
// are common with sparse tag overlap, so the ordering must be total: equal
// totals break on the higher NLU score, then on the lexicographically smaller
// item id. When k exceeds the input size the full input is returned ranked —
// truncation, not padding.
func rank(items []scored.Item, k int) ([]scored.Item, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidTopK, k)
	}

	ranked := make([]scored.Item, len(items))
	copy(ranked, items)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Total() != ranked[j].Total() {
			return ranked[i].Total() > ranked[j].Total()
		}
		ni, nj := ranked[i].Facet(facet.NLU), ranked[j].Facet(facet.NLU)
		if ni != nj {
			return ni > nj
		}
		return ranked[i].Item().ID() < ranked[j].Item().ID()
	})

	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked, nil
}
