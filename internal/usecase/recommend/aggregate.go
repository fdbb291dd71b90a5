package recommend

import (
	"github.com/kailas-cloud/sensorank/internal/domain"
	"github.com/kailas-cloud/sensorank/internal/domain/item"
	"github.com/kailas-cloud/sensorank/internal/domain/scored"
	"github.com/kailas-cloud/sensorank/internal/domain/weights"
)

// aggregate combines a facet breakdown into one total via
// Σ(weight·score) / Σ(weight) over the facets present in both the breakdown
// and the profile. A weighted average, not a weighted sum: totals stay in
// [0,1] no matter how many facets are weighted or how large the weights are,
// which keeps scores comparable across queries.
func aggregate(it *item.Item, breakdown []scored.FacetScore, profile *weights.Profile) (scored.Item, error) {
	var num, den float64
	for i := range breakdown {
		w := profile.Weight(breakdown[i].Facet())
		num += w * breakdown[i].Value()
		den += w
	}

	if den == 0 {
		return scored.Item{}, domain.ErrEmptyWeightProfile
	}

	return scored.NewItem(it, breakdown, num/den), nil
}
