package weights

import (
	"fmt"

	"github.com/kailas-cloud/sensorank/internal/domain"
	"github.com/kailas-cloud/sensorank/internal/domain/facet"
)

// Profile is a validated mapping from facet to its non-negative relative
// importance. Only weight ratios matter: totals are computed as a weighted
// average, so a profile of {type: 2, nlu: 2} ranks identically to
// {type: 0.5, nlu: 0.5}.
type Profile struct {
	weights map[facet.Facet]float64
}

// New validates and creates a weight profile. Weights must be non-negative and
// at least one must be positive, otherwise every total score would degenerate
// to an undefined 0/0.
func New(w map[facet.Facet]float64) (Profile, error) {
	weights := make(map[facet.Facet]float64, len(w))
	var sum float64

	for f, v := range w {
		if !f.IsValid() {
			return Profile{}, fmt.Errorf("%w: %q", domain.ErrUnknownFacet, f)
		}
		if v < 0 {
			return Profile{}, fmt.Errorf("weight for facet %q must be non-negative, got %v", f, v)
		}
		weights[f] = v
		sum += v
	}

	if sum == 0 {
		return Profile{}, domain.ErrEmptyWeightProfile
	}

	return Profile{weights: weights}, nil
}

// Default returns the standard profile: sensor type dominates, then compatible
// modules, then semantic similarity, with a small environment contribution.
func Default() Profile {
	return Profile{weights: map[facet.Facet]float64{
		facet.Type:        0.4,
		facet.Module:      0.3,
		facet.NLU:         0.25,
		facet.Environment: 0.05,
	}}
}

// Weight returns the weight for a facet, 0 if the facet is not in the profile.
func (p *Profile) Weight(f facet.Facet) float64 { return p.weights[f] }

// Sum returns the total of all weights.
func (p *Profile) Sum() float64 {
	var sum float64
	for _, v := range p.weights {
		sum += v
	}
	return sum
}

// Map returns a copy of the facet→weight mapping for auditing.
func (p *Profile) Map() map[facet.Facet]float64 {
	out := make(map[facet.Facet]float64, len(p.weights))
	for f, v := range p.weights {
		out[f] = v
	}
	return out
}
