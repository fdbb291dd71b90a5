package scored

import (
	"github.com/kailas-cloud/sensorank/internal/domain/facet"
	"github.com/kailas-cloud/sensorank/internal/domain/item"
	"github.com/kailas-cloud/sensorank/internal/domain/weights"
)

// FacetScore is one facet's contribution for a (query, item) pair, in [0,1].
type FacetScore struct {
	facet facet.Facet
	value float64
}

// NewFacetScore creates a facet score.
func NewFacetScore(f facet.Facet, value float64) FacetScore {
	return FacetScore{facet: f, value: value}
}

// Facet returns the facet name.
func (s *FacetScore) Facet() facet.Facet { return s.facet }

// Value returns the score in [0,1].
func (s *FacetScore) Value() float64 { return s.value }

// Item wraps a catalog item with its per-facet breakdown and weighted total.
// The catalog item is referenced, never copied or mutated.
type Item struct {
	item      *item.Item
	breakdown []FacetScore
	total     float64
}

// NewItem creates a scored item.
func NewItem(it *item.Item, breakdown []FacetScore, total float64) Item {
	return Item{item: it, breakdown: breakdown, total: total}
}

// Item returns the underlying catalog item.
func (s *Item) Item() *item.Item { return s.item }

// Breakdown returns the per-facet scores in canonical facet order.
func (s *Item) Breakdown() []FacetScore { return s.breakdown }

// Facet returns the score for one facet, 0 if the facet was not scored.
func (s *Item) Facet(f facet.Facet) float64 {
	for _, fs := range s.breakdown {
		if fs.facet == f {
			return fs.value
		}
	}
	return 0
}

// Total returns the weighted-average total score in [0,1].
func (s *Item) Total() float64 { return s.total }

// Result is a ranked recommendation outcome. The applied profile and K are
// recorded so an identical ranking can be reproduced and audited later.
type Result struct {
	items        []Item
	profile      weights.Profile
	topK         int
	totalMatched int
}

// NewResult creates a recommendation result. totalMatched counts items that
// passed the score threshold before top-K truncation.
func NewResult(items []Item, profile weights.Profile, topK, totalMatched int) Result {
	return Result{items: items, profile: profile, topK: topK, totalMatched: totalMatched}
}

// Items returns up to K scored items, descending by total score.
func (r *Result) Items() []Item { return r.items }

// Profile returns the weight profile the ranking was computed with.
func (r *Result) Profile() weights.Profile { return r.profile }

// TopK returns the K the caller requested.
func (r *Result) TopK() int { return r.topK }

// TotalMatched returns how many items matched before truncation.
func (r *Result) TotalMatched() int { return r.totalMatched }
