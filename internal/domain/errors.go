package domain

import "errors"

var (
	// ErrVectorDimMismatch signals a vector dimension mismatch. Vectors of
	// unequal length in the catalog are an ingestion bug and are surfaced,
	// never coerced.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrDegenerateVector signals a zero-magnitude vector for which cosine
	// similarity is undefined. Scoring callers absorb it as a 0.0 score.
	ErrDegenerateVector = errors.New("degenerate vector")
	// ErrEmptyWeightProfile signals a weight profile with no positive weight.
	ErrEmptyWeightProfile = errors.New("empty weight profile")
	// ErrInvalidTopK signals a non-positive top-k.
	ErrInvalidTopK = errors.New("invalid top-k")
	// ErrUnknownFacet signals a weight keyed by an unknown facet name.
	ErrUnknownFacet = errors.New("unknown facet")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrItemNotFound signals a missing catalog item.
	ErrItemNotFound = errors.New("item not found")
	// ErrCatalogNotReady signals that the catalog snapshot has not been loaded.
	ErrCatalogNotReady = errors.New("catalog not ready")
)
