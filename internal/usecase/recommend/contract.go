package recommend

import (
	"context"

	"github.com/kailas-cloud/sensorank/internal/domain"
	"github.com/kailas-cloud/sensorank/internal/domain/item"
)

// Embedder vectorizes the query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// CatalogSource supplies the validated item snapshot the engine is built with.
// Items are assumed already validated: required fields present, vectors of
// uniform length.
type CatalogSource interface {
	List(ctx context.Context) ([]item.Item, error)
}
