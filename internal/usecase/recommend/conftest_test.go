package recommend

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/sensorank/internal/domain"
	"github.com/kailas-cloud/sensorank/internal/domain/facet"
	"github.com/kailas-cloud/sensorank/internal/domain/item"
	"github.com/kailas-cloud/sensorank/internal/domain/query"
	"github.com/kailas-cloud/sensorank/internal/domain/weights"
)

// --- Mocks ---

type mockEmbedder struct {
	vec    []float32
	err    error
	calls  int
	lastIn string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.calls++
	m.lastIn = text
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec, TotalTokens: 1}, nil
}

type mockCatalog struct {
	items []item.Item
	err   error
}

func (m *mockCatalog) List(_ context.Context) ([]item.Item, error) {
	return m.items, m.err
}

// --- Fixtures ---

func makeItem(t *testing.T, id, sensorType string, modules, envTags []string, vec []float32) item.Item {
	t.Helper()
	it, err := item.New(id, "Sensor "+id, sensorType, modules, envTags, vec, item.Attributes{})
	if err != nil {
		t.Fatalf("item.New(%s): %v", id, err)
	}
	return it
}

func makeQuery(t *testing.T, requestedType string, modules, envTags []string, vec []float32) query.Query {
	t.Helper()
	q, err := query.New("test query", requestedType, modules, envTags, vec)
	if err != nil {
		t.Fatalf("query.New: %v", err)
	}
	return q
}

func makeProfile(t *testing.T, w map[facet.Facet]float64) weights.Profile {
	t.Helper()
	p, err := weights.New(w)
	if err != nil {
		t.Fatalf("weights.New: %v", err)
	}
	return p
}

// twoItemCatalog builds the reference catalog: A is a temperature sensor
// aligned with the query vector, B a pressure sensor orthogonal to it.
func twoItemCatalog(t *testing.T) []item.Item {
	t.Helper()
	return []item.Item{
		makeItem(t, "A", "temperature", []string{"outdoor"}, []string{"humid"}, []float32{1, 0}),
		makeItem(t, "B", "pressure", []string{"indoor"}, []string{"dry"}, []float32{0, 1}),
	}
}

func newTestService(t *testing.T, items []item.Item, embed *mockEmbedder) *Service {
	t.Helper()
	return New(items, embed, zap.NewNop())
}
