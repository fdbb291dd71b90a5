package chi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chirouter "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/sensorank/internal/domain"
	"github.com/kailas-cloud/sensorank/internal/domain/item"
	"github.com/kailas-cloud/sensorank/internal/domain/weights"
	healthuc "github.com/kailas-cloud/sensorank/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/sensorank/internal/usecase/recommend"
)

// --- Mocks ---

type mockEmbedder struct {
	vec []float32
	err error
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec}, nil
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

// --- Fixtures ---

func testCatalog(t *testing.T) []item.Item {
	t.Helper()
	a, err := item.New(
		"thermal-01", "Thermal Camera", "thermal",
		[]string{"fire-prevention"}, []string{"outdoor"},
		[]float32{1, 0},
		item.Attributes{IPRating: "IP66"},
	)
	if err != nil {
		t.Fatalf("item.New: %v", err)
	}
	b, err := item.New(
		"gas-01", "Gas Detector", "gas",
		[]string{"air-quality"}, []string{"indoor"},
		[]float32{0, 1},
		item.Attributes{},
	)
	if err != nil {
		t.Fatalf("item.New: %v", err)
	}
	return []item.Item{a, b}
}

type serverOpts struct {
	items    []item.Item
	embedErr error
	dbErr    error
}

func newTestRouter(t *testing.T, opts serverOpts) http.Handler {
	t.Helper()

	embed := &mockEmbedder{vec: []float32{1, 0}, err: opts.embedErr}
	rec := recommenduc.New(opts.items, embed, zap.NewNop())
	health := healthuc.New(&mockPinger{err: opts.dbErr}, nil)

	srv := NewServer(rec, health, Defaults{
		Profile: weights.Default(),
		TopK:    3,
		MaxTopK: 50,
	}, zap.NewNop())

	r := chirouter.NewRouter()
	srv.Routes(r)
	return r
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}
