package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/kailas-cloud/sensorank/internal/db"
	"github.com/kailas-cloud/sensorank/internal/domain/item"
)

// mockStore is an in-memory hash store implementing the consumer interface.
type mockStore struct {
	hashes  map[string]map[string]string
	scanErr error
	getErr  error
	setErr  error
}

func newMockStore() *mockStore {
	return &mockStore{hashes: map[string]map[string]string{}}
}

func (m *mockStore) HSetMulti(_ context.Context, items []db.HashSetItem) error {
	if m.setErr != nil {
		return m.setErr
	}
	for _, it := range items {
		fields := make(map[string]string, len(it.Fields))
		for k, v := range it.Fields {
			fields[k] = v
		}
		m.hashes[it.Key] = fields
	}
	return nil
}

func (m *mockStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.hashes[key], nil
}

func (m *mockStore) HGetAllMulti(_ context.Context, keys []string) ([]map[string]string, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	out := make([]map[string]string, len(keys))
	for i, key := range keys {
		out[i] = m.hashes[key]
	}
	return out, nil
}

func (m *mockStore) Del(_ context.Context, key string) error {
	delete(m.hashes, key)
	return nil
}

func (m *mockStore) Scan(_ context.Context, pattern string) ([]string, error) {
	if m.scanErr != nil {
		return nil, m.scanErr
	}
	prefix := strings.TrimSuffix(pattern, "*")
	var keys []string
	for key := range m.hashes {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func testItem(t *testing.T, id string) item.Item {
	t.Helper()
	it, err := item.New(
		id, "Sensor "+id, "thermal",
		[]string{"fire-prevention", "security"},
		[]string{"outdoor"},
		[]float32{0.25, -1.5, 3},
		item.Attributes{
			Features:         "long range heat mapping",
			IPRating:         "IP66",
			PowerConsumption: 2.4,
			OperatingTemp:    "-20~60",
			MeasureRange:     "0-300m",
			Precision:        "±0.5°C",
		},
	)
	if err != nil {
		t.Fatalf("item.New(%s): %v", id, err)
	}
	return it
}
