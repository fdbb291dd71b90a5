package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/kailas-cloud/sensorank/internal/db"
	"github.com/kailas-cloud/sensorank/internal/domain"
	"github.com/kailas-cloud/sensorank/internal/domain/item"
)

const itemKeyPrefix = "sensorank:item:"

// store is the consumer interface for the catalog (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo persists catalog items as Redis hashes, one hash per item, with the
// semantic vector stored as a little-endian float32 blob.
type Repo struct {
	store store
}

// New creates a catalog repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Put upserts items in a single pipelined round-trip.
func (r *Repo) Put(ctx context.Context, items []item.Item) error {
	hashItems := make([]db.HashSetItem, 0, len(items))
	for i := range items {
		fields, err := fieldsFromItem(&items[i])
		if err != nil {
			return fmt.Errorf("encode item %s: %w", items[i].ID(), err)
		}
		hashItems = append(hashItems, db.HashSetItem{
			Key:    itemKey(items[i].ID()),
			Fields: fields,
		})
	}

	if err := r.store.HSetMulti(ctx, hashItems); err != nil {
		return fmt.Errorf("put items: %w", err)
	}
	return nil
}

// Get returns one item by id.
func (r *Repo) Get(ctx context.Context, id string) (item.Item, error) {
	fields, err := r.store.HGetAll(ctx, itemKey(id))
	if err != nil {
		return item.Item{}, fmt.Errorf("get item %s: %w", id, err)
	}
	if len(fields) == 0 {
		return item.Item{}, domain.ErrItemNotFound
	}
	return itemFromFields(id, fields)
}

// List returns the full catalog ordered by item id, so repeated loads of an
// unchanged catalog produce an identical snapshot.
func (r *Repo) List(ctx context.Context) ([]item.Item, error) {
	keys, err := r.store.Scan(ctx, itemKeyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan items: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}
	sort.Strings(keys)

	fieldMaps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("fetch items: %w", err)
	}

	items := make([]item.Item, 0, len(keys))
	for i, fields := range fieldMaps {
		if len(fields) == 0 {
			// key deleted between SCAN and HGETALL
			continue
		}
		it, err := itemFromFields(idFromKey(keys[i]), fields)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

// Clear removes every stored item.
func (r *Repo) Clear(ctx context.Context) error {
	keys, err := r.store.Scan(ctx, itemKeyPrefix+"*")
	if err != nil {
		return fmt.Errorf("scan items: %w", err)
	}
	for _, key := range keys {
		if err := r.store.Del(ctx, key); err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
	}
	return nil
}

func itemKey(id string) string {
	return itemKeyPrefix + id
}

func idFromKey(key string) string {
	return strings.TrimPrefix(key, itemKeyPrefix)
}
