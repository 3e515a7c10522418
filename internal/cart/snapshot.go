package cart

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
)

// StorageKey is the local-store slot holding the serialized cart.
const StorageKey = "levelup:cart"

// SlotStore is the durable local key/value store the snapshot is written
// through to. Satisfied by *localstore.Store.
type SlotStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

// SnapshotStore persists the cart line list in a single slot. It acts as the
// durable backup of the in-memory cart in both ownership modes.
type SnapshotStore struct {
	slots SlotStore
	log   *zap.Logger
}

func NewSnapshotStore(slots SlotStore, log *zap.Logger) *SnapshotStore {
	return &SnapshotStore{slots: slots, log: log}
}

// Load reads the persisted snapshot. A missing, unreadable or corrupted slot
// yields an empty cart rather than an error.
func (s *SnapshotStore) Load(ctx context.Context) []Item {
	raw, ok, err := s.slots.Get(ctx, StorageKey)
	if err != nil {
		s.log.Warn("cart snapshot unreadable, starting empty", zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		s.log.Warn("cart snapshot corrupted, starting empty", zap.Error(err))
		return nil
	}
	return items
}

// Save writes the snapshot through to the slot. An empty cart is persisted
// as an empty array, never null.
func (s *SnapshotStore) Save(ctx context.Context, items []Item) error {
	if items == nil {
		items = []Item{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.slots.Put(ctx, StorageKey, raw)
}
