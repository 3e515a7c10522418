package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Gateway is the remote cart service, keyed by user id. Every call returns
// the server's full item list, already normalized to the canonical shape.
type Gateway interface {
	Fetch(ctx context.Context, userID string) ([]Item, error)
	Add(ctx context.Context, userID string, it Item) ([]Item, error)
	UpdateQuantity(ctx context.Context, userID string, cartItemID ID, qty int) ([]Item, error)
	Remove(ctx context.Context, userID string, cartItemID ID) ([]Item, error)
	Clear(ctx context.Context, userID string) ([]Item, error)
}

// Snapshots is the write-through persistence for the in-memory cart.
type Snapshots interface {
	Load(ctx context.Context) []Item
	Save(ctx context.Context, items []Item) error
}

// IdentityFunc reports the current user id, if any. It is consulted fresh on
// every operation; the ownership mode is never cached.
type IdentityFunc func() (userID string, ok bool)

// Snapshot is the consumer-facing view of the cart at a point in time.
type Snapshot struct {
	Items     []Item
	ItemCount int
	LineCount int
	Subtotal  decimal.Decimal
}

// Manager is the single source of truth for the cart. It decides per
// operation whether to mutate local state or call the remote gateway, adopts
// server responses wholesale, enforces stock ceilings and writes every
// successful mutation through to the snapshot store.
//
// Mutations are serialized: the lock is held across the remote call, so two
// concurrent operations can never interleave their read-check-write cycles.
type Manager struct {
	identity  IdentityFunc
	gateway   Gateway
	snapshots Snapshots
	log       *zap.Logger

	mu    sync.Mutex
	items []Item
	subs  []func(Snapshot)
}

// NewManager hydrates the cart from the snapshot store and returns a ready
// manager. A corrupted or missing snapshot yields an empty cart.
func NewManager(identity IdentityFunc, gateway Gateway, snapshots Snapshots, log *zap.Logger) *Manager {
	m := &Manager{
		identity:  identity,
		gateway:   gateway,
		snapshots: snapshots,
		log:       log,
	}
	m.items = snapshots.Load(context.Background())
	return m
}

// Subscribe registers fn to be called with a fresh snapshot after every
// successful mutation. Callbacks run synchronously and must not invoke
// Manager operations.
func (m *Manager) Subscribe(fn func(Snapshot)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

// AddItem merges requestedQty units of p into the cart, clamped to the known
// stock ceiling. A product without a usable identifier is logged and
// ignored. Advisory errors (ErrOutOfStock, ErrStockExhausted) leave the cart
// untouched, as do remote failures.
func (m *Manager) AddItem(ctx context.Context, p Product, requestedQty int) error {
	if requestedQty <= 0 {
		requestedQty = 1
	}
	if p.ID == "" {
		m.log.Warn("ignoring add: product has no usable identifier", zap.String("name", p.Name))
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	currentQty := 0
	ceiling := p.Stock
	if i := findLine(m.items, p.ID); i >= 0 {
		currentQty = m.items[i].Quantity
		if ceiling == nil {
			// A repeat add may omit the stock field; the ceiling stored on
			// the line still binds.
			ceiling = m.items[i].Stock
		}
	}

	if ceiling != nil && *ceiling <= 0 {
		return ErrOutOfStock
	}

	toAdd := requestedQty
	if ceiling != nil {
		remaining := *ceiling - currentQty
		if remaining <= 0 {
			return ErrStockExhausted
		}
		if toAdd > remaining {
			toAdd = remaining
		}
	}

	userID, authenticated := m.identity()
	if !authenticated {
		if i := findLine(m.items, p.ID); i >= 0 {
			m.items[i].Quantity += toAdd
			if p.Stock != nil {
				m.items[i].Stock = p.Stock
			}
		} else {
			m.items = append(m.items, itemFromProduct(p, toAdd))
		}
		m.commit(ctx)
		return nil
	}

	items, err := m.gateway.Add(ctx, userID, itemFromProduct(p, toAdd))
	if err != nil {
		m.log.Error("remote add failed", zap.String("productId", string(p.ID)), zap.Error(err))
		return fmt.Errorf("add item: %w", err)
	}
	m.adopt(items)
	// The add-time product reference is the freshest ceiling we have.
	if ceiling != nil {
		if i := findLine(m.items, p.ID); i >= 0 {
			m.items[i].Stock = ceiling
		}
	}
	m.commit(ctx)
	return nil
}

// SetQuantity replaces the quantity of the line for productID. A quantity of
// zero or less removes the line. Exceeding a known ceiling is rejected with
// ErrCeilingReached. An unknown product is a no-op.
func (m *Manager) SetQuantity(ctx context.Context, productID ID, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := findLine(m.items, productID)
	if i < 0 {
		return nil
	}
	return m.setQuantityLocked(ctx, i, qty)
}

// Increment raises the line quantity by one, short-circuiting with
// ErrCeilingReached when the line is already at its ceiling.
func (m *Manager) Increment(ctx context.Context, productID ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := findLine(m.items, productID)
	if i < 0 {
		return nil
	}
	it := m.items[i]
	if it.Stock != nil && it.Quantity >= *it.Stock {
		return ErrCeilingReached
	}
	return m.setQuantityLocked(ctx, i, it.Quantity+1)
}

// Decrement lowers the line quantity by one, removing the line at zero.
func (m *Manager) Decrement(ctx context.Context, productID ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := findLine(m.items, productID)
	if i < 0 {
		return nil
	}
	return m.setQuantityLocked(ctx, i, m.items[i].Quantity-1)
}

// RemoveItem drops the line for productID. An unknown product is a no-op.
func (m *Manager) RemoveItem(ctx context.Context, productID ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := findLine(m.items, productID)
	if i < 0 {
		return nil
	}
	return m.removeLocked(ctx, i)
}

// Clear empties the cart. In authenticated mode the remote cart is deleted
// and its (expectedly empty) response adopted.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	userID, authenticated := m.identity()
	if !authenticated {
		m.items = nil
		m.commit(ctx)
		return nil
	}

	items, err := m.gateway.Clear(ctx, userID)
	if err != nil {
		m.log.Error("remote clear failed", zap.Error(err))
		return fmt.Errorf("clear cart: %w", err)
	}
	m.adopt(items)
	m.commit(ctx)
	return nil
}

// Refresh replaces the in-memory cart with the remote cart service's view.
// Called after the identity transitions from anonymous to authenticated; the
// prior local cart is discarded, not merged. A no-op while anonymous.
func (m *Manager) Refresh(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	userID, authenticated := m.identity()
	if !authenticated {
		return nil
	}

	items, err := m.gateway.Fetch(ctx, userID)
	if err != nil {
		m.log.Error("remote fetch failed", zap.Error(err))
		return fmt.Errorf("refresh cart: %w", err)
	}
	m.adopt(items)
	m.commit(ctx)
	return nil
}

// Items returns a copy of the current line list.
func (m *Manager) Items() []Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyItems(m.items)
}

// ItemCount is the sum of quantities over all lines.
func (m *Manager) ItemCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return ItemCount(m.items)
}

// LineCount is the number of distinct lines.
func (m *Manager) LineCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Subtotal is the sum of unit price times quantity over all lines.
func (m *Manager) Subtotal() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Subtotal(m.items)
}

// View returns the full consumer snapshot in one read.
func (m *Manager) View() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) setQuantityLocked(ctx context.Context, i, qty int) error {
	if qty <= 0 {
		return m.removeLocked(ctx, i)
	}

	it := m.items[i]
	if it.Stock != nil && qty > *it.Stock {
		return ErrCeilingReached
	}

	userID, authenticated := m.identity()
	if !authenticated {
		m.items[i].Quantity = qty
		m.commit(ctx)
		return nil
	}

	items, err := m.gateway.UpdateQuantity(ctx, userID, it.CartItemID, qty)
	if err != nil {
		m.log.Error("remote quantity update failed",
			zap.String("productId", string(it.ProductID)), zap.Error(err))
		return fmt.Errorf("set quantity: %w", err)
	}
	m.adopt(items)
	m.commit(ctx)
	return nil
}

func (m *Manager) removeLocked(ctx context.Context, i int) error {
	it := m.items[i]

	userID, authenticated := m.identity()
	if !authenticated {
		m.items = append(m.items[:i], m.items[i+1:]...)
		m.commit(ctx)
		return nil
	}

	items, err := m.gateway.Remove(ctx, userID, it.CartItemID)
	if err != nil {
		m.log.Error("remote remove failed",
			zap.String("productId", string(it.ProductID)), zap.Error(err))
		return fmt.Errorf("remove item: %w", err)
	}
	m.adopt(items)
	m.commit(ctx)
	return nil
}

// adopt replaces the line list with the server's view. Ceilings are not part
// of the cart service's wire format, so known ceilings are carried over from
// the previous lines by product id to keep enforcement alive after adoption.
func (m *Manager) adopt(items []Item) {
	for i := range items {
		if items[i].Stock != nil {
			continue
		}
		if j := findLine(m.items, items[i].ProductID); j >= 0 {
			items[i].Stock = m.items[j].Stock
		}
	}
	m.items = items
}

// commit persists the cart and notifies subscribers. Persistence failures
// are logged and swallowed; the in-memory cart remains authoritative.
func (m *Manager) commit(ctx context.Context) {
	if err := m.snapshots.Save(ctx, m.items); err != nil {
		m.log.Warn("cart snapshot write failed", zap.Error(err))
	}
	if len(m.subs) == 0 {
		return
	}
	snap := m.snapshotLocked()
	for _, fn := range m.subs {
		fn(snap)
	}
}

func (m *Manager) snapshotLocked() Snapshot {
	return Snapshot{
		Items:     copyItems(m.items),
		ItemCount: ItemCount(m.items),
		LineCount: len(m.items),
		Subtotal:  Subtotal(m.items),
	}
}

func copyItems(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
