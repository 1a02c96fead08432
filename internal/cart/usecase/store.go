package usecase

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/cart"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/platform/logger"
	"github.com/fekuna/omnipos-storefront-service/internal/platform/money"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StorageKey is the one key a store reads and writes.
const StorageKey = "cart"

const storageTimeout = 3 * time.Second

// MaxLineQuantity caps a single cart line.
const MaxLineQuantity = 999

// Store owns one cart. Every mutation recomputes the totals and schedules a write of
// the item list in the background; the in-memory state stays authoritative when
// storage is slow or failing.
//
// A store whose initial read failed never writes: the persisted cart it could not
// see must not be overwritten.
type Store struct {
	mu       sync.Mutex
	storage  cart.Storage
	logger   logger.ZapLogger
	state    model.CartState
	version  uint64
	readFail bool
	mutated  bool

	writeMu sync.Mutex
	written uint64
	flushed *sync.Cond
}

// NewStore builds an empty cart and hydrates it once from storage.
func NewStore(ctx context.Context, storage cart.Storage, log logger.ZapLogger) *Store {
	s := &Store{
		storage: storage,
		logger:  log,
		state:   emptyState(),
	}
	s.flushed = sync.NewCond(&s.writeMu)
	s.readFail = !s.hydrate(context.WithoutCancel(ctx))
	return s
}

// InMemoryOnly reports whether the store runs without persistence because its
// initial read failed.
func (s *Store) InMemoryOnly() bool {
	return s.readFail
}

// retryable reports whether the store can be thrown away and hydrated again:
// its read failed and it holds nothing the caller changed.
func (s *Store) retryable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readFail && !s.mutated
}

func emptyState() model.CartState {
	return model.CartState{
		Items:      []model.CartItem{},
		TotalPrice: decimal.Zero,
	}
}

func (s *Store) State() model.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// AddItem merges into the line with the same variant or appends a new one. Lines are
// capped at MaxLineQuantity; a non-positive quantity changes nothing.
func (s *Store) AddItem(ctx context.Context, item model.CartItem) model.CartState {
	if item.Quantity < 1 {
		return s.State()
	}
	return s.mutate(ctx, func(st *model.CartState) {
		for i := range st.Items {
			if st.Items[i].VariantID == item.VariantID {
				st.Items[i].Quantity = addQuantity(st.Items[i].Quantity, item.Quantity)
				return
			}
		}
		item.Quantity = addQuantity(0, item.Quantity)
		st.Items = append(st.Items, item)
	})
}

func (s *Store) RemoveItem(ctx context.Context, variantID string) model.CartState {
	return s.mutate(ctx, func(st *model.CartState) {
		st.Items = removeVariant(st.Items, variantID)
	})
}

// UpdateQuantity clamps to [0, MaxLineQuantity]; a zero quantity removes the line.
func (s *Store) UpdateQuantity(ctx context.Context, variantID string, quantity int) model.CartState {
	quantity = min(max(quantity, 0), MaxLineQuantity)
	return s.mutate(ctx, func(st *model.CartState) {
		for i := range st.Items {
			if st.Items[i].VariantID != variantID {
				continue
			}
			if quantity == 0 {
				st.Items = removeVariant(st.Items, variantID)
				return
			}
			st.Items[i].Quantity = quantity
			return
		}
	})
}

// ClearCart empties the cart but keeps the drawer open/closed as it was.
func (s *Store) ClearCart(ctx context.Context) model.CartState {
	return s.mutate(ctx, func(st *model.CartState) {
		st.Items = []model.CartItem{}
	})
}

func (s *Store) ToggleCart(ctx context.Context) model.CartState {
	return s.mutate(ctx, func(st *model.CartState) {
		st.IsOpen = !st.IsOpen
	})
}

func (s *Store) mutate(ctx context.Context, fn func(st *model.CartState)) model.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	fn(&next)
	recompute(&next)
	s.state = next
	s.mutated = true

	if !s.readFail {
		s.persist(ctx, next.Items)
	}
	return next.Clone()
}

// persist must be called with s.mu held.
func (s *Store) persist(ctx context.Context, items []model.CartItem) {
	data, err := json.Marshal(items)
	if err != nil {
		s.logger.Error("failed to encode cart", zap.Error(err))
		return
	}

	s.version++
	go s.write(context.WithoutCancel(ctx), s.version, string(data))
}

// write stores one snapshot unless a newer one already reached storage.
func (s *Store) write(ctx context.Context, version uint64, data string) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if version < s.written {
		return
	}

	wctx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()

	if err := s.storage.Set(wctx, StorageKey, data); err != nil {
		s.logger.Warn("failed to persist cart, continuing in memory", zap.Error(err))
	}
	s.written = version
	s.flushed.Broadcast()
}

// Flush blocks until every write scheduled so far has finished.
func (s *Store) Flush() {
	s.mu.Lock()
	target := s.version
	s.mu.Unlock()

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	for s.written < target {
		s.flushed.Wait()
	}
}

// hydrate reports false only when storage could not be read.
func (s *Store) hydrate(ctx context.Context) bool {
	rctx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()

	raw, found, err := s.storage.Get(rctx, StorageKey)
	if err != nil {
		s.logger.Warn("failed to read persisted cart, continuing in memory only", zap.Error(err))
		return false
	}
	if !found {
		return true
	}

	var items []model.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.Warn("discarding malformed persisted cart", zap.Error(err))
		return true
	}

	s.state.Items = sanitize(items)
	recompute(&s.state)
	return true
}

// sanitize restores the invariants on a loaded item list: positive quantities,
// non-negative prices and one line per variant, first occurrence wins the position.
func sanitize(items []model.CartItem) []model.CartItem {
	out := make([]model.CartItem, 0, len(items))
	index := make(map[string]int, len(items))
	for _, it := range items {
		if it.Quantity < 1 || it.VariantID == "" || it.UnitPrice.IsNegative() {
			continue
		}
		if i, ok := index[it.VariantID]; ok {
			out[i].Quantity = addQuantity(out[i].Quantity, it.Quantity)
			continue
		}
		index[it.VariantID] = len(out)
		it.Quantity = addQuantity(0, it.Quantity)
		out = append(out, it)
	}
	return out
}

// addQuantity adds two non-negative quantities, saturating at MaxLineQuantity.
func addQuantity(a, b int) int {
	if b >= MaxLineQuantity-a {
		return MaxLineQuantity
	}
	return a + b
}

func recompute(st *model.CartState) {
	totalItems := 0
	totalPrice := decimal.Zero
	for _, it := range st.Items {
		totalItems += it.Quantity
		totalPrice = totalPrice.Add(money.Line(it.UnitPrice, it.Quantity))
	}
	st.TotalItems = totalItems
	st.TotalPrice = totalPrice
}

func removeVariant(items []model.CartItem, variantID string) []model.CartItem {
	out := items[:0]
	for _, it := range items {
		if it.VariantID != variantID {
			out = append(out, it)
		}
	}
	return out
}
