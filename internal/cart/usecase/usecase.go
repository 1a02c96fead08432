package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/cart"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/platform/logger"
	"go.uber.org/zap"
)

type cartUseCase struct {
	storage cart.Storage
	logger  logger.ZapLogger
	now     func() time.Time

	mu     sync.Mutex
	stores map[string]*sessionStore
}

type sessionStore struct {
	store    *Store
	lastUsed time.Time
}

// CartUseCase is the concrete session-aware cart service.
type CartUseCase interface {
	cart.UseCase
	// Evict drops stores idle for longer than maxIdle; their carts stay persisted.
	Evict(maxIdle time.Duration) int
}

func NewCartUseCase(storage cart.Storage, log logger.ZapLogger) CartUseCase {
	return &cartUseCase{
		storage: storage,
		logger:  log,
		now:     time.Now,
		stores:  make(map[string]*sessionStore),
	}
}

func (uc *cartUseCase) GetCart(ctx context.Context, sessionID string) model.CartState {
	return uc.store(ctx, sessionID).State()
}

func (uc *cartUseCase) AddItem(ctx context.Context, sessionID string, item model.CartItem) model.CartState {
	return uc.store(ctx, sessionID).AddItem(ctx, item)
}

func (uc *cartUseCase) RemoveItem(ctx context.Context, sessionID, variantID string) model.CartState {
	return uc.store(ctx, sessionID).RemoveItem(ctx, variantID)
}

func (uc *cartUseCase) UpdateQuantity(ctx context.Context, sessionID, variantID string, quantity int) model.CartState {
	return uc.store(ctx, sessionID).UpdateQuantity(ctx, variantID, quantity)
}

func (uc *cartUseCase) ClearCart(ctx context.Context, sessionID string) model.CartState {
	return uc.store(ctx, sessionID).ClearCart(ctx)
}

func (uc *cartUseCase) ToggleCart(ctx context.Context, sessionID string) model.CartState {
	return uc.store(ctx, sessionID).ToggleCart(ctx)
}

// Evict flushes and drops idle stores. Flushing happens outside the session lock; a
// store used again meanwhile is kept.
func (uc *cartUseCase) Evict(maxIdle time.Duration) int {
	uc.mu.Lock()
	cutoff := uc.now().Add(-maxIdle)
	idle := make(map[string]*sessionStore)
	for id, s := range uc.stores {
		if s.lastUsed.Before(cutoff) {
			idle[id] = s
		}
	}
	uc.mu.Unlock()

	for _, s := range idle {
		s.store.Flush()
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	evicted := 0
	for id, s := range idle {
		if cur, ok := uc.stores[id]; ok && cur == s && s.lastUsed.Before(cutoff) {
			delete(uc.stores, id)
			evicted++
		}
	}
	return evicted
}

// store returns the session's cart, hydrating it from storage on first use. Hydration
// runs outside the session lock. A store whose read failed and that was never changed
// is hydrated again on the next call.
func (uc *cartUseCase) store(ctx context.Context, sessionID string) *Store {
	if st := uc.cached(sessionID); st != nil {
		return st
	}

	log := uc.logger.With(zap.String("session_id", sessionID))
	fresh := NewStore(ctx, scoped(uc.storage, sessionID), log)

	uc.mu.Lock()
	defer uc.mu.Unlock()
	if s, ok := uc.stores[sessionID]; ok && !s.store.retryable() {
		s.lastUsed = uc.now()
		return s.store
	}
	uc.stores[sessionID] = &sessionStore{store: fresh, lastUsed: uc.now()}
	log.Debug("cart session opened",
		zap.Int("items", len(fresh.State().Items)),
		zap.Bool("in_memory_only", fresh.InMemoryOnly()),
	)
	return fresh
}

func (uc *cartUseCase) cached(sessionID string) *Store {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	s, ok := uc.stores[sessionID]
	if !ok || s.store.retryable() {
		return nil
	}
	s.lastUsed = uc.now()
	return s.store
}

type scopedStorage struct {
	inner  cart.Storage
	prefix string
}

func scoped(inner cart.Storage, sessionID string) cart.Storage {
	return &scopedStorage{inner: inner, prefix: "session:" + sessionID + ":"}
}

func (s *scopedStorage) Get(ctx context.Context, key string) (string, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *scopedStorage) Set(ctx context.Context, key, value string) error {
	return s.inner.Set(ctx, s.prefix+key, value)
}

// RunEvictor evicts idle sessions every interval until ctx is done.
func RunEvictor(ctx context.Context, uc CartUseCase, interval, maxIdle time.Duration, log logger.ZapLogger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := uc.Evict(maxIdle); n > 0 {
				log.Debug("evicted idle cart sessions", zap.Int("count", n))
			}
		}
	}
}
