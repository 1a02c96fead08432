package checkout

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
)

type Repository interface {
	Save(ctx context.Context, s *model.CheckoutSession) error
}

// Publisher announces completed orders.
type Publisher interface {
	PublishOrderCompleted(ctx context.Context, event model.OrderCompletedEvent) error
}

// Locker is satisfied by cache.RedisClient.
type Locker interface {
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) error
}
