package cart

import "context"

// Storage is the durable key-value port the cart persists its item list to.
// Get reports found=false, err=nil for an absent key.
type Storage interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}
