package interfaces

import (
	"context"
	"time"
)

// IKeyLocker guards an idempotency key across replicas.
//
// TryLock never blocks waiting for another holder: acquired is false when the
// key is held elsewhere.
type IKeyLocker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (unlock func(context.Context) error, acquired bool, err error)
}
