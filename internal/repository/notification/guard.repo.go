package notification

import (
	"context"
	"readafrik-checkout/internal/pkg/apperr"
	"readafrik-checkout/internal/pkg/redis"
	"sync"
	"time"
)

const (
	KeyPrefix  = "payment:notified:"
	DefaultTTL = 7 * 24 * time.Hour
)

// IGuard hands out at most one notification claim per payment reference.
type IGuard interface {
	// Claim reports true for the first caller per reference within the TTL.
	Claim(ctx context.Context, reference string) (bool, error)
	// Release drops a claim so a later verification can notify again.
	Release(ctx context.Context, reference string) error
}

type RedisGuard struct {
	redis redis.IRedis
	ttl   time.Duration
}

func NewRedisGuard(rds redis.IRedis, ttl time.Duration) IGuard {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisGuard{redis: rds, ttl: ttl}
}

func (g *RedisGuard) Claim(ctx context.Context, reference string) (bool, error) {
	return g.redis.SetNX(ctx, KeyPrefix+reference, time.Now().UTC().Format(time.RFC3339), g.ttl)
}

func (g *RedisGuard) Release(ctx context.Context, reference string) error {
	return g.redis.Del(ctx, KeyPrefix+reference)
}

// MemoryGuard is the single-process fallback used when redis is not
// configured.
type MemoryGuard struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	claims map[string]time.Time
}

func NewMemoryGuard(ttl time.Duration) *MemoryGuard {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryGuard{ttl: ttl, now: time.Now, claims: make(map[string]time.Time)}
}

func (g *MemoryGuard) Claim(_ context.Context, reference string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if exp, ok := g.claims[reference]; ok && now.Before(exp) {
		return false, nil
	}
	g.claims[reference] = now.Add(g.ttl)

	if len(g.claims) > 10000 {
		for ref, exp := range g.claims {
			if !now.Before(exp) {
				delete(g.claims, ref)
			}
		}
	}
	return true, nil
}

func (g *MemoryGuard) Release(_ context.Context, reference string) error {
	g.mu.Lock()
	delete(g.claims, reference)
	g.mu.Unlock()
	return nil
}

// ILedger is the durable notified_at record kept on the order.
type ILedger interface {
	MarkNotified(ctx context.Context, reference string, at time.Time) (bool, error)
	ClearNotified(ctx context.Context, reference string) error
}

// LedgerGuard puts the order's notified_at stamp behind a fast guard. The
// fast guard absorbs concurrent retries; the stamp survives its expiry and
// process restarts.
type LedgerGuard struct {
	fast   IGuard
	ledger ILedger
	now    func() time.Time
}

func NewLedgerGuard(fast IGuard, ledger ILedger) *LedgerGuard {
	return &LedgerGuard{fast: fast, ledger: ledger, now: time.Now}
}

func (g *LedgerGuard) Claim(ctx context.Context, reference string) (bool, error) {
	claimed, err := g.fast.Claim(ctx, reference)
	if err != nil || !claimed {
		return claimed, err
	}

	stamped, err := g.ledger.MarkNotified(ctx, reference, g.now().UTC())
	switch {
	case apperr.Kind(err) == apperr.KindNotFound:
		// nothing persisted for this reference, the fast claim decides
		return true, nil
	case err != nil:
		return true, err
	}
	return stamped, nil
}

func (g *LedgerGuard) Release(ctx context.Context, reference string) error {
	if err := g.ledger.ClearNotified(ctx, reference); err != nil {
		return err
	}
	return g.fast.Release(ctx, reference)
}

// Unguarded lets every caller through. It backs NOTIFY_DEDUPE=false.
type Unguarded struct{}

func (Unguarded) Claim(context.Context, string) (bool, error) { return true, nil }

func (Unguarded) Release(context.Context, string) error { return nil }
