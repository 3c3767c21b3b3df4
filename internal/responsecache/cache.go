/*
Package responsecache memoizes generative model responses for a fixed TTL.

Expiry is checked lazily on lookup: a stale entry stays in its backing store
and is simply reported as absent. The store decides how much memory is held.
*/
package responsecache

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultTTL is how long a cached response is served before it is masked.
const DefaultTTL = 5 * time.Minute

// Entry is one cached response and the moment it was stored.
type Entry struct {
	Value    string    `json:"value"`
	StoredAt time.Time `json:"stored_at"`
}

// Store is the backing storage for a Cache.
type Store interface {
	Load(ctx context.Context, key string) (Entry, bool, error)
	Save(ctx context.Context, key string, entry Entry) error
}

// Cache is a TTL cache over a Store. It never returns errors to its caller;
// backend failures are logged and treated as misses.
type Cache struct {
	store  Store
	ttl    time.Duration
	now    func() time.Time
	logger zerolog.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL overrides DefaultTTL. Non-positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets the logger used to report store failures.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// New creates a Cache backed by store.
func New(store Store, opts ...Option) *Cache {
	c := &Cache{
		store:  store,
		ttl:    DefaultTTL,
		now:    time.Now,
		logger: log.Logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL reports the configured expiry window.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Get returns the value stored under key if it is no older than the TTL.
func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	entry, ok, err := c.store.Load(ctx, key)
	if err != nil {
		c.logger.Warn().Err(err).Str("cache_key", truncate(key)).Msg("response cache load failed")
		return "", false
	}
	if !ok {
		return "", false
	}
	if c.now().Sub(entry.StoredAt) > c.ttl {
		return "", false
	}
	return entry.Value, true
}

// Put stores value under key, replacing any previous entry.
func (c *Cache) Put(ctx context.Context, key, value string) {
	entry := Entry{Value: value, StoredAt: c.now()}
	if err := c.store.Save(ctx, key, entry); err != nil {
		c.logger.Warn().Err(err).Str("cache_key", truncate(key)).Msg("response cache save failed")
	}
}

// truncate keeps log lines readable when keys carry base64 prefixes.
func truncate(key string) string {
	const maxLoggedKey = 48
	if len(key) <= maxLoggedKey {
		return key
	}
	return key[:maxLoggedKey] + "..."
}
