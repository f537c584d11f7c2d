package cache

import (
	"time"

	"github.com/dgraph-io/ristretto"

	"usage-report-server/internal/models"
)

const (
	_LimitsTTL = time.Minute

	limitsPrefix = "limits:"
)

type Cache struct {
	cache *ristretto.Cache
}

func NewCache() (*Cache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e5,     // number of keys to track frequency of (100K).
		MaxCost:     1 << 14, // maximum number of cached entries, each costs 1.
		BufferItems: 64,      // number of keys per Get buffer.
	})
	if err != nil {
		return nil, err
	}

	return &Cache{
		cache: cache,
	}, nil
}

func (c *Cache) Get(key interface{}) (interface{}, bool) {
	return c.cache.Get(key)
}

func (c *Cache) SetWithTTL(key interface{}, value interface{}, ttl time.Duration) {
	c.cache.SetWithTTL(key, value, 1, ttl)
}

// Limits returns a copy of the cached limits of projectID.
func (c *Cache) Limits(projectID string) (models.Limits, bool) {
	item, exist := c.cache.Get(limitsPrefix + projectID)
	if !exist {
		return nil, false
	}
	limits, ok := item.(models.Limits)
	if !ok {
		return nil, false
	}
	out := make(models.Limits, len(limits))
	for k, v := range limits {
		out[k] = v
	}
	return out, true
}

func (c *Cache) SetLimits(projectID string, limits models.Limits) {
	c.cache.SetWithTTL(limitsPrefix+projectID, limits, 1, _LimitsTTL)
}

func (c *Cache) Clear() {
	c.cache.Close()
}
