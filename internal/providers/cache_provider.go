package providers

import (
	"unsafe"
	"wolwake/internal/structures"

	"github.com/coocood/freecache"
)

// 512KB is the smallest segment layout freecache accepts.
const cacheSizeBytes = 512 * 1024

type CacheProviderInterface interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
}

type CacheProvider struct {
	cache *freecache.Cache
	ttl   int
}

// NewCacheProvider memoizes liveness probe results for monitoring.pc_check_cache_seconds.
// Only the long-running daemon benefits; a zero TTL disables it.
func NewCacheProvider(conf *structures.Config, logger Logger) CacheProviderInterface {
	if conf.Monitoring.PcCheckCacheSeconds <= 0 {
		logger.Debugf(TypeApp, "Liveness cache disabled")
		return &noopCache{}
	}

	logger.Debugf(TypeApp, "Liveness cache initialized: TTL=%ds", conf.Monitoring.PcCheckCacheSeconds)

	return &CacheProvider{
		cache: freecache.NewCache(cacheSizeBytes),
		ttl:   conf.Monitoring.PcCheckCacheSeconds,
	}
}

// unsafeStringToBytes converts string to []byte without allocation.
// Safe when the result is only read (not modified), which is the case
// for freecache, which copies keys internally.
func unsafeStringToBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

func (c *CacheProvider) Get(key string) ([]byte, bool) {
	val, err := c.cache.Get(unsafeStringToBytes(key))
	if err != nil {
		return nil, false
	}
	return val, true
}

func (c *CacheProvider) Set(key string, value []byte) {
	_ = c.cache.Set(unsafeStringToBytes(key), value, c.ttl)
}

type noopCache struct{}

func (n *noopCache) Get(_ string) ([]byte, bool) { return nil, false }
func (n *noopCache) Set(_ string, _ []byte)      {}
