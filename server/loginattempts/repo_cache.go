package loginattempts

import (
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

var _ Repo = (*CacheRepo)(nil)

// CacheRepo keeps counters in an expiring in-memory cache. The window starts
// at the first failure and is not extended by later ones.
type CacheRepo struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewCacheRepo(window time.Duration) *CacheRepo {
	return &CacheRepo{
		cache: cache.New(window, 2*window),
	}
}

func (r *CacheRepo) Fail(username string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.cache.Add(username, 1, cache.DefaultExpiration); err == nil {
		return 1, nil
	}
	n, err := r.cache.IncrementInt(username, 1)
	if err != nil {
		return 0, fmt.Errorf("counting failed login for %s: %w", username, err)
	}
	return n, nil
}

func (r *CacheRepo) Count(username string) int {
	v, ok := r.cache.Get(username)
	if !ok {
		return 0
	}
	n, _ := v.(int)
	return n
}

func (r *CacheRepo) Reset(username string) {
	r.cache.Delete(username)
}
