package search

import (
	"sync"
	"time"
)

// MatchCache memoiza, por termo normalizado, os ids das categorias folha
// cujo nome (ou de um ancestral) contém o termo
type MatchCache struct {
	data    map[string]*cachedMatch
	mu      sync.RWMutex
	ttl     time.Duration
	maxSize int
	now     func() time.Time
}

type cachedMatch struct {
	leafIDs   []int64
	timestamp time.Time
}

// NewMatchCache cria um novo cache de correspondências
func NewMatchCache(ttl time.Duration, maxSize int) *MatchCache {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	if maxSize <= 0 {
		maxSize = 500
	}
	return &MatchCache{
		data:    make(map[string]*cachedMatch),
		ttl:     ttl,
		maxSize: maxSize,
		now:     time.Now,
	}
}

// Get busca os ids memoizados para o termo
func (c *MatchCache) Get(term string) ([]int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if cached, ok := c.data[term]; ok {
		if c.now().Sub(cached.timestamp) < c.ttl {
			return cached.leafIDs, true
		}
	}
	return nil, false
}

// Set armazena os ids para o termo
func (c *MatchCache) Set(term string, leafIDs []int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.data[term]; !exists && len(c.data) >= c.maxSize {
		c.cleanup()
	}

	c.data[term] = &cachedMatch{
		leafIDs:   leafIDs,
		timestamp: c.now(),
	}
}

// cleanup remove entradas expiradas e, se ainda cheio, a mais antiga
func (c *MatchCache) cleanup() {
	now := c.now()
	for key, cached := range c.data {
		if now.Sub(cached.timestamp) >= c.ttl {
			delete(c.data, key)
		}
	}

	if len(c.data) >= c.maxSize {
		oldestKey := ""
		var oldest time.Time
		for key, cached := range c.data {
			if oldestKey == "" || cached.timestamp.Before(oldest) {
				oldest = cached.timestamp
				oldestKey = key
			}
		}
		delete(c.data, oldestKey)
	}
}

// Clear limpa todo o cache
func (c *MatchCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]*cachedMatch)
}

// Len retorna a quantidade de termos memoizados, incluindo expirados
func (c *MatchCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
