package cache

import (
	"time"

	"github.com/viccon/sturdyc"

	"github.com/Skotchmaster/products_api/internal/models"
)

// ProductsKey is the single key under which the full product list is kept.
const ProductsKey = "productsCacheKey"

const (
	DefaultTTL = 5 * time.Minute

	capacity           = 16
	numShards          = 1
	evictionPercentage = 10
)

// Recorder receives one call per lookup; hit reports whether a snapshot was
// served from memory.
type Recorder interface {
	CacheLookup(hit bool)
}

// ProductsCache is a process-local holder for the product list snapshot.
// Entries expire a fixed TTL after Set; reads never extend them.
type ProductsCache struct {
	client   *sturdyc.Client[[]models.Product]
	recorder Recorder
}

func NewProductsCache(ttl time.Duration, rec Recorder) *ProductsCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ProductsCache{
		client:   sturdyc.New[[]models.Product](capacity, numShards, ttl, evictionPercentage),
		recorder: rec,
	}
}

func (c *ProductsCache) Get() ([]models.Product, bool) {
	items, ok := c.client.Get(ProductsKey)
	if c.recorder != nil {
		c.recorder.CacheLookup(ok)
	}
	if !ok {
		return nil, false
	}
	return clone(items), true
}

func (c *ProductsCache) Set(items []models.Product) {
	c.client.Set(ProductsKey, clone(items))
}

func (c *ProductsCache) Invalidate() {
	c.client.Delete(ProductsKey)
}

func clone(items []models.Product) []models.Product {
	out := make([]models.Product, len(items))
	copy(out, items)
	return out
}
