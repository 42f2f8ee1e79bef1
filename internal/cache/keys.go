package cache

// Catalog cache-key convention. Callers must build keys through these
// helpers for invalidation to work.
const (
	KeyAllProducts      = "products:all"
	KeyFeaturedProducts = "products:featured"
)

// ProductKey returns the cache key for a single product.
func ProductKey(id string) string {
	return "product:" + id
}

// CategoryKey returns the cache key for a category listing.
func CategoryKey(name string) string {
	return "products:category:" + name
}

// SearchKey returns the cache key for a search result listing.
func SearchKey(term string) string {
	return "products:search:" + term
}

// InvalidateProductCaches drops the list-level entries and, when the
// affected product's identity is known, its individual entry. Category and
// search scoped entries are not selectively invalidated; they age out via
// their TTL.
func InvalidateProductCaches[V any](c Cache[string, V], productID string) {
	c.Delete(KeyAllProducts)
	c.Delete(KeyFeaturedProducts)
	if productID != "" {
		c.Delete(ProductKey(productID))
	}
}
