package cache

const (
	CacheVersion = "v1"
	// PhotoURLKeyPattern takes photo.Key.String().
	PhotoURLKeyPattern = CacheVersion + ":photo:%s"
	// PhotoResourceKeyPattern takes photo.Key.ResourcePrefix() or ScopePrefix() and matches every key under it.
	PhotoResourceKeyPattern = CacheVersion + ":photo:%s*"
	PhotoAllKeysPattern     = CacheVersion + ":photo:*"
	PhotoLockKeyPattern     = CacheVersion + ":lock:photo:%s"
)
