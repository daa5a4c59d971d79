package cache

import "time"

// CacheService is the process-local key/value cache shared by the link store
// and the enums endpoint. Implementations must be safe for concurrent use.
type CacheService interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{}, ttl time.Duration)
	Delete(key string)
}
