package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "fleetalloc"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultRedisAddr = "localhost:6379"
	DefaultRedisDB   = 0

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 100
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultIdempotencyTTL = 24 * time.Hour

	// Listing pages are invalidated on every write, so they can stay short.
	// History and entity listings change rarely and tolerate a longer TTL.
	DefaultListCacheTTL    = 60 * time.Second
	DefaultHistoryCacheTTL = 1 * time.Hour
	DefaultEntityCacheTTL  = 1 * time.Hour

	DefaultPaginationLimit = 100
)
