package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// GuestUserTTL expires throwaway guest accounts. Parties and
	// registered users are kept without a TTL.
	GuestUserTTL time.Duration

	// MaxTxRetries bounds how often an optimistic party update is
	// retried before giving up with model.ErrStoreContended.
	MaxTxRetries int
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		GuestUserTTL: 24 * time.Hour,
		MaxTxRetries: 16,
	}
}
