package constants

import "time"

const (
	ExternalAPITimeout = 10 * time.Second
	RequestTimeout     = 30 * time.Second
)

const (
	MaxUpstreamBodySize = 4 << 20
)

const (
	ShutdownTimeout   = 5 * time.Second
	ReadHeaderTimeout = 5 * time.Second
)

// Cache-Control values for the CDN in front of the chat endpoints.
const (
	CacheRankSummary     = "s-maxage=10, stale-while-revalidate=30"
	CacheOpponentSummary = "s-maxage=8, stale-while-revalidate=30"
	CacheMiss            = "s-maxage=5, stale-while-revalidate=10"
	CacheDebug           = "s-maxage=5, stale-while-revalidate=15"
)
