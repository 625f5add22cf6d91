package config

import "time"

// RateLimitConfig drives the Redis token bucket in front of /v1.  A client
// may burst Capacity requests and regains RefillTokens every
// RefillInterval.  KeyStrategy picks the bucket key: ip, user, route,
// ip_route or ip_user_route.
type RateLimitConfig struct {
    Enabled        bool
    Capacity       int
    RefillTokens   int
    RefillInterval time.Duration
    TTL            time.Duration
    KeyStrategy    string
    Prefix         string
}

// LoadRateLimitConfig reads RATE_LIMIT_*.  Counts are at least one and an
// idle bucket lives for at least five refill intervals.
func LoadRateLimitConfig() RateLimitConfig {
    interval := envDur("RATE_LIMIT_REFILL_INTERVAL", time.Second)
    if interval <= 0 {
        interval = time.Second
    }
    return RateLimitConfig{
        Enabled:        envBool("RATE_LIMIT_ENABLED", true),
        Capacity:       atLeast(envInt("RATE_LIMIT_CAPACITY", 60), 1),
        RefillTokens:   atLeast(envInt("RATE_LIMIT_REFILL_TOKENS", 1), 1),
        RefillInterval: interval,
        TTL:            max(envDur("RATE_LIMIT_TTL", 10*time.Minute), 5*interval),
        KeyStrategy:    envStr("RATE_LIMIT_KEY_STRATEGY", "ip_user_route"),
        Prefix:         envStr("RATE_LIMIT_PREFIX", "sakila:rl"),
    }
}
