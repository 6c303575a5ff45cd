// Package limiter provides token bucket rate limiting for HTTP routes.
// Package limiter 提供基于令牌桶的接口限流
package limiter

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/juju/ratelimit"
)

// Face is the limiter abstraction used by the rate limiting middleware.
type Face interface {
	// Key extracts the bucket key for a request
	// Key 提取请求对应的令牌桶键名
	Key(c *gin.Context) string
	GetBucket(key string) (*ratelimit.Bucket, bool)
	AddBuckets(rules ...BucketRule) Face
}

// Limiter holds the configured token buckets keyed by route.
type Limiter struct {
	limiterBuckets map[string]*ratelimit.Bucket
}

// BucketRule describes one token bucket: the route key, how often tokens
// are refilled, the bucket capacity and how many tokens each refill adds.
// BucketRule 描述一个令牌桶规则
type BucketRule struct {
	Key          string
	FillInterval time.Duration
	Capacity     int64
	Quantum      int64
}
