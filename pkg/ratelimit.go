package pkg

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// LoginLimiter throttles login attempts per username with a local token
// bucket, optionally backed by Redis for enforcement across replicas.
type LoginLimiter struct {
	mu          sync.Mutex
	buckets     map[string]*rate.Limiter
	perSec      rate.Limit
	burst       int
	redisClient *redis.Client // nil disables the global counter
	ttl         time.Duration
	logger      *zap.Logger
}

// NewLoginLimiter creates a limiter; if perSec=0, it's unlimited.
func NewLoginLimiter(redisClient *redis.Client, perSec, burst int, ttl time.Duration, logger *zap.Logger) *LoginLimiter {
	return &LoginLimiter{
		buckets:     make(map[string]*rate.Limiter),
		perSec:      rate.Limit(perSec),
		burst:       burst,
		redisClient: redisClient,
		ttl:         ttl,
		logger:      logger,
	}
}

// Allow checks if a login attempt for the username may proceed.
func (l *LoginLimiter) Allow(ctx context.Context, username string) bool {
	if l.perSec == 0 {
		return true // Unlimited
	}

	// Local check first (fast path)
	if !l.bucket(username).Allow() {
		return false
	}
	if l.redisClient == nil {
		return true
	}

	// Distributed check via Redis atomic increment
	key := "login_attempts:" + username
	pipe := l.redisClient.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, l.ttl)
	_, err := pipe.Exec(ctx)
	if err != nil {
		l.logger.Error("Redis rate limit error; falling back to local", zap.Error(err))
		return true
	}

	count := incr.Val()
	if count > int64(l.burst) {
		l.logger.Warn("Global login rate limit exceeded", zap.String("username", username), zap.Int64("count", count))
		return false
	}
	return true
}

func (l *LoginLimiter) bucket(username string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.buckets[username]
	if !ok {
		b = rate.NewLimiter(l.perSec, l.burst)
		l.buckets[username] = b
	}
	return b
}
