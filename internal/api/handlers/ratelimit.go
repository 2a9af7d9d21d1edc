package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/langchou/evhighway/internal/metrics"
)

// limiterIdleTTL 超过该时间未访问的限流器会被清理
const limiterIdleTTL = time.Hour

// RateLimiter 按客户端 IP 限流
type RateLimiter struct {
	mu          sync.Mutex
	limiters    map[string]*rateLimiterEntry
	rate        rate.Limit
	burst       int
	lastCleanup time.Time
}

// rateLimiterEntry 限流器及最后访问时间
type rateLimiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// NewRateLimiter 每个窗口允许 reqsPerWindow 次请求
func NewRateLimiter(reqsPerWindow int, window time.Duration) *RateLimiter {
	if reqsPerWindow < 1 {
		reqsPerWindow = 1
	}
	return &RateLimiter{
		limiters:    make(map[string]*rateLimiterEntry),
		rate:        rate.Every(window / time.Duration(reqsPerWindow)),
		burst:       reqsPerWindow,
		lastCleanup: time.Now(),
	}
}

// Allow 检查该 IP 是否允许请求
func (rl *RateLimiter) Allow(ip string) bool {
	now := time.Now()

	rl.mu.Lock()
	if now.Sub(rl.lastCleanup) > limiterIdleTTL {
		rl.cleanup(now)
	}
	entry, ok := rl.limiters[ip]
	if !ok {
		entry = &rateLimiterEntry{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[ip] = entry
	}
	entry.lastAccess = now
	limiter := entry.limiter
	rl.mu.Unlock()

	return limiter.Allow()
}

// cleanup 删除长时间未访问的限流器，调用方持有锁
func (rl *RateLimiter) cleanup(now time.Time) {
	for ip, entry := range rl.limiters {
		if now.Sub(entry.lastAccess) > limiterIdleTTL {
			delete(rl.limiters, ip)
		}
	}
	rl.lastCleanup = now
}

// Middleware gin 限流中间件
func (rl *RateLimiter) Middleware(endpoint string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			metrics.APIRateLimitHits.WithLabelValues(endpoint).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many refresh requests"})
			return
		}
		c.Next()
	}
}
