package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/mario-aq/quotelink/internal/config"
)

// RateLimit 限流中间件。配置了 per_client 且 Redis 可用时按客户端 IP 做
// 固定窗口计数, 否则退回进程内全局令牌桶
func RateLimit(redisClient *redis.Client, limitConfig *config.Limit) gin.HandlerFunc {
	if !limitConfig.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	if limitConfig.PerClient && redisClient != nil {
		return perClientRateLimit(redisClient, limitConfig)
	}

	// 基于内存的限流器, Requests 是每分钟配额
	limiter := rate.NewLimiter(rate.Limit(float64(limitConfig.Requests)/60), int(limitConfig.Burst))

	return func(c *gin.Context) {
		if skipPath(limitConfig.SkipPaths, c.Request.URL.Path) {
			c.Next()
			return
		}

		if !limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "RateLimited",
				"message": "请求过于频繁, 请稍后再试",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// perClientRateLimit 每个 IP 一个分钟窗口, INCR 计数到点自动过期
func perClientRateLimit(redisClient *redis.Client, limitConfig *config.Limit) gin.HandlerFunc {
	return func(c *gin.Context) {
		if skipPath(limitConfig.SkipPaths, c.Request.URL.Path) {
			c.Next()
			return
		}

		key := fmt.Sprintf("quotelink:ratelimit:%s:%d", c.ClientIP(), time.Now().Unix()/60)
		n, err := redisClient.Incr(c.Request.Context(), key).Result()
		if err != nil {
			// Redis 挂了不能把整条服务拖死, 放行并记一条
			zap.S().Warnf("限流计数失败, 本次放行: %v", err)
			c.Next()
			return
		}
		if n == 1 {
			redisClient.Expire(c.Request.Context(), key, 2*time.Minute)
		}

		if n > limitConfig.Requests {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "RateLimited",
				"message": "请求过于频繁, 请稍后再试",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// 跳过特定路径
func skipPath(skips []string, path string) bool {
	for _, p := range skips {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
