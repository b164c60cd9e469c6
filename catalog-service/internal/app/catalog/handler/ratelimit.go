package handler

import (
	"net/http"
	"time"

	"shopcatalog/catalog-service/internal/app/catalog/util"
	"shopcatalog/pkg/logger"
	"shopcatalog/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// RateLimiter ограничивает число запросов с одного IP в фиксированном окне
type RateLimiter struct {
	counter util.RateCounter
	limit   int64
	window  time.Duration
}

func NewRateLimiter(counter util.RateCounter, limit int64, window time.Duration) *RateLimiter {
	return &RateLimiter{
		counter: counter,
		limit:   limit,
		window:  window,
	}
}

// Middleware отклоняет запросы сверх лимита с 429.
// Если Redis недоступен, запрос пропускается.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "rate_limit:" + c.ClientIP()

		count, err := l.counter.IncrWindow(c.Request.Context(), key, l.window)
		if err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("Rate limiter unavailable, request allowed")
			c.Next()
			return
		}

		if count > l.limit {
			metrics.HttpRateLimited.WithLabelValues("catalog-service").Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}

		c.Next()
	}
}
