package util

import (
	"context"
	"fmt"
	"time"

	"shopcatalog/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

// RedisClient хранит счетчики rate limiter'а
type RedisClient struct {
	client *redis.Client
}

// NewRedisClient подключается к Redis и проверяет соединение
func NewRedisClient(addr, password string, db int) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	timer := metrics.NewRedisTimer(metricsService, metrics.RedisOpPing)
	err := client.Ping(ctx).Err()
	timer.ObserveDuration()
	if err != nil {
		metrics.RecordRedisError(metricsService, metrics.RedisOpPing)
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisClient{client: client}, nil
}

// IncrWindow - INCR и TTL одной транзакцией. EXPIRE ставится, если у ключа нет срока жизни:
// на первом запросе окна и после неудачного EXPIRE в прошлый раз.
func (r *RedisClient) IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error) {
	timer := metrics.NewRedisTimer(metricsService, metrics.RedisOpIncr)
	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	ttl := pipe.TTL(ctx, key)
	_, err := pipe.Exec(ctx)
	timer.ObserveDuration()
	if err != nil {
		metrics.RecordRedisError(metricsService, metrics.RedisOpIncr)
		return 0, fmt.Errorf("failed to increment %s: %w", key, err)
	}

	count := incr.Val()
	// -1: ключ без TTL
	if ttl.Val() < 0 {
		timer = metrics.NewRedisTimer(metricsService, metrics.RedisOpExpire)
		err = r.client.Expire(ctx, key, window).Err()
		timer.ObserveDuration()
		if err != nil {
			metrics.RecordRedisError(metricsService, metrics.RedisOpExpire)
			return count, fmt.Errorf("failed to set ttl for %s: %w", key, err)
		}
	}

	return count, nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}
