package cache

import (
	"context"
	"time"

	rdb "github.com/redis/go-redis/v9"
)

type redisCache struct {
	c      *rdb.Client
	prefix string
}

// NewRedis crea un cache distribuido sobre redis.
func NewRedis(addr string, db int, prefix string) Cache {
	return &redisCache{
		c:      rdb.NewClient(&rdb.Options{Addr: addr, DB: db}),
		prefix: prefix,
	}
}

func (r *redisCache) Get(k string) ([]byte, bool) {
	b, err := r.c.Get(context.Background(), r.prefix+k).Bytes()
	if err != nil {
		return nil, false
	}
	return b, true
}

func (r *redisCache) Set(k string, v []byte, ttl time.Duration) {
	_ = r.c.Set(context.Background(), r.prefix+k, v, ttl).Err()
}

func (r *redisCache) Delete(k string) { _ = r.c.Del(context.Background(), r.prefix+k).Err() }
