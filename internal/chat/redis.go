package chat

import (
	"strings"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient accepts either a redis:// URL or a bare host:port address.
func NewRedisClient(addr string) (*redis.Client, error) {
	if strings.Contains(addr, "://") {
		opts, err := redis.ParseURL(addr)
		if err != nil {
			return nil, err
		}
		return redis.NewClient(opts), nil
	}
	return redis.NewClient(&redis.Options{Addr: addr}), nil
}
