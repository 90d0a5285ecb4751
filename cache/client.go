package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vortex-fintech/contactform/netutil"
)

// pingTimeout bounds the startup ping when no dial timeout is configured.
const pingTimeout = 2 * time.Second

// NewClient builds the redis client backing the detection cache and pings
// it. The client is closed again if the ping fails.
func NewClient(ctx context.Context, cfg Config) (redis.UniversalClient, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	opt, err := cfg.options()
	if err != nil {
		return nil, err
	}
	rdb := redis.NewUniversalClient(opt)

	pctx, cancel := context.WithTimeout(ctx, netutil.ClampTimeout(cfg.DialTimeout, 0, pingTimeout))
	defer cancel()

	if err := rdb.Ping(pctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache: ping %v: %w", opt.Addrs, err)
	}
	return rdb, nil
}
