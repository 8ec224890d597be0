package database

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/AnshRaj112/celustock-backend/internal/logger"
)

// RedisClient is nil when REDIS_URI is unset or the server was unreachable.
var RedisClient *redis.Client

const redisPingTimeout = 5 * time.Second

// RedisOptions parses uri and applies the pool settings used by the stats
// cache and the auth limiter. Both issue one short command per request.
func RedisOptions(uri string) (*redis.Options, error) {
	opt, err := redis.ParseURL(uri)
	if err != nil {
		return nil, errors.Wrap(err, "parse REDIS_URI")
	}
	opt.PoolSize = 10
	opt.MinIdleConns = 2
	opt.MaxRetries = 1
	opt.DialTimeout = 3 * time.Second
	opt.ReadTimeout = time.Second
	opt.WriteTimeout = time.Second
	opt.PoolTimeout = 2 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute
	return opt, nil
}

// ConnectRedis sets RedisClient once a ping succeeds.
func ConnectRedis(uri string) error {
	opt, err := RedisOptions(uri)
	if err != nil {
		return err
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return errors.Wrapf(err, "ping redis at %s", opt.Addr)
	}

	RedisClient = client
	logger.Info("connected to Redis", zap.String("addr", opt.Addr), zap.Int("db", opt.DB))
	return nil
}

func DisconnectRedis() error {
	if RedisClient == nil {
		return nil
	}
	err := RedisClient.Close()
	RedisClient = nil
	return err
}
