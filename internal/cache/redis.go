package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/airport/config"
	"github.com/Domenick1991/airport/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const flightsKeyPrefix = "cache:flights:"

type RedisCache struct {
	client     redis.UniversalClient
	flightsTTL time.Duration
	logger     *logrus.Logger
}

func NewRedisCache(cfg config.RedisConfig, flightsTTL time.Duration, logger *logrus.Logger) *RedisCache {
	return NewRedisCacheWithClient(
		redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		flightsTTL,
		logger,
	)
}

func NewRedisCacheWithClient(client redis.UniversalClient, flightsTTL time.Duration, logger *logrus.Logger) *RedisCache {
	return &RedisCache{client: client, flightsTTL: flightsTTL, logger: logger}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// GetFlights returns the cached listing for filter, or nil on a miss.
func (c *RedisCache) GetFlights(ctx context.Context, filter domain.FlightFilter) ([]domain.FlightSummary, error) {
	data, err := c.client.Get(ctx, flightsKey(filter)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var flights []domain.FlightSummary
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (c *RedisCache) SetFlights(ctx context.Context, filter domain.FlightFilter, flights []domain.FlightSummary) error {
	payload, err := json.Marshal(flights)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, flightsKey(filter), payload, c.flightsTTL).Err()
}

// InvalidateFlights drops every cached flight listing.
func (c *RedisCache) InvalidateFlights(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, flightsKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	c.logger.WithField("keys", len(keys)).Debug("invalidating flight listings")
	return c.client.Del(ctx, keys...).Err()
}

func (c *RedisCache) AcquireSeatLock(ctx context.Context, flightID int64, row, seat int, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, seatLockKey(flightID, row, seat), "locked", ttl).Result()
}

func (c *RedisCache) ReleaseSeatLock(ctx context.Context, flightID int64, row, seat int) error {
	return c.client.Del(ctx, seatLockKey(flightID, row, seat)).Err()
}

func flightsKey(filter domain.FlightFilter) string {
	date := ""
	if !filter.Date.IsZero() {
		date = filter.Date.Format(time.DateOnly)
	}
	return fmt.Sprintf("%ssrc=%s:dst=%s:date=%s", flightsKeyPrefix, filter.Source, filter.Destination, date)
}

func seatLockKey(flightID int64, row, seat int) string {
	return fmt.Sprintf("lock:flight:%d:row:%d:seat:%d", flightID, row, seat)
}
