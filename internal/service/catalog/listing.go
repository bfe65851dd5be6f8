package catalog

import (
	"context"

	"github.com/sirupsen/logrus"
)

// FlightCache drops cached flight listings, which embed airport, airplane
// and crew data.
type FlightCache interface {
	InvalidateFlights(ctx context.Context) error
}

type Option func(*listing)

func WithFlightCache(cache FlightCache) Option {
	return func(l *listing) {
		l.cache = cache
	}
}

type listing struct {
	cache  FlightCache
	logger *logrus.Logger
}

func newListing(logger *logrus.Logger, opts []Option) listing {
	l := listing{logger: logger}
	for _, opt := range opts {
		opt(&l)
	}
	return l
}

func (l listing) invalidate(ctx context.Context) {
	if l.cache == nil {
		return
	}
	if err := l.cache.InvalidateFlights(ctx); err != nil {
		l.logger.WithError(err).Warn("flight cache invalidation failed")
	}
}
