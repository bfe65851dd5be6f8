package routes

import (
	"context"
	"errors"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/Domenick1991/airport/internal/repository"
	"github.com/Domenick1991/airport/internal/validation"
	"github.com/sirupsen/logrus"
)

type RouteUseCase interface {
	List(ctx context.Context, filter domain.RouteFilter) ([]domain.Route, error)
	Get(ctx context.Context, id int64) (*domain.Route, error)
	Create(ctx context.Context, input RouteInput) (*domain.Route, error)
	Update(ctx context.Context, id int64, input RouteInput) (*domain.Route, error)
	Patch(ctx context.Context, id int64, patch RoutePatch) (*domain.Route, error)
	Delete(ctx context.Context, id int64) error
}

type RouteInput struct {
	Source      int64 `json:"source" validate:"required,gt=0"`
	Destination int64 `json:"destination" validate:"required,gt=0"`
	Distance    int   `json:"distance" validate:"required,gt=0"`
}

type RoutePatch struct {
	Source      *int64 `json:"source"`
	Destination *int64 `json:"destination"`
	Distance    *int   `json:"distance"`
}

// Apply overlays the fields present in p onto route.
func (p RoutePatch) Apply(route domain.Route) RouteInput {
	in := RouteInput{Source: route.SourceID, Destination: route.DestinationID, Distance: route.Distance}
	if p.Source != nil {
		in.Source = *p.Source
	}
	if p.Destination != nil {
		in.Destination = *p.Destination
	}
	if p.Distance != nil {
		in.Distance = *p.Distance
	}
	return in
}

// FlightCache drops cached flight listings, which embed route endpoints.
type FlightCache interface {
	InvalidateFlights(ctx context.Context) error
}

type RouteService struct {
	routes   repository.RouteRepository
	airports repository.AirportRepository
	tx       repository.Transactor
	cache    FlightCache
	logger   *logrus.Logger
}

type RouteServiceOption func(*RouteService)

func WithFlightCache(cache FlightCache) RouteServiceOption {
	return func(s *RouteService) {
		s.cache = cache
	}
}

func NewRouteService(
	routes repository.RouteRepository,
	airports repository.AirportRepository,
	tx repository.Transactor,
	logger *logrus.Logger,
	opts ...RouteServiceOption,
) *RouteService {
	s := &RouteService{routes: routes, airports: airports, tx: tx, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RouteService) List(ctx context.Context, filter domain.RouteFilter) ([]domain.Route, error) {
	return s.routes.List(ctx, filter)
}

func (s *RouteService) Get(ctx context.Context, id int64) (*domain.Route, error) {
	return s.routes.GetByID(ctx, id)
}

func (s *RouteService) Create(ctx context.Context, input RouteInput) (*domain.Route, error) {
	return s.save(ctx, domain.Route{SourceID: input.Source, DestinationID: input.Destination, Distance: input.Distance}, input)
}

func (s *RouteService) Update(ctx context.Context, id int64, input RouteInput) (*domain.Route, error) {
	if _, err := s.routes.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.save(ctx, domain.Route{ID: id, SourceID: input.Source, DestinationID: input.Destination, Distance: input.Distance}, input)
}

func (s *RouteService) Patch(ctx context.Context, id int64, patch RoutePatch) (*domain.Route, error) {
	current, err := s.routes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	input := patch.Apply(*current)
	return s.save(ctx, domain.Route{ID: id, SourceID: input.Source, DestinationID: input.Destination, Distance: input.Distance}, input)
}

func (s *RouteService) Delete(ctx context.Context, id int64) error {
	if err := s.routes.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// save validates and stores route inside one serializable transaction, so two
// concurrent writers cannot both pass the checks for the same airport pair.
func (s *RouteService) save(ctx context.Context, route domain.Route, input RouteInput) (*domain.Route, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	var saved *domain.Route
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkAirports(ctx, route.SourceID, route.DestinationID); err != nil {
			return err
		}
		if err := ValidateRoute(ctx, route, s.routes); err != nil {
			return err
		}

		if route.ID == 0 {
			if err := s.routes.Create(ctx, &route); err != nil {
				return err
			}
		} else if err := s.routes.Update(ctx, &route); err != nil {
			return err
		}

		var err error
		saved, err = s.routes.GetByID(ctx, route.ID)
		return err
	})
	if err != nil {
		s.logFailure(err, route)
		return nil, err
	}

	if route.ID != 0 {
		s.invalidate(ctx)
	}
	s.logger.WithFields(logrus.Fields{
		"route_id":    saved.ID,
		"source":      saved.SourceID,
		"destination": saved.DestinationID,
	}).Info("route saved")
	return saved, nil
}

func (s *RouteService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		s.logger.WithError(err).Warn("flight cache invalidation failed")
	}
}

func (s *RouteService) checkAirports(ctx context.Context, ids ...int64) error {
	for _, id := range ids {
		if _, err := s.airports.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *RouteService) logFailure(err error, route domain.Route) {
	entry := s.logger.WithError(err).WithFields(logrus.Fields{
		"route_id":    route.ID,
		"source":      route.SourceID,
		"destination": route.DestinationID,
	})
	var verr *domain.ValidationError
	if errors.As(err, &verr) || errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrConflict) {
		entry.Debug("route rejected")
		return
	}
	entry.Error("route save failed")
}

var _ RouteUseCase = (*RouteService)(nil)
