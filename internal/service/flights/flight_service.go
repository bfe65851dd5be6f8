package flights

import (
	"context"
	"errors"
	"time"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/Domenick1991/airport/internal/repository"
	"github.com/Domenick1991/airport/internal/service/booking"
	"github.com/Domenick1991/airport/internal/validation"
	"github.com/sirupsen/logrus"
)

type FlightUseCase interface {
	List(ctx context.Context, filter domain.FlightFilter) ([]domain.FlightSummary, error)
	Get(ctx context.Context, id int64) (*FlightDetail, error)
	Create(ctx context.Context, input FlightInput) (*domain.FlightSummary, error)
	Update(ctx context.Context, id int64, input FlightInput) (*domain.FlightSummary, error)
	Patch(ctx context.Context, id int64, patch FlightPatch) (*domain.FlightSummary, error)
	Delete(ctx context.Context, id int64) error
}

type FlightCache interface {
	GetFlights(ctx context.Context, filter domain.FlightFilter) ([]domain.FlightSummary, error)
	SetFlights(ctx context.Context, filter domain.FlightFilter, flights []domain.FlightSummary) error
	InvalidateFlights(ctx context.Context) error
}

// FlightDetail adds the seat map occupancy to a flight.
type FlightDetail struct {
	domain.FlightSummary
	TakenSeats []domain.Seat
}

type FlightInput struct {
	Route         int64     `json:"route" validate:"required,gt=0"`
	Airplane      int64     `json:"airplane" validate:"required,gt=0"`
	DepartureTime time.Time `json:"departure_time" validate:"required"`
	ArrivalTime   time.Time `json:"arrival_time" validate:"required"`
	Crew          []int64   `json:"crew" validate:"omitempty,dive,gt=0"`
}

type FlightPatch struct {
	Route         *int64     `json:"route"`
	Airplane      *int64     `json:"airplane"`
	DepartureTime *time.Time `json:"departure_time"`
	ArrivalTime   *time.Time `json:"arrival_time"`
	Crew          *[]int64   `json:"crew"`
}

func (p FlightPatch) Apply(f domain.Flight) FlightInput {
	in := FlightInput{
		Route:         f.RouteID,
		Airplane:      f.AirplaneID,
		DepartureTime: f.DepartureTime,
		ArrivalTime:   f.ArrivalTime,
		Crew:          f.CrewIDs,
	}
	if p.Route != nil {
		in.Route = *p.Route
	}
	if p.Airplane != nil {
		in.Airplane = *p.Airplane
	}
	if p.DepartureTime != nil {
		in.DepartureTime = *p.DepartureTime
	}
	if p.ArrivalTime != nil {
		in.ArrivalTime = *p.ArrivalTime
	}
	if p.Crew != nil {
		in.Crew = *p.Crew
	}
	return in
}

type FlightService struct {
	flights    repository.FlightRepository
	routes     repository.RouteRepository
	airplanes  repository.AirplaneRepository
	tickets    repository.TicketRepository
	tx         repository.Transactor
	cache      FlightCache
	logger     *logrus.Logger
	now        func() time.Time
	createLead time.Duration
}

type FlightServiceOption func(*FlightService)

func WithCache(cache FlightCache) FlightServiceOption {
	return func(s *FlightService) {
		s.cache = cache
	}
}

func WithClock(now func() time.Time) FlightServiceOption {
	return func(s *FlightService) {
		s.now = now
	}
}

func WithCreateLead(lead time.Duration) FlightServiceOption {
	return func(s *FlightService) {
		if lead > 0 {
			s.createLead = lead
		}
	}
}

func NewFlightService(
	flights repository.FlightRepository,
	routes repository.RouteRepository,
	airplanes repository.AirplaneRepository,
	tickets repository.TicketRepository,
	tx repository.Transactor,
	logger *logrus.Logger,
	opts ...FlightServiceOption,
) *FlightService {
	s := &FlightService{
		flights:    flights,
		routes:     routes,
		airplanes:  airplanes,
		tickets:    tickets,
		tx:         tx,
		logger:     logger,
		now:        time.Now,
		createLead: DefaultCreateLead,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FlightService) List(ctx context.Context, filter domain.FlightFilter) ([]domain.FlightSummary, error) {
	if s.cache != nil {
		cached, err := s.cache.GetFlights(ctx, filter)
		if err != nil {
			s.logger.WithError(err).Warn("flight cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	flights, err := s.flights.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for _, f := range flights {
		s.auditOccupancy(f)
	}

	if s.cache != nil {
		if err := s.cache.SetFlights(ctx, filter, flights); err != nil {
			s.logger.WithError(err).Warn("flight cache write failed")
		}
	}
	return flights, nil
}

func (s *FlightService) Get(ctx context.Context, id int64) (*FlightDetail, error) {
	f, err := s.flights.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.auditOccupancy(*f)

	taken, err := s.tickets.TakenSeats(ctx, id)
	if err != nil {
		return nil, err
	}
	return &FlightDetail{FlightSummary: *f, TakenSeats: taken}, nil
}

func (s *FlightService) Create(ctx context.Context, input FlightInput) (*domain.FlightSummary, error) {
	return s.save(ctx, 0, input)
}

func (s *FlightService) Update(ctx context.Context, id int64, input FlightInput) (*domain.FlightSummary, error) {
	if _, err := s.flights.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.save(ctx, id, input)
}

func (s *FlightService) Patch(ctx context.Context, id int64, patch FlightPatch) (*domain.FlightSummary, error) {
	current, err := s.flights.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, id, patch.Apply(current.Flight))
}

func (s *FlightService) Delete(ctx context.Context, id int64) error {
	if err := s.flights.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *FlightService) save(ctx context.Context, id int64, input FlightInput) (*domain.FlightSummary, error) {
	if err := s.validate(input, id != 0); err != nil {
		return nil, err
	}

	flight := domain.Flight{
		ID:            id,
		RouteID:       input.Route,
		AirplaneID:    input.Airplane,
		DepartureTime: input.DepartureTime,
		ArrivalTime:   input.ArrivalTime,
		CrewIDs:       input.Crew,
	}

	var saved *domain.FlightSummary
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.routes.GetByID(ctx, flight.RouteID); err != nil {
			return err
		}
		plane, err := s.airplanes.GetByID(ctx, flight.AirplaneID)
		if err != nil {
			return err
		}
		if id != 0 {
			if err := s.checkSeatMap(ctx, id, *plane); err != nil {
				return err
			}
		}

		if id == 0 {
			if err := s.flights.Create(ctx, &flight); err != nil {
				return err
			}
		} else if err := s.flights.Update(ctx, &flight); err != nil {
			return err
		}

		saved, err = s.flights.GetByID(ctx, flight.ID)
		return err
	})
	if err != nil {
		entry := s.logger.WithError(err).WithField("flight_id", id)
		var verr *domain.ValidationError
		if errors.As(err, &verr) || errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrConflict) {
			entry.Debug("flight rejected")
		} else {
			entry.Error("flight save failed")
		}
		return nil, err
	}

	s.invalidate(ctx)
	s.logger.WithFields(logrus.Fields{
		"flight_id":      saved.ID,
		"route_id":       saved.RouteID,
		"departure_time": saved.DepartureTime,
	}).Info("flight saved")
	return saved, nil
}

// checkSeatMap rejects an airplane whose seat map cannot hold the tickets
// already sold on the flight.
func (s *FlightService) checkSeatMap(ctx context.Context, flightID int64, plane domain.Airplane) error {
	taken, err := s.tickets.TakenSeats(ctx, flightID)
	if err != nil {
		return err
	}
	outside := booking.SeatsOutside(taken, plane)
	if len(outside) == 0 {
		return nil
	}
	return domain.NewValidationError("airplane", domain.ErrSeatMapConflict,
		"airplane %d has %d rows of %d seats, but %d sold ticket(s) fall outside it, e.g. row %d seat %d",
		plane.ID, plane.Rows, plane.SeatsInRow, len(outside), outside[0].Row, outside[0].Seat)
}

// validate reports input shape errors and time window errors together.
func (s *FlightService) validate(input FlightInput, isUpdate bool) error {
	verr := &domain.ValidationError{}
	if err := validation.Struct(input); err != nil {
		verr.Merge("", err)
	}
	if !input.DepartureTime.IsZero() && !input.ArrivalTime.IsZero() {
		if err := validateWindow(input.DepartureTime, input.ArrivalTime, isUpdate, s.now(), s.createLead); err != nil {
			verr.Merge("", err)
		}
	}
	return verr.OrNil()
}

func (s *FlightService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		s.logger.WithError(err).Warn("flight cache invalidation failed")
	}
}

func (s *FlightService) auditOccupancy(f domain.FlightSummary) {
	if f.Overbooked() {
		s.logger.WithFields(logrus.Fields{
			"flight_id": f.ID,
			"capacity":  f.Capacity(),
			"taken":     f.TicketsTaken,
		}).Error("flight has more tickets than seats")
	}
}

var _ FlightUseCase = (*FlightService)(nil)
