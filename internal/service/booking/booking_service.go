package booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Domenick1991/airport/internal/access"
	"github.com/Domenick1991/airport/internal/domain"
	"github.com/Domenick1991/airport/internal/kafka"
	"github.com/Domenick1991/airport/internal/repository"
	"github.com/sirupsen/logrus"
)

type OrderUseCase interface {
	CreateOrder(ctx context.Context, userID int64, requests []domain.TicketRequest) (*domain.Order, error)
	ListOrders(ctx context.Context, userID int64) ([]domain.Order, error)
	GetOrder(ctx context.Context, p access.Principal, id int64) (*domain.Order, error)
}

type Cache interface {
	AcquireSeatLock(ctx context.Context, flightID int64, row, seat int, ttl time.Duration) (bool, error)
	ReleaseSeatLock(ctx context.Context, flightID int64, row, seat int) error
	InvalidateFlights(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type FlightReader interface {
	GetByID(ctx context.Context, id int64) (*domain.FlightSummary, error)
}

type TicketWriter interface {
	TicketLookup
	Create(ctx context.Context, ticket *domain.Ticket) error
}

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type OrderService struct {
	orders      repository.OrderRepository
	tickets     TicketWriter
	flights     FlightReader
	users       UserReader
	tx          repository.Transactor
	cache       Cache
	producer    Producer
	ordersTopic string
	lockTTL     time.Duration
	now         func() time.Time
	logger      *logrus.Logger
}

type OrderServiceOption func(*OrderService)

func WithCache(cache Cache, lockTTL time.Duration) OrderServiceOption {
	return func(s *OrderService) {
		s.cache = cache
		s.lockTTL = lockTTL
	}
}

func WithProducer(producer Producer, topic string) OrderServiceOption {
	return func(s *OrderService) {
		s.producer = producer
		s.ordersTopic = topic
	}
}

func WithClock(now func() time.Time) OrderServiceOption {
	return func(s *OrderService) {
		s.now = now
	}
}

func NewOrderService(
	orders repository.OrderRepository,
	tickets TicketWriter,
	flights FlightReader,
	users UserReader,
	tx repository.Transactor,
	logger *logrus.Logger,
	opts ...OrderServiceOption,
) *OrderService {
	s := &OrderService{
		orders:  orders,
		tickets: tickets,
		flights: flights,
		users:   users,
		tx:      tx,
		lockTTL: 30 * time.Second,
		now:     time.Now,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateOrder books every requested seat for userID or none of them. Requests
// are validated and inserted in the given order inside one transaction.
func (s *OrderService) CreateOrder(ctx context.Context, userID int64, requests []domain.TicketRequest) (*domain.Order, error) {
	if len(requests) == 0 {
		return nil, domain.NewValidationError("tickets", domain.ErrEmptyOrder, "")
	}

	locked, err := s.lockSeats(ctx, requests)
	defer s.unlockSeats(locked)
	if err != nil {
		return nil, err
	}

	var order *domain.Order
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		flights, err := s.checkRequests(ctx, requests)
		if err != nil {
			return err
		}

		o := &domain.Order{UserID: userID, CreatedAt: s.now().UTC()}
		if err := s.orders.Create(ctx, o); err != nil {
			return err
		}
		for _, r := range requests {
			t := domain.Ticket{Row: r.Row, Seat: r.Seat, FlightID: r.FlightID, OrderID: o.ID}
			if err := s.tickets.Create(ctx, &t); err != nil {
				return err
			}
			t.Flight = flights[r.FlightID]
			o.Tickets = append(o.Tickets, t)
		}
		order = o
		return nil
	})
	if err != nil {
		s.logRejection(err, userID, len(requests))
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_id": order.ID,
		"user_id":  userID,
		"tickets":  len(order.Tickets),
	}).Info("order created")

	s.afterCommit(ctx, order)
	return order, nil
}

// checkRequests validates every request against the committed state and
// returns the flights they reference. All field errors are collected.
func (s *OrderService) checkRequests(ctx context.Context, requests []domain.TicketRequest) (map[int64]*domain.FlightSummary, error) {
	type seatKey struct {
		flightID  int64
		row, seat int
	}

	now := s.now()
	flights := make(map[int64]*domain.FlightSummary)
	seen := make(map[seatKey]int, len(requests))
	verr := &domain.ValidationError{}

	for i, r := range requests {
		prefix := fmt.Sprintf("tickets[%d]", i)

		flight, ok := flights[r.FlightID]
		if !ok {
			f, err := s.flights.GetByID(ctx, r.FlightID)
			if errors.Is(err, domain.ErrNotFound) {
				verr.Merge(prefix+".flight", err)
				continue
			}
			if err != nil {
				return nil, err
			}
			flights[r.FlightID], flight = f, f
		}

		if !flight.DepartureTime.After(now) {
			return nil, fmt.Errorf("%s: flight %d: %w", prefix, flight.ID, domain.ErrFlightDeparted)
		}

		if flight.Airplane == nil {
			return nil, fmt.Errorf("flight %d has no airplane loaded", flight.ID)
		}
		if err := ValidateTicket(r.Row, r.Seat, *flight.Airplane); err != nil {
			verr.Merge(prefix, err)
			continue
		}

		key := seatKey{r.FlightID, r.Row, r.Seat}
		if j, dup := seen[key]; dup {
			verr.Add(prefix+".seat", domain.ErrSeatTaken, "seat %d in row %d is already requested by tickets[%d]", r.Seat, r.Row, j)
			continue
		}
		seen[key] = i

		if err := CheckSeatAvailable(ctx, r.FlightID, r.Row, r.Seat, s.tickets); err != nil {
			var seatErr *domain.ValidationError
			if !errors.As(err, &seatErr) {
				return nil, err
			}
			verr.Merge(prefix, seatErr)
		}
	}

	return flights, verr.OrNil()
}

type seatLock struct {
	flightID  int64
	row, seat int
}

// lockSeats takes a short lived lock per distinct requested seat. A lock held by
// another request is reported as a taken seat; a cache failure only disables
// the early check, the database constraint still applies.
func (s *OrderService) lockSeats(ctx context.Context, requests []domain.TicketRequest) ([]seatLock, error) {
	if s.cache == nil {
		return nil, nil
	}

	var locked []seatLock
	seen := make(map[seatLock]bool, len(requests))
	for i, r := range requests {
		l := seatLock{r.FlightID, r.Row, r.Seat}
		if seen[l] {
			continue
		}
		seen[l] = true

		ok, err := s.cache.AcquireSeatLock(ctx, r.FlightID, r.Row, r.Seat, s.lockTTL)
		if err != nil {
			s.logger.WithError(err).WithField("flight_id", r.FlightID).Warn("seat lock unavailable")
			continue
		}
		if !ok {
			return locked, domain.NewValidationError(fmt.Sprintf("tickets[%d].seat", i), domain.ErrSeatTaken,
				"seat %d in row %d is being booked by another request", r.Seat, r.Row)
		}
		locked = append(locked, l)
	}
	return locked, nil
}

func (s *OrderService) unlockSeats(locked []seatLock) {
	for _, l := range locked {
		// Released on a fresh context so a cancelled request still frees its seats.
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		if err := s.cache.ReleaseSeatLock(ctx, l.flightID, l.row, l.seat); err != nil {
			s.logger.WithError(err).WithField("flight_id", l.flightID).Warn("seat lock release failed")
		}
		cancel()
	}
}

func (s *OrderService) afterCommit(ctx context.Context, order *domain.Order) {
	if s.cache != nil {
		if err := s.cache.InvalidateFlights(ctx); err != nil {
			s.logger.WithError(err).Warn("flight cache invalidation failed")
		}
	}

	if s.producer == nil || s.ordersTopic == "" {
		return
	}
	event := s.orderEvent(ctx, order)
	if err := s.producer.Publish(ctx, s.ordersTopic, strconv.FormatInt(order.ID, 10), event); err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Warn("failed to publish order event")
	}
}

func (s *OrderService) orderEvent(ctx context.Context, order *domain.Order) kafka.OrderEvent {
	var email string
	if s.users != nil {
		if u, err := s.users.GetByID(ctx, order.UserID); err == nil {
			email = u.Email
		} else {
			s.logger.WithError(err).WithField("user_id", order.UserID).Warn("order event without recipient")
		}
	}

	tickets := make([]kafka.TicketPayload, 0, len(order.Tickets))
	for _, t := range order.Tickets {
		p := kafka.TicketPayload{FlightID: t.FlightID, Row: t.Row, Seat: t.Seat}
		if t.Flight != nil {
			p.DepartureTime = t.Flight.DepartureTime
			if r := t.Flight.Route; r != nil && r.Source != nil && r.Destination != nil {
				p.Source, p.Destination = r.Source.ClosestBigCity, r.Destination.ClosestBigCity
			}
		}
		tickets = append(tickets, p)
	}
	return kafka.NewOrderEvent(kafka.EventOrderCreated, order.ID, order.UserID, email, order.CreatedAt, tickets)
}

func (s *OrderService) logRejection(err error, userID int64, n int) {
	entry := s.logger.WithError(err).WithFields(logrus.Fields{"user_id": userID, "tickets": n})
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr), errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrFlightDeparted):
		entry.Info("order rejected")
	default:
		entry.Error("order creation failed")
	}
}

// ListOrders returns the caller's own orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, userID int64) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// GetOrder hides orders of other users behind a not found error.
func (s *OrderService) GetOrder(ctx context.Context, p access.Principal, id int64) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.AuthorizeOwner(p, order.UserID); err != nil {
		// foreign orders are indistinguishable from missing ones
		if errors.Is(err, domain.ErrForbidden) {
			return nil, &domain.NotFoundError{Entity: "order", ID: id}
		}
		return nil, err
	}
	return order, nil
}

var _ OrderUseCase = (*OrderService)(nil)
