package booking

import (
	"context"
	"sort"
	"sync"

	"github.com/Domenick1991/airport/internal/domain"
)

// memStore is a transactional in-memory store. Transactions run one at a time
// and a failed transaction restores the state it started from.
type memStore struct {
	mu      sync.Mutex
	flights map[int64]*domain.FlightSummary
	users   map[int64]*domain.User
	orders  []domain.Order
	tickets []domain.Ticket
	nextID  int64

	// failTicketAt makes the n-th ticket insert of a transaction fail (1-based).
	failTicketAt int
	inserted     int
}

func newMemStore() *memStore {
	return &memStore{
		flights: make(map[int64]*domain.FlightSummary),
		users:   make(map[int64]*domain.User),
	}
}

func (m *memStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	orders := append([]domain.Order(nil), m.orders...)
	tickets := append([]domain.Ticket(nil), m.tickets...)
	nextID := m.nextID
	m.inserted = 0

	if err := fn(ctx); err != nil {
		m.orders, m.tickets, m.nextID = orders, tickets, nextID
		return err
	}
	return nil
}

func (m *memStore) counts() (orders, tickets int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders), len(m.tickets)
}

func (m *memStore) ordersRepo() *memOrders   { return &memOrders{m} }
func (m *memStore) ticketsRepo() *memTickets { return &memTickets{m} }
func (m *memStore) flightsRepo() *memFlights { return &memFlights{m} }
func (m *memStore) usersRepo() *memUsers     { return &memUsers{m} }

type memOrders struct{ *memStore }

func (r *memOrders) Create(_ context.Context, order *domain.Order) error {
	r.nextID++
	order.ID = r.nextID
	r.orders = append(r.orders, domain.Order{ID: order.ID, UserID: order.UserID, CreatedAt: order.CreatedAt})
	return nil
}

func (r *memOrders) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	for _, o := range r.orders {
		if o.ID == id {
			o.Tickets = r.ticketsOf(o.ID)
			return &o, nil
		}
	}
	return nil, &domain.NotFoundError{Entity: "order", ID: id}
}

func (r *memOrders) ListByUser(_ context.Context, userID int64) ([]domain.Order, error) {
	out := make([]domain.Order, 0)
	for _, o := range r.orders {
		if o.UserID == userID {
			o.Tickets = r.ticketsOf(o.ID)
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memOrders) ticketsOf(orderID int64) []domain.Ticket {
	var out []domain.Ticket
	for _, t := range r.tickets {
		if t.OrderID == orderID {
			out = append(out, t)
		}
	}
	return out
}

type memTickets struct{ *memStore }

func (r *memTickets) Create(_ context.Context, ticket *domain.Ticket) error {
	r.inserted++
	if r.failTicketAt > 0 && r.inserted == r.failTicketAt {
		return &domain.ConflictError{Constraint: "injected"}
	}
	for _, t := range r.tickets {
		if t.FlightID == ticket.FlightID && t.Row == ticket.Row && t.Seat == ticket.Seat {
			return &domain.ConflictError{Constraint: "tickets_flight_seat_key", Err: domain.ErrSeatTaken}
		}
	}
	r.nextID++
	ticket.ID = r.nextID
	r.tickets = append(r.tickets, *ticket)
	return nil
}

func (r *memTickets) Exists(_ context.Context, flightID int64, row, seat int) (bool, error) {
	for _, t := range r.tickets {
		if t.FlightID == flightID && t.Row == row && t.Seat == seat {
			return true, nil
		}
	}
	return false, nil
}

type memFlights struct{ *memStore }

func (r *memFlights) GetByID(_ context.Context, id int64) (*domain.FlightSummary, error) {
	f, ok := r.flights[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "flight", ID: id}
	}
	out := *f
	out.TicketsTaken = 0
	for _, t := range r.tickets {
		if t.FlightID == id {
			out.TicketsTaken++
		}
	}
	return &out, nil
}

type memUsers struct{ *memStore }

func (r *memUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "user", ID: id}
	}
	return u, nil
}
