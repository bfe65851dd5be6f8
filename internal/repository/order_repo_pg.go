package repository

import (
	"context"

	"github.com/Domenick1991/airport/internal/domain"
)

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	// ListByUser returns the user's orders newest first, tickets included.
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
}

type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Exists(ctx context.Context, flightID int64, row, seat int) (bool, error)
	TakenSeats(ctx context.Context, flightID int64) ([]domain.Seat, error)
	SeatExtent(ctx context.Context, airplaneID int64) (domain.Seat, error)
}

type PGOrderRepository struct {
	executor
}

func NewOrderRepository(db DBTX) OrderRepository {
	return &PGOrderRepository{executor{db: db}}
}

func (r *PGOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	err := r.conn(ctx).QueryRow(ctx, `INSERT INTO orders (user_id, created_at) VALUES ($1, $2) RETURNING id, created_at`,
		order.UserID, order.CreatedAt).Scan(&order.ID, &order.CreatedAt)
	return translate(err, "order", 0)
}

func (r *PGOrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	var o domain.Order
	err := r.conn(ctx).QueryRow(ctx, `SELECT id, user_id, created_at FROM orders WHERE id=$1`, id).
		Scan(&o.ID, &o.UserID, &o.CreatedAt)
	if err != nil {
		return nil, translate(err, "order", id)
	}

	orders := []domain.Order{o}
	if err := r.attachTickets(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *PGOrderRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT id, user_id, created_at FROM orders
		WHERE user_id=$1 ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachTickets(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// attachTickets loads the tickets of orders together with their flight summaries.
func (r *PGOrderRepository) attachTickets(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	index := make(map[int64]int, len(orders))
	orderIDs := make([]int64, 0, len(orders))
	for i, o := range orders {
		index[o.ID] = i
		orderIDs = append(orderIDs, o.ID)
	}

	rows, err := r.conn(ctx).Query(ctx, `SELECT id, seat_row, seat_number, flight_id, order_id
		FROM tickets WHERE order_id = ANY($1) ORDER BY id`, orderIDs)
	if err != nil {
		return err
	}
	defer rows.Close()

	var (
		tickets   []domain.Ticket
		flightIDs []int64
		seen      = make(map[int64]bool)
	)
	for rows.Next() {
		var t domain.Ticket
		if err := rows.Scan(&t.ID, &t.Row, &t.Seat, &t.FlightID, &t.OrderID); err != nil {
			return err
		}
		tickets = append(tickets, t)
		if !seen[t.FlightID] {
			seen[t.FlightID] = true
			flightIDs = append(flightIDs, t.FlightID)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	flights, err := r.flightsByID(ctx, flightIDs)
	if err != nil {
		return err
	}
	for _, t := range tickets {
		if f, ok := flights[t.FlightID]; ok {
			t.Flight = f
		}
		i := index[t.OrderID]
		orders[i].Tickets = append(orders[i].Tickets, t)
	}
	return nil
}

func (r *PGOrderRepository) flightsByID(ctx context.Context, ids []int64) (map[int64]*domain.FlightSummary, error) {
	out := make(map[int64]*domain.FlightSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.conn(ctx).Query(ctx, flightSelect+` WHERE f.id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		out[f.ID] = &f
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	crews, err := (&PGFlightRepository{r.executor}).crewByFlight(ctx, ids)
	if err != nil {
		return nil, err
	}
	for id, f := range out {
		f.Crew = crews[id]
		f.CrewIDs = crewIDs(f.Crew)
	}
	return out, nil
}

type PGTicketRepository struct {
	executor
}

func NewTicketRepository(db DBTX) TicketRepository {
	return &PGTicketRepository{executor{db: db}}
}

func (r *PGTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	err := r.conn(ctx).QueryRow(ctx, `INSERT INTO tickets (seat_row, seat_number, flight_id, order_id)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		ticket.Row, ticket.Seat, ticket.FlightID, ticket.OrderID).Scan(&ticket.ID)
	return translate(err, "ticket", 0)
}

func (r *PGTicketRepository) Exists(ctx context.Context, flightID int64, row, seat int) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `SELECT EXISTS (
		SELECT 1 FROM tickets WHERE flight_id=$1 AND seat_row=$2 AND seat_number=$3)`,
		flightID, row, seat).Scan(&exists)
	return exists, translate(err, "ticket", 0)
}

func (r *PGTicketRepository) TakenSeats(ctx context.Context, flightID int64) ([]domain.Seat, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT seat_row, seat_number FROM tickets
		WHERE flight_id=$1 ORDER BY seat_row, seat_number`, flightID)
	if err != nil {
		return nil, translate(err, "ticket", 0)
	}
	defer rows.Close()

	seats := make([]domain.Seat, 0)
	for rows.Next() {
		var s domain.Seat
		if err := rows.Scan(&s.Row, &s.Seat); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	return seats, translate(rows.Err(), "ticket", 0)
}

// SeatExtent returns the highest row and the highest seat number sold on any
// flight of the airplane, zero when none are sold.
func (r *PGTicketRepository) SeatExtent(ctx context.Context, airplaneID int64) (domain.Seat, error) {
	var extent domain.Seat
	err := r.conn(ctx).QueryRow(ctx, `SELECT COALESCE(MAX(t.seat_row), 0), COALESCE(MAX(t.seat_number), 0)
		FROM tickets t JOIN flights f ON f.id = t.flight_id
		WHERE f.airplane_id=$1`, airplaneID).Scan(&extent.Row, &extent.Seat)
	return extent, translate(err, "ticket", 0)
}

var (
	_ OrderRepository  = (*PGOrderRepository)(nil)
	_ TicketRepository = (*PGTicketRepository)(nil)
)
