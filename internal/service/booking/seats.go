package booking

import (
	"context"
	"fmt"

	"github.com/Domenick1991/airport/internal/domain"
)

// TicketLookup answers whether a seat on a flight has already been sold.
type TicketLookup interface {
	Exists(ctx context.Context, flightID int64, row, seat int) (bool, error)
}

// seatBounds pairs each ticket coordinate with the airplane dimension bounding it.
var seatBounds = []struct {
	field string
	err   error
	value func(row, seat int) int
	limit func(a domain.Airplane) int
}{
	{"row", domain.ErrRowOutOfRange, func(row, _ int) int { return row }, func(a domain.Airplane) int { return a.Rows }},
	{"seat", domain.ErrSeatOutOfRange, func(_, seat int) int { return seat }, func(a domain.Airplane) int { return a.SeatsInRow }},
}

// ValidateTicket checks row and seat against the airplane's seat map and
// reports each offending coordinate with its valid range.
func ValidateTicket(row, seat int, airplane domain.Airplane) error {
	verr := &domain.ValidationError{}
	for _, b := range seatBounds {
		v, limit := b.value(row, seat), b.limit(airplane)
		if v < 1 || v > limit {
			verr.Add(b.field, b.err, "%s number must be in available range: (1, %d), got %d", b.field, limit, v)
		}
	}
	return verr.OrNil()
}

// CheckSeatAvailable fails with ErrSeatTaken when a ticket already holds the seat.
func CheckSeatAvailable(ctx context.Context, flightID int64, row, seat int, lookup TicketLookup) error {
	taken, err := lookup.Exists(ctx, flightID, row, seat)
	if err != nil {
		return fmt.Errorf("check seat %d/%d on flight %d: %w", row, seat, flightID, err)
	}
	if taken {
		return domain.NewValidationError("seat", domain.ErrSeatTaken, "seat %d in row %d is already taken", seat, row)
	}
	return nil
}

// SeatsOutside returns the sold seats that no longer fit airplane's seat map.
func SeatsOutside(seats []domain.Seat, airplane domain.Airplane) []domain.Seat {
	var out []domain.Seat
	for _, s := range seats {
		if ValidateTicket(s.Row, s.Seat, airplane) != nil {
			out = append(out, s)
		}
	}
	return out
}
