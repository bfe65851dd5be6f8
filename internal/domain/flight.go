package domain

import "time"

type Flight struct {
	ID            int64
	RouteID       int64
	AirplaneID    int64
	DepartureTime time.Time
	ArrivalTime   time.Time
	CrewIDs       []int64

	Route    *Route
	Airplane *Airplane
	Crew     []Crew
}

// FlightSummary is the listing projection of a flight with its seat occupancy.
type FlightSummary struct {
	Flight
	TicketsTaken int
}

func (f FlightSummary) Capacity() int {
	if f.Airplane == nil {
		return 0
	}
	return f.Airplane.Capacity()
}

// TicketsAvailable is capacity minus sold tickets. Overbooking is an allocator
// fault and is reported as zero rather than a negative count.
func (f FlightSummary) TicketsAvailable() int {
	if n := f.Capacity() - f.TicketsTaken; n > 0 {
		return n
	}
	return 0
}

// Overbooked reports more tickets than seats, which must never happen.
func (f FlightSummary) Overbooked() bool {
	return f.TicketsTaken > f.Capacity()
}

type FlightFilter struct {
	Source      string
	Destination string
	// Date matches the calendar day (UTC) of the departure time when non-zero.
	Date time.Time
}

type Seat struct {
	Row  int
	Seat int
}
