package api

import (
	"time"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/Domenick1991/airport/internal/service/flights"
)

type airportResponse struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	ClosestBigCity string `json:"closest_big_city"`
}

func airportView(a domain.Airport) airportResponse {
	return airportResponse{ID: a.ID, Name: a.Name, ClosestBigCity: a.ClosestBigCity}
}

type airplaneTypeResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type airplaneResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Rows         int    `json:"rows"`
	SeatsInRow   int    `json:"seats_in_row"`
	AirplaneType string `json:"airplane_type"`
	Capacity     int    `json:"capacity"`
}

func airplaneView(a domain.Airplane) airplaneResponse {
	return airplaneResponse{
		ID:           a.ID,
		Name:         a.Name,
		Rows:         a.Rows,
		SeatsInRow:   a.SeatsInRow,
		AirplaneType: a.TypeName,
		Capacity:     a.Capacity(),
	}
}

type crewResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
}

func crewView(c domain.Crew) crewResponse {
	return crewResponse{ID: c.ID, FirstName: c.FirstName, LastName: c.LastName, FullName: fullName(c)}
}

func fullName(c domain.Crew) string {
	return c.FirstName + " " + c.LastName
}

// routeResponse is returned by route writes and carries references by id.
type routeResponse struct {
	ID          int64 `json:"id"`
	Source      int64 `json:"source"`
	Destination int64 `json:"destination"`
	Distance    int   `json:"distance"`
}

type routeListResponse struct {
	ID          int64  `json:"id"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Distance    int    `json:"distance"`
}

type routeDetailResponse struct {
	ID          int64           `json:"id"`
	Source      airportResponse `json:"source"`
	Destination airportResponse `json:"destination"`
	Distance    int             `json:"distance"`
}

func routeWriteView(r domain.Route) routeResponse {
	return routeResponse{ID: r.ID, Source: r.SourceID, Destination: r.DestinationID, Distance: r.Distance}
}

func routeListView(r domain.Route) routeListResponse {
	out := routeListResponse{ID: r.ID, Distance: r.Distance}
	if r.Source != nil {
		out.Source = r.Source.Name
	}
	if r.Destination != nil {
		out.Destination = r.Destination.Name
	}
	return out
}

func routeDetailView(r domain.Route) routeDetailResponse {
	out := routeDetailResponse{ID: r.ID, Distance: r.Distance}
	if r.Source != nil {
		out.Source = airportView(*r.Source)
	}
	if r.Destination != nil {
		out.Destination = airportView(*r.Destination)
	}
	return out
}

type flightResponse struct {
	ID            int64     `json:"id"`
	Route         int64     `json:"route"`
	Airplane      int64     `json:"airplane"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	Crew          []int64   `json:"crew"`
}

type flightListResponse struct {
	ID               int64     `json:"id"`
	RouteSource      string    `json:"source"`
	RouteDestination string    `json:"destination"`
	AirplaneName     string    `json:"airplane"`
	AirplaneCapacity int       `json:"airplane_capacity"`
	TicketsAvailable int       `json:"tickets_available"`
	DepartureTime    time.Time `json:"departure_time"`
	ArrivalTime      time.Time `json:"arrival_time"`
	Crew             []string  `json:"crew"`
}

type seatResponse struct {
	Row  int `json:"row"`
	Seat int `json:"seat"`
}

type flightDetailResponse struct {
	ID            int64               `json:"id"`
	Route         routeDetailResponse `json:"route"`
	Airplane      airplaneResponse    `json:"airplane"`
	DepartureTime time.Time           `json:"departure_time"`
	ArrivalTime   time.Time           `json:"arrival_time"`
	TakenPlaces   []seatResponse      `json:"taken_places"`
	Crew          []crewResponse      `json:"crew"`
}

func flightWriteView(f domain.FlightSummary) flightResponse {
	crew := f.CrewIDs
	if crew == nil {
		crew = []int64{}
	}
	return flightResponse{
		ID:            f.ID,
		Route:         f.RouteID,
		Airplane:      f.AirplaneID,
		DepartureTime: f.DepartureTime,
		ArrivalTime:   f.ArrivalTime,
		Crew:          crew,
	}
}

func flightListView(f domain.FlightSummary) flightListResponse {
	out := flightListResponse{
		ID:               f.ID,
		AirplaneCapacity: f.Capacity(),
		TicketsAvailable: f.TicketsAvailable(),
		DepartureTime:    f.DepartureTime,
		ArrivalTime:      f.ArrivalTime,
		Crew:             make([]string, 0, len(f.Crew)),
	}
	if f.Route != nil {
		if f.Route.Source != nil {
			out.RouteSource = f.Route.Source.ClosestBigCity
		}
		if f.Route.Destination != nil {
			out.RouteDestination = f.Route.Destination.ClosestBigCity
		}
	}
	if f.Airplane != nil {
		out.AirplaneName = f.Airplane.Name
	}
	for _, c := range f.Crew {
		out.Crew = append(out.Crew, fullName(c))
	}
	return out
}

func flightDetailView(d flights.FlightDetail) flightDetailResponse {
	out := flightDetailResponse{
		ID:            d.ID,
		DepartureTime: d.DepartureTime,
		ArrivalTime:   d.ArrivalTime,
		TakenPlaces:   make([]seatResponse, 0, len(d.TakenSeats)),
		Crew:          make([]crewResponse, 0, len(d.Crew)),
	}
	if d.Route != nil {
		out.Route = routeDetailView(*d.Route)
	}
	if d.Airplane != nil {
		out.Airplane = airplaneView(*d.Airplane)
	}
	for _, s := range d.TakenSeats {
		out.TakenPlaces = append(out.TakenPlaces, seatResponse{Row: s.Row, Seat: s.Seat})
	}
	for _, c := range d.Crew {
		out.Crew = append(out.Crew, crewView(c))
	}
	return out
}

type ticketResponse struct {
	ID     int64               `json:"id"`
	Row    int                 `json:"row"`
	Seat   int                 `json:"seat"`
	Flight *flightListResponse `json:"flight"`
}

type orderResponse struct {
	ID        int64            `json:"id"`
	CreatedAt time.Time        `json:"created_at"`
	Tickets   []ticketResponse `json:"tickets"`
}

func orderView(o domain.Order) orderResponse {
	out := orderResponse{ID: o.ID, CreatedAt: o.CreatedAt, Tickets: make([]ticketResponse, 0, len(o.Tickets))}
	for _, t := range o.Tickets {
		tr := ticketResponse{ID: t.ID, Row: t.Row, Seat: t.Seat}
		if t.Flight != nil {
			f := flightListView(*t.Flight)
			tr.Flight = &f
		}
		out.Tickets = append(out.Tickets, tr)
	}
	return out
}

type userResponse struct {
	ID      int64  `json:"id"`
	Email   string `json:"email"`
	IsStaff bool   `json:"is_staff"`
}

func userView(u domain.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, IsStaff: u.IsStaff}
}

type tokenResponse struct {
	Access    string    `json:"access"`
	ExpiresAt time.Time `json:"expires_at"`
}

// listOf projects every item with view.
func listOf[T, R any](items []T, view func(T) R) []R {
	out := make([]R, 0, len(items))
	for _, it := range items {
		out = append(out, view(it))
	}
	return out
}
