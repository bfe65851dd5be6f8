package repository

import (
	"context"
	"time"

	"github.com/Domenick1991/airport/internal/domain"
)

type FlightRepository interface {
	List(ctx context.Context, filter domain.FlightFilter) ([]domain.FlightSummary, error)
	GetByID(ctx context.Context, id int64) (*domain.FlightSummary, error)
	Create(ctx context.Context, flight *domain.Flight) error
	Update(ctx context.Context, flight *domain.Flight) error
	Delete(ctx context.Context, id int64) error
}

type PGFlightRepository struct {
	executor
}

func NewFlightRepository(db DBTX) FlightRepository {
	return &PGFlightRepository{executor{db: db}}
}

const flightSelect = `SELECT f.id, f.route_id, f.airplane_id, f.departure_time, f.arrival_time,
		r.source_id, r.destination_id, r.distance,
		s.name, s.closest_big_city, d.name, d.closest_big_city,
		a.name, a.seat_rows, a.seats_in_row, a.airplane_type_id, t.name,
		(SELECT count(*) FROM tickets tk WHERE tk.flight_id = f.id)
	FROM flights f
	JOIN routes r ON r.id = f.route_id
	JOIN airports s ON s.id = r.source_id
	JOIN airports d ON d.id = r.destination_id
	JOIN airplanes a ON a.id = f.airplane_id
	JOIN airplane_types t ON t.id = a.airplane_type_id`

func scanFlight(row scanner) (domain.FlightSummary, error) {
	var (
		f     domain.FlightSummary
		route domain.Route
		src   domain.Airport
		dest  domain.Airport
		plane domain.Airplane
	)
	err := row.Scan(&f.ID, &f.RouteID, &f.AirplaneID, &f.DepartureTime, &f.ArrivalTime,
		&route.SourceID, &route.DestinationID, &route.Distance,
		&src.Name, &src.ClosestBigCity, &dest.Name, &dest.ClosestBigCity,
		&plane.Name, &plane.Rows, &plane.SeatsInRow, &plane.AirplaneTypeID, &plane.TypeName,
		&f.TicketsTaken)
	if err != nil {
		return f, err
	}
	route.ID, plane.ID = f.RouteID, f.AirplaneID
	src.ID, dest.ID = route.SourceID, route.DestinationID
	route.Source, route.Destination = &src, &dest
	f.Route, f.Airplane = &route, &plane
	return f, nil
}

func (r *PGFlightRepository) List(ctx context.Context, filter domain.FlightFilter) ([]domain.FlightSummary, error) {
	var where whereClause
	if filter.Source != "" {
		where.add("s.closest_big_city ILIKE $%d", containsPattern(filter.Source))
	}
	if filter.Destination != "" {
		where.add("d.closest_big_city ILIKE $%d", containsPattern(filter.Destination))
	}
	if !filter.Date.IsZero() {
		y, m, d := filter.Date.Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		where.add("f.departure_time >= $%d", day)
		where.add("f.departure_time < $%d", day.AddDate(0, 0, 1))
	}

	rows, err := r.conn(ctx).Query(ctx, flightSelect+where.String()+` ORDER BY f.departure_time, f.id`, where.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.FlightSummary, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, f)
		ids = append(ids, f.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	crews, err := r.crewByFlight(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range flights {
		flights[i].Crew = crews[flights[i].ID]
		flights[i].CrewIDs = crewIDs(flights[i].Crew)
	}
	return flights, nil
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.FlightSummary, error) {
	f, err := scanFlight(r.conn(ctx).QueryRow(ctx, flightSelect+` WHERE f.id=$1`, id))
	if err != nil {
		return nil, translate(err, "flight", id)
	}

	crews, err := r.crewByFlight(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	f.Crew = crews[id]
	f.CrewIDs = crewIDs(f.Crew)
	return &f, nil
}

func (r *PGFlightRepository) crewByFlight(ctx context.Context, flightIDs []int64) (map[int64][]domain.Crew, error) {
	out := make(map[int64][]domain.Crew, len(flightIDs))
	if len(flightIDs) == 0 {
		return out, nil
	}

	rows, err := r.conn(ctx).Query(ctx, `SELECT fc.flight_id, c.id, c.first_name, c.last_name
		FROM flight_crew fc JOIN crews c ON c.id = fc.crew_id
		WHERE fc.flight_id = ANY($1)
		ORDER BY c.id`, flightIDs)
	if err != nil {
		return nil, translate(err, "crew", 0)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			flightID int64
			c        domain.Crew
		)
		if err := rows.Scan(&flightID, &c.ID, &c.FirstName, &c.LastName); err != nil {
			return nil, err
		}
		out[flightID] = append(out[flightID], c)
	}
	return out, translate(rows.Err(), "crew", 0)
}

func (r *PGFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	err := r.conn(ctx).QueryRow(ctx, `INSERT INTO flights (route_id, airplane_id, departure_time, arrival_time)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		flight.RouteID, flight.AirplaneID, flight.DepartureTime, flight.ArrivalTime).Scan(&flight.ID)
	if err != nil {
		return translate(err, "flight", 0)
	}
	return r.setCrew(ctx, flight.ID, flight.CrewIDs)
}

func (r *PGFlightRepository) Update(ctx context.Context, flight *domain.Flight) error {
	err := r.conn(ctx).QueryRow(ctx, `UPDATE flights SET route_id=$2, airplane_id=$3, departure_time=$4, arrival_time=$5
		WHERE id=$1 RETURNING id`,
		flight.ID, flight.RouteID, flight.AirplaneID, flight.DepartureTime, flight.ArrivalTime).Scan(&flight.ID)
	if err != nil {
		return translate(err, "flight", flight.ID)
	}
	return r.setCrew(ctx, flight.ID, flight.CrewIDs)
}

func (r *PGFlightRepository) setCrew(ctx context.Context, flightID int64, crewIDs []int64) error {
	db := r.conn(ctx)
	if _, err := db.Exec(ctx, `DELETE FROM flight_crew WHERE flight_id=$1`, flightID); err != nil {
		return translate(err, "flight", flightID)
	}
	if len(crewIDs) == 0 {
		return nil
	}
	_, err := db.Exec(ctx, `INSERT INTO flight_crew (flight_id, crew_id)
		SELECT $1, unnest($2::bigint[]) ON CONFLICT DO NOTHING`, flightID, crewIDs)
	return translate(err, "crew", 0)
}

func (r *PGFlightRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.conn(ctx), "flights", "flight", id)
}

func crewIDs(crew []domain.Crew) []int64 {
	ids := make([]int64, 0, len(crew))
	for _, c := range crew {
		ids = append(ids, c.ID)
	}
	return ids
}

var _ FlightRepository = (*PGFlightRepository)(nil)
