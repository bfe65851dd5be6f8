package repository

import (
	"context"

	"github.com/Domenick1991/airport/internal/domain"
)

type RouteRepository interface {
	List(ctx context.Context, filter domain.RouteFilter) ([]domain.Route, error)
	GetByID(ctx context.Context, id int64) (*domain.Route, error)
	// FindBetween returns the routes a->b and b->a, whichever exist.
	FindBetween(ctx context.Context, a, b int64) ([]domain.Route, error)
	Create(ctx context.Context, route *domain.Route) error
	Update(ctx context.Context, route *domain.Route) error
	Delete(ctx context.Context, id int64) error
}

type PGRouteRepository struct {
	executor
}

func NewRouteRepository(db DBTX) RouteRepository {
	return &PGRouteRepository{executor{db: db}}
}

const routeSelect = `SELECT r.id, r.source_id, r.destination_id, r.distance,
		s.name, s.closest_big_city, d.name, d.closest_big_city
	FROM routes r
	JOIN airports s ON s.id = r.source_id
	JOIN airports d ON d.id = r.destination_id`

func scanRoute(row scanner) (domain.Route, error) {
	var (
		r    domain.Route
		src  domain.Airport
		dest domain.Airport
	)
	if err := row.Scan(&r.ID, &r.SourceID, &r.DestinationID, &r.Distance,
		&src.Name, &src.ClosestBigCity, &dest.Name, &dest.ClosestBigCity); err != nil {
		return r, err
	}
	src.ID, dest.ID = r.SourceID, r.DestinationID
	r.Source, r.Destination = &src, &dest
	return r, nil
}

func (r *PGRouteRepository) List(ctx context.Context, filter domain.RouteFilter) ([]domain.Route, error) {
	var where whereClause
	if filter.Source != "" {
		where.add("s.closest_big_city ILIKE $%d", containsPattern(filter.Source))
	}
	if filter.Destination != "" {
		where.add("d.closest_big_city ILIKE $%d", containsPattern(filter.Destination))
	}
	return r.query(ctx, routeSelect+where.String()+` ORDER BY r.id`, where.args...)
}

func (r *PGRouteRepository) GetByID(ctx context.Context, id int64) (*domain.Route, error) {
	route, err := scanRoute(r.conn(ctx).QueryRow(ctx, routeSelect+` WHERE r.id=$1`, id))
	if err != nil {
		return nil, translate(err, "route", id)
	}
	return &route, nil
}

func (r *PGRouteRepository) FindBetween(ctx context.Context, a, b int64) ([]domain.Route, error) {
	return r.query(ctx, routeSelect+`
		WHERE (r.source_id=$1 AND r.destination_id=$2) OR (r.source_id=$2 AND r.destination_id=$1)
		ORDER BY r.id`, a, b)
}

func (r *PGRouteRepository) query(ctx context.Context, sql string, args ...any) ([]domain.Route, error) {
	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	routes := make([]domain.Route, 0)
	for rows.Next() {
		route, err := scanRoute(rows)
		if err != nil {
			return nil, err
		}
		routes = append(routes, route)
	}
	return routes, rows.Err()
}

func (r *PGRouteRepository) Create(ctx context.Context, route *domain.Route) error {
	err := r.conn(ctx).QueryRow(ctx, `INSERT INTO routes (source_id, destination_id, distance)
		VALUES ($1, $2, $3) RETURNING id`,
		route.SourceID, route.DestinationID, route.Distance).Scan(&route.ID)
	return translate(err, "route", 0)
}

func (r *PGRouteRepository) Update(ctx context.Context, route *domain.Route) error {
	err := r.conn(ctx).QueryRow(ctx, `UPDATE routes SET source_id=$2, destination_id=$3, distance=$4
		WHERE id=$1 RETURNING id`,
		route.ID, route.SourceID, route.DestinationID, route.Distance).Scan(&route.ID)
	return translate(err, "route", route.ID)
}

func (r *PGRouteRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.conn(ctx), "routes", "route", id)
}

var _ RouteRepository = (*PGRouteRepository)(nil)
