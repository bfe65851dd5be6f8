package repository

import (
	"context"

	"github.com/Domenick1991/airport/internal/domain"
)

type AirportRepository interface {
	List(ctx context.Context, filter domain.AirportFilter) ([]domain.Airport, error)
	GetByID(ctx context.Context, id int64) (*domain.Airport, error)
	Create(ctx context.Context, airport *domain.Airport) error
	Update(ctx context.Context, airport *domain.Airport) error
	Delete(ctx context.Context, id int64) error
}

type PGAirportRepository struct {
	executor
}

func NewAirportRepository(db DBTX) AirportRepository {
	return &PGAirportRepository{executor{db: db}}
}

func (r *PGAirportRepository) List(ctx context.Context, filter domain.AirportFilter) ([]domain.Airport, error) {
	var where whereClause
	if filter.City != "" {
		where.add("closest_big_city ILIKE $%d", containsPattern(filter.City))
	}

	rows, err := r.conn(ctx).Query(ctx, `SELECT id, name, closest_big_city FROM airports`+where.String()+` ORDER BY id`, where.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	airports := make([]domain.Airport, 0)
	for rows.Next() {
		var a domain.Airport
		if err := rows.Scan(&a.ID, &a.Name, &a.ClosestBigCity); err != nil {
			return nil, err
		}
		airports = append(airports, a)
	}
	return airports, rows.Err()
}

func (r *PGAirportRepository) GetByID(ctx context.Context, id int64) (*domain.Airport, error) {
	var a domain.Airport
	err := r.conn(ctx).QueryRow(ctx, `SELECT id, name, closest_big_city FROM airports WHERE id=$1`, id).
		Scan(&a.ID, &a.Name, &a.ClosestBigCity)
	if err != nil {
		return nil, translate(err, "airport", id)
	}
	return &a, nil
}

func (r *PGAirportRepository) Create(ctx context.Context, airport *domain.Airport) error {
	err := r.conn(ctx).QueryRow(ctx, `INSERT INTO airports (name, closest_big_city) VALUES ($1, $2) RETURNING id`,
		airport.Name, airport.ClosestBigCity).Scan(&airport.ID)
	return translate(err, "airport", 0)
}

func (r *PGAirportRepository) Update(ctx context.Context, airport *domain.Airport) error {
	err := r.conn(ctx).QueryRow(ctx, `UPDATE airports SET name=$2, closest_big_city=$3 WHERE id=$1 RETURNING id`,
		airport.ID, airport.Name, airport.ClosestBigCity).Scan(&airport.ID)
	return translate(err, "airport", airport.ID)
}

func (r *PGAirportRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.conn(ctx), "airports", "airport", id)
}

var _ AirportRepository = (*PGAirportRepository)(nil)
