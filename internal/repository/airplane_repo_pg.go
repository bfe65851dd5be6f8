package repository

import (
	"context"

	"github.com/Domenick1991/airport/internal/domain"
)

type AirplaneTypeRepository interface {
	List(ctx context.Context) ([]domain.AirplaneType, error)
	GetByID(ctx context.Context, id int64) (*domain.AirplaneType, error)
	Create(ctx context.Context, airplaneType *domain.AirplaneType) error
}

type AirplaneRepository interface {
	List(ctx context.Context) ([]domain.Airplane, error)
	GetByID(ctx context.Context, id int64) (*domain.Airplane, error)
	Create(ctx context.Context, airplane *domain.Airplane) error
	Update(ctx context.Context, airplane *domain.Airplane) error
	Delete(ctx context.Context, id int64) error
}

type PGAirplaneTypeRepository struct {
	executor
}

func NewAirplaneTypeRepository(db DBTX) AirplaneTypeRepository {
	return &PGAirplaneTypeRepository{executor{db: db}}
}

func (r *PGAirplaneTypeRepository) List(ctx context.Context) ([]domain.AirplaneType, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT id, name FROM airplane_types ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	types := make([]domain.AirplaneType, 0)
	for rows.Next() {
		var t domain.AirplaneType
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

func (r *PGAirplaneTypeRepository) GetByID(ctx context.Context, id int64) (*domain.AirplaneType, error) {
	var t domain.AirplaneType
	if err := r.conn(ctx).QueryRow(ctx, `SELECT id, name FROM airplane_types WHERE id=$1`, id).Scan(&t.ID, &t.Name); err != nil {
		return nil, translate(err, "airplane type", id)
	}
	return &t, nil
}

func (r *PGAirplaneTypeRepository) Create(ctx context.Context, airplaneType *domain.AirplaneType) error {
	err := r.conn(ctx).QueryRow(ctx, `INSERT INTO airplane_types (name) VALUES ($1) RETURNING id`, airplaneType.Name).
		Scan(&airplaneType.ID)
	return translate(err, "airplane type", 0)
}

type PGAirplaneRepository struct {
	executor
}

func NewAirplaneRepository(db DBTX) AirplaneRepository {
	return &PGAirplaneRepository{executor{db: db}}
}

const airplaneColumns = `a.id, a.name, a.seat_rows, a.seats_in_row, a.airplane_type_id, t.name`

func scanAirplane(row scanner) (domain.Airplane, error) {
	var a domain.Airplane
	err := row.Scan(&a.ID, &a.Name, &a.Rows, &a.SeatsInRow, &a.AirplaneTypeID, &a.TypeName)
	return a, err
}

func (r *PGAirplaneRepository) List(ctx context.Context) ([]domain.Airplane, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+airplaneColumns+`
		FROM airplanes a JOIN airplane_types t ON t.id = a.airplane_type_id
		ORDER BY a.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	airplanes := make([]domain.Airplane, 0)
	for rows.Next() {
		a, err := scanAirplane(rows)
		if err != nil {
			return nil, err
		}
		airplanes = append(airplanes, a)
	}
	return airplanes, rows.Err()
}

func (r *PGAirplaneRepository) GetByID(ctx context.Context, id int64) (*domain.Airplane, error) {
	a, err := scanAirplane(r.conn(ctx).QueryRow(ctx, `SELECT `+airplaneColumns+`
		FROM airplanes a JOIN airplane_types t ON t.id = a.airplane_type_id
		WHERE a.id=$1`, id))
	if err != nil {
		return nil, translate(err, "airplane", id)
	}
	return &a, nil
}

func (r *PGAirplaneRepository) Create(ctx context.Context, airplane *domain.Airplane) error {
	err := r.conn(ctx).QueryRow(ctx, `INSERT INTO airplanes (name, seat_rows, seats_in_row, airplane_type_id)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		airplane.Name, airplane.Rows, airplane.SeatsInRow, airplane.AirplaneTypeID).Scan(&airplane.ID)
	return translate(err, "airplane", 0)
}

func (r *PGAirplaneRepository) Update(ctx context.Context, airplane *domain.Airplane) error {
	err := r.conn(ctx).QueryRow(ctx, `UPDATE airplanes SET name=$2, seat_rows=$3, seats_in_row=$4, airplane_type_id=$5
		WHERE id=$1 RETURNING id`,
		airplane.ID, airplane.Name, airplane.Rows, airplane.SeatsInRow, airplane.AirplaneTypeID).Scan(&airplane.ID)
	return translate(err, "airplane", airplane.ID)
}

func (r *PGAirplaneRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.conn(ctx), "airplanes", "airplane", id)
}

var (
	_ AirplaneTypeRepository = (*PGAirplaneTypeRepository)(nil)
	_ AirplaneRepository     = (*PGAirplaneRepository)(nil)
)
