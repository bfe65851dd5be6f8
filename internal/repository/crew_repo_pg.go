package repository

import (
	"context"

	"github.com/Domenick1991/airport/internal/domain"
)

type CrewRepository interface {
	List(ctx context.Context, filter domain.CrewFilter) ([]domain.Crew, error)
	GetByID(ctx context.Context, id int64) (*domain.Crew, error)
	Create(ctx context.Context, crew *domain.Crew) error
	Update(ctx context.Context, crew *domain.Crew) error
	Delete(ctx context.Context, id int64) error
}

type PGCrewRepository struct {
	executor
}

func NewCrewRepository(db DBTX) CrewRepository {
	return &PGCrewRepository{executor{db: db}}
}

func (r *PGCrewRepository) List(ctx context.Context, filter domain.CrewFilter) ([]domain.Crew, error) {
	var where whereClause
	if filter.FirstName != "" {
		where.add("first_name ILIKE $%d", containsPattern(filter.FirstName))
	}
	if filter.LastName != "" {
		where.add("last_name ILIKE $%d", containsPattern(filter.LastName))
	}

	rows, err := r.conn(ctx).Query(ctx, `SELECT id, first_name, last_name FROM crews`+where.String()+` ORDER BY id`, where.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	crews := make([]domain.Crew, 0)
	for rows.Next() {
		var c domain.Crew
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName); err != nil {
			return nil, err
		}
		crews = append(crews, c)
	}
	return crews, rows.Err()
}

func (r *PGCrewRepository) GetByID(ctx context.Context, id int64) (*domain.Crew, error) {
	var c domain.Crew
	err := r.conn(ctx).QueryRow(ctx, `SELECT id, first_name, last_name FROM crews WHERE id=$1`, id).
		Scan(&c.ID, &c.FirstName, &c.LastName)
	if err != nil {
		return nil, translate(err, "crew", id)
	}
	return &c, nil
}

func (r *PGCrewRepository) Create(ctx context.Context, crew *domain.Crew) error {
	err := r.conn(ctx).QueryRow(ctx, `INSERT INTO crews (first_name, last_name) VALUES ($1, $2) RETURNING id`,
		crew.FirstName, crew.LastName).Scan(&crew.ID)
	return translate(err, "crew", 0)
}

func (r *PGCrewRepository) Update(ctx context.Context, crew *domain.Crew) error {
	err := r.conn(ctx).QueryRow(ctx, `UPDATE crews SET first_name=$2, last_name=$3 WHERE id=$1 RETURNING id`,
		crew.ID, crew.FirstName, crew.LastName).Scan(&crew.ID)
	return translate(err, "crew", crew.ID)
}

func (r *PGCrewRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.conn(ctx), "crews", "crew", id)
}

var _ CrewRepository = (*PGCrewRepository)(nil)
