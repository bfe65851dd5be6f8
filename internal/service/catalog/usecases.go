package catalog

import (
	"context"

	"github.com/Domenick1991/airport/internal/domain"
)

type AirportUseCase interface {
	List(ctx context.Context, filter domain.AirportFilter) ([]domain.Airport, error)
	Get(ctx context.Context, id int64) (*domain.Airport, error)
	Create(ctx context.Context, input AirportInput) (*domain.Airport, error)
	Update(ctx context.Context, id int64, input AirportInput) (*domain.Airport, error)
	Patch(ctx context.Context, id int64, patch AirportPatch) (*domain.Airport, error)
	Delete(ctx context.Context, id int64) error
}

type AirplaneUseCase interface {
	ListTypes(ctx context.Context) ([]domain.AirplaneType, error)
	CreateType(ctx context.Context, input AirplaneTypeInput) (*domain.AirplaneType, error)
	List(ctx context.Context) ([]domain.Airplane, error)
	Get(ctx context.Context, id int64) (*domain.Airplane, error)
	Create(ctx context.Context, input AirplaneInput) (*domain.Airplane, error)
	Update(ctx context.Context, id int64, input AirplaneInput) (*domain.Airplane, error)
	Patch(ctx context.Context, id int64, patch AirplanePatch) (*domain.Airplane, error)
	Delete(ctx context.Context, id int64) error
}

type CrewUseCase interface {
	List(ctx context.Context, filter domain.CrewFilter) ([]domain.Crew, error)
	Get(ctx context.Context, id int64) (*domain.Crew, error)
	Create(ctx context.Context, input CrewInput) (*domain.Crew, error)
	Update(ctx context.Context, id int64, input CrewInput) (*domain.Crew, error)
	Patch(ctx context.Context, id int64, patch CrewPatch) (*domain.Crew, error)
	Delete(ctx context.Context, id int64) error
}

var (
	_ AirportUseCase  = (*AirportService)(nil)
	_ AirplaneUseCase = (*AirplaneService)(nil)
	_ CrewUseCase     = (*CrewService)(nil)
)
