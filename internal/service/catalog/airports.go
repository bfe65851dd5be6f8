package catalog

import (
	"context"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/Domenick1991/airport/internal/repository"
	"github.com/Domenick1991/airport/internal/validation"
	"github.com/sirupsen/logrus"
)

type AirportInput struct {
	Name           string `json:"name" validate:"required,max=255"`
	ClosestBigCity string `json:"closest_big_city" validate:"required,max=255"`
}

type AirportPatch struct {
	Name           *string `json:"name"`
	ClosestBigCity *string `json:"closest_big_city"`
}

func (p AirportPatch) Apply(a domain.Airport) AirportInput {
	in := AirportInput{Name: a.Name, ClosestBigCity: a.ClosestBigCity}
	if p.Name != nil {
		in.Name = *p.Name
	}
	if p.ClosestBigCity != nil {
		in.ClosestBigCity = *p.ClosestBigCity
	}
	return in
}

type AirportService struct {
	listing
	repo   repository.AirportRepository
	logger *logrus.Logger
}

func NewAirportService(repo repository.AirportRepository, logger *logrus.Logger, opts ...Option) *AirportService {
	return &AirportService{listing: newListing(logger, opts), repo: repo, logger: logger}
}

func (s *AirportService) List(ctx context.Context, filter domain.AirportFilter) ([]domain.Airport, error) {
	return s.repo.List(ctx, filter)
}

func (s *AirportService) Get(ctx context.Context, id int64) (*domain.Airport, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *AirportService) Create(ctx context.Context, input AirportInput) (*domain.Airport, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	airport := &domain.Airport{Name: input.Name, ClosestBigCity: input.ClosestBigCity}
	if err := s.repo.Create(ctx, airport); err != nil {
		return nil, err
	}
	s.logger.WithField("airport_id", airport.ID).Info("airport created")
	return airport, nil
}

func (s *AirportService) Update(ctx context.Context, id int64, input AirportInput) (*domain.Airport, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	airport := &domain.Airport{ID: id, Name: input.Name, ClosestBigCity: input.ClosestBigCity}
	if err := s.repo.Update(ctx, airport); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return airport, nil
}

func (s *AirportService) Patch(ctx context.Context, id int64, patch AirportPatch) (*domain.Airport, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Update(ctx, id, patch.Apply(*current))
}

func (s *AirportService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}
