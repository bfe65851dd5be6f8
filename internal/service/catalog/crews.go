package catalog

import (
	"context"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/Domenick1991/airport/internal/repository"
	"github.com/Domenick1991/airport/internal/validation"
	"github.com/sirupsen/logrus"
)

type CrewInput struct {
	FirstName string `json:"first_name" validate:"required,max=255"`
	LastName  string `json:"last_name" validate:"required,max=255"`
}

type CrewPatch struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

func (p CrewPatch) Apply(c domain.Crew) CrewInput {
	in := CrewInput{FirstName: c.FirstName, LastName: c.LastName}
	if p.FirstName != nil {
		in.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		in.LastName = *p.LastName
	}
	return in
}

type CrewService struct {
	listing
	repo repository.CrewRepository
}

func NewCrewService(repo repository.CrewRepository, logger *logrus.Logger, opts ...Option) *CrewService {
	return &CrewService{listing: newListing(logger, opts), repo: repo}
}

func (s *CrewService) List(ctx context.Context, filter domain.CrewFilter) ([]domain.Crew, error) {
	return s.repo.List(ctx, filter)
}

func (s *CrewService) Get(ctx context.Context, id int64) (*domain.Crew, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CrewService) Create(ctx context.Context, input CrewInput) (*domain.Crew, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	crew := &domain.Crew{FirstName: input.FirstName, LastName: input.LastName}
	if err := s.repo.Create(ctx, crew); err != nil {
		return nil, err
	}
	return crew, nil
}

func (s *CrewService) Update(ctx context.Context, id int64, input CrewInput) (*domain.Crew, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	crew := &domain.Crew{ID: id, FirstName: input.FirstName, LastName: input.LastName}
	if err := s.repo.Update(ctx, crew); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return crew, nil
}

func (s *CrewService) Patch(ctx context.Context, id int64, patch CrewPatch) (*domain.Crew, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Update(ctx, id, patch.Apply(*current))
}

func (s *CrewService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}
