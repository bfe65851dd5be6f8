package catalog

import (
	"context"
	"errors"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/Domenick1991/airport/internal/repository"
	"github.com/Domenick1991/airport/internal/validation"
	"github.com/sirupsen/logrus"
)

type AirplaneTypeInput struct {
	Name string `json:"name" validate:"required,max=255"`
}

type AirplaneInput struct {
	Name         string `json:"name" validate:"required,max=255"`
	Rows         int    `json:"rows" validate:"required,gt=0"`
	SeatsInRow   int    `json:"seats_in_row" validate:"required,gt=0"`
	AirplaneType int64  `json:"airplane_type" validate:"required,gt=0"`
}

type AirplanePatch struct {
	Name         *string `json:"name"`
	Rows         *int    `json:"rows"`
	SeatsInRow   *int    `json:"seats_in_row"`
	AirplaneType *int64  `json:"airplane_type"`
}

func (p AirplanePatch) Apply(a domain.Airplane) AirplaneInput {
	in := AirplaneInput{Name: a.Name, Rows: a.Rows, SeatsInRow: a.SeatsInRow, AirplaneType: a.AirplaneTypeID}
	if p.Name != nil {
		in.Name = *p.Name
	}
	if p.Rows != nil {
		in.Rows = *p.Rows
	}
	if p.SeatsInRow != nil {
		in.SeatsInRow = *p.SeatsInRow
	}
	if p.AirplaneType != nil {
		in.AirplaneType = *p.AirplaneType
	}
	return in
}

// SoldSeats reports how far into an airplane's seat map tickets are sold.
type SoldSeats interface {
	SeatExtent(ctx context.Context, airplaneID int64) (domain.Seat, error)
}

type AirplaneService struct {
	listing
	types  repository.AirplaneTypeRepository
	planes repository.AirplaneRepository
	sold   SoldSeats
	tx     repository.Transactor
	logger *logrus.Logger
}

func NewAirplaneService(
	types repository.AirplaneTypeRepository,
	planes repository.AirplaneRepository,
	sold SoldSeats,
	tx repository.Transactor,
	logger *logrus.Logger,
	opts ...Option,
) *AirplaneService {
	return &AirplaneService{
		listing: newListing(logger, opts),
		types:   types,
		planes:  planes,
		sold:    sold,
		tx:      tx,
		logger:  logger,
	}
}

func (s *AirplaneService) ListTypes(ctx context.Context) ([]domain.AirplaneType, error) {
	return s.types.List(ctx)
}

func (s *AirplaneService) CreateType(ctx context.Context, input AirplaneTypeInput) (*domain.AirplaneType, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	t := &domain.AirplaneType{Name: input.Name}
	if err := s.types.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *AirplaneService) List(ctx context.Context) ([]domain.Airplane, error) {
	return s.planes.List(ctx)
}

func (s *AirplaneService) Get(ctx context.Context, id int64) (*domain.Airplane, error) {
	return s.planes.GetByID(ctx, id)
}

func (s *AirplaneService) Create(ctx context.Context, input AirplaneInput) (*domain.Airplane, error) {
	return s.save(ctx, 0, input)
}

func (s *AirplaneService) Update(ctx context.Context, id int64, input AirplaneInput) (*domain.Airplane, error) {
	return s.save(ctx, id, input)
}

func (s *AirplaneService) Patch(ctx context.Context, id int64, patch AirplanePatch) (*domain.Airplane, error) {
	current, err := s.planes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, id, patch.Apply(*current))
}

func (s *AirplaneService) Delete(ctx context.Context, id int64) error {
	if err := s.planes.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// save stores the airplane. A resize is checked against the tickets already
// sold on its flights in the same transaction.
func (s *AirplaneService) save(ctx context.Context, id int64, input AirplaneInput) (*domain.Airplane, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	plane := &domain.Airplane{
		ID:             id,
		Name:           input.Name,
		Rows:           input.Rows,
		SeatsInRow:     input.SeatsInRow,
		AirplaneTypeID: input.AirplaneType,
	}
	var saved *domain.Airplane
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.types.GetByID(ctx, input.AirplaneType); err != nil {
			return err
		}

		if id == 0 {
			if err := s.planes.Create(ctx, plane); err != nil {
				return err
			}
		} else {
			if err := s.checkSoldSeats(ctx, *plane); err != nil {
				return err
			}
			if err := s.planes.Update(ctx, plane); err != nil {
				return err
			}
		}

		var err error
		saved, err = s.planes.GetByID(ctx, plane.ID)
		return err
	})
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			s.logger.WithError(err).WithField("airplane_id", id).Debug("airplane rejected")
		}
		return nil, err
	}

	if id != 0 {
		s.invalidate(ctx)
	}
	s.logger.WithFields(logrus.Fields{"airplane_id": saved.ID, "capacity": saved.Capacity()}).Info("airplane saved")
	return saved, nil
}

func (s *AirplaneService) checkSoldSeats(ctx context.Context, plane domain.Airplane) error {
	extent, err := s.sold.SeatExtent(ctx, plane.ID)
	if err != nil {
		return err
	}
	verr := &domain.ValidationError{}
	if extent.Row > plane.Rows {
		verr.Add("rows", domain.ErrSeatMapConflict, "tickets are sold up to row %d", extent.Row)
	}
	if extent.Seat > plane.SeatsInRow {
		verr.Add("seats_in_row", domain.ErrSeatMapConflict, "tickets are sold up to seat %d", extent.Seat)
	}
	return verr.OrNil()
}
