package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/Domenick1991/airport/internal/repository"
	"github.com/Domenick1991/airport/internal/validation"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type UserUseCase interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, input LoginInput) (*Token, error)
	Me(ctx context.Context, userID int64) (*domain.User, error)
}

type TokenIssuer interface {
	Issue(userID int64, email string, isStaff bool) (string, time.Time, error)
}

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type Token struct {
	Access    string
	ExpiresAt time.Time
}

type UserService struct {
	repo   repository.UserRepository
	tokens TokenIssuer
	logger *logrus.Logger
	cost   int
}

func NewUserService(repo repository.UserRepository, tokens TokenIssuer, logger *logrus.Logger) *UserService {
	return &UserService{repo: repo, tokens: tokens, logger: logger, cost: bcrypt.DefaultCost}
}

func (s *UserService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	return s.create(ctx, input, false)
}

// EnsureStaff creates a privileged account unless one with the email exists.
func (s *UserService) EnsureStaff(ctx context.Context, email, password string) error {
	_, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	_, err = s.create(ctx, RegisterInput{Email: email, Password: password}, true)
	return err
}

func (s *UserService) create(ctx context.Context, input RegisterInput, isStaff bool) (*domain.User, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{Email: input.Email, PasswordHash: string(hash), IsStaff: isStaff}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, domain.NewValidationError("email", domain.ErrEmailTaken, "")
		}
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"user_id": user.ID, "is_staff": isStaff}).Info("user registered")
	return user, nil
}

// Login exchanges credentials for an access token. Unknown emails and wrong
// passwords fail the same way.
func (s *UserService) Login(ctx context.Context, input LoginInput) (*Token, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByEmail(ctx, strings.TrimSpace(input.Email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		s.logger.WithField("user_id", user.ID).Info("login failed")
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}

	access, expiresAt, err := s.tokens.Issue(user.ID, user.Email, user.IsStaff)
	if err != nil {
		return nil, err
	}
	return &Token{Access: access, ExpiresAt: expiresAt}, nil
}

func (s *UserService) Me(ctx context.Context, userID int64) (*domain.User, error) {
	return s.repo.GetByID(ctx, userID)
}

var _ UserUseCase = (*UserService)(nil)
