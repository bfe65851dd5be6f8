package users

import (
	"context"
	"testing"
	"time"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) Issue(userID int64, email string, isStaff bool) (string, time.Time, error) {
	args := m.Called(userID, email, isStaff)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func newTestService() (*UserService, *MockUserRepository, *MockTokenIssuer) {
	repo := &MockUserRepository{}
	tokens := &MockTokenIssuer{}
	logger, _ := test.NewNullLogger()
	svc := NewUserService(repo, tokens, logger)
	svc.cost = bcrypt.MinCost
	return svc, repo, tokens
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestUserService_Register(t *testing.T) {
	svc, repo, _ := newTestService()

	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "user@airport.test" && !u.IsStaff &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret-pass")) == nil
	})).Run(func(args mock.Arguments) { args.Get(1).(*domain.User).ID = 1 }).Return(nil)

	user, err := svc.Register(context.Background(), RegisterInput{Email: " User@Airport.test ", Password: "s3cret-pass"})

	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	repo.AssertExpectations(t)
}

func TestUserService_Register_Invalid(t *testing.T) {
	svc, repo, _ := newTestService()

	_, err := svc.Register(context.Background(), RegisterInput{Email: "not-an-email", Password: "short"})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 2)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserService_Register_EmailTaken(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.On("Create", mock.Anything, mock.Anything).
		Return(&domain.ConflictError{Constraint: "users_email_key", Err: domain.ErrEmailTaken})

	_, err := svc.Register(context.Background(), RegisterInput{Email: "user@airport.test", Password: "s3cret-pass"})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
	assert.Equal(t, "email", verr.Fields[0].Field)
}

func TestUserService_Login(t *testing.T) {
	svc, repo, tokens := newTestService()
	expires := time.Date(2026, 10, 19, 13, 0, 0, 0, time.UTC)
	user := &domain.User{ID: 4, Email: "admin@airport.test", PasswordHash: hashed(t, "correct-horse"), IsStaff: true}

	repo.On("GetByEmail", mock.Anything, "admin@airport.test").Return(user, nil)
	tokens.On("Issue", int64(4), "admin@airport.test", true).Return("signed", expires, nil)

	token, err := svc.Login(context.Background(), LoginInput{Email: "admin@airport.test", Password: "correct-horse"})

	require.NoError(t, err)
	assert.Equal(t, "signed", token.Access)
	assert.Equal(t, expires, token.ExpiresAt)
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	svc, repo, tokens := newTestService()
	user := &domain.User{ID: 4, Email: "admin@airport.test", PasswordHash: hashed(t, "correct-horse")}

	repo.On("GetByEmail", mock.Anything, "admin@airport.test").Return(user, nil)

	_, err := svc.Login(context.Background(), LoginInput{Email: "admin@airport.test", Password: "battery-staple"})

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	tokens.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_Login_UnknownEmail(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.On("GetByEmail", mock.Anything, "ghost@airport.test").Return(nil, &domain.NotFoundError{Entity: "user"})

	_, err := svc.Login(context.Background(), LoginInput{Email: "ghost@airport.test", Password: "whatever1"})

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestUserService_EnsureStaff(t *testing.T) {
	svc, repo, _ := newTestService()

	repo.On("GetByEmail", mock.Anything, "admin@airport.test").Return(nil, &domain.NotFoundError{Entity: "user"}).Once()
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool { return u.IsStaff })).Return(nil).Once()
	require.NoError(t, svc.EnsureStaff(context.Background(), "admin@airport.test", "admin-password"))

	repo.On("GetByEmail", mock.Anything, "admin@airport.test").Return(&domain.User{ID: 1, IsStaff: true}, nil).Once()
	require.NoError(t, svc.EnsureStaff(context.Background(), "admin@airport.test", "admin-password"))

	repo.AssertNumberOfCalls(t, "Create", 1)
}
