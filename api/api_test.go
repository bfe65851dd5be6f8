package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/airport/internal/access"
	"github.com/Domenick1991/airport/internal/auth"
	"github.com/Domenick1991/airport/internal/domain"
	"github.com/Domenick1991/airport/internal/service/flights"
	"github.com/Domenick1991/airport/internal/service/users"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	engine  *gin.Engine
	tokens  *auth.TokenService
	flights *MockFlightUseCase
	orders  *MockOrderUseCase
	users   *MockUserUseCase
	logs    *test.Hook
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger, hook := test.NewNullLogger()
	s := &testServer{
		engine:  gin.New(),
		tokens:  auth.NewTokenService("test-secret", time.Hour),
		flights: &MockFlightUseCase{},
		orders:  &MockOrderUseCase{},
		users:   &MockUserUseCase{},
		logs:    hook,
	}
	s.engine.Use(RequestLogger(logger))
	Handlers{
		Airports:  NewAirportHandler(nil),
		Airplanes: NewAirplaneHandler(nil),
		Crews:     NewCrewHandler(nil),
		Routes:    NewRouteHandler(nil),
		Flights:   NewFlightHandler(s.flights),
		Orders:    NewOrderHandler(s.orders),
		Users:     NewUserHandler(s.users),
	}.Mount(s.engine.Group(""), s.tokens)
	return s
}

func (s *testServer) token(t *testing.T, userID int64, staff bool) string {
	t.Helper()
	token, _, err := s.tokens.Issue(userID, fmt.Sprintf("user%d@airport.test", userID), staff)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

var departure = time.Date(2026, 10, 21, 9, 0, 0, 0, time.UTC)

func parisBerlin() domain.FlightSummary {
	return domain.FlightSummary{
		Flight: domain.Flight{
			ID:            1,
			RouteID:       1,
			AirplaneID:    1,
			DepartureTime: departure,
			ArrivalTime:   departure.Add(2 * time.Hour),
			CrewIDs:       []int64{3},
			Route: &domain.Route{
				ID: 1, SourceID: 1, DestinationID: 2, Distance: 5000,
				Source:      &domain.Airport{ID: 1, Name: "Charles de Gaulle", ClosestBigCity: "Paris"},
				Destination: &domain.Airport{ID: 2, Name: "Brandenburg", ClosestBigCity: "Berlin"},
			},
			Airplane: &domain.Airplane{ID: 1, Name: "A320", Rows: 60, SeatsInRow: 8, TypeName: "Narrow-body"},
			Crew:     []domain.Crew{{ID: 3, FirstName: "Amelia", LastName: "Earhart"}},
		},
		TicketsTaken: 1,
	}
}

func TestAccessPolicy_Flights(t *testing.T) {
	s := newTestServer(t)
	input := flights.FlightInput{
		Route:         1,
		Airplane:      1,
		DepartureTime: departure,
		ArrivalTime:   departure.Add(2 * time.Hour),
	}
	created := parisBerlin()
	s.flights.On("Create", mock.Anything, input).Return(&created, nil)

	w := s.do(http.MethodGet, "/flights", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/flights", s.token(t, 7, false), input)
	assert.Equal(t, http.StatusForbidden, w.Code)
	s.flights.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)

	w = s.do(http.MethodPost, "/flights", s.token(t, 1, true), input)
	require.Equal(t, http.StatusCreated, w.Code)
	var body flightResponse
	decode(t, w, &body)
	assert.Equal(t, int64(1), body.ID)
	assert.Equal(t, []int64{3}, body.Crew)
}

func TestAuthenticate_RejectsBadToken(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/flights", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/flights", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestFlightHandler_List(t *testing.T) {
	s := newTestServer(t)
	filter := domain.FlightFilter{Source: "Par", Date: time.Date(2026, 10, 21, 0, 0, 0, 0, time.UTC)}
	s.flights.On("List", mock.Anything, filter).Return([]domain.FlightSummary{parisBerlin()}, nil)

	w := s.do(http.MethodGet, "/flights?source=Par&date=2026-10-21", s.token(t, 7, false), nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"source":"Paris"`)
	assert.Contains(t, w.Body.String(), `"destination":"Berlin"`)
	assert.Contains(t, w.Body.String(), `"airplane":"A320"`)
	var body []flightListResponse
	decode(t, w, &body)
	require.Len(t, body, 1)
	assert.Equal(t, "Paris", body[0].RouteSource)
	assert.Equal(t, "Berlin", body[0].RouteDestination)
	assert.Equal(t, 480, body[0].AirplaneCapacity)
	assert.Equal(t, 479, body[0].TicketsAvailable)
	assert.Equal(t, []string{"Amelia Earhart"}, body[0].Crew)
}

func TestFlightHandler_List_BadDate(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/flights?date=21.10.2026", s.token(t, 7, false), nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body errorResponse
	decode(t, w, &body)
	require.Len(t, body.Fields, 1)
	assert.Equal(t, "date", body.Fields[0].Field)
	s.flights.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestFlightHandler_Get(t *testing.T) {
	s := newTestServer(t)
	detail := &flights.FlightDetail{FlightSummary: parisBerlin(), TakenSeats: []domain.Seat{{Row: 2, Seat: 5}}}
	s.flights.On("Get", mock.Anything, int64(1)).Return(detail, nil)

	w := s.do(http.MethodGet, "/flights/1", s.token(t, 7, false), nil)

	require.Equal(t, http.StatusOK, w.Code)
	var body flightDetailResponse
	decode(t, w, &body)
	assert.Equal(t, []seatResponse{{Row: 2, Seat: 5}}, body.TakenPlaces)
	assert.Equal(t, "Paris", body.Route.Source.ClosestBigCity)
	assert.Equal(t, 480, body.Airplane.Capacity)
	assert.Equal(t, "Earhart", body.Crew[0].LastName)
}

func TestFlightHandler_Get_InvalidID(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/flights/abc", s.token(t, 7, false), nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFlightHandler_Create_ValidationError(t *testing.T) {
	s := newTestServer(t)
	verr := domain.NewValidationError("departure_time", domain.ErrTooCloseToCreate, "")
	verr.Add("arrival_time", domain.ErrArrivalBeforeDeparture, "")
	s.flights.On("Create", mock.Anything, mock.Anything).Return(nil, verr)

	w := s.do(http.MethodPost, "/flights", s.token(t, 1, true), flights.FlightInput{Route: 1, Airplane: 1})

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body errorResponse
	decode(t, w, &body)
	assert.Equal(t, []fieldErrorResponse{
		{Field: "departure_time", Code: "too_close_to_create", Message: domain.ErrTooCloseToCreate.Error()},
		{Field: "arrival_time", Code: "arrival_before_departure", Message: domain.ErrArrivalBeforeDeparture.Error()},
	}, body.Fields)
}

func TestOrderHandler_Create(t *testing.T) {
	s := newTestServer(t)
	flight := parisBerlin()
	order := &domain.Order{
		ID:        10,
		UserID:    7,
		CreatedAt: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC),
		Tickets:   []domain.Ticket{{ID: 20, Row: 2, Seat: 5, FlightID: 1, OrderID: 10, Flight: &flight}},
	}
	s.orders.On("CreateOrder", mock.Anything, int64(7), []domain.TicketRequest{{FlightID: 1, Row: 2, Seat: 5}}).Return(order, nil)

	w := s.do(http.MethodPost, "/orders", s.token(t, 7, false), createOrderRequest{Tickets: []ticketRequest{{Flight: 1, Row: 2, Seat: 5}}})

	require.Equal(t, http.StatusCreated, w.Code)
	var body orderResponse
	decode(t, w, &body)
	assert.Equal(t, int64(10), body.ID)
	require.Len(t, body.Tickets, 1)
	assert.Equal(t, "Paris", body.Tickets[0].Flight.RouteSource)
}

func TestOrderHandler_Create_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"seat taken", domain.NewValidationError("tickets[0].seat", domain.ErrSeatTaken, "seat 5 in row 2 is already taken"), http.StatusBadRequest, "seat_taken"},
		{"row out of range", domain.NewValidationError("tickets[0].row", domain.ErrRowOutOfRange, ""), http.StatusBadRequest, "row_out_of_range"},
		{"empty order", domain.NewValidationError("tickets", domain.ErrEmptyOrder, ""), http.StatusBadRequest, "empty_order"},
		{"race lost at insert", &domain.ConflictError{Constraint: "tickets_flight_seat_key", Err: domain.ErrSeatTaken}, http.StatusConflict, "seat_taken"},
		{"serialization failure", &domain.ConflictError{}, http.StatusConflict, "conflict"},
		{"departed flight", fmt.Errorf("tickets[0]: %w", domain.ErrFlightDeparted), http.StatusForbidden, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			s.orders.On("CreateOrder", mock.Anything, int64(7), mock.Anything).Return(nil, tt.err)

			w := s.do(http.MethodPost, "/orders", s.token(t, 7, false), createOrderRequest{Tickets: []ticketRequest{{Flight: 1, Row: 2, Seat: 5}}})

			require.Equal(t, tt.wantStatus, w.Code)
			var body errorResponse
			decode(t, w, &body)
			if tt.wantCode != "" {
				require.NotEmpty(t, body.Fields)
				assert.Equal(t, tt.wantCode, body.Fields[0].Code)
			}
		})
	}
}

func TestOrderHandler_List(t *testing.T) {
	s := newTestServer(t)
	s.orders.On("ListOrders", mock.Anything, int64(7)).Return([]domain.Order{{ID: 2}, {ID: 1}}, nil)

	w := s.do(http.MethodGet, "/orders", s.token(t, 7, false), nil)

	require.Equal(t, http.StatusOK, w.Code)
	var body []orderResponse
	decode(t, w, &body)
	require.Len(t, body, 2)
	assert.Equal(t, int64(2), body[0].ID)
}

func TestOrderHandler_GetForeignOrder(t *testing.T) {
	s := newTestServer(t)
	caller := access.Principal{UserID: 7, Email: "user7@airport.test", Role: access.RoleAuthenticated}
	s.orders.On("GetOrder", mock.Anything, caller, int64(3)).Return(nil, &domain.NotFoundError{Entity: "order", ID: 3})

	w := s.do(http.MethodGet, "/orders/3", s.token(t, 7, false), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrderHandler_AnonymousRejected(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/orders", "", createOrderRequest{})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	s.orders.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserHandler_RegisterAndToken(t *testing.T) {
	s := newTestServer(t)
	expires := time.Date(2026, 10, 19, 13, 0, 0, 0, time.UTC)
	s.users.On("Register", mock.Anything, users.RegisterInput{Email: "new@airport.test", Password: "s3cret-pass"}).
		Return(&domain.User{ID: 9, Email: "new@airport.test"}, nil)
	s.users.On("Login", mock.Anything, users.LoginInput{Email: "new@airport.test", Password: "s3cret-pass"}).
		Return(&users.Token{Access: "jwt", ExpiresAt: expires}, nil)

	w := s.do(http.MethodPost, "/users", "", users.RegisterInput{Email: "new@airport.test", Password: "s3cret-pass"})
	require.Equal(t, http.StatusCreated, w.Code)
	var user userResponse
	decode(t, w, &user)
	assert.Equal(t, userResponse{ID: 9, Email: "new@airport.test"}, user)

	w = s.do(http.MethodPost, "/users/token", "", users.LoginInput{Email: "new@airport.test", Password: "s3cret-pass"})
	require.Equal(t, http.StatusOK, w.Code)
	var token tokenResponse
	decode(t, w, &token)
	assert.Equal(t, "jwt", token.Access)
}

func TestUserHandler_WrongCredentials(t *testing.T) {
	s := newTestServer(t)
	s.users.On("Login", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized))

	w := s.do(http.MethodPost, "/users/token", "", users.LoginInput{Email: "a@b.c", Password: "nope"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserHandler_Me(t *testing.T) {
	s := newTestServer(t)
	s.users.On("Me", mock.Anything, int64(7)).Return(&domain.User{ID: 7, Email: "user7@airport.test"}, nil)

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/users/me", "", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/users/me", s.token(t, 7, false), nil).Code)
}

func TestWriteError_HidesInternalErrors(t *testing.T) {
	s := newTestServer(t)
	s.flights.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("dial tcp 10.0.0.5:5432: connection refused"))

	w := s.do(http.MethodGet, "/flights", s.token(t, 7, false), nil)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())

	entry := s.logs.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Contains(t, entry.Data[logrus.ErrorKey].(error).Error(), "connection refused")
}

func TestRequestLogger_SetsRequestID(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/flights", "", nil)

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	entry := s.logs.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, w.Header().Get("X-Request-ID"), entry.Data["request_id"])
	assert.Equal(t, http.StatusUnauthorized, entry.Data["status"])
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.NewValidationError("x", domain.ErrInvalidField, ""), http.StatusBadRequest},
		{domain.ErrUnauthorized, http.StatusUnauthorized},
		{fmt.Errorf("write route: %w", domain.ErrForbidden), http.StatusForbidden},
		{&domain.NotFoundError{Entity: "flight", ID: 1}, http.StatusNotFound},
		{&domain.ConflictError{Err: domain.ErrDuplicateRoute}, http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}
