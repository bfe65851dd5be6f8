package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRepositories(t *testing.T) {
	pool := &pgxpool.Pool{}
	assert.NotNil(t, NewAirportRepository(pool))
	assert.NotNil(t, NewAirplaneTypeRepository(pool))
	assert.NotNil(t, NewAirplaneRepository(pool))
	assert.NotNil(t, NewCrewRepository(pool))
	assert.NotNil(t, NewRouteRepository(pool))
	assert.NotNil(t, NewFlightRepository(pool))
	assert.NotNil(t, NewOrderRepository(pool))
	assert.NotNil(t, NewTicketRepository(pool))
	assert.NotNil(t, NewUserRepository(pool))
	assert.NotNil(t, NewTxManager(pool))
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil, "flight", 1))

	err := translate(pgx.ErrNoRows, "flight", 12)
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "flight 12 not found", nf.Error())

	err = translate(&pgconn.PgError{Code: codeUniqueViolation, ConstraintName: ticketSeatConstraint}, "ticket", 0)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.ErrorIs(t, err, domain.ErrSeatTaken)

	err = translate(&pgconn.PgError{Code: codeUniqueViolation, ConstraintName: routePairConstraint}, "route", 0)
	assert.ErrorIs(t, err, domain.ErrDuplicateRoute)

	err = translate(&pgconn.PgError{Code: codeUniqueViolation, ConstraintName: userEmailConstraint}, "user", 0)
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	err = translate(&pgconn.PgError{Code: codeForeignKeyViolation, TableName: "routes", ConstraintName: "routes_source_id_fkey"}, "route", 0)
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "airport", nf.Entity)

	err = translate(&pgconn.PgError{Code: codeForeignKeyViolation, TableName: "flight_crew", ConstraintName: "flight_crew_crew_id_fkey"}, "crew", 0)
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "crew", nf.Entity)

	err = translate(&pgconn.PgError{Code: codeCheckViolation, ConstraintName: "flights_arrival_after_departure_check", Message: "violates check"}, "flight", 0)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "arrival_time", verr.Fields[0].Field)

	err = translate(&pgconn.PgError{Code: codeSerializationFailure}, "", 0)
	assert.ErrorIs(t, err, domain.ErrConflict)

	plain := errors.New("connection reset")
	assert.Equal(t, plain, translate(plain, "flight", 1))
}

func TestWhereClause(t *testing.T) {
	var empty whereClause
	assert.Equal(t, "", empty.String())

	var w whereClause
	w.add("s.closest_big_city ILIKE $%d", containsPattern("Paris"))
	w.add("f.departure_time >= $%d", 1)
	assert.Equal(t, " WHERE s.closest_big_city ILIKE $1 AND f.departure_time >= $2", w.String())
	assert.Equal(t, []any{"%Paris%", 1}, w.args)
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%ber%", containsPattern("ber"))
	assert.Equal(t, `%100\%\_x\\%`, containsPattern(`100%_x\`))
}

func TestMigrationsEmbedded(t *testing.T) {
	body, err := migrations.ReadFile("migrations/001_init.sql")
	require.NoError(t, err)
	assert.Contains(t, string(body), ticketSeatConstraint)
	assert.Contains(t, string(body), routePairConstraint)
	assert.Contains(t, string(body), userEmailConstraint)
}

// fakeTx records how a transaction was finished.
type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
	commitErr  error
}

func (tx *fakeTx) Commit(ctx context.Context) error {
	if tx.commitErr != nil {
		return tx.commitErr
	}
	tx.committed = true
	return nil
}

func (tx *fakeTx) Rollback(ctx context.Context) error {
	if !tx.committed {
		tx.rolledBack = true
	}
	return nil
}

type fakeBeginner struct {
	DBTX
	tx    *fakeTx
	opts  pgx.TxOptions
	calls int
}

func (b *fakeBeginner) BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error) {
	b.calls++
	b.opts = opts
	return b.tx, nil
}

func TestTxManager_CommitOnSuccess(t *testing.T) {
	db := &fakeBeginner{tx: &fakeTx{}}
	m := NewTxManager(db)

	err := m.WithinTransaction(context.Background(), func(ctx context.Context) error {
		assert.Same(t, db.tx, executor{db: db}.conn(ctx))
		return nil
	})

	require.NoError(t, err)
	assert.True(t, db.tx.committed)
	assert.False(t, db.tx.rolledBack)
	assert.Equal(t, pgx.Serializable, db.opts.IsoLevel)
}

func TestTxManager_RollbackOnError(t *testing.T) {
	db := &fakeBeginner{tx: &fakeTx{}}
	m := NewTxManager(db)
	boom := errors.New("boom")

	err := m.WithinTransaction(context.Background(), func(ctx context.Context) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.False(t, db.tx.committed)
	assert.True(t, db.tx.rolledBack)
}

func TestTxManager_SerializationFailureOnCommit(t *testing.T) {
	db := &fakeBeginner{tx: &fakeTx{commitErr: &pgconn.PgError{Code: codeSerializationFailure}}}
	m := NewTxManager(db)

	err := m.WithinTransaction(context.Background(), func(ctx context.Context) error { return nil })

	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.True(t, db.tx.rolledBack)
}

func TestTxManager_NestedJoinsOuter(t *testing.T) {
	db := &fakeBeginner{tx: &fakeTx{}}
	m := NewTxManager(db)

	err := m.WithinTransaction(context.Background(), func(ctx context.Context) error {
		return m.WithinTransaction(ctx, func(ctx context.Context) error { return nil })
	})

	require.NoError(t, err)
	assert.Equal(t, 1, db.calls)
}

func TestExecutor_FallsBackToPool(t *testing.T) {
	db := &fakeBeginner{}
	assert.Same(t, db, executor{db: db}.conn(context.Background()))
}

// failingDB fails every statement with err.
type failingDB struct {
	DBTX
	err error
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

func (db failingDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, db.err
}

func (db failingDB) QueryRow(context.Context, string, ...any) pgx.Row {
	return errRow{db.err}
}

func TestTicketRepository_ReadsTranslateSerializationFailure(t *testing.T) {
	repo := NewTicketRepository(failingDB{err: &pgconn.PgError{Code: codeSerializationFailure}})
	ctx := context.Background()

	_, err := repo.Exists(ctx, 1, 2, 5)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = repo.TakenSeats(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = repo.SeatExtent(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestFlightRepository_GetByIDTranslatesSerializationFailure(t *testing.T) {
	repo := NewFlightRepository(failingDB{err: &pgconn.PgError{Code: codeSerializationFailure}})

	_, err := repo.GetByID(context.Background(), 1)

	assert.ErrorIs(t, err, domain.ErrConflict)
}
