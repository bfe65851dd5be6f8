package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	ticketSeatConstraint = "tickets_flight_seat_key"
	routePairConstraint  = "routes_source_destination_key"
	userEmailConstraint  = "users_email_key"
)

// SQLSTATE codes, see https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeCheckViolation       = "23514"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// translate maps driver errors onto the domain taxonomy so callers never see
// raw Postgres errors for business outcomes.
func translate(err error, entity string, id int64) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return &domain.NotFoundError{Entity: entity, ID: id}
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case codeUniqueViolation:
		switch pgErr.ConstraintName {
		case ticketSeatConstraint:
			return &domain.ConflictError{Constraint: pgErr.ConstraintName, Err: domain.ErrSeatTaken}
		case routePairConstraint:
			return &domain.ConflictError{Constraint: pgErr.ConstraintName, Err: domain.ErrDuplicateRoute}
		case userEmailConstraint:
			return &domain.ConflictError{Constraint: pgErr.ConstraintName, Err: domain.ErrEmailTaken}
		}
		return &domain.ConflictError{Constraint: pgErr.ConstraintName}
	case codeForeignKeyViolation:
		return &domain.NotFoundError{Entity: referencedEntity(pgErr)}
	case codeCheckViolation:
		return domain.NewValidationError(checkedField(pgErr.ConstraintName), domain.ErrInvalidField, "%s", pgErr.Message)
	case codeSerializationFailure, codeDeadlockDetected:
		return &domain.ConflictError{}
	}
	return fmt.Errorf("postgres %s: %w", pgErr.Code, err)
}

// referencedEntity guesses the missing row from constraints named
// <table>_<column>_fkey, e.g. routes_source_id_fkey -> airport.
func referencedEntity(pgErr *pgconn.PgError) string {
	col := strings.TrimSuffix(strings.TrimPrefix(pgErr.ConstraintName, pgErr.TableName+"_"), "_fkey")
	switch col {
	case "source_id", "destination_id":
		return "airport"
	case "airplane_type_id":
		return "airplane type"
	case "route_id":
		return "route"
	case "airplane_id":
		return "airplane"
	case "flight_id":
		return "flight"
	case "crew_id":
		return "crew"
	case "user_id":
		return "user"
	case "order_id":
		return "order"
	}
	return "referenced object"
}

func checkedField(constraint string) string {
	switch constraint {
	case "routes_distinct_airports_check":
		return "destination"
	case "routes_distance_check":
		return "distance"
	case "flights_arrival_after_departure_check":
		return "arrival_time"
	case "airplanes_seat_rows_check":
		return "rows"
	case "airplanes_seats_in_row_check":
		return "seats_in_row"
	case "tickets_seat_row_check":
		return "row"
	case "tickets_seat_number_check":
		return "seat"
	}
	return ""
}

// whereClause accumulates filter conditions with positional arguments.
// Each condition holds a single %d verb that receives its argument index.
type whereClause struct {
	conds []string
	args  []any
}

func (w *whereClause) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, fmt.Sprintf(cond, len(w.args)))
}

func (w *whereClause) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// containsPattern builds an ILIKE pattern matching s anywhere, with LIKE
// metacharacters in s escaped.
func containsPattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
