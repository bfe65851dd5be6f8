package routes

import (
	"context"
	"fmt"

	"github.com/Domenick1991/airport/internal/domain"
)

// RouteLookup finds the persisted routes joining two airports in either direction.
type RouteLookup interface {
	FindBetween(ctx context.Context, a, b int64) ([]domain.Route, error)
}

// ValidateRoute checks candidate against the routes already stored between its
// airports. A non-zero candidate.ID marks an update and that route is ignored.
// Every rule runs and all violations are reported together.
func ValidateRoute(ctx context.Context, candidate domain.Route, lookup RouteLookup) error {
	existing, err := lookup.FindBetween(ctx, candidate.SourceID, candidate.DestinationID)
	if err != nil {
		return fmt.Errorf("find routes between %d and %d: %w", candidate.SourceID, candidate.DestinationID, err)
	}

	verr := &domain.ValidationError{}
	for _, r := range existing {
		if r.ID == candidate.ID && candidate.ID != 0 {
			continue
		}
		if r.SourceID == candidate.SourceID && r.DestinationID == candidate.DestinationID {
			verr.Add("non_field_errors", domain.ErrDuplicateRoute,
				"route from airport %d to airport %d already exists", candidate.SourceID, candidate.DestinationID)
			break
		}
	}

	if candidate.SourceID == candidate.DestinationID {
		verr.Add("destination", domain.ErrSelfLoopRoute, "")
	}

	if candidate.Distance <= 0 {
		verr.Add("distance", domain.ErrInvalidField, "must be greater than 0")
	}

	for _, r := range existing {
		if r.ID == candidate.ID && candidate.ID != 0 {
			continue
		}
		if r.SourceID == candidate.DestinationID && r.DestinationID == candidate.SourceID &&
			r.SourceID != r.DestinationID && r.Distance != candidate.Distance {
			verr.Add("distance", domain.ErrAsymmetricDistance,
				"reverse route has distance %d, got %d", r.Distance, candidate.Distance)
			break
		}
	}

	return verr.OrNil()
}
