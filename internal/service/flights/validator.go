package flights

import (
	"time"

	"github.com/Domenick1991/airport/internal/domain"
)

// DefaultCreateLead is how far ahead of departure a new flight must be scheduled.
const DefaultCreateLead = 24 * time.Hour

// ValidateFlightWindow checks departure and arrival against now. New flights
// need DefaultCreateLead of notice; updates only may not move into the past.
func ValidateFlightWindow(departure, arrival time.Time, isUpdate bool, now time.Time) error {
	return validateWindow(departure, arrival, isUpdate, now, DefaultCreateLead)
}

func validateWindow(departure, arrival time.Time, isUpdate bool, now time.Time, lead time.Duration) error {
	verr := &domain.ValidationError{}

	if !arrival.After(departure) {
		verr.Add("arrival_time", domain.ErrArrivalBeforeDeparture, "")
	}

	if isUpdate {
		if departure.Before(now) {
			verr.Add("departure_time", domain.ErrDepartureInPast, "")
		}
	} else if departure.Before(now.Add(lead)) {
		verr.Add("departure_time", domain.ErrTooCloseToCreate,
			"flights must be created at least %d hours before departure", int(lead.Hours()))
	}

	return verr.OrNil()
}
