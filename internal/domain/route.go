package domain

type Route struct {
	ID            int64
	SourceID      int64
	DestinationID int64
	Distance      int

	// Populated by list/detail reads only.
	Source      *Airport
	Destination *Airport
}

type RouteFilter struct {
	Source      string
	Destination string
}
