package domain

type Crew struct {
	ID        int64
	FirstName string
	LastName  string
}

type CrewFilter struct {
	FirstName string
	LastName  string
}
