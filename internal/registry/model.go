package registry

import "time"

type Department struct {
	ID   int64
	Name string
}

type Doctor struct {
	ID             int64
	FirstName      string
	LastName       string
	Specialization string
	DepartmentID   *int64
}

type Patient struct {
	ID        int64
	FirstName string
	LastName  string
	BirthDate *time.Time
	Phone     string
	Address   string
}

type Room struct {
	ID         int64
	RoomNumber string
	Floor      int
	RoomType   string
	// Capacity is the maximum simultaneous admitted occupants.
	// nil means unlimited.
	Capacity *int
}
