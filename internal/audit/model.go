package audit

import "time"

// Entry is one immutable audit row. Entries are append-only; nothing in the
// public contract mutates or deletes them.
type Entry struct {
	ID         int64
	Username   string
	Action     string
	EntityName string
	EntityID   int64
	CreatedAt  time.Time
	Details    string
}

// Filter holds the optional search predicates. Zero values are no-ops.
type Filter struct {
	UsernameContains string
	Action           string
	EntityName       string
	From             *time.Time
	To               *time.Time
}

// Sort is a resolved sort order; Field is a storage column name from the
// allowlist in service.go.
type Sort struct {
	Field string
	Desc  bool
}

type Page struct {
	Items      []Entry
	TotalCount int64
	Page       int
	Size       int
}
