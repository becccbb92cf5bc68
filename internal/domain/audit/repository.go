package audit

import (
	"context"
	"time"
)

// Query filters audit log listings. Zero values mean "no filter".
type Query struct {
	Action     Action
	LicenseSID string
	Subject    string
	From       time.Time
	To         time.Time
	Limit      int
	Offset     int
}

// Repository persists audit entries. The table is append-only; there are
// deliberately no update or delete operations.
type Repository interface {
	// Create appends an entry
	Create(ctx context.Context, e *Entry) error

	// List retrieves entries matching the query, newest first
	List(ctx context.Context, q Query) ([]*Entry, error)

	// Count counts entries matching the query
	Count(ctx context.Context, q Query) (int64, error)
}
