package history

import "context"

// Repository provides persistence operations for history entries.
type Repository interface {
	Log(ctx context.Context, owner string, entry *Entry) error
	List(ctx context.Context, owner string, opts ListOptions) ([]Entry, error)
}
