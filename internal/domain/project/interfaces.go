package project

import "context"

// Repository provides persistence for projects and per-owner counters.
type Repository interface {
	// Create increments the owner's counter and stores proj under the new count,
	// setting proj.ID. Both happen in one transaction.
	Create(ctx context.Context, owner string, proj *Project) error
	Get(ctx context.Context, owner string, id int64) (*Project, error)
	Update(ctx context.Context, owner string, proj *Project) error
	Delete(ctx context.Context, owner string, id int64) error
	List(ctx context.Context, owner string, opts ListOptions) ([]Project, error)
	ClientCount(ctx context.Context, owner string) (int64, error)
}

// EventPublisher delivers project events to interested consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}
