package history

import "github.com/rpggio/bidboard/internal/domain/project"

// ListOptions provides filtering options for listing history.
type ListOptions struct {
	ProjectID int64
	Type      *project.EventType
	Limit     int
	Offset    int
}
