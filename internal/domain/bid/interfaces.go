package bid

import (
	"context"

	"github.com/rpggio/bidboard/internal/domain/project"
)

// ProjectStore is the slice of the project store bids depend on.
type ProjectStore interface {
	Handle() project.Handle
	Get(ctx context.Context, owner string, id int64) (*project.Project, error)
}
