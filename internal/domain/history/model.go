package history

import (
	"time"

	"github.com/rpggio/bidboard/internal/domain/project"
)

// Entry is one persisted project lifecycle event.
type Entry struct {
	ID        int64             `json:"id"`
	Owner     string            `json:"owner"`
	ProjectID int64             `json:"project_id"`
	Type      project.EventType `json:"type"`
	Summary   string            `json:"summary"`
	Details   string            `json:"details,omitempty"` // JSON string of the project state
	CreatedAt time.Time         `json:"created_at"`
}
