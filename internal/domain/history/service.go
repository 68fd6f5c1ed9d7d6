package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rpggio/bidboard/internal/domain/project"
)

// Service handles the project event history.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new history service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger}
}

// Record logs an entry with the current timestamp if missing.
func (s *Service) Record(ctx context.Context, owner string, entry *Entry) error {
	if entry == nil || strings.TrimSpace(owner) == "" {
		return ErrInvalidInput
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if err := s.repo.Log(ctx, owner, entry); err != nil {
		return fmt.Errorf("recording history: %w", err)
	}
	s.logger.Debug("history recorded", "owner", owner, "project_id", entry.ProjectID, "type", entry.Type)
	return nil
}

// Recent lists history entries, newest first.
func (s *Service) Recent(ctx context.Context, owner string, opts ListOptions) ([]Entry, error) {
	return s.repo.List(ctx, owner, opts)
}

// EntryFromEvent converts a published project event into a history entry.
func EntryFromEvent(event project.Event) (Entry, error) {
	details, err := json.Marshal(event.Project)
	if err != nil {
		return Entry{}, fmt.Errorf("encoding project state: %w", err)
	}
	return Entry{
		Owner:     event.Owner,
		ProjectID: event.Project.ID,
		Type:      event.Type,
		Summary:   summarize(event),
		Details:   string(details),
		CreatedAt: event.OccurredAt,
	}, nil
}

func summarize(event project.Event) string {
	switch event.Type {
	case project.EventCreated:
		return fmt.Sprintf("created project %d %q", event.Project.ID, event.Project.Title)
	case project.EventUpdated:
		return fmt.Sprintf("updated project %d %q", event.Project.ID, event.Project.Title)
	case project.EventDeleted:
		return fmt.Sprintf("deleted project %d", event.Project.ID)
	default:
		return string(event.Type)
	}
}
