// Package bid is the bid store. It is wired to the project store by handle and
// can resolve projects through it. Bid records, pricing rules and the
// accept/reject workflow are not implemented.
package bid

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rpggio/bidboard/internal/domain/project"
)

// Service is the bid store.
type Service struct {
	projects ProjectStore
	project  project.Handle
	logger   *slog.Logger
}

// NewService creates a bid store bound to the given project store.
func NewService(projects ProjectStore, logger *slog.Logger) (*Service, error) {
	if projects == nil || strings.TrimSpace(string(projects.Handle())) == "" {
		return nil, ErrProjectStoreMissing
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		projects: projects,
		project:  projects.Handle(),
		logger:   logger,
	}, nil
}

// Project returns the handle of the project store this bid store was built with.
func (s *Service) Project() project.Handle {
	return s.project
}

// ResolveProject confirms a project exists before anything is recorded against it.
func (s *Service) ResolveProject(ctx context.Context, owner string, id int64) (*project.Project, error) {
	proj, err := s.projects.Get(ctx, owner, id)
	if err != nil {
		if errors.Is(err, project.ErrProjectNotFound) {
			return nil, project.ErrProjectNotFound
		}
		return nil, fmt.Errorf("resolving project: %w", err)
	}
	s.logger.Debug("project resolved", "owner", owner, "project_id", id, "store", s.project)
	return proj, nil
}
