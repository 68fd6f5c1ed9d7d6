package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rpggio/bidboard/internal/repository"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/rpggio/bidboard/internal/domain/project")

// Service is the project store: validated create/update/delete over a Repository.
type Service struct {
	repo      Repository
	publisher EventPublisher
	handle    Handle
	now       func() time.Time
	logger    *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used for due date checks.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithPublisher sets where lifecycle events are sent.
func WithPublisher(p EventPublisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithHandle sets the address this store is reachable at.
func WithHandle(h Handle) Option {
	return func(s *Service) { s.handle = h }
}

// NewService creates a new project service.
func NewService(repo Repository, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Service{repo: repo, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handle returns the address of this store.
func (s *Service) Handle() Handle {
	return s.handle
}

// CreateRequest defines project creation inputs.
type CreateRequest = Fields

// UpdateRequest defines project update inputs. Every field is overwritten.
type UpdateRequest struct {
	ID int64
	Fields
}

// Create validates and stores a new project under the owner's next id.
func (s *Service) Create(ctx context.Context, owner string, req CreateRequest) (proj *Project, err error) {
	ctx, span := tracer.Start(ctx, "project.Create", trace.WithAttributes(attribute.String("owner", owner)))
	defer func() { endSpan(span, err) }()

	if strings.TrimSpace(owner) == "" {
		return nil, ErrInvalidInput
	}
	now := s.now()
	if err := ValidateFields(req, now.Unix()); err != nil {
		return nil, err
	}

	proj = &Project{Owner: owner, CreatedAt: now, UpdatedAt: now}
	req.apply(proj)

	if err := s.repo.Create(ctx, owner, proj); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}
	span.SetAttributes(attribute.Int64("project_id", proj.ID))

	s.logger.Info("project created", "owner", owner, "project_id", proj.ID)
	s.emit(ctx, EventCreated, owner, *proj, now)
	return proj, nil
}

// Update overwrites an existing project. The id must exist before input is validated.
func (s *Service) Update(ctx context.Context, owner string, req UpdateRequest) (proj *Project, err error) {
	ctx, span := tracer.Start(ctx, "project.Update", trace.WithAttributes(
		attribute.String("owner", owner),
		attribute.Int64("project_id", req.ID),
	))
	defer func() { endSpan(span, err) }()

	proj, err = s.Get(ctx, owner, req.ID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := ValidateFields(req.Fields, now.Unix()); err != nil {
		return nil, err
	}

	req.Fields.apply(proj)
	proj.UpdatedAt = now

	if err := s.repo.Update(ctx, owner, proj); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("updating project: %w", err)
	}

	s.logger.Info("project updated", "owner", owner, "project_id", proj.ID)
	s.emit(ctx, EventUpdated, owner, *proj, now)
	return proj, nil
}

// Delete removes a project. The id is never handed out again.
func (s *Service) Delete(ctx context.Context, owner string, id int64) (ok bool, err error) {
	ctx, span := tracer.Start(ctx, "project.Delete", trace.WithAttributes(
		attribute.String("owner", owner),
		attribute.Int64("project_id", id),
	))
	defer func() { endSpan(span, err) }()

	proj, err := s.Get(ctx, owner, id)
	if err != nil {
		return false, err
	}
	if err := s.repo.Delete(ctx, owner, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, ErrProjectNotFound
		}
		return false, fmt.Errorf("deleting project: %w", err)
	}

	s.logger.Info("project deleted", "owner", owner, "project_id", id)
	s.emit(ctx, EventDeleted, owner, *proj, s.now())
	return true, nil
}

// Get fetches a project by id.
func (s *Service) Get(ctx context.Context, owner string, id int64) (*Project, error) {
	if id <= 0 {
		return nil, ErrProjectNotFound
	}
	proj, err := s.repo.Get(ctx, owner, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

// List returns the owner's live projects, oldest first.
func (s *Service) List(ctx context.Context, owner string, opts ListOptions) ([]Project, error) {
	projects, err := s.repo.List(ctx, owner, opts)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return projects, nil
}

// ClientCount returns how many projects the owner has ever created.
func (s *Service) ClientCount(ctx context.Context, owner string) (int64, error) {
	count, err := s.repo.ClientCount(ctx, owner)
	if err != nil {
		return 0, fmt.Errorf("counting client projects: %w", err)
	}
	return count, nil
}

func (s *Service) emit(ctx context.Context, typ EventType, owner string, proj Project, at time.Time) {
	if s.publisher == nil {
		return
	}
	event := Event{Type: typ, Owner: owner, Project: proj, OccurredAt: at}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish project event", "type", typ, "owner", owner, "project_id", proj.ID, "error", err)
	}
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
