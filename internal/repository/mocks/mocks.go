package mocks

import (
	"context"

	"github.com/rpggio/bidboard/internal/domain/history"
	"github.com/rpggio/bidboard/internal/domain/project"
	"github.com/stretchr/testify/mock"
)

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, owner string, proj *project.Project) error {
	args := m.Called(ctx, owner, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, owner string, id int64) (*project.Project, error) {
	args := m.Called(ctx, owner, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Update(ctx context.Context, owner string, proj *project.Project) error {
	args := m.Called(ctx, owner, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Delete(ctx context.Context, owner string, id int64) error {
	args := m.Called(ctx, owner, id)
	return args.Error(0)
}

func (m *ProjectRepository) List(ctx context.Context, owner string, opts project.ListOptions) ([]project.Project, error) {
	args := m.Called(ctx, owner, opts)
	if list, ok := args.Get(0).([]project.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) ClientCount(ctx context.Context, owner string) (int64, error) {
	args := m.Called(ctx, owner)
	return args.Get(0).(int64), args.Error(1)
}

// EventPublisher is a mock for project.EventPublisher.
type EventPublisher struct {
	mock.Mock
}

func (m *EventPublisher) Publish(ctx context.Context, event project.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// HistoryRepository is a mock for history.Repository.
type HistoryRepository struct {
	mock.Mock
}

func (m *HistoryRepository) Log(ctx context.Context, owner string, entry *history.Entry) error {
	args := m.Called(ctx, owner, entry)
	return args.Error(0)
}

func (m *HistoryRepository) List(ctx context.Context, owner string, opts history.ListOptions) ([]history.Entry, error) {
	args := m.Called(ctx, owner, opts)
	if list, ok := args.Get(0).([]history.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
