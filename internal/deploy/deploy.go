// Package deploy instantiates the project store and the bid store in order,
// linking the bid store to the project store's address.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rpggio/bidboard/internal/domain/bid"
	"github.com/rpggio/bidboard/internal/domain/project"
)

// Component names recorded in the address book.
const (
	ProjectStoreName = "ProjectStore"
	BidStoreName     = "BidStore"
)

// AddressBook hands out stable component addresses.
type AddressBook interface {
	Address(ctx context.Context, name string) (string, error)
}

// Components are the inputs to Deploy.
type Components struct {
	Addresses AddressBook
	Projects  project.Repository
	Publisher project.EventPublisher
	Logger    *slog.Logger
	// Clock overrides time.Now for due-date checks.
	Clock func() time.Time
}

// Deployment holds the deployed services.
type Deployment struct {
	Projects *project.Service
	Bids     *bid.Service
}

// Deploy creates the project store first, then the bid store bound to it.
func Deploy(ctx context.Context, c Components) (*Deployment, error) {
	if c.Addresses == nil || c.Projects == nil {
		return nil, errors.New("deploy: address book and project repository are required")
	}
	logger := c.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	address, err := c.Addresses.Address(ctx, ProjectStoreName)
	if err != nil {
		return nil, fmt.Errorf("deploy %s: %w", ProjectStoreName, err)
	}

	opts := []project.Option{project.WithHandle(project.Handle(address))}
	if c.Publisher != nil {
		opts = append(opts, project.WithPublisher(c.Publisher))
	}
	if c.Clock != nil {
		opts = append(opts, project.WithClock(c.Clock))
	}
	projects := project.NewService(c.Projects, logger, opts...)
	logger.Info("deployed", "component", ProjectStoreName, "address", address)

	if _, err := c.Addresses.Address(ctx, BidStoreName); err != nil {
		return nil, fmt.Errorf("deploy %s: %w", BidStoreName, err)
	}
	bids, err := bid.NewService(projects, logger)
	if err != nil {
		return nil, fmt.Errorf("deploy %s: %w", BidStoreName, err)
	}
	logger.Info("deployed", "component", BidStoreName, "project_store", bids.Project())

	return &Deployment{Projects: projects, Bids: bids}, nil
}
