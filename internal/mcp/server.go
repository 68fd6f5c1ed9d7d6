package mcp

import (
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/bidboard/internal/domain/account"
)

// Services contains all domain services needed by MCP.
type Services struct {
	Projects ProjectService
	Bids     BidService
	History  HistoryService
}

// Config contains server configuration.
type Config struct {
	Services      Services
	Resolver      OwnerResolver
	AuthEnabled   bool
	TransportMode string // "stdio" or "http"
	Logger        *slog.Logger

	// DefaultIdentity is the caller when auth is off or the transport is stdio.
	DefaultIdentity account.Identity
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "bidboard",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// Later middleware wraps earlier middleware, so the owner is resolved
	// before inbound traffic is logged.
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	// Stdio is always local; HTTP authenticates when enabled.
	if cfg.TransportMode != "stdio" && cfg.AuthEnabled {
		server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))
	} else {
		server.AddReceivingMiddleware(noAuthMiddleware(cfg.DefaultIdentity))
	}

	registerTools(server, NewHandler(cfg.Services.Projects, cfg.Services.Bids, cfg.Services.History))

	return server
}
