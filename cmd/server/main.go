package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/bidboard/internal/config"
	"github.com/rpggio/bidboard/internal/deploy"
	"github.com/rpggio/bidboard/internal/domain/account"
	"github.com/rpggio/bidboard/internal/domain/history"
	"github.com/rpggio/bidboard/internal/eventbus"
	"github.com/rpggio/bidboard/internal/mcp"
	"github.com/rpggio/bidboard/internal/telemetry"
	"github.com/rpggio/bidboard/internal/transport"
	"gocloud.dev/pubsub"
	_ "gocloud.dev/pubsub/mempubsub"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "stdio" {
		logWriter = os.Stderr
	}
	if cfg.Log.Path != "" {
		lf, err := openLogFile(cfg.Log.Path, maxLogSizeBytes, keepLogSizeBytes)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer lf.Close()
			logWriter = lf
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, os.Args[1:]); err != nil {
		logger.Error("fatal", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger, args []string) error {
	store, err := openStorage(cfg.DB)
	if err != nil {
		return err
	}
	defer store.close()

	if len(args) > 0 && args[0] == "add-key" {
		return addKey(ctx, logger, store.apiKeys, args[1:])
	}

	shutdownTracing, err := telemetry.Setup(ctx, "bidboard", cfg.Telemetry.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(flushCtx)
	}()

	topic, err := pubsub.OpenTopic(ctx, cfg.Events.TopicURL)
	if err != nil {
		return fmt.Errorf("open event topic: %w", err)
	}
	defer topic.Shutdown(context.Background())

	sub, err := pubsub.OpenSubscription(ctx, cfg.Events.SubscriptionURL)
	if err != nil {
		return fmt.Errorf("open event subscription: %w", err)
	}
	defer sub.Shutdown(context.Background())

	publisher, err := eventbus.NewPublisher(topic)
	if err != nil {
		return err
	}

	historySvc := history.NewService(store.history, logger)
	ingestCtx, stopIngest := context.WithCancel(ctx)
	ingestDone := make(chan struct{})
	go func() {
		defer close(ingestDone)
		if err := eventbus.NewIngestor(sub, historySvc, logger).Run(ingestCtx); err != nil {
			logger.Error("history ingestor stopped", "error", err)
		}
	}()
	defer func() {
		stopIngest()
		<-ingestDone
	}()

	deployment, err := deploy.Deploy(ctx, deploy.Components{
		Addresses: store.addresses,
		Projects:  store.projects,
		Publisher: publisher,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	resolver, err := ownerResolver(cfg.Auth, store)
	if err != nil {
		return err
	}

	services := mcp.Services{
		Projects: deployment.Projects,
		Bids:     deployment.Bids,
		History:  historySvc,
	}
	defaultIdentity, err := cfg.Auth.DefaultIdentity()
	if err != nil {
		return err
	}
	mcpServer := mcp.NewServer(mcp.Config{
		Services:        services,
		Resolver:        resolver,
		AuthEnabled:     cfg.Auth.Enabled,
		TransportMode:   cfg.Transport.Mode,
		Logger:          logger,
		DefaultIdentity: defaultIdentity,
	})

	if cfg.Transport.Mode == "stdio" {
		return runStdioMode(ctx, logger, mcpServer)
	}

	ownerMiddleware := transport.DefaultOwnerMiddleware(defaultIdentity)
	if cfg.Auth.Enabled {
		ownerMiddleware = transport.AuthMiddleware(resolver)
	}
	rpcHandler := mcp.NewHandler(services.Projects, services.Bids, services.History)
	return runHTTPMode(ctx, logger, mcpServer, transport.NewServer(rpcHandler, ownerMiddleware), cfg.Server.Host, cfg.Server.Port)
}

type resolver interface {
	ResolveOwner(ctx context.Context, token string) (account.Identity, error)
}

const addKeyUsage = "usage: add-key <owner> <token> [client|freelancer] [description]"

// addKey registers an API key: add-key <owner> <token> [kind] [description].
func addKey(ctx context.Context, logger *slog.Logger, keys apiKeyStore, args []string) error {
	if len(args) < 2 {
		return errors.New(addKeyUsage)
	}
	kindArg, description := "", ""
	if len(args) > 2 {
		kindArg = args[2]
	}
	if len(args) > 3 {
		description = args[3]
	}
	kind, err := account.ParseKind(kindArg)
	if err != nil {
		return fmt.Errorf("%w (%s)", err, addKeyUsage)
	}
	id := account.Identity{Owner: args[0], Kind: kind}
	if err := keys.Add(ctx, args[1], id, description); err != nil {
		return err
	}
	logger.Info("api key added", "owner", id.Owner, "kind", id.Kind)
	return nil
}

func ownerResolver(cfg config.AuthConfig, store *storage) (resolver, error) {
	if cfg.Mode == "jwt" {
		return transport.NewJWTResolver(cfg.JWTSecret, cfg.JWTIssuer)
	}
	return store.apiKeys, nil
}

func runStdioMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server) error {
	logger.Info("starting stdio transport", "auth", "disabled")

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return fmt.Errorf("stdio server: %w", err)
	}
	logger.Info("shutting down")
	return nil
}

func runHTTPMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server, router *chi.Mux, host string, port int) error {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)
	router.Handle("/mcp", mcpHandler)
	router.Handle("/mcp/*", mcpHandler)

	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	return httpServer.Shutdown(shutdownCtx)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
