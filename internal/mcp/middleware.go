package mcp

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/bidboard/internal/domain/account"
)

// ownerFromContext extracts the caller's owner id from context.
func ownerFromContext(ctx context.Context) string {
	id, _ := account.FromContext(ctx)
	return id.Owner
}

// OwnerResolver resolves the calling identity from a bearer token.
type OwnerResolver interface {
	ResolveOwner(ctx context.Context, token string) (account.Identity, error)
}

// authMiddleware implements bearer token authentication as MCP middleware.
func authMiddleware(resolver OwnerResolver) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			// Skip auth for protocol methods
			if method == "initialize" || method == "ping" || strings.HasPrefix(method, "notifications/") {
				return next(ctx, method, req)
			}

			extra := req.GetExtra()
			if extra == nil || extra.Header == nil {
				return nil, fmt.Errorf("unauthorized: missing headers")
			}

			auth := extra.Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if token == "" {
				return nil, fmt.Errorf("unauthorized: missing bearer token")
			}

			id, err := resolver.ResolveOwner(ctx, token)
			if err != nil {
				return nil, fmt.Errorf("unauthorized: %w", err)
			}
			if err := id.Validate(); err != nil {
				return nil, fmt.Errorf("unauthorized: %w", err)
			}

			return next(account.NewContext(ctx, id), method, req)
		}
	}
}

// noAuthMiddleware injects a default identity when auth is disabled.
func noAuthMiddleware(defaultIdentity account.Identity) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			return next(account.NewContext(ctx, defaultIdentity), method, req)
		}
	}
}
